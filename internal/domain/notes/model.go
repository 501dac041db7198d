// Package notes manages administrator notes stored as text files.
package notes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tourbook/internal/core/entity"
)

// FileTimeLayout is the timestamp suffix of a note file name.
const FileTimeLayout = "20060102_150405"

// Note is the content of a new note.
type Note struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Validate checks title (3-100) and content (10-2000) lengths.
func (n Note) Validate(ctx context.Context) error {
	if err := entity.RequireLength("title", n.Title, 3, 100); err != nil {
		return err
	}
	return entity.RequireLength("content", n.Content, 10, 2000)
}

// FileName returns "<sanitized title>_<yyyyMMdd_HHmmss>.txt".
func (n Note) FileName(at time.Time) string {
	return SanitizeTitle(n.Title) + "_" + at.Format(FileTimeLayout) + ".txt"
}

// Body renders the stored file content.
func (n Note) Body(at time.Time) string {
	return fmt.Sprintf("Title: %s\nDate: %s\n\n%s", strings.TrimSpace(n.Title), at.Format("2006-01-02 15:04:05"), n.Content)
}

// SanitizeTitle replaces spaces and path separators with underscores.
func SanitizeTitle(title string) string {
	r := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", "..", "_")
	return r.Replace(strings.TrimSpace(title))
}

// File describes a stored note.
type File struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	Size      int64     `json:"size"`
}

// Content is a note file with its body.
type Content struct {
	File
	Body string `json:"content"`
}

// Store persists note files.
type Store interface {
	// Save writes a new file. An existing name is an error.
	Save(ctx context.Context, name, body string) (File, error)
	// List returns "*.txt" files, newest first.
	List(ctx context.Context) ([]File, error)
	// Read returns the body of a file; a missing file is NotFound.
	Read(ctx context.Context, name string) (Content, error)
}
