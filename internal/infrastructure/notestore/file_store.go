// Package notestore stores administrator notes as text files in a directory.
package notestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"tourbook/internal/core/apperror"
	"tourbook/internal/domain/notes"
)

// Compile-time interface check
var _ notes.Store = (*FileStore)(nil)

// FileStore implements notes.Store on the local filesystem.
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir. The directory is created on first save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the root directory.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(name string) (string, error) {
	if err := notes.ValidateFileName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name), nil
}

// Save writes a new note file. An existing file with the same name is a conflict.
func (s *FileStore) Save(ctx context.Context, name, body string) (notes.File, error) {
	p, err := s.path(name)
	if err != nil {
		return notes.File{}, err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return notes.File{}, fmt.Errorf("create notes directory: %w", err)
	}

	f, err := os.OpenFile(p, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return notes.File{}, apperror.NewDuplicate("note", "name", name)
		}
		return notes.File{}, fmt.Errorf("create note: %w", err)
	}
	if _, err := f.WriteString(body); err != nil {
		_ = f.Close()
		return notes.File{}, fmt.Errorf("write note: %w", err)
	}
	if err := f.Close(); err != nil {
		return notes.File{}, fmt.Errorf("close note: %w", err)
	}

	info, err := os.Stat(p)
	if err != nil {
		return notes.File{}, fmt.Errorf("stat note: %w", err)
	}
	return fileOf(info), nil
}

// List returns "*.txt" files, newest first. A missing directory is an empty list.
func (s *FileStore) List(ctx context.Context) ([]notes.File, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []notes.File{}, nil
		}
		return nil, fmt.Errorf("read notes directory: %w", err)
	}

	files := make([]notes.File, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".txt" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, fileOf(info))
	}

	sort.SliceStable(files, func(i, j int) bool {
		if files[i].CreatedAt.Equal(files[j].CreatedAt) {
			return files[i].Name > files[j].Name
		}
		return files[i].CreatedAt.After(files[j].CreatedAt)
	})
	return files, nil
}

// Read returns the note body. A missing file is NotFound.
func (s *FileStore) Read(ctx context.Context, name string) (notes.Content, error) {
	p, err := s.path(name)
	if err != nil {
		return notes.Content{}, err
	}
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return notes.Content{}, apperror.NewNotFound("note", name)
		}
		return notes.Content{}, fmt.Errorf("stat note: %w", err)
	}
	body, err := os.ReadFile(p)
	if err != nil {
		return notes.Content{}, fmt.Errorf("read note: %w", err)
	}
	return notes.Content{File: fileOf(info), Body: string(body)}, nil
}

func fileOf(info fs.FileInfo) notes.File {
	return notes.File{
		Name:      info.Name(),
		CreatedAt: info.ModTime().UTC(),
		Size:      info.Size(),
	}
}
