package notes

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"tourbook/internal/core/apperror"
	"tourbook/internal/domain/audit"
)

// Service creates, lists and reads notes.
type Service struct {
	store   Store
	journal *audit.Journal
	now     func() time.Time
}

// NewService creates a notes service.
func NewService(store Store, journal *audit.Journal) *Service {
	return &Service{store: store, journal: journal, now: time.Now}
}

// Create validates and stores a note.
func (s *Service) Create(ctx context.Context, n Note) (File, error) {
	if err := n.Validate(ctx); err != nil {
		return File{}, err
	}
	at := s.now()
	f, err := s.store.Save(ctx, n.FileName(at), n.Body(at))
	if err != nil {
		return File{}, err
	}
	s.journal.Record(ctx, "note '%s' saved", f.Name)
	return f, nil
}

// List returns stored notes, newest first.
func (s *Service) List(ctx context.Context) ([]File, error) {
	return s.store.List(ctx)
}

// Read returns a note by file name.
func (s *Service) Read(ctx context.Context, name string) (Content, error) {
	if err := ValidateFileName(name); err != nil {
		return Content{}, err
	}
	return s.store.Read(ctx, name)
}

// ValidateFileName rejects names that could escape the notes directory.
func ValidateFileName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) ||
		strings.Contains(name, "..") || filepath.Ext(name) != ".txt" {
		return apperror.NewFieldValidation("name", "invalid note file name").WithDetail("name", name)
	}
	return nil
}
