package dto

import (
	"tourbook/internal/domain/notes"
)

// CreateNoteRequest is the request body for creating a note.
type CreateNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ToNote converts DTO to domain note.
func (r *CreateNoteRequest) ToNote() notes.Note {
	return notes.Note{Title: r.Title, Content: r.Content}
}

// NoteListResponse lists stored note files.
type NoteListResponse struct {
	Items []notes.File `json:"items"`
}
