package handlers

import (
	"github.com/gin-gonic/gin"

	"tourbook/internal/domain/notes"
	"tourbook/internal/infrastructure/http/v1/dto"
)

// NotesHandler handles file-based notes.
type NotesHandler struct {
	*BaseHandler
	service *notes.Service
}

// NewNotesHandler creates a new notes handler.
func NewNotesHandler(base *BaseHandler, service *notes.Service) *NotesHandler {
	return &NotesHandler{BaseHandler: base, service: service}
}

// Create handles POST /notes.
func (h *NotesHandler) Create(c *gin.Context) {
	var req dto.CreateNoteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	file, err := h.service.Create(c.Request.Context(), req.ToNote())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, file)
}

// List handles GET /notes.
func (h *NotesHandler) List(c *gin.Context) {
	files, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	if files == nil {
		files = []notes.File{}
	}

	h.OK(c, dto.NoteListResponse{Items: files})
}

// Read handles GET /notes/:name.
func (h *NotesHandler) Read(c *gin.Context) {
	content, err := h.service.Read(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, content)
}
