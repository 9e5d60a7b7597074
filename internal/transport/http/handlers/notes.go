package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jooshwells/nanta-mobile/internal/core/domain"
	"github.com/jooshwells/nanta-mobile/internal/transport/http/middleware"
	"github.com/jooshwells/nanta-mobile/internal/usecase"
)

// NotesHandler exposes owner-scoped note CRUD behind the session gate.
type NotesHandler struct {
	notes  *usecase.NoteService
	logger *zap.Logger
}

// NewNotesHandler constructs the notes handler.
func NewNotesHandler(notes *usecase.NoteService, log *zap.Logger) *NotesHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &NotesHandler{notes: notes, logger: log}
}

// RegisterRoutes binds the note endpoints onto an authenticated group.
func (h *NotesHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/create", h.Create)
	r.GET("", h.List)
	r.PUT("/:id", h.Update)
	r.DELETE("/:id", h.Delete)
}

// Create stores a new note for the authenticated account.
func (h *NotesHandler) Create(c *gin.Context) {
	principal, ok := middleware.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, MessageResponse{Message: "User not authenticated"})
		return
	}

	var req NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid note payload"})
		return
	}

	if _, err := h.notes.Create(c.Request.Context(), principal.ID, req.Title, req.Content); err != nil {
		h.logger.Error("note create failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, MessageResponse{Message: "Failed to create note"})
		return
	}

	c.String(http.StatusOK, "Note created successfully!")
}

// List returns the authenticated account's notes, most recently updated
// first.
func (h *NotesHandler) List(c *gin.Context) {
	principal, ok := middleware.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, MessageResponse{Message: "User not authenticated"})
		return
	}

	notes, err := h.notes.List(c.Request.Context(), principal.ID)
	if err != nil {
		h.logger.Error("note list failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, MessageResponse{Message: "Failed to retrieve notes"})
		return
	}

	views := make([]NoteView, 0, len(notes))
	for _, note := range notes {
		views = append(views, newNoteView(note))
	}

	c.JSON(http.StatusOK, NotesListResponse{
		Notes:   views,
		Message: "Notes retrieved successfully!",
	})
}

// Update rewrites a note the authenticated account owns.
func (h *NotesHandler) Update(c *gin.Context) {
	principal, ok := middleware.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, MessageResponse{Message: "User not authenticated"})
		return
	}

	var req NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid note payload"})
		return
	}

	_, err := h.notes.Update(c.Request.Context(), principal.ID, c.Param("id"), req.Title, req.Content)
	if err != nil {
		if errors.Is(err, usecase.ErrNoteNotFound) {
			c.JSON(http.StatusNotFound, MessageResponse{Message: "Note not found or unauthorized!"})
			return
		}
		h.logger.Error("note update failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, MessageResponse{Message: "Failed to update note"})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Note updated successfully!"})
}

// Delete removes a note the authenticated account owns.
func (h *NotesHandler) Delete(c *gin.Context) {
	principal, ok := middleware.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, MessageResponse{Message: "User not authenticated"})
		return
	}

	if err := h.notes.Delete(c.Request.Context(), principal.ID, c.Param("id")); err != nil {
		if errors.Is(err, usecase.ErrNoteNotFound) {
			c.JSON(http.StatusNotFound, MessageResponse{Message: "Note not found or unauthorized!"})
			return
		}
		h.logger.Error("note delete failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, MessageResponse{Message: "Failed to delete note"})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Note deleted successfully!"})
}

func newNoteView(note domain.Note) NoteView {
	return NoteView{
		ID:        note.ID,
		Title:     note.Title,
		Content:   note.Content,
		CreatedAt: note.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: note.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
