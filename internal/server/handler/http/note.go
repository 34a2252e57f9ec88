package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/atinyakov/FoodKeeper/internal/middleware"
	"github.com/atinyakov/FoodKeeper/internal/models"
)

// NoteService defines the note operations required by NoteHandler.
type NoteService interface {
	List(ctx context.Context, foodID string) ([]models.Note, error)
	Add(ctx context.Context, viewer, foodID, text string) (string, error)
}

// NoteHandler serves the notes sub-collection of a food item.
type NoteHandler struct {
	NoteService NoteService
}

// NoteRequest is the payload for appending a note. The author is always the
// authenticated user.
type NoteRequest struct {
	Text string `json:"text" validate:"required"`
}

// List handles GET /api/foods/{id}/notes.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	notes, err := h.NoteService.List(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

// Add handles POST /api/foods/{id}/notes.
func (h *NoteHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req NoteRequest
	if err := decode(r, &req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	id, err := h.NoteService.Add(r.Context(), middleware.GetUserEmailFromContext(r.Context()), chi.URLParam(r, "id"), req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"insertedId": id})
}
