package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/atinyakov/FoodKeeper/internal/models"
)

// NoteRepository defines the persistence operations needed by NoteService.
type NoteRepository interface {
	Create(ctx context.Context, n models.Note) error
	ListByFood(ctx context.Context, foodID string) ([]models.Note, error)
}

// FoodGetter looks up a single food item.
type FoodGetter interface {
	GetByID(ctx context.Context, id string) (*models.FoodItem, error)
}

// NoteService appends and lists notes. Only an item's owner may add notes.
type NoteService struct {
	notes NoteRepository
	foods FoodGetter
	now   func() time.Time
}

// NewNoteService constructs a NoteService.
func NewNoteService(notes NoteRepository, foods FoodGetter) *NoteService {
	return &NoteService{notes: notes, foods: foods, now: time.Now}
}

// List returns the notes of foodID, oldest first.
func (s *NoteService) List(ctx context.Context, foodID string) ([]models.Note, error) {
	if _, err := s.foods.GetByID(ctx, foodID); err != nil {
		return nil, err
	}
	return s.notes.ListByFood(ctx, foodID)
}

// Add appends a note written by viewer to foodID and returns the note id.
func (s *NoteService) Add(ctx context.Context, viewer, foodID, text string) (string, error) {
	item, err := s.foods.GetByID(ctx, foodID)
	if err != nil {
		return "", err
	}
	if !models.CanAnnotate(*item, viewer) {
		return "", models.ErrForbidden
	}

	n := models.Note{
		ID:          uuid.NewString(),
		FoodID:      foodID,
		Text:        text,
		AuthorEmail: viewer,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.notes.Create(ctx, n); err != nil {
		return "", err
	}
	return n.ID, nil
}
