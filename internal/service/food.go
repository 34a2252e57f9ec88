package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/atinyakov/FoodKeeper/internal/expiry"
	"github.com/atinyakov/FoodKeeper/internal/models"
	"github.com/atinyakov/FoodKeeper/internal/repository"
)

// FoodRepository defines the persistence operations needed by FoodService.
type FoodRepository interface {
	List(ctx context.Context, filter repository.FoodFilter) ([]models.FoodItem, error)
	ListByOwner(ctx context.Context, email string) ([]models.FoodItem, error)
	// ListExpiringBy returns items with an expiry date on or before cutoff.
	ListExpiringBy(ctx context.Context, cutoff time.Time) ([]models.FoodItem, error)
	// GetByID returns models.ErrNotFound for unknown or deleted items.
	GetByID(ctx context.Context, id string) (*models.FoodItem, error)
	Create(ctx context.Context, f models.FoodItem) error
	Update(ctx context.Context, f models.FoodItem) (int64, error)
	SoftDelete(ctx context.Context, owner string, ids []string) (int64, error)
}

// FoodService implements food item business logic. It is the authoritative
// enforcement point of the ownership rule.
type FoodService struct {
	repo      FoodRepository
	threshold int
	now       func() time.Time
}

// NewFoodService constructs a FoodService. soonThresholdDays drives ExpiringSoon.
func NewFoodService(repo FoodRepository, soonThresholdDays int) *FoodService {
	if soonThresholdDays <= 0 {
		soonThresholdDays = expiry.DefaultSoonThresholdDays
	}
	return &FoodService{repo: repo, threshold: soonThresholdDays, now: time.Now}
}

// List returns all items matching filter.
func (s *FoodService) List(ctx context.Context, filter repository.FoodFilter) ([]models.FoodItem, error) {
	return s.repo.List(ctx, filter)
}

// ListMine returns the items owned by email.
func (s *FoodService) ListMine(ctx context.Context, email string) ([]models.FoodItem, error) {
	return s.repo.ListByOwner(ctx, email)
}

// Get returns a single item.
func (s *FoodService) Get(ctx context.Context, id string) (*models.FoodItem, error) {
	return s.repo.GetByID(ctx, id)
}

// ExpiringSoon returns the items that are expiring soon or already expired,
// soonest first, classified exactly as the client classifies them.
func (s *FoodService) ExpiringSoon(ctx context.Context) ([]models.FoodItem, error) {
	now := s.now()
	y, m, d := now.Date()
	cutoff := time.Date(y, m, d+s.threshold, 0, 0, 0, 0, time.UTC)

	items, err := s.repo.ListExpiringBy(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	return expiry.NearlyExpiring(items, now, s.threshold), nil
}

// Create stores f as a new item owned by owner and returns its id.
// Id, owner and added date are assigned here and never taken from the client.
func (s *FoodService) Create(ctx context.Context, owner string, f models.FoodItem) (string, error) {
	f.ID = uuid.NewString()
	f.OwnerEmail = owner
	f.AddedDate = s.now().UTC()
	if err := s.repo.Create(ctx, f); err != nil {
		return "", err
	}
	return f.ID, nil
}

// owned loads id and checks that viewer may modify it.
func (s *FoodService) owned(ctx context.Context, viewer, id string) (*models.FoodItem, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.CanAnnotate(*current, viewer) {
		return nil, models.ErrForbidden
	}
	return current, nil
}

// Update replaces the editable fields of item id on behalf of viewer.
func (s *FoodService) Update(ctx context.Context, viewer, id string, f models.FoodItem) (int64, error) {
	current, err := s.owned(ctx, viewer, id)
	if err != nil {
		return 0, err
	}
	f.ID = current.ID
	f.OwnerEmail = current.OwnerEmail
	f.AddedDate = current.AddedDate

	n, err := s.repo.Update(ctx, f)
	if err != nil {
		return 0, fmt.Errorf("update food %s: %w", id, err)
	}
	return n, nil
}

// Delete removes item id on behalf of viewer.
func (s *FoodService) Delete(ctx context.Context, viewer, id string) (int64, error) {
	if _, err := s.owned(ctx, viewer, id); err != nil {
		return 0, err
	}
	n, err := s.repo.SoftDelete(ctx, viewer, []string{id})
	if err != nil {
		return 0, fmt.Errorf("delete food %s: %w", id, err)
	}
	return n, nil
}
