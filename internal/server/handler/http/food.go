package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/atinyakov/FoodKeeper/internal/middleware"
	"github.com/atinyakov/FoodKeeper/internal/models"
	"github.com/atinyakov/FoodKeeper/internal/repository"
)

// FoodService defines the food item operations required by FoodHandler.
type FoodService interface {
	List(ctx context.Context, filter repository.FoodFilter) ([]models.FoodItem, error)
	ListMine(ctx context.Context, email string) ([]models.FoodItem, error)
	ExpiringSoon(ctx context.Context) ([]models.FoodItem, error)
	Get(ctx context.Context, id string) (*models.FoodItem, error)
	Create(ctx context.Context, owner string, f models.FoodItem) (string, error)
	Update(ctx context.Context, viewer, id string, f models.FoodItem) (int64, error)
	Delete(ctx context.Context, viewer, id string) (int64, error)
}

// FoodHandler serves the food item endpoints.
type FoodHandler struct {
	FoodService FoodService
}

// FoodRequest is the create/update payload. Name is accepted as an alias of Title.
type FoodRequest struct {
	Title       string `json:"title" validate:"required_without=Name"`
	Name        string `json:"name"`
	Category    string `json:"category" validate:"required,oneof=Dairy Meat Vegetables Snacks Beverages Fruits Others"`
	Quantity    int    `json:"quantity" validate:"min=1"`
	Unit        string `json:"unit"`
	Image       string `json:"image" validate:"omitempty,url"`
	ExpiryDate  string `json:"expiryDate" validate:"required"`
	Description string `json:"description"`
}

func (req FoodRequest) toModel() (models.FoodItem, bool) {
	exp, ok := models.ParseDate(req.ExpiryDate)
	if !ok {
		return models.FoodItem{}, false
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = strings.TrimSpace(req.Name)
	}
	if title == "" {
		return models.FoodItem{}, false
	}
	return models.FoodItem{
		Title:       title,
		Category:    models.Category(req.Category),
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		Image:       req.Image,
		ExpiryDate:  &exp,
		Description: req.Description,
	}, true
}

func (h *FoodHandler) readFood(w http.ResponseWriter, r *http.Request) (models.FoodItem, bool) {
	var req FoodRequest
	if err := decode(r, &req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return models.FoodItem{}, false
	}
	f, ok := req.toModel()
	if !ok {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return models.FoodItem{}, false
	}
	return f, true
}

// parseCategories accepts repeated or comma separated category parameters.
// "All" and empty values mean no restriction.
func parseCategories(values []string) ([]models.Category, bool) {
	var out []models.Category
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" || strings.EqualFold(part, "all") {
				continue
			}
			c, ok := models.ParseCategory(part)
			if !ok {
				return nil, false
			}
			out = append(out, c)
		}
	}
	return out, true
}

// List handles GET /api/foods?search=&category=.
func (h *FoodHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	categories, ok := parseCategories(q["category"])
	if !ok {
		http.Error(w, "unknown category", http.StatusBadRequest)
		return
	}

	foods, err := h.FoodService.List(r.Context(), repository.FoodFilter{
		Search:     q.Get("search"),
		Categories: categories,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, foods)
}

// Mine handles GET /api/myfoods.
func (h *FoodHandler) Mine(w http.ResponseWriter, r *http.Request) {
	foods, err := h.FoodService.ListMine(r.Context(), middleware.GetUserEmailFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, foods)
}

// ExpiringSoon handles GET /api/foods/expiring-soon.
func (h *FoodHandler) ExpiringSoon(w http.ResponseWriter, r *http.Request) {
	foods, err := h.FoodService.ExpiringSoon(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, foods)
}

// Get handles GET /api/foods/{id}.
func (h *FoodHandler) Get(w http.ResponseWriter, r *http.Request) {
	f, err := h.FoodService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// Create handles POST /api/foods.
func (h *FoodHandler) Create(w http.ResponseWriter, r *http.Request) {
	f, ok := h.readFood(w, r)
	if !ok {
		return
	}
	id, err := h.FoodService.Create(r.Context(), middleware.GetUserEmailFromContext(r.Context()), f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"insertedId": id})
}

// Update handles PUT /api/foods/{id}.
func (h *FoodHandler) Update(w http.ResponseWriter, r *http.Request) {
	f, ok := h.readFood(w, r)
	if !ok {
		return
	}
	n, err := h.FoodService.Update(r.Context(), middleware.GetUserEmailFromContext(r.Context()), chi.URLParam(r, "id"), f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"modifiedCount": n})
}

// Delete handles DELETE /api/foods/{id}.
func (h *FoodHandler) Delete(w http.ResponseWriter, r *http.Request) {
	n, err := h.FoodService.Delete(r.Context(), middleware.GetUserEmailFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deletedCount": n})
}
