// Package models defines the core data structures for users, food items and notes.
package models

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// DateLayout is the calendar-date encoding used for expiry dates on the wire.
const DateLayout = "2006-01-02"

var (
	// ErrNotFound is returned when a food item or note does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the caller is not the owner of an item.
	ErrForbidden = errors.New("forbidden")
	// ErrAlreadyExists is returned when registering an e-mail that is taken.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidCredentials is returned when login fails.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized is returned when a request needs a session and has none.
	ErrUnauthorized = errors.New("unauthorized")
)

// User represents an application user with credentials.
type User struct {
	// Email is the identity of the user.
	Email string
	// Name is the display name.
	Name string
	// PhotoURL points to the avatar image.
	PhotoURL string
	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash []byte
	// CreatedAt is when the account was registered.
	CreatedAt time.Time
}

// Category is the closed set of food categories.
type Category string

const (
	Dairy      Category = "Dairy"
	Meat       Category = "Meat"
	Vegetables Category = "Vegetables"
	Snacks     Category = "Snacks"
	Beverages  Category = "Beverages"
	Fruits     Category = "Fruits"
	Others     Category = "Others"
)

// Categories lists every category in display order.
var Categories = []Category{Dairy, Meat, Vegetables, Snacks, Beverages, Fruits, Others}

// ParseCategory matches s against the known categories ignoring case.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if strings.EqualFold(string(c), strings.TrimSpace(s)) {
			return c, true
		}
	}
	return "", false
}

// FoodItem is a single tracked item in a user's inventory.
type FoodItem struct {
	ID          string
	Title       string
	Category    Category
	Quantity    int
	Unit        string
	Image       string
	ExpiryDate  *time.Time
	Description string
	AddedDate   time.Time
	OwnerEmail  string
}

type foodItemJSON struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Category    Category  `json:"category"`
	Quantity    int       `json:"quantity"`
	Unit        string    `json:"unit,omitempty"`
	Image       string    `json:"image,omitempty"`
	ExpiryDate  string    `json:"expiryDate,omitempty"`
	Description string    `json:"description,omitempty"`
	AddedDate   time.Time `json:"addedDate"`
	OwnerEmail  string    `json:"userEmail"`
}

// MarshalJSON encodes the item in its wire shape with a calendar-date expiry.
func (f FoodItem) MarshalJSON() ([]byte, error) {
	out := foodItemJSON{
		ID:          f.ID,
		Title:       f.Title,
		Category:    f.Category,
		Quantity:    f.Quantity,
		Unit:        f.Unit,
		Image:       f.Image,
		Description: f.Description,
		AddedDate:   f.AddedDate,
		OwnerEmail:  f.OwnerEmail,
	}
	if f.ExpiryDate != nil {
		out.ExpiryDate = f.ExpiryDate.Format(DateLayout)
	}
	return json.Marshal(out)
}

// UnmarshalJSON reverses MarshalJSON. An expiry date ParseDate rejects is dropped.
func (f *FoodItem) UnmarshalJSON(b []byte) error {
	var in foodItemJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*f = FoodItem{
		ID:          in.ID,
		Title:       in.Title,
		Category:    in.Category,
		Quantity:    in.Quantity,
		Unit:        in.Unit,
		Image:       in.Image,
		Description: in.Description,
		AddedDate:   in.AddedDate,
		OwnerEmail:  in.OwnerEmail,
	}
	f.ExpiryDate = ParseDatePtr(in.ExpiryDate)
	return nil
}

// Note is an append-only annotation on a food item.
type Note struct {
	ID          string    `json:"_id"`
	FoodID      string    `json:"foodId"`
	Text        string    `json:"text"`
	AuthorEmail string    `json:"authorEmail"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CanAnnotate reports whether viewerEmail owns item. An empty viewer never
// matches, so a signed-out viewer cannot annotate an item with no owner.
// The same rule gates update and delete.
func CanAnnotate(item FoodItem, viewerEmail string) bool {
	return viewerEmail != "" && viewerEmail == item.OwnerEmail
}
