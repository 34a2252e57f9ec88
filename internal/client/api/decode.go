package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/atinyakov/FoodKeeper/internal/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

var errRequired = errors.New("required")

// DecodeError reports a response the client refuses to interpret.
// Index is the record position within a list response, or -1.
type DecodeError struct {
	What  string
	Index int
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	b.WriteString("decode ")
	b.WriteString(e.What)
	if e.Index >= 0 {
		fmt.Fprintf(&b, "[%d]", e.Index)
	}
	if e.Field != "" {
		b.WriteString(": field ")
		b.WriteString(e.Field)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *DecodeError) Unwrap() error { return e.Err }

// wireFood is the accepted shape of a food record, including field aliases.
type wireFood struct {
	ID          string          `json:"_id"`
	AltID       string          `json:"id"`
	Title       string          `json:"title"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Quantity    json.RawMessage `json:"quantity"`
	Unit        string          `json:"unit"`
	Image       string          `json:"image"`
	ExpiryDate  *string         `json:"expiryDate"`
	Description string          `json:"description"`
	AddedDate   string          `json:"addedDate"`
	UserEmail   string          `json:"userEmail"`
	OwnerEmail  string          `json:"ownerEmail"`
}

// checkedFood holds the fields that must be well formed for a record to be used.
type checkedFood struct {
	ID         string `validate:"required"`
	Title      string `validate:"required"`
	Quantity   int    `validate:"gte=0"`
	OwnerEmail string `validate:"omitempty,email"`
}

func parseQuantity(raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}
	var n json.Number
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		n = json.Number(strings.TrimSpace(s))
	} else if err := json.Unmarshal(raw, &n); err != nil {
		return 0, err
	}
	q, err := strconv.Atoi(n.String())
	if err != nil {
		return 0, fmt.Errorf("quantity %q is not an integer", n)
	}
	return q, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func (w wireFood) toModel() (models.FoodItem, string, error) {
	q, err := parseQuantity(w.Quantity)
	if err != nil {
		return models.FoodItem{}, "quantity", err
	}
	c := checkedFood{
		ID:         firstNonEmpty(w.ID, w.AltID),
		Title:      firstNonEmpty(w.Title, w.Name),
		Quantity:   q,
		OwnerEmail: firstNonEmpty(w.UserEmail, w.OwnerEmail),
	}
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		field := ""
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field = verrs[0].Field()
		}
		return models.FoodItem{}, field, err
	}

	f := models.FoodItem{
		ID:          c.ID,
		Title:       c.Title,
		Category:    models.Category(strings.TrimSpace(w.Category)),
		Quantity:    c.Quantity,
		Unit:        w.Unit,
		Image:       w.Image,
		Description: w.Description,
		OwnerEmail:  c.OwnerEmail,
	}
	if cat, ok := models.ParseCategory(w.Category); ok {
		f.Category = cat
	}
	// A missing or malformed expiry date is not a decoding failure; the item
	// is kept and classified as having no expiry info.
	if w.ExpiryDate != nil {
		f.ExpiryDate = models.ParseDatePtr(*w.ExpiryDate)
	}
	if t, ok := models.ParseDate(w.AddedDate); ok {
		f.AddedDate = t
	}
	return f, "", nil
}

// DecodeFood decodes a single food record.
func DecodeFood(data []byte) (*models.FoodItem, error) {
	var w wireFood
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, &DecodeError{What: "food", Index: -1, Err: err}
	}
	f, field, err := w.toModel()
	if err != nil {
		return nil, &DecodeError{What: "food", Index: -1, Field: field, Err: err}
	}
	return &f, nil
}

// DecodeFoods decodes a list of food records. One malformed record fails the
// whole list.
func DecodeFoods(data []byte) ([]models.FoodItem, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &DecodeError{What: "foods", Index: -1, Err: err}
	}
	out := make([]models.FoodItem, 0, len(raw))
	for i, r := range raw {
		var w wireFood
		if err := json.Unmarshal(r, &w); err != nil {
			return nil, &DecodeError{What: "foods", Index: i, Err: err}
		}
		f, field, err := w.toModel()
		if err != nil {
			return nil, &DecodeError{What: "foods", Index: i, Field: field, Err: err}
		}
		out = append(out, f)
	}
	return out, nil
}

type wireNote struct {
	ID          string `json:"_id"`
	AltID       string `json:"id"`
	FoodID      string `json:"foodId"`
	Text        string `json:"text"`
	AuthorEmail string `json:"authorEmail"`
	CreatedAt   string `json:"createdAt"`
}

// DecodeNotes decodes a list of notes, failing on records without text.
func DecodeNotes(data []byte) ([]models.Note, error) {
	var raw []wireNote
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &DecodeError{What: "notes", Index: -1, Err: err}
	}
	out := make([]models.Note, 0, len(raw))
	for i, w := range raw {
		if strings.TrimSpace(w.Text) == "" {
			return nil, &DecodeError{What: "notes", Index: i, Field: "text", Err: errRequired}
		}
		n := models.Note{
			ID:          firstNonEmpty(w.ID, w.AltID),
			FoodID:      w.FoodID,
			Text:        w.Text,
			AuthorEmail: w.AuthorEmail,
		}
		if w.CreatedAt != "" {
			t, err := time.Parse(time.RFC3339Nano, w.CreatedAt)
			if err != nil {
				return nil, &DecodeError{What: "notes", Index: i, Field: "createdAt", Err: err}
			}
			n.CreatedAt = t
		}
		out = append(out, n)
	}
	return out, nil
}
