package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atinyakov/FoodKeeper/internal/models"
	"github.com/lib/pq"
)

const foodColumns = `id, owner_email, title, category, quantity, unit, image, expiry_date, description, added_date`

// FoodFilter narrows List. Empty fields match everything.
type FoodFilter struct {
	// Search matches title or category, case-insensitively.
	Search string
	// Categories restricts results to any of the listed categories.
	Categories []models.Category
}

// PostgresFoodRepository implements food item storage against PostgreSQL.
// Deleted items are only flagged; the db cleaner purges them later.
type PostgresFoodRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresFoodRepository creates a new PostgresFoodRepository using the provided *sql.DB.
func NewPostgresFoodRepository(db *sql.DB) *PostgresFoodRepository {
	return &PostgresFoodRepository{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFood(s rowScanner) (models.FoodItem, error) {
	var (
		f        models.FoodItem
		category string
		expiry   sql.NullTime
	)
	err := s.Scan(&f.ID, &f.OwnerEmail, &f.Title, &category, &f.Quantity, &f.Unit, &f.Image, &expiry, &f.Description, &f.AddedDate)
	if err != nil {
		return f, err
	}
	f.Category = models.Category(category)
	if expiry.Valid {
		t := expiry.Time
		f.ExpiryDate = &t
	}
	return f, nil
}

func (r *PostgresFoodRepository) query(ctx context.Context, name, query string, args ...any) ([]models.FoodItem, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	defer rows.Close()

	foods := []models.FoodItem{}
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		foods = append(foods, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return foods, nil
}

// escapeLike escapes the LIKE wildcards in s.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// List returns all live food items matching filter, newest first.
func (r *PostgresFoodRepository) List(ctx context.Context, filter FoodFilter) ([]models.FoodItem, error) {
	categories := make([]string, 0, len(filter.Categories))
	for _, c := range filter.Categories {
		categories = append(categories, string(c))
	}
	return r.query(ctx, "List", `
		SELECT `+foodColumns+` FROM foods
		WHERE deleted = false
		  AND ($1 = '' OR title ILIKE '%' || $1 || '%' OR category ILIKE '%' || $1 || '%')
		  AND (cardinality($2::text[]) = 0 OR category = ANY($2))
		ORDER BY added_date DESC
	`, escapeLike(strings.TrimSpace(filter.Search)), pq.Array(categories))
}

// ListByOwner returns the live food items added by email, newest first.
func (r *PostgresFoodRepository) ListByOwner(ctx context.Context, email string) ([]models.FoodItem, error) {
	return r.query(ctx, "ListByOwner", `
		SELECT `+foodColumns+` FROM foods
		WHERE deleted = false AND owner_email = $1
		ORDER BY added_date DESC
	`, email)
}

// ListExpiringBy returns live items whose expiry date is on or before cutoff.
func (r *PostgresFoodRepository) ListExpiringBy(ctx context.Context, cutoff time.Time) ([]models.FoodItem, error) {
	return r.query(ctx, "ListExpiringBy", `
		SELECT `+foodColumns+` FROM foods
		WHERE deleted = false AND expiry_date IS NOT NULL AND expiry_date <= $1
		ORDER BY expiry_date ASC
	`, cutoff)
}

// GetByID fetches a single live item or returns models.ErrNotFound.
func (r *PostgresFoodRepository) GetByID(ctx context.Context, id string) (*models.FoodItem, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+foodColumns+` FROM foods WHERE id = $1 AND deleted = false
	`, id)
	f, err := scanFood(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return &f, nil
}

func nullDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(models.DateLayout)
}

// Create inserts a new food item.
func (r *PostgresFoodRepository) Create(ctx context.Context, f models.FoodItem) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO foods (`+foodColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, f.ID, f.OwnerEmail, f.Title, string(f.Category), f.Quantity, f.Unit, f.Image, nullDate(f.ExpiryDate), f.Description, f.AddedDate)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// Update overwrites the editable fields of the owner's item and reports how
// many rows changed. Owner, id and added date are never modified.
func (r *PostgresFoodRepository) Update(ctx context.Context, f models.FoodItem) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE foods
		   SET title = $3, category = $4, quantity = $5, unit = $6, image = $7, expiry_date = $8, description = $9
		 WHERE id = $1 AND owner_email = $2 AND deleted = false
	`, f.ID, f.OwnerEmail, f.Title, string(f.Category), f.Quantity, f.Unit, f.Image, nullDate(f.ExpiryDate), f.Description)
	if err != nil {
		return 0, fmt.Errorf("Update: %w", err)
	}
	return res.RowsAffected()
}

// SoftDelete flags the owner's items with the given ids as deleted.
func (r *PostgresFoodRepository) SoftDelete(ctx context.Context, owner string, ids []string) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE foods SET deleted = true, deleted_at = now()
		 WHERE owner_email = $1 AND id = ANY($2) AND deleted = false
	`, owner, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("SoftDelete: %w", err)
	}
	return res.RowsAffected()
}
