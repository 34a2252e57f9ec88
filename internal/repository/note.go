package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/atinyakov/FoodKeeper/internal/models"
)

// PostgresNoteRepository stores the append-only notes of food items.
type PostgresNoteRepository struct {
	DB *sql.DB
}

// NewPostgresNoteRepository creates a new PostgresNoteRepository.
func NewPostgresNoteRepository(db *sql.DB) *PostgresNoteRepository {
	return &PostgresNoteRepository{DB: db}
}

// Create appends n.
func (r *PostgresNoteRepository) Create(ctx context.Context, n models.Note) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO notes (id, food_id, text, author_email, created_at) VALUES ($1, $2, $3, $4, $5)
	`, n.ID, n.FoodID, n.Text, n.AuthorEmail, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("Create note: %w", err)
	}
	return nil
}

// ListByFood returns the notes of foodID, oldest first.
func (r *PostgresNoteRepository) ListByFood(ctx context.Context, foodID string) ([]models.Note, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, food_id, text, author_email, created_at FROM notes
		WHERE food_id = $1
		ORDER BY created_at ASC, id ASC
	`, foodID)
	if err != nil {
		return nil, fmt.Errorf("ListByFood: %w", err)
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.ID, &n.FoodID, &n.Text, &n.AuthorEmail, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}
