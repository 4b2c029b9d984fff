package recipe

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

// Repository is a database-backed repository for recipes. Recipes are soft
// deleted: the row stays queryable for history, but deleted recipes never
// surface through Get or ListByHousehold.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Save inserts or updates a recipe.
func (r *Repository) Save(ctx context.Context, rec *Recipe) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal recipe to JSON: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO recipes (id, household_id, data, deleted, updated_at) VALUES (?, ?, ?, 0, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		rec.ID, rec.HouseholdID, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save recipe %s: %w", rec.ID, err)
	}
	return nil
}

// Get retrieves a recipe by its ID. Returns nil when the recipe does not
// exist or has been soft-deleted.
func (r *Repository) Get(ctx context.Context, id string) (*Recipe, error) {
	var data string
	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM recipes WHERE id = ? AND deleted = 0`, id).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get recipe by ID: %w", err)
	}

	var rec Recipe
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipe JSON: %w", err)
	}
	rec.ID = id
	return &rec, nil
}

// ListByHousehold retrieves all live recipes for a household, in insertion
// order. The matcher relies on this order being stable for tie-breaking.
func (r *Repository) ListByHousehold(ctx context.Context, householdID string) ([]Recipe, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, data FROM recipes WHERE household_id = ? AND deleted = 0 ORDER BY rowid`, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []Recipe
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("failed to scan recipe row: %w", err)
		}
		var rec Recipe
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			log.Printf("Warning: failed to unmarshal recipe JSON for ID %s: %v", id, err)
			continue
		}
		rec.ID = id
		recipes = append(recipes, rec)
	}
	return recipes, rows.Err()
}

// SoftDelete flags a recipe as deleted without removing the row. Returns
// false when the recipe does not exist or was already deleted.
func (r *Repository) SoftDelete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE recipes SET deleted = 1, deleted_at = ? WHERE id = ? AND deleted = 0`,
		time.Now().UTC(), id)
	if err != nil {
		return false, fmt.Errorf("failed to delete recipe %s: %w", id, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
