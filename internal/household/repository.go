package household

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Repository is a database-backed repository for households.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Get retrieves a household by its ID. Returns nil when the household does
// not exist.
func (r *Repository) Get(ctx context.Context, id string) (*Household, error) {
	var data string
	err := r.db.QueryRowContext(ctx, `SELECT data FROM households WHERE id = ?`, id).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get household %s: %w", id, err)
	}

	var h Household
	if err := json.Unmarshal([]byte(data), &h); err != nil {
		return nil, fmt.Errorf("failed to unmarshal household JSON: %w", err)
	}
	h.ID = id
	return &h, nil
}

// Save inserts or replaces a household document.
func (r *Repository) Save(ctx context.Context, h *Household) error {
	data, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("failed to marshal household: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO households (id, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		h.ID, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save household %s: %w", h.ID, err)
	}
	return nil
}
