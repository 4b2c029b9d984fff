package shopping

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

const weekStartLayout = "2006-01-02"

// Repository is a database-backed repository for shopping lists.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Replace removes any existing list for the list's meal plan and inserts this
// one, atomically. Approving a plan twice therefore rebuilds rather than
// duplicates.
func (r *Repository) Replace(ctx context.Context, list *ShoppingList) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to marshal shopping list to JSON: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM shopping_lists WHERE meal_plan_id = ?`, list.MealPlanID); err != nil {
		return fmt.Errorf("failed to clear previous shopping list: %w", err)
	}

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO shopping_lists (id, meal_plan_id, household_id, week_start, status, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		list.ID, list.MealPlanID, list.HouseholdID,
		list.WeekStartDate.Format(weekStartLayout), string(list.Status), string(data), now, now); err != nil {
		return fmt.Errorf("failed to insert shopping list: %w", err)
	}

	return tx.Commit()
}

// Save updates an existing list in place (checked items, status changes).
func (r *Repository) Save(ctx context.Context, list *ShoppingList) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to marshal shopping list to JSON: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE shopping_lists SET status = ?, data = ?, updated_at = ? WHERE id = ?`,
		string(list.Status), string(data), time.Now().UTC(), list.ID)
	if err != nil {
		return fmt.Errorf("failed to save shopping list %s: %w", list.ID, err)
	}
	return nil
}

// Get retrieves a shopping list by ID, or nil when it does not exist.
func (r *Repository) Get(ctx context.Context, id string) (*ShoppingList, error) {
	var data string
	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM shopping_lists WHERE id = ?`, id).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get shopping list by ID: %w", err)
	}

	var list ShoppingList
	if err := json.Unmarshal([]byte(data), &list); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shopping list JSON: %w", err)
	}
	list.ID = id
	return &list, nil
}

// ListActive retrieves a household's active lists, newest week first.
func (r *Repository) ListActive(ctx context.Context, householdID string) ([]ShoppingList, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, data FROM shopping_lists
		WHERE household_id = ? AND status = ?
		ORDER BY week_start DESC`, householdID, string(ListActive))
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping lists: %w", err)
	}
	defer rows.Close()

	var lists []ShoppingList
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("failed to scan shopping list row: %w", err)
		}
		var list ShoppingList
		if err := json.Unmarshal([]byte(data), &list); err != nil {
			log.Printf("Warning: failed to unmarshal shopping list JSON for ID %s: %v", id, err)
			continue
		}
		list.ID = id
		lists = append(lists, list)
	}
	return lists, rows.Err()
}
