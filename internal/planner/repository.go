package planner

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

const weekStartLayout = "2006-01-02"

// Repository is a database-backed repository for meal plans. Like recipes,
// plans are soft deleted and never resurface after deletion.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Save inserts or updates a meal plan. The status column is kept alongside
// the JSON document so lookups can filter without unmarshaling.
func (r *Repository) Save(ctx context.Context, plan *MealPlan) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal meal plan to JSON: %w", err)
	}

	now := time.Now().UTC()
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO meal_plans (id, household_id, week_start, status, data, deleted, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 0, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status, data = excluded.data, updated_at = excluded.updated_at`,
		plan.ID, plan.HouseholdID, plan.WeekStartDate.Format(weekStartLayout),
		string(plan.Status), string(data), now, now)
	if err != nil {
		return fmt.Errorf("failed to save meal plan %s: %w", plan.ID, err)
	}
	return nil
}

// Get retrieves a meal plan by ID. Returns nil when the plan does not exist
// or has been soft-deleted.
func (r *Repository) Get(ctx context.Context, id string) (*MealPlan, error) {
	var data string
	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM meal_plans WHERE id = ? AND deleted = 0`, id).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get meal plan by ID: %w", err)
	}

	var plan MealPlan
	if err := json.Unmarshal([]byte(data), &plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal meal plan JSON: %w", err)
	}
	plan.ID = id
	return &plan, nil
}

// GetByWeek retrieves a household's live plan for a given week, or nil.
func (r *Repository) GetByWeek(ctx context.Context, householdID string, weekStart time.Time) (*MealPlan, error) {
	var id, data string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, data FROM meal_plans
		WHERE household_id = ? AND week_start = ? AND deleted = 0
		ORDER BY updated_at DESC LIMIT 1`,
		householdID, weekStart.Format(weekStartLayout)).Scan(&id, &data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get meal plan for week: %w", err)
	}

	var plan MealPlan
	if err := json.Unmarshal([]byte(data), &plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal meal plan JSON: %w", err)
	}
	plan.ID = id
	return &plan, nil
}

// SoftDelete flags a plan as deleted without removing the row. Returns false
// when the plan does not exist or was already deleted.
func (r *Repository) SoftDelete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE meal_plans SET deleted = 1, deleted_at = ? WHERE id = ? AND deleted = 0`,
		time.Now().UTC(), id)
	if err != nil {
		return false, fmt.Errorf("failed to delete meal plan %s: %w", id, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
