package evaluation

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Record is one persisted evaluation outcome, kept for tracking quality
// over time.
type Record struct {
	ID            string         `json:"id"`
	OperationType string         `json:"operationType"` // generate_plan, regenerate_slot, import_recipe
	HouseholdID   string         `json:"householdId"`
	Scores        Scores         `json:"scores"`
	Passed        bool           `json:"passed"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// Store persists evaluation results. Failures to record are the caller's to
// tolerate: evaluation history must never block the operation it measures.
type Store struct {
	db *sql.DB
}

// NewStore creates a new Store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Save records one evaluation outcome.
func (s *Store) Save(ctx context.Context, operationType, householdID string, result *Result, metadata map[string]any) error {
	scores, err := json.Marshal(result.Scores)
	if err != nil {
		return fmt.Errorf("failed to marshal scores: %w", err)
	}
	meta, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO evaluation_results (id, operation_type, household_id, scores, passed, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), operationType, householdID, string(scores), result.Passed, string(meta), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save evaluation result: %w", err)
	}
	return nil
}

// ListRecent returns a household's most recent evaluation records.
func (s *Store) ListRecent(ctx context.Context, householdID string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, operation_type, scores, passed, metadata, created_at
		FROM evaluation_results
		WHERE household_id = ?
		ORDER BY created_at DESC LIMIT ?`, householdID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluation results: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var scores, meta string
		if err := rows.Scan(&rec.ID, &rec.OperationType, &scores, &rec.Passed, &meta, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan evaluation row: %w", err)
		}
		rec.HouseholdID = householdID
		if err := json.Unmarshal([]byte(scores), &rec.Scores); err != nil {
			return nil, fmt.Errorf("failed to unmarshal scores: %w", err)
		}
		if meta != "" && meta != "null" {
			if err := json.Unmarshal([]byte(meta), &rec.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
