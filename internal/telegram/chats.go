package telegram

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ChatRepository maps Telegram chats to households. One chat belongs to one
// household; linking again overwrites the previous mapping.
type ChatRepository struct {
	db *sql.DB
}

// NewChatRepository creates a new ChatRepository.
func NewChatRepository(db *sql.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// Link associates a chat with a household.
func (r *ChatRepository) Link(ctx context.Context, chatID int64, householdID, chatType string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO telegram_chats (chat_id, household_id, chat_type, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET household_id = excluded.household_id, chat_type = excluded.chat_type`,
		chatID, householdID, chatType, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to link telegram chat %d: %w", chatID, err)
	}
	return nil
}

// HouseholdFor returns the household linked to a chat, or "" when unlinked.
func (r *ChatRepository) HouseholdFor(ctx context.Context, chatID int64) (string, error) {
	var householdID string
	err := r.db.QueryRowContext(ctx,
		`SELECT household_id FROM telegram_chats WHERE chat_id = ?`, chatID).Scan(&householdID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to look up telegram chat %d: %w", chatID, err)
	}
	return householdID, nil
}
