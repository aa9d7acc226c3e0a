package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/xavierca1/zapvendas/internal/entity"
)

type ChatRepository struct {
	DB *sql.DB
}

func NewChatRepository(db *sql.DB) *ChatRepository {
	return &ChatRepository{DB: db}
}

func (r *ChatRepository) Save(ctx context.Context, leadID, phone string, role entity.ChatRole, text string, metadata *entity.MessageMetadata) (*entity.ChatMessage, error) {
	var raw []byte
	if metadata != nil {
		b, err := json.Marshal(metadata)
		if err != nil {
			return nil, fmt.Errorf("encode chat metadata: %w", err)
		}
		raw = b
	}

	msg := &entity.ChatMessage{
		ID:          uuid.New().String(),
		LeadID:      leadID,
		PhoneNumber: phone,
		Role:        role,
		Message:     text,
		Metadata:    metadata,
	}

	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO chat_history (id, lead_id, phone_number, role, message, metadata)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb)
		RETURNING created_at`,
		msg.ID, leadID, phone, string(role), text, nullableJSON(raw),
	).Scan(&msg.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert chat turn: %w", err)
	}
	return msg, nil
}

// History returns the newest limit turns for phone in ascending order.
func (r *ChatRepository) History(ctx context.Context, phone string, limit int) ([]*entity.ChatMessage, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, lead_id, phone_number, role, message, metadata, created_at
		FROM (
			SELECT id, lead_id, phone_number, role, message, metadata, created_at
			FROM chat_history
			WHERE phone_number = $1
			ORDER BY created_at DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC`,
		phone, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query chat history: %w", err)
	}
	defer rows.Close()

	history := []*entity.ChatMessage{}
	for rows.Next() {
		var (
			msg       entity.ChatMessage
			role      string
			raw       []byte
			createdAt time.Time
		)
		if err := rows.Scan(&msg.ID, &msg.LeadID, &msg.PhoneNumber, &role, &msg.Message, &raw, &createdAt); err != nil {
			return nil, fmt.Errorf("scan chat turn: %w", err)
		}
		msg.Role = entity.ChatRole(role)
		msg.CreatedAt = createdAt
		if len(raw) > 0 {
			var meta entity.MessageMetadata
			if err := json.Unmarshal(raw, &meta); err != nil {
				return nil, fmt.Errorf("decode chat metadata: %w", err)
			}
			msg.Metadata = &meta
		}
		history = append(history, &msg)
	}
	return history, rows.Err()
}

func (r *ChatRepository) ClearHistory(ctx context.Context, phone string) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM chat_history WHERE phone_number = $1`, phone)
	if err != nil {
		return 0, fmt.Errorf("clear chat history: %w", err)
	}
	return res.RowsAffected()
}

func nullableJSON(raw []byte) any {
	if raw == nil {
		return nil
	}
	return string(raw)
}
