package entity

import (
	"context"
	"time"
)

type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ExtractedInfo holds profile fields pulled out of a customer message.
type ExtractedInfo struct {
	Name *string `json:"name"`
	City *string `json:"city"`
	// NameTentative is set when the name came from a loose phrase such as
	// "I'm ..." or "this is ..." rather than "my name is ...".
	NameTentative bool `json:"-"`
}

// MessageMetadata is stored as JSONB next to each chat turn.
type MessageMetadata struct {
	ExtractedInfo    *ExtractedInfo `json:"extractedInfo,omitempty"`
	RelevantProducts []string       `json:"relevantProducts,omitempty"`
	AgentRequested   bool           `json:"agentRequested,omitempty"`
	HumanTakeover    bool           `json:"humanTakeover,omitempty"`
	Error            bool           `json:"error,omitempty"`
	Model            string         `json:"model,omitempty"`
}

type ChatMessage struct {
	ID          string           `json:"id"`
	LeadID      string           `json:"lead_id"`
	PhoneNumber string           `json:"phone_number"`
	Role        ChatRole         `json:"role"`
	Message     string           `json:"message"`
	Metadata    *MessageMetadata `json:"metadata,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

type ChatRepositoryInterface interface {
	Save(ctx context.Context, leadID, phone string, role ChatRole, text string, metadata *MessageMetadata) (*ChatMessage, error)
	History(ctx context.Context, phone string, limit int) ([]*ChatMessage, error)
	ClearHistory(ctx context.Context, phone string) (int64, error)
}
