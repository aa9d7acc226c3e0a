package usecase

import (
	"context"

	"github.com/xavierca1/zapvendas/internal/entity"
)

// ChatModel is the external language model runtime.
type ChatModel interface {
	Chat(ctx context.Context, messages []entity.PromptMessage) (string, error)
	Model() string
}

// MessageSender delivers outbound WhatsApp messages.
type MessageSender interface {
	Send(ctx context.Context, phone, text string) error
	SendWithTyping(ctx context.Context, phone, text string) error
	IsConnected() bool
	State() string
}

type EventPublisher interface {
	Publish(ctx context.Context, event entity.LeadEvent) error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, entity.LeadEvent) error { return nil }
