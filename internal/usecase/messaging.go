package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/xavierca1/zapvendas/internal/entity"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// MessagingService backs the dashboard's messaging endpoints.
type MessagingService struct {
	Sender         MessageSender
	Chats          entity.ChatRepositoryInterface
	BroadcastDelay time.Duration
}

func NewMessagingService(sender MessageSender, chats entity.ChatRepositoryInterface, broadcastDelay time.Duration) *MessagingService {
	return &MessagingService{Sender: sender, Chats: chats, BroadcastDelay: broadcastDelay}
}

func (uc *MessagingService) Send(ctx context.Context, input SendMessageInput) (*SendMessageOutput, error) {
	if err := joinValidationErrors(ValidateSendMessageInput(input)); err != nil {
		return nil, err
	}

	phone := entity.NormalizePhone(input.PhoneNumber)
	var err error
	if input.WithTyping {
		err = uc.Sender.SendWithTyping(ctx, phone, input.Message)
	} else {
		err = uc.Sender.Send(ctx, phone, input.Message)
	}
	if err != nil {
		return nil, &TechnicalError{Code: CodeSendFailed, Message: "failed to send message", Err: err}
	}

	return &SendMessageOutput{PhoneNumber: phone, Message: input.Message, WithTyping: input.WithTyping}, nil
}

// Broadcast sends sequentially with BroadcastDelay between recipients. Every
// recipient ends up in exactly one of the result lists.
func (uc *MessagingService) Broadcast(ctx context.Context, input BroadcastInput) (*BroadcastResult, error) {
	if err := joinValidationErrors(ValidateBroadcastInput(input)); err != nil {
		return nil, err
	}

	recipients := uniqueRecipients(input.PhoneNumbers)
	result := &BroadcastResult{Success: []string{}, Failed: []BroadcastFailure{}}
	for i, raw := range recipients {
		if i > 0 && uc.BroadcastDelay > 0 {
			if err := sleep(ctx, uc.BroadcastDelay); err != nil {
				for _, rest := range recipients[i:] {
					result.Failed = append(result.Failed, BroadcastFailure{PhoneNumber: rest, Error: err.Error()})
				}
				break
			}
		}

		if !isValidPhoneNumber(raw) {
			result.Failed = append(result.Failed, BroadcastFailure{PhoneNumber: raw, Error: "invalid phone number"})
			continue
		}
		if err := uc.Sender.Send(ctx, entity.NormalizePhone(raw), input.Message); err != nil {
			log.Warn().Err(err).Str("phone", raw).Msg("⚠️ Broadcast send failed")
			result.Failed = append(result.Failed, BroadcastFailure{PhoneNumber: raw, Error: err.Error()})
			continue
		}
		result.Success = append(result.Success, raw)
	}

	log.Info().Int("sent", len(result.Success)).Int("failed", len(result.Failed)).Msg("📣 Broadcast finished")
	return result, nil
}

func (uc *MessagingService) History(ctx context.Context, phone string, limit int) ([]*entity.ChatMessage, error) {
	phone = entity.NormalizePhone(phone)
	if phone == "" {
		return nil, validationError("phone number is required")
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	history, err := uc.Chats.History(ctx, phone, limit)
	if err != nil {
		return nil, databaseError("failed to load chat history", err)
	}
	return history, nil
}

func (uc *MessagingService) ClearHistory(ctx context.Context, phone string) (int64, error) {
	phone = entity.NormalizePhone(phone)
	if phone == "" {
		return 0, validationError("phone number is required")
	}
	n, err := uc.Chats.ClearHistory(ctx, phone)
	if err != nil {
		return 0, databaseError("failed to clear chat history", err)
	}
	return n, nil
}

func (uc *MessagingService) Status() ConnectionStatus {
	connected := uc.Sender.IsConnected()
	status := "offline"
	if connected {
		status = "online"
	}
	return ConnectionStatus{Connected: connected, Status: status, State: uc.Sender.State()}
}

// uniqueRecipients keeps the first spelling of every number; two spellings
// of the same normalized number count once.
func uniqueRecipients(phones []string) []string {
	seen := make(map[string]struct{}, len(phones))
	out := make([]string, 0, len(phones))
	for _, raw := range phones {
		key := strings.TrimSpace(raw)
		if isValidPhoneNumber(raw) {
			key = entity.NormalizePhone(raw)
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, raw)
	}
	return out
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
