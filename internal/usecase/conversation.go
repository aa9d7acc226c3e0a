package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/xavierca1/zapvendas/internal/entity"
)

// ConversationService runs the inbound message pipeline:
// lead lookup → store inbound → respond → store profile/outbound.
type ConversationService struct {
	Leads        entity.LeadRepositoryInterface
	Chats        entity.ChatRepositoryInterface
	Responder    *Responder
	Events       EventPublisher
	HistoryLimit int

	locks *KeyedMutex
}

func NewConversationService(
	leads entity.LeadRepositoryInterface,
	chats entity.ChatRepositoryInterface,
	responder *Responder,
	events EventPublisher,
	historyLimit int,
) *ConversationService {
	if events == nil {
		events = NopPublisher{}
	}
	if historyLimit <= 0 {
		historyLimit = 10
	}
	return &ConversationService{
		Leads:        leads,
		Chats:        chats,
		Responder:    responder,
		Events:       events,
		HistoryLimit: historyLimit,
		locks:        NewKeyedMutex(),
	}
}

// HandleIncomingMessage returns the reply to send back. At most one message
// per phone number is processed at a time.
func (s *ConversationService) HandleIncomingMessage(ctx context.Context, in IncomingMessage) (string, error) {
	phone := entity.NormalizePhone(in.PhoneNumber)
	if phone == "" {
		return "", validationError("phone number is required")
	}

	unlock := s.locks.Lock(phone)
	defer unlock()

	lead, err := s.Leads.GetOrCreate(ctx, phone)
	if err != nil {
		return "", databaseError("failed to load lead", err)
	}

	inbound, err := s.Chats.Save(ctx, lead.ID, phone, entity.RoleUser, in.Text, nil)
	if err != nil {
		return "", databaseError("failed to save inbound message", err)
	}

	if lead.NeedsHumanAgent {
		log.Info().Str("phone", phone).Msg("🙋 Lead is under human takeover, sending static reply")
		meta := &entity.MessageMetadata{HumanTakeover: true}
		if _, err := s.Chats.Save(ctx, lead.ID, phone, entity.RoleAssistant, HumanTakeoverReply, meta); err != nil {
			return "", databaseError("failed to save outbound message", err)
		}
		return HumanTakeoverReply, nil
	}

	history, err := s.Chats.History(ctx, phone, s.HistoryLimit+1)
	if err != nil {
		return "", databaseError("failed to load chat history", err)
	}
	history = excludeTurn(history, inbound.ID, s.HistoryLimit)

	reply := s.Responder.Respond(ctx, in.Text, history)

	if reply.Metadata.AgentRequested {
		updated, err := s.Leads.MarkForHumanAgent(ctx, phone)
		if err != nil {
			return "", databaseError("failed to flag lead for human agent", err)
		}
		lead = updated
		s.publish(ctx, entity.LeadEvent{
			Type:         entity.EventHandoffRequested,
			LeadID:       lead.ID,
			PhoneNumber:  phone,
			CustomerName: deref(lead.CustomerName),
			City:         deref(lead.City),
			Message:      in.Text,
			OccurredAt:   time.Now(),
		})
	}

	if update := profileUpdate(lead, reply.Metadata.ExtractedInfo); !update.IsEmpty() {
		if _, err := s.Leads.Update(ctx, lead.ID, update); err != nil {
			return "", databaseError("failed to update lead profile", err)
		}
	}

	meta := reply.Metadata
	if _, err := s.Chats.Save(ctx, lead.ID, phone, entity.RoleAssistant, reply.Text, &meta); err != nil {
		return "", databaseError("failed to save outbound message", err)
	}

	return reply.Text, nil
}

func (s *ConversationService) publish(ctx context.Context, event entity.LeadEvent) {
	if err := s.Events.Publish(ctx, event); err != nil {
		log.Warn().Err(err).Str("event", string(event.Type)).Str("phone", event.PhoneNumber).Msg("⚠️ Failed to publish lead event")
	}
}

// excludeTurn drops the just-stored inbound turn (the Responder appends the
// current message itself) and keeps the newest limit turns.
func excludeTurn(history []*entity.ChatMessage, id string, limit int) []*entity.ChatMessage {
	out := make([]*entity.ChatMessage, 0, len(history))
	for _, h := range history {
		if h.ID == id {
			continue
		}
		out = append(out, h)
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// profileUpdate only carries fields that were extracted and differ from what
// is stored; a missing extraction never clears a known value and a tentative
// name never replaces a known one.
func profileUpdate(lead *entity.Lead, info *entity.ExtractedInfo) entity.LeadUpdate {
	var update entity.LeadUpdate
	if info == nil {
		return update
	}
	nameKnown := lead.CustomerName != nil && *lead.CustomerName != ""
	if info.Name != nil && deref(lead.CustomerName) != *info.Name && !(info.NameTentative && nameKnown) {
		update.CustomerName = info.Name
	}
	if info.City != nil && deref(lead.City) != *info.City {
		update.City = info.City
	}
	return update
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
