package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/zapvendas/internal/entity"
	"github.com/xavierca1/zapvendas/internal/usecase"
)

func TestHandleIncomingMessageStoresTurnsAndProfile(t *testing.T) {
	ctx := context.Background()
	leads := new(MockLeadRepository)
	chats := new(MockChatRepository)
	model := new(MockChatModel)

	lead := &entity.Lead{ID: "lead-1", PhoneNumber: "15551234567", Status: entity.LeadStatusNew}
	inbound := &entity.ChatMessage{ID: "msg-2", Role: entity.RoleUser, Message: "Hi, I'm John and I live in Austin."}
	earlier := &entity.ChatMessage{ID: "msg-1", Role: entity.RoleUser, Message: "hello"}

	leads.On("GetOrCreate", ctx, "15551234567").Return(lead, nil)
	chats.On("Save", ctx, "lead-1", "15551234567", entity.RoleUser, inbound.Message, (*entity.MessageMetadata)(nil)).Return(inbound, nil)
	chats.On("History", ctx, "15551234567", 11).Return([]*entity.ChatMessage{earlier, inbound}, nil)
	model.On("Chat", mock.Anything, mock.MatchedBy(func(msgs []entity.PromptMessage) bool {
		// system + earlier + current
		return len(msgs) == 3
	})).Return("Welcome John!", nil)
	leads.On("Update", ctx, "lead-1", mock.MatchedBy(func(u entity.LeadUpdate) bool {
		return u.CustomerName != nil && *u.CustomerName == "John" && u.City != nil && *u.City == "Austin" && u.Status == nil
	})).Return(lead, nil)
	chats.On("Save", ctx, "lead-1", "15551234567", entity.RoleAssistant, "Welcome John!", mock.Anything).Return(&entity.ChatMessage{ID: "msg-3"}, nil)

	responder := usecase.NewResponder(testCatalog(), model, usecase.ResponderOptions{Timeout: time.Second})
	svc := usecase.NewConversationService(leads, chats, responder, nil, 10)

	reply, err := svc.HandleIncomingMessage(ctx, usecase.IncomingMessage{PhoneNumber: "+1 (555) 123-4567", Text: inbound.Message})

	require.NoError(t, err)
	assert.Equal(t, "Welcome John!", reply)
	leads.AssertExpectations(t)
	chats.AssertExpectations(t)
	model.AssertExpectations(t)
}

func TestHandleIncomingMessageHandoffFlagsLead(t *testing.T) {
	ctx := context.Background()
	leads := new(MockLeadRepository)
	chats := new(MockChatRepository)
	model := new(MockChatModel)
	events := new(MockPublisher)

	lead := &entity.Lead{ID: "lead-1", PhoneNumber: "15551234567"}
	flagged := &entity.Lead{ID: "lead-1", PhoneNumber: "15551234567", NeedsHumanAgent: true}

	leads.On("GetOrCreate", ctx, "15551234567").Return(lead, nil)
	chats.On("Save", ctx, "lead-1", "15551234567", entity.RoleUser, "I want to speak to someone", (*entity.MessageMetadata)(nil)).
		Return(&entity.ChatMessage{ID: "msg-1"}, nil)
	chats.On("History", ctx, "15551234567", 11).Return([]*entity.ChatMessage{}, nil)
	leads.On("MarkForHumanAgent", ctx, "15551234567").Return(flagged, nil)
	events.On("Publish", ctx, mock.MatchedBy(func(e entity.LeadEvent) bool {
		return e.Type == entity.EventHandoffRequested && e.LeadID == "lead-1"
	})).Return(nil)
	chats.On("Save", ctx, "lead-1", "15551234567", entity.RoleAssistant, usecase.HandoffReply, mock.MatchedBy(func(m *entity.MessageMetadata) bool {
		return m != nil && m.AgentRequested
	})).Return(&entity.ChatMessage{ID: "msg-2"}, nil)

	responder := usecase.NewResponder(testCatalog(), model, usecase.ResponderOptions{})
	svc := usecase.NewConversationService(leads, chats, responder, events, 10)

	reply, err := svc.HandleIncomingMessage(ctx, usecase.IncomingMessage{PhoneNumber: "15551234567", Text: "I want to speak to someone"})

	require.NoError(t, err)
	assert.Equal(t, usecase.HandoffReply, reply)
	model.AssertNotCalled(t, "Chat", mock.Anything, mock.Anything)
	leads.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	events.AssertExpectations(t)
}

func TestHandleIncomingMessageHumanTakeover(t *testing.T) {
	ctx := context.Background()
	leads := new(MockLeadRepository)
	chats := new(MockChatRepository)
	model := new(MockChatModel)

	lead := &entity.Lead{ID: "lead-1", PhoneNumber: "15551234567", NeedsHumanAgent: true}
	leads.On("GetOrCreate", ctx, "15551234567").Return(lead, nil)
	chats.On("Save", ctx, "lead-1", "15551234567", entity.RoleUser, "hello?", (*entity.MessageMetadata)(nil)).
		Return(&entity.ChatMessage{ID: "msg-1"}, nil)
	chats.On("Save", ctx, "lead-1", "15551234567", entity.RoleAssistant, usecase.HumanTakeoverReply, mock.Anything).
		Return(&entity.ChatMessage{ID: "msg-2"}, nil)

	responder := usecase.NewResponder(testCatalog(), model, usecase.ResponderOptions{})
	svc := usecase.NewConversationService(leads, chats, responder, nil, 10)

	reply, err := svc.HandleIncomingMessage(ctx, usecase.IncomingMessage{PhoneNumber: "15551234567", Text: "hello?"})

	require.NoError(t, err)
	assert.Equal(t, usecase.HumanTakeoverReply, reply)
	model.AssertNotCalled(t, "Chat", mock.Anything, mock.Anything)
	chats.AssertNotCalled(t, "History", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleIncomingMessageStorageFailure(t *testing.T) {
	ctx := context.Background()
	leads := new(MockLeadRepository)
	chats := new(MockChatRepository)

	leads.On("GetOrCreate", ctx, "15551234567").Return(nil, errors.New("connection reset"))

	responder := usecase.NewResponder(testCatalog(), new(MockChatModel), usecase.ResponderOptions{})
	svc := usecase.NewConversationService(leads, chats, responder, nil, 10)

	_, err := svc.HandleIncomingMessage(ctx, usecase.IncomingMessage{PhoneNumber: "15551234567", Text: "hi"})

	assert.True(t, usecase.IsTechnicalError(err))
	chats.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleIncomingMessageKeepsKnownProfile(t *testing.T) {
	ctx := context.Background()
	leads := new(MockLeadRepository)
	chats := new(MockChatRepository)
	model := new(MockChatModel)

	lead := &entity.Lead{ID: "lead-1", PhoneNumber: "15551234567", CustomerName: strPtr("John"), City: strPtr("Austin")}
	leads.On("GetOrCreate", ctx, "15551234567").Return(lead, nil)
	chats.On("Save", ctx, "lead-1", "15551234567", entity.RoleUser, "I'm John, any caps?", (*entity.MessageMetadata)(nil)).
		Return(&entity.ChatMessage{ID: "msg-1"}, nil)
	chats.On("History", ctx, "15551234567", 11).Return([]*entity.ChatMessage{}, nil)
	model.On("Chat", mock.Anything, mock.Anything).Return("Yes, the Snapback Cap!", nil)
	chats.On("Save", ctx, "lead-1", "15551234567", entity.RoleAssistant, "Yes, the Snapback Cap!", mock.Anything).
		Return(&entity.ChatMessage{ID: "msg-2"}, nil)

	responder := usecase.NewResponder(testCatalog(), model, usecase.ResponderOptions{})
	svc := usecase.NewConversationService(leads, chats, responder, nil, 10)

	_, err := svc.HandleIncomingMessage(ctx, usecase.IncomingMessage{PhoneNumber: "15551234567", Text: "I'm John, any caps?"})

	require.NoError(t, err)
	leads.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleIncomingMessageLoosePhraseKeepsKnownName(t *testing.T) {
	ctx := context.Background()
	leads := new(MockLeadRepository)
	chats := new(MockChatRepository)
	model := new(MockChatModel)

	lead := &entity.Lead{ID: "lead-1", PhoneNumber: "15551234567", CustomerName: strPtr("John")}
	leads.On("GetOrCreate", ctx, "15551234567").Return(lead, nil)
	chats.On("Save", ctx, "lead-1", "15551234567", entity.RoleUser, "I'm Thrilled, ship it", (*entity.MessageMetadata)(nil)).
		Return(&entity.ChatMessage{ID: "msg-1"}, nil)
	chats.On("History", ctx, "15551234567", 11).Return([]*entity.ChatMessage{}, nil)
	model.On("Chat", mock.Anything, mock.Anything).Return("Great!", nil)
	chats.On("Save", ctx, "lead-1", "15551234567", entity.RoleAssistant, "Great!", mock.Anything).
		Return(&entity.ChatMessage{ID: "msg-2"}, nil)

	responder := usecase.NewResponder(testCatalog(), model, usecase.ResponderOptions{})
	svc := usecase.NewConversationService(leads, chats, responder, nil, 10)

	_, err := svc.HandleIncomingMessage(ctx, usecase.IncomingMessage{PhoneNumber: "15551234567", Text: "I'm Thrilled, ship it"})

	require.NoError(t, err)
	leads.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleIncomingMessageExplicitNameReplacesKnownName(t *testing.T) {
	ctx := context.Background()
	leads := new(MockLeadRepository)
	chats := new(MockChatRepository)
	model := new(MockChatModel)

	lead := &entity.Lead{ID: "lead-1", PhoneNumber: "15551234567", CustomerName: strPtr("John")}
	leads.On("GetOrCreate", ctx, "15551234567").Return(lead, nil)
	chats.On("Save", ctx, "lead-1", "15551234567", entity.RoleUser, "Actually my name is Jonathan", (*entity.MessageMetadata)(nil)).
		Return(&entity.ChatMessage{ID: "msg-1"}, nil)
	chats.On("History", ctx, "15551234567", 11).Return([]*entity.ChatMessage{}, nil)
	model.On("Chat", mock.Anything, mock.Anything).Return("Noted, Jonathan!", nil)
	leads.On("Update", ctx, "lead-1", mock.MatchedBy(func(u entity.LeadUpdate) bool {
		return u.CustomerName != nil && *u.CustomerName == "Jonathan" && u.City == nil
	})).Return(lead, nil)
	chats.On("Save", ctx, "lead-1", "15551234567", entity.RoleAssistant, "Noted, Jonathan!", mock.Anything).
		Return(&entity.ChatMessage{ID: "msg-2"}, nil)

	responder := usecase.NewResponder(testCatalog(), model, usecase.ResponderOptions{})
	svc := usecase.NewConversationService(leads, chats, responder, nil, 10)

	_, err := svc.HandleIncomingMessage(ctx, usecase.IncomingMessage{PhoneNumber: "15551234567", Text: "Actually my name is Jonathan"})

	require.NoError(t, err)
	leads.AssertExpectations(t)
}
