package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/zapvendas/internal/entity"
	"github.com/xavierca1/zapvendas/internal/usecase"
)

type MessagingService interface {
	Send(ctx context.Context, input usecase.SendMessageInput) (*usecase.SendMessageOutput, error)
	Broadcast(ctx context.Context, input usecase.BroadcastInput) (*usecase.BroadcastResult, error)
	History(ctx context.Context, phone string, limit int) ([]*entity.ChatMessage, error)
	ClearHistory(ctx context.Context, phone string) (int64, error)
	Status() usecase.ConnectionStatus
}

type MessageHandler struct {
	Messaging MessagingService
}

func NewMessageHandler(messaging MessagingService) *MessageHandler {
	return &MessageHandler{Messaging: messaging}
}

func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	var input usecase.SendMessageInput
	if !decodeJSON(w, r, &input) {
		return
	}

	out, err := h.Messaging.Send(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Data: out, Message: "Message sent"})
}

func (h *MessageHandler) Broadcast(w http.ResponseWriter, r *http.Request) {
	var input usecase.BroadcastInput
	if !decodeJSON(w, r, &input) {
		return
	}

	result, err := h.Messaging.Broadcast(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, result)
}

// History handles GET /api/messages/history/{phoneNumber}?limit=50.
func (h *MessageHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeBadRequest(w, usecase.CodeValidation, "limit must be a positive integer")
			return
		}
		limit = n
	}

	messages, err := h.Messaging.History(r.Context(), chi.URLParam(r, "phoneNumber"), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if messages == nil {
		messages = []*entity.ChatMessage{}
	}

	count := len(messages)
	writeJSON(w, http.StatusOK, Response{Success: true, Count: &count, Data: messages})
}

func (h *MessageHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.Messaging.ClearHistory(r.Context(), chi.URLParam(r, "phoneNumber"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    map[string]int64{"deleted": deleted},
		Message: "Chat history cleared",
	})
}

func (h *MessageHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, h.Messaging.Status())
}
