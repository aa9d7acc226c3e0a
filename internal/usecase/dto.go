package usecase

import "github.com/xavierca1/zapvendas/internal/entity"

type IncomingMessage struct {
	PhoneNumber string
	Text        string
}

type UpdateLeadInput struct {
	CustomerName    *string `json:"customer_name"`
	City            *string `json:"city"`
	Status          *string `json:"status"`
	NeedsHumanAgent *bool   `json:"needs_human_agent"`
}

type CreateOrderInput struct {
	LeadID      string             `json:"leadId"`
	PhoneNumber string             `json:"phoneNumber"`
	Products    []entity.OrderItem `json:"products"`
	TotalAmount *float64           `json:"totalAmount"`
	Notes       *string            `json:"notes"`
}

type SendMessageInput struct {
	PhoneNumber string `json:"phoneNumber"`
	Message     string `json:"message"`
	WithTyping  bool   `json:"withTyping"`
}

type SendMessageOutput struct {
	PhoneNumber string `json:"phoneNumber"`
	Message     string `json:"message"`
	WithTyping  bool   `json:"withTyping"`
}

type BroadcastInput struct {
	PhoneNumbers []string `json:"phoneNumbers"`
	Message      string   `json:"message"`
}

type BroadcastFailure struct {
	PhoneNumber string `json:"phoneNumber"`
	Error       string `json:"error"`
}

// BroadcastResult partitions the recipients; each appears in exactly one list.
type BroadcastResult struct {
	Success []string           `json:"success"`
	Failed  []BroadcastFailure `json:"failed"`
}

type ConnectionStatus struct {
	Connected bool   `json:"connected"`
	Status    string `json:"status"`
	State     string `json:"state"`
}
