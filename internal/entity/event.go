package entity

import "time"

type EventType string

const (
	EventHandoffRequested EventType = "lead.handoff_requested"
	EventOrderCreated     EventType = "order.created"
)

// LeadEvent is published for downstream consumers (operator alerts, CRM sync).
type LeadEvent struct {
	Type         EventType `json:"type"`
	LeadID       string    `json:"lead_id"`
	PhoneNumber  string    `json:"phone_number"`
	CustomerName string    `json:"customer_name,omitempty"`
	City         string    `json:"city,omitempty"`
	OrderID      string    `json:"order_id,omitempty"`
	TotalAmount  float64   `json:"total_amount,omitempty"`
	Message      string    `json:"message,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// PromptMessage is one entry of the conversation sent to the language model.
type PromptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
