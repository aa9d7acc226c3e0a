package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrOrderNotFound = errors.New("order not found")

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

type OrderItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Size     string  `json:"size,omitempty"`
	Color    string  `json:"color,omitempty"`
}

type Order struct {
	ID          string      `json:"id"`
	LeadID      string      `json:"lead_id"`
	PhoneNumber string      `json:"phone_number"`
	Products    []OrderItem `json:"products"`
	TotalAmount *float64    `json:"total_amount"`
	Status      OrderStatus `json:"status"`
	Notes       *string     `json:"notes"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func NewOrder(leadID, phone string, products []OrderItem, total *float64, notes *string) *Order {
	now := time.Now()
	return &Order{
		ID:          uuid.New().String(),
		LeadID:      leadID,
		PhoneNumber: phone,
		Products:    products,
		TotalAmount: total,
		Status:      OrderStatusPending,
		Notes:       notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

type OrderRepositoryInterface interface {
	Create(ctx context.Context, order *Order) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Order, error)
	ListByPhone(ctx context.Context, phone string) ([]*Order, error)
	UpdateStatus(ctx context.Context, id string, status OrderStatus) (*Order, error)
}
