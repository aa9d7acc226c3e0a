package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/xavierca1/zapvendas/internal/entity"
)

type OrderService struct {
	Orders entity.OrderRepositoryInterface
	Leads  entity.LeadRepositoryInterface
	Events EventPublisher
}

func NewOrderService(orders entity.OrderRepositoryInterface, leads entity.LeadRepositoryInterface, events EventPublisher) *OrderService {
	if events == nil {
		events = NopPublisher{}
	}
	return &OrderService{Orders: orders, Leads: leads, Events: events}
}

// Create stores the order and moves the parent lead to "converted". If the
// lead update fails the order row is removed again.
func (uc *OrderService) Create(ctx context.Context, input CreateOrderInput) (*entity.Order, error) {
	if err := joinValidationErrors(ValidateCreateOrderInput(input)); err != nil {
		return nil, err
	}

	lead, err := uc.Leads.FindByID(ctx, input.LeadID)
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			return nil, err
		}
		return nil, databaseError("failed to load lead", err)
	}

	phone := entity.NormalizePhone(input.PhoneNumber)
	if phone != lead.PhoneNumber {
		return nil, validationError("phoneNumber does not match the lead's phone number")
	}
	order := entity.NewOrder(lead.ID, lead.PhoneNumber, input.Products, input.TotalAmount, input.Notes)

	converted := entity.LeadStatusConverted
	err = NewSaga("create_order").
		Step("insert_order",
			func(ctx context.Context) error { return uc.Orders.Create(ctx, order) },
			func(ctx context.Context) error { return uc.Orders.Delete(ctx, order.ID) },
		).
		Step("convert_lead",
			func(ctx context.Context) error {
				_, err := uc.Leads.Update(ctx, lead.ID, entity.LeadUpdate{Status: &converted})
				return err
			},
			nil,
		).
		Run(ctx)
	if err != nil {
		return nil, databaseError("failed to create order", err)
	}

	event := entity.LeadEvent{
		Type:         entity.EventOrderCreated,
		LeadID:       lead.ID,
		PhoneNumber:  phone,
		CustomerName: deref(lead.CustomerName),
		City:         deref(lead.City),
		OrderID:      order.ID,
		OccurredAt:   time.Now(),
	}
	if order.TotalAmount != nil {
		event.TotalAmount = *order.TotalAmount
	}
	if err := uc.Events.Publish(ctx, event); err != nil {
		log.Warn().Err(err).Str("order_id", order.ID).Msg("⚠️ Failed to publish order event")
	}

	log.Info().Str("order_id", order.ID).Str("lead_id", lead.ID).Msg("🛒 Order created, lead converted")
	return order, nil
}

func (uc *OrderService) ListByPhone(ctx context.Context, phone string) ([]*entity.Order, error) {
	phone = entity.NormalizePhone(phone)
	if phone == "" {
		return nil, validationError("phone number is required")
	}
	orders, err := uc.Orders.ListByPhone(ctx, phone)
	if err != nil {
		return nil, databaseError("failed to list orders", err)
	}
	return orders, nil
}

// UpdateStatus rejects unknown statuses before touching storage.
func (uc *OrderService) UpdateStatus(ctx context.Context, id, status string) (*entity.Order, error) {
	if strings.TrimSpace(id) == "" {
		return nil, validationError("order id is required")
	}
	st := entity.OrderStatus(strings.ToLower(strings.TrimSpace(status)))
	if !st.Valid() {
		return nil, invalidStatusError("status must be one of pending, confirmed, completed, cancelled")
	}

	order, err := uc.Orders.UpdateStatus(ctx, id, st)
	if err != nil {
		if errors.Is(err, entity.ErrOrderNotFound) {
			return nil, err
		}
		return nil, databaseError("failed to update order status", err)
	}
	return order, nil
}
