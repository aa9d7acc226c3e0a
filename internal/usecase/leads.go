package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/xavierca1/zapvendas/internal/entity"
)

type LeadService struct {
	Repo entity.LeadRepositoryInterface
}

func NewLeadService(repo entity.LeadRepositoryInterface) *LeadService {
	return &LeadService{Repo: repo}
}

func (uc *LeadService) List(ctx context.Context, filter entity.LeadFilter) ([]*entity.Lead, error) {
	for _, st := range filter.Statuses {
		if !st.Valid() {
			return nil, invalidStatusError("invalid lead status: " + string(st))
		}
	}
	leads, err := uc.Repo.List(ctx, filter)
	if err != nil {
		return nil, databaseError("failed to list leads", err)
	}
	return leads, nil
}

func (uc *LeadService) Get(ctx context.Context, id string) (*entity.Lead, error) {
	lead, err := uc.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			return nil, err
		}
		return nil, databaseError("failed to load lead", err)
	}
	return lead, nil
}

func (uc *LeadService) Statistics(ctx context.Context) (*entity.Statistics, error) {
	stats, err := uc.Repo.Statistics(ctx)
	if err != nil {
		return nil, databaseError("failed to compute statistics", err)
	}
	return stats, nil
}

// Update applies the allow-listed fields of input.
func (uc *LeadService) Update(ctx context.Context, id string, input UpdateLeadInput) (*entity.Lead, error) {
	if strings.TrimSpace(id) == "" {
		return nil, validationError("lead id is required")
	}

	update := entity.LeadUpdate{
		CustomerName:    trimmedOrNil(input.CustomerName),
		City:            trimmedOrNil(input.City),
		NeedsHumanAgent: input.NeedsHumanAgent,
	}
	if input.Status != nil {
		st := entity.LeadStatus(strings.ToLower(strings.TrimSpace(*input.Status)))
		if !st.Valid() {
			return nil, invalidStatusError("status must be one of new, contacted, qualified, converted, lost")
		}
		update.Status = &st
	}
	if update.IsEmpty() {
		return nil, &DomainError{Code: CodeNoFields, Message: "no valid fields to update (customer_name, city, status, needs_human_agent)"}
	}

	lead, err := uc.Repo.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			return nil, err
		}
		return nil, databaseError("failed to update lead", err)
	}
	return lead, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
