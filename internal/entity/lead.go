package entity

import (
	"context"
	"errors"
	"math"
	"time"
)

var (
	ErrLeadNotFound      = errors.New("lead not found")
	ErrLeadAlreadyExists = errors.New("lead already exists for this phone number")
)

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusConverted LeadStatus = "converted"
	LeadStatusLost      LeadStatus = "lost"
)

func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusConverted, LeadStatusLost:
		return true
	}
	return false
}

// Lead is a customer conversation keyed by phone number.
type Lead struct {
	ID              string     `json:"id"`
	PhoneNumber     string     `json:"phone_number"`
	CustomerName    *string    `json:"customer_name"`
	City            *string    `json:"city"`
	Status          LeadStatus `json:"status"`
	NeedsHumanAgent bool       `json:"needs_human_agent"`
	LastMessageAt   time.Time  `json:"last_message_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// LeadUpdate carries a partial update; nil fields are left untouched.
type LeadUpdate struct {
	CustomerName    *string
	City            *string
	Status          *LeadStatus
	NeedsHumanAgent *bool
}

func (u LeadUpdate) IsEmpty() bool {
	return u.CustomerName == nil && u.City == nil && u.Status == nil && u.NeedsHumanAgent == nil
}

type LeadFilter struct {
	Statuses        []LeadStatus
	NeedsHumanAgent *bool
}

type Statistics struct {
	TotalLeads      int     `json:"totalLeads"`
	ConvertedLeads  int     `json:"convertedLeads"`
	NeedsHumanAgent int     `json:"needsHumanAgent"`
	TotalOrders     int     `json:"totalOrders"`
	ConversionRate  float64 `json:"conversionRate"`
}

// NewStatistics derives the conversion rate, rounded to two decimals.
func NewStatistics(total, converted, needsHuman, orders int) *Statistics {
	rate := 0.0
	if total > 0 {
		rate = math.Round(float64(converted)/float64(total)*100*100) / 100
	}
	return &Statistics{
		TotalLeads:      total,
		ConvertedLeads:  converted,
		NeedsHumanAgent: needsHuman,
		TotalOrders:     orders,
		ConversionRate:  rate,
	}
}

type LeadRepositoryInterface interface {
	GetOrCreate(ctx context.Context, phone string) (*Lead, error)
	FindByID(ctx context.Context, id string) (*Lead, error)
	List(ctx context.Context, filter LeadFilter) ([]*Lead, error)
	Update(ctx context.Context, id string, update LeadUpdate) (*Lead, error)
	MarkForHumanAgent(ctx context.Context, phone string) (*Lead, error)
	Statistics(ctx context.Context) (*Statistics, error)
}
