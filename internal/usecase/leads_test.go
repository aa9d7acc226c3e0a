package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/zapvendas/internal/entity"
	"github.com/xavierca1/zapvendas/internal/usecase"
)

func TestUpdateLeadAllowList(t *testing.T) {
	ctx := context.Background()
	repo := new(MockLeadRepository)
	updated := &entity.Lead{ID: "lead-1", Status: entity.LeadStatusQualified}
	repo.On("Update", ctx, "lead-1", mock.MatchedBy(func(u entity.LeadUpdate) bool {
		return u.Status != nil && *u.Status == entity.LeadStatusQualified && u.CustomerName == nil && u.City == nil
	})).Return(updated, nil)

	status := "qualified"
	uc := usecase.NewLeadService(repo)
	lead, err := uc.Update(ctx, "lead-1", usecase.UpdateLeadInput{Status: &status})

	require.NoError(t, err)
	assert.Equal(t, entity.LeadStatusQualified, lead.Status)
}

func TestUpdateLeadNoFields(t *testing.T) {
	repo := new(MockLeadRepository)
	uc := usecase.NewLeadService(repo)

	_, err := uc.Update(context.Background(), "lead-1", usecase.UpdateLeadInput{})

	var de *usecase.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "NO_FIELDS", de.Code)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateLeadInvalidStatus(t *testing.T) {
	repo := new(MockLeadRepository)
	uc := usecase.NewLeadService(repo)

	status := "vip"
	_, err := uc.Update(context.Background(), "lead-1", usecase.UpdateLeadInput{Status: &status})

	var de *usecase.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "INVALID_STATUS", de.Code)
}

func TestUpdateLeadNotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(MockLeadRepository)
	repo.On("Update", ctx, "missing", mock.Anything).Return(nil, entity.ErrLeadNotFound)

	flag := false
	uc := usecase.NewLeadService(repo)
	_, err := uc.Update(ctx, "missing", usecase.UpdateLeadInput{NeedsHumanAgent: &flag})

	assert.ErrorIs(t, err, entity.ErrLeadNotFound)
}

func TestListLeadsRejectsUnknownStatus(t *testing.T) {
	repo := new(MockLeadRepository)
	uc := usecase.NewLeadService(repo)

	_, err := uc.List(context.Background(), entity.LeadFilter{Statuses: []entity.LeadStatus{"new", "archived"}})

	assert.True(t, usecase.IsDomainError(err))
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}
