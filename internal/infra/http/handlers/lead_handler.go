package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/zapvendas/internal/entity"
	"github.com/xavierca1/zapvendas/internal/usecase"
)

type LeadService interface {
	List(ctx context.Context, filter entity.LeadFilter) ([]*entity.Lead, error)
	Get(ctx context.Context, id string) (*entity.Lead, error)
	Statistics(ctx context.Context) (*entity.Statistics, error)
	Update(ctx context.Context, id string, input usecase.UpdateLeadInput) (*entity.Lead, error)
}

type LeadHandler struct {
	Leads LeadService
}

func NewLeadHandler(leads LeadService) *LeadHandler {
	return &LeadHandler{Leads: leads}
}

// List handles GET /api/leads?status=new,contacted&needs_human_agent=true.
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter entity.LeadFilter

	for _, s := range strings.Split(r.URL.Query().Get("status"), ",") {
		if s = strings.TrimSpace(strings.ToLower(s)); s != "" {
			filter.Statuses = append(filter.Statuses, entity.LeadStatus(s))
		}
	}

	if raw := r.URL.Query().Get("needs_human_agent"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeBadRequest(w, usecase.CodeValidation, "needs_human_agent must be true or false")
			return
		}
		filter.NeedsHumanAgent = &v
	}

	leads, err := h.Leads.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if leads == nil {
		leads = []*entity.Lead{}
	}

	count := len(leads)
	writeJSON(w, http.StatusOK, Response{Success: true, Count: &count, Data: leads})
}

func (h *LeadHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Leads.Statistics(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, stats)
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	lead, err := h.Leads.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, lead)
}

func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input usecase.UpdateLeadInput
	if !decodeJSON(w, r, &input) {
		return
	}

	lead, err := h.Leads.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Data: lead, Message: "Lead updated"})
}
