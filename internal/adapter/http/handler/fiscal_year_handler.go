package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gobooks/internal/adapter/http/dto"
	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/usecase"
)

// FiscalYearService defines the behavior needed by FiscalYearHandler.
type FiscalYearService interface {
	CreateFiscalYear(ctx context.Context, input usecase.CreateFiscalYearInput, actor *domain.Actor) (*domain.FiscalYear, error)
	GetFiscalYear(ctx context.Context, companyID, id string) (*domain.FiscalYear, error)
	ListFiscalYears(ctx context.Context, companyID string) ([]*domain.FiscalYear, error)
	CloseFiscalYear(ctx context.Context, companyID, id string, actor *domain.Actor) (*domain.FiscalYear, error)
}

// FiscalYearHandler handles fiscal year HTTP requests.
type FiscalYearHandler struct {
	fiscalUC FiscalYearService
}

// NewFiscalYearHandler creates a new FiscalYearHandler.
func NewFiscalYearHandler(fiscalUC FiscalYearService) *FiscalYearHandler {
	return &FiscalYearHandler{fiscalUC: fiscalUC}
}

// Create opens a fiscal year.
func (h *FiscalYearHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateFiscalYearRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	fy, err := h.fiscalUC.CreateFiscalYear(r.Context(), req.ToUseCaseInput(companyID(r)), actor(r))
	if err != nil {
		writeDomainError(w, r, "failed to create fiscal year", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.FiscalYearFromDomain(fy))
}

// Get retrieves a fiscal year.
func (h *FiscalYearHandler) Get(w http.ResponseWriter, r *http.Request) {
	fy, err := h.fiscalUC.GetFiscalYear(r.Context(), companyID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to get fiscal year", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FiscalYearFromDomain(fy))
}

// List lists the company's fiscal years by start date.
func (h *FiscalYearHandler) List(w http.ResponseWriter, r *http.Request) {
	years, err := h.fiscalUC.ListFiscalYears(r.Context(), companyID(r))
	if err != nil {
		writeDomainError(w, r, "failed to list fiscal years", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"fiscal_years": dto.FiscalYearsFromDomain(years),
	})
}

// Close marks a fiscal year closed.
func (h *FiscalYearHandler) Close(w http.ResponseWriter, r *http.Request) {
	fy, err := h.fiscalUC.CloseFiscalYear(r.Context(), companyID(r), chi.URLParam(r, "id"), actor(r))
	if err != nil {
		writeDomainError(w, r, "failed to close fiscal year", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FiscalYearFromDomain(fy))
}
