package handler

import (
	"context"
	"net/http"

	"github.com/iho/gobooks/internal/adapter/http/dto"
	"github.com/iho/gobooks/internal/domain"
)

// LedgerService defines the reports served by LedgerHandler.
type LedgerService interface {
	GeneralLedger(ctx context.Context, filter domain.LedgerFilter) (*domain.GeneralLedger, error)
	TrialBalance(ctx context.Context, filter domain.LedgerFilter) (*domain.TrialBalance, error)
}

// LedgerHandler handles ledger reports.
type LedgerHandler struct {
	ledgerUC LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// GeneralLedger returns netted balances per account.
func (h *LedgerHandler) GeneralLedger(w http.ResponseWriter, r *http.Request) {
	filter, err := ledgerFilter(r)
	if err != nil {
		writeDomainError(w, r, "invalid query", err)
		return
	}

	report, err := h.ledgerUC.GeneralLedger(r.Context(), filter)
	if err != nil {
		writeDomainError(w, r, "failed to build general ledger", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.GeneralLedgerFromDomain(report))
}

// TrialBalance returns the six column trial balance.
func (h *LedgerHandler) TrialBalance(w http.ResponseWriter, r *http.Request) {
	filter, err := ledgerFilter(r)
	if err != nil {
		writeDomainError(w, r, "invalid query", err)
		return
	}

	report, err := h.ledgerUC.TrialBalance(r.Context(), filter)
	if err != nil {
		writeDomainError(w, r, "failed to build trial balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TrialBalanceFromDomain(report))
}

func ledgerFilter(r *http.Request) (domain.LedgerFilter, error) {
	from, err := requireDateQuery(r, "date_from")
	if err != nil {
		return domain.LedgerFilter{}, err
	}
	to, err := requireDateQuery(r, "date_to")
	if err != nil {
		return domain.LedgerFilter{}, err
	}
	classes, err := parseClassesQuery(r, "classes")
	if err != nil {
		return domain.LedgerFilter{}, err
	}
	// Optional. Without it the use case starts from the latest carry-forward.
	openingFrom, err := parseDateQuery(r, "opening_from")
	if err != nil {
		return domain.LedgerFilter{}, err
	}

	q := r.URL.Query()
	return domain.LedgerFilter{
		CompanyID:    companyID(r),
		DateFrom:     from,
		DateTo:       to,
		OpeningFrom:  openingFrom,
		AccountID:    q.Get("account_id"),
		CostCenterID: q.Get("cost_center_id"),
		ProjectID:    q.Get("project_id"),
		Classes:      classes,
	}, nil
}
