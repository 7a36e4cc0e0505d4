package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gobooks/internal/adapter/http/dto"
	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/usecase"
)

// ChecklistService defines the checklist behavior needed by ClosingHandler.
type ChecklistService interface {
	GetChecklist(ctx context.Context, companyID, fiscalYearID string) (*domain.Checklist, error)
	SetItemStatus(ctx context.Context, input usecase.SetItemStatusInput, actor *domain.Actor) (*domain.Checklist, error)
	AutoVerify(ctx context.Context, companyID, fiscalYearID string, actor *domain.Actor) (*domain.Checklist, error)
}

// ClosingService defines the closing behavior needed by ClosingHandler.
type ClosingService interface {
	Execute(ctx context.Context, input usecase.ExecuteClosingInput, actor *domain.Actor) (*domain.ClosingOperation, error)
	ListOperations(ctx context.Context, companyID, fiscalYearID string) ([]*domain.ClosingOperation, error)
}

// PeriodLockService defines the period lock behavior needed by ClosingHandler.
type PeriodLockService interface {
	LockPeriod(ctx context.Context, input usecase.LockPeriodInput, actor *domain.Actor) (*domain.PeriodLock, error)
	UnlockPeriod(ctx context.Context, companyID, id string, actor *domain.Actor) (*domain.PeriodLock, error)
	ListLocks(ctx context.Context, companyID string) ([]*domain.PeriodLock, error)
}

// ClosingHandler handles year-end closing HTTP requests.
type ClosingHandler struct {
	checklistUC ChecklistService
	closingUC   ClosingService
	lockUC      PeriodLockService
}

// NewClosingHandler creates a new ClosingHandler.
func NewClosingHandler(checklistUC ChecklistService, closingUC ClosingService, lockUC PeriodLockService) *ClosingHandler {
	return &ClosingHandler{
		checklistUC: checklistUC,
		closingUC:   closingUC,
		lockUC:      lockUC,
	}
}

// GetChecklist returns all items of ?fiscal_year_id with the progress summary.
func (h *ClosingHandler) GetChecklist(w http.ResponseWriter, r *http.Request) {
	fiscalYearID, err := requireQuery(r, "fiscal_year_id")
	if err != nil {
		writeDomainError(w, r, "invalid query", err)
		return
	}

	list, err := h.checklistUC.GetChecklist(r.Context(), companyID(r), fiscalYearID)
	if err != nil {
		writeDomainError(w, r, "failed to get checklist", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ChecklistFromDomain(list))
}

// SetChecklistItem stores a verdict for one item.
func (h *ClosingHandler) SetChecklistItem(w http.ResponseWriter, r *http.Request) {
	var req dto.SetChecklistItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	list, err := h.checklistUC.SetItemStatus(r.Context(), req.ToUseCaseInput(companyID(r)), actor(r))
	if err != nil {
		writeDomainError(w, r, "failed to update checklist", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ChecklistFromDomain(list))
}

// VerifyChecklist runs the automatic verifiers.
func (h *ClosingHandler) VerifyChecklist(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyChecklistRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	list, err := h.checklistUC.AutoVerify(r.Context(), companyID(r), req.FiscalYearID, actor(r))
	if err != nil {
		writeDomainError(w, r, "failed to verify checklist", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ChecklistFromDomain(list))
}

// ListOperations lists executed closing operations of ?fiscal_year_id.
func (h *ClosingHandler) ListOperations(w http.ResponseWriter, r *http.Request) {
	fiscalYearID, err := requireQuery(r, "fiscal_year_id")
	if err != nil {
		writeDomainError(w, r, "invalid query", err)
		return
	}

	ops, err := h.closingUC.ListOperations(r.Context(), companyID(r), fiscalYearID)
	if err != nil {
		writeDomainError(w, r, "failed to list closing operations", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"operations": dto.ClosingOperationsFromDomain(ops),
	})
}

// ExecuteOperation runs one closing operation.
func (h *ClosingHandler) ExecuteOperation(w http.ResponseWriter, r *http.Request) {
	var req dto.ExecuteClosingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	op, err := h.closingUC.Execute(r.Context(), req.ToUseCaseInput(companyID(r)), actor(r))
	if err != nil {
		writeDomainError(w, r, "failed to execute closing operation", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ClosingOperationFromDomain(op))
}

// ListLocks lists the company's period locks.
func (h *ClosingHandler) ListLocks(w http.ResponseWriter, r *http.Request) {
	locks, err := h.lockUC.ListLocks(r.Context(), companyID(r))
	if err != nil {
		writeDomainError(w, r, "failed to list period locks", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"locks": dto.PeriodLocksFromDomain(locks),
	})
}

// LockPeriod locks an inclusive date range.
func (h *ClosingHandler) LockPeriod(w http.ResponseWriter, r *http.Request) {
	var req dto.LockPeriodRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	lock, err := h.lockUC.LockPeriod(r.Context(), req.ToUseCaseInput(companyID(r)), actor(r))
	if err != nil {
		writeDomainError(w, r, "failed to lock period", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.PeriodLockFromDomain(lock))
}

// UnlockPeriod lifts a period lock.
func (h *ClosingHandler) UnlockPeriod(w http.ResponseWriter, r *http.Request) {
	lock, err := h.lockUC.UnlockPeriod(r.Context(), companyID(r), chi.URLParam(r, "id"), actor(r))
	if err != nil {
		writeDomainError(w, r, "failed to unlock period", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PeriodLockFromDomain(lock))
}
