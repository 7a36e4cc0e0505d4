package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gobooks/internal/adapter/http/dto"
	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	CreateAccount(ctx context.Context, input usecase.CreateAccountInput, actor *domain.Actor) (*domain.Account, error)
	GetAccount(ctx context.Context, companyID, id string) (*domain.Account, error)
	ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]*domain.Account, error)
	DeactivateAccount(ctx context.Context, companyID, id string, actor *domain.Actor) error
}

// AccountHandler handles chart of accounts HTTP requests.
type AccountHandler struct {
	accountUC AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// Create adds an account to the chart.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	account, err := h.accountUC.CreateAccount(r.Context(), req.ToUseCaseInput(companyID(r)), actor(r))
	if err != nil {
		writeDomainError(w, r, "failed to create account", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves an account by ID.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	account, err := h.accountUC.GetAccount(r.Context(), companyID(r), id)
	if err != nil {
		writeDomainError(w, r, "failed to get account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// List lists accounts ordered by code. Supports ?classes=5,6&active=true.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	classes, err := parseClassesQuery(r, "classes")
	if err != nil {
		writeDomainError(w, r, "invalid query", err)
		return
	}

	accounts, err := h.accountUC.ListAccounts(r.Context(), domain.AccountFilter{
		CompanyID:  companyID(r),
		Classes:    classes,
		ActiveOnly: r.URL.Query().Get("active") == "true",
		Limit:      parseIntQuery(r, "limit", 100),
		Offset:     parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, r, "failed to list accounts", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAccountsResponse{
		Accounts: dto.AccountsFromDomain(accounts),
		Total:    int64(len(accounts)),
	})
}

// Delete deactivates an account. Posted history keeps referencing it.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.accountUC.DeactivateAccount(r.Context(), companyID(r), id, actor(r)); err != nil {
		writeDomainError(w, r, "failed to deactivate account", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
