package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gobooks/internal/adapter/http/dto"
	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/usecase"
)

type accountServiceStub struct {
	createFn     func(ctx context.Context, input usecase.CreateAccountInput, actor *domain.Actor) (*domain.Account, error)
	getFn        func(ctx context.Context, companyID, id string) (*domain.Account, error)
	listFn       func(ctx context.Context, filter domain.AccountFilter) ([]*domain.Account, error)
	deactivateFn func(ctx context.Context, companyID, id string, actor *domain.Actor) error
}

func (s *accountServiceStub) CreateAccount(ctx context.Context, input usecase.CreateAccountInput, actor *domain.Actor) (*domain.Account, error) {
	return s.createFn(ctx, input, actor)
}

func (s *accountServiceStub) GetAccount(ctx context.Context, companyID, id string) (*domain.Account, error) {
	return s.getFn(ctx, companyID, id)
}

func (s *accountServiceStub) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]*domain.Account, error) {
	return s.listFn(ctx, filter)
}

func (s *accountServiceStub) DeactivateAccount(ctx context.Context, companyID, id string, actor *domain.Actor) error {
	return s.deactivateFn(ctx, companyID, id, actor)
}

func TestAccountHandler_Create_Success(t *testing.T) {
	account := &domain.Account{
		ID:            "acc-1",
		SyntheticCode: "311",
		Name:          "Customers",
		Type:          domain.AccountTypeAsset,
		Active:        true,
	}

	var captured usecase.CreateAccountInput
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput, actor *domain.Actor) (*domain.Account, error) {
			captured = input
			return account, nil
		},
	})

	body, _ := json.Marshal(dto.CreateAccountRequest{
		SyntheticCode: "311",
		Name:          "Customers",
	})

	req := withCompany(httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body)), "company-1")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.CompanyID != "company-1" || captured.SyntheticCode != "311" || captured.Name != "Customers" {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "acc-1" || resp.Class != 3 {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestAccountHandler_Create_InvalidJSON(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput, actor *domain.Actor) (*domain.Account, error) {
			t.Fatal("CreateAccount should not be called for invalid payload")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewBufferString("{invalid json"))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_Create_ValidationFailure(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput, actor *domain.Actor) (*domain.Account, error) {
			t.Fatal("CreateAccount should not be called for an invalid code")
			return nil, nil
		},
	})

	body, _ := json.Marshal(dto.CreateAccountRequest{SyntheticCode: "31", Name: "x"})
	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestAccountHandler_Create_ServiceError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"duplicate code", domain.ErrAccountExists, http.StatusConflict},
		{"storage failure", errors.New("db error"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAccountHandler(&accountServiceStub{
				createFn: func(ctx context.Context, input usecase.CreateAccountInput, actor *domain.Actor) (*domain.Account, error) {
					return nil, tt.err
				},
			})

			body, _ := json.Marshal(dto.CreateAccountRequest{SyntheticCode: "311", Name: "test"})
			req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			handler.Create(rec, req)

			if rec.Code != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, rec.Code)
			}
		})
	}
}

func TestAccountHandler_Get(t *testing.T) {
	account := &domain.Account{ID: "acc-1", SyntheticCode: "311", Name: "test"}
	handler := NewAccountHandler(&accountServiceStub{
		getFn: func(ctx context.Context, companyID, id string) (*domain.Account, error) {
			if id != "acc-1" || companyID != "company-1" {
				t.Fatalf("expected acc-1 of company-1, got %s/%s", companyID, id)
			}
			return account, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/accounts/acc-1", nil)
	req = setChiURLParam(withCompany(req, "company-1"), "id", "acc-1")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAccountHandler_Get_NotFound(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		getFn: func(ctx context.Context, companyID, id string) (*domain.Account, error) {
			return nil, domain.ErrAccountNotFound
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/accounts/acc-1", nil)
	req = setChiURLParam(req, "id", "acc-1")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAccountHandler_List(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		listFn: func(ctx context.Context, filter domain.AccountFilter) ([]*domain.Account, error) {
			if filter.Limit != 5 || filter.Offset != 2 {
				t.Fatalf("expected limit=5 offset=2, got %+v", filter)
			}
			if len(filter.Classes) != 2 || filter.Classes[0] != 5 || !filter.ActiveOnly {
				t.Fatalf("expected active classes 5,6, got %+v", filter)
			}
			return []*domain.Account{{ID: "acc-1"}, {ID: "acc-2"}}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/accounts?limit=5&offset=2&classes=5,6&active=true", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.ListAccountsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(resp.Accounts))
	}
}

func TestAccountHandler_Delete(t *testing.T) {
	var (
		deactivated string
		by          *domain.Actor
	)
	handler := NewAccountHandler(&accountServiceStub{
		deactivateFn: func(ctx context.Context, companyID, id string, actor *domain.Actor) error {
			deactivated = id
			by = actor
			return nil
		},
	})

	req := setChiURLParam(httptest.NewRequest(http.MethodDelete, "/accounts/acc-1", nil), "id", "acc-1")
	req = withActor(req, &domain.Actor{ID: "user-1", Role: domain.RoleAccountant})
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if deactivated != "acc-1" {
		t.Fatalf("expected acc-1 to be deactivated, got %q", deactivated)
	}
	if by == nil || by.ID != "user-1" {
		t.Fatalf("expected the request actor to reach the use case, got %+v", by)
	}
}

func setChiURLParam(r *http.Request, key, value string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, &chi.Context{
		URLParams: chi.RouteParams{
			Keys:   []string{key},
			Values: []string{value},
		},
	}))
}

func withCompany(r *http.Request, companyID string) *http.Request {
	return r.WithContext(domain.ContextWithCompany(r.Context(), companyID))
}

func withActor(r *http.Request, actor *domain.Actor) *http.Request {
	return r.WithContext(domain.ContextWithActor(r.Context(), actor))
}
