package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/usecase"
	"github.com/iho/gobooks/internal/usecase/mocks"
)

func TestAccountUseCase_CreateAccount(t *testing.T) {
	tests := []struct {
		name       string
		input      usecase.CreateAccountInput
		actor      *domain.Actor
		setupMocks func(*mocks.MockAccountRepository, *mocks.MockIDGenerator)
		wantType   domain.AccountType
		errorType  error
	}{
		{
			name: "receivable account",
			input: usecase.CreateAccountInput{
				CompanyID:     company,
				SyntheticCode: "311",
				AnalyticCode:  "100",
				Name:          "Domestic customers",
			},
			setupMocks: func(repo *mocks.MockAccountRepository, idGen *mocks.MockIDGenerator) {
				idGen.GenerateFunc = func() string { return "acc-311" }
			},
			wantType: domain.AccountTypeAsset,
		},
		{
			name: "retained earnings is equity",
			input: usecase.CreateAccountInput{
				CompanyID:     company,
				SyntheticCode: "431",
				Name:          "Retained earnings",
			},
			setupMocks: func(repo *mocks.MockAccountRepository, idGen *mocks.MockIDGenerator) {},
			wantType:   domain.AccountTypeEquity,
		},
		{
			name: "reject unused class",
			input: usecase.CreateAccountInput{
				CompanyID:     company,
				SyntheticCode: "811",
				Name:          "Off balance",
			},
			setupMocks: func(repo *mocks.MockAccountRepository, idGen *mocks.MockIDGenerator) {},
			errorType:  domain.ErrInvalidAccountCode,
		},
		{
			name: "reject empty name",
			input: usecase.CreateAccountInput{
				CompanyID:     company,
				SyntheticCode: "221",
				Name:          "   ",
			},
			setupMocks: func(repo *mocks.MockAccountRepository, idGen *mocks.MockIDGenerator) {},
			errorType:  domain.ErrInvalidAccountName,
		},
		{
			name: "reject missing company",
			input: usecase.CreateAccountInput{
				SyntheticCode: "221",
				Name:          "Bank",
			},
			setupMocks: func(repo *mocks.MockAccountRepository, idGen *mocks.MockIDGenerator) {},
			errorType:  domain.ErrMissingCompany,
		},
		{
			name: "repository conflict",
			input: usecase.CreateAccountInput{
				CompanyID:     company,
				SyntheticCode: "221",
				Name:          "Bank",
			},
			setupMocks: func(repo *mocks.MockAccountRepository, idGen *mocks.MockIDGenerator) {
				repo.CreateFunc = func(ctx context.Context, account *domain.Account) error {
					return domain.ErrAccountExists
				}
			},
			errorType: domain.ErrAccountExists,
		},
		{
			name: "viewer cannot create",
			input: usecase.CreateAccountInput{
				CompanyID:     company,
				SyntheticCode: "221",
				Name:          "Bank",
			},
			actor:     viewer,
			errorType: domain.ErrForbidden,
		},
		{
			name: "anonymous cannot create",
			input: usecase.CreateAccountInput{
				CompanyID:     company,
				SyntheticCode: "221",
				Name:          "Bank",
			},
			actor:     &domain.Actor{},
			errorType: domain.ErrMissingActor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockAccountRepository()
			idGen := mocks.NewMockIDGenerator()
			if tt.setupMocks != nil {
				tt.setupMocks(repo, idGen)
			}

			actor := tt.actor
			if actor == nil {
				actor = accountant
			}

			uc := usecase.NewAccountUseCase(repo, idGen)
			account, err := uc.CreateAccount(context.Background(), tt.input, actor)

			if tt.errorType != nil {
				if !errors.Is(err, tt.errorType) {
					t.Fatalf("expected error %v, got %v", tt.errorType, err)
				}
				if stored, _ := repo.List(context.Background(), domain.AccountFilter{CompanyID: company}); len(stored) != 0 {
					t.Fatalf("expected nothing stored, got %d accounts", len(stored))
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if account.Type != tt.wantType {
				t.Errorf("expected type %s, got %s", tt.wantType, account.Type)
			}
			if !account.Active {
				t.Error("expected new account to be active")
			}
		})
	}
}

func TestAccountUseCase_ListAccounts(t *testing.T) {
	b := newBooks(t)
	ctx := context.Background()

	accounts, err := b.accounts.ListAccounts(ctx, domain.AccountFilter{CompanyID: company, Classes: []int{6}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("expected 2 revenue accounts, got %d", len(accounts))
	}
	if accounts[0].SyntheticCode != "601" || accounts[1].SyntheticCode != "602" {
		t.Errorf("unexpected order: %s, %s", accounts[0].SyntheticCode, accounts[1].SyntheticCode)
	}

	if _, err := b.accounts.ListAccounts(ctx, domain.AccountFilter{CompanyID: company, Classes: []int{12}}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error for class 12, got %v", err)
	}

	other, err := b.accounts.ListAccounts(ctx, domain.AccountFilter{CompanyID: "company-2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if other == nil || len(other) != 0 {
		t.Errorf("expected empty non-nil list for another company, got %v", other)
	}
}

func TestAccountUseCase_DeactivateAccount(t *testing.T) {
	b := newBooks(t)
	ctx := context.Background()

	if err := b.accounts.DeactivateAccount(ctx, company, b.ids["518"], viewer); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for a viewer, got %v", err)
	}

	if err := b.accounts.DeactivateAccount(ctx, company, b.ids["518"], accountant); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	account, err := b.accounts.GetAccount(ctx, company, b.ids["518"])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.Active {
		t.Error("expected account to be inactive")
	}

	if err := b.accounts.DeactivateAccount(ctx, company, "missing", accountant); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}

	byCode, err := b.accounts.GetAccountByCode(ctx, company, "601", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if byCode.ID != b.ids["601"] {
		t.Errorf("expected %s, got %s", b.ids["601"], byCode.ID)
	}
}
