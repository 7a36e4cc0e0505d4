package usecase

import (
	"context"
	"strings"

	"github.com/iho/gobooks/internal/domain"
)

// AccountUseCase handles chart-of-accounts business logic.
type AccountUseCase struct {
	accountRepo AccountRepository
	idGen       IDGenerator
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository, idGen IDGenerator) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		idGen:       idGen,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	CompanyID     string
	SyntheticCode string
	AnalyticCode  string
	Name          string
}

// CreateAccount creates a new account. The type is derived from the synthetic code.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput, actor *domain.Actor) (*domain.Account, error) {
	if err := requireWriter(actor); err != nil {
		return nil, err
	}
	if input.CompanyID == "" {
		return nil, domain.ErrMissingCompany
	}

	synthetic := strings.TrimSpace(input.SyntheticCode)
	accountType, err := domain.TypeForSynthetic(synthetic)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}

	now := utcNow()
	account := &domain.Account{
		ID:            uc.idGen.Generate(),
		CompanyID:     input.CompanyID,
		SyntheticCode: synthetic,
		AnalyticCode:  strings.TrimSpace(input.AnalyticCode),
		Name:          strings.TrimSpace(input.Name),
		Type:          accountType,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, companyID, id string) (*domain.Account, error) {
	if companyID == "" {
		return nil, domain.ErrMissingCompany
	}
	return uc.accountRepo.GetByID(ctx, companyID, id)
}

// GetAccountByCode retrieves an account by its synthetic and analytic code.
func (uc *AccountUseCase) GetAccountByCode(ctx context.Context, companyID, synthetic, analytic string) (*domain.Account, error) {
	if companyID == "" {
		return nil, domain.ErrMissingCompany
	}
	return uc.accountRepo.GetByCode(ctx, companyID, synthetic, analytic)
}

// ListAccounts lists accounts. An empty result is not an error.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]*domain.Account, error) {
	if filter.CompanyID == "" {
		return nil, domain.ErrMissingCompany
	}

	for _, class := range filter.Classes {
		if class < 0 || class > 9 {
			return nil, domain.WithDetails(
				wrapValidation("account class must be a single digit"),
				map[string]any{"class": class},
			)
		}
	}

	filter.Limit, filter.Offset, _ = domain.ValidatePagination(filter.Limit, filter.Offset)

	accounts, err := uc.accountRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if accounts == nil {
		accounts = []*domain.Account{}
	}

	return accounts, nil
}

// DeactivateAccount soft-deletes an account. Posted lines keep referencing it.
func (uc *AccountUseCase) DeactivateAccount(ctx context.Context, companyID, id string, actor *domain.Actor) error {
	if err := requireWriter(actor); err != nil {
		return err
	}
	if companyID == "" {
		return domain.ErrMissingCompany
	}

	if _, err := uc.accountRepo.GetByID(ctx, companyID, id); err != nil {
		return err
	}

	return uc.accountRepo.Deactivate(ctx, companyID, id, utcNow())
}
