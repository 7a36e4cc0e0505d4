package usecase

import (
	"context"
	"time"

	"github.com/iho/gobooks/internal/domain"
)

// NumberGenerator issues the next document number of a sequence.
type NumberGenerator interface {
	Next(ctx context.Context, tx Transaction, companyID, sequenceType string) (string, error)
}

// PeriodGuard rejects journal mutations dated inside a locked period.
type PeriodGuard interface {
	Ensure(ctx context.Context, companyID string, day time.Time) error
}

// ChecklistVerifier decides one checklist item automatically.
type ChecklistVerifier interface {
	Item() domain.ChecklistItemID
	Verify(ctx context.Context, companyID string, fy *domain.FiscalYear) (bool, error)
}

// ClosingCalculator computes the journal lines of each closing step.
type ClosingCalculator interface {
	RevenueClose(ctx context.Context, companyID string, periodStart, periodEnd time.Time) (*domain.ClosingPlan, error)
	ExpenseClose(ctx context.Context, companyID string, periodStart, periodEnd time.Time) (*domain.ClosingPlan, error)
	ProfitLossClose(ctx context.Context, companyID string, periodStart, periodEnd time.Time) (*domain.ClosingPlan, error)
	BalanceClose(ctx context.Context, companyID string, periodStart, periodEnd time.Time) (*domain.ClosingPlan, error)
}
