package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobooks/internal/domain"
)

// ClosingPolicy holds the configurable parts of year-end closing.
type ClosingPolicy struct {
	GatePercentage          float64
	ProfitLossAccount       string
	RetainedEarningsAccount string
	OpeningBalanceAccount   string
}

// DefaultClosingPolicy returns the policy of the Slovak chart of accounts.
func DefaultClosingPolicy() ClosingPolicy {
	return ClosingPolicy{
		GatePercentage:          DefaultClosingGatePercentage,
		ProfitLossAccount:       DefaultProfitLossAccount,
		RetainedEarningsAccount: DefaultRetainedEarningsAccount,
		OpeningBalanceAccount:   DefaultOpeningBalanceAccount,
	}
}

// LedgerClosingCalculator computes closing plans from posted balances.
type LedgerClosingCalculator struct {
	ledgerRepo  LedgerRepository
	accountRepo AccountRepository
	policy      ClosingPolicy
}

// NewLedgerClosingCalculator creates a new LedgerClosingCalculator.
func NewLedgerClosingCalculator(ledgerRepo LedgerRepository, accountRepo AccountRepository, policy ClosingPolicy) *LedgerClosingCalculator {
	return &LedgerClosingCalculator{
		ledgerRepo:  ledgerRepo,
		accountRepo: accountRepo,
		policy:      policy,
	}
}

// RevenueClose offsets every class 6 balance against the profit/loss account.
func (c *LedgerClosingCalculator) RevenueClose(ctx context.Context, companyID string, periodStart, periodEnd time.Time) (*domain.ClosingPlan, error) {
	return c.classClose(ctx, companyID, periodStart, periodEnd, domain.ClassRevenue, "Closing revenue accounts")
}

// ExpenseClose offsets every class 5 balance against the profit/loss account.
func (c *LedgerClosingCalculator) ExpenseClose(ctx context.Context, companyID string, periodStart, periodEnd time.Time) (*domain.ClosingPlan, error) {
	return c.classClose(ctx, companyID, periodStart, periodEnd, domain.ClassExpense, "Closing expense accounts")
}

// ProfitLossClose moves the profit/loss balance into retained earnings.
func (c *LedgerClosingCalculator) ProfitLossClose(ctx context.Context, companyID string, periodStart, periodEnd time.Time) (*domain.ClosingPlan, error) {
	clearing, err := c.account(ctx, companyID, c.policy.ProfitLossAccount)
	if err != nil {
		return nil, err
	}
	retained, err := c.account(ctx, companyID, c.policy.RetainedEarningsAccount)
	if err != nil {
		return nil, err
	}

	movements, err := c.ledgerRepo.AccountMovements(ctx, c.filter(companyID, periodStart, periodEnd, func(f *domain.LedgerFilter) {
		f.AccountID = clearing.ID
	}))
	if err != nil {
		return nil, err
	}

	balance := decimal.Zero
	for _, m := range movements {
		if m.AccountID == clearing.ID {
			balance = balance.Add(m.ClosingBalance())
		}
	}

	plan := &domain.ClosingPlan{
		Date:        domain.Date(periodEnd),
		Description: "Closing profit and loss into retained earnings",
		TotalAmount: decimal.Zero,
	}
	if balance.IsZero() {
		return plan, nil
	}

	// A debit balance (loss) is cleared on D and charged to retained earnings on MD.
	side := domain.SideCredit
	if balance.IsNegative() {
		side = domain.SideDebit
	}
	amount := balance.Abs()
	plan.Lines = []*domain.JournalEntryLine{
		closingLine(clearing, side, amount, plan.Description),
		closingLine(retained, side.Opposite(), amount, plan.Description),
	}
	plan.TotalAmount = amount
	plan.AccountsCount = 1

	return plan, nil
}

// BalanceClose re-opens every class 0-4 balance on the day after periodEnd
// against the opening balance account.
func (c *LedgerClosingCalculator) BalanceClose(ctx context.Context, companyID string, periodStart, periodEnd time.Time) (*domain.ClosingPlan, error) {
	opening, err := c.account(ctx, companyID, c.policy.OpeningBalanceAccount)
	if err != nil {
		return nil, err
	}

	// Balance sheet accounts accumulate across years: sum from the previous
	// carry-forward, or from the start of history when there is none.
	filter := c.filter(companyID, periodStart, periodEnd, func(f *domain.LedgerFilter) {
		f.Classes = domain.BalanceSheetClasses
		f.OpeningFrom = nil
	})
	if err := applyCarryForwards(ctx, c.ledgerRepo, &filter); err != nil {
		return nil, err
	}

	movements, err := c.ledgerRepo.AccountMovements(ctx, filter)
	if err != nil {
		return nil, err
	}

	plan := &domain.ClosingPlan{
		Date:        domain.Date(periodEnd).AddDate(0, 0, 1),
		Description: "Opening balances carried forward",
		TotalAmount: decimal.Zero,
	}

	debits, credits := decimal.Zero, decimal.Zero
	for _, m := range sortedMovements(movements) {
		balance := m.ClosingBalance()
		if balance.IsZero() || m.AccountID == opening.ID {
			continue
		}
		side := domain.SideDebit
		if balance.IsNegative() {
			side = domain.SideCredit
			credits = credits.Add(balance.Abs())
		} else {
			debits = debits.Add(balance)
		}
		plan.Lines = append(plan.Lines, movementLine(m, side, balance.Abs(), plan.Description))
		plan.AccountsCount++
	}

	if !debits.IsZero() {
		plan.Lines = append(plan.Lines, closingLine(opening, domain.SideCredit, debits, plan.Description))
	}
	if !credits.IsZero() {
		plan.Lines = append(plan.Lines, closingLine(opening, domain.SideDebit, credits, plan.Description))
	}
	plan.TotalAmount, _ = domain.ComputeTotals(plan.Lines)

	return plan, nil
}

func (c *LedgerClosingCalculator) classClose(
	ctx context.Context,
	companyID string,
	periodStart, periodEnd time.Time,
	class int,
	description string,
) (*domain.ClosingPlan, error) {
	clearing, err := c.account(ctx, companyID, c.policy.ProfitLossAccount)
	if err != nil {
		return nil, err
	}

	movements, err := c.ledgerRepo.AccountMovements(ctx, c.filter(companyID, periodStart, periodEnd, func(f *domain.LedgerFilter) {
		f.Classes = []int{class}
	}))
	if err != nil {
		return nil, err
	}

	plan := &domain.ClosingPlan{
		Date:        domain.Date(periodEnd),
		Description: description,
		TotalAmount: decimal.Zero,
	}

	net := decimal.Zero
	for _, m := range sortedMovements(movements) {
		balance := m.ClosingBalance()
		if balance.IsZero() {
			continue
		}
		net = net.Add(balance)

		// Offset on the opposite side of the balance.
		side := domain.SideCredit
		if balance.IsNegative() {
			side = domain.SideDebit
		}
		plan.Lines = append(plan.Lines, movementLine(m, side, balance.Abs(), description))
		plan.AccountsCount++
	}

	if plan.IsEmpty() {
		return plan, nil
	}

	if !net.IsZero() {
		side := domain.SideDebit
		if net.IsNegative() {
			side = domain.SideCredit
		}
		plan.Lines = append(plan.Lines, closingLine(clearing, side, net.Abs(), description))
	}
	plan.TotalAmount, _ = domain.ComputeTotals(plan.Lines)

	return plan, nil
}

func (c *LedgerClosingCalculator) filter(companyID string, periodStart, periodEnd time.Time, opt func(*domain.LedgerFilter)) domain.LedgerFilter {
	start := domain.Date(periodStart)
	f := domain.LedgerFilter{
		CompanyID:   companyID,
		DateFrom:    start,
		DateTo:      domain.Date(periodEnd),
		OpeningFrom: &start,
	}
	opt(&f)
	return f
}

// account resolves a policy account code such as "710" or "431.100".
func (c *LedgerClosingCalculator) account(ctx context.Context, companyID, code string) (*domain.Account, error) {
	synthetic, analytic, _ := strings.Cut(code, ".")
	account, err := c.accountRepo.GetByCode(ctx, companyID, synthetic, analytic)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.WithDetails(domain.ErrClosingAccountMissing, map[string]any{"account_code": code})
		}
		return nil, err
	}
	return account, nil
}

func sortedMovements(movements []*domain.AccountMovement) []*domain.AccountMovement {
	out := append([]*domain.AccountMovement(nil), movements...)
	sortMovements(out)
	return out
}

func movementLine(m *domain.AccountMovement, side domain.Side, amount decimal.Decimal, description string) *domain.JournalEntryLine {
	return &domain.JournalEntryLine{
		AccountID:        m.AccountID,
		Side:             side,
		Amount:           amount,
		Description:      description,
		AccountSynthetic: m.SyntheticCode,
		AccountAnalytic:  m.AnalyticCode,
		AccountName:      m.AccountName,
	}
}

func closingLine(account *domain.Account, side domain.Side, amount decimal.Decimal, description string) *domain.JournalEntryLine {
	return &domain.JournalEntryLine{
		AccountID:        account.ID,
		Side:             side,
		Amount:           amount,
		Description:      description,
		AccountSynthetic: account.SyntheticCode,
		AccountAnalytic:  account.AnalyticCode,
		AccountName:      account.Name,
	}
}
