package usecase

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/iho/gobooks/internal/domain"
)

// LedgerUseCase derives the general ledger and trial balance from posted lines.
type LedgerUseCase struct {
	ledgerRepo  LedgerRepository
	accountRepo AccountRepository
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(ledgerRepo LedgerRepository, accountRepo AccountRepository) *LedgerUseCase {
	return &LedgerUseCase{
		ledgerRepo:  ledgerRepo,
		accountRepo: accountRepo,
	}
}

// GeneralLedger returns netted balances per account for the filter period.
func (uc *LedgerUseCase) GeneralLedger(ctx context.Context, filter domain.LedgerFilter) (*domain.GeneralLedger, error) {
	movements, filter, err := uc.movements(ctx, filter)
	if err != nil {
		return nil, err
	}

	report := &domain.GeneralLedger{
		CompanyID: filter.CompanyID,
		DateFrom:  filter.DateFrom,
		DateTo:    filter.DateTo,
		Rows:      make([]*domain.GeneralLedgerRow, 0, len(movements)),
	}
	for _, m := range movements {
		report.Rows = append(report.Rows, &domain.GeneralLedgerRow{
			AccountID:      m.AccountID,
			SyntheticCode:  m.SyntheticCode,
			AnalyticCode:   m.AnalyticCode,
			AccountName:    m.AccountName,
			AccountType:    m.AccountType,
			OpeningBalance: m.OpeningBalance(),
			PeriodDebit:    m.PeriodDebit,
			PeriodCredit:   m.PeriodCredit,
			ClosingBalance: m.ClosingBalance(),
		})
	}

	return report, nil
}

// TrialBalance returns the six un-netted columns per account with totals.
func (uc *LedgerUseCase) TrialBalance(ctx context.Context, filter domain.LedgerFilter) (*domain.TrialBalance, error) {
	movements, filter, err := uc.movements(ctx, filter)
	if err != nil {
		return nil, err
	}

	report := &domain.TrialBalance{
		CompanyID: filter.CompanyID,
		DateFrom:  filter.DateFrom,
		DateTo:    filter.DateTo,
		Rows:      make([]*domain.TrialBalanceRow, 0, len(movements)),
		Totals: domain.TrialBalanceTotals{
			OpeningDebit:  decimal.Zero,
			OpeningCredit: decimal.Zero,
			PeriodDebit:   decimal.Zero,
			PeriodCredit:  decimal.Zero,
			ClosingDebit:  decimal.Zero,
			ClosingCredit: decimal.Zero,
		},
	}

	for _, m := range movements {
		row := &domain.TrialBalanceRow{
			AccountID:     m.AccountID,
			SyntheticCode: m.SyntheticCode,
			AnalyticCode:  m.AnalyticCode,
			AccountName:   m.AccountName,
			AccountType:   m.AccountType,
			OpeningDebit:  m.OpeningDebit,
			OpeningCredit: m.OpeningCredit,
			PeriodDebit:   m.PeriodDebit,
			PeriodCredit:  m.PeriodCredit,
			ClosingDebit:  m.OpeningDebit.Add(m.PeriodDebit),
			ClosingCredit: m.OpeningCredit.Add(m.PeriodCredit),
		}
		report.Rows = append(report.Rows, row)

		t := &report.Totals
		t.OpeningDebit = t.OpeningDebit.Add(row.OpeningDebit)
		t.OpeningCredit = t.OpeningCredit.Add(row.OpeningCredit)
		t.PeriodDebit = t.PeriodDebit.Add(row.PeriodDebit)
		t.PeriodCredit = t.PeriodCredit.Add(row.PeriodCredit)
		t.ClosingDebit = t.ClosingDebit.Add(row.ClosingDebit)
		t.ClosingCredit = t.ClosingCredit.Add(row.ClosingCredit)
	}

	t := report.Totals
	report.IsBalanced = !t.PeriodDebit.Sub(t.PeriodCredit).Abs().GreaterThan(domain.TrialBalanceTolerance) &&
		!t.ClosingDebit.Sub(t.ClosingCredit).Abs().GreaterThan(domain.TrialBalanceTolerance)

	return report, nil
}

// movements validates the filter, loads the sums and drops rows without activity.
// A single requested account always yields a row.
func (uc *LedgerUseCase) movements(ctx context.Context, filter domain.LedgerFilter) ([]*domain.AccountMovement, domain.LedgerFilter, error) {
	if filter.CompanyID == "" {
		return nil, filter, domain.ErrMissingCompany
	}
	if filter.DateFrom.IsZero() || filter.DateTo.IsZero() {
		return nil, filter, domain.ErrMissingDate
	}
	filter.DateFrom, filter.DateTo = domain.Date(filter.DateFrom), domain.Date(filter.DateTo)
	if filter.DateFrom.After(filter.DateTo) {
		return nil, filter, domain.WithDetails(domain.ErrInvalidDateRange, map[string]any{
			"date_from": domain.FormatDate(filter.DateFrom),
			"date_to":   domain.FormatDate(filter.DateTo),
		})
	}
	if filter.OpeningFrom != nil {
		from := domain.Date(*filter.OpeningFrom)
		if from.After(filter.DateFrom) {
			return nil, filter, domain.WithDetails(domain.ErrInvalidDateRange, map[string]any{
				"opening_from": domain.FormatDate(from),
				"date_from":    domain.FormatDate(filter.DateFrom),
			})
		}
		filter.OpeningFrom = &from
	}
	for _, class := range filter.Classes {
		if class < 0 || class > 9 {
			return nil, filter, domain.WithDetails(wrapValidation("account class must be 0-9"), map[string]any{"class": class})
		}
	}

	if err := applyCarryForwards(ctx, uc.ledgerRepo, &filter); err != nil {
		return nil, filter, err
	}

	raw, err := uc.ledgerRepo.AccountMovements(ctx, filter)
	if err != nil {
		return nil, filter, err
	}

	movements := make([]*domain.AccountMovement, 0, len(raw))
	for _, m := range raw {
		if m.HasActivity() || (filter.AccountID != "" && m.AccountID == filter.AccountID) {
			movements = append(movements, m)
		}
	}

	if filter.AccountID != "" && len(movements) == 0 {
		account, err := uc.accountRepo.GetByID(ctx, filter.CompanyID, filter.AccountID)
		if err != nil {
			return nil, filter, err
		}
		movements = append(movements, &domain.AccountMovement{
			AccountID:     account.ID,
			SyntheticCode: account.SyntheticCode,
			AnalyticCode:  account.AnalyticCode,
			AccountName:   account.Name,
			AccountType:   account.Type,
			OpeningDebit:  decimal.Zero,
			OpeningCredit: decimal.Zero,
			PeriodDebit:   decimal.Zero,
			PeriodCredit:  decimal.Zero,
		})
	}

	sortMovements(movements)

	return movements, filter, nil
}

// applyCarryForwards keeps balance sheet history from being counted twice
// once a year has been balance closed. Without an explicit OpeningFrom the
// opening sums start at the latest carry-forward dated on or before DateFrom.
// Any later carry-forward up to DateTo restates lines already summed from
// that start, so it is excluded.
func applyCarryForwards(ctx context.Context, repo LedgerRepository, filter *domain.LedgerFilter) error {
	carryForwards, err := repo.CarryForwards(ctx, filter.CompanyID)
	if err != nil {
		return err
	}

	if filter.OpeningFrom == nil {
		for _, cf := range carryForwards {
			d := domain.Date(cf.Date)
			if !d.After(filter.DateFrom) && (filter.OpeningFrom == nil || d.After(*filter.OpeningFrom)) {
				filter.OpeningFrom = &d
			}
		}
	}

	for _, cf := range carryForwards {
		d := domain.Date(cf.Date)
		if d.After(filter.DateTo) {
			continue
		}
		if filter.OpeningFrom == nil || d.After(*filter.OpeningFrom) {
			filter.ExcludeEntryIDs = append(filter.ExcludeEntryIDs, cf.EntryID)
		}
	}
	return nil
}

// sortMovements orders by synthetic then analytic code.
func sortMovements(movements []*domain.AccountMovement) {
	sort.SliceStable(movements, func(i, j int) bool {
		if movements[i].SyntheticCode != movements[j].SyntheticCode {
			return movements[i].SyntheticCode < movements[j].SyntheticCode
		}
		return movements[i].AnalyticCode < movements[j].AnalyticCode
	})
}
