package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gobooks/internal/domain"
)

func TestLedgerUseCase_TrialBalanceEndToEnd(t *testing.T) {
	b := newBooks(t)

	b.posted(t, domain.DocumentTypeInvoiceIssued, "2025-03-01",
		b.line("311", domain.SideDebit, "121.00"),
		b.line("601", domain.SideCredit, "100.00"),
		b.line("343", domain.SideCredit, "21.00"),
	)

	tb, err := b.ledger.TrialBalance(context.Background(), domain.LedgerFilter{
		CompanyID: company,
		DateFrom:  day("2025-01-01"),
		DateTo:    day("2025-03-31"),
	})
	require.NoError(t, err)

	require.Len(t, tb.Rows, 3)
	assert.Equal(t, "311", tb.Rows[0].SyntheticCode)
	assert.True(t, tb.Rows[0].PeriodDebit.Equal(dec("121.00")))
	assert.True(t, tb.Rows[0].ClosingDebit.Equal(dec("121.00")))
	assert.Equal(t, "343", tb.Rows[1].SyntheticCode)
	assert.True(t, tb.Rows[1].PeriodCredit.Equal(dec("21.00")))
	assert.Equal(t, "601", tb.Rows[2].SyntheticCode)
	assert.True(t, tb.Rows[2].PeriodCredit.Equal(dec("100.00")))

	assert.True(t, tb.IsBalanced)
	assert.True(t, tb.Totals.PeriodDebit.Equal(tb.Totals.PeriodCredit))
	assert.True(t, tb.Totals.ClosingDebit.Equal(tb.Totals.ClosingCredit))
}

func TestLedgerUseCase_DraftsAreIgnored(t *testing.T) {
	b := newBooks(t)

	b.draft(t, domain.DocumentTypeInternal, "2025-03-01",
		b.line("501", domain.SideDebit, "5"),
		b.line("321", domain.SideCredit, "5"),
	)

	tb, err := b.ledger.TrialBalance(context.Background(), domain.LedgerFilter{
		CompanyID: company,
		DateFrom:  day("2025-01-01"),
		DateTo:    day("2025-12-31"),
	})
	require.NoError(t, err)
	assert.Empty(t, tb.Rows)
	assert.True(t, tb.IsBalanced)
}

func TestLedgerUseCase_GeneralLedger(t *testing.T) {
	b := newBooks(t)
	ctx := context.Background()

	b.posted(t, domain.DocumentTypeInvoiceIssued, "2025-01-10",
		b.line("311", domain.SideDebit, "200"),
		b.line("601", domain.SideCredit, "200"),
	)
	b.posted(t, domain.DocumentTypeBankStatement, "2025-02-10",
		b.line("221", domain.SideDebit, "150"),
		b.line("311", domain.SideCredit, "150"),
	)

	gl, err := b.ledger.GeneralLedger(ctx, domain.LedgerFilter{
		CompanyID: company,
		DateFrom:  day("2025-02-01"),
		DateTo:    day("2025-02-28"),
		AccountID: b.ids["311"],
	})
	require.NoError(t, err)
	require.Len(t, gl.Rows, 1)

	row := gl.Rows[0]
	assert.True(t, row.OpeningBalance.Equal(dec("200")))
	assert.True(t, row.PeriodCredit.Equal(dec("150")))
	assert.True(t, row.ClosingBalance.Equal(dec("50")))

	// A single requested account is reported even without activity.
	quiet, err := b.ledger.GeneralLedger(ctx, domain.LedgerFilter{
		CompanyID: company,
		DateFrom:  day("2025-02-01"),
		DateTo:    day("2025-02-28"),
		AccountID: b.ids["518"],
	})
	require.NoError(t, err)
	require.Len(t, quiet.Rows, 1)
	assert.Equal(t, "518", quiet.Rows[0].SyntheticCode)
	assert.True(t, quiet.Rows[0].ClosingBalance.IsZero())

	// Opening sums can be bounded to the fiscal year.
	from := day("2025-02-01")
	bounded, err := b.ledger.GeneralLedger(ctx, domain.LedgerFilter{
		CompanyID:   company,
		DateFrom:    day("2025-02-01"),
		DateTo:      day("2025-02-28"),
		OpeningFrom: &from,
		AccountID:   b.ids["311"],
	})
	require.NoError(t, err)
	assert.True(t, bounded.Rows[0].OpeningBalance.IsZero())
}

func TestLedgerUseCase_Validation(t *testing.T) {
	b := newBooks(t)
	ctx := context.Background()

	_, err := b.ledger.TrialBalance(ctx, domain.LedgerFilter{DateFrom: day("2025-01-01"), DateTo: day("2025-01-31")})
	require.ErrorIs(t, err, domain.ErrMissingCompany)

	_, err = b.ledger.TrialBalance(ctx, domain.LedgerFilter{CompanyID: company, DateFrom: day("2025-02-01"), DateTo: day("2025-01-31")})
	require.ErrorIs(t, err, domain.ErrInvalidDateRange)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = b.ledger.GeneralLedger(ctx, domain.LedgerFilter{CompanyID: company, DateTo: day("2025-01-31")})
	require.ErrorIs(t, err, domain.ErrMissingDate)
}

func TestLedgerUseCase_CarryForwardBounds(t *testing.T) {
	b := newBooks(t)
	ctx := context.Background()

	b.posted(t, domain.DocumentTypeInternal, "2025-03-01",
		b.line("221", domain.SideDebit, "300"),
		b.line("411", domain.SideCredit, "300"),
	)
	carried := b.posted(t, domain.DocumentTypeInternal, "2026-01-01",
		b.line("221", domain.SideDebit, "300"),
		b.line("701", domain.SideCredit, "300"),
	)
	b.ledgerRepo.CarryForwardsFunc = func(context.Context, string) ([]*domain.CarryForward, error) {
		return []*domain.CarryForward{{EntryID: carried.ID, Date: day("2026-01-01")}}, nil
	}

	closing := func(filter domain.LedgerFilter) decimal.Decimal {
		t.Helper()
		filter.CompanyID = company
		filter.AccountID = b.ids["221"]
		gl, err := b.ledger.GeneralLedger(ctx, filter)
		require.NoError(t, err)
		require.Len(t, gl.Rows, 1)
		return gl.Rows[0].ClosingBalance
	}

	// Starting before the carry-forward sums the history it restates.
	early := day("2025-01-01")
	assert.True(t, dec("300").Equal(closing(domain.LedgerFilter{
		DateFrom:    day("2026-02-01"),
		DateTo:      day("2026-02-28"),
		OpeningFrom: &early,
	})))
	assert.True(t, dec("300").Equal(closing(domain.LedgerFilter{
		DateFrom: day("2026-02-01"),
		DateTo:   day("2026-02-28"),
	})))
	assert.True(t, dec("300").Equal(closing(domain.LedgerFilter{
		DateFrom: day("2025-01-01"),
		DateTo:   day("2026-12-31"),
	})))
}
