package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClosingPrerequisites(t *testing.T) {
	t.Parallel()

	assert.Empty(t, ClosingRevenue.Prerequisites())
	assert.Empty(t, ClosingExpense.Prerequisites())
	assert.Equal(t, []ClosingOperationType{ClosingRevenue, ClosingExpense}, ClosingProfitLoss.Prerequisites())
	assert.Equal(t, []ClosingOperationType{ClosingProfitLoss}, ClosingBalance.Prerequisites())
}

func TestMissingPrerequisites(t *testing.T) {
	t.Parallel()

	done := []*ClosingOperation{{Type: ClosingRevenue}}

	assert.Equal(t, []ClosingOperationType{ClosingExpense}, ClosingProfitLoss.MissingPrerequisites(done))
	assert.Equal(t, []ClosingOperationType{ClosingProfitLoss}, ClosingBalance.MissingPrerequisites(done))
	assert.Empty(t, ClosingExpense.MissingPrerequisites(done))

	done = append(done, &ClosingOperation{Type: ClosingExpense})
	assert.Empty(t, ClosingProfitLoss.MissingPrerequisites(done))
}

func TestClosingOperationTypeIsValid(t *testing.T) {
	t.Parallel()

	for _, typ := range ClosingOperationTypes {
		assert.True(t, typ.IsValid(), typ)
	}
	assert.False(t, ClosingOperationType("tax_close").IsValid())
}

func TestFiscalYear(t *testing.T) {
	t.Parallel()

	d := func(s string) time.Time {
		v, _ := ParseDate(s)
		return v
	}

	fy := &FiscalYear{StartDate: d("2025-01-01"), EndDate: d("2025-12-31"), Status: FiscalYearActive}

	assert.True(t, fy.IsActive())
	assert.True(t, fy.Contains(d("2025-01-01")))
	assert.True(t, fy.Contains(d("2025-12-31")))
	assert.False(t, fy.Contains(d("2026-01-01")))

	assert.True(t, fy.Overlaps(&FiscalYear{StartDate: d("2025-12-31"), EndDate: d("2026-12-31")}))
	assert.False(t, fy.Overlaps(&FiscalYear{StartDate: d("2026-01-01"), EndDate: d("2026-12-31")}))
}

func TestPeriodLockCovers(t *testing.T) {
	t.Parallel()

	start, _ := ParseDate("2024-01-01")
	end, _ := ParseDate("2024-01-31")
	lock := &PeriodLock{ID: "lock-1", PeriodStart: start, PeriodEnd: end, Locked: true}

	inside, _ := ParseDate("2024-01-15")
	outside, _ := ParseDate("2024-02-01")

	assert.True(t, lock.Covers(inside))
	assert.True(t, lock.Covers(end.Add(23*time.Hour)))
	assert.False(t, lock.Covers(outside))

	err := lock.LockedError(inside)
	assert.ErrorIs(t, err, ErrPeriodLocked)
	assert.ErrorIs(t, err, ErrStateConflict)
	assert.Equal(t, map[string]any{
		"date":         "2024-01-15",
		"lock_id":      "lock-1",
		"period_start": "2024-01-01",
		"period_end":   "2024-01-31",
	}, DetailsOf(err))

	lock.Locked = false
	assert.False(t, lock.Covers(inside))
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	got, err := ParseDate("2025-03-01")
	assert.NoError(t, err)
	assert.Equal(t, "2025-03-01", FormatDate(got))

	_, err = ParseDate("01.03.2025")
	assert.ErrorIs(t, err, ErrValidation)
}
