package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceTolerance is the accepted difference between report totals.
var TrialBalanceTolerance = decimal.RequireFromString("0.01")

// LedgerFilter selects the posted lines aggregated by a report.
type LedgerFilter struct {
	CompanyID       string
	DateFrom        time.Time
	DateTo          time.Time
	// OpeningFrom bounds the opening sums from below. Nil means all history.
	OpeningFrom     *time.Time
	AccountID       string
	CostCenterID    string
	ProjectID       string
	Classes         []int
	// ExcludeEntryIDs drops whole entries from every sum.
	ExcludeEntryIDs []string
}

// CarryForward is the posted entry of an executed balance close. It restates
// every balance sheet balance dated before Date, so reports start summing
// from the latest one instead of from the beginning of history.
type CarryForward struct {
	EntryID string
	Date    time.Time
}

// AccountMovement holds raw per-account sums used by every report shape.
type AccountMovement struct {
	AccountID     string
	SyntheticCode string
	AnalyticCode  string
	AccountName   string
	AccountType   AccountType
	OpeningDebit  decimal.Decimal
	OpeningCredit decimal.Decimal
	PeriodDebit   decimal.Decimal
	PeriodCredit  decimal.Decimal
}

// HasActivity reports whether any of the four sums is non-zero.
func (m *AccountMovement) HasActivity() bool {
	return !m.OpeningDebit.IsZero() || !m.OpeningCredit.IsZero() ||
		!m.PeriodDebit.IsZero() || !m.PeriodCredit.IsZero()
}

// OpeningBalance is opening MD minus opening D.
func (m *AccountMovement) OpeningBalance() decimal.Decimal {
	return m.OpeningDebit.Sub(m.OpeningCredit)
}

// ClosingBalance is the signed balance at the end of the period (MD positive).
func (m *AccountMovement) ClosingBalance() decimal.Decimal {
	return m.OpeningBalance().Add(m.PeriodDebit).Sub(m.PeriodCredit)
}

// GeneralLedgerRow is a netted per-account balance.
type GeneralLedgerRow struct {
	AccountID      string
	SyntheticCode  string
	AnalyticCode   string
	AccountName    string
	AccountType    AccountType
	OpeningBalance decimal.Decimal
	PeriodDebit    decimal.Decimal
	PeriodCredit   decimal.Decimal
	ClosingBalance decimal.Decimal
}

// GeneralLedger is the netted report.
type GeneralLedger struct {
	CompanyID string
	DateFrom  time.Time
	DateTo    time.Time
	Rows      []*GeneralLedgerRow
}

// TrialBalanceRow keeps MD and D un-netted.
type TrialBalanceRow struct {
	AccountID     string
	SyntheticCode string
	AnalyticCode  string
	AccountName   string
	AccountType   AccountType
	OpeningDebit  decimal.Decimal
	OpeningCredit decimal.Decimal
	PeriodDebit   decimal.Decimal
	PeriodCredit  decimal.Decimal
	ClosingDebit  decimal.Decimal
	ClosingCredit decimal.Decimal
}

// TrialBalanceTotals sums every column of the report.
type TrialBalanceTotals struct {
	OpeningDebit  decimal.Decimal
	OpeningCredit decimal.Decimal
	PeriodDebit   decimal.Decimal
	PeriodCredit  decimal.Decimal
	ClosingDebit  decimal.Decimal
	ClosingCredit decimal.Decimal
}

// TrialBalance is the un-netted report with its own balance check.
type TrialBalance struct {
	CompanyID  string
	DateFrom   time.Time
	DateTo     time.Time
	Rows       []*TrialBalanceRow
	Totals     TrialBalanceTotals
	IsBalanced bool
}
