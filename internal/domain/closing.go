package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClosingOperationType is one of the four year-end closing steps.
type ClosingOperationType string

const (
	ClosingRevenue    ClosingOperationType = "revenue_close"
	ClosingExpense    ClosingOperationType = "expense_close"
	ClosingProfitLoss ClosingOperationType = "profit_loss_close"
	ClosingBalance    ClosingOperationType = "balance_close"
)

// ClosingOperationTypes lists the types in execution order.
var ClosingOperationTypes = []ClosingOperationType{
	ClosingRevenue,
	ClosingExpense,
	ClosingProfitLoss,
	ClosingBalance,
}

// IsValid reports whether t is a known closing type.
func (t ClosingOperationType) IsValid() bool {
	switch t {
	case ClosingRevenue, ClosingExpense, ClosingProfitLoss, ClosingBalance:
		return true
	}
	return false
}

// Prerequisites returns the types that must already exist before t may run.
func (t ClosingOperationType) Prerequisites() []ClosingOperationType {
	switch t {
	case ClosingProfitLoss:
		return []ClosingOperationType{ClosingRevenue, ClosingExpense}
	case ClosingBalance:
		return []ClosingOperationType{ClosingProfitLoss}
	case ClosingRevenue, ClosingExpense:
		return nil
	}
	return nil
}

// MissingPrerequisites returns prerequisites of t absent from done.
func (t ClosingOperationType) MissingPrerequisites(done []*ClosingOperation) []ClosingOperationType {
	have := make(map[ClosingOperationType]bool, len(done))
	for _, op := range done {
		have[op.Type] = true
	}

	var missing []ClosingOperationType
	for _, req := range t.Prerequisites() {
		if !have[req] {
			missing = append(missing, req)
		}
	}
	return missing
}

// ClosingOperation records one successful execution of a closing step.
type ClosingOperation struct {
	ID             string
	CompanyID      string
	FiscalYearID   string
	Type           ClosingOperationType
	JournalEntryID *string
	TotalAmount    decimal.Decimal
	AccountsCount  int
	CreatedBy      string
	CreatedAt      time.Time
}

// ClosingPlan is the computed outcome of a closing step before it is persisted.
type ClosingPlan struct {
	Date          time.Time
	Description   string
	Lines         []*JournalEntryLine
	TotalAmount   decimal.Decimal
	AccountsCount int
}

// IsEmpty reports whether there is nothing to book.
func (p *ClosingPlan) IsEmpty() bool {
	return len(p.Lines) == 0
}
