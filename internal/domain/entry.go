package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BalanceTolerance is the largest accepted |ΣMD - ΣD| for a single entry.
var BalanceTolerance = decimal.RequireFromString("0.005")

// Side is the side of a journal line: MD (debit, "má dať") or D (credit, "dal").
type Side string

const (
	SideDebit  Side = "MD"
	SideCredit Side = "D"
)

// IsValid reports whether s is MD or D.
func (s Side) IsValid() bool {
	switch s {
	case SideDebit, SideCredit:
		return true
	}
	return false
}

// Opposite flips MD and D.
func (s Side) Opposite() Side {
	switch s {
	case SideDebit:
		return SideCredit
	case SideCredit:
		return SideDebit
	}
	return s
}

// EntryStatus is the lifecycle state of a journal entry.
type EntryStatus string

const (
	EntryStatusDraft  EntryStatus = "draft"
	EntryStatusPosted EntryStatus = "posted"
)

// IsValid reports whether s is a known status.
func (s EntryStatus) IsValid() bool {
	switch s {
	case EntryStatusDraft, EntryStatusPosted:
		return true
	}
	return false
}

// DocumentType tags the source document of an entry.
type DocumentType string

const (
	DocumentTypeInvoiceIssued   DocumentType = "FA"
	DocumentTypeInvoiceReceived DocumentType = "PFA"
	DocumentTypeInternal        DocumentType = "ID"
	DocumentTypeBankStatement   DocumentType = "BV"
	DocumentTypeCashReceipt     DocumentType = "PPD"
	DocumentTypeCashPayment     DocumentType = "VPD"
)

// IsValid reports whether t is a known document type.
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypeInvoiceIssued, DocumentTypeInvoiceReceived, DocumentTypeInternal,
		DocumentTypeBankStatement, DocumentTypeCashReceipt, DocumentTypeCashPayment:
		return true
	}
	return false
}

// SequenceType is the numbering sequence key for the document type.
func (t DocumentType) SequenceType() string {
	return "journal_" + strings.ToLower(string(t))
}

// JournalEntry is the header of a double-entry transaction.
type JournalEntry struct {
	ID               string
	CompanyID        string
	Number           string
	DocumentType     DocumentType
	Date             time.Time
	Description      string
	Status           EntryStatus
	TotalDebit       decimal.Decimal
	TotalCredit      decimal.Decimal
	SourceDocumentID *string
	ReversedEntryID  *string
	CreatedBy        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	PostedAt         *time.Time
	PostedBy         *string
	Lines            []*JournalEntryLine
}

// JournalEntryLine is a single debit or credit movement on one account.
type JournalEntryLine struct {
	ID             string
	JournalEntryID string
	Position       int
	AccountID      string
	Side           Side
	Amount         decimal.Decimal
	CurrencyAmount *decimal.Decimal
	ExchangeRate   *decimal.Decimal
	CurrencyCode   *string
	CostCenterID   *string
	ProjectID      *string
	Description    string

	// Read-only account display fields.
	AccountSynthetic string
	AccountAnalytic  string
	AccountName      string
}

// IsDraft reports whether the entry may still be changed.
func (e *JournalEntry) IsDraft() bool {
	return e.Status == EntryStatusDraft
}

// ComputeTotals sums the MD and D sides of lines.
func ComputeTotals(lines []*JournalEntryLine) (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, l := range lines {
		switch l.Side {
		case SideDebit:
			debit = debit.Add(l.Amount)
		case SideCredit:
			credit = credit.Add(l.Amount)
		}
	}
	return debit, credit
}

// ValidateLines checks line shape and the balance invariant and returns the totals.
func ValidateLines(lines []*JournalEntryLine) (debit, credit decimal.Decimal, err error) {
	if len(lines) == 0 {
		return decimal.Zero, decimal.Zero, ErrNoLines
	}

	for i, l := range lines {
		if !l.Side.IsValid() {
			return decimal.Zero, decimal.Zero, WithDetails(
				fmt.Errorf("%w: line %d has side %q", ErrInvalidSide, i+1, l.Side),
				map[string]any{"line": i + 1, "side": string(l.Side)},
			)
		}
		if l.Amount.IsNegative() {
			return decimal.Zero, decimal.Zero, WithDetails(
				fmt.Errorf("%w: line %d amount %s", ErrNegativeAmount, i+1, l.Amount),
				map[string]any{"line": i + 1, "amount": l.Amount.String()},
			)
		}
		if strings.TrimSpace(l.AccountID) == "" {
			return decimal.Zero, decimal.Zero, WithDetails(
				fmt.Errorf("%w: line %d has no account", ErrValidation, i+1),
				map[string]any{"line": i + 1},
			)
		}
	}

	debit, credit = ComputeTotals(lines)
	if debit.Sub(credit).Abs().GreaterThan(BalanceTolerance) {
		return debit, credit, WithDetails(
			fmt.Errorf("%w: MD %s, D %s", ErrUnbalancedEntry, debit.StringFixed(2), credit.StringFixed(2)),
			map[string]any{
				"total_debit":  debit.String(),
				"total_credit": credit.String(),
				"difference":   debit.Sub(credit).String(),
			},
		)
	}

	return debit, credit, nil
}

// ReversalLines mirrors lines with sides flipped, ready to be attached to a new entry.
func ReversalLines(lines []*JournalEntryLine) []*JournalEntryLine {
	out := make([]*JournalEntryLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, &JournalEntryLine{
			Position:       l.Position,
			AccountID:      l.AccountID,
			Side:           l.Side.Opposite(),
			Amount:         l.Amount,
			CurrencyAmount: l.CurrencyAmount,
			ExchangeRate:   l.ExchangeRate,
			CurrencyCode:   l.CurrencyCode,
			CostCenterID:   l.CostCenterID,
			ProjectID:      l.ProjectID,
			Description:    ReversalPrefix + ": " + l.Description,

			AccountSynthetic: l.AccountSynthetic,
			AccountAnalytic:  l.AccountAnalytic,
			AccountName:      l.AccountName,
		})
	}
	return out
}

// ReversalPrefix marks storno entries and lines.
const ReversalPrefix = "Storno"

// ReversalDescription builds the header description of a storno entry.
func ReversalDescription(original *JournalEntry) string {
	return fmt.Sprintf("%s %s: %s", ReversalPrefix, original.Number, original.Description)
}

// EntryFilter selects journal entries for listing.
type EntryFilter struct {
	CompanyID    string
	Status       EntryStatus
	DocumentType DocumentType
	DateFrom     *time.Time
	DateTo       *time.Time
	Limit        int
	Offset       int
}
