package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(account string, side Side, amount string) *JournalEntryLine {
	return &JournalEntryLine{AccountID: account, Side: side, Amount: decimal.RequireFromString(amount)}
}

func TestValidateLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		lines      []*JournalEntryLine
		wantErr    error
		wantDebit  string
		wantCredit string
	}{
		{
			name:       "balanced invoice",
			lines:      []*JournalEntryLine{line("311", SideDebit, "121.00"), line("601", SideCredit, "100.00"), line("343", SideCredit, "21.00")},
			wantDebit:  "121",
			wantCredit: "121",
		},
		{
			name:       "difference within tolerance",
			lines:      []*JournalEntryLine{line("311", SideDebit, "100.004"), line("601", SideCredit, "100.00")},
			wantDebit:  "100.004",
			wantCredit: "100",
		},
		{
			name:       "zero amounts are accepted",
			lines:      []*JournalEntryLine{line("311", SideDebit, "0"), line("601", SideCredit, "0")},
			wantDebit:  "0",
			wantCredit: "0",
		},
		{
			name:    "no lines",
			lines:   nil,
			wantErr: ErrNoLines,
		},
		{
			name:    "unbalanced",
			lines:   []*JournalEntryLine{line("311", SideDebit, "100.00"), line("601", SideCredit, "99.99")},
			wantErr: ErrUnbalancedEntry,
		},
		{
			name:    "unknown side",
			lines:   []*JournalEntryLine{line("311", Side("X"), "1")},
			wantErr: ErrInvalidSide,
		},
		{
			name:    "negative amount",
			lines:   []*JournalEntryLine{line("311", SideDebit, "-1"), line("601", SideCredit, "-1")},
			wantErr: ErrNegativeAmount,
		},
		{
			name:    "missing account",
			lines:   []*JournalEntryLine{line("", SideDebit, "1"), line("601", SideCredit, "1")},
			wantErr: ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			debit, credit, err := ValidateLines(tt.lines)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.True(t, debit.Equal(decimal.RequireFromString(tt.wantDebit)), "debit %s", debit)
			assert.True(t, credit.Equal(decimal.RequireFromString(tt.wantCredit)), "credit %s", credit)
		})
	}
}

func TestValidateLines_UnbalancedDetails(t *testing.T) {
	t.Parallel()

	_, _, err := ValidateLines([]*JournalEntryLine{line("311", SideDebit, "100"), line("601", SideCredit, "90")})
	require.ErrorIs(t, err, ErrUnbalancedEntry)

	details := DetailsOf(err)
	require.NotNil(t, details)
	assert.Equal(t, "100", details["total_debit"])
	assert.Equal(t, "90", details["total_credit"])
	assert.Equal(t, "10", details["difference"])
}

func TestReversalLines(t *testing.T) {
	t.Parallel()

	original := []*JournalEntryLine{
		{Position: 1, AccountID: "A", Side: SideDebit, Amount: decimal.NewFromInt(100), Description: "sale"},
		{Position: 2, AccountID: "B", Side: SideCredit, Amount: decimal.NewFromInt(100)},
	}

	reversed := ReversalLines(original)
	require.Len(t, reversed, 2)

	assert.Equal(t, "A", reversed[0].AccountID)
	assert.Equal(t, SideCredit, reversed[0].Side)
	assert.Equal(t, "Storno: sale", reversed[0].Description)
	assert.Equal(t, "B", reversed[1].AccountID)
	assert.Equal(t, SideDebit, reversed[1].Side)
	assert.True(t, reversed[1].Amount.Equal(decimal.NewFromInt(100)))

	// originals are untouched
	assert.Equal(t, SideDebit, original[0].Side)
	assert.Equal(t, "sale", original[0].Description)

	debit, credit := ComputeTotals(reversed)
	origDebit, origCredit := ComputeTotals(original)
	assert.True(t, debit.Equal(origCredit))
	assert.True(t, credit.Equal(origDebit))
}

func TestReversalDescription(t *testing.T) {
	t.Parallel()

	got := ReversalDescription(&JournalEntry{Number: "FA000001", Description: "Invoice 1"})
	assert.Equal(t, "Storno FA000001: Invoice 1", got)
}

func TestDocumentType(t *testing.T) {
	t.Parallel()

	for _, dt := range []DocumentType{
		DocumentTypeInvoiceIssued, DocumentTypeInvoiceReceived, DocumentTypeInternal,
		DocumentTypeBankStatement, DocumentTypeCashReceipt, DocumentTypeCashPayment,
	} {
		assert.True(t, dt.IsValid(), dt)
	}
	assert.False(t, DocumentType("XX").IsValid())
	assert.Equal(t, "journal_fa", DocumentTypeInvoiceIssued.SequenceType())
	assert.Equal(t, "journal_vpd", DocumentTypeCashPayment.SequenceType())
}

func TestSideOpposite(t *testing.T) {
	t.Parallel()

	assert.Equal(t, SideCredit, SideDebit.Opposite())
	assert.Equal(t, SideDebit, SideCredit.Opposite())
	assert.False(t, Side("").IsValid())
}
