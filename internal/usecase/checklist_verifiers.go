package usecase

import (
	"context"

	"github.com/iho/gobooks/internal/domain"
)

// DraftsResolvedVerifier passes when no draft entry is dated inside the fiscal year.
type DraftsResolvedVerifier struct {
	journalRepo JournalRepository
}

// NewDraftsResolvedVerifier creates a new DraftsResolvedVerifier.
func NewDraftsResolvedVerifier(journalRepo JournalRepository) *DraftsResolvedVerifier {
	return &DraftsResolvedVerifier{journalRepo: journalRepo}
}

// Item implements ChecklistVerifier.
func (v *DraftsResolvedVerifier) Item() domain.ChecklistItemID {
	return domain.ChecklistDraftsResolved
}

// Verify implements ChecklistVerifier.
func (v *DraftsResolvedVerifier) Verify(ctx context.Context, companyID string, fy *domain.FiscalYear) (bool, error) {
	drafts, err := v.journalRepo.CountDrafts(ctx, companyID, fy.StartDate, fy.EndDate)
	if err != nil {
		return false, err
	}
	return drafts == 0, nil
}

// TrialBalanceVerifier passes when the trial balance over the fiscal year balances.
type TrialBalanceVerifier struct {
	ledger *LedgerUseCase
}

// NewTrialBalanceVerifier creates a new TrialBalanceVerifier.
func NewTrialBalanceVerifier(ledger *LedgerUseCase) *TrialBalanceVerifier {
	return &TrialBalanceVerifier{ledger: ledger}
}

// Item implements ChecklistVerifier.
func (v *TrialBalanceVerifier) Item() domain.ChecklistItemID {
	return domain.ChecklistTrialBalanceBalanced
}

// Verify implements ChecklistVerifier.
func (v *TrialBalanceVerifier) Verify(ctx context.Context, companyID string, fy *domain.FiscalYear) (bool, error) {
	start := fy.StartDate
	tb, err := v.ledger.TrialBalance(ctx, domain.LedgerFilter{
		CompanyID:   companyID,
		DateFrom:    fy.StartDate,
		DateTo:      fy.EndDate,
		OpeningFrom: &start,
	})
	if err != nil {
		return false, err
	}
	return tb.IsBalanced, nil
}
