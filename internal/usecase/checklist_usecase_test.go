package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/usecase"
	"github.com/iho/gobooks/internal/usecase/mocks"
)

func (b *books) checklist(verifiers ...usecase.ChecklistVerifier) *usecase.ChecklistUseCase {
	return usecase.NewChecklistUseCase(b.checklistRepo, b.fyRepo, b.closingRepo, b.idGen, nil, verifiers...)
}

func TestChecklistUseCase_GetChecklist(t *testing.T) {
	b := newBooks(t)
	ctx := context.Background()
	fy := b.fiscalYear(t, "2025", "2025-01-01", "2025-12-31")
	uc := b.checklist()

	list, err := uc.GetChecklist(ctx, company, fy.ID)
	require.NoError(t, err)
	require.Len(t, list.Items, len(domain.ChecklistItems))
	for _, item := range list.Items {
		assert.Equal(t, domain.ChecklistPending, item.Status)
	}
	assert.Equal(t, 11, list.Progress.Pending)
	assert.False(t, list.Progress.IsComplete)

	_, err = uc.GetChecklist(ctx, company, "missing")
	require.ErrorIs(t, err, domain.ErrFiscalYearNotFound)
}

func TestChecklistUseCase_SetItemStatus(t *testing.T) {
	b := newBooks(t)
	ctx := context.Background()
	fy := b.fiscalYear(t, "2025", "2025-01-01", "2025-12-31")
	uc := b.checklist()

	list, err := uc.SetItemStatus(ctx, usecase.SetItemStatusInput{
		CompanyID:    company,
		FiscalYearID: fy.ID,
		ItemID:       domain.ChecklistInventoryCounted,
		Status:       domain.ChecklistNA,
		Note:         "no inventory",
	}, accountant)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Progress.NA)

	// Overwrites the previous verdict.
	list, err = uc.SetItemStatus(ctx, usecase.SetItemStatusInput{
		CompanyID:    company,
		FiscalYearID: fy.ID,
		ItemID:       domain.ChecklistInventoryCounted,
		Status:       domain.ChecklistDone,
	}, accountant)
	require.NoError(t, err)
	assert.Equal(t, 0, list.Progress.NA)
	assert.Equal(t, 1, list.Progress.Done)
	assert.Equal(t, 9.09, list.Progress.Percentage)

	_, err = uc.SetItemStatus(ctx, usecase.SetItemStatusInput{
		CompanyID: company, FiscalYearID: fy.ID, ItemID: "coffee_brewed", Status: domain.ChecklistDone,
	}, accountant)
	require.ErrorIs(t, err, domain.ErrInvalidChecklistItem)

	_, err = uc.SetItemStatus(ctx, usecase.SetItemStatusInput{
		CompanyID: company, FiscalYearID: fy.ID, ItemID: domain.ChecklistPayrollPosted, Status: "maybe",
	}, accountant)
	require.ErrorIs(t, err, domain.ErrInvalidChecklistStatus)
}

func TestChecklistUseCase_FrozenAfterClosing(t *testing.T) {
	b := newBooks(t)
	ctx := context.Background()
	fy := b.fiscalYear(t, "2025", "2025-01-01", "2025-12-31")
	uc := b.checklist()

	require.NoError(t, b.closingRepo.Create(ctx, nil, &domain.ClosingOperation{
		ID: "op-1", CompanyID: company, FiscalYearID: fy.ID, Type: domain.ClosingRevenue, TotalAmount: decimal.Zero,
	}))

	_, err := uc.SetItemStatus(ctx, usecase.SetItemStatusInput{
		CompanyID: company, FiscalYearID: fy.ID, ItemID: domain.ChecklistPayrollPosted, Status: domain.ChecklistDone,
	}, accountant)
	require.ErrorIs(t, err, domain.ErrChecklistFrozen)
	assert.ErrorIs(t, err, domain.ErrStateConflict)
}

func TestChecklistUseCase_AutoVerify(t *testing.T) {
	ctrl := gomock.NewController(t)
	b := newBooks(t)
	ctx := context.Background()
	fy := b.fiscalYear(t, "2025", "2025-01-01", "2025-12-31")

	passing := mocks.NewMockChecklistVerifier(ctrl)
	passing.EXPECT().Item().Return(domain.ChecklistBankStatementsImported).AnyTimes()
	passing.EXPECT().Verify(gomock.Any(), company, gomock.Any()).Return(true, nil)

	failing := mocks.NewMockChecklistVerifier(ctrl)
	failing.EXPECT().Item().Return(domain.ChecklistVATReturnsFiled).AnyTimes()
	failing.EXPECT().Verify(gomock.Any(), company, gomock.Any()).Return(false, nil)

	_, err := b.checklist().SetItemStatus(ctx, usecase.SetItemStatusInput{
		CompanyID: company, FiscalYearID: fy.ID, ItemID: domain.ChecklistVATReturnsFiled, Status: domain.ChecklistSkipped,
	}, accountant)
	require.NoError(t, err)

	list, err := b.checklist(passing, failing).AutoVerify(ctx, company, fy.ID, accountant)
	require.NoError(t, err)

	byID := make(map[domain.ChecklistItemID]*domain.ChecklistItem)
	for _, item := range list.Items {
		byID[item.ItemID] = item
	}
	assert.Equal(t, domain.ChecklistDone, byID[domain.ChecklistBankStatementsImported].Status)
	assert.Equal(t, usecase.SystemNote, byID[domain.ChecklistBankStatementsImported].Note)
	// A failed check never downgrades a stored verdict.
	assert.Equal(t, domain.ChecklistSkipped, byID[domain.ChecklistVATReturnsFiled].Status)
}

func TestChecklistUseCase_AutoVerifyError(t *testing.T) {
	ctrl := gomock.NewController(t)
	b := newBooks(t)
	fy := b.fiscalYear(t, "2025", "2025-01-01", "2025-12-31")

	boom := errors.New("boom")
	broken := mocks.NewMockChecklistVerifier(ctrl)
	broken.EXPECT().Verify(gomock.Any(), company, gomock.Any()).Return(false, boom)

	_, err := b.checklist(broken).AutoVerify(context.Background(), company, fy.ID, accountant)
	require.ErrorIs(t, err, boom)
}

func TestBuiltInVerifiers(t *testing.T) {
	b := newBooks(t)
	ctx := context.Background()
	fy := b.fiscalYear(t, "2025", "2025-01-01", "2025-12-31")

	drafts := usecase.NewDraftsResolvedVerifier(b.journalRepo)
	balanced := usecase.NewTrialBalanceVerifier(b.ledger)
	assert.Equal(t, domain.ChecklistDraftsResolved, drafts.Item())
	assert.Equal(t, domain.ChecklistTrialBalanceBalanced, balanced.Item())

	ok, err := drafts.Verify(ctx, company, fy)
	require.NoError(t, err)
	assert.True(t, ok)

	entry := b.draft(t, domain.DocumentTypeInternal, "2025-05-01",
		b.line("501", domain.SideDebit, "5"),
		b.line("321", domain.SideCredit, "5"),
	)
	ok, err = drafts.Verify(ctx, company, fy)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = b.journal.PostEntry(ctx, company, entry.ID, accountant)
	require.NoError(t, err)
	ok, err = drafts.Verify(ctx, company, fy)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = balanced.Verify(ctx, company, fy)
	require.NoError(t, err)
	assert.True(t, ok)

	list, err := b.checklist(drafts, balanced).AutoVerify(ctx, company, fy.ID, accountant)
	require.NoError(t, err)
	assert.Equal(t, 2, list.Progress.Done)
}
