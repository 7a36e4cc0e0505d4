package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/usecase"
	"github.com/iho/gobooks/internal/usecase/mocks"
)

const company = "company-1"

var (
	accountant = &domain.Actor{ID: "user-accountant", Role: domain.RoleAccountant, CompanyID: company}
	admin      = &domain.Actor{ID: "user-admin", Role: domain.RoleAdmin, CompanyID: company}
	viewer     = &domain.Actor{ID: "user-viewer", Role: domain.RoleViewer, CompanyID: company}
)

// books wires the use cases over the in-memory repositories.
type books struct {
	accountRepo   *mocks.MockAccountRepository
	journalRepo   *mocks.MockJournalRepository
	ledgerRepo    *mocks.MockLedgerRepository
	lockRepo      *mocks.MockPeriodLockRepository
	fyRepo        *mocks.MockFiscalYearRepository
	checklistRepo *mocks.MockChecklistRepository
	closingRepo   *mocks.MockClosingOperationRepository
	outbox        *mocks.MockOutboxRepository
	numbers       *mocks.MockNumberGenerator
	txManager     *mocks.MockTransactionManager
	idGen         *mocks.MockIDGenerator

	accounts   *usecase.AccountUseCase
	locks      *usecase.PeriodLockUseCase
	journal    *usecase.JournalUseCase
	ledger     *usecase.LedgerUseCase
	fiscal     *usecase.FiscalYearUseCase
	calculator *usecase.LedgerClosingCalculator

	// account IDs by code
	ids map[string]string
	now time.Time
}

var chart = []struct {
	code string
	name string
}{
	{"221", "Bank accounts"},
	{"311", "Trade receivables"},
	{"321", "Trade payables"},
	{"343", "VAT"},
	{"411", "Share capital"},
	{"431", "Retained earnings"},
	{"501", "Material consumption"},
	{"518", "Other services"},
	{"601", "Revenue from products"},
	{"602", "Revenue from services"},
	{"701", "Opening balance account"},
	{"710", "Profit and loss account"},
}

func newBooks(t *testing.T) *books {
	t.Helper()

	b := &books{
		accountRepo:   mocks.NewMockAccountRepository(),
		journalRepo:   mocks.NewMockJournalRepository(),
		lockRepo:      mocks.NewMockPeriodLockRepository(),
		fyRepo:        mocks.NewMockFiscalYearRepository(),
		checklistRepo: mocks.NewMockChecklistRepository(),
		closingRepo:   mocks.NewMockClosingOperationRepository(),
		outbox:        mocks.NewMockOutboxRepository(),
		numbers:       mocks.NewMockNumberGenerator(),
		txManager:     mocks.NewMockTransactionManager(),
		idGen:         mocks.NewMockIDGenerator(),
		ids:           make(map[string]string),
		now:           time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC),
	}
	b.ledgerRepo = mocks.NewMockLedgerRepository(b.journalRepo, b.accountRepo).WithClosingOperations(b.closingRepo)
	clock := func() time.Time { return b.now }

	b.accounts = usecase.NewAccountUseCase(b.accountRepo, b.idGen)
	b.locks = usecase.NewPeriodLockUseCase(b.txManager, b.lockRepo, b.outbox, b.idGen, nil)
	b.journal = usecase.NewJournalUseCase(b.txManager, b.journalRepo, b.accountRepo, b.outbox, b.numbers, b.locks, b.idGen, nil).
		WithClock(clock)
	b.ledger = usecase.NewLedgerUseCase(b.ledgerRepo, b.accountRepo)
	b.fiscal = usecase.NewFiscalYearUseCase(b.txManager, b.fyRepo, b.outbox, b.idGen).WithClock(clock)
	b.calculator = usecase.NewLedgerClosingCalculator(b.ledgerRepo, b.accountRepo, usecase.DefaultClosingPolicy())

	for _, a := range chart {
		account, err := b.accounts.CreateAccount(context.Background(), usecase.CreateAccountInput{
			CompanyID:     company,
			SyntheticCode: a.code,
			Name:          a.name,
		}, accountant)
		require.NoError(t, err)
		b.ids[a.code] = account.ID
	}

	return b
}

func (b *books) line(code string, side domain.Side, amount string) usecase.EntryLineInput {
	return usecase.EntryLineInput{
		AccountID: b.ids[code],
		Side:      side,
		Amount:    decimal.RequireFromString(amount),
	}
}

func (b *books) draft(t *testing.T, docType domain.DocumentType, date string, lines ...usecase.EntryLineInput) *domain.JournalEntry {
	t.Helper()
	entry, err := b.journal.CreateEntry(context.Background(), usecase.CreateEntryInput{
		CompanyID:    company,
		DocumentType: docType,
		Date:         day(date),
		Description:  "test entry",
		Lines:        lines,
	}, accountant)
	require.NoError(t, err)
	return entry
}

func (b *books) posted(t *testing.T, docType domain.DocumentType, date string, lines ...usecase.EntryLineInput) *domain.JournalEntry {
	t.Helper()
	entry := b.draft(t, docType, date, lines...)
	posted, err := b.journal.PostEntry(context.Background(), company, entry.ID, accountant)
	require.NoError(t, err)
	return posted
}

func (b *books) fiscalYear(t *testing.T, name, start, end string) *domain.FiscalYear {
	t.Helper()
	fy, err := b.fiscal.CreateFiscalYear(context.Background(), usecase.CreateFiscalYearInput{
		CompanyID: company,
		Name:      name,
		StartDate: day(start),
		EndDate:   day(end),
	}, accountant)
	require.NoError(t, err)
	return fy
}

func day(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
