package usecase

import (
	"context"
	"time"

	"github.com/iho/gobooks/internal/domain"
)

// AccountRepository defines data access for the chart of accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, companyID, id string) (*domain.Account, error)
	GetByCode(ctx context.Context, companyID, synthetic, analytic string) (*domain.Account, error)
	GetByIDs(ctx context.Context, companyID string, ids []string) ([]*domain.Account, error)
	List(ctx context.Context, filter domain.AccountFilter) ([]*domain.Account, error)
	Deactivate(ctx context.Context, companyID, id string, at time.Time) error
}

// JournalRepository defines data access for journal entries and their lines.
type JournalRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.JournalEntry) error
	CreateLines(ctx context.Context, tx Transaction, lines []*domain.JournalEntryLine) error
	DeleteLines(ctx context.Context, tx Transaction, entryID string) error
	GetByID(ctx context.Context, companyID, id string) (*domain.JournalEntry, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, companyID, id string) (*domain.JournalEntry, error)
	Update(ctx context.Context, tx Transaction, entry *domain.JournalEntry) error
	// MarkPosted flips a draft to posted. It returns domain.ErrEntryNotDraft
	// when the entry was no longer a draft at write time.
	MarkPosted(ctx context.Context, tx Transaction, companyID, id, postedBy string, postedAt time.Time) error
	SoftDelete(ctx context.Context, tx Transaction, companyID, id string, at time.Time) error
	List(ctx context.Context, filter domain.EntryFilter) ([]*domain.JournalEntry, error)
	CountDrafts(ctx context.Context, companyID string, from, to time.Time) (int, error)
}

// LedgerRepository aggregates posted lines per account.
type LedgerRepository interface {
	AccountMovements(ctx context.Context, filter domain.LedgerFilter) ([]*domain.AccountMovement, error)
	// CarryForwards lists the posted balance close entries, oldest first.
	CarryForwards(ctx context.Context, companyID string) ([]*domain.CarryForward, error)
}

// PeriodLockRepository defines data access for period locks.
type PeriodLockRepository interface {
	Create(ctx context.Context, tx Transaction, lock *domain.PeriodLock) error
	Update(ctx context.Context, tx Transaction, lock *domain.PeriodLock) error
	GetByID(ctx context.Context, companyID, id string) (*domain.PeriodLock, error)
	List(ctx context.Context, companyID string) ([]*domain.PeriodLock, error)
	// FindLocking returns a locked period covering day, or nil when there is none.
	FindLocking(ctx context.Context, companyID string, day time.Time) (*domain.PeriodLock, error)
}

// FiscalYearRepository defines data access for fiscal years.
type FiscalYearRepository interface {
	Create(ctx context.Context, fy *domain.FiscalYear) error
	GetByID(ctx context.Context, companyID, id string) (*domain.FiscalYear, error)
	List(ctx context.Context, companyID string) ([]*domain.FiscalYear, error)
	Close(ctx context.Context, tx Transaction, companyID, id string, at time.Time) error
}

// ChecklistRepository defines data access for closing checklist items.
type ChecklistRepository interface {
	ListByFiscalYear(ctx context.Context, companyID, fiscalYearID string) ([]*domain.ChecklistItem, error)
	// Upsert inserts or replaces the item keyed by (company, fiscal year, item id).
	Upsert(ctx context.Context, item *domain.ChecklistItem) error
}

// ClosingOperationRepository defines data access for executed closing operations.
type ClosingOperationRepository interface {
	// Create returns domain.ErrClosingAlreadyExecuted when the type already
	// exists for the fiscal year.
	Create(ctx context.Context, tx Transaction, op *domain.ClosingOperation) error
	ListByFiscalYear(ctx context.Context, companyID, fiscalYearID string) ([]*domain.ClosingOperation, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key so a failed request can be retried with it.
	Release(ctx context.Context, key string) error
}
