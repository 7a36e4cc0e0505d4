package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/infrastructure/metrics"
)

// PeriodLockUseCase guards journal mutations against locked periods and
// manages the locks themselves.
type PeriodLockUseCase struct {
	txManager  TransactionManager
	lockRepo   PeriodLockRepository
	outboxRepo OutboxRepository
	idGen      IDGenerator
	metrics    *metrics.Metrics
	logger     zerolog.Logger
	now        func() time.Time
}

// NewPeriodLockUseCase creates a new PeriodLockUseCase.
func NewPeriodLockUseCase(
	txManager TransactionManager,
	lockRepo PeriodLockRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *PeriodLockUseCase {
	return &PeriodLockUseCase{
		txManager:  txManager,
		lockRepo:   lockRepo,
		outboxRepo: outboxRepo,
		idGen:      idGen,
		metrics:    metrics,
		logger:     zerolog.Nop(),
		now:        utcNow,
	}
}

// WithLogger sets the logger.
func (uc *PeriodLockUseCase) WithLogger(logger zerolog.Logger) *PeriodLockUseCase {
	uc.logger = logger
	return uc
}

// IsLocked reports whether postings dated day are forbidden for the company.
func (uc *PeriodLockUseCase) IsLocked(ctx context.Context, companyID string, day time.Time) (bool, error) {
	lock, err := uc.findLocking(ctx, companyID, day)
	if err != nil {
		return false, err
	}
	return lock != nil, nil
}

// Ensure returns domain.ErrPeriodLocked with the lock details when day is locked.
func (uc *PeriodLockUseCase) Ensure(ctx context.Context, companyID string, day time.Time) error {
	lock, err := uc.findLocking(ctx, companyID, day)
	if err != nil {
		return err
	}
	if lock == nil {
		return nil
	}

	if uc.metrics != nil {
		uc.metrics.PeriodLockRejections.Inc()
	}
	return lock.LockedError(day)
}

func (uc *PeriodLockUseCase) findLocking(ctx context.Context, companyID string, day time.Time) (*domain.PeriodLock, error) {
	if companyID == "" {
		return nil, domain.ErrMissingCompany
	}
	if day.IsZero() {
		return nil, domain.ErrMissingDate
	}
	return uc.lockRepo.FindLocking(ctx, companyID, domain.Date(day))
}

// LockPeriodInput represents input for locking a period.
type LockPeriodInput struct {
	CompanyID   string
	PeriodStart time.Time
	PeriodEnd   time.Time
}

// LockPeriod forbids further journal mutations dated in [PeriodStart, PeriodEnd].
func (uc *PeriodLockUseCase) LockPeriod(ctx context.Context, input LockPeriodInput, actor *domain.Actor) (*domain.PeriodLock, error) {
	if err := requireWriter(actor); err != nil {
		return nil, err
	}
	if input.CompanyID == "" {
		return nil, domain.ErrMissingCompany
	}
	if input.PeriodStart.IsZero() || input.PeriodEnd.IsZero() {
		return nil, domain.ErrMissingDate
	}

	start, end := domain.Date(input.PeriodStart), domain.Date(input.PeriodEnd)
	if start.After(end) {
		return nil, domain.WithDetails(domain.ErrInvalidDateRange, map[string]any{
			"period_start": domain.FormatDate(start),
			"period_end":   domain.FormatDate(end),
		})
	}

	now := uc.now()
	lock := &domain.PeriodLock{
		ID:          uc.idGen.Generate(),
		CompanyID:   input.CompanyID,
		PeriodStart: start,
		PeriodEnd:   end,
		Locked:      true,
		LockedAt:    &now,
		LockedBy:    &actor.ID,
		CreatedAt:   now,
	}

	err := runInTx(ctx, uc.txManager, nil, func(ctx context.Context, tx Transaction) error {
		if err := uc.lockRepo.Create(ctx, tx, lock); err != nil {
			return err
		}
		return uc.outboxRepo.Create(ctx, tx, lockEvent(lock, domain.EventTypePeriodLocked, actor.ID, now))
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.PeriodLockOperations.WithLabelValues("lock").Inc()
	}
	uc.logger.Info().
		Str("company_id", lock.CompanyID).
		Str("lock_id", lock.ID).
		Str("period_start", domain.FormatDate(start)).
		Str("period_end", domain.FormatDate(end)).
		Str("actor", actor.ID).
		Msg("period locked")

	return lock, nil
}

// UnlockPeriod lifts a lock. Only admins may do this.
func (uc *PeriodLockUseCase) UnlockPeriod(ctx context.Context, companyID, id string, actor *domain.Actor) (*domain.PeriodLock, error) {
	if err := requireAdmin(actor, domain.Role.CanUnlockPeriods); err != nil {
		return nil, err
	}
	if companyID == "" {
		return nil, domain.ErrMissingCompany
	}

	lock, err := uc.lockRepo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if !lock.Locked {
		return nil, domain.WithDetails(domain.ErrPeriodNotLocked, map[string]any{"lock_id": lock.ID})
	}

	now := uc.now()
	lock.Locked = false
	lock.UnlockedAt = &now
	lock.UnlockedBy = &actor.ID

	err = runInTx(ctx, uc.txManager, nil, func(ctx context.Context, tx Transaction) error {
		if err := uc.lockRepo.Update(ctx, tx, lock); err != nil {
			return err
		}
		return uc.outboxRepo.Create(ctx, tx, lockEvent(lock, domain.EventTypePeriodUnlocked, actor.ID, now))
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.PeriodLockOperations.WithLabelValues("unlock").Inc()
	}
	uc.logger.Info().
		Str("company_id", lock.CompanyID).
		Str("lock_id", lock.ID).
		Str("actor", actor.ID).
		Msg("period unlocked")

	return lock, nil
}

// ListLocks lists every lock of the company, locked or not.
func (uc *PeriodLockUseCase) ListLocks(ctx context.Context, companyID string) ([]*domain.PeriodLock, error) {
	if companyID == "" {
		return nil, domain.ErrMissingCompany
	}
	locks, err := uc.lockRepo.List(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if locks == nil {
		locks = []*domain.PeriodLock{}
	}
	return locks, nil
}

func lockEvent(lock *domain.PeriodLock, eventType, actorID string, now time.Time) *domain.OutboxEvent {
	return newOutboxEvent(lock.CompanyID, domain.AggregateTypePeriodLock, lock.ID, eventType, map[string]any{
		"lock_id":      lock.ID,
		"period_start": domain.FormatDate(lock.PeriodStart),
		"period_end":   domain.FormatDate(lock.PeriodEnd),
		"actor":        actorID,
	}, now)
}
