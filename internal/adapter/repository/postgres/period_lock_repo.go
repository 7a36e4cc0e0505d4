package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/usecase"
)

const periodLockColumns = `id, company_id, period_start, period_end, locked, locked_at, locked_by, unlocked_at, unlocked_by, created_at`

// PeriodLockRepository implements usecase.PeriodLockRepository.
type PeriodLockRepository struct {
	db dbtx
}

// NewPeriodLockRepository creates a new PeriodLockRepository.
func NewPeriodLockRepository(pool *pgxpool.Pool) *PeriodLockRepository {
	return newPeriodLockRepository(pool)
}

func newPeriodLockRepository(db dbtx) *PeriodLockRepository {
	return &PeriodLockRepository{db: db}
}

// Create inserts a lock.
func (r *PeriodLockRepository) Create(ctx context.Context, tx usecase.Transaction, lock *domain.PeriodLock) error {
	_, err := conn(r.db, tx).Exec(ctx, `
		INSERT INTO period_locks (`+periodLockColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		lock.ID,
		lock.CompanyID,
		dateToPg(lock.PeriodStart),
		dateToPg(lock.PeriodEnd),
		lock.Locked,
		nullableTimeToPg(lock.LockedAt),
		lock.LockedBy,
		nullableTimeToPg(lock.UnlockedAt),
		lock.UnlockedBy,
		lock.CreatedAt,
	)
	if err != nil {
		return storageErr("create period lock", err)
	}

	return nil
}

// Update persists the lock state.
func (r *PeriodLockRepository) Update(ctx context.Context, tx usecase.Transaction, lock *domain.PeriodLock) error {
	tag, err := conn(r.db, tx).Exec(ctx, `
		UPDATE period_locks
		SET locked = $3, locked_at = $4, locked_by = $5, unlocked_at = $6, unlocked_by = $7
		WHERE company_id = $1 AND id = $2`,
		lock.CompanyID,
		lock.ID,
		lock.Locked,
		nullableTimeToPg(lock.LockedAt),
		lock.LockedBy,
		nullableTimeToPg(lock.UnlockedAt),
		lock.UnlockedBy,
	)
	if err != nil {
		return storageErr("update period lock", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPeriodLockNotFound
	}

	return nil
}

// GetByID retrieves a lock by ID.
func (r *PeriodLockRepository) GetByID(ctx context.Context, companyID, id string) (*domain.PeriodLock, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+periodLockColumns+`
		FROM period_locks
		WHERE company_id = $1 AND id = $2`,
		companyID, id,
	)

	lock, err := scanPeriodLock(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPeriodLockNotFound
		}
		return nil, storageErr("get period lock", err)
	}

	return lock, nil
}

// List returns every lock of a company, oldest period first.
func (r *PeriodLockRepository) List(ctx context.Context, companyID string) ([]*domain.PeriodLock, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+periodLockColumns+`
		FROM period_locks
		WHERE company_id = $1
		ORDER BY period_start, created_at`,
		companyID,
	)
	if err != nil {
		return nil, storageErr("list period locks", err)
	}
	defer rows.Close()

	locks := make([]*domain.PeriodLock, 0)
	for rows.Next() {
		lock, err := scanPeriodLock(rows)
		if err != nil {
			return nil, storageErr("scan period lock", err)
		}
		locks = append(locks, lock)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list period locks", err)
	}

	return locks, nil
}

// FindLocking returns an active lock covering day, or nil.
func (r *PeriodLockRepository) FindLocking(ctx context.Context, companyID string, day time.Time) (*domain.PeriodLock, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+periodLockColumns+`
		FROM period_locks
		WHERE company_id = $1 AND locked AND $2::date BETWEEN period_start AND period_end
		ORDER BY period_start
		LIMIT 1`,
		companyID, dateToPg(day),
	)

	lock, err := scanPeriodLock(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr("find period lock", err)
	}

	return lock, nil
}

func scanPeriodLock(row pgx.Row) (*domain.PeriodLock, error) {
	var (
		l                    domain.PeriodLock
		start, end           pgtype.Date
		lockedAt, unlockedAt pgtype.Timestamptz
		lockedBy, unlockedBy pgtype.Text
	)
	if err := row.Scan(
		&l.ID,
		&l.CompanyID,
		&start,
		&end,
		&l.Locked,
		&lockedAt,
		&lockedBy,
		&unlockedAt,
		&unlockedBy,
		&l.CreatedAt,
	); err != nil {
		return nil, err
	}

	l.PeriodStart = pgToDate(start)
	l.PeriodEnd = pgToDate(end)
	l.LockedAt = pgToNullableTime(lockedAt)
	l.LockedBy = textToPtr(lockedBy)
	l.UnlockedAt = pgToNullableTime(unlockedAt)
	l.UnlockedBy = textToPtr(unlockedBy)

	return &l, nil
}
