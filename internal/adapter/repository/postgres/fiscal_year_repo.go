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

const fiscalYearColumns = `id, company_id, name, start_date, end_date, status, closed_at, created_at`

// FiscalYearRepository implements usecase.FiscalYearRepository.
type FiscalYearRepository struct {
	db dbtx
}

// NewFiscalYearRepository creates a new FiscalYearRepository.
func NewFiscalYearRepository(pool *pgxpool.Pool) *FiscalYearRepository {
	return newFiscalYearRepository(pool)
}

func newFiscalYearRepository(db dbtx) *FiscalYearRepository {
	return &FiscalYearRepository{db: db}
}

// Create inserts a fiscal year.
func (r *FiscalYearRepository) Create(ctx context.Context, fy *domain.FiscalYear) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO fiscal_years (`+fiscalYearColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		fy.ID,
		fy.CompanyID,
		fy.Name,
		dateToPg(fy.StartDate),
		dateToPg(fy.EndDate),
		string(fy.Status),
		nullableTimeToPg(fy.ClosedAt),
		fy.CreatedAt,
	)
	if err != nil {
		return storageErr("create fiscal year", err)
	}

	return nil
}

// GetByID retrieves a fiscal year by ID.
func (r *FiscalYearRepository) GetByID(ctx context.Context, companyID, id string) (*domain.FiscalYear, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+fiscalYearColumns+`
		FROM fiscal_years
		WHERE company_id = $1 AND id = $2`,
		companyID, id,
	)

	fy, err := scanFiscalYear(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFiscalYearNotFound
		}
		return nil, storageErr("get fiscal year", err)
	}

	return fy, nil
}

// List returns the company's fiscal years in chronological order.
func (r *FiscalYearRepository) List(ctx context.Context, companyID string) ([]*domain.FiscalYear, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+fiscalYearColumns+`
		FROM fiscal_years
		WHERE company_id = $1
		ORDER BY start_date`,
		companyID,
	)
	if err != nil {
		return nil, storageErr("list fiscal years", err)
	}
	defer rows.Close()

	years := make([]*domain.FiscalYear, 0)
	for rows.Next() {
		fy, err := scanFiscalYear(rows)
		if err != nil {
			return nil, storageErr("scan fiscal year", err)
		}
		years = append(years, fy)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list fiscal years", err)
	}

	return years, nil
}

// Close marks an active fiscal year closed.
func (r *FiscalYearRepository) Close(ctx context.Context, tx usecase.Transaction, companyID, id string, at time.Time) error {
	tag, err := conn(r.db, tx).Exec(ctx, `
		UPDATE fiscal_years
		SET status = 'closed', closed_at = $3
		WHERE company_id = $1 AND id = $2 AND status = 'active'`,
		companyID, id, at,
	)
	if err != nil {
		return storageErr("close fiscal year", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrFiscalYearClosed
	}

	return nil
}

func scanFiscalYear(row pgx.Row) (*domain.FiscalYear, error) {
	var (
		fy         domain.FiscalYear
		status     string
		start, end pgtype.Date
		closedAt   pgtype.Timestamptz
	)
	if err := row.Scan(
		&fy.ID,
		&fy.CompanyID,
		&fy.Name,
		&start,
		&end,
		&status,
		&closedAt,
		&fy.CreatedAt,
	); err != nil {
		return nil, err
	}

	fy.StartDate = pgToDate(start)
	fy.EndDate = pgToDate(end)
	fy.Status = domain.FiscalYearStatus(status)
	fy.ClosedAt = pgToNullableTime(closedAt)

	return &fy, nil
}
