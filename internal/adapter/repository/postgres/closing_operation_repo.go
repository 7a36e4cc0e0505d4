package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/usecase"
)

// ClosingOperationRepository implements usecase.ClosingOperationRepository.
type ClosingOperationRepository struct {
	db dbtx
}

// NewClosingOperationRepository creates a new ClosingOperationRepository.
func NewClosingOperationRepository(pool *pgxpool.Pool) *ClosingOperationRepository {
	return newClosingOperationRepository(pool)
}

func newClosingOperationRepository(db dbtx) *ClosingOperationRepository {
	return &ClosingOperationRepository{db: db}
}

// Create appends an executed operation. The closing_operations_type_key
// constraint turns a concurrent duplicate into domain.ErrClosingAlreadyExecuted.
func (r *ClosingOperationRepository) Create(ctx context.Context, tx usecase.Transaction, op *domain.ClosingOperation) error {
	_, err := conn(r.db, tx).Exec(ctx, `
		INSERT INTO closing_operations (
			id, company_id, fiscal_year_id, operation_type, journal_entry_id,
			total_amount, accounts_count, created_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		op.ID,
		op.CompanyID,
		op.FiscalYearID,
		string(op.Type),
		op.JournalEntryID,
		decimalToNumeric(op.TotalAmount),
		op.AccountsCount,
		op.CreatedBy,
		op.CreatedAt,
	)
	if err != nil {
		if uniqueViolation(err, "closing_operations_type_key") {
			return domain.WithDetails(domain.ErrClosingAlreadyExecuted, map[string]any{"type": string(op.Type)})
		}
		return storageErr("create closing operation", err)
	}

	return nil
}

// ListByFiscalYear returns executed operations in execution order.
func (r *ClosingOperationRepository) ListByFiscalYear(ctx context.Context, companyID, fiscalYearID string) ([]*domain.ClosingOperation, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, company_id, fiscal_year_id, operation_type, journal_entry_id,
		       total_amount, accounts_count, created_by, created_at
		FROM closing_operations
		WHERE company_id = $1 AND fiscal_year_id = $2
		ORDER BY created_at, id`,
		companyID, fiscalYearID,
	)
	if err != nil {
		return nil, storageErr("list closing operations", err)
	}
	defer rows.Close()

	ops := make([]*domain.ClosingOperation, 0)
	for rows.Next() {
		var (
			op      domain.ClosingOperation
			opType  string
			entryID pgtype.Text
			total   pgtype.Numeric
		)
		if err := rows.Scan(
			&op.ID,
			&op.CompanyID,
			&op.FiscalYearID,
			&opType,
			&entryID,
			&total,
			&op.AccountsCount,
			&op.CreatedBy,
			&op.CreatedAt,
		); err != nil {
			return nil, storageErr("scan closing operation", err)
		}
		op.Type = domain.ClosingOperationType(opType)
		op.JournalEntryID = textToPtr(entryID)
		op.TotalAmount = numericToDecimal(total)
		ops = append(ops, &op)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list closing operations", err)
	}

	return ops, nil
}
