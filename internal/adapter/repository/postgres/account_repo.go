package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gobooks/internal/domain"
)

const accountColumns = `id, company_id, synthetic_code, analytic_code, name, account_type, active, created_at, updated_at`

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	db dbtx
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return newAccountRepository(pool)
}

func newAccountRepository(db dbtx) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO chart_of_accounts (`+accountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		account.ID,
		account.CompanyID,
		account.SyntheticCode,
		account.AnalyticCode,
		account.Name,
		string(account.Type),
		account.Active,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		if uniqueViolation(err, "chart_of_accounts_code_key") {
			return domain.WithDetails(domain.ErrAccountExists, map[string]any{"code": account.Code()})
		}
		return storageErr("create account", err)
	}

	return nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, companyID, id string) (*domain.Account, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM chart_of_accounts
		WHERE company_id = $1 AND id = $2 AND deleted_at IS NULL`,
		companyID, id,
	)

	return scanAccountRow(row, "get account")
}

// GetByCode retrieves an account by its synthetic and analytic code.
func (r *AccountRepository) GetByCode(ctx context.Context, companyID, synthetic, analytic string) (*domain.Account, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM chart_of_accounts
		WHERE company_id = $1 AND synthetic_code = $2 AND analytic_code = $3 AND deleted_at IS NULL`,
		companyID, synthetic, analytic,
	)

	return scanAccountRow(row, "get account by code")
}

// GetByIDs retrieves the accounts of a company with the given IDs. Unknown IDs
// are skipped.
func (r *AccountRepository) GetByIDs(ctx context.Context, companyID string, ids []string) ([]*domain.Account, error) {
	if len(ids) == 0 {
		return []*domain.Account{}, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+accountColumns+`
		FROM chart_of_accounts
		WHERE company_id = $1 AND id = ANY($2) AND deleted_at IS NULL`,
		companyID, ids,
	)
	if err != nil {
		return nil, storageErr("get accounts", err)
	}

	return collectAccounts(rows)
}

// List lists accounts ordered by code.
func (r *AccountRepository) List(ctx context.Context, filter domain.AccountFilter) ([]*domain.Account, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+accountColumns+`
		FROM chart_of_accounts
		WHERE company_id = $1
		  AND deleted_at IS NULL
		  AND ($2::int[] IS NULL OR substring(synthetic_code, 1, 1)::int = ANY($2::int[]))
		  AND (NOT $3::boolean OR active)
		ORDER BY synthetic_code, analytic_code
		LIMIT $4 OFFSET $5`,
		filter.CompanyID,
		classesArg(filter.Classes),
		filter.ActiveOnly,
		limitOrAll(filter.Limit),
		filter.Offset,
	)
	if err != nil {
		return nil, storageErr("list accounts", err)
	}

	return collectAccounts(rows)
}

// Deactivate marks an account inactive. Posted lines keep referencing it.
func (r *AccountRepository) Deactivate(ctx context.Context, companyID, id string, at time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE chart_of_accounts
		SET active = FALSE, updated_at = $3
		WHERE company_id = $1 AND id = $2 AND deleted_at IS NULL`,
		companyID, id, at,
	)
	if err != nil {
		return storageErr("deactivate account", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

func scanAccountRow(row pgx.Row, op string) (*domain.Account, error) {
	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, storageErr(op, err)
	}

	return account, nil
}

func collectAccounts(rows pgx.Rows) ([]*domain.Account, error) {
	defer rows.Close()

	accounts := make([]*domain.Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, storageErr("scan account", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list accounts", err)
	}

	return accounts, nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		a           domain.Account
		accountType string
	)
	if err := row.Scan(
		&a.ID,
		&a.CompanyID,
		&a.SyntheticCode,
		&a.AnalyticCode,
		&a.Name,
		&accountType,
		&a.Active,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	a.Type = domain.AccountType(accountType)

	return &a, nil
}

// classesArg maps an empty class filter to NULL so the query skips it.
func classesArg(classes []int) []int32 {
	if len(classes) == 0 {
		return nil
	}
	out := make([]int32, len(classes))
	for i, c := range classes {
		out[i] = int32(c)
	}
	return out
}
