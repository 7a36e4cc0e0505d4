package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gobooks/internal/domain"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	db dbtx
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return newLedgerRepository(pool)
}

func newLedgerRepository(db dbtx) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Lines of posted entries dated before $2 feed the opening sums, lines dated
// in [$2, $3] the period sums. $4 bounds the opening sums from below and $9
// lists entries left out entirely.
const accountMovementsQuery = `
	SELECT a.id, a.synthetic_code, a.analytic_code, a.name, a.account_type,
	       COALESCE(SUM(l.amount) FILTER (WHERE l.side = 'MD' AND e.entry_date < $2), 0),
	       COALESCE(SUM(l.amount) FILTER (WHERE l.side = 'D' AND e.entry_date < $2), 0),
	       COALESCE(SUM(l.amount) FILTER (WHERE l.side = 'MD' AND e.entry_date >= $2), 0),
	       COALESCE(SUM(l.amount) FILTER (WHERE l.side = 'D' AND e.entry_date >= $2), 0)
	FROM chart_of_accounts a
	LEFT JOIN journal_entry_lines l
	       ON l.account_id = a.id
	      AND ($5::text IS NULL OR l.cost_center_id = $5::text)
	      AND ($6::text IS NULL OR l.project_id = $6::text)
	LEFT JOIN journal_entries e
	       ON e.id = l.journal_entry_id
	      AND e.status = 'posted'
	      AND e.deleted_at IS NULL
	      AND e.entry_date <= $3
	      AND ($4::date IS NULL OR e.entry_date >= $4::date)
	      AND ($9::text[] IS NULL OR e.id <> ALL($9::text[]))
	WHERE a.company_id = $1
	  AND a.deleted_at IS NULL
	  AND ($7::text IS NULL OR a.id = $7::text)
	  AND ($8::int[] IS NULL OR substring(a.synthetic_code, 1, 1)::int = ANY($8::int[]))
	GROUP BY a.id, a.synthetic_code, a.analytic_code, a.name, a.account_type
	ORDER BY a.synthetic_code, a.analytic_code`

// AccountMovements returns opening and period sums per account, including
// accounts without activity.
func (r *LedgerRepository) AccountMovements(ctx context.Context, filter domain.LedgerFilter) ([]*domain.AccountMovement, error) {
	var openingFrom pgtype.Date
	if filter.OpeningFrom != nil {
		openingFrom = dateToPg(*filter.OpeningFrom)
	}

	rows, err := r.db.Query(ctx, accountMovementsQuery,
		filter.CompanyID,
		dateToPg(filter.DateFrom),
		dateToPg(filter.DateTo),
		openingFrom,
		optionalText(filter.CostCenterID),
		optionalText(filter.ProjectID),
		optionalText(filter.AccountID),
		classesArg(filter.Classes),
		textArrayArg(filter.ExcludeEntryIDs),
	)
	if err != nil {
		return nil, storageErr("account movements", err)
	}
	defer rows.Close()

	movements := make([]*domain.AccountMovement, 0)
	for rows.Next() {
		var (
			m                                    domain.AccountMovement
			accountType                          string
			openDebit, openCredit, debit, credit pgtype.Numeric
		)
		if err := rows.Scan(
			&m.AccountID,
			&m.SyntheticCode,
			&m.AnalyticCode,
			&m.AccountName,
			&accountType,
			&openDebit,
			&openCredit,
			&debit,
			&credit,
		); err != nil {
			return nil, storageErr("scan account movement", err)
		}
		m.AccountType = domain.AccountType(accountType)
		m.OpeningDebit = numericToDecimal(openDebit)
		m.OpeningCredit = numericToDecimal(openCredit)
		m.PeriodDebit = numericToDecimal(debit)
		m.PeriodCredit = numericToDecimal(credit)
		movements = append(movements, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("account movements", err)
	}

	return movements, nil
}

// CarryForwards lists the posted entries of executed balance closes.
func (r *LedgerRepository) CarryForwards(ctx context.Context, companyID string) ([]*domain.CarryForward, error) {
	rows, err := r.db.Query(ctx, `
		SELECT e.id, e.entry_date
		FROM closing_operations co
		JOIN journal_entries e ON e.id = co.journal_entry_id
		WHERE co.company_id = $1
		  AND co.operation_type = 'balance_close'
		  AND e.status = 'posted'
		  AND e.deleted_at IS NULL
		ORDER BY e.entry_date`,
		companyID,
	)
	if err != nil {
		return nil, storageErr("carry forwards", err)
	}
	defer rows.Close()

	carryForwards := make([]*domain.CarryForward, 0)
	for rows.Next() {
		var (
			cf   domain.CarryForward
			date pgtype.Date
		)
		if err := rows.Scan(&cf.EntryID, &date); err != nil {
			return nil, storageErr("scan carry forward", err)
		}
		cf.Date = pgToDate(date)
		carryForwards = append(carryForwards, &cf)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("carry forwards", err)
	}

	return carryForwards, nil
}

func textArrayArg(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	return values
}

func optionalText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
