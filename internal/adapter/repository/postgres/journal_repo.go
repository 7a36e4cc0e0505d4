package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/usecase"
)

const entryColumns = `id, company_id, number, document_type, entry_date, description, status,
	total_debit, total_credit, source_document_id, reversed_entry_id,
	created_by, created_at, updated_at, posted_at, posted_by`

// JournalRepository implements usecase.JournalRepository.
type JournalRepository struct {
	db dbtx
}

// NewJournalRepository creates a new JournalRepository.
func NewJournalRepository(pool *pgxpool.Pool) *JournalRepository {
	return newJournalRepository(pool)
}

func newJournalRepository(db dbtx) *JournalRepository {
	return &JournalRepository{db: db}
}

// Create inserts the entry header. Lines are written by CreateLines.
func (r *JournalRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	_, err := conn(r.db, tx).Exec(ctx, `
		INSERT INTO journal_entries (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		entry.ID,
		entry.CompanyID,
		entry.Number,
		string(entry.DocumentType),
		dateToPg(entry.Date),
		entry.Description,
		string(entry.Status),
		decimalToNumeric(entry.TotalDebit),
		decimalToNumeric(entry.TotalCredit),
		entry.SourceDocumentID,
		entry.ReversedEntryID,
		entry.CreatedBy,
		entry.CreatedAt,
		entry.UpdatedAt,
		nullableTimeToPg(entry.PostedAt),
		entry.PostedBy,
	)
	if err != nil {
		if uniqueViolation(err, "journal_entries_reversed_entry_id_key") {
			return domain.ErrEntryAlreadyReversed
		}
		return storageErr("create journal entry", err)
	}

	return nil
}

// CreateLines inserts lines in one batch.
func (r *JournalRepository) CreateLines(ctx context.Context, tx usecase.Transaction, lines []*domain.JournalEntryLine) error {
	if len(lines) == 0 {
		return nil
	}

	db := conn(r.db, tx)
	for _, l := range lines {
		_, err := db.Exec(ctx, `
			INSERT INTO journal_entry_lines (
				id, journal_entry_id, position, account_id, side, amount,
				currency_amount, exchange_rate, currency_code, cost_center_id, project_id, description
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			l.ID,
			l.JournalEntryID,
			l.Position,
			l.AccountID,
			string(l.Side),
			decimalToNumeric(l.Amount),
			nullableDecimalToNumeric(l.CurrencyAmount),
			nullableDecimalToNumeric(l.ExchangeRate),
			l.CurrencyCode,
			l.CostCenterID,
			l.ProjectID,
			l.Description,
		)
		if err != nil {
			return storageErr("create journal line", err)
		}
	}

	return nil
}

// DeleteLines removes every line of an entry.
func (r *JournalRepository) DeleteLines(ctx context.Context, tx usecase.Transaction, entryID string) error {
	if _, err := conn(r.db, tx).Exec(ctx, `DELETE FROM journal_entry_lines WHERE journal_entry_id = $1`, entryID); err != nil {
		return storageErr("delete journal lines", err)
	}
	return nil
}

// GetByID retrieves an entry with its lines.
func (r *JournalRepository) GetByID(ctx context.Context, companyID, id string) (*domain.JournalEntry, error) {
	return r.get(ctx, r.db, companyID, id, "")
}

// GetByIDForUpdate retrieves an entry with its lines and locks the header row.
func (r *JournalRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, companyID, id string) (*domain.JournalEntry, error) {
	return r.get(ctx, conn(r.db, tx), companyID, id, "FOR UPDATE")
}

func (r *JournalRepository) get(ctx context.Context, db dbtx, companyID, id, lock string) (*domain.JournalEntry, error) {
	row := db.QueryRow(ctx, `
		SELECT `+entryColumns+`
		FROM journal_entries
		WHERE company_id = $1 AND id = $2 AND deleted_at IS NULL
		`+lock,
		companyID, id,
	)

	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, storageErr("get journal entry", err)
	}

	lines, err := r.lines(ctx, db, entry.ID)
	if err != nil {
		return nil, err
	}
	entry.Lines = lines

	return entry, nil
}

func (r *JournalRepository) lines(ctx context.Context, db dbtx, entryID string) ([]*domain.JournalEntryLine, error) {
	rows, err := db.Query(ctx, `
		SELECT l.id, l.journal_entry_id, l.position, l.account_id, l.side, l.amount,
		       l.currency_amount, l.exchange_rate, l.currency_code, l.cost_center_id, l.project_id,
		       l.description, a.synthetic_code, a.analytic_code, a.name
		FROM journal_entry_lines l
		JOIN chart_of_accounts a ON a.id = l.account_id
		WHERE l.journal_entry_id = $1
		ORDER BY l.position`,
		entryID,
	)
	if err != nil {
		return nil, storageErr("list journal lines", err)
	}
	defer rows.Close()

	lines := make([]*domain.JournalEntryLine, 0)
	for rows.Next() {
		var (
			l                                 domain.JournalEntryLine
			side                              string
			amount, currencyAmount, rate      pgtype.Numeric
			currencyCode, costCenter, project pgtype.Text
		)
		if err := rows.Scan(
			&l.ID,
			&l.JournalEntryID,
			&l.Position,
			&l.AccountID,
			&side,
			&amount,
			&currencyAmount,
			&rate,
			&currencyCode,
			&costCenter,
			&project,
			&l.Description,
			&l.AccountSynthetic,
			&l.AccountAnalytic,
			&l.AccountName,
		); err != nil {
			return nil, storageErr("scan journal line", err)
		}
		l.Side = domain.Side(side)
		l.Amount = numericToDecimal(amount)
		l.CurrencyAmount = numericToNullableDecimal(currencyAmount)
		l.ExchangeRate = numericToNullableDecimal(rate)
		l.CurrencyCode = textToPtr(currencyCode)
		l.CostCenterID = textToPtr(costCenter)
		l.ProjectID = textToPtr(project)
		lines = append(lines, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list journal lines", err)
	}

	return lines, nil
}

// Update rewrites a draft header. It returns domain.ErrEntryNotDraft when
// the entry is no longer a draft.
func (r *JournalRepository) Update(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	db := conn(r.db, tx)
	tag, err := db.Exec(ctx, `
		UPDATE journal_entries
		SET entry_date = $3, description = $4, total_debit = $5, total_credit = $6, updated_at = $7
		WHERE company_id = $1 AND id = $2 AND status = 'draft' AND deleted_at IS NULL`,
		entry.CompanyID,
		entry.ID,
		dateToPg(entry.Date),
		entry.Description,
		decimalToNumeric(entry.TotalDebit),
		decimalToNumeric(entry.TotalCredit),
		entry.UpdatedAt,
	)
	if err != nil {
		return storageErr("update journal entry", err)
	}
	if tag.RowsAffected() == 0 {
		return r.draftMiss(ctx, db, entry.CompanyID, entry.ID)
	}

	return nil
}

// MarkPosted flips a draft to posted.
func (r *JournalRepository) MarkPosted(ctx context.Context, tx usecase.Transaction, companyID, id, postedBy string, postedAt time.Time) error {
	db := conn(r.db, tx)
	tag, err := db.Exec(ctx, `
		UPDATE journal_entries
		SET status = 'posted', posted_at = $3, posted_by = $4, updated_at = $3
		WHERE company_id = $1 AND id = $2 AND status = 'draft' AND deleted_at IS NULL`,
		companyID, id, postedAt, postedBy,
	)
	if err != nil {
		return storageErr("post journal entry", err)
	}
	if tag.RowsAffected() == 0 {
		return r.draftMiss(ctx, db, companyID, id)
	}

	return nil
}

// SoftDelete hides a draft entry from every read.
func (r *JournalRepository) SoftDelete(ctx context.Context, tx usecase.Transaction, companyID, id string, at time.Time) error {
	db := conn(r.db, tx)
	tag, err := db.Exec(ctx, `
		UPDATE journal_entries
		SET deleted_at = $3, updated_at = $3
		WHERE company_id = $1 AND id = $2 AND status = 'draft' AND deleted_at IS NULL`,
		companyID, id, at,
	)
	if err != nil {
		return storageErr("delete journal entry", err)
	}
	if tag.RowsAffected() == 0 {
		return r.draftMiss(ctx, db, companyID, id)
	}

	return nil
}

// draftMiss explains why a draft-only write touched no row.
func (r *JournalRepository) draftMiss(ctx context.Context, db dbtx, companyID, id string) error {
	var status string
	err := db.QueryRow(ctx, `
		SELECT status FROM journal_entries
		WHERE company_id = $1 AND id = $2 AND deleted_at IS NULL`,
		companyID, id,
	).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrEntryNotFound
		}
		return storageErr("get journal entry status", err)
	}

	return domain.WithDetails(domain.ErrEntryNotDraft, map[string]any{"status": status})
}

// List returns entry headers, newest first.
func (r *JournalRepository) List(ctx context.Context, filter domain.EntryFilter) ([]*domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE company_id = $1 AND deleted_at IS NULL`
	args := []any{filter.CompanyID}

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.DocumentType != "" {
		args = append(args, string(filter.DocumentType))
		query += fmt.Sprintf(" AND document_type = $%d", len(args))
	}
	if filter.DateFrom != nil {
		args = append(args, dateToPg(*filter.DateFrom))
		query += fmt.Sprintf(" AND entry_date >= $%d", len(args))
	}
	if filter.DateTo != nil {
		args = append(args, dateToPg(*filter.DateTo))
		query += fmt.Sprintf(" AND entry_date <= $%d", len(args))
	}

	args = append(args, limitOrAll(filter.Limit), filter.Offset)
	query += fmt.Sprintf(" ORDER BY entry_date DESC, number DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list journal entries", err)
	}
	defer rows.Close()

	entries := make([]*domain.JournalEntry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, storageErr("scan journal entry", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list journal entries", err)
	}

	return entries, nil
}

// CountDrafts counts unposted entries dated within [from, to].
func (r *JournalRepository) CountDrafts(ctx context.Context, companyID string, from, to time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM journal_entries
		WHERE company_id = $1 AND status = 'draft' AND deleted_at IS NULL
		  AND entry_date BETWEEN $2 AND $3`,
		companyID, dateToPg(from), dateToPg(to),
	).Scan(&count)
	if err != nil {
		return 0, storageErr("count drafts", err)
	}

	return count, nil
}

func scanEntry(row pgx.Row) (*domain.JournalEntry, error) {
	var (
		e                    domain.JournalEntry
		documentType, status string
		entryDate            pgtype.Date
		debit, credit        pgtype.Numeric
		source, reversed, by pgtype.Text
		postedAt             pgtype.Timestamptz
	)
	if err := row.Scan(
		&e.ID,
		&e.CompanyID,
		&e.Number,
		&documentType,
		&entryDate,
		&e.Description,
		&status,
		&debit,
		&credit,
		&source,
		&reversed,
		&e.CreatedBy,
		&e.CreatedAt,
		&e.UpdatedAt,
		&postedAt,
		&by,
	); err != nil {
		return nil, err
	}

	e.DocumentType = domain.DocumentType(documentType)
	e.Status = domain.EntryStatus(status)
	e.Date = pgToDate(entryDate)
	e.TotalDebit = numericToDecimal(debit)
	e.TotalCredit = numericToDecimal(credit)
	e.SourceDocumentID = textToPtr(source)
	e.ReversedEntryID = textToPtr(reversed)
	e.PostedAt = pgToNullableTime(postedAt)
	e.PostedBy = textToPtr(by)

	return &e, nil
}
