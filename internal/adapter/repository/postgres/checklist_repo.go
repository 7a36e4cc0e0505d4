package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gobooks/internal/domain"
)

// ChecklistRepository implements usecase.ChecklistRepository.
type ChecklistRepository struct {
	db dbtx
}

// NewChecklistRepository creates a new ChecklistRepository.
func NewChecklistRepository(pool *pgxpool.Pool) *ChecklistRepository {
	return newChecklistRepository(pool)
}

func newChecklistRepository(db dbtx) *ChecklistRepository {
	return &ChecklistRepository{db: db}
}

// ListByFiscalYear returns the stored items of a fiscal year.
func (r *ChecklistRepository) ListByFiscalYear(ctx context.Context, companyID, fiscalYearID string) ([]*domain.ChecklistItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, company_id, fiscal_year_id, item_id, status, note, updated_by, updated_at
		FROM closing_checklist
		WHERE company_id = $1 AND fiscal_year_id = $2
		ORDER BY item_id`,
		companyID, fiscalYearID,
	)
	if err != nil {
		return nil, storageErr("list checklist", err)
	}
	defer rows.Close()

	items := make([]*domain.ChecklistItem, 0)
	for rows.Next() {
		var (
			item           domain.ChecklistItem
			itemID, status string
		)
		if err := rows.Scan(
			&item.ID,
			&item.CompanyID,
			&item.FiscalYearID,
			&itemID,
			&status,
			&item.Note,
			&item.UpdatedBy,
			&item.UpdatedAt,
		); err != nil {
			return nil, storageErr("scan checklist item", err)
		}
		item.ItemID = domain.ChecklistItemID(itemID)
		item.Status = domain.ChecklistStatus(status)
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list checklist", err)
	}

	return items, nil
}

// Upsert inserts the item or replaces the stored verdict. The row keeps its
// original ID on conflict.
func (r *ChecklistRepository) Upsert(ctx context.Context, item *domain.ChecklistItem) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO closing_checklist (id, company_id, fiscal_year_id, item_id, status, note, updated_by, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT ON CONSTRAINT closing_checklist_item_key DO UPDATE
		SET status = EXCLUDED.status,
		    note = EXCLUDED.note,
		    updated_by = EXCLUDED.updated_by,
		    updated_at = EXCLUDED.updated_at
		RETURNING id`,
		item.ID,
		item.CompanyID,
		item.FiscalYearID,
		string(item.ItemID),
		string(item.Status),
		item.Note,
		item.UpdatedBy,
		item.UpdatedAt,
	).Scan(&item.ID)
	if err != nil {
		return storageErr("upsert checklist item", err)
	}

	return nil
}
