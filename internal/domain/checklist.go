package domain

import (
	"math"
	"time"
)

// ChecklistItemID identifies one of the fixed closing prerequisites.
type ChecklistItemID string

const (
	ChecklistBankStatementsImported        ChecklistItemID = "bank_statements_imported"
	ChecklistInvoicesPosted                ChecklistItemID = "invoices_posted"
	ChecklistCashRegisterReconciled        ChecklistItemID = "cash_register_reconciled"
	ChecklistReceivablesPayablesReconciled ChecklistItemID = "receivables_payables_reconciled"
	ChecklistInventoryCounted              ChecklistItemID = "inventory_counted"
	ChecklistDepreciationPosted            ChecklistItemID = "depreciation_posted"
	ChecklistAccrualsPosted                ChecklistItemID = "accruals_posted"
	ChecklistPayrollPosted                 ChecklistItemID = "payroll_posted"
	ChecklistVATReturnsFiled               ChecklistItemID = "vat_returns_filed"
	ChecklistDraftsResolved                ChecklistItemID = "drafts_resolved"
	ChecklistTrialBalanceBalanced          ChecklistItemID = "trial_balance_balanced"
)

// ChecklistItems is the fixed, ordered set of closing prerequisites.
var ChecklistItems = []ChecklistItemID{
	ChecklistBankStatementsImported,
	ChecklistInvoicesPosted,
	ChecklistCashRegisterReconciled,
	ChecklistReceivablesPayablesReconciled,
	ChecklistInventoryCounted,
	ChecklistDepreciationPosted,
	ChecklistAccrualsPosted,
	ChecklistPayrollPosted,
	ChecklistVATReturnsFiled,
	ChecklistDraftsResolved,
	ChecklistTrialBalanceBalanced,
}

// IsValid reports whether id is one of ChecklistItems.
func (id ChecklistItemID) IsValid() bool {
	for _, item := range ChecklistItems {
		if item == id {
			return true
		}
	}
	return false
}

// ChecklistStatus is the verdict on a checklist item.
type ChecklistStatus string

const (
	ChecklistPending ChecklistStatus = "pending"
	ChecklistDone    ChecklistStatus = "done"
	ChecklistSkipped ChecklistStatus = "skipped"
	ChecklistNA      ChecklistStatus = "na"
)

// IsValid reports whether s is a known status.
func (s ChecklistStatus) IsValid() bool {
	switch s {
	case ChecklistPending, ChecklistDone, ChecklistSkipped, ChecklistNA:
		return true
	}
	return false
}

// ChecklistItem is the stored verdict for one prerequisite of a fiscal year.
type ChecklistItem struct {
	ID           string
	CompanyID    string
	FiscalYearID string
	ItemID       ChecklistItemID
	Status       ChecklistStatus
	Note         string
	UpdatedBy    string
	UpdatedAt    time.Time
}

// ChecklistProgress summarizes a fiscal year's checklist.
type ChecklistProgress struct {
	Done       int     `json:"done"`
	Skipped    int     `json:"skipped"`
	NA         int     `json:"na"`
	Pending    int     `json:"pending"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
	IsComplete bool    `json:"is_complete"`
}

// CompleteChecklist returns one item per ChecklistItems entry, filling missing
// ones with pending placeholders.
func CompleteChecklist(companyID, fiscalYearID string, stored []*ChecklistItem) []*ChecklistItem {
	byID := make(map[ChecklistItemID]*ChecklistItem, len(stored))
	for _, item := range stored {
		byID[item.ItemID] = item
	}

	items := make([]*ChecklistItem, 0, len(ChecklistItems))
	for _, id := range ChecklistItems {
		if item, ok := byID[id]; ok {
			items = append(items, item)
			continue
		}
		items = append(items, &ChecklistItem{
			CompanyID:    companyID,
			FiscalYearID: fiscalYearID,
			ItemID:       id,
			Status:       ChecklistPending,
		})
	}
	return items
}

// Progress computes the summary. Skipped and na items resolve an item without
// counting as done.
func Progress(items []*ChecklistItem) ChecklistProgress {
	var p ChecklistProgress
	for _, item := range items {
		switch item.Status {
		case ChecklistDone:
			p.Done++
		case ChecklistSkipped:
			p.Skipped++
		case ChecklistNA:
			p.NA++
		default:
			p.Pending++
		}
	}
	p.Total = len(items)
	if p.Total > 0 {
		p.Percentage = math.Round(float64(p.Done)/float64(p.Total)*10000) / 100
	}
	p.IsComplete = p.Pending == 0
	return p
}

// Checklist is the full item set of a fiscal year with its summary.
type Checklist struct {
	CompanyID    string
	FiscalYearID string
	Items        []*ChecklistItem
	Progress     ChecklistProgress
}

// NewChecklist completes stored and computes the progress.
func NewChecklist(companyID, fiscalYearID string, stored []*ChecklistItem) *Checklist {
	items := CompleteChecklist(companyID, fiscalYearID, stored)
	return &Checklist{
		CompanyID:    companyID,
		FiscalYearID: fiscalYearID,
		Items:        items,
		Progress:     Progress(items),
	}
}
