package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobooks/internal/domain"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID            string             `json:"id"`
	SyntheticCode string             `json:"synthetic_code"`
	AnalyticCode  string             `json:"analytic_code,omitempty"`
	Code          string             `json:"code"`
	Name          string             `json:"name"`
	Type          domain.AccountType `json:"type"`
	Class         int                `json:"class"`
	Active        bool               `json:"active"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:            a.ID,
		SyntheticCode: a.SyntheticCode,
		AnalyticCode:  a.AnalyticCode,
		Code:          a.Code(),
		Name:          a.Name,
		Type:          a.Type,
		Class:         a.Class(),
		Active:        a.Active,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse represents a page of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// EntryLineResponse represents a journal line in API responses.
type EntryLineResponse struct {
	ID             string           `json:"id"`
	Position       int              `json:"position"`
	AccountID      string           `json:"account_id"`
	AccountCode    string           `json:"account_code,omitempty"`
	AccountName    string           `json:"account_name,omitempty"`
	Side           domain.Side      `json:"side"`
	Amount         decimal.Decimal  `json:"amount"`
	CurrencyAmount *decimal.Decimal `json:"currency_amount,omitempty"`
	ExchangeRate   *decimal.Decimal `json:"exchange_rate,omitempty"`
	CurrencyCode   *string          `json:"currency_code,omitempty"`
	CostCenterID   *string          `json:"cost_center_id,omitempty"`
	ProjectID      *string          `json:"project_id,omitempty"`
	Description    string           `json:"description,omitempty"`
}

// JournalEntryResponse represents a journal entry in API responses.
type JournalEntryResponse struct {
	ID               string               `json:"id"`
	Number           string               `json:"number"`
	DocumentType     domain.DocumentType  `json:"document_type"`
	Date             Date                 `json:"date"`
	Description      string               `json:"description"`
	Status           domain.EntryStatus   `json:"status"`
	TotalDebit       decimal.Decimal      `json:"total_debit"`
	TotalCredit      decimal.Decimal      `json:"total_credit"`
	SourceDocumentID *string              `json:"source_document_id,omitempty"`
	ReversedEntryID  *string              `json:"reversed_entry_id,omitempty"`
	CreatedBy        string               `json:"created_by"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
	PostedAt         *time.Time           `json:"posted_at,omitempty"`
	PostedBy         *string              `json:"posted_by,omitempty"`
	Lines            []*EntryLineResponse `json:"lines,omitempty"`
}

// JournalEntryFromDomain converts domain entry to response.
func JournalEntryFromDomain(e *domain.JournalEntry) *JournalEntryResponse {
	resp := &JournalEntryResponse{
		ID:               e.ID,
		Number:           e.Number,
		DocumentType:     e.DocumentType,
		Date:             NewDate(e.Date),
		Description:      e.Description,
		Status:           e.Status,
		TotalDebit:       e.TotalDebit,
		TotalCredit:      e.TotalCredit,
		SourceDocumentID: e.SourceDocumentID,
		ReversedEntryID:  e.ReversedEntryID,
		CreatedBy:        e.CreatedBy,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
		PostedAt:         e.PostedAt,
		PostedBy:         e.PostedBy,
	}
	for _, l := range e.Lines {
		resp.Lines = append(resp.Lines, &EntryLineResponse{
			ID:             l.ID,
			Position:       l.Position,
			AccountID:      l.AccountID,
			AccountCode:    accountCode(l.AccountSynthetic, l.AccountAnalytic),
			AccountName:    l.AccountName,
			Side:           l.Side,
			Amount:         l.Amount,
			CurrencyAmount: l.CurrencyAmount,
			ExchangeRate:   l.ExchangeRate,
			CurrencyCode:   l.CurrencyCode,
			CostCenterID:   l.CostCenterID,
			ProjectID:      l.ProjectID,
			Description:    l.Description,
		})
	}
	return resp
}

// JournalEntriesFromDomain converts domain entries to responses.
func JournalEntriesFromDomain(entries []*domain.JournalEntry) []*JournalEntryResponse {
	result := make([]*JournalEntryResponse, len(entries))
	for i, e := range entries {
		result[i] = JournalEntryFromDomain(e)
	}
	return result
}

// ListJournalEntriesResponse represents a page of journal entries.
type ListJournalEntriesResponse struct {
	Entries []*JournalEntryResponse `json:"entries"`
	Total   int64                   `json:"total"`
}

// GeneralLedgerRowResponse is one account of the general ledger.
type GeneralLedgerRowResponse struct {
	AccountID      string             `json:"account_id"`
	AccountCode    string             `json:"account_code"`
	AccountName    string             `json:"account_name"`
	AccountType    domain.AccountType `json:"account_type"`
	OpeningBalance decimal.Decimal    `json:"opening_balance"`
	PeriodDebit    decimal.Decimal    `json:"period_debit"`
	PeriodCredit   decimal.Decimal    `json:"period_credit"`
	ClosingBalance decimal.Decimal    `json:"closing_balance"`
}

// GeneralLedgerResponse represents the general ledger report.
type GeneralLedgerResponse struct {
	DateFrom Date                        `json:"date_from"`
	DateTo   Date                        `json:"date_to"`
	Rows     []*GeneralLedgerRowResponse `json:"rows"`
}

// GeneralLedgerFromDomain converts the report to a response.
func GeneralLedgerFromDomain(gl *domain.GeneralLedger) *GeneralLedgerResponse {
	resp := &GeneralLedgerResponse{
		DateFrom: NewDate(gl.DateFrom),
		DateTo:   NewDate(gl.DateTo),
		Rows:     make([]*GeneralLedgerRowResponse, len(gl.Rows)),
	}
	for i, row := range gl.Rows {
		resp.Rows[i] = &GeneralLedgerRowResponse{
			AccountID:      row.AccountID,
			AccountCode:    accountCode(row.SyntheticCode, row.AnalyticCode),
			AccountName:    row.AccountName,
			AccountType:    row.AccountType,
			OpeningBalance: row.OpeningBalance,
			PeriodDebit:    row.PeriodDebit,
			PeriodCredit:   row.PeriodCredit,
			ClosingBalance: row.ClosingBalance,
		}
	}
	return resp
}

// BalancePair holds a debit and credit column of the trial balance.
type BalancePair struct {
	Debit  decimal.Decimal `json:"debit"`
	Credit decimal.Decimal `json:"credit"`
}

// TrialBalanceRowResponse is one account of the trial balance.
type TrialBalanceRowResponse struct {
	AccountID   string             `json:"account_id"`
	AccountCode string             `json:"account_code"`
	AccountName string             `json:"account_name"`
	AccountType domain.AccountType `json:"account_type"`
	Opening     BalancePair        `json:"opening"`
	Period      BalancePair        `json:"period"`
	Closing     BalancePair        `json:"closing"`
}

// TrialBalanceTotalsResponse holds the column sums of the trial balance.
type TrialBalanceTotalsResponse struct {
	Opening BalancePair `json:"opening"`
	Period  BalancePair `json:"period"`
	Closing BalancePair `json:"closing"`
}

// TrialBalanceResponse represents the trial balance report.
type TrialBalanceResponse struct {
	DateFrom   Date                       `json:"date_from"`
	DateTo     Date                       `json:"date_to"`
	Rows       []*TrialBalanceRowResponse `json:"rows"`
	Totals     TrialBalanceTotalsResponse `json:"totals"`
	IsBalanced bool                       `json:"is_balanced"`
}

// TrialBalanceFromDomain converts the report to a response.
func TrialBalanceFromDomain(tb *domain.TrialBalance) *TrialBalanceResponse {
	resp := &TrialBalanceResponse{
		DateFrom: NewDate(tb.DateFrom),
		DateTo:   NewDate(tb.DateTo),
		Rows:     make([]*TrialBalanceRowResponse, len(tb.Rows)),
		Totals: TrialBalanceTotalsResponse{
			Opening: BalancePair{Debit: tb.Totals.OpeningDebit, Credit: tb.Totals.OpeningCredit},
			Period:  BalancePair{Debit: tb.Totals.PeriodDebit, Credit: tb.Totals.PeriodCredit},
			Closing: BalancePair{Debit: tb.Totals.ClosingDebit, Credit: tb.Totals.ClosingCredit},
		},
		IsBalanced: tb.IsBalanced,
	}
	for i, row := range tb.Rows {
		resp.Rows[i] = &TrialBalanceRowResponse{
			AccountID:   row.AccountID,
			AccountCode: accountCode(row.SyntheticCode, row.AnalyticCode),
			AccountName: row.AccountName,
			AccountType: row.AccountType,
			Opening:     BalancePair{Debit: row.OpeningDebit, Credit: row.OpeningCredit},
			Period:      BalancePair{Debit: row.PeriodDebit, Credit: row.PeriodCredit},
			Closing:     BalancePair{Debit: row.ClosingDebit, Credit: row.ClosingCredit},
		}
	}
	return resp
}

// FiscalYearResponse represents a fiscal year in API responses.
type FiscalYearResponse struct {
	ID        string                  `json:"id"`
	Name      string                  `json:"name"`
	StartDate Date                    `json:"start_date"`
	EndDate   Date                    `json:"end_date"`
	Status    domain.FiscalYearStatus `json:"status"`
	ClosedAt  *time.Time              `json:"closed_at,omitempty"`
	CreatedAt time.Time               `json:"created_at"`
}

// FiscalYearFromDomain converts domain fiscal year to response.
func FiscalYearFromDomain(fy *domain.FiscalYear) *FiscalYearResponse {
	return &FiscalYearResponse{
		ID:        fy.ID,
		Name:      fy.Name,
		StartDate: NewDate(fy.StartDate),
		EndDate:   NewDate(fy.EndDate),
		Status:    fy.Status,
		ClosedAt:  fy.ClosedAt,
		CreatedAt: fy.CreatedAt,
	}
}

// FiscalYearsFromDomain converts domain fiscal years to responses.
func FiscalYearsFromDomain(years []*domain.FiscalYear) []*FiscalYearResponse {
	result := make([]*FiscalYearResponse, len(years))
	for i, fy := range years {
		result[i] = FiscalYearFromDomain(fy)
	}
	return result
}

// ChecklistItemResponse represents one checklist item.
type ChecklistItemResponse struct {
	ItemID    domain.ChecklistItemID `json:"item_id"`
	Status    domain.ChecklistStatus `json:"status"`
	Note      string                 `json:"note,omitempty"`
	UpdatedBy string                 `json:"updated_by,omitempty"`
	UpdatedAt *time.Time             `json:"updated_at,omitempty"`
}

// ChecklistResponse represents the closing checklist of a fiscal year.
type ChecklistResponse struct {
	FiscalYearID string                   `json:"fiscal_year_id"`
	Items        []*ChecklistItemResponse `json:"items"`
	Progress     domain.ChecklistProgress `json:"progress"`
}

// ChecklistFromDomain converts the checklist to a response.
func ChecklistFromDomain(c *domain.Checklist) *ChecklistResponse {
	resp := &ChecklistResponse{
		FiscalYearID: c.FiscalYearID,
		Items:        make([]*ChecklistItemResponse, len(c.Items)),
		Progress:     c.Progress,
	}
	for i, item := range c.Items {
		r := &ChecklistItemResponse{
			ItemID:    item.ItemID,
			Status:    item.Status,
			Note:      item.Note,
			UpdatedBy: item.UpdatedBy,
		}
		if !item.UpdatedAt.IsZero() {
			updatedAt := item.UpdatedAt
			r.UpdatedAt = &updatedAt
		}
		resp.Items[i] = r
	}
	return resp
}

// ClosingOperationResponse represents an executed closing operation.
type ClosingOperationResponse struct {
	ID             string                      `json:"id"`
	FiscalYearID   string                      `json:"fiscal_year_id"`
	Type           domain.ClosingOperationType `json:"type"`
	JournalEntryID *string                     `json:"journal_entry_id,omitempty"`
	TotalAmount    decimal.Decimal             `json:"total_amount"`
	AccountsCount  int                         `json:"accounts_count"`
	CreatedBy      string                      `json:"created_by"`
	CreatedAt      time.Time                   `json:"created_at"`
}

// ClosingOperationFromDomain converts domain closing operation to response.
func ClosingOperationFromDomain(op *domain.ClosingOperation) *ClosingOperationResponse {
	return &ClosingOperationResponse{
		ID:             op.ID,
		FiscalYearID:   op.FiscalYearID,
		Type:           op.Type,
		JournalEntryID: op.JournalEntryID,
		TotalAmount:    op.TotalAmount,
		AccountsCount:  op.AccountsCount,
		CreatedBy:      op.CreatedBy,
		CreatedAt:      op.CreatedAt,
	}
}

// ClosingOperationsFromDomain converts domain closing operations to responses.
func ClosingOperationsFromDomain(ops []*domain.ClosingOperation) []*ClosingOperationResponse {
	result := make([]*ClosingOperationResponse, len(ops))
	for i, op := range ops {
		result[i] = ClosingOperationFromDomain(op)
	}
	return result
}

// PeriodLockResponse represents a period lock in API responses.
type PeriodLockResponse struct {
	ID          string     `json:"id"`
	PeriodStart Date       `json:"period_start"`
	PeriodEnd   Date       `json:"period_end"`
	Locked      bool       `json:"locked"`
	LockedAt    *time.Time `json:"locked_at,omitempty"`
	LockedBy    *string    `json:"locked_by,omitempty"`
	UnlockedAt  *time.Time `json:"unlocked_at,omitempty"`
	UnlockedBy  *string    `json:"unlocked_by,omitempty"`
}

// PeriodLockFromDomain converts domain period lock to response.
func PeriodLockFromDomain(l *domain.PeriodLock) *PeriodLockResponse {
	return &PeriodLockResponse{
		ID:          l.ID,
		PeriodStart: NewDate(l.PeriodStart),
		PeriodEnd:   NewDate(l.PeriodEnd),
		Locked:      l.Locked,
		LockedAt:    l.LockedAt,
		LockedBy:    l.LockedBy,
		UnlockedAt:  l.UnlockedAt,
		UnlockedBy:  l.UnlockedBy,
	}
}

// PeriodLocksFromDomain converts domain period locks to responses.
func PeriodLocksFromDomain(locks []*domain.PeriodLock) []*PeriodLockResponse {
	result := make([]*PeriodLockResponse, len(locks))
	for i, l := range locks {
		result[i] = PeriodLockFromDomain(l)
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

func accountCode(synthetic, analytic string) string {
	if analytic == "" {
		return synthetic
	}
	return synthetic + "." + analytic
}
