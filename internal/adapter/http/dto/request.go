package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/usecase"
)

// CreateAccountRequest represents a request to add an account to the chart.
type CreateAccountRequest struct {
	SyntheticCode string `json:"synthetic_code" validate:"required,len=3,numeric"`
	AnalyticCode  string `json:"analytic_code" validate:"omitempty,max=20,alphanum"`
	Name          string `json:"name" validate:"required,max=255"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput(companyID string) usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		CompanyID:     companyID,
		SyntheticCode: r.SyntheticCode,
		AnalyticCode:  r.AnalyticCode,
		Name:          r.Name,
	}
}

// EntryLineRequest represents one journal line.
type EntryLineRequest struct {
	AccountID      string           `json:"account_id" validate:"required"`
	Side           domain.Side      `json:"side" validate:"required,oneof=MD D"`
	Amount         decimal.Decimal  `json:"amount"`
	CurrencyAmount *decimal.Decimal `json:"currency_amount,omitempty"`
	ExchangeRate   *decimal.Decimal `json:"exchange_rate,omitempty"`
	CurrencyCode   *string          `json:"currency_code,omitempty" validate:"omitempty,len=3,alpha"`
	CostCenterID   *string          `json:"cost_center_id,omitempty"`
	ProjectID      *string          `json:"project_id,omitempty"`
	Description    string           `json:"description" validate:"max=500"`
}

func (l EntryLineRequest) toUseCaseInput() usecase.EntryLineInput {
	return usecase.EntryLineInput{
		AccountID:      l.AccountID,
		Side:           l.Side,
		Amount:         l.Amount,
		CurrencyAmount: l.CurrencyAmount,
		ExchangeRate:   l.ExchangeRate,
		CurrencyCode:   l.CurrencyCode,
		CostCenterID:   l.CostCenterID,
		ProjectID:      l.ProjectID,
		Description:    l.Description,
	}
}

func linesToUseCaseInput(lines []EntryLineRequest) []usecase.EntryLineInput {
	result := make([]usecase.EntryLineInput, len(lines))
	for i, l := range lines {
		result[i] = l.toUseCaseInput()
	}
	return result
}

// CreateEntryRequest represents a request to create a draft journal entry.
type CreateEntryRequest struct {
	DocumentType     domain.DocumentType `json:"document_type" validate:"required,oneof=FA PFA ID BV PPD VPD"`
	Date             Date                `json:"date"`
	Description      string              `json:"description" validate:"max=1000"`
	SourceDocumentID *string             `json:"source_document_id,omitempty"`
	Lines            []EntryLineRequest  `json:"lines" validate:"required,min=1,dive"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateEntryRequest) ToUseCaseInput(companyID string) usecase.CreateEntryInput {
	return usecase.CreateEntryInput{
		CompanyID:        companyID,
		DocumentType:     r.DocumentType,
		Date:             r.Date.Time,
		Description:      r.Description,
		SourceDocumentID: r.SourceDocumentID,
		Lines:            linesToUseCaseInput(r.Lines),
	}
}

// UpdateEntryRequest replaces the header fields and lines of a draft.
type UpdateEntryRequest struct {
	Date        Date               `json:"date"`
	Description string             `json:"description" validate:"max=1000"`
	Lines       []EntryLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateEntryRequest) ToUseCaseInput(companyID, id string) usecase.UpdateEntryInput {
	return usecase.UpdateEntryInput{
		CompanyID:   companyID,
		ID:          id,
		Date:        r.Date.Time,
		Description: r.Description,
		Lines:       linesToUseCaseInput(r.Lines),
	}
}

// CreateFiscalYearRequest represents a request to open a fiscal year.
type CreateFiscalYearRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	StartDate Date   `json:"start_date"`
	EndDate   Date   `json:"end_date"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateFiscalYearRequest) ToUseCaseInput(companyID string) usecase.CreateFiscalYearInput {
	return usecase.CreateFiscalYearInput{
		CompanyID: companyID,
		Name:      r.Name,
		StartDate: r.StartDate.Time,
		EndDate:   r.EndDate.Time,
	}
}

// SetChecklistItemRequest stores a verdict for one checklist item.
type SetChecklistItemRequest struct {
	FiscalYearID string                 `json:"fiscal_year_id" validate:"required"`
	ItemID       domain.ChecklistItemID `json:"item_id" validate:"required"`
	Status       domain.ChecklistStatus `json:"status" validate:"required,oneof=pending done skipped na"`
	Note         string                 `json:"note" validate:"max=1000"`
}

// ToUseCaseInput converts to use case input.
func (r *SetChecklistItemRequest) ToUseCaseInput(companyID string) usecase.SetItemStatusInput {
	return usecase.SetItemStatusInput{
		CompanyID:    companyID,
		FiscalYearID: r.FiscalYearID,
		ItemID:       r.ItemID,
		Status:       r.Status,
		Note:         r.Note,
	}
}

// VerifyChecklistRequest runs the automatic checklist verifiers.
type VerifyChecklistRequest struct {
	FiscalYearID string `json:"fiscal_year_id" validate:"required"`
}

// ExecuteClosingRequest runs one closing operation.
type ExecuteClosingRequest struct {
	FiscalYearID string                      `json:"fiscal_year_id" validate:"required"`
	Type         domain.ClosingOperationType `json:"type" validate:"required,oneof=revenue_close expense_close profit_loss_close balance_close"`
	PeriodStart  *Date                       `json:"period_start,omitempty"`
	PeriodEnd    *Date                       `json:"period_end,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *ExecuteClosingRequest) ToUseCaseInput(companyID string) usecase.ExecuteClosingInput {
	return usecase.ExecuteClosingInput{
		CompanyID:    companyID,
		FiscalYearID: r.FiscalYearID,
		Type:         r.Type,
		PeriodStart:  r.PeriodStart.Ptr(),
		PeriodEnd:    r.PeriodEnd.Ptr(),
	}
}

// LockPeriodRequest locks an inclusive date range.
type LockPeriodRequest struct {
	PeriodStart Date `json:"period_start"`
	PeriodEnd   Date `json:"period_end"`
}

// ToUseCaseInput converts to use case input.
func (r *LockPeriodRequest) ToUseCaseInput(companyID string) usecase.LockPeriodInput {
	return usecase.LockPeriodInput{
		CompanyID:   companyID,
		PeriodStart: r.PeriodStart.Time,
		PeriodEnd:   r.PeriodEnd.Time,
	}
}
