package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/infrastructure/metrics"
)

// ChecklistUseCase tracks the closing prerequisites of a fiscal year.
type ChecklistUseCase struct {
	checklistRepo ChecklistRepository
	fyRepo        FiscalYearRepository
	closingRepo   ClosingOperationRepository
	verifiers     []ChecklistVerifier
	idGen         IDGenerator
	metrics       *metrics.Metrics
	logger        zerolog.Logger
	now           func() time.Time
}

// NewChecklistUseCase creates a new ChecklistUseCase.
func NewChecklistUseCase(
	checklistRepo ChecklistRepository,
	fyRepo FiscalYearRepository,
	closingRepo ClosingOperationRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
	verifiers ...ChecklistVerifier,
) *ChecklistUseCase {
	return &ChecklistUseCase{
		checklistRepo: checklistRepo,
		fyRepo:        fyRepo,
		closingRepo:   closingRepo,
		verifiers:     verifiers,
		idGen:         idGen,
		metrics:       metrics,
		logger:        zerolog.Nop(),
		now:           utcNow,
	}
}

// WithLogger sets the logger.
func (uc *ChecklistUseCase) WithLogger(logger zerolog.Logger) *ChecklistUseCase {
	uc.logger = logger
	return uc
}

// WithClock overrides the clock.
func (uc *ChecklistUseCase) WithClock(now func() time.Time) *ChecklistUseCase {
	uc.now = now
	return uc
}

// GetChecklist returns every item of the fiscal year with the progress summary.
func (uc *ChecklistUseCase) GetChecklist(ctx context.Context, companyID, fiscalYearID string) (*domain.Checklist, error) {
	if _, err := uc.fiscalYear(ctx, companyID, fiscalYearID); err != nil {
		return nil, err
	}

	stored, err := uc.checklistRepo.ListByFiscalYear(ctx, companyID, fiscalYearID)
	if err != nil {
		return nil, err
	}
	return domain.NewChecklist(companyID, fiscalYearID, stored), nil
}

// SetItemStatusInput represents a manual checklist verdict.
type SetItemStatusInput struct {
	CompanyID    string
	FiscalYearID string
	ItemID       domain.ChecklistItemID
	Status       domain.ChecklistStatus
	Note         string
}

// SetItemStatus stores a verdict for one item and returns the updated checklist.
func (uc *ChecklistUseCase) SetItemStatus(ctx context.Context, input SetItemStatusInput, actor *domain.Actor) (*domain.Checklist, error) {
	if err := requireWriter(actor); err != nil {
		return nil, err
	}
	if !input.ItemID.IsValid() {
		return nil, domain.WithDetails(domain.ErrInvalidChecklistItem, map[string]any{"item_id": string(input.ItemID)})
	}
	if !input.Status.IsValid() {
		return nil, domain.WithDetails(domain.ErrInvalidChecklistStatus, map[string]any{"status": string(input.Status)})
	}
	if err := domain.ValidateDescription(input.Note); err != nil {
		return nil, err
	}

	if _, err := uc.fiscalYear(ctx, input.CompanyID, input.FiscalYearID); err != nil {
		return nil, err
	}
	if err := uc.ensureNotFrozen(ctx, input.CompanyID, input.FiscalYearID); err != nil {
		return nil, err
	}

	item := &domain.ChecklistItem{
		ID:           uc.idGen.Generate(),
		CompanyID:    input.CompanyID,
		FiscalYearID: input.FiscalYearID,
		ItemID:       input.ItemID,
		Status:       input.Status,
		Note:         strings.TrimSpace(input.Note),
		UpdatedBy:    actor.ID,
		UpdatedAt:    uc.now(),
	}
	if err := uc.checklistRepo.Upsert(ctx, item); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ChecklistUpdates.WithLabelValues(string(item.Status)).Inc()
	}

	return uc.GetChecklist(ctx, input.CompanyID, input.FiscalYearID)
}

// AutoVerify runs the registered verifiers and records a done verdict for every
// item they confirm. Failed checks leave the stored verdict untouched.
func (uc *ChecklistUseCase) AutoVerify(ctx context.Context, companyID, fiscalYearID string, actor *domain.Actor) (*domain.Checklist, error) {
	if err := requireWriter(actor); err != nil {
		return nil, err
	}

	fy, err := uc.fiscalYear(ctx, companyID, fiscalYearID)
	if err != nil {
		return nil, err
	}
	if err := uc.ensureNotFrozen(ctx, companyID, fiscalYearID); err != nil {
		return nil, err
	}

	for _, v := range uc.verifiers {
		ok, err := v.Verify(ctx, companyID, fy)
		if err != nil {
			return nil, err
		}

		uc.logger.Debug().
			Str("company_id", companyID).
			Str("fiscal_year_id", fiscalYearID).
			Str("item", string(v.Item())).
			Bool("passed", ok).
			Msg("checklist verifier ran")

		if !ok {
			continue
		}

		item := &domain.ChecklistItem{
			ID:           uc.idGen.Generate(),
			CompanyID:    companyID,
			FiscalYearID: fiscalYearID,
			ItemID:       v.Item(),
			Status:       domain.ChecklistDone,
			Note:         SystemNote,
			UpdatedBy:    actor.ID,
			UpdatedAt:    uc.now(),
		}
		if err := uc.checklistRepo.Upsert(ctx, item); err != nil {
			return nil, err
		}
		if uc.metrics != nil {
			uc.metrics.ChecklistUpdates.WithLabelValues(string(item.Status)).Inc()
		}
	}

	return uc.GetChecklist(ctx, companyID, fiscalYearID)
}

func (uc *ChecklistUseCase) fiscalYear(ctx context.Context, companyID, fiscalYearID string) (*domain.FiscalYear, error) {
	if companyID == "" {
		return nil, domain.ErrMissingCompany
	}
	if fiscalYearID == "" {
		return nil, domain.ErrFiscalYearNotFound
	}
	return uc.fyRepo.GetByID(ctx, companyID, fiscalYearID)
}

func (uc *ChecklistUseCase) ensureNotFrozen(ctx context.Context, companyID, fiscalYearID string) error {
	ops, err := uc.closingRepo.ListByFiscalYear(ctx, companyID, fiscalYearID)
	if err != nil {
		return err
	}
	if len(ops) > 0 {
		return domain.WithDetails(domain.ErrChecklistFrozen, map[string]any{
			"fiscal_year_id": fiscalYearID,
			"closing_type":   string(ops[0].Type),
		})
	}
	return nil
}
