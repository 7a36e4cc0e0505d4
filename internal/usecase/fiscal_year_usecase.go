package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/gobooks/internal/domain"
)

// FiscalYearUseCase manages the accounting years of a company.
type FiscalYearUseCase struct {
	txManager  TransactionManager
	fyRepo     FiscalYearRepository
	outboxRepo OutboxRepository
	idGen      IDGenerator
	logger     zerolog.Logger
	now        func() time.Time
}

// NewFiscalYearUseCase creates a new FiscalYearUseCase.
func NewFiscalYearUseCase(
	txManager TransactionManager,
	fyRepo FiscalYearRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
) *FiscalYearUseCase {
	return &FiscalYearUseCase{
		txManager:  txManager,
		fyRepo:     fyRepo,
		outboxRepo: outboxRepo,
		idGen:      idGen,
		logger:     zerolog.Nop(),
		now:        utcNow,
	}
}

// WithLogger sets the logger.
func (uc *FiscalYearUseCase) WithLogger(logger zerolog.Logger) *FiscalYearUseCase {
	uc.logger = logger
	return uc
}

// WithClock overrides the clock.
func (uc *FiscalYearUseCase) WithClock(now func() time.Time) *FiscalYearUseCase {
	uc.now = now
	return uc
}

// CreateFiscalYearInput represents input for creating a fiscal year.
type CreateFiscalYearInput struct {
	CompanyID string
	Name      string
	StartDate time.Time
	EndDate   time.Time
}

// CreateFiscalYear registers a new active year. Years of one company never overlap.
func (uc *FiscalYearUseCase) CreateFiscalYear(ctx context.Context, input CreateFiscalYearInput, actor *domain.Actor) (*domain.FiscalYear, error) {
	if err := requireWriter(actor); err != nil {
		return nil, err
	}
	if input.CompanyID == "" {
		return nil, domain.ErrMissingCompany
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrMissingFiscalYearName
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return nil, domain.ErrMissingDate
	}

	fy := &domain.FiscalYear{
		ID:        uc.idGen.Generate(),
		CompanyID: input.CompanyID,
		Name:      name,
		StartDate: domain.Date(input.StartDate),
		EndDate:   domain.Date(input.EndDate),
		Status:    domain.FiscalYearActive,
		CreatedAt: uc.now(),
	}
	if fy.StartDate.After(fy.EndDate) {
		return nil, domain.WithDetails(domain.ErrInvalidDateRange, map[string]any{
			"start_date": domain.FormatDate(fy.StartDate),
			"end_date":   domain.FormatDate(fy.EndDate),
		})
	}

	existing, err := uc.fyRepo.List(ctx, input.CompanyID)
	if err != nil {
		return nil, err
	}
	for _, other := range existing {
		if fy.Overlaps(other) {
			return nil, domain.WithDetails(domain.ErrFiscalYearOverlap, map[string]any{
				"fiscal_year_id": other.ID,
				"name":           other.Name,
				"start_date":     domain.FormatDate(other.StartDate),
				"end_date":       domain.FormatDate(other.EndDate),
			})
		}
	}

	if err := uc.fyRepo.Create(ctx, fy); err != nil {
		return nil, err
	}

	return fy, nil
}

// GetFiscalYear returns a fiscal year by ID.
func (uc *FiscalYearUseCase) GetFiscalYear(ctx context.Context, companyID, id string) (*domain.FiscalYear, error) {
	if companyID == "" {
		return nil, domain.ErrMissingCompany
	}
	return uc.fyRepo.GetByID(ctx, companyID, id)
}

// ListFiscalYears lists fiscal years ordered by start date.
func (uc *FiscalYearUseCase) ListFiscalYears(ctx context.Context, companyID string) ([]*domain.FiscalYear, error) {
	if companyID == "" {
		return nil, domain.ErrMissingCompany
	}
	years, err := uc.fyRepo.List(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if years == nil {
		years = []*domain.FiscalYear{}
	}
	return years, nil
}

// CloseFiscalYear marks a year closed. Years close in chronological order.
func (uc *FiscalYearUseCase) CloseFiscalYear(ctx context.Context, companyID, id string, actor *domain.Actor) (*domain.FiscalYear, error) {
	if err := requireAdmin(actor, domain.Role.CanClose); err != nil {
		return nil, err
	}
	if companyID == "" {
		return nil, domain.ErrMissingCompany
	}

	fy, err := uc.fyRepo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if !fy.IsActive() {
		return nil, domain.WithDetails(domain.ErrFiscalYearClosed, map[string]any{"fiscal_year_id": fy.ID})
	}

	years, err := uc.fyRepo.List(ctx, companyID)
	if err != nil {
		return nil, err
	}
	for _, other := range years {
		if other.ID != fy.ID && other.IsActive() && other.StartDate.Before(fy.StartDate) {
			return nil, domain.WithDetails(domain.ErrEarlierFiscalYearOpen, map[string]any{
				"fiscal_year_id": other.ID,
				"name":           other.Name,
			})
		}
	}

	now := uc.now()
	err = runInTx(ctx, uc.txManager, nil, func(ctx context.Context, tx Transaction) error {
		if err := uc.fyRepo.Close(ctx, tx, companyID, fy.ID, now); err != nil {
			return err
		}
		return uc.outboxRepo.Create(ctx, tx, newOutboxEvent(companyID, domain.AggregateTypeFiscalYear, fy.ID, domain.EventTypeFiscalYearClosed, map[string]any{
			"fiscal_year_id": fy.ID,
			"name":           fy.Name,
			"actor":          actor.ID,
		}, now))
	})
	if err != nil {
		return nil, err
	}

	fy.Status = domain.FiscalYearClosed
	fy.ClosedAt = &now

	uc.logger.Info().
		Str("company_id", companyID).
		Str("fiscal_year_id", fy.ID).
		Str("actor", actor.ID).
		Msg("fiscal year closed")

	return fy, nil
}
