package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/infrastructure/metrics"
)

// ClosingUseCase executes the year-end closing steps in dependency order.
type ClosingUseCase struct {
	txManager     TransactionManager
	journal       *JournalUseCase
	fyRepo        FiscalYearRepository
	checklistRepo ChecklistRepository
	closingRepo   ClosingOperationRepository
	outboxRepo    OutboxRepository
	calculator    ClosingCalculator
	guard         PeriodGuard
	idGen         IDGenerator
	policy        ClosingPolicy
	metrics       *metrics.Metrics
	retrier       Retrier
	logger        zerolog.Logger
	now           func() time.Time
}

// NewClosingUseCase creates a new ClosingUseCase.
func NewClosingUseCase(
	txManager TransactionManager,
	journal *JournalUseCase,
	fyRepo FiscalYearRepository,
	checklistRepo ChecklistRepository,
	closingRepo ClosingOperationRepository,
	outboxRepo OutboxRepository,
	calculator ClosingCalculator,
	guard PeriodGuard,
	idGen IDGenerator,
	policy ClosingPolicy,
	metrics *metrics.Metrics,
) *ClosingUseCase {
	return &ClosingUseCase{
		txManager:     txManager,
		journal:       journal,
		fyRepo:        fyRepo,
		checklistRepo: checklistRepo,
		closingRepo:   closingRepo,
		outboxRepo:    outboxRepo,
		calculator:    calculator,
		guard:         guard,
		idGen:         idGen,
		policy:        policy,
		metrics:       metrics,
		logger:        zerolog.Nop(),
		now:           utcNow,
	}
}

// WithRetrier sets the retrier used for the closing transaction.
func (uc *ClosingUseCase) WithRetrier(r Retrier) *ClosingUseCase {
	uc.retrier = r
	return uc
}

// WithLogger sets the logger.
func (uc *ClosingUseCase) WithLogger(logger zerolog.Logger) *ClosingUseCase {
	uc.logger = logger
	return uc
}

// WithClock overrides the clock.
func (uc *ClosingUseCase) WithClock(now func() time.Time) *ClosingUseCase {
	uc.now = now
	return uc
}

// ExecuteClosingInput represents input for running one closing step.
// A nil period bound defaults to the fiscal year's date.
type ExecuteClosingInput struct {
	CompanyID    string
	FiscalYearID string
	Type         domain.ClosingOperationType
	PeriodStart  *time.Time
	PeriodEnd    *time.Time
}

// Execute runs one closing step exactly once per fiscal year.
func (uc *ClosingUseCase) Execute(ctx context.Context, input ExecuteClosingInput, actor *domain.Actor) (*domain.ClosingOperation, error) {
	if err := requireAdmin(actor, domain.Role.CanClose); err != nil {
		return nil, err
	}
	if input.CompanyID == "" {
		return nil, domain.ErrMissingCompany
	}
	if !input.Type.IsValid() {
		return nil, domain.WithDetails(domain.ErrInvalidClosingType, map[string]any{"type": string(input.Type)})
	}

	fy, err := uc.fyRepo.GetByID(ctx, input.CompanyID, input.FiscalYearID)
	if err != nil {
		return nil, err
	}
	if !fy.IsActive() {
		return nil, domain.WithDetails(domain.ErrFiscalYearClosed, map[string]any{"fiscal_year_id": fy.ID})
	}

	periodStart, periodEnd := fy.StartDate, fy.EndDate
	if input.PeriodStart != nil {
		periodStart = domain.Date(*input.PeriodStart)
	}
	if input.PeriodEnd != nil {
		periodEnd = domain.Date(*input.PeriodEnd)
	}
	if periodStart.After(periodEnd) {
		return nil, domain.WithDetails(domain.ErrInvalidDateRange, map[string]any{
			"period_start": domain.FormatDate(periodStart),
			"period_end":   domain.FormatDate(periodEnd),
		})
	}

	log := uc.logger.With().
		Str("company_id", input.CompanyID).
		Str("fiscal_year_id", fy.ID).
		Str("type", string(input.Type)).
		Logger()

	// Gate
	if err := uc.checkGate(ctx, input.CompanyID, fy.ID); err != nil {
		log.Warn().Err(err).Interface("details", domain.DetailsOf(err)).Msg("closing rejected by checklist gate")
		uc.countRejection("gate")
		return nil, err
	}

	done, err := uc.closingRepo.ListByFiscalYear(ctx, input.CompanyID, fy.ID)
	if err != nil {
		return nil, err
	}

	// Idempotency
	for _, op := range done {
		if op.Type == input.Type {
			log.Warn().Str("existing_id", op.ID).Msg("closing operation already executed")
			uc.countRejection("already_executed")
			return nil, alreadyExecutedError(op)
		}
	}

	// Ordering
	if missing := input.Type.MissingPrerequisites(done); len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for _, m := range missing {
			names = append(names, string(m))
		}
		log.Warn().Strs("missing", names).Msg("closing operation out of order")
		uc.countRejection("out_of_order")
		return nil, domain.WithDetails(
			fmt.Errorf("%w: %s requires %v", domain.ErrClosingOutOfOrder, input.Type, names),
			map[string]any{"type": string(input.Type), "missing": names},
		)
	}

	plan, err := uc.plan(ctx, input.Type, input.CompanyID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}

	var entry *domain.JournalEntry
	if !plan.IsEmpty() {
		if _, _, err := domain.ValidateLines(plan.Lines); err != nil {
			return nil, err
		}
		if err := uc.guard.Ensure(ctx, input.CompanyID, plan.Date); err != nil {
			uc.countRejection("period_locked")
			return nil, err
		}
		entry = uc.journal.newPostedEntry(input.CompanyID, domain.DocumentTypeInternal, plan.Date, plan.Description, plan.Lines, actor)
	}

	now := uc.now()
	op := &domain.ClosingOperation{
		ID:            uc.idGen.Generate(),
		CompanyID:     input.CompanyID,
		FiscalYearID:  fy.ID,
		Type:          input.Type,
		TotalAmount:   decimal.Zero,
		AccountsCount: 0,
		CreatedBy:     actor.ID,
		CreatedAt:     now,
	}
	if entry != nil {
		op.JournalEntryID = &entry.ID
		op.TotalAmount = plan.TotalAmount
		op.AccountsCount = plan.AccountsCount
	}

	err = runInTx(ctx, uc.txManager, uc.retrier, func(ctx context.Context, tx Transaction) error {
		if entry != nil {
			if err := uc.journal.insertPosted(ctx, tx, entry); err != nil {
				return err
			}
		}
		if err := uc.closingRepo.Create(ctx, tx, op); err != nil {
			return err
		}
		return uc.outboxRepo.Create(ctx, tx, closingEvent(op, entry, now))
	})
	if err != nil {
		if errors.Is(err, domain.ErrClosingAlreadyExecuted) {
			uc.countRejection("already_executed")
			return nil, uc.existingConflict(ctx, input.CompanyID, fy.ID, input.Type, err)
		}
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ClosingOperations.WithLabelValues(string(op.Type)).Inc()
	}
	ev := log.Info().
		Str("operation_id", op.ID).
		Str("total_amount", op.TotalAmount.String()).
		Int("accounts", op.AccountsCount).
		Str("actor", actor.ID)
	if entry != nil {
		ev = ev.Str("entry_number", entry.Number)
	}
	ev.Msg("closing operation executed")

	return op, nil
}

// ListOperations lists the executed steps of a fiscal year.
func (uc *ClosingUseCase) ListOperations(ctx context.Context, companyID, fiscalYearID string) ([]*domain.ClosingOperation, error) {
	if companyID == "" {
		return nil, domain.ErrMissingCompany
	}
	if _, err := uc.fyRepo.GetByID(ctx, companyID, fiscalYearID); err != nil {
		return nil, err
	}
	ops, err := uc.closingRepo.ListByFiscalYear(ctx, companyID, fiscalYearID)
	if err != nil {
		return nil, err
	}
	if ops == nil {
		ops = []*domain.ClosingOperation{}
	}
	return ops, nil
}

func (uc *ClosingUseCase) checkGate(ctx context.Context, companyID, fiscalYearID string) error {
	stored, err := uc.checklistRepo.ListByFiscalYear(ctx, companyID, fiscalYearID)
	if err != nil {
		return err
	}
	progress := domain.NewChecklist(companyID, fiscalYearID, stored).Progress
	if progress.Percentage >= uc.policy.GatePercentage || progress.IsComplete {
		return nil
	}
	return domain.WithDetails(
		fmt.Errorf("%w: %.2f%% done, %.2f%% required", domain.ErrClosingGateClosed, progress.Percentage, uc.policy.GatePercentage),
		map[string]any{
			"progress":            progress,
			"required_percentage": uc.policy.GatePercentage,
		},
	)
}

func (uc *ClosingUseCase) plan(ctx context.Context, t domain.ClosingOperationType, companyID string, start, end time.Time) (*domain.ClosingPlan, error) {
	switch t {
	case domain.ClosingRevenue:
		return uc.calculator.RevenueClose(ctx, companyID, start, end)
	case domain.ClosingExpense:
		return uc.calculator.ExpenseClose(ctx, companyID, start, end)
	case domain.ClosingProfitLoss:
		return uc.calculator.ProfitLossClose(ctx, companyID, start, end)
	case domain.ClosingBalance:
		return uc.calculator.BalanceClose(ctx, companyID, start, end)
	}
	return nil, domain.ErrInvalidClosingType
}

// existingConflict reloads the winning record after a lost insert race.
func (uc *ClosingUseCase) existingConflict(ctx context.Context, companyID, fiscalYearID string, t domain.ClosingOperationType, cause error) error {
	ops, err := uc.closingRepo.ListByFiscalYear(ctx, companyID, fiscalYearID)
	if err != nil {
		return cause
	}
	for _, op := range ops {
		if op.Type == t {
			return alreadyExecutedError(op)
		}
	}
	return cause
}

func (uc *ClosingUseCase) countRejection(reason string) {
	if uc.metrics != nil {
		uc.metrics.ClosingRejections.WithLabelValues(reason).Inc()
	}
}

func alreadyExecutedError(op *domain.ClosingOperation) error {
	return domain.WithDetails(domain.ErrClosingAlreadyExecuted, map[string]any{"existing": closingDetails(op)})
}

func closingDetails(op *domain.ClosingOperation) map[string]any {
	details := map[string]any{
		"id":             op.ID,
		"type":           string(op.Type),
		"total_amount":   op.TotalAmount.String(),
		"accounts_count": op.AccountsCount,
		"created_by":     op.CreatedBy,
		"created_at":     op.CreatedAt.Format(time.RFC3339),
	}
	if op.JournalEntryID != nil {
		details["journal_entry_id"] = *op.JournalEntryID
	}
	return details
}

func closingEvent(op *domain.ClosingOperation, entry *domain.JournalEntry, now time.Time) *domain.OutboxEvent {
	payload := closingDetails(op)
	payload["fiscal_year_id"] = op.FiscalYearID
	if entry != nil {
		payload["entry_number"] = entry.Number
	}
	return newOutboxEvent(op.CompanyID, domain.AggregateTypeClosing, op.ID, domain.EventTypeClosingExecuted, payload, now)
}
