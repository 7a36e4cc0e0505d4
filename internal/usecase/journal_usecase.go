package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/infrastructure/metrics"
)

// JournalUseCase handles the journal entry lifecycle.
type JournalUseCase struct {
	txManager   TransactionManager
	journalRepo JournalRepository
	accountRepo AccountRepository
	outboxRepo  OutboxRepository
	numbers     NumberGenerator
	guard       PeriodGuard
	idGen       IDGenerator
	metrics     *metrics.Metrics
	retrier     Retrier
	logger      zerolog.Logger
	now         func() time.Time
}

// NewJournalUseCase creates a new JournalUseCase.
func NewJournalUseCase(
	txManager TransactionManager,
	journalRepo JournalRepository,
	accountRepo AccountRepository,
	outboxRepo OutboxRepository,
	numbers NumberGenerator,
	guard PeriodGuard,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *JournalUseCase {
	return &JournalUseCase{
		txManager:   txManager,
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		outboxRepo:  outboxRepo,
		numbers:     numbers,
		guard:       guard,
		idGen:       idGen,
		metrics:     metrics,
		logger:      zerolog.Nop(),
		now:         utcNow,
	}
}

// WithRetrier sets the retrier used for write transactions.
func (uc *JournalUseCase) WithRetrier(r Retrier) *JournalUseCase {
	uc.retrier = r
	return uc
}

// WithLogger sets the logger.
func (uc *JournalUseCase) WithLogger(logger zerolog.Logger) *JournalUseCase {
	uc.logger = logger
	return uc
}

// WithClock overrides the clock used for timestamps and reversal dates.
func (uc *JournalUseCase) WithClock(now func() time.Time) *JournalUseCase {
	uc.now = now
	return uc
}

// EntryLineInput represents one line of a create or update request.
type EntryLineInput struct {
	AccountID      string
	Side           domain.Side
	Amount         decimal.Decimal
	CurrencyAmount *decimal.Decimal
	ExchangeRate   *decimal.Decimal
	CurrencyCode   *string
	CostCenterID   *string
	ProjectID      *string
	Description    string
}

// CreateEntryInput represents input for creating a draft entry.
type CreateEntryInput struct {
	CompanyID        string
	DocumentType     domain.DocumentType
	Date             time.Time
	Description      string
	SourceDocumentID *string
	Lines            []EntryLineInput
}

// UpdateEntryInput represents input for replacing a draft entry.
type UpdateEntryInput struct {
	CompanyID   string
	ID          string
	Date        time.Time
	Description string
	Lines       []EntryLineInput
}

// CreateEntry validates and stores a new draft entry with its lines.
func (uc *JournalUseCase) CreateEntry(ctx context.Context, input CreateEntryInput, actor *domain.Actor) (*domain.JournalEntry, error) {
	start := time.Now()

	if err := requireWriter(actor); err != nil {
		return nil, err
	}
	if input.CompanyID == "" {
		return nil, domain.ErrMissingCompany
	}
	if !input.DocumentType.IsValid() {
		return nil, domain.WithDetails(domain.ErrInvalidDocumentType, map[string]any{"document_type": string(input.DocumentType)})
	}

	lines, debit, credit, err := uc.prepareLines(ctx, input.CompanyID, input.Date, input.Description, input.Lines)
	if err != nil {
		uc.countError("create")
		return nil, err
	}

	now := uc.now()
	entry := &domain.JournalEntry{
		ID:               uc.idGen.Generate(),
		CompanyID:        input.CompanyID,
		DocumentType:     input.DocumentType,
		Date:             domain.Date(input.Date),
		Description:      strings.TrimSpace(input.Description),
		Status:           domain.EntryStatusDraft,
		TotalDebit:       debit,
		TotalCredit:      credit,
		SourceDocumentID: input.SourceDocumentID,
		CreatedBy:        actor.ID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	uc.attachLines(entry, lines)

	// Period lock check
	if err := uc.guard.Ensure(ctx, entry.CompanyID, entry.Date); err != nil {
		uc.countError("create")
		return nil, err
	}

	err = runInTx(ctx, uc.txManager, uc.retrier, func(ctx context.Context, tx Transaction) error {
		return uc.insert(ctx, tx, entry)
	})
	if err != nil {
		uc.countError("create")
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.EntriesCreated.WithLabelValues(string(entry.DocumentType)).Inc()
		uc.metrics.EntryLines.Observe(float64(len(entry.Lines)))
		uc.metrics.EntryDuration.WithLabelValues("create").Observe(time.Since(start).Seconds())
	}
	uc.logger.Debug().
		Str("company_id", entry.CompanyID).
		Str("entry_id", entry.ID).
		Str("number", entry.Number).
		Int("lines", len(entry.Lines)).
		Msg("journal entry created")

	return entry, nil
}

// GetEntry returns the entry with its lines ordered by position.
func (uc *JournalUseCase) GetEntry(ctx context.Context, companyID, id string) (*domain.JournalEntry, error) {
	if companyID == "" {
		return nil, domain.ErrMissingCompany
	}
	return uc.journalRepo.GetByID(ctx, companyID, id)
}

// ListEntries lists entry headers. Lines are not loaded.
func (uc *JournalUseCase) ListEntries(ctx context.Context, filter domain.EntryFilter) ([]*domain.JournalEntry, error) {
	if filter.CompanyID == "" {
		return nil, domain.ErrMissingCompany
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, domain.WithDetails(wrapValidation("unknown entry status"), map[string]any{"status": string(filter.Status)})
	}
	if filter.DocumentType != "" && !filter.DocumentType.IsValid() {
		return nil, domain.WithDetails(domain.ErrInvalidDocumentType, map[string]any{"document_type": string(filter.DocumentType)})
	}
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateFrom.After(*filter.DateTo) {
		return nil, domain.ErrInvalidDateRange
	}

	filter.Limit, filter.Offset, _ = domain.ValidatePagination(filter.Limit, filter.Offset)

	entries, err := uc.journalRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*domain.JournalEntry{}
	}
	return entries, nil
}

// UpdateEntry replaces the header fields and all lines of a draft.
func (uc *JournalUseCase) UpdateEntry(ctx context.Context, input UpdateEntryInput, actor *domain.Actor) (*domain.JournalEntry, error) {
	start := time.Now()

	if err := requireWriter(actor); err != nil {
		return nil, err
	}
	if input.CompanyID == "" {
		return nil, domain.ErrMissingCompany
	}

	lines, debit, credit, err := uc.prepareLines(ctx, input.CompanyID, input.Date, input.Description, input.Lines)
	if err != nil {
		uc.countError("update")
		return nil, err
	}

	var updated *domain.JournalEntry
	err = runInTx(ctx, uc.txManager, uc.retrier, func(ctx context.Context, tx Transaction) error {
		current, err := uc.journalRepo.GetByIDForUpdate(ctx, tx, input.CompanyID, input.ID)
		if err != nil {
			return err
		}
		if !current.IsDraft() {
			return notDraftError(current)
		}

		// Both the old and the new date must be open.
		if err := uc.guard.Ensure(ctx, current.CompanyID, current.Date); err != nil {
			return err
		}
		newDate := domain.Date(input.Date)
		if !newDate.Equal(domain.Date(current.Date)) {
			if err := uc.guard.Ensure(ctx, current.CompanyID, newDate); err != nil {
				return err
			}
		}

		current.Date = newDate
		current.Description = strings.TrimSpace(input.Description)
		current.TotalDebit = debit
		current.TotalCredit = credit
		current.UpdatedAt = uc.now()
		uc.attachLines(current, lines)

		if err := uc.journalRepo.Update(ctx, tx, current); err != nil {
			return err
		}
		if err := uc.journalRepo.DeleteLines(ctx, tx, current.ID); err != nil {
			return err
		}
		if err := uc.journalRepo.CreateLines(ctx, tx, current.Lines); err != nil {
			return err
		}

		updated = current
		return nil
	})
	if err != nil {
		uc.countError("update")
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.EntryDuration.WithLabelValues("update").Observe(time.Since(start).Seconds())
	}

	return updated, nil
}

// DeleteEntry soft-deletes a draft.
func (uc *JournalUseCase) DeleteEntry(ctx context.Context, companyID, id string, actor *domain.Actor) error {
	if err := requireWriter(actor); err != nil {
		return err
	}
	if companyID == "" {
		return domain.ErrMissingCompany
	}

	err := runInTx(ctx, uc.txManager, uc.retrier, func(ctx context.Context, tx Transaction) error {
		current, err := uc.journalRepo.GetByIDForUpdate(ctx, tx, companyID, id)
		if err != nil {
			return err
		}
		if !current.IsDraft() {
			return notDraftError(current)
		}
		if err := uc.guard.Ensure(ctx, companyID, current.Date); err != nil {
			return err
		}
		return uc.journalRepo.SoftDelete(ctx, tx, companyID, id, uc.now())
	})
	if err != nil {
		uc.countError("delete")
		return err
	}

	if uc.metrics != nil {
		uc.metrics.EntriesDeleted.Inc()
	}
	uc.logger.Info().
		Str("company_id", companyID).
		Str("entry_id", id).
		Str("actor", actor.ID).
		Msg("journal entry deleted")

	return nil
}

// PostEntry makes a draft immutable. Two concurrent posts cannot both succeed.
func (uc *JournalUseCase) PostEntry(ctx context.Context, companyID, id string, actor *domain.Actor) (*domain.JournalEntry, error) {
	start := time.Now()

	if err := requireWriter(actor); err != nil {
		return nil, err
	}
	if companyID == "" {
		return nil, domain.ErrMissingCompany
	}

	var posted *domain.JournalEntry
	err := runInTx(ctx, uc.txManager, uc.retrier, func(ctx context.Context, tx Transaction) error {
		current, err := uc.journalRepo.GetByIDForUpdate(ctx, tx, companyID, id)
		if err != nil {
			return err
		}
		if !current.IsDraft() {
			return notDraftError(current)
		}
		if _, _, err := domain.ValidateLines(current.Lines); err != nil {
			return err
		}
		if err := uc.guard.Ensure(ctx, companyID, current.Date); err != nil {
			return err
		}

		now := uc.now()
		if err := uc.journalRepo.MarkPosted(ctx, tx, companyID, id, actor.ID, now); err != nil {
			return err
		}

		current.Status = domain.EntryStatusPosted
		current.PostedAt = &now
		current.PostedBy = &actor.ID
		current.UpdatedAt = now

		if err := uc.outboxRepo.Create(ctx, tx, entryEvent(current, domain.EventTypeEntryPosted, now)); err != nil {
			return err
		}

		posted = current
		return nil
	})
	if err != nil {
		uc.countError("post")
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.EntriesPosted.Inc()
		uc.metrics.EntryDuration.WithLabelValues("post").Observe(time.Since(start).Seconds())
	}
	uc.logger.Info().
		Str("company_id", companyID).
		Str("entry_id", posted.ID).
		Str("number", posted.Number).
		Str("actor", actor.ID).
		Msg("journal entry posted")

	return posted, nil
}

// ReverseEntry creates a posted storno entry dated today that mirrors a
// posted entry with sides flipped. The original is left untouched.
func (uc *JournalUseCase) ReverseEntry(ctx context.Context, companyID, id string, actor *domain.Actor) (*domain.JournalEntry, error) {
	start := time.Now()

	if err := requireWriter(actor); err != nil {
		return nil, err
	}
	if companyID == "" {
		return nil, domain.ErrMissingCompany
	}

	original, err := uc.journalRepo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if original.Status != domain.EntryStatusPosted {
		uc.countError("reverse")
		return nil, domain.WithDetails(domain.ErrEntryNotPosted, map[string]any{
			"entry_id": original.ID,
			"status":   string(original.Status),
			"required": string(domain.EntryStatusPosted),
		})
	}
	if len(original.Lines) == 0 {
		uc.countError("reverse")
		return nil, domain.WithDetails(domain.ErrEntryHasNoLines, map[string]any{"entry_id": original.ID})
	}

	today := domain.Date(uc.now())
	if err := uc.guard.Ensure(ctx, companyID, today); err != nil {
		uc.countError("reverse")
		return nil, err
	}

	reversal := uc.newPostedEntry(
		companyID,
		original.DocumentType,
		today,
		domain.ReversalDescription(original),
		domain.ReversalLines(original.Lines),
		actor,
	)
	reversal.TotalDebit = original.TotalCredit
	reversal.TotalCredit = original.TotalDebit
	reversal.ReversedEntryID = &original.ID
	reversal.SourceDocumentID = original.SourceDocumentID

	err = runInTx(ctx, uc.txManager, uc.retrier, func(ctx context.Context, tx Transaction) error {
		if err := uc.insertPosted(ctx, tx, reversal); err != nil {
			return err
		}
		return uc.outboxRepo.Create(ctx, tx, newOutboxEvent(
			companyID,
			domain.AggregateTypeJournalEntry,
			original.ID,
			domain.EventTypeEntryReversed,
			map[string]any{
				"entry_id":          original.ID,
				"number":            original.Number,
				"reversal_entry_id": reversal.ID,
				"reversal_number":   reversal.Number,
			},
			uc.now(),
		))
	})
	if err != nil {
		uc.countError("reverse")
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.EntriesReversed.Inc()
		uc.metrics.EntryDuration.WithLabelValues("reverse").Observe(time.Since(start).Seconds())
	}
	uc.logger.Info().
		Str("company_id", companyID).
		Str("entry_id", original.ID).
		Str("reversal_id", reversal.ID).
		Str("reversal_number", reversal.Number).
		Str("actor", actor.ID).
		Msg("journal entry reversed")

	return reversal, nil
}

// newPostedEntry builds an entry that skips the draft state. Totals come from lines.
func (uc *JournalUseCase) newPostedEntry(
	companyID string,
	docType domain.DocumentType,
	date time.Time,
	description string,
	lines []*domain.JournalEntryLine,
	actor *domain.Actor,
) *domain.JournalEntry {
	now := uc.now()
	debit, credit := domain.ComputeTotals(lines)

	entry := &domain.JournalEntry{
		ID:           uc.idGen.Generate(),
		CompanyID:    companyID,
		DocumentType: docType,
		Date:         domain.Date(date),
		Description:  description,
		Status:       domain.EntryStatusPosted,
		TotalDebit:   debit,
		TotalCredit:  credit,
		CreatedBy:    actor.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
		PostedAt:     &now,
		PostedBy:     &actor.ID,
	}
	uc.attachLines(entry, lines)
	return entry
}

// insertPosted stores an already posted entry and its posted event in tx.
func (uc *JournalUseCase) insertPosted(ctx context.Context, tx Transaction, entry *domain.JournalEntry) error {
	if err := uc.insert(ctx, tx, entry); err != nil {
		return err
	}
	return uc.outboxRepo.Create(ctx, tx, entryEvent(entry, domain.EventTypeEntryPosted, uc.now()))
}

func (uc *JournalUseCase) insert(ctx context.Context, tx Transaction, entry *domain.JournalEntry) error {
	number, err := uc.numbers.Next(ctx, tx, entry.CompanyID, entry.DocumentType.SequenceType())
	if err != nil {
		return err
	}
	entry.Number = number

	if err := uc.journalRepo.Create(ctx, tx, entry); err != nil {
		return err
	}
	return uc.journalRepo.CreateLines(ctx, tx, entry.Lines)
}

// prepareLines validates header fields and lines and resolves line accounts.
func (uc *JournalUseCase) prepareLines(
	ctx context.Context,
	companyID string,
	date time.Time,
	description string,
	inputs []EntryLineInput,
) ([]*domain.JournalEntryLine, decimal.Decimal, decimal.Decimal, error) {
	if date.IsZero() {
		return nil, decimal.Zero, decimal.Zero, domain.ErrMissingDate
	}
	if err := domain.ValidateDescription(description); err != nil {
		return nil, decimal.Zero, decimal.Zero, err
	}
	if len(inputs) > domain.MaxLinesPerEntry {
		return nil, decimal.Zero, decimal.Zero, domain.WithDetails(
			wrapValidation(fmt.Sprintf("at most %d lines per entry", domain.MaxLinesPerEntry)),
			map[string]any{"lines": len(inputs)},
		)
	}

	lines := make([]*domain.JournalEntryLine, 0, len(inputs))
	for _, in := range inputs {
		lines = append(lines, &domain.JournalEntryLine{
			AccountID:      strings.TrimSpace(in.AccountID),
			Side:           in.Side,
			Amount:         in.Amount,
			CurrencyAmount: in.CurrencyAmount,
			ExchangeRate:   in.ExchangeRate,
			CurrencyCode:   in.CurrencyCode,
			CostCenterID:   in.CostCenterID,
			ProjectID:      in.ProjectID,
			Description:    strings.TrimSpace(in.Description),
		})
	}

	debit, credit, err := domain.ValidateLines(lines)
	if err != nil {
		return nil, debit, credit, err
	}

	for i, l := range lines {
		if err := domain.ValidateLineDetails(l); err != nil {
			return nil, debit, credit, domain.WithDetails(err, map[string]any{"line": i + 1})
		}
	}

	if err := uc.resolveAccounts(ctx, companyID, lines); err != nil {
		return nil, debit, credit, err
	}

	return lines, debit, credit, nil
}

// resolveAccounts checks that every line account exists, belongs to the
// company and is active, and fills the display fields.
func (uc *JournalUseCase) resolveAccounts(ctx context.Context, companyID string, lines []*domain.JournalEntryLine) error {
	seen := make(map[string]bool)
	var ids []string
	for _, l := range lines {
		if !seen[l.AccountID] {
			seen[l.AccountID] = true
			ids = append(ids, l.AccountID)
		}
	}

	accounts, err := uc.accountRepo.GetByIDs(ctx, companyID, ids)
	if err != nil {
		return err
	}

	byID := make(map[string]*domain.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}

	for i, l := range lines {
		account, ok := byID[l.AccountID]
		if !ok {
			return domain.WithDetails(domain.ErrAccountNotFound, map[string]any{"line": i + 1, "account_id": l.AccountID})
		}
		if !account.Active {
			return domain.WithDetails(domain.ErrAccountInactive, map[string]any{"line": i + 1, "account_id": l.AccountID, "code": account.Code()})
		}
		l.AccountSynthetic = account.SyntheticCode
		l.AccountAnalytic = account.AnalyticCode
		l.AccountName = account.Name
	}

	return nil
}

func (uc *JournalUseCase) attachLines(entry *domain.JournalEntry, lines []*domain.JournalEntryLine) {
	for i, l := range lines {
		l.ID = uc.idGen.Generate()
		l.JournalEntryID = entry.ID
		l.Position = i + 1
	}
	entry.Lines = lines
}

func (uc *JournalUseCase) countError(operation string) {
	if uc.metrics != nil {
		uc.metrics.EntryErrors.WithLabelValues(operation).Inc()
	}
}

func notDraftError(entry *domain.JournalEntry) error {
	return domain.WithDetails(domain.ErrEntryNotDraft, map[string]any{
		"entry_id": entry.ID,
		"status":   string(entry.Status),
		"required": string(domain.EntryStatusDraft),
	})
}

func entryEvent(entry *domain.JournalEntry, eventType string, now time.Time) *domain.OutboxEvent {
	return newOutboxEvent(entry.CompanyID, domain.AggregateTypeJournalEntry, entry.ID, eventType, map[string]any{
		"entry_id":      entry.ID,
		"number":        entry.Number,
		"document_type": string(entry.DocumentType),
		"date":          domain.FormatDate(entry.Date),
		"total_debit":   entry.TotalDebit.String(),
		"total_credit":  entry.TotalCredit.String(),
	}, now)
}
