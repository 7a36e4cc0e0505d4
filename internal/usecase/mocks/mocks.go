package mocks

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/usecase"
)

// MockAccountRepository is an in-memory AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc     func(ctx context.Context, account *domain.Account) error
	GetByIDFunc    func(ctx context.Context, companyID, id string) (*domain.Account, error)
	GetByCodeFunc  func(ctx context.Context, companyID, synthetic, analytic string) (*domain.Account, error)
	GetByIDsFunc   func(ctx context.Context, companyID string, ids []string) ([]*domain.Account, error)
	ListFunc       func(ctx context.Context, filter domain.AccountFilter) ([]*domain.Account, error)
	DeactivateFunc func(ctx context.Context, companyID, id string, at time.Time) error
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.CompanyID == account.CompanyID && a.SyntheticCode == account.SyntheticCode && a.AnalyticCode == account.AnalyticCode {
			return domain.ErrAccountExists
		}
	}
	cp := *account
	m.accounts[account.ID] = &cp
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, companyID, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, companyID, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.accounts[id]; ok && a.CompanyID == companyID {
		cp := *a
		return &cp, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByCode(ctx context.Context, companyID, synthetic, analytic string) (*domain.Account, error) {
	if m.GetByCodeFunc != nil {
		return m.GetByCodeFunc(ctx, companyID, synthetic, analytic)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.accounts {
		if a.CompanyID == companyID && a.SyntheticCode == synthetic && a.AnalyticCode == analytic {
			cp := *a
			return &cp, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDs(ctx context.Context, companyID string, ids []string) ([]*domain.Account, error) {
	if m.GetByIDsFunc != nil {
		return m.GetByIDsFunc(ctx, companyID, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, id := range ids {
		if a, ok := m.accounts[id]; ok && a.CompanyID == companyID {
			cp := *a
			accounts = append(accounts, &cp)
		}
	}
	return accounts, nil
}

func (m *MockAccountRepository) List(ctx context.Context, filter domain.AccountFilter) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, a := range m.accounts {
		if a.CompanyID != filter.CompanyID {
			continue
		}
		if filter.ActiveOnly && !a.Active {
			continue
		}
		if len(filter.Classes) > 0 && !containsInt(filter.Classes, a.Class()) {
			continue
		}
		cp := *a
		accounts = append(accounts, &cp)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code() < accounts[j].Code() })
	return paginate(accounts, filter.Limit, filter.Offset), nil
}

func (m *MockAccountRepository) Deactivate(ctx context.Context, companyID, id string, at time.Time) error {
	if m.DeactivateFunc != nil {
		return m.DeactivateFunc(ctx, companyID, id, at)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok || a.CompanyID != companyID {
		return domain.ErrAccountNotFound
	}
	a.Active = false
	a.UpdatedAt = at
	return nil
}

// MockJournalRepository is an in-memory JournalRepository. It returns copies
// so callers cannot mutate stored state.
type MockJournalRepository struct {
	mu      sync.RWMutex
	entries map[string]*domain.JournalEntry
	lines   map[string][]*domain.JournalEntryLine
	deleted map[string]bool

	CreateFunc      func(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error
	CreateLinesFunc func(ctx context.Context, tx usecase.Transaction, lines []*domain.JournalEntryLine) error
	GetByIDFunc     func(ctx context.Context, companyID, id string) (*domain.JournalEntry, error)
	MarkPostedFunc  func(ctx context.Context, tx usecase.Transaction, companyID, id, postedBy string, postedAt time.Time) error
	ListFunc        func(ctx context.Context, filter domain.EntryFilter) ([]*domain.JournalEntry, error)
	CountDraftsFunc func(ctx context.Context, companyID string, from, to time.Time) (int, error)
}

func NewMockJournalRepository() *MockJournalRepository {
	return &MockJournalRepository{
		entries: make(map[string]*domain.JournalEntry),
		lines:   make(map[string][]*domain.JournalEntryLine),
		deleted: make(map[string]bool),
	}
}

func (m *MockJournalRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry.ReversedEntryID != nil {
		for _, e := range m.entries {
			if e.ReversedEntryID != nil && *e.ReversedEntryID == *entry.ReversedEntryID {
				return domain.ErrEntryAlreadyReversed
			}
		}
	}
	cp := *entry
	cp.Lines = nil
	m.entries[entry.ID] = &cp
	return nil
}

func (m *MockJournalRepository) CreateLines(ctx context.Context, tx usecase.Transaction, lines []*domain.JournalEntryLine) error {
	if m.CreateLinesFunc != nil {
		return m.CreateLinesFunc(ctx, tx, lines)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range lines {
		cp := *l
		m.lines[l.JournalEntryID] = append(m.lines[l.JournalEntryID], &cp)
	}
	return nil
}

func (m *MockJournalRepository) DeleteLines(ctx context.Context, tx usecase.Transaction, entryID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.lines, entryID)
	return nil
}

func (m *MockJournalRepository) GetByID(ctx context.Context, companyID, id string) (*domain.JournalEntry, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, companyID, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.get(companyID, id)
}

func (m *MockJournalRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, companyID, id string) (*domain.JournalEntry, error) {
	return m.GetByID(ctx, companyID, id)
}

func (m *MockJournalRepository) Update(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.entries[entry.ID]
	if !ok || m.deleted[entry.ID] {
		return domain.ErrEntryNotFound
	}
	if !current.IsDraft() {
		return domain.ErrEntryNotDraft
	}
	cp := *entry
	cp.Lines = nil
	m.entries[entry.ID] = &cp
	return nil
}

func (m *MockJournalRepository) MarkPosted(ctx context.Context, tx usecase.Transaction, companyID, id, postedBy string, postedAt time.Time) error {
	if m.MarkPostedFunc != nil {
		return m.MarkPostedFunc(ctx, tx, companyID, id, postedBy, postedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok || e.CompanyID != companyID || m.deleted[id] {
		return domain.ErrEntryNotFound
	}
	if !e.IsDraft() {
		return domain.ErrEntryNotDraft
	}
	e.Status = domain.EntryStatusPosted
	e.PostedAt = &postedAt
	e.PostedBy = &postedBy
	e.UpdatedAt = postedAt
	return nil
}

func (m *MockJournalRepository) SoftDelete(ctx context.Context, tx usecase.Transaction, companyID, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok || e.CompanyID != companyID || m.deleted[id] {
		return domain.ErrEntryNotFound
	}
	if !e.IsDraft() {
		return domain.ErrEntryNotDraft
	}
	m.deleted[id] = true
	return nil
}

func (m *MockJournalRepository) List(ctx context.Context, filter domain.EntryFilter) ([]*domain.JournalEntry, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.JournalEntry
	for id, e := range m.entries {
		if m.deleted[id] || e.CompanyID != filter.CompanyID {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		if filter.DocumentType != "" && e.DocumentType != filter.DocumentType {
			continue
		}
		if filter.DateFrom != nil && e.Date.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && e.Date.After(*filter.DateTo) {
			continue
		}
		cp := *e
		entries = append(entries, &cp)
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.After(entries[j].Date)
		}
		return entries[i].Number > entries[j].Number
	})
	return paginate(entries, filter.Limit, filter.Offset), nil
}

func (m *MockJournalRepository) CountDrafts(ctx context.Context, companyID string, from, to time.Time) (int, error) {
	if m.CountDraftsFunc != nil {
		return m.CountDraftsFunc(ctx, companyID, from, to)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for id, e := range m.entries {
		if !m.deleted[id] && e.CompanyID == companyID && e.IsDraft() && domain.DateInRange(e.Date, from, to) {
			count++
		}
	}
	return count, nil
}

// Count returns the number of stored, non-deleted entries.
func (m *MockJournalRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries) - len(m.deleted)
}

// postedLines returns copies of every posted line of the company with its entry date.
func (m *MockJournalRepository) postedLines(companyID string) ([]*domain.JournalEntryLine, []time.Time) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var (
		lines []*domain.JournalEntryLine
		dates []time.Time
	)
	for id, e := range m.entries {
		if m.deleted[id] || e.CompanyID != companyID || e.Status != domain.EntryStatusPosted {
			continue
		}
		for _, l := range m.lines[id] {
			cp := *l
			lines = append(lines, &cp)
			dates = append(dates, e.Date)
		}
	}
	return lines, dates
}

func (m *MockJournalRepository) postedDate(companyID, id string) (time.Time, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[id]
	if !ok || m.deleted[id] || e.CompanyID != companyID || e.Status != domain.EntryStatusPosted {
		return time.Time{}, false
	}
	return e.Date, true
}

func (m *MockJournalRepository) get(companyID, id string) (*domain.JournalEntry, error) {
	e, ok := m.entries[id]
	if !ok || e.CompanyID != companyID || m.deleted[id] {
		return nil, domain.ErrEntryNotFound
	}
	cp := *e
	cp.Lines = make([]*domain.JournalEntryLine, 0, len(m.lines[id]))
	for _, l := range m.lines[id] {
		lc := *l
		cp.Lines = append(cp.Lines, &lc)
	}
	sort.Slice(cp.Lines, func(i, j int) bool { return cp.Lines[i].Position < cp.Lines[j].Position })
	return &cp, nil
}

// MockLedgerRepository aggregates the lines of a MockJournalRepository.
type MockLedgerRepository struct {
	journal  *MockJournalRepository
	accounts *MockAccountRepository
	closing  *MockClosingOperationRepository

	AccountMovementsFunc func(ctx context.Context, filter domain.LedgerFilter) ([]*domain.AccountMovement, error)
	CarryForwardsFunc    func(ctx context.Context, companyID string) ([]*domain.CarryForward, error)
}

func NewMockLedgerRepository(journal *MockJournalRepository, accounts *MockAccountRepository) *MockLedgerRepository {
	return &MockLedgerRepository{journal: journal, accounts: accounts}
}

// WithClosingOperations derives carry-forwards from the balance close
// operations stored in closing.
func (m *MockLedgerRepository) WithClosingOperations(closing *MockClosingOperationRepository) *MockLedgerRepository {
	m.closing = closing
	return m
}

func (m *MockLedgerRepository) CarryForwards(ctx context.Context, companyID string) ([]*domain.CarryForward, error) {
	if m.CarryForwardsFunc != nil {
		return m.CarryForwardsFunc(ctx, companyID)
	}
	if m.closing == nil {
		return nil, nil
	}

	m.closing.mu.RLock()
	defer m.closing.mu.RUnlock()
	var out []*domain.CarryForward
	for _, op := range m.closing.ops {
		if op.CompanyID != companyID || op.Type != domain.ClosingBalance || op.JournalEntryID == nil {
			continue
		}
		if date, ok := m.journal.postedDate(companyID, *op.JournalEntryID); ok {
			out = append(out, &domain.CarryForward{EntryID: *op.JournalEntryID, Date: date})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *MockLedgerRepository) AccountMovements(ctx context.Context, filter domain.LedgerFilter) ([]*domain.AccountMovement, error) {
	if m.AccountMovementsFunc != nil {
		return m.AccountMovementsFunc(ctx, filter)
	}

	accounts, err := m.accounts.List(ctx, domain.AccountFilter{CompanyID: filter.CompanyID, Classes: filter.Classes})
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.AccountMovement, len(accounts))
	movements := make([]*domain.AccountMovement, 0, len(accounts))
	for _, a := range accounts {
		if filter.AccountID != "" && a.ID != filter.AccountID {
			continue
		}
		mv := &domain.AccountMovement{
			AccountID:     a.ID,
			SyntheticCode: a.SyntheticCode,
			AnalyticCode:  a.AnalyticCode,
			AccountName:   a.Name,
			AccountType:   a.Type,
			OpeningDebit:  decimal.Zero,
			OpeningCredit: decimal.Zero,
			PeriodDebit:   decimal.Zero,
			PeriodCredit:  decimal.Zero,
		}
		byID[a.ID] = mv
		movements = append(movements, mv)
	}

	excluded := make(map[string]bool, len(filter.ExcludeEntryIDs))
	for _, id := range filter.ExcludeEntryIDs {
		excluded[id] = true
	}

	lines, dates := m.journal.postedLines(filter.CompanyID)
	for i, l := range lines {
		mv, ok := byID[l.AccountID]
		if !ok || excluded[l.JournalEntryID] {
			continue
		}
		if filter.CostCenterID != "" && (l.CostCenterID == nil || *l.CostCenterID != filter.CostCenterID) {
			continue
		}
		if filter.ProjectID != "" && (l.ProjectID == nil || *l.ProjectID != filter.ProjectID) {
			continue
		}

		day := dates[i]
		switch {
		case day.Before(filter.DateFrom):
			if filter.OpeningFrom != nil && day.Before(*filter.OpeningFrom) {
				continue
			}
			if l.Side == domain.SideDebit {
				mv.OpeningDebit = mv.OpeningDebit.Add(l.Amount)
			} else {
				mv.OpeningCredit = mv.OpeningCredit.Add(l.Amount)
			}
		case !day.After(filter.DateTo):
			if l.Side == domain.SideDebit {
				mv.PeriodDebit = mv.PeriodDebit.Add(l.Amount)
			} else {
				mv.PeriodCredit = mv.PeriodCredit.Add(l.Amount)
			}
		}
	}

	return movements, nil
}

// MockPeriodLockRepository is an in-memory PeriodLockRepository.
type MockPeriodLockRepository struct {
	mu    sync.RWMutex
	locks map[string]*domain.PeriodLock

	FindLockingFunc func(ctx context.Context, companyID string, day time.Time) (*domain.PeriodLock, error)
}

func NewMockPeriodLockRepository() *MockPeriodLockRepository {
	return &MockPeriodLockRepository{locks: make(map[string]*domain.PeriodLock)}
}

func (m *MockPeriodLockRepository) Create(ctx context.Context, tx usecase.Transaction, lock *domain.PeriodLock) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *lock
	m.locks[lock.ID] = &cp
	return nil
}

func (m *MockPeriodLockRepository) Update(ctx context.Context, tx usecase.Transaction, lock *domain.PeriodLock) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.locks[lock.ID]; !ok {
		return domain.ErrPeriodLockNotFound
	}
	cp := *lock
	m.locks[lock.ID] = &cp
	return nil
}

func (m *MockPeriodLockRepository) GetByID(ctx context.Context, companyID, id string) (*domain.PeriodLock, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if l, ok := m.locks[id]; ok && l.CompanyID == companyID {
		cp := *l
		return &cp, nil
	}
	return nil, domain.ErrPeriodLockNotFound
}

func (m *MockPeriodLockRepository) List(ctx context.Context, companyID string) ([]*domain.PeriodLock, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var locks []*domain.PeriodLock
	for _, l := range m.locks {
		if l.CompanyID == companyID {
			cp := *l
			locks = append(locks, &cp)
		}
	}
	sort.Slice(locks, func(i, j int) bool { return locks[i].PeriodStart.After(locks[j].PeriodStart) })
	return locks, nil
}

func (m *MockPeriodLockRepository) FindLocking(ctx context.Context, companyID string, day time.Time) (*domain.PeriodLock, error) {
	if m.FindLockingFunc != nil {
		return m.FindLockingFunc(ctx, companyID, day)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, l := range m.locks {
		if l.CompanyID == companyID && l.Covers(day) {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

// MockFiscalYearRepository is an in-memory FiscalYearRepository.
type MockFiscalYearRepository struct {
	mu    sync.RWMutex
	years map[string]*domain.FiscalYear

	CreateFunc func(ctx context.Context, fy *domain.FiscalYear) error
}

func NewMockFiscalYearRepository() *MockFiscalYearRepository {
	return &MockFiscalYearRepository{years: make(map[string]*domain.FiscalYear)}
}

func (m *MockFiscalYearRepository) Create(ctx context.Context, fy *domain.FiscalYear) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, fy)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *fy
	m.years[fy.ID] = &cp
	return nil
}

func (m *MockFiscalYearRepository) GetByID(ctx context.Context, companyID, id string) (*domain.FiscalYear, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if fy, ok := m.years[id]; ok && fy.CompanyID == companyID {
		cp := *fy
		return &cp, nil
	}
	return nil, domain.ErrFiscalYearNotFound
}

func (m *MockFiscalYearRepository) List(ctx context.Context, companyID string) ([]*domain.FiscalYear, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var years []*domain.FiscalYear
	for _, fy := range m.years {
		if fy.CompanyID == companyID {
			cp := *fy
			years = append(years, &cp)
		}
	}
	sort.Slice(years, func(i, j int) bool { return years[i].StartDate.Before(years[j].StartDate) })
	return years, nil
}

func (m *MockFiscalYearRepository) Close(ctx context.Context, tx usecase.Transaction, companyID, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	fy, ok := m.years[id]
	if !ok || fy.CompanyID != companyID {
		return domain.ErrFiscalYearNotFound
	}
	if !fy.IsActive() {
		return domain.ErrFiscalYearClosed
	}
	fy.Status = domain.FiscalYearClosed
	fy.ClosedAt = &at
	return nil
}

// MockChecklistRepository is an in-memory ChecklistRepository keyed by item.
type MockChecklistRepository struct {
	mu    sync.RWMutex
	items map[string]*domain.ChecklistItem

	UpsertFunc func(ctx context.Context, item *domain.ChecklistItem) error
}

func NewMockChecklistRepository() *MockChecklistRepository {
	return &MockChecklistRepository{items: make(map[string]*domain.ChecklistItem)}
}

func (m *MockChecklistRepository) ListByFiscalYear(ctx context.Context, companyID, fiscalYearID string) ([]*domain.ChecklistItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var items []*domain.ChecklistItem
	for _, item := range m.items {
		if item.CompanyID == companyID && item.FiscalYearID == fiscalYearID {
			cp := *item
			items = append(items, &cp)
		}
	}
	return items, nil
}

func (m *MockChecklistRepository) Upsert(ctx context.Context, item *domain.ChecklistItem) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, item)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := item.CompanyID + "/" + item.FiscalYearID + "/" + string(item.ItemID)
	cp := *item
	if existing, ok := m.items[key]; ok {
		cp.ID = existing.ID
	}
	m.items[key] = &cp
	return nil
}

// MockClosingOperationRepository is an in-memory ClosingOperationRepository
// enforcing one operation per type and fiscal year.
type MockClosingOperationRepository struct {
	mu  sync.RWMutex
	ops []*domain.ClosingOperation

	CreateFunc func(ctx context.Context, tx usecase.Transaction, op *domain.ClosingOperation) error
}

func NewMockClosingOperationRepository() *MockClosingOperationRepository {
	return &MockClosingOperationRepository{}
}

func (m *MockClosingOperationRepository) Create(ctx context.Context, tx usecase.Transaction, op *domain.ClosingOperation) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, op)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.ops {
		if existing.CompanyID == op.CompanyID && existing.FiscalYearID == op.FiscalYearID && existing.Type == op.Type {
			return domain.ErrClosingAlreadyExecuted
		}
	}
	cp := *op
	m.ops = append(m.ops, &cp)
	return nil
}

func (m *MockClosingOperationRepository) ListByFiscalYear(ctx context.Context, companyID, fiscalYearID string) ([]*domain.ClosingOperation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ops []*domain.ClosingOperation
	for _, op := range m.ops {
		if op.CompanyID == companyID && op.FiscalYearID == fiscalYearID {
			cp := *op
			ops = append(ops, &cp)
		}
	}
	return ops, nil
}

// MockOutboxRepository collects outbox events in memory.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var events []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published {
			events = append(events, e)
		}
		if limit > 0 && len(events) == limit {
			break
		}
	}
	return events, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.events[:0]
	for _, e := range m.events {
		if e.Published && e.PublishedAt != nil && e.PublishedAt.Before(before) {
			continue
		}
		kept = append(kept, e)
	}
	m.events = kept
	return nil
}

// EventTypes returns the types of all collected events in insertion order.
func (m *MockOutboxRepository) EventTypes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	types := make([]string, 0, len(m.events))
	for _, e := range m.events {
		types = append(types, e.EventType)
	}
	return types
}

// MockNumberGenerator issues gap-free numbers per company and sequence,
// formatted like the postgres generator ("FA000001").
type MockNumberGenerator struct {
	mu       sync.Mutex
	counters map[string]int

	NextFunc func(ctx context.Context, tx usecase.Transaction, companyID, sequenceType string) (string, error)
}

func NewMockNumberGenerator() *MockNumberGenerator {
	return &MockNumberGenerator{counters: make(map[string]int)}
}

func (m *MockNumberGenerator) Next(ctx context.Context, tx usecase.Transaction, companyID, sequenceType string) (string, error) {
	if m.NextFunc != nil {
		return m.NextFunc(ctx, tx, companyID, sequenceType)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := companyID + "/" + sequenceType
	m.counters[key]++
	prefix := strings.ToUpper(strings.TrimPrefix(sequenceType, "journal_"))
	return fmt.Sprintf("%s%06d", prefix, m.counters[key]), nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	mu        sync.Mutex
	committed int

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{
		CommitFunc: func(ctx context.Context) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			m.committed++
			return nil
		},
	}, nil
}

// Committed returns the number of committed transactions.
func (m *MockTransactionManager) Committed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.committed
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return "mock-id-" + strconv.Itoa(m.counter)
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
