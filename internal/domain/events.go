package domain

import "time"

// Event types
const (
	EventTypeEntryPosted      = "journal_entry.posted"
	EventTypeEntryReversed    = "journal_entry.reversed"
	EventTypePeriodLocked     = "period.locked"
	EventTypePeriodUnlocked   = "period.unlocked"
	EventTypeClosingExecuted  = "closing.executed"
	EventTypeFiscalYearClosed = "fiscal_year.closed"
)

// Aggregate types
const (
	AggregateTypeJournalEntry = "journal_entry"
	AggregateTypePeriodLock   = "period_lock"
	AggregateTypeClosing      = "closing_operation"
	AggregateTypeFiscalYear   = "fiscal_year"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	CompanyID     string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}
