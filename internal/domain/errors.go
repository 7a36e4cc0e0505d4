package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy roots. Every specific error below wraps exactly one of them,
// so callers classify with errors.Is(err, ErrValidation) and friends.
var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrStateConflict = errors.New("state conflict")
	ErrStorage       = errors.New("storage failure")
)

var (
	// Account errors
	ErrAccountNotFound    = fmt.Errorf("%w: account not found", ErrNotFound)
	ErrAccountInactive    = fmt.Errorf("%w: account is inactive", ErrValidation)
	ErrInvalidAccountCode = fmt.Errorf("%w: invalid synthetic account code", ErrValidation)
	ErrAccountExists      = fmt.Errorf("%w: account code already exists", ErrStateConflict)

	// Journal entry errors
	ErrEntryNotFound        = fmt.Errorf("%w: journal entry not found", ErrNotFound)
	ErrNoLines              = fmt.Errorf("%w: journal entry requires at least one line", ErrValidation)
	ErrUnbalancedEntry      = fmt.Errorf("%w: debit and credit totals differ", ErrValidation)
	ErrInvalidSide          = fmt.Errorf("%w: line side must be MD or D", ErrValidation)
	ErrNegativeAmount       = fmt.Errorf("%w: line amount must not be negative", ErrValidation)
	ErrInvalidDocumentType  = fmt.Errorf("%w: unknown document type", ErrValidation)
	ErrMissingDate          = fmt.Errorf("%w: date is required", ErrValidation)
	ErrEntryNotDraft        = fmt.Errorf("%w: journal entry is not a draft", ErrStateConflict)
	ErrEntryNotPosted       = fmt.Errorf("%w: journal entry is not posted", ErrStateConflict)
	ErrEntryHasNoLines      = fmt.Errorf("%w: journal entry has no lines", ErrStateConflict)
	ErrEntryAlreadyReversed = fmt.Errorf("%w: journal entry was already reversed", ErrStateConflict)

	// Period lock errors
	ErrPeriodLocked       = fmt.Errorf("%w: period is locked", ErrStateConflict)
	ErrPeriodLockNotFound = fmt.Errorf("%w: period lock not found", ErrNotFound)
	ErrPeriodNotLocked    = fmt.Errorf("%w: period is not locked", ErrStateConflict)
	ErrInvalidDateRange   = fmt.Errorf("%w: start date is after end date", ErrValidation)

	// Fiscal year errors
	ErrFiscalYearNotFound     = fmt.Errorf("%w: fiscal year not found", ErrNotFound)
	ErrFiscalYearClosed       = fmt.Errorf("%w: fiscal year is closed", ErrStateConflict)
	ErrEarlierFiscalYearOpen  = fmt.Errorf("%w: an earlier fiscal year is still active", ErrStateConflict)
	ErrFiscalYearOverlap      = fmt.Errorf("%w: fiscal year overlaps an existing year", ErrStateConflict)
	ErrMissingFiscalYearName  = fmt.Errorf("%w: fiscal year name is required", ErrValidation)
	ErrMissingCompany         = fmt.Errorf("%w: company id is required", ErrValidation)
	ErrMissingActor           = fmt.Errorf("%w: actor id is required", ErrValidation)
	ErrInvalidChecklistItem   = fmt.Errorf("%w: unknown checklist item", ErrValidation)
	ErrInvalidChecklistStatus = fmt.Errorf("%w: unknown checklist status", ErrValidation)
	ErrChecklistFrozen        = fmt.Errorf("%w: checklist is frozen once closing has started", ErrStateConflict)

	// Closing errors
	ErrInvalidClosingType     = fmt.Errorf("%w: unknown closing operation type", ErrValidation)
	ErrClosingGateClosed      = fmt.Errorf("%w: closing checklist is not sufficiently complete", ErrStateConflict)
	ErrClosingAlreadyExecuted = fmt.Errorf("%w: closing operation already executed", ErrStateConflict)
	ErrClosingOutOfOrder      = fmt.Errorf("%w: closing operation prerequisites are missing", ErrStateConflict)
	ErrClosingAccountMissing  = fmt.Errorf("%w: closing account is not in the chart of accounts", ErrValidation)
)

// DetailedError carries structured context for a rejection so callers can
// explain it without re-querying.
type DetailedError struct {
	Err     error
	Details map[string]any
}

func (e *DetailedError) Error() string {
	return e.Err.Error()
}

func (e *DetailedError) Unwrap() error {
	return e.Err
}

// WithDetails attaches details to err. Nil err stays nil.
func WithDetails(err error, details map[string]any) error {
	if err == nil {
		return nil
	}
	return &DetailedError{Err: err, Details: details}
}

func wrapf(err error, format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{err}, args...)...)
}

// DetailsOf returns the details attached anywhere in err's chain.
func DetailsOf(err error) map[string]any {
	var de *DetailedError
	if errors.As(err, &de) {
		return de.Details
	}
	return nil
}
