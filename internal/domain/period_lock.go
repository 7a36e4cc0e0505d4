package domain

import "time"

// PeriodLock forbids journal mutations dated inside [PeriodStart, PeriodEnd] while Locked.
type PeriodLock struct {
	ID          string
	CompanyID   string
	PeriodStart time.Time
	PeriodEnd   time.Time
	Locked      bool
	LockedAt    *time.Time
	LockedBy    *string
	UnlockedAt  *time.Time
	UnlockedBy  *string
	CreatedAt   time.Time
}

// Covers reports whether the lock is active for day.
func (l *PeriodLock) Covers(day time.Time) bool {
	return l.Locked && DateInRange(day, l.PeriodStart, l.PeriodEnd)
}

// LockedError builds the rejection for a mutation dated inside the lock.
func (l *PeriodLock) LockedError(day time.Time) error {
	return WithDetails(
		wrapf(ErrPeriodLocked, "%s falls in %s..%s", FormatDate(day), FormatDate(l.PeriodStart), FormatDate(l.PeriodEnd)),
		map[string]any{
			"date":         FormatDate(day),
			"lock_id":      l.ID,
			"period_start": FormatDate(l.PeriodStart),
			"period_end":   FormatDate(l.PeriodEnd),
		},
	)
}
