package domain

import "time"

// FiscalYearStatus is the state of a fiscal year.
type FiscalYearStatus string

const (
	FiscalYearActive FiscalYearStatus = "active"
	FiscalYearClosed FiscalYearStatus = "closed"
)

// FiscalYear is an accounting year of a company.
type FiscalYear struct {
	ID        string
	CompanyID string
	Name      string
	StartDate time.Time
	EndDate   time.Time
	Status    FiscalYearStatus
	ClosedAt  *time.Time
	CreatedAt time.Time
}

// IsActive reports whether the year is still open.
func (fy *FiscalYear) IsActive() bool {
	return fy.Status == FiscalYearActive
}

// Contains reports whether day falls into the year.
func (fy *FiscalYear) Contains(day time.Time) bool {
	return DateInRange(day, fy.StartDate, fy.EndDate)
}

// Overlaps reports whether the two years share at least one day.
func (fy *FiscalYear) Overlaps(other *FiscalYear) bool {
	return !Date(fy.EndDate).Before(Date(other.StartDate)) && !Date(other.EndDate).Before(Date(fy.StartDate))
}
