package domain

import (
	"fmt"
	"strings"
	"time"
)

// AccountType is the classification derived from the leading synthetic digit.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeExpense   AccountType = "expense"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeClosing   AccountType = "closing"
)

// Account classes used by reporting and closing.
const (
	ClassExpense = 5
	ClassRevenue = 6
	ClassClosing = 7
)

// BalanceSheetClasses are the classes carried forward into the next fiscal year.
var BalanceSheetClasses = []int{0, 1, 2, 3, 4}

// Account is a chart-of-accounts entry scoped to a company.
type Account struct {
	ID            string
	CompanyID     string
	SyntheticCode string
	AnalyticCode  string
	Name          string
	Type          AccountType
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Class returns the leading digit of the synthetic code.
func (a *Account) Class() int {
	class, _ := ClassOf(a.SyntheticCode)
	return class
}

// Code renders "311" or "311.100" when an analytic refinement is present.
func (a *Account) Code() string {
	if a.AnalyticCode == "" {
		return a.SyntheticCode
	}
	return a.SyntheticCode + "." + a.AnalyticCode
}

// ClassOf parses the account class out of a synthetic code.
func ClassOf(synthetic string) (int, error) {
	synthetic = strings.TrimSpace(synthetic)
	if len(synthetic) != 3 {
		return 0, fmt.Errorf("%w: %q must have three digits", ErrInvalidAccountCode, synthetic)
	}
	for _, r := range synthetic {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: %q must be numeric", ErrInvalidAccountCode, synthetic)
		}
	}
	return int(synthetic[0] - '0'), nil
}

// TypeForSynthetic derives the account type from a synthetic code.
func TypeForSynthetic(synthetic string) (AccountType, error) {
	synthetic = strings.TrimSpace(synthetic)
	class, err := ClassOf(synthetic)
	if err != nil {
		return "", err
	}
	group := synthetic[:2]

	switch class {
	case 0, 1, 2:
		return AccountTypeAsset, nil
	case 3:
		switch group {
		case "31", "35", "39":
			return AccountTypeAsset, nil
		}
		return AccountTypeLiability, nil
	case 4:
		switch group {
		case "41", "42", "43":
			return AccountTypeEquity, nil
		}
		return AccountTypeLiability, nil
	case ClassExpense:
		return AccountTypeExpense, nil
	case ClassRevenue:
		return AccountTypeRevenue, nil
	case ClassClosing:
		return AccountTypeClosing, nil
	default:
		return "", fmt.Errorf("%w: class %d is not used", ErrInvalidAccountCode, class)
	}
}

// AccountFilter selects accounts from the directory.
type AccountFilter struct {
	CompanyID  string
	Classes    []int
	ActiveOnly bool
	Limit      int
	Offset     int
}
