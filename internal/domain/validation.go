package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidAccountName = fmt.Errorf("%w: invalid account name", ErrValidation)
	ErrInvalidCurrency    = fmt.Errorf("%w: invalid currency code", ErrValidation)
	ErrAmountTooLarge     = fmt.Errorf("%w: amount exceeds maximum allowed", ErrValidation)
	ErrDescriptionTooLong = fmt.Errorf("%w: description is too long", ErrValidation)
)

// Validation constants
const (
	MaxAccountNameLength = 255
	MinAccountNameLength = 1
	MaxDescriptionLength = 1024
	MaxLineAmount        = "1000000000000" // 1 trillion
	MaxLinesPerEntry     = 500
)

// Valid currency codes (ISO 4217)
var validCurrencies = map[string]bool{
	"EUR": true, "USD": true, "GBP": true, "CZK": true,
	"HUF": true, "PLN": true, "CHF": true, "JPY": true,
	"CNY": true, "SEK": true, "NOK": true, "DKK": true,
	"CAD": true, "AUD": true, "RON": true, "BGN": true,
	"UAH": true, "TRY": true, "HRK": true, "RSD": true,
}

var maxLineAmount = decimal.RequireFromString(MaxLineAmount)

// ValidateAccountName validates account name
func ValidateAccountName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) < MinAccountNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidAccountName)
	}

	if len(name) > MaxAccountNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidAccountName, MaxAccountNameLength)
	}

	return nil
}

// ValidateCurrency validates currency code
func ValidateCurrency(currency string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))

	if !validCurrencies[currency] {
		return fmt.Errorf("%w: %s is not a valid ISO 4217 currency code", ErrInvalidCurrency, currency)
	}

	return nil
}

// ValidateDescription limits free-text description length
func ValidateDescription(description string) error {
	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("%w: exceeds %d characters", ErrDescriptionTooLong, MaxDescriptionLength)
	}
	return nil
}

// ValidateLineDetails checks the optional parts of a line: amount ceiling and
// foreign currency fields.
func ValidateLineDetails(line *JournalEntryLine) error {
	if line.Amount.GreaterThan(maxLineAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxLineAmount)
	}

	if line.CurrencyCode != nil {
		if err := ValidateCurrency(*line.CurrencyCode); err != nil {
			return err
		}
	}

	if line.ExchangeRate != nil && !line.ExchangeRate.IsPositive() {
		return fmt.Errorf("%w: exchange rate must be positive", ErrValidation)
	}

	return ValidateDescription(line.Description)
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int, error) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset, nil
}
