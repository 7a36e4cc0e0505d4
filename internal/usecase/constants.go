package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// IdempotencyProcessingMarker is stored under a key while its first request runs.
	IdempotencyProcessingMarker = "processing"

	// DefaultClosingGatePercentage is the checklist progress that opens the closing gate.
	DefaultClosingGatePercentage = 70.0

	// Default closing accounts of the Slovak chart of accounts.
	DefaultProfitLossAccount       = "710"
	DefaultRetainedEarningsAccount = "431"
	DefaultOpeningBalanceAccount   = "701"

	// SystemNote marks checklist verdicts written by AutoVerify.
	SystemNote = "verified automatically"
)
