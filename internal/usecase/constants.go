package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database
	// transaction. Lock hold time is bounded by one balance read plus one
	// entry-batch commit, so this is generous.
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour

	// daysPerYear is the simple-interest day basis.
	daysPerYear = 365
)
