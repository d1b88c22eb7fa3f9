package domain

import "errors"

var (
	// Amount and input errors
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrAmountTooLarge     = errors.New("amount exceeds maximum allowed")
	ErrInvalidPrecision   = errors.New("amount has too many decimal places")
	ErrInvalidNote        = errors.New("note exceeds maximum length")
	ErrInvalidCombination = errors.New("category is not allowed for this bucket")
	ErrSameBucket         = errors.New("cannot transfer within the same bucket")

	// Balance errors
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInsufficientShares  = errors.New("insufficient shares")

	// Lookup errors
	ErrMemberNotFound = errors.New("member not found")
	ErrLotNotFound    = errors.New("term deposit lot not found")
	ErrNoPriceData    = errors.New("no price data for symbol")

	// Term deposit errors
	ErrInvalidTerm   = errors.New("unsupported term length")
	ErrLotNotActive  = errors.New("term deposit lot is not active")
	ErrLotNotMatured = errors.New("term deposit lot has not reached maturity")

	// Stock errors
	ErrInvalidSymbol        = errors.New("invalid ticker symbol")
	ErrPositionLimitReached = errors.New("position limit reached")

	// Snapshot errors
	ErrRegressionDetected = errors.New("reported total is lower than previous total")

	// Settings errors
	ErrUnknownSetting    = errors.New("unknown setting key")
	ErrSettingOutOfRange = errors.New("setting value out of allowed range")

	// Ledger invariant errors
	ErrEntryImmutable = errors.New("ledger entries cannot be modified or deleted")
)
