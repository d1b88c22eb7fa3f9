package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Setting keys. The settings table is a small numeric key-value store read by
// ledger operations at call time (never cached across operations) and written
// only through the administrative surface, validated against this allow-list.
const (
	SettingSavingsAPY    = "savings_apy"
	SettingTermRate3M    = "td_rate_3m"
	SettingTermRate6M    = "td_rate_6m"
	SettingTermRate12M   = "td_rate_12m"
	SettingPositionLimit = "position_limit"
	SettingPointsRate    = "points_rate"
)

type settingRange struct {
	min     decimal.Decimal
	max     decimal.Decimal
	integer bool
}

var settingRanges = map[string]settingRange{
	SettingSavingsAPY:    {min: decimal.Zero, max: decimal.NewFromFloat(0.25)},
	SettingTermRate3M:    {min: decimal.Zero, max: decimal.NewFromFloat(0.25)},
	SettingTermRate6M:    {min: decimal.Zero, max: decimal.NewFromFloat(0.25)},
	SettingTermRate12M:   {min: decimal.Zero, max: decimal.NewFromFloat(0.25)},
	SettingPositionLimit: {min: decimal.NewFromInt(1), max: decimal.NewFromInt(50), integer: true},
	SettingPointsRate:    {min: decimal.Zero, max: decimal.NewFromInt(10)},
}

// TermRateKey maps a supported term length to its settings key.
func TermRateKey(months int) (string, error) {
	switch months {
	case 3:
		return SettingTermRate3M, nil
	case 6:
		return SettingTermRate6M, nil
	case 12:
		return SettingTermRate12M, nil
	}
	return "", ErrInvalidTerm
}

// SettingKeys lists every allowed setting key.
func SettingKeys() []string {
	return []string{
		SettingSavingsAPY,
		SettingTermRate3M,
		SettingTermRate6M,
		SettingTermRate12M,
		SettingPositionLimit,
		SettingPointsRate,
	}
}

// ValidateSetting checks a key against the allow-list and its value against
// the key's numeric range.
func ValidateSetting(key string, value decimal.Decimal) error {
	r, ok := settingRanges[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSetting, key)
	}

	if value.LessThan(r.min) || value.GreaterThan(r.max) {
		return fmt.Errorf("%w: %s must be between %s and %s", ErrSettingOutOfRange, key, r.min, r.max)
	}

	if r.integer && !value.Equal(value.Truncate(0)) {
		return fmt.Errorf("%w: %s must be a whole number", ErrSettingOutOfRange, key)
	}

	return nil
}
