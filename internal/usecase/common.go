package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/melodykoh/the-mini-mint/internal/domain"
)

// mutatingUser returns the authenticated caller, requiring a role that may
// move money. The authoring identity of every entry comes from here — never
// from request input.
func mutatingUser(ctx context.Context) (*domain.User, error) {
	user, ok := domain.UserFromContext(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if !user.Role.CanMutate() {
		return nil, fmt.Errorf("%w: role %q cannot move money", domain.ErrUnauthorized, user.Role)
	}

	return user, nil
}

// metaDecimal reads a decimal value out of entry metadata. Values are stored
// as strings but arrive as any after a JSONB round trip.
func metaDecimal(metadata map[string]any, key string) (decimal.Decimal, bool) {
	raw, ok := metadata[key]
	if !ok {
		return decimal.Zero, false
	}

	switch v := raw.(type) {
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	case float64:
		return decimal.NewFromFloat(v), true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	case decimal.Decimal:
		return v, true
	}

	return decimal.Zero, false
}
