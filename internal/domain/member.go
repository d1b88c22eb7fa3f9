package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidMemberName = errors.New("invalid member name")

// Member name constraints
const (
	MinMemberNameLength = 1
	MaxMemberNameLength = 100
)

// Member is an account holder whose buckets the ledger tracks. A member has
// no stored balance anywhere — every balance is derived from entries.
type Member struct {
	ID        string
	Name      string
	Nickname  string
	CreatedAt time.Time
}

// ValidateMemberName validates a member display name.
func ValidateMemberName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) < MinMemberNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidMemberName)
	}

	if len(name) > MaxMemberNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidMemberName, MaxMemberNameLength)
	}

	return nil
}
