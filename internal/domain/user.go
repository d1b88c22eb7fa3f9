package domain

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"
)

// User is an authenticated caller of the ledger — a parent or viewer in the
// household. Every entry's authoring identity is a user ID taken from the
// request context, never from request input.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Role is a user's access level.
type Role string

const (
	// RoleParent may perform every operation, including settings and prices.
	RoleParent Role = "parent"

	// RoleViewer may only read balances, portfolios and entries.
	RoleViewer Role = "viewer"
)

var validRoles = map[Role]bool{
	RoleParent: true,
	RoleViewer: true,
}

// IsValid checks if the role is a known role.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanMutate reports whether the role may perform money-moving operations.
func (r Role) CanMutate() bool {
	return r == RoleParent
}

// CanAdminister reports whether the role may change settings and prices.
func (r Role) CanAdminister() bool {
	return r == RoleParent
}

// Authentication errors
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrPasswordTooWeak  = errors.New("password does not meet requirements")
	ErrUserExists       = errors.New("user already exists")
	ErrUserNotFound     = errors.New("user not found")
	ErrWrongCredentials = errors.New("email or password is incorrect")
)

// Password constraints
const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail validates email format.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePassword validates password length bounds.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrPasswordTooWeak, MinPasswordLength)
	}

	if len(password) > MaxPasswordLength {
		return fmt.Errorf("%w: must not exceed %d characters", ErrPasswordTooWeak, MaxPasswordLength)
	}

	return nil
}

type userContextKey struct{}

// ContextWithUser stores the authenticated user in the context.
func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext extracts the authenticated user from the context.
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*User)
	return user, ok
}
