// Package identity is the boundary to the hosted identity provider.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// AccountExistsFragment is the message text the Firebase client SDKs use for a
// duplicate email. Providers that only report free text are classified by it.
const AccountExistsFragment = "The email address is already in use"

// Kind classifies provider failures.
type Kind string

const (
	KindAccountExists      Kind = "account_exists"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindUserNotFound       Kind = "user_not_found"
	KindUserDisabled       Kind = "user_disabled"
	KindWeakPassword       Kind = "weak_password"
	KindInvalidEmail       Kind = "invalid_email"
	KindRateLimited        Kind = "rate_limited"
	KindUnavailable        Kind = "unavailable"
	KindUnknown            Kind = "unknown"
)

// Sentinels for errors.Is. An *Error matches the sentinel of its kind.
var (
	ErrAccountExists      = &Error{Kind: KindAccountExists}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials}
	ErrUserNotFound       = &Error{Kind: KindUserNotFound}
)

// Error is a classified provider failure. Message is human readable and is shown to users verbatim.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// UserHandle is the provider generated user identifier.
type UserHandle string

// Session is what a successful sign-in yields.
type Session struct {
	UserID       UserHandle `json:"user_id"`
	Email        string     `json:"email"`
	IDToken      string     `json:"id_token,omitempty"`
	RefreshToken string     `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time  `json:"expires_at"`
}

// Provider is the identity provider contract.
type Provider interface {
	CreateAccount(ctx context.Context, email, password string) (UserHandle, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	DeleteAccount(ctx context.Context, uid UserHandle) error
}

// IsAccountExists reports whether a CreateAccount failure means the email is already registered.
// The structured kind is checked first; the message fragment covers providers without one.
func IsAccountExists(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrAccountExists) {
		return true
	}
	return strings.Contains(err.Error(), AccountExistsFragment)
}

// MessageOf returns the text to show a user for err, or "" when err carries none.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var idErr *Error
	if errors.As(err, &idErr) && idErr.Message != "" {
		return idErr.Message
	}
	return err.Error()
}

func newError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func wrapf(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}
