// Package form holds the credential form: input rules, user notices and the submit controller.
package form

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"cookcam_backend/internal/access"
)

// MinPasswordLength is counted in characters after trimming.
const MinPasswordLength = 6

var (
	ErrInvalidEmail       = errors.New("invalid email")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrSubmissionInFlight = errors.New("submission already in flight")
)

// Same shape as android.util.Patterns.EMAIL_ADDRESS, matched against the whole input.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9+._%\-]{1,256}@[a-zA-Z0-9][a-zA-Z0-9\-]{0,64}(\.[a-zA-Z0-9][a-zA-Z0-9\-]{0,25})+$`)

// Credentials is the raw form input.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Normalize returns the credentials with surrounding whitespace removed from both fields.
func (c Credentials) Normalize() Credentials {
	return Credentials{
		Email:    strings.TrimSpace(c.Email),
		Password: strings.TrimSpace(c.Password),
	}
}

func (c Credentials) toAccess() access.Credentials {
	return access.Credentials{Email: c.Email, Password: c.Password}
}

// ValidateEmail reports whether email looks like local@domain.tld.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// Validate trims c and checks the email first, then the password length.
func Validate(c Credentials) error {
	c = c.Normalize()
	if !ValidateEmail(c.Email) {
		return ErrInvalidEmail
	}
	if utf8.RuneCountInString(c.Password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}
