package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{"user@test.com", "a.b+c_d%e-f@sub.example.co", "x@a1.b2"}
	invalid := []string{"", "user", "user@", "@test.com", "user@test", "user@-test.com", "user name@test.com", "user@test..com", "user@test.com "}

	for _, e := range valid {
		assert.True(t, ValidateEmail(e), e)
	}
	for _, e := range invalid {
		assert.False(t, ValidateEmail(e), e)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		creds   Credentials
		wantErr error
	}{
		{"valid", Credentials{"user@test.com", "secret1"}, nil},
		{"trimmed before checks", Credentials{"  user@test.com  ", "  123456  "}, nil},
		{"bad email checked first", Credentials{"nope", "1"}, ErrInvalidEmail},
		{"short password", Credentials{"user@test.com", "12345"}, ErrPasswordTooShort},
		{"padding does not count", Credentials{"user@test.com", " 12345 "}, ErrPasswordTooShort},
		{"counted in characters", Credentials{"user@test.com", "ñandú!"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantErr, Validate(tt.creds))
		})
	}
}

func TestCredentials_Normalize(t *testing.T) {
	got := Credentials{Email: "\tuser@test.com\n", Password: " pw "}.Normalize()
	assert.Equal(t, Credentials{Email: "user@test.com", Password: "pw"}, got)
}
