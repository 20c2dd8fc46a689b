// Package identitytest provides a testify mock of identity.Provider.
package identitytest

import (
	"context"

	"cookcam_backend/internal/identity"

	"github.com/stretchr/testify/mock"
)

// MockProvider is a mock type for identity.Provider.
type MockProvider struct {
	mock.Mock
}

var _ identity.Provider = (*MockProvider)(nil)

func (m *MockProvider) CreateAccount(ctx context.Context, email, password string) (identity.UserHandle, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(identity.UserHandle), args.Error(1)
}

func (m *MockProvider) SignIn(ctx context.Context, email, password string) (*identity.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Session), args.Error(1)
}

func (m *MockProvider) DeleteAccount(ctx context.Context, uid identity.UserHandle) error {
	return m.Called(ctx, uid).Error(0)
}

// AccountExists is the error a provider returns for a duplicate email.
func AccountExists() error {
	return &identity.Error{Kind: identity.KindAccountExists, Message: "The email address is already in use by another account."}
}

// WrongPassword is the error a provider returns for bad credentials.
func WrongPassword() error {
	return &identity.Error{Kind: identity.KindInvalidCredentials, Message: "The password is invalid or the user does not have a password."}
}
