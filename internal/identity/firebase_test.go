package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"
)

type MockAccountAdmin struct {
	mock.Mock
}

func (m *MockAccountAdmin) CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.UserRecord), args.Error(1)
}

func (m *MockAccountAdmin) DeleteUser(ctx context.Context, uid string) error {
	return m.Called(ctx, uid).Error(0)
}

func (m *MockAccountAdmin) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	args := m.Called(ctx, idToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Token), args.Error(1)
}

// newToolkit points the Identity Toolkit client at a local handler.
func newToolkit(t *testing.T, handler http.HandlerFunc) *identitytoolkit.Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := identitytoolkit.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return svc
}

func toolkitError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{"code": status, "message": message},
	})
}

func TestFirebaseProvider_SignIn_Success(t *testing.T) {
	var got map[string]interface{}
	toolkit := newToolkit(t, func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasSuffix(r.URL.Path, "verifyPassword"), r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"localId":"uid-1","email":"user@test.com","idToken":"id-tok","refreshToken":"ref-tok","registered":true}`))
	})

	admin := new(MockAccountAdmin)
	expires := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	admin.On("VerifyIDToken", mock.Anything, "id-tok").Return(&auth.Token{UID: "uid-1", Expires: expires.Unix()}, nil)

	p := NewFirebaseProvider(admin, toolkit, time.Second, zap.NewNop())
	session, err := p.SignIn(context.Background(), "user@test.com", "secret1")

	require.NoError(t, err)
	assert.Equal(t, UserHandle("uid-1"), session.UserID)
	assert.Equal(t, "id-tok", session.IDToken)
	assert.Equal(t, "ref-tok", session.RefreshToken)
	assert.True(t, session.ExpiresAt.Equal(expires))
	assert.Equal(t, "user@test.com", got["email"])
	assert.Equal(t, "secret1", got["password"])
	assert.Equal(t, true, got["returnSecureToken"])
	admin.AssertExpectations(t)
}

func TestFirebaseProvider_SignIn_ErrorTranslation(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		message     string
		wantKind    Kind
		wantMessage string
	}{
		{"wrong password", http.StatusBadRequest, "INVALID_PASSWORD", KindInvalidCredentials, "The password is invalid or the user does not have a password."},
		{"unknown email", http.StatusBadRequest, "EMAIL_NOT_FOUND", KindUserNotFound, "There is no user record corresponding to this identifier. The user may have been deleted."},
		{"code with detail", http.StatusBadRequest, "TOO_MANY_ATTEMPTS_TRY_LATER : Access disabled", KindRateLimited, providerMessages["TOO_MANY_ATTEMPTS_TRY_LATER"].message},
		{"server error", http.StatusServiceUnavailable, "BACKEND_DOWN", KindUnavailable, "BACKEND_DOWN"},
		{"unmapped client error", http.StatusBadRequest, "OPERATION_NOT_ALLOWED", KindUnknown, "OPERATION_NOT_ALLOWED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toolkit := newToolkit(t, func(w http.ResponseWriter, r *http.Request) {
				toolkitError(w, tt.status, tt.message)
			})
			p := NewFirebaseProvider(new(MockAccountAdmin), toolkit, 0, zap.NewNop())

			session, err := p.SignIn(context.Background(), "user@test.com", "wrong-1")

			assert.Nil(t, session)
			var idErr *Error
			require.True(t, errors.As(err, &idErr))
			assert.Equal(t, tt.wantKind, idErr.Kind)
			assert.Equal(t, tt.wantMessage, MessageOf(err))
		})
	}
}

func TestFirebaseProvider_CreateAccount(t *testing.T) {
	admin := new(MockAccountAdmin)
	admin.On("CreateUser", mock.Anything, mock.AnythingOfType("*auth.UserToCreate")).
		Return(&auth.UserRecord{UserInfo: &auth.UserInfo{UID: "new-uid"}}, nil).Once()

	p := NewFirebaseProvider(admin, nil, time.Second, zap.NewNop())
	uid, err := p.CreateAccount(context.Background(), "user@test.com", "secret1")

	require.NoError(t, err)
	assert.Equal(t, UserHandle("new-uid"), uid)
	admin.AssertExpectations(t)
}

func TestFirebaseProvider_CreateAccount_ClassifiesFailures(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind Kind
	}{
		{"weak password", errors.New("password must be a string at least 6 characters long"), KindWeakPassword},
		{"malformed email", errors.New("malformed email string: \"x\""), KindInvalidEmail},
		{"deadline", context.DeadlineExceeded, KindUnavailable},
		{"other", errors.New("quota exceeded"), KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			admin := new(MockAccountAdmin)
			admin.On("CreateUser", mock.Anything, mock.Anything).Return(nil, tt.err)

			p := NewFirebaseProvider(admin, nil, 0, zap.NewNop())
			_, err := p.CreateAccount(context.Background(), "user@test.com", "secret1")

			var idErr *Error
			require.True(t, errors.As(err, &idErr))
			assert.Equal(t, tt.wantKind, idErr.Kind)
			assert.False(t, IsAccountExists(err))
		})
	}
}

func TestFirebaseProvider_DeleteAccount(t *testing.T) {
	admin := new(MockAccountAdmin)
	admin.On("DeleteUser", mock.Anything, "uid-1").Return(nil).Once()
	admin.On("DeleteUser", mock.Anything, "uid-2").Return(errors.New("backend unavailable")).Once()

	p := NewFirebaseProvider(admin, nil, 0, zap.NewNop())

	assert.NoError(t, p.DeleteAccount(context.Background(), "uid-1"))
	assert.Error(t, p.DeleteAccount(context.Background(), "uid-2"))
	admin.AssertExpectations(t)
}

func TestIsAccountExists(t *testing.T) {
	assert.True(t, IsAccountExists(ErrAccountExists))
	assert.True(t, IsAccountExists(&Error{Kind: KindAccountExists, Message: "anything"}))
	assert.True(t, IsAccountExists(errors.New("The email address is already in use by another account.")))
	assert.False(t, IsAccountExists(&Error{Kind: KindWeakPassword, Message: "weak"}))
	assert.False(t, IsAccountExists(errors.New("network unreachable")))
	assert.False(t, IsAccountExists(nil))
}

func TestToolkitCode(t *testing.T) {
	assert.Equal(t, "WEAK_PASSWORD", toolkitCode("WEAK_PASSWORD : Password should be at least 6 characters"))
	assert.Equal(t, "EMAIL_EXISTS", toolkitCode("EMAIL_EXISTS"))
	assert.Equal(t, "", toolkitCode(""))
}
