package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/identitytoolkit/v3"
)

// Firebase client SDK wording for Identity Toolkit error codes.
var providerMessages = map[string]struct {
	kind    Kind
	message string
}{
	"EMAIL_EXISTS":                {KindAccountExists, "The email address is already in use by another account."},
	"INVALID_PASSWORD":            {KindInvalidCredentials, "The password is invalid or the user does not have a password."},
	"INVALID_LOGIN_CREDENTIALS":   {KindInvalidCredentials, "The supplied auth credential is incorrect, malformed or has expired."},
	"EMAIL_NOT_FOUND":             {KindUserNotFound, "There is no user record corresponding to this identifier. The user may have been deleted."},
	"USER_DISABLED":               {KindUserDisabled, "The user account has been disabled by an administrator."},
	"INVALID_EMAIL":               {KindInvalidEmail, "The email address is badly formatted."},
	"WEAK_PASSWORD":               {KindWeakPassword, "The given password is invalid. [ Password should be at least 6 characters ]"},
	"TOO_MANY_ATTEMPTS_TRY_LATER": {KindRateLimited, "We have blocked all requests from this device due to unusual activity. Try again later."},
}

// AccountAdmin is the part of the Firebase admin auth client the provider needs. *auth.Client satisfies it.
type AccountAdmin interface {
	CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
	DeleteUser(ctx context.Context, uid string) error
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseProvider implements Provider with the Firebase admin SDK for account management
// and the Identity Toolkit REST API for password sign-in.
type FirebaseProvider struct {
	admin   AccountAdmin
	toolkit *identitytoolkit.Service
	timeout time.Duration
	logger  *zap.Logger
}

var _ Provider = (*FirebaseProvider)(nil)

// NewFirebaseProvider creates a provider. timeout bounds each individual backend call; zero disables it.
func NewFirebaseProvider(admin AccountAdmin, toolkit *identitytoolkit.Service, timeout time.Duration, logger *zap.Logger) *FirebaseProvider {
	return &FirebaseProvider{
		admin:   admin,
		toolkit: toolkit,
		timeout: timeout,
		logger:  logger.Named("FirebaseProvider"),
	}
}

// CreateAccount registers a new email/password account and returns its uid.
func (p *FirebaseProvider) CreateAccount(ctx context.Context, email, password string) (UserHandle, error) {
	ctx, cancel := p.callContext(ctx)
	defer cancel()

	params := (&auth.UserToCreate{}).Email(email).Password(password)
	record, err := p.admin.CreateUser(ctx, params)
	if err != nil {
		classified := classifyAdminError(err)
		p.logger.Info("Account creation rejected", zap.String("kind", string(classified.Kind)), zap.Error(err))
		return "", classified
	}
	p.logger.Info("Account created", zap.String("uid", record.UID))
	return UserHandle(record.UID), nil
}

// SignIn verifies the password and returns the resulting session.
func (p *FirebaseProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	ctx, cancel := p.callContext(ctx)
	defer cancel()

	resp, err := p.toolkit.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		classified := classifyToolkitError(err)
		p.logger.Info("Sign-in rejected", zap.String("kind", string(classified.Kind)), zap.Error(err))
		return nil, classified
	}

	session := &Session{
		UserID:       UserHandle(resp.LocalId),
		Email:        resp.Email,
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
	}
	if resp.IdToken != "" {
		token, err := p.admin.VerifyIDToken(ctx, resp.IdToken)
		if err != nil {
			p.logger.Error("Issued ID token failed verification", zap.String("uid", resp.LocalId), zap.Error(err))
			return nil, wrapf(KindUnavailable, err, "failed to verify issued ID token: %v", err)
		}
		session.UserID = UserHandle(token.UID)
		session.ExpiresAt = time.Unix(token.Expires, 0).UTC()
	}
	p.logger.Info("User signed in", zap.String("uid", string(session.UserID)))
	return session, nil
}

// DeleteAccount removes an account. A missing account is not an error.
func (p *FirebaseProvider) DeleteAccount(ctx context.Context, uid UserHandle) error {
	ctx, cancel := p.callContext(ctx)
	defer cancel()

	if err := p.admin.DeleteUser(ctx, string(uid)); err != nil {
		if auth.IsUserNotFound(err) {
			p.logger.Debug("Account already gone", zap.String("uid", string(uid)))
			return nil
		}
		p.logger.Error("Failed to delete account", zap.String("uid", string(uid)), zap.Error(err))
		return fmt.Errorf("failed to delete account %s: %w", uid, err)
	}
	p.logger.Info("Account deleted", zap.String("uid", string(uid)))
	return nil
}

func (p *FirebaseProvider) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, p.timeout)
}

func classifyAdminError(err error) *Error {
	switch {
	case auth.IsEmailAlreadyExists(err):
		return newError(KindAccountExists, providerMessages["EMAIL_EXISTS"].message, err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return newError(KindUnavailable, err.Error(), err)
	}
	// Local argument validation in the admin SDK reports plain text.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "password must be"):
		return newError(KindWeakPassword, providerMessages["WEAK_PASSWORD"].message, err)
	case strings.Contains(msg, "malformed email"):
		return newError(KindInvalidEmail, providerMessages["INVALID_EMAIL"].message, err)
	}
	return newError(KindUnknown, msg, err)
}

func classifyToolkitError(err error) *Error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		code := toolkitCode(gerr.Message)
		if known, ok := providerMessages[code]; ok {
			return newError(known.kind, known.message, err)
		}
		if gerr.Code >= 500 {
			return newError(KindUnavailable, gerr.Message, err)
		}
		return newError(KindUnknown, gerr.Message, err)
	}
	// Transport failures and deadlines.
	return newError(KindUnavailable, err.Error(), err)
}

// toolkitCode extracts the code from messages like "WEAK_PASSWORD : Password should be at least 6 characters".
func toolkitCode(message string) string {
	code := strings.TrimSpace(message)
	if i := strings.IndexAny(code, " :"); i >= 0 {
		code = code[:i]
	}
	return code
}
