// Package access runs the register-or-login flow against the identity provider and profile store.
package access

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cookcam_backend/internal/identity"
	"cookcam_backend/internal/profile"

	"go.uber.org/zap"
)

// ProfileWriteTimeout bounds each profile store write of a run.
const ProfileWriteTimeout = 10 * time.Second

// Credentials is an email/password pair, already trimmed and validated by the caller.
type Credentials struct {
	Email    string
	Password string
}

// State is a step of the flow. Every Result records the states it passed through.
type State string

const (
	StateRegistering       State = "registering"
	StateRegisterSucceeded State = "register_succeeded"
	StateRegisterFailed    State = "register_failed"
	StatePersistOK         State = "persist_ok"
	StatePersistFailed     State = "persist_failed"
	StateCompensated       State = "compensated"
	StateOrphaned          State = "orphaned"
	StateFallbackLogin     State = "fallback_login"
	StateLoginSucceeded    State = "login_succeeded"
	StateLoginFailed       State = "login_failed"
	StateSurfaceError      State = "surface_error"
)

// Outcome is the terminal result of one run.
type Outcome string

const (
	OutcomeRegistered         Outcome = "registered"
	OutcomeLoggedIn           Outcome = "logged_in"
	OutcomeLoginFailed        Outcome = "login_failed"
	OutcomeRegistrationFailed Outcome = "registration_failed"
	OutcomeProfileFailed      Outcome = "profile_failed"
)

// Result describes how a run ended.
type Result struct {
	Outcome Outcome
	UserID  identity.UserHandle
	Session *identity.Session
	Err     error
	Trace   []State
}

// Succeeded is true for the two outcomes that lead to the welcome screen.
func (r Result) Succeeded() bool {
	return r.Outcome == OutcomeRegistered || r.Outcome == OutcomeLoggedIn
}

func (r *Result) step(s State) {
	r.Trace = append(r.Trace, s)
}

// ProfileWriteError is the Err of an OutcomeProfileFailed result.
type ProfileWriteError struct {
	UID identity.UserHandle
	// Compensated is true when the just-created account was deleted again.
	Compensated bool
	Err         error
}

func (e *ProfileWriteError) Error() string {
	return e.Err.Error()
}

func (e *ProfileWriteError) Unwrap() error { return e.Err }

// Continuations are invoked by Dispatch.
type Continuations struct {
	// OnSuccess runs only for registered or logged-in outcomes, before OnFinish.
	OnSuccess func(Result)
	// OnFinish runs exactly once per Dispatch, whatever the outcome.
	OnFinish func(Result)
}

// Coordinator sequences account creation, profile persistence and the fallback login.
type Coordinator struct {
	provider identity.Provider
	profiles profile.Repository
	now      func() time.Time
	logger   *zap.Logger
}

// NewCoordinator creates a new Coordinator.
func NewCoordinator(provider identity.Provider, profiles profile.Repository, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		provider: provider,
		profiles: profiles,
		now:      time.Now,
		logger:   logger.Named("AccessCoordinator"),
	}
}

// Dispatch runs the flow and fires the continuations.
func (c *Coordinator) Dispatch(ctx context.Context, creds Credentials, cont Continuations) (res Result) {
	defer func() {
		if cont.OnFinish != nil {
			cont.OnFinish(res)
		}
	}()
	res = c.Run(ctx, creds)
	if res.Succeeded() && cont.OnSuccess != nil {
		cont.OnSuccess(res)
	}
	return res
}

// Run executes register, then either persist the profile or fall back to a single login.
func (c *Coordinator) Run(ctx context.Context, creds Credentials) Result {
	res := Result{}
	res.step(StateRegistering)

	uid, err := c.provider.CreateAccount(ctx, creds.Email, creds.Password)
	if err == nil {
		res.step(StateRegisterSucceeded)
		res.UserID = uid
		return c.persist(ctx, creds, res)
	}

	res.step(StateRegisterFailed)
	if !identity.IsAccountExists(err) {
		c.logger.Info("Registration failed", zap.Error(err))
		res.step(StateSurfaceError)
		res.Outcome = OutcomeRegistrationFailed
		res.Err = err
		return res
	}

	c.logger.Debug("Account exists, falling back to login", zap.String("email", creds.Email))
	return c.fallbackLogin(ctx, creds, res)
}

func (c *Coordinator) persist(ctx context.Context, creds Credentials, res Result) Result {
	p := profile.NewProfile(string(res.UserID), creds.Email, c.now())
	putCtx, cancel := context.WithTimeout(ctx, ProfileWriteTimeout)
	err := c.profiles.Put(putCtx, p)
	cancel()
	if err == nil {
		res.step(StatePersistOK)
		res.Outcome = OutcomeRegistered
		c.logger.Info("User registered", zap.String("uid", p.UID))
		return res
	}

	res.step(StatePersistFailed)
	res.Outcome = OutcomeProfileFailed
	c.logger.Error("Profile write failed after account creation", zap.String("uid", p.UID), zap.Error(err))

	writeErr := &ProfileWriteError{UID: res.UserID, Err: err}
	res.Err = writeErr

	delErr := c.provider.DeleteAccount(ctx, res.UserID)
	if delErr == nil {
		writeErr.Compensated = true
		res.step(StateCompensated)
		return res
	}

	c.logger.Error("Compensating account delete failed; recording orphan", zap.String("uid", p.UID), zap.Error(delErr))
	res.step(StateOrphaned)
	orphan := &profile.Orphan{
		UID:        p.UID,
		Email:      creds.Email,
		Reason:     fmt.Sprintf("profile write failed: %v", err),
		RecordedAt: c.now().UTC(),
	}
	recCtx, cancel := context.WithTimeout(ctx, ProfileWriteTimeout)
	defer cancel()
	if recErr := c.profiles.RecordOrphan(recCtx, orphan); recErr != nil {
		c.logger.Error("Failed to record orphaned account", zap.String("uid", p.UID), zap.Error(recErr))
	}
	return res
}

func (c *Coordinator) fallbackLogin(ctx context.Context, creds Credentials, res Result) Result {
	res.step(StateFallbackLogin)

	session, err := c.provider.SignIn(ctx, creds.Email, creds.Password)
	if err != nil {
		c.logger.Info("Fallback login failed", zap.Error(err))
		res.step(StateLoginFailed)
		res.Outcome = OutcomeLoginFailed
		res.Err = err
		return res
	}

	res.step(StateLoginSucceeded)
	res.Outcome = OutcomeLoggedIn
	res.Session = session
	res.UserID = session.UserID
	c.logger.Info("User logged in", zap.String("uid", string(session.UserID)))
	return res
}

// IsProfileWriteError reports whether err came from a failed profile write.
func IsProfileWriteError(err error) bool {
	var pwe *ProfileWriteError
	return errors.As(err, &pwe)
}
