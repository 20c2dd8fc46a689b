package form

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"cookcam_backend/internal/access"
	"cookcam_backend/internal/guard"
	"cookcam_backend/internal/navigation"

	"go.uber.org/zap"
)

// Dispatcher runs one register-or-login attempt. *access.Coordinator satisfies it.
type Dispatcher interface {
	Dispatch(ctx context.Context, creds access.Credentials, cont access.Continuations) access.Result
}

// Controller owns one form: its input, the in-flight flag and the navigation it drives.
type Controller struct {
	dispatcher Dispatcher
	guard      guard.Guard
	nav        *navigation.Stack
	notifier   Notifier
	logger     *zap.Logger

	busy atomic.Bool

	mu    sync.Mutex
	input Credentials
}

// NewController creates a controller. nav may be nil for flows without screens.
func NewController(dispatcher Dispatcher, g guard.Guard, nav *navigation.Stack, notifier Notifier, logger *zap.Logger) *Controller {
	if notifier == nil {
		notifier = NotifierFunc(func(Notice) {})
	}
	return &Controller{
		dispatcher: dispatcher,
		guard:      g,
		nav:        nav,
		notifier:   notifier,
		logger:     logger.Named("FormController"),
	}
}

// Busy reports whether a submission is running.
func (c *Controller) Busy() bool {
	return c.busy.Load()
}

// Email returns the last entered email.
func (c *Controller) Email() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input.Email
}

// Submit validates the input and, when valid and idle, runs one register-or-login attempt.
// Validation and in-flight rejections return an error without touching the network.
// A dispatched attempt returns its Result with a nil error; failures are in Result.Err.
func (c *Controller) Submit(ctx context.Context, email, password string) (access.Result, error) {
	creds := Credentials{Email: email, Password: password}.Normalize()
	c.mu.Lock()
	c.input = creds
	c.mu.Unlock()

	if err := Validate(creds); err != nil {
		c.reject(err)
		return access.Result{}, err
	}

	if !c.busy.CompareAndSwap(false, true) {
		c.reject(ErrSubmissionInFlight)
		return access.Result{}, ErrSubmissionInFlight
	}

	release, err := c.guard.Acquire(ctx, strings.ToLower(creds.Email))
	if err != nil {
		c.busy.Store(false)
		if errors.Is(err, guard.ErrBusy) {
			c.reject(ErrSubmissionInFlight)
			return access.Result{}, ErrSubmissionInFlight
		}
		c.logger.Error("Failed to acquire submit lock", zap.Error(err))
		return access.Result{}, fmt.Errorf("submission guard: %w", err)
	}

	res := c.dispatcher.Dispatch(ctx, creds.toAccess(), access.Continuations{
		OnSuccess: c.onSuccess,
		OnFinish: func(res access.Result) {
			defer c.busy.Store(false)
			defer release()
			if !res.Succeeded() && res.Outcome != "" {
				c.notifier.Notify(NoticeFor(res))
			}
		},
	})
	return res, nil
}

func (c *Controller) onSuccess(res access.Result) {
	c.notifier.Notify(NoticeFor(res))
	if c.nav == nil {
		return
	}
	if err := c.nav.Navigate(navigation.Success, &navigation.PopUpTo{Route: navigation.Login, Inclusive: true}); err != nil {
		c.logger.Warn("Navigation to success screen failed", zap.Error(err))
	}
}

func (c *Controller) reject(err error) {
	if n, ok := ValidationNotice(err); ok {
		c.notifier.Notify(n)
	}
}
