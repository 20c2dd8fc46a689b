// Package guard provides at-most-one locks around credential submissions.
package guard

import (
	"context"
	"errors"
	"sync"
)

// ErrBusy is returned when the key is already held.
var ErrBusy = errors.New("submission already in flight")

// Guard acquires a lock for key. The returned release must be called exactly once.
type Guard interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// Local is an in-process Guard.
type Local struct {
	mu   sync.Mutex
	held map[string]struct{}
}

var _ Guard = (*Local)(nil)

// NewLocal creates an empty in-process guard.
func NewLocal() *Local {
	return &Local{held: make(map[string]struct{})}
}

func (l *Local) Acquire(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[key]; ok {
		return nil, ErrBusy
	}
	l.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})
	}, nil
}
