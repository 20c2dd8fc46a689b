package screen

import (
	"errors"
	"sync"
	"time"

	"cookcam_backend/internal/form"
	"cookcam_backend/internal/guard"
	"cookcam_backend/internal/navigation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("screen session not found")

// Store holds sessions in memory. Sessions idle longer than ttl are removed by Sweep.
type Store struct {
	dispatcher form.Dispatcher
	guard      guard.Guard
	ttl        time.Duration
	now        func() time.Time
	logger     *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty store.
func NewStore(dispatcher form.Dispatcher, g guard.Guard, ttl time.Duration, logger *zap.Logger) *Store {
	return &Store{
		dispatcher: dispatcher,
		guard:      g,
		ttl:        ttl,
		now:        time.Now,
		logger:     logger.Named("ScreenStore"),
		sessions:   make(map[string]*Session),
	}
}

// Create opens a new session on the login screen.
func (s *Store) Create() *Session {
	sess := &Session{
		ID:  uuid.NewString(),
		Nav: navigation.NewStack(navigation.Login),
	}
	sess.Form = form.NewController(s.dispatcher, s.guard, sess.Nav, sess, s.logger)
	sess.touch(s.now())

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.logger.Debug("Screen session created", zap.String("session_id", sess.ID))
	return sess
}

// Get returns the session and marks it as seen.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.touch(s.now())
	return sess, nil
}

// Remove deletes a session. Unknown ids are ignored.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes exited sessions and idle ones, leaving sessions with a submission in flight.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		expired := s.ttl > 0 && now.Sub(sess.idleSince()) > s.ttl
		if sess.Nav.Exited() || (expired && !sess.Form.Busy()) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Info("Swept screen sessions", zap.Int("removed", removed), zap.Int("remaining", len(s.sessions)))
	}
	return removed
}
