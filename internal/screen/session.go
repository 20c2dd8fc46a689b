// Package screen keeps per-client screen state and serves it over HTTP.
package screen

import (
	"sync"
	"time"

	"cookcam_backend/internal/form"
	"cookcam_backend/internal/navigation"
)

// Session is one client's copy of the access screens.
type Session struct {
	ID   string
	Form *form.Controller
	Nav  *navigation.Stack

	mu       sync.Mutex
	notices  []form.Notice
	lastSeen time.Time
}

// Notify queues a notice until the next view is read.
func (s *Session) Notify(n form.Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, n)
}

func (s *Session) drainNotices() []form.Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.notices
	s.notices = nil
	if out == nil {
		out = []form.Notice{}
	}
	return out
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// View renders the current screen and drains pending notices.
func (s *Session) View() View {
	v := View{
		SessionID: s.ID,
		Screen:    s.Nav.Current(),
		Exited:    s.Nav.Exited(),
	}
	switch v.Screen {
	case navigation.Login:
		v.Title = TitleLogin
		v.Loading = s.Form.Busy()
		v.SubmitEnabled = !v.Loading
		v.SubmitLabel = SubmitLabel
		if v.Loading {
			v.SubmitLabel = SubmitLabelLoading
		}
		v.Email = s.Form.Email()
	case navigation.Success:
		v.Title = TitleSuccess
		v.Body = SuccessBody
	}
	v.Notices = s.drainNotices()
	return v
}
