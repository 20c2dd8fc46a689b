package screen

import (
	"testing"
	"time"

	"cookcam_backend/internal/access"
	"cookcam_backend/internal/form"
	"cookcam_backend/internal/guard"
	"cookcam_backend/internal/identity/identitytest"
	"cookcam_backend/internal/profile/profiletest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(ttl time.Duration) (*Store, *time.Time) {
	coord := access.NewCoordinator(new(identitytest.MockProvider), new(profiletest.MockRepository), zap.NewNop())
	st := NewStore(coord, guard.NewLocal(), ttl, zap.NewNop())
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return now }
	return st, &now
}

func TestStore_GetUnknown(t *testing.T) {
	st, _ := newTestStore(time.Minute)
	_, err := st.Get("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStore_SweepRemovesIdleSessions(t *testing.T) {
	st, now := newTestStore(30 * time.Minute)
	idle := st.Create()
	*now = now.Add(20 * time.Minute)
	active := st.Create()

	*now = now.Add(15 * time.Minute)
	removed := st.Sweep(*now)

	assert.Equal(t, 1, removed)
	_, err := st.Get(idle.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = st.Get(active.ID)
	assert.NoError(t, err)
}

func TestStore_GetKeepsSessionAlive(t *testing.T) {
	st, now := newTestStore(10 * time.Minute)
	sess := st.Create()

	*now = now.Add(8 * time.Minute)
	_, err := st.Get(sess.ID)
	require.NoError(t, err)

	*now = now.Add(8 * time.Minute)
	assert.Equal(t, 0, st.Sweep(*now))
}

func TestStore_SweepRemovesExited(t *testing.T) {
	st, now := newTestStore(0)
	sess := st.Create()
	_, exited := sess.Nav.Back()
	require.True(t, exited)

	assert.Equal(t, 1, st.Sweep(*now))
	assert.Equal(t, 0, st.Len())
}

func TestSession_ViewDrainsNotices(t *testing.T) {
	st, _ := newTestStore(0)
	sess := st.Create()
	sess.Notify(form.Notice{Kind: form.NoticeInvalidEmail, Message: "Correo inválido"})

	first := sess.View()
	second := sess.View()

	assert.Len(t, first.Notices, 1)
	assert.Empty(t, second.Notices)
	assert.NotNil(t, second.Notices)
}
