package session

import (
	"errors"
	"testing"
	"time"

	jwtpkg "github.com/kai-os/platform/internal/pkg/jwt"
	"github.com/kai-os/platform/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(t.TempDir())
	require.NoError(t, err)
	return st
}

func TestIssueAndVerify(t *testing.T) {
	st := newTestStore(t)

	token, s, err := Issue(st, "u1", "127.0.0.1", "go-test", 0)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, s.ID)

	claims, err := jwtpkg.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, s.ID, claims.SessionID)

	active, err := IsActive(st, "u1", s.ID)
	require.NoError(t, err)
	assert.True(t, active)
}

func TestIsActiveRejectsForeignUser(t *testing.T) {
	st := newTestStore(t)

	_, s, err := Issue(st, "u1", "", "", 0)
	require.NoError(t, err)

	active, err := IsActive(st, "u2", s.ID)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestIsActiveUnknownSession(t *testing.T) {
	st := newTestStore(t)

	active, err := IsActive(st, "u1", "nope")
	require.NoError(t, err)
	assert.False(t, active)

	active, err = IsActive(st, "u1", "")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestExpiredSessionIsInactive(t *testing.T) {
	st := newTestStore(t)

	_, s, err := Issue(st, "u1", "", "", 0)
	require.NoError(t, err)

	_, err = st.Update("sessions", s.ID, store.Record{
		"expiresAt": time.Now().UTC().Add(-time.Minute).Format(time.RFC3339),
	})
	require.NoError(t, err)

	active, err := IsActive(st, "u1", s.ID)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestRevoke(t *testing.T) {
	st := newTestStore(t)

	_, s, err := Issue(st, "u1", "", "", 0)
	require.NoError(t, err)

	require.NoError(t, Revoke(st, "u1", s.ID))

	active, err := IsActive(st, "u1", s.ID)
	require.NoError(t, err)
	assert.False(t, active)

	sessions, err := ListActive(st, "u1")
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestRevokeForeignSession(t *testing.T) {
	st := newTestStore(t)

	_, s, err := Issue(st, "u1", "", "", 0)
	require.NoError(t, err)

	err = Revoke(st, "u2", s.ID)
	assert.True(t, errors.Is(err, store.ErrNotFound))

	// Still live for the owner.
	active, err := IsActive(st, "u1", s.ID)
	require.NoError(t, err)
	assert.True(t, active)
}

func TestListActiveFiltersByUser(t *testing.T) {
	st := newTestStore(t)

	_, first, err := Issue(st, "u1", "", "", 0)
	require.NoError(t, err)
	_, _, err = Issue(st, "u2", "", "", 0)
	require.NoError(t, err)
	_, second, err := Issue(st, "u1", "", "", 0)
	require.NoError(t, err)

	sessions, err := ListActive(st, "u1")
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, first.ID, sessions[0].ID)
	assert.Equal(t, second.ID, sessions[1].ID)
}
