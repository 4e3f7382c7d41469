package session

import (
	"errors"
	"strings"
	"time"

	"github.com/kai-os/platform/internal/models"
	jwtpkg "github.com/kai-os/platform/internal/pkg/jwt"
	"github.com/kai-os/platform/internal/store"
)

const DefaultTTL = 30 * 24 * time.Hour

// Issue creates a session record and signs a JWT bound to it.
func Issue(st *store.Store, userID, ip, ua string, ttl time.Duration) (string, *models.SessionModel, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	s := models.SessionModel{
		UserID:    userID,
		IP:        strings.TrimSpace(ip),
		UA:        strings.TrimSpace(ua),
		ExpiresAt: time.Now().UTC().Add(ttl).Format(time.RFC3339),
	}
	fields, err := models.ToRecord(&s)
	if err != nil {
		return "", nil, err
	}
	rec, err := st.Create(models.CollectionSessions, fields)
	if err != nil {
		return "", nil, err
	}
	if err := models.FromRecord(rec, &s); err != nil {
		return "", nil, err
	}

	token, err := jwtpkg.Sign(userID, s.ID, ttl)
	if err != nil {
		_ = st.Delete(models.CollectionSessions, s.ID)
		return "", nil, err
	}
	return token, &s, nil
}

// IsActive reports whether the session exists, belongs to the user, is not
// revoked, and has not expired.
func IsActive(st *store.Store, userID, sessionID string) (bool, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return false, nil
	}

	rec, err := st.Get(models.CollectionSessions, sessionID)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	var s models.SessionModel
	if err := models.FromRecord(rec, &s); err != nil {
		return false, err
	}
	return s.UserID == userID && s.RevokedAt == "" && !expired(s.ExpiresAt), nil
}

// ListActive returns the user's live sessions, in creation order.
func ListActive(st *store.Store, userID string) ([]models.SessionModel, error) {
	records, err := st.List(models.CollectionSessions)
	if err != nil {
		return nil, err
	}
	out := make([]models.SessionModel, 0, len(records))
	for _, rec := range records {
		var s models.SessionModel
		if err := models.FromRecord(rec, &s); err != nil {
			return nil, err
		}
		if s.UserID == userID && s.RevokedAt == "" && !expired(s.ExpiresAt) {
			out = append(out, s)
		}
	}
	return out, nil
}

// Revoke marks the session revoked. Returns store.ErrNotFound when the
// session does not exist or belongs to another user.
func Revoke(st *store.Store, userID, sessionID string) error {
	rec, err := st.Get(models.CollectionSessions, sessionID)
	if err != nil {
		return err
	}
	var s models.SessionModel
	if err := models.FromRecord(rec, &s); err != nil {
		return err
	}
	if s.UserID != userID {
		return store.ErrNotFound
	}
	_, err = st.Update(models.CollectionSessions, sessionID, store.Record{
		"revokedAt": store.NowISO(),
	})
	return err
}

func expired(expiresAt string) bool {
	t, err := time.Parse(time.RFC3339, expiresAt)
	if err != nil {
		return true
	}
	return !t.After(time.Now())
}
