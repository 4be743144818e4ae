package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookvault/db"
	"bookvault/internal/session"
	"bookvault/tests/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupManager(t *testing.T) (*session.Manager, db.SessionRepository, func()) {
	factory, cleanup := testutils.SetupTestRepositoryFactory(t)
	repo := factory.NewSessionRepository()
	manager := session.NewManager(repo, testutils.GetTestConfig().SessionSecret)
	return manager, repo, cleanup
}

func TestManager_CreateAndLoad(t *testing.T) {
	manager, _, cleanup := setupManager(t)
	defer cleanup()
	ctx := context.Background()

	sess, err := manager.Create(ctx, "user-1", "alice")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, sess.CreatedAt.Add(session.TTL), sess.ExpiresAt)

	loaded, err := manager.Load(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "user-1", loaded.UserID)
	assert.Equal(t, "alice", loaded.Username)
}

func TestManager_LoadUnknown(t *testing.T) {
	manager, _, cleanup := setupManager(t)
	defer cleanup()

	_, err := manager.Load(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestManager_LoadExpired(t *testing.T) {
	manager, repo, cleanup := setupManager(t)
	defer cleanup()
	ctx := context.Background()

	expired := testutils.CreateTestSession("user-1", "alice", time.Now().Add(-time.Minute))
	require.NoError(t, repo.Create(ctx, expired))

	_, err := manager.Load(ctx, expired.ID)
	assert.ErrorIs(t, err, session.ErrExpired)

	// Expired sessions are deleted on sight.
	_, err = manager.Load(ctx, expired.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestManager_Destroy(t *testing.T) {
	manager, _, cleanup := setupManager(t)
	defer cleanup()
	ctx := context.Background()

	sess, err := manager.Create(ctx, "user-1", "alice")
	require.NoError(t, err)

	require.NoError(t, manager.Destroy(ctx, sess.ID))

	_, err = manager.Load(ctx, sess.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)

	// Destroy is idempotent.
	assert.NoError(t, manager.Destroy(ctx, sess.ID))
}

func TestManager_CookieRoundTrip(t *testing.T) {
	manager, _, cleanup := setupManager(t)
	defer cleanup()
	ctx := context.Background()

	sess, err := manager.Create(ctx, "user-1", "alice")
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	require.NoError(t, manager.Attach(recorder, req, sess))

	cookies := recorder.Result().Cookies()
	require.NotEmpty(t, cookies)

	next := httptest.NewRequest("GET", "/books", nil)
	for _, c := range cookies {
		next.AddCookie(c)
	}

	current, err := manager.Current(next)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, current.ID)
}

func TestManager_CurrentWithoutCookie(t *testing.T) {
	manager, _, cleanup := setupManager(t)
	defer cleanup()

	req := httptest.NewRequest("GET", "/", nil)
	_, err := manager.Current(req)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestManager_TamperedCookie(t *testing.T) {
	manager, _, cleanup := setupManager(t)
	defer cleanup()

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "forged"})

	_, err := manager.Current(req)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestManager_Flashes(t *testing.T) {
	manager, _, cleanup := setupManager(t)
	defer cleanup()

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/login", nil)
	require.NoError(t, manager.AddFlash(recorder, req, "Invalid username or password"))

	next := httptest.NewRequest("GET", "/login", nil)
	for _, c := range recorder.Result().Cookies() {
		next.AddCookie(c)
	}

	flashes := manager.Flashes(httptest.NewRecorder(), next)
	require.Len(t, flashes, 1)
	assert.Equal(t, "Invalid username or password", flashes[0])
}

func TestSessionRepository_DeleteExpired(t *testing.T) {
	_, repo, cleanup := setupManager(t)
	defer cleanup()
	ctx := context.Background()

	live := testutils.CreateTestSession("u1", "alice", time.Now().Add(time.Hour))
	dead := testutils.CreateTestSession("u2", "bob", time.Now().Add(-time.Hour))
	require.NoError(t, repo.Create(ctx, live))
	require.NoError(t, repo.Create(ctx, dead))

	n, err := repo.DeleteExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.FindByID(ctx, live.ID)
	assert.NoError(t, err)
	_, err = repo.FindByID(ctx, dead.ID)
	assert.ErrorIs(t, err, db.ErrNotFound)
}
