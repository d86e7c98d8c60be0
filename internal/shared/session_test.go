package shared

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *SessionManager {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionManager(client, "ledgerline_session", "test-secret", time.Hour, false)
}

func TestSessionRoundTrip(t *testing.T) {
	sm := newTestManager(t)
	ctx := context.Background()

	id := Identity{CompanyID: uuid.New(), UserID: uuid.New()}
	rec := httptest.NewRecorder()
	_, err := sm.Issue(ctx, rec, id)
	require.NoError(t, err)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])

	loaded, err := sm.Load(ctx, req)
	require.NoError(t, err)
	require.Equal(t, id.CompanyID, loaded.CompanyID)
	require.Equal(t, id.UserID, loaded.UserID)
}

func TestSessionLoadWithoutCookie(t *testing.T) {
	sm := newTestManager(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := sm.Load(context.Background(), req)
	require.ErrorIs(t, err, ErrNoSession)
}

func TestSessionRejectsTamperedCookie(t *testing.T) {
	sm := newTestManager(t)
	ctx := context.Background()

	rec := httptest.NewRecorder()
	token, err := sm.Issue(ctx, rec, Identity{CompanyID: uuid.New(), UserID: uuid.New()})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "ledgerline_session", Value: token + ".forged-signature"})

	_, err = sm.Load(ctx, req)
	require.ErrorIs(t, err, ErrNoSession)
}

func TestSessionDestroy(t *testing.T) {
	sm := newTestManager(t)
	ctx := context.Background()

	id := Identity{CompanyID: uuid.New(), UserID: uuid.New()}
	rec := httptest.NewRecorder()
	_, err := sm.Issue(ctx, rec, id)
	require.NoError(t, err)

	cookie := rec.Result().Cookies()[0]
	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(cookie)

	destroyRec := httptest.NewRecorder()
	require.NoError(t, sm.Destroy(ctx, destroyRec, req))

	again := httptest.NewRequest(http.MethodGet, "/", nil)
	again.AddCookie(cookie)
	_, err = sm.Load(ctx, again)
	require.ErrorIs(t, err, ErrNoSession)
}
