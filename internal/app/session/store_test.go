package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-ellarises/internal/app/models"
)

const cookieName = "ella.sid"

func newTestStore() (*Store, *MemoryBackend) {
	backend := NewMemoryBackend(time.Hour)
	return NewStore(backend, []byte("0123456789abcdef0123456789abcdef")), backend
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", cookieName)
	return nil
}

func TestStoreRoundTrip(t *testing.T) {
	store, _ := newTestStore()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	s, err := store.New(req, cookieName)
	require.NoError(t, err)
	assert.True(t, s.IsNew)

	user := models.UserRef{ID: 7, Email: "a@x.com", Role: models.RoleManager}
	s.Values[userKey] = user
	rec := httptest.NewRecorder()
	require.NoError(t, store.Save(req, rec, s))
	require.NotEmpty(t, s.ID)

	cookie := sessionCookie(t, rec)
	assert.NotContains(t, cookie.Value, "a@x.com")
	assert.True(t, cookie.HttpOnly)

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(cookie)
	loaded, err := store.New(next, cookieName)
	require.NoError(t, err)

	assert.False(t, loaded.IsNew)
	assert.Equal(t, s.ID, loaded.ID)
	assert.Equal(t, user, loaded.Values[userKey])
}

func TestStoreForgedCookieStartsFreshSession(t *testing.T) {
	store, _ := newTestStore()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "not-a-signed-id"})

	s, err := store.New(req, cookieName)
	require.NoError(t, err)
	assert.True(t, s.IsNew)
	assert.Empty(t, s.ID)
	assert.Empty(t, s.Values)
}

func TestStoreExpiredBackendEntryStartsFreshSession(t *testing.T) {
	store, backend := newTestStore()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	s, err := store.New(req, cookieName)
	require.NoError(t, err)
	s.Values["k"] = "v"
	rec := httptest.NewRecorder()
	require.NoError(t, store.Save(req, rec, s))

	require.NoError(t, backend.Delete(context.Background(), s.ID))

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(sessionCookie(t, rec))
	loaded, err := store.New(next, cookieName)
	require.NoError(t, err)
	assert.True(t, loaded.IsNew)
	assert.Nil(t, loaded.Values["k"])
}

func TestStoreSaveWithNegativeMaxAgeDestroys(t *testing.T) {
	store, backend := newTestStore()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	s, err := store.New(req, cookieName)
	require.NoError(t, err)
	s.Values["k"] = "v"
	require.NoError(t, store.Save(req, httptest.NewRecorder(), s))
	id := s.ID

	s.Options.MaxAge = -1
	rec := httptest.NewRecorder()
	require.NoError(t, store.Save(req, rec, s))

	_, err = backend.Get(context.Background(), id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.True(t, sessionCookie(t, rec).MaxAge < 0)
}

func TestMemoryBackendCopiesValues(t *testing.T) {
	backend := NewMemoryBackend(time.Minute)
	ctx := context.Background()

	value := []byte("abc")
	require.NoError(t, backend.Set(ctx, "id", value, time.Minute))
	value[0] = 'z'

	got, err := backend.Get(ctx, "id")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)

	_, err = backend.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryBackendExpires(t *testing.T) {
	backend := NewMemoryBackend(time.Minute)
	ctx := context.Background()

	require.NoError(t, backend.Set(ctx, "id", []byte("x"), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, err := backend.Get(ctx, "id")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
