package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"p9e.in/washreport/pkg/wizard"
)

func newSessions(ttl time.Duration) (*Sessions, *wizard.Store) {
	store := wizard.NewStore(ttl, func() *wizard.Controller { return wizard.NewController(nil, nil) })
	return NewSessions([]byte("test-secret"), ttl, store), store
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	t.Fatalf("response has no %s cookie", SessionCookie)
	return nil
}

func TestSessionMiddlewareReusesController(t *testing.T) {
	s, store := newSessions(time.Hour)
	var seen []*wizard.Controller
	h := s.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, GetController(r))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	cookie := sessionCookie(t, rec.Result())
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.Len(t, seen, 2)
	require.NotNil(t, seen[0])
	assert.Same(t, seen[0], seen[1])
	assert.Equal(t, 1, store.Len())
}

func TestSessionMiddlewareRejectsTamperedCookie(t *testing.T) {
	s, store := newSessions(time.Hour)
	h := s.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	id, _ := store.Create()
	other := NewSessions([]byte("another-secret"), time.Hour, store)
	forged, err := other.GenerateToken(id)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: forged})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	sid, err := s.ParseToken(sessionCookie(t, rec.Result()).Value)
	require.NoError(t, err)
	assert.NotEqual(t, id, sid)
	assert.Equal(t, 2, store.Len())
}

func TestParseTokenExpiry(t *testing.T) {
	s, _ := newSessions(time.Minute)
	now := time.Now()
	s.now = func() time.Time { return now }

	token, err := s.GenerateToken("abc")
	require.NoError(t, err)

	sid, err := s.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "abc", sid)

	now = now.Add(2 * time.Minute)
	_, err = s.ParseToken(token)
	assert.Error(t, err)

	_, err = s.ParseToken("not-a-token")
	assert.Error(t, err)
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(0.001, 2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	codes := make([]int, 3)
	for i := range codes {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/review/confirm", nil))
		codes[i] = rec.Code
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
}

func TestRequestLogSetsRequestID(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	var inner string
	h := RequestLog(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inner = GetRequestID(r)
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.NotEmpty(t, inner)
	assert.Equal(t, inner, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "upstream-1")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "upstream-1", inner)
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", getClientIP(req))

	req.Header.Set("X-Real-IP", "10.0.0.2")
	assert.Equal(t, "10.0.0.2", getClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.2")
	assert.Equal(t, "203.0.113.7", getClientIP(req))
}
