package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_IssuesCookieAndSession(t *testing.T) {
	var gotDevice, gotSession string
	h := Middleware(true)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotDevice = DeviceIDFromContext(r.Context())
		gotSession = SessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(SessionHeaderName, "page-abc")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Regexp(t, anonIDPattern, gotDevice)
	assert.Equal(t, "page-abc", gotSession)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, gotDevice, cookies[0].Value)
	assert.False(t, cookies[0].Secure)
}

func TestMiddleware_ReusesValidCookie(t *testing.T) {
	const existing = "anon_0123456789abcdef0123456789abcdef"
	var got string
	h := Middleware(false)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = DeviceIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/?session_id=tab-1", nil)
	req.AddCookie(&http.Cookie{Name: AnonCookieName, Value: existing})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, existing, got)
	assert.True(t, w.Result().Cookies()[0].Secure)
}

func TestMiddleware_ReplacesForgedCookie(t *testing.T) {
	var got string
	h := Middleware(true)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = DeviceIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AnonCookieName, Value: "admin"})
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.NotEqual(t, "admin", got)
	assert.Regexp(t, anonIDPattern, got)
}

func TestSessionIDSanitized(t *testing.T) {
	ctx := WithIDs(context.Background(), "anon_x", "bad id with spaces")
	assert.Equal(t, DefaultSessionIDValue, SessionIDFromContext(ctx))
	assert.Equal(t, "anon_x:default", KeyFromContext(ctx))

	assert.Equal(t, DefaultSessionIDValue, SessionIDFromContext(context.Background()))
}
