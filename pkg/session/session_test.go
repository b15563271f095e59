package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestWithCookies(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestStore_LoginLogout(t *testing.T) {
	store := NewStore("secret", 3600, false)

	_, ok := store.CurrentUser(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)

	rec := httptest.NewRecorder()
	require.NoError(t, store.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", nil), "thorke"))

	username, ok := store.CurrentUser(requestWithCookies(rec))
	require.True(t, ok)
	assert.Equal(t, "thorke", username)

	out := httptest.NewRecorder()
	require.NoError(t, store.Logout(out, requestWithCookies(rec)))
	cookies := out.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestStore_RejectsForeignCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, NewStore("one", 3600, false).Login(rec, httptest.NewRequest(http.MethodGet, "/", nil), "thorke"))

	_, ok := NewStore("two", 3600, false).CurrentUser(requestWithCookies(rec))
	assert.False(t, ok)
}
