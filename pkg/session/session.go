// Package session keeps the logged-in username in a signed cookie.
package session

import (
	"crypto/sha256"
	"net/http"

	"github.com/gorilla/sessions"
)

// Name is the session cookie name.
const Name = "movie-session"

const keyUsername = "username"

type Store struct {
	cookies *sessions.CookieStore
}

// NewStore derives a 32-byte signing key from secret. maxAge is in seconds.
func NewStore(secret string, maxAge int, secure bool) *Store {
	key := sha256.Sum256([]byte(secret))

	cookies := sessions.NewCookieStore(key[:])
	cookies.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Store{cookies: cookies}
}

// CurrentUser returns the username stored in the request's session. A
// missing or tampered cookie reads as logged out.
func (s *Store) CurrentUser(r *http.Request) (string, bool) {
	sess, err := s.cookies.Get(r, Name)
	if err != nil {
		return "", false
	}
	username, ok := sess.Values[keyUsername].(string)
	if !ok || username == "" {
		return "", false
	}
	return username, true
}

func (s *Store) Login(w http.ResponseWriter, r *http.Request, username string) error {
	sess, _ := s.cookies.Get(r, Name)
	sess.Values[keyUsername] = username
	return sess.Save(r, w)
}

// Logout clears the session and expires the cookie.
func (s *Store) Logout(w http.ResponseWriter, r *http.Request) error {
	sess, _ := s.cookies.Get(r, Name)
	delete(sess.Values, keyUsername)
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}
