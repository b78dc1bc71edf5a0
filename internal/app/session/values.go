package session

import (
	"encoding/base64"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/securecookie"

	"github.com/FACorreiaa/go-ellarises/internal/app/models"
)

const (
	userKey = "user"
	csrfKey = "csrf_token"

	FlashSuccess = "success"
	FlashError   = "error"
)

// From returns the session attached by the sessions middleware.
func From(c *gin.Context) sessions.Session {
	return sessions.Default(c)
}

// User returns the snapshot stored at login, or nil for anonymous sessions and records that break the UserRef
// invariant.
func User(s sessions.Session) *models.UserRef {
	u, ok := s.Get(userKey).(models.UserRef)
	if !ok || !u.Valid() {
		return nil
	}
	return &u
}

// Login stores the user snapshot and saves the session.
func Login(s sessions.Session, user models.UserRef) error {
	s.Set(userKey, user)
	return s.Save()
}

// Destroy clears every value, deletes the backend entry and expires the cookie.
func Destroy(s sessions.Session) error {
	s.Clear()
	s.Options(sessions.Options{Path: "/", MaxAge: -1, HttpOnly: true})
	return s.Save()
}

// CSRFToken returns the session token, creating one when absent. created reports whether the session must be saved.
func CSRFToken(s sessions.Session) (token string, created bool) {
	if t, ok := s.Get(csrfKey).(string); ok && t != "" {
		return t, false
	}
	token = base64.RawURLEncoding.EncodeToString(securecookie.GenerateRandomKey(32))
	s.Set(csrfKey, token)
	return token, true
}

// AddSuccess queues a success message for the next rendered page.
func AddSuccess(s sessions.Session, msg string) error {
	s.AddFlash(msg, FlashSuccess)
	return s.Save()
}

// AddError queues an error message for the next rendered page.
func AddError(s sessions.Session, msg string) error {
	s.AddFlash(msg, FlashError)
	return s.Save()
}

// DrainFlashes empties one flash category and returns its messages in insertion order. The caller saves.
func DrainFlashes(s sessions.Session, category string) []string {
	raw := s.Flashes(category)
	if len(raw) == 0 {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if msg, ok := v.(string); ok {
			out = append(out, msg)
		}
	}
	return out
}
