package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/FACorreiaa/go-ellarises/internal/app/models"
	"github.com/FACorreiaa/go-ellarises/internal/app/session"
)

const stateKey = "requestState"

// RequestState is the per-request view of the session: the user snapshot, the flash messages drained for this
// response and the CSRF token to embed in forms.
type RequestState struct {
	User      *models.UserRef
	Success   []string
	Errors    []string
	CSRFToken string
}

// SessionState loads the user, drains both flash queues exactly once and makes sure a CSRF token exists.
// It must run after the sessions middleware and before CSRF verification.
func SessionState() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := session.From(c)

		state := &RequestState{
			User:    session.User(s),
			Success: session.DrainFlashes(s, session.FlashSuccess),
			Errors:  session.DrainFlashes(s, session.FlashError),
		}
		state.CSRFToken, _ = session.CSRFToken(s)

		if err := s.Save(); err != nil {
			_ = c.Error(fmt.Errorf("save session: %w", err))
			c.Abort()
			return
		}

		c.Set(stateKey, state)
		c.Next()
	}
}

// State returns the request state, or an empty anonymous state when SessionState did not run.
func State(c *gin.Context) *RequestState {
	if v, ok := c.Get(stateKey); ok {
		if st, ok := v.(*RequestState); ok {
			return st
		}
	}
	return &RequestState{}
}

// CurrentUser is a shorthand for State(c).User.
func CurrentUser(c *gin.Context) *models.UserRef {
	return State(c).User
}
