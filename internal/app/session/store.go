// Package session provides the server-side session store: the cookie carries only a signed opaque id and the
// session values live in a Backend with a TTL.
package session

import (
	"encoding/base32"
	"encoding/gob"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	gsessions "github.com/gorilla/sessions"
	"github.com/gorilla/securecookie"

	"github.com/FACorreiaa/go-ellarises/internal/app/models"
)

func init() {
	gob.Register(models.UserRef{})
	gob.Register([]interface{}{})
}

var _ sessions.Store = (*Store)(nil)

type Store struct {
	backend    Backend
	codecs     []securecookie.Codec
	options    *gsessions.Options
	serializer securecookie.GobEncoder
}

// NewStore signs session ids with keyPairs (hash key, optional block key, ...), like gorilla's stores do.
func NewStore(backend Backend, keyPairs ...[]byte) *Store {
	s := &Store{
		backend: backend,
		codecs:  securecookie.CodecsFromPairs(keyPairs...),
		options: &gsessions.Options{
			Path:     "/",
			MaxAge:   int((24 * time.Hour).Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		},
	}
	s.syncCodecMaxAge(s.options.MaxAge)
	return s
}

// Options sets the defaults applied to every new session.
func (s *Store) Options(options sessions.Options) {
	s.options = options.ToGorillaOptions()
	if s.options.MaxAge > 0 {
		s.syncCodecMaxAge(s.options.MaxAge)
	}
}

func (s *Store) syncCodecMaxAge(age int) {
	for _, codec := range s.codecs {
		if sc, ok := codec.(*securecookie.SecureCookie); ok {
			sc.MaxAge(age)
		}
	}
}

func (s *Store) Get(r *http.Request, name string) (*gsessions.Session, error) {
	return gsessions.GetRegistry(r).Get(s, name)
}

// New loads the session named by the request cookie. A missing, forged or expired id yields a fresh anonymous
// session; only backend failures are reported.
func (s *Store) New(r *http.Request, name string) (*gsessions.Session, error) {
	session := gsessions.NewSession(s, name)
	opts := *s.options
	session.Options = &opts
	session.IsNew = true

	cookie, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}

	var id string
	if err := securecookie.DecodeMulti(name, cookie.Value, &id, s.codecs...); err != nil {
		return session, nil
	}

	data, err := s.backend.Get(r.Context(), id)
	if errors.Is(err, ErrSessionNotFound) {
		return session, nil
	}
	if err != nil {
		return session, err
	}

	values := make(map[interface{}]interface{})
	if err := s.serializer.Deserialize(data, &values); err != nil {
		return session, nil
	}

	session.ID = id
	session.Values = values
	session.IsNew = false
	return session, nil
}

// Save persists the session. A non-positive MaxAge destroys it: the backend entry is deleted and the cookie expired.
func (s *Store) Save(r *http.Request, w http.ResponseWriter, session *gsessions.Session) error {
	ctx := r.Context()

	if session.Options.MaxAge <= 0 {
		if session.ID != "" {
			if err := s.backend.Delete(ctx, session.ID); err != nil {
				return err
			}
		}
		http.SetCookie(w, gsessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = newSessionID()
	}

	data, err := s.serializer.Serialize(session.Values)
	if err != nil {
		return fmt.Errorf("serialize session: %w", err)
	}

	ttl := time.Duration(session.Options.MaxAge) * time.Second
	if err := s.backend.Set(ctx, session.ID, data, ttl); err != nil {
		return err
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.codecs...)
	if err != nil {
		return fmt.Errorf("encode session cookie: %w", err)
	}
	http.SetCookie(w, gsessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

func newSessionID() string {
	return strings.TrimRight(base32.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)), "=")
}
