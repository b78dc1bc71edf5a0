package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/go-ellarises/internal/app/domain/participants"
	"github.com/FACorreiaa/go-ellarises/internal/app/models"
	"github.com/FACorreiaa/go-ellarises/internal/app/observability/metrics"
	"github.com/FACorreiaa/go-ellarises/internal/app/session"
	"github.com/FACorreiaa/go-ellarises/internal/pkg/config"
	"github.com/FACorreiaa/go-ellarises/internal/routes"
)

const (
	managerEmail = "director@ellarises.org"
	userEmail    = "member@example.com"
	password     = "correct-horse"
)

// userStore backs both the auth and admin repositories so role changes are visible at the next login.
type userStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]*models.UserAuth
}

func newUserStore(t *testing.T) *userStore {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	s := &userStore{nextID: 1, users: map[string]*models.UserAuth{}}
	for _, u := range []struct {
		email string
		role  models.Role
	}{{managerEmail, models.RoleManager}, {userEmail, models.RoleUser}} {
		s.users[u.email] = &models.UserAuth{ID: s.nextID, Email: u.email, PasswordHash: string(hash), Role: u.role}
		s.nextID++
	}
	return s
}

func (s *userStore) GetUserByEmail(_ context.Context, email string) (*models.UserAuth, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *userStore) CreateUserWithParticipant(_ context.Context, user *models.UserAuth, _ models.Participant) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.Email]; ok {
		return 0, models.ErrConflict
	}
	cp := *user
	cp.ID = s.nextID
	s.nextID++
	s.users[cp.Email] = &cp
	return cp.ID, nil
}

func (s *userStore) UserRole(_ context.Context, email string) (models.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return "", models.ErrNotFound
	}
	return u.Role, nil
}

func (s *userStore) SetRole(_ context.Context, email string, role models.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return models.ErrNotFound
	}
	u.Role = role
	return nil
}

type fixedStats struct{}

func (fixedStats) CountParticipants(context.Context) (int64, error) { return 12, nil }
func (fixedStats) CountEvents(context.Context) (int64, error)       { return 3, nil }
func (fixedStats) DonationTotals(context.Context) (int64, float64, error) {
	return 4, 1500.25, nil
}

// countingParticipants records creates; the rest of the interface is unused by these tests.
type countingParticipants struct {
	participants.Repository
	mu      sync.Mutex
	created int
}

func (p *countingParticipants) List(context.Context) ([]models.Participant, error) {
	return []models.Participant{{ID: 1, Email: userEmail, FirstName: "Ana", LastName: "Lopez", Role: models.RoleUser}}, nil
}

func (p *countingParticipants) Create(context.Context, models.Participant) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created++
	return int64(p.created), nil
}

type testEnv struct {
	handler      http.Handler
	users        *userStore
	participants *countingParticipants
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Env:        "test",
		BcryptCost: bcrypt.MinCost,
		Session: config.SessionConfig{
			Name:   "ella.sid",
			Secret: "test-secret-0123456789abcdef0123",
			TTL:    time.Hour,
		},
		Observability: config.ObservabilityConfig{ServiceName: "ella-rises-test"},
		StatsCacheTTL: time.Minute,
		MaxBodyBytes:  1 << 20,
	}
	users := newUserStore(t)
	parts := &countingParticipants{}

	r, err := SetupRouter(RouterDeps{
		Config:  cfg,
		Logger:  zap.NewNop(),
		Metrics: metrics.New(prometheus.NewRegistry()),
		Store:   NewSessionStore(cfg.Session, session.NewMemoryBackend(cfg.Session.TTL)),
		Repos: routes.Repositories{
			Auth:         users,
			Admin:        users,
			Statistics:   fixedStats{},
			Participants: parts,
		},
	})
	require.NoError(t, err)
	return &testEnv{handler: r, users: users, participants: parts}
}

// client is a browser stand-in that keeps cookies between requests.
type client struct {
	t       *testing.T
	handler http.Handler
	cookies map[string]*http.Cookie
}

func (e *testEnv) client(t *testing.T) *client {
	return &client{t: t, handler: e.handler, cookies: map[string]*http.Cookie{}}
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return rec
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *client) doc(path string) *goquery.Document {
	rec := c.get(path)
	require.Equal(c.t, http.StatusOK, rec.Code, path)
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(c.t, err)
	return doc
}

// csrf reads the token from the login form the way a browser would submit it.
func (c *client) csrf() string {
	token, ok := c.doc("/login").Find(`#login-form input[name="_csrf"]`).Attr("value")
	require.True(c.t, ok)
	require.NotEmpty(c.t, token)
	return token
}

// submit posts form with the session's CSRF token.
func (c *client) submit(path string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	form.Set("_csrf", c.csrf())
	return c.post(path, form)
}

func (c *client) login(email string) {
	rec := c.submit("/login", url.Values{"email": {email}, "password": {password}})
	require.Equal(c.t, http.StatusSeeOther, rec.Code)
	require.Equal(c.t, "/home", rec.Header().Get("Location"))
}

func flashes(doc *goquery.Document, kind string) []string {
	var out []string
	doc.Find(".flash-" + kind).Each(func(_ int, s *goquery.Selection) {
		out = append(out, strings.TrimSpace(s.Text()))
	})
	return out
}

func TestTeapotRegardlessOfAuthState(t *testing.T) {
	env := newTestEnv(t)
	anon := env.client(t)
	member := env.client(t)
	member.login(userEmail)

	for _, c := range []*client{anon, member} {
		rec := c.get("/teapot")
		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.Equal(t, "I'm a teapot", rec.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	rec := newTestEnv(t).client(t).get("/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestLandingShowsStatistics(t *testing.T) {
	doc := newTestEnv(t).client(t).doc("/")

	assert.Contains(t, doc.Find("#stat-participants").Text(), "12")
	assert.Contains(t, doc.Find("#stat-donation-total").Text(), "$1,500.25")
}

func TestUnknownPathRendersLandingWith404(t *testing.T) {
	rec := newTestEnv(t).client(t).get("/no/such/page")

	require.Equal(t, http.StatusNotFound, rec.Code)
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, doc.Find("#stat-participants").Text(), "0")
	assert.Contains(t, doc.Find("title").Text(), "Page Not Found")
}

func TestAssetsBypassSessions(t *testing.T) {
	rec := newTestEnv(t).client(t).get("/assets/css/app.css")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestPagesCarrySessionCookieAndSecurityHeaders(t *testing.T) {
	rec := newTestEnv(t).client(t).get("/login")

	require.Equal(t, http.StatusOK, rec.Code)
	var sid *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "ella.sid" {
			sid = ck
		}
	}
	require.NotNil(t, sid)
	assert.True(t, sid.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, sid.SameSite)
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestMutationWithoutCSRFTokenIsRejectedBeforeHandler(t *testing.T) {
	env := newTestEnv(t)
	manager := env.client(t)
	manager.login(managerEmail)

	form := url.Values{"email": {"new@example.com"}, "first_name": {"New"}, "last_name": {"Person"}}
	rec := manager.post("/participants", form)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "CSRF token validation failed.", rec.Body.String())
	assert.Zero(t, env.participants.created)

	rec = manager.submit("/participants", form)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, 1, env.participants.created)
}

func TestGuards(t *testing.T) {
	env := newTestEnv(t)
	anon := env.client(t)
	member := env.client(t)
	member.login(userEmail)

	rec := anon.get("/participants")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.Equal(t, []string{"Please log in first"}, flashes(anon.doc("/login"), "error"))

	rec = member.get("/admin/make-manager")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/home", rec.Header().Get("Location"))
	assert.Equal(t, []string{"Managers only"}, flashes(member.doc("/home"), "error"))

	assert.Equal(t, http.StatusOK, member.get("/participants").Code)
}

func TestSignupLogsInAndRejectsDuplicates(t *testing.T) {
	env := newTestEnv(t)
	newcomer := env.client(t)

	rec := newcomer.submit("/signup", url.Values{
		"email":      {"Newcomer@Example.com"},
		"password":   {"long-enough-pw"},
		"first_name": {"Nia"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/home", rec.Header().Get("Location"))

	home := newcomer.doc("/home")
	assert.Equal(t, []string{"Account created successfully!"}, flashes(home, "success"))
	assert.Empty(t, flashes(newcomer.doc("/home"), "success"), "flash is shown once")

	other := env.client(t)
	rec = other.submit("/signup", url.Values{"email": {"newcomer@example.com"}, "password": {"another-password"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/signup", rec.Header().Get("Location"))
	assert.Equal(t, []string{"An account with that email already exists."}, flashes(other.doc("/signup"), "error"))
}

func TestSignupAcceptsPaddedEmail(t *testing.T) {
	env := newTestEnv(t)
	padded := env.client(t)

	rec := padded.submit("/signup", url.Values{
		"email":    {"  Padded@Example.com "},
		"password": {"long-enough-pw"},
	})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/home", rec.Header().Get("Location"))
	_, err := env.users.GetUserByEmail(context.Background(), "padded@example.com")
	assert.NoError(t, err)

	rec = env.client(t).submit("/signup", url.Values{"email": {"   "}, "password": {"long-enough-pw"}})
	assert.Equal(t, "/signup", rec.Header().Get("Location"))
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	env := newTestEnv(t)

	attempt := func(email, pw string) []string {
		c := env.client(t)
		rec := c.submit("/login", url.Values{"email": {email}, "password": {pw}})
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/login", rec.Header().Get("Location"))
		return flashes(c.doc("/login"), "error")
	}

	unknown := attempt("nobody@example.com", password)
	wrong := attempt(userEmail, "wrong-password")

	assert.Equal(t, []string{"Invalid email or password"}, unknown)
	assert.Equal(t, unknown, wrong)
}

func TestLogoutDestroysSession(t *testing.T) {
	env := newTestEnv(t)
	member := env.client(t)
	member.login(userEmail)
	before := member.csrf()

	rec := member.submit("/logout", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = member.get("/home")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.NotEqual(t, before, member.csrf())
}

func TestPromotionTakesEffectAtNextLogin(t *testing.T) {
	env := newTestEnv(t)
	manager := env.client(t)
	manager.login(managerEmail)
	member := env.client(t)
	member.login(userEmail)

	rec := manager.submit("/admin/make-manager", url.Values{"email": {userEmail}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, []string{"Promoted " + userEmail + " to manager."}, flashes(manager.doc("/admin/make-manager"), "success"))

	// The member's session still holds the role snapshot taken at login.
	assert.Equal(t, http.StatusFound, member.get("/admin/make-manager").Code)

	member.submit("/logout", nil)
	member.login(userEmail)
	assert.Equal(t, http.StatusOK, member.get("/admin/make-manager").Code)
}

func TestManagerCannotDemoteSelf(t *testing.T) {
	env := newTestEnv(t)
	manager := env.client(t)
	manager.login(managerEmail)

	rec := manager.submit("/admin/remove-manager", url.Values{"email": {managerEmail}})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	role, err := env.users.UserRole(context.Background(), managerEmail)
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, role)
}
