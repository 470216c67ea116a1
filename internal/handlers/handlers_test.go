package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"driverhub/api/internal/config"
	"driverhub/api/internal/models"
	"driverhub/api/internal/ratelimit"
	"driverhub/api/internal/repository"
	"driverhub/api/internal/security"
	"driverhub/api/internal/service"
	"driverhub/api/internal/session"
)

// ---- fakes ----

type fakeUserStore struct {
	users map[string]models.User
}

func (f *fakeUserStore) FindByUsername(_ context.Context, username string) (models.User, error) {
	user, ok := f.users[username]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, userID string, hash []byte) error {
	for name, user := range f.users {
		if user.ID == userID {
			user.PasswordHash = hash
			user.MustChangePassword = false
			f.users[name] = user
			return nil
		}
	}
	return repository.ErrUserNotFound
}

type fakeDriverStore struct {
	drivers []models.Driver
	created []models.Driver
}

func (f *fakeDriverStore) Create(_ context.Context, d models.Driver) error {
	f.created = append(f.created, d)
	return nil
}
func (f *fakeDriverStore) Update(_ context.Context, d models.Driver) error { return nil }
func (f *fakeDriverStore) UpdateStatus(_ context.Context, id string, status models.DriverStatus) error {
	return nil
}
func (f *fakeDriverStore) Delete(_ context.Context, id string) error { return nil }
func (f *fakeDriverStore) GetByID(_ context.Context, id string) (models.Driver, error) {
	for _, d := range f.drivers {
		if d.ID == id {
			return d, nil
		}
	}
	return models.Driver{}, repository.ErrDriverNotFound
}
func (f *fakeDriverStore) List(_ context.Context) ([]models.Driver, error) { return f.drivers, nil }
func (f *fakeDriverStore) Stats(_ context.Context) (models.DriverStats, error) {
	return models.DriverStats{Total: len(f.drivers)}, nil
}

type fakeStickerStore struct{ stickers []models.ExtraSticker }

func (f *fakeStickerStore) List(_ context.Context) ([]models.ExtraSticker, error) {
	return f.stickers, nil
}
func (f *fakeStickerStore) Create(_ context.Context, s models.ExtraSticker) error {
	f.stickers = append(f.stickers, s)
	return nil
}
func (f *fakeStickerStore) Delete(_ context.Context, id string) error { return nil }

type fakeReferralStore struct{ referrals []models.Referral }

func (f *fakeReferralStore) List(_ context.Context) ([]models.Referral, error) {
	return f.referrals, nil
}
func (f *fakeReferralStore) Create(_ context.Context, r models.Referral) error {
	f.referrals = append(f.referrals, r)
	return nil
}
func (f *fakeReferralStore) Delete(_ context.Context, id string) error { return nil }

// ---- fixture ----

type fixture struct {
	router  *gin.Engine
	users   *fakeUserStore
	drivers *fakeDriverStore
}

func hashFor(t *testing.T, password string) []byte {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return hash
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := &fakeUserStore{users: map[string]models.User{
		"admin": {
			ID:                 "usr_admin",
			Username:           "admin",
			PasswordHash:       hashFor(t, "Temp1234"),
			Role:               models.UserRoleAdmin,
			MustChangePassword: true,
		},
		"chef": {
			ID:           "usr_chef",
			Username:     "chef",
			PasswordHash: hashFor(t, "Chef1234"),
			Role:         models.UserRoleAdmin,
		},
		"partner": {
			ID:           "usr_partner",
			Username:     "partner",
			PasswordHash: hashFor(t, "Partner1"),
			Role:         models.UserRolePartner,
		},
	}}

	cfg := &config.AppConfig{Environment: "test"}
	logger := zerolog.Nop()

	sessionMgr := session.NewManager(
		session.NewMemoryStore(),
		"0123456789abcdef0123456789abcdef",
		8*time.Hour,
		session.CookieOptions{Name: "dms_sid"},
	)

	hasher := security.NewHasher(bcrypt.MinCost)
	drivers := &fakeDriverStore{}

	h := HandlerSet{
		log:            logger,
		cfg:            cfg,
		auth:           service.NewAuthService(users, hasher, sessionMgr, logger),
		sessions:       sessionMgr,
		drivers:        drivers,
		stickers:       &fakeStickerStore{},
		referrals:      &fakeReferralStore{},
		loginLimiter:   ratelimit.NewLimiter(5, 15*time.Minute, nil),
		generalLimiter: ratelimit.NewLimiter(1000, time.Minute, nil),
	}

	router := gin.New()
	h.Register(router)

	return &fixture{router: router, users: users, drivers: drivers}
}

func (f *fixture) do(method, path, token string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "dms_sid", Value: token})
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) login(t *testing.T, username, password string) (string, *httptest.ResponseRecorder) {
	t.Helper()
	w := f.do(http.MethodPost, "/auth/login", "", url.Values{
		"username": {username},
		"password": {password},
	})

	for _, c := range w.Result().Cookies() {
		if c.Name == "dms_sid" && c.Value != "" {
			return c.Value, w
		}
	}
	return "", w
}

// ---- login ----

func TestLoginSetsCookieAndRedirects(t *testing.T) {
	f := newFixture(t)

	token, w := f.login(t, "partner", "Partner1")
	require.NotEmpty(t, token)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
}

func TestLoginFailuresAreUndifferentiated(t *testing.T) {
	f := newFixture(t)

	_, unknown := f.login(t, "nobody", "whatever")
	_, wrongPw := f.login(t, "admin", "wrong")
	_, empty := f.login(t, "", "")

	for _, w := range []*httptest.ResponseRecorder{unknown, wrongPw, empty} {
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"invalid_credentials"}`, w.Body.String())
	}
}

func TestLoginWithMustRotateRedirectsToRotation(t *testing.T) {
	f := newFixture(t)

	token, w := f.login(t, "admin", "Temp1234")
	require.NotEmpty(t, token)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/auth/password", w.Header().Get("Location"))
}

func TestMustRotateSessionCannotReachDashboard(t *testing.T) {
	f := newFixture(t)

	token, _ := f.login(t, "admin", "Temp1234")
	w := f.do(http.MethodGet, "/dashboard", token, nil)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/auth/password", w.Header().Get("Location"))
}

func TestLoginRateLimiting(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 5; i++ {
		_, w := f.login(t, "admin", "wrong")
		assert.Equal(t, http.StatusUnauthorized, w.Code, "attempt %d fails normally", i+1)
	}

	_, w := f.login(t, "admin", "Temp1234")
	assert.Equal(t, http.StatusTooManyRequests, w.Code, "sixth attempt is rejected before credentials are checked")
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

// ---- rotation ----

func TestForcedRotationEndToEnd(t *testing.T) {
	f := newFixture(t)

	token, _ := f.login(t, "admin", "Temp1234")

	// Rotation page is reachable, rotation is flagged.
	w := f.do(http.MethodGet, "/auth/password", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"rotationRequired":true`)

	// Weak candidates are rejected in order.
	w = f.do(http.MethodPost, "/auth/password", token, url.Values{
		"currentPassword": {"Temp1234"},
		"newPassword":     {"short1"},
		"confirmPassword": {"short1"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodPost, "/auth/password", token, url.Values{
		"currentPassword": {"Temp1234"},
		"newPassword":     {"alllowercase1"},
		"confirmPassword": {"alllowercase1"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// A valid rotation succeeds and redirects into the application.
	w = f.do(http.MethodPost, "/auth/password", token, url.Values{
		"currentPassword": {"Temp1234"},
		"newPassword":     {"Valid123"},
		"confirmPassword": {"Valid123"},
	})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	// The same session reaches the dashboard on the very next request.
	w = f.do(http.MethodGet, "/dashboard", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// The new credential is live, the old one is dead.
	_, wOld := f.login(t, "admin", "Temp1234")
	assert.Equal(t, http.StatusUnauthorized, wOld.Code)
	newToken, _ := f.login(t, "admin", "Valid123")
	assert.NotEmpty(t, newToken)
}

func TestVoluntaryRotationStaysInPlace(t *testing.T) {
	f := newFixture(t)

	token, _ := f.login(t, "partner", "Partner1")
	w := f.do(http.MethodPost, "/auth/password", token, url.Values{
		"currentPassword": {"Partner1"},
		"newPassword":     {"Fresh123"},
		"confirmPassword": {"Fresh123"},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestRotationRequiresCurrentPassword(t *testing.T) {
	f := newFixture(t)

	token, _ := f.login(t, "partner", "Partner1")
	w := f.do(http.MethodPost, "/auth/password", token, url.Values{
		"currentPassword": {"stolen"},
		"newPassword":     {"Fresh123"},
		"confirmPassword": {"Fresh123"},
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRotationRequiresSession(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/auth/password", "", url.Values{
		"currentPassword": {"x"},
		"newPassword":     {"Valid123"},
		"confirmPassword": {"Valid123"},
	})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/auth/login", w.Header().Get("Location"))
}

// ---- authorization ----

func TestPartnerCannotUseAdminRoutes(t *testing.T) {
	f := newFixture(t)
	token, _ := f.login(t, "partner", "Partner1")

	w := f.do(http.MethodPost, "/drivers/add", token, url.Values{
		"vorname": {"Max"}, "nachname": {"Muster"}, "fahrzeugtyp": {"PKW"},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(http.MethodGet, "/dashboard/export", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPartnerCanUpdateStatus(t *testing.T) {
	f := newFixture(t)
	token, _ := f.login(t, "partner", "Partner1")

	w := f.do(http.MethodPost, "/drivers/status/drv_1", token, url.Values{"status": {"aktiv"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestLogoutDestroysSession(t *testing.T) {
	f := newFixture(t)
	token, _ := f.login(t, "partner", "Partner1")

	w := f.do(http.MethodGet, "/auth/logout", token, nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)

	w = f.do(http.MethodGet, "/dashboard", token, nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/auth/login", w.Header().Get("Location"))

	// Logging out again is harmless.
	w = f.do(http.MethodGet, "/auth/logout", token, nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestRootRedirects(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/", "", nil)
	assert.Equal(t, "/auth/login", w.Header().Get("Location"))

	token, _ := f.login(t, "partner", "Partner1")
	w = f.do(http.MethodGet, "/", token, nil)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
}

// ---- drivers ----

func TestAddDriverValidatesRequiredFields(t *testing.T) {
	f := newFixture(t)
	token, _ := f.login(t, "admin", "Temp1234")

	// Clear the rotation gate first.
	f.do(http.MethodPost, "/auth/password", token, url.Values{
		"currentPassword": {"Temp1234"},
		"newPassword":     {"Valid123"},
		"confirmPassword": {"Valid123"},
	})

	w := f.do(http.MethodPost, "/drivers/add", token, url.Values{"vorname": {"Max"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodPost, "/drivers/add", token, url.Values{
		"vorname": {"Max"}, "nachname": {"Muster"}, "fahrzeugtyp": {"PKW"},
	})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	require.Len(t, f.drivers.created, 1)
	assert.Equal(t, models.DriverStatusNeu, f.drivers.created[0].Status, "missing status defaults to neu")
	assert.NotEmpty(t, f.drivers.created[0].ID)
}
