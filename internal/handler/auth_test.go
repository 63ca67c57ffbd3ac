package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdeevdmitrykrsk/blogicum/internal/auth"
	"github.com/avdeevdmitrykrsk/blogicum/internal/middleware"
)

func newAuthTestHandler(t *testing.T) (*AuthHandler, *sql.DB) {
	t.Helper()
	db := testDB(t)
	sm := testSessionManager(t)
	renderer := testRenderer(t, sm)
	lp := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	return NewAuthHandler(db, renderer, sm, lp), db
}

// createLoginUser inserts a user with a real password hash.
func createLoginUser(t *testing.T, db *sql.DB, username, password string) {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	_, err = db.Exec(
		`INSERT INTO users (username, email, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		username, username+"@example.com", hash, testBaseTime, testBaseTime,
	)
	require.NoError(t, err)
}

func TestRegisterCreatesAndLogsInUser(t *testing.T) {
	h, db := newAuthTestHandler(t)

	body := postForm(map[string]string{
		"username":         "newbie",
		"email":            "newbie@example.com",
		"password":         "password123",
		"password_confirm": "password123",
	})
	req := httptest.NewRequest(http.MethodPost, "/register", body)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = requestWithSession(h.sessionManager, req)

	rec := httptest.NewRecorder()
	h.Register(rec, req)

	assertRedirect(t, rec, rec.Code, http.StatusSeeOther, "/")

	var count int64
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM users WHERE username = 'newbie'`).Scan(&count))
	assert.Equal(t, int64(1), count)

	// Registration logs the user in right away
	assert.Positive(t, h.sessionManager.GetInt64(req.Context(), middleware.SessionKeyUserID))
}

func TestRegisterValidation(t *testing.T) {
	h, db := newAuthTestHandler(t)
	createTestUser(t, db, "taken")

	cases := []struct {
		name string
		form map[string]string
	}{
		{"taken username", map[string]string{
			"username": "taken", "email": "new@example.com",
			"password": "password123", "password_confirm": "password123",
		}},
		{"short password", map[string]string{
			"username": "newbie", "email": "new@example.com",
			"password": "short", "password_confirm": "short",
		}},
		{"password mismatch", map[string]string{
			"username": "newbie", "email": "new@example.com",
			"password": "password123", "password_confirm": "password456",
		}},
		{"bad email", map[string]string{
			"username": "newbie", "email": "not-an-email",
			"password": "password123", "password_confirm": "password123",
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/register", postForm(tc.form))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			req = requestWithSession(h.sessionManager, req)

			rec := httptest.NewRecorder()
			h.Register(rec, req)

			// Form re-rendered with errors, no redirect
			assertStatus(t, rec.Code, http.StatusOK)
		})
	}

	var count int64
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM users WHERE username = 'newbie'`).Scan(&count))
	assert.Zero(t, count)
}

func TestLoginSuccess(t *testing.T) {
	h, db := newAuthTestHandler(t)
	createLoginUser(t, db, "alice", "correct horse battery")

	body := postForm(map[string]string{"username": "alice", "password": "correct horse battery"})
	req := httptest.NewRequest(http.MethodPost, "/login", body)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = requestWithSession(h.sessionManager, req)

	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assertRedirect(t, rec, rec.Code, http.StatusSeeOther, "/")
	assert.Positive(t, h.sessionManager.GetInt64(req.Context(), middleware.SessionKeyUserID))

	var lastLogin sql.NullTime
	require.NoError(t, db.QueryRow(`SELECT last_login_at FROM users WHERE username = 'alice'`).Scan(&lastLogin))
	assert.True(t, lastLogin.Valid)
}

func TestLoginWrongPassword(t *testing.T) {
	h, db := newAuthTestHandler(t)
	createLoginUser(t, db, "alice", "correct horse battery")

	body := postForm(map[string]string{"username": "alice", "password": "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/login", body)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = requestWithSession(h.sessionManager, req)

	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assertRedirect(t, rec, rec.Code, http.StatusSeeOther, redirectLogin)
	assert.Zero(t, h.sessionManager.GetInt64(req.Context(), middleware.SessionKeyUserID))
}

func TestLoginUnknownUser(t *testing.T) {
	h, _ := newAuthTestHandler(t)

	body := postForm(map[string]string{"username": "ghost", "password": "whatever"})
	req := httptest.NewRequest(http.MethodPost, "/login", body)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = requestWithSession(h.sessionManager, req)

	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assertRedirect(t, rec, rec.Code, http.StatusSeeOther, redirectLogin)
}

func TestLogoutDestroysSession(t *testing.T) {
	h, db := newAuthTestHandler(t)
	user := createTestUser(t, db, "alice")

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req = requestWithSession(h.sessionManager, req)
	h.sessionManager.Put(req.Context(), middleware.SessionKeyUserID, user.ID)

	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assertRedirect(t, rec, rec.Code, http.StatusSeeOther, "/")
	assert.Zero(t, h.sessionManager.GetInt64(req.Context(), middleware.SessionKeyUserID))
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "30 seconds"},
		{time.Minute, "1 minute"},
		{5 * time.Minute, "5 minutes"},
		{time.Hour, "1 hour"},
		{3 * time.Hour, "3 hours"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, formatDuration(tc.d))
	}
}
