package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdeevdmitrykrsk/blogicum/internal/store"
)

func newProfileTestHandler(t *testing.T) (*ProfileHandler, *sql.DB) {
	t.Helper()
	db := testDB(t)
	sm := testSessionManager(t)
	renderer := testRenderer(t, sm)
	return NewProfileHandler(db, renderer, sm, 10), db
}

func TestProfileShowsDraftsOnlyToOwner(t *testing.T) {
	h, db := newProfileTestHandler(t)
	owner := createTestUser(t, db, "owner")
	visitor := createTestUser(t, db, "visitor")

	category := createTestCategory(t, db, "travel", true)
	createTestPost(t, db, owner.ID, "Public", testPostParams{
		CategoryID: sql.NullInt64{Int64: category.ID, Valid: true}, IsPublished: true,
	})
	createTestPost(t, db, owner.ID, "Draft", testPostParams{
		CategoryID: sql.NullInt64{Int64: category.ID, Valid: true}, IsPublished: false,
	})
	createTestPost(t, db, owner.ID, "Scheduled", testPostParams{
		CategoryID:  sql.NullInt64{Int64: category.ID, Valid: true},
		PubDate:     time.Now().UTC().Truncate(time.Second).Add(48 * time.Hour),
		IsPublished: true,
	})

	queries := store.New(db)
	ctx := t.Context()

	ownTotal, err := queries.CountPostsByAuthor(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), ownTotal)

	publicTotal, err := queries.CountVisiblePostsByAuthor(ctx, store.CountVisiblePostsByAuthorParams{
		AuthorID: owner.ID,
		Now:      time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), publicTotal)

	// Owner viewing their own profile
	req := requestWithSession(h.sessionManager, httptest.NewRequest(http.MethodGet, "/profile/owner", nil))
	req = requestWithURLParams(requestWithUser(req, owner), map[string]string{"username": "owner"})
	rec := httptest.NewRecorder()
	h.Show(rec, req)
	assertStatus(t, rec.Code, http.StatusOK)

	// Another user viewing the same profile
	req = requestWithSession(h.sessionManager, httptest.NewRequest(http.MethodGet, "/profile/owner", nil))
	req = requestWithURLParams(requestWithUser(req, visitor), map[string]string{"username": "owner"})
	rec = httptest.NewRecorder()
	h.Show(rec, req)
	assertStatus(t, rec.Code, http.StatusOK)
}

func TestProfileMissingUser404(t *testing.T) {
	h, _ := newProfileTestHandler(t)

	req := requestWithSession(h.sessionManager, httptest.NewRequest(http.MethodGet, "/profile/ghost", nil))
	req = requestWithURLParams(req, map[string]string{"username": "ghost"})
	rec := httptest.NewRecorder()
	h.Show(rec, req)
	assertStatus(t, rec.Code, http.StatusNotFound)
}

func TestProfileUpdate(t *testing.T) {
	h, db := newProfileTestHandler(t)
	user := createTestUser(t, db, "renameme")

	body := postForm(map[string]string{
		"username":   "renamed",
		"email":      "renamed@example.com",
		"first_name": "Ada",
		"last_name":  "Lovelace",
	})
	req := httptest.NewRequest(http.MethodPost, "/profile/edit", body)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = requestWithSession(h.sessionManager, requestWithUser(req, user))

	rec := httptest.NewRecorder()
	h.Update(rec, req)

	assertRedirect(t, rec, rec.Code, http.StatusSeeOther, "/profile/renamed")

	var username, firstName string
	require.NoError(t, db.QueryRow(`SELECT username, first_name FROM users WHERE id = ?`, user.ID).Scan(&username, &firstName))
	assert.Equal(t, "renamed", username)
	assert.Equal(t, "Ada", firstName)
}

func TestProfileUpdateRejectsTakenUsername(t *testing.T) {
	h, db := newProfileTestHandler(t)
	user := createTestUser(t, db, "original")
	createTestUser(t, db, "taken")

	body := postForm(map[string]string{
		"username": "taken",
		"email":    "original@example.com",
	})
	req := httptest.NewRequest(http.MethodPost, "/profile/edit", body)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = requestWithSession(h.sessionManager, requestWithUser(req, user))

	rec := httptest.NewRecorder()
	h.Update(rec, req)

	// Re-rendered form, nothing changed
	assertStatus(t, rec.Code, http.StatusOK)

	var username string
	require.NoError(t, db.QueryRow(`SELECT username FROM users WHERE id = ?`, user.ID).Scan(&username))
	assert.Equal(t, "original", username)
}
