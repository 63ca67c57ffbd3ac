package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	_ "modernc.org/sqlite"

	"github.com/avdeevdmitrykrsk/blogicum/internal/middleware"
	"github.com/avdeevdmitrykrsk/blogicum/internal/model"
	"github.com/avdeevdmitrykrsk/blogicum/internal/render"
)

// testBaseTime is a fixed whole-second reference so SQLite datetime
// comparisons behave predictably.
var testBaseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// testDB creates an in-memory SQLite database with the required schema for testing.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	schema := `
		PRAGMA foreign_keys = ON;

		CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			last_login_at DATETIME
		);

		CREATE TABLE sessions (
			token TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			expiry REAL NOT NULL
		);

		CREATE TABLE categories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			slug TEXT NOT NULL UNIQUE,
			is_published BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE locations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			is_published BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE posts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			text TEXT NOT NULL,
			pub_date DATETIME NOT NULL,
			author_id INTEGER NOT NULL,
			category_id INTEGER,
			location_id INTEGER,
			image TEXT,
			is_published BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (author_id) REFERENCES users(id) ON DELETE CASCADE,
			FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE SET NULL,
			FOREIGN KEY (location_id) REFERENCES locations(id) ON DELETE SET NULL
		);

		CREATE TABLE comments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			text TEXT NOT NULL,
			post_id INTEGER NOT NULL,
			author_id INTEGER NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (post_id) REFERENCES posts(id) ON DELETE CASCADE,
			FOREIGN KEY (author_id) REFERENCES users(id) ON DELETE CASCADE
		);

		CREATE TABLE events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level TEXT NOT NULL DEFAULT 'info',
			category TEXT NOT NULL DEFAULT 'system',
			message TEXT NOT NULL,
			user_id INTEGER,
			metadata TEXT NOT NULL DEFAULT '{}',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE SET NULL
		);
	`

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

// testSessionManager creates a session manager for testing.
func testSessionManager(t *testing.T) *scs.SessionManager {
	t.Helper()
	sm := scs.New()
	sm.Lifetime = 24 * time.Hour
	return sm
}

// testRenderer builds a renderer from minimal in-memory templates covering
// every page the handlers render.
func testRenderer(t *testing.T, sm *scs.SessionManager) *render.Renderer {
	t.Helper()

	base := &fstest.MapFile{Data: []byte(
		`{{define "base"}}<title>{{.Title}}</title>{{template "content" .}}{{end}}`,
	)}
	content := &fstest.MapFile{Data: []byte(`{{define "content"}}{{.Title}}{{end}}`)}

	templatesFS := fstest.MapFS{
		"layouts/base.html":       base,
		"pages/index.html":        content,
		"pages/post_detail.html":  content,
		"pages/post_form.html":    content,
		"pages/comment_form.html": content,
		"pages/category.html":     content,
		"pages/profile.html":      content,
		"pages/profile_form.html": content,
		"pages/404.html":          content,
		"auth/login.html":         content,
		"auth/register.html":      content,
	}

	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sm,
	})
	if err != nil {
		t.Fatalf("failed to create test renderer: %v", err)
	}
	return renderer
}

// createTestUser creates a test user in the database.
func createTestUser(t *testing.T, db *sql.DB, username string) model.User {
	t.Helper()

	// Hash of "password123"
	hash := "$argon2id$v=19$m=19456,t=2,p=1$c29tZXNhbHQ$RdescudvJCsgt3ub+b+dWRWJTmaaJObG"

	result, err := db.Exec(
		`INSERT INTO users (username, email, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		username, username+"@example.com", hash, testBaseTime, testBaseTime,
	)
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	id, _ := result.LastInsertId()
	return model.User{
		ID:           id,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		CreatedAt:    testBaseTime,
		UpdatedAt:    testBaseTime,
	}
}

// createTestCategory creates a test category in the database.
func createTestCategory(t *testing.T, db *sql.DB, slug string, published bool) model.Category {
	t.Helper()

	result, err := db.Exec(
		`INSERT INTO categories (title, slug, is_published, created_at) VALUES (?, ?, ?, ?)`,
		"Category "+slug, slug, published, testBaseTime,
	)
	if err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}

	id, _ := result.LastInsertId()
	return model.Category{
		ID:          id,
		Title:       "Category " + slug,
		Slug:        slug,
		IsPublished: published,
		CreatedAt:   testBaseTime,
	}
}

// testPostParams controls optional fields for createTestPost.
type testPostParams struct {
	CategoryID  sql.NullInt64
	PubDate     time.Time
	IsPublished bool
}

// createTestPost creates a test post in the database.
func createTestPost(t *testing.T, db *sql.DB, authorID int64, title string, p testPostParams) model.Post {
	t.Helper()

	if p.PubDate.IsZero() {
		p.PubDate = testBaseTime.Add(-time.Hour)
	}

	result, err := db.Exec(
		`INSERT INTO posts (title, text, pub_date, author_id, category_id, is_published, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		title, "Body of "+title, p.PubDate, authorID, p.CategoryID, p.IsPublished, testBaseTime,
	)
	if err != nil {
		t.Fatalf("failed to create test post: %v", err)
	}

	id, _ := result.LastInsertId()
	return model.Post{
		ID:          id,
		Title:       title,
		Text:        "Body of " + title,
		PubDate:     p.PubDate,
		AuthorID:    authorID,
		CategoryID:  p.CategoryID,
		IsPublished: p.IsPublished,
		CreatedAt:   testBaseTime,
	}
}

// createTestComment creates a test comment in the database.
func createTestComment(t *testing.T, db *sql.DB, postID, authorID int64, text string) model.Comment {
	t.Helper()

	result, err := db.Exec(
		`INSERT INTO comments (text, post_id, author_id, created_at) VALUES (?, ?, ?, ?)`,
		text, postID, authorID, testBaseTime,
	)
	if err != nil {
		t.Fatalf("failed to create test comment: %v", err)
	}

	id, _ := result.LastInsertId()
	return model.Comment{
		ID:        id,
		Text:      text,
		PostID:    postID,
		AuthorID:  authorID,
		CreatedAt: testBaseTime,
	}
}

// requestWithURLParams adds chi URL parameters to a request.
func requestWithURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// requestWithSession wraps a request with session context.
func requestWithSession(sm *scs.SessionManager, r *http.Request) *http.Request {
	ctx, err := sm.Load(r.Context(), "")
	if err != nil {
		return r
	}
	return r.WithContext(ctx)
}

// requestWithUser places an authenticated user into the request context the
// way LoadUser does.
func requestWithUser(r *http.Request, user model.User) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.ContextKeyUser, user)
	return r.WithContext(ctx)
}

// assertStatus checks if the response status code matches the expected value.
func assertStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status = %d; want %d", got, want)
	}
}

// assertRedirect checks for a redirect status and Location header.
func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, gotStatus, wantStatus int, wantLocation string) {
	t.Helper()
	if gotStatus != wantStatus {
		t.Fatalf("status = %d; want %d", gotStatus, wantStatus)
	}
	if loc := rec.Header().Get("Location"); loc != wantLocation {
		t.Errorf("Location = %q; want %q", loc, wantLocation)
	}
}
