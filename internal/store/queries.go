// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package store provides database access for the application: connection
// setup, migrations and the query layer used by handlers.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/avdeevdmitrykrsk/blogicum/internal/model"
)

// DBTX is the subset of *sql.DB / *sql.Tx used by Queries.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries provides typed access to the database.
type Queries struct {
	db DBTX
}

// New creates a new Queries instance.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a Queries instance bound to the given transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// =============================================================================
// USERS
// =============================================================================

const userColumns = `id, username, email, password_hash, first_name, last_name, created_at, updated_at, last_login_at`

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&u.FirstName, &u.LastName, &u.CreatedAt, &u.UpdatedAt, &u.LastLoginAt)
	return u, err
}

// CreateUserParams holds parameters for CreateUser.
type CreateUserParams struct {
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateUser inserts a new user and returns it.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (model.User, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO users (username, email, password_hash, first_name, last_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING `+userColumns,
		arg.Username, arg.Email, arg.PasswordHash, arg.FirstName, arg.LastName, arg.CreatedAt, arg.UpdatedAt)
	return scanUser(row)
}

// GetUserByID returns a user by primary key.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (model.User, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByUsername returns a user by username.
func (q *Queries) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	return scanUser(row)
}

// GetUserByEmail returns a user by email address.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// UpdateUserParams holds parameters for UpdateUser.
type UpdateUserParams struct {
	ID        int64
	Username  string
	Email     string
	FirstName string
	LastName  string
	UpdatedAt time.Time
}

// UpdateUser updates a user's profile fields and returns the updated record.
func (q *Queries) UpdateUser(ctx context.Context, arg UpdateUserParams) (model.User, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE users SET username = ?, email = ?, first_name = ?, last_name = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+userColumns,
		arg.Username, arg.Email, arg.FirstName, arg.LastName, arg.UpdatedAt, arg.ID)
	return scanUser(row)
}

// UpdateUserPasswordParams holds parameters for UpdateUserPassword.
type UpdateUserPasswordParams struct {
	ID           int64
	PasswordHash string
	UpdatedAt    time.Time
}

// UpdateUserPassword replaces the stored password hash.
func (q *Queries) UpdateUserPassword(ctx context.Context, arg UpdateUserPasswordParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		arg.PasswordHash, arg.UpdatedAt, arg.ID)
	return err
}

// UpdateUserLastLoginParams holds parameters for UpdateUserLastLogin.
type UpdateUserLastLoginParams struct {
	ID          int64
	LastLoginAt sql.NullTime
}

// UpdateUserLastLogin records the time of the user's last login.
func (q *Queries) UpdateUserLastLogin(ctx context.Context, arg UpdateUserLastLoginParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE users SET last_login_at = ? WHERE id = ?`, arg.LastLoginAt, arg.ID)
	return err
}

// UsernameExists reports whether a username is already taken.
func (q *Queries) UsernameExists(ctx context.Context, username string) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE username = ?`, username).Scan(&n)
	return n > 0, err
}

// EmailExists reports whether an email address is already registered.
func (q *Queries) EmailExists(ctx context.Context, email string) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE email = ?`, email).Scan(&n)
	return n > 0, err
}

// =============================================================================
// CATEGORIES
// =============================================================================

const categoryColumns = `id, title, description, slug, is_published, created_at`

func scanCategory(row *sql.Row) (model.Category, error) {
	var c model.Category
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Slug, &c.IsPublished, &c.CreatedAt)
	return c, err
}

// CreateCategoryParams holds parameters for CreateCategory.
type CreateCategoryParams struct {
	Title       string
	Description string
	Slug        string
	IsPublished bool
	CreatedAt   time.Time
}

// CreateCategory inserts a new category and returns it.
func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (model.Category, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO categories (title, description, slug, is_published, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING `+categoryColumns,
		arg.Title, arg.Description, arg.Slug, arg.IsPublished, arg.CreatedAt)
	return scanCategory(row)
}

// GetCategoryByID returns a category by primary key regardless of its
// published flag. Used when resolving a post's own category.
func (q *Queries) GetCategoryByID(ctx context.Context, id int64) (model.Category, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id)
	return scanCategory(row)
}

// GetPublishedCategoryBySlug returns a category by slug, requiring the
// published flag. An unpublished category is indistinguishable from a
// missing one (sql.ErrNoRows), which surfaces as a 404.
func (q *Queries) GetPublishedCategoryBySlug(ctx context.Context, slug string) (model.Category, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE slug = ? AND is_published = 1`, slug)
	return scanCategory(row)
}

// ListPublishedCategories returns all published categories ordered by title.
func (q *Queries) ListPublishedCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE is_published = 1 ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.Slug, &c.IsPublished, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// DeleteCategory removes a category. Posts referencing it keep existing with
// a NULL category (FK ON DELETE SET NULL).
func (q *Queries) DeleteCategory(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	return err
}

// =============================================================================
// LOCATIONS
// =============================================================================

const locationColumns = `id, name, is_published, created_at`

// CreateLocationParams holds parameters for CreateLocation.
type CreateLocationParams struct {
	Name        string
	IsPublished bool
	CreatedAt   time.Time
}

// CreateLocation inserts a new location and returns it.
func (q *Queries) CreateLocation(ctx context.Context, arg CreateLocationParams) (model.Location, error) {
	var l model.Location
	err := q.db.QueryRowContext(ctx, `
		INSERT INTO locations (name, is_published, created_at)
		VALUES (?, ?, ?)
		RETURNING `+locationColumns,
		arg.Name, arg.IsPublished, arg.CreatedAt).
		Scan(&l.ID, &l.Name, &l.IsPublished, &l.CreatedAt)
	return l, err
}

// GetLocationByName returns a location by its exact name.
func (q *Queries) GetLocationByName(ctx context.Context, name string) (model.Location, error) {
	var l model.Location
	err := q.db.QueryRowContext(ctx,
		`SELECT `+locationColumns+` FROM locations WHERE name = ?`, name).
		Scan(&l.ID, &l.Name, &l.IsPublished, &l.CreatedAt)
	return l, err
}

// ListPublishedLocations returns all published locations ordered by name.
func (q *Queries) ListPublishedLocations(ctx context.Context) ([]model.Location, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+locationColumns+` FROM locations WHERE is_published = 1 ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []model.Location
	for rows.Next() {
		var l model.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.IsPublished, &l.CreatedAt); err != nil {
			return nil, err
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

// DeleteLocation removes a location. Posts referencing it keep existing with
// a NULL location (FK ON DELETE SET NULL).
func (q *Queries) DeleteLocation(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM locations WHERE id = ?`, id)
	return err
}

// =============================================================================
// POSTS
// =============================================================================

const postColumns = `id, title, text, pub_date, author_id, category_id, location_id, image, is_published, created_at`

func scanPost(row *sql.Row) (model.Post, error) {
	var p model.Post
	err := row.Scan(&p.ID, &p.Title, &p.Text, &p.PubDate, &p.AuthorID,
		&p.CategoryID, &p.LocationID, &p.Image, &p.IsPublished, &p.CreatedAt)
	return p, err
}

// PostWithMeta is a post annotated with its author, category, location and
// comment count, as produced by the listing queries. Category fields are
// null when the post's category was deleted.
type PostWithMeta struct {
	model.Post
	AuthorUsername    string
	CategoryTitle     sql.NullString
	CategorySlug      sql.NullString
	CategoryPublished sql.NullBool
	LocationName      sql.NullString
	CommentCount      int64
}

// Category returns the annotated category, or nil if the post has none.
func (p *PostWithMeta) Category() *model.Category {
	if !p.CategorySlug.Valid {
		return nil
	}
	return &model.Category{
		ID:          p.CategoryID.Int64,
		Title:       p.CategoryTitle.String,
		Slug:        p.CategorySlug.String,
		IsPublished: p.CategoryPublished.Bool,
	}
}

// postMetaSelect is the shared SELECT for annotated post queries: every
// listing attaches the author username, category, optional location and a
// comment count, ordered newest first (spec'd listing shape).
const postMetaSelect = `
	SELECT p.id, p.title, p.text, p.pub_date, p.author_id, p.category_id,
	       p.location_id, p.image, p.is_published, p.created_at,
	       u.username,
	       c.title, c.slug, c.is_published,
	       l.name,
	       (SELECT COUNT(*) FROM comments WHERE comments.post_id = p.id) AS comment_count
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN categories c ON c.id = p.category_id
	LEFT JOIN locations l ON l.id = p.location_id`

// visibleWhere is the public-visibility predicate in SQL form: the post and
// its category are published and the publication time has passed. A NULL
// category fails the predicate.
const visibleWhere = ` WHERE p.is_published = 1 AND c.is_published = 1 AND p.pub_date <= ?`

func (q *Queries) queryPostsWithMeta(ctx context.Context, query string, args ...any) ([]PostWithMeta, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []PostWithMeta
	for rows.Next() {
		var p PostWithMeta
		if err := rows.Scan(&p.ID, &p.Title, &p.Text, &p.PubDate, &p.AuthorID,
			&p.CategoryID, &p.LocationID, &p.Image, &p.IsPublished, &p.CreatedAt,
			&p.AuthorUsername, &p.CategoryTitle, &p.CategorySlug, &p.CategoryPublished,
			&p.LocationName, &p.CommentCount); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// ListVisiblePostsParams holds parameters for ListVisiblePosts.
type ListVisiblePostsParams struct {
	Now    time.Time
	Limit  int64
	Offset int64
}

// ListVisiblePosts returns publicly visible posts, newest first, annotated
// with comment counts.
func (q *Queries) ListVisiblePosts(ctx context.Context, arg ListVisiblePostsParams) ([]PostWithMeta, error) {
	return q.queryPostsWithMeta(ctx,
		postMetaSelect+visibleWhere+` ORDER BY p.pub_date DESC LIMIT ? OFFSET ?`,
		arg.Now, arg.Limit, arg.Offset)
}

// CountVisiblePosts returns the number of publicly visible posts.
func (q *Queries) CountVisiblePosts(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM posts p
		JOIN categories c ON c.id = p.category_id`+visibleWhere, now).Scan(&n)
	return n, err
}

// ListVisiblePostsByCategoryParams holds parameters for ListVisiblePostsByCategory.
type ListVisiblePostsByCategoryParams struct {
	CategoryID int64
	Now        time.Time
	Limit      int64
	Offset     int64
}

// ListVisiblePostsByCategory returns publicly visible posts in a category,
// newest first.
func (q *Queries) ListVisiblePostsByCategory(ctx context.Context, arg ListVisiblePostsByCategoryParams) ([]PostWithMeta, error) {
	return q.queryPostsWithMeta(ctx,
		postMetaSelect+visibleWhere+` AND p.category_id = ? ORDER BY p.pub_date DESC LIMIT ? OFFSET ?`,
		arg.Now, arg.CategoryID, arg.Limit, arg.Offset)
}

// CountVisiblePostsByCategoryParams holds parameters for CountVisiblePostsByCategory.
type CountVisiblePostsByCategoryParams struct {
	CategoryID int64
	Now        time.Time
}

// CountVisiblePostsByCategory returns the number of publicly visible posts
// in a category.
func (q *Queries) CountVisiblePostsByCategory(ctx context.Context, arg CountVisiblePostsByCategoryParams) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM posts p
		JOIN categories c ON c.id = p.category_id`+visibleWhere+` AND p.category_id = ?`,
		arg.Now, arg.CategoryID).Scan(&n)
	return n, err
}

// ListVisiblePostsByAuthorParams holds parameters for ListVisiblePostsByAuthor.
type ListVisiblePostsByAuthorParams struct {
	AuthorID int64
	Now      time.Time
	Limit    int64
	Offset   int64
}

// ListVisiblePostsByAuthor returns an author's publicly visible posts,
// newest first. Used for profile pages viewed by anyone but the owner.
func (q *Queries) ListVisiblePostsByAuthor(ctx context.Context, arg ListVisiblePostsByAuthorParams) ([]PostWithMeta, error) {
	return q.queryPostsWithMeta(ctx,
		postMetaSelect+visibleWhere+` AND p.author_id = ? ORDER BY p.pub_date DESC LIMIT ? OFFSET ?`,
		arg.Now, arg.AuthorID, arg.Limit, arg.Offset)
}

// CountVisiblePostsByAuthorParams holds parameters for CountVisiblePostsByAuthor.
type CountVisiblePostsByAuthorParams struct {
	AuthorID int64
	Now      time.Time
}

// CountVisiblePostsByAuthor returns the number of an author's publicly
// visible posts.
func (q *Queries) CountVisiblePostsByAuthor(ctx context.Context, arg CountVisiblePostsByAuthorParams) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM posts p
		JOIN categories c ON c.id = p.category_id`+visibleWhere+` AND p.author_id = ?`,
		arg.Now, arg.AuthorID).Scan(&n)
	return n, err
}

// ListPostsByAuthorParams holds parameters for ListPostsByAuthor.
type ListPostsByAuthorParams struct {
	AuthorID int64
	Limit    int64
	Offset   int64
}

// ListPostsByAuthor returns all of an author's posts with no visibility
// filtering, newest first. Used when authors view their own profile so that
// drafts and scheduled posts remain reachable.
func (q *Queries) ListPostsByAuthor(ctx context.Context, arg ListPostsByAuthorParams) ([]PostWithMeta, error) {
	return q.queryPostsWithMeta(ctx,
		postMetaSelect+` WHERE p.author_id = ? ORDER BY p.pub_date DESC LIMIT ? OFFSET ?`,
		arg.AuthorID, arg.Limit, arg.Offset)
}

// CountPostsByAuthor returns the total number of an author's posts.
func (q *Queries) CountPostsByAuthor(ctx context.Context, authorID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts WHERE author_id = ?`, authorID).Scan(&n)
	return n, err
}

// CreatePostParams holds parameters for CreatePost.
type CreatePostParams struct {
	Title       string
	Text        string
	PubDate     time.Time
	AuthorID    int64
	CategoryID  sql.NullInt64
	LocationID  sql.NullInt64
	Image       sql.NullString
	IsPublished bool
	CreatedAt   time.Time
}

// CreatePost inserts a new post and returns it.
func (q *Queries) CreatePost(ctx context.Context, arg CreatePostParams) (model.Post, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO posts (title, text, pub_date, author_id, category_id, location_id, image, is_published, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+postColumns,
		arg.Title, arg.Text, arg.PubDate, arg.AuthorID, arg.CategoryID,
		arg.LocationID, arg.Image, arg.IsPublished, arg.CreatedAt)
	return scanPost(row)
}

// GetPostByID returns a post by primary key with no visibility filtering.
func (q *Queries) GetPostByID(ctx context.Context, id int64) (model.Post, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ?`, id)
	return scanPost(row)
}

// GetPostWithMeta returns a single annotated post with no visibility
// filtering. Callers decide visibility with model.Post.VisibleAt.
func (q *Queries) GetPostWithMeta(ctx context.Context, id int64) (PostWithMeta, error) {
	var p PostWithMeta
	err := q.db.QueryRowContext(ctx, postMetaSelect+` WHERE p.id = ?`, id).
		Scan(&p.ID, &p.Title, &p.Text, &p.PubDate, &p.AuthorID,
			&p.CategoryID, &p.LocationID, &p.Image, &p.IsPublished, &p.CreatedAt,
			&p.AuthorUsername, &p.CategoryTitle, &p.CategorySlug, &p.CategoryPublished,
			&p.LocationName, &p.CommentCount)
	return p, err
}

// UpdatePostParams holds parameters for UpdatePost.
type UpdatePostParams struct {
	ID         int64
	Title      string
	Text       string
	PubDate    time.Time
	CategoryID sql.NullInt64
	LocationID sql.NullInt64
	Image      sql.NullString
}

// UpdatePost updates a post's editable fields and returns the updated
// record. The author and published flag are not editable through the form.
func (q *Queries) UpdatePost(ctx context.Context, arg UpdatePostParams) (model.Post, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE posts SET title = ?, text = ?, pub_date = ?, category_id = ?, location_id = ?, image = ?
		WHERE id = ?
		RETURNING `+postColumns,
		arg.Title, arg.Text, arg.PubDate, arg.CategoryID, arg.LocationID, arg.Image, arg.ID)
	return scanPost(row)
}

// DeletePost removes a post. Comments are cascade-deleted by the FK
// constraint.
func (q *Queries) DeletePost(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	return err
}

// =============================================================================
// COMMENTS
// =============================================================================

const commentColumns = `id, text, post_id, author_id, created_at`

func scanComment(row *sql.Row) (model.Comment, error) {
	var c model.Comment
	err := row.Scan(&c.ID, &c.Text, &c.PostID, &c.AuthorID, &c.CreatedAt)
	return c, err
}

// CreateCommentParams holds parameters for CreateComment.
type CreateCommentParams struct {
	Text      string
	PostID    int64
	AuthorID  int64
	CreatedAt time.Time
}

// CreateComment inserts a new comment and returns it.
func (q *Queries) CreateComment(ctx context.Context, arg CreateCommentParams) (model.Comment, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO comments (text, post_id, author_id, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING `+commentColumns,
		arg.Text, arg.PostID, arg.AuthorID, arg.CreatedAt)
	return scanComment(row)
}

// GetCommentByID returns a comment by primary key.
func (q *Queries) GetCommentByID(ctx context.Context, id int64) (model.Comment, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = ?`, id)
	return scanComment(row)
}

// CommentWithAuthor is a comment annotated with its author's username.
type CommentWithAuthor struct {
	model.Comment
	AuthorUsername string
}

// ListCommentsByPost returns a post's comments ordered by creation time
// ascending, with insertion order as the tiebreak for equal timestamps.
func (q *Queries) ListCommentsByPost(ctx context.Context, postID int64) ([]CommentWithAuthor, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT c.id, c.text, c.post_id, c.author_id, c.created_at, u.username
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id = ?
		ORDER BY c.created_at ASC, c.id ASC`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []CommentWithAuthor
	for rows.Next() {
		var c CommentWithAuthor
		if err := rows.Scan(&c.ID, &c.Text, &c.PostID, &c.AuthorID, &c.CreatedAt, &c.AuthorUsername); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// CountCommentsByPost returns the number of comments on a post.
func (q *Queries) CountCommentsByPost(ctx context.Context, postID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM comments WHERE post_id = ?`, postID).Scan(&n)
	return n, err
}

// UpdateCommentParams holds parameters for UpdateComment.
type UpdateCommentParams struct {
	ID   int64
	Text string
}

// UpdateComment updates a comment's text. The creation timestamp is
// immutable.
func (q *Queries) UpdateComment(ctx context.Context, arg UpdateCommentParams) (model.Comment, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE comments SET text = ? WHERE id = ?
		RETURNING `+commentColumns,
		arg.Text, arg.ID)
	return scanComment(row)
}

// DeleteComment removes a comment.
func (q *Queries) DeleteComment(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	return err
}

// =============================================================================
// EVENTS
// =============================================================================

// CreateEventParams holds parameters for CreateEvent.
type CreateEventParams struct {
	Level     string
	Category  string
	Message   string
	UserID    sql.NullInt64
	Metadata  string
	CreatedAt time.Time
}

// CreateEvent inserts an event log entry.
func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (model.Event, error) {
	var e model.Event
	err := q.db.QueryRowContext(ctx, `
		INSERT INTO events (level, category, message, user_id, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id, level, category, message, user_id, metadata, created_at`,
		arg.Level, arg.Category, arg.Message, arg.UserID, arg.Metadata, arg.CreatedAt).
		Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.UserID, &e.Metadata, &e.CreatedAt)
	return e, err
}

// ListEventsParams holds parameters for ListEvents.
type ListEventsParams struct {
	Limit  int64
	Offset int64
}

// ListEvents returns event log entries, newest first.
func (q *Queries) ListEvents(ctx context.Context, arg ListEventsParams) ([]model.Event, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, level, category, message, user_id, metadata, created_at
		FROM events
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.UserID, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
