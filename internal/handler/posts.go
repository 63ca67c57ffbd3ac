// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/avdeevdmitrykrsk/blogicum/internal/geoip"
	"github.com/avdeevdmitrykrsk/blogicum/internal/imaging"
	"github.com/avdeevdmitrykrsk/blogicum/internal/middleware"
	"github.com/avdeevdmitrykrsk/blogicum/internal/model"
	"github.com/avdeevdmitrykrsk/blogicum/internal/render"
	"github.com/avdeevdmitrykrsk/blogicum/internal/store"
	"github.com/avdeevdmitrykrsk/blogicum/internal/util"
)

// pubDateInputFormat matches the value of an HTML datetime-local input.
const pubDateInputFormat = "2006-01-02T15:04"

// maxImageUploadBytes caps in-memory parsing of post image uploads.
const maxImageUploadBytes = 10 << 20

const maxPostTitleLength = 256

// PostsHandler handles post authoring routes.
type PostsHandler struct {
	queries        *store.Queries
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
	processor      *imaging.Processor
	geo            *geoip.Lookup
}

// NewPostsHandler creates a new PostsHandler.
func NewPostsHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager, processor *imaging.Processor, geo *geoip.Lookup) *PostsHandler {
	return &PostsHandler{
		queries:        store.New(db),
		renderer:       renderer,
		sessionManager: sm,
		processor:      processor,
		geo:            geo,
	}
}

// PostFormData holds data for the post form template.
type PostFormData struct {
	FormValues      map[string]string
	Errors          map[string]string
	Categories      []model.Category
	Locations       []model.Location
	IsEdit          bool
	PostID          int64
	CurrentImageURL string
}

// requireOwnedPost loads the post for a mutation route and enforces
// ownership. A missing post 404s; someone else's post silently redirects to
// its detail page, never a 403.
func (h *PostsHandler) requireOwnedPost(w http.ResponseWriter, r *http.Request) (model.Post, bool) {
	var zero model.Post

	postID, ok := parseIDParam(r, "postID")
	if !ok {
		renderNotFound(w, r, h.renderer)
		return zero, false
	}

	post, err := h.queries.GetPostByID(r.Context(), postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			renderNotFound(w, r, h.renderer)
			return zero, false
		}
		logAndInternalError(w, "failed to get post", "error", err, "post_id", postID)
		return zero, false
	}

	if middleware.GetUserID(r) != post.AuthorID {
		http.Redirect(w, r, post.URL(), http.StatusSeeOther)
		return zero, false
	}

	return post, true
}

// loadFormChoices fetches the category and location options for the form.
func (h *PostsHandler) loadFormChoices(w http.ResponseWriter, r *http.Request) ([]model.Category, []model.Location, bool) {
	categories, err := h.queries.ListPublishedCategories(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list categories", "error", err)
		return nil, nil, false
	}
	locations, err := h.queries.ListPublishedLocations(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list locations", "error", err)
		return nil, nil, false
	}
	return categories, locations, true
}

func (h *PostsHandler) renderPostForm(w http.ResponseWriter, r *http.Request, data PostFormData) {
	title := "Add post"
	if data.IsEdit {
		title = "Edit post"
	}
	err := h.renderer.Render(w, r, "pages/post_form", render.TemplateData{
		Title: title,
		User:  middleware.GetUser(r),
		Data:  data,
	})
	if err != nil {
		logAndInternalError(w, "failed to render post form", "error", err)
	}
}

// NewForm renders the post creation form.
// GET /posts/create
func (h *PostsHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	categories, locations, ok := h.loadFormChoices(w, r)
	if !ok {
		return
	}

	formValues := map[string]string{
		"pub_date": time.Now().Format(pubDateInputFormat),
	}

	// Preselect the author's city when the GeoIP database knows it
	if h.geo != nil {
		if city := h.geo.SuggestCity(clientIP(r)); city != "" {
			if loc, err := h.queries.GetLocationByName(r.Context(), city); err == nil && loc.IsPublished {
				formValues["location_id"] = strconv.FormatInt(loc.ID, 10)
			}
		}
	}

	h.renderPostForm(w, r, PostFormData{
		FormValues: formValues,
		Errors:     make(map[string]string),
		Categories: categories,
		Locations:  locations,
	})
}

// postFormInput holds parsed and validated post form values.
type postFormInput struct {
	title      string
	text       string
	pubDate    time.Time
	categoryID sql.NullInt64
	locationID sql.NullInt64

	formValues map[string]string
	errors     map[string]string
}

// parsePostForm reads and validates the shared fields of the create and edit
// forms. The multipart image part is handled separately.
func (h *PostsHandler) parsePostForm(r *http.Request) postFormInput {
	in := postFormInput{
		formValues: make(map[string]string),
		errors:     make(map[string]string),
	}

	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		// Plain form posts (no file part) are fine too
		if err := r.ParseForm(); err != nil {
			in.errors["form"] = "Invalid form data"
			return in
		}
	}

	in.title = strings.TrimSpace(r.FormValue("title"))
	in.text = strings.TrimSpace(r.FormValue("text"))
	pubDateRaw := r.FormValue("pub_date")
	categoryRaw := r.FormValue("category_id")
	locationRaw := r.FormValue("location_id")

	in.formValues["title"] = in.title
	in.formValues["text"] = in.text
	in.formValues["pub_date"] = pubDateRaw
	in.formValues["category_id"] = categoryRaw
	in.formValues["location_id"] = locationRaw

	if in.title == "" {
		in.errors["title"] = "Title is required"
	} else if len(in.title) > maxPostTitleLength {
		in.errors["title"] = "Title is too long"
	}

	if in.text == "" {
		in.errors["text"] = "Text is required"
	}

	if pubDateRaw == "" {
		in.errors["pub_date"] = "Publication date is required"
	} else if t, err := time.ParseInLocation(pubDateInputFormat, pubDateRaw, time.Local); err != nil {
		in.errors["pub_date"] = "Invalid publication date"
	} else {
		in.pubDate = t
	}

	in.categoryID = util.ParseNullInt64Positive(categoryRaw)
	if categoryRaw != "" && !in.categoryID.Valid {
		in.errors["category_id"] = "Invalid category"
	} else if in.categoryID.Valid {
		if _, err := h.queries.GetCategoryByID(r.Context(), in.categoryID.Int64); err != nil {
			in.errors["category_id"] = "Invalid category"
		}
	}

	in.locationID = util.ParseNullInt64Positive(locationRaw)
	if locationRaw != "" && !in.locationID.Valid {
		in.errors["location_id"] = "Invalid location"
	}

	return in
}

// parseImageUpload processes an optional uploaded image. Returns the stored
// filename, or an invalid NullString when no file was sent.
func (h *PostsHandler) parseImageUpload(r *http.Request, errs map[string]string) sql.NullString {
	if r.MultipartForm == nil {
		return sql.NullString{}
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		if !errors.Is(err, http.ErrMissingFile) {
			errs["image"] = "Invalid image upload"
		}
		return sql.NullString{}
	}
	defer func() { _ = file.Close() }()

	if header.Size > maxImageUploadBytes {
		errs["image"] = "Image is too large"
		return sql.NullString{}
	}

	result, err := h.processor.ProcessPostImage(file)
	if err != nil {
		slog.Warn("rejected post image upload", "error", err, "filename", header.Filename)
		errs["image"] = "Unsupported image file"
		return sql.NullString{}
	}

	return sql.NullString{String: result.Filename, Valid: true}
}

// Create handles the post creation form submission.
// POST /posts/create
//
// A future publication date is accepted as-is; the post stays hidden from
// public listings until the date passes.
func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	in := h.parsePostForm(r)
	image := h.parseImageUpload(r, in.errors)

	if len(in.errors) > 0 {
		categories, locations, ok := h.loadFormChoices(w, r)
		if !ok {
			return
		}
		h.renderPostForm(w, r, PostFormData{
			FormValues: in.formValues,
			Errors:     in.errors,
			Categories: categories,
			Locations:  locations,
		})
		return
	}

	post, err := h.queries.CreatePost(r.Context(), store.CreatePostParams{
		Title:       in.title,
		Text:        in.text,
		PubDate:     in.pubDate,
		AuthorID:    user.ID,
		CategoryID:  in.categoryID,
		LocationID:  in.locationID,
		Image:       image,
		IsPublished: true,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		logAndInternalError(w, "failed to create post", "error", err, "user_id", user.ID)
		return
	}

	slog.Info("post created", "post_id", post.ID, "user_id", user.ID, "category", model.EventCategoryPost)
	flashSuccess(w, r, h.renderer, user.ProfileURL(), "Post created")
}

// EditForm renders the post edit form.
// GET /posts/{postID}/edit
func (h *PostsHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	post, ok := h.requireOwnedPost(w, r)
	if !ok {
		return
	}

	categories, locations, ok := h.loadFormChoices(w, r)
	if !ok {
		return
	}

	formValues := map[string]string{
		"title":    post.Title,
		"text":     post.Text,
		"pub_date": post.PubDate.Format(pubDateInputFormat),
	}
	if post.CategoryID.Valid {
		formValues["category_id"] = strconv.FormatInt(post.CategoryID.Int64, 10)
	}
	if post.LocationID.Valid {
		formValues["location_id"] = strconv.FormatInt(post.LocationID.Int64, 10)
	}

	data := PostFormData{
		FormValues: formValues,
		Errors:     make(map[string]string),
		Categories: categories,
		Locations:  locations,
		IsEdit:     true,
		PostID:     post.ID,
	}
	if post.Image.Valid && post.Image.String != "" {
		data.CurrentImageURL = "/uploads/" + post.Image.String
	}

	h.renderPostForm(w, r, data)
}

// Update handles the post edit form submission.
// POST /posts/{postID}/edit
func (h *PostsHandler) Update(w http.ResponseWriter, r *http.Request) {
	post, ok := h.requireOwnedPost(w, r)
	if !ok {
		return
	}

	in := h.parsePostForm(r)
	image := h.parseImageUpload(r, in.errors)

	if len(in.errors) > 0 {
		categories, locations, ok := h.loadFormChoices(w, r)
		if !ok {
			return
		}
		data := PostFormData{
			FormValues: in.formValues,
			Errors:     in.errors,
			Categories: categories,
			Locations:  locations,
			IsEdit:     true,
			PostID:     post.ID,
		}
		if post.Image.Valid && post.Image.String != "" {
			data.CurrentImageURL = "/uploads/" + post.Image.String
		}
		h.renderPostForm(w, r, data)
		return
	}

	// Keep the old image unless a new one was uploaded
	newImage := post.Image
	if image.Valid {
		if post.Image.Valid && post.Image.String != "" {
			if err := h.processor.DeletePostImage(post.Image.String); err != nil {
				slog.Warn("failed to delete replaced image", "error", err, "post_id", post.ID)
			}
		}
		newImage = image
	}

	if _, err := h.queries.UpdatePost(r.Context(), store.UpdatePostParams{
		ID:         post.ID,
		Title:      in.title,
		Text:       in.text,
		PubDate:    in.pubDate,
		CategoryID: in.categoryID,
		LocationID: in.locationID,
		Image:      newImage,
	}); err != nil {
		logAndInternalError(w, "failed to update post", "error", err, "post_id", post.ID)
		return
	}

	flashSuccess(w, r, h.renderer, post.URL(), "Post updated")
}

// Delete removes a post along with its comments and stored image.
// POST /posts/{postID}/delete
func (h *PostsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	post, ok := h.requireOwnedPost(w, r)
	if !ok {
		return
	}
	user := middleware.GetUser(r)

	if post.Image.Valid && post.Image.String != "" {
		if err := h.processor.DeletePostImage(post.Image.String); err != nil {
			slog.Warn("failed to delete post image", "error", err, "post_id", post.ID)
		}
	}

	if err := h.queries.DeletePost(r.Context(), post.ID); err != nil {
		logAndInternalError(w, "failed to delete post", "error", err, "post_id", post.ID)
		return
	}

	slog.Info("post deleted", "post_id", post.ID, "user_id", user.ID, "category", model.EventCategoryPost)
	flashSuccess(w, r, h.renderer, user.ProfileURL(), "Post deleted")
}
