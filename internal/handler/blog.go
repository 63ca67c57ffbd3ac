// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides HTTP handlers for the application.
package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/avdeevdmitrykrsk/blogicum/internal/middleware"
	"github.com/avdeevdmitrykrsk/blogicum/internal/model"
	"github.com/avdeevdmitrykrsk/blogicum/internal/render"
	"github.com/avdeevdmitrykrsk/blogicum/internal/store"
)

// BlogHandler serves the public blog pages: the feed, post detail and
// category archives.
type BlogHandler struct {
	queries        *store.Queries
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
	postsPerPage   int
}

// NewBlogHandler creates a new BlogHandler.
func NewBlogHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager, postsPerPage int) *BlogHandler {
	return &BlogHandler{
		queries:        store.New(db),
		renderer:       renderer,
		sessionManager: sm,
		postsPerPage:   postsPerPage,
	}
}

// IndexData holds data for the main feed template.
type IndexData struct {
	Posts      []PostView
	Pagination Pagination
}

// Index renders the main feed: publicly visible posts, newest first.
// GET /
func (h *BlogHandler) Index(w http.ResponseWriter, r *http.Request) {
	now := time.Now()

	total, err := h.queries.CountVisiblePosts(r.Context(), now)
	if err != nil {
		logAndInternalError(w, "failed to count posts", "error", err)
		return
	}

	pagination := BuildPagination(parsePage(r), total, h.postsPerPage, "/")
	posts, err := h.queries.ListVisiblePosts(r.Context(), store.ListVisiblePostsParams{
		Now:    now,
		Limit:  int64(h.postsPerPage),
		Offset: pagination.Offset(),
	})
	if err != nil {
		logAndInternalError(w, "failed to list posts", "error", err)
		return
	}

	err = h.renderer.Render(w, r, "pages/index", render.TemplateData{
		Title: "Latest posts",
		User:  middleware.GetUser(r),
		Data: IndexData{
			Posts:      newPostViews(posts, now),
			Pagination: pagination,
		},
	})
	if err != nil {
		logAndInternalError(w, "failed to render index", "error", err)
	}
}

// PostDetailData holds data for the post detail template.
type PostDetailData struct {
	Post     PostView
	Comments []CommentView
	IsOwner  bool
}

// PostDetail renders a single post with its comments.
// GET /posts/{postID}
//
// A post that fails the visibility rules is shown only to its author;
// everyone else gets a 404 indistinguishable from a missing post.
func (h *BlogHandler) PostDetail(w http.ResponseWriter, r *http.Request) {
	postID, ok := parseIDParam(r, "postID")
	if !ok {
		renderNotFound(w, r, h.renderer)
		return
	}

	post, err := h.queries.GetPostWithMeta(r.Context(), postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			renderNotFound(w, r, h.renderer)
			return
		}
		logAndInternalError(w, "failed to get post", "error", err, "post_id", postID)
		return
	}

	now := time.Now()
	viewerID := middleware.GetUserID(r)
	if !post.VisibleAt(post.Category(), now) && viewerID != post.AuthorID {
		renderNotFound(w, r, h.renderer)
		return
	}

	comments, err := h.queries.ListCommentsByPost(r.Context(), post.ID)
	if err != nil {
		logAndInternalError(w, "failed to list comments", "error", err, "post_id", postID)
		return
	}

	err = h.renderer.Render(w, r, "pages/post_detail", render.TemplateData{
		Title: post.Title,
		User:  middleware.GetUser(r),
		Data: PostDetailData{
			Post:     newPostView(post, now),
			Comments: newCommentViews(comments, viewerID),
			IsOwner:  viewerID == post.AuthorID,
		},
	})
	if err != nil {
		logAndInternalError(w, "failed to render post detail", "error", err)
	}
}

// CategoryData holds data for the category archive template.
type CategoryData struct {
	Category   model.Category
	Posts      []PostView
	Pagination Pagination
}

// Category renders the archive of visible posts in a published category.
// GET /category/{slug}
//
// An unpublished category 404s even when it holds visible posts.
func (h *BlogHandler) Category(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	category, err := h.queries.GetPublishedCategoryBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			renderNotFound(w, r, h.renderer)
			return
		}
		logAndInternalError(w, "failed to get category", "error", err, "slug", slug)
		return
	}

	now := time.Now()
	total, err := h.queries.CountVisiblePostsByCategory(r.Context(), store.CountVisiblePostsByCategoryParams{
		CategoryID: category.ID,
		Now:        now,
	})
	if err != nil {
		logAndInternalError(w, "failed to count category posts", "error", err, "slug", slug)
		return
	}

	pagination := BuildPagination(parsePage(r), total, h.postsPerPage, category.URL())
	posts, err := h.queries.ListVisiblePostsByCategory(r.Context(), store.ListVisiblePostsByCategoryParams{
		CategoryID: category.ID,
		Now:        now,
		Limit:      int64(h.postsPerPage),
		Offset:     pagination.Offset(),
	})
	if err != nil {
		logAndInternalError(w, "failed to list category posts", "error", err, "slug", slug)
		return
	}

	err = h.renderer.Render(w, r, "pages/category", render.TemplateData{
		Title: category.Title,
		User:  middleware.GetUser(r),
		Data: CategoryData{
			Category:   category,
			Posts:      newPostViews(posts, now),
			Pagination: pagination,
		},
	})
	if err != nil {
		logAndInternalError(w, "failed to render category", "error", err)
	}
}

// NotFound renders the 404 page for unmatched routes.
func (h *BlogHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	renderNotFound(w, r, h.renderer)
}
