// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/avdeevdmitrykrsk/blogicum/internal/middleware"
	"github.com/avdeevdmitrykrsk/blogicum/internal/model"
	"github.com/avdeevdmitrykrsk/blogicum/internal/render"
	"github.com/avdeevdmitrykrsk/blogicum/internal/store"
)

// CommentsHandler handles comment routes nested under a post.
type CommentsHandler struct {
	queries        *store.Queries
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
}

// NewCommentsHandler creates a new CommentsHandler.
func NewCommentsHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager) *CommentsHandler {
	return &CommentsHandler{
		queries:        store.New(db),
		renderer:       renderer,
		sessionManager: sm,
	}
}

// CommentFormData holds data for the comment edit form template.
type CommentFormData struct {
	PostID    int64
	CommentID int64
	Text      string
	Errors    map[string]string
	ActionURL string
}

// requireVisiblePost loads the post a comment route targets, applying the
// same visibility rules as the detail page.
func (h *CommentsHandler) requireVisiblePost(w http.ResponseWriter, r *http.Request) (store.PostWithMeta, bool) {
	var zero store.PostWithMeta

	postID, ok := parseIDParam(r, "postID")
	if !ok {
		renderNotFound(w, r, h.renderer)
		return zero, false
	}

	post, err := h.queries.GetPostWithMeta(r.Context(), postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			renderNotFound(w, r, h.renderer)
			return zero, false
		}
		logAndInternalError(w, "failed to get post", "error", err, "post_id", postID)
		return zero, false
	}

	if !post.VisibleAt(post.Category(), time.Now()) && middleware.GetUserID(r) != post.AuthorID {
		renderNotFound(w, r, h.renderer)
		return zero, false
	}

	return post, true
}

// requireOwnedComment loads the comment for a mutation route and enforces
// ownership. The comment must belong to the post named in the URL; a
// mismatch 404s. Someone else's comment redirects to the post detail page.
func (h *CommentsHandler) requireOwnedComment(w http.ResponseWriter, r *http.Request) (model.Comment, bool) {
	var zero model.Comment

	postID, ok := parseIDParam(r, "postID")
	if !ok {
		renderNotFound(w, r, h.renderer)
		return zero, false
	}
	commentID, ok := parseIDParam(r, "commentID")
	if !ok {
		renderNotFound(w, r, h.renderer)
		return zero, false
	}

	comment, err := h.queries.GetCommentByID(r.Context(), commentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			renderNotFound(w, r, h.renderer)
			return zero, false
		}
		logAndInternalError(w, "failed to get comment", "error", err, "comment_id", commentID)
		return zero, false
	}

	if comment.PostID != postID {
		renderNotFound(w, r, h.renderer)
		return zero, false
	}

	if middleware.GetUserID(r) != comment.AuthorID {
		http.Redirect(w, r, (&model.Post{ID: postID}).URL(), http.StatusSeeOther)
		return zero, false
	}

	return comment, true
}

// NewForm renders a standalone comment form. The detail page carries an
// inline form as well; this route serves direct links to it.
// GET /posts/{postID}/comment
func (h *CommentsHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	post, ok := h.requireVisiblePost(w, r)
	if !ok {
		return
	}

	h.renderCommentForm(w, r, CommentFormData{
		PostID:    post.ID,
		Errors:    make(map[string]string),
		ActionURL: post.URL() + "/comment",
	})
}

// Create adds a comment to a post.
// POST /posts/{postID}/comment
func (h *CommentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	post, ok := h.requireVisiblePost(w, r)
	if !ok {
		return
	}
	user := middleware.GetUser(r)
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if !parseFormOrRedirect(w, r, h.renderer, post.URL()) {
		return
	}

	text := strings.TrimSpace(r.FormValue("text"))
	if text == "" {
		flashError(w, r, h.renderer, post.URL(), "Comment text is required")
		return
	}

	comment, err := h.queries.CreateComment(r.Context(), store.CreateCommentParams{
		Text:      text,
		PostID:    post.ID,
		AuthorID:  user.ID,
		CreatedAt: time.Now(),
	})
	if err != nil {
		logAndInternalError(w, "failed to create comment", "error", err, "post_id", post.ID)
		return
	}

	slog.Info("comment created", "comment_id", comment.ID, "post_id", post.ID,
		"user_id", user.ID, "category", model.EventCategoryComment)
	flashSuccess(w, r, h.renderer, post.URL(), "Comment added")
}

// EditForm renders the comment edit form.
// GET /posts/{postID}/comment/{commentID}/edit
func (h *CommentsHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	comment, ok := h.requireOwnedComment(w, r)
	if !ok {
		return
	}

	h.renderCommentForm(w, r, CommentFormData{
		PostID:    comment.PostID,
		CommentID: comment.ID,
		Text:      comment.Text,
		Errors:    make(map[string]string),
		ActionURL: comment.EditURL(),
	})
}

// Update handles the comment edit form submission.
// POST /posts/{postID}/comment/{commentID}/edit
func (h *CommentsHandler) Update(w http.ResponseWriter, r *http.Request) {
	comment, ok := h.requireOwnedComment(w, r)
	if !ok {
		return
	}
	postURL := (&model.Post{ID: comment.PostID}).URL()

	if !parseFormOrRedirect(w, r, h.renderer, postURL) {
		return
	}

	text := strings.TrimSpace(r.FormValue("text"))
	if text == "" {
		h.renderCommentForm(w, r, CommentFormData{
			PostID:    comment.PostID,
			CommentID: comment.ID,
			Text:      text,
			Errors:    map[string]string{"text": "Comment text is required"},
			ActionURL: comment.EditURL(),
		})
		return
	}

	if _, err := h.queries.UpdateComment(r.Context(), store.UpdateCommentParams{
		ID:   comment.ID,
		Text: text,
	}); err != nil {
		logAndInternalError(w, "failed to update comment", "error", err, "comment_id", comment.ID)
		return
	}

	flashSuccess(w, r, h.renderer, postURL, "Comment updated")
}

// Delete removes a comment.
// POST /posts/{postID}/comment/{commentID}/delete
func (h *CommentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	comment, ok := h.requireOwnedComment(w, r)
	if !ok {
		return
	}
	postURL := (&model.Post{ID: comment.PostID}).URL()

	if err := h.queries.DeleteComment(r.Context(), comment.ID); err != nil {
		logAndInternalError(w, "failed to delete comment", "error", err, "comment_id", comment.ID)
		return
	}

	slog.Info("comment deleted", "comment_id", comment.ID, "post_id", comment.PostID,
		"user_id", middleware.GetUserID(r), "category", model.EventCategoryComment)
	flashSuccess(w, r, h.renderer, postURL, "Comment deleted")
}

func (h *CommentsHandler) renderCommentForm(w http.ResponseWriter, r *http.Request, data CommentFormData) {
	title := "Add comment"
	if data.CommentID != 0 {
		title = "Edit comment"
	}
	err := h.renderer.Render(w, r, "pages/comment_form", render.TemplateData{
		Title: title,
		User:  middleware.GetUser(r),
		Data:  data,
	})
	if err != nil {
		logAndInternalError(w, "failed to render comment form", "error", err)
	}
}
