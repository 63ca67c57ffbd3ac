// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/avdeevdmitrykrsk/blogicum/internal/middleware"
	"github.com/avdeevdmitrykrsk/blogicum/internal/model"
	"github.com/avdeevdmitrykrsk/blogicum/internal/render"
	"github.com/avdeevdmitrykrsk/blogicum/internal/store"
	"github.com/avdeevdmitrykrsk/blogicum/internal/util"
)

// ProfileHandler handles user profile pages.
type ProfileHandler struct {
	queries        *store.Queries
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
	postsPerPage   int
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager, postsPerPage int) *ProfileHandler {
	return &ProfileHandler{
		queries:        store.New(db),
		renderer:       renderer,
		sessionManager: sm,
		postsPerPage:   postsPerPage,
	}
}

// ProfileData holds data for the profile template.
type ProfileData struct {
	Profile    model.User
	Posts      []PostView
	Pagination Pagination
	IsOwner    bool
}

// Show renders a user's profile with their posts.
// GET /profile/{username}
//
// Owners see all of their posts, drafts and scheduled ones included.
// Everyone else sees only publicly visible posts.
func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	profile, err := h.queries.GetUserByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			renderNotFound(w, r, h.renderer)
			return
		}
		logAndInternalError(w, "failed to get user", "error", err, "username", username)
		return
	}

	now := time.Now()
	isOwner := middleware.GetUserID(r) == profile.ID
	page := parsePage(r)

	var (
		total int64
		posts []store.PostWithMeta
	)
	if isOwner {
		total, err = h.queries.CountPostsByAuthor(r.Context(), profile.ID)
		if err == nil {
			pagination := BuildPagination(page, total, h.postsPerPage, profile.ProfileURL())
			posts, err = h.queries.ListPostsByAuthor(r.Context(), store.ListPostsByAuthorParams{
				AuthorID: profile.ID,
				Limit:    int64(h.postsPerPage),
				Offset:   pagination.Offset(),
			})
			if err == nil {
				h.renderProfile(w, r, profile, posts, pagination, now, isOwner)
				return
			}
		}
	} else {
		total, err = h.queries.CountVisiblePostsByAuthor(r.Context(), store.CountVisiblePostsByAuthorParams{
			AuthorID: profile.ID,
			Now:      now,
		})
		if err == nil {
			pagination := BuildPagination(page, total, h.postsPerPage, profile.ProfileURL())
			posts, err = h.queries.ListVisiblePostsByAuthor(r.Context(), store.ListVisiblePostsByAuthorParams{
				AuthorID: profile.ID,
				Now:      now,
				Limit:    int64(h.postsPerPage),
				Offset:   pagination.Offset(),
			})
			if err == nil {
				h.renderProfile(w, r, profile, posts, pagination, now, isOwner)
				return
			}
		}
	}

	logAndInternalError(w, "failed to load profile posts", "error", err, "username", username)
}

func (h *ProfileHandler) renderProfile(w http.ResponseWriter, r *http.Request, profile model.User,
	posts []store.PostWithMeta, pagination Pagination, now time.Time, isOwner bool) {
	err := h.renderer.Render(w, r, "pages/profile", render.TemplateData{
		Title: profile.DisplayName(),
		User:  middleware.GetUser(r),
		Data: ProfileData{
			Profile:    profile,
			Posts:      newPostViews(posts, now),
			Pagination: pagination,
			IsOwner:    isOwner,
		},
	})
	if err != nil {
		logAndInternalError(w, "failed to render profile", "error", err)
	}
}

// ProfileFormData holds data for the profile edit form template.
type ProfileFormData struct {
	FormValues map[string]string
	Errors     map[string]string
}

// EditForm renders the profile edit form for the current user.
// GET /profile/edit
func (h *ProfileHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	h.renderProfileForm(w, r, ProfileFormData{
		FormValues: map[string]string{
			"username":   user.Username,
			"email":      user.Email,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
		},
		Errors: make(map[string]string),
	})
}

// Update handles the profile edit form submission. Users can only edit
// their own profile; the route carries no target user at all.
// POST /profile/edit
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if !parseFormOrRedirect(w, r, h.renderer, "/profile/edit") {
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	email := strings.TrimSpace(r.FormValue("email"))
	firstName := strings.TrimSpace(r.FormValue("first_name"))
	lastName := strings.TrimSpace(r.FormValue("last_name"))

	formValues := map[string]string{
		"username":   username,
		"email":      email,
		"first_name": firstName,
		"last_name":  lastName,
	}

	validationErrors := make(map[string]string)

	if username == "" {
		validationErrors["username"] = "Username is required"
	} else if !util.IsValidUsername(username) {
		validationErrors["username"] = "Use 3-32 letters, digits, hyphens or underscores"
	} else if username != user.Username {
		exists, err := h.queries.UsernameExists(r.Context(), username)
		if err != nil {
			logAndInternalError(w, "failed to check username", "error", err)
			return
		}
		if exists {
			validationErrors["username"] = "Username already taken"
		}
	}

	if email == "" {
		validationErrors["email"] = "Email is required"
	} else if _, err := mail.ParseAddress(email); err != nil {
		validationErrors["email"] = "Invalid email format"
	} else if email != user.Email {
		exists, err := h.queries.EmailExists(r.Context(), email)
		if err != nil {
			logAndInternalError(w, "failed to check email", "error", err)
			return
		}
		if exists {
			validationErrors["email"] = "Email already registered"
		}
	}

	if len(validationErrors) > 0 {
		h.renderProfileForm(w, r, ProfileFormData{
			FormValues: formValues,
			Errors:     validationErrors,
		})
		return
	}

	updated, err := h.queries.UpdateUser(r.Context(), store.UpdateUserParams{
		ID:        user.ID,
		Username:  username,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		logAndInternalError(w, "failed to update user", "error", err, "user_id", user.ID)
		return
	}

	flashSuccess(w, r, h.renderer, updated.ProfileURL(), "Profile updated")
}

func (h *ProfileHandler) renderProfileForm(w http.ResponseWriter, r *http.Request, data ProfileFormData) {
	err := h.renderer.Render(w, r, "pages/profile_form", render.TemplateData{
		Title: "Edit profile",
		User:  middleware.GetUser(r),
		Data:  data,
	})
	if err != nil {
		logAndInternalError(w, "failed to render profile form", "error", err)
	}
}
