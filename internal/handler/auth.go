// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/avdeevdmitrykrsk/blogicum/internal/auth"
	"github.com/avdeevdmitrykrsk/blogicum/internal/middleware"
	"github.com/avdeevdmitrykrsk/blogicum/internal/model"
	"github.com/avdeevdmitrykrsk/blogicum/internal/render"
	"github.com/avdeevdmitrykrsk/blogicum/internal/store"
	"github.com/avdeevdmitrykrsk/blogicum/internal/util"
)

const (
	redirectLogin = "/login"

	minPasswordLength = 8
)

// AuthHandler handles authentication routes.
type AuthHandler struct {
	queries         *store.Queries
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		queries:         store.New(db),
		renderer:        renderer,
		sessionManager:  sm,
		loginProtection: lp,
	}
}

// AuthFormData holds data for the login and registration templates.
type AuthFormData struct {
	FormValues map[string]string
	Errors     map[string]string
}

// LoginForm renders the login page.
// GET /login
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	// Redirect already-authenticated users
	if h.sessionManager.GetInt64(r.Context(), middleware.SessionKeyUserID) > 0 {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.renderAuthForm(w, r, "auth/login", "Log in", AuthFormData{
		FormValues: make(map[string]string),
		Errors:     make(map[string]string),
	})
}

// Login handles the login form submission.
// POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, redirectLogin, "Invalid form data")
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	if username == "" || password == "" {
		flashError(w, r, h.renderer, redirectLogin, "Username and password are required")
		return
	}

	ip := clientIP(r)

	if locked, remaining := h.loginProtection.IsAccountLocked(username); locked {
		slog.Warn("login attempt on locked account",
			"username", username, "ip", ip, "category", model.EventCategoryAuth)
		flashError(w, r, h.renderer, redirectLogin,
			"Account is temporarily locked. Try again in "+formatDuration(remaining))
		return
	}

	user, err := h.queries.GetUserByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			slog.Debug("login attempt for non-existent user", "username", username)
		} else {
			slog.Error("database error during login", "error", err)
		}
		// Record failed attempt even for non-existent users to prevent enumeration
		if locked, lockDuration := h.loginProtection.RecordFailedAttempt(username); locked {
			flashError(w, r, h.renderer, redirectLogin,
				"Too many failed attempts. Try again in "+formatDuration(lockDuration))
			return
		}
		flashError(w, r, h.renderer, redirectLogin, "Invalid username or password")
		return
	}

	valid, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		slog.Error("password check error", "error", err)
		flashError(w, r, h.renderer, redirectLogin, "Invalid username or password")
		return
	}

	if !valid {
		slog.Warn("login failed: invalid password",
			"username", username, "ip", ip, "category", model.EventCategoryAuth)
		if locked, lockDuration := h.loginProtection.RecordFailedAttempt(username); locked {
			slog.Warn("account locked after failed attempts",
				"username", username, "ip", ip, "category", model.EventCategoryAuth)
			flashError(w, r, h.renderer, redirectLogin,
				"Too many failed attempts. Try again in "+formatDuration(lockDuration))
			return
		}
		if remaining := h.loginProtection.GetRemainingAttempts(username); remaining <= 3 && remaining > 0 {
			flashError(w, r, h.renderer, redirectLogin,
				fmt.Sprintf("Invalid username or password. %d attempts remaining", remaining))
			return
		}
		flashError(w, r, h.renderer, redirectLogin, "Invalid username or password")
		return
	}

	h.loginProtection.RecordSuccessfulLogin(username)

	// Re-hash password if it uses outdated parameters
	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(password); err == nil {
			if err := h.queries.UpdateUserPassword(r.Context(), store.UpdateUserPasswordParams{
				PasswordHash: newHash,
				UpdatedAt:    time.Now(),
				ID:           user.ID,
			}); err != nil {
				slog.Error("failed to re-hash password", "error", err, "user_id", user.ID)
			}
		}
	}

	if err := h.queries.UpdateUserLastLogin(r.Context(), store.UpdateUserLastLoginParams{
		LastLoginAt: sql.NullTime{Time: time.Now(), Valid: true},
		ID:          user.ID,
	}); err != nil {
		// Don't block login on this error
		slog.Error("failed to update last login time", "error", err, "user_id", user.ID)
	}

	// Regenerate session ID to prevent session fixation
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}

	h.sessionManager.Put(r.Context(), middleware.SessionKeyUserID, user.ID)

	slog.Info("user logged in", "user_id", user.ID, "username", user.Username,
		"ip", ip, "category", model.EventCategoryAuth)

	flashSuccess(w, r, h.renderer, "/", "Welcome back, "+user.DisplayName())
}

// RegisterForm renders the registration page.
// GET /register
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if h.sessionManager.GetInt64(r.Context(), middleware.SessionKeyUserID) > 0 {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.renderAuthForm(w, r, "auth/register", "Sign up", AuthFormData{
		FormValues: make(map[string]string),
		Errors:     make(map[string]string),
	})
}

// Register handles the registration form submission. New users are logged
// in right away.
// POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, "/register", "Invalid form data")
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	email := strings.TrimSpace(r.FormValue("email"))
	firstName := strings.TrimSpace(r.FormValue("first_name"))
	lastName := strings.TrimSpace(r.FormValue("last_name"))
	password := r.FormValue("password")
	passwordConfirm := r.FormValue("password_confirm")

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
	} else {
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
	} else {
		exists, err := h.queries.EmailExists(r.Context(), email)
		if err != nil {
			logAndInternalError(w, "failed to check email", "error", err)
			return
		}
		if exists {
			validationErrors["email"] = "Email already registered"
		}
	}

	if len(password) < minPasswordLength {
		validationErrors["password"] = fmt.Sprintf("Password must be at least %d characters", minPasswordLength)
	} else if password != passwordConfirm {
		validationErrors["password_confirm"] = "Passwords do not match"
	}

	if len(validationErrors) > 0 {
		h.renderAuthForm(w, r, "auth/register", "Sign up", AuthFormData{
			FormValues: formValues,
			Errors:     validationErrors,
		})
		return
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		logAndInternalError(w, "failed to hash password", "error", err)
		return
	}

	now := time.Now()
	user, err := h.queries.CreateUser(r.Context(), store.CreateUserParams{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    firstName,
		LastName:     lastName,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		logAndInternalError(w, "failed to create user", "error", err, "username", username)
		return
	}

	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}
	h.sessionManager.Put(r.Context(), middleware.SessionKeyUserID, user.ID)

	slog.Info("user registered", "user_id", user.ID, "username", user.Username,
		"category", model.EventCategoryAuth)

	flashSuccess(w, r, h.renderer, "/", "Welcome, "+user.DisplayName())
}

// Logout handles user logout.
// POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := h.sessionManager.GetInt64(r.Context(), middleware.SessionKeyUserID)

	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		slog.Error("session destroy error", "error", err)
	}

	slog.Info("user logged out", "user_id", userID, "category", model.EventCategoryAuth)

	flashAndRedirect(w, r, h.renderer, "/", "You have been logged out", "info")
}

func (h *AuthHandler) renderAuthForm(w http.ResponseWriter, r *http.Request, name, title string, data AuthFormData) {
	err := h.renderer.Render(w, r, name, render.TemplateData{
		Title: title,
		User:  middleware.GetUser(r),
		Data:  data,
	})
	if err != nil {
		logAndInternalError(w, "failed to render auth form", "error", err)
	}
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
