package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/avdeevdmitrykrsk/blogicum/internal/auth"
	"github.com/avdeevdmitrykrsk/blogicum/internal/util"
)

// Default admin credentials
const (
	DefaultAdminUsername = "admin"
	DefaultAdminEmail    = "admin@example.com"
	DefaultAdminPassword = "changeme"
)

var seedCategories = []struct {
	Title       string
	Description string
}{
	{"Travel", "Trip reports, routes and places worth visiting."},
	{"Food", "Recipes, restaurants and everything edible."},
	{"Tech", "Notes on software, hardware and the web."},
}

var seedLocations = []string{
	"Moscow",
	"Saint Petersburg",
	"Krasnoyarsk",
}

// Seed creates initial data in the database: a default admin user plus a
// starter set of categories and locations. Safe to run more than once.
func Seed(ctx context.Context, db *sql.DB) error {
	queries := New(db)
	now := time.Now()

	if err := seedAdmin(ctx, queries, now); err != nil {
		return err
	}

	for _, c := range seedCategories {
		slug := util.Slugify(c.Title)
		if _, err := queries.GetPublishedCategoryBySlug(ctx, slug); err == nil {
			continue
		} else if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("checking category %q: %w", slug, err)
		}
		if _, err := queries.CreateCategory(ctx, CreateCategoryParams{
			Title:       c.Title,
			Description: c.Description,
			Slug:        slug,
			IsPublished: true,
			CreatedAt:   now,
		}); err != nil {
			return fmt.Errorf("creating category %q: %w", c.Title, err)
		}
	}

	for _, name := range seedLocations {
		if _, err := queries.GetLocationByName(ctx, name); err == nil {
			continue
		} else if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("checking location %q: %w", name, err)
		}
		if _, err := queries.CreateLocation(ctx, CreateLocationParams{
			Name:        name,
			IsPublished: true,
			CreatedAt:   now,
		}); err != nil {
			return fmt.Errorf("creating location %q: %w", name, err)
		}
	}

	return nil
}

func seedAdmin(ctx context.Context, queries *Queries, now time.Time) error {
	_, err := queries.GetUserByEmail(ctx, DefaultAdminEmail)
	if err == nil {
		slog.Info("admin user already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	passwordHash, err := auth.HashPassword(DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user, err := queries.CreateUser(ctx, CreateUserParams{
		Username:     DefaultAdminUsername,
		Email:        DefaultAdminEmail,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created default admin user",
		"id", user.ID,
		"username", user.Username,
		"password", DefaultAdminPassword,
	)
	return nil
}
