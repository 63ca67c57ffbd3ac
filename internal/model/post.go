// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"fmt"
	"time"
)

// Post represents a single blog entry, the primary content unit.
//
// CategoryID and LocationID are nullable: deleting a category or location
// sets the reference to NULL rather than cascading to the post.
type Post struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Text        string         `json:"text"`
	PubDate     time.Time      `json:"pub_date"`
	AuthorID    int64          `json:"author_id"`
	CategoryID  sql.NullInt64  `json:"category_id,omitempty"`
	LocationID  sql.NullInt64  `json:"location_id,omitempty"`
	Image       sql.NullString `json:"image,omitempty"`
	IsPublished bool           `json:"is_published"`
	CreatedAt   time.Time      `json:"created_at"`
}

// URL returns the post detail page URL.
func (p *Post) URL() string {
	return fmt.Sprintf("/posts/%d", p.ID)
}

// IsScheduled reports whether the post's publication time is still in the
// future relative to now.
func (p *Post) IsScheduled(now time.Time) bool {
	return p.PubDate.After(now)
}

// VisibleAt reports whether the post is publicly readable at the given time.
// A post is visible iff it is published, its category exists and is
// published, and its publication time is not in the future. A post without
// a category is never publicly visible.
func (p *Post) VisibleAt(category *Category, now time.Time) bool {
	if !p.IsPublished {
		return false
	}
	if category == nil || !category.IsPublished {
		return false
	}
	return !p.PubDate.After(now)
}
