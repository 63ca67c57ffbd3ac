// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"fmt"
	"time"
)

// Comment represents a reply attached to a post. Comments are cascade-deleted
// with their post and ordered by creation time ascending.
type Comment struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	PostID    int64     `json:"post_id"`
	AuthorID  int64     `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

// EditURL returns the comment edit form URL.
func (c *Comment) EditURL() string {
	return fmt.Sprintf("/posts/%d/comment/%d/edit", c.PostID, c.ID)
}

// DeleteURL returns the comment delete URL.
func (c *Comment) DeleteURL() string {
	return fmt.Sprintf("/posts/%d/comment/%d/delete", c.PostID, c.ID)
}
