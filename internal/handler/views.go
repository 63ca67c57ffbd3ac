// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"html/template"
	"path"
	"path/filepath"
	"time"

	"github.com/avdeevdmitrykrsk/blogicum/internal/model"
	"github.com/avdeevdmitrykrsk/blogicum/internal/render"
	"github.com/avdeevdmitrykrsk/blogicum/internal/store"
)

// PostView represents a post with computed fields for template rendering.
type PostView struct {
	ID           int64
	Title        string
	Body         template.HTML
	PubDate      time.Time
	IsScheduled  bool
	IsPublished  bool
	Author       string
	AuthorURL    string
	Category     *model.Category
	Location     string
	ImageURL     string
	CommentCount int64
	URL          string
}

// newPostView converts an annotated store row into a template view.
func newPostView(p store.PostWithMeta, now time.Time) PostView {
	v := PostView{
		ID:           p.ID,
		Title:        p.Title,
		Body:         render.Markdown(p.Text),
		PubDate:      p.PubDate,
		IsScheduled:  p.IsScheduled(now),
		IsPublished:  p.IsPublished,
		Author:       p.AuthorUsername,
		AuthorURL:    "/profile/" + p.AuthorUsername,
		Category:     p.Category(),
		CommentCount: p.CommentCount,
		URL:          p.URL(),
	}
	if p.LocationName.Valid {
		v.Location = p.LocationName.String
	}
	if p.Image.Valid && p.Image.String != "" {
		v.ImageURL = "/uploads/" + path.Clean(filepath.ToSlash(p.Image.String))
	}
	return v
}

// newPostViews converts a list of annotated rows.
func newPostViews(posts []store.PostWithMeta, now time.Time) []PostView {
	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, newPostView(p, now))
	}
	return views
}

// CommentView represents a comment for template rendering.
type CommentView struct {
	ID        int64
	Text      string
	Author    string
	AuthorURL string
	CreatedAt time.Time
	EditURL   string
	DeleteURL string
	IsOwn     bool
}

// newCommentViews converts comments, marking the ones owned by viewerID.
func newCommentViews(comments []store.CommentWithAuthor, viewerID int64) []CommentView {
	views := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, CommentView{
			ID:        c.ID,
			Text:      c.Text,
			Author:    c.AuthorUsername,
			AuthorURL: "/profile/" + c.AuthorUsername,
			CreatedAt: c.CreatedAt,
			EditURL:   c.EditURL(),
			DeleteURL: c.DeleteURL(),
			IsOwn:     viewerID != 0 && c.AuthorID == viewerID,
		})
	}
	return views
}
