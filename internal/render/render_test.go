package render

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
)

func testTemplatesFS() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.html": &fstest.MapFile{
			Data: []byte(`{{define "base"}}<html><body>{{template "content" .}}</body></html>{{end}}`),
		},
		"pages/hello.html": &fstest.MapFile{
			Data: []byte(`{{define "content"}}<h1>{{.Title}}</h1>{{end}}`),
		},
	}
}

func TestRender(t *testing.T) {
	r, err := New(Config{TemplatesFS: testTemplatesFS()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	if err := r.Render(rec, req, "pages/hello", TemplateData{Title: "Hello"}); err != nil {
		t.Fatalf("Render: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "<h1>Hello</h1>") {
		t.Errorf("body = %q, missing rendered title", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	r, err := New(Config{TemplatesFS: testTemplatesFS()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	if err := r.Render(rec, req, "pages/missing", TemplateData{}); err == nil {
		t.Error("Render should fail for unknown template")
	}
}

func TestRenderStatus(t *testing.T) {
	r, err := New(Config{TemplatesFS: testTemplatesFS()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)

	if err := r.RenderStatus(rec, req, http.StatusNotFound, "pages/hello", TemplateData{Title: "Not Found"}); err != nil {
		t.Fatalf("RenderStatus: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestMarkdown(t *testing.T) {
	html := string(Markdown("**bold** text"))
	if !strings.Contains(html, "<strong>bold</strong>") {
		t.Errorf("Markdown() = %q, want bold markup", html)
	}

	// Script tags must not survive sanitization
	html = string(Markdown(`hello <script>alert("x")</script>`))
	if strings.Contains(html, "<script>") {
		t.Errorf("Markdown() = %q, script tag survived", html)
	}
}
