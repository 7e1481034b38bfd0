package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"solarsite/internal/models"
	"solarsite/internal/store"
)

func blogRouter(h *Blog) http.Handler {
	r := chi.NewRouter()
	r.Get("/blogs", h.List)
	r.Post("/blogs", h.Create)
	r.Get("/blogs/slug/{slug}", h.Get)
	r.Post("/blogs/slug/{slug}/view", h.View)
	r.Post("/blogs/slug/{slug}/like", h.Like)
	r.Post("/blogs/slug/{slug}/comment", h.Comment)
	r.Put("/blogs/{id}", h.Update)
	r.Delete("/blogs/{id}", h.Delete)
	return r
}

func createPost(t *testing.T, router http.Handler, payload string) models.BlogPost {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/blogs", strings.NewReader(payload))
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create post: got status %d, body %s", rec.Code, rec.Body)
	}
	var p models.BlogPost
	if err := json.NewDecoder(rec.Body).Decode(&p); err != nil {
		t.Fatalf("decode created post: %v", err)
	}
	return p
}

func TestBlogCreateAndGet(t *testing.T) {
	db := testDB(t)
	router := blogRouter(NewBlog(store.NewBlogStore(db)))

	created := createPost(t, router, `{
		"title": "Sizing a Home Battery",
		"author": "M. Keller",
		"readTime": "6 min",
		"category": "guides",
		"excerpt": "How much storage do you actually need?",
		"blocks": [
			{"type": "text", "content": "Start from your evening load profile."},
			{"type": "image", "url": "https://cdn.example.com/m/battery.webp", "caption": "A 10 kWh stack"}
		]
	}`)
	t.Cleanup(func() { db.Exec("DELETE FROM blogs WHERE id = $1", created.ID) })

	if created.Slug != "sizing-a-home-battery" {
		t.Errorf("slug: got %q, want %q", created.Slug, "sizing-a-home-battery")
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blogs/slug/"+created.Slug, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("get post: got status %d", rec.Code)
	}
	var got models.BlogPost
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode post: %v", err)
	}
	if len(got.Blocks) != 2 {
		t.Fatalf("blocks: got %d, want 2", len(got.Blocks))
	}
	if got.Blocks[1].Type != models.BlockTypeImage {
		t.Errorf("block 1 type: got %q, want %q", got.Blocks[1].Type, models.BlockTypeImage)
	}
	if got.Likes != 0 || got.Views != 0 {
		t.Errorf("fresh post counters: got likes=%d views=%d, want zero", got.Likes, got.Views)
	}
}

func TestBlogCreateRejectsBadBlocks(t *testing.T) {
	db := testDB(t)
	router := blogRouter(NewBlog(store.NewBlogStore(db)))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/blogs", strings.NewReader(`{
		"title": "Bad Post",
		"author": "A",
		"blocks": [{"type": "video", "url": "https://example.com/v.mp4"}]
	}`))
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d (body %s)", rec.Code, http.StatusBadRequest, rec.Body)
	}
}

func TestBlogCounters(t *testing.T) {
	db := testDB(t)
	router := blogRouter(NewBlog(store.NewBlogStore(db)))

	created := createPost(t, router, `{
		"title": "Counter Post", "author": "A",
		"blocks": [{"type": "text", "content": "body"}]
	}`)
	t.Cleanup(func() { db.Exec("DELETE FROM blogs WHERE id = $1", created.ID) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/blogs/slug/"+created.Slug+"/view", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("view: got status %d", rec.Code)
	}
	var views map[string]int
	if err := json.NewDecoder(rec.Body).Decode(&views); err != nil {
		t.Fatalf("decode view response: %v", err)
	}
	if views["views"] != 1 {
		t.Errorf("views after first view: got %d, want 1", views["views"])
	}

	for want := 1; want <= 2; want++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/blogs/slug/"+created.Slug+"/like", nil))
		var likes map[string]int
		if err := json.NewDecoder(rec.Body).Decode(&likes); err != nil {
			t.Fatalf("decode like response: %v", err)
		}
		if likes["likes"] != want {
			t.Errorf("likes: got %d, want %d", likes["likes"], want)
		}
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/blogs/slug/no-such-post/view", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("view on unknown slug: got status %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestBlogCommentStripsHTML(t *testing.T) {
	db := testDB(t)
	router := blogRouter(NewBlog(store.NewBlogStore(db)))

	created := createPost(t, router, `{
		"title": "Comment Post", "author": "A",
		"blocks": [{"type": "text", "content": "body"}]
	}`)
	t.Cleanup(func() { db.Exec("DELETE FROM blogs WHERE id = $1", created.ID) })

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/blogs/slug/"+created.Slug+"/comment",
		strings.NewReader(`{"name": "<b>Eve</b>", "text": "Nice <script>alert(1)</script> post"}`))
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("comment: got status %d, body %s", rec.Code, rec.Body)
	}
	var c models.Comment
	if err := json.NewDecoder(rec.Body).Decode(&c); err != nil {
		t.Fatalf("decode comment: %v", err)
	}
	if c.Name != "Eve" {
		t.Errorf("name: got %q, want %q", c.Name, "Eve")
	}
	if strings.Contains(c.Text, "<script>") {
		t.Errorf("text kept markup: %q", c.Text)
	}

	// A comment that is nothing but markup is rejected.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/blogs/slug/"+created.Slug+"/comment",
		strings.NewReader(`{"name": "Eve", "text": "<script></script>"}`))
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("markup-only comment: got status %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestBlogUpdatePreservesCountersAndSlug(t *testing.T) {
	db := testDB(t)
	router := blogRouter(NewBlog(store.NewBlogStore(db)))

	created := createPost(t, router, `{
		"title": "Update Post", "author": "A",
		"blocks": [{"type": "text", "content": "v1"}]
	}`)
	t.Cleanup(func() { db.Exec("DELETE FROM blogs WHERE id = $1", created.ID) })

	router.ServeHTTP(httptest.NewRecorder(),
		httptest.NewRequest(http.MethodPost, "/blogs/slug/"+created.Slug+"/like", nil))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/blogs/"+created.ID.String(), strings.NewReader(`{
		"title": "Update Post, Revised", "author": "A",
		"blocks": [{"type": "text", "content": "v2"}]
	}`))
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: got status %d, body %s", rec.Code, rec.Body)
	}
	var updated models.BlogPost
	if err := json.NewDecoder(rec.Body).Decode(&updated); err != nil {
		t.Fatalf("decode updated post: %v", err)
	}
	if updated.Slug != created.Slug {
		t.Errorf("slug changed by update: got %q, want %q", updated.Slug, created.Slug)
	}
	if updated.Likes != 1 {
		t.Errorf("likes after update: got %d, want 1", updated.Likes)
	}
	if updated.Title != "Update Post, Revised" {
		t.Errorf("title: got %q", updated.Title)
	}
}

func TestBlogDeleteIsIdempotent(t *testing.T) {
	db := testDB(t)
	router := blogRouter(NewBlog(store.NewBlogStore(db)))

	created := createPost(t, router, `{
		"title": "Delete Post", "author": "A",
		"blocks": [{"type": "text", "content": "body"}]
	}`)
	t.Cleanup(func() { db.Exec("DELETE FROM blogs WHERE id = $1", created.ID) })

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/blogs/"+created.ID.String(), nil)
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Errorf("delete attempt %d: got status %d, want %d", i+1, rec.Code, http.StatusNoContent)
		}
	}
}
