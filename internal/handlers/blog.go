package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"solarsite/internal/models"
	"solarsite/internal/sanitize"
	"solarsite/internal/slug"
	"solarsite/internal/store"
)

// Blog serves the article section: public reads and engagement counters,
// admin writes.
type Blog struct {
	store *store.BlogStore
}

func NewBlog(s *store.BlogStore) *Blog {
	return &Blog{store: s}
}

// List returns post summaries, newest first.
func (h *Blog) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.store.List(r.Context())
	if err != nil {
		slog.Error("list blogs", "error", err)
		respondError(w, http.StatusInternalServerError, "could not list posts")
		return
	}
	if posts == nil {
		posts = []models.BlogSummary{}
	}
	respondJSON(w, http.StatusOK, posts)
}

// Get returns a full post by slug, body blocks and comments included.
func (h *Blog) Get(w http.ResponseWriter, r *http.Request) {
	s := chi.URLParam(r, "slug")
	post, err := h.store.FindBySlug(r.Context(), s)
	if err != nil {
		slog.Error("find blog", "slug", s, "error", err)
		respondError(w, http.StatusInternalServerError, "could not load post")
		return
	}
	if post == nil {
		respondError(w, http.StatusNotFound, "post not found")
		return
	}
	respondJSON(w, http.StatusOK, post)
}

// View bumps the view counter and returns the new count. Every call
// counts a view; any per-reader dedup is the client's concern.
func (h *Blog) View(w http.ResponseWriter, r *http.Request) {
	s := chi.URLParam(r, "slug")
	views, ok, err := h.store.IncrementViews(r.Context(), s)
	if err != nil {
		slog.Error("increment views", "slug", s, "error", err)
		respondError(w, http.StatusInternalServerError, "could not record view")
		return
	}
	if !ok {
		respondError(w, http.StatusNotFound, "post not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"views": views})
}

// Like bumps the like counter and returns the new count.
func (h *Blog) Like(w http.ResponseWriter, r *http.Request) {
	s := chi.URLParam(r, "slug")
	likes, ok, err := h.store.IncrementLikes(r.Context(), s)
	if err != nil {
		slog.Error("increment likes", "slug", s, "error", err)
		respondError(w, http.StatusInternalServerError, "could not record like")
		return
	}
	if !ok {
		respondError(w, http.StatusNotFound, "post not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"likes": likes})
}

type commentInput struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// Comment appends a reader comment to a post. Name and text are stripped
// of any HTML before storage.
func (h *Blog) Comment(w http.ResponseWriter, r *http.Request) {
	s := chi.URLParam(r, "slug")

	var in commentInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondDecodeError(w, err)
		return
	}

	comment := models.Comment{
		Name:      sanitize.Text(in.Name),
		Text:      sanitize.Text(in.Text),
		CreatedAt: time.Now().UTC(),
	}
	if comment.Name == "" || comment.Text == "" {
		respondError(w, http.StatusBadRequest, "name and text are required")
		return
	}

	ok, err := h.store.AddComment(r.Context(), s, comment)
	if err != nil {
		slog.Error("add comment", "slug", s, "error", err)
		respondError(w, http.StatusInternalServerError, "could not add comment")
		return
	}
	if !ok {
		respondError(w, http.StatusNotFound, "post not found")
		return
	}
	respondJSON(w, http.StatusCreated, comment)
}

// Create inserts a new post. The slug is derived from the title; on
// collision a millisecond timestamp suffix keeps it unique.
func (h *Blog) Create(w http.ResponseWriter, r *http.Request) {
	var in blogInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondDecodeError(w, err)
		return
	}
	if err := in.validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	postSlug := slug.Generate(in.Title)
	taken, err := h.store.SlugExists(r.Context(), postSlug)
	if err != nil {
		slog.Error("check slug", "slug", postSlug, "error", err)
		respondError(w, http.StatusInternalServerError, "could not create post")
		return
	}
	if taken {
		postSlug = slug.WithTimestamp(in.Title)
	}

	post := in.toModel()
	post.Slug = postSlug
	created, err := h.store.Create(r.Context(), post)
	if err != nil {
		slog.Error("create blog", "error", err)
		respondError(w, http.StatusInternalServerError, "could not create post")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// Update overwrites a post's editable fields. Counters and comments are
// untouched; the slug is never regenerated.
func (h *Blog) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	var in blogInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondDecodeError(w, err)
		return
	}
	if err := in.validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	current, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("find blog", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "could not update post")
		return
	}
	if current == nil {
		respondError(w, http.StatusNotFound, "post not found")
		return
	}

	post := in.toModel()
	post.ID = id
	post.Slug = current.Slug
	if post.Date.IsZero() {
		post.Date = current.Date
	}
	updated, err := h.store.Update(r.Context(), post)
	if err != nil {
		slog.Error("update blog", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "could not update post")
		return
	}
	if updated == nil {
		respondError(w, http.StatusNotFound, "post not found")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// Delete removes a post by ID. Deleting an unknown ID still succeeds.
func (h *Blog) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	deleted, err := h.store.Delete(r.Context(), id)
	if err != nil {
		slog.Error("delete blog", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "could not delete post")
		return
	}
	if !deleted {
		slog.Info("delete blog: no such row", "id", id)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (in *blogInput) toModel() *models.BlogPost {
	blocks := make([]models.Block, 0, len(in.Blocks))
	for _, b := range in.Blocks {
		blocks = append(blocks, models.Block{
			Type:    models.BlockType(b.Type),
			Content: strings.TrimSpace(b.Content),
			URL:     b.URL,
			Caption: b.Caption,
		})
	}
	post := &models.BlogPost{
		Title:    in.Title,
		Author:   in.Author,
		ReadTime: in.ReadTime,
		Category: in.Category,
		Image:    in.Image,
		Excerpt:  in.Excerpt,
		Blocks:   blocks,
	}
	if in.Date != nil {
		post.Date = *in.Date
	}
	return post
}
