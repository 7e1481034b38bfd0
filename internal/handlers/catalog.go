package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"solarsite/internal/cache"
	"solarsite/internal/models"
	"solarsite/internal/slug"
	"solarsite/internal/store"
	"solarsite/internal/taxonomy"
)

// Catalog serves the product catalog: public reads and admin writes.
type Catalog struct {
	store *store.ProductStore
	cache *cache.CatalogCache
}

func NewCatalog(s *store.ProductStore, c *cache.CatalogCache) *Catalog {
	return &Catalog{store: s, cache: c}
}

// List returns every product, oldest first. Responses are served from
// Valkey when warm; any admin write invalidates the whole catalog keyspace.
func (h *Catalog) List(w http.ResponseWriter, r *http.Request) {
	if h.cache != nil {
		if body, ok := h.cache.Get(r.Context(), cache.ListKey()); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write(body)
			return
		}
	}

	products, err := h.store.List(r.Context())
	if err != nil {
		slog.Error("list products", "error", err)
		respondError(w, http.StatusInternalServerError, "could not list products")
		return
	}
	if products == nil {
		products = []models.Product{}
	}

	body, err := json.Marshal(products)
	if err != nil {
		slog.Error("encode products", "error", err)
		respondError(w, http.StatusInternalServerError, "could not list products")
		return
	}
	if h.cache != nil {
		h.cache.Set(r.Context(), cache.ListKey(), body)
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// Get returns a single product by slug.
func (h *Catalog) Get(w http.ResponseWriter, r *http.Request) {
	s := chi.URLParam(r, "slug")

	if h.cache != nil {
		if body, ok := h.cache.Get(r.Context(), cache.SlugKey(s)); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write(body)
			return
		}
	}

	product, err := h.store.FindBySlug(r.Context(), s)
	if err != nil {
		slog.Error("find product", "slug", s, "error", err)
		respondError(w, http.StatusInternalServerError, "could not load product")
		return
	}
	if product == nil {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}

	body, err := json.Marshal(product)
	if err != nil {
		slog.Error("encode product", "slug", s, "error", err)
		respondError(w, http.StatusInternalServerError, "could not load product")
		return
	}
	if h.cache != nil {
		h.cache.Set(r.Context(), cache.SlugKey(s), body)
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// Create inserts a new product. The payload may carry a resolved slug;
// otherwise one is derived from the name, with a millisecond timestamp
// suffix on collision.
func (h *Catalog) Create(w http.ResponseWriter, r *http.Request) {
	var in productInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondDecodeError(w, err)
		return
	}
	if err := in.validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	productSlug := in.Slug
	if productSlug != "" && !slug.Valid(productSlug) {
		respondError(w, http.StatusBadRequest, "slug may only contain lowercase letters, digits and hyphens")
		return
	}
	if productSlug == "" {
		productSlug = slug.Generate(in.Name)
	}

	taken, err := h.store.SlugExists(r.Context(), productSlug)
	if err != nil {
		slog.Error("check slug", "slug", productSlug, "error", err)
		respondError(w, http.StatusInternalServerError, "could not create product")
		return
	}
	if taken {
		if in.Slug != "" {
			respondError(w, http.StatusBadRequest, "slug already in use")
			return
		}
		productSlug = slug.WithTimestamp(in.Name)
	}

	created, err := h.store.Create(r.Context(), &models.Product{
		Name:          in.Name,
		Description:   in.Description,
		Slug:          productSlug,
		Image:         in.Image,
		Type:          in.Type,
		Category:      in.Category,
		SubCategory:   in.SubCategory,
		ExtraCategory: in.ExtraCategory,
		Features:      in.Features,
	})
	if err != nil {
		slog.Error("create product", "error", err)
		respondError(w, http.StatusInternalServerError, "could not create product")
		return
	}

	h.invalidate(r)
	respondJSON(w, http.StatusCreated, created)
}

// Update overwrites a product's fields with the payload. Keys absent from
// the payload keep their stored values; the slug is never regenerated.
func (h *Catalog) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	current, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("find product", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "could not update product")
		return
	}
	if current == nil {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}

	// Seed the input with the stored document so the decoder only
	// overwrites the keys the payload actually carries.
	in := productInput{
		Name:          current.Name,
		Description:   current.Description,
		Image:         current.Image,
		Type:          current.Type,
		Category:      current.Category,
		SubCategory:   current.SubCategory,
		ExtraCategory: current.ExtraCategory,
		Features:      current.Features,
	}
	if err := decodeJSON(w, r, &in); err != nil {
		respondDecodeError(w, err)
		return
	}
	if err := in.validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.store.Update(r.Context(), &models.Product{
		ID:            id,
		Name:          in.Name,
		Description:   in.Description,
		Slug:          current.Slug,
		Image:         in.Image,
		Type:          in.Type,
		Category:      in.Category,
		SubCategory:   in.SubCategory,
		ExtraCategory: in.ExtraCategory,
		Features:      in.Features,
	})
	if err != nil {
		slog.Error("update product", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "could not update product")
		return
	}
	if updated == nil {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}

	h.invalidate(r)
	respondJSON(w, http.StatusOK, updated)
}

// Delete removes a product by ID. Deleting an unknown ID still succeeds:
// the end state is the same either way.
func (h *Catalog) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	deleted, err := h.store.Delete(r.Context(), id)
	if err != nil {
		slog.Error("delete product", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "could not delete product")
		return
	}
	if !deleted {
		slog.Info("delete product: no such row", "id", id)
	}

	h.invalidate(r)
	w.WriteHeader(http.StatusNoContent)
}

// Related returns products sharing the given taxonomy path, optionally
// narrowed by extraCategory and excluding one slug (the product being
// viewed). Results are not cached: the query is cheap and the parameter
// space is wide.
func (h *Catalog) Related(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category := q.Get("category")
	subCategory := q.Get("subCategory")
	if category == "" || subCategory == "" {
		respondError(w, http.StatusBadRequest, "category and subCategory are required")
		return
	}

	if !taxonomy.Known(category, subCategory) {
		respondError(w, http.StatusBadRequest, "unknown category path")
		return
	}

	// Omitting extraCategory on an enumerated path is allowed here: the
	// caller is widening the match, not classifying a product.
	var extra *string
	if v := q.Get("extraCategory"); v != "" {
		extra = &v
		if err := taxonomy.Check(category, subCategory, extra); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	var exclude *string
	if v := q.Get("exclude"); v != "" {
		exclude = &v
	}

	products, err := h.store.Related(r.Context(), category, subCategory, extra, exclude)
	if err != nil {
		slog.Error("related products", "category", category, "error", err)
		respondError(w, http.StatusInternalServerError, "could not load related products")
		return
	}
	if products == nil {
		products = []models.Product{}
	}

	respondJSON(w, http.StatusOK, map[string][]models.Product{"relatedProducts": products})
}

func (h *Catalog) invalidate(r *http.Request) {
	if h.cache != nil {
		h.cache.InvalidateAll(r.Context())
	}
}
