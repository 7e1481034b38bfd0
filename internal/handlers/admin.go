package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"solarsite/internal/identity"
	"solarsite/internal/middleware"
	"solarsite/internal/storage"
)

// maxImageBytes caps admin image uploads.
const maxImageBytes = 5 << 20

// Admin serves back-office operations that live outside the catalog and
// blog handlers: granting the admin claim and uploading media.
type Admin struct {
	identity identity.Provider
	storage  *storage.Client
}

func NewAdmin(p identity.Provider, st *storage.Client) *Admin {
	return &Admin{identity: p, storage: st}
}

type createAdminInput struct {
	Email string `json:"email"`
}

// CreateAdmin asks the identity provider to set the admin claim on the
// given account. The caller is already admin-gated; the grant takes
// effect on the target's next token refresh.
func (h *Admin) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	if h.identity == nil {
		respondError(w, http.StatusServiceUnavailable, "identity provider not configured")
		return
	}

	var in createAdminInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondDecodeError(w, err)
		return
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(in.Email))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid email address")
		return
	}

	if err := h.identity.GrantAdmin(r.Context(), addr.Address); err != nil {
		slog.Error("grant admin", "email", addr.Address, "error", err)
		respondError(w, http.StatusInternalServerError, "could not grant admin")
		return
	}

	grantedBy := ""
	if claims := middleware.IdentityFromCtx(r.Context()); claims != nil {
		grantedBy = claims.Email
	}
	slog.Info("admin granted", "email", addr.Address, "by", grantedBy)
	respondJSON(w, http.StatusOK, map[string]string{"message": "admin granted"})
}

// Upload stores an image in the public bucket and returns its URL. The
// admin UI uploads first, then references the URL from product or blog
// payloads.
func (h *Admin) Upload(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		respondError(w, http.StatusServiceUnavailable, "object storage not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		respondDecodeError(w, parseFormError(err))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	ext := safeImageExt(header.Filename)
	if ext == "" {
		respondError(w, http.StatusBadRequest, "unsupported image type")
		return
	}

	key := fmt.Sprintf("media/%s%s", uuid.NewString(), ext)
	url, err := h.storage.Upload(r.Context(), key, contentType(header), file, header.Size)
	if err != nil {
		slog.Error("upload image", "key", key, "error", err)
		respondError(w, http.StatusInternalServerError, "could not store image")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"url": url})
}

func safeImageExt(filename string) string {
	lower := strings.ToLower(filename)
	for _, ext := range []string{".png", ".jpg", ".jpeg", ".webp", ".svg", ".gif"} {
		if strings.HasSuffix(lower, ext) {
			return ext
		}
	}
	return ""
}
