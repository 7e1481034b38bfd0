package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/schema"

	"solarsite/internal/models"
	"solarsite/internal/sanitize"
	"solarsite/internal/storage"
	"solarsite/internal/store"
)

// maxFormBytes caps a lead submission including any attachment.
const maxFormBytes = 10 << 20

var formDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

// Leads serves the public lead-capture forms and the back-office listing.
type Leads struct {
	store   *store.LeadStore
	storage *storage.Client
}

func NewLeads(s *store.LeadStore, st *storage.Client) *Leads {
	return &Leads{store: s, storage: st}
}

type applyForm struct {
	Name     string `schema:"name,required"`
	Email    string `schema:"email,required"`
	Phone    string `schema:"phone"`
	Position string `schema:"position,required"`
	Message  string `schema:"message"`
}

type whistleblowerForm struct {
	Name    string `schema:"name"`
	Email   string `schema:"email"`
	Subject string `schema:"subject,required"`
	Message string `schema:"message,required"`
}

type productSupportForm struct {
	Name         string `schema:"name,required"`
	Email        string `schema:"email,required"`
	Phone        string `schema:"phone"`
	Product      string `schema:"product,required"`
	SerialNumber string `schema:"serialNumber"`
	Message      string `schema:"message,required"`
}

type productRegistrationForm struct {
	Name         string `schema:"name,required"`
	Email        string `schema:"email,required"`
	Phone        string `schema:"phone"`
	Product      string `schema:"product,required"`
	SerialNumber string `schema:"serialNumber,required"`
	PurchaseDate string `schema:"purchaseDate"`
	Dealer       string `schema:"dealer"`
}

type techsquadForm struct {
	Name    string `schema:"name,required"`
	Email   string `schema:"email,required"`
	Phone   string `schema:"phone"`
	Company string `schema:"company"`
	Message string `schema:"message,required"`
}

type warrantyForm struct {
	Name         string `schema:"name,required"`
	Email        string `schema:"email,required"`
	Phone        string `schema:"phone"`
	Product      string `schema:"product,required"`
	SerialNumber string `schema:"serialNumber,required"`
	Message      string `schema:"message"`
}

// parseForm reads either an urlencoded or multipart body with a hard size
// cap. Multipart is required when the form carries an attachment.
func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxFormBytes); err != nil {
			return parseFormError(err)
		}
		return nil
	}
	if err := r.ParseForm(); err != nil {
		return parseFormError(err)
	}
	return nil
}

func parseFormError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return fmt.Errorf("submission exceeds %d bytes: %w", maxErr.Limit, err)
	}
	return fmt.Errorf("invalid form body: %w", err)
}

// SubmitApply handles job applications. An optional resume file is
// streamed to object storage and linked from the stored lead.
func (h *Leads) SubmitApply(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		respondDecodeError(w, err)
		return
	}

	var f applyForm
	if err := formDecoder.Decode(&f, r.PostForm); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	lead := &models.Lead{
		Kind:  models.LeadKindApply,
		Name:  sanitize.Text(f.Name),
		Email: sanitize.Text(f.Email),
		Phone: sanitize.Text(f.Phone),
		Fields: sanitize.Fields(map[string]string{
			"position": f.Position,
			"message":  f.Message,
		}),
	}
	h.saveLead(w, r, lead, "resume")
}

// SubmitWhistleblower handles whistleblower reports. Name and email are
// optional: reports may be anonymous.
func (h *Leads) SubmitWhistleblower(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		respondDecodeError(w, err)
		return
	}

	var f whistleblowerForm
	if err := formDecoder.Decode(&f, r.PostForm); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	lead := &models.Lead{
		Kind:  models.LeadKindWhistleblower,
		Name:  sanitize.Text(f.Name),
		Email: sanitize.Text(f.Email),
		Fields: sanitize.Fields(map[string]string{
			"subject": f.Subject,
			"message": f.Message,
		}),
	}
	h.saveLead(w, r, lead, "")
}

// SubmitProductSupport handles support requests for installed products.
func (h *Leads) SubmitProductSupport(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		respondDecodeError(w, err)
		return
	}

	var f productSupportForm
	if err := formDecoder.Decode(&f, r.PostForm); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	lead := &models.Lead{
		Kind:  models.LeadKindProductSupport,
		Name:  sanitize.Text(f.Name),
		Email: sanitize.Text(f.Email),
		Phone: sanitize.Text(f.Phone),
		Fields: sanitize.Fields(map[string]string{
			"product":      f.Product,
			"serialNumber": f.SerialNumber,
			"message":      f.Message,
		}),
	}
	h.saveLead(w, r, lead, "")
}

// SubmitProductRegistration handles new installation registrations.
func (h *Leads) SubmitProductRegistration(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		respondDecodeError(w, err)
		return
	}

	var f productRegistrationForm
	if err := formDecoder.Decode(&f, r.PostForm); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	lead := &models.Lead{
		Kind:  models.LeadKindProductRegistration,
		Name:  sanitize.Text(f.Name),
		Email: sanitize.Text(f.Email),
		Phone: sanitize.Text(f.Phone),
		Fields: sanitize.Fields(map[string]string{
			"product":      f.Product,
			"serialNumber": f.SerialNumber,
			"purchaseDate": f.PurchaseDate,
			"dealer":       f.Dealer,
		}),
	}
	h.saveLead(w, r, lead, "")
}

// SubmitTechsquad handles installer-program signups.
func (h *Leads) SubmitTechsquad(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		respondDecodeError(w, err)
		return
	}

	var f techsquadForm
	if err := formDecoder.Decode(&f, r.PostForm); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	lead := &models.Lead{
		Kind:  models.LeadKindTechSquad,
		Name:  sanitize.Text(f.Name),
		Email: sanitize.Text(f.Email),
		Phone: sanitize.Text(f.Phone),
		Fields: sanitize.Fields(map[string]string{
			"company": f.Company,
			"message": f.Message,
		}),
	}
	h.saveLead(w, r, lead, "")
}

// SubmitWarranty handles warranty claims. An optional purchase receipt is
// streamed to object storage and linked from the stored lead.
func (h *Leads) SubmitWarranty(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		respondDecodeError(w, err)
		return
	}

	var f warrantyForm
	if err := formDecoder.Decode(&f, r.PostForm); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	lead := &models.Lead{
		Kind:  models.LeadKindWarranty,
		Name:  sanitize.Text(f.Name),
		Email: sanitize.Text(f.Email),
		Phone: sanitize.Text(f.Phone),
		Fields: sanitize.Fields(map[string]string{
			"product":      f.Product,
			"serialNumber": f.SerialNumber,
			"message":      f.Message,
		}),
	}
	h.saveLead(w, r, lead, "receipt")
}

// saveLead uploads the named attachment when one was sent, persists the
// lead, and writes the created record.
func (h *Leads) saveLead(w http.ResponseWriter, r *http.Request, lead *models.Lead, fileField string) {
	if fileField != "" {
		url, err := h.uploadAttachment(r, lead.Kind, fileField)
		if err != nil {
			slog.Error("upload attachment", "kind", lead.Kind, "error", err)
			respondError(w, http.StatusInternalServerError, "could not store attachment")
			return
		}
		lead.AttachmentURL = url
	}

	created, err := h.store.Create(r.Context(), lead)
	if err != nil {
		slog.Error("create lead", "kind", lead.Kind, "error", err)
		respondError(w, http.StatusInternalServerError, "could not store submission")
		return
	}

	slog.Info("lead received", "kind", created.Kind, "id", created.ID)
	respondJSON(w, http.StatusCreated, map[string]string{"id": created.ID.String()})
}

// uploadAttachment stores the form file under leads/<kind>/ and returns
// its URL. Returns (nil, nil) when the field is absent or storage is not
// configured.
func (h *Leads) uploadAttachment(r *http.Request, kind models.LeadKind, field string) (*string, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read form file %q: %w", field, err)
	}
	defer file.Close()

	if h.storage == nil {
		slog.Warn("attachment dropped, storage not configured", "kind", kind)
		return nil, nil
	}

	key := fmt.Sprintf("leads/%s/%s%s", kind, uuid.NewString(), safeExt(header))
	url, err := h.storage.Upload(r.Context(), key, contentType(header), file, header.Size)
	if err != nil {
		return nil, err
	}
	return &url, nil
}

func safeExt(header *multipart.FileHeader) string {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".pdf", ".png", ".jpg", ".jpeg", ".webp", ".doc", ".docx":
		return ext
	}
	return ""
}

func contentType(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// List returns stored submissions for the back office, optionally
// filtered by kind.
func (h *Leads) List(w http.ResponseWriter, r *http.Request) {
	var kind *models.LeadKind
	if v := r.URL.Query().Get("kind"); v != "" {
		k := models.LeadKind(v)
		switch k {
		case models.LeadKindApply, models.LeadKindWhistleblower,
			models.LeadKindProductSupport, models.LeadKindProductRegistration,
			models.LeadKindTechSquad, models.LeadKindWarranty:
			kind = &k
		default:
			respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown lead kind %q", v))
			return
		}
	}

	leads, err := h.store.List(r.Context(), kind)
	if err != nil {
		slog.Error("list leads", "error", err)
		respondError(w, http.StatusInternalServerError, "could not list submissions")
		return
	}
	if leads == nil {
		leads = []models.Lead{}
	}
	respondJSON(w, http.StatusOK, leads)
}
