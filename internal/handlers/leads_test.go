package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"solarsite/internal/models"
	"solarsite/internal/store"
)

func submitForm(t *testing.T, h http.HandlerFunc, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	h(rec, req)
	return rec
}

func TestSubmitTechsquad(t *testing.T) {
	db := testDB(t)
	h := NewLeads(store.NewLeadStore(db), nil)
	t.Cleanup(func() { db.Exec("DELETE FROM leads WHERE email = $1", "installer@example.com") })

	rec := submitForm(t, h.SubmitTechsquad, url.Values{
		"name":    {"Jo Installer"},
		"email":   {"installer@example.com"},
		"phone":   {"+49 30 1234"},
		"company": {"Sunfitters GmbH"},
		"message": {"We install <b>a lot</b> of string inverters."},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit: got status %d, body %s", rec.Code, rec.Body)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["id"] == "" {
		t.Fatal("response missing lead id")
	}

	leads, err := store.NewLeadStore(db).List(context.Background(), nil)
	if err != nil {
		t.Fatalf("list leads: %v", err)
	}
	var stored *models.Lead
	for i := range leads {
		if leads[i].Email == "installer@example.com" {
			stored = &leads[i]
		}
	}
	if stored == nil {
		t.Fatal("submitted lead not stored")
	}
	if stored.Kind != models.LeadKindTechSquad {
		t.Errorf("kind: got %q, want %q", stored.Kind, models.LeadKindTechSquad)
	}
	if strings.Contains(stored.Fields["message"], "<b>") {
		t.Errorf("message kept markup: %q", stored.Fields["message"])
	}
}

func TestSubmitRejectsMissingRequiredField(t *testing.T) {
	db := testDB(t)
	h := NewLeads(store.NewLeadStore(db), nil)

	// product is required for support requests.
	rec := submitForm(t, h.SubmitProductSupport, url.Values{
		"name":    {"Jo"},
		"email":   {"jo@example.com"},
		"message": {"it hums"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d (body %s)", rec.Code, http.StatusBadRequest, rec.Body)
	}
}

func TestSubmitWhistleblowerAllowsAnonymous(t *testing.T) {
	db := testDB(t)
	h := NewLeads(store.NewLeadStore(db), nil)
	t.Cleanup(func() {
		db.Exec("DELETE FROM leads WHERE kind = $1 AND fields->>'subject' = $2",
			models.LeadKindWhistleblower, "test-anon-report")
	})

	rec := submitForm(t, h.SubmitWhistleblower, url.Values{
		"subject": {"test-anon-report"},
		"message": {"something is off"},
	})
	if rec.Code != http.StatusCreated {
		t.Errorf("anonymous report: got status %d, body %s", rec.Code, rec.Body)
	}
}

func TestLeadsList(t *testing.T) {
	db := testDB(t)
	h := NewLeads(store.NewLeadStore(db), nil)
	t.Cleanup(func() { db.Exec("DELETE FROM leads WHERE email = $1", "warranty@example.com") })

	rec := submitForm(t, h.SubmitWarranty, url.Values{
		"name":         {"W. Claimant"},
		"email":        {"warranty@example.com"},
		"product":      {"ASW 12000 LT-G3"},
		"serialNumber": {"SN-0042"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit warranty: got status %d, body %s", rec.Code, rec.Body)
	}

	rec = httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/leads?kind=warranty", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("list: got status %d", rec.Code)
	}
	var leads []models.Lead
	if err := json.NewDecoder(rec.Body).Decode(&leads); err != nil {
		t.Fatalf("decode leads: %v", err)
	}
	for _, l := range leads {
		if l.Kind != models.LeadKindWarranty {
			t.Errorf("kind filter leaked %q", l.Kind)
		}
	}

	rec = httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/leads?kind=bogus", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown kind: got status %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
