package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"filmleads_backend/internal/events"
	"filmleads_backend/internal/leads/domain"
	"filmleads_backend/internal/leads/service"
	"filmleads_backend/internal/settings"
	"filmleads_backend/internal/store"
	"filmleads_backend/platform/logger"
	"filmleads_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type stubPDF struct{}

func (stubPDF) ProposalPDF(domain.Lead, domain.Quote, *settings.Settings) ([]byte, error) {
	return []byte("%PDF-1.4"), nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	codec := store.NewCodec(store.NewMemory(), logger.Discard(), nil)
	svc := service.New(codec, events.NewInMemoryBus(logger.Discard()), logger.Discard())

	r := gin.New()
	New(svc, validator.New(), stubPDF{}).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func TestListLeads(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/v1/leads", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var res struct {
		Items []struct {
			ID    string `json:"id"`
			Score int    `json:"score"`
		} `json:"items"`
		Total int `json:"total"`
	}
	decode(t, w, &res)
	if res.Total != 2 || len(res.Items) != 2 {
		t.Fatalf("expected 2 seed leads, got %+v", res)
	}
}

func TestCreateLead(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/v1/leads", `{"name":"Jo Park","phone":"410-555-0123","sqftEstimate":120,"goals":["heat"]}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var res struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decode(t, w, &res)
	if res.ID == "" || res.Status != string(domain.StatusNew) {
		t.Fatalf("unexpected lead %+v", res)
	}
}

func TestCreateLead_Invalid(t *testing.T) {
	r := newTestRouter(t)

	if w := do(r, http.MethodPost, "/api/v1/leads", `{`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad json, got %d", w.Code)
	}
	w := do(r, http.MethodPost, "/api/v1/leads", `{"jobType":"industrial"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad job type, got %d", w.Code)
	}
	var res struct {
		Error string `json:"error"`
	}
	decode(t, w, &res)
	if res.Error != msgValidationFailed {
		t.Fatalf("expected %q, got %q", msgValidationFailed, res.Error)
	}
}

func TestUnknownLead(t *testing.T) {
	r := newTestRouter(t)

	for _, path := range []string{"/api/v1/leads/nope", "/api/v1/leads/nope/tasks", "/api/v1/leads/nope/quotes"} {
		if w := do(r, http.MethodGet, path, ""); w.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", path, w.Code)
		}
	}
	if w := do(r, http.MethodPost, "/api/v1/leads/nope/ballpark", ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestBallpark_MissingSqft(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/v1/leads/lead_seed_2/ballpark", "")
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	var res struct {
		Error string `json:"error"`
	}
	decode(t, w, &res)
	if res.Error != "missing_sqft" {
		t.Fatalf("expected missing_sqft, got %q", res.Error)
	}
}

func TestProposalDocumentAndPDF(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/v1/leads/lead_seed_1/proposal", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var quote struct {
		ID   string `json:"id"`
		Kind string `json:"kind"`
	}
	decode(t, w, &quote)
	if quote.Kind != domain.QuoteProposal {
		t.Fatalf("expected proposal, got %q", quote.Kind)
	}

	doc := do(r, http.MethodGet, "/api/v1/quotes/"+quote.ID+"/document", "")
	if doc.Code != http.StatusOK || !strings.HasPrefix(doc.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("expected html document, got %d %q", doc.Code, doc.Header().Get("Content-Type"))
	}

	pdf := do(r, http.MethodGet, "/api/v1/quotes/"+quote.ID+"/pdf", "")
	if pdf.Code != http.StatusOK || pdf.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("expected pdf, got %d %q", pdf.Code, pdf.Header().Get("Content-Type"))
	}
}

func TestBallparkDocumentIsText(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/v1/leads/lead_seed_1/ballpark", "")
	var quote struct {
		ID string `json:"id"`
	}
	decode(t, w, &quote)

	doc := do(r, http.MethodGet, "/api/v1/quotes/"+quote.ID+"/document", "")
	if !strings.HasPrefix(doc.Header().Get("Content-Type"), "text/plain") {
		t.Fatalf("expected plain text, got %q", doc.Header().Get("Content-Type"))
	}
	if !strings.Contains(doc.Body.String(), "180 sqft in Baltimore") {
		t.Fatalf("unexpected body %q", doc.Body.String())
	}

	if pdf := do(r, http.MethodGet, "/api/v1/quotes/"+quote.ID+"/pdf", ""); pdf.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for ballpark pdf, got %d", pdf.Code)
	}
}

func TestPreview(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/v1/leads/lead_seed_1/preview", `{"complexity":"complex","grossMarginTier":"better"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if w := do(r, http.MethodPost, "/api/v1/leads/lead_seed_1/preview", ""); w.Code != http.StatusOK {
		t.Fatalf("expected 200 for empty body, got %d", w.Code)
	}
}

func TestExportImport(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/v1/export", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), "window-film-workflow-db-") {
		t.Fatalf("unexpected disposition %q", w.Header().Get("Content-Disposition"))
	}

	imp := do(r, http.MethodPost, "/api/v1/import", w.Body.String())
	if imp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", imp.Code, imp.Body.String())
	}
	var res struct {
		Leads int `json:"leads"`
	}
	decode(t, imp, &res)
	if res.Leads != 2 {
		t.Fatalf("expected 2 leads imported, got %d", res.Leads)
	}

	if bad := do(r, http.MethodPost, "/api/v1/import", `[1,2]`); bad.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad import, got %d", bad.Code)
	}
}

func TestSettings(t *testing.T) {
	r := newTestRouter(t)

	if w := do(r, http.MethodGet, "/api/v1/settings", ""); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w := do(r, http.MethodPut, "/api/v1/settings", `{"currency":"CAD"}`); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	for _, body := range []string{
		`{"removal":{"minimum":-5}}`,
		`{"adders":{"coi_admin":-1}}`,
	} {
		if w := do(r, http.MethodPut, "/api/v1/settings", body); w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %s, got %d", body, w.Code)
		}
	}
}

func TestSendMessage_NoSender(t *testing.T) {
	r := newTestRouter(t)

	if w := do(r, http.MethodPost, "/api/v1/messages/msg_1/send", ""); w.Code != http.StatusBadRequest && w.Code != http.StatusNotFound {
		t.Fatalf("expected a client error, got %d", w.Code)
	}
}
