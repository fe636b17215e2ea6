package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/stonesoup-hq/soupsearch/internal/domain"
	"github.com/stonesoup-hq/soupsearch/internal/domain/search/request"
	"github.com/stonesoup-hq/soupsearch/internal/domain/search/response"
	healthuc "github.com/stonesoup-hq/soupsearch/internal/usecase/health"
)

type mockSearcher struct {
	env        *response.Envelope
	err        error
	cauldronID string
	lastReq    *request.Request
	quickQuery string
	quickLimit int
}

func (m *mockSearcher) Search(_ context.Context, cauldronID string, req *request.Request) (*response.Envelope, error) {
	m.cauldronID = cauldronID
	m.lastReq = req
	return m.env, m.err
}

func (m *mockSearcher) Quick(_ context.Context, cauldronID, query string, limit int) (*response.Envelope, error) {
	m.cauldronID = cauldronID
	m.quickQuery = query
	m.quickLimit = limit
	return m.env, m.err
}

type mockSuggestService struct {
	suggestions []response.Suggestion
	err         error
	prefix      string
	limit       int
}

func (m *mockSuggestService) Suggest(_ context.Context, _, prefix string, limit int) ([]response.Suggestion, error) {
	m.prefix = prefix
	m.limit = limit
	return m.suggestions, m.err
}

type mockSummaryService struct {
	summary     response.Summary
	err         error
	summaryType string
}

func (m *mockSummaryService) Summarize(_ context.Context, _ string, _ *response.Envelope, summaryType string) (response.Summary, error) {
	m.summaryType = summaryType
	return m.summary, m.err
}

type mockHealthService struct {
	report healthuc.Report
}

func (m *mockHealthService) Check(_ context.Context) healthuc.Report { return m.report }

type serverMocks struct {
	searcher *mockSearcher
	suggest  *mockSuggestService
	summary  *mockSummaryService
	health   *mockHealthService
}

func newTestRouter(m *serverMocks) http.Handler {
	srv := NewServer(m.searcher, m.suggest, m.summary, m.health, zap.NewNop())
	r := chi.NewRouter()
	r.Use(CauldronMiddleware())
	srv.Routes(r)
	return r
}

func defaultMocks() *serverMocks {
	return &serverMocks{
		searcher: &mockSearcher{env: &response.Envelope{
			StoryResults:  []response.StoryResult{},
			MemberResults: []response.MemberResult{},
		}},
		suggest: &mockSuggestService{},
		summary: &mockSummaryService{},
		health: &mockHealthService{report: healthuc.Report{
			Status: healthuc.Healthy,
			Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckOK},
		}},
	}
}

func doRequest(h http.Handler, method, path, body string, tenant bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if tenant {
		req.Header.Set(cauldronHeader, "acme")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleSearch_OK(t *testing.T) {
	m := defaultMocks()
	h := newTestRouter(m)

	rec := doRequest(h, http.MethodPost, "/search", `{"query":"zero waste","mode":"hybrid"}`, true)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if m.searcher.cauldronID != "acme" {
		t.Errorf("expected tenant from header, got %q", m.searcher.cauldronID)
	}
	if m.searcher.lastReq.Query() != "zero waste" {
		t.Errorf("unexpected query %q", m.searcher.lastReq.Query())
	}

	var env response.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHandleSearch_MissingTenant(t *testing.T) {
	h := newTestRouter(defaultMocks())

	rec := doRequest(h, http.MethodPost, "/search", `{"query":"zero waste"}`, false)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Code != codeTenantRequired {
		t.Errorf("expected %q, got %q", codeTenantRequired, body.Code)
	}
}

func TestHandleSearch_MalformedBody(t *testing.T) {
	h := newTestRouter(defaultMocks())

	rec := doRequest(h, http.MethodPost, "/search", `{"query":`, true)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed body, got %d", rec.Code)
	}
}

func TestHandleSearch_InvalidParams(t *testing.T) {
	h := newTestRouter(defaultMocks())

	rec := doRequest(h, http.MethodPost, "/search", `{"query":"x","mode":"psychic"}`, true)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid mode, got %d", rec.Code)
	}
}

func TestHandleSearch_ProviderError(t *testing.T) {
	m := defaultMocks()
	m.searcher.env = nil
	m.searcher.err = domain.ErrEmbeddingProviderError
	h := newTestRouter(m)

	rec := doRequest(h, http.MethodPost, "/search", `{"query":"x"}`, true)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", rec.Code)
	}
}

func TestHandleSearch_InternalError(t *testing.T) {
	m := defaultMocks()
	m.searcher.env = nil
	m.searcher.err = errors.New("redis on fire")
	h := newTestRouter(m)

	rec := doRequest(h, http.MethodPost, "/search", `{"query":"x"}`, true)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "redis") {
		t.Error("internal error details must not leak to the client")
	}
}

func TestHandleQuickSearch(t *testing.T) {
	m := defaultMocks()
	h := newTestRouter(m)

	rec := doRequest(h, http.MethodPost, "/search/quick", `{"query":"go backend","limit":3}`, true)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if m.searcher.quickQuery != "go backend" || m.searcher.quickLimit != 3 {
		t.Errorf("unexpected quick call: %q limit %d", m.searcher.quickQuery, m.searcher.quickLimit)
	}
}

func TestHandleSuggestions(t *testing.T) {
	m := defaultMocks()
	m.suggest.suggestions = []response.Suggestion{
		{Query: "go backend", Type: "popular", Score: 1, Popular: true},
	}
	h := newTestRouter(m)

	rec := doRequest(h, http.MethodGet, "/search/suggestions?q=go&limit=3", "", true)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if m.suggest.prefix != "go" || m.suggest.limit != 3 {
		t.Errorf("unexpected suggest call: %q limit %d", m.suggest.prefix, m.suggest.limit)
	}

	var body struct {
		Suggestions []response.Suggestion `json:"suggestions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Suggestions) != 1 || body.Suggestions[0].Query != "go backend" {
		t.Errorf("unexpected suggestions %v", body.Suggestions)
	}
}

func TestHandleSuggestions_RequiresQuery(t *testing.T) {
	h := newTestRouter(defaultMocks())

	rec := doRequest(h, http.MethodGet, "/search/suggestions", "", true)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without q, got %d", rec.Code)
	}
}

func TestHandleSuggestions_EmptyListNotNull(t *testing.T) {
	h := newTestRouter(defaultMocks())

	rec := doRequest(h, http.MethodGet, "/search/suggestions?q=zzz", "", true)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"suggestions":[]`) {
		t.Errorf("expected empty array, got %s", rec.Body.String())
	}
}

func TestHandleSummary(t *testing.T) {
	m := defaultMocks()
	m.summary.summary = response.Summary{Summary: "Nothing much.", ModelUsed: "fallback"}
	h := newTestRouter(m)

	rec := doRequest(h, http.MethodPost, "/search/summary",
		`{"query":"zero waste","summary_type":"detailed"}`, true)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if m.summary.summaryType != "detailed" {
		t.Errorf("expected summary type forwarded, got %q", m.summary.summaryType)
	}

	var body response.Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Summary != "Nothing much." {
		t.Errorf("unexpected summary %+v", body)
	}
}

func TestHandleHealth(t *testing.T) {
	m := defaultMocks()
	h := newTestRouter(m)

	rec := doRequest(h, http.MethodGet, "/health", "", false)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	m.health.report = healthuc.Report{
		Status: healthuc.Degraded,
		Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckError},
	}
	rec = doRequest(h, http.MethodGet, "/health", "", false)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 when degraded, got %d", rec.Code)
	}
}
