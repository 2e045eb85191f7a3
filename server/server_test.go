package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"labor_claim_generator/generator"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubGenerator scripts the pipeline behavior per test.
type stubGenerator struct {
	draft *generator.DocumentDraft
	err   error
	got   generator.GenerationRequest
}

func (s *stubGenerator) Run(_ context.Context, req generator.GenerationRequest, _ generator.ProgressFunc) (*generator.DocumentDraft, error) {
	s.got = req
	return s.draft, s.err
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func generateBody() map[string]any {
	return map[string]any{
		"gender": "female",
		"case": map[string]any{
			"plaintiff_name": "דנה כהן",
			"plaintiff_id":   "012345678",
			"defendant_name": "שירותים בע\"מ",
			"defendant_type": "company",
			"job_title":      "מנהלת חשבונות",
		},
		"calculation": map[string]any{
			"start_date":         "2022-01-01",
			"end_date":           "2024-01-01",
			"base_salary":        10000,
			"work_days_per_week": 6,
			"claim_severance":    true,
		},
		"raw_facts": "עובדות התיק",
	}
}

func TestHealthz(t *testing.T) {
	router := New(&stubGenerator{}, "", "").Router()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
}

func TestCalculate(t *testing.T) {
	router := New(&stubGenerator{}, "", "").Router()
	w := postJSON(t, router, "/api/calculate", map[string]any{
		"start_date":      "2022-01-01",
		"end_date":        "2024-01-01",
		"base_salary":     10000,
		"claim_severance": true,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var res struct {
		Total  float64 `json:"total"`
		Claims map[string]struct {
			Amount float64 `json:"amount"`
		} `json:"claims"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if res.Claims["severance"].Amount != 20000 {
		t.Errorf("severance = %v", res.Claims["severance"].Amount)
	}
}

func TestCalculateBadDates(t *testing.T) {
	router := New(&stubGenerator{}, "", "").Router()
	w := postJSON(t, router, "/api/calculate", map[string]any{
		"start_date": "2024-01-01",
		"end_date":   "2022-01-01",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestGeneratePipelinePath(t *testing.T) {
	stub := &stubGenerator{
		draft: &generator.DocumentDraft{
			GenderForm:   generator.GenderFemale,
			Sections:     []generator.Section{{Header: "כללי", Paragraphs: []string{"פסקה."}}},
			SummaryTotal: 20000,
		},
	}
	router := New(stub, "firm patterns", "citations").Router()

	w := postJSON(t, router, "/api/generate", generateBody())
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var res GenerateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if res.Source != "pipeline" {
		t.Errorf("Source = %q", res.Source)
	}
	if res.Markdown == "" || res.HTML == "" {
		t.Error("rendered output missing")
	}

	// The calculation result feeds the generation request.
	if stub.got.Total != 20000 {
		t.Errorf("request total = %v, want 20000", stub.got.Total)
	}
	if stub.got.FirmPatterns != "firm patterns" {
		t.Errorf("FirmPatterns = %q", stub.got.FirmPatterns)
	}
	if len(stub.got.Selected) != 1 || stub.got.Selected[0] != "severance" {
		t.Errorf("Selected = %v", stub.got.Selected)
	}
	if stub.got.Case.TotalMonths != 24 {
		t.Errorf("TotalMonths = %d", stub.got.Case.TotalMonths)
	}
}

func TestGenerateTemplateFallback(t *testing.T) {
	// nil draft, nil error: total pipeline failure.
	router := New(&stubGenerator{}, "", "").Router()

	w := postJSON(t, router, "/api/generate", generateBody())
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var res GenerateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if res.Source != "template" {
		t.Errorf("Source = %q, want template", res.Source)
	}
	if res.Draft == nil || len(res.Draft.Sections) == 0 {
		t.Fatal("template draft missing")
	}
}

func TestGenerateBudgetExceeded(t *testing.T) {
	stub := &stubGenerator{err: &generator.BudgetExceededError{Stage: "drafter"}}
	router := New(stub, "", "").Router()

	w := postJSON(t, router, "/api/generate", generateBody())
	if w.Code != http.StatusGatewayTimeout {
		t.Errorf("status = %d, want 504", w.Code)
	}
}

func TestGenerateInvalidBody(t *testing.T) {
	router := New(&stubGenerator{}, "", "").Router()
	req := httptest.NewRequest(http.MethodPost, "/api/generate", bytes.NewReader([]byte("not json")))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRenderEndpoint(t *testing.T) {
	router := New(&stubGenerator{}, "", "").Router()
	w := postJSON(t, router, "/api/render", map[string]any{
		"draft": map[string]any{
			"gender_form": "male",
			"sections": []map[string]any{
				{"header": "כללי", "paragraphs": []string{"פסקה ראשונה."}},
			},
			"summary_total": 1000,
		},
		"case": map[string]any{"plaintiff_name": "ישראל"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var res struct {
		Markdown string `json:"markdown"`
		HTML     string `json:"html"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if res.Markdown == "" || res.HTML == "" {
		t.Error("render output missing")
	}
}

func TestRenderMissingDraft(t *testing.T) {
	router := New(&stubGenerator{}, "", "").Router()
	w := postJSON(t, router, "/api/render", map[string]any{"case": map[string]any{}})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRequestIDPropagated(t *testing.T) {
	router := New(&stubGenerator{}, "", "").Router()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "test-id-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "test-id-123" {
		t.Errorf("X-Request-ID = %q", got)
	}
}
