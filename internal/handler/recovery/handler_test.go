package recovery

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	recoverymodel "github.com/jmoreau/recovery-squad/backend/internal/model/recovery"
)

type stubDispatcher struct {
	calls int
}

func (d *stubDispatcher) FullReport(_ context.Context, req recoverymodel.Request) (recoverymodel.Report, error) {
	d.calls++
	return recoverymodel.Report{
		Sections: map[string]string{"therapist": "you will be okay"},
		Severity: "mild",
		PlanDays: 3,
	}, nil
}

type stubAnalyzer struct {
	calls int
}

func (a *stubAnalyzer) AnalyzeScreenshot(_ context.Context, _, _ string) (string, error) {
	a.calls++
	return "tense exchange, one-sided effort", nil
}

func setupRouter(dispatcher Dispatcher, analyzer ScreenshotAnalyzer) *chi.Mux {
	r := chi.NewRouter()
	New(dispatcher, analyzer, zap.NewNop()).RegisterRoutes(r)
	return r
}

func postRecovery(t *testing.T, r http.Handler, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/recovery", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestRecoveryMissingSituationRejectedBeforeDispatch(t *testing.T) {
	dispatcher := &stubDispatcher{}
	r := setupRouter(dispatcher, nil)

	resp := postRecovery(t, r, map[string]any{"breakupReason": "distance"})

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if dispatcher.calls != 0 {
		t.Fatal("dispatcher must not be called for invalid intake")
	}
}

func TestRecoveryUnknownSupportRejected(t *testing.T) {
	dispatcher := &stubDispatcher{}
	r := setupRouter(dispatcher, nil)

	resp := postRecovery(t, r, map[string]any{
		"situation":     "we broke up",
		"supportNeeded": []string{"life-coach"},
	})

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if dispatcher.calls != 0 {
		t.Fatal("dispatcher must not be called for unknown support id")
	}
}

func TestRecoveryWithoutScreenshotSkipsVision(t *testing.T) {
	dispatcher := &stubDispatcher{}
	analyzer := &stubAnalyzer{}
	r := setupRouter(dispatcher, analyzer)

	resp := postRecovery(t, r, map[string]any{"situation": "we broke up after two years"})

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if analyzer.calls != 0 {
		t.Fatal("vision path must not run without a screenshot")
	}

	var report recoverymodel.Report
	if err := json.Unmarshal(resp.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.ScreenshotAnalysis != "" {
		t.Fatalf("unexpected screenshot analysis: %q", report.ScreenshotAnalysis)
	}
}

func TestRecoveryWithScreenshotRunsVision(t *testing.T) {
	dispatcher := &stubDispatcher{}
	analyzer := &stubAnalyzer{}
	r := setupRouter(dispatcher, analyzer)

	resp := postRecovery(t, r, map[string]any{
		"situation":      "she stopped replying, here is our last chat",
		"chatScreenshot": base64.StdEncoding.EncodeToString([]byte("fake-image-bytes")),
	})

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if analyzer.calls != 1 {
		t.Fatalf("expected 1 vision call, got %d", analyzer.calls)
	}

	var report recoverymodel.Report
	if err := json.Unmarshal(resp.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.ScreenshotAnalysis != "tense exchange, one-sided effort" {
		t.Fatalf("unexpected analysis: %q", report.ScreenshotAnalysis)
	}
}

func TestRecoveryScreenshotWithoutVisionServiceDegrades(t *testing.T) {
	dispatcher := &stubDispatcher{}
	r := setupRouter(dispatcher, nil)

	resp := postRecovery(t, r, map[string]any{
		"situation":      "we broke up",
		"chatScreenshot": base64.StdEncoding.EncodeToString([]byte("fake")),
	})

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var report recoverymodel.Report
	if err := json.Unmarshal(resp.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.ScreenshotAnalysis == "" {
		t.Fatal("expected a degradation notice when vision is unconfigured")
	}
}
