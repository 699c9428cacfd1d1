package recovery

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	recoverymodel "github.com/jmoreau/recovery-squad/backend/internal/model/recovery"
	"github.com/jmoreau/recovery-squad/backend/pkg/utils"
)

// Dispatcher runs personas against a validated intake request.
type Dispatcher interface {
	FullReport(ctx context.Context, req recoverymodel.Request) (recoverymodel.Report, error)
}

// ScreenshotAnalyzer describes the vision path. The handler only calls
// it when the request actually carries an image.
type ScreenshotAnalyzer interface {
	AnalyzeScreenshot(ctx context.Context, encoded, mimeType string) (string, error)
}

// Handler exposes the structured intake endpoint.
type Handler struct {
	dispatcher Dispatcher
	analyzer   ScreenshotAnalyzer
	logger     *zap.Logger
}

// New creates the recovery handler. analyzer may be nil when the vision
// service is not configured.
func New(dispatcher Dispatcher, analyzer ScreenshotAnalyzer, logger *zap.Logger) *Handler {
	return &Handler{dispatcher: dispatcher, analyzer: analyzer, logger: logger}
}

// RegisterRoutes registers the intake route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/recovery", h.handleRecovery)
}

func (h *Handler) handleRecovery(w http.ResponseWriter, r *http.Request) {
	var req recoverymodel.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Reject bad intake before any outbound model call.
	if err := req.Validate(); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.dispatcher.FullReport(r.Context(), req)
	if err != nil {
		if errors.Is(err, recoverymodel.ErrSituationRequired) || errors.Is(err, recoverymodel.ErrUnknownSupport) {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("full report failed", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "report generation failed")
		return
	}

	if req.HasScreenshot() {
		report.ScreenshotAnalysis = h.analyzeScreenshot(r.Context(), req)
	}

	utils.RespondJSON(w, http.StatusOK, report)
}

func (h *Handler) analyzeScreenshot(ctx context.Context, req recoverymodel.Request) string {
	if h.analyzer == nil {
		return "Screenshot analysis is not available: vision model not configured."
	}

	analysis, err := h.analyzer.AnalyzeScreenshot(ctx, req.ChatScreenshot, req.ScreenshotMimeType)
	if err != nil {
		h.logger.Warn("screenshot analysis failed", zap.Error(err))
		return "Screenshot analysis failed. The rest of the report is unaffected."
	}
	return analysis
}
