package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"localshop/internal/middleware"
	"localshop/internal/service"
)

// ReportHandler serves dashboard counters and reports
type ReportHandler struct {
	reports service.ReportService
	logger  *zap.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reports service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		logger:  logger,
	}
}

// RegisterRoutes registers the dashboard and report routes. Only the legacy
// dashboard needs a session.
func (h *ReportHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Get("/api/dashboard/stats", h.Stats)
	r.Get("/api/reports", h.Report)
	r.With(authMiddleware).Get("/api/dashboard", h.LegacyDashboard)
}

func (h *ReportHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reports.Stats(r.Context())
	if err != nil {
		respondError(w, h.logger, err, "failed to compute dashboard stats")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, stats)
}

// Report handles GET /api/reports?startDate=YYYY-MM-DD&endDate=YYYY-MM-DD
func (h *ReportHandler) Report(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	report, err := h.reports.Report(r.Context(), query.Get("startDate"), query.Get("endDate"))
	if err != nil {
		respondError(w, h.logger, err, "failed to build report")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, report)
}

// LegacyDashboard greets the signed-in user with the catalog size and sale count
func (h *ReportHandler) LegacyDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	dashboard, err := h.reports.LegacyDashboard(r.Context(), userID)
	if err != nil {
		respondError(w, h.logger, err, "failed to load dashboard")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, dashboard)
}
