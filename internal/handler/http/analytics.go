package http

import (
	"net/http"

	"github.com/thikabizhub/bizhub-backend/internal/domain/analytics"
	"github.com/thikabizhub/bizhub-backend/internal/handler/http/response"
)

type AnalyticsHandler interface {
	// Dashboard returns platform totals, growth, breakdowns and recent activity
	Dashboard(w http.ResponseWriter, r *http.Request)
	// Insights returns per-category statistics
	Insights(w http.ResponseWriter, r *http.Request)
}

type analyticsHandlerImpl struct {
	analyticsService analytics.AnalyticsService
}

func NewAnalyticsHandler(analyticsService analytics.AnalyticsService) AnalyticsHandler {
	return &analyticsHandlerImpl{analyticsService: analyticsService}
}

// Dashboard handles GET /admin/analytics
func (h *analyticsHandlerImpl) Dashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.analyticsService.Dashboard(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Insights handles GET /admin/analytics/insights
func (h *analyticsHandlerImpl) Insights(w http.ResponseWriter, r *http.Request) {
	result, err := h.analyticsService.Insights(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
