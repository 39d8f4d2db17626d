package http

import (
	"log/slog"
	"net/http"

	"github.com/thikabizhub/bizhub-backend/internal/domain/report"
	"github.com/thikabizhub/bizhub-backend/internal/handler/http/response"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/pagination"
)

type ReportHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

func (h *reportHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req report.CreateReportRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.reportService.Create(r.Context(), id.UserID, req)
	if err != nil {
		slog.Error("Create report service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Report submitted successfully", result)
}

// List handles GET /admin/reports with an optional ?status= filter.
func (h *reportHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req, err := pagination.FromQuery(query)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if status := report.Status(query.Get("status")); status != "" {
		if !status.Valid() {
			response.ValidationError(w, map[string]string{"status": "status must be one of: pending, resolved, dismissed"})
			return
		}
		req.Filters = append(req.Filters, pagination.Eq("status", string(status)))
	}

	result, err := h.reportService.List(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
