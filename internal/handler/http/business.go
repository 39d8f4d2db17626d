package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/thikabizhub/bizhub-backend/internal/domain/business"
	"github.com/thikabizhub/bizhub-backend/internal/handler/http/middleware"
	"github.com/thikabizhub/bizhub-backend/internal/handler/http/response"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/pagination"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/validator"
)

type BusinessHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Nearby(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	UploadImage(w http.ResponseWriter, r *http.Request)

	// Admin
	ListPending(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type businessHandlerImpl struct {
	businessService business.BusinessService
}

func NewBusinessHandler(businessService business.BusinessService) BusinessHandler {
	return &businessHandlerImpl{businessService: businessService}
}

// List serves the public directory: ?category=&county=&search= plus the
// cursor parameters.
func (h *businessHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, err := pagination.FromQuery(query)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.businessService.List(r.Context(), business.ListBusinessesRequest{
		Category: strings.TrimSpace(query.Get("category")),
		County:   strings.TrimSpace(query.Get("county")),
		Search:   strings.TrimSpace(query.Get("search")),
		Page:     page,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *businessHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	var viewer *business.Actor
	if id, ok := middleware.CurrentUser(r.Context()); ok {
		viewer = &business.Actor{UserID: id.UserID, IsAdmin: id.IsAdmin()}
	}

	businessID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.businessService.Get(r.Context(), businessID, viewer)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Nearby serves ?lat=&lng=&radius_km=&limit=. lat and lng are required.
func (h *businessHandlerImpl) Nearby(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var errs validator.ValidationErrors
	parseFloat := func(field string, required bool) float64 {
		raw := strings.TrimSpace(query.Get(field))
		if raw == "" {
			if required {
				errs.Add(field, field+" is required")
			}
			return 0
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errs.Add(field, field+" must be a number")
		}
		return v
	}

	req := business.NearbyRequest{
		Latitude:  parseFloat("lat", true),
		Longitude: parseFloat("lng", true),
		RadiusKm:  parseFloat("radius_km", false),
	}
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs.Add("limit", "limit must be a positive integer")
		}
		req.Limit = n
	}
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.businessService.Nearby(r.Context(), req)
	if err != nil {
		slog.Error("Failed to find nearby businesses", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *businessHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req business.CreateBusinessRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.businessService.Create(r.Context(), id.UserID, req)
	if err != nil {
		slog.Error("Create business service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Business submitted for approval", result)
}

func (h *businessHandlerImpl) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := currentUser(w, r)
	if !ok {
		return
	}

	businessID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	file, contentType, ok := formImage(w, r, "image")
	if !ok {
		return
	}
	defer file.Close()

	actor := business.Actor{UserID: id.UserID, IsAdmin: id.IsAdmin()}
	result, err := h.businessService.UploadImage(r.Context(), actor, businessID, file, contentType)
	if err != nil {
		slog.Error("Upload business image error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Image uploaded successfully", result)
}

func (h *businessHandlerImpl) ListPending(w http.ResponseWriter, r *http.Request) {
	result, err := h.businessService.ListPending(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *businessHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	businessID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.businessService.Approve(r.Context(), businessID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Business approved", result)
}

func (h *businessHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	businessID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.businessService.Reject(r.Context(), businessID); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Business rejected", nil)
}
