package http

import (
	"log/slog"
	"net/http"

	"github.com/thikabizhub/bizhub-backend/internal/domain/review"
	"github.com/thikabizhub/bizhub-backend/internal/domain/user"
	"github.com/thikabizhub/bizhub-backend/internal/handler/http/response"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/validator"
)

type ReviewHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
}

type reviewHandlerImpl struct {
	reviewService review.ReviewService
	userService   user.UserService
}

func NewReviewHandler(reviewService review.ReviewService, userService user.UserService) ReviewHandler {
	return &reviewHandlerImpl{
		reviewService: reviewService,
		userService:   userService,
	}
}

// List handles GET /reviews?businessId=
func (h *reviewHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	businessID := r.URL.Query().Get("businessId")
	if !validator.IsValidUUID(businessID) {
		response.ValidationError(w, map[string]string{"businessId": "businessId must be a valid UUID"})
		return
	}

	result, err := h.reviewService.List(r.Context(), businessID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *reviewHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req review.CreateReviewRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	profile, err := h.userService.GetProfile(r.Context(), id.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	name := profile.DisplayName
	if name == "" {
		name = profile.Email
	}

	result, err := h.reviewService.Create(r.Context(), review.Reviewer{UserID: id.UserID, Name: name}, req)
	if err != nil {
		slog.Error("Create review service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Review submitted successfully", result)
}
