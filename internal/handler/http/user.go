package http

import (
	"log/slog"
	"net/http"

	"github.com/thikabizhub/bizhub-backend/internal/domain/business"
	"github.com/thikabizhub/bizhub-backend/internal/domain/user"
	"github.com/thikabizhub/bizhub-backend/internal/handler/http/response"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/pagination"
)

type UserHandler interface {
	Me(w http.ResponseWriter, r *http.Request)
	UpdateMe(w http.ResponseWriter, r *http.Request)
	MyBusinesses(w http.ResponseWriter, r *http.Request)
	Favorites(w http.ResponseWriter, r *http.Request)
	ToggleFavorite(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	SetRole(w http.ResponseWriter, r *http.Request)
}

type userHandlerImpl struct {
	userService     user.UserService
	businessService business.BusinessService
}

func NewUserHandler(userService user.UserService, businessService business.BusinessService) UserHandler {
	return &userHandlerImpl{
		userService:     userService,
		businessService: businessService,
	}
}

func (h *userHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := currentUser(w, r)
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(r.Context(), id.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, profile)
}

func (h *userHandlerImpl) UpdateMe(w http.ResponseWriter, r *http.Request) {
	id, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req user.UpdateProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	profile, err := h.userService.UpdateProfile(r.Context(), id.UserID, req)
	if err != nil {
		slog.Error("UpdateProfile service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Profile updated successfully", profile)
}

func (h *userHandlerImpl) MyBusinesses(w http.ResponseWriter, r *http.Request) {
	id, ok := currentUser(w, r)
	if !ok {
		return
	}

	businesses, err := h.businessService.ListMine(r.Context(), id.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, businesses)
}

func (h *userHandlerImpl) Favorites(w http.ResponseWriter, r *http.Request) {
	id, ok := currentUser(w, r)
	if !ok {
		return
	}

	favorites, err := h.businessService.ListFavorites(r.Context(), id.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, favorites)
}

func (h *userHandlerImpl) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := currentUser(w, r)
	if !ok {
		return
	}

	businessID, ok := pathID(w, r, "businessID")
	if !ok {
		return
	}

	result, err := h.businessService.ToggleFavorite(r.Context(), id.UserID, businessID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// List is the admin user directory, keyset-paginated.
func (h *userHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	req, err := pagination.FromQuery(r.URL.Query())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	page, err := h.userService.List(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, page)
}

func (h *userHandlerImpl) SetRole(w http.ResponseWriter, r *http.Request) {
	id, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req user.SetRoleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.userService.SetRole(r.Context(), id.UserID, req); err != nil {
		slog.Error("SetRole service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("User role changed", "actor_id", id.UserID, "user_id", req.UserID, "role", req.Role)
	response.SuccessWithMessage(w, "Role updated successfully", nil)
}
