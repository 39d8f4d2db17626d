package http

import (
	"log/slog"
	"net/http"

	"github.com/thikabizhub/bizhub-backend/internal/domain/referral"
	"github.com/thikabizhub/bizhub-backend/internal/handler/http/response"
)

type ReferralHandler interface {
	GetInfo(w http.ResponseWriter, r *http.Request)
	Apply(w http.ResponseWriter, r *http.Request)
}

type referralHandlerImpl struct {
	referralService referral.ReferralService
}

func NewReferralHandler(referralService referral.ReferralService) ReferralHandler {
	return &referralHandlerImpl{referralService: referralService}
}

// GetInfo returns the caller's referral code, issuing one on first use.
func (h *referralHandlerImpl) GetInfo(w http.ResponseWriter, r *http.Request) {
	id, ok := currentUser(w, r)
	if !ok {
		return
	}

	result, err := h.referralService.GetInfo(r.Context(), id.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *referralHandlerImpl) Apply(w http.ResponseWriter, r *http.Request) {
	id, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req referral.ApplyReferralRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.referralService.Apply(r.Context(), referral.Referred{UserID: id.UserID, Email: id.Email}, req.ReferralCode)
	if err != nil {
		slog.Warn("Apply referral failed", "user_id", id.UserID, "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Referral code applied successfully", result)
}
