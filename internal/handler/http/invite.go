package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/thikabizhub/bizhub-backend/internal/domain/invite"
	"github.com/thikabizhub/bizhub-backend/internal/handler/http/response"
)

type InviteHandler interface {
	// Public endpoint - view invite details
	GetDetails(w http.ResponseWriter, r *http.Request)
	// Authenticated endpoints
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Accept(w http.ResponseWriter, r *http.Request)
}

type inviteHandlerImpl struct {
	inviteService invite.InviteService
}

func NewInviteHandler(inviteService invite.InviteService) InviteHandler {
	return &inviteHandlerImpl{
		inviteService: inviteService,
	}
}

func inviteCodeParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	inviteCode := strings.TrimSpace(chi.URLParam(r, "code"))
	if inviteCode == "" {
		response.BadRequest(w, "Invite code is required", nil)
		return "", false
	}
	return inviteCode, true
}

// GetDetails implements InviteHandler - public endpoint
func (h *inviteHandlerImpl) GetDetails(w http.ResponseWriter, r *http.Request) {
	inviteCode, ok := inviteCodeParam(w, r)
	if !ok {
		return
	}

	result, err := h.inviteService.GetDetails(r.Context(), inviteCode)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements InviteHandler - invites sent by and addressed to the caller
func (h *inviteHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	id, ok := currentUser(w, r)
	if !ok {
		return
	}

	result, err := h.inviteService.List(r.Context(), id.UserID, id.Email)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Create implements InviteHandler.
func (h *inviteHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req invite.CreateInviteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.inviteService.Create(r.Context(), invite.Inviter{UserID: id.UserID, Email: id.Email}, req)
	if err != nil {
		slog.Error("Create invite service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Invite created successfully", result)
}

// Accept implements InviteHandler.
func (h *inviteHandlerImpl) Accept(w http.ResponseWriter, r *http.Request) {
	id, ok := currentUser(w, r)
	if !ok {
		return
	}
	inviteCode, ok := inviteCodeParam(w, r)
	if !ok {
		return
	}

	result, err := h.inviteService.Accept(r.Context(), inviteCode, invite.Acceptor{UserID: id.UserID, Email: id.Email})
	if err != nil {
		slog.Warn("Accept invite failed", "user_id", id.UserID, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Invite accepted successfully", result)
}
