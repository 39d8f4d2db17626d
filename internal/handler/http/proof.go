package http

import (
	"log/slog"
	"net/http"

	"github.com/thikabizhub/bizhub-backend/internal/domain/proof"
	"github.com/thikabizhub/bizhub-backend/internal/handler/http/response"
)

type ProofHandler interface {
	ListApproved(w http.ResponseWriter, r *http.Request)
	Submit(w http.ResponseWriter, r *http.Request)

	// Admin
	ListPending(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type proofHandlerImpl struct {
	proofService proof.ProofService
}

func NewProofHandler(proofService proof.ProofService) ProofHandler {
	return &proofHandlerImpl{proofService: proofService}
}

func (h *proofHandlerImpl) ListApproved(w http.ResponseWriter, r *http.Request) {
	result, err := h.proofService.ListApproved(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Submit handles a multipart form with image, business_id and caption.
func (h *proofHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	id, ok := currentUser(w, r)
	if !ok {
		return
	}

	file, contentType, ok := formImage(w, r, "image")
	if !ok {
		return
	}
	defer file.Close()

	req := proof.SubmitProofRequest{
		BusinessID:  r.FormValue("business_id"),
		Caption:     r.FormValue("caption"),
		Image:       file,
		ContentType: contentType,
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.proofService.Submit(r.Context(), id.UserID, req)
	if err != nil {
		slog.Error("Submit proof service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Proof of visit submitted for approval", result)
}

func (h *proofHandlerImpl) ListPending(w http.ResponseWriter, r *http.Request) {
	result, err := h.proofService.ListPending(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *proofHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	proofID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.proofService.Approve(r.Context(), proofID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Proof of visit approved", result)
}

func (h *proofHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	proofID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.proofService.Reject(r.Context(), proofID); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Proof of visit rejected", nil)
}
