package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/thikabizhub/bizhub-backend/internal/domain/deal"
	"github.com/thikabizhub/bizhub-backend/internal/handler/http/response"
)

type DealHandler interface {
	ListActive(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type dealHandlerImpl struct {
	dealService deal.DealService
}

func NewDealHandler(dealService deal.DealService) DealHandler {
	return &dealHandlerImpl{dealService: dealService}
}

func (h *dealHandlerImpl) ListActive(w http.ResponseWriter, r *http.Request) {
	result, err := h.dealService.ListActive(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *dealHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req deal.CreateDealRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(time.Now()); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.dealService.Create(r.Context(), id.UserID, req)
	if err != nil {
		slog.Error("Create deal service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Deal created successfully", result)
}

func (h *dealHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	dealID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.dealService.Delete(r.Context(), dealID); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Deal deleted", nil)
}
