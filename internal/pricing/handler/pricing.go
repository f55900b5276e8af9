package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"busbook/internal/pricing/service"
	httputil "busbook/pkg/http"
	"busbook/pkg/logger"
	"busbook/pkg/model"
)

type PricingHandler struct {
	service service.PricingService
	log     *logger.Logger
}

func NewPricingHandler(service service.PricingService, log *logger.Logger) *PricingHandler {
	return &PricingHandler{
		service: service,
		log:     log,
	}
}

func (h *PricingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var rp model.RoutePrice
	if err := json.NewDecoder(r.Body).Decode(&rp); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.AddOverride(r.Context(), &rp); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, rp); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *PricingHandler) ListByRoute(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	routeID := ps.ByName("routeId")
	if routeID == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Route ID parameter is required",
		}); err != nil {
			h.log.Error("failed to write bad request response", "handler", "ListByRoute", "operation", "WriteJSON", "error", err)
		}
		return
	}

	prices, err := h.service.ListByRoute(r.Context(), routeID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListByRoute", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, prices); err != nil {
		h.log.Error("failed to write success response", "handler", "ListByRoute", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PricingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "ID parameter is required",
		}); err != nil {
			h.log.Error("failed to write bad request response", "handler", "Delete", "operation", "WriteJSON", "error", err)
		}
		return
	}

	if err := h.service.RemoveOverride(r.Context(), id); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *PricingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/admin/pricing", h.Create)
	router.GET("/api/v1/admin/pricing/route/:routeId", h.ListByRoute)
	router.DELETE("/api/v1/admin/pricing/id/:id", h.Delete)
}
