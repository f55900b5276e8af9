package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"busbook/internal/routes/service"
	httputil "busbook/pkg/http"
	"busbook/pkg/logger"
	"busbook/pkg/model"
)

type RouteHandler struct {
	service service.RouteService
	log     *logger.Logger
}

func NewRouteHandler(service service.RouteService, log *logger.Logger) *RouteHandler {
	return &RouteHandler{
		service: service,
		log:     log,
	}
}

// Catalog serves the public route list with distinct city lists.
func (h *RouteHandler) Catalog(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	catalog, err := h.service.Catalog(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Catalog", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, catalog); err != nil {
		h.log.Error("failed to write success response", "handler", "Catalog", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RouteHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var route model.Route
	if err := json.NewDecoder(r.Body).Decode(&route); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Add(r.Context(), &route); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, route); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

type updateTimesRequest struct {
	AvailableTimes []string `json:"available_times"`
}

func (h *RouteHandler) UpdateTimes(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "ID parameter is required",
		}); err != nil {
			h.log.Error("failed to write bad request response", "handler", "UpdateTimes", "operation", "WriteJSON", "error", err)
		}
		return
	}

	var req updateTimesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "UpdateTimes", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.UpdateTimes(r.Context(), id, req.AvailableTimes); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpdateTimes", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, map[string]any{"id": id, "available_times": req.AvailableTimes}); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateTimes", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RouteHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "ID parameter is required",
		}); err != nil {
			h.log.Error("failed to write bad request response", "handler", "Delete", "operation", "WriteJSON", "error", err)
		}
		return
	}

	if err := h.service.Deactivate(r.Context(), id); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *RouteHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/routes", h.Catalog)
	router.GET("/api/v1/admin/routes", h.Catalog)
	router.POST("/api/v1/admin/routes", h.Create)
	router.PUT("/api/v1/admin/routes/id/:id/times", h.UpdateTimes)
	router.DELETE("/api/v1/admin/routes/id/:id", h.Delete)
}
