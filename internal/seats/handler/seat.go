package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"busbook/internal/seats/service"
	httputil "busbook/pkg/http"
	"busbook/pkg/logger"
)

type SeatHandler struct {
	service service.SeatService
	log     *logger.Logger
}

func NewSeatHandler(service service.SeatService, log *logger.Logger) *SeatHandler {
	return &SeatHandler{
		service: service,
		log:     log,
	}
}

type initializeRequest struct {
	RouteID        string  `json:"route_id"`
	DepartureTime  string  `json:"departure_time"`
	BasePriceUpper float64 `json:"base_price_upper"`
	BasePriceLower float64 `json:"base_price_lower"`
}

func (h *SeatHandler) Initialize(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req initializeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Initialize", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	result, err := h.service.InitializeSlot(r.Context(), req.RouteID, req.DepartureTime, req.BasePriceUpper, req.BasePriceLower)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Initialize", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, result); err != nil {
		h.log.Error("failed to write created response", "handler", "Initialize", "operation", "WriteCreated", "error", err)
	}
}

func (h *SeatHandler) ListByRoute(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	routeID := ps.ByName("routeId")
	if routeID == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Route ID parameter is required",
		}); err != nil {
			h.log.Error("failed to write bad request response", "handler", "ListByRoute", "operation", "WriteJSON", "error", err)
		}
		return
	}

	var (
		seats any
		err   error
	)
	if departureTime := r.URL.Query().Get("departureTime"); departureTime != "" {
		seats, err = h.service.ListBySlot(r.Context(), routeID, departureTime)
	} else {
		seats, err = h.service.ListByRoute(r.Context(), routeID)
	}
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListByRoute", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, seats); err != nil {
		h.log.Error("failed to write success response", "handler", "ListByRoute", "operation", "WriteSuccess", "error", err)
	}
}

type blockRequest struct {
	Reason       string     `json:"reason"`
	BlockedUntil *time.Time `json:"blocked_until,omitempty"`
}

func (h *SeatHandler) Block(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "ID parameter is required",
		}); err != nil {
			h.log.Error("failed to write bad request response", "handler", "Block", "operation", "WriteJSON", "error", err)
		}
		return
	}

	var req blockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Block", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Block(r.Context(), id, req.Reason, req.BlockedUntil); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Block", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, map[string]any{"id": id, "blocked": true}); err != nil {
		h.log.Error("failed to write success response", "handler", "Block", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SeatHandler) Unblock(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "ID parameter is required",
		}); err != nil {
			h.log.Error("failed to write bad request response", "handler", "Unblock", "operation", "WriteJSON", "error", err)
		}
		return
	}

	if err := h.service.Unblock(r.Context(), id); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Unblock", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, map[string]any{"id": id, "blocked": false}); err != nil {
		h.log.Error("failed to write success response", "handler", "Unblock", "operation", "WriteSuccess", "error", err)
	}
}

type bulkBlockRequest struct {
	RouteID       string     `json:"route_id"`
	DepartureTime string     `json:"departure_time"`
	SeatIDs       []string   `json:"seat_ids"`
	Reason        string     `json:"reason"`
	BlockedUntil  *time.Time `json:"blocked_until,omitempty"`
}

func (h *SeatHandler) BulkBlock(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req bulkBlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "BulkBlock", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	result, err := h.service.BulkBlock(r.Context(), req.RouteID, req.DepartureTime, req.SeatIDs, req.Reason, req.BlockedUntil)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "BulkBlock", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "BulkBlock", "operation", "WriteSuccess", "error", err)
	}
}

type setPriceRequest struct {
	Price float64 `json:"price"`
}

func (h *SeatHandler) SetPrice(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "ID parameter is required",
		}); err != nil {
			h.log.Error("failed to write bad request response", "handler", "SetPrice", "operation", "WriteJSON", "error", err)
		}
		return
	}

	var req setPriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "SetPrice", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.SetPrice(r.Context(), id, req.Price); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "SetPrice", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, map[string]any{"id": id, "price": req.Price}); err != nil {
		h.log.Error("failed to write success response", "handler", "SetPrice", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SeatHandler) PurgeRoute(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	routeID := ps.ByName("routeId")
	if routeID == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Route ID parameter is required",
		}); err != nil {
			h.log.Error("failed to write bad request response", "handler", "PurgeRoute", "operation", "WriteJSON", "error", err)
		}
		return
	}

	deleted, err := h.service.PurgeRoute(r.Context(), routeID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "PurgeRoute", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, map[string]any{"route_id": routeID, "deleted": deleted}); err != nil {
		h.log.Error("failed to write success response", "handler", "PurgeRoute", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SeatHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/admin/seats/initialize", h.Initialize)
	router.POST("/api/v1/admin/seats/block", h.BulkBlock)
	router.GET("/api/v1/admin/seats/route/:routeId", h.ListByRoute)
	router.DELETE("/api/v1/admin/seats/route/:routeId", h.PurgeRoute)
	router.PUT("/api/v1/admin/seats/id/:id/block", h.Block)
	router.PUT("/api/v1/admin/seats/id/:id/unblock", h.Unblock)
	router.PUT("/api/v1/admin/seats/id/:id/price", h.SetPrice)
}
