package handler

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"busbook/internal/availability/service"
	apperrors "busbook/pkg/errors"
	httputil "busbook/pkg/http"
	"busbook/pkg/logger"
)

// Query dates arrive as YYYY-MM-DD.
const dateLayout = "2006-01-02"

type AvailabilityHandler struct {
	service service.AvailabilityService
	log     *logger.Logger
}

func NewAvailabilityHandler(service service.AvailabilityService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log,
	}
}

// Occupied serves GET /api/v1/seats/occupied?destination=&date=&time=.
func (h *AvailabilityHandler) Occupied(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	destination := query.Get("destination")
	timeLabel := query.Get("time")
	dateStr := query.Get("date")

	travelDate, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("date must be in YYYY-MM-DD format")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Occupied", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	occupied, err := h.service.OccupiedSeats(r.Context(), destination, timeLabel, travelDate)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Occupied", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, map[string]any{"occupied_seats": occupied}); err != nil {
		h.log.Error("failed to write success response", "handler", "Occupied", "operation", "WriteSuccess", "error", err)
	}
}

// SeatMap serves GET /api/v1/seats/map/:routeId?departureTime=&date=.
func (h *AvailabilityHandler) SeatMap(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	routeID := ps.ByName("routeId")
	if routeID == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Route ID parameter is required",
		}); err != nil {
			h.log.Error("failed to write bad request response", "handler", "SeatMap", "operation", "WriteJSON", "error", err)
		}
		return
	}

	query := r.URL.Query()
	departureTime := query.Get("departureTime")

	travelDate, err := time.Parse(dateLayout, query.Get("date"))
	if err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("date must be in YYYY-MM-DD format")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "SeatMap", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	seatMap, err := h.service.SeatMap(r.Context(), routeID, departureTime, travelDate)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "SeatMap", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, seatMap); err != nil {
		h.log.Error("failed to write success response", "handler", "SeatMap", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/seats/occupied", h.Occupied)
	router.GET("/api/v1/seats/map/:routeId", h.SeatMap)
}
