package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"

	"busbook/internal/bookings/service"
	apperrors "busbook/pkg/errors"
	httputil "busbook/pkg/http"
	"busbook/pkg/logger"
	"busbook/pkg/model"
)

const (
	// SessionTokenHeader carries the credential minted at initiation.
	SessionTokenHeader = "X-Session-Token"

	// ProofFormFile is the multipart field holding the payment screenshot.
	ProofFormFile = "payment_proof"

	dateLayout = "2006-01-02"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

type initiateRequest struct {
	DepartureCity   string `json:"departure_city"`
	DestinationCity string `json:"destination_city"`
	DepartureDate   string `json:"departure_date"`
	DepartureTime   string `json:"departure_time"`
	Passengers      int    `json:"passengers"`
}

func (h *BookingHandler) Initiate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req initiateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Initiate", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	travelDate, err := time.Parse(dateLayout, req.DepartureDate)
	if err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("departure_date must be in YYYY-MM-DD format")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Initiate", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	result, err := h.service.Initiate(r.Context(), &service.InitiateRequest{
		DepartureCity:   req.DepartureCity,
		DestinationCity: req.DestinationCity,
		DepartureDate:   travelDate,
		DepartureTime:   req.DepartureTime,
		Passengers:      req.Passengers,
	})
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Initiate", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, result); err != nil {
		h.log.Error("failed to write created response", "handler", "Initiate", "operation", "WriteCreated", "error", err)
	}
}

type selectSeatsRequest struct {
	Seats       []string `json:"seats"`
	TotalAmount float64  `json:"total_amount"`
}

func (h *BookingHandler) SelectSeats(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "ID parameter is required",
		}); err != nil {
			h.log.Error("failed to write bad request response", "handler", "SelectSeats", "operation", "WriteJSON", "error", err)
		}
		return
	}

	var req selectSeatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "SelectSeats", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	booking, err := h.service.SelectSeats(r.Context(), id, r.Header.Get(SessionTokenHeader), req.Seats, req.TotalAmount)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "SelectSeats", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "SelectSeats", "operation", "WriteSuccess", "error", err)
	}
}

// SubmitProof accepts a multipart form: customer fields plus the payment
// screenshot under the payment_proof field.
func (h *BookingHandler) SubmitProof(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "ID parameter is required",
		}); err != nil {
			h.log.Error("failed to write bad request response", "handler", "SubmitProof", "operation", "WriteJSON", "error", err)
		}
		return
	}

	if err := r.ParseMultipartForm(int64(8 << 20)); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Request must be multipart/form-data with a payment proof file")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "SubmitProof", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	contact := &model.Contact{
		Name:  r.FormValue("name"),
		Phone: r.FormValue("phone"),
		Email: r.FormValue("email"),
	}

	file, _, err := r.FormFile(ProofFormFile)
	if err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Payment proof screenshot is required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "SubmitProof", "operation", "WriteError", "error", writeErr)
		}
		return
	}
	defer file.Close()

	booking, err := h.service.SubmitProof(r.Context(), id, r.Header.Get(SessionTokenHeader), contact, file)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "SubmitProof", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "SubmitProof", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Track(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	code := ps.ByName("code")
	if code == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Tracking code parameter is required",
		}); err != nil {
			h.log.Error("failed to write bad request response", "handler", "Track", "operation", "WriteJSON", "error", err)
		}
		return
	}

	tracking, err := h.service.TrackByCode(r.Context(), code)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Track", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, tracking); err != nil {
		h.log.Error("failed to write success response", "handler", "Track", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	limit := 0
	if limitStr := query.Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil {
			if writeErr := httputil.WriteError(w, apperrors.InvalidInput("invalid limit parameter: "+limitStr)); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
			}
			return
		}
	}

	var offset int64
	if offsetStr := query.Get("offset"); offsetStr != "" {
		var err error
		offset, err = strconv.ParseInt(offsetStr, 10, 64)
		if err != nil {
			if writeErr := httputil.WriteError(w, apperrors.InvalidInput("invalid offset parameter: "+offsetStr)); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
			}
			return
		}
	}

	bookings, totalCount, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, bookings, totalCount, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

type verifyRequest struct {
	Status model.PaymentStatus `json:"status"`
}

func (h *BookingHandler) Verify(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "ID parameter is required",
		}); err != nil {
			h.log.Error("failed to write bad request response", "handler", "Verify", "operation", "WriteJSON", "error", err)
		}
		return
	}

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Verify", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	booking, err := h.service.Verify(r.Context(), id, req.Status)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Verify", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Verify", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "ID parameter is required",
		}); err != nil {
			h.log.Error("failed to write bad request response", "handler", "Delete", "operation", "WriteJSON", "error", err)
		}
		return
	}

	if err := h.service.Remove(r.Context(), id); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings/initiate", h.Initiate)
	router.PUT("/api/v1/bookings/id/:id/seats", h.SelectSeats)
	router.POST("/api/v1/bookings/id/:id/submit", h.SubmitProof)
	router.GET("/api/v1/bookings/track/:code", h.Track)
	router.GET("/api/v1/admin/bookings", h.GetAll)
	router.PUT("/api/v1/admin/bookings/id/:id/verify", h.Verify)
	router.DELETE("/api/v1/admin/bookings/id/:id", h.Delete)
}
