package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
	"time"

	availability "busbook/internal/availability/service"
	bookingerrors "busbook/internal/bookings/errors"
	"busbook/internal/bookings/repository"
	"busbook/internal/bookings/validator"
	routeserrors "busbook/internal/routes/errors"
	routerepo "busbook/internal/routes/repository"
	"busbook/pkg/assets"
	"busbook/pkg/config"
	apperrors "busbook/pkg/errors"
	"busbook/pkg/events"
	"busbook/pkg/model"
	"busbook/pkg/sanitizer"
	"busbook/pkg/sealer"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/google/uuid"
)

// trackingCodeAttempts bounds regeneration when a freshly minted code
// collides with an existing booking.
const trackingCodeAttempts = 5

const notifyTimeout = 10 * time.Second

// Notifier is satisfied by mailer.Mailer. Nil disables mail entirely.
type Notifier interface {
	NotifyAdminProofSubmitted(ctx context.Context, booking *model.Booking) error
	NotifyCustomerStatus(ctx context.Context, booking *model.Booking) error
}

type InitiateRequest struct {
	DepartureCity   string    `json:"departure_city"`
	DestinationCity string    `json:"destination_city"`
	DepartureDate   time.Time `json:"departure_date"`
	DepartureTime   string    `json:"departure_time"`
	Passengers      int       `json:"passengers"`
}

// InitiateResult returns the booking together with the one-time session
// credential. The credential is only ever serialized here.
type InitiateResult struct {
	Booking      *model.Booking `json:"booking"`
	SessionToken string         `json:"session_token"`
}

type BookingService interface {
	Initiate(ctx context.Context, req *InitiateRequest) (*InitiateResult, error)
	SelectSeats(ctx context.Context, id, sessionToken string, seatIDs []string, clientTotal float64) (*model.Booking, error)
	SubmitProof(ctx context.Context, id, sessionToken string, contact *model.Contact, proof io.Reader) (*model.Booking, error)
	Verify(ctx context.Context, id string, status model.PaymentStatus) (*model.Booking, error)
	Remove(ctx context.Context, id string) error
	TrackByCode(ctx context.Context, code string) (*model.BookingTracking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
}

type bookingService struct {
	repo         repository.BookingRepository
	routes       routerepo.RouteRepository
	availability availability.AvailabilityService
	validator    *validator.BookingValidator
	sealer       *sealer.Sealer
	store        assets.Store
	notifier     Notifier
	publisher    events.Publisher
	cfg          *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	routes routerepo.RouteRepository,
	availabilitySvc availability.AvailabilityService,
	bookingValidator *validator.BookingValidator,
	tokenSealer *sealer.Sealer,
	store assets.Store,
	notifier Notifier,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &bookingService{
		repo:         repo,
		routes:       routes,
		availability: availabilitySvc,
		validator:    bookingValidator,
		sealer:       tokenSealer,
		store:        store,
		notifier:     notifier,
		publisher:    publisher,
		cfg:          cfg,
	}
}

// Initiate opens a booking in Pending state for a trip on an active route and
// mints its tracking code and session credential.
func (s *bookingService) Initiate(ctx context.Context, req *InitiateRequest) (*InitiateResult, error) {
	req.DepartureCity = sanitizer.NormalizeCity(req.DepartureCity)
	req.DestinationCity = sanitizer.NormalizeCity(req.DestinationCity)
	req.DepartureTime = sanitizer.TrimAndNormalize(req.DepartureTime)

	if !s.validator.ValidateTravelDate(req.DepartureDate) {
		return nil, apperrors.InvalidInput("Travel date cannot be in the past")
	}

	route, err := s.routes.FindActiveByCities(ctx, req.DepartureCity, req.DestinationCity)
	if err != nil {
		if errors.Is(err, routeserrors.ErrNotFound) {
			return nil, apperrors.NotFound("Route for this trip")
		}
		s.cfg.Log.Error("Failed to resolve route for booking",
			"departure", req.DepartureCity,
			"destination", req.DestinationCity,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to initiate booking", err)
	}
	if !timeOffered(route.AvailableTimes, req.DepartureTime) {
		return nil, apperrors.InvalidInput("This departure time is not offered on the route")
	}

	var booking *model.Booking
	var token string
	for attempt := 0; attempt < trackingCodeAttempts; attempt++ {
		code, err := newTrackingCode()
		if err != nil {
			return nil, apperrors.Internal("Failed to generate tracking code", err)
		}
		token, err = s.sealer.Seal(code, uuid.NewString())
		if err != nil {
			return nil, apperrors.Internal("Failed to mint session credential", err)
		}

		booking = &model.Booking{
			TrackingCode:    code,
			SessionToken:    token,
			DepartureCity:   req.DepartureCity,
			DestinationCity: req.DestinationCity,
			DepartureDate:   req.DepartureDate,
			DepartureTime:   req.DepartureTime,
			Passengers:      req.Passengers,
			SelectedSeats:   []string{},
			PaymentStatus:   model.StatusPending,
		}
		if err := s.validator.Validate(booking); err != nil {
			return nil, apperrors.Validation("Booking validation failed", map[string]any{
				"error": err.Error(),
			})
		}

		err = s.repo.Create(ctx, booking)
		if err == nil {
			break
		}
		if errors.Is(err, bookingerrors.ErrDuplicateTrackingCode) {
			s.cfg.Log.Warn("Tracking code collision, regenerating", "attempt", attempt+1)
			booking = nil
			continue
		}
		s.cfg.Log.Error("Failed to create booking", "error", err)
		return nil, apperrors.Internal("Failed to initiate booking", err)
	}
	if booking == nil {
		return nil, apperrors.Internal("Failed to allocate a tracking code",
			fmt.Errorf("exhausted %d attempts", trackingCodeAttempts))
	}

	s.cfg.Log.Info("Booking initiated",
		"id", booking.ID,
		"tracking_code", booking.TrackingCode,
		"departure", booking.DepartureCity,
		"destination", booking.DestinationCity,
		"travel_date", booking.DepartureDate.Format("2006-01-02"),
		"passengers", booking.Passengers,
	)
	s.publishEvent(events.TypeBookingInitiated, booking)

	return &InitiateResult{Booking: booking, SessionToken: token}, nil
}

// SelectSeats binds seats to a pending booking and snapshots the total the
// server computed for them. A client-supplied total is cross-checked, never
// trusted.
func (s *bookingService) SelectSeats(ctx context.Context, id, sessionToken string, seatIDs []string, clientTotal float64) (*model.Booking, error) {
	booking, err := s.getForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(booking, sessionToken); err != nil {
		return nil, err
	}
	if booking.PaymentStatus != model.StatusPending {
		return nil, apperrors.Conflict("Seats can no longer be changed for this booking")
	}

	if len(seatIDs) == 0 {
		return nil, apperrors.InvalidInput("At least one seat must be selected")
	}
	seen := make(map[string]struct{}, len(seatIDs))
	for i, seatID := range seatIDs {
		seatIDs[i] = sanitizer.NormalizeSeatID(seatID)
		if _, dup := seen[seatIDs[i]]; dup {
			return nil, apperrors.InvalidInput(fmt.Sprintf("Seat %s selected more than once", seatIDs[i]))
		}
		seen[seatIDs[i]] = struct{}{}
	}
	if err := s.validator.ValidateSeatIDs(seatIDs); err != nil {
		return nil, apperrors.Validation("Seat selection validation failed", map[string]any{
			"error": err.Error(),
		})
	}
	if len(seatIDs) != booking.Passengers {
		return nil, apperrors.InvalidInput(fmt.Sprintf(
			"Booking is for %d passenger(s), %d seat(s) selected", booking.Passengers, len(seatIDs)))
	}

	// The occupancy check and the seat write share one session so a
	// concurrent verification cannot slip between them.
	var total float64
	txErr := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		seatMap, err := s.availability.SeatMapForTrip(sessCtx,
			booking.DepartureCity, booking.DestinationCity, booking.DepartureTime, booking.DepartureDate)
		if err != nil {
			return err
		}
		entries := make(map[string]model.SeatMapEntry, len(seatMap.Seats))
		for _, entry := range seatMap.Seats {
			entries[entry.SeatID] = entry
		}

		total = 0
		for _, seatID := range seatIDs {
			entry, ok := entries[seatID]
			if !ok {
				return apperrors.InvalidInput(fmt.Sprintf("Seat %s does not exist on this bus", seatID))
			}
			if entry.Status != model.SeatAvailable {
				return apperrors.Conflict(fmt.Sprintf("Seat %s is not available", seatID))
			}
			total += entry.Price
		}
		total = math.Round(total*100) / 100

		if clientTotal > 0 && math.Abs(clientTotal-total) >= 0.01 {
			return apperrors.InvalidInput("Total amount does not match the current seat prices").
				WithDetails(map[string]any{
					"submitted_total": clientTotal,
					"computed_total":  total,
				})
		}

		return s.repo.UpdateSeats(sessCtx, booking.ID, seatIDs, total)
	})
	if txErr != nil {
		if apperrors.IsAppError(txErr) {
			return nil, txErr
		}
		s.cfg.Log.Error("Failed to persist seat selection", "id", booking.ID, "error", txErr)
		return nil, apperrors.Internal("Failed to save seat selection", txErr)
	}

	booking.SelectedSeats = seatIDs
	booking.TotalAmount = total

	s.cfg.Log.Info("Seats selected",
		"id", booking.ID,
		"tracking_code", booking.TrackingCode,
		"seats", seatIDs,
		"total", total,
	)
	s.publishEvent(events.TypeBookingSeatsSelected, booking)

	return booking, nil
}

// SubmitProof stores the payment screenshot and moves the booking to
// Processing. The asset is uploaded before any database write; if persisting
// fails, the orphaned upload is destroyed.
func (s *bookingService) SubmitProof(ctx context.Context, id, sessionToken string, contact *model.Contact, proof io.Reader) (*model.Booking, error) {
	booking, err := s.getForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(booking, sessionToken); err != nil {
		return nil, err
	}
	switch booking.PaymentStatus {
	case model.StatusPending, model.StatusProcessing:
		// resubmission while processing replaces the previous proof
	default:
		return nil, apperrors.Conflict("Payment for this booking has already been settled")
	}
	if len(booking.SelectedSeats) == 0 {
		return nil, apperrors.Conflict("Select seats before submitting payment proof")
	}
	if proof == nil {
		return nil, apperrors.InvalidInput("Payment proof screenshot is required")
	}

	contact.Name = sanitizer.NormalizeName(contact.Name)
	contact.Phone = sanitizer.NormalizePhone(contact.Phone)
	contact.Email = strings.ToLower(strings.TrimSpace(contact.Email))
	if err := s.validator.ValidateContact(contact); err != nil {
		return nil, apperrors.Validation("Customer details validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	uploaded, err := s.store.Upload(ctx, proof, booking.TrackingCode+"-"+uuid.NewString())
	if err != nil {
		s.cfg.Log.Error("Failed to upload payment proof", "id", booking.ID, "error", err)
		return nil, apperrors.Unavailable("Payment proof storage")
	}

	previousAssetID := booking.ProofAssetID

	update := &repository.ProofUpdate{
		CustomerName:  contact.Name,
		CustomerPhone: contact.Phone,
		CustomerEmail: contact.Email,
		ProofURL:      uploaded.URL,
		ProofAssetID:  uploaded.PublicID,
	}
	if err := s.repo.UpdateProof(ctx, booking.ID, update); err != nil {
		if delErr := s.store.Delete(ctx, uploaded.PublicID); delErr != nil {
			s.cfg.Log.Warn("Failed to destroy orphaned proof asset",
				"asset_id", uploaded.PublicID,
				"error", delErr,
			)
		}
		s.cfg.Log.Error("Failed to persist payment proof", "id", booking.ID, "error", err)
		return nil, apperrors.Internal("Failed to submit payment proof", err)
	}

	if previousAssetID != "" && previousAssetID != uploaded.PublicID {
		if delErr := s.store.Delete(ctx, previousAssetID); delErr != nil {
			s.cfg.Log.Warn("Failed to destroy replaced proof asset",
				"asset_id", previousAssetID,
				"error", delErr,
			)
		}
	}

	booking.CustomerName = contact.Name
	booking.CustomerPhone = contact.Phone
	booking.CustomerEmail = contact.Email
	booking.ProofURL = uploaded.URL
	booking.ProofAssetID = uploaded.PublicID
	booking.PaymentStatus = model.StatusProcessing

	s.cfg.Log.Info("Payment proof submitted",
		"id", booking.ID,
		"tracking_code", booking.TrackingCode,
		"customer", contact.Name,
	)
	s.notifyAdmin(booking)
	s.publishEvent(events.TypeBookingProofSubmitted, booking)

	return booking, nil
}

// Verify is the admin settlement decision. Only Paid and Cancelled are legal
// targets; the write is unconditional so an admin can correct a mistaken
// verdict by verifying again.
func (s *bookingService) Verify(ctx context.Context, id string, status model.PaymentStatus) (*model.Booking, error) {
	if status != model.StatusPaid && status != model.StatusCancelled {
		return nil, apperrors.InvalidInput("Verification status must be Paid or Cancelled")
	}

	booking, err := s.getForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, booking.ID, status); err != nil {
		s.cfg.Log.Error("Failed to update booking status", "id", booking.ID, "status", status, "error", err)
		return nil, apperrors.Internal("Failed to verify booking", err)
	}
	booking.PaymentStatus = status

	s.cfg.Log.Info("Booking verified",
		"id", booking.ID,
		"tracking_code", booking.TrackingCode,
		"status", status,
	)
	s.notifyCustomer(booking)
	s.publishEvent(events.TypeBookingVerified, booking)

	return booking, nil
}

// Remove hard-deletes a booking and destroys its proof asset best-effort.
func (s *bookingService) Remove(ctx context.Context, id string) error {
	booking, err := s.getForUpdate(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, booking.ID); err != nil {
		s.cfg.Log.Error("Failed to delete booking", "id", booking.ID, "error", err)
		return apperrors.Internal("Failed to delete booking", err)
	}

	if booking.ProofAssetID != "" {
		if delErr := s.store.Delete(ctx, booking.ProofAssetID); delErr != nil {
			s.cfg.Log.Warn("Failed to destroy proof asset of deleted booking",
				"id", booking.ID,
				"asset_id", booking.ProofAssetID,
				"error", delErr,
			)
		}
	}

	s.cfg.Log.Info("Booking deleted", "id", booking.ID, "tracking_code", booking.TrackingCode)
	s.publishEvent(events.TypeBookingDeleted, booking)

	return nil
}

// TrackByCode is the public status lookup. The projection carries the
// operator's contact info and none of the internal identifiers.
func (s *bookingService) TrackByCode(ctx context.Context, code string) (*model.BookingTracking, error) {
	// A malformed code cannot match any booking; report it the same way as
	// an unknown one.
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 8 {
		return nil, apperrors.NotFound("Booking")
	}

	booking, err := s.repo.FindByTrackingCode(ctx, code)
	if err != nil {
		if errors.Is(err, bookingerrors.ErrNotFound) {
			return nil, apperrors.NotFound("Booking")
		}
		s.cfg.Log.Error("Failed to track booking", "tracking_code", code, "error", err)
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return &model.BookingTracking{
		TrackingCode:    booking.TrackingCode,
		Status:          booking.PaymentStatus,
		TotalAmount:     booking.TotalAmount,
		DepartureCity:   booking.DepartureCity,
		DestinationCity: booking.DestinationCity,
		DepartureDate:   booking.DepartureDate,
		DepartureTime:   booking.DepartureTime,
		Passengers:      booking.Passengers,
		SelectedSeats:   booking.SelectedSeats,
		CustomerName:    booking.CustomerName,
		CustomerPhone:   booking.CustomerPhone,
		CustomerEmail:   booking.CustomerEmail,
		Provider: model.ProviderContact{
			Name:  s.cfg.ProviderName,
			Phone: s.cfg.ProviderPhone,
			Email: s.cfg.ProviderEmail,
		},
	}, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	sharedCtx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.Count(sharedCtx)
		if err != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", err)
			errCount = apperrors.Internal("Failed to count bookings", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		bookings, err = s.repo.FindAll(sharedCtx, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list bookings", "limit", limit, "offset", offset, "error", err)
			errFind = apperrors.Internal("Failed to retrieve bookings", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	if bookings == nil {
		bookings = []*model.Booking{}
	}
	return bookings, count, nil
}

func (s *bookingService) getForUpdate(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		s.cfg.Log.Error("Failed to load booking", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}
	return booking, nil
}

// authorize checks the session credential against the booking it was minted
// for. Failures are indistinguishable to the caller.
func (s *bookingService) authorize(booking *model.Booking, sessionToken string) error {
	denied := apperrors.Forbidden("Session credential does not match this booking")

	if sessionToken == "" || booking.SessionToken == "" {
		return denied
	}
	code, _, err := s.sealer.Open(sessionToken)
	if err != nil || code != booking.TrackingCode {
		return denied
	}
	if subtle.ConstantTimeCompare([]byte(sessionToken), []byte(booking.SessionToken)) != 1 {
		return denied
	}
	return nil
}

type bookingEvent struct {
	BookingID    string              `json:"booking_id"`
	TrackingCode string              `json:"tracking_code"`
	Status       model.PaymentStatus `json:"status"`
	TotalAmount  float64             `json:"total_amount"`
	Seats        []string            `json:"seats,omitempty"`
}

func (s *bookingService) publishEvent(eventType string, booking *model.Booking) {
	payload, err := json.Marshal(bookingEvent{
		BookingID:    booking.ID,
		TrackingCode: booking.TrackingCode,
		Status:       booking.PaymentStatus,
		TotalAmount:  booking.TotalAmount,
		Seats:        booking.SelectedSeats,
	})
	if err != nil {
		s.cfg.Log.Warn("Failed to marshal booking event", "type", eventType, "error", err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		err := s.publisher.Publish(ctx, events.Message{
			Key:       booking.ID,
			Value:     payload,
			Headers:   map[string]string{events.HeaderEventType: eventType},
			Timestamp: time.Now(),
		})
		if err != nil {
			s.cfg.Log.Warn("Failed to publish booking event",
				"type", eventType,
				"booking_id", booking.ID,
				"error", err,
			)
		}
	}()
}

func (s *bookingService) notifyAdmin(booking *model.Booking) {
	if s.notifier == nil {
		return
	}
	b := *booking
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.notifier.NotifyAdminProofSubmitted(ctx, &b); err != nil {
			s.cfg.Log.Warn("Failed to notify admin of proof submission",
				"booking_id", b.ID,
				"error", err,
			)
		}
	}()
}

func (s *bookingService) notifyCustomer(booking *model.Booking) {
	if s.notifier == nil {
		return
	}
	b := *booking
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.notifier.NotifyCustomerStatus(ctx, &b); err != nil {
			s.cfg.Log.Warn("Failed to notify customer of verification",
				"booking_id", b.ID,
				"error", err,
			)
		}
	}()
}

// newTrackingCode mints the short public booking identifier: eight
// upper-case hex characters.
func newTrackingCode() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}

func timeOffered(offered []string, label string) bool {
	for _, t := range offered {
		if t == label {
			return true
		}
	}
	return false
}
