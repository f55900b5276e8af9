// Package service derives seat availability. Occupancy is never stored on
// seat documents: a seat is occupied exactly when a paid booking for the same
// trip slot and travel day selected it.
package service

import (
	"context"
	"errors"
	"sort"
	"time"

	bookingrepo "busbook/internal/bookings/repository"
	pricingservice "busbook/internal/pricing/service"
	routeserrors "busbook/internal/routes/errors"
	routerepo "busbook/internal/routes/repository"
	seatrepo "busbook/internal/seats/repository"
	"busbook/pkg/config"
	apperrors "busbook/pkg/errors"
	"busbook/pkg/model"
	"busbook/pkg/sanitizer"
)

type AvailabilityService interface {
	OccupiedSeats(ctx context.Context, destinationCity, departureTime string, travelDate time.Time) ([]string, error)
	SeatMap(ctx context.Context, routeID, departureTime string, travelDate time.Time) (*model.SeatMap, error)
	SeatMapForTrip(ctx context.Context, departureCity, destinationCity, departureTime string, travelDate time.Time) (*model.SeatMap, error)
}

type availabilityService struct {
	bookings bookingrepo.BookingRepository
	seats    seatrepo.SeatRepository
	routes   routerepo.RouteRepository
	pricing  pricingservice.PricingService
	cfg      *config.Config
}

func NewAvailabilityService(
	bookings bookingrepo.BookingRepository,
	seats seatrepo.SeatRepository,
	routes routerepo.RouteRepository,
	pricing pricingservice.PricingService,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		bookings: bookings,
		seats:    seats,
		routes:   routes,
		pricing:  pricing,
		cfg:      cfg,
	}
}

// OccupiedSeats returns the union of seats selected by paid bookings whose
// trip matches destination and departure-time label on the same calendar day.
func (s *availabilityService) OccupiedSeats(ctx context.Context, destinationCity, departureTime string, travelDate time.Time) ([]string, error) {
	destinationCity = sanitizer.NormalizeCity(destinationCity)
	if destinationCity == "" || departureTime == "" {
		return nil, apperrors.InvalidInput("Destination and departure time are required")
	}
	if travelDate.IsZero() {
		return nil, apperrors.InvalidInput("Travel date is required")
	}

	dayStart := time.Date(travelDate.Year(), travelDate.Month(), travelDate.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	paid, err := s.bookings.FindPaidForSlot(ctx, destinationCity, departureTime, dayStart, dayEnd)
	if err != nil {
		s.cfg.Log.Error("Failed to load paid bookings for slot",
			"destination", destinationCity,
			"departure_time", departureTime,
			"travel_date", dayStart.Format("2006-01-02"),
			"error", err,
		)
		return nil, apperrors.Internal("Failed to resolve occupied seats", err)
	}

	set := make(map[string]struct{})
	for _, b := range paid {
		for _, seatID := range b.SelectedSeats {
			set[sanitizer.NormalizeSeatID(seatID)] = struct{}{}
		}
	}

	occupied := make([]string, 0, len(set))
	for seatID := range set {
		occupied = append(occupied, seatID)
	}
	sort.Strings(occupied)
	return occupied, nil
}

// SeatMap merges stored inventory with derived occupancy and the price
// resolved for the travel date. When price resolution fails the stored seat
// price is served instead of failing the whole map.
func (s *availabilityService) SeatMap(ctx context.Context, routeID, departureTime string, travelDate time.Time) (*model.SeatMap, error) {
	if routeID == "" || departureTime == "" {
		return nil, apperrors.InvalidInput("Route ID and departure time are required")
	}
	if travelDate.IsZero() {
		return nil, apperrors.InvalidInput("Travel date is required")
	}

	route, err := s.routes.FindByID(ctx, routeID)
	if err != nil {
		if errors.Is(err, routeserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Route", routeID)
		}
		if errors.Is(err, routeserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid route ID format")
		}
		s.cfg.Log.Error("Failed to load route for seat map", "route_id", routeID, "error", err)
		return nil, apperrors.Internal("Failed to resolve seat map", err)
	}

	seats, err := s.seats.FindBySlot(ctx, routeID, departureTime)
	if err != nil {
		s.cfg.Log.Error("Failed to load seat inventory",
			"route_id", routeID,
			"departure_time", departureTime,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to resolve seat map", err)
	}

	occupied, err := s.OccupiedSeats(ctx, route.Destination, departureTime, travelDate)
	if err != nil {
		return nil, err
	}
	occupiedSet := make(map[string]struct{}, len(occupied))
	for _, seatID := range occupied {
		occupiedSet[seatID] = struct{}{}
	}

	seatMap := &model.SeatMap{
		RouteID:       routeID,
		DepartureTime: departureTime,
		TravelDate:    travelDate,
		Seats:         make([]model.SeatMapEntry, 0, len(seats)),
		TotalSeats:    len(seats),
	}

	for _, seat := range seats {
		entry := model.SeatMapEntry{
			SeatID:        seat.SeatID,
			Deck:          seat.Deck,
			Row:           seat.Row,
			Column:        seat.Column,
			Status:        seat.Status,
			IsBlocked:     seat.IsBlocked,
			BlockedReason: seat.BlockedReason,
		}
		if _, taken := occupiedSet[seat.SeatID]; taken {
			entry.Status = model.SeatOccupied
		}

		price, err := s.pricing.ResolvePrice(ctx, routeID, departureTime, seat.Deck, travelDate, seat.CurrentPrice)
		if err != nil {
			s.cfg.Log.Warn("Price resolution failed, serving stored seat price",
				"route_id", routeID,
				"seat_id", seat.SeatID,
				"error", err,
			)
			price = seat.CurrentPrice
		}
		entry.Price = price

		seatMap.Seats = append(seatMap.Seats, entry)
	}

	return seatMap, nil
}

// SeatMapForTrip resolves the route from a (departure, destination) city pair
// first, then builds the seat map.
func (s *availabilityService) SeatMapForTrip(ctx context.Context, departureCity, destinationCity, departureTime string, travelDate time.Time) (*model.SeatMap, error) {
	departureCity = sanitizer.NormalizeCity(departureCity)
	destinationCity = sanitizer.NormalizeCity(destinationCity)
	if departureCity == "" || destinationCity == "" {
		return nil, apperrors.InvalidInput("Departure and destination cities are required")
	}

	route, err := s.routes.FindActiveByCities(ctx, departureCity, destinationCity)
	if err != nil {
		if errors.Is(err, routeserrors.ErrNotFound) {
			return nil, apperrors.NotFound("Route for this trip")
		}
		s.cfg.Log.Error("Failed to resolve route by cities",
			"departure", departureCity,
			"destination", destinationCity,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to resolve seat map", err)
	}

	return s.SeatMap(ctx, route.ID, departureTime, travelDate)
}
