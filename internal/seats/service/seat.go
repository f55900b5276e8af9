package service

import (
	"context"
	"errors"
	"time"

	seatserrors "busbook/internal/seats/errors"
	"busbook/internal/seats/repository"
	"busbook/pkg/config"
	apperrors "busbook/pkg/errors"
	"busbook/pkg/model"
	"busbook/pkg/sanitizer"
)

// Deck-tier base prices applied when a slot's inventory is first seeded.
const (
	DefaultBasePriceUpper = 599
	DefaultBasePriceLower = 699
)

type InitializeResult struct {
	RouteID       string   `json:"route_id"`
	DepartureTime string   `json:"departure_time"`
	SeatsWritten  int      `json:"seats_written"`
	BlockedSeats  []string `json:"blocked_seats"`
}

type BulkBlockResult struct {
	Requested int   `json:"requested"`
	Modified  int64 `json:"modified"`
}

type SeatService interface {
	InitializeSlot(ctx context.Context, routeID, departureTime string, priceUpper, priceLower float64) (*InitializeResult, error)
	ListByRoute(ctx context.Context, routeID string) ([]*model.Seat, error)
	ListBySlot(ctx context.Context, routeID, departureTime string) ([]*model.Seat, error)
	Block(ctx context.Context, id, reason string, until *time.Time) error
	Unblock(ctx context.Context, id string) error
	BulkBlock(ctx context.Context, routeID, departureTime string, seatIDs []string, reason string, until *time.Time) (*BulkBlockResult, error)
	SetPrice(ctx context.Context, id string, price float64) error
	PurgeRoute(ctx context.Context, routeID string) (int64, error)
}

type seatService struct {
	repo repository.SeatRepository
	cfg  *config.Config
}

func NewSeatService(repo repository.SeatRepository, cfg *config.Config) SeatService {
	return &seatService{
		repo: repo,
		cfg:  cfg,
	}
}

// InitializeSlot seeds the fixed bus layout into a (route, departureTime)
// slot. Safe to re-run: layout geometry is refreshed, admin-owned seat state
// survives.
func (s *seatService) InitializeSlot(ctx context.Context, routeID, departureTime string, priceUpper, priceLower float64) (*InitializeResult, error) {
	if routeID == "" || departureTime == "" {
		return nil, apperrors.InvalidInput("Route ID and departure time are required")
	}
	if priceUpper <= 0 {
		priceUpper = DefaultBasePriceUpper
	}
	if priceLower <= 0 {
		priceLower = DefaultBasePriceLower
	}

	result := &InitializeResult{
		RouteID:       routeID,
		DepartureTime: departureTime,
		BlockedSeats:  []string{},
	}

	for _, pos := range model.DefaultBusLayout.Positions() {
		price := priceUpper
		if pos.Deck == model.DeckLower {
			price = priceLower
		}

		seat := &model.Seat{
			RouteID:       routeID,
			DepartureTime: departureTime,
			SeatID:        pos.SeatID,
			Deck:          pos.Deck,
			Row:           pos.Row,
			Column:        pos.Column,
			BasePrice:     price,
			CurrentPrice:  price,
			Status:        model.SeatAvailable,
		}
		if pos.Blocked {
			seat.Status = model.SeatBlocked
			seat.IsBlocked = true
			seat.BlockedReason = model.DefaultBlockedReason
			result.BlockedSeats = append(result.BlockedSeats, pos.SeatID)
		}

		if err := s.repo.UpsertPosition(ctx, seat); err != nil {
			s.cfg.Log.Error("Failed to seed seat",
				"route_id", routeID,
				"departure_time", departureTime,
				"seat_id", pos.SeatID,
				"error", err,
			)
			return nil, apperrors.Internal("Failed to initialize seat inventory", err)
		}
		result.SeatsWritten++
	}

	s.cfg.Log.Info("Seat inventory initialized",
		"route_id", routeID,
		"departure_time", departureTime,
		"seats_written", result.SeatsWritten,
		"blocked", len(result.BlockedSeats),
	)
	return result, nil
}

func (s *seatService) ListByRoute(ctx context.Context, routeID string) ([]*model.Seat, error) {
	if routeID == "" {
		return nil, apperrors.InvalidInput("Route ID cannot be empty")
	}

	seats, err := s.repo.FindByRoute(ctx, routeID)
	if err != nil {
		s.cfg.Log.Error("Failed to list seats by route", "route_id", routeID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve seats", err)
	}
	if seats == nil {
		seats = []*model.Seat{}
	}
	return seats, nil
}

func (s *seatService) ListBySlot(ctx context.Context, routeID, departureTime string) ([]*model.Seat, error) {
	if routeID == "" || departureTime == "" {
		return nil, apperrors.InvalidInput("Route ID and departure time are required")
	}

	seats, err := s.repo.FindBySlot(ctx, routeID, departureTime)
	if err != nil {
		s.cfg.Log.Error("Failed to list seats by slot",
			"route_id", routeID,
			"departure_time", departureTime,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve seats", err)
	}
	if seats == nil {
		seats = []*model.Seat{}
	}
	return seats, nil
}

func (s *seatService) Block(ctx context.Context, id, reason string, until *time.Time) error {
	if id == "" {
		return apperrors.InvalidInput("Seat ID cannot be empty")
	}
	reason = sanitizer.TrimAndNormalize(reason)
	if reason == "" {
		reason = "Blocked by admin"
	}
	if until != nil && until.Before(time.Now()) {
		return apperrors.InvalidInput("Blocked-until must be in the future")
	}

	if err := s.repo.SetBlocked(ctx, id, true, reason, until); err != nil {
		return s.mapSeatError(err, id, "block seat")
	}

	s.cfg.Log.Info("Seat blocked", "id", id, "reason", reason)
	return nil
}

func (s *seatService) Unblock(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Seat ID cannot be empty")
	}

	if err := s.repo.SetBlocked(ctx, id, false, "", nil); err != nil {
		return s.mapSeatError(err, id, "unblock seat")
	}

	s.cfg.Log.Info("Seat unblocked", "id", id)
	return nil
}

// BulkBlock blocks or prepares maintenance holds on many seats of one slot.
// Unknown seat IDs are skipped rather than failing the batch; the result
// reports how many documents were actually modified.
func (s *seatService) BulkBlock(ctx context.Context, routeID, departureTime string, seatIDs []string, reason string, until *time.Time) (*BulkBlockResult, error) {
	if routeID == "" || departureTime == "" {
		return nil, apperrors.InvalidInput("Route ID and departure time are required")
	}
	if len(seatIDs) == 0 {
		return nil, apperrors.InvalidInput("At least one seat ID is required")
	}
	for i, id := range seatIDs {
		seatIDs[i] = sanitizer.NormalizeSeatID(id)
	}
	reason = sanitizer.TrimAndNormalize(reason)
	if reason == "" {
		reason = "Blocked by admin"
	}

	modified, err := s.repo.SetBlockedBySeatIDs(ctx, routeID, departureTime, seatIDs, true, reason, until)
	if err != nil {
		s.cfg.Log.Error("Failed to bulk block seats",
			"route_id", routeID,
			"departure_time", departureTime,
			"requested", len(seatIDs),
			"error", err,
		)
		return nil, apperrors.Internal("Failed to block seats", err)
	}

	s.cfg.Log.Info("Seats bulk blocked",
		"route_id", routeID,
		"departure_time", departureTime,
		"requested", len(seatIDs),
		"modified", modified,
	)
	return &BulkBlockResult{Requested: len(seatIDs), Modified: modified}, nil
}

func (s *seatService) SetPrice(ctx context.Context, id string, price float64) error {
	if id == "" {
		return apperrors.InvalidInput("Seat ID cannot be empty")
	}
	if price <= 0 {
		return apperrors.InvalidInput("Seat price must be positive")
	}

	if err := s.repo.SetPrice(ctx, id, price); err != nil {
		return s.mapSeatError(err, id, "set seat price")
	}

	s.cfg.Log.Info("Seat price updated", "id", id, "price", price)
	return nil
}

// PurgeRoute removes the entire seat inventory of a route, every departure
// time included. For retiring a deactivated route; re-seeding afterwards
// starts from layout defaults.
func (s *seatService) PurgeRoute(ctx context.Context, routeID string) (int64, error) {
	if routeID == "" {
		return 0, apperrors.InvalidInput("Route ID cannot be empty")
	}

	deleted, err := s.repo.DeleteByRoute(ctx, routeID)
	if err != nil {
		s.cfg.Log.Error("Failed to purge seat inventory", "route_id", routeID, "error", err)
		return 0, apperrors.Internal("Failed to purge seat inventory", err)
	}

	s.cfg.Log.Info("Seat inventory purged", "route_id", routeID, "deleted", deleted)
	return deleted, nil
}

func (s *seatService) mapSeatError(err error, id, op string) error {
	if errors.Is(err, seatserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Seat", id)
	}
	if errors.Is(err, seatserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid seat ID format")
	}
	s.cfg.Log.Error("Failed to "+op, "id", id, "error", err)
	return apperrors.Internal("Failed to update seat", err)
}
