package service

import (
	"context"
	"errors"
	"math"
	"time"

	pricingerrors "busbook/internal/pricing/errors"
	"busbook/internal/pricing/repository"
	"busbook/pkg/config"
	apperrors "busbook/pkg/errors"
	"busbook/pkg/model"

	"github.com/go-playground/validator/v10"
)

type PricingService interface {
	AddOverride(ctx context.Context, rp *model.RoutePrice) error
	ListByRoute(ctx context.Context, routeID string) ([]*model.RoutePrice, error)
	RemoveOverride(ctx context.Context, id string) error
	ResolvePrice(ctx context.Context, routeID, departureTime string, deck model.Deck, travelDate time.Time, seatPrice float64) (float64, error)
}

type pricingService struct {
	repo     repository.RoutePriceRepository
	validate *validator.Validate
	cfg      *config.Config
}

func NewPricingService(repo repository.RoutePriceRepository, cfg *config.Config) PricingService {
	return &pricingService{
		repo:     repo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		cfg:      cfg,
	}
}

func (s *pricingService) AddOverride(ctx context.Context, rp *model.RoutePrice) error {
	if err := s.validate.Struct(rp); err != nil {
		s.cfg.Log.Warn("Route price validation failed",
			"route_id", rp.RouteID,
			"departure_time", rp.DepartureTime,
			"error", err,
		)
		return apperrors.Validation("Route price validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.Create(ctx, rp); err != nil {
		s.cfg.Log.Error("Failed to create route price",
			"route_id", rp.RouteID,
			"departure_time", rp.DepartureTime,
			"error", err,
		)
		return apperrors.Internal("Failed to create route price", err)
	}

	s.cfg.Log.Info("Route price override created",
		"id", rp.ID,
		"route_id", rp.RouteID,
		"departure_time", rp.DepartureTime,
		"effective", rp.EffectiveDate.Format("2006-01-02"),
		"expiry", rp.ExpiryDate.Format("2006-01-02"),
	)
	return nil
}

func (s *pricingService) ListByRoute(ctx context.Context, routeID string) ([]*model.RoutePrice, error) {
	if routeID == "" {
		return nil, apperrors.InvalidInput("Route ID cannot be empty")
	}

	prices, err := s.repo.FindByRoute(ctx, routeID)
	if err != nil {
		s.cfg.Log.Error("Failed to list route prices", "route_id", routeID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve route prices", err)
	}
	if prices == nil {
		prices = []*model.RoutePrice{}
	}
	return prices, nil
}

func (s *pricingService) RemoveOverride(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Route price ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, pricingerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Route price", id)
		}
		if errors.Is(err, pricingerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid route price ID format")
		}
		s.cfg.Log.Error("Failed to delete route price", "id", id, "error", err)
		return apperrors.Internal("Failed to delete route price", err)
	}

	s.cfg.Log.Info("Route price override removed", "id", id)
	return nil
}

// ResolvePrice computes the effective seat price for a travel date. An
// active override whose window covers the date wins over the stored seat
// price; otherwise the stored price stands as-is.
func (s *pricingService) ResolvePrice(ctx context.Context, routeID, departureTime string, deck model.Deck, travelDate time.Time, seatPrice float64) (float64, error) {
	override, err := s.repo.FindActiveForSlot(ctx, routeID, departureTime, travelDate)
	if err != nil {
		s.cfg.Log.Error("Failed to resolve route price override",
			"route_id", routeID,
			"departure_time", departureTime,
			"error", err,
		)
		return 0, apperrors.Internal("Failed to resolve price", err)
	}
	// The repository filter already bounds the window; re-check here so a
	// stale or hand-edited document can never price outside its dates.
	if override == nil || !override.Covers(travelDate) {
		return seatPrice, nil
	}

	price := override.BasePriceFor(deck) * override.SurgeMultiplier
	return math.Round(price*100) / 100, nil
}
