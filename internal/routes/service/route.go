package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	routeserrors "busbook/internal/routes/errors"
	"busbook/internal/routes/repository"
	"busbook/internal/routes/validator"
	"busbook/pkg/config"
	apperrors "busbook/pkg/errors"
	"busbook/pkg/model"
	"busbook/pkg/sanitizer"
)

type RouteService interface {
	Catalog(ctx context.Context) (*model.RouteCatalog, error)
	GetByID(ctx context.Context, id string) (*model.Route, error)
	Add(ctx context.Context, route *model.Route) error
	UpdateTimes(ctx context.Context, id string, times []string) error
	Deactivate(ctx context.Context, id string) error
}

type routeService struct {
	repo      repository.RouteRepository
	validator *validator.RouteValidator
	cfg       *config.Config
}

func NewRouteService(
	repo repository.RouteRepository,
	validator *validator.RouteValidator,
	cfg *config.Config,
) RouteService {
	return &routeService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

// Catalog returns the active routes together with the distinct city lists
// the public search form offers.
func (s *routeService) Catalog(ctx context.Context) (*model.RouteCatalog, error) {
	routes, err := s.repo.FindActive(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list active routes", "error", err)
		return nil, apperrors.Internal("Failed to retrieve routes", err)
	}

	departureSet := make(map[string]struct{})
	destinationSet := make(map[string]struct{})
	for _, r := range routes {
		departureSet[r.Departure] = struct{}{}
		destinationSet[r.Destination] = struct{}{}
	}

	catalog := &model.RouteCatalog{
		Routes:            routes,
		DepartureCities:   sortedKeys(departureSet),
		DestinationCities: sortedKeys(destinationSet),
	}
	if catalog.Routes == nil {
		catalog.Routes = []*model.Route{}
	}

	return catalog, nil
}

func (s *routeService) GetByID(ctx context.Context, id string) (*model.Route, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Route ID cannot be empty")
	}

	route, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, routeserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Route", id)
		}
		if errors.Is(err, routeserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid route ID format")
		}
		s.cfg.Log.Error("Failed to get route by ID", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve route", err)
	}

	return route, nil
}

func (s *routeService) Add(ctx context.Context, route *model.Route) error {
	s.sanitize(route)

	if err := s.validator.Validate(route); err != nil {
		s.cfg.Log.Warn("Route validation failed",
			"departure", route.Departure,
			"destination", route.Destination,
			"error", err,
		)
		return apperrors.Validation("Route validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if strings.EqualFold(route.Departure, route.Destination) {
		return apperrors.InvalidInput("Departure and destination cities must differ")
	}

	if err := s.repo.Create(ctx, route); err != nil {
		if errors.Is(err, routeserrors.ErrDuplicate) {
			return apperrors.Conflict("An active route between these cities already exists")
		}
		s.cfg.Log.Error("Failed to create route",
			"departure", route.Departure,
			"destination", route.Destination,
			"error", err,
		)
		return apperrors.Internal("Failed to create route", err)
	}

	s.cfg.Log.Info("Route created successfully",
		"id", route.ID,
		"departure", route.Departure,
		"destination", route.Destination,
		"times", len(route.AvailableTimes),
	)
	return nil
}

// UpdateTimes replaces the full departure-time list. Bookings keep the
// time label they were made with, so removals never touch existing bookings.
func (s *routeService) UpdateTimes(ctx context.Context, id string, times []string) error {
	if id == "" {
		return apperrors.InvalidInput("Route ID cannot be empty")
	}

	for i, t := range times {
		times[i] = sanitizer.TrimAndNormalize(t)
	}
	if err := s.validator.ValidateTimes(times); err != nil {
		return apperrors.Validation("Departure times validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.ReplaceTimes(ctx, id, times); err != nil {
		if errors.Is(err, routeserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Route", id)
		}
		if errors.Is(err, routeserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid route ID format")
		}
		s.cfg.Log.Error("Failed to update route times", "id", id, "error", err)
		return apperrors.Internal("Failed to update route times", err)
	}

	s.cfg.Log.Info("Route times updated", "id", id, "times", len(times))
	return nil
}

func (s *routeService) Deactivate(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Route ID cannot be empty")
	}

	if err := s.repo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, routeserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Route", id)
		}
		if errors.Is(err, routeserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid route ID format")
		}
		s.cfg.Log.Error("Failed to deactivate route", "id", id, "error", err)
		return apperrors.Internal("Failed to deactivate route", err)
	}

	s.cfg.Log.Info("Route deactivated", "id", id)
	return nil
}

func (s *routeService) sanitize(route *model.Route) {
	route.Departure = sanitizer.NormalizeCity(route.Departure)
	route.Destination = sanitizer.NormalizeCity(route.Destination)
	for i, t := range route.AvailableTimes {
		route.AvailableTimes[i] = sanitizer.TrimAndNormalize(t)
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
