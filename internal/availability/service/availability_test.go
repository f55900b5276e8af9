package service

import (
	"context"
	"testing"
	"time"

	bookingerrors "busbook/internal/bookings/errors"
	bookingrepo "busbook/internal/bookings/repository"
	routeserrors "busbook/internal/routes/errors"
	seatserrors "busbook/internal/seats/errors"
	"busbook/pkg/config"
	mongotx "busbook/pkg/db/mongo"
	apperrors "busbook/pkg/errors"
	"busbook/pkg/logger"
	"busbook/pkg/model"
)

type mockBookingRepository struct {
	findPaidForSlotFunc func(ctx context.Context, destinationCity, departureTime string, dayStart, dayEnd time.Time) ([]*model.Booking, error)
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	return nil, bookingerrors.ErrNotFound
}

func (m *mockBookingRepository) FindByTrackingCode(ctx context.Context, code string) (*model.Booking, error) {
	return nil, bookingerrors.ErrNotFound
}

func (m *mockBookingRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepository) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

func (m *mockBookingRepository) FindPaidForSlot(ctx context.Context, destinationCity, departureTime string, dayStart, dayEnd time.Time) ([]*model.Booking, error) {
	if m.findPaidForSlotFunc != nil {
		return m.findPaidForSlotFunc(ctx, destinationCity, departureTime, dayStart, dayEnd)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) UpdateSeats(ctx context.Context, id string, seats []string, totalAmount float64) error {
	return nil
}

func (m *mockBookingRepository) UpdateProof(ctx context.Context, id string, update *bookingrepo.ProofUpdate) error {
	return nil
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id string, status model.PaymentStatus) error {
	return nil
}

func (m *mockBookingRepository) Delete(ctx context.Context, id string) error {
	return nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return nil
}

type mockSeatRepository struct {
	findBySlotFunc func(ctx context.Context, routeID, departureTime string) ([]*model.Seat, error)
}

func (m *mockSeatRepository) UpsertPosition(ctx context.Context, seat *model.Seat) error { return nil }

func (m *mockSeatRepository) FindByID(ctx context.Context, id string) (*model.Seat, error) {
	return nil, seatserrors.ErrNotFound
}

func (m *mockSeatRepository) FindBySlot(ctx context.Context, routeID, departureTime string) ([]*model.Seat, error) {
	if m.findBySlotFunc != nil {
		return m.findBySlotFunc(ctx, routeID, departureTime)
	}
	return []*model.Seat{}, nil
}

func (m *mockSeatRepository) FindByRoute(ctx context.Context, routeID string) ([]*model.Seat, error) {
	return nil, nil
}

func (m *mockSeatRepository) SetBlocked(ctx context.Context, id string, blocked bool, reason string, until *time.Time) error {
	return nil
}

func (m *mockSeatRepository) SetBlockedBySeatIDs(ctx context.Context, routeID, departureTime string, seatIDs []string, blocked bool, reason string, until *time.Time) (int64, error) {
	return 0, nil
}

func (m *mockSeatRepository) SetPrice(ctx context.Context, id string, price float64) error {
	return nil
}

func (m *mockSeatRepository) DeleteByRoute(ctx context.Context, routeID string) (int64, error) {
	return 0, nil
}

type mockRouteRepository struct {
	findByIDFunc           func(ctx context.Context, id string) (*model.Route, error)
	findActiveByCitiesFunc func(ctx context.Context, departure, destination string) (*model.Route, error)
}

func (m *mockRouteRepository) Create(ctx context.Context, route *model.Route) error { return nil }

func (m *mockRouteRepository) FindByID(ctx context.Context, id string) (*model.Route, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, routeserrors.ErrNotFound
}

func (m *mockRouteRepository) FindActive(ctx context.Context) ([]*model.Route, error) {
	return nil, nil
}

func (m *mockRouteRepository) FindActiveByCities(ctx context.Context, departure, destination string) (*model.Route, error) {
	if m.findActiveByCitiesFunc != nil {
		return m.findActiveByCitiesFunc(ctx, departure, destination)
	}
	return nil, routeserrors.ErrNotFound
}

func (m *mockRouteRepository) ReplaceTimes(ctx context.Context, id string, times []string) error {
	return nil
}

func (m *mockRouteRepository) Deactivate(ctx context.Context, id string) error { return nil }

type mockPricingService struct {
	resolvePriceFunc func(ctx context.Context, routeID, departureTime string, deck model.Deck, travelDate time.Time, seatPrice float64) (float64, error)
}

func (m *mockPricingService) AddOverride(ctx context.Context, rp *model.RoutePrice) error {
	return nil
}

func (m *mockPricingService) ListByRoute(ctx context.Context, routeID string) ([]*model.RoutePrice, error) {
	return nil, nil
}

func (m *mockPricingService) RemoveOverride(ctx context.Context, id string) error { return nil }

func (m *mockPricingService) ResolvePrice(ctx context.Context, routeID, departureTime string, deck model.Deck, travelDate time.Time, seatPrice float64) (float64, error) {
	if m.resolvePriceFunc != nil {
		return m.resolvePriceFunc(ctx, routeID, departureTime, deck, travelDate, seatPrice)
	}
	return seatPrice, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

func travelDate() time.Time {
	return time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
}

func TestOccupiedSeats_UnionOfPaidBookings(t *testing.T) {
	mockBookings := &mockBookingRepository{
		findPaidForSlotFunc: func(ctx context.Context, destinationCity, departureTime string, dayStart, dayEnd time.Time) ([]*model.Booking, error) {
			if destinationCity != "Nagpur" {
				t.Errorf("expected normalized destination Nagpur, got %q", destinationCity)
			}
			if !dayEnd.Equal(dayStart.Add(24 * time.Hour)) {
				t.Errorf("expected one-day window, got %s to %s", dayStart, dayEnd)
			}
			return []*model.Booking{
				{SelectedSeats: []string{"U-A1", "U-B1"}, PaymentStatus: model.StatusPaid},
				{SelectedSeats: []string{"u-b1", "L-C2"}, PaymentStatus: model.StatusPaid},
			}, nil
		},
	}

	svc := NewAvailabilityService(mockBookings, &mockSeatRepository{}, &mockRouteRepository{}, &mockPricingService{}, testConfig())

	occupied, err := svc.OccupiedSeats(context.Background(), "nagpur", "06:30 AM", travelDate())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"L-C2", "U-A1", "U-B1"}
	if len(occupied) != len(want) {
		t.Fatalf("expected %v, got %v", want, occupied)
	}
	for i := range want {
		if occupied[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], occupied[i])
		}
	}
}

func TestOccupiedSeats_RequiresParameters(t *testing.T) {
	svc := NewAvailabilityService(&mockBookingRepository{}, &mockSeatRepository{}, &mockRouteRepository{}, &mockPricingService{}, testConfig())

	_, err := svc.OccupiedSeats(context.Background(), "", "06:30 AM", travelDate())
	if err == nil {
		t.Fatal("expected error for missing destination")
	}

	_, err = svc.OccupiedSeats(context.Background(), "Nagpur", "06:30 AM", time.Time{})
	if err == nil {
		t.Fatal("expected error for zero travel date")
	}
}

func TestSeatMap_MergesOccupancyAndPrices(t *testing.T) {
	route := &model.Route{ID: "route1", Departure: "Pune", Destination: "Nagpur", IsActive: true}

	mockRoutes := &mockRouteRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Route, error) {
			return route, nil
		},
	}
	mockSeats := &mockSeatRepository{
		findBySlotFunc: func(ctx context.Context, routeID, departureTime string) ([]*model.Seat, error) {
			return []*model.Seat{
				{SeatID: "U-A1", Deck: model.DeckUpper, Row: 1, Column: "A", Status: model.SeatAvailable, CurrentPrice: 599},
				{SeatID: "U-B1", Deck: model.DeckUpper, Row: 1, Column: "B", Status: model.SeatAvailable, CurrentPrice: 599},
				{SeatID: "L-A1", Deck: model.DeckLower, Row: 1, Column: "A", Status: model.SeatBlocked, IsBlocked: true, BlockedReason: "repairs", CurrentPrice: 699},
			}, nil
		},
	}
	mockBookings := &mockBookingRepository{
		findPaidForSlotFunc: func(ctx context.Context, destinationCity, departureTime string, dayStart, dayEnd time.Time) ([]*model.Booking, error) {
			return []*model.Booking{
				{SelectedSeats: []string{"U-B1"}, PaymentStatus: model.StatusPaid},
			}, nil
		},
	}
	mockPricing := &mockPricingService{
		resolvePriceFunc: func(ctx context.Context, routeID, departureTime string, deck model.Deck, d time.Time, seatPrice float64) (float64, error) {
			return seatPrice * 2, nil
		},
	}

	svc := NewAvailabilityService(mockBookings, mockSeats, mockRoutes, mockPricing, testConfig())

	seatMap, err := svc.SeatMap(context.Background(), "route1", "06:30 AM", travelDate())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if seatMap.TotalSeats != 3 {
		t.Errorf("expected 3 seats, got %d", seatMap.TotalSeats)
	}

	byID := make(map[string]model.SeatMapEntry)
	for _, entry := range seatMap.Seats {
		byID[entry.SeatID] = entry
	}

	if byID["U-A1"].Status != model.SeatAvailable {
		t.Errorf("U-A1 should stay available, got %s", byID["U-A1"].Status)
	}
	if byID["U-B1"].Status != model.SeatOccupied {
		t.Errorf("U-B1 should be occupied, got %s", byID["U-B1"].Status)
	}
	if byID["L-A1"].Status != model.SeatBlocked {
		t.Errorf("L-A1 should stay blocked, got %s", byID["L-A1"].Status)
	}
	if byID["U-A1"].Price != 1198 {
		t.Errorf("expected resolved price 1198, got %.2f", byID["U-A1"].Price)
	}
}

func TestSeatMap_DegradesToStoredPriceOnPricingFailure(t *testing.T) {
	mockRoutes := &mockRouteRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Route, error) {
			return &model.Route{ID: "route1", Destination: "Nagpur"}, nil
		},
	}
	mockSeats := &mockSeatRepository{
		findBySlotFunc: func(ctx context.Context, routeID, departureTime string) ([]*model.Seat, error) {
			return []*model.Seat{
				{SeatID: "U-A1", Deck: model.DeckUpper, Row: 1, Column: "A", Status: model.SeatAvailable, CurrentPrice: 599},
			}, nil
		},
	}
	mockPricing := &mockPricingService{
		resolvePriceFunc: func(ctx context.Context, routeID, departureTime string, deck model.Deck, d time.Time, seatPrice float64) (float64, error) {
			return 0, apperrors.Internal("pricing store down", nil)
		},
	}

	svc := NewAvailabilityService(&mockBookingRepository{}, mockSeats, mockRoutes, mockPricing, testConfig())

	seatMap, err := svc.SeatMap(context.Background(), "route1", "06:30 AM", travelDate())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seatMap.Seats[0].Price != 599 {
		t.Errorf("expected stored price 599, got %.2f", seatMap.Seats[0].Price)
	}
}

func TestSeatMapForTrip_UnknownRoute(t *testing.T) {
	svc := NewAvailabilityService(&mockBookingRepository{}, &mockSeatRepository{}, &mockRouteRepository{}, &mockPricingService{}, testConfig())

	_, err := svc.SeatMapForTrip(context.Background(), "Pune", "Leh", "06:30 AM", travelDate())
	if err == nil {
		t.Fatal("expected not found error")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", apperrors.AsAppError(err).Code)
	}
}
