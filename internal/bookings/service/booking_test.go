package service

import (
	"context"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"

	bookingerrors "busbook/internal/bookings/errors"
	"busbook/internal/bookings/repository"
	"busbook/internal/bookings/validator"
	routeserrors "busbook/internal/routes/errors"
	"busbook/pkg/assets"
	"busbook/pkg/config"
	mongotx "busbook/pkg/db/mongo"
	apperrors "busbook/pkg/errors"
	"busbook/pkg/logger"
	"busbook/pkg/model"
	"busbook/pkg/sealer"

	"go.mongodb.org/mongo-driver/mongo"
)

type mockBookingRepository struct {
	createFunc       func(ctx context.Context, booking *model.Booking) error
	findByIDFunc     func(ctx context.Context, id string) (*model.Booking, error)
	findByCodeFunc   func(ctx context.Context, code string) (*model.Booking, error)
	updateSeatsFunc  func(ctx context.Context, id string, seats []string, totalAmount float64) error
	updateProofFunc  func(ctx context.Context, id string, update *repository.ProofUpdate) error
	updateStatusFunc func(ctx context.Context, id string, status model.PaymentStatus) error
	deleteFunc       func(ctx context.Context, id string) error

	transactions int
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	booking.ID = "64f1b2a3c4d5e6f708192a3b"
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, bookingerrors.ErrNotFound
}

func (m *mockBookingRepository) FindByTrackingCode(ctx context.Context, code string) (*model.Booking, error) {
	if m.findByCodeFunc != nil {
		return m.findByCodeFunc(ctx, code)
	}
	return nil, bookingerrors.ErrNotFound
}

func (m *mockBookingRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

func (m *mockBookingRepository) FindPaidForSlot(ctx context.Context, destinationCity, departureTime string, dayStart, dayEnd time.Time) ([]*model.Booking, error) {
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) UpdateSeats(ctx context.Context, id string, seats []string, totalAmount float64) error {
	if m.updateSeatsFunc != nil {
		return m.updateSeatsFunc(ctx, id, seats, totalAmount)
	}
	return nil
}

func (m *mockBookingRepository) UpdateProof(ctx context.Context, id string, update *repository.ProofUpdate) error {
	if m.updateProofFunc != nil {
		return m.updateProofFunc(ctx, id, update)
	}
	return nil
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id string, status model.PaymentStatus) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *mockBookingRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	m.transactions++
	return fn(mongo.NewSessionContext(ctx, nil))
}

type mockRouteRepository struct {
	findActiveByCitiesFunc func(ctx context.Context, departure, destination string) (*model.Route, error)
}

func (m *mockRouteRepository) Create(ctx context.Context, route *model.Route) error { return nil }

func (m *mockRouteRepository) FindByID(ctx context.Context, id string) (*model.Route, error) {
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

type mockAvailabilityService struct {
	seatMapForTripFunc func(ctx context.Context, departureCity, destinationCity, departureTime string, travelDate time.Time) (*model.SeatMap, error)
}

func (m *mockAvailabilityService) OccupiedSeats(ctx context.Context, destinationCity, departureTime string, travelDate time.Time) ([]string, error) {
	return []string{}, nil
}

func (m *mockAvailabilityService) SeatMap(ctx context.Context, routeID, departureTime string, travelDate time.Time) (*model.SeatMap, error) {
	return nil, apperrors.NotFound("seat map")
}

func (m *mockAvailabilityService) SeatMapForTrip(ctx context.Context, departureCity, destinationCity, departureTime string, travelDate time.Time) (*model.SeatMap, error) {
	if m.seatMapForTripFunc != nil {
		return m.seatMapForTripFunc(ctx, departureCity, destinationCity, departureTime, travelDate)
	}
	return &model.SeatMap{Seats: []model.SeatMapEntry{}}, nil
}

type mockAssetStore struct {
	uploadFunc func(ctx context.Context, data io.Reader, name string) (*assets.UploadResult, error)
	deleteFunc func(ctx context.Context, publicID string) error
	deleted    []string
}

func (m *mockAssetStore) Upload(ctx context.Context, data io.Reader, name string) (*assets.UploadResult, error) {
	if m.uploadFunc != nil {
		return m.uploadFunc(ctx, data, name)
	}
	return &assets.UploadResult{URL: "https://cdn.example/proof.png", PublicID: "payment-proofs/abc"}, nil
}

func (m *mockAssetStore) Delete(ctx context.Context, publicID string) error {
	m.deleted = append(m.deleted, publicID)
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, publicID)
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
		ReadTimeout:   5 * time.Second,
		WriteTimeout:  5 * time.Second,
		ProviderName:  "Shree Ram Travels",
		ProviderPhone: "9876543210",
		ProviderEmail: "support@shreeramtravels.example",
	}
}

func testSealer(t *testing.T) *sealer.Sealer {
	t.Helper()
	s, err := sealer.New(config.DefaultSessionSealKey)
	if err != nil {
		t.Fatalf("failed to build sealer: %v", err)
	}
	return s
}

func testValidator(t *testing.T) *validator.BookingValidator {
	t.Helper()
	bv, err := validator.NewBookingValidator()
	if err != nil {
		t.Fatalf("failed to build validator: %v", err)
	}
	return bv
}

type serviceDeps struct {
	repo         *mockBookingRepository
	routes       *mockRouteRepository
	availability *mockAvailabilityService
	store        *mockAssetStore
	sealer       *sealer.Sealer
}

func newTestService(t *testing.T, deps *serviceDeps) BookingService {
	t.Helper()
	if deps.repo == nil {
		deps.repo = &mockBookingRepository{}
	}
	if deps.routes == nil {
		deps.routes = &mockRouteRepository{}
	}
	if deps.availability == nil {
		deps.availability = &mockAvailabilityService{}
	}
	if deps.store == nil {
		deps.store = &mockAssetStore{}
	}
	if deps.sealer == nil {
		deps.sealer = testSealer(t)
	}
	return NewBookingService(
		deps.repo, deps.routes, deps.availability,
		testValidator(t), deps.sealer, deps.store,
		nil, nil, testConfig(),
	)
}

func activeRoute() *model.Route {
	return &model.Route{
		ID:             "64f1b2a3c4d5e6f708192a3b",
		Departure:      "Pune",
		Destination:    "Nagpur",
		AvailableTimes: []string{"06:30 AM", "09:00 PM"},
		IsActive:       true,
	}
}

func initiateReq() *InitiateRequest {
	return &InitiateRequest{
		DepartureCity:   "Pune",
		DestinationCity: "Nagpur",
		DepartureDate:   time.Now().Add(72 * time.Hour),
		DepartureTime:   "06:30 AM",
		Passengers:      2,
	}
}

var trackingCodeRegex = regexp.MustCompile(`^[0-9A-F]{8}$`)

func TestInitiate_MintsCodeAndCredential(t *testing.T) {
	deps := &serviceDeps{
		routes: &mockRouteRepository{
			findActiveByCitiesFunc: func(ctx context.Context, departure, destination string) (*model.Route, error) {
				return activeRoute(), nil
			},
		},
	}
	svc := newTestService(t, deps)

	result, err := svc.Initiate(context.Background(), initiateReq())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !trackingCodeRegex.MatchString(result.Booking.TrackingCode) {
		t.Errorf("tracking code %q is not 8 upper-case hex chars", result.Booking.TrackingCode)
	}
	if result.Booking.PaymentStatus != model.StatusPending {
		t.Errorf("expected Pending, got %s", result.Booking.PaymentStatus)
	}
	if result.SessionToken == "" {
		t.Fatal("expected a session token")
	}

	code, _, err := deps.sealer.Open(result.SessionToken)
	if err != nil {
		t.Fatalf("session token does not open: %v", err)
	}
	if code != result.Booking.TrackingCode {
		t.Errorf("token bound to %q, booking has %q", code, result.Booking.TrackingCode)
	}
}

func TestInitiate_RetriesOnTrackingCollision(t *testing.T) {
	attempts := 0
	deps := &serviceDeps{
		routes: &mockRouteRepository{
			findActiveByCitiesFunc: func(ctx context.Context, departure, destination string) (*model.Route, error) {
				return activeRoute(), nil
			},
		},
		repo: &mockBookingRepository{
			createFunc: func(ctx context.Context, booking *model.Booking) error {
				attempts++
				if attempts < 3 {
					return bookingerrors.ErrDuplicateTrackingCode
				}
				booking.ID = "64f1b2a3c4d5e6f708192a3b"
				return nil
			},
		},
	}
	svc := newTestService(t, deps)

	result, err := svc.Initiate(context.Background(), initiateReq())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 create attempts, got %d", attempts)
	}
	if result.Booking.ID == "" {
		t.Error("expected booking ID after successful create")
	}
}

func TestInitiate_UnknownRoute(t *testing.T) {
	svc := newTestService(t, &serviceDeps{})

	_, err := svc.Initiate(context.Background(), initiateReq())
	if err == nil {
		t.Fatal("expected not found error")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", apperrors.AsAppError(err).Code)
	}
}

func TestInitiate_TimeNotOffered(t *testing.T) {
	deps := &serviceDeps{
		routes: &mockRouteRepository{
			findActiveByCitiesFunc: func(ctx context.Context, departure, destination string) (*model.Route, error) {
				return activeRoute(), nil
			},
		},
	}
	svc := newTestService(t, deps)

	req := initiateReq()
	req.DepartureTime = "11:11 AM"
	_, err := svc.Initiate(context.Background(), req)
	if err == nil {
		t.Fatal("expected error for unoffered time")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", apperrors.AsAppError(err).Code)
	}
}

func TestInitiate_PastTravelDate(t *testing.T) {
	svc := newTestService(t, &serviceDeps{})

	req := initiateReq()
	req.DepartureDate = time.Now().Add(-72 * time.Hour)
	_, err := svc.Initiate(context.Background(), req)
	if err == nil {
		t.Fatal("expected error for past travel date")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", apperrors.AsAppError(err).Code)
	}
}

// pendingBooking builds a stored booking with a valid session credential.
func pendingBooking(t *testing.T, s *sealer.Sealer) (*model.Booking, string) {
	t.Helper()
	token, err := s.Seal("A1B2C3D4", "nonce-1")
	if err != nil {
		t.Fatalf("failed to seal token: %v", err)
	}
	return &model.Booking{
		ID:              "64f1b2a3c4d5e6f708192a3b",
		TrackingCode:    "A1B2C3D4",
		SessionToken:    token,
		DepartureCity:   "Pune",
		DestinationCity: "Nagpur",
		DepartureDate:   time.Now().Add(72 * time.Hour),
		DepartureTime:   "06:30 AM",
		Passengers:      2,
		SelectedSeats:   []string{},
		PaymentStatus:   model.StatusPending,
	}, token
}

func tripSeatMap() *model.SeatMap {
	return &model.SeatMap{
		RouteID:       "64f1b2a3c4d5e6f708192a3b",
		DepartureTime: "06:30 AM",
		Seats: []model.SeatMapEntry{
			{SeatID: "U-A1", Deck: model.DeckUpper, Status: model.SeatAvailable, Price: 599},
			{SeatID: "U-B1", Deck: model.DeckUpper, Status: model.SeatAvailable, Price: 599},
			{SeatID: "L-A1", Deck: model.DeckLower, Status: model.SeatOccupied, Price: 699},
			{SeatID: "L-B1", Deck: model.DeckLower, Status: model.SeatBlocked, Price: 699},
		},
	}
}

func TestSelectSeats_ComputesServerTotal(t *testing.T) {
	s := testSealer(t)
	booking, token := pendingBooking(t, s)

	var savedSeats []string
	var savedTotal float64
	deps := &serviceDeps{
		sealer: s,
		repo: &mockBookingRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
				return booking, nil
			},
			updateSeatsFunc: func(ctx context.Context, id string, seats []string, totalAmount float64) error {
				savedSeats = seats
				savedTotal = totalAmount
				return nil
			},
		},
		availability: &mockAvailabilityService{
			seatMapForTripFunc: func(ctx context.Context, dep, dest, depTime string, d time.Time) (*model.SeatMap, error) {
				return tripSeatMap(), nil
			},
		},
	}
	svc := newTestService(t, deps)

	updated, err := svc.SelectSeats(context.Background(), booking.ID, token, []string{"u-a1", "U-B1"}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if savedTotal != 1198 {
		t.Errorf("expected computed total 1198, got %.2f", savedTotal)
	}
	if len(savedSeats) != 2 || savedSeats[0] != "U-A1" {
		t.Errorf("expected normalized seats [U-A1 U-B1], got %v", savedSeats)
	}
	if updated.TotalAmount != 1198 {
		t.Errorf("expected booking total 1198, got %.2f", updated.TotalAmount)
	}
}

func TestSelectSeats_ChecksAndWritesInOneSession(t *testing.T) {
	s := testSealer(t)
	booking, token := pendingBooking(t, s)

	var mapInSession, writeInSession bool
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return booking, nil
		},
		updateSeatsFunc: func(ctx context.Context, id string, seats []string, totalAmount float64) error {
			_, writeInSession = ctx.(mongo.SessionContext)
			return nil
		},
	}
	deps := &serviceDeps{
		sealer: s,
		repo:   repo,
		availability: &mockAvailabilityService{
			seatMapForTripFunc: func(ctx context.Context, dep, dest, depTime string, d time.Time) (*model.SeatMap, error) {
				_, mapInSession = ctx.(mongo.SessionContext)
				return tripSeatMap(), nil
			},
		},
	}
	svc := newTestService(t, deps)

	if _, err := svc.SelectSeats(context.Background(), booking.ID, token, []string{"U-A1", "U-B1"}, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.transactions != 1 {
		t.Errorf("expected 1 transaction, got %d", repo.transactions)
	}
	if !mapInSession {
		t.Error("expected the availability check to run under the transaction session")
	}
	if !writeInSession {
		t.Error("expected the seat write to run under the transaction session")
	}
}

func TestSelectSeats_ClientTotalMismatch(t *testing.T) {
	s := testSealer(t)
	booking, token := pendingBooking(t, s)

	deps := &serviceDeps{
		sealer: s,
		repo: &mockBookingRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
				return booking, nil
			},
		},
		availability: &mockAvailabilityService{
			seatMapForTripFunc: func(ctx context.Context, dep, dest, depTime string, d time.Time) (*model.SeatMap, error) {
				return tripSeatMap(), nil
			},
		},
	}
	svc := newTestService(t, deps)

	_, err := svc.SelectSeats(context.Background(), booking.ID, token, []string{"U-A1", "U-B1"}, 999)
	if err == nil {
		t.Fatal("expected error for stale client total")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", apperrors.AsAppError(err).Code)
	}
}

func TestSelectSeats_MatchingClientTotalAccepted(t *testing.T) {
	s := testSealer(t)
	booking, token := pendingBooking(t, s)

	deps := &serviceDeps{
		sealer: s,
		repo: &mockBookingRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
				return booking, nil
			},
		},
		availability: &mockAvailabilityService{
			seatMapForTripFunc: func(ctx context.Context, dep, dest, depTime string, d time.Time) (*model.SeatMap, error) {
				return tripSeatMap(), nil
			},
		},
	}
	svc := newTestService(t, deps)

	if _, err := svc.SelectSeats(context.Background(), booking.ID, token, []string{"U-A1", "U-B1"}, 1198); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSelectSeats_WrongCredential(t *testing.T) {
	s := testSealer(t)
	booking, _ := pendingBooking(t, s)

	otherToken, err := s.Seal("FFFFFFFF", "nonce-2")
	if err != nil {
		t.Fatalf("failed to seal token: %v", err)
	}

	deps := &serviceDeps{
		sealer: s,
		repo: &mockBookingRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
				return booking, nil
			},
		},
	}
	svc := newTestService(t, deps)

	for _, token := range []string{"", "garbage", otherToken} {
		_, err := svc.SelectSeats(context.Background(), booking.ID, token, []string{"U-A1", "U-B1"}, 0)
		if err == nil {
			t.Fatalf("token %q: expected forbidden error", token)
		}
		if apperrors.AsAppError(err).Code != apperrors.CodeForbidden {
			t.Errorf("token %q: expected FORBIDDEN, got %s", token, apperrors.AsAppError(err).Code)
		}
	}
}

func TestSelectSeats_UnavailableSeat(t *testing.T) {
	s := testSealer(t)
	booking, token := pendingBooking(t, s)

	deps := &serviceDeps{
		sealer: s,
		repo: &mockBookingRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
				return booking, nil
			},
		},
		availability: &mockAvailabilityService{
			seatMapForTripFunc: func(ctx context.Context, dep, dest, depTime string, d time.Time) (*model.SeatMap, error) {
				return tripSeatMap(), nil
			},
		},
	}
	svc := newTestService(t, deps)

	_, err := svc.SelectSeats(context.Background(), booking.ID, token, []string{"U-A1", "L-A1"}, 0)
	if err == nil {
		t.Fatal("expected conflict for occupied seat")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeConflict {
		t.Errorf("expected CONFLICT, got %s", apperrors.AsAppError(err).Code)
	}
}

func TestSelectSeats_SeatCountMustMatchPassengers(t *testing.T) {
	s := testSealer(t)
	booking, token := pendingBooking(t, s)

	deps := &serviceDeps{
		sealer: s,
		repo: &mockBookingRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
				return booking, nil
			},
		},
	}
	svc := newTestService(t, deps)

	_, err := svc.SelectSeats(context.Background(), booking.ID, token, []string{"U-A1"}, 0)
	if err == nil {
		t.Fatal("expected error for seat count mismatch")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", apperrors.AsAppError(err).Code)
	}
}

func TestSelectSeats_RejectedAfterSubmission(t *testing.T) {
	s := testSealer(t)
	booking, token := pendingBooking(t, s)
	booking.PaymentStatus = model.StatusProcessing

	deps := &serviceDeps{
		sealer: s,
		repo: &mockBookingRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
				return booking, nil
			},
		},
	}
	svc := newTestService(t, deps)

	_, err := svc.SelectSeats(context.Background(), booking.ID, token, []string{"U-A1", "U-B1"}, 0)
	if err == nil {
		t.Fatal("expected conflict after proof submission")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeConflict {
		t.Errorf("expected CONFLICT, got %s", apperrors.AsAppError(err).Code)
	}
}

func validContact() *model.Contact {
	return &model.Contact{
		Name:  "Asha Kulkarni",
		Phone: "98765 43210",
		Email: "Asha@Example.com",
	}
}

func TestSubmitProof_MovesToProcessing(t *testing.T) {
	s := testSealer(t)
	booking, token := pendingBooking(t, s)
	booking.SelectedSeats = []string{"U-A1", "U-B1"}
	booking.TotalAmount = 1198

	var saved *repository.ProofUpdate
	deps := &serviceDeps{
		sealer: s,
		repo: &mockBookingRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
				return booking, nil
			},
			updateProofFunc: func(ctx context.Context, id string, update *repository.ProofUpdate) error {
				saved = update
				return nil
			},
		},
	}
	svc := newTestService(t, deps)

	updated, err := svc.SubmitProof(context.Background(), booking.ID, token, validContact(), strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.PaymentStatus != model.StatusProcessing {
		t.Errorf("expected Processing, got %s", updated.PaymentStatus)
	}
	if saved.CustomerPhone != "9876543210" {
		t.Errorf("expected normalized phone 9876543210, got %q", saved.CustomerPhone)
	}
	if saved.CustomerEmail != "asha@example.com" {
		t.Errorf("expected lower-cased email, got %q", saved.CustomerEmail)
	}
	if saved.ProofURL == "" || saved.ProofAssetID == "" {
		t.Error("expected proof URL and asset ID on the update")
	}
}

func TestSubmitProof_RollsBackUploadOnPersistFailure(t *testing.T) {
	s := testSealer(t)
	booking, token := pendingBooking(t, s)
	booking.SelectedSeats = []string{"U-A1", "U-B1"}

	store := &mockAssetStore{}
	deps := &serviceDeps{
		sealer: s,
		store:  store,
		repo: &mockBookingRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
				return booking, nil
			},
			updateProofFunc: func(ctx context.Context, id string, update *repository.ProofUpdate) error {
				return apperrors.Internal("write failed", nil)
			},
		},
	}
	svc := newTestService(t, deps)

	_, err := svc.SubmitProof(context.Background(), booking.ID, token, validContact(), strings.NewReader("png-bytes"))
	if err == nil {
		t.Fatal("expected error when persistence fails")
	}
	if len(store.deleted) != 1 {
		t.Fatalf("expected the uploaded asset to be destroyed, deleted: %v", store.deleted)
	}
	if store.deleted[0] != "payment-proofs/abc" {
		t.Errorf("unexpected destroyed asset ID %q", store.deleted[0])
	}
}

func TestSubmitProof_RequiresSelectedSeats(t *testing.T) {
	s := testSealer(t)
	booking, token := pendingBooking(t, s)

	deps := &serviceDeps{
		sealer: s,
		repo: &mockBookingRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
				return booking, nil
			},
		},
	}
	svc := newTestService(t, deps)

	_, err := svc.SubmitProof(context.Background(), booking.ID, token, validContact(), strings.NewReader("png-bytes"))
	if err == nil {
		t.Fatal("expected conflict when no seats are selected")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeConflict {
		t.Errorf("expected CONFLICT, got %s", apperrors.AsAppError(err).Code)
	}
}

func TestSubmitProof_SettledBookingRejected(t *testing.T) {
	s := testSealer(t)

	for _, status := range []model.PaymentStatus{model.StatusPaid, model.StatusCancelled} {
		booking, token := pendingBooking(t, s)
		booking.SelectedSeats = []string{"U-A1", "U-B1"}
		booking.PaymentStatus = status

		deps := &serviceDeps{
			sealer: s,
			repo: &mockBookingRepository{
				findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
					return booking, nil
				},
			},
		}
		svc := newTestService(t, deps)

		_, err := svc.SubmitProof(context.Background(), booking.ID, token, validContact(), strings.NewReader("png-bytes"))
		if err == nil {
			t.Fatalf("status %s: expected conflict", status)
		}
		if apperrors.AsAppError(err).Code != apperrors.CodeConflict {
			t.Errorf("status %s: expected CONFLICT, got %s", status, apperrors.AsAppError(err).Code)
		}
	}
}

func TestVerify_OnlyPaidOrCancelled(t *testing.T) {
	svc := newTestService(t, &serviceDeps{})

	for _, status := range []model.PaymentStatus{model.StatusPending, model.StatusProcessing, "Refunded"} {
		_, err := svc.Verify(context.Background(), "64f1b2a3c4d5e6f708192a3b", status)
		if err == nil {
			t.Fatalf("status %s: expected error", status)
		}
		if apperrors.AsAppError(err).Code != apperrors.CodeInvalidInput {
			t.Errorf("status %s: expected INVALID_INPUT, got %s", status, apperrors.AsAppError(err).Code)
		}
	}
}

func TestVerify_SetsStatus(t *testing.T) {
	s := testSealer(t)
	booking, _ := pendingBooking(t, s)
	booking.PaymentStatus = model.StatusProcessing

	var written model.PaymentStatus
	deps := &serviceDeps{
		sealer: s,
		repo: &mockBookingRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
				return booking, nil
			},
			updateStatusFunc: func(ctx context.Context, id string, status model.PaymentStatus) error {
				written = status
				return nil
			},
		},
	}
	svc := newTestService(t, deps)

	updated, err := svc.Verify(context.Background(), booking.ID, model.StatusPaid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if written != model.StatusPaid {
		t.Errorf("expected Paid written, got %s", written)
	}
	if updated.PaymentStatus != model.StatusPaid {
		t.Errorf("expected returned booking Paid, got %s", updated.PaymentStatus)
	}
}

func TestRemove_DestroysProofAsset(t *testing.T) {
	s := testSealer(t)
	booking, _ := pendingBooking(t, s)
	booking.ProofAssetID = "payment-proofs/old"

	store := &mockAssetStore{}
	deps := &serviceDeps{
		sealer: s,
		store:  store,
		repo: &mockBookingRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
				return booking, nil
			},
		},
	}
	svc := newTestService(t, deps)

	if err := svc.Remove(context.Background(), booking.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != "payment-proofs/old" {
		t.Errorf("expected proof asset destroyed, deleted: %v", store.deleted)
	}
}

func TestTrackByCode_PublicProjection(t *testing.T) {
	s := testSealer(t)
	booking, _ := pendingBooking(t, s)
	booking.SelectedSeats = []string{"U-A1", "U-B1"}
	booking.TotalAmount = 1198
	booking.PaymentStatus = model.StatusPaid

	deps := &serviceDeps{
		sealer: s,
		repo: &mockBookingRepository{
			findByCodeFunc: func(ctx context.Context, code string) (*model.Booking, error) {
				if code != "A1B2C3D4" {
					t.Errorf("expected upper-cased code A1B2C3D4, got %q", code)
				}
				return booking, nil
			},
		},
	}
	svc := newTestService(t, deps)

	tracking, err := svc.TrackByCode(context.Background(), " a1b2c3d4 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tracking.Status != model.StatusPaid {
		t.Errorf("expected Paid, got %s", tracking.Status)
	}
	if tracking.Provider.Name != "Shree Ram Travels" {
		t.Errorf("expected provider contact on projection, got %+v", tracking.Provider)
	}
}

func TestTrackByCode_BadLengthReadsAsNotFound(t *testing.T) {
	svc := newTestService(t, &serviceDeps{})

	// A malformed code must be indistinguishable from an unknown one.
	for _, code := range []string{"ABC", "A1B2C3D4E5"} {
		_, err := svc.TrackByCode(context.Background(), code)
		if err == nil {
			t.Fatalf("expected error for code %q", code)
		}
		if apperrors.AsAppError(err).Code != apperrors.CodeNotFound {
			t.Errorf("code %q: expected NOT_FOUND, got %s", code, apperrors.AsAppError(err).Code)
		}
	}
}
