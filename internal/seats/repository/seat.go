package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	seatserrors "busbook/internal/seats/errors"
	"busbook/pkg/config"
	"busbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Seats"
)

type SeatRepository interface {
	UpsertPosition(ctx context.Context, seat *model.Seat) error
	FindByID(ctx context.Context, id string) (*model.Seat, error)
	FindBySlot(ctx context.Context, routeID, departureTime string) ([]*model.Seat, error)
	FindByRoute(ctx context.Context, routeID string) ([]*model.Seat, error)
	SetBlocked(ctx context.Context, id string, blocked bool, reason string, until *time.Time) error
	SetBlockedBySeatIDs(ctx context.Context, routeID, departureTime string, seatIDs []string, blocked bool, reason string, until *time.Time) (int64, error)
	SetPrice(ctx context.Context, id string, price float64) error
	DeleteByRoute(ctx context.Context, routeID string) (int64, error)
}

type mongoSeatRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSeatRepository(cfg *config.Config) SeatRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSeatRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoSeatRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// UpsertPosition writes one layout position for a slot. Layout fields are
// always refreshed; admin-owned state (status, blocks, current price) is only
// written when the document is first created, so re-running initialization
// never undoes admin changes.
func (r *mongoSeatRepository) UpsertPosition(ctx context.Context, seat *model.Seat) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"route_id":       seat.RouteID,
		"departure_time": seat.DepartureTime,
		"seat_id":        seat.SeatID,
	}

	update := bson.M{
		"$set": bson.M{
			"deck":       seat.Deck,
			"row":        seat.Row,
			"column":     seat.Column,
			"base_price": seat.BasePrice,
		},
		"$setOnInsert": bson.M{
			"status":         seat.Status,
			"is_blocked":     seat.IsBlocked,
			"blocked_reason": seat.BlockedReason,
			"current_price":  seat.CurrentPrice,
			"created_at":     time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert seat %s: %w", seat.SeatID, err)
	}
	return nil
}

func (r *mongoSeatRepository) FindByID(ctx context.Context, id string) (*model.Seat, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", seatserrors.ErrInvalidID, id)
	}

	var seat model.Seat
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&seat)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, seatserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find seat: %w", err)
	}

	return &seat, nil
}

func (r *mongoSeatRepository) FindBySlot(ctx context.Context, routeID, departureTime string) ([]*model.Seat, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"route_id":       routeID,
		"departure_time": departureTime,
	}
	opts := options.Find().SetSort(bson.D{
		{Key: "deck", Value: -1},
		{Key: "row", Value: 1},
		{Key: "column", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find seats for slot: %w", err)
	}
	defer cursor.Close(ctx)

	var seats []*model.Seat
	if err = cursor.All(ctx, &seats); err != nil {
		return nil, fmt.Errorf("failed to decode seats: %w", err)
	}
	return seats, nil
}

func (r *mongoSeatRepository) FindByRoute(ctx context.Context, routeID string) ([]*model.Seat, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "departure_time", Value: 1},
		{Key: "deck", Value: -1},
		{Key: "row", Value: 1},
		{Key: "column", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, bson.M{"route_id": routeID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find seats for route: %w", err)
	}
	defer cursor.Close(ctx)

	var seats []*model.Seat
	if err = cursor.All(ctx, &seats); err != nil {
		return nil, fmt.Errorf("failed to decode seats: %w", err)
	}
	return seats, nil
}

func (r *mongoSeatRepository) SetBlocked(ctx context.Context, id string, blocked bool, reason string, until *time.Time) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", seatserrors.ErrInvalidID, id)
	}

	update := blockUpdate(blocked, reason, until)
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update seat block state: %w", err)
	}
	if result.MatchedCount == 0 {
		return seatserrors.ErrNotFound
	}
	return nil
}

// SetBlockedBySeatIDs applies a block or unblock to many seats of one slot
// in a single write. Seat IDs with no matching document are skipped; the
// returned count tells the caller how many documents actually changed.
func (r *mongoSeatRepository) SetBlockedBySeatIDs(ctx context.Context, routeID, departureTime string, seatIDs []string, blocked bool, reason string, until *time.Time) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"route_id":       routeID,
		"departure_time": departureTime,
		"seat_id":        bson.M{"$in": seatIDs},
	}

	update := blockUpdate(blocked, reason, until)
	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk update seat block state: %w", err)
	}
	return result.ModifiedCount, nil
}

func blockUpdate(blocked bool, reason string, until *time.Time) bson.M {
	if blocked {
		set := bson.M{
			"is_blocked":     true,
			"status":         model.SeatBlocked,
			"blocked_reason": reason,
		}
		if until != nil {
			set["blocked_until"] = until
		}
		return bson.M{"$set": set}
	}
	return bson.M{
		"$set": bson.M{
			"is_blocked": false,
			"status":     model.SeatAvailable,
		},
		"$unset": bson.M{
			"blocked_reason": "",
			"blocked_until":  "",
		},
	}
}

func (r *mongoSeatRepository) SetPrice(ctx context.Context, id string, price float64) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", seatserrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"current_price": price}},
	)
	if err != nil {
		return fmt.Errorf("failed to update seat price: %w", err)
	}
	if result.MatchedCount == 0 {
		return seatserrors.ErrNotFound
	}
	return nil
}

func (r *mongoSeatRepository) DeleteByRoute(ctx context.Context, routeID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{"route_id": routeID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete seats for route: %w", err)
	}
	return result.DeletedCount, nil
}
