package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	pricingerrors "busbook/internal/pricing/errors"
	"busbook/pkg/config"
	"busbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "RoutePrices"
)

type RoutePriceRepository interface {
	Create(ctx context.Context, rp *model.RoutePrice) error
	FindByRoute(ctx context.Context, routeID string) ([]*model.RoutePrice, error)
	FindActiveForSlot(ctx context.Context, routeID, departureTime string, date time.Time) (*model.RoutePrice, error)
	Delete(ctx context.Context, id string) error
}

type mongoRoutePriceRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoRoutePriceRepository(cfg *config.Config) RoutePriceRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRoutePriceRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoRoutePriceRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoRoutePriceRepository) Create(ctx context.Context, rp *model.RoutePrice) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	rp.IsActive = true
	rp.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	result, err := r.collection.InsertOne(ctx, rp)
	if err != nil {
		return fmt.Errorf("failed to create route price: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		rp.ID = oid.Hex()
	}
	return nil
}

func (r *mongoRoutePriceRepository) FindByRoute(ctx context.Context, routeID string) ([]*model.RoutePrice, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "departure_time", Value: 1},
		{Key: "effective_date", Value: -1},
	})

	cursor, err := r.collection.Find(ctx, bson.M{"route_id": routeID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find route prices: %w", err)
	}
	defer cursor.Close(ctx)

	var prices []*model.RoutePrice
	if err = cursor.All(ctx, &prices); err != nil {
		return nil, fmt.Errorf("failed to decode route prices: %w", err)
	}
	return prices, nil
}

// FindActiveForSlot returns the active override whose validity window
// contains the date, preferring the most recently effective one when
// windows overlap. Nil without error when no override applies.
func (r *mongoRoutePriceRepository) FindActiveForSlot(ctx context.Context, routeID, departureTime string, date time.Time) (*model.RoutePrice, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"route_id":       routeID,
		"departure_time": departureTime,
		"is_active":      true,
		"effective_date": bson.M{"$lte": date},
		"expiry_date":    bson.M{"$gte": date},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "effective_date", Value: -1}})

	var rp model.RoutePrice
	err := r.collection.FindOne(ctx, filter, opts).Decode(&rp)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find active route price: %w", err)
	}
	return &rp, nil
}

func (r *mongoRoutePriceRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", pricingerrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete route price: %w", err)
	}
	if result.DeletedCount == 0 {
		return pricingerrors.ErrNotFound
	}
	return nil
}
