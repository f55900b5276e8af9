package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	routeserrors "busbook/internal/routes/errors"
	"busbook/pkg/config"
	"busbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Routes"
)

type RouteRepository interface {
	Create(ctx context.Context, route *model.Route) error
	FindByID(ctx context.Context, id string) (*model.Route, error)
	FindActive(ctx context.Context) ([]*model.Route, error)
	FindActiveByCities(ctx context.Context, departure, destination string) (*model.Route, error)
	ReplaceTimes(ctx context.Context, id string, times []string) error
	Deactivate(ctx context.Context, id string) error
}

type mongoRouteRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoRouteRepository(cfg *config.Config) RouteRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRouteRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoRouteRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoRouteRepository) Create(ctx context.Context, route *model.Route) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	route.IsActive = true
	route.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	result, err := r.collection.InsertOne(ctx, route)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return routeserrors.ErrDuplicate
		}
		return fmt.Errorf("failed to create route: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		route.ID = oid.Hex()
	}
	return nil
}

func (r *mongoRouteRepository) FindByID(ctx context.Context, id string) (*model.Route, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", routeserrors.ErrInvalidID, id)
	}

	var route model.Route
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&route)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, routeserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find route: %w", err)
	}

	return &route, nil
}

func (r *mongoRouteRepository) FindActive(ctx context.Context) ([]*model.Route, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "departure", Value: 1},
		{Key: "destination", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, bson.M{"is_active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find active routes: %w", err)
	}
	defer cursor.Close(ctx)

	var routes []*model.Route
	if err = cursor.All(ctx, &routes); err != nil {
		return nil, fmt.Errorf("failed to decode routes: %w", err)
	}

	return routes, nil
}

func (r *mongoRouteRepository) FindActiveByCities(ctx context.Context, departure, destination string) (*model.Route, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"departure":   departure,
		"destination": destination,
		"is_active":   true,
	}

	var route model.Route
	err := r.collection.FindOne(ctx, filter).Decode(&route)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, routeserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find route by cities: %w", err)
	}

	return &route, nil
}

func (r *mongoRouteRepository) ReplaceTimes(ctx context.Context, id string, times []string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", routeserrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"available_times": times}},
	)
	if err != nil {
		return fmt.Errorf("failed to update route times: %w", err)
	}
	if result.MatchedCount == 0 {
		return routeserrors.ErrNotFound
	}

	return nil
}

func (r *mongoRouteRepository) Deactivate(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", routeserrors.ErrInvalidID, id)
	}

	// Reapplying is a no-op on an already inactive route, not an error.
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"is_active": false}},
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate route: %w", err)
	}
	if result.MatchedCount == 0 {
		return routeserrors.ErrNotFound
	}

	return nil
}
