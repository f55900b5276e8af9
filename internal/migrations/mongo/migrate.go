package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"busbook/internal/migrations/mongo/validators"
)

var (
	RoutesIndexes = []mongo.IndexModel{
		// One active route per city pair; deactivated duplicates may pile up.
		{
			Keys: bson.D{
				{Key: "departure", Value: 1},
				{Key: "destination", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "is_active", Value: true}}),
		},
		{Keys: bson.D{{Key: "is_active", Value: 1}}},
	}

	SeatsIndexes = []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "route_id", Value: 1},
				{Key: "departure_time", Value: 1},
				{Key: "seat_id", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{
			{Key: "route_id", Value: 1},
			{Key: "departure_time", Value: 1},
		}},
	}

	BookingsIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "tracking_code", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		// Occupancy resolution scans paid bookings per slot and travel day.
		{Keys: bson.D{
			{Key: "destination_city", Value: 1},
			{Key: "departure_time", Value: 1},
			{Key: "departure_date", Value: 1},
			{Key: "payment_status", Value: 1},
		}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	RoutePricesIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "route_id", Value: 1},
			{Key: "departure_time", Value: 1},
			{Key: "effective_date", Value: -1},
		}},
	}
)

func RunMigration(ctx context.Context, client *mongo.Client, dbName string) error {
	db := client.Database(dbName)
	fmt.Printf("🚀 Running busbook Mongo migrations on database: %s\n", dbName)

	collections := map[string]struct {
		Indexes   []mongo.IndexModel
		Validator bson.M
	}{
		"Routes": {
			Indexes:   RoutesIndexes,
			Validator: validators.RouteValidator,
		},
		"Seats": {
			Indexes:   SeatsIndexes,
			Validator: validators.SeatValidator,
		},
		"Bookings": {
			Indexes:   BookingsIndexes,
			Validator: validators.BookingValidator,
		},
		"RoutePrices": {
			Indexes:   RoutePricesIndexes,
			Validator: validators.RoutePriceValidator,
		},
	}

	for name, def := range collections {
		if err := ensureCollection(ctx, db, name, def.Validator); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	fmt.Println("✅ All migrations applied successfully.")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		fmt.Printf("🆕 Creating collection: %s\n", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
	} else {
		fmt.Printf("ℹ️ Collection %s already exists — updating validator if needed\n", name)
		command := bson.D{
			{Key: "collMod", Value: name},
			{Key: "validator", Value: validator},
		}
		if err := db.RunCommand(ctx, command).Err(); err != nil {
			fmt.Printf("⚠️ Warning: failed updating validator for %s: %v\n", name, err)
		}
	}

	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	coll := db.Collection(name)
	_, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	fmt.Printf("📚 Ensured indexes for %s\n", name)
	return nil
}
