// Seeds the fixed bus layout for every departure time of every active route.
// Safe to re-run: existing seats keep their admin-owned state.
package main

import (
	"context"
	"fmt"
	"time"

	routerepo "busbook/internal/routes/repository"
	seatrepo "busbook/internal/seats/repository"
	seatservice "busbook/internal/seats/service"
	"busbook/pkg/config"
)

const JobName = "seat-init"

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()
	cfg := config.Load(JobName)
	cfg.SetMongo()
	cfg.Log.Info("Starting seat initialization job")
	defer cfg.GracefulShutdown()

	routeRepo := routerepo.NewMongoRouteRepository(cfg)
	seatService := seatservice.NewSeatService(seatrepo.NewMongoSeatRepository(cfg), cfg)

	routes, err := routeRepo.FindActive(ctx)
	if err != nil {
		cfg.Log.Fatal("Failed to load active routes", "error", err)
	}
	if len(routes) == 0 {
		fmt.Println("No active routes found; nothing to seed.")
		return
	}

	seeded := 0
	for _, route := range routes {
		for _, departureTime := range route.AvailableTimes {
			result, err := seatService.InitializeSlot(
				ctx,
				route.ID,
				departureTime,
				seatservice.DefaultBasePriceUpper,
				seatservice.DefaultBasePriceLower,
			)
			if err != nil {
				cfg.Log.Fatal("Failed to seed seats",
					"route_id", route.ID,
					"departure", route.Departure,
					"destination", route.Destination,
					"departure_time", departureTime,
					"error", err,
				)
			}

			seeded++
			fmt.Printf("🪑 Seeded %d seats for %s → %s at %s (%d blocked)\n",
				result.SeatsWritten,
				route.Departure,
				route.Destination,
				departureTime,
				len(result.BlockedSeats),
			)
		}
	}

	fmt.Printf("✅ Seat initialization completed for %d slots.\n", seeded)
}
