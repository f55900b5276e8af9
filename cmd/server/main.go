package main

import (
	availabilityhandler "busbook/internal/availability/handler"
	availabilityservice "busbook/internal/availability/service"
	bookinghandler "busbook/internal/bookings/handler"
	bookingrepo "busbook/internal/bookings/repository"
	bookingservice "busbook/internal/bookings/service"
	bookingvalidator "busbook/internal/bookings/validator"
	pricinghandler "busbook/internal/pricing/handler"
	pricingrepo "busbook/internal/pricing/repository"
	pricingservice "busbook/internal/pricing/service"
	routehandler "busbook/internal/routes/handler"
	routerepo "busbook/internal/routes/repository"
	routeservice "busbook/internal/routes/service"
	routevalidator "busbook/internal/routes/validator"
	seathandler "busbook/internal/seats/handler"
	seatrepo "busbook/internal/seats/repository"
	seatservice "busbook/internal/seats/service"
	"busbook/pkg/app"
	"busbook/pkg/assets"
	"busbook/pkg/config"
	"busbook/pkg/events"
	"busbook/pkg/mailer"
	"busbook/pkg/sealer"
)

func main() {
	cfg := config.Load("busbook-api")
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	tokenSealer, err := sealer.New(cfg.SessionSealKey)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize session sealer", "error", err)
	}

	assetStore := initAssetStore(cfg)
	notifier := initNotifier(cfg)
	publisher, closePublisher := initPublisher(cfg)

	routeRepo := routerepo.NewMongoRouteRepository(cfg)
	seatRepo := seatrepo.NewMongoSeatRepository(cfg)
	bookingRepo := bookingrepo.NewMongoBookingRepository(cfg)
	priceRepo := pricingrepo.NewMongoRoutePriceRepository(cfg)

	routeService := routeservice.NewRouteService(routeRepo, routevalidator.NewRouteValidator(), cfg)
	seatService := seatservice.NewSeatService(seatRepo, cfg)
	pricingService := pricingservice.NewPricingService(priceRepo, cfg)
	availabilityService := availabilityservice.NewAvailabilityService(
		bookingRepo,
		seatRepo,
		routeRepo,
		pricingService,
		cfg,
	)

	bookingValidator, err := bookingvalidator.NewBookingValidator()
	if err != nil {
		cfg.Log.Fatal("Failed to initialize booking validator", "error", err)
	}

	bookingService := bookingservice.NewBookingService(
		bookingRepo,
		routeRepo,
		availabilityService,
		bookingValidator,
		tokenSealer,
		assetStore,
		notifier,
		publisher,
		cfg,
	)

	cfg.Log.Info("Services initialized")

	application := app.NewApplication(cfg)
	application.SetApp(
		routehandler.NewRouteHandler(routeService, cfg.Log),
		seathandler.NewSeatHandler(seatService, cfg.Log),
		pricinghandler.NewPricingHandler(pricingService, cfg.Log),
		availabilityhandler.NewAvailabilityHandler(availabilityService, cfg.Log),
		bookinghandler.NewBookingHandler(bookingService, cfg.Log),
	)
	if closePublisher != nil {
		application.OnShutdown(closePublisher)
	}

	application.Run()
}

// Payment-proof upload is on the critical booking path, so the server refuses
// to start without a configured asset store.
func initAssetStore(cfg *config.Config) assets.Store {
	if cfg.CloudinaryURL == "" {
		cfg.Log.Fatal("CLOUDINARY_URL is required: payment proof uploads cannot work without it")
	}

	store, err := assets.NewCloudinaryStore(cfg.CloudinaryURL, cfg.ProofAssetFolder)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize Cloudinary store", "error", err)
	}

	cfg.Log.Info("Cloudinary asset store initialized", "folder", cfg.ProofAssetFolder)
	return store
}

func initNotifier(cfg *config.Config) bookingservice.Notifier {
	if cfg.MailerSendAPIKey == "" || cfg.AdminEmail == "" {
		cfg.Log.Warn("MailerSend not fully configured; booking emails disabled")
		return nil
	}

	cfg.Log.Info("MailerSend notifier initialized", "admin_email", cfg.AdminEmail)
	return mailer.New(cfg.MailerSendAPIKey, cfg.MailFromName, cfg.MailFromEmail, cfg.AdminEmail)
}

func initPublisher(cfg *config.Config) (events.Publisher, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Warn("Kafka brokers not configured; booking events disabled")
		return events.NopPublisher{}, nil
	}

	producer, err := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaEventsTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize Kafka producer", "error", err)
	}

	cfg.Log.Info("Kafka producer initialized",
		"brokers", cfg.KafkaBrokers,
		"topic", cfg.KafkaEventsTopic,
	)
	return producer, func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	}
}
