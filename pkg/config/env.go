package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvAdminToken     = "ADMIN_TOKEN"
	EnvSessionSealKey = "SESSION_SEAL_KEY"

	EnvAllowedOrigins = "ALLOWED_ORIGINS"

	EnvMailerSendAPIKey = "MAILERSEND_API_KEY"
	EnvMailFromName     = "MAIL_FROM_NAME"
	EnvMailFromEmail    = "MAIL_FROM_EMAIL"
	EnvAdminEmail       = "ADMIN_EMAIL"

	EnvCloudinaryURL    = "CLOUDINARY_URL"
	EnvProofAssetFolder = "PROOF_ASSET_FOLDER"

	EnvKafkaBrokers     = "KAFKA_BROKERS"
	EnvKafkaEventsTopic = "KAFKA_EVENTS_TOPIC"

	EnvProviderName  = "PROVIDER_NAME"
	EnvProviderPhone = "PROVIDER_PHONE"
	EnvProviderEmail = "PROVIDER_EMAIL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
