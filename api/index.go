package api

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"shiningstar-api/res/auth"
	"shiningstar-api/res/cache"
	cacheredis "shiningstar-api/res/cache/redis"
	"shiningstar-api/res/geo"
	"shiningstar-api/res/mail"
	"shiningstar-api/res/mail/sidemail"
	"shiningstar-api/res/notification"
	"shiningstar-api/res/notification/slack"
	"shiningstar-api/res/payment"
	paymentstripe "shiningstar-api/res/payment/stripe"
	"shiningstar-api/res/scheduling"
	"shiningstar-api/res/storage"
	"shiningstar-api/res/store"
	"shiningstar-api/res/store/postgresql"
	"shiningstar-api/sys/http/handlers"
)

var logger = log.New(os.Stdout, "", log.LstdFlags|log.LUTC|log.Llongfile)

// CONFIGURATION CONVENTION:
// All environment variable configuration is centralized in this file (api/index.go).
// This provides a single location to view all configuration requirements and ensures
// consistent handling of environment variables across the application.
//
// REQUIRED Environment Variables (minimum to run):
// - DATABASE_POSTGRES_URL: PostgreSQL connection string
// - AUTH_JWT_SECRET: JWT signing secret
// - AUTH_GOOGLE_CLIENT_ID: Google OAuth client ID
// - AUTH_GOOGLE_SECRET: Google OAuth client secret
// - AUTH_GOOGLE_REDIRECT_URL: Google OAuth redirect URL
//
// OPTIONAL Environment Variables (with graceful degradation):
// - SIDEMAIL_API_KEY: Sidemail API key for email operations (optional)
// - SIDEMAIL_API_URL: Sidemail API base URL (default: https://api.sidemail.io/v1)
// - MAIL_FROM_ADDRESS: Sender address for transactional email
// - MAIL_OFFICE_ADDRESS: Inbox receiving contact form messages
// - SLACK_WEBHOOK_URL: Slack webhook URL for notifications (optional)
// - SLACK_TIMEOUT_SECONDS: Timeout for notification API requests in seconds (default: 5)
// - STRIPE_SECRET_KEY / STRIPE_WEBHOOK_SECRET: payments (optional in dev)
// - REDIS_URL: rate limiting + webhook dedup (optional, in-process fallback off)
// - GCS_BUCKET_NAME / GCS_PROJECT_ID / GCS_CREDENTIALS_PATH: portfolio images
// - SERVICE_AREA_LAT / SERVICE_AREA_LNG (default: Philadelphia city center)
// - SERVICE_AREA_RADIUS_MILES (default: 10)
// - BUSINESS_OPEN_HOUR / BUSINESS_CLOSE_HOUR (default: 8 / 18)
// - ADMIN_EMAIL: Google sign-ins with this email get the admin role

// Global service instances initialized once
var (
	routerInstance http.Handler
	initOnce       sync.Once
	initError      error
)

func Handler(w http.ResponseWriter, r *http.Request) {
	// Initialize services only once using sync.Once
	initOnce.Do(func() {
		var storeInstance store.Store
		storeInstance, initError = configStore()
		if initError != nil {
			return
		}

		limiter := configCache()

		cfg := &handlers.Config{
			Logger:              logger,
			Store:               storeInstance,
			Auth:                configAuth(),
			MailService:         configMail(),
			NotificationService: configNotification(),
			PaymentService:      configPayment(),
			Storage:             configStorage(),
			ServiceArea:         configServiceArea(),
			BusinessHours:       configBusinessHours(),
		}
		if limiter != nil {
			cfg.RateLimiter = limiter
			cfg.Deduper = limiter
		}

		routerInstance = handlers.NewRouter(cfg)
	})

	if initError != nil {
		logger.Fatalf("Failed to initialize services: %v", initError)
	}

	routerInstance.ServeHTTP(w, r)
}

func readRequiredEnvVar(name string) string {
	val, ok := os.LookupEnv(name)
	if !ok {
		logger.Fatalf("Env variable not set: %s", name)
	}
	return val
}

func readOptionalEnvVar(name, defaultValue string) string {
	val, ok := os.LookupEnv(name)
	if !ok {
		return defaultValue
	}
	return val
}

func readOptionalFloatEnvVar(name string, defaultValue float64) float64 {
	raw, ok := os.LookupEnv(name)
	if !ok {
		return defaultValue
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		logger.Fatalf("Env variable %s is not a number: %s", name, raw)
	}
	return val
}

func readOptionalIntEnvVar(name string, defaultValue int) int {
	raw, ok := os.LookupEnv(name)
	if !ok {
		return defaultValue
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		logger.Fatalf("Env variable %s is not a number: %s", name, raw)
	}
	return val
}

func configStore() (store.Store, error) {
	rawStore, err := postgresql.Connect(readRequiredEnvVar("DATABASE_POSTGRES_URL"))
	if err != nil {
		return nil, err
	}
	return rawStore, nil
}

func configAuth() auth.Auth {
	return auth.New(
		readRequiredEnvVar("AUTH_JWT_SECRET"),
		readRequiredEnvVar("AUTH_GOOGLE_CLIENT_ID"),
		readRequiredEnvVar("AUTH_GOOGLE_SECRET"),
		readRequiredEnvVar("AUTH_GOOGLE_REDIRECT_URL"),
	)
}

func configMail() mail.MailService {
	apiKey := readOptionalEnvVar("SIDEMAIL_API_KEY", "")
	if apiKey == "" {
		logger.Printf("SIDEMAIL_API_KEY not set, email service disabled")
		return nil
	}

	apiURL := readOptionalEnvVar("SIDEMAIL_API_URL", "https://api.sidemail.io/v1")
	fromAddress := readOptionalEnvVar("MAIL_FROM_ADDRESS", "bookings@shiningstarcleaning.com")
	officeAddress := readOptionalEnvVar("MAIL_OFFICE_ADDRESS", "office@shiningstarcleaning.com")
	timeout := 10 * time.Second

	return sidemail.New(apiKey, apiURL, fromAddress, officeAddress, timeout, logger)
}

func configNotification() notification.NotificationService {
	webhookURL := readOptionalEnvVar("SLACK_WEBHOOK_URL", "")
	if webhookURL == "" {
		logger.Printf("SLACK_WEBHOOK_URL not set, notifications disabled")
		return nil
	}

	timeoutSeconds := readOptionalEnvVar("SLACK_TIMEOUT_SECONDS", "5")
	timeout, _ := time.ParseDuration(timeoutSeconds + "s")

	return slack.New(webhookURL, timeout, logger)
}

func configPayment() payment.PaymentService {
	secretKey := readOptionalEnvVar("STRIPE_SECRET_KEY", "")
	if secretKey == "" {
		logger.Printf("STRIPE_SECRET_KEY not set, payments disabled")
		return nil
	}

	webhookSecret := readOptionalEnvVar("STRIPE_WEBHOOK_SECRET", "")
	return paymentstripe.New(secretKey, webhookSecret, logger)
}

func configCache() cache.Limiter {
	redisURL := readOptionalEnvVar("REDIS_URL", "")
	if redisURL == "" {
		logger.Printf("REDIS_URL not set, rate limiting disabled")
		return nil
	}

	limiter, err := cacheredis.New(redisURL, "shiningstar", logger)
	if err != nil {
		logger.Fatalf("Failed to connect to Redis: %v", err)
	}
	if limiter == nil {
		return nil
	}
	return limiter
}

func configStorage() *storage.GCSService {
	bucketName := readOptionalEnvVar("GCS_BUCKET_NAME", "")
	if bucketName == "" {
		logger.Printf("GCS_BUCKET_NAME not set, image storage disabled")
		return nil
	}

	gcs, err := storage.NewGCSService(
		context.Background(),
		bucketName,
		readOptionalEnvVar("GCS_PROJECT_ID", ""),
		readOptionalEnvVar("GCS_CREDENTIALS_PATH", ""),
	)
	if err != nil {
		logger.Fatalf("Failed to initialize cloud storage: %v", err)
	}
	return gcs
}

func configServiceArea() geo.ServiceArea {
	return geo.ServiceArea{
		Center: geo.Coordinates{
			Lat: readOptionalFloatEnvVar("SERVICE_AREA_LAT", 39.9526),
			Lng: readOptionalFloatEnvVar("SERVICE_AREA_LNG", -75.1652),
		},
		RadiusMiles: readOptionalFloatEnvVar("SERVICE_AREA_RADIUS_MILES", 10),
	}
}

func configBusinessHours() scheduling.BusinessHours {
	hours := scheduling.DefaultBusinessHours()
	hours.OpenHour = readOptionalIntEnvVar("BUSINESS_OPEN_HOUR", hours.OpenHour)
	hours.CloseHour = readOptionalIntEnvVar("BUSINESS_CLOSE_HOUR", hours.CloseHour)
	return hours
}
