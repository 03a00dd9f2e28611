package middleware

import (
	"net/http"
	"os"

	"github.com/go-chi/cors"
)

// CORSMiddleware builds the CORS policy from the environment. Production
// restricts origins to the configured frontend; development allows local
// origins for easier testing.
func CORSMiddleware() func(http.Handler) http.Handler {
	environment := os.Getenv("ENVIRONMENT")
	if environment == "" {
		environment = "development"
	}

	allowedOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	if environment == "production" {
		allowedOrigin := os.Getenv("FRONTEND_URL")
		if allowedOrigin == "" {
			// Fallback to default production domain if not set
			allowedOrigin = "https://shiningstarcleaning.com"
		}
		allowedOrigins = []string{allowedOrigin}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept", "Authorization", "Content-Type", "Stripe-Signature",
			"Sec-WebSocket-Protocol", "Sec-WebSocket-Extensions", "Sec-WebSocket-Version", "Sec-WebSocket-Key",
		},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
