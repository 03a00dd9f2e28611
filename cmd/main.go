package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"shiningstar-api/api"
	"shiningstar-api/res/store"
	"shiningstar-api/res/store/postgresql"

	"github.com/joho/godotenv"
)

var logger = log.New(os.Stdout, "(cmd/main.go)", log.LstdFlags|log.LUTC|log.Llongfile)

func main() {
	// Load .env file in development
	// Try multiple locations: current dir, shiningstar-api/, parent dir
	err := godotenv.Load()
	if err != nil {
		err = godotenv.Load("shiningstar-api/.env")
	}
	if err != nil {
		err = godotenv.Load(".env")
	}
	if err != nil {
		logger.Printf("Note: .env file not found, using system environment variables")
	}

	port := readRequiredEnvVar("PORT")
	environment := readRequiredEnvVar("ENVIRONMENT")

	// Bootstrap the dashboard admin if ADMIN_EMAIL is set
	if adminEmail := os.Getenv("ADMIN_EMAIL"); adminEmail != "" {
		if err := bootstrapAdmin(adminEmail); err != nil {
			logger.Printf("Warning: Failed to bootstrap admin: %v", err)
		} else {
			logger.Printf("Successfully checked/updated admin: %s", adminEmail)
		}
	}

	// REST API + websocket chat stream
	http.HandleFunc("/", api.Handler)

	logger.Printf("Starting server on :%s (environment: %s)\n", port, environment)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", port), nil); err != nil {
		logger.Fatalf("Server failed to start: %v", err)
	}
}

func readRequiredEnvVar(name string) string {
	val, ok := os.LookupEnv(name)
	if !ok {
		logger.Fatalf("Env variable not set: %s", name)
	}
	return val
}

func bootstrapAdmin(email string) error {
	// Connect to database
	dbURL := readRequiredEnvVar("DATABASE_POSTGRES_URL")
	storeInstance, err := postgresql.Connect(dbURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx := context.Background()

	// Find user by email
	user, err := storeInstance.Users().GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to find user with email %s: %w", email, err)
	}

	// If user already has the admin role, nothing to do
	if user.Role == store.UserRoleAdmin {
		logger.Printf("User %s already has admin role", email)
		return nil
	}

	// Update user role to admin
	adminRole := store.UserRoleAdmin
	_, err = storeInstance.Users().Update(ctx, user.ID, nil, &adminRole)
	if err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}

	logger.Printf("Successfully promoted user %s to admin", email)
	return nil
}
