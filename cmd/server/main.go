package main

import (
	"context"
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/govind-gojiya/blog-backend/internal/router"
	"github.com/govind-gojiya/blog-backend/pkg/config"
	"github.com/govind-gojiya/blog-backend/pkg/firebase"
	"github.com/govind-gojiya/blog-backend/validators"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Initialize Firebase when credentials are configured
	var firebaseAuthClient *auth.Client
	if cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err := firebase.InitFirebase(context.Background(), cfg.FirebaseCredentialsPath)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
		firebaseAuthClient = firebaseApp.AuthClient
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Validator
	e.Validator = validators.NewValidator()

	// Setup routes and dependencies
	router.SetupRoutes(e, db.Postgres, db.Mongo, cfg.MongoDatabase, firebaseAuthClient, cfg.HitActiveWindow)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
