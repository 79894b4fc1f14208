package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"

	"github.com/uniconnect-hub/backend/internal/router"
	"github.com/uniconnect-hub/backend/pkg/config"
	"github.com/uniconnect-hub/backend/pkg/firebase"
	"github.com/uniconnect-hub/backend/validators"
)

func main() {
	// Load configuration
	config.LoadDotenv()
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB()

	// Initialize Firebase; social login is optional, the server runs
	// without it
	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		log.Printf("Firebase disabled: %v", err)
	}

	// Create Echo instance
	e := echo.New()

	// Validator
	e.Validator = validators.NewValidator()

	// Setup global middleware
	config.SetupMiddleware(e)

	// Setup routes and dependencies
	if firebaseApp != nil {
		router.SetupRoutes(e, cfg, db.Postgres, db.Mongo, firebaseApp.AuthClient)
	} else {
		router.SetupRoutes(e, cfg, db.Postgres, db.Mongo, nil)
	}

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
