package router

import (
	"log"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/govind-gojiya/blog-backend/internal/handlers"
	"github.com/govind-gojiya/blog-backend/internal/middleware"
	"github.com/govind-gojiya/blog-backend/internal/models"
	"github.com/govind-gojiya/blog-backend/internal/repositories"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies.
// mgClient and firebaseAuthClient may be nil; the hit store falls back to
// PostgreSQL and the Firebase login path reports itself unconfigured.
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, mongoDatabase string, firebaseAuthClient *auth.Client, hitWindow time.Duration) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Collection{},
		&models.Post{},
		&models.Like{},
		&models.SavedPost{},
		&models.Follow{},
		&models.Tag{},
		&models.TaggedItem{},
		&models.PostHit{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	postRepo := repositories.NewPostgresPostRepository(pgdb)
	collectionRepo := repositories.NewPostgresCollectionRepository(pgdb)
	followRepo := repositories.NewPostgresFollowRepository(pgdb)
	savedPostRepo := repositories.NewPostgresSavedPostRepository(pgdb)
	tagRepo := repositories.NewPostgresTagRepository(pgdb)

	var hitRepo repositories.HitRepository
	if mgClient != nil {
		hitRepo = repositories.NewMongoHitRepository(mgClient.Database(mongoDatabase), hitWindow)
		log.Println("Hit tracking backed by MongoDB.")
	} else {
		hitRepo = repositories.NewPostgresHitRepository(pgdb, hitWindow)
		log.Println("Hit tracking backed by PostgreSQL.")
	}

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Public routes (anonymous viewers allowed, JWT resolved if sent) ---
	public := e.Group("/api/v1")
	public.Use(middleware.OptionalJWTAuthMiddleware())

	// --- Protected routes (require JWT authentication) ---
	protected := e.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware())
	log.Println("JWT authentication middleware applied to /api/v1 groups.")

	// User profile routes
	userHandler := handlers.NewUserHandler(userRepo, followRepo)
	userHandler.RegisterProfileRoutes(protected)
	log.Println("User profile routes configured.")

	// Post routes
	postHandler := handlers.NewPostHandler(postRepo, collectionRepo, userRepo, savedPostRepo, tagRepo, hitRepo)
	postHandler.RegisterPostRoutes(public, protected)
	log.Println("Post routes configured.")

	// Feed routes
	feedHandler := handlers.NewFeedHandler(postRepo, savedPostRepo, hitRepo)
	feedHandler.RegisterFeedRoutes(public, protected)
	log.Println("Feed routes configured.")

	// Follow routes
	followHandler := handlers.NewFollowHandler(followRepo)
	followHandler.RegisterFollowRoutes(protected)
	log.Println("Follow routes configured.")

	// Collection routes
	collectionHandler := handlers.NewCollectionHandler(collectionRepo, userRepo)
	collectionHandler.RegisterCollectionRoutes(public, protected)
	log.Println("Collection routes configured.")

	log.Println("All routes configured.")
}
