package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"housebroker/internal/application/services"
	"housebroker/internal/domain/event"
	"housebroker/internal/infrastructure/bus"
	"housebroker/internal/infrastructure/cache"
	"housebroker/internal/infrastructure/cloudinary"
	httpHandler "housebroker/internal/infrastructure/http"
	"housebroker/internal/infrastructure/mongo"
	jwtutil "housebroker/pkg/jwt"
	"housebroker/pkg/middleware"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or could not be loaded")
	}

	log.Println("Starting House Broker API...")

	mongoConfig := &mongo.MongoConfig{
		URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		Database: getEnv("MONGO_DATABASE", "housebroker"),
		Timeout:  30 * time.Second,
	}

	// Initialize MongoDB client
	mongoClient, err := mongo.NewMongoClient(mongoConfig)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Close(); err != nil {
			log.Printf("Error closing MongoDB connection: %v", err)
		}
	}()
	log.Println("Connected to MongoDB successfully")

	database := mongoClient.GetDatabase()
	uowFactory := mongo.NewMongoUnitOfWorkFactory(mongoClient.GetClient(), database)

	listingRepo := mongo.NewMongoListingRepository(database)
	userRepo := mongo.NewMongoUserInfoRepository(database)
	commissionRepo := mongo.NewMongoCommissionConfigRepository(database)

	// Initialize Cloudinary file storage
	cloudinaryConfig, err := cloudinary.NewConfigFromEnv()
	if err != nil {
		log.Fatalf("Failed to load Cloudinary config: %v", err)
	}
	fileService, err := cloudinary.NewService(cloudinaryConfig)
	if err != nil {
		log.Fatalf("Failed to initialize Cloudinary: %v", err)
	}

	// Initialize Redis listing cache; the service degrades to direct reads
	// without it.
	var listingCache services.ListingCache
	redisCache, err := cache.NewRedisListingCache(
		getEnv("REDIS_ADDR", "localhost:6379"),
		getEnv("REDIS_PASSWORD", ""),
		getEnvInt("REDIS_DB", 0),
	)
	if err != nil {
		log.Printf("Warning: Redis unavailable, listing cache disabled: %v", err)
	} else {
		listingCache = redisCache
		defer redisCache.Close()
		log.Println("Connected to Redis successfully")
	}

	// Initialize event bus and cache invalidation
	eventBus := bus.NewInMemoryEventBus()
	if redisCache != nil {
		subscribeCacheInvalidation(eventBus, redisCache)
	}

	jwtManager := jwtutil.NewJWTManager(
		getEnv("JWT_SECRET", "dev-secret-change-me"),
		time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 24))*time.Hour,
	)

	// Initialize application services
	currentUser := httpHandler.NewContextCurrentUserService()
	commissionService := services.NewCommissionConfigService(commissionRepo)
	listingService := services.NewListingService(
		uowFactory,
		listingRepo,
		userRepo,
		commissionService,
		fileService,
		currentUser,
		eventBus,
		listingCache,
	)
	identityService := services.NewUserIdentityService(uowFactory, userRepo, jwtManager)

	// Initialize HTTP controllers
	listingController := httpHandler.NewHTTPListingController(listingService)
	authController := httpHandler.NewHTTPAuthController(identityService)

	router := buildRouter(listingController, authController, jwtManager)

	server := &http.Server{
		Addr:         ":" + getEnv("PORT", "8080"),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}

// buildRouter wires routes behind the middleware chain. Broker-only routes
// require a BROKER token, offer routes any authenticated user, and reads run
// with optional authentication so owner views can be resolved.
func buildRouter(
	listingController *httpHandler.HTTPListingController,
	authController *httpHandler.HTTPAuthController,
	jwtManager *jwtutil.JWTManager,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.RecoveryMiddleware)
	r.Use(middleware.TimeoutMiddleware(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","service":"housebroker"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authController.Register)
			r.Post("/login", authController.Login)
		})

		r.Route("/listings", func(r chi.Router) {
			// Public reads with optional identity
			r.Group(func(r chi.Router) {
				r.Use(middleware.OptionalJWTAuthMiddleware(jwtManager))
				r.Get("/", listingController.GetListings)
				r.Get("/{id}", listingController.GetListing)
				r.Get("/{id}/detailed", listingController.GetDetailedListing)
			})

			// Broker-only listing management
			r.Group(func(r chi.Router) {
				r.Use(middleware.JWTAuthMiddleware(jwtManager))
				r.Use(middleware.RequireBroker)
				r.Post("/", listingController.CreateListing)
				r.Get("/mine", listingController.GetMyListings)
				r.Put("/{id}", listingController.UpdateListing)
				r.Delete("/{id}", listingController.DeleteListing)
				r.Post("/{id}/off-market", listingController.MarkAsOffMarket)
				r.Post("/{id}/images", listingController.UploadImage)
				r.Delete("/{id}/images/{imageId}", listingController.RemoveImage)
				r.Put("/{id}/images/{imageId}/primary", listingController.SetPrimaryImage)
				r.Post("/{id}/offers/{offerId}/accept", listingController.AcceptOffer)
			})

			// Offer routes for any authenticated user
			r.Group(func(r chi.Router) {
				r.Use(middleware.JWTAuthMiddleware(jwtManager))
				r.Post("/{id}/offers", listingController.AddUpdateOffer)
				r.Delete("/{id}/offers/{offerId}", listingController.RemoveOffer)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalJWTAuthMiddleware(jwtManager))
			r.Get("/brokers/{brokerId}/listings", listingController.GetBrokerListings)
		})
	})

	return r
}

// subscribeCacheInvalidation drops cached listing projections whenever a
// mutation event for that listing is published.
func subscribeCacheInvalidation(eventBus bus.EventBus, listingCache services.ListingCache) {
	invalidate := bus.EventHandlerFunc(func(ctx context.Context, e event.DomainEvent) error {
		return listingCache.Delete(ctx, e.AggregateID())
	})

	for _, eventType := range []string{
		"ListingUpdated",
		"ListingDeleted",
		"ListingOffMarket",
		"OfferPlaced",
		"OfferAccepted",
		"ListingImagesChanged",
	} {
		if err := eventBus.Subscribe(eventType, invalidate); err != nil {
			log.Printf("Failed to subscribe cache invalidation for %s: %v", eventType, err)
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
