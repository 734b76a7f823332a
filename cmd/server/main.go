package main

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	fbauth "firebase.google.com/go/v4/auth"

	"github.com/maxiguillermo1/senior-project/internal/config"
	"github.com/maxiguillermo1/senior-project/internal/handlers"
	"github.com/maxiguillermo1/senior-project/internal/logging"
	appMiddleware "github.com/maxiguillermo1/senior-project/internal/middleware"
	"github.com/maxiguillermo1/senior-project/internal/services"
	"github.com/maxiguillermo1/senior-project/internal/store"
)

func main() {
	_ = godotenv.Load()

	zlog, err := logging.New()
	if err != nil {
		panic(err)
	}
	defer zlog.Sync()
	logger := zlog.Sugar()

	cfg := config.Load()
	ctx := context.Background()

	// Document store backend.
	var docs store.DocumentStore
	switch cfg.StoreBackend {
	case "file":
		fileStore, err := store.NewFileStore(cfg.DataDir, "documents.json")
		if err != nil {
			logger.Fatalw("failed to open file store", "error", err)
		}
		docs = fileStore
		logger.Infow("using file document store", "dir", cfg.DataDir)
	default:
		fsStore, err := store.NewFirestoreStore(ctx, store.FirestoreConfig{
			ProjectID:       cfg.FirebaseProjectID,
			CredentialsJSON: cfg.FirebaseCredentialsJSON,
			CredentialsFile: cfg.FirebaseCredentialsFile,
		})
		if err != nil {
			logger.Fatalw("failed to init Firestore", "error", err)
		}
		defer fsStore.Close()
		docs = fsStore
	}

	// Firebase Auth (server-side verification of ID tokens).
	var authClient *fbauth.Client
	if cfg.AuthMode == "firebase" {
		authClient, err = appMiddleware.NewFirebaseAuthClient(ctx, appMiddleware.FirebaseAuthConfig{
			ProjectID:       cfg.FirebaseProjectID,
			CredentialsJSON: cfg.FirebaseCredentialsJSON,
			CredentialsFile: cfg.FirebaseCredentialsFile,
		})
		if err != nil {
			logger.Warnw("failed to initialize Firebase Auth client", "error", err)
		}
	}

	// Survey persistence is optional; deletion still works without it.
	var surveys services.SurveyRecorder
	var surveyBrowser services.SurveyBrowser
	if cfg.MongoURI != "" {
		surveySvc, err := services.NewMongoSurveyService(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			logger.Warnw("failed to connect to Mongo, surveys disabled", "error", err)
		} else {
			defer surveySvc.Close(ctx)
			surveys = surveySvc
			surveyBrowser = surveySvc
		}
	}

	// Redis cache for AI descriptions, also optional.
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnw("redis unreachable, description cache disabled", "error", err)
			redisClient = nil
		}
	}

	// Services.
	spotify := services.NewSpotifyClient(cfg.SpotifyClientID, cfg.SpotifyClientSecret, services.NewTokenCache(), logger)
	gemini := services.NewGeminiClient(cfg.GeminiAPIKey, redisClient, logger)
	events := services.NewEventService(docs)
	groups := services.NewGroupService(docs, logger)
	accounts := services.NewAccountService(docs, surveys, authClient, logger)

	// Handlers.
	profileHandler := handlers.NewProfileHandler(docs, logger)
	musicHandler := handlers.NewMusicHandler(spotify, logger)
	eventHandler := handlers.NewEventHandler(events, gemini, logger)
	groupHandler := handlers.NewGroupHandler(groups, logger)
	accountHandler := handlers.NewAccountHandler(accounts, surveyBrowser, logger)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Handle("/metrics", promhttp.Handler())

	// Local auth endpoints replace Firebase token issuance in dev.
	requireAuth := appMiddleware.FirebaseAuth(authClient)
	if cfg.AuthMode == "local" {
		requireAuth = appMiddleware.JWTAuth(cfg.JWTSecret)
		localAuth := services.NewLocalAuthService(docs)
		authHandler := handlers.NewAuthHandler(localAuth, cfg.JWTSecret, cfg.JWTExpiration, logger)
		r.Post("/api/auth/register", authHandler.Register)
		r.Post("/api/auth/login", authHandler.Login)
	}

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			// Profile read model
			r.Get("/profile", profileHandler.GetProfile)
			r.Get("/profile/stream", profileHandler.StreamProfile)
			r.Get("/users/{userId}/profile", profileHandler.GetPublicProfile)

			// Music catalog search proxy
			r.Route("/music", func(r chi.Router) {
				r.Get("/artists", musicHandler.SearchArtists)
				r.Get("/albums", musicHandler.SearchAlbums)
				r.Get("/tracks", musicHandler.SearchTracks)
				r.Get("/recommendations", musicHandler.Recommendations)
				r.Get("/artists/{artistId}/related", musicHandler.RelatedArtists)
				r.Get("/albums/{albumId}/tracks", musicHandler.AlbumTracks)
			})

			// Events
			r.Route("/events", func(r chi.Router) {
				r.Post("/{eventId}/description", eventHandler.Describe)
				r.Get("/favorites", eventHandler.ListFavorites)
				r.Post("/favorites", eventHandler.AddFavorite)
				r.Delete("/favorites/{eventId}", eventHandler.RemoveFavorite)
			})

			// Groups
			r.Route("/groups", func(r chi.Router) {
				r.Get("/", groupHandler.ListGroups)
				r.Post("/{groupId}/leave", groupHandler.LeaveGroup)
				r.Delete("/{groupId}", groupHandler.DeleteGroup)
			})

			// Account lifecycle
			r.Delete("/account", accountHandler.DeleteAccount)

			// Ops review of exit surveys
			r.Get("/admin/surveys", accountHandler.RecentSurveys)
		})
	})

	logger.Infow("server starting", "addr", cfg.ServerAddress)
	if err := http.ListenAndServe(cfg.ServerAddress, r); err != nil {
		logger.Fatalw("server failed", "error", err)
	}
}
