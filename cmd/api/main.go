package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/filmatch/filmatch-backend/api/routes"
	"github.com/filmatch/filmatch-backend/internal/auth"
	"github.com/filmatch/filmatch-backend/internal/catalog"
	"github.com/filmatch/filmatch-backend/internal/chat"
	"github.com/filmatch/filmatch-backend/internal/onboarding"
	"github.com/filmatch/filmatch-backend/internal/profiles"
	"github.com/filmatch/filmatch-backend/internal/reconcile"
	"github.com/filmatch/filmatch-backend/internal/statuses"
	"github.com/filmatch/filmatch-backend/internal/swipes"
	"github.com/filmatch/filmatch-backend/internal/users"
	"github.com/filmatch/filmatch-backend/pkg/auth/session"
	"github.com/filmatch/filmatch-backend/pkg/config"
	"github.com/filmatch/filmatch-backend/pkg/db"
	"github.com/filmatch/filmatch-backend/pkg/logger"
	"github.com/filmatch/filmatch-backend/pkg/metrics"
	"github.com/filmatch/filmatch-backend/pkg/migrate"
	"github.com/filmatch/filmatch-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	appMetrics := metrics.NewAppMetrics(registry)

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	profileRepo := profiles.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		Users:    users.NewRepository(dbClient.DB()),
		Profiles: profileRepo,
		Sessions: sessionManager,
		JWT:      cfg.JWT,
		Password: cfg.Password,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	profileService, err := profiles.NewService(profiles.ServiceParams{Repo: profileRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create profile service", err)
		os.Exit(1)
	}

	reconcileService, err := reconcile.NewService(reconcile.ServiceParams{
		Profiles: profileRepo,
		Flags:    redisClient,
		Config:   cfg.Onboarding,
		Logger:   logg,
		Metrics:  appMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create reconcile service", err)
		os.Exit(1)
	}

	catalogClient, err := catalog.NewClient(catalog.ClientParams{
		Config:  cfg.TMDB,
		Cache:   redisClient,
		Metrics: appMetrics,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog client", err)
		os.Exit(1)
	}

	onboardingService, err := onboarding.NewService(onboarding.ServiceParams{
		States:     redisClient,
		Reconciler: reconcileService,
		Searcher:   onboarding.NewSearcher(catalogClient, cfg.Onboarding.SearchDebounce, logg),
		Config:     cfg.Onboarding,
		Logger:     logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create onboarding service", err)
		os.Exit(1)
	}

	statusService, err := statuses.NewService(statuses.ServiceParams{
		Repo: statuses.NewRepository(dbClient.DB()),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create status service", err)
		os.Exit(1)
	}

	swipeRepo := swipes.NewRepository(dbClient.DB())
	swipeService, err := swipes.NewService(swipes.ServiceParams{
		Repo:    swipeRepo,
		Scorer:  swipes.NewRandomScorer(),
		Metrics: appMetrics,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create swipe service", err)
		os.Exit(1)
	}

	chatService, err := chat.NewService(chat.ServiceParams{
		Messages:  chat.NewRepository(dbClient.DB()),
		Matches:   swipeRepo,
		Publisher: redisClient,
		Metrics:   appMetrics,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create chat service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, registry, routes.Services{
			Auth:       authService,
			Profiles:   profileService,
			Reconcile:  reconcileService,
			Onboarding: onboardingService,
			Catalog:    catalogClient,
			Statuses:   statusService,
			Swipes:     swipeService,
			Chat:       chatService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
