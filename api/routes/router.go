package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/filmatch/filmatch-backend/api/controllers"
	"github.com/filmatch/filmatch-backend/api/middleware"
	"github.com/filmatch/filmatch-backend/internal/auth"
	"github.com/filmatch/filmatch-backend/internal/catalog"
	"github.com/filmatch/filmatch-backend/internal/chat"
	"github.com/filmatch/filmatch-backend/internal/onboarding"
	"github.com/filmatch/filmatch-backend/internal/profiles"
	"github.com/filmatch/filmatch-backend/internal/reconcile"
	"github.com/filmatch/filmatch-backend/internal/statuses"
	"github.com/filmatch/filmatch-backend/internal/swipes"
	"github.com/filmatch/filmatch-backend/pkg/auth/session"
	"github.com/filmatch/filmatch-backend/pkg/config"
	"github.com/filmatch/filmatch-backend/pkg/logger"
	"github.com/filmatch/filmatch-backend/pkg/redis"
)

// Services groups everything the router wires into handlers.
type Services struct {
	Auth       auth.Service
	Profiles   profiles.Service
	Reconcile  reconcile.Service
	Onboarding onboarding.Service
	Catalog    *catalog.Client
	Statuses   statuses.Service
	Swipes     swipes.Service
	Chat       chat.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *redis.Client,
	sessions session.AccessSessionChecker,
	gatherer prometheus.Gatherer,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.CORS(),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(svcs.Auth, logg))
		r.With(middleware.Auth(cfg.JWT, sessions, logg)).Post("/logout", controllers.AuthLogout(svcs.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", controllers.ProfileGet(svcs.Profiles, logg))
			r.Get("/stats", controllers.ProfileStats(svcs.Profiles, logg))
			r.Get("/onboarding-status", controllers.OnboardingStatus(svcs.Reconcile, logg))
			r.Put("/preferences", controllers.PreferencesUpdate(svcs.Reconcile, logg))
		})

		r.Route("/onboarding", func(r chi.Router) {
			r.Post("/start", controllers.OnboardingStart(svcs.Onboarding, logg))
			r.Get("/", controllers.OnboardingState(svcs.Onboarding, logg))
			r.Post("/favorites", controllers.OnboardingAddFavorite(svcs.Onboarding, logg))
			r.Delete("/favorites", controllers.OnboardingRemoveFavorite(svcs.Onboarding, logg))
			r.Post("/watches/select", controllers.OnboardingSelectWatch(svcs.Onboarding, logg))
			r.Post("/watches/confirm", controllers.OnboardingConfirmWatch(svcs.Onboarding, logg))
			r.Post("/watches/cancel", controllers.OnboardingCancelWatch(svcs.Onboarding, logg))
			r.Delete("/watches", controllers.OnboardingRemoveWatch(svcs.Onboarding, logg))
			r.Post("/genres", controllers.OnboardingRateGenre(svcs.Onboarding, logg))
			r.Post("/advance", controllers.OnboardingAdvance(svcs.Onboarding, logg))
			r.Post("/complete", controllers.OnboardingComplete(svcs.Onboarding, logg))
			r.Post("/search", controllers.OnboardingSetSearch(svcs.Onboarding, logg))
			r.Get("/search", controllers.OnboardingSearchResults(svcs.Onboarding, logg))
		})

		r.Route("/movies", func(r chi.Router) {
			r.Get("/search", controllers.MoviesSearch(svcs.Catalog, logg))
			r.Get("/popular", controllers.MoviesPopular(svcs.Catalog, logg))
			r.Get("/top-rated", controllers.MoviesTopRated(svcs.Catalog, logg))
			r.Get("/now-playing", controllers.MoviesNowPlaying(svcs.Catalog, logg))
			r.Get("/trending", controllers.MoviesTrending(svcs.Catalog, logg))
			r.Get("/genre/{genreID}", controllers.MoviesByGenre(svcs.Catalog, logg))
			r.Get("/poster", controllers.MoviePoster(svcs.Catalog, logg))
			r.Get("/{movieID}", controllers.MovieDetails(svcs.Catalog, logg))
		})

		r.Route("/statuses", func(r chi.Router) {
			r.Post("/", controllers.StatusSet(svcs.Statuses, logg))
			r.Get("/", controllers.StatusList(svcs.Statuses, logg))
			r.Get("/{movieID}", controllers.StatusGet(svcs.Statuses, logg))
		})

		r.Route("/swipes", func(r chi.Router) {
			r.Get("/candidates", controllers.SwipeCandidates(svcs.Swipes, logg))
			r.Post("/", controllers.SwipeCreate(svcs.Swipes, logg))
		})

		r.Route("/matches", func(r chi.Router) {
			r.Get("/", controllers.MatchesList(svcs.Swipes, logg))
			r.Route("/{matchID}/messages", func(r chi.Router) {
				r.Get("/", controllers.ChatList(svcs.Chat, logg))
				r.Post("/", controllers.ChatSend(svcs.Chat, logg))
			})
		})
	})

	return r
}
