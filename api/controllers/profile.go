package controllers

import (
	"net/http"

	"github.com/filmatch/filmatch-backend/api/responses"
	"github.com/filmatch/filmatch-backend/api/validators"
	"github.com/filmatch/filmatch-backend/internal/profiles"
	"github.com/filmatch/filmatch-backend/internal/reconcile"
	"github.com/filmatch/filmatch-backend/pkg/logger"
)

type preferencesPayload struct {
	Favorites     []profiles.FavoriteInput    `json:"favorites" validate:"dive"`
	RecentWatches []profiles.RecentWatchInput `json:"recent_watches" validate:"dive"`
	GenreRatings  []profiles.GenreRatingInput `json:"genre_ratings" validate:"dive"`
}

func ProfileGet(svc profiles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		profile, err := svc.GetProfile(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

func ProfileStats(svc profiles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		stats, err := svc.GetStats(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

// OnboardingStatus reconciles the remote completion flag with the local one
// and tells the client where to route.
func OnboardingStatus(svc reconcile.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		state, err := svc.ResolveOnboardingState(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, state)
	}
}

// PreferencesUpdate replaces the committed preference set outside the wizard.
func PreferencesUpdate(svc reconcile.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload preferencesPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		err = svc.UpdatePreferences(ctx, userID, payload.Favorites, payload.RecentWatches, payload.GenreRatings)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}
