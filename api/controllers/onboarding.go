package controllers

import (
	"net/http"

	"github.com/filmatch/filmatch-backend/api/responses"
	"github.com/filmatch/filmatch-backend/api/validators"
	"github.com/filmatch/filmatch-backend/internal/onboarding"
	"github.com/filmatch/filmatch-backend/internal/profiles"
	"github.com/filmatch/filmatch-backend/pkg/enums"
	"github.com/filmatch/filmatch-backend/pkg/logger"
)

// Free-text search input is capped before it reaches the debounced searcher.
const maxSearchQueryLength = 128

type favoritePayload struct {
	MovieID int64  `json:"movie_id"`
	Title   string `json:"title" validate:"required"`
	Year    int    `json:"year"`
}

type removeByTitlePayload struct {
	Title string `json:"title" validate:"required"`
}

type selectWatchPayload struct {
	MovieID int64  `json:"movie_id"`
	Title   string `json:"title" validate:"required"`
	Year    int    `json:"year"`
}

type confirmWatchPayload struct {
	Rating int `json:"rating" validate:"required,min=1,max=5"`
}

type rateGenrePayload struct {
	Genre  string `json:"genre" validate:"required"`
	Rating int    `json:"rating" validate:"min=0,max=5"`
}

type searchQueryPayload struct {
	Query string `json:"query"`
}

// wizardAction wraps the load-mutate-save wizard operations that all answer
// with the updated state.
func wizardAction(logg *logger.Logger, handler func(r *http.Request) (onboarding.State, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		state, err := handler(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, state)
	}
}

func OnboardingStart(svc onboarding.Service, logg *logger.Logger) http.HandlerFunc {
	return wizardAction(logg, func(r *http.Request) (onboarding.State, error) {
		userID, err := requestUserID(r)
		if err != nil {
			return onboarding.State{}, err
		}
		return svc.Start(r.Context(), userID)
	})
}

func OnboardingState(svc onboarding.Service, logg *logger.Logger) http.HandlerFunc {
	return wizardAction(logg, func(r *http.Request) (onboarding.State, error) {
		userID, err := requestUserID(r)
		if err != nil {
			return onboarding.State{}, err
		}
		return svc.Get(r.Context(), userID)
	})
}

func OnboardingAddFavorite(svc onboarding.Service, logg *logger.Logger) http.HandlerFunc {
	return wizardAction(logg, func(r *http.Request) (onboarding.State, error) {
		userID, err := requestUserID(r)
		if err != nil {
			return onboarding.State{}, err
		}
		var payload favoritePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return onboarding.State{}, err
		}
		return svc.AddFavorite(r.Context(), userID, profiles.FavoriteInput{
			MovieID: payload.MovieID,
			Title:   payload.Title,
			Year:    payload.Year,
		})
	})
}

func OnboardingRemoveFavorite(svc onboarding.Service, logg *logger.Logger) http.HandlerFunc {
	return wizardAction(logg, func(r *http.Request) (onboarding.State, error) {
		userID, err := requestUserID(r)
		if err != nil {
			return onboarding.State{}, err
		}
		var payload removeByTitlePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return onboarding.State{}, err
		}
		return svc.RemoveFavorite(r.Context(), userID, payload.Title)
	})
}

func OnboardingSelectWatch(svc onboarding.Service, logg *logger.Logger) http.HandlerFunc {
	return wizardAction(logg, func(r *http.Request) (onboarding.State, error) {
		userID, err := requestUserID(r)
		if err != nil {
			return onboarding.State{}, err
		}
		var payload selectWatchPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return onboarding.State{}, err
		}
		return svc.SelectRecentWatch(r.Context(), userID, onboarding.PendingWatch{
			MovieID: payload.MovieID,
			Title:   payload.Title,
			Year:    payload.Year,
		})
	})
}

func OnboardingConfirmWatch(svc onboarding.Service, logg *logger.Logger) http.HandlerFunc {
	return wizardAction(logg, func(r *http.Request) (onboarding.State, error) {
		userID, err := requestUserID(r)
		if err != nil {
			return onboarding.State{}, err
		}
		var payload confirmWatchPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return onboarding.State{}, err
		}
		return svc.ConfirmRecentWatch(r.Context(), userID, payload.Rating)
	})
}

func OnboardingCancelWatch(svc onboarding.Service, logg *logger.Logger) http.HandlerFunc {
	return wizardAction(logg, func(r *http.Request) (onboarding.State, error) {
		userID, err := requestUserID(r)
		if err != nil {
			return onboarding.State{}, err
		}
		return svc.CancelRecentWatch(r.Context(), userID)
	})
}

func OnboardingRemoveWatch(svc onboarding.Service, logg *logger.Logger) http.HandlerFunc {
	return wizardAction(logg, func(r *http.Request) (onboarding.State, error) {
		userID, err := requestUserID(r)
		if err != nil {
			return onboarding.State{}, err
		}
		var payload removeByTitlePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return onboarding.State{}, err
		}
		return svc.RemoveRecentWatch(r.Context(), userID, payload.Title)
	})
}

func OnboardingRateGenre(svc onboarding.Service, logg *logger.Logger) http.HandlerFunc {
	return wizardAction(logg, func(r *http.Request) (onboarding.State, error) {
		userID, err := requestUserID(r)
		if err != nil {
			return onboarding.State{}, err
		}
		var payload rateGenrePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return onboarding.State{}, err
		}
		return svc.RateGenre(r.Context(), userID, enums.Genre(payload.Genre), payload.Rating)
	})
}

func OnboardingAdvance(svc onboarding.Service, logg *logger.Logger) http.HandlerFunc {
	return wizardAction(logg, func(r *http.Request) (onboarding.State, error) {
		userID, err := requestUserID(r)
		if err != nil {
			return onboarding.State{}, err
		}
		return svc.Advance(r.Context(), userID)
	})
}

func OnboardingComplete(svc onboarding.Service, logg *logger.Logger) http.HandlerFunc {
	return wizardAction(logg, func(r *http.Request) (onboarding.State, error) {
		userID, err := requestUserID(r)
		if err != nil {
			return onboarding.State{}, err
		}
		return svc.Complete(r.Context(), userID)
	})
}

// OnboardingSetSearch records the user's typing; results arrive after the
// debounce window via OnboardingSearchResults.
func OnboardingSetSearch(svc onboarding.Service, logg *logger.Logger) http.HandlerFunc {
	return wizardAction(logg, func(r *http.Request) (onboarding.State, error) {
		userID, err := requestUserID(r)
		if err != nil {
			return onboarding.State{}, err
		}
		var payload searchQueryPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return onboarding.State{}, err
		}
		query := validators.SanitizeString(payload.Query, maxSearchQueryLength)
		return svc.SetSearchQuery(r.Context(), userID, query)
	})
}

func OnboardingSearchResults(svc onboarding.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		view, err := svc.Search(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
