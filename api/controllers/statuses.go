package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/filmatch/filmatch-backend/api/responses"
	"github.com/filmatch/filmatch-backend/api/validators"
	"github.com/filmatch/filmatch-backend/internal/statuses"
	"github.com/filmatch/filmatch-backend/pkg/enums"
	pkgerrors "github.com/filmatch/filmatch-backend/pkg/errors"
	"github.com/filmatch/filmatch-backend/pkg/logger"
)

type setStatusPayload struct {
	MovieID int64  `json:"movie_id" validate:"required"`
	Status  string `json:"status" validate:"required,oneof=none watched watchlist"`
	Rating  *int   `json:"rating,omitempty"`
}

func StatusSet(svc statuses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload setStatusPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		status, err := enums.ParseMovieStatus(payload.Status)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		dto, err := svc.SetStatus(ctx, userID, payload.MovieID, status, payload.Rating)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func StatusGet(svc statuses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		movieID, err := strconv.ParseInt(chi.URLParam(r, "movieID"), 10, 64)
		if err != nil || movieID <= 0 {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "movie id must be a positive integer"))
			return
		}

		dto, err := svc.GetStatus(ctx, userID, movieID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func StatusList(svc statuses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		raw, err := validators.RequireQueryString(r, "status")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		status, err := enums.ParseMovieStatus(raw)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		rows, err := svc.ListByStatus(ctx, userID, status)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": status, "movies": rows})
	}
}
