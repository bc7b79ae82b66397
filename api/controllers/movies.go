package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/filmatch/filmatch-backend/api/responses"
	"github.com/filmatch/filmatch-backend/api/validators"
	"github.com/filmatch/filmatch-backend/internal/catalog"
	pkgerrors "github.com/filmatch/filmatch-backend/pkg/errors"
	"github.com/filmatch/filmatch-backend/pkg/logger"
)

const maxCatalogPage = 500

type movieList func(r *http.Request, page int) ([]catalog.MovieRecord, error)

func movieListHandler(logg *logger.Logger, list movieList) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		page, err := validators.ParseQueryInt(r, "page", 1, 1, maxCatalogPage)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		movies, err := list(r, page)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"page": page, "results": movies})
	}
}

func MoviesSearch(client *catalog.Client, logg *logger.Logger) http.HandlerFunc {
	return movieListHandler(logg, func(r *http.Request, page int) ([]catalog.MovieRecord, error) {
		query, err := validators.RequireQueryString(r, "query")
		if err != nil {
			return nil, err
		}
		return client.Search(r.Context(), query, page)
	})
}

func MoviesPopular(client *catalog.Client, logg *logger.Logger) http.HandlerFunc {
	return movieListHandler(logg, func(r *http.Request, page int) ([]catalog.MovieRecord, error) {
		return client.GetPopular(r.Context(), page)
	})
}

func MoviesTopRated(client *catalog.Client, logg *logger.Logger) http.HandlerFunc {
	return movieListHandler(logg, func(r *http.Request, page int) ([]catalog.MovieRecord, error) {
		return client.GetTopRated(r.Context(), page)
	})
}

func MoviesNowPlaying(client *catalog.Client, logg *logger.Logger) http.HandlerFunc {
	return movieListHandler(logg, func(r *http.Request, page int) ([]catalog.MovieRecord, error) {
		return client.GetNowPlaying(r.Context(), page)
	})
}

func MoviesTrending(client *catalog.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		window := catalog.TrendingWindow(r.URL.Query().Get("window"))
		if window == "" {
			window = catalog.TrendingDay
		}

		movies, err := client.GetTrending(ctx, window)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"window": window, "results": movies})
	}
}

func MoviesByGenre(client *catalog.Client, logg *logger.Logger) http.HandlerFunc {
	return movieListHandler(logg, func(r *http.Request, page int) ([]catalog.MovieRecord, error) {
		genreID, err := strconv.Atoi(chi.URLParam(r, "genreID"))
		if err != nil || genreID <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "genre id must be a positive integer")
		}
		return client.GetByGenre(r.Context(), genreID, page)
	})
}

func MovieDetails(client *catalog.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		movieID, err := strconv.ParseInt(chi.URLParam(r, "movieID"), 10, 64)
		if err != nil || movieID <= 0 {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "movie id must be a positive integer"))
			return
		}

		movie, err := client.GetDetails(ctx, movieID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, movie)
	}
}

// MoviePoster resolves a poster URL by title and optional year, backed by the
// client's memo cache.
func MoviePoster(client *catalog.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		title, err := validators.RequireQueryString(r, "title")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		year, err := validators.ParseQueryInt(r, "year", 0, 0, 2100)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		url, err := client.PosterURL(ctx, title, year)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"title": title, "poster_url": url})
	}
}
