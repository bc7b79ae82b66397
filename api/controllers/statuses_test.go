package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/filmatch/filmatch-backend/internal/statuses"
	"github.com/filmatch/filmatch-backend/pkg/enums"
)

type stubStatusSvc struct {
	dto       statuses.StatusDTO
	rows      []statuses.StatusDTO
	err       error
	gotStatus enums.MovieStatus
	gotRating *int
}

func (s *stubStatusSvc) SetStatus(ctx context.Context, userID uuid.UUID, movieID int64, status enums.MovieStatus, rating *int) (statuses.StatusDTO, error) {
	s.gotStatus = status
	s.gotRating = rating
	return s.dto, s.err
}

func (s *stubStatusSvc) GetStatus(ctx context.Context, userID uuid.UUID, movieID int64) (statuses.StatusDTO, error) {
	return s.dto, s.err
}

func (s *stubStatusSvc) ListByStatus(ctx context.Context, userID uuid.UUID, status enums.MovieStatus) ([]statuses.StatusDTO, error) {
	s.gotStatus = status
	return s.rows, s.err
}

func TestStatusSetForwardsRating(t *testing.T) {
	svc := &stubStatusSvc{dto: statuses.StatusDTO{MovieID: 603, Status: enums.MovieStatusWatched}}
	handler := StatusSet(svc, nil)

	req := authedRequest(http.MethodPost, "/api/v1/statuses", []byte(`{"movie_id":603,"status":"watched","rating":4}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.gotStatus != enums.MovieStatusWatched {
		t.Fatalf("expected watched forwarded got %q", svc.gotStatus)
	}
	if svc.gotRating == nil || *svc.gotRating != 4 {
		t.Fatalf("expected rating 4 forwarded got %v", svc.gotRating)
	}
}

func TestStatusSetRejectsUnknownStatus(t *testing.T) {
	handler := StatusSet(&stubStatusSvc{}, nil)
	req := authedRequest(http.MethodPost, "/api/v1/statuses", []byte(`{"movie_id":603,"status":"maybe"}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status got %d", resp.Code)
	}
}

func TestStatusGetValidatesMovieID(t *testing.T) {
	handler := StatusGet(&stubStatusSvc{}, nil)

	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("movieID", "abc")
	req := authedRequest(http.MethodGet, "/api/v1/statuses/abc", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric movie id got %d", resp.Code)
	}
}

func TestStatusListRequiresStatusParam(t *testing.T) {
	handler := StatusList(&stubStatusSvc{}, nil)
	req := authedRequest(http.MethodGet, "/api/v1/statuses", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without status filter got %d", resp.Code)
	}
}

func TestStatusListWrapsRows(t *testing.T) {
	svc := &stubStatusSvc{rows: []statuses.StatusDTO{
		{MovieID: 603, Status: enums.MovieStatusWatchlist},
		{MovieID: 604, Status: enums.MovieStatusWatchlist},
	}}
	handler := StatusList(svc, nil)

	req := authedRequest(http.MethodGet, "/api/v1/statuses?status=watchlist", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data struct {
			Status string               `json:"status"`
			Movies []statuses.StatusDTO `json:"movies"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Status != "watchlist" || len(envelope.Data.Movies) != 2 {
		t.Fatalf("expected two watchlist rows got %+v", envelope.Data)
	}
}
