package statuses

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/filmatch/filmatch-backend/pkg/db/models"
	"github.com/filmatch/filmatch-backend/pkg/enums"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	silent := gormlogger.New(log.New(io.Discard, "", log.LstdFlags), gormlogger.Config{LogLevel: gormlogger.Silent})
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: silent})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}

	ddl := []string{
		`CREATE TABLE user_profiles (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL DEFAULT '',
			display_name TEXT NOT NULL DEFAULT '',
			onboarding_completed BOOLEAN NOT NULL DEFAULT FALSE,
			watched_movies INTEGER NOT NULL DEFAULT 0,
			watchlist_movies INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE user_movie_statuses (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			movie_id INTEGER NOT NULL,
			status TEXT NOT NULL DEFAULT 'none',
			rating INTEGER,
			created_at DATETIME,
			updated_at DATETIME,
			UNIQUE (user_id, movie_id)
		)`,
	}
	for _, stmt := range ddl {
		if err := conn.Exec(stmt).Error; err != nil {
			t.Fatalf("creating schema: %v", err)
		}
	}
	return conn
}

func seedProfile(t *testing.T, conn *gorm.DB, userID uuid.UUID) {
	t.Helper()
	profile := models.UserProfile{
		ID:          uuid.New(),
		UserID:      userID,
		Email:       "test@filmatch.live",
		DisplayName: "tester",
	}
	if err := conn.Create(&profile).Error; err != nil {
		t.Fatalf("seeding profile: %v", err)
	}
}

func counters(t *testing.T, conn *gorm.DB, userID uuid.UUID) (int, int) {
	t.Helper()
	var profile models.UserProfile
	if err := conn.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		t.Fatalf("loading profile: %v", err)
	}
	return profile.WatchedMovies, profile.WatchlistMovies
}

func TestSetStatusAdjustsCounters(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	userID := uuid.New()
	seedProfile(t, conn, userID)
	repo := NewRepository(conn)

	prev, err := repo.SetStatus(ctx, userID, 603, enums.MovieStatusWatched, nil)
	if err != nil {
		t.Fatalf("set watched: %v", err)
	}
	if prev != enums.MovieStatusNone {
		t.Fatalf("expected previous status none, got %q", prev)
	}
	if watched, watchlist := counters(t, conn, userID); watched != 1 || watchlist != 0 {
		t.Fatalf("expected 1/0, got %d/%d", watched, watchlist)
	}

	prev, err = repo.SetStatus(ctx, userID, 603, enums.MovieStatusWatchlist, nil)
	if err != nil {
		t.Fatalf("move to watchlist: %v", err)
	}
	if prev != enums.MovieStatusWatched {
		t.Fatalf("expected previous status watched, got %q", prev)
	}
	if watched, watchlist := counters(t, conn, userID); watched != 0 || watchlist != 1 {
		t.Fatalf("expected 0/1, got %d/%d", watched, watchlist)
	}

	if _, err := repo.SetStatus(ctx, userID, 603, enums.MovieStatusNone, nil); err != nil {
		t.Fatalf("clear status: %v", err)
	}
	if watched, watchlist := counters(t, conn, userID); watched != 0 || watchlist != 0 {
		t.Fatalf("expected 0/0 after clearing, got %d/%d", watched, watchlist)
	}
}

func TestSetStatusSameStatusIsIdempotent(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	userID := uuid.New()
	seedProfile(t, conn, userID)
	repo := NewRepository(conn)

	for i := 0; i < 3; i++ {
		if _, err := repo.SetStatus(ctx, userID, 42, enums.MovieStatusWatched, nil); err != nil {
			t.Fatalf("set watched: %v", err)
		}
	}
	if watched, _ := counters(t, conn, userID); watched != 1 {
		t.Fatalf("repeated sets must not inflate the counter, got %d", watched)
	}

	var count int64
	if err := conn.Model(&models.UserMovieStatus{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		t.Fatalf("counting rows: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single status row, got %d", count)
	}
}

func TestSetStatusStoresRating(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	userID := uuid.New()
	seedProfile(t, conn, userID)
	repo := NewRepository(conn)

	rating := 4
	if _, err := repo.SetStatus(ctx, userID, 7, enums.MovieStatusWatched, &rating); err != nil {
		t.Fatalf("set with rating: %v", err)
	}

	row, err := repo.GetStatus(ctx, userID, 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if row.Rating == nil || *row.Rating != 4 {
		t.Fatalf("rating not stored: %+v", row)
	}

	rating = 5
	if _, err := repo.SetStatus(ctx, userID, 7, enums.MovieStatusWatched, &rating); err != nil {
		t.Fatalf("re-rate: %v", err)
	}
	row, err = repo.GetStatus(ctx, userID, 7)
	if err != nil {
		t.Fatalf("get after re-rate: %v", err)
	}
	if row.Rating == nil || *row.Rating != 5 {
		t.Fatalf("rating not updated: %+v", row)
	}
}

func TestListByStatusFiltersRows(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	userID := uuid.New()
	seedProfile(t, conn, userID)
	repo := NewRepository(conn)

	for movieID, status := range map[int64]enums.MovieStatus{
		1: enums.MovieStatusWatched,
		2: enums.MovieStatusWatchlist,
		3: enums.MovieStatusWatched,
	} {
		if _, err := repo.SetStatus(ctx, userID, movieID, status, nil); err != nil {
			t.Fatalf("seed status: %v", err)
		}
	}

	rows, err := repo.ListByStatus(ctx, userID, enums.MovieStatusWatched)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 watched rows, got %d", len(rows))
	}
	for _, row := range rows {
		if row.Status != enums.MovieStatusWatched {
			t.Fatalf("unexpected row %+v", row)
		}
	}
}
