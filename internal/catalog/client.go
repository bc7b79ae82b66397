package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/filmatch/filmatch-backend/pkg/config"
	pkgerrors "github.com/filmatch/filmatch-backend/pkg/errors"
	"github.com/filmatch/filmatch-backend/pkg/logger"
	"github.com/filmatch/filmatch-backend/pkg/metrics"
)

// TrendingWindow selects the trending aggregation period.
type TrendingWindow string

const (
	TrendingDay  TrendingWindow = "day"
	TrendingWeek TrendingWindow = "week"
)

func (w TrendingWindow) valid() bool {
	return w == TrendingDay || w == TrendingWeek
}

type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CatalogCacheKey(parts ...string) string
}

// Client talks to the TMDB API and normalizes every response into MovieRecord.
type Client struct {
	cfg     config.TMDBConfig
	http    *http.Client
	cache   cacheStore
	metrics *metrics.AppMetrics
	logg    *logger.Logger

	genreMu    sync.Mutex
	genreNames map[int]string

	posterMu   sync.Mutex
	posterMemo map[string]string
}

// ClientParams groups the dependencies for a catalog client.
type ClientParams struct {
	Config  config.TMDBConfig
	Cache   cacheStore
	Metrics *metrics.AppMetrics
	Logger  *logger.Logger
}

// NewClient builds a catalog client. Cache and metrics are optional.
func NewClient(params ClientParams) (*Client, error) {
	if params.Config.APIKey == "" {
		return nil, fmt.Errorf("tmdb api key is required")
	}
	if params.Config.BaseURL == "" {
		return nil, fmt.Errorf("tmdb base url is required")
	}
	timeout := params.Config.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		cfg:        params.Config,
		http:       &http.Client{Timeout: timeout},
		cache:      params.Cache,
		metrics:    params.Metrics,
		logg:       params.Logger,
		posterMemo: map[string]string{},
	}, nil
}

// Search returns movies matching the query.
func (c *Client) Search(ctx context.Context, query string, page int) ([]MovieRecord, error) {
	params := url.Values{}
	params.Set("query", query)
	return c.fetchList(ctx, "search", "/search/movie", params, page, false)
}

// GetPopular returns the popular movie list.
func (c *Client) GetPopular(ctx context.Context, page int) ([]MovieRecord, error) {
	return c.fetchList(ctx, "popular", "/movie/popular", nil, page, true)
}

// GetTopRated returns the top rated movie list.
func (c *Client) GetTopRated(ctx context.Context, page int) ([]MovieRecord, error) {
	return c.fetchList(ctx, "top_rated", "/movie/top_rated", nil, page, true)
}

// GetNowPlaying returns the now playing movie list.
func (c *Client) GetNowPlaying(ctx context.Context, page int) ([]MovieRecord, error) {
	return c.fetchList(ctx, "now_playing", "/movie/now_playing", nil, page, true)
}

// GetTrending returns the trending list for the given window.
func (c *Client) GetTrending(ctx context.Context, window TrendingWindow) ([]MovieRecord, error) {
	if !window.valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "trending window must be day or week")
	}
	return c.fetchList(ctx, "trending_"+string(window), "/trending/movie/"+string(window), nil, 1, true)
}

// GetByGenre returns movies for a TMDB genre id.
func (c *Client) GetByGenre(ctx context.Context, genreID, page int) ([]MovieRecord, error) {
	if genreID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "genre id is required")
	}
	params := url.Values{}
	params.Set("with_genres", strconv.Itoa(genreID))
	params.Set("sort_by", "popularity.desc")
	return c.fetchList(ctx, "by_genre", "/discover/movie", params, page, true)
}

// GetDetails returns the full record for one movie.
func (c *Client) GetDetails(ctx context.Context, movieID int64) (*MovieRecord, error) {
	if movieID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "movie id is required")
	}

	params := url.Values{}
	params.Set("append_to_response", "credits")

	body, status, err := c.doGet(ctx, "details", fmt.Sprintf("/movie/%d", movieID), params)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "movie not found")
	}
	if status != http.StatusOK {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("catalog returned status %d", status))
	}

	var raw rawMovieDetail
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode movie detail")
	}
	record, err := parseMovieDetail(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse movie detail")
	}
	return &record, nil
}

// PosterURL resolves a full poster image URL for a title+year pair, memoizing
// the lookup. The memo never evicts.
func (c *Client) PosterURL(ctx context.Context, title string, year int) (string, error) {
	key := fmt.Sprintf("%s|%d", title, year)

	c.posterMu.Lock()
	cached, ok := c.posterMemo[key]
	c.posterMu.Unlock()
	if ok {
		return cached, nil
	}

	records, err := c.Search(ctx, title, 1)
	if err != nil {
		return "", err
	}

	path := ""
	for _, record := range records {
		if record.PosterPath == nil {
			continue
		}
		if year == 0 || record.Year == year {
			path = *record.PosterPath
			break
		}
	}
	if path == "" && len(records) > 0 && records[0].PosterPath != nil {
		path = *records[0].PosterPath
	}

	full := ""
	if path != "" {
		full = c.cfg.ImageBaseURL + path
	}

	c.posterMu.Lock()
	c.posterMemo[key] = full
	c.posterMu.Unlock()

	return full, nil
}

func (c *Client) fetchList(ctx context.Context, endpoint, path string, params url.Values, page int, cacheable bool) ([]MovieRecord, error) {
	if page <= 0 {
		page = 1
	}

	cacheKey := ""
	if cacheable && c.cache != nil {
		cacheKey = c.cache.CatalogCacheKey(endpoint, strconv.Itoa(page))
		if cached, err := c.cache.Get(ctx, cacheKey); err == nil {
			var records []MovieRecord
			if err := json.Unmarshal([]byte(cached), &records); err == nil {
				c.metrics.IncCatalogCache("hit")
				return records, nil
			}
		}
		c.metrics.IncCatalogCache("miss")
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("page", strconv.Itoa(page))

	body, status, err := c.doGet(ctx, endpoint, path, params)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("catalog returned status %d", status))
	}

	var raw listResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode movie list")
	}

	genreName, err := c.genreLookup(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]MovieRecord, 0, len(raw.Results))
	for _, entry := range raw.Results {
		record, err := parseMovie(entry, genreName)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse movie list")
		}
		records = append(records, record)
	}

	if cacheKey != "" {
		if payload, err := json.Marshal(records); err == nil {
			if err := c.cache.Set(ctx, cacheKey, string(payload), c.cfg.CacheTTL); err != nil && c.logg != nil {
				c.logg.Warn(c.logg.WithField(ctx, "endpoint", endpoint), "catalog cache write failed")
			}
		}
	}

	return records, nil
}

// genreLookup returns a resolver over the lazily loaded genre id map.
func (c *Client) genreLookup(ctx context.Context) (func(int) (string, bool), error) {
	c.genreMu.Lock()
	defer c.genreMu.Unlock()

	if c.genreNames == nil {
		body, status, err := c.doGet(ctx, "genres", "/genre/movie/list", nil)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			return nil, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("catalog returned status %d", status))
		}
		var raw genreListResponse
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode genre list")
		}
		names := make(map[int]string, len(raw.Genres))
		for _, g := range raw.Genres {
			if g.ID > 0 && g.Name != "" {
				names[g.ID] = g.Name
			}
		}
		c.genreNames = names
	}

	names := c.genreNames
	return func(id int) (string, bool) {
		name, ok := names[id]
		return name, ok
	}, nil
}

func (c *Client) doGet(ctx context.Context, endpoint, path string, params url.Values) ([]byte, int, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build catalog request")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	c.metrics.ObserveCatalogRequest(endpoint, time.Since(start))
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read catalog response")
	}
	return body, resp.StatusCode, nil
}
