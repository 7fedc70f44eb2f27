package metricsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"github.com/wadjakorntonsri/metrikenos/pkg/config"
	"github.com/wadjakorntonsri/metrikenos/pkg/core/domain"
	"github.com/wadjakorntonsri/metrikenos/pkg/logging"
	"github.com/wadjakorntonsri/metrikenos/pkg/metrics"
	"github.com/wadjakorntonsri/metrikenos/pkg/ports"
)

// Client calls the external metrics-scraping backend. Every call posts
// {"url": ...} and expects a JSON object of numeric counters.
type Client struct {
	httpClient      *http.Client
	baseURL         string
	publicationPath string
	profilePath     string
	limiter         *rate.Limiter
	log             zerolog.Logger
}

// NewClient builds a client from config. When client credentials are
// configured the backend is called with an OAuth2 bearer token.
func NewClient(ctx context.Context, cfg config.MetricsConfig, log zerolog.Logger) *Client {
	var hc *http.Client
	if cfg.ClientID != "" && cfg.TokenURL != "" {
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		}
		hc = cc.Client(ctx)
	} else {
		hc = &http.Client{}
	}
	hc.Timeout = cfg.Timeout

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		httpClient:      hc,
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		publicationPath: cfg.PublicationPath,
		profilePath:     cfg.ProfilePath,
		limiter:         rate.NewLimiter(limit, burst),
		log:             logging.Component(log, "metricsapi"),
	}
}

type publicationResponse struct {
	Likes    *float64 `json:"likes"`
	Comments *float64 `json:"comments"`
	Shares   *float64 `json:"shares"`
}

type profileResponse struct {
	Followers *float64 `json:"followers"`
	Likes     *float64 `json:"likes"`
	Posts     *float64 `json:"posts"`
}

// FetchPublication returns likes/comments/shares for a post URL.
// likes is required; missing comments or shares count as 0.
func (c *Client) FetchPublication(ctx context.Context, url string) (*domain.PublicationMetrics, error) {
	start := time.Now()
	var resp publicationResponse
	err := c.post(ctx, c.publicationPath, url, &resp)
	if err == nil && resp.Likes == nil {
		err = fmt.Errorf("%w: response for %s has no likes", domain.ErrMetricsUnavailable, url)
	}
	metrics.RecordFetch("publication", err, time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	return &domain.PublicationMetrics{
		Likes:    count(resp.Likes),
		Comments: count(resp.Comments),
		Shares:   count(resp.Shares),
	}, nil
}

// FetchProfile returns followers/likes/posts for a profile URL.
// followers is required.
func (c *Client) FetchProfile(ctx context.Context, url string) (*domain.ProfileMetrics, error) {
	start := time.Now()
	var resp profileResponse
	err := c.post(ctx, c.profilePath, url, &resp)
	if err == nil && resp.Followers == nil {
		err = fmt.Errorf("%w: response for %s has no followers", domain.ErrMetricsUnavailable, url)
	}
	metrics.RecordFetch("profile", err, time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	return &domain.ProfileMetrics{
		Followers: count(resp.Followers),
		Likes:     count(resp.Likes),
		Posts:     count(resp.Posts),
	}, nil
}

func (c *Client) post(ctx context.Context, path, target string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMetricsUnavailable, err)
	}

	body, err := json.Marshal(map[string]string{"url": target})
	if err != nil {
		return err
	}

	endpoint := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMetricsUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str(logging.URL, target).Msg("metrics request failed")
		return fmt.Errorf("%w: %v", domain.ErrMetricsUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Warn().Int("status", resp.StatusCode).Str(logging.URL, target).Msg("metrics service rejected request")
		return fmt.Errorf("%w: status %d: %s", domain.ErrMetricsUnavailable, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.log.Warn().Err(err).Str(logging.URL, target).Msg("malformed metrics response")
		return fmt.Errorf("%w: malformed response: %v", domain.ErrMetricsUnavailable, err)
	}
	return nil
}

func count(v *float64) int64 {
	if v == nil || *v < 0 {
		return 0
	}
	return int64(*v)
}

// Ensure interface compliance
var _ ports.MetricsFetcher = (*Client)(nil)
