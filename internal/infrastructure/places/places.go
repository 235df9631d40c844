package places

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"website_revolution/internal/domain"
	"website_revolution/internal/domain/entity"
	"website_revolution/internal/domain/value"
	"website_revolution/pkg/contextx"
	"website_revolution/pkg/errcodes"
	"website_revolution/pkg/httpx"
	"website_revolution/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const (
	DefaultBaseURL    = "https://maps.googleapis.com/maps/api/place"
	defaultMaxResults = 20
	detailsLimit      = 5
	detailsFields     = "formatted_phone_number,international_phone_number,website"
)

// Places API response statuses.
const (
	statusOK             = "OK"
	statusZeroResults    = "ZERO_RESULTS"
	statusRequestDenied  = "REQUEST_DENIED"
	statusInvalidRequest = "INVALID_REQUEST"
)

type Config struct {
	APIKey     string
	BaseURL    string
	MaxResults int
	RetryMax   int
	Timeout    time.Duration
}

// Client finds businesses through the Google Places Text Search and Place
// Details endpoints.
type Client struct {
	http       *retryablehttp.Client
	apiKey     string
	baseURL    string
	maxResults int
}

func NewClient(cfg Config, opts ...httpx.Option) *Client {
	rc := retryablehttp.NewClient()
	rc.Logger = nil
	rc.RetryMax = cfg.RetryMax
	rc.HTTPClient.Transport = httpx.NewLoggingRoundTripper(rc.HTTPClient.Transport, opts...)

	if cfg.Timeout > 0 {
		rc.HTTPClient.Timeout = cfg.Timeout
	}

	c := &Client{
		http:       rc,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		maxResults: cfg.MaxResults,
	}

	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}

	if c.maxResults <= 0 {
		c.maxResults = defaultMaxResults
	}

	return c
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

func (c *Client) Search(ctx context.Context, query value.SearchQuery) ([]entity.Place, error) {
	if !c.Configured() {
		return nil, domain.ErrSetupRequired
	}

	body, err := c.get(ctx, "/textsearch/json", url.Values{"query": {query.Text()}})
	if err != nil {
		return nil, err
	}

	if err := checkStatus(body); err != nil {
		if domain.HasCode(err, errcodes.NotFound) {
			return []entity.Place{}, nil
		}
		return nil, err
	}

	results := gjson.GetBytes(body, "results").Array()
	if len(results) > c.maxResults {
		results = results[:c.maxResults]
	}

	places := make([]entity.Place, 0, len(results))
	for _, r := range results {
		places = append(places, entity.Place{
			ID:      r.Get("place_id").Str,
			Name:    r.Get("name").Str,
			Address: r.Get("formatted_address").Str,
			Rating:  r.Get("rating").Float(),
			Reviews: int(r.Get("user_ratings_total").Int()),
		})
	}

	if err := c.enrich(ctx, places); err != nil {
		return nil, err
	}

	return places, nil
}

func (c *Client) enrich(ctx context.Context, places []entity.Place) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(detailsLimit)

	for i := range places {
		if places[i].ID == "" {
			continue
		}

		g.Go(func() error {
			phone, website, err := c.details(gctx, places[i].ID)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}

				logger(gctx).Warn("place details unavailable",
					slog.String(logx.FieldBusinessID, places[i].ID),
					logx.Error(err),
				)

				return nil
			}

			places[i].Phone = phone
			places[i].Website = website

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("places.enrich: %w", err)
	}

	return nil
}

func (c *Client) details(ctx context.Context, placeID string) (string, string, error) {
	body, err := c.get(ctx, "/details/json", url.Values{
		"place_id": {placeID},
		"fields":   {detailsFields},
	})
	if err != nil {
		return "", "", err
	}

	if err := checkStatus(body); err != nil {
		return "", "", err
	}

	result := gjson.GetBytes(body, "result")
	phone := result.Get("formatted_phone_number").Str
	if phone == "" {
		phone = result.Get("international_phone_number").Str
	}

	return phone, result.Get("website").Str, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	params.Set("key", c.apiKey)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("retryablehttp.NewRequestWithContext: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("places.get: %w", ctx.Err())
		}
		return nil, domain.WrapError(err, errcodes.PlacesUnavailable, "places request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.PlacesUnavailable, "places response unreadable")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewError(
			errcodes.PlacesUnavailable,
			fmt.Sprintf("places responded with status %d", resp.StatusCode),
		)
	}

	return body, nil
}

// checkStatus maps the API status field. ZERO_RESULTS is reported with the
// NotFound code so callers can treat it as an empty listing.
func checkStatus(body []byte) error {
	status := gjson.GetBytes(body, "status").Str
	message := gjson.GetBytes(body, "error_message").Str

	switch status {
	case statusOK:
		return nil
	case statusZeroResults:
		return domain.NewError(errcodes.NotFound, "no places found")
	case statusRequestDenied:
		return domain.WrapError(
			domain.ErrSetupRequired,
			errcodes.SetupRequired,
			"places request denied: "+message,
		)
	case statusInvalidRequest:
		return domain.NewError(errcodes.InvalidSearchQuery, "places rejected the query: "+message)
	default:
		return domain.NewError(errcodes.PlacesUnavailable, fmt.Sprintf("places status %q: %s", status, message))
	}
}
