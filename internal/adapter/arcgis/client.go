package arcgis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/couchcryptid/weatherbox/internal/domain"
	"github.com/couchcryptid/weatherbox/internal/observability"
)

// Client implements domain.Geocoder using the ArcGIS World Geocoding API.
// The findAddressCandidates endpoint is free for non-stored lookups and
// needs no API token.
type Client struct {
	httpClient *resty.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates an ArcGIS geocoding client.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient: httpClient,
		logger:     logger,
		metrics:    metrics,
	}
}

// Geocode resolves "{city}, {state}" to coordinates. A place the provider
// has no candidates for yields a domain.LocationNotFoundError.
func (c *Client) Geocode(ctx context.Context, city, state string) (domain.Coordinates, error) {
	location := fmt.Sprintf("%s, %s", city, state)

	var result response
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"f":            "json",
			"singleLine":   location,
			"maxLocations": "1",
			"outFields":    "none",
		}).
		SetResult(&result).
		Get("/findAddressCandidates")
	if err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return domain.Coordinates{}, fmt.Errorf("geocode request: %w", err)
	}
	if resp.IsError() {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return domain.Coordinates{}, fmt.Errorf("geocoder API error: status %d: %s", resp.StatusCode(), resp.String())
	}

	if len(result.Candidates) == 0 {
		c.metrics.GeocodeRequests.WithLabelValues("not_found").Inc()
		return domain.Coordinates{}, domain.LocationNotFoundError{Location: location}
	}

	best := result.Candidates[0]
	c.metrics.GeocodeRequests.WithLabelValues("success").Inc()
	c.logger.Debug("geocoded location",
		"location", location,
		"lat", best.Location.Y,
		"lon", best.Location.X,
		"score", best.Score,
	)

	return domain.Coordinates{Lat: best.Location.Y, Lon: best.Location.X}, nil
}

// ArcGIS API response types.

type response struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Address  string  `json:"address"`
	Location point   `json:"location"`
	Score    float64 `json:"score"`
}

type point struct {
	X float64 `json:"x"` // longitude
	Y float64 `json:"y"` // latitude
}
