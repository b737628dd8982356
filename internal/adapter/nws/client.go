package nws

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/couchcryptid/weatherbox/internal/domain"
	"github.com/couchcryptid/weatherbox/internal/observability"
)

// Client talks to the National Weather Service public API. It serves both
// lookup paths: points resolution plus zone-scoped alert queries for
// location lookups, and the endpoint cascade for SAME code lookups.
type Client struct {
	httpClient *resty.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates an NWS API client. The API rejects requests without a
// client-identifying User-Agent.
func NewClient(baseURL, userAgent string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/geo+json")

	return &Client{
		httpClient: httpClient,
		logger:     logger,
		metrics:    metrics,
	}
}

// ResolveZones maps coordinates to the county and forecast zone covering
// them. Coordinates are sent with four decimals, the API's maximum
// precision. A response missing either reference yields an empty ZoneRefs
// and no error: no alert areas are determinable for the point, which is
// not a transport failure.
func (c *Client) ResolveZones(ctx context.Context, coords domain.Coordinates) (domain.ZoneRefs, error) {
	var result pointsResponse
	path := fmt.Sprintf("/points/%.4f,%.4f", coords.Lat, coords.Lon)
	if err := c.get(ctx, path, "points", &result); err != nil {
		return domain.ZoneRefs{}, err
	}

	county := lastPathSegment(result.Properties.County)
	zone := lastPathSegment(result.Properties.ForecastZone)
	if county == "" || zone == "" {
		c.logger.Warn("points lookup missing county or zone",
			"lat", coords.Lat,
			"lon", coords.Lon,
		)
		return domain.ZoneRefs{}, nil
	}

	return domain.ZoneRefs{CountyID: county, ForecastZoneID: zone}, nil
}

// ActiveAlertsForZones fetches active alerts for the county and forecast
// zone, both through the zone-scoped endpoint, and concatenates the
// results. A failed sub-query is logged and skipped so one dead endpoint
// cannot blank out the other's results.
func (c *Client) ActiveAlertsForZones(ctx context.Context, refs domain.ZoneRefs) ([]domain.Alert, error) {
	queries := []struct {
		id    string
		label string
	}{
		{refs.CountyID, "County: " + refs.CountyID},
		{refs.ForecastZoneID, "Zone: " + refs.ForecastZoneID},
	}

	var alerts []domain.Alert
	for _, q := range queries {
		if q.id == "" {
			continue
		}
		var feed domain.FeatureCollection
		if err := c.get(ctx, "/alerts/active/zone/"+q.id, "zone", &feed); err != nil {
			c.logger.Warn("alert query failed", "area", q.label, "error", err)
			continue
		}
		alerts = append(alerts, c.collect(feed.Features, q.label)...)
	}

	return alerts, nil
}

// collect normalizes feed entries under an area label, counting rejects.
func (c *Client) collect(features []domain.Feature, areaCode string) []domain.Alert {
	alerts := domain.CollectAlerts(features, areaCode, c.logger)
	if n := len(features) - len(alerts); n > 0 {
		c.metrics.AlertsDiscarded.Add(float64(n))
	}
	return alerts
}

// get executes one GET against the API, recording request metrics under
// the endpoint label.
func (c *Client) get(ctx context.Context, path, endpoint string, out any) error {
	start := time.Now()
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(out).
		Get(path)
	c.metrics.NWSRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	if err != nil {
		c.metrics.NWSRequests.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("nws %s request: %w", endpoint, err)
	}
	if resp.IsError() {
		c.metrics.NWSRequests.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("nws API error: status %d: %s", resp.StatusCode(), resp.String())
	}

	c.metrics.NWSRequests.WithLabelValues(endpoint, "success").Inc()
	return nil
}

// lastPathSegment extracts the identifier from a reference URL, e.g.
// "https://api.weather.gov/zones/forecast/TXZ192" -> "TXZ192".
func lastPathSegment(ref string) string {
	parts := strings.Split(ref, "/")
	return parts[len(parts)-1]
}

// NWS points API response types.

type pointsResponse struct {
	Properties pointsProperties `json:"properties"`
}

type pointsProperties struct {
	County       string `json:"county"`
	ForecastZone string `json:"forecastZone"`
}
