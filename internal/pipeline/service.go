package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/couchcryptid/weatherbox/internal/domain"
	"github.com/couchcryptid/weatherbox/internal/observability"
)

// ZoneResolver maps coordinates to the NWS area identifiers covering them.
type ZoneResolver interface {
	ResolveZones(ctx context.Context, coords domain.Coordinates) (domain.ZoneRefs, error)
}

// AlertSource fetches active alerts from the alert API.
type AlertSource interface {
	ActiveAlertsForZones(ctx context.Context, refs domain.ZoneRefs) ([]domain.Alert, error)
	ActiveAlertsForSAMECode(ctx context.Context, code string) ([]domain.Alert, error)
}

// Service orchestrates an alert lookup: geocode, resolve zones, fetch,
// dedupe, drop expired, rank by importance.
type Service struct {
	geocoder domain.Geocoder
	zones    ZoneResolver
	alerts   AlertSource
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// New creates a Service with the given collaborators and observability.
func New(geocoder domain.Geocoder, zones ZoneResolver, alerts AlertSource, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		geocoder: geocoder,
		zones:    zones,
		alerts:   alerts,
		logger:   logger,
		metrics:  metrics,
	}
}

// CheckReadiness reports whether the service can answer lookups. Lookups
// hold no connections or state between requests, so the service is ready
// once constructed.
func (s *Service) CheckReadiness(_ context.Context) error {
	return nil
}

// Coordinates resolves a place name to coordinates. Repeat calls for the
// same place are served by the geocoder's cache.
func (s *Service) Coordinates(ctx context.Context, city, state string) (domain.Coordinates, error) {
	return s.geocoder.Geocode(ctx, city, state)
}

// MostImportantForLocation returns the highest-scoring active alert for a
// place, or nil when none is active. Coordinate resolution failures
// propagate so callers can distinguish "unknown place" from "no alerts";
// everything past geocoding degrades to an empty result instead.
func (s *Service) MostImportantForLocation(ctx context.Context, city, state string) (*domain.Alert, error) {
	start := time.Now()
	defer func() {
		s.metrics.LookupDuration.Observe(time.Since(start).Seconds())
	}()

	coords, err := s.geocoder.Geocode(ctx, city, state)
	if err != nil {
		s.metrics.LocationLookups.WithLabelValues(geocodeOutcome(err)).Inc()
		return nil, fmt.Errorf("resolve coordinates for %s, %s: %w", city, state, err)
	}

	best := mostImportant(s.liveAlerts(s.alertsForCoordinates(ctx, coords)))
	if best == nil {
		s.metrics.LocationLookups.WithLabelValues("none").Inc()
		return nil, nil
	}

	s.metrics.LocationLookups.WithLabelValues("alert").Inc()
	return best, nil
}

// MostImportantPerCode returns the highest-scoring active alert for each
// requested SAME code. Every requested code appears as a key; codes with
// no surviving alert map to nil. A failed fetch for one code never blocks
// the others.
func (s *Service) MostImportantPerCode(ctx context.Context, codes []string) (map[string]*domain.Alert, error) {
	var fetched []domain.Alert
	failed := make(map[string]bool)
	for _, code := range codes {
		alerts, err := s.alerts.ActiveAlertsForSAMECode(ctx, code)
		if err != nil {
			s.logger.Warn("SAME code fetch failed", "code", code, "error", err)
			s.metrics.SameCodeLookups.WithLabelValues("error").Inc()
			failed[code] = true
			continue
		}
		fetched = append(fetched, alerts...)
	}

	live := s.liveAlerts(dedupeByID(fetched))

	result := make(map[string]*domain.Alert, len(codes))
	for _, code := range codes {
		best := mostImportantForCode(live, code)
		result[code] = best
		if failed[code] {
			continue
		}
		outcome := "none"
		if best != nil {
			outcome = "alert"
		}
		s.metrics.SameCodeLookups.WithLabelValues(outcome).Inc()
	}

	return result, nil
}

// alertsForCoordinates fetches and dedupes alerts for a point, degrading
// every failure to an empty result with a warning.
func (s *Service) alertsForCoordinates(ctx context.Context, coords domain.Coordinates) []domain.Alert {
	refs, err := s.zones.ResolveZones(ctx, coords)
	if err != nil {
		s.logger.Warn("zone resolution failed, treating as no alerts",
			"lat", coords.Lat,
			"lon", coords.Lon,
			"error", err,
		)
		return nil
	}
	if refs.Empty() {
		return nil
	}

	alerts, err := s.alerts.ActiveAlertsForZones(ctx, refs)
	if err != nil {
		s.logger.Warn("alert fetch failed, treating as no alerts",
			"county", refs.CountyID,
			"zone", refs.ForecastZoneID,
			"error", err,
		)
		return nil
	}

	return dedupeByID(alerts)
}

// liveAlerts drops expired alerts, judged against the package clock.
func (s *Service) liveAlerts(alerts []domain.Alert) []domain.Alert {
	now := clock.Now()
	live := make([]domain.Alert, 0, len(alerts))
	for _, a := range alerts {
		if a.IsExpired(now) {
			continue
		}
		live = append(live, a)
	}
	return live
}

// dedupeByID collapses alerts fetched under multiple areas into a single
// record carrying the union of area labels, preserving first-seen order.
// Alerts without an ID cannot be correlated and pass through untouched.
func dedupeByID(alerts []domain.Alert) []domain.Alert {
	seen := make(map[string]int, len(alerts))
	out := make([]domain.Alert, 0, len(alerts))
	for _, a := range alerts {
		if a.ID == "" {
			out = append(out, a)
			continue
		}
		i, ok := seen[a.ID]
		if !ok {
			seen[a.ID] = len(out)
			out = append(out, a)
			continue
		}
		for _, code := range a.AreaCodes {
			if !slices.Contains(out[i].AreaCodes, code) {
				out[i].AreaCodes = append(out[i].AreaCodes, code)
			}
		}
	}
	return out
}

// mostImportant selects the maximum-score alert; the first encountered
// wins ties. Returns nil for an empty slice.
func mostImportant(alerts []domain.Alert) *domain.Alert {
	var best *domain.Alert
	for i := range alerts {
		if best == nil || alerts[i].ImportanceScore() > best.ImportanceScore() {
			best = &alerts[i]
		}
	}
	return best
}

// mostImportantForCode selects among the alerts labeled with the code.
func mostImportantForCode(alerts []domain.Alert, code string) *domain.Alert {
	var best *domain.Alert
	for i := range alerts {
		if !slices.Contains(alerts[i].AreaCodes, code) {
			continue
		}
		if best == nil || alerts[i].ImportanceScore() > best.ImportanceScore() {
			best = &alerts[i]
		}
	}
	return best
}

func geocodeOutcome(err error) string {
	var notFound domain.LocationNotFoundError
	if errors.As(err, &notFound) {
		return "not_found"
	}
	return "error"
}
