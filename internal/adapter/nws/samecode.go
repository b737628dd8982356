package nws

import (
	"context"
	"strings"

	"github.com/couchcryptid/weatherbox/internal/domain"
)

// ActiveAlertsForSAMECode fetches active alerts for one SAME code. The
// code's native identifier space is ambiguous (area, zone, or county), so
// a fixed sequence of candidate queries is tried in order and the first
// HTTP success with a parseable body wins, even when it matched nothing.
// Results are never merged across candidates. Only total exhaustion
// returns an error, and then the last one encountered.
func (c *Client) ActiveAlertsForSAMECode(ctx context.Context, code string) ([]domain.Alert, error) {
	type attempt struct {
		path     string
		endpoint string
		filter   bool // unscoped endpoint needs client-side filtering
	}

	attempts := []attempt{
		{"/alerts/active", "active", true},
		{"/alerts/active/area/" + code, "area", false},
		{"/alerts/active/zone/" + code, "zone", false},
		{"/alerts/active/county/" + code, "county", false},
	}
	if len(code) == 6 {
		state := code[:2]
		zone := strings.TrimLeft(code[2:], "0")
		attempts = append(attempts,
			attempt{"/alerts/active/zone/" + state + "Z" + zone, "zone", false},
			attempt{"/alerts/active/county/" + state + "C" + zone, "county", false},
		)
	}

	var lastErr error
	for i, a := range attempts {
		var feed domain.FeatureCollection
		if err := c.get(ctx, a.path, a.endpoint, &feed); err != nil {
			c.logger.Warn("SAME code query failed", "code", code, "path", a.path, "error", err)
			lastErr = err
			continue
		}

		c.metrics.CascadeDepth.Observe(float64(i + 1))
		features := feed.Features
		if a.filter {
			features = filterBySAMECode(features, code)
		}
		return c.collect(features, code), nil
	}

	c.logger.Error("all endpoints failed for SAME code", "code", code)
	return nil, lastErr
}

// filterBySAMECode keeps the features whose affected zones plausibly refer
// to the code. Zone IDs are the last path segment of each affected-zone
// URL; a match is a substring hit in either direction between any zone ID
// and any spelling of the code.
func filterBySAMECode(features []domain.Feature, code string) []domain.Feature {
	formats := sameCodeFormats(code)

	var matched []domain.Feature
	for _, f := range features {
		if matchesAnyZone(f.Properties.AffectedZones, formats) {
			matched = append(matched, f)
		}
	}
	return matched
}

// sameCodeFormats enumerates the spellings a SAME code might appear under
// in zone identifiers. A 6-character PSSCCC code additionally yields the
// state-prefixed zone and county forms with the subdivision's leading
// zeros stripped, plus its bare components.
func sameCodeFormats(code string) []string {
	formats := []string{
		code,
		strings.ToUpper(code),
		strings.ToLower(code),
	}

	if len(code) == 6 {
		state := code[:2]
		zone := code[2:]
		stripped := strings.TrimLeft(zone, "0")
		formats = append(formats,
			state+"Z"+stripped,
			state+"C"+stripped,
			state,
			zone,
			stripped,
		)
	}

	return formats
}

func matchesAnyZone(affectedZones, formats []string) bool {
	for _, ref := range affectedZones {
		zoneID := lastPathSegment(ref)
		if zoneID == "" {
			continue
		}
		for _, format := range formats {
			if format == "" {
				continue
			}
			if strings.Contains(zoneID, format) || strings.Contains(format, zoneID) {
				return true
			}
		}
	}
	return false
}
