package domain

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// FeatureCollection is the GeoJSON envelope returned by the NWS alert
// endpoints. Only the pieces the service reads are modeled.
type FeatureCollection struct {
	Features []Feature `json:"features"`
}

// Feature is one alert entry in a FeatureCollection.
type Feature struct {
	Properties FeatureProperties `json:"properties"`
}

// FeatureProperties carries the CAP fields of an alert. Timestamps arrive
// as strings because the feed mixes offset and offset-less forms.
type FeatureProperties struct {
	ID            string            `json:"id"`
	Event         string            `json:"event"`
	Headline      string            `json:"headline"`
	Description   string            `json:"description"`
	Instruction   string            `json:"instruction"`
	Severity      string            `json:"severity"`
	Urgency       string            `json:"urgency"`
	Certainty     string            `json:"certainty"`
	Onset         string            `json:"onset"`
	Expires       string            `json:"expires"`
	AffectedZones []string          `json:"affectedZones"`
	Parameters    FeatureParameters `json:"parameters"`
}

// FeatureParameters holds the subset of the free-form CAP parameter block
// the service uses. NWSheadline is the feed's own capitalization.
type FeatureParameters struct {
	NWSHeadline []string `json:"NWSheadline"`
}

// ParseAlertFeature normalizes one feed entry into an Alert labeled with
// the area it was fetched under. The only rejection condition is a missing
// or unparsable expiry; every other field degrades to its zero value.
func ParseAlertFeature(f Feature, areaCode string) (Alert, error) {
	p := f.Properties

	expires, err := parseTimestamp(p.Expires)
	if err != nil {
		return Alert{}, fmt.Errorf("alert %q missing usable expiry: %w", p.ID, err)
	}

	var onset *time.Time
	if t, err := parseTimestamp(p.Onset); err == nil {
		onset = &t
	}

	var nwsHeadline string
	if len(p.Parameters.NWSHeadline) > 0 {
		nwsHeadline = p.Parameters.NWSHeadline[0]
	}

	return Alert{
		ID:          p.ID,
		AreaCodes:   []string{areaCode},
		Event:       p.Event,
		Headline:    p.Headline,
		Description: p.Description,
		Instruction: p.Instruction,
		NWSHeadline: nwsHeadline,
		Severity:    SeverityFromString(p.Severity),
		Urgency:     UrgencyFromString(p.Urgency),
		Certainty:   CertaintyFromString(p.Certainty),
		Onset:       onset,
		Expires:     expires,
	}, nil
}

// CollectAlerts normalizes a batch of feed entries. A rejected entry is
// logged and skipped; it never aborts the rest of the batch.
func CollectAlerts(features []Feature, areaCode string, logger *slog.Logger) []Alert {
	alerts := make([]Alert, 0, len(features))
	for _, f := range features {
		alert, err := ParseAlertFeature(f, areaCode)
		if err != nil {
			logger.Warn("skipping malformed alert", "area", areaCode, "error", err)
			continue
		}
		alerts = append(alerts, alert)
	}
	return alerts
}

// parseTimestamp accepts RFC 3339 ("2024-05-01T15:00:00-05:00") and the
// offset-less form some feed entries carry; offset-less values are read as
// UTC.
func parseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02T15:04:05", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", value, err)
	}
	return t, nil
}
