package domain

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAreaCode = "County: TXC453"

func validFeature() Feature {
	return Feature{
		Properties: FeatureProperties{
			ID:          "urn:oid:2.49.0.1.840.0.abc123",
			Event:       "Severe Thunderstorm Warning",
			Headline:    "Severe Thunderstorm Warning issued for Travis County",
			Description: "At 512 PM CDT, a severe thunderstorm was located over Austin.",
			Instruction: "Move to an interior room on the lowest floor of a building.",
			Severity:    "Severe",
			Urgency:     "Immediate",
			Certainty:   "Observed",
			Onset:       "2024-05-01T17:12:00-05:00",
			Expires:     "2024-05-01T18:00:00-05:00",
			Parameters:  FeatureParameters{NWSHeadline: []string{"SEVERE THUNDERSTORM WARNING UNTIL 6 PM CDT"}},
		},
	}
}

func TestParseAlertFeature(t *testing.T) {
	t.Run("full feature", func(t *testing.T) {
		alert, err := ParseAlertFeature(validFeature(), testAreaCode)

		require.NoError(t, err)
		assert.Equal(t, "urn:oid:2.49.0.1.840.0.abc123", alert.ID)
		assert.Equal(t, []string{testAreaCode}, alert.AreaCodes)
		assert.Equal(t, "Severe Thunderstorm Warning", alert.Event)
		assert.Equal(t, SeveritySevere, alert.Severity)
		assert.Equal(t, UrgencyImmediate, alert.Urgency)
		assert.Equal(t, CertaintyObserved, alert.Certainty)
		assert.Equal(t, "SEVERE THUNDERSTORM WARNING UNTIL 6 PM CDT", alert.NWSHeadline)
		require.NotNil(t, alert.Onset)
		assert.Equal(t, time.Date(2024, 5, 1, 22, 12, 0, 0, time.UTC), alert.Onset.UTC())
		assert.Equal(t, time.Date(2024, 5, 1, 23, 0, 0, 0, time.UTC), alert.Expires.UTC())
	})

	t.Run("missing expires rejects", func(t *testing.T) {
		f := validFeature()
		f.Properties.Expires = ""

		_, err := ParseAlertFeature(f, testAreaCode)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "expiry")
	})

	t.Run("unparsable expires rejects", func(t *testing.T) {
		f := validFeature()
		f.Properties.Expires = "tomorrow-ish"

		_, err := ParseAlertFeature(f, testAreaCode)
		require.Error(t, err)
	})

	t.Run("missing onset is allowed", func(t *testing.T) {
		f := validFeature()
		f.Properties.Onset = ""

		alert, err := ParseAlertFeature(f, testAreaCode)

		require.NoError(t, err)
		assert.Nil(t, alert.Onset)
	})

	t.Run("offset-less expires reads as UTC", func(t *testing.T) {
		f := validFeature()
		f.Properties.Expires = "2024-05-01T18:00:00"

		alert, err := ParseAlertFeature(f, testAreaCode)

		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC), alert.Expires)
	})

	t.Run("unrecognized vocab ranks unknown", func(t *testing.T) {
		f := validFeature()
		f.Properties.Severity = "Cataclysmic"
		f.Properties.Urgency = ""
		f.Properties.Certainty = "???"

		alert, err := ParseAlertFeature(f, testAreaCode)

		require.NoError(t, err)
		assert.Equal(t, SeverityUnknown, alert.Severity)
		assert.Equal(t, UrgencyUnknown, alert.Urgency)
		assert.Equal(t, CertaintyUnknown, alert.Certainty)
	})

	t.Run("no NWSheadline parameter", func(t *testing.T) {
		f := validFeature()
		f.Properties.Parameters = FeatureParameters{}

		alert, err := ParseAlertFeature(f, testAreaCode)

		require.NoError(t, err)
		assert.Equal(t, "", alert.NWSHeadline)
	})
}

func TestCollectAlerts(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("skips rejected entries without aborting", func(t *testing.T) {
		bad := validFeature()
		bad.Properties.ID = "urn:bad"
		bad.Properties.Expires = ""
		features := []Feature{validFeature(), bad, validFeature()}

		alerts := CollectAlerts(features, testAreaCode, logger)

		require.Len(t, alerts, 2)
		for _, a := range alerts {
			assert.NotEqual(t, "urn:bad", a.ID)
		}
	})

	t.Run("empty batch", func(t *testing.T) {
		assert.Empty(t, CollectAlerts(nil, testAreaCode, logger))
	})
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected time.Time
		wantErr  bool
	}{
		{"rfc3339 with offset", "2024-05-01T18:00:00-05:00", time.Date(2024, 5, 1, 23, 0, 0, 0, time.UTC), false},
		{"rfc3339 zulu", "2024-05-01T18:00:00Z", time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC), false},
		{"offset-less is UTC", "2024-05-01T18:00:00", time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC), false},
		{"empty", "", time.Time{}, true},
		{"garbage", "next tuesday", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTimestamp(tt.value)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.UTC().Equal(tt.expected), "got %v, expected %v", got.UTC(), tt.expected)
		})
	}
}
