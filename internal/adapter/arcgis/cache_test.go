package arcgis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weatherbox/internal/domain"
	"github.com/couchcryptid/weatherbox/internal/observability"
)

// --- mock for cache tests ---

type countingGeocoder struct {
	calls  int
	result domain.Coordinates
	err    error
}

func (m *countingGeocoder) Geocode(_ context.Context, _, _ string) (domain.Coordinates, error) {
	m.calls++
	return m.result, m.err
}

// --- CachedGeocoder tests ---

func TestCachedGeocoder_CacheHit(t *testing.T) {
	inner := &countingGeocoder{result: domain.Coordinates{Lat: 30.2672, Lon: -97.7431}}
	cached := NewCachedGeocoder(inner, 10, observability.NewMetricsForTesting())

	c1, err := cached.Geocode(context.Background(), "Austin", "TX")
	require.NoError(t, err)
	assert.Equal(t, 30.2672, c1.Lat)

	c2, err := cached.Geocode(context.Background(), "Austin", "TX")
	require.NoError(t, err)
	assert.Equal(t, c1, c2)

	assert.Equal(t, 1, inner.calls, "should only call inner once")
}

func TestCachedGeocoder_DifferentKeysMiss(t *testing.T) {
	inner := &countingGeocoder{result: domain.Coordinates{Lat: 1, Lon: 2}}
	cached := NewCachedGeocoder(inner, 10, observability.NewMetricsForTesting())

	_, _ = cached.Geocode(context.Background(), "Austin", "TX")
	_, _ = cached.Geocode(context.Background(), "Dallas", "TX")
	_, _ = cached.Geocode(context.Background(), "Austin", "MN")

	assert.Equal(t, 3, inner.calls)
}

func TestCachedGeocoder_ErrorsNotCached(t *testing.T) {
	inner := &countingGeocoder{err: errors.New("provider down")}
	cached := NewCachedGeocoder(inner, 10, observability.NewMetricsForTesting())

	_, err := cached.Geocode(context.Background(), "Austin", "TX")
	require.Error(t, err)
	_, err = cached.Geocode(context.Background(), "Austin", "TX")
	require.Error(t, err)

	assert.Equal(t, 2, inner.calls, "failed lookups should reach inner every time")
}

func TestCachedGeocoder_NotFoundNotCached(t *testing.T) {
	inner := &countingGeocoder{err: domain.LocationNotFoundError{Location: "Nowhere, ZZ"}}
	cached := NewCachedGeocoder(inner, 10, observability.NewMetricsForTesting())

	_, err := cached.Geocode(context.Background(), "Nowhere", "ZZ")
	var notFound domain.LocationNotFoundError
	require.ErrorAs(t, err, &notFound)

	_, _ = cached.Geocode(context.Background(), "Nowhere", "ZZ")
	assert.Equal(t, 2, inner.calls)
}

// --- LRU cache unit tests ---

func TestLRUCache_BasicGetPut(t *testing.T) {
	c := newLRUCache(3)

	c.put("a", domain.Coordinates{Lat: 1})
	c.put("b", domain.Coordinates{Lat: 2})

	coords, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, 1.0, coords.Lat)

	_, ok = c.get("missing")
	assert.False(t, ok)
}

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.Coordinates{Lat: 1})
	c.put("b", domain.Coordinates{Lat: 2})
	c.put("c", domain.Coordinates{Lat: 3}) // evicts "a"

	_, ok := c.get("a")
	assert.False(t, ok, "a should have been evicted")

	coords, ok := c.get("b")
	assert.True(t, ok)
	assert.Equal(t, 2.0, coords.Lat)

	coords, ok = c.get("c")
	assert.True(t, ok)
	assert.Equal(t, 3.0, coords.Lat)
}

func TestLRUCache_AccessPromotesEntry(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.Coordinates{Lat: 1})
	c.put("b", domain.Coordinates{Lat: 2})

	// Access "a" to promote it
	c.get("a")

	// Insert "c", which should evict "b" (LRU), not "a"
	c.put("c", domain.Coordinates{Lat: 3})

	_, ok := c.get("a")
	assert.True(t, ok, "a was accessed recently, should not be evicted")

	_, ok = c.get("b")
	assert.False(t, ok, "b should have been evicted")
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.Coordinates{Lat: 1})
	c.put("a", domain.Coordinates{Lat: 9})

	coords, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, 9.0, coords.Lat)
}
