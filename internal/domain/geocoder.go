package domain

import (
	"context"
	"fmt"
)

// Coordinates is a WGS-84 latitude/longitude coordinate pair.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Geocoder resolves a place name to coordinates.
type Geocoder interface {
	// Geocode converts a city and state to coordinates. A place the
	// provider does not know yields a LocationNotFoundError.
	Geocode(ctx context.Context, city, state string) (Coordinates, error)
}

// LocationNotFoundError reports that the geocoding provider returned no
// candidates for a place. It is the caller's signal to answer "unknown
// location" rather than "upstream broken".
type LocationNotFoundError struct {
	Location string
}

func (e LocationNotFoundError) Error() string {
	return fmt.Sprintf("location not found: %s", e.Location)
}
