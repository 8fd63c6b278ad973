package geo

import (
	"context"
	"errors"
)

// ErrNotFound is returned when the geocoding backend has no match for an
// address. Geocoding failures are permanent for a run; resolvers never retry.
var ErrNotFound = errors.New("address not found")

// Coordinates is a resolved latitude/longitude pair.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Resolver maps a free-text address to coordinates.
type Resolver interface {
	Resolve(ctx context.Context, address string) (Coordinates, error)
}
