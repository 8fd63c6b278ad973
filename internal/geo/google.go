package geo

import (
	"context"

	"github.com/kelvins/geocoder"
	"go.uber.org/zap"
)

// GoogleResolver resolves addresses through the Google geocoding API.
// The underlying library keeps the API key as package state, so only one
// GoogleResolver should exist per process.
type GoogleResolver struct {
	log *zap.Logger
}

func NewGoogleResolver(apiKey string, log *zap.Logger) *GoogleResolver {
	geocoder.ApiKey = apiKey
	return &GoogleResolver{log: log}
}

func (r *GoogleResolver) Resolve(ctx context.Context, address string) (Coordinates, error) {
	location, err := geocoder.Geocoding(geocoder.Address{Street: address})
	if err != nil {
		// The library reports zero-result and transport failures the same
		// way; both are permanent for this run.
		r.log.Debug("google geocoding failed", zap.String("address", address), zap.Error(err))
		return Coordinates{}, ErrNotFound
	}
	return Coordinates{Lat: location.Latitude, Lon: location.Longitude}, nil
}
