package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

const defaultGeocodingURL = "https://api.openweathermap.org/geo/1.0/direct"

// OpenWeatherResolver resolves addresses through the OpenWeatherMap direct
// geocoding endpoint.
type OpenWeatherResolver struct {
	apiKey  string
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

func NewOpenWeatherResolver(client *http.Client, apiKey string, log *zap.Logger) *OpenWeatherResolver {
	return &OpenWeatherResolver{
		apiKey:  apiKey,
		baseURL: defaultGeocodingURL,
		client:  client,
		log:     log,
	}
}

func (r *OpenWeatherResolver) Resolve(ctx context.Context, address string) (Coordinates, error) {
	values := url.Values{}
	values.Set("q", address)
	values.Set("limit", "1")
	values.Set("appid", r.apiKey)

	u := fmt.Sprintf("%s?%s", r.baseURL, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Coordinates{}, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return Coordinates{}, fmt.Errorf("geocoding request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Coordinates{}, fmt.Errorf("geocoding: unexpected status code %d", resp.StatusCode)
	}

	var matches []struct {
		Name    string  `json:"name"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
		Country string  `json:"country"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&matches); err != nil {
		return Coordinates{}, fmt.Errorf("decode geocoding payload: %w", err)
	}

	if len(matches) == 0 {
		return Coordinates{}, fmt.Errorf("%w: %s", ErrNotFound, address)
	}

	m := matches[0]
	r.log.Debug("address resolved",
		zap.String("address", address),
		zap.String("match", m.Name),
		zap.String("country", m.Country))

	return Coordinates{Lat: m.Lat, Lon: m.Lon}, nil
}
