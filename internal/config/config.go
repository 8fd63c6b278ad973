package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Geocoder backends selectable via the GEOCODER variable.
const (
	GeocoderOpenWeather = "openweather"
	GeocoderGoogle      = "google"
)

type AppConfig struct {
	OpenWeatherAPIKey string
	PushAuthKey       string
	PushURL           string

	// Group is the destination group stamped into every notification.
	Group string

	Geocoder     string
	GoogleAPIKey string

	// ForecastLang is the display language requested from the forecast provider.
	ForecastLang string

	ContactsFile    string
	WeatherDataFile string

	// SchedulerTZ is the timezone wake-up times are interpreted in.
	SchedulerTZ *time.Location

	HTTPTimeout time.Duration
	Port        string
	LogLevel    string

	Contacts []Contact
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPEN_WEATHER_MAP_API_KEY")
	if cfg.OpenWeatherAPIKey == "" {
		return nil, fmt.Errorf("OPEN_WEATHER_MAP_API_KEY is required")
	}

	cfg.PushAuthKey = os.Getenv("NOTIFICATION_APP_AUTH_KEY")
	cfg.PushURL = os.Getenv("PUSH_URL")
	if cfg.PushURL == "" {
		return nil, fmt.Errorf("PUSH_URL is required")
	}
	cfg.Group = os.Getenv("UMBRELLA_GROUP")

	cfg.Geocoder = getenvDefault("GEOCODER", GeocoderOpenWeather)
	switch cfg.Geocoder {
	case GeocoderOpenWeather:
	case GeocoderGoogle:
		cfg.GoogleAPIKey = os.Getenv("GOOGLE_API_KEY")
		if cfg.GoogleAPIKey == "" {
			return nil, fmt.Errorf("GOOGLE_API_KEY is required when GEOCODER=google")
		}
	default:
		return nil, fmt.Errorf("unknown GEOCODER %q", cfg.Geocoder)
	}

	cfg.ForecastLang = getenvDefault("FORECAST_LANG", "lt")
	cfg.ContactsFile = getenvDefault("CONTACTS_FILE", "contacts.json")
	cfg.WeatherDataFile = getenvDefault("WEATHER_DATA_FILE", "weather_data.json")

	tzName := getenvDefault("SCHEDULER_TZ", "Local")
	tz, err := loadTimezone(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_TZ: %w", err)
	}
	cfg.SchedulerTZ = tz

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "30s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.LogLevel = getenvDefault("LOG_LEVEL", "info")

	contacts, err := LoadContacts(cfg.ContactsFile)
	if err != nil {
		return nil, err
	}
	cfg.Contacts = contacts

	return cfg, nil
}

func loadTimezone(name string) (*time.Location, error) {
	if name == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
