package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Contact is one notification recipient with one or more tracked locations.
// Contacts are loaded once at startup and never mutated afterwards.
type Contact struct {
	Name string `json:"name" validate:"required"`

	// Locations maps a human label (e.g. "home") to a place.
	Locations map[string]Location `json:"locations" validate:"required,min=1"`

	// WakesUp is the daily trigger time as "HH:MM" in the scheduler timezone.
	WakesUp string `json:"wakes_up" validate:"required"`

	Settings Settings `json:"settings"`
}

// Location is either a free-text address (resolved lazily through the
// geocoder) or a literal coordinate pair. Exactly one form is present.
type Location struct {
	Address string
	Lat     *float64
	Lon     *float64
}

// UnmarshalJSON accepts either a plain string address or {"lat": .., "lon": ..}.
func (l *Location) UnmarshalJSON(data []byte) error {
	var addr string
	if err := json.Unmarshal(data, &addr); err == nil {
		if strings.TrimSpace(addr) == "" {
			return errors.New("location address is empty")
		}
		l.Address = addr
		return nil
	}

	var coords struct {
		Lat *float64 `json:"lat"`
		Lon *float64 `json:"lon"`
	}
	if err := json.Unmarshal(data, &coords); err != nil {
		return fmt.Errorf("location must be an address string or a lat/lon object: %w", err)
	}
	if coords.Lat == nil || coords.Lon == nil {
		return errors.New("coordinate location requires both lat and lon")
	}
	l.Lat = coords.Lat
	l.Lon = coords.Lon
	return nil
}

// HasCoordinates reports whether the location was given as a literal pair.
func (l Location) HasCoordinates() bool {
	return l.Lat != nil && l.Lon != nil
}

// Key returns a canonical string key for indexing this location in stores.
func (l Location) Key() string {
	if l.HasCoordinates() {
		return fmt.Sprintf("%.4f:%.4f", *l.Lat, *l.Lon)
	}
	return l.Address
}

// Settings maps a notification kind to whether it is enabled.
// Kinds absent from the map are disabled.
type Settings map[string]bool

// Enabled reports whether a notification kind should be sent.
func (s Settings) Enabled(kind string) bool {
	return s[kind]
}

// LoadContacts reads and validates the contacts file.
func LoadContacts(path string) ([]Contact, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read contacts file: %w", err)
	}

	var contacts []Contact
	if err := json.Unmarshal(raw, &contacts); err != nil {
		return nil, fmt.Errorf("parse contacts file %s: %w", path, err)
	}
	if len(contacts) == 0 {
		return nil, fmt.Errorf("contacts file %s has no contacts", path)
	}

	for i, c := range contacts {
		if err := validate.Struct(c); err != nil {
			return nil, fmt.Errorf("contact #%d: %w", i, err)
		}
		if _, err := time.Parse("15:04", c.WakesUp); err != nil {
			return nil, fmt.Errorf("contact %s: wakes_up %q is not HH:MM: %w", c.Name, c.WakesUp, err)
		}
	}

	return contacts, nil
}
