package geocoding

import (
	"errors"
	"fmt"
	"log/slog"

	"googlemaps.github.io/maps"
)

// ProviderType represents the type of reverse geocoding provider.
type ProviderType string

const (
	// ProviderTypeGoogle represents Google Maps reverse geocoding provider.
	ProviderTypeGoogle ProviderType = "google"
	// ProviderTypeNominatim represents OpenStreetMap Nominatim reverse geocoding provider.
	ProviderTypeNominatim ProviderType = "nominatim"
	// ProviderTypeNone disables place lookups.
	ProviderTypeNone ProviderType = "none"
)

// ProviderConfig holds configuration for creating a reverse geocoding provider.
type ProviderConfig struct {
	Type      ProviderType // Type of provider to create
	APIKey    string       // API key (used by Google provider)
	RateLimit int          // Rate limit for requests per second
	Logger    *slog.Logger // Logger for the provider
}

// NewProvider creates a reverse geocoding provider based on the provided configuration.
//
// Supported provider types:
// - "google": Google Maps Geocoding API (requires API key)
// - "nominatim": OpenStreetMap Nominatim API (free, no API key required)
// - "none": no provider; returns a nil Provider and no error
//
// Returns an error if the provider type is unsupported or if provider creation fails.
func NewProvider(config ProviderConfig) (Provider, error) {
	switch config.Type {
	case ProviderTypeGoogle:
		return newGoogleProvider(config)
	case ProviderTypeNominatim:
		return newNominatimProvider(config)
	case ProviderTypeNone:
		return nil, nil //nolint:nilnil // lookups are optional
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", config.Type)
	}
}

// newGoogleProvider creates a Google Maps reverse geocoding provider.
func newGoogleProvider(config ProviderConfig) (Provider, error) {
	if config.APIKey == "" {
		return nil, errors.New("API key is required for Google provider")
	}

	clientOpts := []maps.ClientOption{
		maps.WithAPIKey(config.APIKey),
	}

	if config.RateLimit > 0 {
		clientOpts = append(clientOpts, maps.WithRateLimit(config.RateLimit))
	}

	client, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return NewGoogleProvider(client, config.Logger), nil
}

// newNominatimProvider creates a Nominatim reverse geocoding provider.
func newNominatimProvider(config ProviderConfig) (Provider, error) {
	const fairUseLimit = 1

	// Nominatim is free and doesn't require an API key
	rateLimit := config.RateLimit
	if rateLimit <= 0 || rateLimit > fairUseLimit {
		config.Logger.Warn("Nominatim rate limit adjusted to fair use policy", "value", fairUseLimit)
		rateLimit = fairUseLimit
	}

	return NewNominatimProvider(rateLimit, config.Logger), nil
}
