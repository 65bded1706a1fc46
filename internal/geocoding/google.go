package geocoding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/meridian/internal/geo"
	"github.com/UnknownOlympus/meridian/internal/models"
	"googlemaps.github.io/maps"
)

// GoogleProvider is a struct that holds the client for Google Maps API
// and a logger for logging purposes. It is used to interact with the
// Google Maps reverse geocoding service.
type GoogleProvider struct {
	client GoogleAPIClient // client is the Google Maps API client
	log    *slog.Logger    // log is the logger for logging operations
}

type GoogleAPIClient interface {
	ReverseGeocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// ErrEmptyResponse is returned when the Google Maps API responds with an empty result.
var ErrEmptyResponse = errors.New("get empty response from Google Maps API")

// NewGoogleProvider initializes a new GoogleProvider with the given client and logger.
func NewGoogleProvider(client GoogleAPIClient, log *slog.Logger) *GoogleProvider {
	return &GoogleProvider{client: client, log: log}
}

// Lookup resolves the coordinate to the most specific formatted address known
// to the Google Maps Geocoding API.
func (gp *GoogleProvider) Lookup(ctx context.Context, coord geo.Coordinate) (*models.Place, error) {
	gp.log.DebugContext(ctx, "Reverse geocoding using Google Maps", "coordinate", coord.String())

	req := maps.GeocodingRequest{LatLng: &maps.LatLng{Lat: coord.Latitude(), Lng: coord.Longitude()}}
	results, err := gp.client.ReverseGeocode(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("failed to reverse geocode coordinate: %w", err)
	}

	if len(results) == 0 || results[0].FormattedAddress == "" {
		return nil, ErrEmptyResponse
	}

	return &models.Place{Name: results[0].FormattedAddress, PlaceID: results[0].PlaceID}, nil
}
