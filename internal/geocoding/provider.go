package geocoding

import (
	"context"

	"github.com/UnknownOlympus/meridian/internal/geo"
	"github.com/UnknownOlympus/meridian/internal/models"
)

// Provider is an interface that defines a method for reverse geocoding.
// The Lookup method takes a context and a coordinate as input,
// and returns the place found at that position and an error if any occurs.
type Provider interface {
	Lookup(ctx context.Context, coord geo.Coordinate) (*models.Place, error)
}
