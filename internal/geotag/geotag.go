// Package geotag turns the raw GPS tags of an image into a geo.Coordinate.
package geotag

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/UnknownOlympus/meridian/internal/geo"
	"github.com/UnknownOlympus/meridian/internal/models"
)

// dmsComponents is the number of rationals making up one angle.
const dmsComponents = 3

// altitudeBelowSeaLevel is the AltitudeRef value for negative altitudes.
const altitudeBelowSeaLevel = 1

// Common errors for GPS tag interpretation.
var (
	ErrMissingLatitude  = errors.New("gps latitude is missing")
	ErrMissingLongitude = errors.New("gps longitude is missing")
	ErrInvalidLatitude  = errors.New("gps latitude is not a number")
	ErrInvalidLongitude = errors.New("gps longitude is not a number")
)

// Locate combines the GPS tags into a decimal-degree coordinate.
// Southern latitudes and western longitudes are negated. The altitude is
// included only when present and evaluable.
func Locate(tags models.GPSTags) (geo.Coordinate, error) {
	if len(tags.Latitude) != dmsComponents {
		return geo.Coordinate{}, fmt.Errorf("%w: got %d components", ErrMissingLatitude, len(tags.Latitude))
	}
	if len(tags.Longitude) != dmsComponents {
		return geo.Coordinate{}, fmt.Errorf("%w: got %d components", ErrMissingLongitude, len(tags.Longitude))
	}

	lat, ok := geo.DMSToDecimal(tags.Latitude[0], tags.Latitude[1], tags.Latitude[2], isRef(tags.LatitudeRef, "S"))
	if !ok {
		return geo.Coordinate{}, fmt.Errorf("%w: %v", ErrInvalidLatitude, tags.Latitude)
	}

	lon, ok := geo.DMSToDecimal(tags.Longitude[0], tags.Longitude[1], tags.Longitude[2], isRef(tags.LongitudeRef, "W"))
	if !ok {
		return geo.Coordinate{}, fmt.Errorf("%w: %v", ErrInvalidLongitude, tags.Longitude)
	}

	return geo.NewWithOptionalAltitude(lat, lon, altitude(tags)), nil
}

func altitude(tags models.GPSTags) *float64 {
	if tags.Altitude == nil {
		return nil
	}

	alt := tags.Altitude.Float64()
	if math.IsNaN(alt) {
		return nil
	}
	if tags.AltitudeRef == altitudeBelowSeaLevel {
		alt = -alt
	}

	return &alt
}

func isRef(ref, want string) bool {
	return strings.EqualFold(strings.TrimSpace(ref), want)
}
