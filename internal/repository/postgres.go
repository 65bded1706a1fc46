package repository

import (
	"context"
	"fmt"

	"github.com/UnknownOlympus/meridian/internal/geo"
	"github.com/UnknownOlympus/meridian/internal/models"
)

// maxGeotagAttempts is how many failed attempts a photo gets before it is skipped.
const maxGeotagAttempts = 5

// FetchPhotosForGeotagging retrieves photos that carry GPS tags but have no
// resolved coordinates yet. Photos that already failed too many times are skipped.
// The results are ordered by creation date and limited to the specified count.
//
// Parameters:
// - ctx: The context for the operation, allowing for cancellation and timeout.
// - limit: The maximum number of photos to retrieve.
//
// Returns:
// - A slice of models.Photo with the raw GPS tags decoded.
// - An error if the query fails or if there is an issue scanning the results.
func (r *Repository) FetchPhotosForGeotagging(ctx context.Context, limit int) ([]models.Photo, error) {
	var photos []models.Photo
	query := `
		SELECT photo_id, path,
			COALESCE(gps_lat_ref, ''), gps_lat,
			COALESCE(gps_lon_ref, ''), gps_lon,
			COALESCE(gps_alt_ref, 0), gps_alt
		FROM public.photos
		WHERE
			latitude IS NULL
			AND geotag_attempts < $1
			AND gps_lat IS NOT NULL
			AND gps_lon IS NOT NULL
		ORDER BY created_at ASC
		LIMIT $2;
	`

	rows, err := r.db.Query(ctx, query, maxGeotagAttempts, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query photos with gps tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			photo          models.Photo
			lat, lon, alt  []int64
			latRef, lonRef string
			altRef         int
		)
		if errScan := rows.Scan(
			&photo.ID, &photo.Path, &latRef, &lat, &lonRef, &lon, &altRef, &alt,
		); errScan != nil {
			return nil, fmt.Errorf("failed to scan photo with gps tags: %w", errScan)
		}

		photo.Tags = models.GPSTags{
			LatitudeRef:  latRef,
			Latitude:     decodeRationals(lat),
			LongitudeRef: lonRef,
			Longitude:    decodeRationals(lon),
			AltitudeRef:  altRef,
		}
		if altitude := decodeRationals(alt); len(altitude) == 1 {
			photo.Tags.Altitude = &altitude[0]
		}

		r.log.DebugContext(ctx, "A new photo without coordinates has been received.",
			"ID", photo.ID, "Path", photo.Path)
		photos = append(photos, photo)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return photos, nil
}

// UpdatePhotoLocation stores the resolved coordinate of a photo together with
// its DMS rendering and, when known, the place name. It clears geotag_error.
func (r *Repository) UpdatePhotoLocation(
	ctx context.Context,
	photoID int,
	coord geo.Coordinate,
	place *models.Place,
) error {
	query := `
		UPDATE photos
		SET
			latitude = $1,
			longitude = $2,
			altitude = $3,
			location_dms = $4,
			place_name = $5,
			geotag_error = NULL
		WHERE
			photo_id = $6;
	`

	var altitude *float64
	if alt, ok := coord.Altitude(); ok {
		altitude = &alt
	}

	var placeName *string
	if place != nil && place.Name != "" {
		placeName = &place.Name
	}

	_, err := r.db.Exec(ctx, query,
		coord.Latitude(), coord.Longitude(), altitude, coord.DMSString(), placeName, photoID)
	if err != nil {
		return fmt.Errorf("failed to update photo location: %w", err)
	}

	return nil
}

// IncrementFailureCount increments the geotag attempt count for a specific photo
// identified by photoID and records the associated error message.
func (r *Repository) IncrementFailureCount(ctx context.Context, photoID int, errMsg string) error {
	query := `
		UPDATE photos
		SET
			geotag_attempts = geotag_attempts + 1,
			geotag_error = $1
		WHERE photo_id = $2;
	`

	_, err := r.db.Exec(ctx, query, errMsg, photoID)
	if err != nil {
		return fmt.Errorf("failed to update geotag error and number of attempts: %w", err)
	}

	return nil
}

// decodeRationals turns flattened numerator/denominator pairs into rationals.
// An odd number of values is treated as corrupt and yields nil.
func decodeRationals(pairs []int64) []models.Rational {
	if len(pairs)%2 != 0 {
		return nil
	}

	rationals := make([]models.Rational, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		rationals = append(rationals, models.NewRational(pairs[i], pairs[i+1]))
	}

	return rationals
}
