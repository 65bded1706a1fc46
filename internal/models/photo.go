package models

// GPSTags holds the raw GPS values extracted from an image's metadata.
// Latitude and Longitude carry degrees, minutes and seconds in that order.
type GPSTags struct {
	LatitudeRef  string     // LatitudeRef is "N" or "S".
	Latitude     []Rational // Latitude as degrees, minutes, seconds.
	LongitudeRef string     // LongitudeRef is "E" or "W".
	Longitude    []Rational // Longitude as degrees, minutes, seconds.
	AltitudeRef  int        // AltitudeRef is 0 above sea level, 1 below.
	Altitude     *Rational  // Altitude in meters, nil when not recorded.
}

// Photo represents a geotagging task: an image with its raw GPS tags.
type Photo struct {
	ID   int     // ID is the unique identifier for the photo.
	Path string  // Path is the storage location of the image.
	Tags GPSTags // Tags are the GPS values read from the image metadata.
}

// Place is a human readable location resolved for a coordinate.
type Place struct {
	Name    string // Name is the formatted address or display name.
	PlaceID string // PlaceID is the provider specific identifier, if any.
}
