// Package geo holds the Coordinate value type and the conversions between
// decimal degrees and degrees-minutes-seconds notation.
package geo

import (
	"encoding/binary"
	"math"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

const (
	minutesPerDegree = 60
	secondsPerMinute = 60
	secondsPerDegree = minutesPerDegree * secondsPerMinute
)

// Rational is anything that can be evaluated to a float64, such as the
// unsigned rationals stored in image GPS tags.
type Rational interface {
	Float64() float64
}

// Coordinate is an immutable position on Earth. Latitude and longitude are in
// degrees (positive North and East), altitude is in meters and may be absent.
// Values outside the usual angle ranges are stored as given.
type Coordinate struct {
	lat    float64
	lon    float64
	alt    float64
	hasAlt bool
}

// New returns a coordinate without altitude.
func New(latitude, longitude float64) Coordinate {
	return Coordinate{lat: latitude, lon: longitude}
}

// NewWithAltitude returns a coordinate with the given altitude in meters.
func NewWithAltitude(latitude, longitude, altitude float64) Coordinate {
	return Coordinate{lat: latitude, lon: longitude, alt: altitude, hasAlt: true}
}

// NewWithOptionalAltitude returns a coordinate whose altitude is absent when
// altitude is nil.
func NewWithOptionalAltitude(latitude, longitude float64, altitude *float64) Coordinate {
	if altitude == nil {
		return New(latitude, longitude)
	}

	return NewWithAltitude(latitude, longitude, *altitude)
}

// Latitude returns the latitude in degrees.
func (c Coordinate) Latitude() float64 { return c.lat }

// Longitude returns the longitude in degrees.
func (c Coordinate) Longitude() float64 { return c.lon }

// Altitude returns the altitude in meters and whether it is present.
func (c Coordinate) Altitude() (float64, bool) { return c.alt, c.hasAlt }

// IsOrigin reports whether both latitude and longitude are zero.
func (c Coordinate) IsOrigin() bool {
	return c.lat == 0 && c.lon == 0
}

// Equal compares all fields with exact floating-point equality. An absent
// altitude never equals a present one, even if that one is zero.
func (c Coordinate) Equal(other Coordinate) bool {
	if c.hasAlt != other.hasAlt {
		return false
	}
	if c.hasAlt && c.alt != other.alt {
		return false
	}

	return c.lat == other.lat && c.lon == other.lon
}

// Hash returns a hash consistent with Equal.
func (c Coordinate) Hash() uint64 {
	const size = 8*3 + 1

	buf := make([]byte, 0, size)
	buf = binary.LittleEndian.AppendUint64(buf, hashBits(c.lat))
	buf = binary.LittleEndian.AppendUint64(buf, hashBits(c.lon))
	if c.hasAlt {
		buf = append(buf, 1)
		buf = binary.LittleEndian.AppendUint64(buf, hashBits(c.alt))
	} else {
		buf = append(buf, 0)
	}

	return xxhash.Sum64(buf)
}

// hashBits folds -0 onto +0 since they compare equal.
func hashBits(v float64) uint64 {
	if v == 0 {
		return 0
	}

	return math.Float64bits(v)
}

// String renders "lat, lon" with ", altM" appended when altitude is present.
func (c Coordinate) String() string {
	out := formatFloat(c.lat) + ", " + formatFloat(c.lon)
	if c.hasAlt {
		out += ", " + formatFloat(c.alt) + "M"
	}

	return out
}

// DMSString renders both axes in degrees-minutes-seconds notation.
// Altitude is not included.
func (c Coordinate) DMSString() string {
	return DecimalToDMSString(c.lat) + ", " + DecimalToDMSString(c.lon)
}

// DecimalToDMS splits a decimal angle into whole degrees, whole minutes and
// fractional seconds. Degrees and minutes are truncated toward zero and only
// the degrees carry the sign. Degrees beyond the int range saturate at
// math.MaxInt or math.MinInt.
func DecimalToDMS(value float64) (int, int, float64) {
	minutes := math.Abs(math.Mod(value, 1)) * minutesPerDegree
	seconds := math.Abs(math.Mod(minutes, 1)) * secondsPerMinute

	return clampInt(math.Trunc(value)), int(math.Trunc(minutes)), seconds
}

func clampInt(v float64) int {
	switch {
	case v >= math.MaxInt:
		return math.MaxInt
	case v <= math.MinInt:
		return math.MinInt
	}

	return int(v)
}

// DecimalToDMSString formats value as `D° M' S"` with seconds rounded to at
// most two decimals. A negative angle below one degree renders as "-0°".
func DecimalToDMSString(value float64) string {
	_, minutes, seconds := DecimalToDMS(value)

	return formatDegrees(value) + "° " + strconv.Itoa(minutes) + "' " + formatSeconds(seconds) + `"`
}

// DMSToDecimal combines degrees, minutes and seconds into a decimal angle,
// negated when negative is set. The second result is false when the
// components do not evaluate to a number, e.g. a zero denominator.
func DMSToDecimal(degrees, minutes, seconds Rational, negative bool) (float64, bool) {
	value := math.Abs(degrees.Float64()) +
		minutes.Float64()/minutesPerDegree +
		seconds.Float64()/secondsPerDegree

	if math.IsNaN(value) {
		return 0, false
	}

	if negative {
		value = -value
	}

	return value, true
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatDegrees renders the truncated degrees without going through int, so
// huge angles keep their magnitude and sign.
func formatDegrees(value float64) string {
	degrees := math.Trunc(value)
	if degrees != 0 {
		return formatFloat(degrees)
	}
	if value < 0 {
		return "-0"
	}

	return "0"
}

// Seconds that round up to 60 are printed as 60, not carried into minutes.
func formatSeconds(seconds float64) string {
	const scale = 100

	return formatFloat(math.Round(seconds*scale) / scale)
}
