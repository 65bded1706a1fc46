package models

import "math"

// Rational is a numerator/denominator pair as stored in image GPS tags.
type Rational struct {
	Numerator   int64 // Numerator of the fraction.
	Denominator int64 // Denominator of the fraction.
}

// NewRational returns the rational num/den.
func NewRational(num, den int64) Rational {
	return Rational{Numerator: num, Denominator: den}
}

// Float64 evaluates the fraction. A zero denominator yields NaN.
func (r Rational) Float64() float64 {
	if r.Denominator == 0 {
		return math.NaN()
	}

	return float64(r.Numerator) / float64(r.Denominator)
}
