// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"time"

	"github.com/relabs-tech/speedtracker/internal/location"
)

// DefaultUERE is the user equivalent range error (meters) used to turn
// HDOP into a horizontal accuracy estimate.
const DefaultUERE = 5.0

// Fix accumulates the latest receiver state from RMC and GGA sentences.
type Fix struct {
	Time       time.Time `json:"time"`
	Latitude   float64   `json:"lat"`         // decimal degrees
	Longitude  float64   `json:"lon"`         // decimal degrees
	SpeedKnots float64   `json:"speed_knots"` // speed over ground
	CourseDeg  float64   `json:"course_deg"`  // course over ground
	Validity   string    `json:"validity"`    // "A" (valid) / "V" (void)
	HDOP       float64   `json:"hdop"`        // 0 until a GGA is seen
	Satellites int64     `json:"satellites"`
}

// Valid reports whether the last RMC carried an active fix.
func (f Fix) Valid() bool {
	return f.Validity == "A"
}

// Accuracy estimates horizontal accuracy in meters. Without HDOP it
// falls back to the UERE alone.
func (f Fix) Accuracy(uere float64) float64 {
	if f.HDOP <= 0 {
		return uere
	}
	return f.HDOP * uere
}

// Sample converts the fix into a location sample.
func (f Fix) Sample(uere float64) location.Sample {
	return location.Sample{
		Time:               f.Time,
		Position:           location.Position{Latitude: f.Latitude, Longitude: f.Longitude},
		HorizontalAccuracy: f.Accuracy(uere),
		SpeedMps:           location.KnotsToMps(f.SpeedKnots),
	}
}
