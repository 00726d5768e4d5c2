// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package location

const (
	// MphPerMps converts meters/second to miles/hour.
	MphPerMps = 2.2369362920544
	// MpsPerKnot converts knots (NMEA speed over ground) to meters/second.
	MpsPerKnot = 0.514444
)

// SpeedMph converts a receiver speed to mph. The receiver uses a negative
// value for "unknown", which reads as standing still.
func SpeedMph(mps float64) float64 {
	if mps < 0 {
		mps = 0
	}
	return mps * MphPerMps
}

// KnotsToMps converts speed over ground from knots to meters/second.
func KnotsToMps(knots float64) float64 {
	return knots * MpsPerKnot
}
