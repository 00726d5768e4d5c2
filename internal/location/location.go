// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package location

import (
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Position is a WGS84 point in decimal degrees.
type Position struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// Point returns the position as an orb point (lon, lat order).
func (p Position) Point() orb.Point {
	return orb.Point{p.Longitude, p.Latitude}
}

// DistanceTo returns the great-circle distance to other in meters.
func (p Position) DistanceTo(other Position) float64 {
	return geo.DistanceHaversine(p.Point(), other.Point())
}

// Destination returns the position reached by travelling meters along
// the given bearing (degrees clockwise from north).
func (p Position) Destination(bearing, meters float64) Position {
	q := geo.PointAtBearingAndDistance(p.Point(), bearing, meters)
	return Position{Latitude: q.Lat(), Longitude: q.Lon()}
}

// Sample is a single fix delivered by a location source.
type Sample struct {
	Time     time.Time `json:"time"`
	Position Position  `json:"position"`
	// HorizontalAccuracy is the estimated horizontal error in meters.
	HorizontalAccuracy float64 `json:"accuracy_m"`
	// SpeedMps is the receiver-reported speed over ground. Negative means unknown.
	SpeedMps float64 `json:"speed_mps"`
}

// SpeedMph returns the sample speed converted with SpeedMph.
func (s Sample) SpeedMph() float64 {
	return SpeedMph(s.SpeedMps)
}

// Listener receives updates from a location source.
type Listener interface {
	OnAuthorizationChanged(state AuthorizationState)
	OnSampleReceived(sample Sample)
}
