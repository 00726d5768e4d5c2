// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package location

// DefaultMinDisplacement is the distance filter applied to outgoing samples.
const DefaultMinDisplacement = 1.0

// DistanceFilter drops samples that have not moved at least MinDisplacement
// meters from the last sample it let through.
type DistanceFilter struct {
	MinDisplacement float64

	last *Position
}

// NewDistanceFilter returns a filter; a non-positive minimum disables it.
func NewDistanceFilter(minDisplacement float64) *DistanceFilter {
	return &DistanceFilter{MinDisplacement: minDisplacement}
}

// Allow reports whether s should be delivered and records it if so.
func (f *DistanceFilter) Allow(s Sample) bool {
	if f.last != nil && f.MinDisplacement > 0 &&
		f.last.DistanceTo(s.Position) < f.MinDisplacement {
		return false
	}
	pos := s.Position
	f.last = &pos
	return true
}

// Reset forgets the last delivered position.
func (f *DistanceFilter) Reset() {
	f.last = nil
}
