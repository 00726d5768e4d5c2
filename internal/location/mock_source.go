// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package location

import (
	"math"
	"time"
)

// Source is anything that can provide samples over time.
type Source interface {
	Next() (Sample, error)
}

type mockSource struct {
	start time.Time
	last  time.Time
	pos   Position
	now   func() time.Time
}

// NewMockSource creates a source that drives a smooth loop around origin
// with a slowly changing speed and accuracy.
func NewMockSource(origin Position) Source {
	return newMockSource(origin, time.Now)
}

func newMockSource(origin Position, now func() time.Time) *mockSource {
	t := now()
	return &mockSource{start: t, last: t, pos: origin, now: now}
}

func (m *mockSource) Next() (Sample, error) {
	t := m.now()
	dt := t.Sub(m.last).Seconds()
	m.last = t
	elapsed := t.Sub(m.start).Seconds()

	speed := 15 + 8*math.Sin(elapsed/20) // m/s
	heading := math.Mod(elapsed*3, 360)
	m.pos = m.pos.Destination(heading, speed*dt)

	return Sample{
		Time:               t,
		Position:           m.pos,
		HorizontalAccuracy: 8 + 4*math.Cos(elapsed/7),
		SpeedMps:           speed,
	}, nil
}
