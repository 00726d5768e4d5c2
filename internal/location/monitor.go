// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package location

import (
	"fmt"
	"sync"
)

// GoodAccuracyMeters is the accuracy at or below which a fix is shown as good.
const GoodAccuracyMeters = 20

// UpdateFunc receives the latest position and speed after every sample.
type UpdateFunc func(pos *Position, speedMph float64)

// Reading is a copy of the monitor's published state.
type Reading struct {
	SpeedMph       float64            `json:"speed_mph"`
	AccuracyMeters *float64           `json:"accuracy_m,omitempty"`
	Authorization  AuthorizationState `json:"authorization"`
	LastPosition   *Position          `json:"last_position,omitempty"`
}

// StatusLevel tells a front-end how to colour the status line.
type StatusLevel string

const (
	StatusAlert StatusLevel = "alert"
	StatusInfo  StatusLevel = "info"
	StatusGood  StatusLevel = "good"
)

// Status is the one-line description of the location source.
type Status struct {
	Text  string      `json:"text"`
	Level StatusLevel `json:"level"`
}

// Monitor tracks the latest state reported by a location source and
// forwards every sample as a combined (position, speed) update.
type Monitor struct {
	mu      sync.RWMutex
	reading Reading

	onUpdate UpdateFunc
	onAuth   func(AuthorizationState)
}

// NewMonitor returns a monitor in the not-determined state. onUpdate may be nil.
func NewMonitor(onUpdate UpdateFunc) *Monitor {
	return &Monitor{onUpdate: onUpdate}
}

// OnAuthorization registers a callback for authorization changes.
func (m *Monitor) OnAuthorization(fn func(AuthorizationState)) {
	m.mu.Lock()
	m.onAuth = fn
	m.mu.Unlock()
}

func (m *Monitor) OnAuthorizationChanged(state AuthorizationState) {
	m.mu.Lock()
	changed := m.reading.Authorization != state
	m.reading.Authorization = state
	fn := m.onAuth
	m.mu.Unlock()

	if changed && fn != nil {
		fn(state)
	}
}

func (m *Monitor) OnSampleReceived(sample Sample) {
	pos := sample.Position
	acc := sample.HorizontalAccuracy
	speed := SpeedMph(sample.SpeedMps)

	m.mu.Lock()
	m.reading.LastPosition = &pos
	m.reading.AccuracyMeters = &acc
	m.reading.SpeedMph = speed
	fn := m.onUpdate
	m.mu.Unlock()

	if fn != nil {
		fn(&pos, speed)
	}
}

// Reading returns a copy of the current state.
func (m *Monitor) Reading() Reading {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r := m.reading
	if r.AccuracyMeters != nil {
		acc := *r.AccuracyMeters
		r.AccuracyMeters = &acc
	}
	if r.LastPosition != nil {
		pos := *r.LastPosition
		r.LastPosition = &pos
	}
	return r
}

// Status describes the current state of the source.
func (m *Monitor) Status() Status {
	return StatusFor(m.Reading())
}

// StatusFor derives the status line from a reading. Denial is reported
// as a state, never as an error.
func StatusFor(r Reading) Status {
	switch r.Authorization {
	case Denied, Restricted:
		return Status{Text: "Location permission denied. Enable it in Settings.", Level: StatusAlert}
	case NotDetermined:
		return Status{Text: "Requesting location permission…", Level: StatusInfo}
	}
	if r.AccuracyMeters == nil {
		return Status{Text: "Searching for GPS…", Level: StatusInfo}
	}
	acc := *r.AccuracyMeters
	level := StatusInfo
	if acc <= GoodAccuracyMeters {
		level = StatusGood
	}
	return Status{Text: fmt.Sprintf("GPS Accuracy: ~%d m", int(acc)), Level: level}
}
