// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package dashboard

import (
	"fmt"
	"math"

	"github.com/relabs-tech/speedtracker/internal/location"
	"github.com/relabs-tech/speedtracker/internal/trip"
)

// Speed is the speedometer readout published by the trip service.
type Speed struct {
	SpeedMph       float64                     `json:"speed_mph"`
	AccuracyMeters *float64                    `json:"accuracy_m,omitempty"`
	Authorization  location.AuthorizationState `json:"authorization"`
	Status         location.Status             `json:"status"`
}

// SpeedFromReading builds the readout from a location monitor reading.
func SpeedFromReading(r location.Reading) Speed {
	return Speed{
		SpeedMph:       r.SpeedMph,
		AccuracyMeters: r.AccuracyMeters,
		Authorization:  r.Authorization,
		Status:         location.StatusFor(r),
	}
}

// Panel is the formatted speedometer and trip panel shared by every front-end.
type Panel struct {
	Speed       string          `json:"speed"`
	Status      location.Status `json:"status"`
	Badge       string          `json:"badge"`
	ToggleLabel string          `json:"toggle_label"`
	Time        string          `json:"time"`
	Miles       string          `json:"miles"`
	AvgMph      string          `json:"avg_mph"`
	TopMph      string          `json:"top_mph"`
	Running     bool            `json:"running"`
}

// NewPanel formats a speed readout and trip snapshot.
func NewPanel(speed Speed, snap trip.Snapshot) Panel {
	p := Panel{
		Speed:       fmt.Sprintf("%d", int(math.Round(speed.SpeedMph))),
		Status:      speed.Status,
		Badge:       "STOPPED",
		ToggleLabel: "Start",
		Time:        snap.Elapsed,
		Miles:       fmt.Sprintf("%.2f", snap.DistanceMiles),
		AvgMph:      fmt.Sprintf("%.1f", snap.AverageSpeedMph),
		TopMph:      fmt.Sprintf("%.1f", snap.TopSpeedMph),
		Running:     snap.Running,
	}
	if p.Time == "" {
		p.Time = trip.FormatElapsed(snap.ElapsedSeconds)
	}
	if snap.Running {
		p.Badge = "RUNNING"
		p.ToggleLabel = "Stop"
	}
	if p.Status.Text == "" {
		p.Status = location.StatusFor(location.Reading{Authorization: speed.Authorization, AccuracyMeters: speed.AccuracyMeters})
	}
	return p
}

// Lines renders the panel as plain text rows, used by the console and OLED.
func (p Panel) Lines() []string {
	return []string{
		fmt.Sprintf("Speed (MPH) %s", p.Speed),
		p.Status.Text,
		fmt.Sprintf("Trip Mode %s", p.Badge),
		fmt.Sprintf("Time %s  Miles %s", p.Time, p.Miles),
		fmt.Sprintf("Avg MPH %s  Top MPH %s", p.AvgMph, p.TopMph),
	}
}
