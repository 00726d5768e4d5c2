// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/speedtracker/internal/dashboard"
	"github.com/relabs-tech/speedtracker/internal/location"
	"github.com/relabs-tech/speedtracker/internal/trip"
)

func TestPrintPanel(t *testing.T) {
	var buf bytes.Buffer
	acc := 4.0
	PrintPanel(&buf, dashboard.NewPanel(
		dashboard.Speed{SpeedMph: 12.2, AccuracyMeters: &acc, Authorization: location.Authorized},
		trip.Snapshot{Running: true, ElapsedSeconds: 75, DistanceMiles: 1.234, AverageSpeedMph: 59.2, TopSpeedMph: 61},
	))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "[SPD ]  12 mph  GPS Accuracy: ~4 m", lines[0])
	assert.Equal(t, "[TRIP] RUNNING time=01:15 miles=1.23 avg=59.2 top=61.0", lines[1])
}

func TestPrintSample(t *testing.T) {
	var buf bytes.Buffer
	PrintSample(&buf, location.Sample{
		Time:               time.Date(2026, 5, 1, 12, 0, 7, 0, time.UTC),
		Position:           location.Position{Latitude: 40.4168, Longitude: -3.7038},
		HorizontalAccuracy: 6,
		SpeedMps:           10,
	})
	assert.Equal(t, "[GPS ] time=12:00:07 lat=40.416800 lon=-3.703800 speed=22.4mph acc=6m\n", buf.String())
}
