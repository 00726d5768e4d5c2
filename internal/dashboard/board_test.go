// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package dashboard

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/speedtracker/internal/location"
	"github.com/relabs-tech/speedtracker/internal/trip"
)

func TestBoard(t *testing.T) {
	var panels []Panel
	b := NewBoard(func(p Panel) { panels = append(panels, p) })

	assert.False(t, b.Ready())
	_, ok := b.Trip()
	assert.False(t, ok)

	b.SetSpeed(Speed{SpeedMph: 12.2, Authorization: location.Authorized})
	assert.True(t, b.Ready())
	b.SetTrip(trip.Snapshot{Running: true, Elapsed: "00:03", ElapsedSeconds: 3})

	require.Len(t, panels, 2)
	assert.Equal(t, "12", panels[0].Speed)
	assert.Equal(t, "STOPPED", panels[0].Badge)
	assert.Equal(t, "RUNNING", panels[1].Badge)

	snap, ok := b.Trip()
	assert.True(t, ok)
	assert.Equal(t, 3, snap.ElapsedSeconds)
	assert.Equal(t, panels[1], b.Panel())
}

func TestBoardNotifiesLatestStateUnderConcurrentUpdates(t *testing.T) {
	var last Panel
	var calls int
	b := NewBoard(func(p Panel) {
		last = p
		calls++
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			b.SetSpeed(Speed{SpeedMph: float64(i), Authorization: location.Authorized})
		}(i)
		go func(i int) {
			defer wg.Done()
			b.SetTrip(trip.Snapshot{Running: i%2 == 0, ElapsedSeconds: i})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 100, calls)
	assert.Equal(t, b.Panel(), last)
}
