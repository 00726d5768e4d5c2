// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package trip

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTicker struct {
	c       chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (f *fakeTicker) C() <-chan time.Time { return f.c }

func (f *fakeTicker) Stop() {
	f.mu.Lock()
	f.stopped = true
	f.mu.Unlock()
}

func (f *fakeTicker) isStopped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}

type harness struct {
	*Tracker
	mu      sync.Mutex
	tickers []*fakeTicker
	results []IngestResult
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{}
	ids := 0
	h.Tracker = NewTracker(Options{
		NewTicker: func(d time.Duration) Ticker {
			assert.Equal(t, DefaultTickInterval, d)
			ft := &fakeTicker{c: make(chan time.Time)}
			h.mu.Lock()
			h.tickers = append(h.tickers, ft)
			h.mu.Unlock()
			return ft
		},
		NewRunID: func() string {
			ids++
			return "run-" + string(rune('0'+ids))
		},
		OnIngest: func(r IngestResult) { h.results = append(h.results, r) },
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = h.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return h
}

func (h *harness) lastTicker(t *testing.T) *fakeTicker {
	t.Helper()
	h.mu.Lock()
	defer h.mu.Unlock()
	require.NotEmpty(t, h.tickers)
	return h.tickers[len(h.tickers)-1]
}

// tick delivers one tick and waits until the loop has applied it.
func (h *harness) tick(t *testing.T) {
	t.Helper()
	select {
	case h.lastTicker(t).c <- time.Now():
	case <-time.After(time.Second):
		t.Fatal("tick not consumed")
	}
	h.do(func() {})
}

func TestTrackerScenario(t *testing.T) {
	h := newHarness(t)
	a := home
	b := north(a, 20)
	c := north(*b, 80)

	h.Start()
	h.Ingest(&a, 10)
	h.tick(t)
	h.Ingest(b, 15)
	h.tick(t)
	h.Ingest(c, 5)
	h.Stop()

	snap := h.Snapshot()
	assert.False(t, snap.Running)
	assert.Equal(t, 2, snap.ElapsedSeconds)
	assert.InDelta(t, 20, snap.DistanceMeters, 1e-6)
	assert.Equal(t, 15.0, snap.TopSpeedMph)
	assert.Equal(t, "run-1", snap.RunID)
	assert.Equal(t, []IngestResult{Anchored, Accepted, Rejected}, h.results)
}

func TestTrackerNoTickAfterStop(t *testing.T) {
	h := newHarness(t)
	h.Start()
	h.tick(t)
	ft := h.lastTicker(t)

	h.Stop()
	assert.True(t, ft.isStopped())

	select {
	case ft.c <- time.Now():
		t.Fatal("tick consumed after Stop returned")
	case <-time.After(50 * time.Millisecond):
	}
	assert.Equal(t, 1, h.Snapshot().ElapsedSeconds)
}

func TestTrackerRestartRearmsTicker(t *testing.T) {
	h := newHarness(t)
	h.Start()
	first := h.lastTicker(t)
	h.Start()

	assert.True(t, first.isStopped())
	assert.NotSame(t, first, h.lastTicker(t))
	assert.Equal(t, "run-1", h.Snapshot().RunID, "restart keeps the trip id")
}

func TestTrackerToggleAndReset(t *testing.T) {
	h := newHarness(t)

	h.Toggle()
	assert.True(t, h.Snapshot().Running)
	h.Ingest(&home, 33)
	h.tick(t)

	h.Apply(ActionToggle)
	assert.False(t, h.Snapshot().Running)

	h.Apply(ActionReset)
	snap := h.Snapshot()
	assert.Equal(t, Snapshot{Elapsed: "00:00"}, snap)

	h.Apply(ActionStart)
	assert.Equal(t, "run-2", h.Snapshot().RunID)
}

func TestTrackerNotifiesOnChangeOnly(t *testing.T) {
	h := newHarness(t)
	var got []Snapshot
	h.Subscribe(func(s Snapshot) { got = append(got, s) })

	h.Ingest(&home, 50) // stopped: nothing changes
	h.Stop()            // already stopped
	assert.Empty(t, got)

	h.Start()
	h.Ingest(&home, 12)
	h.Ingest(&home, 12) // same position and speed
	h.tick(t)

	require.Len(t, got, 3)
	assert.True(t, got[0].Running)
	assert.Equal(t, 12.0, got[1].TopSpeedMph)
	assert.Equal(t, 1, got[2].ElapsedSeconds)
}

func TestTrackerNotifiesEveryObserver(t *testing.T) {
	h := newHarness(t)
	var first, second, late []Snapshot
	h.Subscribe(func(s Snapshot) { first = append(first, s) })
	h.Subscribe(func(s Snapshot) {
		second = append(second, s)
		if len(second) == 1 {
			// joins from the next change on
			h.Subscribe(func(s Snapshot) { late = append(late, s) })
		}
	})

	h.Start()
	h.tick(t)

	require.Len(t, first, 2)
	assert.Equal(t, first, second)
	require.Len(t, late, 1)
	assert.Equal(t, 1, late[0].ElapsedSeconds)
}

func TestTrackerNilPosition(t *testing.T) {
	h := newHarness(t)
	h.Start()
	assert.NotPanics(t, func() { h.Ingest(nil, 70) })
	assert.Equal(t, 0.0, h.Snapshot().TopSpeedMph)
	assert.Equal(t, []IngestResult{Ignored}, h.results)
}

func TestTrackerCallsAfterRunReturnDoNotBlock(t *testing.T) {
	tr := NewTracker(Options{NewTicker: func(time.Duration) Ticker {
		return &fakeTicker{c: make(chan time.Time)}
	}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, tr.Run(ctx), context.Canceled)

	finished := make(chan struct{})
	go func() {
		tr.Start()
		tr.Ingest(&home, 1)
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("calls blocked after Run returned")
	}
}
