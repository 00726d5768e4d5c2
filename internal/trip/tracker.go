// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package trip

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/relabs-tech/speedtracker/internal/location"
)

// DefaultTickInterval is how often elapsed time advances while running.
const DefaultTickInterval = time.Second

// Ticker is a cancellable periodic source.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop() { t.t.Stop() }

// NewTimeTicker wraps time.NewTicker.
func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{time.NewTicker(d)}
}

// Options configures a Tracker. Zero values select defaults.
type Options struct {
	JumpThreshold float64
	TickInterval  time.Duration
	NewTicker     func(time.Duration) Ticker
	NewRunID      func() string
	// OnIngest, if set, is called from the tracker loop after every ingest.
	OnIngest func(IngestResult)
}

// Tracker owns a Session and applies every mutation to it from a single
// goroutine (Run). Ticks, ingests and commands may arrive from any
// goroutine; they are applied one at a time in arrival order.
type Tracker struct {
	opts    Options
	session *Session

	reqs chan func()
	done chan struct{}

	// loop-owned
	ticker Ticker
	tickC  <-chan time.Time
	runID  string

	snapMu sync.RWMutex
	snap   Snapshot

	obsMu     sync.Mutex
	observers []func(Snapshot)
}

// NewTracker returns a stopped tracker. Call Run before issuing commands.
func NewTracker(opts Options) *Tracker {
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.NewTicker == nil {
		opts.NewTicker = NewTimeTicker
	}
	if opts.NewRunID == nil {
		opts.NewRunID = func() string { return uuid.NewString() }
	}

	s := NewSession(opts.JumpThreshold)
	return &Tracker{
		opts:    opts,
		session: s,
		reqs:    make(chan func()),
		done:    make(chan struct{}),
		snap:    s.Snapshot(),
	}
}

// Run processes requests and ticks until ctx is done.
func (t *Tracker) Run(ctx context.Context) error {
	defer close(t.done)
	defer t.disarm()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-t.reqs:
			fn()
		case <-t.tickC:
			if t.session.Tick() {
				t.publish()
			}
		}
	}
}

// do runs fn on the loop and waits for it. After Run has returned it is a no-op.
func (t *Tracker) do(fn func()) {
	applied := make(chan struct{})
	req := func() {
		fn()
		close(applied)
	}
	select {
	case t.reqs <- req:
		<-applied
	case <-t.done:
	}
}

// Start begins (or restarts) the run and arms the elapsed-time ticker.
func (t *Tracker) Start() {
	t.do(t.start)
}

// Stop ends the run. No tick is applied after Stop returns.
func (t *Tracker) Stop() {
	t.do(t.stop)
}

// Reset stops the run and zeroes the trip.
func (t *Tracker) Reset() {
	t.do(func() {
		t.disarm()
		t.session.Reset()
		t.runID = ""
		t.publish()
	})
}

// Toggle starts a stopped tracker and stops a running one.
func (t *Tracker) Toggle() {
	t.do(func() {
		if t.session.Running() {
			t.stop()
		} else {
			t.start()
		}
	})
}

// Apply executes a trip command.
func (t *Tracker) Apply(a Action) {
	switch a {
	case ActionStart:
		t.Start()
	case ActionStop:
		t.Stop()
	case ActionReset:
		t.Reset()
	case ActionToggle:
		t.Toggle()
	}
}

// Ingest feeds a (position, speed) update. A nil position is ignored.
func (t *Tracker) Ingest(pos *location.Position, speedMph float64) {
	var p *location.Position
	if pos != nil {
		cp := *pos
		p = &cp
	}
	t.do(func() {
		res := t.session.Ingest(p, speedMph)
		if t.opts.OnIngest != nil {
			t.opts.OnIngest(res)
		}
		t.publish()
	})
}

// Snapshot returns the state after the last applied mutation.
func (t *Tracker) Snapshot() Snapshot {
	t.snapMu.RLock()
	defer t.snapMu.RUnlock()
	return t.snap
}

// Subscribe registers fn to be called with a new Snapshot whenever the
// trip state changes. fn runs on the tracker loop and must not call back
// into the Tracker's mutators.
func (t *Tracker) Subscribe(fn func(Snapshot)) {
	t.obsMu.Lock()
	t.observers = append(t.observers, fn)
	t.obsMu.Unlock()
}

func (t *Tracker) start() {
	t.session.Start()
	if t.runID == "" {
		t.runID = t.opts.NewRunID()
	}
	t.arm()
	t.publish()
}

func (t *Tracker) stop() {
	t.disarm()
	t.session.Stop()
	t.publish()
}

func (t *Tracker) arm() {
	t.disarm()
	t.ticker = t.opts.NewTicker(t.opts.TickInterval)
	t.tickC = t.ticker.C()
}

func (t *Tracker) disarm() {
	if t.ticker != nil {
		t.ticker.Stop()
		t.ticker = nil
	}
	t.tickC = nil
}

// publish refreshes the cached snapshot and notifies observers if it changed.
func (t *Tracker) publish() {
	snap := t.session.Snapshot()
	snap.RunID = t.runID

	t.snapMu.Lock()
	changed := snap != t.snap
	t.snap = snap
	t.snapMu.Unlock()

	if !changed {
		return
	}

	t.obsMu.Lock()
	observers := slices.Clone(t.observers)
	t.obsMu.Unlock()

	for _, fn := range observers {
		fn(snap)
	}
}
