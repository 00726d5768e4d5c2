// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package dashboard

import (
	"sync"

	"github.com/relabs-tech/speedtracker/internal/trip"
)

// Board holds the latest speed readout and trip snapshot received by a
// front-end. It is safe for concurrent use.
type Board struct {
	// notifyMu orders updates with their onChange calls.
	notifyMu sync.Mutex

	mu        sync.RWMutex
	speed     Speed
	haveSpeed bool
	snap      trip.Snapshot
	haveSnap  bool

	onChange func(Panel)
}

// NewBoard returns an empty board. onChange, if set, is called with the
// panel built from each update, in update order. It may read the board
// but must not update it.
func NewBoard(onChange func(Panel)) *Board {
	return &Board{onChange: onChange}
}

func (b *Board) SetSpeed(s Speed) {
	b.update(func() {
		b.speed = s
		b.haveSpeed = true
	})
}

func (b *Board) SetTrip(s trip.Snapshot) {
	b.update(func() {
		b.snap = s
		b.haveSnap = true
	})
}

// Speed returns the latest readout and whether one has arrived.
func (b *Board) Speed() (Speed, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.speed, b.haveSpeed
}

// Trip returns the latest trip snapshot and whether one has arrived.
func (b *Board) Trip() (trip.Snapshot, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snap, b.haveSnap
}

// Ready reports whether anything has been received yet.
func (b *Board) Ready() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.haveSpeed || b.haveSnap
}

// Panel formats the current state.
func (b *Board) Panel() Panel {
	b.mu.RLock()
	speed, snap := b.speed, b.snap
	b.mu.RUnlock()
	return NewPanel(speed, snap)
}

func (b *Board) update(apply func()) {
	b.notifyMu.Lock()
	defer b.notifyMu.Unlock()

	b.mu.Lock()
	apply()
	panel := NewPanel(b.speed, b.snap)
	b.mu.Unlock()

	if b.onChange != nil {
		b.onChange(panel)
	}
}
