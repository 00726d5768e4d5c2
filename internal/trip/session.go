// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package trip

import (
	"fmt"

	"github.com/relabs-tech/speedtracker/internal/location"
)

const (
	// MetersPerMile is the statute mile.
	MetersPerMile = 1609.344
	// DefaultJumpThreshold is the sample-to-sample displacement (meters)
	// at and above which a delta is treated as GPS noise.
	DefaultJumpThreshold = 50.0
)

// IngestResult tells what Ingest did with a sample.
type IngestResult int

const (
	// Ignored: session stopped or no position.
	Ignored IngestResult = iota
	// Anchored: first position of the run, nothing to measure against.
	Anchored
	// Accepted: the delta was added to the distance.
	Accepted
	// Rejected: the delta was a jump and was dropped.
	Rejected
)

func (r IngestResult) String() string {
	switch r {
	case Ignored:
		return "ignored"
	case Anchored:
		return "anchored"
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	}
	return fmt.Sprintf("result(%d)", int(r))
}

// Session is the trip state machine. It is not safe for concurrent use;
// Tracker gives it a single owner.
type Session struct {
	jumpThreshold float64

	running        bool
	elapsedSeconds int
	distanceMeters float64
	topSpeedMph    float64
	anchor         *location.Position
}

// NewSession returns a stopped, zeroed session. A non-positive threshold
// selects DefaultJumpThreshold.
func NewSession(jumpThreshold float64) *Session {
	if jumpThreshold <= 0 {
		jumpThreshold = DefaultJumpThreshold
	}
	return &Session{jumpThreshold: jumpThreshold}
}

// Start begins a run. The first sample after Start only sets the anchor.
func (s *Session) Start() {
	s.running = true
	s.anchor = nil
}

// Stop ends a run. Calling it on a stopped session changes nothing.
func (s *Session) Stop() {
	s.running = false
	s.anchor = nil
}

// Reset stops the session and zeroes its counters.
func (s *Session) Reset() {
	s.Stop()
	s.elapsedSeconds = 0
	s.distanceMeters = 0
	s.topSpeedMph = 0
}

// Tick adds one second of elapsed time while running. It reports whether
// the tick was applied; a tick that arrives after Stop is dropped.
func (s *Session) Tick() bool {
	if !s.running {
		return false
	}
	s.elapsedSeconds++
	return true
}

// Ingest feeds one (position, speed) update into the session.
//
// The anchor is replaced by pos on every call that carries a position,
// including calls whose delta was rejected as a jump.
func (s *Session) Ingest(pos *location.Position, speedMph float64) IngestResult {
	if !s.running || pos == nil {
		return Ignored
	}

	if speedMph > s.topSpeedMph {
		s.topSpeedMph = speedMph
	}

	result := Anchored
	if s.anchor != nil {
		delta := s.anchor.DistanceTo(*pos)
		if delta < s.jumpThreshold {
			s.distanceMeters += delta
			result = Accepted
		} else {
			result = Rejected
		}
	}

	p := *pos
	s.anchor = &p
	return result
}

func (s *Session) Running() bool { return s.running }
func (s *Session) ElapsedSeconds() int { return s.elapsedSeconds }
func (s *Session) DistanceMeters() float64 { return s.distanceMeters }
func (s *Session) TopSpeedMph() float64 { return s.topSpeedMph }
func (s *Session) JumpThreshold() float64 { return s.jumpThreshold }

// Anchor returns a copy of the current anchor, or nil.
func (s *Session) Anchor() *location.Position {
	if s.anchor == nil {
		return nil
	}
	p := *s.anchor
	return &p
}

func (s *Session) DistanceMiles() float64 {
	return s.distanceMeters / MetersPerMile
}

func (s *Session) AverageSpeedMph() float64 {
	if s.elapsedSeconds <= 0 {
		return 0
	}
	hours := float64(s.elapsedSeconds) / 3600.0
	return s.DistanceMiles() / hours
}

// ElapsedString renders elapsed time as MM:SS. Minutes do not roll over
// into hours.
func (s *Session) ElapsedString() string {
	return FormatElapsed(s.elapsedSeconds)
}

// FormatElapsed renders seconds as zero-padded MM:SS.
func FormatElapsed(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Snapshot captures the session and its derived metrics.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Running:         s.running,
		ElapsedSeconds:  s.elapsedSeconds,
		Elapsed:         s.ElapsedString(),
		DistanceMeters:  s.distanceMeters,
		DistanceMiles:   s.DistanceMiles(),
		AverageSpeedMph: s.AverageSpeedMph(),
		TopSpeedMph:     s.topSpeedMph,
	}
}
