// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"time"

	nmea "github.com/adrianmo/go-nmea"
	log "github.com/sirupsen/logrus"

	"github.com/relabs-tech/speedtracker/internal/location"
	"github.com/relabs-tech/speedtracker/internal/metrics"
)

// ReceiverOptions configures a Receiver. Zero values select defaults.
type ReceiverOptions struct {
	// UERE scales HDOP into meters.
	UERE float64
	// MinDisplacement is the distance filter in meters; negative disables it.
	MinDisplacement float64
	// Pace, if set, is waited after every RMC sentence (replaying logs).
	Pace time.Duration
}

// Receiver turns NMEA sentences into location samples for a Listener.
type Receiver struct {
	listener location.Listener
	filter   *location.DistanceFilter
	uere     float64
	pace     time.Duration

	fix Fix
}

// NewReceiver returns a receiver delivering to l.
func NewReceiver(l location.Listener, opts ReceiverOptions) *Receiver {
	if opts.UERE <= 0 {
		opts.UERE = DefaultUERE
	}
	if opts.MinDisplacement == 0 {
		opts.MinDisplacement = location.DefaultMinDisplacement
	}
	return &Receiver{
		listener: l,
		filter:   location.NewDistanceFilter(opts.MinDisplacement),
		uere:     opts.UERE,
		pace:     opts.Pace,
	}
}

// Fix returns the accumulated receiver state.
func (r *Receiver) Fix() Fix {
	return r.fix
}

// HandleLine parses one NMEA line. It reports whether a sample was delivered.
func (r *Receiver) HandleLine(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" || !strings.HasPrefix(line, "$") {
		return false
	}

	sentence, err := nmea.Parse(line)
	if err != nil {
		// partial sentences are common right after the port opens
		metrics.NMEAParseErrorsTotal.Inc()
		log.Debugf("gps: NMEA parse error: %v (line: %q)", err, line)
		return false
	}
	metrics.NMEASentencesTotal.WithLabelValues(sentence.DataType()).Inc()

	switch sentence.DataType() {
	case nmea.TypeGGA:
		m := sentence.(nmea.GGA)
		r.fix.HDOP = m.HDOP
		r.fix.Satellites = m.NumSatellites
		return false

	case nmea.TypeRMC:
		m := sentence.(nmea.RMC)
		r.fix.Time = rmcTime(m)
		r.fix.Latitude = m.Latitude
		r.fix.Longitude = m.Longitude
		r.fix.SpeedKnots = m.Speed
		r.fix.CourseDeg = m.Course
		r.fix.Validity = m.Validity

		if !r.fix.Valid() {
			return false
		}
		sample := r.fix.Sample(r.uere)
		if !r.filter.Allow(sample) {
			metrics.SamplesFilteredTotal.Inc()
			return false
		}
		r.listener.OnSampleReceived(sample)
		return true
	}
	return false
}

// Run reads lines from src until EOF or ctx is done. A blocked read is
// only interrupted by closing src.
func (r *Receiver) Run(ctx context.Context, src io.Reader) error {
	reader := bufio.NewReader(src)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := reader.ReadString('\n')
		if line != "" {
			isRMC := strings.Contains(line, "RMC,")
			r.HandleLine(line)
			if isRMC && r.pace > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(r.pace):
				}
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func rmcTime(m nmea.RMC) time.Time {
	if !m.Date.Valid || !m.Time.Valid {
		return time.Now().UTC()
	}
	year := 2000 + m.Date.YY
	if m.Date.YY >= 80 {
		year = 1900 + m.Date.YY
	}
	return time.Date(year, time.Month(m.Date.MM), m.Date.DD,
		m.Time.Hour, m.Time.Minute, m.Time.Second, m.Time.Millisecond*int(time.Millisecond), time.UTC)
}
