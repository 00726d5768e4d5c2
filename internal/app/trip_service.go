// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/relabs-tech/speedtracker/internal/bus"
	"github.com/relabs-tech/speedtracker/internal/config"
	"github.com/relabs-tech/speedtracker/internal/dashboard"
	"github.com/relabs-tech/speedtracker/internal/location"
	"github.com/relabs-tech/speedtracker/internal/metrics"
	"github.com/relabs-tech/speedtracker/internal/trip"
)

// TripService glues the location feed to the trip tracker: every sample
// goes through the monitor into the tracker, and every change is
// published back for the front-ends.
type TripService struct {
	pub        bus.Publisher
	stateTopic string
	speedTopic string

	Monitor *location.Monitor
	Tracker *trip.Tracker
}

// NewTripService wires a monitor and tracker that publish through pub.
func NewTripService(pub bus.Publisher, cfg *config.Config, opts trip.Options) *TripService {
	s := &TripService{
		pub:        pub,
		stateTopic: cfg.TopicTripState,
		speedTopic: cfg.TopicSpeed,
	}

	if opts.JumpThreshold == 0 {
		opts.JumpThreshold = cfg.TripJumpThresholdM
	}
	if opts.TickInterval == 0 {
		opts.TickInterval = cfg.TripTickInterval()
	}
	if opts.OnIngest == nil {
		opts.OnIngest = func(r trip.IngestResult) {
			metrics.TripIngestTotal.WithLabelValues(r.String()).Inc()
			if r == trip.Rejected {
				log.Debug("trip: dropped GPS jump")
			}
		}
	}

	s.Tracker = trip.NewTracker(opts)
	s.Tracker.Subscribe(s.publishTrip)

	s.Monitor = location.NewMonitor(func(pos *location.Position, speedMph float64) {
		s.publishSpeed()
		s.Tracker.Ingest(pos, speedMph)
	})
	s.Monitor.OnAuthorization(func(state location.AuthorizationState) {
		log.Infof("trip: location authorization %s", state)
		s.publishSpeed()
	})
	return s
}

// HandleCommand applies a command received from a front-end.
func (s *TripService) HandleCommand(cmd trip.Command) {
	action, err := trip.ParseAction(string(cmd.Action))
	if err != nil {
		log.Warnf("trip: %v", err)
		return
	}
	log.Infof("trip: %s", action)
	s.Tracker.Apply(action)
}

// PublishInitial publishes the current state so retained topics are
// populated before the first sample.
func (s *TripService) PublishInitial() {
	s.publishSpeed()
	s.publishTrip(s.Tracker.Snapshot())
}

func (s *TripService) publishSpeed() {
	speed := dashboard.SpeedFromReading(s.Monitor.Reading())
	metrics.SpeedMph.Set(speed.SpeedMph)
	if err := s.pub.Publish(s.speedTopic, true, speed); err != nil {
		log.Errorf("trip: %v", err)
	}
}

func (s *TripService) publishTrip(snap trip.Snapshot) {
	metrics.ObserveTrip(snap.Running, snap.ElapsedSeconds, snap.DistanceMeters)
	if err := s.pub.Publish(s.stateTopic, true, snap); err != nil {
		log.Errorf("trip: %v", err)
	}
}

// RunTripService runs the tracker and its MQTT subscriptions until ctx is done.
func RunTripService(ctx context.Context) error {
	cfg := config.Get()

	client, err := bus.Connect("trip", cfg.MQTTBroker, cfg.MQTTClientIDTrip)
	if err != nil {
		return err
	}
	defer client.Close()

	svc := NewTripService(client, cfg, trip.Options{})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return svc.Tracker.Run(ctx)
	})

	svc.PublishInitial()

	if err := bus.Subscribe(client, cfg.TopicGPSAuth, func(m location.AuthorizationMessage) {
		svc.Monitor.OnAuthorizationChanged(m.State)
	}); err != nil {
		return err
	}
	if err := bus.Subscribe(client, cfg.TopicGPSSample, svc.Monitor.OnSampleReceived); err != nil {
		return err
	}
	if err := bus.Subscribe(client, cfg.TopicTripCmd, svc.HandleCommand); err != nil {
		return err
	}

	log.Infof("trip: tracking (jump threshold %.0f m, tick %s)", cfg.TripJumpThresholdM, cfg.TripTickInterval())
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("trip: shutting down")
	return nil
}
