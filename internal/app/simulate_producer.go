// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/relabs-tech/speedtracker/internal/bus"
	"github.com/relabs-tech/speedtracker/internal/config"
	"github.com/relabs-tech/speedtracker/internal/location"
)

// ErrInvalidInterval is returned for a non-positive sample interval.
var ErrInvalidInterval = errors.New("sample interval must be positive")

// PumpSource feeds samples from src to l every interval until ctx is done.
func PumpSource(ctx context.Context, src location.Source, l location.Listener, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("%w, got %s", ErrInvalidInterval, interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		s, err := src.Next()
		if err != nil {
			log.Printf("simulate: error from mock source: %v", err)
			continue
		}
		l.OnSampleReceived(s)
	}
}

// RunSimulator publishes synthetic samples around origin, for running the
// other processes without a receiver attached.
func RunSimulator(ctx context.Context, origin location.Position, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("%w, got %s", ErrInvalidInterval, interval)
	}
	cfg := config.Get()

	client, err := bus.Connect("simulate", cfg.MQTTBroker, cfg.MQTTClientIDGPS)
	if err != nil {
		return err
	}
	defer client.Close()

	feed := NewFeedPublisher(client, cfg, "simulator")
	feed.OnAuthorizationChanged(location.Authorized)

	log.Infof("simulate: publishing around %.5f,%.5f every %s", origin.Latitude, origin.Longitude, interval)
	return PumpSource(ctx, location.NewMockSource(origin), feed, interval)
}
