// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/relabs-tech/speedtracker/internal/bus"
	"github.com/relabs-tech/speedtracker/internal/config"
	"github.com/relabs-tech/speedtracker/internal/gps"
	"github.com/relabs-tech/speedtracker/internal/location"
	"github.com/relabs-tech/speedtracker/internal/metrics"
)

// FeedPublisher is the location.Listener of the GPS producer: it forwards
// samples and authorization changes to MQTT.
type FeedPublisher struct {
	pub         bus.Publisher
	sampleTopic string
	authTopic   string
	source      string
}

// NewFeedPublisher publishes on the configured GPS topics. source names
// the device in authorization messages.
func NewFeedPublisher(pub bus.Publisher, cfg *config.Config, source string) *FeedPublisher {
	return &FeedPublisher{
		pub:         pub,
		sampleTopic: cfg.TopicGPSSample,
		authTopic:   cfg.TopicGPSAuth,
		source:      source,
	}
}

func (f *FeedPublisher) OnAuthorizationChanged(state location.AuthorizationState) {
	msg := location.AuthorizationMessage{State: state, Source: f.source}
	if err := f.pub.Publish(f.authTopic, true, msg); err != nil {
		log.Errorf("gps: %v", err)
		return
	}
	log.Infof("gps: authorization %s (%s)", state, f.source)
}

func (f *FeedPublisher) OnSampleReceived(s location.Sample) {
	if err := f.pub.Publish(f.sampleTopic, false, s); err != nil {
		log.Errorf("gps: %v", err)
		return
	}
	metrics.SamplesPublishedTotal.Inc()
	log.WithFields(log.Fields{
		"lat":   s.Position.Latitude,
		"lon":   s.Position.Longitude,
		"mph":   s.SpeedMph(),
		"acc_m": s.HorizontalAccuracy,
	}).Debug("gps: published sample")
}

func receiverOptions(cfg *config.Config) gps.ReceiverOptions {
	minDisp := cfg.GPSDistanceFilterM
	if minDisp == 0 {
		minDisp = -1
	}
	return gps.ReceiverOptions{UERE: cfg.GPSUERE, MinDisplacement: minDisp}
}

// RunGPSProducer opens the GPS serial port, parses NMEA sentences and
// publishes location samples until ctx is done.
func RunGPSProducer(ctx context.Context) error {
	cfg := config.Get()
	if err := cfg.ValidateSerial(); err != nil {
		return err
	}

	client, err := bus.Connect("gps", cfg.MQTTBroker, cfg.MQTTClientIDGPS)
	if err != nil {
		return err
	}
	defer client.Close()

	feed := NewFeedPublisher(client, cfg, cfg.GPSSerialPort)
	feed.OnAuthorizationChanged(location.NotDetermined)

	port, state, err := gps.OpenSerial(cfg.GPSSerialPort, uint(cfg.GPSBaudRate))
	feed.OnAuthorizationChanged(state)
	if err != nil {
		return err
	}
	defer port.Close()
	log.Infof("gps: serial port opened on %s at %d baud", cfg.GPSSerialPort, cfg.GPSBaudRate)

	// a blocked serial read only returns once the port is closed
	go func() {
		<-ctx.Done()
		port.Close()
	}()

	receiver := gps.NewReceiver(feed, receiverOptions(cfg))
	if err := receiver.Run(ctx, port); err != nil && ctx.Err() == nil {
		return fmt.Errorf("gps: read error: %w", err)
	}
	return nil
}

// RunReplayProducer publishes the sentences of an NMEA log as if they came
// from the receiver, waiting pace between RMC sentences.
func RunReplayProducer(ctx context.Context, path string, pace time.Duration) error {
	cfg := config.Get()

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("replay: open %s: %w", path, err)
	}
	defer file.Close()

	client, err := bus.Connect("replay", cfg.MQTTBroker, cfg.MQTTClientIDGPS)
	if err != nil {
		return err
	}
	defer client.Close()

	feed := NewFeedPublisher(client, cfg, path)
	feed.OnAuthorizationChanged(location.Authorized)

	opts := receiverOptions(cfg)
	opts.Pace = pace
	receiver := gps.NewReceiver(feed, opts)

	log.Infof("replay: publishing %s every %s", path, pace)
	if err := receiver.Run(ctx, file); err != nil && ctx.Err() == nil {
		return fmt.Errorf("replay: %w", err)
	}
	log.Infof("replay: finished %s", path)
	return nil
}
