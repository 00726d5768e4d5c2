// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/relabs-tech/speedtracker/internal/bus"
	"github.com/relabs-tech/speedtracker/internal/config"
	"github.com/relabs-tech/speedtracker/internal/dashboard"
	"github.com/relabs-tech/speedtracker/internal/location"
)

// PrintPanel writes one console frame for the panel.
func PrintPanel(w io.Writer, p dashboard.Panel) {
	fmt.Fprintf(w, "[SPD ] %3s mph  %s\n", p.Speed, p.Status.Text)
	fmt.Fprintf(w, "[TRIP] %-7s time=%s miles=%s avg=%s top=%s\n",
		p.Badge, p.Time, p.Miles, p.AvgMph, p.TopMph)
}

// PrintSample writes one raw sample line.
func PrintSample(w io.Writer, s location.Sample) {
	fmt.Fprintf(w, "[GPS ] time=%s lat=%.6f lon=%.6f speed=%.1fmph acc=%.0fm\n",
		s.Time.Format("15:04:05"), s.Position.Latitude, s.Position.Longitude,
		s.SpeedMph(), s.HorizontalAccuracy)
}

// RunConsoleMQTT prints the dashboard (and optionally raw samples) to w
// until ctx is done.
func RunConsoleMQTT(ctx context.Context, w io.Writer, showSamples bool) error {
	cfg := config.Get()

	client, err := bus.Connect("console", cfg.MQTTBroker, cfg.MQTTClientIDConsole)
	if err != nil {
		return err
	}
	defer client.Close()

	board := dashboard.NewBoard(func(p dashboard.Panel) {
		PrintPanel(w, p)
	})

	if err := bus.Subscribe(client, cfg.TopicSpeed, board.SetSpeed); err != nil {
		return err
	}
	if err := bus.Subscribe(client, cfg.TopicTripState, board.SetTrip); err != nil {
		return err
	}
	if showSamples {
		if err := bus.Subscribe(client, cfg.TopicGPSSample, func(s location.Sample) {
			PrintSample(w, s)
		}); err != nil {
			return err
		}
	}
	if err := bus.Subscribe(client, cfg.TopicGPSAuth, func(m location.AuthorizationMessage) {
		fmt.Fprintf(w, "[AUTH] %s %s\n", strings.ToUpper(m.State.String()), m.Source)
	}); err != nil {
		return err
	}

	<-ctx.Done()
	log.Info("console: shutting down")
	return nil
}
