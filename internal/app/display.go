// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"image"
	"time"

	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/speedtracker/internal/bus"
	"github.com/relabs-tech/speedtracker/internal/config"
	"github.com/relabs-tech/speedtracker/internal/dashboard"
)

// addrBus sends every transaction to a fixed I2C address, so the display
// can sit at an address other than the driver default.
type addrBus struct {
	i2c.Bus
	addr uint16
}

func (b addrBus) Tx(_ uint16, w, r []byte) error {
	return b.Bus.Tx(b.addr, w, r)
}

// RunDisplay renders the dashboard on an SSD1306 OLED until ctx is done.
func RunDisplay(ctx context.Context) error {
	cfg := config.Get()

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	i2cBus, err := i2creg.Open("")
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer i2cBus.Close()

	dev, err := ssd1306.NewI2C(addrBus{Bus: i2cBus, addr: cfg.DisplayI2CAddr}, &ssd1306.DefaultOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	defer dev.Halt()
	log.Infof("display: initialized at 0x%02X", cfg.DisplayI2CAddr)

	if err := dev.Draw(dev.Bounds(), dashboard.SplashScreen(), image.Point{}); err != nil {
		log.Printf("display: error showing splash: %v", err)
	}

	board := dashboard.NewBoard(nil)

	client, err := bus.Connect("display", cfg.MQTTBroker, cfg.MQTTClientIDDisplay)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := bus.Subscribe(client, cfg.TopicSpeed, board.SetSpeed); err != nil {
		return err
	}
	if err := bus.Subscribe(client, cfg.TopicTripState, board.SetTrip); err != nil {
		return err
	}

	ticker := time.NewTicker(cfg.DisplayInterval())
	defer ticker.Stop()

	log.Info("display: starting update loop")
	var last dashboard.Panel
	for {
		select {
		case <-ctx.Done():
			log.Info("display: shutting down")
			return nil
		case <-ticker.C:
		}

		if !board.Ready() {
			continue
		}
		panel := board.Panel()
		if panel == last {
			continue
		}
		if err := dev.Draw(dev.Bounds(), dashboard.Render(panel), image.Point{}); err != nil {
			log.Printf("display: error updating display: %v", err)
			continue
		}
		last = panel
	}
}
