// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/relabs-tech/speedtracker/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "speedtracker",
	Short: "GPS speedometer and trip tracker",
	Long: `speedtracker reads a GPS receiver, shows the current speed and keeps a
trip (elapsed time, distance, average and top speed).

Each sub-command is one process; they talk to each other over MQTT:

  gps      NMEA serial receiver -> location samples
  replay   NMEA log file        -> location samples
  simulate synthetic drive      -> location samples
  trip     location samples     -> speed readout and trip state
  web      dashboard over HTTP and websocket
  console  dashboard on the terminal
  display  dashboard on an SSD1306 OLED`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.InitGlobal(configPath); err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		level, err := log.ParseLevel(config.Get().LogLevel)
		if err != nil {
			return fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		log.SetLevel(level)
		return nil
	},
}

// Execute runs the command line. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "speedtracker_config.txt", "path to the KEY=VALUE config file")
}

// runUntilSignal runs fn with a context cancelled on SIGINT or SIGTERM.
func runUntilSignal(name string, fn func(ctx context.Context) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Infof("starting speedtracker %s", name)
	if err := fn(ctx); err != nil {
		log.Errorf("%s: %v", name, err)
		return err
	}
	return nil
}
