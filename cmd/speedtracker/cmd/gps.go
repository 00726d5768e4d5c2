// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/relabs-tech/speedtracker/internal/app"
)

var gpsCmd = &cobra.Command{
	Use:   "gps",
	Short: "Publish location samples from the NMEA serial receiver",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUntilSignal("gps producer (NMEA -> MQTT)", app.RunGPSProducer)
	},
}

func init() {
	rootCmd.AddCommand(gpsCmd)
}
