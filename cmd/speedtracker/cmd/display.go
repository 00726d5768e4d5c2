// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/relabs-tech/speedtracker/internal/app"
)

var displayCmd = &cobra.Command{
	Use:   "display",
	Short: "Show the dashboard on an SSD1306 OLED (needs I2C access)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUntilSignal("display (MQTT subscriber)", app.RunDisplay)
	},
}

func init() {
	rootCmd.AddCommand(displayCmd)
}
