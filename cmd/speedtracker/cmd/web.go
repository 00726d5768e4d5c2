// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/relabs-tech/speedtracker/internal/app"
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Serve the dashboard, its JSON API and Prometheus metrics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUntilSignal("web server (MQTT subscriber)", app.RunWeb)
	},
}

func init() {
	rootCmd.AddCommand(webCmd)
}
