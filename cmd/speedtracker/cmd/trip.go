// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/relabs-tech/speedtracker/internal/app"
)

var tripCmd = &cobra.Command{
	Use:   "trip",
	Short: "Track the trip from location samples and publish its state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUntilSignal("trip service", app.RunTripService)
	},
}

func init() {
	rootCmd.AddCommand(tripCmd)
}
