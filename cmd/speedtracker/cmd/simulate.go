// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/relabs-tech/speedtracker/internal/app"
	"github.com/relabs-tech/speedtracker/internal/location"
)

var (
	simOrigin   location.Position
	simInterval time.Duration
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Publish synthetic location samples (no receiver needed)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUntilSignal("simulated producer (mock)", func(ctx context.Context) error {
			return app.RunSimulator(ctx, simOrigin, simInterval)
		})
	},
}

func init() {
	simulateCmd.Flags().Float64Var(&simOrigin.Latitude, "lat", 40.4168, "start latitude")
	simulateCmd.Flags().Float64Var(&simOrigin.Longitude, "lon", -3.7038, "start longitude")
	simulateCmd.Flags().DurationVarP(&simInterval, "interval", "i", time.Second, "time between samples")
	rootCmd.AddCommand(simulateCmd)
}
