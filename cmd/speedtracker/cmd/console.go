// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/relabs-tech/speedtracker/internal/app"
)

var showSamples bool

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Print the dashboard to the terminal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUntilSignal("console (MQTT subscriber)", func(ctx context.Context) error {
			return app.RunConsoleMQTT(ctx, os.Stdout, showSamples)
		})
	},
}

func init() {
	consoleCmd.Flags().BoolVarP(&showSamples, "samples", "s", false, "also print raw location samples")
	rootCmd.AddCommand(consoleCmd)
}
