// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/relabs-tech/speedtracker/internal/app"
)

var (
	replayFile string
	replayPace time.Duration
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Publish location samples from a recorded NMEA log",
	Long: `Replay reads an NMEA log (one sentence per line) and publishes it exactly
like the gps command would, waiting --pace after every RMC sentence.
Use --pace 0 to publish as fast as possible.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUntilSignal("replay producer", func(ctx context.Context) error {
			return app.RunReplayProducer(ctx, replayFile, replayPace)
		})
	},
}

func init() {
	replayCmd.Flags().StringVarP(&replayFile, "file", "f", "", "path to the NMEA log")
	replayCmd.Flags().DurationVarP(&replayPace, "pace", "p", time.Second, "delay after each RMC sentence")
	_ = replayCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(replayCmd)
}
