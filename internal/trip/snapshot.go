// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package trip

import (
	"fmt"
	"strings"
)

// Snapshot is the observable trip state, suitable for JSON and MQTT.
type Snapshot struct {
	RunID           string  `json:"run_id,omitempty"`
	Running         bool    `json:"running"`
	ElapsedSeconds  int     `json:"elapsed_s"`
	Elapsed         string  `json:"elapsed"` // MM:SS
	DistanceMeters  float64 `json:"distance_m"`
	DistanceMiles   float64 `json:"distance_mi"`
	AverageSpeedMph float64 `json:"avg_mph"`
	TopSpeedMph     float64 `json:"top_mph"`
}

// Action is a trip control command.
type Action string

const (
	ActionStart  Action = "start"
	ActionStop   Action = "stop"
	ActionReset  Action = "reset"
	ActionToggle Action = "toggle"
)

// Command is the payload published on the trip command topic.
type Command struct {
	Action Action `json:"action"`
}

// ParseAction accepts an action name in any case.
func ParseAction(name string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(name)))
	switch a {
	case ActionStart, ActionStop, ActionReset, ActionToggle:
		return a, nil
	}
	return "", fmt.Errorf("unknown trip action %q", name)
}
