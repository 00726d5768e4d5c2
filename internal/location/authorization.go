// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package location

import (
	"encoding/json"
	"fmt"
)

// AuthorizationState is the coarse access state of a location source.
type AuthorizationState int

const (
	NotDetermined AuthorizationState = iota
	Denied
	Restricted
	Authorized
)

var authorizationNames = map[AuthorizationState]string{
	NotDetermined: "not_determined",
	Denied:        "denied",
	Restricted:    "restricted",
	Authorized:    "authorized",
}

func (s AuthorizationState) String() string {
	if name, ok := authorizationNames[s]; ok {
		return name
	}
	return fmt.Sprintf("authorization(%d)", int(s))
}

// ParseAuthorizationState is the inverse of String.
func ParseAuthorizationState(name string) (AuthorizationState, error) {
	for state, n := range authorizationNames {
		if n == name {
			return state, nil
		}
	}
	return NotDetermined, fmt.Errorf("unknown authorization state %q", name)
}

func (s AuthorizationState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *AuthorizationState) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	state, err := ParseAuthorizationState(name)
	if err != nil {
		return err
	}
	*s = state
	return nil
}

// AuthorizationMessage is the payload published on the authorization topic.
type AuthorizationMessage struct {
	State  AuthorizationState `json:"state"`
	Source string             `json:"source,omitempty"`
}
