// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	serial "github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/speedtracker/internal/location"
)

// OpenSerial opens the receiver port (8N1). The returned state describes
// whether the receiver is usable: a permission error means denied, any
// other failure means restricted.
func OpenSerial(portName string, baudRate uint) (io.ReadWriteCloser, location.AuthorizationState, error) {
	opts := serial.OpenOptions{
		PortName:              portName,
		BaudRate:              baudRate,
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	port, err := serial.Open(opts)
	if err != nil {
		return nil, AuthorizationFromOpenError(err), fmt.Errorf("open GPS serial port %s: %w", portName, err)
	}
	return port, location.Authorized, nil
}

// AuthorizationFromOpenError maps a port open error to an authorization state.
func AuthorizationFromOpenError(err error) location.AuthorizationState {
	switch {
	case err == nil:
		return location.Authorized
	case errors.Is(err, fs.ErrPermission):
		return location.Denied
	default:
		return location.Restricted
	}
}
