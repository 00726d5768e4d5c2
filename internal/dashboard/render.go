// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package dashboard

import (
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/relabs-tech/speedtracker/internal/location"
)

// OLED geometry of the SSD1306 modules.
const (
	OLEDWidth  = 128
	OLEDHeight = 64
)

// Render draws the panel for a 128x64 monochrome display: speed on top,
// then the trip rows. Until a fix is available the status text replaces
// the speed.
func Render(p Panel) *image1bit.VerticalLSB {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, OLEDWidth, OLEDHeight))

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}
	draw := func(y int, s string) {
		drawer.Dot = fixed.P(0, y)
		drawer.DrawBytes([]byte(s))
	}

	if p.Status.Text != "" && p.Status.Level == location.StatusAlert {
		draw(13, "GPS unavailable")
	} else {
		draw(13, fmt.Sprintf("%s MPH", p.Speed))
	}

	badge := "STOP"
	if p.Running {
		badge = "RUN"
	}
	draw(26, fmt.Sprintf("%s %s", p.Time, badge))
	draw(39, fmt.Sprintf("Mi %s", p.Miles))
	draw(52, fmt.Sprintf("A%s T%s", p.AvgMph, p.TopMph))

	return img
}

// SplashScreen is shown while waiting for the first messages.
func SplashScreen() *image1bit.VerticalLSB {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, OLEDWidth, OLEDHeight))
	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}

	drawer.Dot = fixed.P(10, 26)
	drawer.DrawBytes([]byte("Speedtracker"))

	drawer.Dot = fixed.P(5, 43)
	drawer.DrawBytes([]byte("Looking for"))

	drawer.Dot = fixed.P(25, 56)
	drawer.DrawBytes([]byte("sats"))

	return img
}
