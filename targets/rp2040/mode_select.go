//go:build rp2040 || rp2350

package main

import (
	"classicplus/core"
	"machine"
	"time"
)

// Strap pins, read at power-up and then polled by the main loop. Both are
// pulled up; tie to ground to select.
const (
	bootPin    = machine.GP14 // Start in the boot image (programming mode)
	nunchukPin = machine.GP15 // Impersonate a Nunchuk instead of a Classic Controller
)

// ModeConfig determines which image and profile to run
type ModeConfig struct {
	Boot    bool
	Nunchuk bool
}

// GetMode reads the strap pins
func GetMode() ModeConfig {
	bootPin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	nunchukPin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})

	// Let the pull-ups settle
	time.Sleep(time.Millisecond)

	return ModeConfig{
		Boot:    !bootPin.Get(),
		Nunchuk: !nunchukPin.Get(),
	}
}

// straps tracks the strap pins after power-up
type straps struct {
	boot    core.Strap
	nunchuk core.Strap
}

func newStraps(mode ModeConfig) straps {
	return straps{boot: core.NewStrap(mode.Boot), nunchuk: core.NewStrap(mode.Nunchuk)}
}

// poll samples both pins and returns the modes whose level just changed
func (s *straps) poll() (boot, nunchuk bool) {
	boot = s.boot.Sample(!bootPin.Get())
	nunchuk = s.nunchuk.Sample(!nunchukPin.Get())
	return boot, nunchuk
}
