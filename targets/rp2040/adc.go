//go:build rp2040 || rp2350

package main

import (
	"classicplus/core"
	"classicplus/protocol"
	"machine"
)

// Stick potentiometers: LX, LY, RX, RY
var stickPins = [4]machine.Pin{machine.ADC0, machine.ADC1, machine.ADC2, machine.ADC3}

// Button pins, wired to ground with internal pull-ups, in report bit order
var buttonPins = [...]struct {
	pin machine.Pin
	bit uint16
}{
	{machine.GP0, protocol.ButtonA},
	{machine.GP1, protocol.ButtonB},
	{machine.GP2, protocol.ButtonX},
	{machine.GP3, protocol.ButtonY},
	{machine.GP4, protocol.ButtonUp},
	{machine.GP5, protocol.ButtonDown},
	{machine.GP6, protocol.ButtonLeft},
	{machine.GP7, protocol.ButtonRight},
	{machine.GP8, protocol.ButtonMinus},
	{machine.GP9, protocol.ButtonHome},
	{machine.GP10, protocol.ButtonPlus},
	{machine.GP11, protocol.ButtonLT},
	{machine.GP12, protocol.ButtonRT},
	{machine.GP13, protocol.ButtonZL},
	{machine.GP22, protocol.ButtonZR},
}

// RPInputs samples the sticks and buttons
type RPInputs struct {
	sticks [4]machine.ADC
}

// NewRPInputs configures the ADC channels and button pins
func NewRPInputs() *RPInputs {
	machine.InitADC()

	in := &RPInputs{}
	for i, pin := range stickPins {
		in.sticks[i] = machine.ADC{Pin: pin}
		in.sticks[i].Configure(machine.ADCConfig{})
	}
	for _, b := range buttonPins {
		b.pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	}
	return in
}

// Raw returns the uncalibrated axes in raw mirror order: LX, LY, RX, RY, LT, RT
func (in *RPInputs) Raw() [protocol.RawAxesSize]byte {
	var raw [protocol.RawAxesSize]byte
	for i := range in.sticks {
		// ADC samples are scaled to 16 bits
		raw[i] = uint8(in.sticks[i].Get() >> 8)
	}
	// Digital triggers read fully pressed or released
	if !machine.GP11.Get() {
		raw[4] = 0xFF
	}
	if !machine.GP12.Get() {
		raw[5] = 0xFF
	}
	return raw
}

// Buttons returns the pressed buttons
func (in *RPInputs) Buttons() uint16 {
	var pressed uint16
	for _, b := range buttonPins {
		if !b.pin.Get() {
			pressed |= b.bit
		}
	}
	return pressed
}

// Classic builds a calibrated Classic Controller sample from raw
func Classic(raw [protocol.RawAxesSize]byte, buttons uint16, cal core.Calibration) protocol.ClassicState {
	return protocol.ClassicState{
		LX:      cal.Stick(core.AxisLX, raw[0]),
		LY:      cal.Stick(core.AxisLY, raw[1]),
		RX:      cal.Stick(core.AxisRX, raw[2]),
		RY:      cal.Stick(core.AxisRY, raw[3]),
		LT:      cal.Trigger(false, raw[4]),
		RT:      cal.Trigger(true, raw[5]),
		Buttons: buttons,
	}
}
