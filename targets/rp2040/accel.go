//go:build rp2040 || rp2350

// ADXL345 accelerometer feeding the Nunchuk motion axes.
//
// Hardware Setup:
//   - I2C1: SDA=GPIO18, SCL=GPIO19
//   - Address: 0x53 (SDO/ALT ADDRESS pin low)

package main

import (
	"classicplus/core"
	"machine"

	"tinygo.org/x/drivers/adxl345"
)

// Nunchuk accelerometer scale: 10-bit samples, 0g at 512, about 208 counts per g
const (
	accelZero    = 512
	accelPerG    = 208
	adxlCountsG  = 256 // ADXL345 full resolution at +/-2g
	accelMaximum = 0x3FF
)

// RPAccel reads the ADXL345 and converts to Nunchuk units
type RPAccel struct {
	sensor adxl345.Device
}

// NewRPAccel configures I2C1 as controller and starts the sensor
func NewRPAccel() (*RPAccel, error) {
	err := machine.I2C1.Configure(machine.I2CConfig{
		Frequency: 400000,
		SDA:       machine.GP18,
		SCL:       machine.GP19,
	})
	if err != nil {
		return nil, err
	}

	a := &RPAccel{sensor: adxl345.New(machine.I2C1)}
	a.sensor.Configure()
	a.sensor.SetRate(adxl345.RATE_100HZ)
	a.sensor.SetRange(adxl345.RANGE_2G)
	return a, nil
}

// Read returns calibrated 10-bit X, Y and Z samples
func (a *RPAccel) Read(cal core.Calibration) (x, y, z uint16) {
	rx, ry, rz := a.sensor.ReadRawAcceleration()
	return cal.Accel(0, toNunchuk(rx)), cal.Accel(1, toNunchuk(ry)), cal.Accel(2, toNunchuk(rz))
}

func toNunchuk(raw int32) uint16 {
	v := accelZero + raw*accelPerG/adxlCountsG
	if v < 0 {
		v = 0
	}
	if v > accelMaximum {
		v = accelMaximum
	}
	return uint16(v)
}
