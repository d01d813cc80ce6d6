package core

import "classicplus/protocol"

// Stick extrema indices within Calibration.MinMax
const (
	MinLX = iota
	MinLY
	MaxLX
	MaxLY
	MinRX
	MinRY
	MaxRX
	MaxRY
)

// Calibration is the decoded custom calibration block
type Calibration struct {
	MinMax    [8]uint8
	Deadzones [2]uint8 // Left, right stick radius

	InvertLX, InvertLY, InvertRX, InvertRY bool
	InvertLT, InvertRT                     bool
	InvertAX, InvertAY, InvertAZ           bool

	EnableLeftStick  bool
	EnableRightStick bool
	EnableTriggers   bool
	EnableCamera     bool

	CameraSensitivity uint8
}

// DefaultCalibration is the block written by CAL-DEFAULT: full stick range,
// deadzone 10, both sticks enabled, triggers and camera disabled.
var DefaultCalibration = [protocol.CustomCalibrationSize]byte{
	0, 0, 255, 255, 0, 0, 255, 255, 10, 10, 0, 0, 0x03, 50,
}

// DecodeCalibration parses the first 14 bytes of a calibration block
func DecodeCalibration(buf []byte) Calibration {
	var raw [protocol.CustomCalibrationSize]byte
	copy(raw[:], buf)

	var c Calibration
	copy(c.MinMax[:], raw[0:8])
	c.Deadzones = [2]uint8{raw[8], raw[9]}

	inv1, inv2, cfg := raw[10], raw[11], raw[12]
	c.InvertLX = inv1&0x01 != 0
	c.InvertLY = inv1&0x02 != 0
	c.InvertRX = inv1&0x04 != 0
	c.InvertRY = inv1&0x08 != 0
	c.InvertLT = inv1&0x10 != 0
	c.InvertRT = inv1&0x20 != 0
	c.InvertAX = inv2&0x01 != 0
	c.InvertAY = inv2&0x02 != 0
	c.InvertAZ = inv2&0x04 != 0

	c.EnableLeftStick = cfg&0x01 != 0
	c.EnableRightStick = cfg&0x02 != 0
	c.EnableTriggers = cfg&0x04 != 0
	c.EnableCamera = cfg&0x08 != 0

	c.CameraSensitivity = raw[13]
	return c
}

// Encode packs the calibration back into its 14-byte register layout
func (c Calibration) Encode() [protocol.CustomCalibrationSize]byte {
	var raw [protocol.CustomCalibrationSize]byte
	copy(raw[0:8], c.MinMax[:])
	raw[8], raw[9] = c.Deadzones[0], c.Deadzones[1]
	raw[10] = bit(c.InvertLX, 0) | bit(c.InvertLY, 1) | bit(c.InvertRX, 2) |
		bit(c.InvertRY, 3) | bit(c.InvertLT, 4) | bit(c.InvertRT, 5)
	raw[11] = bit(c.InvertAX, 0) | bit(c.InvertAY, 1) | bit(c.InvertAZ, 2)
	raw[12] = bit(c.EnableLeftStick, 0) | bit(c.EnableRightStick, 1) |
		bit(c.EnableTriggers, 2) | bit(c.EnableCamera, 3)
	raw[13] = c.CameraSensitivity
	return raw
}

// Stick axes for Calibration.Stick
const (
	AxisLX = iota
	AxisLY
	AxisRX
	AxisRY
)

// Stick maps a raw stick sample through the extrema, deadzone and invert
// settings of axis. A disabled stick reads centered.
func (c Calibration) Stick(axis int, raw uint8) uint8 {
	left := axis < AxisRX
	if (left && !c.EnableLeftStick) || (!left && !c.EnableRightStick) {
		return 0x80
	}

	var lo, hi, dz uint8
	var invert bool
	switch axis {
	case AxisLX:
		lo, hi, dz, invert = c.MinMax[MinLX], c.MinMax[MaxLX], c.Deadzones[0], c.InvertLX
	case AxisLY:
		lo, hi, dz, invert = c.MinMax[MinLY], c.MinMax[MaxLY], c.Deadzones[0], c.InvertLY
	case AxisRX:
		lo, hi, dz, invert = c.MinMax[MinRX], c.MinMax[MaxRX], c.Deadzones[1], c.InvertRX
	default:
		lo, hi, dz, invert = c.MinMax[MinRY], c.MinMax[MaxRY], c.Deadzones[1], c.InvertRY
	}

	v := int(raw)
	if hi > lo {
		if v < int(lo) {
			v = int(lo)
		}
		if v > int(hi) {
			v = int(hi)
		}
		v = (v - int(lo)) * 255 / (int(hi) - int(lo))
	}
	if d := v - 0x80; d <= int(dz) && -d <= int(dz) {
		v = 0x80
	}
	if invert {
		v = 255 - v
	}
	return uint8(v)
}

// Trigger applies the trigger enable and invert settings. Disabled triggers read released.
func (c Calibration) Trigger(right bool, raw uint8) uint8 {
	if !c.EnableTriggers {
		return 0
	}
	if (right && c.InvertRT) || (!right && c.InvertLT) {
		return 255 - raw
	}
	return raw
}

// Accel applies the invert settings to a 10-bit accelerometer sample; axis is 0, 1 or 2 for X, Y, Z
func (c Calibration) Accel(axis int, v uint16) uint16 {
	v &= 0x3FF
	inv := [3]bool{c.InvertAX, c.InvertAY, c.InvertAZ}
	if axis >= 0 && axis < 3 && inv[axis] {
		return 0x3FF - v
	}
	return v
}

func bit(set bool, n uint) byte {
	if set {
		return 1 << n
	}
	return 0
}

// defaultCalibrationBlock returns the default block padded to size
func defaultCalibrationBlock(size int) []byte {
	block := make([]byte, size)
	copy(block, DefaultCalibration[:])
	return block
}
