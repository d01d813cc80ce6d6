package core

import (
	"errors"
	"testing"
)

func TestCalibrationDefaults(t *testing.T) {
	c := DecodeCalibration(DefaultCalibration[:])
	if c.MinMax[MinLX] != 0 || c.MinMax[MaxLX] != 255 || c.MinMax[MaxRY] != 255 {
		t.Errorf("Unexpected default extrema %v", c.MinMax)
	}
	if c.Deadzones != [2]uint8{10, 10} {
		t.Errorf("Expected deadzones 10/10, got %v", c.Deadzones)
	}
	if !c.EnableLeftStick || !c.EnableRightStick || c.EnableTriggers || c.EnableCamera {
		t.Errorf("Unexpected default enables %+v", c)
	}
	if c.Encode() != DefaultCalibration {
		t.Errorf("Encode(decode(default)) = % X", c.Encode())
	}
}

func TestCalibrationShortBlock(t *testing.T) {
	c := DecodeCalibration([]byte{1, 2})
	if c.MinMax[MinLX] != 1 || c.MinMax[MinLY] != 2 || c.CameraSensitivity != 0 {
		t.Errorf("Unexpected decode of short block %+v", c)
	}
}

func TestCalibrationStick(t *testing.T) {
	c := DecodeCalibration(DefaultCalibration[:])
	tests := []struct {
		axis int
		raw  uint8
		want uint8
	}{
		{AxisLX, 0x00, 0x00},
		{AxisLX, 0xFF, 0xFF},
		{AxisLY, 0x85, 0x80}, // Inside the deadzone
		{AxisRX, 0x8B, 0x8B},
		{AxisRY, 0x76, 0x80},
	}
	for _, tt := range tests {
		if got := c.Stick(tt.axis, tt.raw); got != tt.want {
			t.Errorf("Stick(%d, 0x%02X) = 0x%02X, expected 0x%02X", tt.axis, tt.raw, got, tt.want)
		}
	}

	c.MinMax[MinLX], c.MinMax[MaxLX] = 0x20, 0xE0
	c.Deadzones[0] = 0
	c.InvertLX = true
	if got := c.Stick(AxisLX, 0x10); got != 0xFF {
		t.Errorf("Clamped inverted minimum = 0x%02X, expected 0xFF", got)
	}
	if got := c.Stick(AxisLX, 0xE0); got != 0x00 {
		t.Errorf("Inverted maximum = 0x%02X, expected 0x00", got)
	}

	c.EnableRightStick = false
	if got := c.Stick(AxisRY, 0x00); got != 0x80 {
		t.Errorf("Disabled stick = 0x%02X, expected 0x80", got)
	}
}

func TestCalibrationTriggersAndAccel(t *testing.T) {
	c := DecodeCalibration(DefaultCalibration[:])
	if got := c.Trigger(false, 0x40); got != 0 {
		t.Errorf("Disabled trigger = 0x%02X", got)
	}
	c.EnableTriggers, c.InvertRT = true, true
	if got := c.Trigger(true, 0x40); got != 0xBF {
		t.Errorf("Inverted trigger = 0x%02X, expected 0xBF", got)
	}
	if got := c.Trigger(false, 0x40); got != 0x40 {
		t.Errorf("Left trigger = 0x%02X, expected 0x40", got)
	}

	c.InvertAY = true
	if got := c.Accel(1, 0x100); got != 0x2FF {
		t.Errorf("Inverted accel = 0x%03X, expected 0x2FF", got)
	}
	if got := c.Accel(0, 0x100); got != 0x100 {
		t.Errorf("Accel X = 0x%03X, expected 0x100", got)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore(nil)
	buf := make([]byte, 4)
	if err := s.Restore(buf); !errors.Is(err, ErrNoCalibration) {
		t.Errorf("Expected ErrNoCalibration, got %v", err)
	}

	s.Persist([]byte{7, 8})
	if err := s.Restore(buf); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if buf[0] != 7 || buf[1] != 8 || buf[2] != 0xFF || buf[3] != 0xFF {
		t.Errorf("Expected 07 08 FF FF, got % X", buf)
	}
	if s.Writes != 1 {
		t.Errorf("Expected 1 write, got %d", s.Writes)
	}
}

func TestPendingSlot(t *testing.T) {
	var p PendingSlot
	if _, ok := p.Take(); ok {
		t.Error("Empty slot returned a code")
	}

	// Zero is a valid code
	p.Post(0x00)
	if code, ok := p.Peek(); !ok || code != 0 {
		t.Errorf("Peek = 0x%02X, %v", code, ok)
	}
	p.Post(0x1C)
	if code, ok := p.Take(); !ok || code != 0x1C {
		t.Errorf("Take = 0x%02X, %v", code, ok)
	}
	if _, ok := p.Take(); ok {
		t.Error("Slot not cleared by Take")
	}

	p.Post(0x1B)
	p.Clear()
	if _, ok := p.Peek(); ok {
		t.Error("Slot not cleared by Clear")
	}
}
