package core

import "testing"

func TestMultiplexerMask(t *testing.T) {
	m := NewMultiplexer(0x52, 0x58)
	if m.Mask() != 0x75 {
		t.Errorf("Expected mask 0x75, got 0x%02X", m.Mask())
	}
	for _, addr := range []uint8{0x52, 0x58} {
		if addr&m.Mask() != 0x52&m.Mask() {
			t.Errorf("Mask does not admit 0x%02X", addr)
		}
	}

	single := NewMultiplexer(0x52, 0)
	if single.Mask() != 0x7F {
		t.Errorf("Expected full mask for one device, got 0x%02X", single.Mask())
	}
}

func TestMultiplexerMatch(t *testing.T) {
	m := NewMultiplexer(0x52, 0x58)

	tests := []struct {
		addr   uint8
		device uint8
		ok     bool
	}{
		{0x52, DevicePrimary, true},
		{0x58, DeviceSecondary, true},
		{0x5A, 0, false}, // Admitted by the mask, owned by neither
		{0x10, 0, false},
	}
	for _, tc := range tests {
		dev, ok := m.Match(tc.addr)
		if ok != tc.ok || (ok && dev != tc.device) {
			t.Errorf("Match(0x%02X) = %d, %v; expected %d, %v", tc.addr, dev, ok, tc.device, tc.ok)
		}
		if _, latched := m.Identity(); latched != tc.ok {
			t.Errorf("Identity after 0x%02X latched=%v", tc.addr, latched)
		}
	}

	m.Match(0x58)
	m.Clear()
	if _, ok := m.Identity(); ok {
		t.Error("Identity survived Clear")
	}
}

func TestMultiplexerSecondaryGate(t *testing.T) {
	m := NewMultiplexer(0x52, 0x58)
	if !m.EnableSecondary(false) {
		t.Fatal("Disabling the secondary reported no change")
	}
	if m.Mask() != 0x7F {
		t.Errorf("Expected full mask with secondary off, got 0x%02X", m.Mask())
	}
	if _, ok := m.Match(0x58); ok {
		t.Error("Secondary matched while disabled")
	}
	if m.EnableSecondary(false) {
		t.Error("Repeated disable reported a change")
	}
	if !m.EnableSecondary(true) || m.Mask() != 0x75 {
		t.Errorf("Expected mask 0x75 after enabling, got 0x%02X", m.Mask())
	}

	single := NewMultiplexer(0x52, 0)
	if single.EnableSecondary(true) || single.Mask() != 0x7F {
		t.Error("Single-device multiplexer gained a secondary")
	}
}

func TestBusCursorKeepsPointerPerDevice(t *testing.T) {
	var c BusCursor
	c.setPointer(0x20)
	c.selectDevice(DeviceSecondary)
	c.setPointer(0x37)
	c.selectDevice(DevicePrimary)
	if c.Addr() != 0x020 {
		t.Errorf("Expected primary pointer 0x020, got 0x%03X", c.Addr())
	}
	c.selectDevice(DeviceSecondary)
	if c.Addr() != 0x137 {
		t.Errorf("Expected camera pointer 0x137, got 0x%03X", c.Addr())
	}
}

func TestBusCursorWrapsInsideHalf(t *testing.T) {
	c := BusCursor{Device: DeviceSecondary}
	c.setPointer(0xFF)
	if c.Addr() != 0x1FF {
		t.Errorf("Expected 0x1FF, got 0x%X", c.Addr())
	}
	c.Advance()
	if c.Addr() != 0x100 {
		t.Errorf("Expected wrap to 0x100, got 0x%X", c.Addr())
	}
}

func TestRegionTableOverride(t *testing.T) {
	table := NewRegionTable(
		Region{Name: "all", Start: 0x00, End: 0xFF},
		Region{Name: "command", Start: 0x6F, End: 0x6F, Raw: true},
		Region{Name: "camera", Device: DeviceSecondary, Start: 0x30, End: 0x33},
	)
	if table.Len() != 3 {
		t.Errorf("Expected 3 regions, got %d", table.Len())
	}

	tests := []struct {
		device, reg uint8
		name        string
	}{
		{DevicePrimary, 0x00, "all"},
		{DevicePrimary, 0x6F, "command"},
		{DevicePrimary, 0x70, "all"},
		{DeviceSecondary, 0x33, "camera"},
		{DeviceSecondary, 0x34, ""},
	}
	for _, tc := range tests {
		rg := table.Lookup(tc.device, tc.reg)
		name := ""
		if rg != nil {
			name = rg.Name
		}
		if name != tc.name {
			t.Errorf("Lookup(%d, 0x%02X) = %q, expected %q", tc.device, tc.reg, name, tc.name)
		}
	}
}
