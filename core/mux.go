package core

// Device halves of the register file
const (
	DevicePrimary   = 0
	DeviceSecondary = 1
)

// Multiplexer maps bus addresses onto device halves. The bus peripheral is
// configured with Mask so it acknowledges both addresses; since the mask also
// admits addresses that belong to neither device, every address phase is
// checked here before any byte is accepted.
type Multiplexer struct {
	addrs   [2]uint8
	count   int
	active  int // Devices currently answering, count or 1
	device  uint8
	matched bool
}

// NewMultiplexer creates a multiplexer for one or two 7-bit addresses.
// A zero secondary address means a single-device build.
func NewMultiplexer(primary, secondary uint8) Multiplexer {
	m := Multiplexer{count: 1}
	m.addrs[DevicePrimary] = primary & 0x7F
	if secondary != 0 {
		m.addrs[DeviceSecondary] = secondary & 0x7F
		m.count = 2
	}
	m.active = m.count
	return m
}

// Mask returns the 7-bit address mask: bits set where both addresses agree
func (m *Multiplexer) Mask() uint8 {
	if m.active == 1 {
		return 0x7F
	}
	return ^(m.addrs[0] ^ m.addrs[1]) & 0x7F
}

// EnableSecondary switches the secondary device on or off and reports
// whether the answering set changed. Single-device builds ignore it.
func (m *Multiplexer) EnableSecondary(on bool) bool {
	if m.count < 2 {
		return false
	}
	want := 1
	if on {
		want = 2
	}
	if m.active == want {
		return false
	}
	m.active = want
	return true
}

// Address returns the configured address of a device half
func (m *Multiplexer) Address(device uint8) uint8 {
	return m.addrs[device&1]
}

// Match latches the device owning addr for the rest of the transaction.
// Addresses admitted by the mask but owned by neither device are rejected
// and leave the identity unset.
func (m *Multiplexer) Match(addr uint8) (uint8, bool) {
	addr &= 0x7F
	for i := 0; i < m.active; i++ {
		if m.addrs[i] == addr {
			m.device = uint8(i)
			m.matched = true
			return m.device, true
		}
	}
	m.matched = false
	return 0, false
}

// Identity returns the latched device, if any
func (m *Multiplexer) Identity() (uint8, bool) {
	return m.device, m.matched
}

// Clear forgets the latched identity at the end of a transaction
func (m *Multiplexer) Clear() {
	m.matched = false
	m.device = 0
}
