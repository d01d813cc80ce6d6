package core

// BusCursor is the register pointer shared by consecutive bus accesses
type BusCursor struct {
	Reg    uint8 // Register within the addressed device
	Device uint8 // Device half (0 or 1)

	saved     [2]uint8 // Pointer left behind by each device half
	addrPhase bool     // Next written byte sets Reg
	leading   bool     // No data byte has followed the pointer byte yet
}

// Addr returns the register file address the cursor points at. The register
// byte wraps inside its half, so one device never reaches the other's registers.
func (c *BusCursor) Addr() uint16 {
	return uint16(c.Device)<<8 | uint16(c.Reg)
}

// Advance moves to the next register
func (c *BusCursor) Advance() {
	c.Reg++
}

// selectDevice parks the pointer of the current half and resumes the one
// last written for dev
func (c *BusCursor) selectDevice(dev uint8) {
	c.saved[c.Device&1] = c.Reg
	c.Device = dev & 1
	c.Reg = c.saved[c.Device]
}

// beginWrite starts the address phase of a write transaction
func (c *BusCursor) beginWrite() {
	c.addrPhase = true
	c.leading = false
}

// setPointer consumes the register pointer byte
func (c *BusCursor) setPointer(reg uint8) {
	c.Reg = reg
	c.addrPhase = false
	c.leading = true
}

// reset clears transaction-scoped flags; Reg survives so a read transaction
// continues from the last pointer written.
func (c *BusCursor) reset() {
	c.addrPhase = false
	c.leading = false
}
