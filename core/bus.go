package core

import "classicplus/protocol"

// OnAddress handles an address phase. raw is the byte on the wire: the 7-bit
// address followed by the read bit. It reports whether to acknowledge.
func (e *Engine) OnAddress(raw byte) bool {
	addr := raw >> 1
	read := raw&1 != 0

	dev, ok := e.mux.Match(addr)
	if ok && e.programMode && dev != DevicePrimary {
		// The boot image answers on the expansion address only
		e.mux.Clear()
		ok = false
	}
	if !ok {
		e.stats.AddressMisses++
		RecordEvent(EvtAddressMiss, 0, addr, uint16(raw))
		return false
	}

	e.stats.Transactions++
	e.cursor.selectDevice(dev)
	if read {
		e.cursor.reset()
	} else {
		e.cursor.beginWrite()
	}
	RecordEvent(EvtAddress, dev, e.cursor.Reg, uint16(raw))
	return true
}

// OnWrite handles a byte written by the host. The first byte of a write
// transaction sets the register pointer; later bytes go to the region at
// the pointer.
func (e *Engine) OnWrite(b byte) {
	dev, ok := e.mux.Identity()
	if !ok || e.overflow {
		return
	}
	c := &e.cursor
	if c.addrPhase {
		c.setPointer(b)
		return
	}

	reg := c.Reg
	rg := e.table.Lookup(dev, reg)
	e.stats.Writes++
	RecordEvent(EvtWrite, dev, reg, uint16(b))

	switch {
	case rg == nil:
		// Unmapped, ignored
	case rg.Write != nil:
		rg.Write(e, reg, b)
	default:
		v := b
		if e.transform && dev == DevicePrimary && !rg.Raw {
			v = e.cipher.Decode(reg, b)
		}
		e.regs.Write(c.Addr(), v)
	}

	if !e.programMode {
		// Hooks see the byte as it was on the wire
		e.dispatcher.Observe(e, dev, reg, b)
	}

	c.leading = false
	if rg == nil || !rg.Hold {
		c.Advance()
	}
}

// OnRead returns the byte to clock out for a host read
func (e *Engine) OnRead() byte {
	dev, ok := e.mux.Identity()
	if !ok || e.overflow {
		return 0xFF
	}
	c := &e.cursor
	reg := c.Reg
	rg := e.table.Lookup(dev, reg)

	v := byte(0xFF)
	switch {
	case rg == nil:
	case rg.Read != nil:
		v = rg.Read(e, reg)
	default:
		v = e.regs.Read(c.Addr())
		if e.transform && dev == DevicePrimary {
			v = e.cipher.Encode(reg, v)
		}
	}
	e.stats.Reads++
	RecordEvent(EvtRead, dev, reg, uint16(v))

	if rg == nil || !rg.Hold {
		c.Advance()
	}
	return v
}

// OnStop ends the transaction
func (e *Engine) OnStop() {
	e.mux.Clear()
	e.cursor.reset()
	e.overflow = false
	RecordEvent(EvtStop, e.cursor.Device, e.cursor.Reg, 0)
}

// OnOverflow reports a byte lost by the peripheral. Writes are dropped until
// the next stop so a partial sequence never reaches the session.
func (e *Engine) OnOverflow() {
	e.overflow = true
	e.stats.Overflows++
	RecordEvent(EvtOverflow, e.cursor.Device, e.cursor.Reg, 0)
}

// runtimeRegions maps the application register file
func runtimeRegions(p Profile) *RegionTable {
	regions := []Region{
		{Name: "registers", Device: DevicePrimary, Start: 0x00, End: 0xFF},
		{Name: "key", Device: DevicePrimary, Start: protocol.RegKey, End: protocol.RegKey + protocol.KeySize - 1, Raw: true},
		{Name: "command", Device: DevicePrimary, Start: protocol.RegCommand, End: protocol.RegCommand, Raw: true},
	}
	if p.DualDevice() {
		regions = append(regions, Region{Name: "camera", Device: DeviceSecondary, Start: 0x00, End: 0xFF, Raw: true})
	}
	return NewRegionTable(regions...)
}

// programmingRegions maps the boot image registers. The pointer never
// advances, so each register behaves as a FIFO.
func programmingRegions() *RegionTable {
	return NewRegionTable(
		Region{Name: "command", Start: protocol.RegCommand, End: protocol.RegCommand, Hold: true,
			Read: readUnmapped, Write: writeSessionCommand},
		Region{Name: "program_data", Start: protocol.RegProgramData, End: protocol.RegProgramData, Hold: true,
			Read: readSessionData, Write: writeSessionData},
		Region{Name: "custom_id", Start: protocol.RegCustomID, End: protocol.RegCustomID, Hold: true,
			Read: readCustomID, Write: discardWrite},
		Region{Name: "identity", Start: protocol.RegIdentity, End: protocol.RegIdentity, Hold: true,
			Read: readIdentity, Write: discardWrite},
		Region{Name: "calibration", Start: protocol.RegCalibration, End: protocol.RegCalibration, Hold: true,
			Read: readZero, Write: discardWrite},
		Region{Name: "calibration_mirror", Start: protocol.RegCalibration + 0x10, End: protocol.RegCalibration + 0x10, Hold: true,
			Read: readZero, Write: discardWrite},
	)
}

func readUnmapped(e *Engine, reg uint8) byte { return 0xFF }

func readZero(e *Engine, reg uint8) byte { return 0 }

func discardWrite(e *Engine, reg uint8, b byte) {}

func readCustomID(e *Engine, reg uint8) byte {
	return e.profile.CustomID
}

// readIdentity cycles through the identity bytes, one per read
func readIdentity(e *Engine, reg uint8) byte {
	v := e.profile.Identity[e.identityPos]
	e.identityPos++
	if e.identityPos >= protocol.IdentitySize {
		e.identityPos = 0
	}
	return v
}

func writeSessionCommand(e *Engine, reg uint8, b byte) {
	switch e.session.Command(b, e.cursor.leading, e.readProgram) {
	case signalStarted:
		RecordEvent(EvtSession, 0, reg, uint16(b))
	case signalExit:
		e.exitPending = true
	}
}

func writeSessionData(e *Engine, reg uint8, b byte) {
	e.session.Receive(b)
}

func readSessionData(e *Engine, reg uint8) byte {
	return e.session.Send()
}
