//go:build rp2040 || rp2350

package main

import (
	"classicplus/core"
	"errors"
	"machine"
	"sync"
)

// RPTargetBus implements core.BusPeripheral with an RP2040 I2C block in
// target mode. The hardware matches a single address, so on dual-device
// profiles only the primary device answers.
type RPTargetBus struct {
	mu sync.Mutex

	bus      *machine.I2C
	sda, scl machine.Pin
	engine   *core.Engine

	addr      uint8
	listening bool
	reading   bool

	buf   [64]byte
	reply [1]byte
}

// NewRPTargetBus constructs the peripheral but does not listen yet
func NewRPTargetBus(bus *machine.I2C, sda, scl machine.Pin) *RPTargetBus {
	return &RPTargetBus{bus: bus, sda: sda, scl: scl}
}

// Attach hands the bus to e
func (t *RPTargetBus) Attach(e *core.Engine) error {
	t.mu.Lock()
	t.engine = e
	t.mu.Unlock()
	return e.Attach(t)
}

// Engine returns the engine currently attached
func (t *RPTargetBus) Engine() *core.Engine {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.engine
}

// Listen implements core.BusPeripheral
func (t *RPTargetBus) Listen(addr, mask uint8) error {
	if mask != 0x7F {
		core.DebugPrintln("[I2C] address mask not supported, answering 0x" + hexByte(addr) + " only")
	}
	err := t.bus.Configure(machine.I2CConfig{
		Mode: machine.I2CModeTarget,
		SDA:  t.sda,
		SCL:  t.scl,
	})
	if err != nil {
		return err
	}
	if err := t.bus.Listen(uint16(addr)); err != nil {
		return err
	}

	t.mu.Lock()
	t.addr, t.listening, t.reading = addr, true, false
	t.mu.Unlock()
	return nil
}

// Close implements core.BusPeripheral. The block goes back to controller
// mode, which leaves it deaf to the host.
func (t *RPTargetBus) Close() error {
	t.mu.Lock()
	t.listening = false
	t.mu.Unlock()
	return t.bus.Configure(machine.I2CConfig{SDA: t.sda, SCL: t.scl})
}

var errNotListening = errors.New("I2C target not listening")

// serveEvent waits for one bus event and feeds it to the engine. A read is
// answered one byte per request so the cursor only advances for bytes the
// host actually clocks out.
func (t *RPTargetBus) serveEvent() error {
	t.mu.Lock()
	e, addr, ok := t.engine, t.addr, t.listening
	t.mu.Unlock()
	if !ok || e == nil {
		return errNotListening
	}

	evt, n, err := t.bus.WaitForEvent(t.buf[:])
	if err != nil {
		return err
	}

	switch evt {
	case machine.I2CReceive:
		t.reading = false
		if !e.OnAddress(addr << 1) {
			return nil
		}
		for _, b := range t.buf[:n] {
			e.OnWrite(b)
		}

	case machine.I2CRequest:
		if !t.reading {
			t.reading = true
			if !e.OnAddress(addr<<1 | 1) {
				return nil
			}
		}
		t.reply[0] = e.OnRead()
		return t.bus.Reply(t.reply[:])

	case machine.I2CFinish:
		t.reading = false
		e.OnStop()
		// Deferred work runs between transactions, as on the original main loop
		if err := e.Tick(); err != nil {
			core.DebugPrintln("[I2C] deferred action failed: " + err.Error())
		}
	}
	return nil
}

// serveLoop runs in a goroutine for the lifetime of the firmware
func (t *RPTargetBus) serveLoop() {
	for {
		if err := t.serveEvent(); err != nil {
			if err != errNotListening {
				busErrors++
			}
			yield()
		}
	}
}
