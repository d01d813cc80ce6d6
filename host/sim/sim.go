// Package sim runs the firmware engine on the host behind an i2c.Bus, so the
// programmer and its tests talk to the same code the device runs.
package sim

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/log"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"

	"classicplus/core"
)

// ErrNack is returned when no engine acknowledges the address
var ErrNack = errors.New("address not acknowledged")

// Bus is an i2c.Bus delivering every transaction byte by byte to an engine,
// then running one main-loop Tick. It is also the engine's BusPeripheral.
type Bus struct {
	mu        sync.Mutex
	engine    *core.Engine
	listening bool
	addr      uint8
	mask      uint8
	speed     physic.Frequency
	logger    *log.Logger
	tickErr   error
}

var (
	_ i2c.Bus            = (*Bus)(nil)
	_ core.BusPeripheral = (*Bus)(nil)
)

// New returns a bus with no engine attached. A nil logger disables logging.
func New(logger *log.Logger) *Bus {
	return &Bus{logger: logger, speed: 400 * physic.KiloHertz}
}

// Attach connects e to the bus, replacing any previous engine
func (b *Bus) Attach(e *core.Engine) error {
	b.mu.Lock()
	b.engine = e
	b.mu.Unlock()
	return e.Attach(b)
}

// Engine returns the attached engine
func (b *Bus) Engine() *core.Engine {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.engine
}

// Listen implements core.BusPeripheral
func (b *Bus) Listen(addr, mask uint8) error {
	b.addr, b.mask, b.listening = addr&0x7F, mask&0x7F, true
	return nil
}

// Close implements core.BusPeripheral
func (b *Bus) Close() error {
	b.listening = false
	return nil
}

// String implements i2c.Bus
func (b *Bus) String() string {
	return "sim"
}

// SetSpeed implements i2c.Bus
func (b *Bus) SetSpeed(f physic.Frequency) error {
	if f <= 0 {
		return errors.Errorf("invalid bus speed %s", f)
	}
	b.speed = f
	return nil
}

// Tx implements i2c.Bus: an optional write transaction, then an optional read
// after a repeated start, then a stop.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	if addr > 0x7F {
		return errors.Errorf("address 0x%X is not a 7-bit address", addr)
	}

	b.mu.Lock()
	e := b.engine
	if e == nil || !b.admits(uint8(addr)) {
		b.mu.Unlock()
		return errors.Wrapf(ErrNack, "0x%02X", addr)
	}

	err := b.transfer(e, uint8(addr), w, r)
	e.OnStop()
	b.mu.Unlock()
	if err != nil {
		return err
	}

	// Runs outside the lock: an exit handler may attach another engine
	if tickErr := e.Tick(); tickErr != nil {
		b.mu.Lock()
		b.tickErr = tickErr
		b.mu.Unlock()
		if b.logger != nil {
			b.logger.Debug("Deferred action failed", log.Err(tickErr))
		}
	}
	return nil
}

func (b *Bus) transfer(e *core.Engine, addr uint8, w, r []byte) error {
	if len(w) > 0 || len(r) == 0 {
		if !e.OnAddress(addr << 1) {
			return errors.Wrapf(ErrNack, "0x%02X", addr)
		}
		for _, c := range w {
			e.OnWrite(c)
		}
	}
	if len(r) > 0 {
		if !e.OnAddress(addr<<1 | 1) {
			return errors.Wrapf(ErrNack, "0x%02X", addr)
		}
		for i := range r {
			r[i] = e.OnRead()
		}
	}
	return nil
}

// admits applies the peripheral's address match
func (b *Bus) admits(addr uint8) bool {
	return b.listening && addr&b.mask == b.addr&b.mask
}

// TickError returns and clears the last deferred-action error
func (b *Bus) TickError() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	err := b.tickErr
	b.tickErr = nil
	return err
}
