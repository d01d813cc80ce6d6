package core

// BusPeripheral is the target-mode serial-bus peripheral. Implementations
// translate hardware interrupts into the Engine's On* calls.
type BusPeripheral interface {
	// Listen acknowledges every 7-bit address a where a&mask == addr&mask
	Listen(addr, mask uint8) error

	// Close stops answering the bus
	Close() error
}

// Attach starts the peripheral on the engine's addresses and raises the
// detect line.
func (e *Engine) Attach(p BusPeripheral) error {
	if err := p.Listen(e.Address(DevicePrimary), e.AddressMask()); err != nil {
		return err
	}
	e.peripheral = p
	e.setDetect(true)
	return nil
}

// Detach lowers the detect line and stops the peripheral
func (e *Engine) Detach() error {
	e.setDetect(false)
	p := e.peripheral
	e.peripheral = nil
	if p == nil {
		return nil
	}
	return p.Close()
}

func (e *Engine) setDetect(high bool) {
	if e.detect != nil {
		e.detect.Set(high)
	}
}
