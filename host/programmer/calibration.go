package programmer

import (
	"github.com/pkg/errors"

	"classicplus/core"
	"classicplus/protocol"
)

// StoreCalibration writes block to the calibration registers and persists it
func (p *Programmer) StoreCalibration(block []byte) error {
	if len(block) != protocol.CustomCalibrationSize {
		return errors.Errorf("calibration block is %d bytes, expected %d", len(block), protocol.CustomCalibrationSize)
	}
	w := append([]byte{protocol.RegLXMin}, block...)
	if err := p.dev.Tx(w, nil); err != nil {
		return errors.Wrap(err, "writing calibration")
	}
	if err := p.command(protocol.CmdCalStore); err != nil {
		return err
	}
	p.settle()
	return nil
}

// LoadCalibration reloads the persisted block into the registers and returns it
func (p *Programmer) LoadCalibration() (core.Calibration, []byte, error) {
	if err := p.command(protocol.CmdCalLoad); err != nil {
		return core.Calibration{}, nil, err
	}
	p.settle()
	return p.ReadCalibration()
}

// ReadCalibration returns the block currently in the registers
func (p *Programmer) ReadCalibration() (core.Calibration, []byte, error) {
	block, err := p.readReg(protocol.RegLXMin, protocol.CustomCalibrationSize)
	if err != nil {
		return core.Calibration{}, nil, err
	}
	return core.DecodeCalibration(block), block, nil
}

// DefaultCalibration persists the firmware's default block. The registers
// keep their contents until the next LoadCalibration.
func (p *Programmer) DefaultCalibration() error {
	if err := p.command(protocol.CmdCalDefault); err != nil {
		return err
	}
	p.settle()
	return nil
}

// SetConfigMode turns the raw axis mirror on or off
func (p *Programmer) SetConfigMode(on bool) error {
	code := byte(protocol.CmdConfigDisable)
	if on {
		code = protocol.CmdConfigEnable
	}
	return p.command(code)
}

// ReadRawAxes returns the raw axis mirror; it only updates in config mode
func (p *Programmer) ReadRawAxes() ([]byte, error) {
	return p.readReg(protocol.RegRawLX, protocol.RawAxesSize)
}
