// Package programmer drives the firmware's programming protocol from the bus
// host: it splits images into row-sized sessions, checks every session
// checksum and verifies what landed in program memory.
package programmer

import (
	"time"

	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/log"
	"periph.io/x/conn/v3/i2c"

	"classicplus/core"
	"classicplus/host/image"
	"classicplus/protocol"
)

var (
	ErrChecksum    = errors.New("session checksum mismatch")
	ErrVerify      = errors.New("verify mismatch")
	ErrProtected   = errors.New("address below protected boundary")
	ErrNotBootable = errors.New("device did not enter programming mode")
)

// Identity is what a device reports about itself
type Identity struct {
	ID       [protocol.IdentitySize]byte
	CustomID byte
}

// Bootloader reports whether the boot image is answering
func (id Identity) Bootloader() bool {
	return id.CustomID == protocol.CustomIDBootloader
}

// Options tune a Programmer
type Options struct {
	// Boundary is the lowest word address the programmer may erase or write
	Boundary uint16

	// Retries is how often a row is repeated after a checksum or verify failure
	Retries int

	// Settle is the pause after each erase or write while the device commits it
	Settle time.Duration

	// Verify reads back every row after programming
	Verify bool

	// Progress, if set, is called after each programmed row
	Progress func(done, total int)
}

// DefaultOptions returns options matching the stock firmware
func DefaultOptions() Options {
	return Options{
		Boundary: core.DefaultProtectedBoundary,
		Retries:  3,
		Settle:   5 * time.Millisecond,
		Verify:   true,
	}
}

// Programmer talks to one device on an i2c.Bus
type Programmer struct {
	dev    i2c.Dev
	opts   Options
	logger *log.Logger
}

// New creates a programmer for the device at addr. A nil logger only reports errors.
func New(bus i2c.Bus, addr uint16, opts Options, logger *log.Logger) *Programmer {
	if opts.Retries < 1 {
		opts.Retries = 1
	}
	if logger == nil {
		cfg := log.DefaultConfig()
		cfg.Level = log.ErrorLevel
		logger = log.NewWithConfig(cfg)
	}
	return &Programmer{
		dev:    i2c.Dev{Bus: bus, Addr: addr},
		opts:   opts,
		logger: logger,
	}
}

func (p *Programmer) settle() {
	if p.opts.Settle > 0 {
		time.Sleep(p.opts.Settle)
	}
}

// command writes data to the command register in one transaction
func (p *Programmer) command(data ...byte) error {
	w := append([]byte{protocol.RegCommand}, data...)
	return errors.Wrap(p.dev.Tx(w, nil), "writing command")
}

func (p *Programmer) readReg(reg byte, n int) ([]byte, error) {
	r := make([]byte, n)
	if err := p.dev.Tx([]byte{reg}, r); err != nil {
		return nil, errors.Wrapf(err, "reading register 0x%02X", reg)
	}
	return r, nil
}

// ReadIdentity reads the identity block and custom ID
func (p *Programmer) ReadIdentity() (Identity, error) {
	var id Identity
	data, err := p.readReg(protocol.RegIdentity, protocol.IdentitySize)
	if err != nil {
		return id, err
	}
	copy(id.ID[:], data)

	cid, err := p.readReg(protocol.RegCustomID, 1)
	if err != nil {
		return id, err
	}
	id.CustomID = cid[0]
	return id, nil
}

// EnterProgramming asks a running application to hand over to the boot
// image and confirms the boot image answers
func (p *Programmer) EnterProgramming() error {
	id, err := p.ReadIdentity()
	if err != nil {
		return err
	}
	if id.Bootloader() {
		return nil
	}
	if err := p.command(protocol.CmdProgramEnable); err != nil {
		return err
	}
	p.settle()

	id, err = p.ReadIdentity()
	if err != nil {
		return err
	}
	if !id.Bootloader() {
		return errors.Wrapf(ErrNotBootable, "custom id 0x%02X", id.CustomID)
	}
	p.logger.Debug("Programming mode entered")
	return nil
}

// ExitProgramming ends programming and starts the application
func (p *Programmer) ExitProgramming() error {
	return p.command(protocol.CmdDisable)
}

// Erase erases the row holding wordAddr
func (p *Programmer) Erase(wordAddr uint16) error {
	row := protocol.RowStart(wordAddr)
	if row < p.opts.Boundary {
		return errors.Wrapf(ErrProtected, "erase 0x%04X", row)
	}
	if err := p.command(protocol.EraseRequest(protocol.WordToByte(row))...); err != nil {
		return err
	}
	p.logger.Debug("Row erased", log.Hex("address", row))
	p.settle()
	return nil
}

// writeSession writes words that fit in the row holding wordAddr
func (p *Programmer) writeSession(wordAddr uint16, words []uint16) error {
	byteAddr := protocol.WordToByte(wordAddr)
	if err := p.command(protocol.WriteRequest(byteAddr, len(words))...); err != nil {
		return err
	}

	payload := protocol.EncodeWords(words)
	if err := p.dev.Tx(append([]byte{protocol.RegProgramData}, payload...), nil); err != nil {
		return errors.Wrap(err, "writing payload")
	}

	cs, err := p.readReg(protocol.RegProgramData, 1)
	if err != nil {
		return err
	}
	p.settle()

	if want := protocol.SessionChecksum(byteAddr, len(words), payload); cs[0] != want {
		return errors.Wrapf(ErrChecksum, "write 0x%04X: got 0x%02X, expected 0x%02X", wordAddr, cs[0], want)
	}
	return nil
}

// Write programs words at wordAddr, one session per row segment
func (p *Programmer) Write(wordAddr uint16, words []uint16) error {
	if wordAddr < p.opts.Boundary {
		return errors.Wrapf(ErrProtected, "write 0x%04X", wordAddr)
	}
	for len(words) > 0 {
		n := protocol.ClampToRow(wordAddr, len(words))
		if err := p.writeSession(wordAddr, words[:n]); err != nil {
			return err
		}
		wordAddr += uint16(n)
		words = words[n:]
	}
	return nil
}

// readSession reads up to MaxSessionWords words, repeating on checksum mismatch
func (p *Programmer) readSession(wordAddr uint16, buf []uint16) error {
	byteAddr := protocol.WordToByte(wordAddr)
	var err error
	for attempt := 0; attempt < p.opts.Retries; attempt++ {
		if err = p.command(protocol.ReadRequest(byteAddr, len(buf))...); err != nil {
			return err
		}

		var data []byte
		data, err = p.readReg(protocol.RegProgramData, len(buf)*2+1)
		if err != nil {
			return err
		}
		payload, cs := data[:len(buf)*2], data[len(buf)*2]
		if want := protocol.SessionChecksum(byteAddr, len(buf), payload); cs != want {
			err = errors.Wrapf(ErrChecksum, "read 0x%04X: got 0x%02X, expected 0x%02X", wordAddr, cs, want)
			p.logger.Debug("Read checksum mismatch", log.Hex("address", wordAddr), log.Int("attempt", attempt))
			continue
		}
		copy(buf, protocol.DecodeWords(payload))
		return nil
	}
	return err
}

// Read returns n words starting at wordAddr. Words below the protected
// boundary read as zero.
func (p *Programmer) Read(wordAddr uint16, n int) ([]uint16, error) {
	out := make([]uint16, n)
	for off := 0; off < n; off += protocol.MaxSessionWords {
		end := off + protocol.MaxSessionWords
		if end > n {
			end = n
		}
		if err := p.readSession(wordAddr+uint16(off), out[off:end]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Verify compares program memory with words
func (p *Programmer) Verify(wordAddr uint16, words []uint16) error {
	got, err := p.Read(wordAddr, len(words))
	if err != nil {
		return err
	}
	for i := range words {
		if got[i] != words[i] {
			return errors.Wrapf(ErrVerify, "0x%04X: got 0x%04X, expected 0x%04X", wordAddr+uint16(i), got[i], words[i])
		}
	}
	return nil
}

// programRow erases and rewrites one row, then verifies it
func (p *Programmer) programRow(row image.Row) error {
	if err := p.Erase(row.Addr); err != nil {
		return err
	}
	if err := p.writeSession(row.Addr, row.Words[:]); err != nil {
		return err
	}
	if p.opts.Verify {
		return p.Verify(row.Addr, row.Words[:])
	}
	return nil
}

// Program writes img row by row. Rows failing their checksum or verify are
// erased and written again up to Retries times.
func (p *Programmer) Program(img *image.Image) error {
	if low, ok := img.Lowest(); ok && low < p.opts.Boundary {
		return errors.Wrapf(ErrProtected, "image starts at 0x%04X", low)
	}

	rows := img.Rows()
	for i, row := range rows {
		var err error
		for attempt := 0; attempt < p.opts.Retries; attempt++ {
			err = p.programRow(row)
			if err == nil || !(errors.Is(err, ErrChecksum) || errors.Is(err, ErrVerify)) {
				break
			}
			p.logger.Info("Retrying row", log.Hex("address", row.Addr), log.Err(err))
		}
		if err != nil {
			return err
		}
		if p.opts.Progress != nil {
			p.opts.Progress(i+1, len(rows))
		}
	}
	p.logger.Debug("Image programmed", log.Int("rows", len(rows)))
	return nil
}
