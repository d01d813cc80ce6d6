//go:build rp2040 || rp2350

package main

import (
	"errors"

	"classicplus/core"
	"classicplus/protocol"
)

// blockDevice is the part of machine.Flash the program memory emulation uses
type blockDevice interface {
	ReadAt(p []byte, off int64) (int, error)
	WriteAt(p []byte, off int64) (int, error)
	EraseBlocks(start, length int64) error
	EraseBlockSize() int64
}

var errFlashRange = errors.New("program memory address out of range")

// blockFlash emulates word-addressed program memory on a block device.
// Words are stored little endian, two bytes each, starting at base. Flash
// sectors are larger than rows, so every erase or write rewrites the
// enclosing sector.
type blockFlash struct {
	dev    blockDevice
	base   int64
	words  int
	sector []byte
	io     [2 * protocol.RowWords]byte
}

var _ core.FlashDriver = (*blockFlash)(nil)

// newBlockFlash maps words program words at base, which must be sector aligned
func newBlockFlash(dev blockDevice, base int64, words int) *blockFlash {
	return &blockFlash{
		dev:    dev,
		base:   base,
		words:  words,
		sector: make([]byte, dev.EraseBlockSize()),
	}
}

func (f *blockFlash) EraseRow(wordAddr uint16) error {
	for i := 0; i < protocol.RowWords; i++ {
		f.io[2*i] = core.ErasedWord & 0xFF
		f.io[2*i+1] = core.ErasedWord >> 8
	}
	return f.update(wordAddr, f.io[:])
}

func (f *blockFlash) WriteRow(wordAddr uint16, words []uint16) error {
	if len(words) > protocol.RowWords {
		return errFlashRange
	}
	for i, w := range words {
		f.io[2*i] = byte(w)
		f.io[2*i+1] = byte(w >> 8)
	}
	return f.update(wordAddr, f.io[:2*len(words)])
}

func (f *blockFlash) ReadWords(wordAddr uint16, buf []uint16) error {
	if int(wordAddr)+len(buf) > f.words {
		return errFlashRange
	}
	for len(buf) > 0 {
		n := len(buf)
		if n > protocol.RowWords {
			n = protocol.RowWords
		}
		if _, err := f.dev.ReadAt(f.io[:2*n], f.base+int64(wordAddr)*2); err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			buf[i] = (uint16(f.io[2*i]) | uint16(f.io[2*i+1])<<8) & core.ErasedWord
		}
		buf = buf[n:]
		wordAddr += uint16(n)
	}
	return nil
}

// update rewrites the sector holding wordAddr with data spliced in
func (f *blockFlash) update(wordAddr uint16, data []byte) error {
	if int(wordAddr)+len(data)/2 > f.words {
		return errFlashRange
	}
	off := f.base + int64(wordAddr)*2
	size := int64(len(f.sector))
	start := off / size * size

	if _, err := f.dev.ReadAt(f.sector, start); err != nil {
		return err
	}
	copy(f.sector[off-start:], data)
	if err := f.dev.EraseBlocks(start/size, 1); err != nil {
		return err
	}
	_, err := f.dev.WriteAt(f.sector, start)
	return err
}

// storeMagic marks a sector holding a calibration record
const storeMagic = 0xC5

// blockStore keeps the calibration block in its own flash sector:
// magic, length, then the block.
type blockStore struct {
	dev    blockDevice
	base   int64
	sector []byte
}

var _ core.CalibrationStore = (*blockStore)(nil)

func newBlockStore(dev blockDevice, base int64) *blockStore {
	return &blockStore{dev: dev, base: base, sector: make([]byte, dev.EraseBlockSize())}
}

func (s *blockStore) Persist(block []byte) error {
	if len(block)+2 > len(s.sector) {
		return errFlashRange
	}
	for i := range s.sector {
		s.sector[i] = 0xFF
	}
	s.sector[0] = storeMagic
	s.sector[1] = byte(len(block))
	copy(s.sector[2:], block)

	size := int64(len(s.sector))
	if err := s.dev.EraseBlocks(s.base/size, 1); err != nil {
		return err
	}
	_, err := s.dev.WriteAt(s.sector, s.base)
	return err
}

func (s *blockStore) Restore(buf []byte) error {
	var hdr [2]byte
	if _, err := s.dev.ReadAt(hdr[:], s.base); err != nil {
		return err
	}
	if hdr[0] != storeMagic {
		return core.ErrNoCalibration
	}
	n := int(hdr[1])
	if n > len(buf) {
		n = len(buf)
	}
	if _, err := s.dev.ReadAt(buf[:n], s.base+2); err != nil {
		return err
	}
	for i := n; i < len(buf); i++ {
		buf[i] = 0xFF
	}
	return nil
}
