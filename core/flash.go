package core

import "classicplus/protocol"

// Flash applies the row policy on top of a FlashDriver. Erase always covers
// the whole row holding the target; Write never crosses the end of the row
// holding its start address, so callers needing more issue more writes.
type Flash struct {
	driver FlashDriver
}

// NewFlash wraps a driver with the row policy
func NewFlash(driver FlashDriver) *Flash {
	return &Flash{driver: driver}
}

// Erase erases the row containing wordAddr
func (f *Flash) Erase(wordAddr uint16) error {
	if f.driver == nil {
		return ErrNoFlash
	}
	return f.driver.EraseRow(protocol.RowStart(wordAddr))
}

// Write programs words at wordAddr, truncated to the end of the row.
// It returns the number of words actually written.
func (f *Flash) Write(wordAddr uint16, words []uint16) (int, error) {
	if f.driver == nil {
		return 0, ErrNoFlash
	}
	n := protocol.ClampToRow(wordAddr, len(words))
	if n == 0 {
		return 0, nil
	}
	if err := f.driver.WriteRow(wordAddr, words[:n]); err != nil {
		return 0, err
	}
	return n, nil
}

// Read fills buf with the words starting at wordAddr
func (f *Flash) Read(wordAddr uint16, buf []uint16) error {
	if f.driver == nil {
		return ErrNoFlash
	}
	if len(buf) == 0 {
		return nil
	}
	return f.driver.ReadWords(wordAddr, buf)
}
