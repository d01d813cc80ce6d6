package core

import "classicplus/protocol"

// ErasedWord is the value of an erased program word
const ErasedWord = 0x3FFF

// FlashWrite records one WriteRow call
type FlashWrite struct {
	Addr  uint16
	Words []uint16
}

// MemoryFlash is a FlashDriver backed by RAM. It stands in for program
// memory in tests and in the host simulator and logs every call it receives.
type MemoryFlash struct {
	words  []uint16
	Erases []uint16
	Writes []FlashWrite
}

// NewMemoryFlash creates an erased program memory of size words
func NewMemoryFlash(size int) *MemoryFlash {
	m := &MemoryFlash{words: make([]uint16, size)}
	for i := range m.words {
		m.words[i] = ErasedWord
	}
	return m
}

// Size returns the memory size in words
func (m *MemoryFlash) Size() int {
	return len(m.words)
}

// EraseRow implements FlashDriver
func (m *MemoryFlash) EraseRow(wordAddr uint16) error {
	if wordAddr%protocol.RowWords != 0 {
		return ErrFlashAlignment
	}
	if int(wordAddr)+protocol.RowWords > len(m.words) {
		return ErrFlashRange
	}
	m.Erases = append(m.Erases, wordAddr)
	for i := 0; i < protocol.RowWords; i++ {
		m.words[int(wordAddr)+i] = ErasedWord
	}
	return nil
}

// WriteRow implements FlashDriver
func (m *MemoryFlash) WriteRow(wordAddr uint16, words []uint16) error {
	if int(wordAddr)+len(words) > len(m.words) {
		return ErrFlashRange
	}
	m.Writes = append(m.Writes, FlashWrite{Addr: wordAddr, Words: append([]uint16(nil), words...)})
	copy(m.words[wordAddr:], words)
	return nil
}

// ReadWords implements FlashDriver
func (m *MemoryFlash) ReadWords(wordAddr uint16, buf []uint16) error {
	if int(wordAddr)+len(buf) > len(m.words) {
		return ErrFlashRange
	}
	copy(buf, m.words[wordAddr:])
	return nil
}

// Load places words at wordAddr without logging, for preparing fixtures
func (m *MemoryFlash) Load(wordAddr uint16, words []uint16) {
	copy(m.words[wordAddr:], words)
}

// Word returns the word at wordAddr
func (m *MemoryFlash) Word(wordAddr uint16) uint16 {
	return m.words[wordAddr]
}

// Snapshot returns a copy of the whole memory
func (m *MemoryFlash) Snapshot() []uint16 {
	return append([]uint16(nil), m.words...)
}
