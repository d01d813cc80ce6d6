package core

// CalibrationStore is the durable storage holding the custom calibration block
type CalibrationStore interface {
	// Persist writes block to durable storage
	Persist(block []byte) error

	// Restore fills buf from durable storage
	Restore(buf []byte) error
}

// MemoryStore is a CalibrationStore held in RAM. It stands in for EEPROM in
// tests and in the host simulator.
type MemoryStore struct {
	data   []byte
	Writes int
}

// NewMemoryStore creates a store pre-loaded with block
func NewMemoryStore(block []byte) *MemoryStore {
	return &MemoryStore{data: append([]byte(nil), block...)}
}

// Persist implements CalibrationStore
func (m *MemoryStore) Persist(block []byte) error {
	m.data = append(m.data[:0], block...)
	m.Writes++
	return nil
}

// Restore implements CalibrationStore
func (m *MemoryStore) Restore(buf []byte) error {
	if len(m.data) == 0 {
		return ErrNoCalibration
	}
	n := copy(buf, m.data)
	for i := n; i < len(buf); i++ {
		buf[i] = 0xFF
	}
	return nil
}

// Bytes returns a copy of the stored block
func (m *MemoryStore) Bytes() []byte {
	return append([]byte(nil), m.data...)
}
