package core

// RegisterFile is the byte-addressable state exposed to the bus host.
// Single-device builds use 256 bytes; dual-device builds use 512, the high
// address bit selecting the device half.
type RegisterFile struct {
	regs []byte
}

// NewRegisterFile creates a register file of the given capacity (256 or 512)
func NewRegisterFile(capacity int) *RegisterFile {
	if capacity != 256 && capacity != 512 {
		capacity = 256
	}
	return &RegisterFile{regs: make([]byte, capacity)}
}

// Capacity returns the register file size in bytes
func (r *RegisterFile) Capacity() int {
	return len(r.regs)
}

// Read returns the byte at addr, taken modulo capacity
func (r *RegisterFile) Read(addr uint16) byte {
	return r.regs[int(addr)%len(r.regs)]
}

// Write stores b at addr, taken modulo capacity
func (r *RegisterFile) Write(addr uint16, b byte) {
	r.regs[int(addr)%len(r.regs)] = b
}

// ReadMulti copies len(buf) bytes starting at addr into buf
func (r *RegisterFile) ReadMulti(addr uint16, buf []byte) {
	for i := range buf {
		buf[i] = r.Read(addr + uint16(i))
	}
}

// WriteMulti stores data starting at addr
func (r *RegisterFile) WriteMulti(addr uint16, data []byte) {
	for i, b := range data {
		r.Write(addr+uint16(i), b)
	}
}

// Clear zeroes every register
func (r *RegisterFile) Clear() {
	for i := range r.regs {
		r.regs[i] = 0
	}
}
