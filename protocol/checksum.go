package protocol

// Checksum accumulates the 8-bit sum carried by WRITE and READ sessions.
// The byte reported to the host is the two's complement of the running sum,
// so that the sum of every session byte plus the checksum is 0 mod 256.
type Checksum uint8

// Add accumulates one byte
func (c *Checksum) Add(b byte) {
	*c += Checksum(b)
}

// AddWord accumulates a program word as its low then high byte
func (c *Checksum) AddWord(w uint16) {
	c.Add(byte(w))
	c.Add(byte(w >> 8))
}

// Final returns the two's complement of the accumulated sum
func (c Checksum) Final() byte {
	return ^byte(c) + 1
}

// Reset clears the accumulator
func (c *Checksum) Reset() {
	*c = 0
}

// SumChecksum returns the two's-complement checksum of the given byte slices
func SumChecksum(parts ...[]byte) byte {
	var c Checksum
	for _, p := range parts {
		for _, b := range p {
			c.Add(b)
		}
	}
	return c.Final()
}

// VerifyChecksum reports whether data and its checksum byte sum to zero mod 256
func VerifyChecksum(data []byte, checksum byte) bool {
	sum := checksum
	for _, b := range data {
		sum += b
	}
	return sum == 0
}
