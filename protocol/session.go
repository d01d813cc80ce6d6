package protocol

// Host-side helpers for building programming sessions. A session starts with
// a command-register write carrying the command code and its parameters;
// WRITE payload and READ results travel through RegProgramData.

// EraseRequest returns the command-register bytes that erase the row holding byteAddr
func EraseRequest(byteAddr uint16) []byte {
	return []byte{CmdErase, byte(byteAddr), byte(byteAddr >> 8)}
}

// WriteRequest returns the command-register bytes announcing a write of words words
func WriteRequest(byteAddr uint16, words int) []byte {
	return []byte{CmdWrite, byte(byteAddr), byte(byteAddr >> 8), byte(words * 2)}
}

// ReadRequest returns the command-register bytes requesting words words
func ReadRequest(byteAddr uint16, words int) []byte {
	return []byte{CmdRead, byte(byteAddr), byte(byteAddr >> 8), byte(words * 2)}
}

// EncodeWords serializes program words low byte first
func EncodeWords(words []uint16) []byte {
	out := make([]byte, 0, len(words)*2)
	for _, w := range words {
		out = append(out, byte(w), byte(w>>8))
	}
	return out
}

// DecodeWords parses low/high byte pairs into program words; a trailing odd byte is dropped
func DecodeWords(data []byte) []uint16 {
	words := make([]uint16, len(data)/2)
	for i := range words {
		words[i] = uint16(data[2*i]) | uint16(data[2*i+1])<<8
	}
	return words
}

// SessionChecksum returns the checksum the device reports for a WRITE or READ
// session: address bytes, length byte and payload bytes.
func SessionChecksum(byteAddr uint16, words int, payload []byte) byte {
	return SumChecksum([]byte{byte(byteAddr), byte(byteAddr >> 8), byte(words * 2)}, payload)
}
