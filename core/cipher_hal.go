package core

// Cipher is the keyed per-byte transform some bus hosts negotiate. The
// algorithm lives outside the engine; only this call contract is used.
type Cipher interface {
	// DeriveKey prepares the transform from the 16-byte key block and
	// reports whether the transform should be enabled.
	DeriveKey(key [16]byte) bool

	// Encode transforms a byte served from reg
	Encode(reg uint8, b byte) byte

	// Decode transforms a byte written to reg
	Decode(reg uint8, b byte) byte
}
