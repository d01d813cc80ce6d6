package core

const hexDigits = "0123456789ABCDEF"

// itoa converts an integer to a string without using fmt package
// This is a lightweight alternative for embedded systems
func itoa(n int) string {
	if n == 0 {
		return "0"
	}

	negative := n < 0
	if negative {
		n = -n
	}

	var buf [20]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}

	if negative {
		pos--
		buf[pos] = '-'
	}

	return string(buf[pos:])
}

// hex8 formats a byte as two uppercase hex digits
func hex8(v uint8) string {
	return string([]byte{hexDigits[v>>4], hexDigits[v&0x0F]})
}

// hex16 formats a word as four uppercase hex digits
func hex16(v uint16) string {
	return hex8(uint8(v>>8)) + hex8(uint8(v))
}
