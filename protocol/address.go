package protocol

// Program memory geometry. The bus carries byte addresses and byte lengths;
// the flash controller works on 14-bit words. Conversions happen only here.
const (
	RowWords        = 32 // Minimum erasable unit, in words
	MaxSessionWords = 32 // Words per WRITE/READ session
	MaxSessionBytes = MaxSessionWords * 2
)

// ByteToWord converts a bus byte address to a program word address
func ByteToWord(byteAddr uint16) uint16 {
	return byteAddr / 2
}

// WordToByte converts a program word address to a bus byte address
func WordToByte(wordAddr uint16) uint16 {
	return wordAddr * 2
}

// LengthToWords converts a bus byte length to a word count, capped to one session
func LengthToWords(byteLen byte) int {
	n := int(byteLen) / 2
	if n > MaxSessionWords {
		n = MaxSessionWords
	}
	return n
}

// RowStart returns the first word address of the row containing wordAddr
func RowStart(wordAddr uint16) uint16 {
	return wordAddr - wordAddr%RowWords
}

// RowRemaining returns how many words fit between wordAddr and the end of its row
func RowRemaining(wordAddr uint16) int {
	return RowWords - int(wordAddr%RowWords)
}

// ClampToRow shortens n so that a write starting at wordAddr stays inside one row
func ClampToRow(wordAddr uint16, n int) int {
	if rem := RowRemaining(wordAddr); n > rem {
		return rem
	}
	if n < 0 {
		return 0
	}
	return n
}
