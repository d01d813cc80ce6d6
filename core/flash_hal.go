package core

// FlashDriver is the program-memory interface the engine uses. It performs
// the unlock and latch sequences that commit words to silicon; row policy is
// applied by Flash before any call reaches it.
type FlashDriver interface {
	// EraseRow erases the row starting at a row-aligned word address
	EraseRow(wordAddr uint16) error

	// WriteRow programs words starting at wordAddr. The range never crosses a row.
	WriteRow(wordAddr uint16, words []uint16) error

	// ReadWords fills buf with the words starting at wordAddr
	ReadWords(wordAddr uint16, buf []uint16) error
}
