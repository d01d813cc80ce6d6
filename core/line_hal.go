package core

// DetectLine drives the expansion detect signal. The bus host only starts
// talking to the engine while the line is high.
type DetectLine interface {
	// Set drives the line high (true) or low (false)
	Set(high bool)
}

// PinLine adapts a set-pin function, such as a machine.Pin's Set method, to DetectLine
type PinLine func(high bool)

// Set implements DetectLine
func (f PinLine) Set(high bool) {
	f(high)
}
