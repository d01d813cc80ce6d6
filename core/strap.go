package core

// StrapSamples is how many identical readings a strap input needs before
// its new level is accepted. At the 2ms main loop this is 50ms.
const StrapSamples = 25

// Strap debounces a configuration pin polled from the main loop
type Strap struct {
	level   bool
	pending bool
	count   int
}

// NewStrap starts from the level read at power-up
func NewStrap(level bool) Strap {
	return Strap{level: level, pending: level}
}

// Sample feeds one reading and reports whether the accepted level changed
func (s *Strap) Sample(v bool) bool {
	if v == s.level {
		s.pending = v
		s.count = 0
		return false
	}
	if v != s.pending {
		s.pending = v
		s.count = 0
	}
	s.count++
	if s.count < StrapSamples {
		return false
	}
	s.level = v
	s.count = 0
	return true
}

// Level returns the accepted level
func (s *Strap) Level() bool {
	return s.level
}
