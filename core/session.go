package core

import "classicplus/protocol"

// Phase is the position of a programming session in its byte sequence
type Phase uint8

const (
	PhaseIdle     Phase = iota // Waiting for a command byte
	PhaseAddrLow               // Expecting the low address byte
	PhaseAddrHigh              // Expecting the high address byte
	PhaseLength                // Expecting the byte length (WRITE/READ)
	PhaseData                  // Payload moving through RegProgramData
	PhaseChecksum              // Checksum ready to be served
	PhaseReady                 // ERASE/WRITE queued for the main loop
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAddrLow:
		return "addr-low"
	case PhaseAddrHigh:
		return "addr-high"
	case PhaseLength:
		return "length"
	case PhaseData:
		return "data"
	case PhaseChecksum:
		return "checksum"
	case PhaseReady:
		return "ready"
	default:
		return "unknown"
	}
}

type sessionSignal uint8

const (
	signalNone sessionSignal = iota
	signalStarted
	signalExit
)

// WordReader fills buf from program memory during a READ session
type WordReader func(wordAddr uint16, buf []uint16)

// Session is the programming-protocol state. Command-register bytes carry the
// command code, address and length; payload and results move through the
// data register in low/high byte pairs.
type Session struct {
	op       byte
	phase    Phase
	byteAddr uint16
	addr     uint16 // Word address
	words    int
	buf      [protocol.MaxSessionWords]uint16
	pos      int
	high     bool
	checksum protocol.Checksum
	final    byte
}

// flashJob is a queued ERASE or WRITE copied out of the session
type flashJob struct {
	op    byte
	addr  uint16
	words int
	buf   [protocol.MaxSessionWords]uint16
}

// Phase returns the current phase
func (s *Session) Phase() Phase { return s.phase }

// Op returns the active command code, zero when idle
func (s *Session) Op() byte { return s.op }

// WordAddr returns the target word address once both address bytes arrived
func (s *Session) WordAddr() uint16 { return s.addr }

// Words returns the session length in words
func (s *Session) Words() int { return s.words }

// Data returns the words buffered so far
func (s *Session) Data() []uint16 { return s.buf[:s.words] }

func (s *Session) reset() {
	*s = Session{}
}

// Command consumes a command-register byte. A leading byte (the first data
// byte of a write transaction) always starts over as a command code, so the
// host can abandon a session at any phase.
func (s *Session) Command(b byte, leading bool, read WordReader) sessionSignal {
	if s.phase == PhaseIdle || leading {
		return s.start(b)
	}

	switch s.phase {
	case PhaseAddrLow:
		s.byteAddr = uint16(b)
		s.phase = PhaseAddrHigh

	case PhaseAddrHigh:
		s.byteAddr |= uint16(b) << 8
		s.checksum.Add(byte(s.byteAddr))
		s.checksum.Add(b)
		s.addr = protocol.ByteToWord(s.byteAddr)
		if s.op == protocol.CmdErase {
			s.phase = PhaseReady
			break
		}
		s.phase = PhaseLength

	case PhaseLength:
		s.checksum.Add(b)
		s.words = protocol.LengthToWords(b)
		s.phase = PhaseData
		if s.op == protocol.CmdRead && read != nil {
			// The host clocks the payload out on the very next reads
			read(s.addr, s.buf[:s.words])
		}
		if s.words == 0 {
			s.finalize()
		}
	}
	// Bytes arriving in other phases are ignored; the host retries the session
	return signalNone
}

func (s *Session) start(b byte) sessionSignal {
	s.reset()
	switch b {
	case protocol.CmdErase, protocol.CmdWrite, protocol.CmdRead:
		s.op = b
		s.phase = PhaseAddrLow
		return signalStarted
	case protocol.CmdDisable:
		return signalExit
	}
	return signalNone
}

// Receive consumes a data-register write. Only WRITE payload is accepted.
func (s *Session) Receive(b byte) {
	if s.op != protocol.CmdWrite || s.phase != PhaseData {
		return
	}
	if !s.high {
		s.buf[s.pos] = uint16(b)
		s.high = true
	} else {
		s.buf[s.pos] |= uint16(b) << 8
		s.high = false
		s.pos++
	}
	s.checksum.Add(b)
	if s.pos >= s.words {
		s.finalize()
	}
}

// Send serves a data-register read: READ payload, then the checksum.
// Serving a WRITE checksum queues the write.
func (s *Session) Send() byte {
	switch s.phase {
	case PhaseChecksum:
		v := s.final
		if s.op == protocol.CmdWrite {
			s.phase = PhaseReady
		} else {
			s.reset()
		}
		return v

	case PhaseData:
		if s.op != protocol.CmdRead {
			break
		}
		w := s.buf[s.pos]
		var v byte
		if !s.high {
			v = byte(w)
			s.high = true
		} else {
			v = byte(w >> 8)
			s.high = false
			s.pos++
		}
		s.checksum.Add(v)
		if s.pos >= s.words {
			s.finalize()
		}
		return v
	}
	return 0xFF
}

func (s *Session) finalize() {
	s.final = s.checksum.Final()
	s.phase = PhaseChecksum
}

// takeJob removes a queued ERASE or WRITE, returning the session to idle
func (s *Session) takeJob() (flashJob, bool) {
	if s.phase != PhaseReady {
		return flashJob{}, false
	}
	job := flashJob{op: s.op, addr: s.addr, words: s.words, buf: s.buf}
	s.reset()
	return job, true
}
