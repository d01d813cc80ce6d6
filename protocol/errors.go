package protocol

import "errors"

var (
	ErrFrameIncomplete = errors.New("bridge frame incomplete")
	ErrFrameLength     = errors.New("bridge frame length out of range")
	ErrFrameSync       = errors.New("bridge frame missing sync byte")
	ErrFrameCRC        = errors.New("bridge frame CRC mismatch")
	ErrFramePayload    = errors.New("bridge frame payload malformed")
)
