package core

import "errors"

var (
	ErrFlashRange      = errors.New("flash address out of range")
	ErrFlashAlignment  = errors.New("flash row address not aligned")
	ErrProtectedRegion = errors.New("target below protected boundary")
	ErrNoFlash         = errors.New("flash driver not configured")
	ErrNoCalibration   = errors.New("calibration store empty")
	ErrNoStore         = errors.New("calibration store not configured")
	ErrNoCipher        = errors.New("transform not available")
	ErrKeyRejected     = errors.New("transform key rejected")
	ErrUnknownCommand  = errors.New("unknown command code")
	ErrNotProgramming  = errors.New("engine not in programming mode")
)
