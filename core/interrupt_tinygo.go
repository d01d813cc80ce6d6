//go:build tinygo

package core

import "runtime/interrupt"

// disableInterrupts masks interrupts so the main loop can touch state shared
// with the bus handler, returning the previous mask
func disableInterrupts() interrupt.State {
	return interrupt.Disable()
}

// restoreInterrupts restores the mask saved by disableInterrupts
func restoreInterrupts(state interrupt.State) {
	interrupt.Restore(state)
}
