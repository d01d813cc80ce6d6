//go:build !tinygo

package core

import "sync/atomic"

// State stands in for the saved interrupt mask on hosted Go
type State uintptr

// maskDepth tracks open masked sections so tests can check main-loop updates
// are bracketed the way they are on hardware
var maskDepth, maskEntries atomic.Int32

// disableInterrupts is a no-op on hosted Go, where bus events are delivered
// synchronously by the caller
func disableInterrupts() State {
	maskEntries.Add(1)
	return State(maskDepth.Add(1) - 1)
}

// restoreInterrupts is a no-op on hosted Go
func restoreInterrupts(state State) {
	maskDepth.Store(int32(state))
}
