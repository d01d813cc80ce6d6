package core

import "sync/atomic"

const pendingSet = 0x100

// PendingSlot is the one-slot handoff between the bus interrupt and the main
// loop. The interrupt side posts a code; the main loop takes it. A newer post
// overwrites an unexecuted one.
type PendingSlot struct {
	v uint32
}

// Post stores code, replacing whatever was pending
func (p *PendingSlot) Post(code byte) {
	atomic.StoreUint32(&p.v, pendingSet|uint32(code))
}

// Take removes and returns the pending code
func (p *PendingSlot) Take() (byte, bool) {
	v := atomic.SwapUint32(&p.v, 0)
	return byte(v), v&pendingSet != 0
}

// Peek returns the pending code without clearing it
func (p *PendingSlot) Peek() (byte, bool) {
	v := atomic.LoadUint32(&p.v)
	return byte(v), v&pendingSet != 0
}

// Clear drops any pending code
func (p *PendingSlot) Clear() {
	atomic.StoreUint32(&p.v, 0)
}
