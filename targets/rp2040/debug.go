//go:build rp2040 || rp2350

package main

import (
	"classicplus/core"
	"classicplus/protocol"
	"machine"
)

var debugEnabled bool

// InitDebug routes core debug output to USB CDC. The bus handler never
// writes directly; messages pass through core's async queue.
func InitDebug() {
	debugEnabled = true
	core.SetDebugWriter(debugWrite)
	core.SetDebugEnabled(true)
	core.InitAsyncDebug()

	core.DebugPrintln("=== Classic+ " + protocol.Version + " ===")
}

func debugWrite(s string) {
	if !debugEnabled {
		return
	}
	machine.Serial.Write([]byte(s))
	machine.Serial.Write([]byte("\r\n"))
}

// dumpStats prints the engine counters and the recent bus events
func dumpStats(e *core.Engine) {
	if e == nil {
		return
	}
	s := e.Stats()
	core.DebugPrintln("[STATS] transactions=" + itoa(int(s.Transactions)) +
		" misses=" + itoa(int(s.AddressMisses)) +
		" overflows=" + itoa(int(s.Overflows)) +
		" erases=" + itoa(int(s.FlashErases)) +
		" writes=" + itoa(int(s.FlashWrites)) +
		" rejected=" + itoa(int(s.Rejected)) +
		" failures=" + itoa(int(s.Failures)) +
		" busErrors=" + itoa(int(busErrors)))
	core.DumpEventRing()
}

// itoa converts int to string without importing strconv (for embedded)
func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	negative := i < 0
	if negative {
		i = -i
	}

	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if negative {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}
