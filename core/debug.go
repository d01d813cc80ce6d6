package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// BusEvent captures one engine event for post-mortem analysis. Recording is
// cheap enough to run from the bus interrupt.
type BusEvent struct {
	EventType uint8
	Device    uint8
	Reg       uint8
	Value     uint16
}

// Event type codes
const (
	EvtAddress      = 1  // Address phase matched
	EvtAddressMiss  = 2  // Address admitted by the mask but owned by no device
	EvtWrite        = 3  // Data byte written
	EvtRead         = 4  // Data byte served
	EvtStop         = 5  // Stop condition
	EvtOverflow     = 6  // Receive overflow reported by the peripheral
	EvtCommand      = 7  // Command posted to the pending slot
	EvtSession      = 8  // Programming session started (Value = command code)
	EvtFlashErase   = 9  // Row erased (Value = word address)
	EvtFlashWrite   = 10 // Words written (Value = word address)
	EvtFlashReject  = 11 // ERASE/WRITE dropped below the protected boundary
	EvtProgramMode  = 12 // Programming mode entered (Value = 1) or left (Value = 0)
	EvtCalibration  = 13 // Calibration loaded/stored (Value = command code)
	EvtTransform    = 14 // Transform enabled (Value = 1) or disabled (Value = 0)
	EvtActionFailed = 15 // Deferred action returned an error (Value = command code)
)

const (
	EventRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {}

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	eventRing     [EventRingSize]BusEvent
	eventRingHead uint8
	eventsEnabled bool = true

	// Async debug output channel
	debugChan chan string
)

// SetDebugWriter sets the platform-specific debug output function
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// InitAsyncDebug starts the async debug output goroutine
func InitAsyncDebug() {
	debugChan = make(chan string, 16)
	go debugOutputWorker()
}

func debugOutputWorker() {
	for msg := range debugChan {
		if debugPrintln != nil {
			debugPrintln(msg)
		}
	}
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// DebugAsync queues a debug message for async output, dropping it when the
// channel is full. Safe to call from the main loop while the bus is busy.
func DebugAsync(msg string) {
	if debugChan != nil {
		select {
		case debugChan <- msg:
		default:
		}
	}
}

// RecordEvent captures an event in the ring buffer
func RecordEvent(eventType, device, reg uint8, value uint16) {
	if !eventsEnabled {
		return
	}
	idx := eventRingHead
	eventRing[idx] = BusEvent{
		EventType: eventType,
		Device:    device,
		Reg:       reg,
		Value:     value,
	}
	eventRingHead = (idx + 1) % EventRingSize
}

// SetEventsEnabled turns event capture on or off
func SetEventsEnabled(enabled bool) {
	eventsEnabled = enabled
}

// RecentEvents returns the captured events, oldest first
func RecentEvents() []BusEvent {
	events := make([]BusEvent, 0, EventRingSize)
	start := eventRingHead
	for i := uint8(0); i < EventRingSize; i++ {
		evt := eventRing[(start+i)%EventRingSize]
		if evt.EventType == 0 {
			continue
		}
		events = append(events, evt)
	}
	return events
}

func eventName(eventType uint8) string {
	switch eventType {
	case EvtAddress:
		return "ADDR"
	case EvtAddressMiss:
		return "ADDR_MISS"
	case EvtWrite:
		return "WRITE"
	case EvtRead:
		return "READ"
	case EvtStop:
		return "STOP"
	case EvtOverflow:
		return "OVERFLOW!"
	case EvtCommand:
		return "COMMAND"
	case EvtSession:
		return "SESSION"
	case EvtFlashErase:
		return "ERASE"
	case EvtFlashWrite:
		return "PROGRAM"
	case EvtFlashReject:
		return "REJECT"
	case EvtProgramMode:
		return "PGM_MODE"
	case EvtCalibration:
		return "CAL"
	case EvtTransform:
		return "TRANSFORM"
	case EvtActionFailed:
		return "FAILED!"
	default:
		return "UNKNOWN"
	}
}

// DumpEventRing outputs the event ring buffer (call after stopping the bus)
func DumpEventRing() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[BUS] === Event Ring Dump ===")
	for _, evt := range RecentEvents() {
		debugPrintln("[BUS] " + eventName(evt.EventType) +
			" dev=" + itoa(int(evt.Device)) +
			" reg=0x" + hex8(evt.Reg) +
			" v=0x" + hex16(evt.Value))
	}
	debugPrintln("[BUS] === End Dump ===")
}

// ClearEventRing clears the event buffer
func ClearEventRing() {
	for i := range eventRing {
		eventRing[i] = BusEvent{}
	}
	eventRingHead = 0
}
