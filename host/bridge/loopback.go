package bridge

import (
	"io"
	"sync"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/i2c"

	"classicplus/host/serial"
	"classicplus/protocol"
)

// Handle runs one decoded request against bus and builds the response the
// bridge firmware would send.
func Handle(bus i2c.Bus, req protocol.BridgeRequest) protocol.BridgeResponse {
	r := make([]byte, req.ReadLen)
	var w []byte
	if len(req.Write) > 0 {
		w = req.Write
	}
	if err := bus.Tx(uint16(req.Addr), w, r); err != nil {
		return protocol.BridgeResponse{Status: protocol.BridgeNack}
	}
	return protocol.BridgeResponse{Status: protocol.BridgeOK, Data: r}
}

// Loopback is a serial.Port with the bridge firmware on the far end: request
// frames written to it are run against a bus and the responses queued for Read.
type Loopback struct {
	mu     sync.Mutex
	bus    i2c.Bus
	rx     *protocol.ByteQueue
	tx     *protocol.ByteQueue
	out    *protocol.FrameWriter
	closed bool

	// Inject, if set, may rewrite each encoded response before it is queued
	Inject func(frame []byte) []byte
}

var _ serial.Port = (*Loopback)(nil)

// NewLoopback returns a port answering from bus
func NewLoopback(bus i2c.Bus) *Loopback {
	return &Loopback{
		bus: bus,
		rx:  protocol.NewByteQueue(2 * protocol.FrameBatchSize),
		tx:  protocol.NewByteQueue(4 * protocol.FrameBatchSize),
		out: protocol.NewFrameWriter(),
	}
}

// Write accepts request bytes and answers every complete frame
func (l *Loopback) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return 0, io.ErrClosedPipe
	}
	if l.rx.Push(p) != len(p) {
		return 0, errors.New("loopback receive buffer full")
	}

	for {
		payload, consumed, err := protocol.DecodeFrame(l.rx.Pending())
		if errors.Is(err, protocol.ErrFrameIncomplete) {
			l.rx.Discard(consumed)
			return len(p), nil
		}
		if err != nil {
			l.rx.Discard(consumed)
			continue
		}
		req, err := protocol.ParseRequest(payload)
		if err != nil {
			l.rx.Discard(consumed)
			continue
		}
		resp := Handle(l.bus, req)
		l.rx.Discard(consumed)

		l.out.Reset()
		protocol.EncodeResponse(l.out, resp)
		frame := l.out.Bytes()
		if l.Inject != nil {
			frame = l.Inject(append([]byte(nil), frame...))
		}
		l.tx.Push(frame)
	}
}

// Read returns queued response bytes. It never blocks; an empty queue reads
// zero bytes as a timed-out native port would.
func (l *Loopback) Read(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return 0, io.EOF
	}
	return l.tx.Drain(p), nil
}

// Flush implements serial.Port
func (l *Loopback) Flush() error {
	l.mu.Lock()
	l.tx.Reset()
	l.mu.Unlock()
	return nil
}

// Close implements io.Closer
func (l *Loopback) Close() error {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	return nil
}
