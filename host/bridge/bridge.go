package bridge

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/log"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"

	"classicplus/host/serial"
	"classicplus/protocol"
)

// Largest transfers that fit one frame
const (
	MaxWrite = protocol.FrameLengthMax - protocol.FrameLengthMin - 2
	MaxRead  = protocol.FrameLengthMax - protocol.FrameLengthMin - 1
)

var (
	ErrNack     = errors.New("address not acknowledged")
	ErrBusy     = errors.New("bridge busy")
	ErrTimeout  = errors.New("bridge response timeout")
	ErrTooLarge = errors.New("transfer too large for one frame")
)

// Bus is an i2c.Bus reached through a USB-serial bridge MCU. Every Tx is one
// request frame answered by one response frame.
type Bus struct {
	mu      sync.Mutex
	port    serial.Port
	name    string
	timeout time.Duration
	logger  *log.Logger

	out *protocol.FrameWriter
	rx  *protocol.ByteQueue
	buf [64]byte
}

var _ i2c.BusCloser = (*Bus)(nil)

// Open opens the serial device and returns a bus speaking through it
func Open(cfg *serial.Config, logger *log.Logger) (*Bus, error) {
	port, err := serial.Open(cfg)
	if err != nil {
		return nil, err
	}
	timeout := time.Duration(cfg.ReadTimeout) * time.Millisecond
	return New(port, cfg.Device, timeout, logger), nil
}

// New wraps an open port. A nil logger disables logging.
func New(port serial.Port, name string, timeout time.Duration, logger *log.Logger) *Bus {
	if timeout <= 0 {
		timeout = time.Second
	}
	return &Bus{
		port:    port,
		name:    name,
		timeout: timeout,
		logger:  logger,
		out:     protocol.NewFrameWriter(),
		rx:      protocol.NewByteQueue(2 * protocol.FrameBatchSize),
	}
}

// String implements i2c.Bus
func (b *Bus) String() string {
	return "bridge(" + b.name + ")"
}

// SetSpeed implements i2c.Bus. The bridge runs its bus at a fixed rate.
func (b *Bus) SetSpeed(f physic.Frequency) error {
	return errors.Errorf("%s: bus speed is fixed by the bridge firmware", b)
}

// Close implements io.Closer
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.port.Close()
}

// Tx implements i2c.Bus: write w, then read len(r) bytes after a repeated start
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	if addr > 0x7F {
		return errors.Errorf("address 0x%X is not a 7-bit address", addr)
	}
	if len(w) > MaxWrite || len(r) > MaxRead {
		return ErrTooLarge
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.out.Reset()
	protocol.EncodeRequest(b.out, protocol.BridgeRequest{
		Addr:    uint8(addr),
		ReadLen: uint8(len(r)),
		Write:   w,
	})
	if _, err := b.port.Write(b.out.Bytes()); err != nil {
		return errors.Wrap(err, "writing request")
	}

	resp, err := b.receive()
	if err != nil {
		return err
	}

	switch resp.Status {
	case protocol.BridgeOK:
	case protocol.BridgeNack:
		return errors.Wrapf(ErrNack, "0x%02X", addr)
	case protocol.BridgeBusy:
		return ErrBusy
	default:
		return errors.Errorf("unknown bridge status 0x%02X", resp.Status)
	}
	if len(resp.Data) != len(r) {
		return errors.Errorf("bridge returned %d bytes, expected %d", len(resp.Data), len(r))
	}
	copy(r, resp.Data)
	return nil
}

// receive reads until one valid response frame is decoded, discarding
// corrupt bytes
func (b *Bus) receive() (protocol.BridgeResponse, error) {
	deadline := time.Now().Add(b.timeout)
	for {
		payload, consumed, err := protocol.DecodeFrame(b.rx.Pending())
		switch {
		case err == nil:
			resp, perr := protocol.ParseResponse(payload)
			if perr == nil {
				resp.Data = append([]byte(nil), resp.Data...)
			}
			b.rx.Discard(consumed)
			return resp, perr

		case errors.Is(err, protocol.ErrFrameIncomplete):
			b.rx.Discard(consumed)

		default:
			if b.logger != nil {
				b.logger.Debug("Discarding bridge bytes", log.Err(err), log.Int("count", consumed))
			}
			b.rx.Discard(consumed)
			continue
		}

		if time.Now().After(deadline) {
			return protocol.BridgeResponse{}, ErrTimeout
		}
		n, err := b.port.Read(b.buf[:])
		if err != nil {
			return protocol.BridgeResponse{}, errors.Wrap(err, "reading response")
		}
		b.rx.Push(b.buf[:n])
	}
}
