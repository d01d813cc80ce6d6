package protocol

// FrameBatchSize is the starting capacity of a FrameWriter and the unit the
// bridge sizes its queues in
const FrameBatchSize = 512

// FrameWriter accumulates encoded bridge frames. A frame is opened with
// Begin, filled with Append and closed with Seal, which patches the length
// byte and adds the CRC and sync trailer.
type FrameWriter struct {
	buf []byte
}

// NewFrameWriter creates an empty writer
func NewFrameWriter() *FrameWriter {
	return &FrameWriter{buf: make([]byte, 0, FrameBatchSize)}
}

// Begin reserves the length byte of a new frame and returns its offset
func (w *FrameWriter) Begin() int {
	start := len(w.buf)
	w.buf = append(w.buf, 0)
	return start
}

// Append adds payload bytes to the open frame
func (w *FrameWriter) Append(data ...byte) {
	w.buf = append(w.buf, data...)
}

// Seal closes the frame opened at start. The CRC covers the length byte and
// the payload.
func (w *FrameWriter) Seal(start int) {
	w.buf[start] = uint8(len(w.buf) - start + FrameTrailerSize)
	crc := CRC16(w.buf[start:])
	w.buf = append(w.buf, uint8(crc>>8), uint8(crc), FrameValueSync)
}

// Bytes returns every frame written since the last Reset
func (w *FrameWriter) Bytes() []byte {
	return w.buf
}

// Reset drops all frames, keeping the allocation
func (w *FrameWriter) Reset() {
	w.buf = w.buf[:0]
}

// ByteQueue holds serial bytes between the port and the frame decoder.
// Pending is always contiguous: consumed bytes only advance the head, and
// the live tail is moved down when a Push needs the room.
type ByteQueue struct {
	buf   []byte
	head  int
	limit int
}

// NewByteQueue creates a queue holding at most limit bytes
func NewByteQueue(limit int) *ByteQueue {
	return &ByteQueue{buf: make([]byte, 0, limit), limit: limit}
}

// Push appends as much of p as fits and returns the number of bytes taken
func (q *ByteQueue) Push(p []byte) int {
	if q.head > 0 && len(q.buf)+len(p) > q.limit {
		n := copy(q.buf, q.buf[q.head:])
		q.buf = q.buf[:n]
		q.head = 0
	}
	if room := q.limit - len(q.buf); len(p) > room {
		p = p[:room]
	}
	q.buf = append(q.buf, p...)
	return len(p)
}

// Pending returns the unconsumed bytes. The slice stays valid until the
// next Push.
func (q *ByteQueue) Pending() []byte {
	return q.buf[q.head:]
}

// Len returns the number of unconsumed bytes
func (q *ByteQueue) Len() int {
	return len(q.buf) - q.head
}

// Discard consumes n bytes from the front
func (q *ByteQueue) Discard(n int) {
	if n > q.Len() {
		n = q.Len()
	}
	q.head += n
	if q.head == len(q.buf) {
		q.Reset()
	}
}

// Drain copies pending bytes into p and consumes them
func (q *ByteQueue) Drain(p []byte) int {
	n := copy(p, q.Pending())
	q.Discard(n)
	return n
}

// Reset empties the queue
func (q *ByteQueue) Reset() {
	q.buf = q.buf[:0]
	q.head = 0
}
