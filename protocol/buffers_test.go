package protocol

import (
	"bytes"
	"testing"
)

func TestFrameWriterBatches(t *testing.T) {
	w := NewFrameWriter()
	EncodeFrame(w, []byte{0x01})
	first := len(w.Bytes())
	EncodeFrame(w, []byte{0x02, 0x03})

	all := w.Bytes()
	if all[0] != byte(first) || all[first] != byte(len(all)-first) {
		t.Fatalf("Length bytes do not match frame sizes: % X", all)
	}

	payload, n, err := DecodeFrame(all)
	if err != nil || n != first || !bytes.Equal(payload, []byte{0x01}) {
		t.Fatalf("First frame: payload % X, consumed %d, err %v", payload, n, err)
	}
	payload, _, err = DecodeFrame(all[n:])
	if err != nil || !bytes.Equal(payload, []byte{0x02, 0x03}) {
		t.Fatalf("Second frame: payload % X, err %v", payload, err)
	}

	w.Reset()
	if len(w.Bytes()) != 0 {
		t.Errorf("Expected empty writer after reset, got %d bytes", len(w.Bytes()))
	}
}

func TestByteQueueLimit(t *testing.T) {
	q := NewByteQueue(10)
	if n := q.Push(make([]byte, 12)); n != 10 {
		t.Errorf("Expected to take 10 bytes, took %d", n)
	}
	if n := q.Push([]byte{1}); n != 0 {
		t.Errorf("Expected full queue to refuse, took %d", n)
	}
}

func TestByteQueueCompacts(t *testing.T) {
	q := NewByteQueue(5)
	q.Push([]byte{1, 2, 3, 4})

	out := make([]byte, 2)
	if n := q.Drain(out); n != 2 || !bytes.Equal(out, []byte{1, 2}) {
		t.Fatalf("Drain returned %d % X", n, out)
	}

	// Needs the consumed prefix back
	if n := q.Push([]byte{5, 6, 7}); n != 3 {
		t.Errorf("Expected to take 3 bytes after compaction, took %d", n)
	}
	if got := q.Pending(); !bytes.Equal(got, []byte{3, 4, 5, 6, 7}) {
		t.Errorf("Expected contiguous 03 04 05 06 07, got % X", got)
	}

	q.Discard(4)
	if q.Len() != 1 || q.Pending()[0] != 7 {
		t.Errorf("After discarding 4, expected 07 left, got % X", q.Pending())
	}
	q.Discard(3)
	if q.Len() != 0 {
		t.Errorf("Expected empty queue, got %d bytes", q.Len())
	}
}
