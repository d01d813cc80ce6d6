package protocol

import "testing"

func TestRequestFrame(t *testing.T) {
	out := NewFrameWriter()
	EncodeRequest(out, BridgeRequest{Addr: ExpansionAddress, ReadLen: 6, Write: []byte{RegIdentity}})

	frame := out.Bytes()
	if int(frame[0]) != len(frame) {
		t.Fatalf("Length byte %d does not match frame size %d", frame[0], len(frame))
	}
	if frame[len(frame)-1] != FrameValueSync {
		t.Fatalf("Frame does not end with sync byte: % X", frame)
	}

	payload, n, err := DecodeFrame(frame)
	if err != nil {
		t.Fatalf("DecodeFrame failed: %v", err)
	}
	if n != len(frame) {
		t.Errorf("Consumed %d bytes, expected %d", n, len(frame))
	}

	req, err := ParseRequest(payload)
	if err != nil {
		t.Fatalf("ParseRequest failed: %v", err)
	}
	if req.Addr != ExpansionAddress || req.ReadLen != 6 || len(req.Write) != 1 || req.Write[0] != RegIdentity {
		t.Errorf("Unexpected request: %+v", req)
	}
}

func TestDecodeFrameErrors(t *testing.T) {
	out := NewFrameWriter()
	EncodeResponse(out, BridgeResponse{Status: BridgeOK, Data: []byte{0xEF, 0xBE}})
	good := append([]byte(nil), out.Bytes()...)

	if _, _, err := DecodeFrame(good[:3]); err != ErrFrameIncomplete {
		t.Errorf("Truncated frame: got %v, expected ErrFrameIncomplete", err)
	}

	corrupt := append([]byte(nil), good...)
	corrupt[2] ^= 0xFF
	if _, _, err := DecodeFrame(corrupt); err != ErrFrameCRC {
		t.Errorf("Corrupt frame: got %v, expected ErrFrameCRC", err)
	}

	nosync := append([]byte(nil), good...)
	nosync[len(nosync)-1] = 0x00
	if _, _, err := DecodeFrame(nosync); err != ErrFrameSync {
		t.Errorf("Missing sync: got %v, expected ErrFrameSync", err)
	}

	// Leading sync bytes are skipped
	padded := append([]byte{FrameValueSync, FrameValueSync}, good...)
	payload, n, err := DecodeFrame(padded)
	if err != nil {
		t.Fatalf("Padded frame: %v", err)
	}
	if n != len(padded) {
		t.Errorf("Padded frame consumed %d, expected %d", n, len(padded))
	}
	resp, err := ParseResponse(payload)
	if err != nil || resp.Status != BridgeOK || len(resp.Data) != 2 {
		t.Errorf("Unexpected response %+v (err %v)", resp, err)
	}
}
