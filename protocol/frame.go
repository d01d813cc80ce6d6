package protocol

// Bridge framing used between the host and a USB-serial to I2C bridge MCU.
//
//	len | payload... | crc16 hi | crc16 lo | 0x7E
//
// len counts the whole frame. Requests carry addr, read length and the bytes
// to write; responses carry a status byte followed by the bytes read.
const (
	FrameHeaderSize  = 1
	FrameTrailerSize = 3
	FrameLengthMin   = FrameHeaderSize + FrameTrailerSize
	FrameLengthMax   = 255
	FrameValueSync   = 0x7E
)

// Bridge response status codes
const (
	BridgeOK   = 0x00
	BridgeNack = 0x01
	BridgeBusy = 0x02
)

// BridgeRequest is one bus transaction: an optional write followed by an optional read
type BridgeRequest struct {
	Addr    uint8
	ReadLen uint8
	Write   []byte
}

// BridgeResponse is the bridge's answer to a BridgeRequest
type BridgeResponse struct {
	Status uint8
	Data   []byte
}

// EncodeFrame appends a framed payload to w
func EncodeFrame(w *FrameWriter, payload []byte) {
	start := w.Begin()
	w.Append(payload...)
	w.Seal(start)
}

// DecodeFrame extracts the first frame from data, skipping leading sync bytes.
// It returns the payload and the number of bytes consumed.
func DecodeFrame(data []byte) ([]byte, int, error) {
	skipped := 0
	for skipped < len(data) && data[skipped] == FrameValueSync {
		skipped++
	}
	data = data[skipped:]

	if len(data) < FrameHeaderSize {
		return nil, skipped, ErrFrameIncomplete
	}
	frameLen := int(data[0])
	if frameLen < FrameLengthMin {
		return nil, skipped + 1, ErrFrameLength
	}
	if len(data) < frameLen {
		return nil, skipped, ErrFrameIncomplete
	}
	if data[frameLen-1] != FrameValueSync {
		return nil, skipped + 1, ErrFrameSync
	}

	frameCRC := uint16(data[frameLen-FrameTrailerSize])<<8 |
		uint16(data[frameLen-FrameTrailerSize+1])
	if frameCRC != CRC16(data[:frameLen-FrameTrailerSize]) {
		return nil, skipped + 1, ErrFrameCRC
	}

	return data[FrameHeaderSize : frameLen-FrameTrailerSize], skipped + frameLen, nil
}

// EncodeRequest frames a bridge request
func EncodeRequest(w *FrameWriter, req BridgeRequest) {
	payload := make([]byte, 0, 2+len(req.Write))
	payload = append(payload, req.Addr, req.ReadLen)
	payload = append(payload, req.Write...)
	EncodeFrame(w, payload)
}

// ParseRequest decodes a request payload returned by DecodeFrame
func ParseRequest(payload []byte) (BridgeRequest, error) {
	if len(payload) < 2 {
		return BridgeRequest{}, ErrFramePayload
	}
	return BridgeRequest{
		Addr:    payload[0],
		ReadLen: payload[1],
		Write:   payload[2:],
	}, nil
}

// EncodeResponse frames a bridge response
func EncodeResponse(w *FrameWriter, resp BridgeResponse) {
	payload := make([]byte, 0, 1+len(resp.Data))
	payload = append(payload, resp.Status)
	payload = append(payload, resp.Data...)
	EncodeFrame(w, payload)
}

// ParseResponse decodes a response payload returned by DecodeFrame
func ParseResponse(payload []byte) (BridgeResponse, error) {
	if len(payload) < 1 {
		return BridgeResponse{}, ErrFramePayload
	}
	return BridgeResponse{
		Status: payload[0],
		Data:   payload[1:],
	}, nil
}
