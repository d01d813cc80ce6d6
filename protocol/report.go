package protocol

// Classic Controller buttons. The low byte maps to report byte 4, the high
// byte to report byte 5; both are sent active low.
const (
	ButtonRT    uint16 = 1 << 1
	ButtonPlus  uint16 = 1 << 2
	ButtonHome  uint16 = 1 << 3
	ButtonMinus uint16 = 1 << 4
	ButtonLT    uint16 = 1 << 5
	ButtonDown  uint16 = 1 << 6
	ButtonRight uint16 = 1 << 7
	ButtonUp    uint16 = 1 << 8
	ButtonLeft  uint16 = 1 << 9
	ButtonZR    uint16 = 1 << 10
	ButtonX     uint16 = 1 << 11
	ButtonA     uint16 = 1 << 12
	ButtonY     uint16 = 1 << 13
	ButtonB     uint16 = 1 << 14
	ButtonZL    uint16 = 1 << 15
)

// ClassicState is one sample of Classic Controller inputs at full 8-bit resolution
type ClassicState struct {
	LX, LY, RX, RY uint8
	LT, RT         uint8
	Buttons        uint16
}

// EncodeClassicReport packs s into the 6-byte report format
func EncodeClassicReport(s ClassicState) []byte {
	lx, ly := s.LX>>2, s.LY>>2
	rx, ry := s.RX>>3, s.RY>>3
	lt, rt := s.LT>>3, s.RT>>3
	return []byte{
		(rx&0x18)<<3 | lx,
		(rx&0x06)<<5 | ly,
		(rx&0x01)<<7 | (lt&0x18)<<2 | ry,
		(lt&0x07)<<5 | rt,
		^uint8(s.Buttons),
		^uint8(s.Buttons >> 8),
	}
}

// EncodeClassicFullReport packs s into the 8-byte report selected by FullReportMode
func EncodeClassicFullReport(s ClassicState) []byte {
	return []byte{
		s.LX, s.RX, s.LY, s.RY, s.LT, s.RT,
		^uint8(s.Buttons),
		^uint8(s.Buttons >> 8),
	}
}

// NunchukState is one sample of Nunchuk inputs. Accelerometer axes are 10 bits.
type NunchukState struct {
	SX, SY     uint8
	AX, AY, AZ uint16
	C, Z       bool
}

// EncodeNunchukReport packs s into the 6-byte report format
func EncodeNunchukReport(s NunchukState) []byte {
	b5 := uint8(s.AZ&0x03)<<6 | uint8(s.AY&0x03)<<4 | uint8(s.AX&0x03)<<2
	if !s.C {
		b5 |= 0x02
	}
	if !s.Z {
		b5 |= 0x01
	}
	return []byte{
		s.SX,
		s.SY,
		uint8(s.AX >> 2),
		uint8(s.AY >> 2),
		uint8(s.AZ >> 2),
		b5,
	}
}
