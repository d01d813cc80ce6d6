package protocol

import (
	"bytes"
	"testing"
)

func TestNeutralReports(t *testing.T) {
	center := ClassicState{LX: 0x7F, LY: 0x7F, RX: 0x7F, RY: 0x7F}
	if got := EncodeClassicReport(center); !bytes.Equal(got, ClassicNeutralReport) {
		t.Errorf("Classic neutral: got % X, expected % X", got, ClassicNeutralReport)
	}

	center.LT, center.RT = 0x7F, 0x7F
	if got := EncodeClassicFullReport(center); !bytes.Equal(got, ClassicFullNeutralReport) {
		t.Errorf("Classic full neutral: got % X, expected % X", got, ClassicFullNeutralReport)
	}

	rest := NunchukState{SX: 0x7F, SY: 0x7F, AX: 0x1FF, AY: 0x1FF, AZ: 0x2D0}
	if got := EncodeNunchukReport(rest); !bytes.Equal(got, NunchukNeutralReport) {
		t.Errorf("Nunchuk neutral: got % X, expected % X", got, NunchukNeutralReport)
	}
}

func TestClassicReportFields(t *testing.T) {
	tests := []struct {
		name  string
		state ClassicState
		want  []byte
	}{
		{"left stick max", ClassicState{LX: 0xFF, LY: 0xFF}, []byte{0x3F, 0x3F, 0x00, 0x00, 0xFF, 0xFF}},
		{"right stick x max", ClassicState{RX: 0xFF}, []byte{0xC0, 0xC0, 0x80, 0x00, 0xFF, 0xFF}},
		{"right stick y max", ClassicState{RY: 0xFF}, []byte{0x00, 0x00, 0x1F, 0x00, 0xFF, 0xFF}},
		{"left trigger max", ClassicState{LT: 0xFF}, []byte{0x00, 0x00, 0x60, 0xE0, 0xFF, 0xFF}},
		{"right trigger max", ClassicState{RT: 0xFF}, []byte{0x00, 0x00, 0x00, 0x1F, 0xFF, 0xFF}},
		{"A and home", ClassicState{Buttons: ButtonA | ButtonHome}, []byte{0x00, 0x00, 0x00, 0x00, 0xF7, 0xEF}},
	}
	for _, tt := range tests {
		if got := EncodeClassicReport(tt.state); !bytes.Equal(got, tt.want) {
			t.Errorf("%s: got % X, expected % X", tt.name, got, tt.want)
		}
	}
}

func TestNunchukButtons(t *testing.T) {
	got := EncodeNunchukReport(NunchukState{C: true, Z: true})
	if got[5] != 0x00 {
		t.Errorf("Both pressed: got 0x%02X, expected 0x00", got[5])
	}
	got = EncodeNunchukReport(NunchukState{Z: true, AX: 0x3FF})
	if got[2] != 0xFF || got[5] != 0x0E {
		t.Errorf("Z pressed: got % X", got)
	}
}
