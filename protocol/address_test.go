package protocol

import "testing"

func TestByteWordConversion(t *testing.T) {
	if got := ByteToWord(0x0800); got != 0x0400 {
		t.Errorf("ByteToWord(0x0800) = 0x%04X, expected 0x0400", got)
	}
	if got := ByteToWord(0x0801); got != 0x0400 {
		t.Errorf("ByteToWord(0x0801) = 0x%04X, expected 0x0400", got)
	}
	if got := WordToByte(0x0700); got != 0x0E00 {
		t.Errorf("WordToByte(0x0700) = 0x%04X, expected 0x0E00", got)
	}
}

func TestLengthToWords(t *testing.T) {
	testCases := []struct {
		length byte
		words  int
	}{
		{0, 0},
		{1, 0},
		{4, 2},
		{64, 32},
		{65, 32},
		{200, 32},
	}
	for _, tc := range testCases {
		if got := LengthToWords(tc.length); got != tc.words {
			t.Errorf("LengthToWords(%d) = %d, expected %d", tc.length, got, tc.words)
		}
	}
}

func TestClampToRow(t *testing.T) {
	for addr := uint16(0x0700); addr < 0x0740; addr++ {
		for n := 0; n <= MaxSessionWords; n++ {
			got := ClampToRow(addr, n)
			limit := RowWords - int(addr%RowWords)
			if got > limit {
				t.Fatalf("ClampToRow(0x%04X, %d) = %d exceeds row limit %d", addr, n, got, limit)
			}
			if n <= limit && got != n {
				t.Fatalf("ClampToRow(0x%04X, %d) = %d, expected unchanged", addr, n, got)
			}
		}
	}

	if got := RowStart(0x071F); got != 0x0700 {
		t.Errorf("RowStart(0x071F) = 0x%04X, expected 0x0700", got)
	}
}

func TestWordsRoundTrip(t *testing.T) {
	words := []uint16{0x1234, 0x5678, 0x3FFF}
	data := EncodeWords(words)

	want := []byte{0x34, 0x12, 0x78, 0x56, 0xFF, 0x3F}
	for i := range want {
		if data[i] != want[i] {
			t.Fatalf("EncodeWords = % X, expected % X", data, want)
		}
	}

	back := DecodeWords(append(data, 0xAA))
	if len(back) != len(words) {
		t.Fatalf("DecodeWords returned %d words, expected %d", len(back), len(words))
	}
	for i := range words {
		if back[i] != words[i] {
			t.Errorf("Word %d: got 0x%04X, expected 0x%04X", i, back[i], words[i])
		}
	}
}
