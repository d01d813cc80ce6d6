package protocol

import "testing"

func TestChecksumFinal(t *testing.T) {
	testCases := []struct {
		data     []byte
		expected byte
	}{
		{data: nil, expected: 0x00},
		{data: []byte{0x01}, expected: 0xFF},
		{data: []byte{0x80, 0x80}, expected: 0x00},
		{data: []byte{0x00, 0x08, 0x04, 0x34, 0x12, 0x78, 0x56}, expected: 0xE0},
	}

	for i, tc := range testCases {
		var c Checksum
		for _, b := range tc.data {
			c.Add(b)
		}
		if got := c.Final(); got != tc.expected {
			t.Errorf("Test case %d: Final() = 0x%02X, expected 0x%02X", i, got, tc.expected)
		}
		if !VerifyChecksum(tc.data, c.Final()) {
			t.Errorf("Test case %d: checksum does not verify", i)
		}
	}
}

func TestChecksumAddWord(t *testing.T) {
	var words, bytes Checksum
	words.AddWord(0xBEEF)
	bytes.Add(0xEF)
	bytes.Add(0xBE)

	if words != bytes {
		t.Errorf("AddWord = 0x%02X, byte-wise = 0x%02X", uint8(words), uint8(bytes))
	}
}

func TestVerifyChecksumRejectsCorruption(t *testing.T) {
	data := []byte{0x10, 0x20, 0x30}
	cs := SumChecksum(data)
	data[1] ^= 0x01

	if VerifyChecksum(data, cs) {
		t.Error("Corrupted data should not verify")
	}
}

func TestSessionChecksum(t *testing.T) {
	payload := EncodeWords([]uint16{0x1234, 0x5678})
	got := SessionChecksum(0x0800, 2, payload)

	sum := 0x00 + 0x08 + 0x04 + 0x34 + 0x12 + 0x78 + 0x56
	want := byte(-sum & 0xFF)
	if got != want {
		t.Errorf("SessionChecksum = 0x%02X, expected 0x%02X", got, want)
	}
}
