// Package image loads program images from Intel HEX files. HEX addresses are
// byte addresses; program memory is word addressed, low byte first.
package image

import (
	"io"
	"os"
	"sort"

	"github.com/marcinbor85/gohex"
	"github.com/pkg/errors"

	"classicplus/protocol"
)

// ErasedWord fills row positions the image does not cover
const ErasedWord = 0x3FFF

// Segment is a contiguous run of program words
type Segment struct {
	Addr  uint16 // Word address
	Words []uint16
}

// Row is one flash row of the image
type Row struct {
	Addr  uint16 // Word address of the row start
	Words [protocol.RowWords]uint16
	Used  int // Words the image actually defines
}

// Image is a program image
type Image struct {
	Segments []Segment
}

// Load reads an Intel HEX file. Data at or above limit (a word address,
// zero for no limit) is dropped, which removes configuration words.
func Load(path string, limit uint32) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening image")
	}
	defer f.Close()
	return Parse(f, limit)
}

// Parse reads Intel HEX from r
func Parse(r io.Reader, limit uint32) (*Image, error) {
	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(r); err != nil {
		return nil, errors.Wrap(err, "parsing intel hex")
	}

	img := &Image{}
	for _, seg := range mem.GetDataSegments() {
		data := seg.Data
		addr := seg.Address
		if addr%2 != 0 {
			// Align to a word boundary with an erased low byte
			data = append([]byte{byte(ErasedWord & 0xFF)}, data...)
			addr--
		}
		if len(data)%2 != 0 {
			data = append(data, byte(ErasedWord>>8))
		}

		wordAddr := addr / 2
		if wordAddr > 0xFFFF || (limit != 0 && wordAddr >= limit) {
			continue
		}
		words := protocol.DecodeWords(data)
		if limit != 0 && wordAddr+uint32(len(words)) > limit {
			words = words[:limit-wordAddr]
		}
		img.Segments = append(img.Segments, Segment{Addr: uint16(wordAddr), Words: words})
	}

	sort.Slice(img.Segments, func(i, j int) bool {
		return img.Segments[i].Addr < img.Segments[j].Addr
	})
	return img, nil
}

// Words returns the number of program words in the image
func (img *Image) Words() int {
	n := 0
	for _, seg := range img.Segments {
		n += len(seg.Words)
	}
	return n
}

// Lowest returns the lowest word address the image touches
func (img *Image) Lowest() (uint16, bool) {
	if len(img.Segments) == 0 {
		return 0, false
	}
	return img.Segments[0].Addr, true
}

// Rows groups the image into flash rows in ascending order
func (img *Image) Rows() []Row {
	index := make(map[uint16]*Row)
	var order []uint16
	for _, seg := range img.Segments {
		for i, w := range seg.Words {
			addr := seg.Addr + uint16(i)
			start := protocol.RowStart(addr)
			row, ok := index[start]
			if !ok {
				row = &Row{Addr: start}
				for j := range row.Words {
					row.Words[j] = ErasedWord
				}
				index[start] = row
				order = append(order, start)
			}
			row.Words[addr-start] = w
			row.Used++
		}
	}

	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	rows := make([]Row, len(order))
	for i, addr := range order {
		rows[i] = *index[addr]
	}
	return rows
}

// FromWords builds a single-segment image
func FromWords(wordAddr uint16, words []uint16) *Image {
	return &Image{Segments: []Segment{{Addr: wordAddr, Words: append([]uint16(nil), words...)}}}
}

// WriteHex writes the image as Intel HEX
func (img *Image) WriteHex(w io.Writer) error {
	mem := gohex.NewMemory()
	for _, seg := range img.Segments {
		if err := mem.AddBinary(uint32(seg.Addr)*2, protocol.EncodeWords(seg.Words)); err != nil {
			return errors.Wrapf(err, "adding segment at 0x%04X", seg.Addr)
		}
	}
	return errors.Wrap(mem.DumpIntelHex(w, 16), "writing intel hex")
}
