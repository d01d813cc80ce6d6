package core

// ReadHandler serves a bus read of reg
type ReadHandler func(e *Engine, reg uint8) byte

// WriteHandler consumes a bus write of b to reg
type WriteHandler func(e *Engine, reg uint8, b byte)

// Region maps an inclusive register range of one device to its behavior.
// Nil handlers fall through to the register file.
type Region struct {
	Name   string
	Device uint8
	Start  uint8
	End    uint8

	// Raw regions store writes without the transform hook
	Raw bool

	// Hold keeps the cursor in place, turning the register into a FIFO
	Hold bool

	Read  ReadHandler
	Write WriteHandler
}

const noRegion = 0xFF

// RegionTable resolves a (device, register) pair to a Region in O(1).
// Later regions take precedence over earlier ones where they overlap.
type RegionTable struct {
	regions []Region
	index   [2][256]uint8
}

// NewRegionTable builds the lookup index for the given regions
func NewRegionTable(regions ...Region) *RegionTable {
	t := &RegionTable{regions: regions}
	for d := range t.index {
		for r := range t.index[d] {
			t.index[d][r] = noRegion
		}
	}
	for i := range regions {
		rg := &regions[i]
		for r := int(rg.Start); r <= int(rg.End); r++ {
			t.index[rg.Device&1][r] = uint8(i)
		}
	}
	return t
}

// Lookup returns the region covering reg on device, or nil when unmapped
func (t *RegionTable) Lookup(device, reg uint8) *Region {
	i := t.index[device&1][reg]
	if i == noRegion {
		return nil
	}
	return &t.regions[i]
}

// Len returns the number of regions
func (t *RegionTable) Len() int {
	return len(t.regions)
}
