package ppu

// tileRow is a single row of a tile, as the two bit planes stored in
// VRAM. Each tile is 8x8 pixels and 16 bytes, two bytes per row: the
// first holds the low bit of every pixel's colour and the second the
// high bit, with the leftmost pixel in bit 7.
type tileRow struct {
	low, high uint8
}

// tileRow fetches row y of the tile at address.
func (p *PPU) tileRow(address uint16, y uint8) tileRow {
	line := address + uint16(y)*2
	return tileRow{
		low:  p.mem.Get(line),
		high: p.mem.Get(line + 1),
	}
}

// colour returns the 2 bit colour index of pixel x of the row.
func (t tileRow) colour(x uint8) uint8 {
	bit := 7 - x
	return (t.high>>bit&1)<<1 | t.low>>bit&1
}
