package types

// Memory is the raw view of the address space that the peripherals
// (timer, PPU, interrupts) step against. Unlike the CPU facing Read
// and Write, Get and Set never trigger side effects, so a peripheral
// can update the registers it owns (such as DIV or LY) without
// tripping the behaviour the CPU would see when writing them.
type Memory interface {
	// Get returns the byte stored at the given address.
	Get(address uint16) uint8
	// Set stores the byte at the given address.
	Set(address uint16, value uint8)
}

// The memory map of the DMG.
const (
	// ROMEnd is the last address of the cartridge ROM window.
	ROMEnd = 0x7FFF
	// VRAMStart is the first address of video RAM, where the tile
	// data and tile maps are stored.
	VRAMStart = 0x8000
	// ExternalRAMStart is the first address of the cartridge RAM
	// window (0xA000 - 0xBFFF).
	ExternalRAMStart = 0xA000
	// ExternalRAMEnd is the last address of the cartridge RAM window.
	ExternalRAMEnd = 0xBFFF
	// WRAMStart is the first address of the internal work RAM.
	WRAMStart = 0xC000
	// EchoStart is the first address of echo RAM, a mirror of
	// 0xC000 - 0xDDFF that Nintendo prohibits using.
	EchoStart = 0xE000
	// EchoEnd is the last address of echo RAM.
	EchoEnd = 0xFDFF
	// OAMStart is the first address of the sprite attribute table.
	OAMStart = 0xFE00
	// OAMSize is the size of the sprite attribute table, 40 sprites
	// of 4 bytes each.
	OAMSize = 0xA0
	// UnusableStart is the first address of the prohibited range
	// between OAM and the I/O registers.
	UnusableStart = 0xFEA0
	// UnusableEnd is the last address of the prohibited range.
	UnusableEnd = 0xFEFF
)
