// Package mmu provides the memory management unit of the Game Boy.
package mmu

import (
	"github.com/pcasaretto/gameboy/internal/boot"
	"github.com/pcasaretto/gameboy/internal/cartridge"
	"github.com/pcasaretto/gameboy/internal/interrupts"
	"github.com/pcasaretto/gameboy/internal/joypad"
	"github.com/pcasaretto/gameboy/internal/serial"
	"github.com/pcasaretto/gameboy/internal/types"
	"github.com/pcasaretto/gameboy/pkg/log"
)

// MMU is the memory management unit for the Game Boy. It handles all
// memory reads and writes to the Game Boy's 64kB of memory.
//
// Read and Write are the CPU's view of memory, and apply the side
// effects of the address being accessed. Get and Set access the
// backing memory directly, and are used by the other components to
// update their registers without triggering those side effects.
type MMU struct {
	// 64kB address space
	memory [0x10000]uint8

	// 0x0000 - 0x00FF - BOOT ROM (256B)
	bootROM     *boot.ROM
	bootEnabled bool

	// 0x0000 - 0x7FFF - ROM (32kB)
	Cart *cartridge.Cartridge

	// 0xFF00 - P1
	joypad *joypad.State
	// 0xFF01 - 0xFF02 - SB, SC
	serial *serial.Controller

	Log log.Logger
}

// NewMMU returns a new MMU with the given cartridge inserted. A nil
// cartridge behaves as an empty slot.
func NewMMU(cart *cartridge.Cartridge) *MMU {
	if cart == nil {
		cart = cartridge.NewEmptyCartridge()
	}
	return &MMU{
		Cart:   cart,
		joypad: joypad.New(nil),
		serial: serial.NewController(nil),
		Log:    log.NewNullLogger(),
	}
}

// SetBootROM maps the boot ROM over the start of the cartridge,
// until it is disabled by a write to types.BDIS.
func (m *MMU) SetBootROM(rom *boot.ROM) {
	m.bootROM = rom
	m.bootEnabled = rom != nil
}

// BootROMEnabled reports whether the boot ROM is mapped.
func (m *MMU) BootROMEnabled() bool {
	return m.bootEnabled
}

// AttachJoypad attaches the joypad composed into reads of types.P1.
func (m *MMU) AttachJoypad(j *joypad.State) {
	m.joypad = j
}

// AttachSerial attaches the serial controller started by writes to
// types.SC.
func (m *MMU) AttachSerial(s *serial.Controller) {
	m.serial = s
}

// Read returns the value at the given address, as seen by the CPU.
func (m *MMU) Read(address uint16) uint8 {
	switch {
	case m.bootEnabled && int(address) < m.bootROM.Len():
		return m.bootROM.Read(address)
	case address <= types.ROMEnd:
		return m.Cart.Read(address)
	case address == types.P1:
		return m.joypad.Read(m.memory[types.P1])
	}
	return m.memory[address]
}

// Write writes the value to the given address, as the CPU would.
// Writes to read only or unmapped areas are logged.
func (m *MMU) Write(address uint16, value uint8) {
	switch {
	case address <= types.ROMEnd:
		m.Log.Warnf("discarding write of 0x%02X to ROM at 0x%04X", value, address)
		return
	case address >= types.ExternalRAMStart && address <= types.ExternalRAMEnd:
		m.Log.Warnf("write of 0x%02X to external RAM at 0x%04X without a RAM controller", value, address)
	case address >= types.EchoStart && address <= types.EchoEnd:
		m.Log.Warnf("write of 0x%02X to echo RAM at 0x%04X", value, address)
	case address >= types.UnusableStart && address <= types.UnusableEnd:
		m.Log.Warnf("write of 0x%02X to unusable memory at 0x%04X", value, address)
	case address == types.DIV:
		// any write resets the divider
		value = 0
	case address == types.DMA:
		m.memory[address] = value
		m.dma(value)
		return
	case address == types.SC:
		m.memory[address] = value
		if value == serial.TransferStart {
			m.transfer()
		}
		return
	case address == types.BDIS:
		if m.bootEnabled {
			m.bootEnabled = false
			m.Log.Infof("boot rom (%s) disabled", m.bootROM.Model())
		}
	}
	m.memory[address] = value
}

// dma copies 160 bytes from value << 8 to the sprite attribute
// table. The transfer completes instantly.
func (m *MMU) dma(value uint8) {
	source := uint16(value) << 8
	for i := uint16(0); i < types.OAMSize; i++ {
		m.memory[types.OAMStart+i] = m.Read(source + i)
	}
}

// transfer sends SB through the serial port. There is nothing on
// the other end of the cable, so SB reads back as 0 and the transfer
// completes immediately, clearing the start bit of SC.
func (m *MMU) transfer() {
	m.serial.Transfer(m.memory[types.SB])
	m.memory[types.SB] = 0
	m.memory[types.SC] &^= types.Bit7
	m.memory[types.IF] |= interrupts.SerialFlag
}

// Get returns the value at the given address, without side effects.
func (m *MMU) Get(address uint16) uint8 {
	return m.memory[address]
}

// Set sets the value at the given address, without side effects.
func (m *MMU) Set(address uint16, value uint8) {
	m.memory[address] = value
}

var _ types.Memory = (*MMU)(nil)
