package types

// HardwareAddress is the address of a memory mapped hardware
// register, in 0xFF00-0xFF7F or the IE register at 0xFFFF.
type HardwareAddress = uint16

// Joypad and serial.
const (
	// P1 selects the button group in bits 5-4 and reads it back,
	// active low, in bits 3-0.
	P1 HardwareAddress = 0xFF00
	// SB holds the byte to send over the link cable.
	SB HardwareAddress = 0xFF01
	// SC starts a transfer when written with 0x81.
	SC HardwareAddress = 0xFF02
)

// Timer.
const (
	// DIV increments at 16384Hz, any write clears it.
	DIV HardwareAddress = 0xFF04
	// TIMA increments at the rate selected by TAC, and is reloaded
	// from TMA with a Timer interrupt when it overflows.
	TIMA HardwareAddress = 0xFF05
	TMA  HardwareAddress = 0xFF06
	// TAC enables the timer (bit 2) and selects its rate (bits 1-0).
	TAC HardwareAddress = 0xFF07
)

// Interrupts. Both registers share the same layout:
//
//	Bit 0: VBlank   (0x40)
//	Bit 1: LCD STAT (0x48)
//	Bit 2: Timer    (0x50)
//	Bit 3: Serial   (0x58)
//	Bit 4: Joypad   (0x60)
const (
	IF HardwareAddress = 0xFF0F
	IE HardwareAddress = 0xFFFF
)

// Sound. There is no APU, the registers only hold what is
// written to them.
const (
	NR10 HardwareAddress = 0xFF10 + iota
	NR11
	NR12
	NR13
	NR14
	_
	NR21
	NR22
	NR23
	NR24
	NR30
	NR31
	NR32
	NR33
	NR34
	_
	NR41
	NR42
	NR43
	NR44
	NR50
	NR51
	NR52
)

// Video.
const (
	// LCDC controls the LCD:
	//
	//	Bit 7: LCD enable
	//	Bit 6: Window tile map     (0=9800, 1=9C00)
	//	Bit 5: Window enable
	//	Bit 4: BG & window tiles   (0=8800 signed, 1=8000 unsigned)
	//	Bit 3: BG tile map         (0=9800, 1=9C00)
	//	Bit 2: Sprite size         (0=8x8, 1=8x16)
	//	Bit 1: Sprite enable
	//	Bit 0: BG & window enable
	LCDC HardwareAddress = 0xFF40
	STAT HardwareAddress = 0xFF41
	// SCY and SCX scroll the background.
	SCY HardwareAddress = 0xFF42
	SCX HardwareAddress = 0xFF43
	// LY is the scanline being drawn, 0-153. Lines 144-153 are the
	// VBlank period.
	LY  HardwareAddress = 0xFF44
	LYC HardwareAddress = 0xFF45
	// DMA copies 160 bytes from value<<8 into OAM when written.
	DMA HardwareAddress = 0xFF46
	// BGP, OBP0 and OBP1 map the colour numbers to shades, two bits
	// per colour with colour 0 in bits 1-0. Sprite colour 0 is
	// always transparent.
	BGP  HardwareAddress = 0xFF47
	OBP0 HardwareAddress = 0xFF48
	OBP1 HardwareAddress = 0xFF49
	// WY and WX position the window; WX=7, WY=0 is the top left.
	WY HardwareAddress = 0xFF4A
	WX HardwareAddress = 0xFF4B
)

// BDIS unmaps the boot ROM when written while it is mapped.
const BDIS HardwareAddress = 0xFF50
