//go:build !test

// Package sdl provides a display driver drawing the emulator
// through an SDL2 renderer.
package sdl

import (
	"runtime"
	"time"
	"unsafe"

	"github.com/pcasaretto/gameboy/internal/joypad"
	"github.com/pcasaretto/gameboy/internal/ppu"
	"github.com/pcasaretto/gameboy/pkg/display"
	"github.com/pcasaretto/gameboy/pkg/display/event"
	"github.com/pcasaretto/gameboy/pkg/utils"
	"github.com/veandco/go-sdl2/sdl"
)

func init() {
	// SDL must be driven from the main thread
	runtime.LockOSThread()

	driver := &sdlDriver{}
	display.Install("sdl", driver, []display.DriverOption{
		{
			Name:        "scale",
			Default:     4.0,
			Value:       &driver.scale,
			Type:        "float",
			Description: "Scale the window by this factor",
		},
		{
			Name:        "fullscreen",
			Default:     false,
			Value:       &driver.fullscreen,
			Type:        "bool",
			Description: "Run in fullscreen mode",
		},
		{
			Name:        "vsync",
			Default:     true,
			Value:       &driver.vsync,
			Type:        "bool",
			Description: "Synchronise presentation with the display refresh",
		},
	})
}

var joypadKeys = map[sdl.Keycode]joypad.Button{
	sdl.K_a:         joypad.ButtonA,
	sdl.K_b:         joypad.ButtonB,
	sdl.K_UP:        joypad.ButtonUp,
	sdl.K_DOWN:      joypad.ButtonDown,
	sdl.K_LEFT:      joypad.ButtonLeft,
	sdl.K_RIGHT:     joypad.ButtonRight,
	sdl.K_RETURN:    joypad.ButtonStart,
	sdl.K_BACKSPACE: joypad.ButtonSelect,
}

type sdlDriver struct {
	scale      float64
	fullscreen bool
	vsync      bool

	emu display.Emulator

	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
}

func (s *sdlDriver) Initialize(emu display.Emulator) {
	s.emu = emu
}

func (s *sdlDriver) setup() error {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return err
	}

	scale := utils.Clamp(1, s.scale, 16)
	flags := uint32(sdl.WINDOW_SHOWN | sdl.WINDOW_RESIZABLE)
	if s.fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}

	var err error
	s.window, err = sdl.CreateWindow("GameBoy", sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(ppu.ScreenWidth*scale), int32(ppu.ScreenHeight*scale), flags)
	if err != nil {
		return err
	}

	rendererFlags := uint32(sdl.RENDERER_ACCELERATED)
	if s.vsync {
		rendererFlags |= sdl.RENDERER_PRESENTVSYNC
	}
	s.renderer, err = sdl.CreateRenderer(s.window, -1, rendererFlags)
	if err != nil {
		return err
	}
	// keep the aspect ratio when the window is resized
	if err := s.renderer.SetLogicalSize(ppu.ScreenWidth, ppu.ScreenHeight); err != nil {
		return err
	}

	// frames are RGBA in memory order, which is ABGR8888 on little
	// endian machines
	s.texture, err = s.renderer.CreateTexture(uint32(sdl.PIXELFORMAT_ABGR8888), sdl.TEXTUREACCESS_STREAMING, ppu.ScreenWidth, ppu.ScreenHeight)
	return err
}

// Start opens the window and blocks until it is closed, or the
// emulator quits.
func (s *sdlDriver) Start(frames <-chan []byte, events <-chan event.Event, pressed, released chan<- joypad.Button) error {
	if err := s.setup(); err != nil {
		s.Stop()
		return err
	}
	defer s.Stop()

	pollTicker := time.NewTicker(time.Millisecond * 10)
	defer pollTicker.Stop()

	for {
		select {
		case f := <-frames:
			if err := s.texture.Update(nil, unsafe.Pointer(&f[0]), ppu.ScreenWidth*4); err != nil {
				return err
			}
			s.renderer.Clear()
			s.renderer.Copy(s.texture, nil, nil)
			s.renderer.Present()
		case e := <-events:
			switch e.Type {
			case event.Title:
				s.window.SetTitle(e.Data.(string))
			case event.Quit:
				return nil
			}
		case <-pollTicker.C:
			if !s.poll(pressed, released) {
				s.emu.SendCommand(display.Close)
				return nil
			}
		}
	}
}

// poll handles the pending SDL events, returning false once the
// window has been closed.
func (s *sdlDriver) poll(pressed, released chan<- joypad.Button) bool {
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		switch e := ev.(type) {
		case *sdl.QuitEvent:
			return false
		case *sdl.KeyboardEvent:
			if e.Repeat != 0 {
				continue
			}
			key := e.Keysym.Sym
			if button, ok := joypadKeys[key]; ok {
				if e.Type == sdl.KEYDOWN {
					pressed <- button
				} else {
					released <- button
				}
				continue
			}
			if e.Type != sdl.KEYDOWN {
				continue
			}
			switch key {
			case sdl.K_ESCAPE, sdl.K_p:
				display.TogglePause(s.emu)
			case sdl.K_f:
				s.emu.SendCommand(display.CyclePalette)
			case sdl.K_r:
				s.emu.SendCommand(display.Reset)
			case sdl.K_F12:
				if name, err := display.SaveScreenshot(s.emu, int(s.scale)); err == nil {
					s.window.SetTitle("GameBoy | saved " + name)
				}
			}
		}
	}
	return true
}

// Stop releases the SDL resources.
func (s *sdlDriver) Stop() error {
	if s.texture != nil {
		s.texture.Destroy()
		s.texture = nil
	}
	if s.renderer != nil {
		s.renderer.Destroy()
		s.renderer = nil
	}
	if s.window != nil {
		s.window.Destroy()
		s.window = nil
	}
	sdl.Quit()
	return nil
}
