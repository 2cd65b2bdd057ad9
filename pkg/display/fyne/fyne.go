//go:build !test

// Package fyne provides a display driver drawing the emulator to a
// fyne window.
package fyne

import (
	"image"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/pcasaretto/gameboy/internal/joypad"
	"github.com/pcasaretto/gameboy/internal/ppu"
	"github.com/pcasaretto/gameboy/pkg/display"
	"github.com/pcasaretto/gameboy/pkg/display/event"
	"github.com/pcasaretto/gameboy/pkg/utils"
)

func init() {
	driver := &fyneDriver{}
	display.Install("fyne", driver, []display.DriverOption{
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
	})
}

var keyMap = map[fyne.KeyName]joypad.Button{
	fyne.KeyA:         joypad.ButtonA,
	fyne.KeyB:         joypad.ButtonB,
	fyne.KeyUp:        joypad.ButtonUp,
	fyne.KeyDown:      joypad.ButtonDown,
	fyne.KeyLeft:      joypad.ButtonLeft,
	fyne.KeyRight:     joypad.ButtonRight,
	fyne.KeyReturn:    joypad.ButtonStart,
	fyne.KeyBackspace: joypad.ButtonSelect,
}

// fyneDriver draws frames to a raster in a single fyne window.
type fyneDriver struct {
	scale      float64
	fullscreen bool

	emu    display.Emulator
	app    fyne.App
	window fyne.Window

	stopOnce sync.Once
}

func (f *fyneDriver) Initialize(emu display.Emulator) {
	f.emu = emu
}

// keyHandlers returns the handlers for the keys that control the
// emulator rather than the joypad.
func (f *fyneDriver) keyHandlers() map[fyne.KeyName]func() {
	return map[fyne.KeyName]func(){
		fyne.KeyP: func() {
			display.TogglePause(f.emu)
		},
		fyne.KeyEscape: func() {
			display.TogglePause(f.emu)
		},
		fyne.KeyF: func() {
			f.emu.SendCommand(display.CyclePalette)
		},
		fyne.KeyR: func() {
			f.emu.SendCommand(display.Reset)
		},
		fyne.KeyY: func() {
			// copy the current frame to the clipboard
			img, err := display.CaptureFrame(f.emu, int(f.scale))
			if err == nil {
				err = utils.CopyImage(img)
			}
			if err != nil {
				f.showError(err)
			}
		},
		fyne.KeyS: func() {
			img, err := display.CaptureFrame(f.emu, int(f.scale))
			if err != nil {
				f.showError(err)
				return
			}
			name, err := utils.AskForSavePath("Save Screenshot")
			if err != nil {
				return // cancelled
			}
			if _, err := utils.SaveImage(img, name); err != nil {
				f.showError(err)
			}
		},
	}
}

func (f *fyneDriver) showError(err error) {
	f.window.SetTitle("GameBoy | " + err.Error())
}

// Start opens the window and blocks until it is closed.
func (f *fyneDriver) Start(frames <-chan []byte, events <-chan event.Event, pressed, released chan<- joypad.Button) error {
	f.app = app.New()
	f.window = f.app.NewWindow("GameBoy")
	f.window.SetPadded(false)
	f.window.SetFullScreen(f.fullscreen)

	scale := float32(utils.Clamp(1, f.scale, 16))
	f.window.Resize(fyne.NewSize(ppu.ScreenWidth*scale, ppu.ScreenHeight*scale))

	// create the image to draw to
	img := image.NewRGBA(image.Rect(0, 0, ppu.ScreenWidth, ppu.ScreenHeight))
	raster := canvas.NewRasterFromImage(img)
	raster.ScaleMode = canvas.ImageScalePixels
	raster.SetMinSize(fyne.NewSize(ppu.ScreenWidth, ppu.ScreenHeight))
	f.window.SetContent(raster)

	// handle input
	handlers := f.keyHandlers()
	if desk, ok := f.window.Canvas().(desktop.Canvas); ok {
		desk.SetOnKeyDown(func(e *fyne.KeyEvent) {
			// check if this is a gameboy key
			if k, ok := keyMap[e.Name]; ok {
				pressed <- k
			} else if h, ok := handlers[e.Name]; ok {
				h()
			}
		})
		desk.SetOnKeyUp(func(e *fyne.KeyEvent) {
			if k, ok := keyMap[e.Name]; ok {
				released <- k
			}
		})
	}

	f.window.SetOnClosed(func() {
		f.emu.SendCommand(display.Close)
	})

	go func() {
		for {
			select {
			case frame := <-frames:
				copy(img.Pix, frame)
				raster.Refresh()
			case e := <-events:
				switch e.Type {
				case event.Title:
					f.window.SetTitle(e.Data.(string))
				case event.Quit:
					f.Stop()
					return
				}
			}
		}
	}()

	f.window.ShowAndRun()
	return nil
}

// Stop closes the window, ending Start.
func (f *fyneDriver) Stop() error {
	f.stopOnce.Do(func() {
		if f.app != nil {
			f.app.Quit()
		}
	})
	return nil
}
