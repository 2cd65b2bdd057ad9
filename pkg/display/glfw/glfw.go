//go:build !test

// Package glfw provides a barebones display driver using GLFW and
// the OpenGL API.
package glfw

import (
	"runtime"
	"time"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pcasaretto/gameboy/internal/joypad"
	"github.com/pcasaretto/gameboy/internal/ppu"
	"github.com/pcasaretto/gameboy/pkg/display"
	"github.com/pcasaretto/gameboy/pkg/display/event"
	"github.com/pcasaretto/gameboy/pkg/utils"
)

const (
	aspectRatio = float32(ppu.ScreenWidth) / float32(ppu.ScreenHeight)
)

func init() {
	// GLFW: this is needed to arrange for main to run on main thread
	runtime.LockOSThread()

	// register display driver
	driver := &glfwDriver{}
	display.Install("glfw", driver, []display.DriverOption{
		{
			Name:        "fullscreen",
			Default:     false,
			Value:       &driver.fullscreen,
			Type:        "bool",
			Description: "Run in fullscreen mode",
		},
		{
			Name:        "scale",
			Default:     4.0,
			Value:       &driver.scale,
			Type:        "float",
			Description: "Scale the window by this factor",
		},
		{
			Name:        "maintain-aspect-ratio",
			Default:     false,
			Value:       &driver.maintainAspectRatio,
			Type:        "bool",
			Description: "Force the window to maintain the correct aspect ratio",
		},
	})
}

var (
	joypadKeys = map[glfw.Key]joypad.Button{
		glfw.KeyA:         joypad.ButtonA,
		glfw.KeyB:         joypad.ButtonB,
		glfw.KeyDown:      joypad.ButtonDown,
		glfw.KeyUp:        joypad.ButtonUp,
		glfw.KeyLeft:      joypad.ButtonLeft,
		glfw.KeyRight:     joypad.ButtonRight,
		glfw.KeyEnter:     joypad.ButtonStart,
		glfw.KeyBackspace: joypad.ButtonSelect,
	}
)

// glfwDriver blits each frame through an OpenGL framebuffer.
type glfwDriver struct {
	fullscreen          bool
	scale               float64
	maintainAspectRatio bool

	emu display.Emulator
	mon *glfw.Monitor

	windowSettings struct {
		width      int
		height     int
		xPos, yPos int
	}
}

func (g *glfwDriver) Initialize(e display.Emulator) {
	g.emu = e
}

// Start starts the display driver.
func (g *glfwDriver) Start(frames <-chan []byte, evts <-chan event.Event, pressed, released chan<- joypad.Button) error {
	if err := glfw.Init(); err != nil {
		return err
	}
	g.mon = glfw.GetPrimaryMonitor()

	scale := utils.Clamp(1, g.scale, 16)

	// create window
	window, err := glfw.CreateWindow(int(ppu.ScreenWidth*scale), int(ppu.ScreenHeight*scale), "GameBoy", nil, nil)
	if err != nil {
		return err
	}

	if g.maintainAspectRatio {
		window.SetAspectRatio(10, 9)
	}
	// fullscreen
	if g.fullscreen {
		if bestMode := g.bestMode(); bestMode != nil {
			window.SetMonitor(g.mon, 0, 0, bestMode.Width, bestMode.Height, bestMode.RefreshRate)
		}
	}

	window.MakeContextCurrent()

	// initialize OpenGL
	if err := gl.Init(); err != nil {
		return err
	}

	// initialize window settings
	g.windowSettings.width, g.windowSettings.height = window.GetSize()
	g.windowSettings.xPos, g.windowSettings.yPos = window.GetPos()

	var texture uint32
	{
		gl.GenTextures(1, &texture)

		gl.BindTexture(gl.TEXTURE_2D, texture)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	}

	// setup event handling
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		// check to see if the key is mapped to a joypad button
		if button, ok := joypadKeys[key]; ok {
			switch action {
			case glfw.Press:
				pressed <- button
			case glfw.Release:
				released <- button
			}
		}

		if action == glfw.Press {
			switch key {
			case glfw.KeyF11:
				g.toggleFullscreen(window)
			case glfw.KeyF12:
				if name, err := display.SaveScreenshot(g.emu, int(scale)); err == nil {
					window.SetTitle("GameBoy | saved " + name)
				}
			case glfw.KeyF:
				g.emu.SendCommand(display.CyclePalette)
			case glfw.KeyR:
				g.emu.SendCommand(display.Reset)
			case glfw.KeyEscape, glfw.KeyPause:
				display.TogglePause(g.emu)
			}
		}
	})

	var fb uint32
	{
		gl.GenFramebuffers(1, &fb)
		gl.BindFramebuffer(gl.FRAMEBUFFER, fb)
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, texture, 0)

		gl.BindFramebuffer(gl.READ_FRAMEBUFFER, fb)
		gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	}

	// handle resizing
	targetWidth := int32(ppu.ScreenWidth * scale)
	targetHeight := int32(ppu.ScreenHeight * scale)
	var offsetX, offsetY int32
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		gl.Viewport(0, 0, int32(w), int32(h))
		if float32(w)/float32(h) > aspectRatio {
			targetWidth = int32(float32(h) * aspectRatio)
			targetHeight = int32(h)
		} else {
			targetWidth = int32(w)
			targetHeight = int32(float32(w) / aspectRatio)
		}

		offsetX = (int32(w) - targetWidth) / 2
		offsetY = (int32(h) - targetHeight) / 2
	})

	pollTicker := time.NewTicker(time.Millisecond * 100) // to handle when paused
	defer pollTicker.Stop()

	// draw loop
	for {
		select {
		case f := <-frames:
			glfw.PollEvents()
			if window.ShouldClose() {
				g.emu.SendCommand(display.Close)
				return g.Stop()
			}
			gl.Clear(gl.COLOR_BUFFER_BIT)

			gl.BindTexture(gl.TEXTURE_2D, texture)
			gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, ppu.ScreenWidth, ppu.ScreenHeight, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(f))

			// the frame is stored top down, so flip it while blitting
			gl.BlitFramebuffer(0, 0, ppu.ScreenWidth, ppu.ScreenHeight, offsetX, offsetY+targetHeight, offsetX+targetWidth, offsetY, gl.COLOR_BUFFER_BIT, gl.NEAREST)

			window.SwapBuffers()
		case e := <-evts:
			switch e.Type {
			case event.Title:
				window.SetTitle(e.Data.(string))
			case event.Quit:
				return g.Stop()
			}
		case <-pollTicker.C:
			glfw.PollEvents()
			if window.ShouldClose() {
				g.emu.SendCommand(display.Close)
				return g.Stop()
			}
		}
	}
}

func (g *glfwDriver) toggleFullscreen(window *glfw.Window) {
	if g.fullscreen {
		window.SetMonitor(nil, g.windowSettings.xPos, g.windowSettings.yPos, g.windowSettings.width, g.windowSettings.height, 60)
	} else {
		// store the current window settings
		g.windowSettings.width, g.windowSettings.height = window.GetSize()
		g.windowSettings.xPos, g.windowSettings.yPos = window.GetPos()

		bestMode := g.bestMode()
		if bestMode == nil {
			return
		}
		window.SetMonitor(g.mon, 0, 0, bestMode.Width, bestMode.Height, bestMode.RefreshRate)
	}

	g.fullscreen = !g.fullscreen
}

// Stop stops the display driver.
func (g *glfwDriver) Stop() error {
	glfw.Terminate()

	return nil
}

// bestMode returns the best video mode for the current monitor
// by choosing the highest resolution that is the closest match to
// the native aspect ratio of the monitor. This should provide a
// reasonable default for most monitors.
func (g *glfwDriver) bestMode() *glfw.VidMode {
	if g.mon == nil {
		return nil
	}
	sizeX, sizeY := g.mon.GetPhysicalSize()
	monAspectRatio := float32(sizeX) / float32(sizeY)
	closestMatch := float32(1 << 10)

	var best *glfw.VidMode
	for _, vm := range g.mon.GetVideoModes() {
		// skip modes that aren't 60FPS
		if vm.RefreshRate != 60 {
			continue
		}

		// skip modes that have a worse aspect ratio match
		vmAspectRatio := float32(vm.Width) / float32(vm.Height)
		diff := vmAspectRatio - monAspectRatio
		if diff < 0 {
			diff = -diff
		}
		if diff > closestMatch {
			continue
		}

		closestMatch = diff
		best = vm
	}

	return best
}
