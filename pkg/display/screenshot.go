package display

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/pcasaretto/gameboy/internal/ppu"
	"github.com/pcasaretto/gameboy/pkg/utils"
)

// ErrNoFrame is returned when a screenshot is requested before the
// emulator has completed a frame.
var ErrNoFrame = errors.New("display: no frame to capture")

// CaptureFrame returns the last frame of the emulator, scaled by
// factor.
func CaptureFrame(e Emulator, factor int) (*image.RGBA, error) {
	resp := e.SendCommand(Screenshot)
	if resp.Error != nil {
		return nil, resp.Error
	}
	if len(resp.Data) == 0 {
		return nil, ErrNoFrame
	}

	// copy the frame, the emulator may reuse it
	frame := append([]byte(nil), resp.Data...)
	img, err := utils.FrameToImage(frame, ppu.ScreenWidth, ppu.ScreenHeight)
	if err != nil {
		return nil, err
	}
	return utils.ScaleImage(img, factor), nil
}

// SaveScreenshot saves the last frame of the emulator to a
// timestamped PNG in the working directory, returning its name.
func SaveScreenshot(e Emulator, factor int) (string, error) {
	img, err := CaptureFrame(e, factor)
	if err != nil {
		return "", err
	}

	now := time.Now()
	name := fmt.Sprintf("screenshot-%s.png", now.Format("2006-01-02-15-04-05"))
	return utils.SaveImage(img, name)
}
