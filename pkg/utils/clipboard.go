//go:build !test

package utils

import (
	"bytes"
	"image"
	"image/png"

	"golang.design/x/clipboard"
)

// CopyImage copies img to the clipboard as a PNG.
func CopyImage(img image.Image) error {
	err := clipboard.Init()
	if err != nil {
		return err
	}

	// encode image to byte slice
	var b bytes.Buffer
	if err := png.Encode(&b, img); err != nil {
		return err
	}

	clipboard.Write(clipboard.FmtImage, b.Bytes())
	return nil
}
