package utils

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// FrameToImage wraps an RGBA frame of the given size in an image,
// without copying it.
func FrameToImage(frame []byte, width, height int) (*image.RGBA, error) {
	if len(frame) != width*height*4 {
		return nil, fmt.Errorf("utils: frame of %d bytes is not %dx%d", len(frame), width, height)
	}
	return &image.RGBA{
		Pix:    frame,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}, nil
}

// ScaleImage scales img by an integer factor, keeping the pixels
// sharp.
func ScaleImage(img image.Image, factor int) *image.RGBA {
	if factor < 1 {
		factor = 1
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// EncodeImage encodes img to w in the given format, "png" or "bmp".
func EncodeImage(w io.Writer, img image.Image, format string) error {
	switch strings.ToLower(format) {
	case "png":
		encoder := png.Encoder{CompressionLevel: png.BestCompression}
		return encoder.Encode(w, img)
	case "bmp":
		return bmp.Encode(w, img)
	}
	return fmt.Errorf("utils: unsupported image format %q", format)
}

// SaveImage saves img to filename, in the format given by its
// extension. Filenames without a known extension are saved as PNG,
// and have the extension added.
func SaveImage(img image.Image, filename string) (string, error) {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if format != "png" && format != "bmp" {
		format = "png"
		filename += ".png"
	}

	// save the image
	file, err := os.Create(filename)
	if err != nil {
		return "", err
	}
	if err := EncodeImage(file, img, format); err != nil {
		file.Close()
		return "", err
	}
	return filename, file.Close()
}
