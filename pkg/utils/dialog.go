//go:build !test

package utils

import "github.com/sqweek/dialog"

// AskForFile asks the user to pick a ROM, returning its path.
func AskForFile(title, startingDir string) (string, error) {
	builder := dialog.File().
		SetStartDir(startingDir).
		Title(title).
		Filter("Game Boy ROMs", "gb", "zip", "7z", "gz")

	// show the dialog
	return builder.Load()
}

// AskForSavePath asks the user where to save an image, returning
// its path.
func AskForSavePath(title string) (string, error) {
	return dialog.File().
		Filter("PNG Image", "png").
		Filter("Bitmap Image", "bmp").
		Title(title).
		Save()
}
