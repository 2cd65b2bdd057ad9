// Package serial provides the serial port of the Game Boy. There
// is no link cable, transfers complete immediately and the outgoing
// byte is written to an io.Writer, which is how test ROMs report
// their results.
package serial

import (
	"io"
)

// TransferStart is the value of SC that starts a transfer using
// the internal clock.
const TransferStart = 0x81

// Controller is the serial controller.
type Controller struct {
	w io.Writer
}

// NewController creates a new Controller writing transferred bytes
// to w. A nil writer discards them.
func NewController(w io.Writer) *Controller {
	if w == nil {
		w = io.Discard
	}
	return &Controller{w: w}
}

// Transfer sends b to the attached writer. Errors from the writer
// are ignored, the transfer always completes.
func (c *Controller) Transfer(b byte) {
	_, _ = c.w.Write([]byte{b})
}
