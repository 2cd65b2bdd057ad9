package serial

import (
	"bytes"
	"testing"
)

func TestController_Transfer(t *testing.T) {
	var buf bytes.Buffer
	c := NewController(&buf)
	for _, b := range []byte("Passed") {
		c.Transfer(b)
	}
	if buf.String() != "Passed" {
		t.Errorf("expected %q, got %q", "Passed", buf.String())
	}

	// a nil writer discards
	NewController(nil).Transfer('x')
}
