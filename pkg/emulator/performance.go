package emulator

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// DefaultSamples is the number of frame times kept by a
// Performance monitor created with a size of 0.
const DefaultSamples = 100

// Performance keeps the most recent frame times of the emulator,
// so that they can be reported to a display driver or plotted.
type Performance struct {
	mu      sync.Mutex
	samples []time.Duration
	next    int
	full    bool
}

// NewPerformance returns a Performance monitor that keeps the last
// size frame times.
func NewPerformance(size int) *Performance {
	if size <= 0 {
		size = DefaultSamples
	}
	return &Performance{samples: make([]time.Duration, size)}
}

// Record adds a frame time, overwriting the oldest when full.
func (p *Performance) Record(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.samples[p.next] = d
	p.next = (p.next + 1) % len(p.samples)
	if p.next == 0 {
		p.full = true
	}
}

// Samples returns the recorded frame times, oldest first.
func (p *Performance) Samples() []time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.full {
		return append([]time.Duration(nil), p.samples[:p.next]...)
	}
	out := make([]time.Duration, 0, len(p.samples))
	out = append(out, p.samples[p.next:]...)
	return append(out, p.samples[:p.next]...)
}

// Average returns the mean of the recorded frame times.
func (p *Performance) Average() time.Duration {
	samples := p.Samples()
	if len(samples) == 0 {
		return 0
	}
	var total time.Duration
	for _, s := range samples {
		total += s
	}
	return total / time.Duration(len(samples))
}

// Plot draws the recorded frame times, in milliseconds, as a PNG
// line chart of the given size in pixels.
func (p *Performance) Plot(w io.Writer, width, height int) error {
	samples := p.Samples()

	frameTimePlot := plot.New()
	frameTimePlot.Title.Text = "Frame Time"
	frameTimePlot.X.Label.Text = "Frame"
	frameTimePlot.Y.Label.Text = "ms"

	xys := make(plotter.XYs, len(samples))
	for i, s := range samples {
		xys[i].X = float64(i)
		xys[i].Y = float64(s) / float64(time.Millisecond)
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return fmt.Errorf("emulator: creating frame time line: %w", err)
	}
	frameTimePlot.Add(line)

	c := vgimg.New(vg.Length(width)*vg.Inch/96, vg.Length(height)*vg.Inch/96)
	frameTimePlot.Draw(draw.New(c))

	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return fmt.Errorf("emulator: encoding frame time plot: %w", err)
	}
	return nil
}

// SavePlot writes the frame time plot to the named PNG file.
func (p *Performance) SavePlot(filename string, width, height int) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("emulator: creating frame time plot: %w", err)
	}
	return p.plotTo(f, width, height)
}

// plotTo writes the plot to wc and closes it. A failed close is
// reported, as the file may not have been fully written.
func (p *Performance) plotTo(wc io.WriteCloser, width, height int) error {
	if err := p.Plot(wc, width, height); err != nil {
		wc.Close()
		return err
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("emulator: closing frame time plot: %w", err)
	}
	return nil
}
