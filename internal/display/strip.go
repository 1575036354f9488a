package display

import (
	"fmt"
	"image/color"
	"sync"
)

// Pixel is one strip update: the physical LED index and its new colour.
type Pixel struct {
	Index int
	Color color.RGBA
}

// Strip applies a batch of pixel updates in one write. Implementations must
// not keep the batch after returning.
type Strip interface {
	SetPixels(batch []Pixel) error
}

// FrameBuffer is an in-memory strip. It holds the colour of every LED and
// enforces the driver rule that a batch never names the same LED twice.
type FrameBuffer struct {
	mu     sync.Mutex
	colors []color.RGBA
	seen   []bool
	writes int
}

func NewFrameBuffer(n int) *FrameBuffer {
	return &FrameBuffer{
		colors: make([]color.RGBA, n),
		seen:   make([]bool, n),
	}
}

// SetPixels applies the batch. An out of range or repeated index panics:
// the hardware driver faults on both, so they are programming errors here too.
func (f *FrameBuffer) SetPixels(batch []Pixel) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.seen {
		f.seen[i] = false
	}
	for _, p := range batch {
		if p.Index < 0 || p.Index >= len(f.colors) {
			panic(fmt.Sprintf("display: LED %d outside strip of %d", p.Index, len(f.colors)))
		}
		if f.seen[p.Index] {
			panic(fmt.Sprintf("display: LED %d addressed twice in one batch", p.Index))
		}
		f.seen[p.Index] = true
	}
	for _, p := range batch {
		f.colors[p.Index] = p.Color
	}
	f.writes++
	return nil
}

// Len is the number of LEDs on the strip.
func (f *FrameBuffer) Len() int { return len(f.colors) }

// Snapshot copies the current LED colours.
func (f *FrameBuffer) Snapshot() []color.RGBA {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]color.RGBA(nil), f.colors...)
}

// Writes counts the batches applied so far.
func (f *FrameBuffer) Writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

// Flush hands the live colour slice to write while holding the buffer lock.
func (f *FrameBuffer) Flush(write func([]color.RGBA) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return write(f.colors)
}
