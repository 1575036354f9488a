package display

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	// ErrFrameSkipped is returned when another writer held the strip for
	// longer than the lock wait. The frame is dropped, not queued.
	ErrFrameSkipped = errors.New("display: strip busy, frame skipped")
	// ErrNotInitialized is returned by draws issued before the first Clear.
	ErrNotInitialized = errors.New("display: strip not cleared yet")
)

// DefaultLockWait bounds how long a draw waits for the strip.
const DefaultLockWait = 10 * time.Millisecond

// Renderer turns boards and overlays into pixel batches for one strip.
// It is safe for concurrent use; draws from different goroutines serialize
// on the strip and give up after the lock wait.
type Renderer struct {
	strip    Strip
	layout   Layout
	lock     chan struct{}
	lockWait time.Duration
	ready    atomic.Bool

	frame   []Pixel
	overlay []Pixel
}

type RendererOption func(*Renderer)

// WithLockWait overrides DefaultLockWait.
func WithLockWait(d time.Duration) RendererOption {
	return func(r *Renderer) { r.lockWait = d }
}

// NewRenderer binds a strip to a layout. The board the engine produces must
// be exactly rows x cols and match the layout; anything else is a wiring
// mistake and panics at startup.
func NewRenderer(strip Strip, layout Layout, rows, cols int, opts ...RendererOption) *Renderer {
	if rows != layout.Rows() || cols != layout.Cols() {
		panic(fmt.Sprintf("display: board %dx%d does not fit %dx%d matrix", rows, cols, layout.Rows(), layout.Cols()))
	}

	r := &Renderer{
		strip:    strip,
		layout:   layout,
		lock:     make(chan struct{}, 1),
		lockWait: DefaultLockWait,
		frame:    make([]Pixel, layout.Len()),
		overlay:  make([]Pixel, 0, layout.Len()),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Renderer) Layout() Layout { return r.layout }

// Ready reports whether Clear has run at least once.
func (r *Renderer) Ready() bool { return r.ready.Load() }

func (r *Renderer) acquire() bool {
	select {
	case r.lock <- struct{}{}:
		return true
	default:
	}

	t := time.NewTimer(r.lockWait)
	defer t.Stop()
	select {
	case r.lock <- struct{}{}:
		return true
	case <-t.C:
		return false
	}
}

func (r *Renderer) release() { <-r.lock }

// Clear turns every LED off in one batch.
func (r *Renderer) Clear() error {
	if !r.acquire() {
		return ErrFrameSkipped
	}
	defer r.release()

	for i := range r.frame {
		r.frame[i] = Pixel{Index: i, Color: Off}
	}
	if err := r.strip.SetPixels(r.frame); err != nil {
		return fmt.Errorf("clear strip: %w", err)
	}
	r.ready.Store(true)
	return nil
}

// RenderBoard draws the whole board as one batch covering every LED once.
func (r *Renderer) RenderBoard(b Board) error {
	if b.Rows() != r.layout.Rows() || b.Cols() != r.layout.Cols() {
		panic(fmt.Sprintf("display: board %dx%d does not fit %dx%d matrix", b.Rows(), b.Cols(), r.layout.Rows(), r.layout.Cols()))
	}
	if !r.ready.Load() {
		return ErrNotInitialized
	}
	if !r.acquire() {
		return ErrFrameSkipped
	}
	defer r.release()

	for row, line := range b {
		for col, cell := range line {
			idx := r.layout.Index(row, col)
			r.frame[idx] = Pixel{Index: idx, Color: ColorOf(cell)}
		}
	}

	log.Debug().Int("pixels", len(r.frame)).Msg("rendering board")
	if err := r.strip.SetPixels(r.frame); err != nil {
		return fmt.Errorf("render board: %w", err)
	}
	return nil
}

// RenderOverlay draws only the set bits of o, leaving every other LED as it
// was.
func (r *Renderer) RenderOverlay(o Overlay) error {
	if o.Top < 0 || o.Top+len(o.Rows) >= r.layout.Rows() {
		panic(fmt.Sprintf("display: overlay %q rows %d..%d overflow matrix", o.Name, o.Top, o.Top+len(o.Rows)))
	}
	if o.Left < 0 || o.Left+MaskWidth > r.layout.Cols() {
		panic(fmt.Sprintf("display: overlay %q columns from %d overflow matrix", o.Name, o.Left))
	}
	if !r.ready.Load() {
		return ErrNotInitialized
	}
	if !r.acquire() {
		return ErrFrameSkipped
	}
	defer r.release()

	r.overlay = r.overlay[:0]
	for i, mask := range o.Rows {
		bits := MaskBits(mask, MaskWidth)
		for c, set := range bits {
			if !set {
				continue
			}
			idx := r.layout.Index(o.Top+i, o.Left+c)
			r.overlay = append(r.overlay, Pixel{Index: idx, Color: o.Color})
		}
	}

	log.Debug().Str("overlay", o.Name).Int("pixels", len(r.overlay)).Msg("rendering overlay")
	if err := r.strip.SetPixels(r.overlay); err != nil {
		return fmt.Errorf("render overlay %s: %w", o.Name, err)
	}
	return nil
}
