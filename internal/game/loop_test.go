package game

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nifri2/neomatrix/internal/display"
	"nifri2/neomatrix/internal/remote"
)

type fakeEngine struct {
	mu    sync.Mutex
	moves []Move
	ticks int
	over  bool
	board display.Board
}

func newFakeEngine() *fakeEngine {
	b := display.NewBoard(display.Rows, display.Cols)
	b[display.Rows-1][0] = display.CellZ
	return &fakeEngine{board: b}
}

func (e *fakeEngine) Tick(m Move) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ticks++
	if m != MoveNone {
		e.moves = append(e.moves, m)
	}
}

func (e *fakeEngine) Board() display.Board { return e.board }

func (e *fakeEngine) Over() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.over
}

func (e *fakeEngine) Score() (int, int) { return 2, 40 }

func (e *fakeEngine) end() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.over = true
}

func (e *fakeEngine) snapshot() ([]Move, int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Move(nil), e.moves...), e.ticks
}

type harness struct {
	loop    *Loop
	fb      *display.FrameBuffer
	buttons *remote.ButtonCell
	led     *remote.StatusLED
	dump    *syncBuffer

	mu      sync.Mutex
	engines []*fakeEngine

	cancel context.CancelFunc
	done   chan error
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func startLoop(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		fb:      display.NewFrameBuffer(display.PixelCount),
		buttons: remote.NewButtonCell(),
		led:     remote.NewStatusLED(nil),
		dump:    &syncBuffer{},
		done:    make(chan error, 1),
	}
	renderer := display.NewRenderer(h.fb, display.DefaultLayout, display.Rows, display.Cols)
	cfg := Config{
		Tick:       time.Millisecond,
		PauseWait:  5 * time.Millisecond,
		ReplayPoll: 5 * time.Millisecond,
		Linger:     time.Millisecond,
		BoardDump:  h.dump,
	}
	factory := func() Engine {
		e := newFakeEngine()
		h.mu.Lock()
		h.engines = append(h.engines, e)
		h.mu.Unlock()
		return e
	}
	h.loop = NewLoop(factory, renderer, h.buttons, h.led, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go func() { h.done <- h.loop.Run(ctx) }()
	t.Cleanup(cancel)

	h.waitState(t, StatePlaying)
	return h
}

func (h *harness) engine(i int) *fakeEngine {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.engines[i]
}

func (h *harness) press(b remote.Button) {
	h.buttons.Publish(remote.ButtonState{Button: b, Program: remote.ProgramOther})
}

func (h *harness) waitState(t *testing.T, s State) {
	t.Helper()
	require.Eventually(t, func() bool { return h.loop.State() == s }, time.Second, time.Millisecond, "want state %s", s)
}

func (h *harness) pixel(row, col int) [3]uint8 {
	c := h.fb.Snapshot()[display.DefaultLayout.Index(row, col)]
	return [3]uint8{c.R, c.G, c.B}
}

func TestLoopPassesMoves(t *testing.T) {
	h := startLoop(t)

	h.press(remote.ButtonOne)
	require.Eventually(t, func() bool {
		moves, _ := h.engine(0).snapshot()
		return len(moves) == 1
	}, time.Second, time.Millisecond)

	h.press(remote.ButtonFour)
	require.Eventually(t, func() bool {
		moves, _ := h.engine(0).snapshot()
		return len(moves) == 2
	}, time.Second, time.Millisecond)

	moves, ticks := h.engine(0).snapshot()
	assert.Equal(t, []Move{MoveLeft, MoveRight}, moves)
	assert.Greater(t, ticks, 2)

	z := display.ColorOf(display.CellZ)
	assert.Equal(t, [3]uint8{z.R, z.G, z.B}, h.pixel(display.Rows-1, 0))
}

func TestLoopPauseAndResume(t *testing.T) {
	h := startLoop(t)

	h.press(remote.ButtonNight)
	h.waitState(t, StatePaused)
	assert.True(t, h.led.On())
	c := display.PauseIcon.Color
	assert.Equal(t, [3]uint8{c.R, c.G, c.B}, h.pixel(3, 3))

	_, before := h.engine(0).snapshot()
	h.press(remote.ButtonOne)
	time.Sleep(20 * time.Millisecond)
	moves, after := h.engine(0).snapshot()
	assert.Equal(t, before, after, "engine ticked while paused")
	assert.Empty(t, moves)
	assert.Equal(t, StatePaused, h.loop.State())

	h.press(remote.ButtonNight)
	h.waitState(t, StatePlaying)
	assert.False(t, h.led.On())
	assert.Equal(t, [3]uint8{0, 0, 0}, h.pixel(3, 3))
}

func TestLoopGameOverReplayThenSleep(t *testing.T) {
	h := startLoop(t)

	h.engine(0).end()
	h.waitState(t, StateGameOver)
	c := display.PlayAgainIcon.Color
	// Row 2 mask 01000010 lights column 1.
	require.Eventually(t, func() bool { return h.pixel(2, 1) == [3]uint8{c.R, c.G, c.B} }, time.Second, time.Millisecond)
	assert.Contains(t, h.dump.String(), "31 | 1")

	h.press(remote.ButtonOn)
	h.waitState(t, StatePlaying)
	assert.Equal(t, 2, h.loop.Games())

	h.press(remote.ButtonOff) // quit
	h.waitState(t, StateGameOver)
	h.press(remote.ButtonOff) // sleep

	select {
	case err := <-h.done:
		assert.ErrorIs(t, err, ErrSleep)
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}
	assert.Equal(t, StateSleeping, h.loop.State())
	for _, px := range h.fb.Snapshot() {
		assert.Equal(t, display.Off, px)
	}
}

func TestLoopNightRestartsAfterGameOver(t *testing.T) {
	h := startLoop(t)

	h.press(remote.ButtonOff)
	h.waitState(t, StateGameOver)
	h.press(remote.ButtonNight)
	h.waitState(t, StatePlaying)
	assert.Equal(t, 2, h.loop.Games())
}

func TestLoopStopsOnCancel(t *testing.T) {
	h := startLoop(t)
	h.cancel()

	select {
	case err := <-h.done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "game-over", StateGameOver.String())
	assert.Equal(t, "sleeping", StateSleeping.String())
}

func TestRedrawWritesOneFrame(t *testing.T) {
	fb := display.NewFrameBuffer(display.PixelCount)
	buttons := remote.NewButtonCell()
	engine := newFakeEngine()
	l := NewLoop(func() Engine { return engine }, display.NewRenderer(fb, display.DefaultLayout, display.Rows, display.Cols),
		buttons, remote.NopIndicator, Config{BoardDump: io.Discard})
	l.newGame()

	before := fb.Writes()
	_, ticks := engine.snapshot()

	buttons.Publish(remote.ButtonState{Button: remote.ButtonOn, Program: remote.ProgramOn})
	assert.Equal(t, StatePlaying, l.play(context.Background()))

	assert.Equal(t, before+1, fb.Writes(), "a redraw is a single strip write")
	_, after := engine.snapshot()
	assert.Equal(t, ticks, after, "a redraw does not advance the engine")
}
