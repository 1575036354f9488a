package remote

import (
	"context"
	"sync"
	"time"
)

// ButtonState is the latest accepted command. The zero value means no button.
type ButtonState struct {
	Button  Button
	Program uint8
}

// ButtonCell is a single slot shared between the ingestion consumer, which
// publishes, and the game loop, which takes. Each publish overwrites the
// previous value; a take reads and clears it in one step.
type ButtonCell struct {
	mu     sync.Mutex
	state  ButtonState
	notify chan struct{}
}

func NewButtonCell() *ButtonCell {
	return &ButtonCell{notify: make(chan struct{}, 1)}
}

// Publish replaces the current state and wakes a waiter.
func (c *ButtonCell) Publish(s ButtonState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()

	select {
	case c.notify <- struct{}{}:
	default:
	}
}

// Take returns the current state and resets the slot to no button.
func (c *ButtonCell) Take() ButtonState {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	c.state = ButtonState{}
	return s
}

// Peek returns the current state without clearing it.
func (c *ButtonCell) Peek() ButtonState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Wait blocks until something is published, the timeout passes or ctx ends.
// It reports whether it was woken by a publish. A wakeup can be left over
// from a value that was already taken, so callers must still Take.
func (c *ButtonCell) Wait(ctx context.Context, timeout time.Duration) bool {
	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case <-c.notify:
		return true
	case <-t.C:
		return false
	case <-ctx.Done():
		return false
	}
}
