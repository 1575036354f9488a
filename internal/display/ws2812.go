//go:build tinygo

package display

import (
	"machine"

	"tinygo.org/x/drivers/ws2812"
)

// WS2812Strip drives a NeoPixel chain. Updates land in a frame buffer and the
// whole chain is shifted out after every batch.
type WS2812Strip struct {
	buf *FrameBuffer
	dev ws2812.Device
}

func NewWS2812Strip(pin machine.Pin, n int) *WS2812Strip {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &WS2812Strip{
		buf: NewFrameBuffer(n),
		dev: ws2812.New(pin),
	}
}

func (s *WS2812Strip) SetPixels(batch []Pixel) error {
	if err := s.buf.SetPixels(batch); err != nil {
		return err
	}
	return s.buf.Flush(s.dev.WriteColors)
}
