//go:build tinygo

package cmd

import (
	"context"
	"errors"
	"machine"
	"time"

	"github.com/rs/zerolog/log"

	"nifri2/neomatrix/internal/console"
	"nifri2/neomatrix/internal/display"
	"nifri2/neomatrix/internal/game"
	"nifri2/neomatrix/internal/radio"
	"nifri2/neomatrix/internal/remote"
)

// RunAppliance plays on the matrix wired to pixels. Radio frames arrive from
// the bridge on uart and the status LED doubles as the fault light. It only
// returns by halting after the player chooses sleep.
func RunAppliance(config Settings, uart *machine.UART, led, pixels machine.Pin) {
	log.Info().Msg("starting appliance loop")

	fault := remote.NewStatusLED(led.Set)
	link := radio.NewLink(uart)
	strip := display.NewWS2812Strip(pixels, display.PixelCount)
	app := NewAppliance(config, strip, link, fault, game.SandboxFactory(display.Rows, display.Cols))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := link.Run(ctx, app.Pipeline); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("radio link stopped")
			fault.Set(true)
		}
	}()
	go func() {
		serial := serialReader{machine.Serial}
		_ = console.New(machine.Serial, app.ConsoleDeps()).Run(ctx, serial)
	}()

	err := app.Run(ctx)
	if errors.Is(err, game.ErrSleep) {
		log.Info().Msg("sleeping until reset")
	} else {
		log.Error().Err(err).Msg("game loop stopped")
		fault.Set(true)
	}
	cancel()
	select {}
}

// RunMonitor prints every remote frame the bridge forwards and flashes led
// for each one.
func RunMonitor(config Settings, uart *machine.UART, led machine.Pin) {
	log.Info().Uint8("channel", config.Channel).Msg("starting monitor loop")

	link := radio.NewLink(uart)
	mon := NewMonitor(machine.Serial, remote.NopIndicator, func() {
		led.High()
		time.Sleep(20 * time.Millisecond)
		led.Low()
	})

	done := make(chan error, 1)
	go func() { done <- link.Run(context.Background(), mon) }()

	// Broadcast is enough to hear every remote. The ack arrives through Run.
	if err := link.AddPeer(remote.PeerInfo{Addr: remote.Broadcast, Channel: config.Channel, LMK: config.LMK}); err != nil {
		log.Error().Err(err).Msg("registering broadcast peer")
	}
	err := <-done
	log.Error().Err(err).Int("seen", mon.Seen()).Msg("radio link stopped")
	select {}
}

// serialReader turns the byte oriented USB serial into an io.Reader for the
// console.
type serialReader struct {
	s machine.Serialer
}

func (r serialReader) Read(p []byte) (int, error) {
	for r.s.Buffered() == 0 {
		time.Sleep(10 * time.Millisecond)
	}
	n := 0
	for n < len(p) && r.s.Buffered() > 0 {
		b, err := r.s.ReadByte()
		if err != nil {
			return n, err
		}
		p[n] = b
		n++
	}
	return n, nil
}
