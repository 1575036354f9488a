// Command simulator runs the appliance on a workstation. Remote packets are
// posted over HTTP, the matrix is served as a PNG, and the operator console
// reads stdin.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"nifri2/neomatrix/cmd"
	"nifri2/neomatrix/internal/console"
	"nifri2/neomatrix/internal/display"
	"nifri2/neomatrix/internal/game"
	"nifri2/neomatrix/internal/logger"
	"nifri2/neomatrix/internal/remote"
	"nifri2/neomatrix/internal/sim"
)

func main() {
	settings := cmd.DefaultSettings()

	addr := flag.String("addr", ":8080", "HTTP listen address")
	level := flag.String("log-level", settings.LogLevel, "debug, info, warn or error")
	channel := flag.String("channel", "1", "radio channel 1..14")
	noConsole := flag.Bool("no-console", false, "do not read console commands from stdin")
	flag.IntVar(&settings.QueueSize, "queue", settings.QueueSize, "receive queue depth")
	flag.DurationVar(&settings.ReceiveWait, "receive-wait", settings.ReceiveWait, "how long a receive waits for queue room")
	flag.DurationVar(&settings.FrameLockWait, "frame-wait", settings.FrameLockWait, "how long a draw waits for the strip")
	flag.DurationVar(&settings.Game.Tick, "tick", settings.Game.Tick, "delay between game ticks")
	flag.Parse()

	settings.LogLevel = *level
	settings.Channel = cmd.ParseChannel(*channel)
	logger.Init(os.Stderr, logger.ParseLevel(settings.LogLevel), true)

	strip := display.NewFrameBuffer(display.PixelCount)
	transport := &sim.Transport{}
	app := cmd.NewAppliance(settings, strip, transport, remote.NewStatusLED(nil), game.SandboxFactory(display.Rows, display.Cols))

	deps := app.ConsoleDeps()
	server := sim.NewServer(sim.Deps{
		Pipeline: app.Pipeline,
		Strip:    strip,
		Layout:   app.Renderer.Layout(),
		Console:  &deps,
		Status:   app.Status,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", *addr).Msg("simulator listening")
		if err := server.Run(*addr); err != nil {
			log.Error().Err(err).Msg("http server stopped")
			stop()
		}
	}()
	if !*noConsole {
		go func() {
			if err := console.New(os.Stdout, deps).Run(ctx, os.Stdin); err != nil {
				log.Warn().Err(err).Msg("console stopped")
			}
		}()
	}

	err := app.Run(ctx)
	switch {
	case errors.Is(err, game.ErrSleep):
		log.Info().Msg("player chose sleep, exiting")
	case errors.Is(err, context.Canceled):
		log.Info().Msg("interrupted")
	default:
		log.Fatal().Err(err).Msg("appliance stopped")
	}
}
