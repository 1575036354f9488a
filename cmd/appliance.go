package cmd

import (
	"context"

	"github.com/rs/zerolog/log"

	"nifri2/neomatrix/internal/console"
	"nifri2/neomatrix/internal/display"
	"nifri2/neomatrix/internal/game"
	"nifri2/neomatrix/internal/remote"
)

// Appliance is the game console with its radio pipeline, display and loop
// wired together. The board and simulator builds differ only in the strip and
// transport they hand in.
type Appliance struct {
	Settings Settings
	Pipeline *remote.Pipeline
	Renderer *display.Renderer
	Loop     *game.Loop
	Fault    remote.Indicator
}

func NewAppliance(s Settings, strip display.Strip, transport remote.Transport, fault remote.Indicator, factory game.Factory) *Appliance {
	if fault == nil {
		fault = remote.NopIndicator
	}
	pipeline := remote.NewPipeline(transport,
		remote.WithQueueSize(s.QueueSize),
		remote.WithReceiveWait(s.ReceiveWait),
		remote.WithIndicator(fault),
		remote.WithPeerKey(s.Channel, s.LMK, s.Encrypt),
	)
	renderer := display.NewRenderer(strip, display.DefaultLayout, display.Rows, display.Cols,
		display.WithLockWait(s.FrameLockWait))

	return &Appliance{
		Settings: s,
		Pipeline: pipeline,
		Renderer: renderer,
		Loop:     game.NewLoop(factory, renderer, pipeline.Buttons(), fault, s.Game),
		Fault:    fault,
	}
}

// Status is the one word game state shown by the console.
func (a *Appliance) Status() string { return a.Loop.State().String() }

func (a *Appliance) ConsoleDeps() console.Deps {
	return console.Deps{
		Pipeline: a.Pipeline,
		Renderer: a.Renderer,
		Fault:    a.Fault,
		Status:   a.Status,
	}
}

// Run starts the pipeline consumer and plays until the loop returns. The
// consumer is stopped before Run returns. The result is the loop's, so
// game.ErrSleep means the player switched the appliance off.
func (a *Appliance) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	consumer := make(chan error, 1)
	go func() { consumer <- a.Pipeline.Run(ctx) }()

	log.Info().
		Uint8("channel", a.Settings.Channel).
		Int("queue", a.Settings.QueueSize).
		Msg("appliance running")

	err := a.Loop.Run(ctx)
	cancel()
	<-consumer
	return err
}
