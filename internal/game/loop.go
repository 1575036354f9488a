package game

import (
	"context"
	"errors"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"nifri2/neomatrix/internal/display"
	"nifri2/neomatrix/internal/remote"
)

// State is the loop's position in the play / pause / replay cycle.
type State int32

const (
	StatePlaying State = iota
	StatePaused
	StateGameOver // waiting for the player to choose replay or sleep
	StateSleeping
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "game-over"
	case StateSleeping:
		return "sleeping"
	default:
		return "unknown"
	}
}

// ErrSleep is returned by Run when the player turned the appliance off.
var ErrSleep = errors.New("game: player chose to sleep")

type Config struct {
	// Tick is the delay between engine ticks while playing.
	Tick time.Duration
	// PauseWait bounds each wait for the unpause button.
	PauseWait time.Duration
	// ReplayPoll bounds each wait for the play again answer.
	ReplayPoll time.Duration
	// Linger is how long the final board stays up before the replay icon.
	Linger time.Duration
	// BoardDump receives a text dump of the final board.
	BoardDump io.Writer
}

func DefaultConfig() Config {
	return Config{
		Tick:       15 * time.Millisecond,
		PauseWait:  100 * time.Millisecond,
		ReplayPoll: 150 * time.Millisecond,
		Linger:     300 * time.Millisecond,
		BoardDump:  os.Stdout,
	}
}

// Loop drives one engine at a time from a single goroutine.
type Loop struct {
	newEngine Factory
	display   *display.Renderer
	buttons   *remote.ButtonCell
	fault     remote.Indicator
	cfg       Config

	engine Engine
	state  atomic.Int32
	games  atomic.Int32
}

func NewLoop(newEngine Factory, r *display.Renderer, buttons *remote.ButtonCell, fault remote.Indicator, cfg Config) *Loop {
	if fault == nil {
		fault = remote.NopIndicator
	}
	if cfg.BoardDump == nil {
		cfg.BoardDump = io.Discard
	}
	return &Loop{
		newEngine: newEngine,
		display:   r,
		buttons:   buttons,
		fault:     fault,
		cfg:       cfg,
	}
}

func (l *Loop) State() State { return State(l.state.Load()) }

// Games counts the games started so far.
func (l *Loop) Games() int { return int(l.games.Load()) }

// Run plays games until the player picks sleep, which returns ErrSleep, or
// ctx ends.
func (l *Loop) Run(ctx context.Context) error {
	l.newGame()
	log.Debug().Msg("beginning main game loop")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		cur := l.State()
		var next State
		switch cur {
		case StatePlaying:
			next = l.play(ctx)
		case StatePaused:
			next = l.paused(ctx)
		case StateGameOver:
			next = l.prompt(ctx)
		case StateSleeping:
			return ErrSleep
		}

		if next != cur {
			log.Debug().Stringer("from", cur).Stringer("to", next).Msg("game state")
			l.state.Store(int32(next))
		}
	}
}

func (l *Loop) newGame() {
	l.engine = l.newEngine()
	l.games.Add(1)
	l.show(l.display.Clear(), "clear")
	l.drawBoard()
	l.state.Store(int32(StatePlaying))
}

func (l *Loop) play(ctx context.Context) State {
	b := l.buttons.Take().Button
	c := ControlFor(b)
	if b != remote.ButtonNone {
		log.Debug().Stringer("button", b).Stringer("move", c.Move).Msg("game loop received button")
	}

	move := MoveNone
	switch c.Action {
	case ActionPause:
		l.fault.Set(true)
		l.show(l.display.RenderOverlay(display.PauseIcon), "pause icon")
		log.Info().Msg("game paused")
		return StatePaused
	case ActionRedraw:
		l.drawBoard()
		sleep(ctx, l.cfg.Tick)
		return StatePlaying
	case ActionQuit:
		log.Warn().Msg("quitting game")
		return l.gameOver(ctx)
	case ActionMove:
		move = c.Move
	}

	l.engine.Tick(move)
	if l.engine.Over() {
		return l.gameOver(ctx)
	}
	l.drawBoard()

	sleep(ctx, l.cfg.Tick)
	return StatePlaying
}

func (l *Loop) paused(ctx context.Context) State {
	l.buttons.Wait(ctx, l.cfg.PauseWait)
	if l.buttons.Take().Button != remote.ButtonNight {
		return StatePaused
	}

	l.fault.Set(false)
	l.drawBoard()
	log.Info().Msg("game unpaused")
	return StatePlaying
}

func (l *Loop) gameOver(ctx context.Context) State {
	l.drawBoard()
	l.engine.Board().Dump(l.cfg.BoardDump)
	level, score := l.engine.Score()
	log.Info().Int("level", level).Int("score", score).Msg("game over")

	sleep(ctx, l.cfg.Linger)
	l.show(l.display.RenderOverlay(display.PlayAgainIcon), "play again icon")
	log.Info().Msg("waiting for play again")
	return StateGameOver
}

func (l *Loop) prompt(ctx context.Context) State {
	l.buttons.Wait(ctx, l.cfg.ReplayPoll)

	switch l.buttons.Take().Button {
	case remote.ButtonOff:
		log.Info().Msg("going to sleep")
		l.show(l.display.Clear(), "clear")
		return StateSleeping
	case remote.ButtonOn, remote.ButtonNight:
		log.Info().Msg("new game requested")
		l.newGame()
		return StatePlaying
	}
	return StateGameOver
}

func (l *Loop) drawBoard() {
	l.show(l.display.RenderBoard(l.engine.Board()), "board")
}

// show logs a failed draw. A skipped frame is normal under contention.
func (l *Loop) show(err error, what string) {
	switch {
	case err == nil:
	case errors.Is(err, display.ErrFrameSkipped):
		log.Debug().Str("draw", what).Msg("frame skipped")
	default:
		log.Error().Err(err).Str("draw", what).Msg("display write failed")
	}
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
