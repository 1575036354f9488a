// Package console is the operator shell on the debug serial port.
package console

import (
	"bufio"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/google/shlex"
	"github.com/rs/zerolog/log"

	"nifri2/neomatrix/internal/display"
	"nifri2/neomatrix/internal/remote"
)

// ErrUsage is wrapped by every argument error.
var ErrUsage = errors.New("usage")

// Deps are the parts of the appliance the console can poke at. Any of them
// may be nil, in which case the matching commands report that.
type Deps struct {
	Pipeline *remote.Pipeline
	Renderer *display.Renderer
	Fault    remote.Indicator
	// Status describes the game state, e.g. "playing".
	Status func() string
}

type command struct {
	usage string
	help  string
	run   func(c *Console, args []string) error
}

// Console executes one command per line and writes replies to out.
type Console struct {
	deps     Deps
	out      io.Writer
	commands map[string]command
}

func New(out io.Writer, deps Deps) *Console {
	c := &Console{deps: deps, out: out}
	c.commands = map[string]command{
		"help":   {"help", "list commands", (*Console).help},
		"status": {"status", "pipeline counters and game state", (*Console).status},
		"peers":  {"peers", "registered senders", (*Console).peers},
		"press":  {"press <button>", "queue a button as if the remote sent it", (*Console).press},
		"inject": {"inject <mac> <hex>", "feed a raw radio frame through the pipeline", (*Console).inject},
		"clear":  {"clear", "turn every LED off", (*Console).clear},
		"icon":   {"icon pause|replay", "draw an overlay icon", (*Console).icon},
		"fault":  {"fault on|off", "set the fault indicator", (*Console).fault},
	}
	return c
}

// Run reads lines until r is exhausted or ctx ends. Command errors are
// printed and do not stop the console.
func (c *Console) Run(ctx context.Context, r io.Reader) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.Exec(sc.Text()); err != nil {
			fmt.Fprintf(c.out, "error: %v\n", err)
		}
	}
	return sc.Err()
}

// Exec runs a single command line.
func (c *Console) Exec(line string) error {
	args, err := shlex.Split(line)
	if err != nil {
		return fmt.Errorf("parse %q: %w", line, err)
	}
	if len(args) == 0 {
		return nil
	}

	cmd, ok := c.commands[strings.ToLower(args[0])]
	if !ok {
		return fmt.Errorf("unknown command %q, try help", args[0])
	}
	log.Debug().Strs("args", args).Msg("console command")
	return cmd.run(c, args[1:])
}

func (c *Console) usage(name string) error {
	return fmt.Errorf("%w: %s", ErrUsage, c.commands[name].usage)
}

func (c *Console) help(args []string) error {
	names := make([]string, 0, len(c.commands))
	for name := range c.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cmd := c.commands[name]
		fmt.Fprintf(c.out, "%-20s %s\n", cmd.usage, cmd.help)
	}
	return nil
}

func (c *Console) status(args []string) error {
	if c.deps.Pipeline != nil {
		s := c.deps.Pipeline.Stats()
		fmt.Fprintf(c.out, "received=%d accepted=%d stale=%d malformed=%d dropped=%d last_seq=%d\n",
			s.Received, s.Accepted, s.Stale, s.Malformed, s.Dropped, s.LastSeq)
	}
	if c.deps.Status != nil {
		fmt.Fprintf(c.out, "game=%s\n", c.deps.Status())
	}
	return nil
}

func (c *Console) peers(args []string) error {
	if c.deps.Pipeline == nil {
		return errors.New("no pipeline")
	}
	for _, m := range c.deps.Pipeline.Peers().Peers() {
		fmt.Fprintln(c.out, m)
	}
	return nil
}

func (c *Console) press(args []string) error {
	if len(args) != 1 {
		return c.usage("press")
	}
	if c.deps.Pipeline == nil {
		return errors.New("no pipeline")
	}
	b, err := remote.ParseButton(args[0])
	if err != nil {
		return err
	}
	if err := c.deps.Pipeline.Press(b); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "pressed %s\n", b)
	return nil
}

func (c *Console) inject(args []string) error {
	if len(args) != 2 {
		return c.usage("inject")
	}
	if c.deps.Pipeline == nil {
		return errors.New("no pipeline")
	}
	mac, err := remote.ParseMAC(args[0])
	if err != nil {
		return err
	}
	data, err := hex.DecodeString(strings.ReplaceAll(args[1], ":", ""))
	if err != nil {
		return fmt.Errorf("payload: %w", err)
	}
	if err := c.deps.Pipeline.Receive(mac, data); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "queued %d bytes from %s\n", len(data), mac)
	return nil
}

func (c *Console) clear(args []string) error {
	if c.deps.Renderer == nil {
		return errors.New("no display")
	}
	return c.deps.Renderer.Clear()
}

func (c *Console) icon(args []string) error {
	if len(args) != 1 {
		return c.usage("icon")
	}
	if c.deps.Renderer == nil {
		return errors.New("no display")
	}
	switch args[0] {
	case "pause":
		return c.deps.Renderer.RenderOverlay(display.PauseIcon)
	case "replay":
		return c.deps.Renderer.RenderOverlay(display.PlayAgainIcon)
	default:
		return c.usage("icon")
	}
}

func (c *Console) fault(args []string) error {
	if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
		return c.usage("fault")
	}
	if c.deps.Fault == nil {
		return errors.New("no fault indicator")
	}
	c.deps.Fault.Set(args[0] == "on")
	return nil
}
