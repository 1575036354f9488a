package remote

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Defaults for the ingestion pipeline.
const (
	DefaultQueueSize   = 6
	DefaultReceiveWait = 512 * time.Millisecond
	DefaultChannel     = 1
	// MaxPayload is the largest radio payload an envelope can carry.
	MaxPayload = 250
)

// DefaultLMK is the pre-shared local master key handed to every peer.
var DefaultLMK = [LMKLen]byte{'l', 'm', 'k', '1', '2', '3', '4', '5', '6', '7', '8', '9', '0', '1', '2', '3'}

// Envelope is a received frame copied out of the radio driver's buffer.
type Envelope struct {
	From MAC
	Len  int
	Data [MaxPayload]byte
	// Local marks a press entered on the appliance itself. The consumer
	// stamps it with the next sequence number and registers no peer.
	Local bool
}

func (e *Envelope) Payload() []byte { return e.Data[:e.Len] }

// Stats counts what the pipeline has seen.
type Stats struct {
	Received  uint64 `json:"received"`
	Accepted  uint64 `json:"accepted"`
	Stale     uint64 `json:"stale"`
	Malformed uint64 `json:"malformed"`
	Dropped   uint64 `json:"dropped"`
	LastSeq   uint32 `json:"last_seq"`
}

// Pipeline moves frames from the radio receive callback to a single
// consumer goroutine, which validates them, registers new senders and
// publishes the latest button.
type Pipeline struct {
	queue       chan Envelope
	receiveWait time.Duration
	channel     uint8
	lmk         [LMKLen]byte
	encrypt     bool

	cell   *ButtonCell
	fault  Indicator
	parser *Parser
	peers  *Registry

	dropLog *rate.Limiter
	errLog  *rate.Limiter

	received  atomic.Uint64
	accepted  atomic.Uint64
	stale     atomic.Uint64
	malformed atomic.Uint64
	dropped   atomic.Uint64
}

type Option func(*Pipeline)

func WithQueueSize(n int) Option {
	return func(p *Pipeline) { p.queue = make(chan Envelope, n) }
}

func WithReceiveWait(d time.Duration) Option {
	return func(p *Pipeline) { p.receiveWait = d }
}

func WithIndicator(ind Indicator) Option {
	return func(p *Pipeline) { p.fault = ind }
}

// WithButtonCell shares an existing cell with the pipeline.
func WithButtonCell(c *ButtonCell) Option {
	return func(p *Pipeline) { p.cell = c }
}

// WithPeerKey sets the channel and key new peers are registered with.
func WithPeerKey(channel uint8, lmk [LMKLen]byte, encrypt bool) Option {
	return func(p *Pipeline) {
		p.channel = channel
		p.lmk = lmk
		p.encrypt = encrypt
	}
}

func NewPipeline(transport Transport, opts ...Option) *Pipeline {
	p := &Pipeline{
		queue:       make(chan Envelope, DefaultQueueSize),
		receiveWait: DefaultReceiveWait,
		channel:     DefaultChannel,
		lmk:         DefaultLMK,
		fault:       NopIndicator,
		dropLog:     rate.NewLimiter(rate.Every(time.Second), 3),
		errLog:      rate.NewLimiter(rate.Every(time.Second), 3),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.cell == nil {
		p.cell = NewButtonCell()
	}
	p.parser = NewParser(p.cell, p.fault)
	p.peers = NewRegistry(transport, p.channel, p.lmk, p.encrypt)
	return p
}

func (p *Pipeline) Buttons() *ButtonCell { return p.cell }
func (p *Pipeline) Peers() *Registry     { return p.peers }
func (p *Pipeline) LastSeq() uint32      { return p.parser.LastSeq() }

func (p *Pipeline) Stats() Stats {
	return Stats{
		Received:  p.received.Load(),
		Accepted:  p.accepted.Load(),
		Stale:     p.stale.Load(),
		Malformed: p.malformed.Load(),
		Dropped:   p.dropped.Load(),
		LastSeq:   p.parser.LastSeq(),
	}
}

// Receive is called from the radio driver's receive context. It copies the
// frame and queues it, waiting at most the receive wait for room. It never
// touches parser or peer state.
func (p *Pipeline) Receive(from MAC, data []byte) error {
	p.received.Add(1)

	if len(data) > MaxPayload {
		p.drop(from, "oversize")
		return fmt.Errorf("%w: %d bytes", ErrOversize, len(data))
	}

	env := Envelope{From: from, Len: len(data)}
	copy(env.Data[:], data)
	return p.enqueue(env)
}

// Press queues b as if a remote had sent it. The consumer publishes it, so
// it passes the same gate and counters as a radio frame.
func (p *Pipeline) Press(b Button) error {
	p.received.Add(1)

	data, err := NewPacket(0, b).MarshalBinary()
	if err != nil {
		return err
	}
	env := Envelope{Len: len(data), Local: true}
	copy(env.Data[:], data)
	return p.enqueue(env)
}

func (p *Pipeline) enqueue(env Envelope) error {
	select {
	case p.queue <- env:
		return nil
	default:
	}

	t := time.NewTimer(p.receiveWait)
	defer t.Stop()
	select {
	case p.queue <- env:
		return nil
	case <-t.C:
		p.drop(env.From, "queue full")
		return ErrQueueFull
	}
}

func (p *Pipeline) drop(from MAC, reason string) {
	p.dropped.Add(1)
	p.fault.Set(true)
	if p.dropLog.Allow() {
		log.Warn().Str("mac", from.String()).Str("reason", reason).Msg("dropping received frame")
	}
}

// Run is the consumer. It registers the broadcast peer, then handles queued
// frames until ctx ends. It is the only goroutine that touches the sequence
// cursor or publishes buttons.
func (p *Pipeline) Run(ctx context.Context) error {
	if _, err := p.peers.Ensure(Broadcast); err != nil {
		p.fault.Set(true)
		log.Error().Err(err).Msg("registering broadcast peer")
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case env := <-p.queue:
			p.handle(&env)
		}
	}
}

func (p *Pipeline) handle(env *Envelope) {
	if env.Local {
		binary.LittleEndian.PutUint32(env.Data[1:5], p.parser.LastSeq()+1)
	}
	pkt, outcome := p.parser.Parse(env.Payload())

	switch outcome {
	case OutcomeOK:
		p.accepted.Add(1)
		if env.Local {
			log.Info().Uint32("seq", pkt.Seq).Str("name", pkt.Button.String()).Msg("local press")
			return
		}
		if _, err := p.peers.Ensure(env.From); err != nil {
			p.fault.Set(true)
			log.Error().Err(err).Str("mac", env.From.String()).Msg("peer registration failed")
		}
		ev := log.Info()
		if !pkt.Button.Known() {
			ev = log.Warn()
		}
		ev.Uint32("seq", pkt.Seq).
			Uint8("button", uint8(pkt.Button)).
			Str("name", pkt.Button.String()).
			Str("mac", env.From.String()).
			Msg("remote packet")

	case OutcomeStale:
		p.stale.Add(1)
		log.Debug().Uint32("seq", pkt.Seq).Uint32("last", p.parser.LastSeq()).Msg("stale packet")

	case OutcomeError:
		p.malformed.Add(1)
		if p.errLog.Allow() {
			log.Warn().Str("mac", env.From.String()).Int("len", env.Len).Msg("malformed packet")
		}
	}
}
