package radio

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"nifri2/neomatrix/internal/remote"
)

// Port is the serial side of the bridge. machine.UART satisfies it.
type Port interface {
	Buffered() int
	ReadByte() (byte, error)
	Write(p []byte) (int, error)
}

// Receiver gets every radio packet the bridge reports.
type Receiver interface {
	Receive(from remote.MAC, data []byte) error
}

var (
	// ErrLinkBusy is returned when the outgoing queue is full.
	ErrLinkBusy = errors.New("radio: outgoing queue full")
	// ErrPeerRejected is returned when the bridge acks a request with a
	// non-zero status.
	ErrPeerRejected = errors.New("radio: bridge rejected peer")
	ErrAckTimeout   = errors.New("radio: no ack from bridge")
)

const (
	DefaultPollInterval = time.Millisecond
	DefaultAckWait      = 250 * time.Millisecond
	writeQueueSize      = 10
)

// ack is the bridge's answer to an add peer request. Bridges that echo the
// peer address let a late ack for an earlier request be told apart.
type ack struct {
	status byte
	addr   remote.MAC
	hasMAC bool
}

// Link implements remote.Transport on top of the bridge and feeds received
// packets to a Receiver.
type Link struct {
	port    Port
	writes  chan []byte
	acks    chan ack
	peerMu  sync.Mutex
	ackWait time.Duration
	poll    time.Duration
	dec     Decoder
	errLog  *rate.Limiter
}

type LinkOption func(*Link)

// WithAckWait bounds how long AddPeer waits for the bridge.
func WithAckWait(d time.Duration) LinkOption {
	return func(l *Link) { l.ackWait = d }
}

func NewLink(port Port, opts ...LinkOption) *Link {
	l := &Link{
		port:    port,
		writes:  make(chan []byte, writeQueueSize),
		acks:    make(chan ack, 1),
		ackWait: DefaultAckWait,
		poll:    DefaultPollInterval,
		errLog:  rate.NewLimiter(rate.Every(time.Second), 2),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// AddPeer asks the bridge to accept frames from info.Addr and waits up to
// the ack wait for its answer. Requests are serialized so each ack belongs
// to the one outstanding request. Run must be active for the ack to arrive.
func (l *Link) AddPeer(info remote.PeerInfo) error {
	frame, err := Encode(addPeerFrame(info))
	if err != nil {
		return err
	}

	l.peerMu.Lock()
	defer l.peerMu.Unlock()
	l.drainAcks()

	select {
	case l.writes <- frame:
	default:
		return ErrLinkBusy
	}

	t := time.NewTimer(l.ackWait)
	defer t.Stop()
	for {
		select {
		case a := <-l.acks:
			if a.hasMAC && a.addr != info.Addr {
				log.Debug().Str("mac", a.addr.String()).Msg("ignoring ack for another peer")
				continue
			}
			if a.status != 0 {
				return fmt.Errorf("%w: %s status 0x%02X", ErrPeerRejected, info.Addr, a.status)
			}
			return nil
		case <-t.C:
			return fmt.Errorf("%w: %s after %s", ErrAckTimeout, info.Addr, l.ackWait)
		}
	}
}

func (l *Link) drainAcks() {
	for {
		select {
		case <-l.acks:
		default:
			return
		}
	}
}

// Run reads the port until ctx ends. Writes go through a dedicated goroutine
// so a slow port never stalls the reader.
func (l *Link) Run(ctx context.Context, rx Receiver) error {
	go l.writeLoop(ctx)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if l.port.Buffered() == 0 {
			sleep(ctx, l.poll)
			continue
		}
		b, err := l.port.ReadByte()
		if err != nil {
			l.warn(err, "reading bridge")
			continue
		}
		frame, ok, err := l.dec.Feed(b)
		for {
			if err != nil {
				l.warn(err, "decoding bridge frame")
			}
			if !ok {
				break
			}
			l.dispatch(frame, rx)
			frame, ok, err = l.dec.Next()
		}
	}
}

func (l *Link) dispatch(f Frame, rx Receiver) {
	switch f.Kind {
	case KindPacket:
		mac, data, err := splitPacket(f)
		if err != nil {
			l.warn(err, "bridge packet")
			return
		}
		// Receive copies data before the decoder buffer is reused.
		if err := rx.Receive(mac, data); err != nil {
			l.warn(err, "queueing packet")
		}
	case KindAck:
		a := parseAck(f)
		log.Debug().Uint8("status", a.status).Msg("bridge ack")
		select {
		case l.acks <- a:
		default:
			log.Debug().Msg("dropping unexpected bridge ack")
		}
	default:
		log.Debug().Uint8("kind", uint8(f.Kind)).Msg("ignoring bridge frame")
	}
}

func (l *Link) writeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case frame := <-l.writes:
			if _, err := l.port.Write(frame); err != nil {
				l.warn(err, "writing bridge")
			}
		}
	}
}

func (l *Link) warn(err error, msg string) {
	if l.errLog.Allow() {
		log.Warn().Err(err).Msg(msg)
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
