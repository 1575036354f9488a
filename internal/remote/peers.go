package remote

import (
	"bytes"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
)

// LMKLen is the length of a peer's local master key.
const LMKLen = 16

// PeerInfo is what the radio needs to accept frames from a sender.
type PeerInfo struct {
	Addr    MAC
	Channel uint8
	LMK     [LMKLen]byte
	Encrypt bool
}

// Transport is the radio driver side of peer management.
type Transport interface {
	AddPeer(info PeerInfo) error
}

// Registry tracks the senders registered with the transport. Entries are
// never removed: a sender trusted once stays trusted until reset.
type Registry struct {
	transport Transport
	channel   uint8
	lmk       [LMKLen]byte
	encrypt   bool

	mu       sync.RWMutex
	peers    map[MAC]struct{}
	failures map[MAC]int
}

func NewRegistry(transport Transport, channel uint8, lmk [LMKLen]byte, encrypt bool) *Registry {
	return &Registry{
		transport: transport,
		channel:   channel,
		lmk:       lmk,
		encrypt:   encrypt,
		peers:     make(map[MAC]struct{}),
		failures:  make(map[MAC]int),
	}
}

// Ensure registers addr with the transport unless it already is. It reports
// whether a registration happened. A failed registration leaves addr unknown
// so the next valid frame retries.
func (r *Registry) Ensure(addr MAC) (bool, error) {
	if r.Known(addr) {
		return false, nil
	}

	info := PeerInfo{Addr: addr, Channel: r.channel, LMK: r.lmk, Encrypt: r.encrypt}
	log.Info().Str("mac", addr.String()).Uint8("channel", r.channel).Msg("adding peer")

	if err := r.transport.AddPeer(info); err != nil {
		r.mu.Lock()
		r.failures[addr]++
		n := r.failures[addr]
		r.mu.Unlock()
		if n > 1 {
			log.Warn().Str("mac", addr.String()).Int("attempts", n).Msg("peer keeps failing registration")
		}
		return false, fmt.Errorf("add peer %s: %w", addr, err)
	}

	r.mu.Lock()
	r.peers[addr] = struct{}{}
	delete(r.failures, addr)
	r.mu.Unlock()
	return true, nil
}

func (r *Registry) Known(addr MAC) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.peers[addr]
	return ok
}

// Peers lists registered addresses in byte order.
func (r *Registry) Peers() []MAC {
	r.mu.RLock()
	out := make([]MAC, 0, len(r.peers))
	for m := range r.peers {
		out = append(out, m)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return bytes.Compare(out[i][:], out[j][:]) < 0 })
	return out
}
