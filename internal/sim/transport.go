package sim

import (
	"sync"

	"github.com/rs/zerolog/log"

	"nifri2/neomatrix/internal/remote"
)

// Transport stands in for the radio driver and remembers peer registrations.
type Transport struct {
	mu    sync.Mutex
	peers []remote.PeerInfo
	// Fail, when set, makes AddPeer return it.
	Fail error
}

func (t *Transport) AddPeer(info remote.PeerInfo) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Fail != nil {
		return t.Fail
	}
	t.peers = append(t.peers, info)
	log.Debug().Str("mac", info.Addr.String()).Msg("sim: peer registered")
	return nil
}

// Registered lists every AddPeer call that succeeded.
func (t *Transport) Registered() []remote.PeerInfo {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]remote.PeerInfo(nil), t.peers...)
}
