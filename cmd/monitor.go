package cmd

import (
	"fmt"
	"io"
	"sync"

	"nifri2/neomatrix/internal/remote"
)

// Monitor prints every frame the radio hears. It keeps its own sequence
// cursor so replays show up as STALE.
type Monitor struct {
	mu       sync.Mutex
	out      io.Writer
	parser   *remote.Parser
	onPacket func()
	seen     int
}

// NewMonitor writes one line per frame to out. onPacket, if set, runs after
// every frame, typically to flash the on board LED.
func NewMonitor(out io.Writer, fault remote.Indicator, onPacket func()) *Monitor {
	return &Monitor{
		out:      out,
		parser:   remote.NewParser(remote.NewButtonCell(), fault),
		onPacket: onPacket,
	}
}

func (m *Monitor) Receive(from remote.MAC, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seen++
	pkt, outcome := m.parser.Parse(data)
	if outcome == remote.OutcomeError {
		fmt.Fprintf(m.out, "Radio Packet Detected: %s len=%d %s\n", from, len(data), outcome)
	} else {
		fmt.Fprintf(m.out, "Radio Packet Detected: %s seq=%d button=%s (0x%02X) %s\n",
			from, pkt.Seq, pkt.Button, uint8(pkt.Button), outcome)
	}
	if m.onPacket != nil {
		m.onPacket()
	}
	return nil
}

func (m *Monitor) Seen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seen
}
