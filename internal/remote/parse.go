package remote

import "sync/atomic"

// Outcome is the result of parsing one received frame.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeStale
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeStale:
		return "stale"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// Gate admits strictly increasing sequence numbers. Only the consumer
// goroutine advances it; Last may be read from anywhere.
type Gate struct {
	last atomic.Uint32
}

// Admit reports whether seq is newer than anything seen and, if so, records it.
func (g *Gate) Admit(seq uint32) bool {
	if seq <= g.last.Load() {
		return false
	}
	g.last.Store(seq)
	return true
}

func (g *Gate) Last() uint32 { return g.last.Load() }

// Parser validates frames, drops replays and publishes accepted buttons.
type Parser struct {
	gate  Gate
	cell  *ButtonCell
	fault Indicator
}

func NewParser(cell *ButtonCell, fault Indicator) *Parser {
	if fault == nil {
		fault = NopIndicator
	}
	return &Parser{cell: cell, fault: fault}
}

// Parse decodes data. Truncated frames raise the fault indicator and yield
// OutcomeError; frames whose sequence is not newer than the last accepted one
// yield OutcomeStale and change nothing. Accepted frames advance the sequence
// cursor and replace the published button state.
func (p *Parser) Parse(data []byte) (Packet, Outcome) {
	pkt, err := decodePacket(data)
	if err != nil {
		p.fault.Set(true)
		return Packet{}, OutcomeError
	}
	if !p.gate.Admit(pkt.Seq) {
		return pkt, OutcomeStale
	}
	p.cell.Publish(ButtonState{Button: pkt.Button, Program: pkt.Program})
	return pkt, OutcomeOK
}

// LastSeq is the highest sequence accepted so far.
func (p *Parser) LastSeq() uint32 { return p.gate.Last() }
