// Package radio talks to the radio bridge co-processor over a serial port.
//
// Every frame on the wire is
//
//	[0xAA, kind, length, payload..., checksum]
//
// where checksum is the byte sum of kind, length and payload.
package radio

import (
	"errors"
	"fmt"

	"nifri2/neomatrix/internal/remote"
)

const Header byte = 0xAA

// Kind identifies the frame payload.
type Kind byte

const (
	KindPacket  Kind = 0x01 // bridge -> appliance: MAC + radio payload
	KindAddPeer Kind = 0x02 // appliance -> bridge: peer registration
	KindAck     Kind = 0x03 // bridge -> appliance: status of the last request
)

// MaxFrameLen is the largest payload a length byte can describe.
const MaxFrameLen = 255

var (
	ErrChecksum     = errors.New("radio: bad frame checksum")
	ErrFrameTooLong = errors.New("radio: frame payload too long")
	ErrShortFrame   = errors.New("radio: frame payload too short")
	ErrUnknownKind  = errors.New("radio: unknown frame kind")
)

// maxPayload is the longest payload a kind may carry, or -1 for kinds the
// bridge never sends.
func maxPayload(k Kind) int {
	switch k {
	case KindPacket:
		return min(remote.MACLen+remote.MaxPayload, MaxFrameLen)
	case KindAddPeer:
		return remote.MACLen + 2 + remote.LMKLen
	case KindAck:
		return 1 + remote.MACLen
	default:
		return -1
	}
}

type Frame struct {
	Kind    Kind
	Payload []byte
}

func checksum(kind Kind, payload []byte) byte {
	sum := byte(kind) + byte(len(payload))
	for _, b := range payload {
		sum += b
	}
	return sum
}

// Encode serializes f.
func Encode(f Frame) ([]byte, error) {
	if len(f.Payload) > MaxFrameLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLong, len(f.Payload))
	}
	out := make([]byte, 0, len(f.Payload)+4)
	out = append(out, Header, byte(f.Kind), byte(len(f.Payload)))
	out = append(out, f.Payload...)
	out = append(out, checksum(f.Kind, f.Payload))
	return out, nil
}

// addPeerFrame encodes MAC, channel, encrypt flag and key.
func addPeerFrame(info remote.PeerInfo) Frame {
	payload := make([]byte, 0, remote.MACLen+2+remote.LMKLen)
	payload = append(payload, info.Addr[:]...)
	payload = append(payload, info.Channel)
	if info.Encrypt {
		payload = append(payload, 1)
	} else {
		payload = append(payload, 0)
	}
	payload = append(payload, info.LMK[:]...)
	return Frame{Kind: KindAddPeer, Payload: payload}
}

// splitPacket separates the sender address from the radio payload.
func splitPacket(f Frame) (remote.MAC, []byte, error) {
	var mac remote.MAC
	if len(f.Payload) < remote.MACLen {
		return mac, nil, fmt.Errorf("%w: %d bytes", ErrShortFrame, len(f.Payload))
	}
	copy(mac[:], f.Payload[:remote.MACLen])
	return mac, f.Payload[remote.MACLen:], nil
}

// parseAck reads the status byte and, when present, the peer address the
// bridge echoes. An empty ack means success.
func parseAck(f Frame) ack {
	var a ack
	if len(f.Payload) > 0 {
		a.status = f.Payload[0]
	}
	if len(f.Payload) >= 1+remote.MACLen {
		copy(a.addr[:], f.Payload[1:1+remote.MACLen])
		a.hasMAC = true
	}
	return a
}

// frameOverhead is the header, kind, length and checksum bytes.
const frameOverhead = 4

// Decoder reassembles frames one byte at a time. Bytes are held in a window
// until they form a frame. When a candidate frame turns out bad (unknown
// kind, length over the kind's limit, checksum mismatch) only its header byte
// is dropped and the rest of the window is scanned again, so a stray header
// cannot swallow the good frames behind it.
type Decoder struct {
	win [MaxFrameLen + frameOverhead]byte
	n   int
	out [MaxFrameLen]byte
}

// Feed consumes one byte and returns a frame if one completed. The payload
// aliases the decoder and is only valid until the next Feed or Next. A
// rejected candidate is reported through err; a frame found behind it in the
// same call is still returned.
func (d *Decoder) Feed(b byte) (Frame, bool, error) {
	if d.n == len(d.win) {
		// A full window always holds a complete candidate, so this only
		// happens if the caller ignored a returned frame.
		d.shift(1)
	}
	d.win[d.n] = b
	d.n++
	return d.Next()
}

// Next returns a frame already complete in the window without consuming a
// new byte. Callers drain it after every Feed that returned a frame.
func (d *Decoder) Next() (Frame, bool, error) {
	var firstErr error
	reject := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
		d.shift(1)
	}

	for {
		start := 0
		for start < d.n && d.win[start] != Header {
			start++
		}
		d.shift(start)
		if d.n < 2 {
			return Frame{}, false, firstErr
		}

		kind := Kind(d.win[1])
		limit := maxPayload(kind)
		if limit < 0 {
			reject(fmt.Errorf("%w: 0x%02X", ErrUnknownKind, byte(kind)))
			continue
		}
		if d.n < 3 {
			return Frame{}, false, firstErr
		}

		length := int(d.win[2])
		if length > limit {
			reject(fmt.Errorf("%w: kind 0x%02X length %d", ErrFrameTooLong, byte(kind), length))
			continue
		}
		end := 3 + length + 1
		if d.n < end {
			return Frame{}, false, firstErr
		}

		payload := d.win[3 : 3+length]
		if checksum(kind, payload) != d.win[end-1] {
			reject(ErrChecksum)
			continue
		}

		copy(d.out[:], payload)
		d.shift(end)
		return Frame{Kind: kind, Payload: d.out[:length]}, true, firstErr
	}
}

// shift drops the first k bytes of the window.
func (d *Decoder) shift(k int) {
	if k <= 0 {
		return
	}
	copy(d.win[:], d.win[k:d.n])
	d.n -= k
}
