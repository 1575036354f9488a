package remote

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// PacketSize is the length of a remote frame on the air:
//
//	[0]     program (0x91 for ON, 0x81 otherwise)
//	[1:5]   sequence, uint32 little endian
//	[5]     unknown
//	[6]     button
//	[7]     always 0x01
//	[8]     always 0x64
//	[9:13]  unknown, possibly a checksum; not verified
const PacketSize = 13

const (
	ProgramOn    uint8 = 0x91
	ProgramOther uint8 = 0x81
)

// Button is the physical key code sent by the remote.
type Button uint8

const (
	ButtonNone       Button = 0
	ButtonOn         Button = 1
	ButtonOff        Button = 2
	ButtonNight      Button = 3
	ButtonBrightDown Button = 8
	ButtonBrightUp   Button = 9
	ButtonOne        Button = 16
	ButtonTwo        Button = 17
	ButtonThree      Button = 18
	ButtonFour       Button = 19
)

var buttonNames = map[Button]string{
	ButtonNone:       "NONE",
	ButtonOn:         "ON",
	ButtonOff:        "OFF",
	ButtonNight:      "NIGHT",
	ButtonBrightDown: "BRIGHT_DOWN",
	ButtonBrightUp:   "BRIGHT_UP",
	ButtonOne:        "ONE",
	ButtonTwo:        "TWO",
	ButtonThree:      "THREE",
	ButtonFour:       "FOUR",
}

func (b Button) String() string {
	if name, ok := buttonNames[b]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", uint8(b))
}

// Known reports whether b is one of the remote's keys.
func (b Button) Known() bool {
	_, ok := buttonNames[b]
	return ok && b != ButtonNone
}

// ParseButton accepts a key name (any case) or its numeric code.
func ParseButton(s string) (Button, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for b, n := range buttonNames {
		if n == name && b != ButtonNone {
			return b, nil
		}
	}
	if n, err := strconv.ParseUint(name, 0, 8); err == nil && Button(n).Known() {
		return Button(n), nil
	}
	return ButtonNone, fmt.Errorf("unknown button %q", s)
}

// Packet holds the fields the appliance uses from a remote frame.
type Packet struct {
	Program uint8
	Seq     uint32
	Button  Button
}

func decodePacket(data []byte) (Packet, error) {
	if len(data) < PacketSize {
		return Packet{}, fmt.Errorf("%w: %d bytes, want %d", ErrTruncated, len(data), PacketSize)
	}
	return Packet{
		Program: data[0],
		Seq:     binary.LittleEndian.Uint32(data[1:5]),
		Button:  Button(data[6]),
	}, nil
}

// MarshalBinary encodes p the way the remote does. The trailing bytes are
// left zero.
func (p Packet) MarshalBinary() ([]byte, error) {
	buf := make([]byte, PacketSize)
	buf[0] = p.Program
	binary.LittleEndian.PutUint32(buf[1:5], p.Seq)
	buf[6] = byte(p.Button)
	buf[7] = 0x01
	buf[8] = 0x64
	return buf, nil
}

// NewPacket builds the frame a remote would send for b.
func NewPacket(seq uint32, b Button) Packet {
	program := ProgramOther
	if b == ButtonOn {
		program = ProgramOn
	}
	return Packet{Program: program, Seq: seq, Button: b}
}
