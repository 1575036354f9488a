package remote

import (
	"fmt"
	"strconv"
	"strings"
)

// MACLen is the length of a radio sender address.
const MACLen = 6

// MAC is a radio sender address.
type MAC [MACLen]byte

// Broadcast is registered as a peer at startup so broadcast frames reach us.
var Broadcast = MAC{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

func (m MAC) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", m[0], m[1], m[2], m[3], m[4], m[5])
}

// ParseMAC reads the colon or dash separated hex form.
func ParseMAC(s string) (MAC, error) {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ':' || r == '-' })
	if len(parts) != MACLen {
		return MAC{}, fmt.Errorf("remote: %q is not a 6 byte address", s)
	}

	var m MAC
	for i, p := range parts {
		if len(p) != 2 {
			return MAC{}, fmt.Errorf("remote: bad octet %q in %q", p, s)
		}
		v, err := strconv.ParseUint(p, 16, 8)
		if err != nil {
			return MAC{}, fmt.Errorf("remote: bad octet %q in %q: %w", p, s, err)
		}
		m[i] = byte(v)
	}
	return m, nil
}
