package remote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frame(seq uint32, b Button) []byte {
	data, _ := NewPacket(seq, b).MarshalBinary()
	return data
}

func TestDecodePacket(t *testing.T) {
	data := []byte{0x81, 0x2a, 0x01, 0x00, 0x00, 0x00, 18, 0x01, 0x64, 0xde, 0xad, 0xbe, 0xef}

	pkt, err := decodePacket(data)
	require.NoError(t, err)
	assert.Equal(t, Packet{Program: 0x81, Seq: 0x12a, Button: ButtonThree}, pkt)
}

func TestDecodePacketIgnoresTrailer(t *testing.T) {
	a := frame(7, ButtonTwo)
	b := frame(7, ButtonTwo)
	copy(b[9:], []byte{1, 2, 3, 4})

	pa, err := decodePacket(a)
	require.NoError(t, err)
	pb, err := decodePacket(b)
	require.NoError(t, err)
	assert.Equal(t, pa, pb)
}

func TestDecodePacketTruncated(t *testing.T) {
	for n := 0; n < PacketSize; n++ {
		_, err := decodePacket(make([]byte, n))
		assert.ErrorIs(t, err, ErrTruncated, "len %d", n)
	}
}

func TestMarshalBinaryLayout(t *testing.T) {
	data, err := NewPacket(0x01020304, ButtonOn).MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x91, 0x04, 0x03, 0x02, 0x01, 0x00, 0x01, 0x01, 0x64, 0, 0, 0, 0}, data)

	data, _ = NewPacket(1, ButtonFour).MarshalBinary()
	assert.Equal(t, ProgramOther, data[0])
}

func TestButtonString(t *testing.T) {
	assert.Equal(t, "NIGHT", ButtonNight.String())
	assert.Equal(t, "BRIGHT_UP", ButtonBrightUp.String())
	assert.Equal(t, "UNKNOWN(42)", Button(42).String())
}

func TestParseButton(t *testing.T) {
	tests := []struct {
		in      string
		want    Button
		wantErr bool
	}{
		{"off", ButtonOff, false},
		{"  Bright_Down ", ButtonBrightDown, false},
		{"17", ButtonTwo, false},
		{"0x13", ButtonFour, false},
		{"none", ButtonNone, true},
		{"4", ButtonNone, true},
		{"bogus", ButtonNone, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseButton(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMAC(t *testing.T) {
	m, err := ParseMAC("44:4f:8e:bf:15:01")
	require.NoError(t, err)
	assert.Equal(t, MAC{0x44, 0x4f, 0x8e, 0xbf, 0x15, 0x01}, m)
	assert.Equal(t, "44:4f:8e:bf:15:01", m.String())

	m, err = ParseMAC("FF-FF-FF-FF-FF-FF")
	require.NoError(t, err)
	assert.Equal(t, Broadcast, m)

	for _, bad := range []string{"", "44:4f:8e:bf:15", "44:4f:8e:bf:15:zz", "444:f:8e:bf:15:01"} {
		_, err := ParseMAC(bad)
		assert.Error(t, err, bad)
	}
}
