package radio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nifri2/neomatrix/internal/remote"
)

func feedAll(t *testing.T, d *Decoder, data []byte) []Frame {
	t.Helper()
	var frames []Frame
	for _, b := range data {
		f, ok, err := d.Feed(b)
		require.NoError(t, err)
		for ok {
			frames = append(frames, Frame{Kind: f.Kind, Payload: append([]byte(nil), f.Payload...)})
			f, ok, err = d.Next()
			require.NoError(t, err)
		}
	}
	return frames
}

// feedLossy is feedAll for streams with corruption; it collects errors
// instead of failing.
func feedLossy(d *Decoder, data []byte) ([]Frame, []error) {
	var frames []Frame
	var errs []error
	collect := func(f Frame, ok bool, err error) bool {
		if err != nil {
			errs = append(errs, err)
		}
		if ok {
			frames = append(frames, Frame{Kind: f.Kind, Payload: append([]byte(nil), f.Payload...)})
		}
		return ok
	}
	for _, b := range data {
		if collect(d.Feed(b)) {
			for collect(d.Next()) {
			}
		}
	}
	return frames, errs
}

func TestEncode(t *testing.T) {
	data, err := Encode(Frame{Kind: KindAck, Payload: []byte{0x00, 0x05}})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAA, 0x03, 0x02, 0x00, 0x05, 0x0a}, data)

	_, err = Encode(Frame{Kind: KindPacket, Payload: make([]byte, MaxFrameLen+1)})
	assert.ErrorIs(t, err, ErrFrameTooLong)
}

func TestDecoderRoundTrip(t *testing.T) {
	in := []Frame{
		{Kind: KindPacket, Payload: []byte{1, 2, 3, 4, 5, 6, 0x81}},
		{Kind: KindAck, Payload: []byte{}},
		{Kind: KindAddPeer, Payload: []byte{0xAA, 0xAA}},
	}
	var stream []byte
	for _, f := range in {
		data, err := Encode(f)
		require.NoError(t, err)
		stream = append(stream, data...)
	}

	var d Decoder
	assert.Equal(t, in, feedAll(t, &d, stream))
}

func TestDecoderSkipsGarbage(t *testing.T) {
	data, err := Encode(Frame{Kind: KindAck, Payload: []byte{7}})
	require.NoError(t, err)

	var d Decoder
	frames := feedAll(t, &d, append([]byte{0x00, 0x13, 0x37}, data...))
	require.Len(t, frames, 1)
	assert.Equal(t, []byte{7}, frames[0].Payload)
}

func TestDecoderBadChecksum(t *testing.T) {
	data, err := Encode(Frame{Kind: KindAck, Payload: []byte{7}})
	require.NoError(t, err)
	data[len(data)-1]++

	var d Decoder
	var gotErr error
	for _, b := range data {
		if _, _, err := d.Feed(b); err != nil {
			gotErr = err
		}
	}
	assert.ErrorIs(t, gotErr, ErrChecksum)

	good, _ := Encode(Frame{Kind: KindAck, Payload: []byte{8}})
	assert.Len(t, feedAll(t, &d, good), 1)
}

func TestDecoderRejectsUnknownKind(t *testing.T) {
	good := append(mustEncode(Frame{Kind: KindAck, Payload: []byte{1}}),
		mustEncode(Frame{Kind: KindAck, Payload: []byte{2}})...)

	var d Decoder
	frames, errs := feedLossy(&d, append([]byte{Header, 0xC8}, good...))
	require.Len(t, frames, 2)
	assert.Equal(t, []byte{1}, frames[0].Payload)
	assert.Equal(t, []byte{2}, frames[1].Payload)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrUnknownKind)
}

func TestDecoderRejectsOverlongAck(t *testing.T) {
	good := mustEncode(Frame{Kind: KindAck, Payload: []byte{5}})

	var d Decoder
	frames, errs := feedLossy(&d, append([]byte{Header, byte(KindAck), 0xC8}, good...))
	require.Len(t, frames, 1)
	assert.Equal(t, []byte{5}, frames[0].Payload)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrFrameTooLong)
}

func TestDecoderRescansAfterChecksumFailure(t *testing.T) {
	// A stray header claims a long packet and swallows the acks behind it.
	// Once its checksum fails the acks are recovered from the window.
	stream := []byte{Header, byte(KindPacket), 20}
	for i := byte(1); i <= 3; i++ {
		stream = append(stream, mustEncode(Frame{Kind: KindAck, Payload: []byte{i}})...)
	}
	for len(stream) < 3+20+1 {
		stream = append(stream, 0x00)
	}
	stream[len(stream)-1] = 0x00

	var d Decoder
	frames, errs := feedLossy(&d, stream)
	require.Len(t, frames, 3)
	for i, f := range frames {
		assert.Equal(t, KindAck, f.Kind)
		assert.Equal(t, []byte{byte(i + 1)}, f.Payload)
	}
	require.NotEmpty(t, errs)
	assert.ErrorIs(t, errs[0], ErrChecksum)
}

func TestParseAck(t *testing.T) {
	assert.Equal(t, ack{}, parseAck(Frame{Kind: KindAck}))
	assert.Equal(t, ack{status: 3}, parseAck(Frame{Kind: KindAck, Payload: []byte{3}}))
	assert.Equal(t, ack{status: 0, addr: remote.MAC{1, 2, 3, 4, 5, 6}, hasMAC: true},
		parseAck(Frame{Kind: KindAck, Payload: []byte{0, 1, 2, 3, 4, 5, 6}}))
}

func TestAddPeerFrame(t *testing.T) {
	info := remote.PeerInfo{
		Addr:    remote.MAC{1, 2, 3, 4, 5, 6},
		Channel: 1,
		LMK:     remote.DefaultLMK,
	}
	f := addPeerFrame(info)
	assert.Equal(t, KindAddPeer, f.Kind)
	require.Len(t, f.Payload, 6+2+16)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 1, 0}, f.Payload[:8])
	assert.Equal(t, "lmk1234567890123", string(f.Payload[8:]))

	info.Encrypt = true
	assert.Equal(t, byte(1), addPeerFrame(info).Payload[7])
}

func TestSplitPacket(t *testing.T) {
	mac, data, err := splitPacket(Frame{Kind: KindPacket, Payload: []byte{1, 2, 3, 4, 5, 6, 9}})
	require.NoError(t, err)
	assert.Equal(t, remote.MAC{1, 2, 3, 4, 5, 6}, mac)
	assert.Equal(t, []byte{9}, data)

	_, _, err = splitPacket(Frame{Kind: KindPacket, Payload: []byte{1, 2}})
	assert.ErrorIs(t, err, ErrShortFrame)
}
