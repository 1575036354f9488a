package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nifri2/neomatrix/internal/remote"
)

func TestMonitorPrintsFrames(t *testing.T) {
	var out strings.Builder
	flashes := 0
	led := remote.NewStatusLED(nil)
	mon := NewMonitor(&out, led, func() { flashes++ })

	from, err := remote.ParseMAC("aa:bb:cc:dd:ee:01")
	require.NoError(t, err)

	frame := func(seq uint32, b remote.Button) []byte {
		data, err := remote.NewPacket(seq, b).MarshalBinary()
		require.NoError(t, err)
		return data
	}

	require.NoError(t, mon.Receive(from, frame(4, remote.ButtonNight)))
	require.NoError(t, mon.Receive(from, frame(4, remote.ButtonNight)))
	require.NoError(t, mon.Receive(from, []byte{0x91, 1}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Radio Packet Detected: aa:bb:cc:dd:ee:01 seq=4 button=NIGHT (0x03) ok", lines[0])
	assert.True(t, strings.HasSuffix(lines[1], "stale"))
	assert.Equal(t, "Radio Packet Detected: aa:bb:cc:dd:ee:01 len=2 error", lines[2])

	assert.Equal(t, 3, flashes)
	assert.Equal(t, 3, mon.Seen())
	assert.True(t, led.On(), "a malformed frame lights the fault LED")
}
