package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleMonitor, ParseRole("monitor"))
	assert.Equal(t, RoleMonitor, ParseRole("MONITOR"))
	assert.Equal(t, RoleAppliance, ParseRole("appliance"))
	assert.Equal(t, RoleAppliance, ParseRole(""))
	assert.Equal(t, "monitor", RoleMonitor.String())
}

func TestParseChannel(t *testing.T) {
	for in, want := range map[string]uint8{
		"":    1,
		"6":   6,
		" 11": 11,
		"14":  14,
		"0":   1,
		"15":  1,
		"ch6": 1,
	} {
		assert.Equal(t, want, ParseChannel(in), "input %q", in)
	}
}

func TestBlink(t *testing.T) {
	var got []bool
	Blink(func(on bool) { got = append(got, on) }, 2, time.Microsecond)
	assert.Equal(t, []bool{true, false, true, false}, got)

	n, d := BlinkPattern(RoleMonitor)
	assert.Equal(t, 5, n)
	assert.Equal(t, 40*time.Millisecond, d)
	n, _ = BlinkPattern(RoleAppliance)
	assert.Equal(t, 2, n)
}
