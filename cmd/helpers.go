package cmd

import (
	"strconv"
	"strings"
	"time"
)

func ParseRole(r string) Role {
	switch strings.ToLower(r) {
	case "monitor":
		return RoleMonitor
	default:
		return RoleAppliance
	}
}

// ParseChannel accepts a WiFi channel 1..14. Anything else, including an
// empty string from a build without ldflags, gives the default channel.
func ParseChannel(c string) uint8 {
	n, err := strconv.Atoi(strings.TrimSpace(c))
	if err != nil || n < 1 || n > 14 {
		return DefaultSettings().Channel
	}
	return uint8(n)
}

// Blink toggles a pin times times, holding each phase for d.
func Blink(set func(bool), times int, d time.Duration) {
	for i := 0; i < times; i++ {
		set(true)
		time.Sleep(d)
		set(false)
		time.Sleep(d)
	}
}

// BlinkPattern is the start up blink that tells the roles apart.
func BlinkPattern(r Role) (times int, d time.Duration) {
	switch r {
	case RoleMonitor:
		return 5, 40 * time.Millisecond
	default:
		return 2, 200 * time.Millisecond
	}
}
