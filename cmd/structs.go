package cmd

import (
	"time"

	"nifri2/neomatrix/internal/display"
	"nifri2/neomatrix/internal/game"
	"nifri2/neomatrix/internal/remote"
)

type Role int

const (
	// RoleAppliance plays the game on the matrix.
	RoleAppliance Role = 0x00 + iota
	// RoleMonitor only prints what the remote sends.
	RoleMonitor
)

func (r Role) String() string {
	switch r {
	case RoleMonitor:
		return "monitor"
	default:
		return "appliance"
	}
}

type Settings struct {
	Role Role

	// Radio peer parameters.
	Channel uint8
	LMK     [remote.LMKLen]byte
	Encrypt bool

	QueueSize     int
	ReceiveWait   time.Duration
	FrameLockWait time.Duration

	Game game.Config

	LogLevel string
}

func DefaultSettings() Settings {
	return Settings{
		Role:          RoleAppliance,
		Channel:       remote.DefaultChannel,
		LMK:           remote.DefaultLMK,
		QueueSize:     remote.DefaultQueueSize,
		ReceiveWait:   remote.DefaultReceiveWait,
		FrameLockWait: display.DefaultLockWait,
		Game:          game.DefaultConfig(),
		LogLevel:      "info",
	}
}
