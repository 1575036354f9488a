//go:build tinygo

package main

import (
	"machine"

	"github.com/rs/zerolog/log"

	"nifri2/neomatrix/cmd"
	"nifri2/neomatrix/internal/logger"
)

// buildRole, buildChannel and buildLogLevel are set at compile time via -ldflags
// e.g. -ldflags="-X main.buildRole=monitor -X main.buildChannel=6"
var (
	buildRole     string
	buildChannel  string
	buildLogLevel string
)

// The matrix data line. GP0 and GP1 belong to the bridge UART.
const pixelPin = machine.GP2

func settings() cmd.Settings {
	s := cmd.DefaultSettings()
	s.Role = cmd.ParseRole(buildRole)
	s.Channel = cmd.ParseChannel(buildChannel)
	if buildLogLevel != "" {
		s.LogLevel = buildLogLevel
	}
	return s
}

func main() {
	config := settings()
	logger.Init(machine.Serial, logger.ParseLevel(config.LogLevel), false)

	var uart *machine.UART = machine.UART0

	uart.Configure(machine.UARTConfig{
		BaudRate: 38400,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})

	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})

	// blink LED based on role, 2 times 200ms for the appliance, 5 times 40ms for the monitor
	times, d := cmd.BlinkPattern(config.Role)
	cmd.Blink(led.Set, times, d)

	log.Info().Stringer("role", config.Role).Uint8("channel", config.Channel).Msg("booted")

	switch config.Role {
	case cmd.RoleAppliance:
		cmd.RunAppliance(config, uart, led, pixelPin)

	case cmd.RoleMonitor:
		cmd.RunMonitor(config, uart, led)
	}
}
