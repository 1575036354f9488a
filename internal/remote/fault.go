package remote

import (
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// Indicator is the operator visible fault light.
type Indicator interface {
	Set(on bool)
}

// IndicatorFunc adapts a plain function, typically a GPIO setter.
type IndicatorFunc func(on bool)

func (f IndicatorFunc) Set(on bool) { f(on) }

// NopIndicator ignores every call.
var NopIndicator Indicator = IndicatorFunc(func(bool) {})

// StatusLED remembers the indicator state and forwards changes to a pin.
type StatusLED struct {
	on  atomic.Bool
	pin func(bool)
}

func NewStatusLED(pin func(bool)) *StatusLED {
	if pin == nil {
		pin = func(bool) {}
	}
	return &StatusLED{pin: pin}
}

func (s *StatusLED) Set(on bool) {
	if s.on.Swap(on) == on {
		s.pin(on)
		return
	}
	if on {
		log.Error().Msg("fault indicator on")
	} else {
		log.Info().Msg("fault indicator off")
	}
	s.pin(on)
}

func (s *StatusLED) On() bool { return s.on.Load() }
