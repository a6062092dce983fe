package gameboy

import (
	"github.com/thelolagemann/gbcore/internal/serial"
	"github.com/thelolagemann/gbcore/pkg/log"
)

// Option configures a GameBoy at construction time.
type Option func(gb *GameBoy)

// WithLogger overrides the default logger.
func WithLogger(l log.Logger) Option {
	return func(gb *GameBoy) {
		gb.log = l
	}
}

// WithSerialDevice attaches an accessory to the link-cable port (a
// printer, a second GameBoy, or a test harness loopback).
func WithSerialDevice(d serial.Device) Option {
	return func(gb *GameBoy) {
		gb.Serial.Attach(d)
	}
}

// WithSpeed records a frame-pacing multiplier on the GameBoy (1.0 for real
// hardware speed, 0 by default). Nothing in this package reads it: Step and
// RunFrame always run unthrottled.
func WithSpeed(speed float64) Option {
	return func(gb *GameBoy) {
		gb.speed = speed
	}
}
