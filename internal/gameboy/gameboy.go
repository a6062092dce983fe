// Package gameboy wires the CPU, Bus, PPU, timer, DMA engine, interrupt
// controller, joypad, serial port, APU stub and cartridge into the single
// cooperative top loop spec.md 5 describes: one CPU instruction, then one
// atomic advance of every clocked subsystem by that instruction's T-state
// count.
package gameboy

import (
	"fmt"

	"github.com/thelolagemann/gbcore/internal/apu"
	"github.com/thelolagemann/gbcore/internal/cartridge"
	"github.com/thelolagemann/gbcore/internal/cpu"
	"github.com/thelolagemann/gbcore/internal/dma"
	"github.com/thelolagemann/gbcore/internal/interrupts"
	"github.com/thelolagemann/gbcore/internal/joypad"
	"github.com/thelolagemann/gbcore/internal/mmu"
	"github.com/thelolagemann/gbcore/internal/ppu"
	"github.com/thelolagemann/gbcore/internal/serial"
	"github.com/thelolagemann/gbcore/internal/timer"
	"github.com/thelolagemann/gbcore/internal/types"
	"github.com/thelolagemann/gbcore/pkg/log"
)

// GameBoy is the whole DMG core: every component reachable from the top
// loop, plus the cartridge it is currently running.
type GameBoy struct {
	CPU    *cpu.CPU
	Bus    *mmu.Bus
	PPU    *ppu.Controller
	APU    *apu.Controller
	Timer  *timer.Controller
	DMA    *dma.Controller
	IRQ    *interrupts.Controller
	Joypad *joypad.State
	Serial *serial.Controller
	Cart   *cartridge.Cartridge

	speed float64
	log   log.Logger
}

// New loads romPath and returns a GameBoy ready to run, with every
// register seeded to the documented DMG post-boot state (spec.md 6).
func New(romPath string, opts ...Option) (*GameBoy, error) {
	cart, err := cartridge.Load(romPath)
	if err != nil {
		return nil, fmt.Errorf("gameboy: %w", err)
	}

	gb := &GameBoy{Cart: cart, log: log.New()}

	gb.IRQ = interrupts.NewController()
	gb.Joypad = joypad.New(gb.IRQ)
	gb.Serial = serial.NewController(gb.IRQ)
	gb.Timer = timer.New(gb.IRQ)
	gb.APU = apu.New()

	// Options run before the bus is built so it receives WithLogger's
	// logger; every component an option touches already exists here.
	for _, opt := range opts {
		opt(gb)
	}

	var dmaCtrl *dma.Controller
	gb.PPU = ppu.New(gb.IRQ, func() bool { return dmaCtrl != nil && dmaCtrl.Active() })

	gb.Bus = mmu.New(gb.Cart, gb.PPU, gb.APU, gb.Timer, gb.IRQ, gb.Joypad, gb.Serial, gb.log)
	dmaCtrl = dma.New(gb.PPU, gb.Bus)
	gb.DMA = dmaCtrl
	gb.Bus.SetDMA(dmaCtrl)

	gb.CPU = cpu.New(gb.Bus, gb.IRQ)
	gb.CPU.ResetDMG(cart.Header.ChecksumByte == 0)

	return gb, nil
}

// Step runs one CPU step (one instruction, one interrupt dispatch, or one
// halted M-cycle) and advances every clocked subsystem by the same number
// of T-states, the atomic unit spec.md 5 describes. It returns the number
// of T-states consumed.
func (gb *GameBoy) Step() int {
	cycles := gb.CPU.Step()
	gb.Bus.Advance(cycles)
	return cycles
}

// RunFrame steps the core until a new framebuffer is ready, then returns
// it. A frame is roughly 70224 T-states but actual boundaries depend on
// when the PPU marks itself ready.
func (gb *GameBoy) RunFrame() *[ppu.ScreenHeight][ppu.ScreenWidth]uint8 {
	for !gb.PPU.FrameReady() {
		gb.Step()
	}
	return gb.PPU.Frame()
}

// Press and Release forward host input to the joypad controller.
func (gb *GameBoy) Press(b joypad.Button)   { gb.Joypad.Press(b) }
func (gb *GameBoy) Release(b joypad.Button) { gb.Joypad.Release(b) }

// Shutdown persists the cartridge's battery-backed save (and RTC sidecar,
// if any) to disk.
func (gb *GameBoy) Shutdown() error {
	return gb.Cart.PersistSave()
}

// SaveState serializes the entire machine into a single byte slice.
func (gb *GameBoy) SaveState() []byte {
	s := types.NewState()
	gb.CPU.Save(s)
	gb.Bus.Save(s)
	return s.Bytes()
}

// LoadState restores a machine previously serialized by SaveState.
func (gb *GameBoy) LoadState(data []byte) {
	s := types.StateFromBytes(data)
	gb.CPU.Load(s)
	gb.Bus.Load(s)
}
