// Command gbcore runs a DMG cartridge against the gbcore core, presenting
// it through an ebiten window (or headless, for conformance-test style
// runs) per SPEC_FULL.md's CLI section, grounded in the teacher's own
// cmd/goboy/main.go: flag-based configuration, no CLI framework.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sqweek/dialog"

	"github.com/thelolagemann/gbcore/internal/diag"
	"github.com/thelolagemann/gbcore/internal/gameboy"
	"github.com/thelolagemann/gbcore/pkg/display"
	"github.com/thelolagemann/gbcore/pkg/display/ebiten"
	"github.com/thelolagemann/gbcore/pkg/display/web"
	gblog "github.com/thelolagemann/gbcore/pkg/log"
)

func main() {
	romPath := flag.String("rom", "", "path to a .gb ROM image (.zip/.7z wrapped images are unwrapped automatically); if omitted, a native file picker is shown")
	headless := flag.Bool("headless", false, "run without opening a window; useful for conformance-test ROMs that signal pass/fail over serial or a magic memory value")
	scale := flag.Int("scale", 3, "integer window scale applied to the 160x144 framebuffer")
	frames := flag.Int("frames", 0, "in -headless mode, stop after this many frames (0 = run until interrupted)")
	dumpSave := flag.Bool("copy-save", false, "on exit, copy the cartridge's battery-backed save RAM to the clipboard as base64 (debugging aid)")
	verbose := flag.Bool("v", false, "enable debug-level logging")
	webAddr := flag.String("web", "", "serve the framebuffer over a websocket at this address (e.g. :8080) instead of opening a window")
	diagOut := flag.String("diag", "", "in -headless mode, write a PPU mode-timing diagnostic PNG to this path after the last frame runs")
	flag.Parse()

	path := *romPath
	if path == "" {
		picked, err := dialog.File().Filter("Game Boy ROM", "gb", "gbc", "zip", "7z").Title("Open ROM").Load()
		if err != nil {
			fmt.Fprintln(os.Stderr, "gbcore: no ROM specified and no file was selected:", err)
			os.Exit(1)
		}
		path = picked
	}

	logger := gblog.New()
	if *verbose {
		logger = gblog.NewVerbose()
	}

	gb, err := gameboy.New(path, gameboy.WithLogger(logger))
	if err != nil {
		log.Fatalf("gbcore: %v", err)
	}
	logger.Infof("loaded %q (%s)", gb.Cart.Header.Title, cartridgeSummary(gb))

	defer func() {
		if err := gb.Shutdown(); err != nil {
			logger.Errorf("gbcore: save on exit failed: %v", err)
		}
		if *dumpSave {
			if err := display.CopySaveRAMBase64(gb.Cart.RAMSnapshot()); err != nil {
				logger.Errorf("gbcore: copy save to clipboard failed: %v", err)
			}
		}
	}()

	if *headless {
		runHeadless(gb, *frames, *diagOut, logger)
		return
	}

	if *webAddr != "" {
		runWeb(gb, *webAddr, logger)
		return
	}

	runWindowed(gb, *scale)
}

func cartridgeSummary(gb *gameboy.GameBoy) string {
	return fmt.Sprintf("%d ROM bank(s), %d byte(s) RAM", gb.Cart.Header.ROMBankCount, gb.Cart.Header.RAMSize)
}

// runHeadless drives the core with no window, the shape conformance-test
// harnesses and CI use: step frames, optionally capping the count, and
// exit cleanly on SIGINT/SIGTERM so the deferred save-on-exit still runs.
// If diagOut is set, the last frame's PPU mode timeline is rendered to it
// as a PNG strip chart once the run stops (internal/diag's sole consumer).
func runHeadless(gb *gameboy.GameBoy, maxFrames int, diagOut string, logger gblog.Logger) {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)

	count := 0
	for {
		select {
		case <-sigc:
			writeDiag(gb, diagOut, logger)
			return
		default:
		}
		gb.RunFrame()
		count++
		if maxFrames > 0 && count >= maxFrames {
			writeDiag(gb, diagOut, logger)
			return
		}
	}
}

func writeDiag(gb *gameboy.GameBoy, path string, logger gblog.Logger) {
	if path == "" {
		return
	}
	samples := diag.FromPPU(gb.PPU.Timeline())
	if err := diag.PlotModeTimeline(samples, path); err != nil {
		logger.Errorf("gbcore: write diagnostic chart failed: %v", err)
		return
	}
	logger.Infof("wrote PPU mode-timing chart to %s", path)
}

// runWindowed presents the core through an ebiten window. The core runs
// frame after frame in pumpFrames on its own goroutine; the window draws
// the latest presented frame, and the button transitions it collects in
// Update are forwarded to the joypad when pumpFrames polls it.
func runWindowed(gb *gameboy.GameBoy, scale int) {
	win := ebiten.New(gb.Cart.Header.Title, scale)
	go pumpFrames(gb, win, win)
	if err := win.Run(); err != nil {
		log.Fatalf("gbcore: %v", err)
	}
}

// runWeb presents the core over a websocket instead of a native window,
// for browser-based play or remote viewing: a display.FrameSink/
// InputSource pair backed by github.com/gorilla/websocket rather than a
// local GPU surface.
func runWeb(gb *gameboy.GameBoy, addr string, logger gblog.Logger) {
	hub := web.NewHub()
	hub.ListenAndServe(addr)
	go hub.Run()
	logger.Infof("serving framebuffer over websocket at %s/ws", addr)
	pumpFrames(gb, hub, hub)
}

// pumpFrames runs the core's top loop, forwarding finished frames to sink
// and polling source for input each frame - the core itself has no notion
// of wall-clock pacing beyond what the caller imposes (spec.md 5's only
// suspension point). Shared between the windowed and web presentation
// paths, which differ only in which display.FrameSink/InputSource they
// wire up.
func pumpFrames(gb *gameboy.GameBoy, sink display.FrameSink, source display.InputSource) {
	for {
		frame := gb.RunFrame()
		img := display.Expand(frame, display.DefaultPalette)
		if err := sink.Present(img); err != nil {
			return
		}

		in, exit := source.Poll()
		if exit {
			return
		}
		for _, b := range in.Pressed {
			gb.Press(b)
		}
		for _, b := range in.Released {
			gb.Release(b)
		}
	}
}
