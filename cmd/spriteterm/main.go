// Command spriteterm runs a sprite scene in the terminal.
//
// Every sprite is drawn as one character tinted with the average color of
// its atlas cell. No GPU is needed, which makes it handy for checking scene
// files over ssh.
//
// Keys: space pauses, = spawns more sprites, r resets, q or Escape quits.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/sprites"
	"github.com/gogpu/sprites/internal/scene"
)

const (
	frameInterval = 16 * time.Millisecond // ~60 FPS
	spawnBatch    = 100
	toneRate      = beep.SampleRate(44100)
)

type game struct {
	screen  tcell.Screen
	cfg     scene.Config
	store   *sprites.Store
	clock   *sprites.Clock
	palette *palette
	printer *message.Printer

	paused  bool
	spawned uint64
	sound   bool
	last    time.Time
}

func main() {
	var (
		scenePath = flag.String("scene", "", "scene TOML file (default: built-in scene)")
		sound     = flag.Bool("sound", false, "play a tick when the population grows")
	)
	flag.Parse()

	cfg := scene.Default()
	if *scenePath != "" {
		var err error
		if cfg, err = scene.Load(*scenePath); err != nil {
			log.Fatalf("Failed to load scene: %v", err)
		}
	}
	img, err := cfg.LoadAtlas()
	if err != nil {
		log.Fatalf("Failed to load atlas: %v", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("Failed to create screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("Failed to init screen: %v", err)
	}

	g := &game{
		screen:  screen,
		cfg:     cfg,
		store:   cfg.NewStore(img),
		clock:   sprites.NewClock(cfg.Step()),
		palette: newPalette(img),
		printer: message.NewPrinter(language.English),
	}
	if *sound {
		// Non-fatal, the scene runs without sound.
		if err := speaker.Init(toneRate, toneRate.N(time.Second/10)); err == nil {
			g.sound = true
		}
	}

	g.run()
	screen.Fini()
	fmt.Fprint(os.Stdout, g.printer.Sprintf("%d sprites after %d steps\n", g.store.Count(), g.clock.Steps()))
}

func (g *game) run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	g.last = time.Now()
	for {
		select {
		case ev := <-events:
			if !g.handle(ev) {
				return
			}
		case now := <-ticker.C:
			g.update(now)
			g.draw()
		}
	}
}

// handle applies one input event and reports whether to keep running.
func (g *game) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		switch ev.Rune() {
		case 'q':
			return false
		case ' ':
			g.paused = !g.paused
		case '=', '+':
			g.spawned++
			g.store.SpawnRandom(spawnBatch, g.cfg.World.Seed+g.spawned, g.cfg.HalfExtent(), g.cfg.Cells(), g.cfg.Speed())
		case 'r':
			g.store = g.cfg.NewStore(g.palette.img)
			g.clock = sprites.NewClock(g.cfg.Step())
			g.spawned = 0
		}
	case *tcell.EventResize:
		g.screen.Sync()
	}
	return true
}

// update runs the fixed steps that fit into the time since the last tick.
func (g *game) update(now time.Time) {
	frame := now.Sub(g.last)
	g.last = now
	if g.paused {
		return
	}
	grown := uint32(0)
	for range g.clock.Advance(frame) {
		g.store.Step(g.clock.StepSeconds())
		grown += g.store.GrowthSchedule(g.clock.Elapsed().Seconds())
	}
	if grown > 0 {
		g.tick()
	}
}

// tick plays a short tone.
func (g *game) tick() {
	if !g.sound {
		return
	}
	sine, err := generators.SineTone(toneRate, 880)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(toneRate.N(20*time.Millisecond), sine))
}

func (g *game) draw() {
	g.screen.Clear()
	cols, rows := g.screen.Size()
	bounds := g.store.Bounds()

	// Last row is the status line.
	for _, s := range g.store.Snapshot().All() {
		col, row, ok := project(s.Position, bounds, cols, rows-1)
		if !ok {
			continue
		}
		g.screen.SetContent(col, row, glyph(s), nil, g.palette.style(s))
	}

	status := g.printer.Sprintf(" %d sprites  step %d  %s", g.store.Count(), g.clock.Steps(), g.state())
	style := tcell.StyleDefault.Reverse(true)
	for i, r := range []rune(status) {
		if i >= cols {
			break
		}
		g.screen.SetContent(i, rows-1, r, nil, style)
	}
	g.screen.Show()
}

func (g *game) state() string {
	if g.paused {
		return "paused"
	}
	return "running"
}
