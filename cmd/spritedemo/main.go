// Command spritedemo animates a sprite scene in a gogpu window.
//
// The scene is simulated at a fixed step, drawn with one instanced draw
// into an offscreen target on the window's GPU device and presented as a
// window texture.
//
// Keys:
//
//	Space   pause / resume
//	=       spawn 100 more sprites
//	R       reset the scene
//	Escape  quit
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gogpu/gogpu"
	"github.com/gogpu/gpucontext"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/sprites"
	"github.com/gogpu/sprites/atlas"
	"github.com/gogpu/sprites/gpu"
	"github.com/gogpu/sprites/internal/scene"
)

// spawnBatch is the number of sprites the = key adds.
const spawnBatch = 100

func main() {
	var (
		scenePath = flag.String("scene", "", "scene TOML file (default: built-in scene)")
		verbose   = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *verbose {
		gpu.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

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

	app := gogpu.NewApp(gogpu.DefaultConfig().
		WithTitle(cfg.Window.Title).
		WithSize(cfg.Window.Width, cfg.Window.Height).
		WithContinuousRender(true))

	d := &demo{
		cfg:     cfg,
		atlas:   img,
		store:   cfg.NewStore(img),
		clock:   sprites.NewClock(cfg.Step()),
		printer: message.NewPrinter(language.English),
	}
	d.provider = func() any { return app.GPUContextProvider() }

	app.OnDraw(func(dc *gogpu.Context) {
		if err := d.frame(dc); err != nil {
			log.Printf("Frame %d: %v", d.frames, err)
		}
	})

	app.EventSource().OnKeyPress(func(key gpucontext.Key, _ gpucontext.Modifiers) {
		switch key {
		case gpucontext.KeySpace:
			d.paused = !d.paused
			log.Printf("Paused: %v", d.paused)
		case gpucontext.KeyEqual:
			d.spawned++
			d.store.SpawnRandom(spawnBatch, d.cfg.World.Seed+d.spawned, d.cfg.HalfExtent(), d.cfg.Cells(), d.cfg.Speed())
		case gpucontext.KeyR:
			d.store = d.cfg.NewStore(d.atlas)
			d.clock = sprites.NewClock(d.cfg.Step())
			d.spawned = 0
		case gpucontext.KeyEscape:
			app.Quit()
		}
	})

	app.OnClose(d.close)

	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
}

// demo holds the simulation and the GPU objects of the window.
type demo struct {
	cfg     scene.Config
	atlas   *atlas.Image
	store   *sprites.Store
	clock   *sprites.Clock
	printer *message.Printer

	// provider returns the window's GPU context provider.
	provider func() any

	renderer  *gpu.Renderer
	batch     *sprites.Batch
	presenter gpu.Presenter

	last    time.Time
	lastLog time.Time
	frames  uint64
	spawned uint64
	paused  bool
	closed  bool
}

// frame advances the simulation by the wall time since the last frame and
// draws the result.
func (d *demo) frame(dc *gogpu.Context) error {
	w, h := dc.Width(), dc.Height()
	if w <= 0 || h <= 0 || d.closed {
		return nil
	}
	if d.renderer == nil {
		if err := d.init(); err != nil {
			return err
		}
	}

	now := time.Now()
	if !d.last.IsZero() && !d.paused {
		for range d.clock.Advance(now.Sub(d.last)) {
			d.store.Step(d.clock.StepSeconds())
			d.store.GrowthSchedule(d.clock.Elapsed().Seconds())
		}
	}
	d.last = now

	if err := d.renderer.SetOffscreenTarget(uint32(w), uint32(h)); err != nil { //nolint:gosec // checked positive
		return err
	}
	d.batch.Sync(d.store)
	if err := d.batch.Submit(); err != nil {
		return err
	}
	pixels, err := d.renderer.ReadPixels()
	if err != nil {
		return err
	}
	if err := d.presenter.Present(dc.AsTextureDrawer(), w, h, pixels); err != nil {
		return err
	}

	d.frames++
	if now.Sub(d.lastLog) >= time.Second {
		log.Print(d.printer.Sprintf("%d sprites, %d steps, frame %d", d.store.Count(), d.clock.Steps(), d.frames))
		d.lastLog = now
	}
	return nil
}

// init creates the renderer on the window's device, falling back to a
// device of its own when the window does not expose one.
func (d *demo) init() error {
	rcfg := gpu.DefaultConfig()
	rcfg.Bounds = sprites.V2(d.cfg.World.Bounds[0], d.cfg.World.Bounds[1])

	r, err := gpu.NewRendererWithProvider(d.provider(), rcfg)
	if err != nil {
		log.Printf("Window device unavailable (%v), opening a separate device", err)
		if r, err = gpu.NewRenderer(rcfg); err != nil {
			return err
		}
	}
	if err := r.SetAtlas(d.atlas); err != nil {
		r.Destroy()
		return err
	}
	log.Printf("Renderer ready on %s", r.AdapterName())
	d.renderer = r
	d.batch = sprites.NewBatch(r)
	return nil
}

func (d *demo) close() {
	if d.closed {
		return
	}
	d.closed = true
	d.presenter.Close()
	if d.renderer != nil {
		d.renderer.Destroy()
	}
}
