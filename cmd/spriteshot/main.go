// Command spriteshot simulates a sprite scene headlessly on the GPU and
// saves the final frame as a PNG.
package main

import (
	"flag"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/sprites"
	"github.com/gogpu/sprites/gpu"
	"github.com/gogpu/sprites/internal/scene"
)

func main() {
	var (
		scenePath = flag.String("scene", "", "scene TOML file (default: built-in scene)")
		width     = flag.Int("width", 0, "image width (default: scene window width)")
		height    = flag.Int("height", 0, "image height (default: scene window height)")
		steps     = flag.Int("steps", 120, "simulation steps before the frame is taken")
		shader    = flag.String("shader", "", "replacement WGSL sprite shader")
		output    = flag.String("output", "sprites.png", "output file")
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
	if *width > 0 {
		cfg.Window.Width = *width
	}
	if *height > 0 {
		cfg.Window.Height = *height
	}

	img, err := cfg.LoadAtlas()
	if err != nil {
		log.Fatalf("Failed to load atlas: %v", err)
	}

	rcfg := gpu.DefaultConfig()
	rcfg.Bounds = sprites.V2(cfg.World.Bounds[0], cfg.World.Bounds[1])
	if *shader != "" {
		// Diagnostics can be long; print them whole.
		if rcfg.Shader, err = gpu.LoadShader(*shader); err != nil {
			log.Fatalf("Failed to compile shader:\n%v", err)
		}
	}

	r, err := gpu.NewRenderer(rcfg)
	if err != nil {
		log.Fatalf("Failed to create renderer: %v", err)
	}
	defer r.Destroy()
	log.Printf("Adapter: %s", r.AdapterName())

	if err := r.SetAtlas(img); err != nil {
		log.Fatalf("Failed to upload atlas: %v", err)
	}
	w, h := uint32(cfg.Window.Width), uint32(cfg.Window.Height) //nolint:gosec // validated positive
	if err := r.SetOffscreenTarget(w, h); err != nil {
		log.Fatalf("Failed to create target: %v", err)
	}

	store := cfg.NewStore(img)
	clock := sprites.NewClock(cfg.Step())
	for range *steps {
		store.Step(clock.StepSeconds())
		store.GrowthSchedule(clock.Elapsed().Seconds())
		clock.Advance(clock.Step())
	}

	batch := sprites.NewBatch(r)
	batch.Sync(store)
	if err := batch.Submit(); err != nil {
		log.Fatalf("Failed to draw: %v", err)
	}
	pixels, err := r.ReadPixels()
	if err != nil {
		log.Fatalf("Failed to read pixels: %v", err)
	}

	if err := savePNG(*output, int(w), int(h), pixels); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	p := message.NewPrinter(language.English)
	log.Print(p.Sprintf("Saved %s (%dx%d): %d sprites after %d steps", *output, w, h, store.Count(), *steps))
}

func savePNG(path string, width, height int, pixels []byte) error {
	f, err := os.Create(path) //nolint:gosec // output path is user-provided
	if err != nil {
		return err
	}
	frame := &image.RGBA{Pix: pixels, Stride: width * 4, Rect: image.Rect(0, 0, width, height)}
	if err := png.Encode(f, frame); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
