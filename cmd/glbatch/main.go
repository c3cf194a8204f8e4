// Package main provides the glbatch command, an animated demo of the batched
// 2D triangle renderer.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tinyrange/glbatch/internal/config"
	"github.com/tinyrange/glbatch/internal/gowin/capture"
	"github.com/tinyrange/glbatch/internal/gowin/gl"
	"github.com/tinyrange/glbatch/internal/gowin/gldebug"
	"github.com/tinyrange/glbatch/internal/gowin/graphics"
	"github.com/tinyrange/glbatch/internal/gowin/window"
	"github.com/tinyrange/glbatch/internal/timeslice"
)

func init() {
	// GLFW and the GL context are bound to the main thread.
	runtime.LockOSThread()
}

func main() {
	if err := run(); err != nil {
		slog.Error("glbatch failed", "err", err)
		os.Exit(1)
	}
}

type options struct {
	configPath  string
	writeConfig string
	width       int
	height      int
	debug       bool
	screenshot  string
	frames      int
	trace       string
	verbose     bool
}

func parseFlags(args []string) (options, *flag.FlagSet, error) {
	var o options
	fs := flag.NewFlagSet("glbatch", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "", "path to a YAML config file")
	fs.StringVar(&o.writeConfig, "write-config", "", "write the effective config to this path and exit")
	fs.IntVar(&o.width, "width", 0, "initial window width")
	fs.IntVar(&o.height, "height", 0, "initial window height")
	fs.BoolVar(&o.debug, "debug", false, "enable OpenGL debug output")
	fs.StringVar(&o.screenshot, "screenshot", "", "write the last frame to this file (.png, .webp, .tga, .bmp)")
	fs.IntVar(&o.frames, "frames", 0, "exit after this many frames (0 = run until closed)")
	fs.StringVar(&o.trace, "trace", "", "record frame phase timings to this file")
	fs.BoolVar(&o.verbose, "v", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return options{}, nil, err
	}
	return o, fs, nil
}

// loadConfig reads the config file, if any, and applies the flags that were
// set explicitly on top of it.
func loadConfig(o options, fs *flag.FlagSet) (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return config.Config{}, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.Window.Width = o.width
		case "height":
			cfg.Window.Height = o.height
		case "debug":
			cfg.Debug.Enabled = o.debug
			if o.debug && cfg.Debug.Output == "" {
				cfg.Debug.Output = "stderr"
			}
		case "screenshot":
			cfg.Capture.Screenshot = o.screenshot
		case "frames":
			cfg.Capture.Frames = o.frames
		case "trace":
			cfg.Capture.Trace = o.trace
		case "v":
			if o.verbose {
				cfg.Log.Level = "debug"
			}
		}
	})

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func openDebugOutput(name string) (io.Writer, func() error, error) {
	switch name {
	case "":
		return nil, func() error { return nil }, nil
	case "stderr":
		return os.Stderr, func() error { return nil }, nil
	case "stdout":
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(name)
	if err != nil {
		return nil, nil, fmt.Errorf("open debug output: %w", err)
	}
	return f, f.Close, nil
}

func run() error {
	o, fs, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := loadConfig(o, fs)
	if err != nil {
		return err
	}

	if o.writeConfig != "" {
		if err := config.Write(o.writeConfig, cfg); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", o.writeConfig)
		return nil
	}

	level, _ := cfg.LogLevel()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.Log.Source,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	win, err := window.New(window.Options{
		Title:     cfg.Window.Title,
		Width:     cfg.Window.Width,
		Height:    cfg.Window.Height,
		Debug:     cfg.Debug.Enabled,
		VSync:     cfg.Window.VSync,
		Resizable: !cfg.Window.FixedSize,
	})
	if err != nil {
		return err
	}
	defer win.Close()

	dev, err := win.GL()
	if err != nil {
		return err
	}
	if err := gl.RequireVersion(dev, 3, 3); err != nil {
		return err
	}
	slog.Info("OpenGL context", "info", gl.QueryInfo(dev), "scale", win.Scale())

	if cfg.Debug.Enabled {
		w, closeOutput, err := openDebugOutput(cfg.Debug.Output)
		if err != nil {
			return err
		}
		defer closeOutput()

		sink := gldebug.New(slog.Default(), w)
		if err := sink.Enable(dev); errors.Is(err, gldebug.ErrUnsupported) {
			slog.Warn("debug output requested but not supported by driver")
		} else if err != nil {
			return err
		}
	}

	clearColor, err := config.ParseColor(cfg.Renderer.ClearColor)
	if err != nil {
		return err
	}
	renderer := graphics.NewRenderer(dev, graphics.RendererOptions{
		MaxTriangles:     cfg.Renderer.MaxTriangles,
		ClearColor:       clearColor,
		ClearOnAutoFlush: cfg.Renderer.ClearOnAutoFlush,
	})
	if err := renderer.Setup(); err != nil {
		return err
	}
	defer renderer.Cleanup()

	width, height := win.BackingSize()
	if err := renderer.Resize(width, height); err != nil {
		return fmt.Errorf("initial framebuffer %dx%d: %w", width, height, err)
	}
	win.SetResizeCallback(func(w, h int) {
		// Minimized windows report a zero-sized framebuffer.
		if w == 0 || h == 0 {
			return
		}
		if err := renderer.Resize(w, h); err != nil {
			slog.Warn("resize", "width", w, "height", h, "err", err)
			return
		}
		width, height = w, h
		slog.Debug("framebuffer resized", "width", w, "height", h)
	})

	trace, closeTrace, err := openTrace(cfg.Capture.Trace)
	if err != nil {
		return err
	}
	defer closeTrace()

	return loop(ctx, cfg, win, dev, renderer, trace, &width, &height)
}

// Trace phases, in recording order within a frame.
var traceKinds = []string{"update", "draw", "capture", "swap"}

// openTrace starts a timeslice trace at path. An empty path returns a nil
// writer, which records nothing.
func openTrace(path string) (*timeslice.Writer, func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open trace: %w", err)
	}
	w, err := timeslice.Open(f, traceKinds...)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return w, func() {
		if err := w.Close(); err != nil {
			slog.Warn("trace", "path", path, "err", err)
		}
		if err := f.Close(); err != nil {
			slog.Warn("trace", "path", path, "err", err)
		}
		stats := w.Stats()
		for _, kind := range traceKinds {
			s := stats[kind]
			slog.Info("frame phase", "phase", kind, "count", s.Count, "mean", s.Mean(), "max", s.Max)
		}
	}, nil
}

type frameCounters struct {
	frames      int
	flushes     int
	autoFlushes int
	triangles   int
}

func loop(ctx context.Context, cfg config.Config, win window.Window, dev gl.OpenGL, r *graphics.Renderer, trace *timeslice.Writer, width, height *int) error {
	sc := newScene(cfg.Window.Title, cfg.Scene.Shapes)
	showStats := false

	phases := timeslice.NewRecorder(trace)
	kindUpdate, _ := trace.Kind("update")
	kindDraw, _ := trace.Kind("draw")
	kindCapture, _ := trace.Kind("capture")
	kindSwap, _ := trace.Kind("swap")

	var counters frameCounters
	last := time.Now()
	statsStart := last

	for frame := 0; win.Poll(); frame++ {
		if ctx.Err() != nil {
			slog.Info("interrupted", "frames", frame)
			return nil
		}

		phases.Reset()
		now := time.Now()
		sc.update(now.Sub(last))
		last = now

		switch {
		case win.GetKeyState(window.KeySpace) == window.KeyStatePressed:
			sc.togglePause()
		case win.GetKeyState(window.KeyUp) == window.KeyStatePressed:
			sc.adjustShapes(shapeStep)
		case win.GetKeyState(window.KeyDown) == window.KeyStatePressed:
			sc.adjustShapes(-shapeStep)
		case win.GetKeyState(window.KeyRight) == window.KeyStatePressed:
			sc.adjustSpeed(2)
		case win.GetKeyState(window.KeyLeft) == window.KeyStatePressed:
			sc.adjustSpeed(0.5)
		case win.GetKeyState(window.KeyF1) == window.KeyStatePressed:
			showStats = !showStats
			if !showStats {
				win.SetTitle(cfg.Window.Title)
			}
		}

		phases.Mark(kindUpdate)

		if err := r.BeginFrame(); err != nil {
			return err
		}
		sc.draw(r, *width, *height)
		if err := r.EndFrame(); err != nil {
			return err
		}

		phases.Mark(kindDraw)

		stats := r.Stats()
		counters.frames++
		counters.flushes += stats.Flushes
		counters.autoFlushes += stats.AutoFlushes
		counters.triangles += stats.Triangles

		lastFrame := cfg.Capture.Frames > 0 && frame+1 >= cfg.Capture.Frames
		if win.GetKeyState(window.KeyF12) == window.KeyStatePressed {
			path := cfg.Capture.Screenshot
			if path == "" {
				path = fmt.Sprintf("glbatch-%05d.png", frame)
			}
			saveScreenshot(dev, *width, *height, path)
		} else if lastFrame && cfg.Capture.Screenshot != "" {
			saveScreenshot(dev, *width, *height, cfg.Capture.Screenshot)
		}

		phases.Mark(kindCapture)

		win.Swap()
		phases.Mark(kindSwap)

		if elapsed := now.Sub(statsStart); elapsed >= time.Second {
			fps := float64(counters.frames) / elapsed.Seconds()
			slog.Debug("frame stats",
				"fps", fmt.Sprintf("%.1f", fps),
				"flushes", counters.flushes,
				"autoFlushes", counters.autoFlushes,
				"triangles", counters.triangles/counters.frames,
				"shapes", sc.shapes,
				"highWater", r.Batch().HighWater(),
			)
			if showStats {
				win.SetTitle(fmt.Sprintf("%s - %.0f fps, %d tris/frame, %d draws/frame",
					cfg.Window.Title, fps, counters.triangles/counters.frames, counters.flushes/counters.frames))
			}
			counters = frameCounters{}
			statsStart = now
		}

		if lastFrame {
			slog.Info("frame limit reached", "frames", frame+1)
			return nil
		}
	}
	return nil
}

func saveScreenshot(dev gl.OpenGL, width, height int, path string) {
	if err := capture.Save(dev, width, height, path); err != nil {
		slog.Error("screenshot failed", "path", path, "err", err)
		return
	}
	slog.Info("screenshot saved", "path", path, "width", width, "height", height)
}
