package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/cartoongen/internal/assets"
	"github.com/iburimskiy/cartoongen/internal/config"
	"github.com/iburimskiy/cartoongen/internal/cue"
	"github.com/iburimskiy/cartoongen/internal/download"
	"github.com/iburimskiy/cartoongen/internal/game"
	"github.com/iburimskiy/cartoongen/internal/generate"
	"github.com/iburimskiy/cartoongen/internal/notice"
)

type options struct {
	configPath string
	endpoint   string
	assetDir   string
	prompt     string
	outDir     string
	sound      bool
	watch      bool
	debug      bool
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("cartoongen", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", config.DefaultPath, "path to the YAML config file")
	fs.StringVar(&o.endpoint, "endpoint", "", "image generation endpoint (overrides the config)")
	fs.StringVar(&o.assetDir, "assets", "", "directory with 1.png..6.png replacing the drawn faces")
	fs.StringVar(&o.prompt, "prompt", "", "generate one image for this prompt without opening a window")
	fs.StringVar(&o.outDir, "out", "", "directory the headless image is written to")
	fs.BoolVar(&o.sound, "sound", false, "play audio cues")
	fs.BoolVar(&o.watch, "watch", true, "reload motion tuning when the config file changes")
	fs.BoolVar(&o.debug, "debug", false, "enable debug logging")
	err := fs.Parse(args)
	return o, err
}

// loadConfig applies flag overrides on top of the config file.
func loadConfig(o options, log *slog.Logger) config.Config {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Debug("no config file, using defaults", "path", o.configPath)
		} else {
			log.Warn("using default config", "err", err)
		}
	}
	if o.endpoint != "" {
		cfg.Endpoint = o.endpoint
	}
	if o.assetDir != "" {
		cfg.AssetDir = o.assetDir
	}
	if o.outDir != "" {
		cfg.OutputDir = o.outDir
	}
	if o.sound {
		cfg.Sound = true
	}
	return cfg
}

// generateOnce is the headless mode: one request, one file.
func generateOnce(ctx context.Context, cfg config.Config, prompt string, log *slog.Logger) (string, error) {
	client := generate.NewClient(cfg.Endpoint, log)
	res, err := client.Generate(ctx, prompt)
	if err != nil {
		if errors.Is(err, generate.ErrEmptyPrompt) {
			return "", errors.New(generate.NoticeEmptyPrompt)
		}
		return "", fmt.Errorf("%s: %w", generate.NoticeOffline, err)
	}
	dir := cfg.OutputDir
	if dir == "" {
		dir = "."
	}
	return download.SaveTo(dir, res.DataURI())
}

func run(o options, log *slog.Logger) error {
	cfg := loadConfig(o, log)

	if o.prompt != "" {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		path, err := generateOnce(ctx, cfg, o.prompt, log)
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	}

	faces, err := assets.LoadAll(cfg.AssetDir, int(cfg.Motion.ElementSize))
	if err != nil {
		return fmt.Errorf("load faces: %w", err)
	}

	var updates <-chan config.Config
	if o.watch {
		w, err := config.Watch(o.configPath)
		if err != nil {
			log.Warn("config hot reload disabled", "err", err)
		} else {
			defer w.Close()
			updates = w.Updates
			go func() {
				for err := range w.Errors {
					log.Warn("config reload rejected", "err", err)
				}
			}()
		}
	}

	cues := cue.New(cfg.Sound, log)
	defer cues.Close()

	g, err := game.New(game.Options{
		Config:   cfg,
		Log:      log,
		Gen:      generate.NewClient(cfg.Endpoint, log),
		Notifier: notice.Dialog{Title: config.WindowTitle, Log: log},
		Faces:    faces,
		Updates:  updates,
		Cues:     cues,
	})
	if err != nil {
		return err
	}
	defer g.Close()

	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowTitle(config.WindowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	log.Info("starting", "endpoint", cfg.Endpoint, "faces", len(faces))
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

func main() {
	o, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	level := slog.LevelInfo
	if o.debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	if err := run(o, log); err != nil {
		log.Error("cartoongen failed", "err", err)
		os.Exit(1)
	}
}
