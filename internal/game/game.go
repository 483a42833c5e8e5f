// Package game is the windowed front-end: floating faces that flee the
// pointer behind a prompt card that requests cartoon images.
package game

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/iburimskiy/cartoongen/internal/binder"
	"github.com/iburimskiy/cartoongen/internal/config"
	"github.com/iburimskiy/cartoongen/internal/cue"
	"github.com/iburimskiy/cartoongen/internal/download"
	"github.com/iburimskiy/cartoongen/internal/form"
	"github.com/iburimskiy/cartoongen/internal/frame"
	"github.com/iburimskiy/cartoongen/internal/motion"
	"github.com/iburimskiy/cartoongen/internal/notice"
)

// Options wires a Game. Zero fields get working defaults except Gen.
type Options struct {
	Config   config.Config
	Log      *slog.Logger
	Gen      form.Generator
	Notifier notice.Notifier
	// Faces are the floating images, one element per face.
	Faces []image.Image
	// Updates delivers reloaded configuration.
	Updates <-chan config.Config
	Cues    *cue.Player
	Saver   *download.Saver
	Rand    motion.Rand
}

type saveOutcome struct {
	path string
	err  error
}

type Game struct {
	log  *slog.Logger
	cfg  config.Config
	form *form.Form
	view *formView

	frames  *frame.Queue
	engine  *motion.Engine
	binder  *binder.Binder
	faces   []*ebiten.Image
	sprites sprites

	cues    *cue.Player
	saver   *download.Saver
	clip    download.Clipboard
	updates <-chan config.Config
	saves   chan saveOutcome
	saving  bool

	titleFace text.Face
	width     int
	height    int
	time      float64
	result    *ebiten.Image

	status      string
	statusUntil time.Time

	// input edge detection
	prevKey map[ebiten.Key]bool
}

func New(o Options) (*Game, error) {
	if o.Gen == nil {
		return nil, errors.New("game: a generator is required")
	}
	if o.Log == nil {
		o.Log = slog.Default()
	}
	if o.Notifier == nil {
		o.Notifier = notice.Log{Log: o.Log}
	}
	if o.Saver == nil {
		o.Saver = download.NewSaver(nil, o.Log)
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}

	regular, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	bold, err := text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF))
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}

	g := &Game{
		log:       o.Log,
		cfg:       o.Config,
		frames:    frame.NewQueue(),
		cues:      o.Cues,
		saver:     o.Saver,
		updates:   o.Updates,
		saves:     make(chan saveOutcome, 1),
		titleFace: &text.GoTextFace{Source: bold, Size: config.TitleFontSize},
		width:     config.WindowWidth,
		height:    config.WindowHeight,
		prevKey:   map[ebiten.Key]bool{},
	}
	for _, img := range o.Faces {
		g.faces = append(g.faces, ebiten.NewImageFromImage(img))
	}

	g.engine = motion.NewEngine(len(g.faces),
		motion.Bounds{W: config.WindowWidth, H: config.WindowHeight},
		o.Config.Motion.Params(), o.Rand)
	g.sprites = make(sprites, len(g.faces))
	g.binder = binder.New(g.engine, g.frames, g.sprites.lookup, g.bounds, o.Log)
	g.binder.Intensity = o.Config.Motion.Intensity
	g.binder.OnScatter = func(int) { g.cues.Scatter() }

	g.form = form.New(o.Gen, o.Notifier, o.Log)

	var face text.Face = &text.GoTextFace{Source: regular, Size: config.FontSize}
	var heading text.Face = &text.GoTextFace{Source: bold, Size: config.FontSize + 6}
	g.view = newFormView(&face, &heading, formHandlers{
		Prompt:   g.form.SetPrompt,
		Generate: g.generate,
		Download: g.download,
		Copy:     g.copyResult,
		Another:  g.another,
	})

	g.binder.Mount()
	return g, nil
}

func (g *Game) Update() error {
	justPressed := func(k ebiten.Key) bool {
		pressed := ebiten.IsKeyPressed(k)
		jp := pressed && !g.prevKey[k]
		g.prevKey[k] = pressed
		return jp
	}
	if justPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	g.time += 1.0 / float64(ebiten.TPS())
	g.drainConfig()
	if g.form.Poll() {
		g.syncResult()
	}
	g.drainSaves()

	g.view.ui.Update()
	g.view.setLoading(g.form.Loading())

	g.trackPointer()
	g.frames.Flush()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	drawBackdrop(screen, g.time, g.cues.Level())

	g.sprites.attach(g.engine, g.faces)
	for _, s := range g.sprites {
		if s != nil {
			s.draw(screen)
		}
	}

	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(g.width)/2, config.TitleY)
	op.ColorScale.ScaleWithColor(inkColor)
	op.PrimaryAlign = text.AlignCenter
	text.Draw(screen, config.WindowTitle, g.titleFace, op)

	g.view.ui.Draw(screen)
	g.drawStatus(screen)
}

func (g *Game) drawStatus(screen *ebiten.Image) {
	var status string
	switch {
	case g.form.Loading():
		status = "Generating... " + formatDuration(g.form.Elapsed())
	case g.saving:
		status = "Waiting for the save dialog..."
	case g.status != "" && time.Now().Before(g.statusUntil):
		status = g.status
	default:
		return
	}
	ebitenutil.DebugPrintAt(screen, status, 12, g.height-24)
}

// Layout uses the full window so resizing changes the bounds the faces
// bounce in.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

// Close stops the frame loop and cancels a running request.
func (g *Game) Close() {
	g.binder.Unmount()
	g.form.Close()
	if g.result != nil {
		g.result.Deallocate()
		g.result = nil
	}
}

func (g *Game) bounds() motion.Bounds {
	return motion.Bounds{W: float64(g.width), H: float64(g.height)}
}

func (g *Game) trackPointer() {
	x, y := ebiten.CursorPosition()
	inside := x >= 0 && y >= 0 && x < g.width && y < g.height
	if !inside || g.view.covers(x, y) {
		g.binder.PointerLeave()
		return
	}
	g.binder.PointerMove(motion.Vec2{X: float64(x), Y: float64(y)})
}

func (g *Game) setStatus(msg string) {
	g.status = msg
	g.statusUntil = time.Now().Add(config.StatusDuration * time.Second)
}

func (g *Game) drainConfig() {
	for {
		select {
		case cfg, ok := <-g.updates:
			if !ok {
				g.updates = nil
				return
			}
			g.applyConfig(cfg)
		default:
			return
		}
	}
}

func (g *Game) applyConfig(cfg config.Config) {
	if cfg.Endpoint != g.cfg.Endpoint {
		g.log.Warn("endpoint changes apply on restart", "endpoint", cfg.Endpoint)
	}
	g.engine.SetParams(cfg.Motion.Params())
	g.binder.Intensity = cfg.Motion.Intensity
	g.sprites.resize(cfg.Motion.ElementSize)
	g.cfg = cfg
	g.log.Info("motion tuning reloaded",
		"element_size", cfg.Motion.ElementSize,
		"damping", cfg.Motion.Damping,
		"intensity", cfg.Motion.Intensity)
	g.setStatus("Config reloaded")
}

func (g *Game) generate() {
	err := g.form.Submit()
	switch {
	case err == nil:
		g.view.setLoading(true)
	case errors.Is(err, form.ErrBusy):
		g.log.Debug("generate ignored", "err", err)
	default:
		// the form already raised the notice
		g.log.Info("generate rejected", "err", err)
	}
}

// syncResult shows the image of a finished request.
func (g *Game) syncResult() {
	res := g.form.Result()
	if res == nil {
		return
	}
	img, _, err := image.Decode(bytes.NewReader(res.PNG))
	if err != nil {
		g.log.Warn("decode generated image", "err", err)
		g.setStatus("The generated image could not be decoded")
		g.form.Reset()
		return
	}
	g.setResult(img)
	g.view.showResult(g.result)
	g.cues.Chime()
	g.log.Info("image ready", "prompt", res.Prompt, "took", res.Took)
}

func (g *Game) setResult(img image.Image) {
	if g.result != nil {
		g.result.Deallocate()
	}
	src := ebiten.NewImageFromImage(img)
	b := img.Bounds()
	w, h := fitSize(b.Dx(), b.Dy(), config.ResultMaxSide)
	if w == b.Dx() && h == b.Dy() {
		g.result = src
		return
	}
	dst := ebiten.NewImage(w, h)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(w)/float64(b.Dx()), float64(h)/float64(b.Dy()))
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(src, op)
	src.Deallocate()
	g.result = dst
}

func (g *Game) download() {
	res := g.form.Result()
	if res == nil || g.saving {
		return
	}
	uri := res.DataURI()
	if dir := g.cfg.OutputDir; dir != "" {
		path, err := download.SaveTo(dir, uri)
		g.saves <- saveOutcome{path: path, err: err}
		return
	}
	// The dialog blocks, keep it off the game goroutine.
	g.saving = true
	go func() {
		path, err := g.saver.Save(uri)
		g.saves <- saveOutcome{path: path, err: err}
	}()
}

func (g *Game) drainSaves() {
	select {
	case o := <-g.saves:
		g.saving = false
		switch {
		case o.err != nil:
			g.log.Warn("save failed", "err", o.err)
			g.setStatus("Save failed: " + o.err.Error())
		case o.path == "":
			g.log.Debug("save cancelled")
		default:
			g.setStatus("Saved " + o.path)
		}
	default:
	}
}

func (g *Game) copyResult() {
	res := g.form.Result()
	if res == nil {
		return
	}
	if err := g.clip.CopyImage(res.PNG); err != nil {
		g.log.Warn("copy failed", "err", err)
		g.setStatus(err.Error())
		return
	}
	g.setStatus("Copied to clipboard")
}

func (g *Game) another() {
	g.form.Reset()
	g.view.showPrompt()
}
