package main

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/ballpit/chute"
	"github.com/milk9111/ballpit/config"
	"github.com/milk9111/ballpit/interact"
	"github.com/milk9111/ballpit/page"
	"github.com/milk9111/ballpit/physics"
	"github.com/milk9111/ballpit/render"
	"github.com/milk9111/ballpit/sched"
	"github.com/milk9111/ballpit/store"
	"github.com/milk9111/ballpit/ui"
	"golang.design/x/clipboard"
)

const (
	defaultWidth  = 1280
	defaultHeight = 800
	scrollStep    = 48
	releaseWindow = 2 * time.Second
)

type Options struct {
	ConfigPath string
	PagePath   string
	Debug      bool
	Prefill    bool
	Watch      bool
	Seed       int64
}

// Game wires the page, the simulation and the input together. Everything
// runs on the ebiten update goroutine.
type Game struct {
	opts Options
	cfg  *config.Config

	sched  *sched.Scheduler
	queue  *chute.Queue
	mode   *store.Interaction
	page   *page.Page
	engine *physics.Engine
	mapper *physics.BoundaryMapper
	regs   map[string]*physics.Registration

	drag   *interact.DragManager
	hover  *interact.HoverDetector
	cursor *windowCursor
	scene  *render.Scene
	panel  *ui.ChutePanel

	watcher   *config.Watcher
	clipboard bool

	width, height int
	dragging      bool
	canvasInput   bool
	unsubPointer  func()
}

func NewGame(opts Options) (*Game, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.Debug {
		cfg.Debug = true
	}
	if opts.Prefill {
		cfg.World.PrefillQueue = true
	}
	doc, err := page.Load(opts.PagePath)
	if err != nil {
		return nil, err
	}

	g := &Game{
		opts:   opts,
		cfg:    cfg,
		sched:  sched.New(),
		mode:   store.NewInteraction(),
		regs:   make(map[string]*physics.Registration),
		cursor: &windowCursor{},
		width:  defaultWidth,
		height: defaultHeight,
	}
	g.unsubPointer = g.mode.SubscribePointerEvents(func(pe store.PointerEvents) {
		g.canvasInput = pe == store.PointerEventsAuto
	})
	g.queue = chute.NewQueue(cfg.Chute.Capacity, nil)
	g.queue.SetDebug(cfg.Debug)
	g.page = page.New(doc, defaultWidth, defaultHeight)

	g.engine = physics.New(cfg, g.queue, g.sched)
	if opts.Seed != 0 {
		g.engine.SetSeed(opts.Seed)
	}
	canvas, _ := g.page.Canvas().BoundingClientRect()
	if err := g.engine.Init(canvas.Width, canvas.Height); err != nil {
		return nil, fmt.Errorf("game: init physics: %w", err)
	}
	if err := g.engine.Start(); err != nil {
		return nil, fmt.Errorf("game: start physics: %w", err)
	}
	g.mapper = physics.NewBoundaryMapper(g.engine, g.page.Main(), g.observe)
	g.page.ObserveResize(g.page.Canvas(), g.onCanvasResize)
	g.page.ObserveLayout(g.mapper.ResyncAll)
	g.attachCards()

	g.drag = interact.NewDragManager(g.engine, g.page.Canvas(), g.cursor)
	if !g.drag.Start() {
		log.Printf("Game: drag disabled")
	}
	g.hover = interact.NewHoverDetector(g.engine, g.page.Canvas(), g.mode, g.cursor, interact.HoverOptions{
		Radius:   cfg.Hover.Radius,
		Interval: cfg.Hover.Interval(),
	})
	g.hover.Start(g.sched)

	g.scene, err = render.NewScene(g.engine, g.page, cfg.Rendering)
	if err != nil {
		return nil, err
	}
	g.scene.SetDebug(cfg.Debug)
	g.panel = ui.NewChutePanel(g.queue, g.release, g.queue.Clear)

	if opts.Watch {
		g.startWatcher()
	}
	if err := clipboard.Init(); err != nil {
		log.Printf("Game: clipboard unavailable: %v", err)
	} else {
		g.clipboard = true
	}
	return g, nil
}

// observe adapts page resize observers to the boundary mapper.
func (g *Game) observe(el physics.Element, fn func()) func() {
	pe, ok := el.(*page.Element)
	if !ok {
		return nil
	}
	return g.page.ObserveResize(pe, fn).Disconnect
}

func (g *Game) onCanvasResize() {
	r, ok := g.page.Canvas().BoundingClientRect()
	if !ok {
		return
	}
	g.engine.Resize(r.Width, r.Height)
}

// attachCards registers a boundary for every card that wants one and
// refreshes the options of cards already registered.
func (g *Game) attachCards() {
	delay := g.cfg.Boundary.RegisterDelay()
	for _, el := range g.page.Cards() {
		card := el.Card()
		if card == nil {
			continue
		}
		reg, ok := g.regs[el.ID()]
		if card.Boundary.Disabled {
			if ok {
				reg.Destroy()
				delete(g.regs, el.ID())
			}
			continue
		}
		opts := physics.OptionsFromSpec(card.Boundary)
		if ok {
			reg.Update(opts)
			continue
		}
		g.regs[el.ID()] = physics.Attach(g.sched, g.mapper, el, el.ID(), opts, delay)
	}
}

func (g *Game) release() {
	if _, ok := g.engine.ReleaseNext(); ok {
		g.mode.TemporaryBallInteraction(g.sched, releaseWindow)
	}
}

func (g *Game) Update() error {
	dt := 1.0 / float64(ebiten.TPS())

	g.pollWatcher()
	g.handleInput()
	g.panel.UI.Update()

	g.sched.Advance(time.Duration(dt * float64(time.Second)))
	g.page.Flush()
	g.engine.Frame(dt)
	g.scene.Update(dt)
	return nil
}

func (g *Game) handleInput() {
	if _, dy := ebiten.Wheel(); dy != 0 {
		g.page.Scroll(-dy * scrollStep)
	}

	cx, cy := ebiten.CursorPosition()
	x, y := float64(cx), float64(cy)
	g.hover.HandleMouseMove(x, y)

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && g.canvasInput {
		g.dragging = g.drag.PointerDown(x, y)
	}
	if g.dragging {
		g.drag.PointerMove(x, y)
		if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
			g.drag.PointerUp(x, y)
			g.dragging = false
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.release()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		g.setDebug(!g.cfg.Debug)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyStats()
	}
}

func (g *Game) setDebug(debug bool) {
	g.cfg.Debug = debug
	g.engine.SetDebug(debug)
	g.queue.SetDebug(debug)
	g.scene.SetDebug(debug)
	log.Printf("Game: debug %v", debug)
}

func (g *Game) copyStats() {
	if !g.clipboard {
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(render.FormatStats(g.engine.Stats(), ebiten.ActualFPS())))
	log.Printf("Game: stats copied")
}

func (g *Game) startWatcher() {
	var files []string
	for _, p := range []string{g.opts.ConfigPath, g.opts.PagePath} {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			log.Printf("Game: watch %s: %v", p, err)
			continue
		}
		files = append(files, abs)
	}
	if len(files) == 0 {
		return
	}
	w, err := config.NewWatcher(files...)
	if err != nil {
		log.Printf("Game: watch: %v", err)
		return
	}
	g.watcher = w
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for _, changed := range g.watcher.Poll() {
		switch {
		case samePath(changed, g.opts.ConfigPath):
			g.reloadConfig()
		case samePath(changed, g.opts.PagePath):
			g.reloadPage()
		}
	}
}

func samePath(a, b string) bool {
	if b == "" {
		return false
	}
	abs, err := filepath.Abs(b)
	return err == nil && filepath.Clean(a) == abs
}

func (g *Game) reloadConfig() {
	cfg, err := config.Load(g.opts.ConfigPath)
	if err != nil {
		log.Printf("Game: reload config: %v", err)
		return
	}
	cfg.Debug = g.cfg.Debug
	g.cfg = cfg
	g.engine.SetConfig(cfg)
	g.scene.SetConfig(cfg.Rendering)
	g.hover.SetOptions(interact.HoverOptions{
		Radius:   cfg.Hover.Radius,
		Interval: cfg.Hover.Interval(),
	})
	log.Printf("Game: config reloaded")
}

func (g *Game) reloadPage() {
	doc, err := page.Load(g.opts.PagePath)
	if err != nil {
		log.Printf("Game: reload page: %v", err)
		return
	}
	_, removed := g.page.Apply(doc)
	for _, el := range removed {
		if reg, ok := g.regs[el.ID()]; ok {
			reg.Destroy()
			delete(g.regs, el.ID())
		}
	}
	g.attachCards()
	log.Printf("Game: page reloaded, %d cards", len(g.page.Cards()))
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
	g.panel.UI.Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 && (outsideWidth != g.width || outsideHeight != g.height) {
		g.width, g.height = outsideWidth, outsideHeight
		g.page.Resize(float64(outsideWidth), float64(outsideHeight))
	}
	return g.width, g.height
}

// Close tears down in reverse order of construction.
func (g *Game) Close() {
	if g == nil {
		return
	}
	if g.watcher != nil {
		g.watcher.Close()
	}
	g.unsubPointer()
	g.panel.Close()
	g.hover.Stop()
	g.drag.Stop()
	for id, reg := range g.regs {
		reg.Destroy()
		delete(g.regs, id)
	}
	g.engine.Cleanup()
}
