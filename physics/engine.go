// Package physics runs the ball simulation on top of a Chipmunk space: the
// viewport walls, the page boundaries, the drain that collects balls into
// the chute queue and the chute exit that releases them again.
package physics

import (
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/ballpit/chute"
	"github.com/milk9111/ballpit/config"
	"github.com/milk9111/ballpit/sched"
)

const (
	collisionTypeBall cp.CollisionType = iota + 1
	collisionTypeWall
	collisionTypeBoundary
)

const (
	categoryBall uint = 1 << iota
	categoryBoundary
)

var (
	ErrNotInitialized = errors.New("physics: engine not initialized")
	ErrNoCanvas       = errors.New("physics: canvas has no size")
	ErrCleanedUp      = errors.New("physics: engine cleaned up")
)

// State is the engine lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateInitialized
	StateRunning
	StateStopped
	StateCleanedUp
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	case StateCleanedUp:
		return "cleaned-up"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Stats is a snapshot for debug overlays.
type Stats struct {
	State      State
	Width      float64
	Height     float64
	Balls      int
	Collecting int
	Boundaries int
	Queued     int
	Capacity   int
}

// Engine owns the space, every body in it and the per-frame bookkeeping.
// It is not safe for concurrent use; everything runs on the game loop.
type Engine struct {
	cfg   *config.Config
	queue *chute.Queue
	sched *sched.Scheduler
	rng   *rand.Rand
	debug bool

	state  State
	space  *cp.Space
	width  float64
	height float64
	walls  []*cp.Body

	balls      []*Ball
	byID       map[BallID]*Ball
	nextID     BallID
	visual     map[BallID]VisualState
	collecting map[BallID]*collection

	mappers       []*BoundaryMapper
	domBoundaries map[*cp.Body]string
	reactor       *Reactor

	hooks       map[int]func(dt float64)
	hookOrder   []int
	removed     map[int]func(*Ball)
	removeOrder []int
	nextHook    int
}

// New creates an uninitialized engine. queue receives collected balls and
// s runs the reaction timers.
func New(cfg *config.Config, queue *chute.Queue, s *sched.Scheduler) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	e := &Engine{
		cfg:           cfg,
		queue:         queue,
		sched:         s,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
		debug:         cfg.Debug,
		byID:          make(map[BallID]*Ball),
		visual:        make(map[BallID]VisualState),
		collecting:    make(map[BallID]*collection),
		domBoundaries: make(map[*cp.Body]string),
		hooks:         make(map[int]func(float64)),
		removed:       make(map[int]func(*Ball)),
	}
	e.reactor = NewReactor(s, cfg.Reaction.Lead())
	return e
}

// SetSeed makes ball placement and release jitter deterministic.
func (e *Engine) SetSeed(seed int64) {
	if e == nil {
		return
	}
	e.rng = rand.New(rand.NewSource(seed))
}

func (e *Engine) SetDebug(debug bool) {
	if e == nil {
		return
	}
	e.debug = debug
	e.reactor.debug = debug
}

func (e *Engine) Debug() bool {
	return e != nil && e.debug
}

func (e *Engine) logf(format string, args ...any) {
	if e.debug {
		log.Printf(format, args...)
	}
}

// Config returns the live configuration.
func (e *Engine) Config() *config.Config {
	if e == nil {
		return nil
	}
	return e.cfg
}

// SetConfig swaps tunables at runtime. Existing bodies keep their material;
// the drain, chute exit, hover and reaction settings apply from the next
// frame.
func (e *Engine) SetConfig(cfg *config.Config) {
	if e == nil || cfg == nil {
		return
	}
	e.cfg = cfg
	e.reactor.lead = cfg.Reaction.Lead()
	if e.space != nil {
		e.space.SetGravity(cp.Vector{X: 0, Y: cfg.World.Gravity})
		if cfg.World.Iterations > 0 {
			e.space.Iterations = uint(cfg.World.Iterations)
		}
	}
	e.SetDebug(cfg.Debug)
}

func (e *Engine) Queue() *chute.Queue {
	if e == nil {
		return nil
	}
	return e.queue
}

func (e *Engine) Scheduler() *sched.Scheduler {
	if e == nil {
		return nil
	}
	return e.sched
}

// Space returns the underlying Chipmunk space, nil before Init.
func (e *Engine) Space() *cp.Space {
	if e == nil {
		return nil
	}
	return e.space
}

func (e *Engine) State() State {
	if e == nil {
		return StateUninitialized
	}
	return e.state
}

// Initialized reports whether the world exists.
func (e *Engine) Initialized() bool {
	return e != nil && e.space != nil && (e.state == StateInitialized || e.state == StateRunning || e.state == StateStopped)
}

func (e *Engine) Size() (float64, float64) {
	if e == nil {
		return 0, 0
	}
	return e.width, e.height
}

// Init creates the space, builds the viewport walls, attaches the collision
// handlers and populates the scene.
func (e *Engine) Init(width, height float64) error {
	if e == nil {
		return ErrNotInitialized
	}
	if e.state == StateCleanedUp {
		return ErrCleanedUp
	}
	if e.state != StateUninitialized {
		return nil
	}
	if width <= 0 || height <= 0 {
		log.Printf("PhysicsEngine: cannot init with canvas %vx%v", width, height)
		return ErrNoCanvas
	}

	space := cp.NewSpace()
	space.Iterations = 20
	if e.cfg.World.Iterations > 0 {
		space.Iterations = uint(e.cfg.World.Iterations)
	}
	space.SetGravity(cp.Vector{X: 0, Y: e.cfg.World.Gravity})
	e.space = space
	e.width = width
	e.height = height
	e.walls = e.buildWalls(width, height)
	e.setupHandlers()
	e.state = StateInitialized

	if e.cfg.World.PrefillQueue {
		e.PrefillQueue(e.queue.Cap())
	} else {
		e.SpawnBalls(e.cfg.World.InitialBalls)
	}
	e.logf("PhysicsEngine: initialized %vx%v with %d balls", width, height, len(e.balls))
	return nil
}

// Start begins stepping. It requires Init.
func (e *Engine) Start() error {
	if e == nil || e.space == nil {
		return ErrNotInitialized
	}
	switch e.state {
	case StateInitialized, StateStopped:
		e.state = StateRunning
		e.logf("PhysicsEngine: running")
		return nil
	case StateRunning:
		return nil
	case StateCleanedUp:
		return ErrCleanedUp
	}
	return ErrNotInitialized
}

// Stop halts stepping. Calling it again is a no-op.
func (e *Engine) Stop() {
	if e == nil || e.state != StateRunning {
		return
	}
	e.state = StateStopped
	e.logf("PhysicsEngine: stopped")
}

func (e *Engine) Running() bool {
	return e != nil && e.state == StateRunning
}

// Cleanup stops the engine and removes every body from the world.
func (e *Engine) Cleanup() {
	if e == nil || e.state == StateCleanedUp {
		return
	}
	e.Stop()
	for _, m := range append([]*BoundaryMapper(nil), e.mappers...) {
		m.UnregisterAll()
	}
	for _, b := range append([]*Ball(nil), e.balls...) {
		e.RemoveBall(b)
	}
	e.removeWalls(e.walls)
	e.walls = nil
	e.space = nil
	e.mappers = nil
	e.domBoundaries = make(map[*cp.Body]string)
	e.state = StateCleanedUp
	e.logf("PhysicsEngine: cleaned up")
}

// Frame advances the simulation by dt seconds and runs the collection
// bookkeeping. A panic inside one frame is logged and swallowed so the loop
// keeps going.
func (e *Engine) Frame(dt float64) {
	if e == nil || e.state != StateRunning || e.space == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("PhysicsEngine: frame error: %v", r)
		}
	}()
	if dt <= 0 {
		dt = 1.0 / 60.0
	}
	for _, id := range append([]int(nil), e.hookOrder...) {
		if fn, ok := e.hooks[id]; ok {
			fn(dt)
		}
	}
	e.space.Step(dt)
	e.updateCollection()
}

// AddStepHook runs fn before every space step.
func (e *Engine) AddStepHook(fn func(dt float64)) func() {
	if e == nil || fn == nil {
		return func() {}
	}
	e.nextHook++
	id := e.nextHook
	e.hooks[id] = fn
	e.hookOrder = append(e.hookOrder, id)
	return func() {
		delete(e.hooks, id)
		e.hookOrder = removeInt(e.hookOrder, id)
	}
}

// OnBallRemoved registers fn for every ball leaving the world.
func (e *Engine) OnBallRemoved(fn func(*Ball)) func() {
	if e == nil || fn == nil {
		return func() {}
	}
	e.nextHook++
	id := e.nextHook
	e.removed[id] = fn
	e.removeOrder = append(e.removeOrder, id)
	return func() {
		delete(e.removed, id)
		e.removeOrder = removeInt(e.removeOrder, id)
	}
}

func removeInt(list []int, v int) []int {
	for i, x := range list {
		if x == v {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// RegisterBoundaryMapper lets the engine find boundary metadata during
// collisions and resync mappers after canvas resizes.
func (e *Engine) RegisterBoundaryMapper(m *BoundaryMapper) {
	if e == nil || m == nil {
		return
	}
	for _, existing := range e.mappers {
		if existing == m {
			return
		}
	}
	e.mappers = append(e.mappers, m)
}

func (e *Engine) registerDomBoundary(body *cp.Body, id string) {
	e.domBoundaries[body] = id
}

func (e *Engine) unregisterDomBoundary(body *cp.Body) {
	delete(e.domBoundaries, body)
}

// DomBoundaries returns the boundary bodies by id, for debug drawing.
func (e *Engine) DomBoundaries() map[string]*cp.Body {
	if e == nil {
		return nil
	}
	out := make(map[string]*cp.Body, len(e.domBoundaries))
	for body, id := range e.domBoundaries {
		out[id] = body
	}
	return out
}

func (e *Engine) Stats() Stats {
	if e == nil {
		return Stats{}
	}
	return Stats{
		State:      e.state,
		Width:      e.width,
		Height:     e.height,
		Balls:      len(e.balls),
		Collecting: len(e.collecting),
		Boundaries: len(e.domBoundaries),
		Queued:     e.queue.Len(),
		Capacity:   e.queue.Cap(),
	}
}

// airDamping converts a per-60Hz-step air friction into a damping factor
// for a step of dt seconds.
func airDamping(airFriction, dt float64) float64 {
	if airFriction <= 0 {
		return 1
	}
	if airFriction >= 1 {
		return 0
	}
	return math.Pow(1-airFriction, dt*60)
}
