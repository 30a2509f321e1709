package snakebot

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// The lifecycle of one game session.
type Phase uint8

const (
	// No cycle has been generated yet.
	PhaseUninitialized Phase = iota
	// The cycle, snake and food are in place, but no tick has run.
	PhaseReady
	// At least one tick has run and the game isn't over.
	PhaseRunning
	// The snake died or filled the board. Only Reset leaves this phase.
	PhaseOver
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseReady:
		return "ready"
	case PhaseRunning:
		return "running"
	case PhaseOver:
		return "over"
	}
	return fmt.Sprintf("Unknown phase: %d", uint8(p))
}

// MarshalText lets phases appear by name in JSON.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// The bounds of the speed multiplier accepted by SetSpeedMultiplier.
const (
	MinSpeedMultiplier = 0.5
	MaxSpeedMultiplier = 100.0
)

// Everything needed to start a game session.
type Config struct {
	// The side length of the square grid.
	Size int
	// Where the snake's head starts.
	SpawnX int
	SpawnY int
	// The number of segments the snake starts with, trailing behind the head.
	InitialLength int
	// The direction the snake starts out facing.
	Facing Direction
	// If not positive, a time-based seed is chosen.
	Seed int64
	// The time between steps at a speed multiplier of 1.
	StepInterval time.Duration
	// Scales the step rate. Clamped to [MinSpeedMultiplier,
	// MaxSpeedMultiplier].
	SpeedMultiplier float64
	Cutting         CuttingParams
}

// Returns the usual settings for a size x size grid: a right-facing snake of
// four segments with its head at (5, 5), moving five steps per second.
// Grids too small for that get a shorter snake ending at the left edge, with
// its head in the middle.
func DefaultConfig(size int) Config {
	toReturn := Config{
		Size:            size,
		SpawnX:          5,
		SpawnY:          5,
		InitialLength:   4,
		Facing:          Right,
		StepInterval:    200 * time.Millisecond,
		SpeedMultiplier: 1.0,
		Cutting:         DefaultCuttingParams(),
	}
	if size <= 5 {
		toReturn.SpawnX = size / 2
		toReturn.SpawnY = size / 2
		toReturn.InitialLength = toReturn.SpawnX + 1
	}
	return toReturn
}

// Returns a non-nil error if a game can't be started with the config.
func (c *Config) Validate() error {
	grid := NewGrid(c.Size)
	e := grid.Validate()
	if e != nil {
		return e
	}
	if c.InitialLength < 1 {
		return fmt.Errorf("Initial snake length must be at least 1, got %d",
			c.InitialLength)
	}
	if c.InitialLength >= grid.Size() {
		return fmt.Errorf("Initial snake length %d leaves no room on a %dx%d "+
			"grid", c.InitialLength, grid.Width, grid.Height)
	}
	head := Point{X: c.SpawnX, Y: c.SpawnY}
	dx, dy := c.Facing.Opposite().Delta()
	tail := Point{
		X: head.X + dx*(c.InitialLength-1),
		Y: head.Y + dy*(c.InitialLength-1),
	}
	if !grid.Contains(head) || !grid.Contains(tail) {
		return fmt.Errorf("A snake of length %d at %s facing %s doesn't fit "+
			"on a %dx%d grid", c.InitialLength, head, c.Facing, grid.Width,
			grid.Height)
	}
	if c.StepInterval <= 0 {
		return fmt.Errorf("Step interval must be positive, got %s",
			c.StepInterval)
	}
	return nil
}

// Limits a speed multiplier to the accepted range.
func clampSpeed(m float64) float64 {
	if m < MinSpeedMultiplier {
		return MinSpeedMultiplier
	}
	if m > MaxSpeedMultiplier {
		return MaxSpeedMultiplier
	}
	return m
}

// Describes what happened during a single tick.
type TickResult struct {
	// The direction the snake actually moved in.
	Direction Direction
	Kind      DecisionKind
	Ate       bool
	Died      bool
	// The phase after the tick.
	Phase Phase
}

// A read-only summary of a game session.
type State struct {
	SessionID string         `json:"sessionId"`
	Phase     Phase          `json:"phase"`
	Tick      int            `json:"tick"`
	Score     int            `json:"score"`
	Won       bool           `json:"won"`
	Snake     []Point        `json:"snake"`
	Facing    Direction      `json:"facing"`
	Food      *Point         `json:"food,omitempty"`
	Decisions map[string]int `json:"decisions"`
}

// One game session: a generated cycle, the snake steered along it, and the
// food it's chasing. Create using NewGame. Not safe for concurrent use; the
// session is driven by a single game loop.
type Game struct {
	config Config
	grid   Grid
	rng    RandomSource
	speed  float64

	// The session bundle. Reset replaces all of these together.
	sessionID string
	phase     Phase
	cycle     *HamiltonianCycle
	agent     *Agent
	snake     *Snake
	open      *OpenCells
	food      Point
	hasFood   bool
	score     int
	ticks     int
	won       bool
	stepTimer time.Duration
	decisions [4]int
}

// Generates a cycle and sets up a session that is ready for its first tick.
func NewGame(config Config) (*Game, error) {
	e := config.Validate()
	if e != nil {
		return nil, fmt.Errorf("Invalid game config: %w", e)
	}
	toReturn := &Game{
		config: config,
		grid:   NewGrid(config.Size),
		rng:    NewSeededSource(config.Seed),
		speed:  clampSpeed(config.SpeedMultiplier),
		phase:  PhaseUninitialized,
	}
	e = toReturn.Reset()
	if e != nil {
		return nil, e
	}
	return toReturn, nil
}

// Throws away the current session and starts a new one with a freshly
// generated cycle, a new snake and new food. The random source keeps running,
// so the new cycle differs from the old one. The speed multiplier is kept. On
// error, the previous session is left untouched.
func (g *Game) Reset() error {
	cycle, e := Generate(g.grid.Width, g.grid.Height, g.rng)
	if e != nil {
		return fmt.Errorf("Error generating cycle: %w", e)
	}
	snake, e := NewSnake(Point{X: g.config.SpawnX, Y: g.config.SpawnY},
		g.config.InitialLength, g.config.Facing)
	if e != nil {
		return e
	}
	open := NewOpenCells(g.grid, snake.Positions())
	food, hasFood := open.Random(g.rng)

	g.sessionID = uuid.New().String()
	g.phase = PhaseReady
	g.cycle = cycle
	g.agent = NewAgent(cycle, g.config.Cutting)
	g.snake = snake
	g.open = open
	g.food = food
	g.hasFood = hasFood
	g.score = 0
	g.ticks = 0
	g.won = false
	g.stepTimer = 0
	g.decisions = [4]int{}
	return nil
}

// Asks the agent for a move and advances the snake one cell. Eating the food
// grows the snake and places new food; hitting a wall or the body ends the
// game, as does eating when no open cell is left for new food. Does nothing
// once the game is over.
func (g *Game) Tick() TickResult {
	if g.phase == PhaseOver {
		return TickResult{Direction: g.snake.Facing(), Kind: DecisionTrapped,
			Phase: g.phase}
	}
	g.phase = PhaseRunning
	d, kind := g.agent.DecideWithKind(g.snake.Positions(), g.food, g.hasFood,
		g.snake.Facing())
	g.decisions[kind]++
	oldTail := g.snake.Tail()
	moved := g.snake.Step(d)
	g.ticks++
	toReturn := TickResult{Direction: moved, Kind: kind}

	head := g.snake.Head()
	if !g.grid.Contains(head) || g.snake.HitsItself() {
		g.phase = PhaseOver
		toReturn.Died = true
		toReturn.Phase = g.phase
		return toReturn
	}
	g.open.Remove(head)
	if !g.snake.Occupies(oldTail) {
		g.open.Add(oldTail)
	}
	if g.hasFood && (head == g.food) {
		g.score++
		g.snake.Grow()
		toReturn.Ate = true
		g.food, g.hasFood = g.open.Random(g.rng)
		if !g.hasFood {
			// The snake fills the whole board.
			g.won = true
			g.phase = PhaseOver
		}
	}
	toReturn.Phase = g.phase
	return toReturn
}

// Adds elapsed time to the step timer, and runs a single tick once a full
// step interval (scaled by the speed multiplier) has built up. Returns false
// if no tick was due.
func (g *Game) Advance(elapsed time.Duration) (TickResult, bool) {
	if g.phase == PhaseOver {
		return TickResult{Phase: g.phase}, false
	}
	g.stepTimer += elapsed
	if g.stepTimer < g.StepDuration() {
		return TickResult{Phase: g.phase}, false
	}
	g.stepTimer = 0
	return g.Tick(), true
}

// Returns the time between steps at the current speed multiplier.
func (g *Game) StepDuration() time.Duration {
	return time.Duration(float64(g.config.StepInterval) / g.speed)
}

// Changes the speed multiplier, clamping it to the accepted range.
func (g *Game) SetSpeedMultiplier(m float64) {
	g.speed = clampSpeed(m)
}

// Returns the current speed multiplier.
func (g *Game) SpeedMultiplier() float64 {
	return g.speed
}

// Returns the current session's phase.
func (g *Game) Phase() Phase {
	return g.phase
}

// Returns the current session's unique ID.
func (g *Game) SessionID() string {
	return g.sessionID
}

// Returns the number of food items eaten this session.
func (g *Game) Score() int {
	return g.score
}

// Returns the number of ticks run this session.
func (g *Game) Ticks() int {
	return g.ticks
}

// Returns true if the session ended with the board full.
func (g *Game) Won() bool {
	return g.won
}

// Returns the grid the game is played on.
func (g *Game) Grid() Grid {
	return g.grid
}

// Returns the current session's cycle, e.g. for drawing a debug overlay.
func (g *Game) Cycle() *HamiltonianCycle {
	return g.cycle
}

// Returns the snake's segment positions, head first.
func (g *Game) SnakePositions() []Point {
	return g.snake.Positions()
}

// Returns the food's position, or false if there is no food on the board.
func (g *Game) Food() (Point, bool) {
	return g.food, g.hasFood
}

// Returns the number of cells not covered by the snake.
func (g *Game) OpenCellCount() int {
	return g.open.Len()
}

// Returns how many times each decision kind was used this session.
func (g *Game) DecisionCounts() map[DecisionKind]int {
	toReturn := make(map[DecisionKind]int, len(g.decisions))
	for i, count := range g.decisions {
		toReturn[DecisionKind(i)] = count
	}
	return toReturn
}

// Returns a copy of the session's current state.
func (g *Game) Snapshot() State {
	toReturn := State{
		SessionID: g.sessionID,
		Phase:     g.phase,
		Tick:      g.ticks,
		Score:     g.score,
		Won:       g.won,
		Snake:     g.snake.Positions(),
		Facing:    g.snake.Facing(),
		Decisions: make(map[string]int, len(g.decisions)),
	}
	if g.hasFood {
		food := g.food
		toReturn.Food = &food
	}
	for i, count := range g.decisions {
		toReturn.Decisions[DecisionKind(i).String()] = count
	}
	return toReturn
}
