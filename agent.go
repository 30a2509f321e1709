package snakebot

import (
	"fmt"

	"github.com/zyedidia/generic/mapset"
)

// Tuning for how aggressively the agent cuts across the cycle. None of these
// affect safety of the immediate move; they only trade speed for slack.
type CuttingParams struct {
	// Cycle distance that must stay free between head and tail after a cut.
	SafetyBuffer int
	// Cells the snake grows by when it eats.
	FoodGrowth int
	// Subtracted from the budget when the food sits far ahead of the tail
	// relative to the empty space left.
	GapPenalty int
	// The penalty applies when (tail distance - food distance) * GapFactor
	// exceeds the number of empty cells.
	GapFactor int
	// Cutting stops once fewer than this fraction of the cells are empty.
	MinEmptyFraction float64
	// If set, the agent never cuts and only follows the cycle.
	Disabled bool
}

// Returns the tuned defaults: buffer 3, growth 1, gap penalty 10 with factor
// 4, and no cutting once half the board is filled.
func DefaultCuttingParams() CuttingParams {
	return CuttingParams{
		SafetyBuffer:     3,
		FoodGrowth:       1,
		GapPenalty:       10,
		GapFactor:        4,
		MinEmptyFraction: 0.5,
	}
}

// Returns the number of cycle steps the head may skip this tick. distFood and
// distTail are forward cycle distances from the head, bodyLen counts every
// segment and boardSize every cell.
func (p CuttingParams) budget(distFood, distTail, bodyLen, boardSize int) int {
	if p.Disabled {
		return 0
	}
	toReturn := distTail - p.SafetyBuffer
	if toReturn < 0 {
		toReturn = 0
	}
	// The food itself occupies one of the cells that aren't body.
	emptyCells := boardSize - bodyLen - 1
	if float64(emptyCells) < (float64(boardSize) * p.MinEmptyFraction) {
		return 0
	}
	if distFood < distTail {
		toReturn -= p.FoodGrowth
		if (distTail-distFood)*p.GapFactor > emptyCells {
			toReturn -= p.GapPenalty
		}
	}
	if toReturn > distFood {
		toReturn = distFood
	}
	if toReturn < 0 {
		toReturn = 0
	}
	return toReturn
}

// Records which rule produced a decision.
type DecisionKind uint8

const (
	// Moved to a cell further ahead on the cycle than the successor.
	DecisionShortcut DecisionKind = iota
	// Moved to the head's successor on the cycle.
	DecisionCycle
	// Took the first safe direction in a fixed order.
	DecisionFallback
	// Every direction was blocked.
	DecisionTrapped
)

func (k DecisionKind) String() string {
	switch k {
	case DecisionShortcut:
		return "shortcut"
	case DecisionCycle:
		return "cycle"
	case DecisionFallback:
		return "fallback"
	case DecisionTrapped:
		return "trapped"
	}
	return fmt.Sprintf("Unknown decision kind: %d", uint8(k))
}

// MarshalText lets decision kinds appear by name in JSON step records.
func (k DecisionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// The order shortcut candidates are scanned in. Ties keep the earliest.
var shortcutScanOrder = [4]Direction{Right, Left, Down, Up}

// The order of the last-ditch safe move search.
var fallbackScanOrder = [4]Direction{Up, Left, Down, Right}

// Picks one move per tick for a snake on a grid with a known Hamiltonian
// cycle. The agent holds no per-tick state, so one agent serves a whole game
// session.
type Agent struct {
	grid Grid
	// May be nil, in which case tour numbers are unavailable and only the
	// fallback rules apply.
	cycle  *HamiltonianCycle
	params CuttingParams
}

// Returns an agent steering along the given cycle.
func NewAgent(cycle *HamiltonianCycle, params CuttingParams) *Agent {
	return &Agent{
		grid:   cycle.Grid(),
		cycle:  cycle,
		params: params,
	}
}

// Returns an agent for a grid whose cycle hasn't been generated. It can only
// pick safe moves, without any sense of where the food is.
func NewFallbackAgent(grid Grid) *Agent {
	return &Agent{
		grid:   grid,
		params: CuttingParams{Disabled: true},
	}
}

// Returns the agent's cutting parameters.
func (a *Agent) Params() CuttingParams {
	return a.params
}

// The body of one snake as seen for a single decision.
type moveContext struct {
	grid     Grid
	head     Point
	facing   Direction
	bodyLen  int
	occupied mapset.Set[Point]
}

// Returns the cells that block the head this tick. The last segment is left
// out since it moves away as the head moves; if the snake just grew, the
// duplicate segment before it still blocks that cell.
func newMoveContext(grid Grid, body []Point, facing Direction) *moveContext {
	occupied := mapset.New[Point]()
	for i := 1; i < len(body)-1; i++ {
		occupied.Put(body[i])
	}
	return &moveContext{
		grid:     grid,
		head:     body[0],
		facing:   facing,
		bodyLen:  len(body),
		occupied: occupied,
	}
}

// Returns true if moving the head in d neither leaves the grid, hits a body
// segment, nor reverses into the neck.
func (c *moveContext) isSafe(d Direction) bool {
	target := c.head.Add(d)
	if !c.grid.Contains(target) {
		return false
	}
	if c.occupied.Has(target) {
		return false
	}
	if (c.bodyLen > 1) && (d == c.facing.Opposite()) {
		return false
	}
	return true
}

// Returns the direction the snake should move next. See DecideWithKind.
func (a *Agent) Decide(body []Point, food Point, hasFood bool,
	facing Direction) Direction {
	d, _ := a.DecideWithKind(body, food, hasFood, facing)
	return d
}

// Picks the next move for the snake whose segments, head first, are in body.
// The result never leaves the grid or enters the body unless every direction
// does, in which case Right is returned and the caller will see the snake
// die. hasFood is false when there is no food on the board.
func (a *Agent) DecideWithKind(body []Point, food Point, hasFood bool,
	facing Direction) (Direction, DecisionKind) {
	if len(body) == 0 {
		return Right, DecisionTrapped
	}
	ctx := newMoveContext(a.grid, body, facing)
	if d, ok := a.shortcut(ctx, body, food, hasFood); ok {
		return d, DecisionShortcut
	}
	if d, ok := a.cycleSuccessor(ctx); ok {
		return d, DecisionCycle
	}
	for _, d := range fallbackScanOrder {
		if ctx.isSafe(d) {
			return d, DecisionFallback
		}
	}
	return Right, DecisionTrapped
}

// Looks for the safe neighbor furthest along the cycle that stays within the
// cutting budget. Returns false if the best such neighbor is no further than
// the successor, or if tour numbers aren't available for the head, tail or
// food.
func (a *Agent) shortcut(ctx *moveContext, body []Point, food Point,
	hasFood bool) (Direction, bool) {
	if (a.cycle == nil) || !hasFood {
		return Right, false
	}
	headNumber, ok := a.cycle.TourNumber(ctx.head)
	if !ok {
		return Right, false
	}
	foodNumber, ok := a.cycle.TourNumber(food)
	if !ok {
		return Right, false
	}
	tailNumber, ok := a.cycle.TourNumber(body[len(body)-1])
	if !ok {
		return Right, false
	}
	size := a.cycle.Len()
	distFood := a.cycle.numberDistance(headNumber, foodNumber)
	distTail := a.cycle.numberDistance(headNumber, tailNumber)
	if len(body) == 1 {
		// Nothing trails the head, so the whole cycle ahead is free.
		distTail = size
	}
	budget := a.params.budget(distFood, distTail, len(body), size)
	if budget <= 0 {
		return Right, false
	}

	best := Right
	bestDistance := 0
	for _, d := range shortcutScanOrder {
		if !ctx.isSafe(d) {
			continue
		}
		number, ok := a.cycle.TourNumber(ctx.head.Add(d))
		if !ok {
			continue
		}
		distance := a.cycle.numberDistance(headNumber, number)
		if (distance <= budget) && (distance > bestDistance) {
			best = d
			bestDistance = distance
		}
	}
	// Landing on the successor is ordinary cycle following, not a cut.
	return best, bestDistance > 1
}

// Returns the direction of the head's successor on the cycle, if it is safe.
func (a *Agent) cycleSuccessor(ctx *moveContext) (Direction, bool) {
	if a.cycle == nil {
		return Right, false
	}
	headNumber, ok := a.cycle.TourNumber(ctx.head)
	if !ok {
		return Right, false
	}
	next := a.cycle.At(headNumber + 1)
	d, adjacent := DirectionBetween(ctx.head, next)
	if !adjacent || !ctx.isSafe(d) {
		return Right, false
	}
	return d, true
}
