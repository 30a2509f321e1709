package snakebot

import (
	"testing"

	"github.com/zyedidia/generic/mapset"
)

func TestCuttingBudget(t *testing.T) {
	defaults := DefaultCuttingParams()
	disabled := defaults
	disabled.Disabled = true
	tests := []struct {
		name                                  string
		params                                CuttingParams
		distFood, distTail, bodyLen, boardLen int
		expected                              int
	}{
		{"food close ahead", defaults, 5, 61, 4, 64, 5},
		{"gap penalty applied", defaults, 30, 61, 4, 64, 30},
		{"food behind tail", defaults, 62, 61, 4, 64, 58},
		{"board half full", defaults, 5, 20, 40, 64, 0},
		{"tail right behind", defaults, 1, 2, 4, 64, 0},
		{"no gap penalty", defaults, 10, 40, 4, 400, 10},
		{"gap penalty limits budget", defaults, 30, 42, 20, 64, 28},
		{"cutting disabled", disabled, 5, 61, 4, 64, 0},
	}
	for _, test := range tests {
		got := test.params.budget(test.distFood, test.distTail, test.bodyLen,
			test.boardLen)
		if got != test.expected {
			t.Errorf("%s: expected budget %d, got %d", test.name,
				test.expected, got)
		}
	}
}

// Returns true if moving in d keeps the head on the grid, out of every
// segment except the tail, and isn't a reversal.
func moveIsSafe(grid Grid, body []Point, facing, d Direction) bool {
	target := body[0].Add(d)
	if !grid.Contains(target) {
		return false
	}
	for i := 1; i < len(body)-1; i++ {
		if body[i] == target {
			return false
		}
	}
	return (len(body) == 1) || (d != facing.Opposite())
}

func TestAgentShortcut(t *testing.T) {
	h := serpentineCycle(t, 8)
	agent := NewAgent(h, DefaultCuttingParams())
	food := Point{3, 2}
	bodies := [][]Point{
		{{3, 1}},
		{{3, 1}, {4, 1}, {5, 1}, {6, 1}},
	}
	for _, body := range bodies {
		d, kind := agent.DecideWithKind(body, food, true, Left)
		if (d != Down) || (kind != DecisionShortcut) {
			t.Errorf("Expected a shortcut down for body %v, got %s (%s)",
				body, d, kind)
		}
	}
}

func TestAgentFollowsCycleWhenCrowded(t *testing.T) {
	h := serpentineCycle(t, 8)
	agent := NewAgent(h, DefaultCuttingParams())
	// A 40-segment body lying along the cycle behind the head at (3, 1).
	body := make([]Point, 40)
	for i := range body {
		body[i] = h.At(12 - i)
	}
	d, kind := agent.DecideWithKind(body, Point{3, 2}, true, Left)
	if (d != Left) || (kind != DecisionCycle) {
		t.Errorf("Expected to follow the cycle left, got %s (%s)", d, kind)
	}
}

func TestAgentWithoutFood(t *testing.T) {
	h := serpentineCycle(t, 8)
	agent := NewAgent(h, DefaultCuttingParams())
	d, kind := agent.DecideWithKind([]Point{{3, 1}, {4, 1}}, Point{}, false,
		Left)
	if (d != Left) || (kind != DecisionCycle) {
		t.Errorf("Expected to follow the cycle left with no food, got %s (%s)",
			d, kind)
	}
}

func TestAgentSuccessorIsNotAShortcut(t *testing.T) {
	h := serpentineCycle(t, 8)
	agent := NewAgent(h, DefaultCuttingParams())
	// The head at (3, 1) is tour number 12. Food 1 or 2 steps ahead caps the
	// budget below every neighbor except the successor at (2, 1).
	foods := []Point{{2, 1}, {1, 1}}
	bodies := [][]Point{
		{{3, 1}},
		{{3, 1}, {4, 1}, {5, 1}, {6, 1}},
	}
	for _, food := range foods {
		for _, body := range bodies {
			d, kind := agent.DecideWithKind(body, food, true, Left)
			if (d != Left) || (kind != DecisionCycle) {
				t.Errorf("Food at %s, body %v: expected a cycle move left, "+
					"got %s (%s)", food, body, d, kind)
			}
		}
	}
}

func TestAgentFallback(t *testing.T) {
	h := serpentineCycle(t, 8)
	agent := NewAgent(h, DefaultCuttingParams())
	// The successor, (2, 1), is part of the body.
	body := []Point{{3, 1}, {3, 2}, {2, 2}, {2, 1}, {1, 1}}
	d, kind := agent.DecideWithKind(body, Point{}, false, Up)
	if (d != Up) || (kind != DecisionFallback) {
		t.Errorf("Expected to fall back to moving up, got %s (%s)", d, kind)
	}

	fallback := NewFallbackAgent(NewGrid(4))
	d, kind = fallback.DecideWithKind([]Point{{0, 0}}, Point{3, 3}, true,
		Right)
	if (d != Down) || (kind != DecisionFallback) {
		t.Errorf("Expected the cycle-less agent to move down, got %s (%s)",
			d, kind)
	}
}

func TestAgentTrapped(t *testing.T) {
	h := serpentineCycle(t, 4)
	body := []Point{{1, 1}, {1, 2}, {0, 2}, {0, 1}, {0, 0}, {1, 0}, {2, 0},
		{2, 1}, {3, 1}}
	agents := []*Agent{
		NewAgent(h, DefaultCuttingParams()),
		NewFallbackAgent(NewGrid(4)),
	}
	for _, agent := range agents {
		d, kind := agent.DecideWithKind(body, Point{3, 3}, true, Up)
		if (d != Right) || (kind != DecisionTrapped) {
			t.Errorf("Expected a trapped snake to get right, got %s (%s)",
				d, kind)
		}
	}
}

func TestAgentPureCycleWalk(t *testing.T) {
	h, e := Generate(10, 10, NewSeededSource(99))
	if e != nil {
		t.Fatalf("Failed generating cycle: %s", e)
	}
	agent := NewAgent(h, CuttingParams{Disabled: true})
	start := Point{4, 6}
	head := start
	facing := Right
	visited := mapset.New[Point]()
	for i := 0; i < h.Len(); i++ {
		d, kind := agent.DecideWithKind([]Point{head}, Point{}, false, facing)
		if kind != DecisionCycle {
			t.Fatalf("Step %d wasn't a cycle move: %s", i, kind)
		}
		if head.Add(d) != h.Next(head) {
			t.Fatalf("Step %d went %s from %s, not to the successor %s", i,
				d, head, h.Next(head))
		}
		head = head.Add(d)
		facing = d
		visited.Put(head)
	}
	if head != start {
		t.Errorf("Walk ended at %s rather than the start, %s", head, start)
	}
	if visited.Size() != h.Len() {
		t.Errorf("Walk visited %d distinct cells, expected %d",
			visited.Size(), h.Len())
	}
}

// Returns a random self-avoiding body of up to maxLength segments, head
// first.
func randomBody(grid Grid, maxLength int, rng RandomSource) []Point {
	head := grid.PointAt(rng.Intn(grid.Size()))
	toReturn := []Point{head}
	used := mapset.New[Point]()
	used.Put(head)
	directions := []Direction{Up, Down, Left, Right}
	for len(toReturn) < maxLength {
		last := toReturn[len(toReturn)-1]
		options := make([]Point, 0, 4)
		for _, d := range directions {
			p := last.Add(d)
			if grid.Contains(p) && !used.Has(p) {
				options = append(options, p)
			}
		}
		if len(options) == 0 {
			break
		}
		next := options[rng.Intn(len(options))]
		used.Put(next)
		toReturn = append(toReturn, next)
	}
	return toReturn
}

func TestAgentNeverPicksUnsafeMove(t *testing.T) {
	h, e := Generate(10, 10, NewSeededSource(5))
	if e != nil {
		t.Fatalf("Failed generating cycle: %s", e)
	}
	grid := h.Grid()
	agent := NewAgent(h, DefaultCuttingParams())
	rng := NewSeededSource(77)
	kinds := make(map[DecisionKind]int)
	for i := 0; i < 2000; i++ {
		body := randomBody(grid, 1+rng.Intn(60), rng)
		facing := Right
		if len(body) > 1 {
			facing, _ = DirectionBetween(body[1], body[0])
		}
		food := grid.PointAt(rng.Intn(grid.Size()))
		d, kind := agent.DecideWithKind(body, food, true, facing)
		kinds[kind]++
		anySafe := false
		for _, c := range []Direction{Up, Down, Left, Right} {
			if moveIsSafe(grid, body, facing, c) {
				anySafe = true
				break
			}
		}
		if !anySafe {
			if kind != DecisionTrapped {
				t.Fatalf("Expected a trapped decision for body %v, got %s",
					body, kind)
			}
			continue
		}
		if !moveIsSafe(grid, body, facing, d) {
			t.Fatalf("Agent chose unsafe move %s (%s) for body %v", d, kind,
				body)
		}
	}
	t.Logf("Decision kinds: %v", kinds)
}

// Finds a head position on the cycle with a neighbor that is safe and lies
// between 2 and maxDistance steps ahead, with a 4-segment body trailing
// along the cycle behind it. Returns the head's tour number and the distance
// of that neighbor.
func findCutCandidate(h *HamiltonianCycle, maxDistance int) (int, int, bool) {
	for number := 3; number < h.Len(); number++ {
		head := h.At(number)
		for _, d := range []Direction{Up, Down, Left, Right} {
			n := head.Add(d)
			if !h.Grid().Contains(n) {
				continue
			}
			distance := h.Distance(head, n)
			if (distance > 1) && (distance <= maxDistance) {
				return number, distance, true
			}
		}
	}
	return 0, 0, false
}

func TestAgentShortcutMakesProgress(t *testing.T) {
	h, e := Generate(20, 20, NewSeededSource(2024))
	if e != nil {
		t.Fatalf("Failed generating cycle: %s", e)
	}
	agent := NewAgent(h, DefaultCuttingParams())
	// With the body lying along the cycle, the tail is 397 steps ahead and
	// the budget for food f steps ahead is min(f, 383). The body only covers
	// the three cells right behind the head, so any neighbor closer than
	// that is safe. Food exactly 2 ahead can never be cut to: by grid
	// parity, a neighbor's forward distance is always odd.
	number, distance, ok := findCutCandidate(h, 380)
	if !ok {
		t.Fatalf("No head on the cycle has a neighbor to cut to")
	}
	body := []Point{h.At(number), h.At(number - 1), h.At(number - 2),
		h.At(number - 3)}
	facing, _ := DirectionBetween(body[1], body[0])
	head := body[0]
	successor := h.Next(head)
	food := h.At(number + distance + 3)
	t.Logf("Head %s (tour number %d), neighbor %d ahead, food at %s", head,
		number, distance, food)

	d, kind := agent.DecideWithKind(body, food, true, facing)
	if kind != DecisionShortcut {
		t.Fatalf("Expected a shortcut, got %s (%s)", d, kind)
	}
	if !moveIsSafe(h.Grid(), body, facing, d) {
		t.Fatalf("Agent chose unsafe move %s", d)
	}
	next := head.Add(d)
	skipped := h.Distance(head, next)
	if (skipped <= 1) || (skipped < distance) {
		t.Errorf("Shortcut %s only moved %d ahead, expected at least %d", d,
			skipped, distance)
	}
	viaShortcut := h.Distance(next, food)
	viaSuccessor := h.Distance(successor, food)
	if viaShortcut >= viaSuccessor {
		t.Errorf("Shortcut %s leaves the food %d away, the successor "+
			"leaves it %d away", d, viaShortcut, viaSuccessor)
	}
}
