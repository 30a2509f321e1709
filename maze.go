package snakebot

import (
	"fmt"
)

// Implements the disjoint set data structure from CLRS. Only used to check
// that a finished maze is a spanning tree.
type disjointSet struct {
	parent *disjointSet
	rank   int
}

// Returns a new disjointSet containing only itself.
func newDisjointSet() *disjointSet {
	toReturn := disjointSet{
		rank: 0,
	}
	toReturn.parent = &toReturn
	return &toReturn
}

// Finds the unique "root" of a disjoint set. May adjust parent pointers.
func (s *disjointSet) findSet() *disjointSet {
	if s != s.parent {
		s.parent = s.parent.findSet()
	}
	return s.parent
}

// Adjusts both s and other to become part of the same set. May adjust parent
// pointers and ranks.
func (s *disjointSet) union(other *disjointSet) {
	x := s.findSet()
	y := other.findSet()
	if x.rank > y.rank {
		y.parent = x
		return
	}
	x.parent = y
	if x.rank == y.rank {
		y.rank++
	}
}

// A single maze cell, covering a 2x2 block of the full grid. Only the doors
// to the right and downwards are stored; the left and up doors belong to the
// neighboring node.
type MazeNode struct {
	visited   bool
	doorRight bool
	doorDown  bool
}

// A perfect maze (a spanning tree) over the half-resolution grid. Create
// using BuildMaze. Immutable once built.
type Maze struct {
	// Width and height are numbers of maze cells, each half of the full grid.
	width  int
	height int
	nodes  []MazeNode
}

// Maze cells are visited in this order after the two random attempts: left,
// right, down, up. The first four entries also double as the table for
// random draws, which map 0 through 3 to left, right, up and down.
var (
	randomSteps = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	sweepSteps  = [4][2]int{{-1, 0}, {1, 0}, {0, 1}, {0, -1}}
)

// The number of neighbor attempts made from each maze cell: two random ones
// followed by the fixed sweep.
const attemptsPerCell = 2 + len(sweepSteps)

// One pending cell on the growth stack. Equivalent to a single frame of the
// recursive depth-first formulation.
type growthFrame struct {
	x, y int
	// The index of the next neighbor attempt, 0 through attemptsPerCell.
	attempt int
}

// Allocates a maze with every node unvisited and every door closed.
func allocateMazeNodes(width, height int) (*Maze, error) {
	if (width < 1) || (height < 1) {
		return nil, fmt.Errorf("Maze width and height must be at least 1, "+
			"got %dx%d", width, height)
	}
	cellCount := width * height
	// Check for overflow.
	if cellCount <= 0 {
		return nil, fmt.Errorf("The maze's size was too big")
	}
	return &Maze{
		width:  width,
		height: height,
		nodes:  make([]MazeNode, cellCount),
	}, nil
}

// Grows a random spanning tree over a width x height maze, using the given
// random source for the two random attempts made from every cell. The width
// and height are half the dimensions of the full grid.
func BuildMaze(width, height int, rng RandomSource) (*Maze, error) {
	toReturn, e := allocateMazeNodes(width, height)
	if e != nil {
		return nil, e
	}
	toReturn.grow(rng)
	e = toReturn.validate()
	if e != nil {
		return nil, fmt.Errorf("Internal error generating maze: %w", e)
	}
	return toReturn, nil
}

// Returns the coordinate the given attempt from (x, y) tries to move to.
// Attempts 0 and 1 consume one random draw each.
func nextAttemptTarget(x, y, attempt int, rng RandomSource) (int, int) {
	var step [2]int
	if attempt < 2 {
		step = randomSteps[rng.Intn(4)]
	} else {
		step = sweepSteps[attempt-2]
	}
	return x + step[0], y + step[1]
}

// Runs the depth-first growth starting at (0, 0). Must only be called once,
// on a freshly allocated maze.
func (m *Maze) grow(rng RandomSource) {
	// The stack can never be deeper than the number of cells.
	stack := make([]growthFrame, 0, len(m.nodes))
	m.nodes[0].visited = true
	stack = append(stack, growthFrame{})
	for len(stack) > 0 {
		top := &(stack[len(stack)-1])
		if top.attempt >= attemptsPerCell {
			stack = stack[:len(stack)-1]
			continue
		}
		fromX, fromY := top.x, top.y
		toX, toY := nextAttemptTarget(fromX, fromY, top.attempt, rng)
		top.attempt++
		if !m.inBounds(toX, toY) || m.node(toX, toY).visited {
			continue
		}
		m.node(toX, toY).visited = true
		m.openDoor(fromX, fromY, toX, toY)
		stack = append(stack, growthFrame{x: toX, y: toY})
	}
}

// Records the tree edge between two adjacent cells on whichever of the two
// lies to the left or above.
func (m *Maze) openDoor(fromX, fromY, toX, toY int) {
	if fromX < toX {
		m.node(fromX, fromY).doorRight = true
	} else if fromX > toX {
		m.node(toX, toY).doorRight = true
	} else if fromY < toY {
		m.node(fromX, fromY).doorDown = true
	} else if fromY > toY {
		m.node(toX, toY).doorDown = true
	}
}

func (m *Maze) inBounds(x, y int) bool {
	return (x >= 0) && (y >= 0) && (x < m.width) && (y < m.height)
}

// Returns the node at (x, y), which must be in bounds.
func (m *Maze) node(x, y int) *MazeNode {
	return &(m.nodes[x+y*m.width])
}

// Returns the number of maze cells across.
func (m *Maze) Width() int {
	return m.width
}

// Returns the number of maze cells down.
func (m *Maze) Height() int {
	return m.height
}

// Returns true if the tree connects (x, y) to the cell on its right.
func (m *Maze) CanGoRight(x, y int) bool {
	if !m.inBounds(x, y) {
		return false
	}
	return m.node(x, y).doorRight
}

// Returns true if the tree connects (x, y) to the cell below it.
func (m *Maze) CanGoDown(x, y int) bool {
	if !m.inBounds(x, y) {
		return false
	}
	return m.node(x, y).doorDown
}

// Returns true if the tree connects (x, y) to the cell on its left. Derived
// from the left neighbor's right door.
func (m *Maze) CanGoLeft(x, y int) bool {
	if (x == 0) || !m.inBounds(x, y) {
		return false
	}
	return m.node(x-1, y).doorRight
}

// Returns true if the tree connects (x, y) to the cell above it. Derived from
// the upper neighbor's down door.
func (m *Maze) CanGoUp(x, y int) bool {
	if (y == 0) || !m.inBounds(x, y) {
		return false
	}
	return m.node(x, y-1).doorDown
}

// Returns true if the tree has an edge leaving (x, y) in direction d.
func (m *Maze) CanGo(x, y int, d Direction) bool {
	switch d {
	case Up:
		return m.CanGoUp(x, y)
	case Down:
		return m.CanGoDown(x, y)
	case Left:
		return m.CanGoLeft(x, y)
	case Right:
		return m.CanGoRight(x, y)
	}
	return false
}

// Returns the number of doors in the maze, i.e. the number of tree edges.
func (m *Maze) DoorCount() int {
	count := 0
	for i := range m.nodes {
		if m.nodes[i].doorRight {
			count++
		}
		if m.nodes[i].doorDown {
			count++
		}
	}
	return count
}

// Returns a non-nil error if the maze isn't a spanning tree: every cell must
// be visited, no door may join two cells that are already connected, and
// there must be exactly one fewer door than cells.
func (m *Maze) validate() error {
	sets := make([]*disjointSet, len(m.nodes))
	for i := range sets {
		if !m.nodes[i].visited {
			return fmt.Errorf("Maze cell %d was never visited", i)
		}
		sets[i] = newDisjointSet()
	}
	doors := 0
	for y := 0; y < m.height; y++ {
		rowStartIdx := y * m.width
		for x := 0; x < m.width; x++ {
			index := rowStartIdx + x
			n := &(m.nodes[index])
			if n.doorRight {
				if x == (m.width - 1) {
					return fmt.Errorf("Maze cell (%d, %d) has a door out of "+
						"the right edge", x, y)
				}
				if sets[index].findSet() == sets[index+1].findSet() {
					return fmt.Errorf("Door right of (%d, %d) forms a loop",
						x, y)
				}
				sets[index].union(sets[index+1])
				doors++
			}
			if n.doorDown {
				if y == (m.height - 1) {
					return fmt.Errorf("Maze cell (%d, %d) has a door out of "+
						"the bottom edge", x, y)
				}
				if sets[index].findSet() == sets[index+m.width].findSet() {
					return fmt.Errorf("Door below (%d, %d) forms a loop",
						x, y)
				}
				sets[index].union(sets[index+m.width])
				doors++
			}
		}
	}
	if doors != (len(m.nodes) - 1) {
		return fmt.Errorf("Maze has %d doors, expected %d", doors,
			len(m.nodes)-1)
	}
	return nil
}
