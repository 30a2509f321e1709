// This defines a library for driving a snake around an even-sized square
// grid by following (and occasionally cutting across) a randomly generated
// Hamiltonian cycle.
package snakebot

import (
	"errors"
	"fmt"
)

// The smallest grid width or height for which a cycle can be generated. Each
// maze cell covers a 2x2 block, and a single maze cell is not enough to form a
// tour that can be cut.
const MinGridSize = 4

// Errors returned when grid dimensions are unusable. Returned errors wrap one
// of these, so check them with errors.Is.
var (
	ErrNotSquare    = errors.New("grid width and height must be equal")
	ErrOddDimension = errors.New("grid width and height must be even")
	ErrTooSmall     = errors.New("grid is too small")
)

// A single cell coordinate on the grid. (0, 0) is the top-left corner, and Y
// increases downwards.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Returns the point one cell away in the given direction.
func (p Point) Add(d Direction) Point {
	dx, dy := d.Delta()
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Returns true if p and other are orthogonally adjacent.
func (p Point) IsAdjacent(other Point) bool {
	dx := p.X - other.X
	if dx < 0 {
		dx = -dx
	}
	dy := p.Y - other.Y
	if dy < 0 {
		dy = -dy
	}
	return (dx + dy) == 1
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// One of the four unit moves.
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("Unknown direction: %d", uint8(d))
}

// MarshalText lets directions appear by name in JSON.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Returns the change in X and Y caused by moving one cell in d.
func (d Direction) Delta() (int, int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}

// Returns the direction pointing the opposite way.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	}
	return Left
}

// Returns the direction of the single step from a to b, and false if the two
// points aren't adjacent.
func DirectionBetween(a, b Point) (Direction, bool) {
	switch {
	case (b.X == a.X) && (b.Y == a.Y-1):
		return Up, true
	case (b.X == a.X) && (b.Y == a.Y+1):
		return Down, true
	case (b.X == a.X-1) && (b.Y == a.Y):
		return Left, true
	case (b.X == a.X+1) && (b.Y == a.Y):
		return Right, true
	}
	return Right, false
}

// The full-resolution playing area. Dimensions are counted in cells.
type Grid struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Returns a square grid with the given side length. Call Validate before use.
func NewGrid(size int) Grid {
	return Grid{
		Width:  size,
		Height: size,
	}
}

// Returns a non-nil error if a Hamiltonian cycle can't be generated for the
// grid. The tour numbering only works for square grids with even sides.
func (g Grid) Validate() error {
	if g.Width != g.Height {
		return fmt.Errorf("Invalid %dx%d grid: %w", g.Width, g.Height,
			ErrNotSquare)
	}
	if (g.Width < MinGridSize) || (g.Height < MinGridSize) {
		return fmt.Errorf("Invalid %dx%d grid, sides must be at least %d: %w",
			g.Width, g.Height, MinGridSize, ErrTooSmall)
	}
	if ((g.Width % 2) != 0) || ((g.Height % 2) != 0) {
		return fmt.Errorf("Invalid %dx%d grid: %w", g.Width, g.Height,
			ErrOddDimension)
	}
	return nil
}

// Returns the number of cells in the grid.
func (g Grid) Size() int {
	return g.Width * g.Height
}

// Returns true if p lies within the grid.
func (g Grid) Contains(p Point) bool {
	return (p.X >= 0) && (p.Y >= 0) && (p.X < g.Width) && (p.Y < g.Height)
}

// Returns the flat index of p, x + width*y. p must be inside the grid.
func (g Grid) Index(p Point) int {
	return p.X + g.Width*p.Y
}

// The inverse of Index.
func (g Grid) PointAt(index int) Point {
	return Point{X: index % g.Width, Y: index / g.Width}
}
