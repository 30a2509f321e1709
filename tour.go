package snakebot

import (
	"fmt"
)

// Marks a cell of a TourTable that hasn't been given a tour number yet. Tour
// numbers themselves start at 0, so the sentinel must lie outside the range.
const Unassigned = -1

// Maps each full-resolution cell, indexed by x + width*y, to its position
// along the Hamiltonian cycle. A complete table is a permutation of
// 0 .. width*height-1.
type TourTable []int

// Returns a table of the given size with every entry Unassigned.
func newTourTable(size int) TourTable {
	toReturn := make(TourTable, size)
	for i := range toReturn {
		toReturn[i] = Unassigned
	}
	return toReturn
}

// Returns the direction 90 degrees counterclockwise from d.
func turnLeft(d Direction) Direction {
	switch d {
	case Up:
		return Left
	case Left:
		return Down
	case Down:
		return Right
	}
	return Up
}

// Returns the direction 90 degrees clockwise from d.
func turnRight(d Direction) Direction {
	return turnLeft(d).Opposite()
}

// Offsets within a maze cell's 2x2 block, listed in the order they are
// numbered when the walk is heading in the indexing direction. The walk
// always hugs the same side of the corridor, so the first entry is the corner
// it enters on.
var emissionOrder = [4][4][2]int{
	Up:    {{0, 1}, {0, 0}, {1, 0}, {1, 1}},
	Down:  {{1, 0}, {1, 1}, {0, 1}, {0, 0}},
	Left:  {{1, 1}, {0, 1}, {0, 0}, {1, 0}},
	Right: {{0, 0}, {1, 0}, {1, 1}, {0, 1}},
}

// Picks the direction the wall-following walk leaves (x, y) in, given that it
// arrived heading in d. Turning towards the followed wall is preferred,
// then going straight, then turning away, and a dead end reverses.
func nextWalkDirection(m *Maze, x, y int, d Direction) Direction {
	candidates := [3]Direction{turnLeft(d), d, turnRight(d)}
	for _, c := range candidates {
		if m.CanGo(x, y, c) {
			return c
		}
	}
	return d.Opposite()
}

// Returns how many cells of the current 2x2 block are numbered when the walk
// heading in d leaves in next: 1 for an inside corner, 2 for a straight
// corridor, 3 for an outside corner, and all 4 for a dead end.
func cellsEmitted(d, next Direction) int {
	switch next {
	case turnLeft(d):
		return 1
	case d:
		return 2
	case turnRight(d):
		return 3
	}
	return 4
}

// Walks the maze's spanning tree, keeping the same hand on the wall, and
// numbers the full-resolution cells in the order they are passed. The width
// and height are those of the full grid, and must be twice the maze's.
func AssignTourNumbers(m *Maze, width, height int) (TourTable, error) {
	if width != height {
		return nil, fmt.Errorf("Invalid %dx%d grid: %w", width, height,
			ErrNotSquare)
	}
	if (width != 2*m.Width()) || (height != 2*m.Height()) {
		return nil, fmt.Errorf("A %dx%d maze can't be numbered as a %dx%d "+
			"grid", m.Width(), m.Height(), width, height)
	}
	size := width * height
	toReturn := newTourTable(size)
	assigned := 0
	// Numbers a single cell, unless it already has a number.
	setTourNumber := func(cellX, cellY int) {
		index := cellX + width*cellY
		if toReturn[index] != Unassigned {
			return
		}
		toReturn[index] = assigned
		assigned++
	}

	x, y := 0, 0
	dir := Left
	if m.CanGoDown(0, 0) {
		dir = Up
	}
	// Every tree edge is walked once in each direction, so this is only hit
	// if the maze is malformed.
	maxSteps := 4*m.Width()*m.Height() + 4
	steps := 0
	for assigned < size {
		if steps >= maxSteps {
			return nil, fmt.Errorf("Tour walk didn't close after %d steps, "+
				"only %d of %d cells numbered", steps, assigned, size)
		}
		steps++
		next := nextWalkDirection(m, x, y, dir)
		order := &(emissionOrder[dir])
		count := cellsEmitted(dir, next)
		for i := 0; i < count; i++ {
			setTourNumber(x*2+order[i][0], y*2+order[i][1])
		}
		dir = next
		dx, dy := next.Delta()
		x += dx
		y += dy
	}
	return toReturn, nil
}
