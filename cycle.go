package snakebot

import (
	"fmt"
)

// The cells of a Hamiltonian cycle in visiting order: Cycle[n] is the cell
// with tour number n.
type Cycle []Point

// Builds the ordered cell list from a complete tour table, so that
// list[table[p]] == p for every cell p.
func InvertTour(table TourTable, width, height int) (Cycle, error) {
	size := width * height
	if len(table) != size {
		return nil, fmt.Errorf("Tour table has %d entries, a %dx%d grid "+
			"needs %d", len(table), width, height, size)
	}
	toReturn := make(Cycle, size)
	filled := make([]bool, size)
	for index, number := range table {
		if (number < 0) || (number >= size) {
			return nil, fmt.Errorf("Cell %d has out-of-range tour number %d",
				index, number)
		}
		if filled[number] {
			return nil, fmt.Errorf("Tour number %d is used more than once",
				number)
		}
		filled[number] = true
		toReturn[number] = Point{X: index % width, Y: index / width}
	}
	return toReturn, nil
}

// Holds both views of one generated cycle. The table and the cycle are built
// from the same pass and are never modified afterwards, so they can't
// diverge. Create using Generate or NewHamiltonianCycle.
type HamiltonianCycle struct {
	grid  Grid
	table TourTable
	cycle Cycle
}

// Generates a new random Hamiltonian cycle covering a width x height grid.
// The grid must be square with even sides of at least MinGridSize; any other
// dimensions are a configuration error and nothing is generated.
func Generate(width, height int, rng RandomSource) (*HamiltonianCycle,
	error) {
	grid := Grid{Width: width, Height: height}
	e := grid.Validate()
	if e != nil {
		return nil, e
	}
	m, e := BuildMaze(width/2, height/2, rng)
	if e != nil {
		return nil, fmt.Errorf("Error building maze: %w", e)
	}
	table, e := AssignTourNumbers(m, width, height)
	if e != nil {
		return nil, fmt.Errorf("Error numbering tour: %w", e)
	}
	cycle, e := InvertTour(table, width, height)
	if e != nil {
		return nil, fmt.Errorf("Error building cycle: %w", e)
	}
	toReturn := &HamiltonianCycle{
		grid:  grid,
		table: table,
		cycle: cycle,
	}
	e = toReturn.Validate()
	if e != nil {
		return nil, fmt.Errorf("Internal error: generated an invalid "+
			"cycle: %w", e)
	}
	return toReturn, nil
}

// Wraps an existing tour table, e.g. a hand-built one, after checking that it
// really describes a Hamiltonian cycle over the grid.
func NewHamiltonianCycle(grid Grid, table TourTable) (*HamiltonianCycle,
	error) {
	if (grid.Width < 1) || (grid.Height < 1) {
		return nil, fmt.Errorf("Invalid %dx%d grid", grid.Width, grid.Height)
	}
	tableCopy := make(TourTable, len(table))
	copy(tableCopy, table)
	cycle, e := InvertTour(tableCopy, grid.Width, grid.Height)
	if e != nil {
		return nil, e
	}
	toReturn := &HamiltonianCycle{
		grid:  grid,
		table: tableCopy,
		cycle: cycle,
	}
	e = toReturn.Validate()
	if e != nil {
		return nil, e
	}
	return toReturn, nil
}

// Returns a non-nil error unless the table is a permutation of the tour
// numbers, the cycle is its exact inverse, and every pair of consecutive
// cells (including the last and first) is orthogonally adjacent.
func (h *HamiltonianCycle) Validate() error {
	size := h.grid.Size()
	if (len(h.table) != size) || (len(h.cycle) != size) {
		return fmt.Errorf("Expected %d cells, table has %d and cycle has %d",
			size, len(h.table), len(h.cycle))
	}
	seen := make([]bool, size)
	for index, number := range h.table {
		if (number < 0) || (number >= size) {
			return fmt.Errorf("Cell %d has out-of-range tour number %d",
				index, number)
		}
		if seen[number] {
			return fmt.Errorf("Tour number %d is used more than once",
				number)
		}
		seen[number] = true
	}
	for number, p := range h.cycle {
		if !h.grid.Contains(p) {
			return fmt.Errorf("Cycle entry %d, %s, is off the grid", number,
				p)
		}
		if h.table[h.grid.Index(p)] != number {
			return fmt.Errorf("Cycle entry %d, %s, has tour number %d",
				number, p, h.table[h.grid.Index(p)])
		}
		next := h.cycle[(number+1)%size]
		if !p.IsAdjacent(next) {
			return fmt.Errorf("Tour numbers %d at %s and %d at %s aren't "+
				"adjacent", number, p, (number+1)%size, next)
		}
	}
	return nil
}

// Returns the grid the cycle covers.
func (h *HamiltonianCycle) Grid() Grid {
	return h.grid
}

// Returns the number of cells in the cycle.
func (h *HamiltonianCycle) Len() int {
	return len(h.cycle)
}

// Returns the tour number of p, or false if p is off the grid.
func (h *HamiltonianCycle) TourNumber(p Point) (int, bool) {
	if !h.grid.Contains(p) {
		return Unassigned, false
	}
	return h.table[h.grid.Index(p)], true
}

// Returns the cell with tour number n. n is taken modulo the cycle length, so
// negative numbers count backwards from the end.
func (h *HamiltonianCycle) At(n int) Point {
	size := len(h.cycle)
	n %= size
	if n < 0 {
		n += size
	}
	return h.cycle[n]
}

// Returns the cell following p on the cycle. p must be on the grid.
func (h *HamiltonianCycle) Next(p Point) Point {
	return h.At(h.table[h.grid.Index(p)] + 1)
}

// Returns how many steps along the cycle it takes to get from one tour number
// to another, always moving forward.
func (h *HamiltonianCycle) numberDistance(from, to int) int {
	size := len(h.cycle)
	d := (to - from) % size
	if d < 0 {
		d += size
	}
	return d
}

// Returns the forward cyclic distance from one cell to another. Both must be
// on the grid.
func (h *HamiltonianCycle) Distance(from, to Point) int {
	return h.numberDistance(h.table[h.grid.Index(from)],
		h.table[h.grid.Index(to)])
}

// Returns a copy of the tour table.
func (h *HamiltonianCycle) Table() TourTable {
	toReturn := make(TourTable, len(h.table))
	copy(toReturn, h.table)
	return toReturn
}

// Returns a copy of the ordered cycle, e.g. for drawing it.
func (h *HamiltonianCycle) Cells() Cycle {
	toReturn := make(Cycle, len(h.cycle))
	copy(toReturn, h.cycle)
	return toReturn
}
