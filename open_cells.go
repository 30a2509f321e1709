package snakebot

// Tracks the cells no snake segment occupies, supporting constant time
// insertion, removal and uniform random choice. Iteration order only depends
// on the sequence of operations, so food placement is reproducible for a
// fixed random source.
type OpenCells struct {
	grid Grid
	// The open cells, in no particular order.
	cells []Point
	// Maps a cell's grid index to its position in cells, or -1.
	positions []int
}

// Returns a set containing every cell of the grid except those in occupied.
func NewOpenCells(grid Grid, occupied []Point) *OpenCells {
	toReturn := &OpenCells{
		grid:      grid,
		cells:     make([]Point, 0, grid.Size()),
		positions: make([]int, grid.Size()),
	}
	for i := range toReturn.positions {
		toReturn.positions[i] = -1
	}
	blocked := make([]bool, grid.Size())
	for _, p := range occupied {
		if grid.Contains(p) {
			blocked[grid.Index(p)] = true
		}
	}
	// Column-major.
	for x := 0; x < grid.Width; x++ {
		for y := 0; y < grid.Height; y++ {
			p := Point{X: x, Y: y}
			if !blocked[grid.Index(p)] {
				toReturn.Add(p)
			}
		}
	}
	return toReturn
}

// Returns the number of open cells.
func (o *OpenCells) Len() int {
	return len(o.cells)
}

// Returns true if p is open.
func (o *OpenCells) Contains(p Point) bool {
	if !o.grid.Contains(p) {
		return false
	}
	return o.positions[o.grid.Index(p)] >= 0
}

// Marks p as open. Does nothing if it already is, or if it's off the grid.
func (o *OpenCells) Add(p Point) {
	if !o.grid.Contains(p) {
		return
	}
	index := o.grid.Index(p)
	if o.positions[index] >= 0 {
		return
	}
	o.positions[index] = len(o.cells)
	o.cells = append(o.cells, p)
}

// Marks p as occupied. Does nothing if it isn't open.
func (o *OpenCells) Remove(p Point) {
	if !o.Contains(p) {
		return
	}
	index := o.grid.Index(p)
	slot := o.positions[index]
	last := o.cells[len(o.cells)-1]
	// Swap the last cell into the vacated slot and truncate.
	o.cells[slot] = last
	o.positions[o.grid.Index(last)] = slot
	o.cells = o.cells[:len(o.cells)-1]
	o.positions[index] = -1
}

// Returns a uniformly chosen open cell, or false if there are none.
func (o *OpenCells) Random(rng RandomSource) (Point, bool) {
	if len(o.cells) == 0 {
		return Point{}, false
	}
	return o.cells[rng.Intn(len(o.cells))], true
}
