package snakebot

import (
	"fmt"
)

// One body segment. Previous is where the segment was before the last step,
// which a renderer can use to interpolate movement.
type Segment struct {
	Current  Point `json:"current"`
	Previous Point `json:"previous"`
}

// An ordered chain of segments, head first. Create using NewSnake.
type Snake struct {
	segments []Segment
	facing   Direction
}

// Returns a straight snake of the given length with its head at head, facing
// the given direction, with the rest of the body trailing behind it.
func NewSnake(head Point, length int, facing Direction) (*Snake, error) {
	if length < 1 {
		return nil, fmt.Errorf("Snake length must be at least 1, got %d",
			length)
	}
	toReturn := &Snake{
		segments: make([]Segment, length),
		facing:   facing,
	}
	behind := facing.Opposite()
	p := head
	for i := range toReturn.segments {
		toReturn.segments[i] = Segment{Current: p, Previous: p}
		p = p.Add(behind)
	}
	return toReturn, nil
}

// Returns the number of segments, including any grown duplicate.
func (s *Snake) Len() int {
	return len(s.segments)
}

// Returns the head's position.
func (s *Snake) Head() Point {
	return s.segments[0].Current
}

// Returns the last segment's position.
func (s *Snake) Tail() Point {
	return s.segments[len(s.segments)-1].Current
}

// Returns the direction of the last step.
func (s *Snake) Facing() Direction {
	return s.facing
}

// Returns every segment's position, head first.
func (s *Snake) Positions() []Point {
	toReturn := make([]Point, len(s.segments))
	for i := range s.segments {
		toReturn[i] = s.segments[i].Current
	}
	return toReturn
}

// Returns a copy of the segments.
func (s *Snake) Segments() []Segment {
	toReturn := make([]Segment, len(s.segments))
	copy(toReturn, s.segments)
	return toReturn
}

// Returns true if any segment is at p.
func (s *Snake) Occupies(p Point) bool {
	for i := range s.segments {
		if s.segments[i].Current == p {
			return true
		}
	}
	return false
}

// Returns true if the head shares a cell with any other segment.
func (s *Snake) HitsItself() bool {
	head := s.Head()
	for i := 1; i < len(s.segments); i++ {
		if s.segments[i].Current == head {
			return true
		}
	}
	return false
}

// Moves the snake one cell. A request to reverse straight back into the
// body is ignored and the snake keeps its current facing. Every segment
// takes the place its predecessor just left. Returns the direction actually
// moved in.
func (s *Snake) Step(d Direction) Direction {
	if (len(s.segments) == 1) || (d != s.facing.Opposite()) {
		s.facing = d
	}
	for i := range s.segments {
		s.segments[i].Previous = s.segments[i].Current
	}
	s.segments[0].Current = s.segments[0].Current.Add(s.facing)
	for i := 1; i < len(s.segments); i++ {
		s.segments[i].Current = s.segments[i-1].Previous
	}
	return s.facing
}

// Lengthens the snake by duplicating its tail segment. The duplicate stays
// put for one step while the rest of the body moves.
func (s *Snake) Grow() {
	s.segments = append(s.segments, s.segments[len(s.segments)-1])
}
