package snakebot

import (
	"time"

	"golang.org/x/exp/rand"
)

// The only randomness the library needs: a uniform integer in [0, n). Maze
// growth and food placement draw exclusively from one of these, so a fixed
// source makes generation reproducible.
type RandomSource interface {
	Intn(n int) int
}

// Returns a RandomSource backed by a PCG generator. If the given seed is not
// positive, a new seed will be selected based on the current time in
// nanoseconds.
func NewSeededSource(seed int64) RandomSource {
	if seed <= 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(uint64(seed)))
}
