// This defines an executable that plays headless games with the autopilot and
// prints how they went.
package main

import (
	"flag"
	"fmt"
	"github.com/yalue/snakebot"
	"os"
)

// Totals across every simulated game.
type summary struct {
	games     int
	wins      int
	deaths    int
	timeouts  int
	ticks     int
	score     int
	decisions map[snakebot.DecisionKind]int
}

func (s *summary) add(g *snakebot.Game, timedOut bool) {
	s.games++
	s.ticks += g.Ticks()
	s.score += g.Score()
	if g.Won() {
		s.wins++
	} else if timedOut {
		s.timeouts++
	} else {
		s.deaths++
	}
	for kind, count := range g.DecisionCounts() {
		s.decisions[kind] += count
	}
}

func (s *summary) print() {
	fmt.Printf("Played %d games: %d won, %d died, %d timed out.\n", s.games,
		s.wins, s.deaths, s.timeouts)
	if s.games == 0 {
		return
	}
	fmt.Printf("Average ticks: %.1f, average score: %.1f\n",
		float64(s.ticks)/float64(s.games), float64(s.score)/float64(s.games))
	fmt.Printf("Decisions: %d shortcut, %d cycle, %d fallback, %d trapped\n",
		s.decisions[snakebot.DecisionShortcut],
		s.decisions[snakebot.DecisionCycle],
		s.decisions[snakebot.DecisionFallback],
		s.decisions[snakebot.DecisionTrapped])
}

// Runs a single game until it ends or maxTicks ticks have passed, recording
// every step if recorder isn't nil. Returns true if the game was cut off by
// maxTicks. The recorder is closed before returning, and a failure to write
// the trace is returned as an error.
func playGame(g *snakebot.Game, maxTicks int,
	recorder *snakebot.Recorder) (bool, error) {
	timedOut := false
	for g.Phase() != snakebot.PhaseOver {
		if g.Ticks() >= maxTicks {
			timedOut = true
			break
		}
		result := g.Tick()
		if recorder != nil {
			recorder.Record(snakebot.NewStepRecord(g, result))
		}
	}
	if recorder == nil {
		return timedOut, nil
	}
	e := recorder.Close()
	if e != nil {
		return timedOut, fmt.Errorf("Error writing trace: %w", e)
	}
	if recorder.Dropped() != 0 {
		fmt.Printf("Warning: %d trace records were dropped.\n",
			recorder.Dropped())
	}
	return timedOut, nil
}

func run() int {
	var size, games, maxTicks, initialLength int
	var safetyBuffer, gapPenalty, gapFactor int
	var minEmpty float64
	var seed int64
	var noCutting, quiet bool
	var traceDir string
	flag.IntVar(&size, "size", 20,
		"The width and height of the grid, in cells. Must be even.")
	flag.IntVar(&games, "games", 10, "The number of games to play.")
	flag.Int64Var(&seed, "seed", -1,
		"If positive, specifies the random seed for the first game. Later "+
			"games use consecutive seeds.")
	flag.IntVar(&maxTicks, "max_ticks", 0,
		"Stop a game after this many ticks. Defaults to 4 times the cell "+
			"count squared.")
	flag.IntVar(&initialLength, "initial_length", 0,
		"If positive, overrides the snake's starting length.")
	flag.BoolVar(&noCutting, "no_cutting", false,
		"If set, the snake only follows the cycle and never cuts across it.")
	flag.IntVar(&safetyBuffer, "safety_buffer", 3,
		"Cycle distance kept free between the head and tail after a cut.")
	flag.IntVar(&gapPenalty, "gap_penalty", 10,
		"Budget reduction when the food is far ahead of the tail.")
	flag.IntVar(&gapFactor, "gap_factor", 4,
		"Weight of the food-to-tail gap against the empty cell count.")
	flag.Float64Var(&minEmpty, "min_empty_fraction", 0.5,
		"Stop cutting once fewer than this fraction of cells are empty.")
	flag.StringVar(&traceDir, "trace_dir", "",
		"If set, a JSON-lines trace of every game is written to this "+
			"directory.")
	flag.BoolVar(&quiet, "quiet", false,
		"If set, only the summary is printed.")
	flag.Parse()
	if (games < 1) || (maxTicks < 0) || (minEmpty < 0) || (minEmpty > 1) {
		fmt.Println("Invalid or missing argument.")
		fmt.Println("Run with -help for more information.")
		return 1
	}
	config := snakebot.DefaultConfig(size)
	if initialLength > 0 {
		config.InitialLength = initialLength
	}
	config.Cutting.SafetyBuffer = safetyBuffer
	config.Cutting.GapPenalty = gapPenalty
	config.Cutting.GapFactor = gapFactor
	config.Cutting.MinEmptyFraction = minEmpty
	config.Cutting.Disabled = noCutting
	e := config.Validate()
	if e != nil {
		fmt.Printf("Invalid settings: %s\n", e)
		return 1
	}
	if maxTicks == 0 {
		cells := size * size
		maxTicks = 4 * cells * cells
	}

	totals := summary{
		decisions: make(map[snakebot.DecisionKind]int),
	}
	for i := 0; i < games; i++ {
		if seed > 0 {
			config.Seed = seed + int64(i)
		}
		g, e := snakebot.NewGame(config)
		if e != nil {
			fmt.Printf("Failed starting game %d: %s\n", i+1, e)
			return 1
		}
		var recorder *snakebot.Recorder
		if traceDir != "" {
			recorder, e = snakebot.NewRecorder(traceDir, g.SessionID())
			if e != nil {
				fmt.Printf("Error creating trace for game %d: %s\n", i+1, e)
				return 1
			}
		}
		timedOut, e := playGame(g, maxTicks, recorder)
		if e != nil {
			fmt.Printf("Error playing game %d: %s\n", i+1, e)
			return 1
		}
		totals.add(g, timedOut)
		if quiet {
			continue
		}
		outcome := "died"
		if g.Won() {
			outcome = "won"
		} else if timedOut {
			outcome = "timed out"
		}
		fmt.Printf("Game %d (%s): %s after %d ticks with score %d.\n", i+1,
			g.SessionID(), outcome, g.Ticks(), g.Score())
	}
	totals.print()
	return 0
}

func main() {
	os.Exit(run())
}
