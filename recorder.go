package snakebot

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// The number of step records that can be waiting to be written before new
// ones are dropped.
const recordQueueSize = 1000

// One line of a game trace.
type StepRecord struct {
	SessionID string       `json:"sessionId"`
	Tick      int          `json:"tick"`
	Direction Direction    `json:"direction"`
	Kind      DecisionKind `json:"kind"`
	Head      Point        `json:"head"`
	Food      *Point       `json:"food,omitempty"`
	Length    int          `json:"length"`
	Score     int          `json:"score"`
	Ate       bool         `json:"ate,omitempty"`
	Phase     Phase        `json:"phase"`
}

// Builds the record describing the tick that just produced result.
func NewStepRecord(g *Game, result TickResult) StepRecord {
	positions := g.SnakePositions()
	toReturn := StepRecord{
		SessionID: g.SessionID(),
		Tick:      g.Ticks(),
		Direction: result.Direction,
		Kind:      result.Kind,
		Head:      positions[0],
		Length:    len(positions),
		Score:     g.Score(),
		Ate:       result.Ate,
		Phase:     result.Phase,
	}
	if food, ok := g.Food(); ok {
		toReturn.Food = &food
	}
	return toReturn
}

// Writes step records as JSON lines from a background goroutine, so the game
// loop never waits on I/O.
type Recorder struct {
	closer     io.Closer
	writer     *bufio.Writer
	recordChan chan StepRecord
	wg         sync.WaitGroup
	mu         sync.Mutex
	closed     bool
	dropped    int
	// The first encode or flush error. Only set by the writer goroutine.
	writeErr error
}

// Creates a recorder writing to a new file in dir, named
// game_<sessionID>_<unix time>.jsonl. The directory is created if needed.
func NewRecorder(dir, sessionID string) (*Recorder, error) {
	e := os.MkdirAll(dir, 0755)
	if e != nil {
		return nil, fmt.Errorf("Failed creating trace dir %s: %w", dir, e)
	}
	filename := fmt.Sprintf("game_%s_%d.jsonl", sessionID, time.Now().Unix())
	path := filepath.Join(dir, filename)
	f, e := os.Create(path)
	if e != nil {
		return nil, fmt.Errorf("Failed creating trace file %s: %w", path, e)
	}
	toReturn := newRecorder(f)
	toReturn.closer = f
	return toReturn, nil
}

// Creates a recorder writing to w. Closing the recorder flushes but doesn't
// close w.
func NewStreamRecorder(w io.Writer) *Recorder {
	return newRecorder(w)
}

func newRecorder(w io.Writer) *Recorder {
	toReturn := &Recorder{
		writer:     bufio.NewWriter(w),
		recordChan: make(chan StepRecord, recordQueueSize),
	}
	toReturn.wg.Add(1)
	go toReturn.writeLoop()
	return toReturn
}

// Queues a record to be written. Never blocks: if the queue is full, the
// record is dropped and counted.
func (r *Recorder) Record(rec StepRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	select {
	case r.recordChan <- rec:
	default:
		r.dropped++
	}
}

// Returns the number of records dropped because the queue was full.
func (r *Recorder) Dropped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// Writes out every queued record and closes the underlying file, if the
// recorder created one. Returns the first error hit while writing records,
// so a truncated trace isn't mistaken for a complete one. Only the first call
// does anything.
func (r *Recorder) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.recordChan)
	r.mu.Unlock()

	r.wg.Wait()
	var closeErr error
	if r.closer != nil {
		closeErr = r.closer.Close()
	}
	if r.writeErr != nil {
		return r.writeErr
	}
	return closeErr
}

func (r *Recorder) writeLoop() {
	defer r.wg.Done()
	encoder := json.NewEncoder(r.writer)
	for rec := range r.recordChan {
		if r.writeErr != nil {
			continue
		}
		e := encoder.Encode(rec)
		if e != nil {
			r.writeErr = fmt.Errorf("Error recording step %d: %w", rec.Tick,
				e)
			fmt.Fprintf(os.Stderr, "%s\n", r.writeErr)
		}
	}
	if r.writeErr != nil {
		return
	}
	e := r.writer.Flush()
	if e != nil {
		r.writeErr = fmt.Errorf("Error flushing step records: %w", e)
	}
}
