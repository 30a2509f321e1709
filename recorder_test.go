package snakebot

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStreamRecorder(t *testing.T) {
	config := DefaultConfig(8)
	config.Seed = 21
	g, e := NewGame(config)
	if e != nil {
		t.Fatalf("Failed creating game: %s", e)
	}
	var output bytes.Buffer
	recorder := NewStreamRecorder(&output)
	for i := 0; i < 20; i++ {
		result := g.Tick()
		recorder.Record(NewStepRecord(g, result))
		if result.Phase == PhaseOver {
			break
		}
	}
	ticks := g.Ticks()
	e = recorder.Close()
	if e != nil {
		t.Fatalf("Failed closing recorder: %s", e)
	}
	if recorder.Dropped() != 0 {
		t.Errorf("Recorder dropped %d records", recorder.Dropped())
	}
	// Recording after closing is ignored.
	recorder.Record(StepRecord{Tick: 1000})

	scanner := bufio.NewScanner(&output)
	lines := 0
	for scanner.Scan() {
		var record struct {
			SessionID string `json:"sessionId"`
			Tick      int    `json:"tick"`
			Direction string `json:"direction"`
			Kind      string `json:"kind"`
			Head      Point  `json:"head"`
			Length    int    `json:"length"`
		}
		e = json.Unmarshal(scanner.Bytes(), &record)
		if e != nil {
			t.Fatalf("Failed parsing record %q: %s", scanner.Text(), e)
		}
		lines++
		if record.Tick != lines {
			t.Errorf("Record %d has tick %d", lines, record.Tick)
		}
		if record.SessionID != g.SessionID() {
			t.Errorf("Record has session %s, expected %s", record.SessionID,
				g.SessionID())
		}
		if (record.Direction == "") || (record.Kind == "") ||
			(record.Length < 4) {
			t.Errorf("Incomplete record: %s", scanner.Text())
		}
	}
	if lines != ticks {
		t.Errorf("Expected %d records, got %d", ticks, lines)
	}
}

func TestFileRecorder(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "traces")
	recorder, e := NewRecorder(dir, "test-session")
	if e != nil {
		t.Fatalf("Failed creating recorder: %s", e)
	}
	food := Point{1, 2}
	recorder.Record(StepRecord{
		SessionID: "test-session",
		Tick:      1,
		Direction: Left,
		Kind:      DecisionShortcut,
		Head:      Point{3, 3},
		Food:      &food,
		Length:    4,
		Phase:     PhaseRunning,
	})
	e = recorder.Close()
	if e != nil {
		t.Fatalf("Failed closing recorder: %s", e)
	}
	e = recorder.Close()
	if e != nil {
		t.Errorf("Closing the recorder twice failed: %s", e)
	}
	matches, e := filepath.Glob(filepath.Join(dir, "game_test-session_*.jsonl"))
	if e != nil {
		t.Fatalf("Failed listing trace files: %s", e)
	}
	if len(matches) != 1 {
		t.Fatalf("Expected one trace file, found %v", matches)
	}
	content, e := os.ReadFile(matches[0])
	if e != nil {
		t.Fatalf("Failed reading trace file: %s", e)
	}
	text := string(content)
	for _, expected := range []string{`"direction":"left"`,
		`"kind":"shortcut"`, `"phase":"running"`, `"food":{"x":1,"y":2}`} {
		if !strings.Contains(text, expected) {
			t.Errorf("Trace %s doesn't contain %s", text, expected)
		}
	}
}

var errDiskFull = errors.New("disk full")

// An io.Writer that rejects every write.
type failingWriter struct{}

func (w failingWriter) Write(data []byte) (int, error) {
	return 0, errDiskFull
}

func TestRecorderReportsWriteErrors(t *testing.T) {
	recorder := NewStreamRecorder(failingWriter{})
	for i := 1; i <= 3; i++ {
		recorder.Record(StepRecord{SessionID: "lost", Tick: i})
	}
	e := recorder.Close()
	if !errors.Is(e, errDiskFull) {
		t.Fatalf("Expected closing to report the write error, got %v", e)
	}
	t.Logf("Got expected error closing recorder: %s", e)
	e = recorder.Close()
	if e != nil {
		t.Errorf("Closing the recorder again failed: %s", e)
	}
}
