package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gocarina/gocsv"
)

// RunCSV is the flat CSV form of a run
type RunCSV struct {
	ID        int64   `csv:"id"`
	Session   string  `csv:"session"`
	Name      string  `csv:"name"`
	Score     int64   `csv:"score"`
	Ticks     int64   `csv:"ticks"`
	Duration  float64 `csv:"duration"`
	Fallback  bool    `csv:"fallback"`
	Hit       string  `csv:"hit"`
	CreatedAt string  `csv:"created_at"`
}

// ToCSV converts a stored run
func (r RunRow) ToCSV() RunCSV {
	return RunCSV{
		ID:        r.ID,
		Session:   r.SessionID,
		Name:      r.Name,
		Score:     r.Score,
		Ticks:     r.Ticks,
		Duration:  r.Duration,
		Fallback:  r.Fallback,
		Hit:       r.HitKind,
		CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// WriteRunsCSV writes runs with a header row
func WriteRunsCSV(w io.Writer, runs []RunRow) error {
	records := make([]RunCSV, len(runs))
	for i, r := range runs {
		records[i] = r.ToCSV()
	}
	if err := gocsv.Marshal(records, w); err != nil {
		return fmt.Errorf("writing runs: %w", err)
	}
	return nil
}

// RunLog appends each recorded run to a CSV file as it finishes.
type RunLog struct {
	mu            sync.Mutex
	file          *os.File
	headerWritten bool
}

// OpenRunLog opens the CSV file at path for appending, creating it if
// needed. Returns nil if path is empty (logging disabled).
func OpenRunLog(path string) (*RunLog, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating run log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	// An existing log already carries its header row
	return &RunLog{file: f, headerWritten: info.Size() > 0}, nil
}

// Append writes one run
func (l *RunLog) Append(id int64, run RunRecord) error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	records := []RunCSV{{
		ID:        id,
		Session:   run.SessionID,
		Name:      run.Name,
		Score:     int64(run.Score),
		Ticks:     int64(run.Ticks),
		Duration:  round2(run.Duration),
		Fallback:  run.Fallback,
		Hit:       run.HitKind.String(),
		CreatedAt: run.EndedAt.UTC().Format(time.RFC3339),
	}}

	if !l.headerWritten {
		if err := gocsv.Marshal(records, l.file); err != nil {
			return fmt.Errorf("writing run: %w", err)
		}
		l.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, l.file); err != nil {
		return fmt.Errorf("writing run: %w", err)
	}
	return nil
}

// Close closes the file
func (l *RunLog) Close() error {
	if l == nil {
		return nil
	}
	return l.file.Close()
}
