// Package trace writes and reads decision traces: one JSON line per decision,
// zstd-compressed, one file per run.
package trace

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/talgya/mini-village/internal/agents"
	"github.com/talgya/mini-village/internal/perception"
)

// Ext is the trace file extension.
const Ext = ".jsonl.zst"

// Record is one traced decision.
type Record struct {
	RunID      string                 `json:"run_id"`
	Tick       uint64                 `json:"tick"`
	Agent      agents.AgentID         `json:"agent"`
	Features   []float32              `json:"features"`
	Action     agents.ActionType      `json:"action"`
	Reason     string                 `json:"reason"`
	Target     [2]int                 `json:"target"`
	Perception *perception.Perception `json:"perception,omitempty"`
}

// Writer appends records to a compressed JSONL file. It satisfies the
// simulation's decision recorder.
type Writer struct {
	runID string
	path  string
	full  bool

	mu    sync.Mutex
	f     *os.File
	enc   *zstd.Encoder
	w     *bufio.Writer
	count int
}

// Path returns the trace file path for a run inside dir.
func Path(dir, runID string) string {
	return filepath.Join(dir, runID+Ext)
}

// NewWriter creates dir if needed and opens a fresh trace file for the run.
// With full set, every record carries its whole perception.
func NewWriter(dir, runID string, full bool) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create trace dir: %w", err)
	}
	path := Path(dir, runID)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open trace: %w", err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("zstd writer: %w", err)
	}
	return &Writer{
		runID: runID,
		path:  path,
		full:  full,
		f:     f,
		enc:   enc,
		w:     bufio.NewWriterSize(enc, 128*1024),
	}, nil
}

// Record traces one decision.
func (w *Writer) Record(p *perception.Perception, a agents.Action) error {
	rec := Record{
		RunID:    w.runID,
		Tick:     p.Tick,
		Agent:    p.Self,
		Features: perception.Encode(p),
		Action:   a.Type,
		Reason:   a.Reason,
		Target:   [2]int{a.Target.X, a.Target.Y},
	}
	if w.full {
		rec.Perception = p
	}
	return w.Write(rec)
}

// Write appends one record.
func (w *Writer) Write(rec Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.w == nil {
		return os.ErrClosed
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	w.count++
	return nil
}

// Count returns the number of records written so far.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// File returns the path being written.
func (w *Writer) File() string { return w.path }

// Close flushes and closes the file. Closing twice is a no-op.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.w == nil {
		return nil
	}
	errFlush := w.w.Flush()
	errEnc := w.enc.Close()
	errFile := w.f.Close()
	w.w, w.enc, w.f = nil, nil, nil
	return errors.Join(errFlush, errEnc, errFile)
}

// Reader iterates the records of a trace file.
type Reader struct {
	f   *os.File
	dec *zstd.Decoder
	sc  *bufio.Scanner
}

// Open opens a trace file for reading.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trace: %w", err)
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)
	return &Reader{f: f, dec: dec, sc: sc}, nil
}

// Next returns the next record, or io.EOF after the last one.
func (r *Reader) Next() (Record, error) {
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return Record{}, err
		}
		return Record{}, io.EOF
	}
	var rec Record
	if err := json.Unmarshal(r.sc.Bytes(), &rec); err != nil {
		return Record{}, fmt.Errorf("decode record: %w", err)
	}
	return rec, nil
}

// Close releases the file.
func (r *Reader) Close() error {
	r.dec.Close()
	return r.f.Close()
}

// ReadAll loads every record of a trace file.
func ReadAll(path string) ([]Record, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var out []Record
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}

// ActionCounts tallies records by action tag.
func ActionCounts(records []Record) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Action.String()]++
	}
	return counts
}
