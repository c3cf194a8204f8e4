// Package timeslice records per-frame phase durations to a compact binary
// trace.
//
// A trace starts with a fixed header, the JSON list of kind names, and zero
// padding up to a 4096-byte boundary. Records follow as little-endian
// (kind uint64, nanoseconds int64) pairs.
package timeslice

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

const (
	Magic   uint32 = 0x54534c46 // "TSLF"
	Version uint32 = 3

	blockSize = 4096
)

// ErrClosed is returned by Close on an already closed writer.
var ErrClosed = errors.New("timeslice: already closed")

type header struct {
	Magic       uint32
	Version     uint32
	KindsLength uint32
}

// Kind identifies a recorded phase. Kinds are numbered from 1 in the order
// they were passed to Open.
type Kind uint64

type record struct {
	Kind     Kind
	Duration int64
}

var recordSize = binary.Size(record{})

// Stat aggregates the records of one kind.
type Stat struct {
	Count int
	Total time.Duration
	Max   time.Duration
}

// Mean returns the average duration, or zero when nothing was recorded.
func (s Stat) Mean() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

// Writer streams records to an io.Writer from a background goroutine. A nil
// *Writer discards everything, so callers can record unconditionally.
type Writer struct {
	w     io.Writer
	kinds []string

	records chan record
	done    chan error
	closed  atomic.Bool

	mu    sync.Mutex
	stats map[Kind]Stat
}

// Open writes the trace header for kinds and starts the writer goroutine.
func Open(w io.Writer, kinds ...string) (*Writer, error) {
	if len(kinds) == 0 {
		return nil, fmt.Errorf("timeslice: no kinds")
	}

	names, err := json.Marshal(kinds)
	if err != nil {
		return nil, fmt.Errorf("timeslice: marshal kinds: %w", err)
	}

	if err := binary.Write(w, binary.LittleEndian, header{
		Magic:       Magic,
		Version:     Version,
		KindsLength: uint32(len(names)),
	}); err != nil {
		return nil, fmt.Errorf("timeslice: write header: %w", err)
	}
	if _, err := w.Write(names); err != nil {
		return nil, fmt.Errorf("timeslice: write kinds: %w", err)
	}

	// pad to the block size so records start aligned
	if off := binary.Size(header{}) + len(names); off%blockSize != 0 {
		if _, err := w.Write(make([]byte, blockSize-off%blockSize)); err != nil {
			return nil, fmt.Errorf("timeslice: write padding: %w", err)
		}
	}

	tw := &Writer{
		w:       w,
		kinds:   kinds,
		records: make(chan record, blockSize),
		done:    make(chan error, 1),
		stats:   make(map[Kind]Stat),
	}
	go tw.run()
	return tw, nil
}

func (w *Writer) run() {
	var buf [blockSize]byte
	off := 0
	var failed error

	// Keep draining after a write error so Record never blocks forever.
	for rec := range w.records {
		if failed != nil {
			continue
		}
		if off+recordSize > len(buf) {
			if _, err := w.w.Write(buf[:off]); err != nil {
				failed = err
				continue
			}
			off = 0
		}
		binary.LittleEndian.PutUint64(buf[off:off+8], uint64(rec.Kind))
		binary.LittleEndian.PutUint64(buf[off+8:off+16], uint64(rec.Duration))
		off += recordSize
	}

	if failed == nil && off > 0 {
		_, failed = w.w.Write(buf[:off])
	}
	w.done <- failed
}

// Kind returns the kind registered under name, or false.
func (w *Writer) Kind(name string) (Kind, bool) {
	if w == nil {
		return 0, false
	}
	for i, k := range w.kinds {
		if k == name {
			return Kind(i + 1), true
		}
	}
	return 0, false
}

// Record queues one duration. Unknown kinds and records after Close are
// dropped.
func (w *Writer) Record(kind Kind, d time.Duration) {
	if w == nil || kind == 0 || int(kind) > len(w.kinds) || w.closed.Load() {
		return
	}

	w.mu.Lock()
	s := w.stats[kind]
	s.Count++
	s.Total += d
	s.Max = max(s.Max, d)
	w.stats[kind] = s
	w.mu.Unlock()

	w.records <- record{Kind: kind, Duration: d.Nanoseconds()}
}

// Stats returns the aggregate per kind name.
func (w *Writer) Stats() map[string]Stat {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make(map[string]Stat, len(w.stats))
	for k, s := range w.stats {
		out[w.kinds[k-1]] = s
	}
	return out
}

// Close flushes buffered records and stops the writer goroutine. Record must
// not be called concurrently with Close.
func (w *Writer) Close() error {
	if w == nil {
		return nil
	}
	if !w.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	close(w.records)
	if err := <-w.done; err != nil {
		return fmt.Errorf("timeslice: write records: %w", err)
	}
	return nil
}

// Recorder measures consecutive phases: each Mark records the time since the
// previous Mark (or Reset).
type Recorder struct {
	w    *Writer
	last time.Time
}

func NewRecorder(w *Writer) *Recorder {
	return &Recorder{w: w, last: time.Now()}
}

// Reset starts a new phase without recording.
func (r *Recorder) Reset() { r.last = time.Now() }

// Mark records the phase that just ended as kind.
func (r *Recorder) Mark(kind Kind) {
	now := time.Now()
	r.w.Record(kind, now.Sub(r.last))
	r.last = now
}

// ReadAll decodes a trace and calls fn for every record in order.
func ReadAll(r io.Reader, fn func(kind string, d time.Duration) error) error {
	buf := bufio.NewReaderSize(r, blockSize)

	var h header
	if err := binary.Read(buf, binary.LittleEndian, &h); err != nil {
		return fmt.Errorf("timeslice: read header: %w", err)
	}
	if h.Magic != Magic {
		return fmt.Errorf("timeslice: invalid magic %#x", h.Magic)
	}
	if h.Version != Version {
		return fmt.Errorf("timeslice: unsupported version %d", h.Version)
	}

	var kinds []string
	if err := json.NewDecoder(io.LimitReader(buf, int64(h.KindsLength))).Decode(&kinds); err != nil {
		return fmt.Errorf("timeslice: decode kinds: %w", err)
	}

	if off := binary.Size(h) + int(h.KindsLength); off%blockSize != 0 {
		if _, err := buf.Discard(blockSize - off%blockSize); err != nil {
			return fmt.Errorf("timeslice: skip padding: %w", err)
		}
	}

	for {
		var rec record
		if err := binary.Read(buf, binary.LittleEndian, &rec); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("timeslice: read record: %w", err)
		}
		if rec.Kind == 0 || int(rec.Kind) > len(kinds) {
			return fmt.Errorf("timeslice: unknown kind %d", rec.Kind)
		}
		if err := fn(kinds[rec.Kind-1], time.Duration(rec.Duration)); err != nil {
			return err
		}
	}
}
