package trace

import (
	"io"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// RingTracer keeps the last capacity events in memory, in one buffer shared
// by all enabled flags.
// It is safe for concurrent use even though the core itself never calls it
// from more than one goroutine; embedding drivers sometimes fan work out.
type RingTracer struct {
	mu       sync.Mutex
	flags    map[Flag]bool
	events   []Event
	capacity int
	head     int
	full     bool
	seq      uint64
}

// NewRingTracer returns a tracer that records events for the given flags
// into a circular buffer of capacity entries (default 4096).
func NewRingTracer(capacity int, flags ...Flag) *RingTracer {
	if capacity <= 0 {
		capacity = 4096
	}
	set := make(map[Flag]bool, len(flags))
	for _, f := range flags {
		set[f] = true
	}
	return &RingTracer{
		flags:    set,
		events:   make([]Event, capacity),
		capacity: capacity,
	}
}

// Enabled reports whether flag was passed to NewRingTracer.
func (t *RingTracer) Enabled(flag Flag) bool {
	if t == nil {
		return false
	}
	return t.flags[flag]
}

// Emit stores ev, overwriting the oldest entry once the buffer is full.
func (t *RingTracer) Emit(ev Event) {
	if t == nil || !t.Enabled(ev.Flag) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	ev.Seq = t.seq
	t.events[t.head] = ev
	t.head = (t.head + 1) % t.capacity
	if t.head == 0 {
		t.full = true
	}
}

// Snapshot returns a copy of the buffered events in emission order.
func (t *RingTracer) Snapshot() []Event {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.full {
		out := make([]Event, t.head)
		copy(out, t.events[:t.head])
		return out
	}
	out := make([]Event, t.capacity)
	n := copy(out, t.events[t.head:])
	copy(out[n:], t.events[:t.head])
	return out
}

// Dump msgpack-encodes the current snapshot to w, for offline inspection of
// a run's trace alongside its build cache (see the driver's dcache use of
// the same codec).
func (t *RingTracer) Dump(w io.Writer) error {
	return msgpack.NewEncoder(w).Encode(t.Snapshot())
}

// LoadDump decodes a snapshot previously written by Dump.
func LoadDump(r io.Reader) ([]Event, error) {
	var events []Event
	if err := msgpack.NewDecoder(r).Decode(&events); err != nil {
		return nil, err
	}
	return events, nil
}
