package audio

import "sync/atomic"

// ReadResult reports the outcome of a Ring.Read call.
type ReadResult int

const (
	// ReadOK means the requested samples were copied into the output.
	ReadOK ReadResult = iota
	// ReadOverrun means the read position was overwritten (too far behind).
	// The read cursor jumped forward and the output was filled with silence.
	ReadOverrun
	// ReadUnderrun means the requested samples have not been produced yet.
	// The output was filled with silence and the read cursor did not move.
	ReadUnderrun
)

func (r ReadResult) String() string {
	switch r {
	case ReadOK:
		return "ok"
	case ReadOverrun:
		return "overrun"
	case ReadUnderrun:
		return "underrun"
	default:
		return "unknown"
	}
}

// Ring is a lock-free circular store of interleaved float32 samples
// supporting sequential writes and random-access reads.
//
// The write side (input callback) always appends. The read side (output
// callback) reads from a position the playback controller may reposition
// at any time, which is what makes pause, seek, and time-shifted playback
// possible.
//
// Positions are absolute sample counts, monotonically increasing for the
// session. Physical index = position % capacity. The producer is the sole
// writer of buffer contents and of the write position; the read position
// may be set by the output callback or by a control command, but never by
// both within the same cycle. Both hot paths are allocation-free and never
// block.
type Ring struct {
	buf      []float32
	capacity uint64

	// Absolute write position: total interleaved samples written since start.
	writePos atomic.Uint64
	// Absolute read position: where the output callback reads next.
	readPos atomic.Uint64
	// Set on the first write; reads before that report underrun.
	active atomic.Bool
}

// NewRing creates a ring with the given capacity in interleaved samples.
func NewRing(capacity int) *Ring {
	return &Ring{
		buf:      make([]float32, capacity),
		capacity: uint64(capacity),
	}
}

// Write appends interleaved samples. Called by the input callback only.
// The new write position is published after the samples are in place, so
// any reader observing it sees the corresponding data.
func (r *Ring) Write(samples []float32) {
	wp := r.writePos.Load()
	src := samples
	pos := wp
	if uint64(len(src)) > r.capacity {
		// Only the last capacity samples survive a single oversized write.
		skip := uint64(len(src)) - r.capacity
		src = src[skip:]
		pos += skip
	}
	idx := pos % r.capacity
	n := copy(r.buf[idx:], src)
	copy(r.buf, src[n:])
	r.writePos.Store(wp + uint64(len(samples)))
	r.active.Store(true)
}

// Read copies len(out) samples starting at the current read position and
// advances it. Called by the output callback only. Overrun and underrun are
// steady-state conditions, not faults: the call always returns, emitting
// silence where real samples are unavailable.
func (r *Ring) Read(out []float32) ReadResult {
	if !r.active.Load() {
		clear(out)
		return ReadUnderrun
	}

	rp := r.readPos.Load()
	wp := r.writePos.Load()

	// Overrun: data at rp was already overwritten. Resynchronize to the
	// buffer midpoint rather than the live edge so the next cycles keep
	// some slack before the read cursor can underrun.
	if wp > rp+r.capacity {
		r.readPos.Store(wp - r.capacity/2)
		clear(out)
		return ReadOverrun
	}

	// Underrun: not enough data produced yet. Do not advance.
	if rp+uint64(len(out)) > wp {
		clear(out)
		return ReadUnderrun
	}

	idx := rp % r.capacity
	n := copy(out, r.buf[idx:])
	copy(out[n:], r.buf)
	r.readPos.Store(rp + uint64(len(out)))
	return ReadOK
}

// WritePosition returns the absolute write position.
func (r *Ring) WritePosition() uint64 {
	return r.writePos.Load()
}

// ReadPosition returns the absolute read position.
func (r *Ring) ReadPosition() uint64 {
	return r.readPos.Load()
}

// SetReadPosition repositions the read cursor. Called by the controller on
// seek, resume, and jump-to-live. A single atomic store, so a concurrent
// Read sees either the old or the new position, never a torn one.
func (r *Ring) SetReadPosition(pos uint64) {
	r.readPos.Store(pos)
}

// DelaySamples returns write position minus read position, saturating at 0.
func (r *Ring) DelaySamples() uint64 {
	wp := r.writePos.Load()
	rp := r.readPos.Load()
	if wp < rp {
		return 0
	}
	return wp - rp
}

// UsageFraction returns how much of the buffer is in use (0.0 - 1.0).
func (r *Ring) UsageFraction() float64 {
	return float64(r.DelaySamples()) / float64(r.capacity)
}

// Active reports whether the input has started writing.
func (r *Ring) Active() bool {
	return r.active.Load()
}

// Capacity returns the buffer capacity in interleaved samples.
func (r *Ring) Capacity() int {
	return int(r.capacity)
}
