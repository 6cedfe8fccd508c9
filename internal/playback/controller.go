package playback

import (
	"sync/atomic"

	"github.com/satindergrewal/drift/internal/audio"
)

// rampLength is the anti-click fade-in window in samples per channel,
// applied after any discontinuous repositioning of the read cursor.
const rampLength = 256

// peakDecay is the per-callback exponential release factor for the meters.
const peakDecay = 0.85

// minBaseDelayMs is the floor on the requested base delay. It guarantees the
// read cursor never starts ahead of any written data.
const minBaseDelayMs = 10.0

// Controller is the shared state bridge between the control surface and the
// audio callbacks.
//
// All fields are atomics. Commands run on the control thread and tolerate
// benign races with the output callback: a command takes effect from the
// next callback cycle, and the read position is a single atomic word so no
// torn value is ever observed. The per-callback hooks (PreRead, ApplyRamp,
// ApplyVolume, UpdatePeaks) are O(buffer length), allocation-free, and
// never block or lock.
type Controller struct {
	ring       *audio.Ring
	channels   int
	sampleRate int

	// Target read offset behind the write cursor while Live, in
	// interleaved samples. Fixed at construction.
	baseDelaySamples uint64
	// Delays within this distance of baseDelaySamples classify as Live
	// (about 100ms of samples).
	tolerance uint64

	state         atomic.Uint32
	rampRemaining atomic.Int64

	// Meters and volume are stored as value*1000 for atomic access.
	peakLeft    atomic.Int64
	peakRight   atomic.Int64
	volume      atomic.Int64
	mutedVolume atomic.Int64
}

// NewController creates a controller over the shared ring. The requested
// base delay is floored at 10ms and converted to interleaved samples.
func NewController(ring *audio.Ring, channels, sampleRate int, baseDelayMs float64) *Controller {
	if baseDelayMs < minBaseDelayMs {
		baseDelayMs = minBaseDelayMs
	}
	c := &Controller{
		ring:             ring,
		channels:         channels,
		sampleRate:       sampleRate,
		baseDelaySamples: uint64(baseDelayMs/1000*float64(sampleRate)) * uint64(channels),
		tolerance:        uint64(sampleRate / 10 * channels),
	}
	c.volume.Store(1000)
	return c
}

// -- Queries (control thread, wait-free) --

// State returns the current playback state.
func (c *Controller) State() State {
	return stateFromOrdinal(c.state.Load())
}

// DelayMs returns how far playback lags capture, in milliseconds.
func (c *Controller) DelayMs() float64 {
	delay := float64(c.ring.DelaySamples())
	return delay / float64(c.channels) / float64(c.sampleRate) * 1000
}

// BufferUsage returns the fraction of the ring currently in use (0.0 - 1.0).
func (c *Controller) BufferUsage() float64 {
	return c.ring.UsageFraction()
}

// PeakLevels returns the smoothed left/right peak meter values.
func (c *Controller) PeakLevels() (left, right float32) {
	return float32(c.peakLeft.Load()) / 1000, float32(c.peakRight.Load()) / 1000
}

// Volume returns the output volume factor (1.0 = unity).
func (c *Controller) Volume() float32 {
	return float32(c.volume.Load()) / 1000
}

// Muted reports whether the output is muted.
func (c *Controller) Muted() bool {
	return c.mutedVolume.Load() > 0
}

// BaseDelaySamples returns the Live-mode read offset in interleaved samples.
func (c *Controller) BaseDelaySamples() uint64 {
	return c.baseDelaySamples
}

// -- Commands (control thread) --

// TogglePause flips between Paused and playing. Resuming reclassifies to
// Live or TimeShifted depending on how much delay accumulated while paused.
func (c *Controller) TogglePause() {
	switch c.State() {
	case Live, TimeShifted:
		c.state.Store(uint32(Paused))
	case Paused:
		c.state.Store(uint32(c.classify(c.ring.DelaySamples())))
		c.armRamp()
	}
}

// SeekMs moves playback by deltaMs within the buffered history. Positive
// deltas seek earlier (more delay), negative deltas seek toward live. The
// new position is clamped so it cannot pass the base-delay edge or exceed
// retained history (keeping a 10% margin against immediate overrun).
func (c *Controller) SeekMs(deltaMs float64) {
	deltaSamples := int64(deltaMs/1000*float64(c.sampleRate)) * int64(c.channels)

	wp := int64(c.ring.WritePosition())
	capacity := int64(c.ring.Capacity())

	lo := wp - capacity + capacity/10
	if lo < 0 {
		lo = 0
	}
	hi := wp - int64(c.baseDelaySamples)
	if hi < lo {
		hi = lo
	}

	newRead := int64(c.ring.ReadPosition()) - deltaSamples
	if newRead < lo {
		newRead = lo
	}
	if newRead > hi {
		newRead = hi
	}

	c.ring.SetReadPosition(uint64(newRead))
	c.state.Store(uint32(c.classify(uint64(wp - newRead))))
	c.armRamp()
}

// AdjustVolume changes the output volume by delta, clamped to [0.0, 1.5].
// A manual volume change always unmutes.
func (c *Controller) AdjustVolume(delta float64) {
	v := c.volume.Load() + int64(delta*1000)
	if v < 0 {
		v = 0
	}
	if v > 1500 {
		v = 1500
	}
	c.volume.Store(v)
	c.mutedVolume.Store(0)
}

// ToggleMute mutes the output, or restores the volume saved by the previous
// mute.
func (c *Controller) ToggleMute() {
	if saved := c.mutedVolume.Load(); saved > 0 {
		c.volume.Store(saved)
		c.mutedVolume.Store(0)
		return
	}
	current := c.volume.Load()
	if current < 1 {
		current = 1
	}
	c.mutedVolume.Store(current)
	c.volume.Store(0)
}

// JumpToLive snaps the read cursor back to the base delay behind capture.
func (c *Controller) JumpToLive() {
	wp := c.ring.WritePosition()
	var rp uint64
	if wp > c.baseDelaySamples {
		rp = wp - c.baseDelaySamples
	}
	c.ring.SetReadPosition(rp)
	c.state.Store(uint32(Live))
	c.armRamp()
}

// classify maps an accumulated delay to Live or TimeShifted: within
// tolerance of the base delay counts as Live.
func (c *Controller) classify(delay uint64) State {
	diff := delay - c.baseDelaySamples
	if delay < c.baseDelaySamples {
		diff = c.baseDelaySamples - delay
	}
	if diff <= c.tolerance {
		return Live
	}
	return TimeShifted
}

// armRamp restarts the anti-click fade-in after a cursor discontinuity.
func (c *Controller) armRamp() {
	c.rampRemaining.Store(int64(rampLength * c.channels))
}

// -- Per-callback hooks (output callback, real-time) --

// PreRead positions the read cursor for the coming cycle and returns the
// current state so the caller can emit silence while Paused.
//
// Only Live mode is corrected here: the producer and consumer clocks are
// not phase-locked, so without a per-cycle reset the Live delay would drift
// unbounded. Paused and TimeShifted rely on the sequential advance inside
// Read plus explicit seek/resume/jump commands.
func (c *Controller) PreRead(frameCount int) State {
	state := c.State()
	if state != Live {
		return state
	}

	wp := c.ring.WritePosition()
	offset := uint64(frameCount * c.channels)
	if c.baseDelaySamples > offset {
		offset = c.baseDelaySamples
	}
	var rp uint64
	if wp > offset {
		rp = wp - offset
	}
	c.ring.SetReadPosition(rp)
	return state
}

// ApplyRamp applies the linear anti-click fade-in to the output buffer,
// continuing across callback boundaries until the window is consumed.
func (c *Controller) ApplyRamp(out []float32) {
	remaining := c.rampRemaining.Load()
	if remaining <= 0 {
		return
	}
	total := int64(rampLength * c.channels)
	elapsed := total - remaining
	for i := range out {
		pos := elapsed + int64(i)
		if pos >= total {
			break
		}
		out[i] *= float32(pos) / float32(total)
	}
	consumed := int64(len(out))
	if consumed > remaining {
		consumed = remaining
	}
	c.rampRemaining.Add(-consumed)
}

// ApplyVolume scales the output buffer by the current volume, skipped at
// unity within the fixed-point resolution.
func (c *Controller) ApplyVolume(out []float32) {
	vol := float32(c.volume.Load()) / 1000
	if vol > 0.999 && vol < 1.001 {
		return
	}
	for i := range out {
		out[i] *= vol
	}
}

// UpdatePeaks folds this callback's per-channel maxima into the stored
// meter values: fast attack, exponential release.
func (c *Controller) UpdatePeaks(out []float32) {
	if c.channels == 0 {
		return
	}
	var instL, instR float32
	for i := 0; i < len(out); i += c.channels {
		if v := abs32(out[i]); v > instL {
			instL = v
		}
		if c.channels >= 2 && i+1 < len(out) {
			if v := abs32(out[i+1]); v > instR {
				instR = v
			}
		}
	}

	prevL := float32(c.peakLeft.Load()) / 1000
	prevR := float32(c.peakRight.Load()) / 1000
	if decayed := prevL * peakDecay; decayed > instL {
		instL = decayed
	}
	if decayed := prevR * peakDecay; decayed > instR {
		instR = decayed
	}
	c.peakLeft.Store(int64(instL * 1000))
	c.peakRight.Store(int64(instR * 1000))
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
