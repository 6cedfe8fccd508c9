// Package engine owns the audio hardware session: it selects the capture and
// playback devices, registers their real-time callbacks, and wires both to
// the shared ring and playback controller.
package engine

import (
	"fmt"
	"unsafe"

	"github.com/gen2brain/malgo"

	"github.com/satindergrewal/drift/internal/audio"
	"github.com/satindergrewal/drift/internal/playback"
)

// Params are the session parameters, fixed at construction.
type Params struct {
	// InputDevice and OutputDevice are case-insensitive name substrings.
	// Empty selects the system default.
	InputDevice  string
	OutputDevice string

	SampleRate    int
	Channels      int
	BufferSeconds int
	BaseDelayMs   float64
}

// Engine holds the live audio session. The capture device's data callback is
// the producer (writes into the ring); the playback device's data callback is
// the consumer (reads, ramps, scales, meters). Neither callback locks,
// blocks, or allocates.
type Engine struct {
	ctx     *malgo.AllocatedContext
	inDev   *malgo.Device
	outDev  *malgo.Device
	started bool

	Ring       *audio.Ring
	Controller *playback.Controller

	InputName  string
	OutputName string
	SampleRate int
	Channels   int
}

// New creates the ring, the controller, and both audio devices. Any device
// mismatch or init failure is terminal: the core has no recovery path for
// session-construction errors.
func New(p Params) (*Engine, error) {
	ctx, err := malgo.InitContext([]malgo.Backend{platformBackend()}, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("init audio context: %w", err)
	}

	e := &Engine{
		ctx:        ctx,
		SampleRate: p.SampleRate,
		Channels:   p.Channels,
	}

	inInfo, err := findDevice(ctx, malgo.Capture, p.InputDevice)
	if err != nil {
		e.Close()
		return nil, err
	}
	outInfo, err := findDevice(ctx, malgo.Playback, p.OutputDevice)
	if err != nil {
		e.Close()
		return nil, err
	}
	if inInfo.ID.String() == outInfo.ID.String() {
		e.Close()
		return nil, fmt.Errorf("input and output cannot be the same device (%q)", inInfo.Name())
	}
	e.InputName = inInfo.Name()
	e.OutputName = outInfo.Name()

	capacity := p.SampleRate * p.Channels * p.BufferSeconds
	e.Ring = audio.NewRing(capacity)
	e.Controller = playback.NewController(e.Ring, p.Channels, p.SampleRate, p.BaseDelayMs)

	if err := e.initCapture(inInfo, p); err != nil {
		e.Close()
		return nil, err
	}
	if err := e.initPlayback(outInfo, p); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

func (e *Engine) initCapture(info *malgo.DeviceInfo, p Params) error {
	cfg := malgo.DefaultDeviceConfig(malgo.Capture)
	cfg.Capture.Format = malgo.FormatF32
	cfg.Capture.Channels = uint32(p.Channels)
	cfg.Capture.DeviceID = info.ID.Pointer()
	cfg.SampleRate = uint32(p.SampleRate)
	cfg.Alsa.NoMMap = 1

	ring := e.Ring
	dev, err := malgo.InitDevice(e.ctx.Context, cfg, malgo.DeviceCallbacks{
		Data: func(_, input []byte, frameCount uint32) {
			if samples := f32Samples(input, int(frameCount)*p.Channels); samples != nil {
				ring.Write(samples)
			}
		},
	})
	if err != nil {
		return fmt.Errorf("init capture device %q: %w", e.InputName, err)
	}
	e.inDev = dev
	return nil
}

func (e *Engine) initPlayback(info *malgo.DeviceInfo, p Params) error {
	cfg := malgo.DefaultDeviceConfig(malgo.Playback)
	cfg.Playback.Format = malgo.FormatF32
	cfg.Playback.Channels = uint32(p.Channels)
	cfg.Playback.DeviceID = info.ID.Pointer()
	cfg.SampleRate = uint32(p.SampleRate)
	cfg.Alsa.NoMMap = 1

	ring := e.Ring
	ctrl := e.Controller
	dev, err := malgo.InitDevice(e.ctx.Context, cfg, malgo.DeviceCallbacks{
		Data: func(output, _ []byte, frameCount uint32) {
			out := f32Samples(output, int(frameCount)*p.Channels)
			if out == nil {
				return
			}
			if ctrl.PreRead(int(frameCount)) == playback.Paused {
				// Read cursor stays frozen while paused; emit silence.
				clear(out)
			} else {
				ring.Read(out)
			}
			ctrl.ApplyRamp(out)
			ctrl.ApplyVolume(out)
			ctrl.UpdatePeaks(out)
		},
	})
	if err != nil {
		return fmt.Errorf("init playback device %q: %w", e.OutputName, err)
	}
	e.outDev = dev
	return nil
}

// Start begins capture and playback.
func (e *Engine) Start() error {
	if err := e.inDev.Start(); err != nil {
		return fmt.Errorf("start capture: %w", err)
	}
	if err := e.outDev.Start(); err != nil {
		e.inDev.Stop()
		return fmt.Errorf("start playback: %w", err)
	}
	e.started = true
	return nil
}

// Close stops and releases both devices and the audio context.
func (e *Engine) Close() {
	if e.outDev != nil {
		if e.started {
			e.outDev.Stop()
		}
		e.outDev.Uninit()
		e.outDev = nil
	}
	if e.inDev != nil {
		if e.started {
			e.inDev.Stop()
		}
		e.inDev.Uninit()
		e.inDev = nil
	}
	if e.ctx != nil {
		e.ctx.Uninit()
		e.ctx.Free()
		e.ctx = nil
	}
	e.started = false
}

// f32Samples reinterprets a device byte buffer as interleaved float32
// samples without copying. The device format is FormatF32, so layout and
// alignment are guaranteed by malgo.
func f32Samples(b []byte, n int) []float32 {
	if n <= 0 || len(b) < n*4 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&b[0])), n)
}
