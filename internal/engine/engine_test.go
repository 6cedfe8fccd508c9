package engine

import (
	"testing"

	"github.com/gen2brain/malgo"
)

func TestF32SamplesView(t *testing.T) {
	b := make([]byte, 16)
	s := f32Samples(b, 4)
	if len(s) != 4 {
		t.Fatalf("len = %d, want 4", len(s))
	}

	// Writes through the view land in the backing bytes: a second view
	// over the same buffer sees them.
	s[0] = 1.5
	s[3] = -0.25
	s2 := f32Samples(b, 4)
	if s2[0] != 1.5 || s2[3] != -0.25 {
		t.Errorf("second view = [%v ... %v], want [1.5 ... -0.25]", s2[0], s2[3])
	}
}

func TestF32SamplesRejectsShortBuffers(t *testing.T) {
	b := make([]byte, 16)
	if s := f32Samples(b, 0); s != nil {
		t.Errorf("zero samples: got %v, want nil", s)
	}
	if s := f32Samples(b[:7], 2); s != nil {
		t.Errorf("short buffer: got %v, want nil", s)
	}
	if s := f32Samples(nil, 1); s != nil {
		t.Errorf("nil buffer: got %v, want nil", s)
	}
}

func TestKindLabel(t *testing.T) {
	if got := kindLabel(malgo.Capture); got != "capture" {
		t.Errorf("kindLabel(Capture) = %q", got)
	}
	if got := kindLabel(malgo.Playback); got != "playback" {
		t.Errorf("kindLabel(Playback) = %q", got)
	}
}
