package tui

import "testing"

func TestDecodeKey(t *testing.T) {
	tests := []struct {
		b    byte
		want keyKind
	}{
		{'q', kindQuit},
		{'Q', kindQuit},
		{0x03, kindQuit}, // Ctrl-C
		{' ', kindPause},
		{'l', kindLive},
		{'M', kindMute},
		{'h', kindHelp},
		{'x', kindNone},
	}
	for _, tt := range tests {
		if got := decodeKey(tt.b); got.kind != tt.want {
			t.Errorf("decodeKey(%q).kind = %v, want %v", tt.b, got.kind, tt.want)
		}
	}
}

func TestDecodeKeyDigits(t *testing.T) {
	for d := byte('1'); d <= '9'; d++ {
		ev := decodeKey(d)
		if ev.kind != kindDigit {
			t.Errorf("decodeKey(%q).kind = %v, want digit", d, ev.kind)
		}
		if ev.digit != int(d-'0') {
			t.Errorf("decodeKey(%q).digit = %d, want %d", d, ev.digit, d-'0')
		}
	}
	if ev := decodeKey('0'); ev.kind != kindNone {
		t.Errorf("decodeKey('0') = %v, want none", ev.kind)
	}
}

func TestDecodeArrow(t *testing.T) {
	tests := []struct {
		b    byte
		want keyKind
	}{
		{'A', kindUp},
		{'B', kindDown},
		{'C', kindRight},
		{'D', kindLeft},
		{'Z', kindNone},
	}
	for _, tt := range tests {
		if got := decodeArrow(tt.b); got.kind != tt.want {
			t.Errorf("decodeArrow(%q).kind = %v, want %v", tt.b, got.kind, tt.want)
		}
	}
}

func TestHandleKeyScaleSelection(t *testing.T) {
	a := NewApp(nil, "in", "out", 48000, 2, 60)
	if got := seekScales[a.seekScaleIndex].Label; got != "1s" {
		t.Fatalf("default step = %q, want 1s", got)
	}

	a.handleKey(keyEvent{kind: kindDigit, digit: 9})
	if got := seekScales[a.seekScaleIndex].Label; got != "30s" {
		t.Errorf("step after '9' = %q, want 30s", got)
	}

	a.handleKey(keyEvent{kind: kindDigit, digit: 1})
	if got := seekScales[a.seekScaleIndex].Label; got != "1ms" {
		t.Errorf("step after '1' = %q, want 1ms", got)
	}
}

func TestHandleKeyHelpAndQuit(t *testing.T) {
	a := NewApp(nil, "in", "out", 48000, 2, 60)
	a.handleKey(keyEvent{kind: kindHelp})
	if !a.showHelp {
		t.Error("help not shown after H")
	}
	a.handleKey(keyEvent{kind: kindHelp})
	if a.showHelp {
		t.Error("help not hidden after second H")
	}
	a.handleKey(keyEvent{kind: kindQuit})
	if !a.quit {
		t.Error("quit flag not set")
	}
}
