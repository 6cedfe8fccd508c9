// Package tui is the interactive control surface: raw-mode keyboard input
// driving controller commands, and a periodically redrawn status display.
package tui

import (
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/satindergrewal/drift/internal/playback"
)

// seekScales are the seek step sizes selectable with keys 1-9.
var seekScales = []struct {
	Ms    float64
	Label string
}{
	{1, "1ms"},
	{10, "10ms"},
	{100, "100ms"},
	{500, "500ms"},
	{1000, "1s"},
	{2000, "2s"},
	{5000, "5s"},
	{10000, "10s"},
	{30000, "30s"},
}

type keyKind int

const (
	kindNone keyKind = iota
	kindQuit
	kindPause
	kindLive
	kindMute
	kindHelp
	kindLeft
	kindRight
	kindUp
	kindDown
	kindDigit
)

type keyEvent struct {
	kind  keyKind
	digit int
}

// App drives the terminal session around a shared playback controller.
type App struct {
	ctrl *playback.Controller

	inputName     string
	outputName    string
	sampleRate    int
	channels      int
	bufferSeconds int

	seekScaleIndex int
	showHelp       bool
	quit           bool
}

// NewApp creates the control surface for an active session.
func NewApp(ctrl *playback.Controller, inputName, outputName string, sampleRate, channels, bufferSeconds int) *App {
	return &App{
		ctrl:           ctrl,
		inputName:      inputName,
		outputName:     outputName,
		sampleRate:     sampleRate,
		channels:       channels,
		bufferSeconds:  bufferSeconds,
		seekScaleIndex: 4, // default step: 1s
	}
}

// Run enters raw mode and loops until quit, redrawing at ~30 FPS for smooth
// meter movement. The terminal is restored on return.
func (a *App) Run() error {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	if err := syscall.SetNonblock(fd, true); err != nil {
		term.Restore(fd, oldState)
		return fmt.Errorf("set nonblocking stdin: %w", err)
	}
	defer func() {
		syscall.SetNonblock(fd, false)
		term.Restore(fd, oldState)
		os.Stdout.WriteString("\x1b[?25h\x1b[0m\x1b[2J\x1b[H")
	}()

	os.Stdout.WriteString("\x1b[?25l\x1b[2J")

	keys := make(chan keyEvent, 16)
	stop := make(chan struct{})
	defer close(stop)
	go readKeys(fd, keys, stop)

	ticker := time.NewTicker(33 * time.Millisecond)
	defer ticker.Stop()

	var frame strings.Builder
	for !a.quit {
		select {
		case ev := <-keys:
			a.handleKey(ev)
		case <-ticker.C:
			frame.Reset()
			a.render(&frame)
			os.Stdout.WriteString(frame.String())
		}
	}
	return nil
}

func (a *App) handleKey(ev keyEvent) {
	switch ev.kind {
	case kindQuit:
		a.quit = true
	case kindPause:
		a.ctrl.TogglePause()
	case kindLive:
		a.ctrl.JumpToLive()
	case kindMute:
		a.ctrl.ToggleMute()
	case kindHelp:
		a.showHelp = !a.showHelp
	case kindLeft:
		// Back in time: more delay.
		a.ctrl.SeekMs(seekScales[a.seekScaleIndex].Ms)
	case kindRight:
		// Toward live: less delay.
		a.ctrl.SeekMs(-seekScales[a.seekScaleIndex].Ms)
	case kindUp:
		a.ctrl.AdjustVolume(0.05)
	case kindDown:
		a.ctrl.AdjustVolume(-0.05)
	case kindDigit:
		if ev.digit >= 1 && ev.digit <= len(seekScales) {
			a.seekScaleIndex = ev.digit - 1
		}
	}
}

// readKeys polls raw stdin and emits decoded key events until stop closes.
// Arrow keys arrive as the three-byte sequence ESC '[' A..D; a lone ESC with
// nothing following within a poll interval is discarded.
func readKeys(fd int, keys chan<- keyEvent, stop <-chan struct{}) {
	buf := make([]byte, 1)
	var esc []byte

	emit := func(ev keyEvent) {
		if ev.kind == kindNone {
			return
		}
		select {
		case keys <- ev:
		default:
		}
	}

	for {
		select {
		case <-stop:
			return
		default:
		}

		n, err := syscall.Read(fd, buf)
		if n > 0 {
			b := buf[0]
			if len(esc) > 0 {
				esc = append(esc, b)
				if len(esc) == 2 && b != '[' {
					esc = esc[:0]
					emit(decodeKey(b))
				} else if len(esc) == 3 {
					emit(decodeArrow(b))
					esc = esc[:0]
				}
				continue
			}
			if b == 0x1b {
				esc = append(esc, b)
				continue
			}
			emit(decodeKey(b))
			continue
		}
		if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK || n == 0 {
			esc = esc[:0]
			time.Sleep(5 * time.Millisecond)
			continue
		}
		if err != nil {
			return
		}
	}
}

func decodeArrow(b byte) keyEvent {
	switch b {
	case 'A':
		return keyEvent{kind: kindUp}
	case 'B':
		return keyEvent{kind: kindDown}
	case 'C':
		return keyEvent{kind: kindRight}
	case 'D':
		return keyEvent{kind: kindLeft}
	}
	return keyEvent{}
}

func decodeKey(b byte) keyEvent {
	switch b {
	case 'q', 'Q', 0x03: // 0x03 = Ctrl-C in raw mode
		return keyEvent{kind: kindQuit}
	case ' ':
		return keyEvent{kind: kindPause}
	case 'l', 'L':
		return keyEvent{kind: kindLive}
	case 'm', 'M':
		return keyEvent{kind: kindMute}
	case 'h', 'H':
		return keyEvent{kind: kindHelp}
	}
	if b >= '1' && b <= '9' {
		return keyEvent{kind: kindDigit, digit: int(b - '0')}
	}
	return keyEvent{}
}
