package tui

import (
	"fmt"
	"strings"

	"github.com/satindergrewal/drift/internal/playback"
)

const (
	reset  = "\x1b[0m"
	bold   = "\x1b[1m"
	dim    = "\x1b[2m"
	green  = "\x1b[32m"
	yellow = "\x1b[33m"
	cyan   = "\x1b[36m"
	red    = "\x1b[31m"
)

const barWidth = 40

// render draws the full frame into b. Every line ends with clear-to-end so
// stale characters from the previous frame never survive.
func (a *App) render(b *strings.Builder) {
	b.WriteString("\x1b[H")

	a.renderStatus(b)
	a.renderGauge(b)
	a.renderMeters(b)
	a.renderInfo(b)
	if a.showHelp {
		a.renderHelp(b)
	} else {
		a.renderKeys(b)
	}
}

func line(b *strings.Builder, format string, args ...any) {
	fmt.Fprintf(b, format, args...)
	b.WriteString("\x1b[K\r\n")
}

func stateColor(s playback.State) string {
	switch s {
	case playback.Paused:
		return yellow
	case playback.TimeShifted:
		return cyan
	default:
		return green
	}
}

func (a *App) renderStatus(b *strings.Builder) {
	state := a.ctrl.State()
	delayS := a.ctrl.DelayMs() / 1000
	usage := a.ctrl.BufferUsage() * 100

	vol := fmt.Sprintf("%3.0f%%", a.ctrl.Volume()*100)
	if a.ctrl.Muted() {
		vol = "MUTE"
	}

	line(b, "%s drift %s", bold, reset)
	line(b, "  %s%s %-13s%s delay %7.3fs   buf %3.0f%%   vol %s   step %s",
		stateColor(state)+bold, state.Symbol(), state.Label(), reset,
		delayS, usage, vol, seekScales[a.seekScaleIndex].Label)
	line(b, "")
}

func (a *App) renderGauge(b *strings.Builder) {
	usage := a.ctrl.BufferUsage()
	color := green
	if usage > 0.9 {
		color = red
	} else if usage > 0.7 {
		color = yellow
	}

	filled := int(usage * barWidth)
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	line(b, "  history  %s%s%s  %ds buffer", color, bar, reset, a.bufferSeconds)
	line(b, "")
}

func (a *App) renderMeters(b *strings.Builder) {
	left, right := a.ctrl.PeakLevels()
	line(b, "  L %s", meterBar(left))
	if a.channels >= 2 {
		line(b, "  R %s", meterBar(right))
	}
	line(b, "")
}

func meterBar(level float32) string {
	if level > 1 {
		level = 1
	}
	if level < 0 {
		level = 0
	}
	filled := int(level * barWidth)
	color := green
	if level > 0.95 {
		color = red
	} else if level > 0.8 {
		color = yellow
	}
	return color + strings.Repeat("▮", filled) + reset + strings.Repeat("▯", barWidth-filled)
}

func (a *App) renderInfo(b *strings.Builder) {
	line(b, "  %sin%s  %s   %sout%s %s   %dch %dHz",
		dim, reset, a.inputName, dim, reset, a.outputName, a.channels, a.sampleRate)
	line(b, "")
}

func (a *App) renderKeys(b *strings.Builder) {
	line(b, "  %sspace%s pause  %s←/→%s seek  %s↑/↓%s volume  %s1-9%s step  %sL%s live  %sM%s mute  %sH%s help  %sQ%s quit",
		bold, reset, bold, reset, bold, reset, bold, reset,
		bold, reset, bold, reset, bold, reset, bold, reset)
}

func (a *App) renderHelp(b *strings.Builder) {
	line(b, "  %shelp%s", bold, reset)
	line(b, "    space   pause / resume (buffer keeps filling while paused)")
	line(b, "    ← / →   seek back / toward live by the current step")
	line(b, "    1 - 9   select seek step (1ms … 30s)")
	line(b, "    ↑ / ↓   volume up / down")
	line(b, "    L       jump back to live")
	line(b, "    M       mute / unmute")
	line(b, "    H       close this help")
	line(b, "    Q       quit")
}
