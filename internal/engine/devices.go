package engine

import (
	"encoding/hex"
	"fmt"
	"runtime"
	"strings"

	"github.com/gen2brain/malgo"
)

// platformBackend picks the native audio backend for the current OS,
// falling back to miniaudio's own selection elsewhere.
func platformBackend() malgo.Backend {
	switch runtime.GOOS {
	case "linux":
		return malgo.BackendAlsa
	case "windows":
		return malgo.BackendWasapi
	case "darwin":
		return malgo.BackendCoreaudio
	default:
		return malgo.BackendNull
	}
}

// findDevice resolves a device by case-insensitive name substring, or the
// system default (first default-flagged, else first listed) when name is
// empty.
func findDevice(ctx *malgo.AllocatedContext, kind malgo.DeviceType, name string) (*malgo.DeviceInfo, error) {
	infos, err := ctx.Devices(kind)
	if err != nil {
		return nil, fmt.Errorf("enumerate %s devices: %w", kindLabel(kind), err)
	}
	if len(infos) == 0 {
		return nil, fmt.Errorf("no %s devices available", kindLabel(kind))
	}

	if name == "" {
		for i := range infos {
			if infos[i].IsDefault == 1 {
				return &infos[i], nil
			}
		}
		return &infos[0], nil
	}

	lower := strings.ToLower(name)
	for i := range infos {
		if strings.Contains(strings.ToLower(infos[i].Name()), lower) {
			return &infos[i], nil
		}
	}
	return nil, fmt.Errorf("no %s device found matching %q (use --list-devices)", kindLabel(kind), name)
}

func kindLabel(kind malgo.DeviceType) string {
	if kind == malgo.Capture {
		return "capture"
	}
	return "playback"
}

// ListDevices prints the available capture and playback devices, marking
// the system defaults.
func ListDevices() error {
	ctx, err := malgo.InitContext([]malgo.Backend{platformBackend()}, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("init audio context: %w", err)
	}
	defer func() {
		ctx.Uninit()
		ctx.Free()
	}()

	for _, kind := range []malgo.DeviceType{malgo.Capture, malgo.Playback} {
		infos, err := ctx.Devices(kind)
		if err != nil {
			return fmt.Errorf("enumerate %s devices: %w", kindLabel(kind), err)
		}
		fmt.Printf("Available %s devices:\n", kindLabel(kind))
		if len(infos) == 0 {
			fmt.Println("  (none found)")
		}
		for i := range infos {
			tag := ""
			if infos[i].IsDefault == 1 {
				tag = "  (default)"
			}
			fmt.Printf("  %s  [%s]%s\n", infos[i].Name(), deviceID(&infos[i]), tag)
		}
		if kind == malgo.Capture {
			fmt.Println()
		}
	}
	return nil
}

// deviceID decodes the hex-encoded backend ID into something readable,
// falling back to the raw form.
func deviceID(info *malgo.DeviceInfo) string {
	decoded, err := hex.DecodeString(info.ID.String())
	if err != nil {
		return info.ID.String()
	}
	return strings.TrimRight(string(decoded), "\x00")
}
