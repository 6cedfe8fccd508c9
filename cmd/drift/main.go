package main

import (
	"flag"
	"log"

	"github.com/satindergrewal/drift/internal/config"
	"github.com/satindergrewal/drift/internal/engine"
	"github.com/satindergrewal/drift/internal/tui"
)

func main() {
	cfg := config.Load()

	flag.StringVar(&cfg.InputDevice, "input", cfg.InputDevice, "input device name substring (default: system default)")
	flag.StringVar(&cfg.OutputDevice, "output", cfg.OutputDevice, "output device name substring (default: system default)")
	flag.IntVar(&cfg.SampleRate, "rate", cfg.SampleRate, "sample rate in Hz")
	flag.IntVar(&cfg.Channels, "channels", cfg.Channels, "channel count")
	flag.IntVar(&cfg.BufferSeconds, "buffer", cfg.BufferSeconds, "buffer duration in seconds")
	flag.Float64Var(&cfg.BaseDelayMs, "delay", cfg.BaseDelayMs, "base delay in milliseconds (0 = minimum)")
	listDevices := flag.Bool("list-devices", false, "list available audio devices and exit")
	flag.Parse()

	if *listDevices {
		if err := engine.ListDevices(); err != nil {
			log.Fatalf("List devices: %v", err)
		}
		return
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	eng, err := engine.New(engine.Params{
		InputDevice:   cfg.InputDevice,
		OutputDevice:  cfg.OutputDevice,
		SampleRate:    cfg.SampleRate,
		Channels:      cfg.Channels,
		BufferSeconds: cfg.BufferSeconds,
		BaseDelayMs:   cfg.BaseDelayMs,
	})
	if err != nil {
		log.Fatalf("Audio setup failed: %v", err)
	}
	defer eng.Close()

	if err := eng.Start(); err != nil {
		log.Fatalf("Audio start failed: %v", err)
	}

	log.Printf("Audio: %s -> %s (%dch %dHz, %ds buffer)",
		eng.InputName, eng.OutputName, eng.Channels, eng.SampleRate, cfg.BufferSeconds)

	app := tui.NewApp(eng.Controller, eng.InputName, eng.OutputName,
		eng.SampleRate, eng.Channels, cfg.BufferSeconds)
	if err := app.Run(); err != nil {
		log.Fatalf("UI error: %v", err)
	}
}
