package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/feosynth/feosynth/pkg/audio"
	"github.com/feosynth/feosynth/pkg/midi"
	"github.com/feosynth/feosynth/pkg/midi/rtmidi"
	"github.com/feosynth/feosynth/pkg/synth"
	"github.com/feosynth/feosynth/pkg/tui"
	"github.com/feosynth/feosynth/pkg/tuning"
)

type options struct {
	backend string
	rate    int
	format  string
	port    int
	tuning  string
	wave    string
	freqA   float64
	env     string
	tui     bool
	logFile string
}

func main() {
	var o options
	flag.StringVar(&o.backend, "backend", "oto", "audio backend: oto or portaudio")
	flag.IntVar(&o.rate, "rate", 0, "sample rate in Hz (0 = device default)")
	flag.StringVar(&o.format, "format", "f32", "device sample format: f32, i16 or u16")
	flag.IntVar(&o.port, "port", 0, "MIDI input port number")
	flag.StringVar(&o.tuning, "tuning", "equal", "temperament")
	flag.StringVar(&o.wave, "wave", "sine", "waveform: sine, square, triangle, saw or noise")
	flag.Float64Var(&o.freqA, "freq-a", tuning.DefaultFreqA, "reference pitch of A (note 69) in Hz")
	flag.StringVar(&o.env, "env", "", "amplitude envelope knobs a,d,s,r in [0,1] (empty = defaults)")
	flag.BoolVar(&o.tui, "tui", false, "show the monitor and play from the computer keyboard")
	flag.StringVar(&o.logFile, "log", "feosynth.log", "log file while the monitor owns the terminal")
	list := flag.Bool("list", false, "list MIDI input ports and exit")
	compare := flag.String("compare", "", "print a temperament against equal temperament and exit")
	debug := flag.Bool("debug", false, "debug logging")
	flag.Parse()

	logger := newLogger(*debug)

	var err error
	switch {
	case *compare != "":
		err = printComparison(os.Stdout, *compare, o.freqA)
	case *list:
		err = listPorts()
	default:
		err = run(logger, o)
	}
	if err != nil {
		logger.Error("feosynth", "err", err)
		os.Exit(1)
	}
}

func newLogger(debug bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "feosynth",
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
		logger.SetReportCaller(true)
	}
	return logger
}

func listPorts() error {
	ports, err := rtmidi.ListPorts()
	if err != nil {
		return err
	}
	if len(ports) == 0 {
		fmt.Println("no MIDI input ports")
	}
	for i, name := range ports {
		fmt.Printf("%2d  %s\n", i, name)
	}
	return nil
}

func configure(o options) (synth.Config, error) {
	cfg := synth.DefaultConfig()
	cfg.FreqA = o.freqA

	var err error
	if cfg.Temperament, err = tuning.ParsePreset(o.tuning); err != nil {
		return cfg, err
	}
	if cfg.Waveform, err = synth.ParseWaveform(o.wave); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// parseEnvelope reads "a,d,s,r" knob values for Oscillator.SetEnvelope.
// An empty string returns ok == false.
func parseEnvelope(s string) (knobs [4]float64, ok bool, err error) {
	if strings.TrimSpace(s) == "" {
		return knobs, false, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != len(knobs) {
		return knobs, false, fmt.Errorf("envelope %q: want a,d,s,r", s)
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return knobs, false, fmt.Errorf("envelope %q: %w", s, err)
		}
		if !(v >= 0 && v <= 1) {
			return knobs, false, fmt.Errorf("envelope %q: %v outside [0,1]", s, v)
		}
		knobs[i] = v
	}
	return knobs, true, nil
}

func run(logger *log.Logger, o options) error {
	cfg, err := configure(o)
	if err != nil {
		return err
	}
	env, setEnv, err := parseEnvelope(o.env)
	if err != nil {
		return err
	}
	backend, err := audio.ParseBackend(o.backend)
	if err != nil {
		return err
	}
	format, err := audio.ParseSampleFormat(o.format)
	if err != nil {
		return err
	}

	if o.tui {
		f, err := tea.LogToFileWith(o.logFile, "feosynth", logger)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
	}

	out, err := audio.Open(backend, audio.Options{
		SampleRate: o.rate,
		Channels:   cfg.Channels,
		Format:     format,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	defer out.Close()

	// the engine renders at whatever rate the device settled on
	cfg.SampleRate = out.SampleRate()
	engine, err := synth.NewEngine(cfg, nil)
	if err != nil {
		return err
	}
	if setEnv {
		engine.Oscillator().SetEnvelope(env[0], env[1], env[2], env[3])
	}
	producer := midi.NewProducer(engine.Queue())

	in, err := rtmidi.Open(o.port, producer, logger)
	switch {
	case err == nil:
		defer in.Close()
	case o.tui && errors.Is(err, midi.ErrDeviceUnavailable):
		logger.Warn("no MIDI input, computer keyboard only", "err", err)
	default:
		return err
	}

	if err := out.Start(engine); err != nil {
		return err
	}
	logger.Info("synth running",
		"rate", cfg.SampleRate,
		"channels", cfg.Channels,
		"tuning", cfg.Temperament,
		"wave", cfg.Waveform,
		"freq_a", cfg.FreqA)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if o.tui {
		p := tea.NewProgram(tui.NewModel(engine, producer), tea.WithContext(ctx))
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return err
		}
	} else {
		<-ctx.Done()
	}

	acc, drop := engine.Queue().Stats()
	logger.Info("shutting down",
		"frames", engine.Stats().Frames,
		"messages", acc,
		"dropped", drop,
		"malformed", producer.Malformed())
	return nil
}
