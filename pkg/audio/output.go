// Package audio connects the synth engine to the host's default output
// device through oto or PortAudio.
package audio

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// Renderer fills an interleaved float buffer. It is called on the device's
// audio goroutine and must not block.
type Renderer interface {
	Process(out []float32)
}

// Output is an open audio device
type Output interface {
	SampleRate() int
	Channels() int
	Format() SampleFormat
	// Start begins pulling frames from r. Call it once.
	Start(r Renderer) error
	Close() error
}

// Backend names an output implementation
type Backend string

const (
	BackendOto       Backend = "oto"
	BackendPortAudio Backend = "portaudio"
)

// ParseBackend accepts "oto" or "portaudio"
func ParseBackend(name string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(name))); b {
	case BackendOto, BackendPortAudio:
		return b, nil
	}
	return "", fmt.Errorf("%w: unknown backend %q", ErrDeviceUnavailable, name)
}

// Options configures Open. Zero values pick defaults.
type Options struct {
	SampleRate   int // 0 means the device default (PortAudio) or 48000 (oto)
	Channels     int // 0 means stereo
	Format       SampleFormat
	BufferFrames int // 0 means 512
	Logger       *log.Logger
}

const (
	defaultSampleRate   = 48000
	defaultChannels     = 2
	defaultBufferFrames = 512
)

func (o *Options) fill() {
	if o.Channels <= 0 {
		o.Channels = defaultChannels
	}
	if o.BufferFrames <= 0 {
		o.BufferFrames = defaultBufferFrames
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
}

// Open opens the default output device on the chosen backend. The stream
// does not run until Start, so the caller can size the engine to
// SampleRate first.
func Open(b Backend, opts Options) (Output, error) {
	opts.fill()

	var (
		out Output
		err error
	)
	switch b {
	case BackendOto:
		out, err = openOto(opts)
	case BackendPortAudio:
		out, err = openPortAudio(opts)
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", ErrDeviceUnavailable, b)
	}
	if err != nil {
		return nil, err
	}

	opts.Logger.Info("audio output opened",
		"backend", b,
		"rate", out.SampleRate(),
		"channels", out.Channels(),
		"format", out.Format())
	return out, nil
}
