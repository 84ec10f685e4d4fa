package audio

import (
	"fmt"

	pa "github.com/gordonklaus/portaudio"
)

// PortAudioOutput plays through PortAudio's callback API and renders at
// the default device's native rate unless a rate is forced
type PortAudioOutput struct {
	stream   *pa.Stream
	device   string
	rate     int
	channels int
	format   SampleFormat
	frames   int
	scratch  []float32
}

func openPortAudio(opts Options) (*PortAudioOutput, error) {
	if opts.Format != F32 && opts.Format != I16 {
		return nil, fmt.Errorf("%w: portaudio cannot play %s", ErrUnsupportedSampleFormat, opts.Format)
	}
	if err := pa.Initialize(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	dev, err := pa.DefaultOutputDevice()
	if err != nil {
		pa.Terminate()
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	if dev.MaxOutputChannels < opts.Channels {
		pa.Terminate()
		return nil, fmt.Errorf("%w: %s has %d output channels, need %d",
			ErrDeviceUnavailable, dev.Name, dev.MaxOutputChannels, opts.Channels)
	}

	rate := opts.SampleRate
	if rate <= 0 {
		rate = int(dev.DefaultSampleRate)
	}
	return &PortAudioOutput{
		device:   dev.Name,
		rate:     rate,
		channels: opts.Channels,
		format:   opts.Format,
		frames:   opts.BufferFrames,
		scratch:  make([]float32, opts.BufferFrames*opts.Channels),
	}, nil
}

func (o *PortAudioOutput) SampleRate() int      { return o.rate }
func (o *PortAudioOutput) Channels() int        { return o.channels }
func (o *PortAudioOutput) Format() SampleFormat { return o.format }

// Device returns the name of the default output device
func (o *PortAudioOutput) Device() string { return o.device }

// Start opens the stream with a callback feeding r and starts it
func (o *PortAudioOutput) Start(r Renderer) error {
	if o.stream != nil {
		return nil
	}

	var cb any
	switch o.format {
	case F32:
		cb = func(out []float32) { r.Process(out) }
	case I16:
		cb = func(out []int16) { o.renderInt16(r, out) }
	}

	stream, err := pa.OpenDefaultStream(0, o.channels, float64(o.rate), o.frames, cb)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	o.stream = stream
	return nil
}

// renderInt16 fills out through the float scratch buffer, one scratch
// length at a time. Both lengths are whole frames.
func (o *PortAudioOutput) renderInt16(r Renderer, out []int16) {
	for len(out) > 0 {
		buf := o.scratch[:min(len(out), len(o.scratch))]
		r.Process(buf)
		for i, s := range buf {
			out[i] = ToInt16(s)
		}
		out = out[len(buf):]
	}
}

// Close stops the stream and releases PortAudio
func (o *PortAudioOutput) Close() error {
	if o.stream != nil {
		o.stream.Stop()
		o.stream.Close()
		o.stream = nil
	}
	return pa.Terminate()
}
