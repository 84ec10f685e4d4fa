package audio

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
)

// OtoOutput plays through oto. oto pulls bytes from Read on its own
// goroutine; Read renders into a float buffer sized to the player buffer
// and encodes it. Larger requests get a short read.
type OtoOutput struct {
	ctx      *oto.Context
	player   *oto.Player
	rate     int
	channels int
	format   SampleFormat
	frames   int

	render  atomic.Pointer[rendererRef] // nil until Start, and after Close
	scratch []float32

	mu      sync.Mutex // Start and Close only
	started bool
}

type rendererRef struct{ r Renderer }

func otoFormat(f SampleFormat) (oto.Format, error) {
	switch f {
	case F32:
		return oto.FormatFloat32LE, nil
	case I16:
		return oto.FormatSignedInt16LE, nil
	}
	return 0, fmt.Errorf("%w: oto cannot play %s", ErrUnsupportedSampleFormat, f)
}

func openOto(opts Options) (*OtoOutput, error) {
	format, err := otoFormat(opts.Format)
	if err != nil {
		return nil, err
	}
	rate := opts.SampleRate
	if rate <= 0 {
		rate = defaultSampleRate
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   rate,
		ChannelCount: opts.Channels,
		Format:       format,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	<-ready

	return &OtoOutput{
		ctx:      ctx,
		rate:     rate,
		channels: opts.Channels,
		format:   opts.Format,
		frames:   opts.BufferFrames,
		scratch:  make([]float32, opts.BufferFrames*opts.Channels),
	}, nil
}

func (o *OtoOutput) SampleRate() int      { return o.rate }
func (o *OtoOutput) Channels() int        { return o.channels }
func (o *OtoOutput) Format() SampleFormat { return o.format }

// Start creates the oto player and begins playback
func (o *OtoOutput) Start(r Renderer) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.started {
		return nil
	}

	o.render.Store(&rendererRef{r: r})
	o.player = o.ctx.NewPlayer(o)
	o.player.SetBufferSize(o.frames * o.channels * o.format.Size())
	o.player.Play()
	o.started = true
	return nil
}

// Read implements io.Reader for oto. Only whole frames are produced, at
// most one scratch buffer's worth per call.
func (o *OtoOutput) Read(p []byte) (int, error) {
	frameBytes := o.channels * o.format.Size()
	frames := len(p) / frameBytes

	ref := o.render.Load()
	if ref == nil {
		n := frames * frameBytes
		clear(p[:n])
		return n, nil
	}
	frames = min(frames, len(o.scratch)/o.channels)
	n := frames * frameBytes
	buf := o.scratch[:frames*o.channels]
	ref.r.Process(buf)
	return o.format.Encode(p[:n], buf), nil
}

// Close stops playback. The oto context lives until the process exits.
func (o *OtoOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.render.Store(nil)
	if o.player == nil {
		return nil
	}
	err := o.player.Close()
	o.player = nil
	o.started = false
	return err
}
