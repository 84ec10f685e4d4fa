package synth

import (
	"math"
	"sync/atomic"

	"github.com/feosynth/feosynth/pkg/midi"
	"github.com/feosynth/feosynth/pkg/tuning"
)

// Engine is the body of the audio callback. Process is the only method
// that may run on the audio goroutine; the Request* methods and Stats
// are safe from any other goroutine and never block Process.
type Engine struct {
	osc      *Oscillator
	queue    *midi.Queue
	channels int

	// control requests, applied at the start of the next buffer
	pendingTemper atomic.Int32
	pendingWave   atomic.Pointer[Wavetable]
	pendingMod    atomic.Int32
	pendingFreqA  atomic.Uint64 // float64 bits, 0 when idle

	// published after every buffer
	statPoly     atomic.Int32
	statNotes    [2]atomic.Uint64
	statFrames   atomic.Uint64
	statMessages atomic.Uint64
	statTemper   atomic.Int32
	statWave     atomic.Int32
	statFreqA    atomic.Uint64
	statCenter   atomic.Uint64
}

// Stats is a snapshot of the engine state for display
type Stats struct {
	Polyphony   int
	Notes       [2]uint64 // bit n set when note n is sounding
	Frames      uint64
	Messages    uint64
	Temperament tuning.Preset
	Waveform    Waveform
	FreqA       float64 // reference pitch of note 69
	Center      float64 // frequency the scale is rooted on
}

// Sounding reports whether note n was active at the end of the last buffer
func (s Stats) Sounding(n int) bool {
	if n < 0 || n >= tuning.NumNotes {
		return false
	}
	return s.Notes[n/64]&(1<<(n%64)) != 0
}

const noRequest = -1

// NewEngine allocates every table and voice up front and reads MIDI from q
func NewEngine(cfg Config, q *midi.Queue) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if q == nil {
		q = midi.NewQueue()
	}
	e := &Engine{
		osc:      newOscillator(NewWavetable(cfg.Waveform), tuning.NewBank(cfg.FreqA), cfg.Temperament, cfg.SampleRate),
		queue:    q,
		channels: cfg.Channels,
	}
	e.pendingTemper.Store(noRequest)
	e.pendingMod.Store(noRequest)
	e.publish()
	return e, nil
}

// Oscillator returns the voice manager. Only touch it before the stream
// starts or from the audio goroutine.
func (e *Engine) Oscillator() *Oscillator { return e.osc }

// Queue returns the MIDI queue the engine drains
func (e *Engine) Queue() *midi.Queue { return e.queue }

// Channels returns the number of interleaved output channels
func (e *Engine) Channels() int { return e.channels }

// SampleRate returns the rate the engine renders at
func (e *Engine) SampleRate() int { return e.osc.SampleRate() }

// RequestTemperament asks the audio goroutine to switch tuning
func (e *Engine) RequestTemperament(p tuning.Preset) {
	if int(p) >= len(tuning.Presets()) {
		return
	}
	e.pendingTemper.Store(int32(p))
}

// RequestWaveform builds the new table on the calling goroutine and hands
// it to the audio goroutine
func (e *Engine) RequestWaveform(w Waveform) {
	if w >= numWaveforms {
		return
	}
	e.pendingWave.Store(NewWavetable(w))
}

// RequestModulation asks the audio goroutine to re-centre the scale on
// note m. Switching temperament or reference pitch drops the modulation.
func (e *Engine) RequestModulation(m int) {
	if m < 0 || m >= tuning.NumNotes {
		return
	}
	e.pendingMod.Store(int32(m))
}

// RequestReferencePitch asks the audio goroutine to rebuild every
// temperament around freqA
func (e *Engine) RequestReferencePitch(freqA float64) {
	if !(freqA > 0) || math.IsInf(freqA, 0) {
		return
	}
	e.pendingFreqA.Store(math.Float64bits(freqA))
}

// the order matters: a re-tune or temperament switch resets modulation
func (e *Engine) applyRequests() {
	if bits := e.pendingFreqA.Swap(0); bits != 0 {
		e.osc.SetReferencePitch(math.Float64frombits(bits))
	}
	if p := e.pendingTemper.Swap(noRequest); p != noRequest {
		e.osc.SetTemperament(tuning.Preset(p))
	}
	if m := e.pendingMod.Swap(noRequest); m != noRequest {
		e.osc.Modulate(int(m))
	}
	if wt := e.pendingWave.Swap(nil); wt != nil {
		e.osc.SetWavetable(wt)
	}
}

// Process fills out with interleaved frames. All queued MIDI messages are
// applied before the first frame. Channels beyond two repeat left/right.
func (e *Engine) Process(out []float32) {
	e.applyRequests()

	var (
		m    midi.Message
		msgs uint64
	)
	for e.queue.Pop(&m) {
		e.osc.Dispatch(m)
		msgs++
	}

	ch := e.channels
	frames := len(out) / ch
	for f := 0; f < frames; f++ {
		l, r := e.osc.RenderFrame()
		frame := out[f*ch : f*ch+ch]
		for c := range frame {
			if c%2 == 0 {
				frame[c] = float32(l)
			} else {
				frame[c] = float32(r)
			}
		}
	}
	clear(out[frames*ch:])

	e.statFrames.Add(uint64(frames))
	e.statMessages.Add(msgs)
	e.publish()
}

func (e *Engine) publish() {
	var notes [2]uint64
	for n := int(e.osc.active.head); n != none; n = int(e.osc.active.next[n]) {
		notes[n/64] |= 1 << (n % 64)
	}
	e.statNotes[0].Store(notes[0])
	e.statNotes[1].Store(notes[1])
	e.statPoly.Store(int32(e.osc.Polyphony()))
	e.statTemper.Store(int32(e.osc.Temperament()))
	e.statWave.Store(int32(e.osc.Waveform()))
	e.statFreqA.Store(math.Float64bits(e.osc.tuning.FreqA()))
	e.statCenter.Store(math.Float64bits(e.osc.tuning.Center()))
}

// Stats returns the state published after the last buffer
func (e *Engine) Stats() Stats {
	return Stats{
		Polyphony:   int(e.statPoly.Load()),
		Notes:       [2]uint64{e.statNotes[0].Load(), e.statNotes[1].Load()},
		Frames:      e.statFrames.Load(),
		Messages:    e.statMessages.Load(),
		Temperament: tuning.Preset(e.statTemper.Load()),
		Waveform:    Waveform(e.statWave.Load()),
		FreqA:       math.Float64frombits(e.statFreqA.Load()),
		Center:      math.Float64frombits(e.statCenter.Load()),
	}
}
