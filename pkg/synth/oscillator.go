// Package synth implements the polyphonic wavetable engine that runs
// inside the audio callback.
package synth

import (
	"github.com/feosynth/feosynth/pkg/midi"
	"github.com/feosynth/feosynth/pkg/tuning"
)

// MaxPoly is the largest number of simultaneously sounding voices
const MaxPoly = tuning.NumNotes

// pedal values at or above this hold released notes
const sustainThreshold = 64

// Dispatcher consumes decoded MIDI messages
type Dispatcher interface {
	Dispatch(msg midi.Message)
}

// Generator produces one stereo frame per call
type Generator interface {
	RenderFrame() (left, right float64)
}

// SampleRated is anything whose increments depend on the sample rate
type SampleRated interface {
	SetSampleRate(rate int)
}

var (
	_ Dispatcher  = (*Oscillator)(nil)
	_ Generator   = (*Oscillator)(nil)
	_ SampleRated = (*Oscillator)(nil)
)

// Oscillator is the voice manager: it owns one voice per MIDI note, the
// tuning table and the wavetable, and mixes the active voices.
type Oscillator struct {
	voices     [tuning.NumNotes]Voice
	active     activeList
	bank       *tuning.Bank
	tuning     tuning.Table
	wave       *Wavetable
	sampleRate int
	sustain    uint8
}

// NewOscillator builds a voice manager in equal temperament at A=440
func NewOscillator(w Waveform, sampleRate int) *Oscillator {
	return newOscillator(NewWavetable(w), tuning.NewBank(tuning.DefaultFreqA), tuning.EqualTemperament, sampleRate)
}

func newOscillator(wt *Wavetable, bank *tuning.Bank, p tuning.Preset, sampleRate int) *Oscillator {
	o := &Oscillator{
		bank:       bank,
		wave:       wt,
		sampleRate: sampleRate,
	}
	for n := range o.voices {
		o.voices[n] = newVoice(sampleRate)
	}
	o.active.init()
	o.SetTemperament(p)
	return o
}

// SetSampleRate propagates a new rate to every counter and envelope
func (o *Oscillator) SetSampleRate(rate int) {
	if rate <= 0 {
		return
	}
	o.sampleRate = rate
	for n := range o.voices {
		o.voices[n].setSampleRate(rate)
	}
}

// SampleRate returns the current sample rate
func (o *Oscillator) SampleRate() int { return o.sampleRate }

// SetTemperament switches to a prebuilt tuning and re-tunes every voice
func (o *Oscillator) SetTemperament(p tuning.Preset) {
	o.tuning = o.bank.Table(p)
	o.retune()
}

// SetReferencePitch rebuilds every preset in place around freqA and
// re-tunes. Any modulation is dropped.
func (o *Oscillator) SetReferencePitch(freqA float64) {
	o.bank.Retune(freqA)
	o.SetTemperament(o.tuning.Preset())
}

// Modulate re-centres the current tuning on note m and re-tunes.
// Modulate(tuning.ReferenceNote) restores the unmodulated layout.
func (o *Oscillator) Modulate(m int) {
	o.tuning.Modulate(m)
	o.retune()
}

func (o *Oscillator) retune() {
	for n := range o.voices {
		o.voices[n].Phase.SetFrequency(o.tuning.Lookup(n))
	}
}

// Temperament returns the active preset
func (o *Oscillator) Temperament() tuning.Preset { return o.tuning.Preset() }

// Tuning returns a copy of the active tuning table
func (o *Oscillator) Tuning() tuning.Table { return o.tuning }

// SetWavetable swaps the waveform
func (o *Oscillator) SetWavetable(wt *Wavetable) {
	if wt != nil {
		o.wave = wt
	}
}

// Waveform returns the current waveform
func (o *Oscillator) Waveform() Waveform { return o.wave.Kind() }

// SetEnvelope applies Set(a, d, s, r) to every amplitude envelope
func (o *Oscillator) SetEnvelope(a, d, s, r float64) {
	for n := range o.voices {
		o.voices[n].AmpEnv.Set(a, d, s, r)
	}
}

// Dispatch applies one MIDI message. Only notes and the sustain pedal
// affect the engine; everything else is accepted and ignored.
func (o *Oscillator) Dispatch(msg midi.Message) {
	switch msg.Kind {
	case midi.KindNoteOn:
		if msg.Velocity() == 0 {
			o.noteOff(int(msg.Note()))
			return
		}
		o.noteOn(int(msg.Note()), msg.Velocity())
	case midi.KindNoteOff:
		o.noteOff(int(msg.Note()))
	case midi.KindControlChange:
		if msg.Controller() == midi.ControllerSustain {
			o.pedal(msg.Value())
		}
	}
}

func (o *Oscillator) noteOn(n int, vel uint8) {
	if n < 0 || n >= tuning.NumNotes {
		return
	}
	if vel > 127 {
		vel = 127
	}
	o.voices[n].trigger(vel)
	o.active.pushFront(n)
}

func (o *Oscillator) noteOff(n int) {
	if n < 0 || n >= tuning.NumNotes {
		return
	}
	v := &o.voices[n]
	v.Down = false
	if o.sustain < sustainThreshold && o.active.contains(n) {
		v.release()
	}
}

func (o *Oscillator) pedal(val uint8) {
	prev := o.sustain
	o.sustain = val
	if prev < sustainThreshold || val >= sustainThreshold {
		return
	}
	for n := int(o.active.head); n != none; n = int(o.active.next[n]) {
		if v := &o.voices[n]; !v.Down {
			v.release()
		}
	}
}

// Sustain returns the last sustain pedal value
func (o *Oscillator) Sustain() uint8 { return o.sustain }

// RenderFrame steps every active voice once and returns the mix. Voices
// whose amplitude envelope finishes are removed. No clipping is applied.
func (o *Oscillator) RenderFrame() (left, right float64) {
	var sample float64
	for n := int(o.active.head); n != none; {
		next := int(o.active.next[n])
		v := &o.voices[n]

		v.Level = v.AmpEnv.Step()
		v.FilterEnv.Step()
		if v.AmpEnv.IsOff() {
			v.eject()
			o.active.remove(n)
		} else {
			sample += o.wave.Lookup(&v.Phase) * v.Level * v.Velocity
		}
		n = next
	}
	return sample, sample
}

// Polyphony returns the number of sounding voices
func (o *Oscillator) Polyphony() int { return o.active.n }

// IsActive reports whether note n is in the active set
func (o *Oscillator) IsActive(n int) bool {
	return n >= 0 && n < tuning.NumNotes && o.active.contains(n)
}

// ActiveNotes appends the active notes, most recent first, to dst
func (o *Oscillator) ActiveNotes(dst []int) []int {
	for n := int(o.active.head); n != none; n = int(o.active.next[n]) {
		dst = append(dst, n)
	}
	return dst
}

// Voice returns the voice for note n, or nil when n is out of range
func (o *Oscillator) Voice(n int) *Voice {
	if n < 0 || n >= tuning.NumNotes {
		return nil
	}
	return &o.voices[n]
}
