package synth

// Voice is the state of one MIDI note: its phase counter, envelopes and
// velocity. There is exactly one voice per note number.
type Voice struct {
	Phase     Counter
	AmpEnv    ADSR
	FilterEnv ADSR // stepped with the amplitude envelope; nothing reads it yet

	Velocity float64 // 0.0 to 1.0
	Down     bool    // key is physically held
	Level    float64 // amplitude envelope output of the last frame
}

func newVoice(sampleRate int) Voice {
	return Voice{
		Phase:     NewCounter(sampleRate),
		AmpEnv:    NewADSR(sampleRate),
		FilterEnv: NewADSR(sampleRate),
	}
}

// trigger opens both envelope gates at the given MIDI velocity
func (v *Voice) trigger(vel uint8) {
	v.Velocity = float64(vel) / 127
	v.Down = true
	v.AmpEnv.GateOpen()
	v.FilterEnv.GateOpen()
}

// release closes both envelope gates
func (v *Voice) release() {
	v.AmpEnv.GateClose()
	v.FilterEnv.GateClose()
}

// eject silences the voice once its amplitude envelope has finished
func (v *Voice) eject() {
	v.Phase.Reset()
	v.FilterEnv.Reset()
	v.Level = 0
}

func (v *Voice) setSampleRate(rate int) {
	v.Phase.SetSampleRate(rate)
	v.AmpEnv.SetSampleRate(rate)
	v.FilterEnv.SetSampleRate(rate)
}
