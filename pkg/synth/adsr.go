package synth

import "math"

// Stage is the state of an ADSR envelope
type Stage uint8

const (
	StageOff Stage = iota
	StageAttack
	StageDecay
	StageSustain
	StageRelease
)

var stageNames = [...]string{"off", "attack", "decay", "sustain", "release"}

func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return "unknown"
}

// Default envelope times in seconds and sustain level
const (
	DefaultAttack  = 0.01
	DefaultDecay   = 0.01
	DefaultSustain = 0.75
	DefaultRelease = 0.25
)

// ADSR is a linear attack-decay-sustain-release amplitude envelope,
// stepped once per sample
type ADSR struct {
	stage Stage
	val   float64

	a, d, s, r float64
	da, dd, dr float64

	sampleRate float64
}

// NewADSR returns an envelope in the Off stage with the default times
func NewADSR(sampleRate int) ADSR {
	e := ADSR{
		a:          DefaultAttack,
		d:          DefaultDecay,
		s:          DefaultSustain,
		r:          DefaultRelease,
		sampleRate: float64(sampleRate),
	}
	e.calc()
	return e
}

func (e *ADSR) calc() {
	if e.sampleRate <= 0 {
		return
	}
	e.da = 1 / (e.a * e.sampleRate)
	e.dd = 1 / (e.d * e.sampleRate)
	e.dr = 1 / (e.r * e.sampleRate)
}

// Set warps and stores the envelope parameters. Attack and release map
// through 15x^6+0.01 seconds, decay through 5x^2+0.01 seconds; sustain is
// a level clamped to at most 1. Negative arguments leave the parameter
// unchanged.
func (e *ADSR) Set(a, d, s, r float64) {
	if a >= 0 {
		e.a = 15*math.Pow(a, 6) + 0.01
	}
	if d >= 0 {
		e.d = 5*d*d + 0.01
	}
	if s >= 0 {
		e.s = math.Min(s, 1)
	}
	if r >= 0 {
		e.r = 15*math.Pow(r, 6) + 0.01
	}
	e.calc()
}

// SetSampleRate changes the sample rate and re-derives the step sizes
func (e *ADSR) SetSampleRate(rate int) {
	if rate <= 0 {
		return
	}
	e.sampleRate = float64(rate)
	e.calc()
}

// GateOpen (re)starts the attack from the current level
func (e *ADSR) GateOpen() { e.stage = StageAttack }

// GateClose starts the release from the current level
func (e *ADSR) GateClose() { e.stage = StageRelease }

// Step advances the envelope one sample and returns its level
func (e *ADSR) Step() float64 {
	switch e.stage {
	case StageAttack:
		e.val += e.da
		if e.val >= 1 {
			e.val = 1
			e.stage = StageDecay
		}
	case StageDecay:
		e.val -= e.dd
		if e.val <= 0 {
			e.val = 0
		}
		if e.val < e.s {
			e.val = e.s
			e.stage = StageSustain
		}
	case StageSustain:
		e.val = e.s
	case StageRelease:
		e.val -= e.dr
		if e.val <= 0 {
			e.val = 0
			e.stage = StageOff
		}
	default:
		e.val = 0
	}
	return e.val
}

// IsOff reports whether the envelope has finished
func (e *ADSR) IsOff() bool { return e.stage == StageOff }

// Stage returns the current stage
func (e *ADSR) Stage() Stage { return e.stage }

// Value returns the current level without stepping
func (e *ADSR) Value() float64 { return e.val }

// Params returns the stored (warped) attack, decay, sustain and release
func (e *ADSR) Params() (a, d, s, r float64) { return e.a, e.d, e.s, e.r }

// Reset forces the envelope to Off at level 0
func (e *ADSR) Reset() {
	e.stage = StageOff
	e.val = 0
}
