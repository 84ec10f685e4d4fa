package synth

import "math"

const (
	// TableBits is the number of high phase bits that index the wavetable
	TableBits = 19
	// TableSize is the number of samples in one wavetable period
	TableSize = 1 << TableBits

	fracBits  = 32 - TableBits
	fracScale = 1 << fracBits
	fracMask  = fracScale - 1

	phaseRange = 1 << 32
)

// Counter is a 32-bit fixed-point phase accumulator. One wrap of the
// phase is one period of the waveform.
type Counter struct {
	phase      uint32
	incr       uint32
	freq       float64
	sampleRate float64
}

// NewCounter returns a stopped counter for the given sample rate
func NewCounter(sampleRate int) Counter {
	return Counter{sampleRate: float64(sampleRate)}
}

// SetSampleRate changes the sample rate and re-derives the increment
func (c *Counter) SetSampleRate(rate int) {
	if rate <= 0 {
		return
	}
	c.sampleRate = float64(rate)
	c.update()
}

// SetFrequency sets the oscillation frequency in Hz. Negative and NaN
// frequencies are ignored.
func (c *Counter) SetFrequency(f float64) {
	if !(f >= 0) || math.IsInf(f, 0) {
		return
	}
	c.freq = f
	c.update()
}

func (c *Counter) update() {
	if c.sampleRate <= 0 {
		return
	}
	inc := math.Mod(math.Round(c.freq*phaseRange/c.sampleRate), phaseRange)
	c.incr = uint32(inc)
}

// Advance moves the phase forward one sample, wrapping at 2^32
func (c *Counter) Advance() {
	c.phase += c.incr
}

// Index returns the wavetable index held in the high bits of the phase
func (c *Counter) Index() uint32 {
	return c.phase >> fracBits
}

// Fraction returns the interpolation fraction in [0, 1)
func (c *Counter) Fraction() float64 {
	return float64(c.phase&fracMask) / fracScale
}

// Reset zeroes the phase
func (c *Counter) Reset() { c.phase = 0 }

// Phase returns the raw phase
func (c *Counter) Phase() uint32 { return c.phase }

// Increment returns the per-sample phase step
func (c *Counter) Increment() uint32 { return c.incr }

// Frequency returns the frequency last set
func (c *Counter) Frequency() float64 { return c.freq }
