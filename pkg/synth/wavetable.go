package synth

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
)

// Waveform selects the single-cycle shape held in a Wavetable
type Waveform uint8

const (
	Sine Waveform = iota
	Square
	Triangle
	Saw
	Noise

	numWaveforms
)

// ErrUnknownWaveform is returned by ParseWaveform for unrecognised names
var ErrUnknownWaveform = errors.New("unknown waveform")

var waveformNames = [numWaveforms]string{"sine", "square", "triangle", "saw", "noise"}

func (w Waveform) String() string {
	if w >= numWaveforms {
		return fmt.Sprintf("Waveform(%d)", uint8(w))
	}
	return waveformNames[w]
}

// ParseWaveform looks a waveform up by name (case-insensitive)
func ParseWaveform(name string) (Waveform, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range waveformNames {
		if n == name {
			return Waveform(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownWaveform, name)
}

// Next returns the waveform after w, wrapping around
func (w Waveform) Next() Waveform {
	return (w + 1) % numWaveforms
}

// Wavetable is one precomputed period of a waveform
type Wavetable struct {
	kind  Waveform
	table []float64
}

// NewWavetable allocates and fills a table of TableSize samples
func NewWavetable(kind Waveform) *Wavetable {
	wt := &Wavetable{
		kind:  kind,
		table: make([]float64, TableSize),
	}
	wt.build()
	return wt
}

func (wt *Wavetable) build() {
	const (
		n    = TableSize
		half = n / 2
	)
	t := wt.table

	switch wt.kind {
	case Square:
		// 50% duty; the two edges are zeroed to soften the step
		for i := range t {
			if i < half {
				t[i] = 1
			} else {
				t[i] = -1
			}
		}
		t[0] = 0
		t[half] = 0

	case Triangle:
		// (0,0) -> (N/4,1) -> (3N/4,-1) -> (N,0)
		const q = n / 4
		for i := range t {
			switch {
			case i < q:
				t[i] = float64(i) / q
			case i < 3*q:
				t[i] = 1 - 2*float64(i-q)/half
			default:
				t[i] = -1 + float64(i-3*q)/q
			}
		}

	case Saw:
		// 0 -> 1 over the first half, -1 -> 0 over the second
		for i := range t {
			if i < half {
				t[i] = float64(i) / half
			} else {
				t[i] = float64(i-half)/half - 1
			}
		}

	case Noise:
		for i := range t {
			t[i] = 2*rand.Float64() - 1
		}

	default:
		f := 2 * math.Pi / n
		for i := range t {
			t[i] = math.Sin(float64(i) * f)
		}
	}
}

// Kind returns the waveform held by the table
func (wt *Wavetable) Kind() Waveform { return wt.kind }

// At returns raw sample i, wrapping i into the table
func (wt *Wavetable) At(i int) float64 {
	return wt.table[i&(TableSize-1)]
}

// Lookup linearly interpolates the sample at the counter's phase and then
// advances the counter one step. Index TableSize wraps to 0.
func (wt *Wavetable) Lookup(c *Counter) float64 {
	i := c.Index()
	f := c.Fraction()
	y0 := wt.table[i]
	y1 := wt.table[(i+1)&(TableSize-1)]
	c.Advance()
	return y0*(1-f) + y1*f
}
