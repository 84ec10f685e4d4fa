package tuning

import "math"

const (
	// NumNotes is the size of the MIDI note range
	NumNotes = 128
	// ReferenceNote is the MIDI note tuned to the reference pitch (A4)
	ReferenceNote = 69
	// DefaultFreqA is the default reference pitch in Hz
	DefaultFreqA = 440.0

	// notes below this take the low tritone substitute
	tritoneSplit = 62
)

// Table maps every MIDI note to a frequency under one preset
type Table struct {
	preset    Preset
	freqA     float64
	intervals [12]float64
	freqs     [NumNotes]float64
	fund      [12]float64
	loTT      float64
	hiTT      float64
	center    float64
}

// New builds the table for preset p with reference pitch freqA at note 69.
// A non-positive or NaN freqA falls back to DefaultFreqA.
func New(p Preset, freqA float64) Table {
	if !(freqA > 0) || math.IsInf(freqA, 0) {
		freqA = DefaultFreqA
	}
	oct := p.octave()
	t := Table{
		preset:    p,
		freqA:     freqA,
		intervals: oct.ratios,
		loTT:      oct.loTT,
		hiTT:      oct.hiTT,
	}
	t.build()
	return t
}

// noteOctave is the octave multiplier of note n; note 69 lands on 2^0
func noteOctave(n int) float64 {
	return math.Ldexp(1, (n+3)/12-6)
}

// ratio returns interval i for note n, applying the tritone substitutes
// to slots marked with a zero ratio
func (t *Table) ratio(i, n int) float64 {
	r := t.intervals[i]
	if r != 0 {
		return r
	}
	if n < tritoneSplit {
		return t.loTT
	}
	return t.hiTT
}

func (t *Table) build() {
	for n := 0; n < NumNotes; n++ {
		t.freqs[n] = t.freqA * t.ratio((n+3)%12, n) * noteOctave(n)
	}
	copy(t.fund[:], t.freqs[ReferenceNote:ReferenceNote+12])
	t.center = t.fund[0]
}

// Lookup returns the frequency of note n, or 0 outside [0, 128)
func (t *Table) Lookup(n int) float64 {
	if n < 0 || n >= NumNotes {
		return 0
	}
	return t.freqs[n]
}

// Retune rebuilds the table around a new reference pitch.
// Any modulation is discarded.
func (t *Table) Retune(freqA float64) {
	if !(freqA > 0) || math.IsInf(freqA, 0) {
		return
	}
	t.freqA = freqA
	t.build()
}

// Modulate re-centres the scale on the pitch class of MIDI note m: the
// preset's intervals are laid out from that note's current fundamental,
// and every octave above and below is filled by powers of two.
func (t *Table) Modulate(m int) {
	k := ((m-ReferenceNote)%12 + 12) % 12
	c := t.fund[k]
	for i := 0; i < 12; i++ {
		n := ReferenceNote + k + i
		base := c * t.ratio(i, n)
		t.freqs[n] = base

		for lo, o := n-12, -1; lo >= 0; lo, o = lo-12, o-1 {
			t.freqs[lo] = c * t.ratio(i, lo) * math.Ldexp(1, o)
		}
		for hi, o := n+12, 1; hi < NumNotes; hi, o = hi+12, o+1 {
			t.freqs[hi] = c * t.ratio(i, hi) * math.Ldexp(1, o)
		}
	}
	t.center = c
}

// Preset returns the temperament this table was built for
func (t *Table) Preset() Preset { return t.preset }

// FreqA returns the reference pitch
func (t *Table) FreqA() float64 { return t.freqA }

// Center returns the frequency the scale is currently rooted on
func (t *Table) Center() float64 { return t.center }

// Intervals returns the twelve within-octave ratios, index 0 = A
func (t *Table) Intervals() [12]float64 { return t.intervals }

// Fundamentals returns the frequencies of notes 69..80
func (t *Table) Fundamentals() [12]float64 { return t.fund }

// Frequencies returns a copy of the full note table
func (t *Table) Frequencies() [NumNotes]float64 { return t.freqs }

// TritoneSubstitutes returns the low and high tritone ratios (zero when
// the preset defines none)
func (t *Table) TritoneSubstitutes() (lo, hi float64) { return t.loTT, t.hiTT }

// Cents is the distance from f1 to f2; 1200 cents per octave
func Cents(f1, f2 float64) float64 {
	return 1200 * math.Log2(f2/f1)
}

// Bank holds a prebuilt table for every preset
type Bank struct {
	tables [numPresets]Table
}

// NewBank builds all presets around freqA
func NewBank(freqA float64) *Bank {
	b := &Bank{}
	for i := range b.tables {
		b.tables[i] = New(Preset(i), freqA)
	}
	return b
}

// Table returns a copy of the prebuilt table for p
func (b *Bank) Table(p Preset) Table {
	if p >= numPresets {
		p = EqualTemperament
	}
	return b.tables[p]
}

// Retune rebuilds every table in place around freqA. Invalid pitches are
// ignored.
func (b *Bank) Retune(freqA float64) {
	for i := range b.tables {
		b.tables[i].Retune(freqA)
	}
}
