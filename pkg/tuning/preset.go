// Package tuning implements the temperament tables that map MIDI note
// numbers to fundamental frequencies.
package tuning

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Preset selects one of the built-in temperaments
type Preset uint8

const (
	EqualTemperament Preset = iota
	Meantone
	Just5Limit
	Kepler
	Pythagorean
	Hammond
	Ptolemaic
	Chinese
	Dowland
	Kirnberger

	numPresets
)

// ErrUnknownPreset is returned by ParsePreset for names that match no preset
var ErrUnknownPreset = errors.New("unknown temperament preset")

var presetNames = [numPresets]string{
	"equal", "meantone", "just5", "kepler", "pythagorean",
	"hammond", "ptolemaic", "chinese", "dowland", "kirnberger",
}

func (p Preset) String() string {
	if p >= numPresets {
		return fmt.Sprintf("Preset(%d)", uint8(p))
	}
	return presetNames[p]
}

// Presets returns every built-in preset in declaration order
func Presets() []Preset {
	ps := make([]Preset, numPresets)
	for i := range ps {
		ps[i] = Preset(i)
	}
	return ps
}

// ParsePreset looks a preset up by its short name (case-insensitive)
func ParsePreset(name string) (Preset, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range presetNames {
		if n == name {
			return Preset(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

// Next returns the preset after p, wrapping around
func (p Preset) Next() Preset {
	return (p + 1) % numPresets
}

// octave holds the twelve within-octave ratios of a preset, index 0 = A.
// A zero entry marks a slot that takes the just tritone substitutes.
type octave struct {
	ratios     [12]float64
	loTT, hiTT float64
}

func pow2(x float64) float64 { return math.Pow(2, x) }
func pow3(x float64) float64 { return math.Pow(3, x) }
func pow5(x float64) float64 { return math.Pow(5, x) }

func (p Preset) octave() octave {
	switch p {
	case Meantone:
		P := pow5(1. / 4.)
		T := pow5(1./2.) / 2.
		S := 8. / pow5(5./4.)
		Z := T / S
		return octave{ratios: [12]float64{
			1, Z, T, T * S, T * T, T * T * S, T * T * T, P, P * Z, P * T, P * T * S, P * T * T,
		}}

	case Just5Limit:
		// only factors 2, 3 and 5
		return octave{
			ratios: [12]float64{
				1, 16. / 15., 9. / 8., 6. / 5., 5. / 4., 4. / 3.,
				45. / 32., 3. / 2., 8. / 5., 5. / 3., 16. / 9., 15. / 8.,
			},
			loTT: 64. / 45.,
			hiTT: 45. / 32.,
		}

	case Kepler:
		return octave{ratios: [12]float64{
			1, 135. / 128., 9. / 8., 6. / 5., 5. / 4., 4. / 3.,
			45. / 32., 3. / 2., 8. / 5., 27. / 16., 9. / 5., 15. / 8.,
		}}

	case Pythagorean:
		// all fifths 3:2; the augmented fourth 729/512 sits in the tritone slot
		return octave{
			ratios: [12]float64{
				1, 256. / 243., 9. / 8., 32. / 27., 81. / 64., 4. / 3.,
				729. / 512., 3. / 2., 128. / 81., 27. / 16., 16. / 9., 243. / 128.,
			},
			loTT: 1024. / 729.,
			hiTT: 729. / 512.,
		}

	case Hammond:
		// tonewheel gear ratios; A = 88/64 = 1.375
		r := [12]float64{
			88. / 64., 67. / 46., 108. / 70., 85. / 104., 71. / 82., 67. / 73.,
			105. / 108., 103. / 100., 84. / 77., 74. / 64., 98. / 80., 96. / 74.,
		}
		for i := range r {
			r[i] /= 1.375
			if r[i] < 1.0 {
				r[i] *= 2.0
			}
		}
		return octave{ratios: r}

	case Ptolemaic:
		return octave{ratios: [12]float64{
			1, 16. / 15., 9. / 8., 6. / 5., 5. / 4., 4. / 3.,
			7. / 5., 3. / 2., 8. / 5., 5. / 3., 7. / 4., 15. / 8.,
		}}

	case Chinese:
		exps := [12][2]float64{
			{0, 0}, {7, 11}, {2, 3}, {9, 14}, {4, 6}, {11, 17},
			{6, 9}, {1, 1}, {8, 12}, {3, 4}, {10, 15}, {5, 7},
		}
		var r [12]float64
		for i, e := range exps {
			r[i] = pow3(e[0]) / pow2(e[1])
		}
		return octave{ratios: r}

	case Dowland:
		return octave{ratios: [12]float64{
			1. / 1., 33. / 31., 9. / 8., 33. / 28., 264. / 211., 4. / 3.,
			24. / 17., 3. / 2., 99. / 62., 27. / 16., 99. / 56., 396. / 211.,
		}}

	case Kirnberger:
		return octave{ratios: [12]float64{
			1. / 1., 256. / 243., 9. / 8., 32. / 27., 5. / 4., 4. / 3.,
			45. / 32., 3. / 2., 128. / 81., 270. / 161., 16. / 9., 15. / 8.,
		}}
	}

	// EqualTemperament and anything out of range
	var r [12]float64
	for i := range r {
		r[i] = pow2(float64(i) / 12.)
	}
	return octave{ratios: r}
}
