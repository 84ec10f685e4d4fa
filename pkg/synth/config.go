package synth

import (
	"errors"
	"fmt"

	"github.com/feosynth/feosynth/pkg/tuning"
)

// ErrInvalidConfig is returned by NewEngine for unusable settings
var ErrInvalidConfig = errors.New("invalid engine config")

// Config holds the engine settings fixed at construction
type Config struct {
	SampleRate  int     // Hz
	Channels    int     // interleaved output channels, stereo expected
	FreqA       float64 // reference pitch of note 69
	Waveform    Waveform
	Temperament tuning.Preset
}

// DefaultConfig returns 48 kHz stereo, A=440, sine, equal temperament
func DefaultConfig() Config {
	return Config{
		SampleRate:  48000,
		Channels:    2,
		FreqA:       tuning.DefaultFreqA,
		Waveform:    Sine,
		Temperament: tuning.EqualTemperament,
	}
}

// Validate checks the config
func (c Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidConfig, c.SampleRate)
	}
	if c.Channels < 1 {
		return fmt.Errorf("%w: %d channels", ErrInvalidConfig, c.Channels)
	}
	if !(c.FreqA > 0) {
		return fmt.Errorf("%w: reference pitch %v", ErrInvalidConfig, c.FreqA)
	}
	if c.Waveform >= numWaveforms {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, c.Waveform)
	}
	if int(c.Temperament) >= len(tuning.Presets()) {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, c.Temperament)
	}
	return nil
}
