package synth

import (
	"math"
	"testing"
)

func TestCounterQuarterRate(t *testing.T) {
	for _, sr := range []int{44100, 48000, 96000} {
		c := NewCounter(sr)
		c.SetFrequency(float64(sr) / 4)
		if c.Increment() != 1<<30 {
			t.Fatalf("sr %d: incr = %d, want 2^30", sr, c.Increment())
		}
		// sr/4 steps leave the phase on a quarter boundary set by sr/4 mod 4
		steps := sr / 4
		for i := 0; i < steps; i++ {
			c.Advance()
		}
		if want := uint32(steps%4) << 30; c.Phase() != want {
			t.Errorf("sr %d: phase = %#x after %d steps, want %#x", sr, c.Phase(), steps, want)
		}

		// whole periods always come back to zero
		c.Reset()
		for i := 0; i < 4*steps; i++ {
			c.Advance()
		}
		if c.Index() != 0 || c.Phase() != 0 {
			t.Errorf("sr %d: phase = %#x after %d periods", sr, c.Phase(), steps)
		}
	}
}

func TestCounterPeriod(t *testing.T) {
	c := NewCounter(48000)
	c.SetFrequency(750) // 64 samples per period
	start := c.Phase()
	for i := 0; i < 64; i++ {
		c.Advance()
	}
	if c.Phase() != start {
		t.Errorf("phase = %d after one period, want %d", c.Phase(), start)
	}
}

func TestCounterIncrementRounding(t *testing.T) {
	c := NewCounter(48000)
	c.SetFrequency(440)
	want := uint32(math.Round(440 * (1 << 32) / 48000.0))
	if c.Increment() != want {
		t.Errorf("incr = %d, want %d", c.Increment(), want)
	}
	if c.Frequency() != 440 {
		t.Errorf("Frequency = %v", c.Frequency())
	}
}

func TestCounterRejectsBadFrequency(t *testing.T) {
	c := NewCounter(48000)
	c.SetFrequency(1000)
	before := c.Increment()
	for _, f := range []float64{-1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		c.SetFrequency(f)
		if c.Increment() != before {
			t.Errorf("SetFrequency(%v) changed incr to %d", f, c.Increment())
		}
	}
}

func TestCounterAtSampleRateWraps(t *testing.T) {
	c := NewCounter(48000)
	c.SetFrequency(48000)
	if c.Increment() != 0 {
		t.Errorf("incr = %d, want 0 (one full period per sample)", c.Increment())
	}
}

func TestCounterIndexAndFraction(t *testing.T) {
	c := Counter{phase: 0x12345678}
	if c.Index() != 0x91A2 {
		t.Errorf("Index = %#x, want 0x91a2", c.Index())
	}
	if f := c.Fraction(); f != 5752.0/8192.0 {
		t.Errorf("Fraction = %v", f)
	}

	c = Counter{phase: math.MaxUint32}
	if c.Index() != TableSize-1 {
		t.Errorf("Index = %d, want %d", c.Index(), TableSize-1)
	}
	if f := c.Fraction(); f >= 1 {
		t.Errorf("Fraction = %v, want < 1", f)
	}

	c.incr = 1
	c.Advance()
	if c.Phase() != 0 {
		t.Errorf("phase = %d after wrap", c.Phase())
	}
}

func TestCounterSetSampleRate(t *testing.T) {
	c := NewCounter(48000)
	c.SetFrequency(1000)
	c.SetSampleRate(96000)
	want := uint32(math.Round(1000 * (1 << 32) / 96000.0))
	if c.Increment() != want {
		t.Errorf("incr = %d, want %d", c.Increment(), want)
	}
	c.SetSampleRate(0)
	if c.Increment() != want {
		t.Errorf("zero rate changed incr to %d", c.Increment())
	}
	c.Reset()
	if c.Phase() != 0 {
		t.Errorf("Reset left phase %d", c.Phase())
	}
}
