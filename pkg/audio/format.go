package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrDeviceUnavailable means no default output device could be opened
	ErrDeviceUnavailable = errors.New("audio device unavailable")
	// ErrUnsupportedSampleFormat means the backend cannot deliver the format
	ErrUnsupportedSampleFormat = errors.New("unsupported sample format")
)

// SampleFormat is the on-device encoding of one sample
type SampleFormat uint8

const (
	F32 SampleFormat = iota // 32-bit float, little endian
	I16                     // signed 16-bit, little endian
	U16                     // unsigned 16-bit, little endian, silence at 0x8000
)

var formatNames = [...]string{"f32", "i16", "u16"}

func (f SampleFormat) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("SampleFormat(%d)", uint8(f))
}

// ParseSampleFormat maps "f32", "i16" or "u16" to a format
func ParseSampleFormat(name string) (SampleFormat, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range formatNames {
		if n == name {
			return SampleFormat(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedSampleFormat, name)
}

// Size returns the bytes per sample
func (f SampleFormat) Size() int {
	if f == F32 {
		return 4
	}
	return 2
}

func clamp(s float32) float32 {
	if s > 1 {
		return 1
	}
	if s < -1 {
		return -1
	}
	return s
}

// ToInt16 converts a float sample, clamping to [-1, 1]
func ToInt16(s float32) int16 {
	return int16(clamp(s) * math.MaxInt16)
}

// ToUint16 converts a float sample to offset binary
func ToUint16(s float32) uint16 {
	return uint16(int32(ToInt16(s)) + 0x8000)
}

// Encode writes src into dst in format f and returns the number of bytes
// written. Integer formats clamp; floats pass through untouched.
func (f SampleFormat) Encode(dst []byte, src []float32) int {
	size := f.Size()
	n := min(len(src), len(dst)/size)
	le := binary.LittleEndian
	switch f {
	case F32:
		for i := 0; i < n; i++ {
			le.PutUint32(dst[i*4:], math.Float32bits(src[i]))
		}
	case I16:
		for i := 0; i < n; i++ {
			le.PutUint16(dst[i*2:], uint16(ToInt16(src[i])))
		}
	case U16:
		for i := 0; i < n; i++ {
			le.PutUint16(dst[i*2:], ToUint16(src[i]))
		}
	default:
		return 0
	}
	return n * size
}
