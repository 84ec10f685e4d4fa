package audio

import (
	"encoding/binary"
	"errors"
	"testing"
)

type rampRenderer struct {
	calls int
	last  int
}

func (r *rampRenderer) Process(out []float32) {
	r.calls++
	r.last = len(out)
	for i := range out {
		out[i] = float32(i%4) / 4
	}
}

func TestParseBackend(t *testing.T) {
	for _, name := range []string{"oto", "PortAudio"} {
		if _, err := ParseBackend(name); err != nil {
			t.Errorf("ParseBackend(%q): %v", name, err)
		}
	}
	if _, err := ParseBackend("alsa"); !errors.Is(err, ErrDeviceUnavailable) {
		t.Errorf("err = %v", err)
	}
}

func TestOpenRejectsFormatBeforeTouchingDevice(t *testing.T) {
	for _, b := range []Backend{BackendOto, BackendPortAudio} {
		_, err := Open(b, Options{Format: U16})
		if !errors.Is(err, ErrUnsupportedSampleFormat) {
			t.Errorf("%s: err = %v", b, err)
		}
	}
	if _, err := Open("jack", Options{}); !errors.Is(err, ErrDeviceUnavailable) {
		t.Errorf("err = %v", err)
	}
}

func TestOtoReadBeforeStartIsSilent(t *testing.T) {
	o := &OtoOutput{channels: 2, format: F32}
	p := make([]byte, 64)
	for i := range p {
		p[i] = 0xAA
	}
	n, err := o.Read(p)
	if err != nil || n != 64 {
		t.Fatalf("Read = %d, %v", n, err)
	}
	for i, b := range p {
		if b != 0 {
			t.Fatalf("byte %d = %#x", i, b)
		}
	}
}

func TestOtoReadRendersWholeFrames(t *testing.T) {
	r := &rampRenderer{}
	o := &OtoOutput{channels: 2, format: I16, scratch: make([]float32, 32)}
	o.render.Store(&rendererRef{r: r})

	// 10 frames of 4 bytes plus 3 stray bytes
	p := make([]byte, 43)
	n, err := o.Read(p)
	if err != nil || n != 40 {
		t.Fatalf("Read = %d, %v", n, err)
	}
	if r.calls != 1 || r.last != 20 {
		t.Errorf("renderer called %d times for %d samples", r.calls, r.last)
	}
	if got := int16(binary.LittleEndian.Uint16(p[2:])); got != ToInt16(0.25) {
		t.Errorf("sample 1 = %d", got)
	}

	if err := o.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	o.Read(p)
	if r.calls != 1 {
		t.Error("renderer called after Close")
	}
}

func TestOtoReadCapsToScratch(t *testing.T) {
	r := &rampRenderer{}
	o := &OtoOutput{channels: 2, format: F32, scratch: make([]float32, 8)}
	o.render.Store(&rendererRef{r: r})

	p := make([]byte, 1024)
	n, err := o.Read(p)
	if err != nil || n != 32 {
		t.Fatalf("Read = %d, %v; want a short read of 4 frames", n, err)
	}
	if r.last != 8 {
		t.Errorf("rendered %d samples", r.last)
	}
	if len(o.scratch) != 8 || cap(o.scratch) != 8 {
		t.Errorf("scratch resized to len %d cap %d", len(o.scratch), cap(o.scratch))
	}

	if allocs := testing.AllocsPerRun(100, func() { o.Read(p) }); allocs != 0 {
		t.Errorf("Read allocates %v times", allocs)
	}
}

func TestPortAudioInt16RendersInChunks(t *testing.T) {
	r := &rampRenderer{}
	o := &PortAudioOutput{channels: 2, format: I16, scratch: make([]float32, 8)}

	out := make([]int16, 20)
	o.renderInt16(r, out)
	if r.calls != 3 || r.last != 4 {
		t.Errorf("renderer called %d times, last for %d samples", r.calls, r.last)
	}
	for i, s := range out {
		if want := ToInt16(float32(i%4) / 4); s != want {
			t.Fatalf("sample %d = %d, want %d", i, s, want)
		}
	}
	if cap(o.scratch) != 8 {
		t.Errorf("scratch grew to %d", cap(o.scratch))
	}
}
