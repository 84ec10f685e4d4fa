package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/feosynth/feosynth/pkg/midi"
	"github.com/feosynth/feosynth/pkg/synth"
	"github.com/feosynth/feosynth/pkg/tuning"
)

type fakeEngine struct {
	stats  synth.Stats
	tuning []tuning.Preset
	waves  []synth.Waveform
	mods   []int
	pitch  []float64
}

func (f *fakeEngine) Stats() synth.Stats                  { return f.stats }
func (f *fakeEngine) RequestTemperament(p tuning.Preset)  { f.tuning = append(f.tuning, p) }
func (f *fakeEngine) RequestWaveform(w synth.Waveform)    { f.waves = append(f.waves, w) }
func (f *fakeEngine) RequestModulation(note int)          { f.mods = append(f.mods, note) }
func (f *fakeEngine) RequestReferencePitch(freqA float64) { f.pitch = append(f.pitch, freqA) }

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func pop(t *testing.T, q *midi.Queue) midi.Message {
	t.Helper()
	var msg midi.Message
	if !q.Pop(&msg) {
		t.Fatal("queue empty")
	}
	return msg
}

func TestKeyPlaysAndReleases(t *testing.T) {
	q := midi.NewQueue()
	m := NewModel(&fakeEngine{}, midi.NewProducer(q))

	m, cmd := press(t, m, runes("z"))
	if cmd == nil {
		t.Fatal("no NoteOff scheduled")
	}
	on := pop(t, q)
	if on.Kind != midi.KindNoteOn || on.Note() != 60 || on.Velocity() != keyVelocity {
		t.Fatalf("got %s", on)
	}

	press(t, m, noteOffMsg{note: 60, press: 1})
	off := pop(t, q)
	if off.Kind != midi.KindNoteOff || off.Note() != 60 {
		t.Fatalf("got %s", off)
	}
	if q.Len() != 0 {
		t.Errorf("%d extra messages", q.Len())
	}
}

func TestRepeatPressExtendsNote(t *testing.T) {
	q := midi.NewQueue()
	m := NewModel(&fakeEngine{}, midi.NewProducer(q))

	m, _ = press(t, m, runes("e"))
	m, _ = press(t, m, runes("e"))
	pop(t, q)
	pop(t, q)

	// the first press's timer is stale
	m, _ = press(t, m, noteOffMsg{note: 76, press: 1})
	if q.Len() != 0 {
		t.Fatalf("stale NoteOff sent")
	}
	press(t, m, noteOffMsg{note: 76, press: 2})
	if off := pop(t, q); off.Kind != midi.KindNoteOff || off.Note() != 76 {
		t.Errorf("got %s", off)
	}
}

func TestOctaveShift(t *testing.T) {
	q := midi.NewQueue()
	m := NewModel(&fakeEngine{}, midi.NewProducer(q))

	for i := 0; i < 20; i++ {
		m, _ = press(t, m, runes("+"))
	}
	if m.Octave != maxOctave {
		t.Fatalf("Octave = %d", m.Octave)
	}
	// C-9 is 120, so the upper row runs off the end of the MIDI range
	m, _ = press(t, m, runes("i"))
	if q.Len() != 0 {
		t.Errorf("note above 127 sent")
	}

	for i := 0; i < 20; i++ {
		m, _ = press(t, m, runes("-"))
	}
	press(t, m, runes("s"))
	if on := pop(t, q); on.Note() != 13 {
		t.Errorf("note = %d, want 13", on.Note())
	}
}

func TestCycleSound(t *testing.T) {
	fe := &fakeEngine{}
	m := NewModel(fe, nil)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if len(fe.tuning) != 1 || fe.tuning[0] != tuning.Meantone {
		t.Errorf("temperament requests = %v", fe.tuning)
	}
	if len(fe.waves) != 1 || fe.waves[0] != synth.Square {
		t.Errorf("waveform requests = %v", fe.waves)
	}
	if !strings.Contains(m.StatusMsg, "square") {
		t.Errorf("status = %q", m.StatusMsg)
	}

	// no producer: note keys do nothing
	if _, cmd := press(t, m, runes("z")); cmd != nil {
		t.Error("NoteOff scheduled without a keyboard")
	}
}

func TestModulateToLastNote(t *testing.T) {
	fe := &fakeEngine{}
	m := NewModel(fe, midi.NewProducer(midi.NewQueue()))

	m, _ = press(t, m, runes("."))
	if len(fe.mods) != 0 {
		t.Fatalf("modulated before any note: %v", fe.mods)
	}

	m, _ = press(t, m, runes("c"))
	m, _ = press(t, m, runes("."))
	m, _ = press(t, m, runes(","))
	if len(fe.mods) != 2 || fe.mods[0] != 64 || fe.mods[1] != tuning.ReferenceNote {
		t.Errorf("modulation requests = %v", fe.mods)
	}
	if m.StatusMsg != "modulation reset" {
		t.Errorf("status = %q", m.StatusMsg)
	}
}

func TestReferencePitchKeys(t *testing.T) {
	fe := &fakeEngine{stats: synth.Stats{FreqA: 440}}
	m := NewModel(fe, nil)

	m, _ = press(t, m, runes("]"))
	m, _ = press(t, m, runes("]"))
	m, _ = press(t, m, runes("["))
	if len(fe.pitch) != 3 || fe.pitch[0] != 441 || fe.pitch[1] != 442 || fe.pitch[2] != 441 {
		t.Errorf("pitch requests = %v", fe.pitch)
	}
	if m.FreqA != 441 || m.StatusMsg != "A = 441 Hz" {
		t.Errorf("FreqA = %v, status = %q", m.FreqA, m.StatusMsg)
	}

	m.FreqA = maxFreqA
	m, _ = press(t, m, runes("]"))
	if len(fe.pitch) != 3 || m.FreqA != maxFreqA {
		t.Errorf("pitch went past %v: %v", maxFreqA, fe.pitch)
	}
}

func TestTickRefreshesStats(t *testing.T) {
	fe := &fakeEngine{}
	m := NewModel(fe, nil)

	fe.stats = synth.Stats{Polyphony: 1, Temperament: tuning.Kepler, Waveform: synth.Saw, FreqA: 442, Center: 442}
	fe.stats.Notes[0] = 1 << 60
	m, cmd := press(t, m, tickMsg{})
	if cmd == nil {
		t.Error("tick not rescheduled")
	}
	if m.Stats.Polyphony != 1 || !m.Stats.Sounding(60) {
		t.Fatalf("stats = %+v", m.Stats)
	}

	view := m.View()
	for _, want := range []string{"kepler", "saw", "C-4", "442.0"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestQuitAndHelp(t *testing.T) {
	m := NewModel(&fakeEngine{}, nil)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyF1})
	if !m.ShowHelp || !strings.Contains(m.View(), "HELP") {
		t.Error("help not shown")
	}
	if _, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC}); cmd == nil {
		t.Error("ctrl+c did not quit")
	}
}
