// Package tui implements the terminal monitor and computer-keyboard note source
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	gomidi "gitlab.com/gomidi/midi/v2"

	"github.com/feosynth/feosynth/pkg/midi"
	"github.com/feosynth/feosynth/pkg/synth"
	"github.com/feosynth/feosynth/pkg/tuning"
)

// Controller is the part of the engine the monitor talks to
type Controller interface {
	Stats() synth.Stats
	RequestTemperament(p tuning.Preset)
	RequestWaveform(w synth.Waveform)
	RequestModulation(note int)
	RequestReferencePitch(freqA float64)
}

// NoteHold is how long a key press sounds. Terminals report no key
// release, so every press schedules its own NoteOff.
const NoteHold = 400 * time.Millisecond

const (
	keyChannel  = 0
	keyVelocity = 100
	maxOctave   = 8

	pitchStep = 1.0 // Hz per [ or ]
	minFreqA  = 400.0
	maxFreqA  = 480.0
)

// Model is the main TUI model
type Model struct {
	Engine Controller
	Keys   *midi.Producer // nil disables the keyboard

	Width    int
	Height   int
	ShowHelp bool
	Octave   int

	Stats       synth.Stats
	Temperament tuning.Preset
	Waveform    synth.Waveform
	FreqA       float64
	LastNote    int // most recent keyboard note, -1 before the first
	StatusMsg   string

	// press count per note; a NoteOff only fires for the latest press
	presses [tuning.NumNotes]uint32
}

// NewModel creates a monitor for e. Key presses go to keys.
func NewModel(e Controller, keys *midi.Producer) Model {
	st := e.Stats()
	return Model{
		Engine:      e,
		Keys:        keys,
		Octave:      4,
		Width:       80,
		Height:      24,
		Stats:       st,
		Temperament: st.Temperament,
		Waveform:    st.Waveform,
		FreqA:       st.FreqA,
		LastNote:    -1,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tickCmd(),
	)
}

// tickMsg refreshes the engine stats
type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(_ time.Time) tea.Msg {
		return tickMsg{}
	})
}

// noteOffMsg ends a key press once its hold time has passed
type noteOffMsg struct {
	note  uint8
	press uint32
}

func noteOffCmd(note uint8, press uint32) tea.Cmd {
	return tea.Tick(NoteHold, func(_ time.Time) tea.Msg {
		return noteOffMsg{note: note, press: press}
	})
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case tickMsg:
		m.Stats = m.Engine.Stats()
		return m, tickCmd()

	case noteOffMsg:
		if m.presses[msg.note] == msg.press {
			m.send(gomidi.NoteOff(keyChannel, msg.note))
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "f1":
		m.ShowHelp = !m.ShowHelp

	case "tab":
		m.Temperament = m.Temperament.Next()
		m.Engine.RequestTemperament(m.Temperament)
		m.StatusMsg = "temperament " + m.Temperament.String()

	case "shift+tab":
		m.Waveform = m.Waveform.Next()
		m.Engine.RequestWaveform(m.Waveform)
		m.StatusMsg = "waveform " + m.Waveform.String()

	case ".":
		if m.LastNote < 0 {
			m.StatusMsg = "play a note to modulate to"
			break
		}
		m.Engine.RequestModulation(m.LastNote)
		m.StatusMsg = "modulated to " + tuning.NoteName(m.LastNote)

	case ",":
		m.Engine.RequestModulation(tuning.ReferenceNote)
		m.StatusMsg = "modulation reset"

	case "[", "]":
		f := m.FreqA - pitchStep
		if msg.String() == "]" {
			f = m.FreqA + pitchStep
		}
		if f < minFreqA || f > maxFreqA {
			break
		}
		m.FreqA = f
		m.Engine.RequestReferencePitch(f)
		m.StatusMsg = fmt.Sprintf("A = %.0f Hz", f)

	case "+", "*":
		if m.Octave < maxOctave {
			m.Octave++
		}

	case "-", "/":
		if m.Octave > 0 {
			m.Octave--
		}

	default:
		if note := keyToNote(msg.String(), m.Octave); note >= 0 && m.Keys != nil {
			n := uint8(note)
			m.presses[n]++
			m.LastNote = note
			m.send(gomidi.NoteOn(keyChannel, n, keyVelocity))
			return m, noteOffCmd(n, m.presses[n])
		}
	}

	return m, nil
}

func (m *Model) send(raw gomidi.Message) {
	if m.Keys == nil {
		return
	}
	if err := m.Keys.SendRaw(raw); err != nil {
		m.StatusMsg = err.Error()
	}
}

var keyOffsets = map[string]int{
	// Lower row: Z S X D C V G B H N J M
	"z": 0, "s": 1, "x": 2, "d": 3, "c": 4, "v": 5,
	"g": 6, "b": 7, "h": 8, "n": 9, "j": 10, "m": 11,
	// Upper row: Q 2 W 3 E R 5 T 6 Y 7 U I
	"q": 12, "2": 13, "w": 14, "3": 15, "e": 16, "r": 17,
	"5": 18, "t": 19, "6": 20, "y": 21, "7": 22, "u": 23,
	"i": 24,
}

// keyToNote converts a keyboard key to a MIDI note, or -1
func keyToNote(key string, octave int) int {
	off, ok := keyOffsets[key]
	if !ok {
		return -1
	}
	n := (octave+1)*12 + off
	if n >= tuning.NumNotes {
		return -1
	}
	return n
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("10"))
	idleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	sharpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
)

// View implements tea.Model
func (m Model) View() string {
	if m.ShowHelp {
		return m.helpView()
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n\n")
	b.WriteString(m.keyboardView())
	b.WriteString("\n")
	b.WriteString(m.activeView())
	b.WriteString("\n\n")
	b.WriteString(m.footerView())
	return b.String()
}

func (m Model) headerView() string {
	field := func(label, value string) string {
		return labelStyle.Render(label+" ") + valueStyle.Render(value)
	}
	line := strings.Join([]string{
		titleStyle.Render("FEOSYNTH"),
		field("tuning", m.Stats.Temperament.String()),
		field("wave", m.Stats.Waveform.String()),
		field("voices", fmt.Sprintf("%3d/%d", m.Stats.Polyphony, synth.MaxPoly)),
		field("oct", fmt.Sprint(m.Octave)),
		field("A", fmt.Sprintf("%.1f", m.Stats.FreqA)),
		field("root", fmt.Sprintf("%.2f", m.Stats.Center)),
	}, "  ")

	stats := field("frames", fmt.Sprint(m.Stats.Frames)) + "  " +
		field("msgs", fmt.Sprint(m.Stats.Messages))
	if m.Keys != nil {
		acc, drop := m.Keys.Queue().Stats()
		stats += "  " + field("queued", fmt.Sprint(acc)) +
			"  " + field("dropped", fmt.Sprint(drop)) +
			"  " + field("malformed", fmt.Sprint(m.Keys.Malformed()))
	}
	return line + "\n" + stats
}

// keyboardView draws one row per octave with sounding notes lit
func (m Model) keyboardView() string {
	var b strings.Builder
	for base := 0; base < tuning.NumNotes; base += 12 {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%3d ", base)))
		for n := base; n < base+12 && n < tuning.NumNotes; n++ {
			name := tuning.NoteName(n)
			switch {
			case m.Stats.Sounding(n):
				b.WriteString(activeStyle.Render(name))
			case strings.Contains(name, "#"):
				b.WriteString(sharpStyle.Render(name))
			default:
				b.WriteString(idleStyle.Render(name))
			}
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) activeView() string {
	var names []string
	for n := 0; n < tuning.NumNotes; n++ {
		if m.Stats.Sounding(n) {
			names = append(names, tuning.NoteName(n))
		}
	}
	if len(names) == 0 {
		return labelStyle.Render("silent")
	}
	return valueStyle.Render(strings.Join(names, " "))
}

func (m Model) footerView() string {
	keys := " [ZSX..]Play [+/-]Oct [Tab]Tuning [S-Tab]Wave [.]Mod [[/]]A [F1]Help [Esc]Quit"
	footer := labelStyle.Render(keys)
	if m.StatusMsg != "" {
		footer += "\n" + statusStyle.Render(" "+m.StatusMsg)
	}
	return footer
}

func (m Model) helpView() string {
	help := `
 FEOSYNTH HELP

 NOTES (piano keyboard)
   Z S X D C V G B H N J M    lower octave (C to B)
   Q 2 W 3 E R 5 T 6 Y 7 U I  upper octave
   + -                        octave up/down

 SOUND
   Tab        next temperament
   Shift+Tab  next waveform
   .          modulate to the last note played
   ,          undo modulation
   [ ]        reference pitch down/up 1 Hz

 Changing temperament or pitch undoes modulation.

   F1         close help
   Esc        quit
`
	return titleStyle.Render(help)
}
