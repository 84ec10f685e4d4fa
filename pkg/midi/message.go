// Package midi decodes raw MIDI input and carries it from the MIDI
// goroutine to the audio callback.
package midi

import (
	"errors"
	"fmt"
)

// Kind tags the variant held by a Message
type Kind uint8

const (
	KindNone Kind = iota
	KindNoteOff
	KindNoteOn
	KindPolyPressure
	KindControlChange
	KindProgramChange
	KindChannelPressure
	KindPitchBend
	KindSysEx
)

var kindNames = [...]string{
	"None", "NoteOff", "NoteOn", "PolyPressure", "ControlChange",
	"ProgramChange", "ChannelPressure", "PitchBend", "SysEx",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Controller numbers the synth reacts to
const (
	ControllerSustain = 64
)

// PitchBendCenter is the 14-bit pitch bend rest position
const PitchBendCenter = 0x2000

var (
	// ErrMalformed marks raw bytes that do not form a supported message
	ErrMalformed = errors.New("malformed midi message")
	// ErrQueueFull is returned when the transport queue has no free slot
	ErrQueueFull = errors.New("midi queue full")
	// ErrDeviceUnavailable is returned when no usable input port exists
	ErrDeviceUnavailable = errors.New("midi input unavailable")
)

// Message is one decoded MIDI message.
//
// Data1 and Data2 hold the two 7-bit data bytes of channel messages; their
// meaning depends on Kind (see the accessors). Bend holds the combined
// 14-bit pitch bend value and SysEx the payload between 0xF0 and 0xF7.
type Message struct {
	Kind    Kind
	Channel uint8
	Data1   uint8
	Data2   uint8
	Bend    uint16 // MSB<<7 | LSB, the standard MIDI order; 0x2000 is centre
	SysEx   []byte
}

// Note returns the key of note and poly pressure messages
func (m Message) Note() uint8 { return m.Data1 }

// Velocity returns the velocity of note messages
func (m Message) Velocity() uint8 { return m.Data2 }

// Controller returns the controller number of a control change
func (m Message) Controller() uint8 { return m.Data1 }

// Value returns the controller value of a control change
func (m Message) Value() uint8 { return m.Data2 }

// Program returns the program number of a program change
func (m Message) Program() uint8 { return m.Data1 }

// Pressure returns the pressure of poly and channel pressure messages
func (m Message) Pressure() uint8 {
	if m.Kind == KindChannelPressure {
		return m.Data1
	}
	return m.Data2
}

func (m Message) String() string {
	switch m.Kind {
	case KindNoteOn, KindNoteOff:
		return fmt.Sprintf("%s ch=%d note=%d vel=%d", m.Kind, m.Channel, m.Data1, m.Data2)
	case KindPolyPressure:
		return fmt.Sprintf("%s ch=%d note=%d pressure=%d", m.Kind, m.Channel, m.Data1, m.Data2)
	case KindControlChange:
		return fmt.Sprintf("%s ch=%d cc=%d value=%d", m.Kind, m.Channel, m.Data1, m.Data2)
	case KindProgramChange:
		return fmt.Sprintf("%s ch=%d program=%d", m.Kind, m.Channel, m.Data1)
	case KindChannelPressure:
		return fmt.Sprintf("%s ch=%d pressure=%d", m.Kind, m.Channel, m.Data1)
	case KindPitchBend:
		return fmt.Sprintf("%s ch=%d bend=%d", m.Kind, m.Channel, m.Bend)
	case KindSysEx:
		return fmt.Sprintf("%s len=%d", m.Kind, len(m.SysEx))
	}
	return m.Kind.String()
}

// NoteOn builds a note-on message
func NoteOn(ch, note, vel uint8) Message {
	return Message{Kind: KindNoteOn, Channel: ch & 0x0F, Data1: note, Data2: vel}
}

// NoteOff builds a note-off message
func NoteOff(ch, note, vel uint8) Message {
	return Message{Kind: KindNoteOff, Channel: ch & 0x0F, Data1: note, Data2: vel}
}

// ControlChange builds a control change message
func ControlChange(ch, controller, value uint8) Message {
	return Message{Kind: KindControlChange, Channel: ch & 0x0F, Data1: controller, Data2: value}
}
