package midi

import (
	"bytes"
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
)

const (
	statusSysEx    = 0xF0
	statusSysExEnd = 0xF7
)

// dataLen returns how many data bytes follow a channel status byte
func dataLen(status uint8) int {
	switch status & 0xF0 {
	case 0xC0, 0xD0: // program change, channel pressure
		return 1
	}
	return 2
}

// checkFrame rejects what the gomidi accessors would only report as "not
// this type": a missing status byte (running status is not supported), a
// wrong length, stray status bytes among the data, empty or unterminated
// SysEx.
func checkFrame(raw []byte) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: empty", ErrMalformed)
	}
	status := raw[0]
	if status < 0x80 {
		return fmt.Errorf("%w: data byte 0x%02X without status", ErrMalformed, status)
	}

	var data []byte
	switch {
	case status == statusSysEx:
		if len(raw) < 2 || raw[len(raw)-1] != statusSysExEnd {
			return fmt.Errorf("%w: sysex without 0xF7", ErrMalformed)
		}
		if len(raw) == 2 {
			return fmt.Errorf("%w: empty sysex", ErrMalformed)
		}
		data = raw[1 : len(raw)-1]
	case status < statusSysEx:
		n := dataLen(status)
		if len(raw) != 1+n {
			return fmt.Errorf("%w: status 0x%02X wants %d data bytes, got %d", ErrMalformed, status, n, len(raw)-1)
		}
		data = raw[1:]
	default:
		return fmt.Errorf("%w: unsupported status 0x%02X", ErrMalformed, status)
	}

	for _, b := range data {
		if b >= 0x80 {
			return fmt.Errorf("%w: status 0x%02X data byte 0x%02X", ErrMalformed, status, b)
		}
	}
	return nil
}

// Decode turns one raw message into a Message. Errors wrap ErrMalformed.
func Decode(raw []byte) (Message, error) {
	if err := checkFrame(raw); err != nil {
		return Message{}, err
	}

	var (
		msg      = gomidi.Message(raw)
		m        Message
		rel      int16
		abs      uint16
		payload  []byte
		ch, a, b uint8
	)
	switch {
	case msg.GetNoteOn(&ch, &a, &b):
		m = Message{Kind: KindNoteOn, Data1: a, Data2: b}
	case msg.GetNoteOff(&ch, &a, &b):
		m = Message{Kind: KindNoteOff, Data1: a, Data2: b}
	case msg.GetPolyAfterTouch(&ch, &a, &b):
		m = Message{Kind: KindPolyPressure, Data1: a, Data2: b}
	case msg.GetControlChange(&ch, &a, &b):
		m = Message{Kind: KindControlChange, Data1: a, Data2: b}
	case msg.GetProgramChange(&ch, &a):
		m = Message{Kind: KindProgramChange, Data1: a}
	case msg.GetAfterTouch(&ch, &a):
		m = Message{Kind: KindChannelPressure, Data1: a}
	case msg.GetPitchBend(&ch, &rel, &abs):
		m = Message{Kind: KindPitchBend, Data1: uint8(abs & 0x7F), Data2: uint8(abs >> 7), Bend: abs}
	case msg.GetSysEx(&payload):
		// the driver reuses its buffer
		return Message{Kind: KindSysEx, SysEx: bytes.Clone(payload)}, nil
	default:
		return Message{}, fmt.Errorf("%w: unsupported %s", ErrMalformed, msg.Type())
	}
	m.Channel = ch
	return m, nil
}
