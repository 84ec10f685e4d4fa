package tuning

var noteNames = [12]string{"C-", "C#", "D-", "D#", "E-", "F-", "F#", "G-", "G#", "A-", "A#", "B-"}

// NoteName converts a MIDI note to tracker-style text, 60 = "C-4"
func NoteName(n int) string {
	if n < 0 || n >= NumNotes {
		return "---"
	}
	octave := n/12 - 1
	if octave < 0 {
		return noteNames[n%12] + "-"
	}
	return noteNames[n%12] + string(rune('0'+octave))
}
