package synth

import "github.com/feosynth/feosynth/pkg/tuning"

const none = -1

// activeList is an intrusive doubly linked list over note numbers, most
// recently inserted first. All storage is fixed so it never allocates.
type activeList struct {
	head int16
	prev [tuning.NumNotes]int16
	next [tuning.NumNotes]int16
	in   [tuning.NumNotes]bool
	n    int
}

func (l *activeList) init() {
	l.head = none
	for i := range l.prev {
		l.prev[i] = none
		l.next[i] = none
		l.in[i] = false
	}
	l.n = 0
}

func (l *activeList) contains(i int) bool { return l.in[i] }

// pushFront inserts i at the head, moving it there if already present
func (l *activeList) pushFront(i int) {
	if l.in[i] {
		l.remove(i)
	}
	n := int16(i)
	l.prev[i] = none
	l.next[i] = l.head
	if l.head != none {
		l.prev[l.head] = n
	}
	l.head = n
	l.in[i] = true
	l.n++
}

func (l *activeList) remove(i int) {
	if !l.in[i] {
		return
	}
	p, nx := l.prev[i], l.next[i]
	if p != none {
		l.next[p] = nx
	} else {
		l.head = nx
	}
	if nx != none {
		l.prev[nx] = p
	}
	l.prev[i] = none
	l.next[i] = none
	l.in[i] = false
	l.n--
}
