package internal

import (
	"fmt"
	"strings"
)

// List represents a doubly linked list over an arena of entries.
// The last arena element is the sentinel root, only root.prev and
// root.next are used.
type List struct {
	entries []Entry
	root    int32
	len     int // current list length excluding the sentinel
}

// NewList returns an initialized list able to hold size entries.
func NewList(size int) *List {
	l := &List{entries: make([]Entry, size+1), root: int32(size)}
	l.Reset()
	return l
}

func (l *List) Reset() {
	for i := range l.entries {
		l.entries[i].reset()
	}
	r := &l.entries[l.root]
	r.prev, r.next = l.root, l.root
	l.len = 0
}

// Len returns the number of elements of list l.
// The complexity is O(1).
func (l *List) Len() int { return l.len }

// Entry returns the arena element for slot.
func (l *List) Entry(slot int32) *Entry {
	return &l.entries[slot]
}

func (l *List) display() string {
	var s []string
	for e := l.Front(); e != Nil; e = l.Next(e) {
		s = append(s, fmt.Sprintf("%v", l.entries[e].key))
	}
	return strings.Join(s, "/")
}

func (l *List) displayReverse() string {
	var s []string
	for e := l.Back(); e != Nil; e = l.Prev(e) {
		s = append(s, fmt.Sprintf("%v", l.entries[e].key))
	}
	return strings.Join(s, "/")
}

// Front returns the first slot of list l or Nil if the list is empty.
func (l *List) Front() int32 {
	if l.len == 0 {
		return Nil
	}
	return l.entries[l.root].next
}

// Back returns the last slot of list l or Nil if the list is empty.
func (l *List) Back() int32 {
	if l.len == 0 {
		return Nil
	}
	return l.entries[l.root].prev
}

// Next returns the slot after s, or Nil at the end of the list.
func (l *List) Next(s int32) int32 {
	if n := l.entries[s].next; n != l.root {
		return n
	}
	return Nil
}

// Prev returns the slot before s, or Nil at the front of the list.
func (l *List) Prev(s int32) int32 {
	if p := l.entries[s].prev; p != l.root {
		return p
	}
	return Nil
}

// insert inserts s after at and increments l.len.
func (l *List) insert(s, at int32) {
	e := &l.entries[s]
	e.prev = at
	e.next = l.entries[at].next
	l.entries[e.prev].next = s
	l.entries[e.next].prev = s
	l.len++
}

// PushFront links s at the list head.
func (l *List) PushFront(s int32) {
	l.insert(s, l.root)
}

// InsertAfter links s right after mark, which must be in the list.
func (l *List) InsertAfter(s, mark int32) {
	l.insert(s, mark)
}

// Remove unlinks s and decrements l.len.
func (l *List) Remove(s int32) {
	e := &l.entries[s]
	l.entries[e.prev].next = e.next
	l.entries[e.next].prev = e.prev
	e.next = Nil
	e.prev = Nil
	l.len--
}

// move relinks s next to at without touching the entry payload.
func (l *List) move(s, at int32) {
	if s == at {
		return
	}
	e := &l.entries[s]
	l.entries[e.prev].next = e.next
	l.entries[e.next].prev = e.prev

	e.prev = at
	e.next = l.entries[at].next
	l.entries[e.prev].next = s
	l.entries[e.next].prev = s
}

// MoveAfter moves s to its new position after mark.
// If s == mark, or s is already right after mark, the list is not modified.
func (l *List) MoveAfter(s, mark int32) {
	if s == mark || l.entries[mark].next == s {
		return
	}
	l.move(s, mark)
}
