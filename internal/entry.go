package internal

// Nil marks the absence of a slot in list links and lookups.
const Nil int32 = -1

// Entry is one resident key. Entries live in an arena addressed by the
// cache slot they occupy, so links are slot numbers rather than pointers.
type Entry struct {
	key  int64
	freq uint64
	prev int32
	next int32
}

func (e *Entry) reset() {
	*e = Entry{prev: Nil, next: Nil}
}
