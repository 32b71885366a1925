package session

// Role classifies a logged message.
type Role string

const (
	RoleIntro    Role = "intro"
	RoleQuestion Role = "question"
	RoleResponse Role = "response"
	RoleError    Role = "error"
)

// Entry is one displayed message. Entries are values; once appended they
// never change.
type Entry struct {
	Text           string
	Role           Role
	IsMainQuestion bool
	IsFinalMessage bool

	// QuestionIndex is the progression index when the entry was posted.
	QuestionIndex int
}

// IsFollowup reports whether the entry is a follow-up question.
func (e Entry) IsFollowup() bool {
	return e.Role == RoleQuestion && !e.IsMainQuestion && !e.IsFinalMessage
}

// Log is the append-only, ordered record of every displayed message.
// Insertion order is display order.
type Log struct {
	entries []Entry
}

// Append adds e to the end of the log and returns its position.
func (l *Log) Append(e Entry) int {
	l.entries = append(l.entries, e)
	return len(l.entries) - 1
}

// Len returns the number of entries.
func (l *Log) Len() int {
	return len(l.entries)
}

// At returns the entry at position i.
func (l *Log) At(i int) Entry {
	return l.entries[i]
}

// Entries returns a copy of all entries in display order.
func (l *Log) Entries() []Entry {
	return append([]Entry(nil), l.entries...)
}

// FollowupsBefore counts the follow-up questions logged before position i
// for the same question index as the entry at i.
func (l *Log) FollowupsBefore(i int) int {
	idx := l.entries[i].QuestionIndex
	n := 0
	for _, e := range l.entries[:i] {
		if e.IsFollowup() && e.QuestionIndex == idx {
			n++
		}
	}
	return n
}
