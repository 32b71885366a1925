package session

// Progression is where the conversation stands. Only server replies and the
// local end-of-conversation event change it.
type Progression struct {
	// QuestionIndex is the 0-based index of the current main question.
	QuestionIndex int

	// Attempt is 0 for a main question and counts follow-ups after that.
	Attempt int

	// Ended is set once the server closes the conversation. It never resets.
	Ended bool
}

// IsMainQuestion reports whether the current question is a main question.
func (p Progression) IsMainQuestion() bool {
	return p.Attempt == 0
}

// Number is the 1-based question number shown to the user.
func (p Progression) Number() int {
	return p.QuestionIndex + 1
}
