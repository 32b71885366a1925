package session

import "github.com/abhisek/reflectapp/internal/i18n"

// LabelFor returns the localized label for the entry at position i, or ""
// when the entry carries none (responses, errors, the final message).
func LabelFor(l *Log, i int, s i18n.Strings) string {
	e := l.At(i)
	switch e.Role {
	case RoleIntro:
		return s.GuidelinesLabel
	case RoleQuestion:
		switch {
		case e.IsFinalMessage:
			return ""
		case e.IsMainQuestion:
			return s.QuestionLabel(e.QuestionIndex + 1)
		default:
			return s.FollowupLabel(e.QuestionIndex+1, l.FollowupsBefore(i) == 0)
		}
	}
	return ""
}
