package api

// SetLanguageRequest is the body of POST /set_language.
type SetLanguageRequest struct {
	Language string `json:"language"`
}

// SuccessReply is the reply of endpoints that only acknowledge.
type SuccessReply struct {
	Success bool `json:"success"`
}

// ResumeRequest is the body of POST /resume_session.
type ResumeRequest struct {
	Email string `json:"email"`
}

// ResumeReply is the reply of POST /resume_session. Question is optional;
// servers that know the pending question may include it.
type ResumeReply struct {
	Success     bool          `json:"success"`
	StudentData StudentRecord `json:"student_data"`
	Question    string        `json:"question,omitempty"`
}

// StartRequest is the body of POST /start.
type StartRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// StartReply is the reply of POST /start.
type StartReply struct {
	StudentData   StudentRecord `json:"student_data"`
	QuestionIndex int           `json:"question_index"`
	Attempt       int           `json:"attempt"`
	Question      string        `json:"question"`
}

// AnswerRequest is the body of POST /answer.
type AnswerRequest struct {
	StudentData   StudentRecord `json:"student_data"`
	QuestionIndex int           `json:"question_index"`
	Attempt       int           `json:"attempt"`
	Response      string        `json:"response"`
}

// AnswerReply is the server's decision for one answer. When End is set only
// Message is meaningful; otherwise the remaining fields carry the next
// progression step.
type AnswerReply struct {
	End           bool          `json:"end"`
	Message       string        `json:"message,omitempty"`
	StudentData   StudentRecord `json:"student_data"`
	QuestionIndex int           `json:"question_index"`
	Attempt       int           `json:"attempt"`
	Question      string        `json:"question,omitempty"`
}

// EndSessionRequest is the body of POST /end_session.
type EndSessionRequest struct {
	ConversationID string `json:"conversation_id"`
	IsTemporary    bool   `json:"is_temporary"`
}
