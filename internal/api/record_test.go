package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudentRecord_Zero(t *testing.T) {
	var r StudentRecord
	assert.True(t, r.IsZero())
	assert.Equal(t, "", r.ConversationID())
	assert.Equal(t, 0, r.ResponseCount())

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))

	assert.True(t, NewStudentRecord([]byte(" null ")).IsZero())
}

func TestStudentRecord_RoundTripsUnknownFields(t *testing.T) {
	in := `{"reply":{"student_data":{"conversation_id":"c-7","responses":[{"q":1},{"q":2}],"extra":{"nested":true}}}}`

	var wrapper struct {
		Reply struct {
			StudentData StudentRecord `json:"student_data"`
		} `json:"reply"`
	}
	require.NoError(t, json.Unmarshal([]byte(in), &wrapper))

	rec := wrapper.Reply.StudentData
	assert.Equal(t, "c-7", rec.ConversationID())
	assert.Equal(t, 2, rec.ResponseCount())

	out, err := json.Marshal(AnswerRequest{StudentData: rec, Response: "r"})
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"student_data":{"conversation_id":"c-7","responses":[{"q":1},{"q":2}],"extra":{"nested":true}},"question_index":0,"attempt":0,"response":"r"}`,
		string(out))
}

func TestStudentRecord_BytesIsCopy(t *testing.T) {
	rec := NewStudentRecord([]byte(`{"conversation_id":"a"}`))
	b := rec.Bytes()
	b[2] = 'X'
	assert.Equal(t, "a", rec.ConversationID())
}
