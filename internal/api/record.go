package api

import (
	"bytes"
	"encoding/json"

	"github.com/tidwall/gjson"
)

// StudentRecord is the server-issued conversation record. The client treats
// it as opaque: it is stored verbatim, replaced wholesale on every reply, and
// echoed back to the server. Only the conversation id and the number of
// recorded responses are ever read.
type StudentRecord struct {
	raw json.RawMessage
}

// NewStudentRecord wraps raw JSON as a record.
func NewStudentRecord(raw []byte) StudentRecord {
	return StudentRecord{raw: append(json.RawMessage(nil), raw...)}
}

// IsZero reports whether no record has been received.
func (r StudentRecord) IsZero() bool {
	trimmed := bytes.TrimSpace(r.raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// ConversationID returns the record's conversation_id, or "".
func (r StudentRecord) ConversationID() string {
	if r.IsZero() {
		return ""
	}
	return gjson.GetBytes(r.raw, "conversation_id").String()
}

// ResponseCount returns the number of entries in the record's responses.
func (r StudentRecord) ResponseCount() int {
	if r.IsZero() {
		return 0
	}
	return int(gjson.GetBytes(r.raw, "responses.#").Int())
}

// Bytes returns a copy of the raw JSON.
func (r StudentRecord) Bytes() []byte {
	return append([]byte(nil), r.raw...)
}

func (r StudentRecord) MarshalJSON() ([]byte, error) {
	if r.IsZero() {
		return []byte("null"), nil
	}
	return r.raw, nil
}

func (r *StudentRecord) UnmarshalJSON(data []byte) error {
	r.raw = append(r.raw[:0:0], data...)
	return nil
}
