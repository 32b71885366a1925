package api

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema describes the expected shape of one endpoint's reply.
type Schema struct {
	Name       string
	Definition map[string]any
}

var recordSchema = map[string]any{
	"type":     "object",
	"required": []any{"conversation_id"},
	"properties": map[string]any{
		"conversation_id": map[string]any{"type": "string", "minLength": 1},
		"responses":       map[string]any{"type": "array"},
	},
}

// StartReplySchema is the contract of POST /start.
var StartReplySchema = &Schema{
	Name: "start-reply",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"student_data", "question_index", "attempt", "question"},
		"properties": map[string]any{
			"student_data":   recordSchema,
			"question_index": map[string]any{"type": "integer", "minimum": 0},
			"attempt":        map[string]any{"type": "integer", "minimum": 0},
			"question":       map[string]any{"type": "string"},
		},
	},
}

// ResumeReplySchema is the contract of POST /resume_session.
var ResumeReplySchema = &Schema{
	Name: "resume-reply",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"success"},
		"properties": map[string]any{
			"success":  map[string]any{"type": "boolean"},
			"question": map[string]any{"type": "string"},
		},
		"if": map[string]any{
			"properties": map[string]any{"success": map[string]any{"const": true}},
		},
		"then": map[string]any{
			"required":   []any{"student_data"},
			"properties": map[string]any{"student_data": recordSchema},
		},
	},
}

// AnswerReplySchema is the contract of POST /answer. Servers may omit "end"
// on continuation replies.
var AnswerReplySchema = &Schema{
	Name: "answer-reply",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"end": map[string]any{"type": "boolean"},
		},
		"if": map[string]any{
			"required":   []any{"end"},
			"properties": map[string]any{"end": map[string]any{"const": true}},
		},
		"then": map[string]any{
			"required":   []any{"message"},
			"properties": map[string]any{"message": map[string]any{"type": "string"}},
		},
		"else": map[string]any{
			"required": []any{"student_data", "question_index", "attempt", "question"},
			"properties": map[string]any{
				"student_data":   recordSchema,
				"question_index": map[string]any{"type": "integer", "minimum": 0},
				"attempt":        map[string]any{"type": "integer", "minimum": 0},
				"question":       map[string]any{"type": "string"},
			},
		},
	},
}

// SuccessReplySchema is the contract of acknowledging endpoints.
var SuccessReplySchema = &Schema{
	Name: "success-reply",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"success"},
		"properties": map[string]any{
			"success": map[string]any{"type": "boolean"},
		},
	},
}

// schemaCache caches compiled JSON schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// decodeReply validates raw against schema and unmarshals it into out.
// Returns *MalformedReplyError on failure.
func decodeReply(endpoint string, schema *Schema, raw []byte, out any) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &MalformedReplyError{
			Endpoint: endpoint,
			Content:  raw,
			Err:      fmt.Errorf("invalid JSON: %w", err),
		}
	}

	if schema != nil {
		compiled, err := getCompiledSchema(schema)
		if err != nil {
			return &MalformedReplyError{
				Endpoint: endpoint,
				Content:  raw,
				Err:      fmt.Errorf("compile schema %q: %w", schema.Name, err),
			}
		}
		if err := compiled.Validate(parsed); err != nil {
			return &MalformedReplyError{
				Endpoint: endpoint,
				Content:  raw,
				Err:      fmt.Errorf("schema validation failed: %w", err),
			}
		}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &MalformedReplyError{Endpoint: endpoint, Content: raw, Err: err}
	}
	return nil
}

// getCompiledSchema returns a cached compiled schema or compiles and caches it.
func getCompiledSchema(schema *Schema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(schema.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants a decoded JSON value, not Go maps with typed slices.
	defBytes, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", schema.Name)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}

	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(schema.Name, compiled)
	return compiled, nil
}
