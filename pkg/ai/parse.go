package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoPayload indicates no JSON object could be located in the reply.
	ErrNoPayload = errors.New("no structured payload found in model reply")
	// ErrInvalidSyntax indicates the located payload is not valid JSON.
	ErrInvalidSyntax = errors.New("structured payload is not valid json")
	// ErrMissingField indicates the payload lacks a required field.
	ErrMissingField = errors.New("structured payload missing required field")
	// ErrInvalidGrade indicates the payload grade is outside the allowed set.
	ErrInvalidGrade = errors.New("structured payload contains invalid grade")
)

type evaluationPayload struct {
	Grade    *string `json:"grade"`
	Comments *string `json:"comments"`
}

// ParseEvaluation locates the JSON object embedded in a model reply and
// validates it. Models are instructed to answer with bare JSON but routinely
// wrap it in prose or code fences, so the candidate span runs from the first
// "{" to the last "}". When that span is not itself valid JSON (free-text
// commentary containing braces), the first complete JSON value after the
// opening brace is decoded instead.
func ParseEvaluation(raw string) (Evaluation, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < 0 || start >= end {
		return Evaluation{}, ErrNoPayload
	}

	var payload evaluationPayload
	if err := json.Unmarshal([]byte(raw[start:end+1]), &payload); err != nil {
		payload = evaluationPayload{}
		decoder := json.NewDecoder(strings.NewReader(raw[start:]))
		if decodeErr := decoder.Decode(&payload); decodeErr != nil {
			return Evaluation{}, fmt.Errorf("%w: %v", ErrInvalidSyntax, err)
		}
	}

	if payload.Grade == nil {
		return Evaluation{}, fmt.Errorf("%w: grade", ErrMissingField)
	}

	if payload.Comments == nil {
		return Evaluation{}, fmt.Errorf("%w: comments", ErrMissingField)
	}

	if !ValidGrade(*payload.Grade) {
		return Evaluation{}, fmt.Errorf("%w: %q", ErrInvalidGrade, *payload.Grade)
	}

	// Comments pass through unmodified; display truncation belongs to callers.
	return Evaluation{Grade: *payload.Grade, Comments: *payload.Comments}, nil
}
