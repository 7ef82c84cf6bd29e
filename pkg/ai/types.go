// Package ai provides the model-invocation boundary for automated grading:
// prompt assembly, the hosted-model clients, and parsing of the structured
// grade payload out of the model's free-text reply.
package ai

import (
	"context"
	"errors"
)

// Invoker sends one prompt to a hosted text-generation model and returns the
// raw textual reply. Implementations make exactly one outbound call per
// invocation and keep no state between calls; retry policy belongs to callers.
type Invoker interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

var (
	// ErrAuth indicates a credential or permission failure at the model endpoint.
	ErrAuth = errors.New("model endpoint rejected credentials")
	// ErrThrottled indicates the model endpoint is rate limiting requests.
	ErrThrottled = errors.New("model endpoint throttled the request")
	// ErrUnavailable indicates a network or service failure, including timeouts.
	ErrUnavailable = errors.New("model endpoint unavailable")
	// ErrMalformed indicates the endpoint reply was missing expected fields.
	ErrMalformed = errors.New("model endpoint returned a malformed response")
)

// Grades enumerates the letter grades the evaluator may assign.
var Grades = []string{"A", "B", "C", "D", "F"}

// ValidGrade reports whether value is one of the allowed letter grades.
func ValidGrade(value string) bool {
	for _, grade := range Grades {
		if value == grade {
			return true
		}
	}
	return false
}

// Evaluation is the structured result extracted from a model reply.
type Evaluation struct {
	Grade    string `json:"grade"`
	Comments string `json:"comments"`
}
