package trello

import (
	"fmt"
	"strings"
)

// ConfigurationError means a credential or the list id is missing. It is
// not retryable without operator intervention.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return "trello credentials are not configured: missing " + strings.Join(e.Missing, ", ")
}

// SubmissionError means Trello answered with a non-2xx status. Body is the
// raw response text.
type SubmissionError struct {
	StatusCode int
	Body       string
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("failed to create trello card: status %d: %s", e.StatusCode, e.Body)
}
