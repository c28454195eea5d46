package client

import (
	"encoding/json"
	"fmt"
)

// FieldDetail is a single field-level problem from a validation error.
type FieldDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorBody is the JSON error shape the backend responds with.
type ErrorBody struct {
	Error   string        `json:"error"`
	Details []FieldDetail `json:"details,omitempty"`
}

// ValidationError carries the full structured error body so callers can
// render per-field messages next to form inputs.
type ValidationError struct {
	Body ErrorBody
}

func (e *ValidationError) Error() string {
	if len(e.Body.Details) > 0 && e.Body.Details[0].Message != "" {
		return e.Body.Details[0].Message
	}
	return "Validation error"
}

// APIError is any non-validation error response, reduced to a single
// human-readable message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

const validationErrorMarker = "validation_error"

// responseError classifies a non-2xx response into a *ValidationError
// or an *APIError. The generic message precedence: plain-text body
// verbatim, then the first validation-style detail message, then the
// top-level error string, then a synthetic message with the status code.
func responseError(statusCode int, isJSON bool, body []byte) error {
	if isJSON {
		var errBody ErrorBody
		if err := json.Unmarshal(body, &errBody); err == nil {
			if errBody.Error == validationErrorMarker && len(errBody.Details) > 0 {
				return &ValidationError{Body: errBody}
			}
			if len(errBody.Details) > 0 && errBody.Details[0].Message != "" {
				return &APIError{StatusCode: statusCode, Message: errBody.Details[0].Message}
			}
			if errBody.Error != "" {
				return &APIError{StatusCode: statusCode, Message: errBody.Error}
			}
		}
	} else if len(body) > 0 {
		return &APIError{StatusCode: statusCode, Message: string(body)}
	}

	return &APIError{
		StatusCode: statusCode,
		Message:    fmt.Sprintf("request failed with status %d", statusCode),
	}
}
