// Package models defines data structures shared between the easelgate agent,
// the CLI, and the host editor's HTTP boundary. It contains the editor's
// request/response contract, the agent's own API envelopes, and error types.
package models

import (
	"encoding/json"
	"errors"

	"github.com/sierrasoftworks/humane-errors-go"
)

// ErrorResponse is the serializable form of a humane.Error used by the
// agent's own status API. The cause chain is preserved as nested responses.
// @Description Structured error response with contextual advice
type ErrorResponse struct {
	// Primary error message
	Message string `json:"message"`

	// Suggestions that may help resolve the error
	Advice []string `json:"advice,omitempty"`

	// Nested error that caused this one
	Cause *ErrorResponse `json:"cause,omitempty" swaggerignore:"true"`

	// HTTP status code, never serialized
	StatusCode int `json:"-"`
}

// NewErrorResponse wraps message around an optional cause. A nil cause yields
// a single-level response.
func NewErrorResponse(message string, cause error) *ErrorResponse {
	if cause == nil {
		return FromHumaneError(humane.New(message))
	}

	if herr, ok := cause.(humane.Error); ok {
		return FromHumaneError(humane.Wrap(herr, message))
	}

	return FromHumaneError(humane.Wrap(humane.New(cause.Error()), message))
}

// FromHumaneError converts a humane.Error into an ErrorResponse, following
// the cause chain recursively.
func FromHumaneError(err humane.Error) *ErrorResponse {
	if err == nil {
		return nil
	}

	resp := &ErrorResponse{
		Message: err.Error(),
		Advice:  err.Advice(),
	}

	if cause := err.Cause(); cause != nil {
		var herr humane.Error
		if errors.As(cause, &herr) {
			resp.Cause = FromHumaneError(herr)
		} else {
			resp.Cause = &ErrorResponse{Message: cause.Error()}
		}
	}

	return resp
}

// AsHumaneError converts the response back into a humane.Error, rebuilding
// the wrap chain from the innermost cause outward.
func (e *ErrorResponse) AsHumaneError() humane.Error {
	if e == nil {
		return nil
	}

	if e.Cause != nil {
		return humane.Wrap(e.Cause.AsHumaneError(), e.Message, e.Advice...)
	}

	return humane.New(e.Message, e.Advice...)
}

// MarshalJSON implements json.Marshaler. The alias avoids recursing into
// this method during marshaling.
func (e *ErrorResponse) MarshalJSON() ([]byte, error) {
	type alias ErrorResponse
	return json.Marshal((*alias)(e))
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *ErrorResponse) UnmarshalJSON(data []byte) error {
	type alias ErrorResponse
	return json.Unmarshal(data, (*alias)(e))
}
