// Package response provides the unified JSON envelope used by every handler,
// plus human-readable rendering of validation failures.
package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"
)

// Response is the standard JSON envelope. Status is "OK" or "Error"; Error
// carries the message on failure, Data the payload on success.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

const (
	StatusOK    = "OK"
	StatusError = "Error"
)

// OK returns a bare success response.
func OK() Response {
	return Response{Status: StatusOK}
}

// OKWithData returns a success response carrying data.
func OKWithData(data any) Response {
	return Response{Status: StatusOK, Data: data}
}

// Error returns an error response with the given message.
func Error(msg string) Response {
	return Response{Status: StatusError, Error: msg}
}

// ValidationError flattens validator violations into one readable message.
func ValidationError(errs validator.ValidationErrors) Response {
	var msgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "len":
			msgs = append(msgs, fmt.Sprintf("field %s has the wrong length", err.Field()))
		case "numeric":
			msgs = append(msgs, fmt.Sprintf("field %s can contain only numbers", err.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}
	return Response{
		Status: StatusError,
		Error:  strings.Join(msgs, ", "),
	}
}
