package models

import "fmt"

// MissingParamError indicates a required request parameter was absent.
// It is user-correctable and surfaced directly.
type MissingParamError struct {
	Param string
}

func (e *MissingParamError) Error() string {
	return fmt.Sprintf("missing required parameter: %s", e.Param)
}

// UserNotFoundError indicates the upstream rejected the requested subject.
type UserNotFoundError struct {
	Subject string
}

func (e *UserNotFoundError) Error() string {
	return fmt.Sprintf("user not found: %s", e.Subject)
}

// FetchError is a non-fatal failure captured inside diagnostic results.
// It is carried as a value in result fields and never returned as an error
// from the diagnostic paths.
type FetchError struct {
	Status  int
	Message string
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch failed (status %d): %s", e.Status, e.Message)
	}
	return e.Message
}

// NoAPIKeyError returns the FetchError used when an authenticated-only
// endpoint is reached without a configured key.
func NoAPIKeyError() *FetchError {
	return &FetchError{Message: "api key not configured"}
}
