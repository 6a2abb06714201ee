// Package services provides the business logic layer between the transport
// surfaces (HTTP handlers, CLI) and the analysis engine.
package services

import (
	"errors"
	"fmt"
)

// ErrEmptySeries marks a report built from zero usable samples. It is a
// defined outcome carried in the report diagnostics, never a silent success.
var ErrEmptySeries = errors.New("no usable samples in the selected range")

// Error codes carried by ServiceError
const (
	CodeInvalidInput = "INVALID_INPUT"
	CodeInvalidRange = "INVALID_RANGE"
)

// ServiceError is a caller-correctable failure with a stable code
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewServiceError creates a new ServiceError
func NewServiceError(code, message string) *ServiceError {
	return &ServiceError{Code: code, Message: message}
}

// NewServiceErrorWithDetails creates a new ServiceError with details
func NewServiceErrorWithDetails(code, message string, details map[string]interface{}) *ServiceError {
	return &ServiceError{Code: code, Message: message, Details: details}
}

// AsServiceError unwraps err to a *ServiceError
func AsServiceError(err error) (*ServiceError, bool) {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr, true
	}
	return nil, false
}
