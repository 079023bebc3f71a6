package util

import (
	"errors"
	"fmt"
)

// Error codes for the interaction error taxonomy.
const (
	CodeNotFound          = "NOT_FOUND"
	CodePermissionDenied  = "PERMISSION_DENIED"
	CodeProvisionError    = "PROVISION_ERROR"
	CodeInvalidChannelRef = "INVALID_CHANNEL_REFERENCE"
	CodeDeliveryFailure   = "DELIVERY_FAILURE"
	CodeUnroutable        = "UNROUTABLE_INTERACTION"
	CodeConflict          = "CONFLICT"
	CodePlatformError     = "PLATFORM_ERROR"
	CodeInternalError     = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, Details: details}
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Details: details,
	}
}

func NewPermissionDenied(message string) error {
	return NewDomainError(CodePermissionDenied, message, nil)
}

func NewProvisionError(message string, err error) error {
	return &DomainError{Code: CodeProvisionError, Message: message, Err: err}
}

func NewInvalidChannelRef(input string) error {
	return NewDomainError(CodeInvalidChannelRef, "could not resolve channel reference", map[string]any{"input": input})
}

func NewDeliveryFailure(message string, err error) error {
	return &DomainError{Code: CodeDeliveryFailure, Message: message, Err: err}
}

func NewUnroutable(tag string) error {
	return NewDomainError(CodeUnroutable, "unknown interaction control", map[string]any{"tag": tag})
}

func NewConflict(message string) error {
	return NewDomainError(CodeConflict, message, nil)
}

func NewPlatformError(message string, err error) error {
	return &DomainError{Code: CodePlatformError, Message: message, Err: err}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:    CodeInternalError,
		Message: "internal error",
		Err:     err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:    CodeInternalError,
		Message: "internal error",
		Err:     err,
	}
}

// IsCode reports whether err carries the given taxonomy code.
func IsCode(err error, code string) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}
