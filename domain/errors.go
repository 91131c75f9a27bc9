package domain

import (
	"errors"
	"fmt"
)

// Error codes for the audit error taxonomy
const (
	// ErrCodeParse marks a file whose text is not syntactically valid Python.
	// File-scoped: the file is skipped, the batch continues.
	ErrCodeParse = "PARSE_ERROR"

	// ErrCodeTransport marks a completion-provider failure (network, auth,
	// rate limit). Unit-scoped but fatal: surfaced after retries, aborts the
	// run rather than silently skipping units.
	ErrCodeTransport = "TRANSPORT_ERROR"

	// ErrCodeMalformedResponse marks completion text that does not decode
	// into the critique schema. Recoverable: the unit is reported as
	// unresolved and the run continues.
	ErrCodeMalformedResponse = "MALFORMED_RESPONSE"

	// ErrCodeApplyFix marks an invalid replacement span during auto-fix.
	// Recoverable: the fix is skipped, the finding still reported.
	ErrCodeApplyFix = "APPLY_FIX_ERROR"

	// ErrCodeConfig marks invalid or unreadable configuration
	ErrCodeConfig = "CONFIG_ERROR"

	// ErrCodeFileSystem marks file collection or I/O failures
	ErrCodeFileSystem = "FILESYSTEM_ERROR"
)

// DomainError is the common error type across the audit pipeline
type DomainError struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface
func (e DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e DomainError) Unwrap() error {
	return e.Cause
}

// NewDomainError creates a DomainError with an arbitrary code
func NewDomainError(code, message string, cause error) error {
	return DomainError{Code: code, Message: message, Cause: cause}
}

// NewParseError creates a file-scoped parse error
func NewParseError(message string, cause error) error {
	return DomainError{Code: ErrCodeParse, Message: message, Cause: cause}
}

// NewTransportError creates a completion-provider transport error
func NewTransportError(message string, cause error) error {
	return DomainError{Code: ErrCodeTransport, Message: message, Cause: cause}
}

// NewMalformedResponseError creates a recoverable response-decoding error
func NewMalformedResponseError(message string, cause error) error {
	return DomainError{Code: ErrCodeMalformedResponse, Message: message, Cause: cause}
}

// NewApplyFixError creates a recoverable auto-fix error
func NewApplyFixError(message string, cause error) error {
	return DomainError{Code: ErrCodeApplyFix, Message: message, Cause: cause}
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) error {
	return DomainError{Code: ErrCodeConfig, Message: message, Cause: cause}
}

// NewFileSystemError creates a file collection or I/O error
func NewFileSystemError(message string, cause error) error {
	return DomainError{Code: ErrCodeFileSystem, Message: message, Cause: cause}
}

func hasCode(err error, code string) bool {
	var de DomainError
	return errors.As(err, &de) && de.Code == code
}

// IsParseError reports whether err is a PARSE_ERROR
func IsParseError(err error) bool {
	return hasCode(err, ErrCodeParse)
}

// IsTransportError reports whether err is a TRANSPORT_ERROR
func IsTransportError(err error) bool {
	return hasCode(err, ErrCodeTransport)
}

// IsMalformedResponseError reports whether err is a MALFORMED_RESPONSE
func IsMalformedResponseError(err error) bool {
	return hasCode(err, ErrCodeMalformedResponse)
}

// IsApplyFixError reports whether err is an APPLY_FIX_ERROR
func IsApplyFixError(err error) bool {
	return hasCode(err, ErrCodeApplyFix)
}
