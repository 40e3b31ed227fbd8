// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package delegate

import "fmt"

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrorKind categorizes delegate failures.
type ErrorKind int

const (
	// KindProcessFailure: the translator could not be started or exited non-zero.
	KindProcessFailure ErrorKind = iota
	// KindMalformedResponse: the reply was not a valid response object.
	KindMalformedResponse
	// KindServiceError: the reply carried an error message.
	KindServiceError
	// KindEmptyCommand: the reply carried neither a command nor an error.
	KindEmptyCommand
)

// String returns the human-readable name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindProcessFailure:
		return "ProcessFailure"
	case KindMalformedResponse:
		return "MalformedResponse"
	case KindServiceError:
		return "ServiceError"
	case KindEmptyCommand:
		return "EmptyCommand"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is returned by every backend.
type Error struct {
	Kind ErrorKind
	// Detail is stderr, the parse error or the service message.
	Detail string
	// Raw is the unparsed reply for MalformedResponse.
	Raw   string
	Cause error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindProcessFailure:
		return "AI script error: " + e.Detail
	case KindMalformedResponse:
		return "Failed to parse AI response: " + e.Detail
	case KindServiceError:
		return "AI processing error: " + e.Detail
	case KindEmptyCommand:
		return "No valid command returned by AI"
	default:
		return "delegate error: " + e.Detail
	}
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches delegate errors by kind so the sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinel errors for errors.Is checks.
var (
	ErrProcessFailure    = &Error{Kind: KindProcessFailure}
	ErrMalformedResponse = &Error{Kind: KindMalformedResponse}
	ErrServiceError      = &Error{Kind: KindServiceError}
	ErrEmptyCommand      = &Error{Kind: KindEmptyCommand}
)
