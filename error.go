package reciparse

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	EINTERNAL = "internal"
	EINVALID  = "invalid"
	ENOTFOUND = "not_found"

	// Stage-specific codes reported by ErrorCode for typed errors.
	EFETCH    = "fetch"
	EENCODING = "encoding"
	EEXTRACT  = "extract"
)

// Error represents an application-specific error.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("reciparse error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	var fe *FetchError
	var ee *EncodingError
	var xe *ExtractionError
	var sv *SchemaViolation
	switch {
	case errors.As(err, &e):
		return e.Code
	case errors.As(err, &sv):
		return EINVALID
	case errors.As(err, &fe):
		return EFETCH
	case errors.As(err, &ee):
		return EENCODING
	case errors.As(err, &xe):
		return EEXTRACT
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error."
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	var sv *SchemaViolation
	var fe *FetchError
	var ee *EncodingError
	var xe *ExtractionError
	if errors.As(err, &sv) || errors.As(err, &fe) || errors.As(err, &ee) || errors.As(err, &xe) {
		return err.Error()
	}
	return "Internal error."
}

// Stage names the pipeline step an error originated from.
type Stage string

// Pipeline stages, in execution order.
const (
	StageClassify Stage = "classify"
	StageFetch    Stage = "fetch"
	StageEncode   Stage = "encode"
	StageExtract  Stage = "extract"
	StageValidate Stage = "validate"
)

// ErrorStage reports which stage produced err, or "" if it is not a stage error.
func ErrorStage(err error) Stage {
	var fe *FetchError
	var ee *EncodingError
	var xe *ExtractionError
	var sv *SchemaViolation
	var e *Error
	switch {
	case errors.As(err, &fe):
		return StageFetch
	case errors.As(err, &ee):
		return StageEncode
	case errors.As(err, &xe):
		return StageExtract
	case errors.As(err, &sv):
		return StageValidate
	case errors.As(err, &e) && e.Code == ENOTFOUND:
		return StageClassify
	}
	return ""
}

// FetchErrorKind distinguishes why a source could not be read.
type FetchErrorKind string

// FetchErrorKind values.
const (
	FetchNetwork    FetchErrorKind = "network"
	FetchTransport  FetchErrorKind = "transport"
	FetchFilesystem FetchErrorKind = "filesystem"
)

// FetchError is returned when a source cannot be retrieved.
// Status is set for FetchNetwork only.
type FetchError struct {
	Kind   FetchErrorKind
	Ref    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	switch {
	case e.Kind == FetchNetwork:
		return fmt.Sprintf("fetch %s: HTTP %d", e.Ref, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("fetch %s (%s): %v", e.Ref, e.Kind, e.Err)
	default:
		return fmt.Sprintf("fetch %s (%s)", e.Ref, e.Kind)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// EncodingError is returned when source bytes cannot be turned into a payload.
type EncodingError struct {
	Media MediaType
	Err   error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encode %s: %v", e.Media, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// ExtractionError is returned when the backend fails or does not answer
// with the expected tool call. Status is the backend HTTP status, if any.
type ExtractionError struct {
	Reason string
	Status int
	Err    error
}

func (e *ExtractionError) Error() string {
	msg := "extract: " + e.Reason
	if e.Status != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// SchemaViolation is returned when the backend's tool input breaks the
// recipe contract. Field is a path such as "ingredients[0].quantity".
type SchemaViolation struct {
	Field  string
	Reason string
}

func (e *SchemaViolation) Error() string {
	return fmt.Sprintf("schema violation: %s: %s", e.Field, e.Reason)
}
