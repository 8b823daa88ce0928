package kernel

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes kernel operation failures.
type ErrorCode string

const (
	// CodeValidation indicates input that the kernel must not accept, such
	// as a blank task title or an unknown enum value.
	CodeValidation ErrorCode = "VALIDATION"

	// CodeNotFound indicates a mutation referencing a nonexistent id. The
	// operation is a no-op-with-error, never a crash.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeStorage indicates an I/O layer failure. Surfaced to the caller,
	// never retried by the kernel.
	CodeStorage ErrorCode = "STORAGE"

	// CodeIntegrityMismatch indicates a recomputed content hash differed
	// from the stored one on an entity read from storage or import.
	CodeIntegrityMismatch ErrorCode = "INTEGRITY_MISMATCH"

	// CodeParse indicates a malformed import document. Import fails
	// atomically, leaving existing state untouched.
	CodeParse ErrorCode = "PARSE"
)

// Error is the kernel's operation failure type.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// EntityID identifies the affected entity, when there is one.
	EntityID string

	// Err is the underlying cause, when wrapping a lower layer.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.EntityID != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s (id=%s): %v", e.Code, e.Message, e.EntityID, e.Err)
	case e.EntityID != "":
		return fmt.Sprintf("%s: %s (id=%s)", e.Code, e.Message, e.EntityID)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error { return e.Err }

func validationErr(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

func notFoundErr(kind, id string) *Error {
	return &Error{Code: CodeNotFound, Message: kind + " not found", EntityID: id}
}

func storageErr(op string, err error) *Error {
	return &Error{Code: CodeStorage, Message: op, Err: err}
}

func parseErr(msg string, err error) *Error {
	return &Error{Code: CodeParse, Message: msg, Err: err}
}

func integrityErr(id string, err error) *Error {
	return &Error{Code: CodeIntegrityMismatch, Message: "entity failed integrity check", EntityID: id, Err: err}
}

// CodeOf extracts the ErrorCode from an error chain, or "" if the chain
// contains no kernel Error.
func CodeOf(err error) ErrorCode {
	var ke *Error
	if errors.As(err, &ke) {
		return ke.Code
	}
	return ""
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool { return CodeOf(err) == CodeValidation }

// IsNotFound reports whether err is a missing-entity failure.
func IsNotFound(err error) bool { return CodeOf(err) == CodeNotFound }

// IsStorage reports whether err is a storage layer failure.
func IsStorage(err error) bool { return CodeOf(err) == CodeStorage }

// IsIntegrityMismatch reports whether err is a content hash mismatch.
func IsIntegrityMismatch(err error) bool { return CodeOf(err) == CodeIntegrityMismatch }

// IsParse reports whether err is a malformed import document failure.
func IsParse(err error) bool { return CodeOf(err) == CodeParse }
