// Package errs defines the error taxonomy shared by services and HTTP handlers.
//
// Every error returned by a service is an *Error carrying a Kind (used for HTTP mapping)
// and a Code (stable machine-readable reason). Two *Error values match under errors.Is
// when their codes are equal, so callers compare against the exported sentinels:
//
//	if errors.Is(err, errs.ErrQuotaExceeded) { ... }
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error for propagation and HTTP mapping.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindQuota
	KindConsistency
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindQuota:
		return "quota"
	case KindConsistency:
		return "consistency"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// Error is the structured error returned by the service layer.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithMessage returns a copy of e with a more specific message; the code is kept so the
// copy still matches its sentinel.
func (e *Error) WithMessage(format string, args ...any) *Error {
	cp := *e
	cp.Message = fmt.Sprintf(format, args...)
	return &cp
}

// Wrap returns a copy of e with cause attached.
func (e *Error) Wrap(cause error) *Error {
	cp := *e
	cp.Err = cause
	return &cp
}

var (
	ErrInvalidName     = &Error{Kind: KindValidation, Code: "invalid_name", Message: "invalid name"}
	ErrInvalidContent  = &Error{Kind: KindValidation, Code: "invalid_content", Message: "invalid file content"}
	ErrInvalidMessage  = &Error{Kind: KindValidation, Code: "invalid_message", Message: "invalid commit message"}
	ErrInvalidRequest  = &Error{Kind: KindValidation, Code: "invalid_request", Message: "invalid request"}
	ErrDuplicatePath   = &Error{Kind: KindValidation, Code: "duplicate_path", Message: "file already exists"}
	ErrEssentialFile   = &Error{Kind: KindValidation, Code: "essential_file", Message: "cannot delete essential project files"}
	ErrEmptyProject    = &Error{Kind: KindValidation, Code: "empty_project", Message: "no files to commit"}
	ErrNoFilesToDeploy = &Error{Kind: KindValidation, Code: "no_files_to_deploy", Message: "no files to deploy"}
	ErrQuotaExceeded   = &Error{Kind: KindQuota, Code: "quota_exceeded", Message: "maximum of 3 projects allowed per user"}
	ErrUnauthorized    = &Error{Kind: KindUnauthorized, Code: "unauthorized", Message: "user not authenticated"}
	ErrForbidden       = &Error{Kind: KindForbidden, Code: "forbidden", Message: "access denied"}
	ErrNotFound        = &Error{Kind: KindNotFound, Code: "not_found", Message: "not found"}
	ErrNoIndex         = &Error{Kind: KindNotFound, Code: "no_index", Message: "no index.html found"}
	ErrConsistency     = &Error{Kind: KindConsistency, Code: "consistency", Message: "consistency violation"}
	ErrStorage         = &Error{Kind: KindStorage, Code: "storage", Message: "storage failure"}
)

// NotFound returns ErrNotFound naming the missing entity, e.g. NotFound("project").
func NotFound(entity string) *Error {
	return ErrNotFound.WithMessage("%s not found", entity)
}

// Storage wraps an underlying store failure for operation op.
func Storage(op string, err error) *Error {
	return ErrStorage.WithMessage("%s failed", op).Wrap(err)
}

// Consistency wraps a failure that left, or could have left, the store inconsistent.
func Consistency(op string, err error) *Error {
	return ErrConsistency.WithMessage("%s: consistency violation", op).Wrap(err)
}

// KindOf returns the Kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// CodeOf returns the Code of the first *Error in err's chain, or "".
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
