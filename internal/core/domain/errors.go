package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies failures that are handled locally and reported to the user.
type ErrorKind int

const (
	KindPermission ErrorKind = iota + 1
	KindValidation
	KindIntegrity
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindPermission:
		return "permission"
	case KindValidation:
		return "validation"
	case KindIntegrity:
		return "integrity"
	case KindNotFound:
		return "not_found"
	}
	return "unknown"
}

var (
	ErrPermissionDenied    = errors.New("permission denied")
	ErrValidation          = errors.New("validation failed")
	ErrIntegrity           = errors.New("integrity violation")
	ErrNotFound            = errors.New("not found")
	ErrProtectedRecordType = errors.New("protected record type")
)

var kindSentinels = map[ErrorKind]error{
	KindPermission: ErrPermissionDenied,
	KindValidation: ErrValidation,
	KindIntegrity:  ErrIntegrity,
	KindNotFound:   ErrNotFound,
}

// Failure is a soft error: the operation was refused, nothing was changed, and the message
// has already been reported to the message sink.
type Failure struct {
	Kind    ErrorKind
	Message string
	Details []string
}

// NewFailure builds a Failure with a formatted message.
func NewFailure(kind ErrorKind, format string, args ...any) *Failure {
	return &Failure{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (f *Failure) Error() string {
	return f.Message
}

// Is lets errors.Is match a Failure against the sentinel of its kind.
func (f *Failure) Is(target error) bool {
	return kindSentinels[f.Kind] == target
}

// ProtectedRecordTypeError is raised when an own_as_client user tries to add SOA or NS
// records. Unlike Failure it is not reported to the sink and must be handled by the caller.
type ProtectedRecordTypeError struct {
	Type RecordType
}

func (e *ProtectedRecordTypeError) Error() string {
	return fmt.Sprintf("you do not have the permission to add %s records", e.Type)
}

func (e *ProtectedRecordTypeError) Is(target error) bool {
	return target == ErrProtectedRecordType
}

// ValidationError carries every problem found in a candidate record.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "invalid record"
	}
	return e.Errors[0]
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// First returns the first problem found.
func (e *ValidationError) First() string {
	return e.Error()
}

// All joins every problem found.
func (e *ValidationError) All() string {
	return strings.Join(e.Errors, "; ")
}

// IsSoft reports whether err is a handled failure rather than a propagated one.
func IsSoft(err error) bool {
	var f *Failure
	var v *ValidationError
	return errors.As(err, &f) || errors.As(err, &v)
}
