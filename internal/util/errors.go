package util

import (
	"errors"
	"strings"
)

// Error kinds. Every error returned by the services wraps exactly one of these.
var (
	ErrNotFound         = errors.New("resource not found")
	ErrForbidden        = errors.New("permission denied")
	ErrNotAvailable     = errors.New("not available")
	ErrLateSubmission   = errors.New("late submission")
	ErrAlreadySubmitted = errors.New("already submitted")
	ErrNotYetOverdue    = errors.New("not yet overdue")
	ErrAttemptFinished  = errors.New("attempt already finished")
	ErrValidation       = errors.New("validation failed")
	ErrStorageFailure   = errors.New("storage failure")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// NewKindError returns an error with its own message that still matches kind under errors.Is.
func NewKindError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

var (
	ErrUserNotFound         = NewKindError(ErrNotFound, "user not found")
	ErrTeacherNotFound      = NewKindError(ErrNotFound, "teacher not found")
	ErrStudentNotFound      = NewKindError(ErrNotFound, "student not found")
	ErrQuizNotFound         = NewKindError(ErrNotFound, "quiz not found")
	ErrQuestionNotFound     = NewKindError(ErrNotFound, "question not found")
	ErrAttemptNotFound      = NewKindError(ErrNotFound, "attempt not found")
	ErrAssignmentNotFound   = NewKindError(ErrNotFound, "assignment not found")
	ErrSubmissionNotFound   = NewKindError(ErrNotFound, "submission not found")
	ErrFileNotFound         = NewKindError(ErrNotFound, "file not found")
	ErrNotificationNotFound = NewKindError(ErrNotFound, "notification not found")

	ErrNotOwner          = NewKindError(ErrForbidden, "caller does not own this resource")
	ErrSubjectMismatch   = NewKindError(ErrForbidden, "subject is not assigned to this teacher")
	ErrQuizNotPublished  = NewKindError(ErrNotAvailable, "quiz is not published")
	ErrQuizOutsideWindow = NewKindError(ErrNotAvailable, "quiz is not open at this time")
)

// FieldError describes one invalid input field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

type ValidationError struct {
	Msg    string
	Fields []FieldError
}

func NewValidationError(msg string, flds ...FieldError) error {
	return &ValidationError{Msg: msg, Fields: flds}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Msg
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Error)
	}
	return e.Msg + " (" + strings.Join(parts, "; ") + ")"
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// StorageError marks an unexpected persistence failure. The cause is kept for logging only.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *StorageError) Is(target error) bool { return target == ErrStorageFailure }

func (e *StorageError) Unwrap() error { return e.Err }

// Storage wraps err as a StorageError unless it already carries a domain kind.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	if Kind(err) != ErrStorageFailure {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

var kinds = []error{
	ErrNotFound,
	ErrForbidden,
	ErrNotAvailable,
	ErrLateSubmission,
	ErrAlreadySubmitted,
	ErrNotYetOverdue,
	ErrAttemptFinished,
	ErrValidation,
}

// Kind reports the error kind of err; unknown errors are storage failures.
func Kind(err error) error {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return ErrStorageFailure
}

// KindName is the stable machine-readable name sent to clients.
func KindName(kind error) string {
	switch kind {
	case ErrNotFound:
		return "not_found"
	case ErrForbidden:
		return "forbidden"
	case ErrNotAvailable:
		return "not_available"
	case ErrLateSubmission:
		return "late_submission"
	case ErrAlreadySubmitted:
		return "already_submitted"
	case ErrNotYetOverdue:
		return "not_yet_overdue"
	case ErrAttemptFinished:
		return "attempt_finished"
	case ErrValidation:
		return "validation_error"
	default:
		return "storage_failure"
	}
}
