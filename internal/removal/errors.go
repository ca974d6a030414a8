package removal

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode categorizes removal failures.
type ErrorCode string

const (
	// CodeNoIdentityProvided indicates neither an id nor a title+version was given.
	CodeNoIdentityProvided ErrorCode = "NO_IDENTITY_PROVIDED"

	// CodeInvalidVersionFormat indicates the version is not major.minor.patch.
	CodeInvalidVersionFormat ErrorCode = "INVALID_VERSION_FORMAT"

	// CodeLibraryNotFound indicates no library matched the identity.
	CodeLibraryNotFound ErrorCode = "LIBRARY_NOT_FOUND"

	// CodeAmbiguousLibrary indicates more than one library matched the identity.
	CodeAmbiguousLibrary ErrorCode = "AMBIGUOUS_LIBRARY"

	// CodeDependencyConflict indicates other libraries depend on the target.
	CodeDependencyConflict ErrorCode = "DEPENDENCY_CONFLICT"

	// CodeActivityDeletionFailed indicates an activity could not be deleted.
	CodeActivityDeletionFailed ErrorCode = "ACTIVITY_DELETION_FAILED"
)

// Error is a removal failure with enough context to render an actionable
// message. errors.Is matches any two *Error values with the same Code, so
// callers can test against the Err* sentinels below.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Dependents holds dependent library labels (DEPENDENCY_CONFLICT).
	Dependents []string

	// Deleted is the number of activities removed before the failure
	// (ACTIVITY_DELETION_FAILED).
	Deleted int

	// ActivityID is the activity whose deletion failed (ACTIVITY_DELETION_FAILED).
	ActivityID int64

	// Err is the underlying collaborator error, if any.
	Err error
}

// Sentinels for errors.Is. Only Code is compared.
var (
	ErrNoIdentityProvided     = &Error{Code: CodeNoIdentityProvided}
	ErrInvalidVersionFormat   = &Error{Code: CodeInvalidVersionFormat}
	ErrLibraryNotFound        = &Error{Code: CodeLibraryNotFound}
	ErrAmbiguousLibrary       = &Error{Code: CodeAmbiguousLibrary}
	ErrDependencyConflict     = &Error{Code: CodeDependencyConflict}
	ErrActivityDeletionFailed = &Error{Code: CodeActivityDeletionFailed}
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying collaborator error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// CodeOf returns the ErrorCode of err, or "" if err is not a removal error.
// Uses errors.As to handle wrapped errors.
func CodeOf(err error) ErrorCode {
	var re *Error
	if errors.As(err, &re) {
		return re.Code
	}
	return ""
}

// IsResolutionError returns true for the failures raised while resolving an
// identity. They are always fatal and never retried.
func IsResolutionError(err error) bool {
	switch CodeOf(err) {
	case CodeNoIdentityProvided, CodeInvalidVersionFormat, CodeLibraryNotFound, CodeAmbiguousLibrary:
		return true
	}
	return false
}

func newNoIdentityError() *Error {
	return &Error{
		Code:    CodeNoIdentityProvided,
		Message: "No library id, or title and version, were provided.",
	}
}

func newInvalidVersionError(version string, err error) *Error {
	return &Error{
		Code:    CodeInvalidVersionFormat,
		Message: fmt.Sprintf("Version format is not valid. Must be 'major.minor.patches'. E.g. '2.4.1' (got %q)", version),
		Err:     err,
	}
}

func newNotFoundError() *Error {
	return &Error{
		Code:    CodeLibraryNotFound,
		Message: "No existing libraries were found matching id or title provided.",
	}
}

func newAmbiguousError(matches int) *Error {
	return &Error{
		Code:    CodeAmbiguousLibrary,
		Message: fmt.Sprintf("Multiple libraries were found using provided filters (%d matches). Try using an id.", matches),
	}
}

// NewDependencyConflictError creates the error raised when dependents exist
// and the caller did not force the removal.
func NewDependencyConflictError(dependents []string) *Error {
	return &Error{
		Code:       CodeDependencyConflict,
		Message:    "The library can't be deleted as it is a dependency for other libraries: " + strings.Join(dependents, ","),
		Dependents: dependents,
	}
}

// NewActivityDeletionError creates the error raised when deleting an
// activity fails after deleted activities were already removed.
func NewActivityDeletionError(deleted int, activityID int64, err error) *Error {
	return &Error{
		Code:       CodeActivityDeletionFailed,
		Message:    fmt.Sprintf("Some activities couldn't be deleted: activity %d failed after %d deleted", activityID, deleted),
		Deleted:    deleted,
		ActivityID: activityID,
		Err:        err,
	}
}
