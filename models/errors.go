// Package models defines data structures used across the application.
// File: models/errors.go
package models

import "errors"

// ----------------------- sentinel errors -----------------------

var (
	ErrMissingField      = errors.New("required field is empty")
	ErrPasswordMismatch  = errors.New("비밀번호가 일치하지 않습니다.")
	ErrInvalidUserType   = errors.New("invalid user type")
	ErrImageRequired     = errors.New("이미지를 업로드해주세요.")
	ErrInvalidFeedType   = errors.New("invalid feed type")
	ErrInvalidTag        = errors.New("invalid tag")
	ErrInvalidFeedID     = errors.New("ID가 필요합니다.")
	ErrFeedNotFound      = errors.New("feed not found")
	ErrProfileExists     = errors.New("profile already exists")
	ErrProfileNotFound   = errors.New("profile not found")
	ErrEmptyUpload       = errors.New("uploaded file is empty")
	ErrWizardFinished    = errors.New("wizard already on its final step")
	ErrWizardFirstStep   = errors.New("wizard already on its first step")
	ErrWizardNotFinished = errors.New("wizard is not on its final step")

	ErrEmailAlreadyRegistered = errors.New("User already registered")
	ErrInvalidCredentials     = errors.New("Invalid login credentials")
	ErrWeakPassword           = errors.New("Password should be at least 6 characters")
	ErrInvalidEmail           = errors.New("Unable to validate email address: invalid format")
)

// ----------------------- error taxonomy -----------------------

// ValidationError blocks a submission before any gateway call is made.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return e.Field + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Message is the text shown to the user.
func (e *ValidationError) Message() string {
	if errors.Is(e.Err, ErrMissingField) && e.Field != "" {
		return e.Field + " 항목을 입력해주세요."
	}
	return e.Err.Error()
}

// AuthError comes from the identity provider; its text is shown verbatim.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string { return e.Err.Error() }

func (e *AuthError) Unwrap() error { return e.Err }

// PersistenceError wraps a record store failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *PersistenceError) Unwrap() error { return e.Err }

// UploadError wraps an object store failure.
type UploadError struct {
	Path string
	Err  error
}

func (e *UploadError) Error() string { return "upload " + e.Path + ": " + e.Err.Error() }

func (e *UploadError) Unwrap() error { return e.Err }

// NewValidationError is shorthand for a field-scoped ValidationError.
func NewValidationError(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}
