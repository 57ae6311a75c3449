package application

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")

	ErrStudyNotFound    = errors.New("study not found")
	ErrAlreadyMember    = errors.New("already a member of this study")
	ErrNotMember        = errors.New("not a member of this study")
	ErrOwnerCannotLeave = errors.New("owner cannot leave the study")
)

// ValidationError reports rejected input, keyed by JSON field name.
type ValidationError struct {
	Message string
	Details map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	fields := make([]string, 0, len(e.Details))
	for f := range e.Details {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(fields, ", "))
}

func invalid(message string, details map[string]string) *ValidationError {
	if message == "" {
		message = "validation failed"
	}
	return &ValidationError{Message: message, Details: details}
}
