package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrAccessDenied signals that the caller may not see the requested scope.
	ErrAccessDenied = errors.New("access denied")
	// ErrCompilation signals a search query that cannot be compiled.
	ErrCompilation = errors.New("query compilation failed")
	// ErrInvalidIdentity signals a malformed caller identity.
	ErrInvalidIdentity = errors.New("invalid identity")
)

// CompilationError wraps ErrCompilation with the offending term detail.
type CompilationError struct {
	Detail string
}

func (e *CompilationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCompilation.Error(), e.Detail)
}

func (e *CompilationError) Unwrap() error { return ErrCompilation }

// NewCompilationError creates a compilation error with a formatted detail.
func NewCompilationError(format string, args ...any) error {
	return &CompilationError{Detail: fmt.Sprintf(format, args...)}
}
