package model

import "fmt"

// UsageError marks a failure caused by how the tool was invoked: bad
// arguments, missing build artifacts, uncompilable sources.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return e.Msg }

func Usagef(format string, args ...any) error {
	return &UsageError{Msg: fmt.Sprintf(format, args...)}
}
