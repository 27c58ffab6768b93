package cli

import (
	"errors"
	"fmt"
	"strings"
)

// ErrRegistryFrozen is returned when a command is registered after the registry has been frozen.
var ErrRegistryFrozen = errors.New("registry is frozen")

// NewError creates a new error with the given error code and error.
func NewError(code ErrorCode, err error) error {
	return &Error{code: code, err: err}
}

// ErrorCode represents an error code for a specific error type.
type ErrorCode int

const (
	ErrShowHelp ErrorCode = iota + 1
)

func (c ErrorCode) String() string {
	return convertErrorCode(c)
}

func convertErrorCode(code ErrorCode) string {
	switch code {
	case ErrShowHelp:
		return "show help"
	default:
		return "unknown error"
	}
}

// Error represents an error with an error code and an underlying error.
type Error struct {
	code ErrorCode
	err  error
}

// Code returns the error code.
func (e *Error) Code() ErrorCode { return e.code }

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.err == nil {
		return convertErrorCode(e.code) + ": <nil>"
	}
	return e.err.Error()
}

func (e *Error) Unwrap() error { return e.err }

// UnknownCommandError is returned when a token matches no command in a group and does not look
// like an option.
type UnknownCommandError struct {
	// Path is the canonical path of the group the token was resolved against.
	Path  string
	Token string
	// Suggestions holds similarly named visible commands, best match first.
	Suggestions []string
}

func (e *UnknownCommandError) Error() string {
	if len(e.Suggestions) > 0 {
		return fmt.Sprintf("unknown command %q. Did you mean one of these?\n\t%s",
			e.Token,
			strings.Join(e.Suggestions, "\n\t"))
	}
	return fmt.Sprintf("unknown command %q", e.Token)
}

// AmbiguousCommandError is returned when a token is a prefix of more than one sibling command.
type AmbiguousCommandError struct {
	Path  string
	Token string
	// Candidates is sorted lexicographically.
	Candidates []string
}

func (e *AmbiguousCommandError) Error() string {
	return fmt.Sprintf("ambiguous command %q, too many matches: %s", e.Token, strings.Join(e.Candidates, ", "))
}

// InvalidOptionError is returned when a token starting with [OptionPrefix] resolves to neither an
// option nor a command.
type InvalidOptionError struct {
	Path  string
	Token string
}

func (e *InvalidOptionError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid option: %s", e.Token)
	}
	return fmt.Sprintf("command %q: invalid option: %s", e.Path, e.Token)
}

// DuplicateNameError is returned when a command is registered next to a sibling of the same name.
type DuplicateNameError struct {
	Parent string
	Name   string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("command %q already registered under %q", e.Name, e.Parent)
}

// UnknownParentError is returned when a registration path does not name an existing group.
type UnknownParentError struct {
	Path []string
}

func (e *UnknownParentError) Error() string {
	return fmt.Sprintf("parent %q is not a registered command group", strings.Join(e.Path, " "))
}

// NoExecError is returned when a command has no execution function.
type NoExecError struct {
	Path string
}

func (e *NoExecError) Error() string {
	return fmt.Sprintf("command %q has no execution function", e.Path)
}
