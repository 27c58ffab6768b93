package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// State represents the shared state for a command execution. It holds the parsed flags of every
// command on the resolved path, so a leaf can read options declared by its parent groups. Use
// [GetFlag] to retrieve flag values by name.
type State struct {
	// Args contains the remaining arguments after flag parsing.
	Args []string

	// Standard I/O streams.
	Stdin          io.Reader
	Stdout, Stderr io.Writer

	// Config is the run configuration, built once before the command executes.
	Config RunConfig

	flags       *flag.FlagSet
	commandPath []*Command
}

// CommandPath returns the canonical path of the executing command, e.g. "datafed data create".
func (s *State) CommandPath() string {
	return getCommandPath(s.commandPath)
}

// GetFlag retrieves a flag value by name, with type inference. Any spelling of an option may be
// used, with or without leading dashes. Example usage:
//
//	script := GetFlag[bool](state, "script")
//	alias := GetFlag[string](state, "alias")
//	deps := GetFlag[[][]string](state, "deps")
//
// If the flag isn't found, or the requested type does not match, it panics. A missing flag is a
// programming error in the command definition, not a user error.
func GetFlag[T any](s *State, name string) T {
	v, ok := LookupFlag[T](s, name)
	if !ok {
		err := fmt.Errorf("internal error: flag %q not found in command %q flag set",
			formatFlagName(strings.TrimLeft(name, OptionPrefix)), s.CommandPath())
		panic(err)
	}
	return v
}

// LookupFlag is like [GetFlag] but reports whether the flag is defined for the executing command
// instead of panicking. A type mismatch still panics.
func LookupFlag[T any](s *State, name string) (T, bool) {
	name = strings.TrimLeft(name, OptionPrefix)
	if s.flags == nil {
		return *new(T), false
	}
	f := s.flags.Lookup(name)
	if f == nil {
		return *new(T), false
	}
	getter, ok := f.Value.(flag.Getter)
	if !ok {
		return *new(T), false
	}
	value := getter.Get()
	if v, ok := value.(T); ok {
		return v, true
	}
	err := fmt.Errorf("internal error: type mismatch for flag %q in command %q: registered %T, requested %T",
		formatFlagName(name), s.CommandPath(), value, *new(T))
	panic(err)
}

func formatFlagName(name string) string {
	return "-" + name
}
