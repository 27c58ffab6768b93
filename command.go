package cli

import (
	"context"
	"fmt"
	"strings"
)

// Kind distinguishes leaf commands from command groups.
type Kind int

const (
	// Leaf is a terminal command that is executed.
	Leaf Kind = iota
	// Group is a command that contains subcommands.
	Group
)

func (k Kind) String() string {
	switch k {
	case Leaf:
		return "leaf"
	case Group:
		return "group"
	default:
		return "unknown"
	}
}

// Command represents a CLI command or command group within the application's command hierarchy.
//
// A Command is only a description. Once registered in a [Registry] it must not be modified.
type Command struct {
	// Name is always a single word representing the command's name. It must be unique among its
	// siblings and is what abbreviations are resolved against.
	Name string

	// Kind marks the command as a leaf or a group. Groups may have zero subcommands.
	Kind Kind

	// Hidden commands can be invoked by their exact name but are never matched by prefix, listed
	// in help output or included in generated documentation.
	Hidden bool

	// Usage provides the command's full usage pattern.
	//
	// Example: "datafed data create <title> [flags]"
	Usage string

	// ShortHelp is a one line description shown in the listing of the parent group.
	ShortHelp string

	// Help is the full help text. It is rendered verbatim. When empty, ShortHelp is used.
	Help string

	// Options lists the command's options in display order.
	Options []Option

	// SubCommands declares the children of a group for [Build]. After registration the registry
	// owns the children; this field is not consulted again.
	SubCommands []*Command

	// Exec defines the command's execution logic. Groups may leave it nil, in which case invoking
	// the bare group shows its help.
	Exec func(ctx context.Context, s *State) error
}

// IsGroup reports whether the command is a group.
func (c *Command) IsGroup() bool {
	return c.Kind == Group
}

func (c *Command) helpText() string {
	if c.Help != "" {
		return strings.TrimSpace(c.Help)
	}
	return strings.TrimSpace(c.ShortHelp)
}

func (c *Command) shortHelp() string {
	if c.ShortHelp != "" {
		return strings.TrimSpace(c.ShortHelp)
	}
	first, _, _ := strings.Cut(strings.TrimSpace(c.Help), "\n")
	return strings.TrimSpace(first)
}

func validateCommand(c *Command) error {
	if c == nil {
		return fmt.Errorf("command is nil")
	}
	if c.Name == "" {
		return fmt.Errorf("command has no name")
	}
	if strings.ContainsAny(c.Name, " \t\n") {
		return fmt.Errorf("command name %q contains spaces, must be a single word", c.Name)
	}
	if strings.HasPrefix(c.Name, OptionPrefix) {
		return fmt.Errorf("command name %q must not start with %q", c.Name, OptionPrefix)
	}
	if c.Kind != Leaf && c.Kind != Group {
		return fmt.Errorf("command %q has unknown kind %d", c.Name, c.Kind)
	}
	if c.Kind == Leaf && len(c.SubCommands) > 0 {
		return fmt.Errorf("command %q is a leaf but declares subcommands", c.Name)
	}
	if err := validateOptions(c.Options); err != nil {
		return fmt.Errorf("command %q: %w", c.Name, err)
	}
	return nil
}

func getCommandPath(commands []*Command) string {
	var commandPath []string
	for _, c := range commands {
		commandPath = append(commandPath, c.Name)
	}
	return strings.Join(commandPath, " ")
}
