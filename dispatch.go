package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/datafed/cli/pkg/suggest"
)

// DefaultShorthands returns the root-level shorthand table: "dir" lists the working collection,
// "cd" changes it and "?" shows help. Targets are canonical paths below the root.
func DefaultShorthands() map[string][]string {
	return map[string][]string{
		"dir": {"ls"},
		"cd":  {"wc"},
		"?":   {"help"},
	}
}

// DispatcherOptions configures a [Dispatcher].
type DispatcherOptions struct {
	// Shorthands maps root-level tokens to canonical command paths. They are checked before any
	// prefix resolution at the root. If nil, [DefaultShorthands] is used; pass an empty map to
	// disable shorthands.
	Shorthands map[string][]string

	// Logger receives debug output for every resolution step. If nil, logging is discarded.
	Logger logrus.FieldLogger
}

// Dispatcher resolves command-line arguments against a frozen [Registry].
type Dispatcher struct {
	registry   *Registry
	shorthands map[string]*node
	logger     logrus.FieldLogger
}

// NewDispatcher freezes reg and returns a dispatcher for it. Every shorthand target must be a
// registered command.
func NewDispatcher(reg *Registry, opts *DispatcherOptions) (*Dispatcher, error) {
	if reg == nil {
		return nil, errors.New("registry is nil")
	}
	if opts == nil {
		opts = &DispatcherOptions{}
	}
	table := opts.Shorthands
	if table == nil {
		table = DefaultShorthands()
	}
	logger := opts.Logger
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}

	reg.Freeze()
	shorthands := make(map[string]*node, len(table))
	for token, target := range table {
		if token == "" || strings.HasPrefix(token, OptionPrefix) {
			return nil, fmt.Errorf("invalid shorthand %q", token)
		}
		n, ok := reg.find(target)
		if !ok || len(target) == 0 {
			return nil, fmt.Errorf("shorthand %q: target %q is not a registered command", token, strings.Join(target, " "))
		}
		shorthands[token] = n
	}
	return &Dispatcher{
		registry:   reg,
		shorthands: shorthands,
		logger:     logger,
	}, nil
}

// Registry returns the registry the dispatcher resolves against.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Resolution is the result of resolving arguments to a command.
type Resolution struct {
	// Path is the chain of commands from the root to the resolved command.
	Path []*Command
	// Args holds every argument that was not consumed as a command name, in order. Options of
	// groups on the path that appeared between command names are included.
	Args []string
	// Help is set when a help flag was found before the end of options.
	Help bool

	node *node
}

// Command returns the resolved command.
func (r *Resolution) Command() *Command {
	return r.Path[len(r.Path)-1]
}

// Names returns the canonical name chain of the resolved command, root included.
func (r *Resolution) Names() []string {
	names := make([]string, 0, len(r.Path))
	for _, c := range r.Path {
		names = append(names, c.Name)
	}
	return names
}

// String returns the canonical command path, e.g. "datafed data create".
func (r *Resolution) String() string {
	return getCommandPath(r.Path)
}

// Resolve walks args from the root. At the root the first command token is checked against the
// shorthand table, then resolved with [ResolveName]; each nested group resolves the next command
// token the same way without shorthands. Resolution stops at a leaf, at "--", at a help flag or
// when the arguments run out, in which case the group itself is the result.
func (d *Dispatcher) Resolve(args []string) (*Resolution, error) {
	cur := d.registry.root
	res := &Resolution{}
	i := 0
	for i < len(args) && cur.cmd.IsGroup() {
		arg := args[i]
		if arg == "--" {
			break
		}
		if isHelpFlag(arg) {
			res.Help = true
			i++
			break
		}
		if n := optionSpan(cur, args[i:]); n > 0 {
			res.Args = append(res.Args, args[i:i+n]...)
			i += n
			continue
		}
		next, err := d.resolveChild(cur, arg)
		if err != nil {
			return nil, err
		}
		cur = next
		i++
	}
	for j := i; j < len(args); j++ {
		if args[j] == "--" {
			res.Args = append(res.Args, args[j:]...)
			break
		}
		if isHelpFlag(args[j]) {
			res.Help = true
			continue
		}
		res.Args = append(res.Args, args[j])
	}
	res.Path = cur.path()
	res.node = cur
	d.logger.WithFields(logrus.Fields{
		"command": res.String(),
		"args":    len(res.Args),
		"help":    res.Help,
	}).Debug("resolved command")
	return res, nil
}

// Canonicalize resolves args and returns them with every command token replaced by its canonical
// name. The root name is not included.
func (d *Dispatcher) Canonicalize(args []string) ([]string, error) {
	res, err := d.Resolve(args)
	if err != nil {
		return nil, err
	}
	out := res.Names()[1:]
	out = append(out, res.Args...)
	if res.Help {
		out = append(out, "--help")
	}
	return out, nil
}

func (d *Dispatcher) resolveChild(group *node, token string) (*node, error) {
	groupPath := getCommandPath(group.path())
	log := d.logger.WithFields(logrus.Fields{"group": groupPath, "token": token})
	if group == d.registry.root {
		if target, ok := d.shorthands[token]; ok {
			log.WithField("target", target.cmd.Name).Debug("matched shorthand")
			return target, nil
		}
	}
	// Hidden commands are reachable by exact name only.
	if child, ok := group.byName[token]; ok {
		return child, nil
	}
	name, ok, err := ResolveName(group.visibleNames(), token)
	if err != nil {
		var ambiguous *AmbiguousCommandError
		var invalid *InvalidOptionError
		switch {
		case errors.As(err, &ambiguous):
			ambiguous.Path = groupPath
		case errors.As(err, &invalid):
			invalid.Path = groupPath
		}
		log.WithError(err).Debug("failed to resolve command")
		return nil, err
	}
	if !ok {
		return nil, &UnknownCommandError{
			Path:        groupPath,
			Token:       token,
			Suggestions: suggest.FindSimilar(token, group.visibleNames(), 3),
		}
	}
	log.WithField("command", name).Debug("matched prefix")
	return group.byName[name], nil
}

// optionSpan reports how many arguments at the head of args form an option of a group on the
// path ending at n, or 0 if args[0] is not such an option.
func optionSpan(n *node, args []string) int {
	arg := args[0]
	if !strings.HasPrefix(arg, OptionPrefix) || arg == OptionPrefix {
		return 0
	}
	name, _, inline := strings.Cut(strings.TrimLeft(arg, OptionPrefix), "=")
	for cur := n; cur != nil; cur = cur.parent {
		for _, o := range cur.cmd.Options {
			if !o.has(name) {
				continue
			}
			if !o.takesValue() || inline || len(args) < 2 {
				return 1
			}
			return 2
		}
	}
	return 0
}

func isHelpFlag(arg string) bool {
	switch arg {
	case "-h", "--h", "-help", "--help":
		return true
	}
	return false
}
