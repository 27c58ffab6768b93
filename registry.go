package cli

import "fmt"

// Registry owns the command tree. It is built once at startup and frozen before the first
// resolution; after [Registry.Freeze] it is never mutated and is safe for concurrent reads.
type Registry struct {
	root   *node
	frozen bool
}

type node struct {
	cmd      *Command
	parent   *node
	children []*node
	byName   map[string]*node
}

func newNode(cmd *Command, parent *node) *node {
	return &node{cmd: cmd, parent: parent, byName: make(map[string]*node)}
}

// path returns the chain of commands from the root to n.
func (n *node) path() []*Command {
	var chain []*Command
	for cur := n; cur != nil; cur = cur.parent {
		chain = append([]*Command{cur.cmd}, chain...)
	}
	return chain
}

func (n *node) names() []string {
	names := make([]string, 0, len(n.children))
	for _, c := range n.children {
		names = append(names, c.cmd.Name)
	}
	return names
}

func (n *node) visibleNames() []string {
	names := make([]string, 0, len(n.children))
	for _, c := range n.children {
		if !c.cmd.Hidden {
			names = append(names, c.cmd.Name)
		}
	}
	return names
}

// NewRegistry returns an empty registry rooted at the given group. Subcommands declared on root
// are ignored; use [Build] to register a declarative tree.
func NewRegistry(root *Command) (*Registry, error) {
	if err := validateCommand(root); err != nil {
		return nil, fmt.Errorf("root command: %w", err)
	}
	if !root.IsGroup() {
		return nil, fmt.Errorf("root command %q must be a group", root.Name)
	}
	return &Registry{root: newNode(root, nil)}, nil
}

// Build creates a registry from root and registers its SubCommands tree depth-first, in
// declaration order. On error no registry is returned.
func Build(root *Command) (*Registry, error) {
	r, err := NewRegistry(root)
	if err != nil {
		return nil, err
	}
	if err := r.registerTree(nil, root.SubCommands); err != nil {
		return nil, err
	}
	return r, nil
}

// MustBuild is like [Build] but panics on error. Registration errors are programming errors and
// should abort startup.
func MustBuild(root *Command) *Registry {
	r, err := Build(root)
	if err != nil {
		panic(fmt.Sprintf("cli: failed to build command registry: %v", err))
	}
	return r
}

func (r *Registry) registerTree(parentPath []string, cmds []*Command) error {
	for _, cmd := range cmds {
		if err := r.Register(parentPath, cmd); err != nil {
			return err
		}
		if cmd.IsGroup() {
			childPath := append(append([]string(nil), parentPath...), cmd.Name)
			if err := r.registerTree(childPath, cmd.SubCommands); err != nil {
				return err
			}
		}
	}
	return nil
}

// Register inserts cmd as a child of the group at parentPath. The path lists canonical command
// names below the root; nil or empty means the root itself. On error the registry is unchanged.
func (r *Registry) Register(parentPath []string, cmd *Command) error {
	if r.frozen {
		return ErrRegistryFrozen
	}
	if err := validateCommand(cmd); err != nil {
		return err
	}
	parent, ok := r.find(parentPath)
	if !ok || !parent.cmd.IsGroup() {
		return &UnknownParentError{Path: append([]string(nil), parentPath...)}
	}
	if _, exists := parent.byName[cmd.Name]; exists {
		return &DuplicateNameError{Parent: getCommandPath(parent.path()), Name: cmd.Name}
	}
	child := newNode(cmd, parent)
	parent.children = append(parent.children, child)
	parent.byName[cmd.Name] = child
	return nil
}

// Freeze ends registration. Later calls to [Registry.Register] fail with [ErrRegistryFrozen].
func (r *Registry) Freeze() {
	r.frozen = true
}

// Root returns the root command.
func (r *Registry) Root() *Command {
	return r.root.cmd
}

// Children returns the names of the direct children of the group at path, in registration order.
// Hidden commands are included.
func (r *Registry) Children(path []string) ([]string, error) {
	n, ok := r.find(path)
	if !ok || !n.cmd.IsGroup() {
		return nil, &UnknownParentError{Path: append([]string(nil), path...)}
	}
	return n.names(), nil
}

// Lookup returns the command at the canonical path below the root.
func (r *Registry) Lookup(path []string) (*Command, bool) {
	n, ok := r.find(path)
	if !ok {
		return nil, false
	}
	return n.cmd, true
}

func (r *Registry) find(path []string) (*node, bool) {
	cur := r.root
	for _, name := range path {
		next, ok := cur.byName[name]
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}
