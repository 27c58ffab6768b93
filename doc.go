// Package cli is the command-dispatch layer of the DataFed command-line client. It resolves
// user-typed command names, possibly abbreviated, to registered commands, supports nested command
// groups, and generates structured documentation from the registered command tree.
//
// Commands are registered once at startup in a [Registry]. A [Dispatcher] resolves arguments
// against the registry: exact names win, otherwise a token resolves to the unique sibling it is a
// prefix of. A small table of root-level shorthands ("dir", "cd", "?") bypasses prefix matching
// entirely. [Generate] walks the same registry to build a numbered [Document].
package cli
