package cli

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// groupLabel is appended to the title of entries that have subcommands.
const groupLabel = " Commands"

// Document is the generated documentation of a command tree.
type Document struct {
	// Main describes the root command. Its section path is empty.
	Main DocEntry
	// Entries holds one entry per visible command below the root, in pre-order.
	Entries []DocEntry
}

// DocEntry documents a single command.
type DocEntry struct {
	// SectionPath is the 1-indexed outline number of the entry, e.g. [2 1] for "2.1".
	SectionPath []int
	// Path is the canonical name chain below the root.
	Path  []string
	Title string
	Group bool
	// Help is the rendered help text and option table, never wrapped.
	Help string
}

// Section returns the outline number, e.g. "2.1". The root entry has an empty section.
func (e DocEntry) Section() string {
	parts := make([]string, 0, len(e.SectionPath))
	for _, n := range e.SectionPath {
		parts = append(parts, strconv.Itoa(n))
	}
	return strings.Join(parts, ".")
}

// Anchor returns a stable identifier for linking to the entry.
func (e DocEntry) Anchor() string {
	if len(e.SectionPath) == 0 {
		return "main"
	}
	return "s" + e.Section()
}

// Depth returns the nesting level of the entry; top-level commands have depth 1.
func (e DocEntry) Depth() int {
	return len(e.SectionPath)
}

// Generate walks the registry in registration order and documents every command that is not
// hidden. Hidden commands and everything beneath them are skipped. Sections are numbered per
// sibling level, starting at 1.
func Generate(reg *Registry) *Document {
	doc := &Document{
		Main: DocEntry{
			Title: "Main",
			Group: true,
			Help:  renderHelp(reg.root, helpStyle{}),
		},
	}
	var walk func(n *node, section []int, names []string)
	walk = func(n *node, section []int, names []string) {
		sec := 0
		for _, child := range n.children {
			if child.cmd.Hidden {
				continue
			}
			sec++
			childSection := append(append([]int(nil), section...), sec)
			childNames := append(append([]string(nil), names...), child.cmd.Name)
			doc.Entries = append(doc.Entries, DocEntry{
				SectionPath: childSection,
				Path:        childNames,
				Title:       docTitle(childNames, child.cmd.IsGroup()),
				Group:       child.cmd.IsGroup(),
				Help:        renderHelp(child, helpStyle{}),
			})
			walk(child, childSection, childNames)
		}
	}
	walk(reg.root, nil, nil)
	return doc
}

func docTitle(names []string, group bool) string {
	parts := make([]string, 0, len(names))
	for _, n := range names {
		parts = append(parts, capitalize(n))
	}
	title := strings.Join(parts, " ")
	if group {
		title += groupLabel
	}
	return title
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
