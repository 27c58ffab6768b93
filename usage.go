package cli

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/datafed/cli/pkg/textutil"
)

// terminalWidth is the wrap width of help shown in a terminal.
const terminalWidth = 80

// Usage returns the help of the resolved command as shown for --help: help text, usage line,
// visible subcommands, its own options and the options inherited from its parent groups.
func (r *Resolution) Usage() string {
	if r == nil || r.node == nil {
		return ""
	}
	return renderHelp(r.node, helpStyle{width: terminalWidth, inherited: true})
}

type helpStyle struct {
	// width is the wrap width; zero or less renders every text on a single, untouched line.
	width int
	// inherited adds the options of parent groups and the closing hint line.
	inherited bool
}

type helpRow struct {
	name string
	text string
}

func renderHelp(n *node, style helpStyle) string {
	cmd := n.cmd
	path := n.path()
	var b strings.Builder

	if text := cmd.helpText(); text != "" {
		b.WriteString(text)
		b.WriteString("\n\n")
	}

	var global []Option
	if style.inherited {
		global = inheritedOptions(path)
	}

	b.WriteString("Usage:\n  ")
	if cmd.Usage != "" {
		b.WriteString(cmd.Usage)
	} else {
		b.WriteString(getCommandPath(path))
		if len(cmd.Options) > 0 || len(global) > 0 {
			b.WriteString(" [flags]")
		}
		if cmd.IsGroup() {
			b.WriteString(" <command>")
		}
	}
	b.WriteString("\n\n")

	var visible []*node
	for _, c := range n.children {
		if !c.cmd.Hidden {
			visible = append(visible, c)
		}
	}
	if len(visible) > 0 {
		slices.SortFunc(visible, func(a, b *node) int {
			return cmp.Compare(a.cmd.Name, b.cmd.Name)
		})
		rows := make([]helpRow, 0, len(visible))
		for _, c := range visible {
			rows = append(rows, helpRow{name: c.cmd.Name, text: c.cmd.shortHelp()})
		}
		b.WriteString("Commands:\n")
		writeRows(&b, rows, style.width)
		b.WriteRune('\n')
	}

	if len(cmd.Options) > 0 {
		b.WriteString("Options:\n")
		writeRows(&b, optionRows(cmd.Options), style.width)
		b.WriteRune('\n')
	}
	if len(global) > 0 {
		b.WriteString("Global Options:\n")
		writeRows(&b, optionRows(global), style.width)
		b.WriteRune('\n')
	}

	if style.inherited && len(visible) > 0 {
		fmt.Fprintf(&b, "Use \"%s [command] --help\" for more information about a command.\n",
			getCommandPath(path))
	}

	return strings.TrimRight(b.String(), "\n")
}

// inheritedOptions returns the options of the parent groups on path, nearest first, skipping
// spellings already taken by a closer command.
func inheritedOptions(path []*Command) []Option {
	taken := make(map[string]bool)
	for _, o := range path[len(path)-1].Options {
		for _, name := range o.names() {
			taken[name] = true
		}
	}
	var opts []Option
	for i := len(path) - 2; i >= 0; i-- {
		for _, o := range path[i].Options {
			shadowed := false
			for _, name := range o.names() {
				if taken[name] {
					shadowed = true
				}
				taken[name] = true
			}
			if !shadowed {
				opts = append(opts, o)
			}
		}
	}
	return opts
}

func optionRows(opts []Option) []helpRow {
	rows := make([]helpRow, 0, len(opts))
	for _, o := range opts {
		name := strings.Join(o.Flags, ", ")
		if label := o.valueLabel(); label != "" {
			name += " " + label
		}
		text := o.Help
		if o.Kind == TupleValue {
			text += " (repeatable)"
		}
		if o.Required {
			text += " (required)"
		}
		if o.Default != "" {
			text += fmt.Sprintf(" (default: %s)", o.Default)
		}
		rows = append(rows, helpRow{name: name, text: strings.TrimSpace(text)})
	}
	return rows
}

// writeRows writes a two column table, wrapping the second column when width is positive.
func writeRows(b *strings.Builder, rows []helpRow, width int) {
	maxLen := 0
	for _, r := range rows {
		if len(r.name) > maxLen {
			maxLen = len(r.name)
		}
	}
	nameWidth := maxLen + 4
	for _, r := range rows {
		if r.text == "" {
			fmt.Fprintf(b, "  %s\n", r.name)
			continue
		}
		lines := []string{r.text}
		if width > 0 {
			lines = textutil.Wrap(r.text, max(width-nameWidth, 20))
		}
		padding := strings.Repeat(" ", maxLen-len(r.name)+4)
		fmt.Fprintf(b, "  %s%s%s\n", r.name, padding, lines[0])

		indentPadding := strings.Repeat(" ", nameWidth+2)
		for _, line := range lines[1:] {
			fmt.Fprintf(b, "%s%s\n", indentPadding, line)
		}
	}
}
