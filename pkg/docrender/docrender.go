// Package docrender renders a generated [cli.Document] as a web page, a Markdown outline or YAML.
package docrender

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/datafed/cli"
)

// Format selects the output format of [Render].
type Format string

const (
	HTML     Format = "html"
	Markdown Format = "markdown"
	YAML     Format = "yaml"
)

// Formats lists the supported formats.
var Formats = []Format{HTML, Markdown, YAML}

// ParseFormat returns the format with the given name. "md" and "yml" are accepted as aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "html":
		return HTML, nil
	case "markdown", "md":
		return Markdown, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("unknown documentation format %q", name)
}

// Options holds the document header.
type Options struct {
	Title   string
	Version string
}

// Render writes doc to w in the given format. The document is rendered into a buffer first, so
// nothing is written on error.
func Render(w io.Writer, doc *cli.Document, format Format, opts Options) error {
	var buf bytes.Buffer
	var err error
	switch format {
	case HTML:
		err = renderHTML(&buf, doc, opts)
	case Markdown:
		err = renderMarkdown(&buf, doc, opts)
	case YAML:
		err = renderYAML(&buf, doc, opts)
	default:
		err = fmt.Errorf("unknown documentation format %q", format)
	}
	if err != nil {
		return err
	}
	_, err = buf.WriteTo(w)
	return err
}

type htmlEntry struct {
	Anchor  string
	Label   string
	Heading int
	Help    string
}

type htmlPage struct {
	Title   string
	Version string
	Entries []htmlEntry
}

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"heading": func(level int, id, label string) template.HTML {
		return template.HTML(fmt.Sprintf("<h%d id=%q>%s</h%d>", level, id, template.HTMLEscapeString(label), level))
	},
}).Parse(`<html><head><title>{{.Title}}</title></head>
<body style="margin:0;padding:0">
<div style="display:flex;flex-direction:column;height:100%;width:100%">
<div style="flex:none;background:#4040bb;color:#ffffff;padding:.5em"><span style="font-size:2em">{{.Title}}</span>{{if .Version}}&nbsp;&nbsp;&nbsp;&nbsp;CLI V-{{.Version}}{{end}}</div>
<div style="flex:1 1 auto;display:flex;flex-direction:row;min-height:0">
<div style="flex:none;overflow:auto;padding:.25em;background:#bbbbbb">
{{range .Entries}}<a href="#{{.Anchor}}">{{.Label}}</a><br>
{{end}}</div>
<div style="flex:1 1 auto;overflow:auto;padding:0em 2em 0em 2em">
{{range .Entries}}{{heading .Heading .Anchor .Label}}
<pre>{{.Help}}</pre>
{{end}}</div>
</div>
</div>
</body></html>
`))

func renderHTML(w io.Writer, doc *cli.Document, opts Options) error {
	page := htmlPage{Title: opts.Title, Version: opts.Version}
	for _, e := range entries(doc) {
		page.Entries = append(page.Entries, htmlEntry{
			Anchor:  e.Anchor(),
			Label:   label(e),
			Heading: min(e.Depth()+1, 6),
			Help:    e.Help,
		})
	}
	return pageTemplate.Execute(w, page)
}

func renderMarkdown(w io.Writer, doc *cli.Document, opts Options) error {
	var b strings.Builder
	if opts.Title != "" {
		fmt.Fprintf(&b, "# %s\n\n", opts.Title)
	}
	if opts.Version != "" {
		fmt.Fprintf(&b, "Version %s\n\n", opts.Version)
	}
	all := entries(doc)
	for _, e := range all {
		fmt.Fprintf(&b, "%s- [%s](#%s)\n", strings.Repeat("  ", max(e.Depth()-1, 0)), label(e), e.Anchor())
	}
	for _, e := range all {
		fmt.Fprintf(&b, "\n<a id=%q></a>\n%s %s\n\n```\n%s\n```\n", e.Anchor(), strings.Repeat("#", min(e.Depth()+2, 6)), label(e), e.Help)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

type yamlEntry struct {
	Section string   `yaml:"section"`
	Anchor  string   `yaml:"anchor"`
	Title   string   `yaml:"title"`
	Command []string `yaml:"command,flow,omitempty"`
	Group   bool     `yaml:"group,omitempty"`
	Help    string   `yaml:"help"`
}

type yamlDocument struct {
	Title   string      `yaml:"title,omitempty"`
	Version string      `yaml:"version,omitempty"`
	Main    yamlEntry   `yaml:"main"`
	Entries []yamlEntry `yaml:"entries"`
}

func renderYAML(w io.Writer, doc *cli.Document, opts Options) error {
	out := yamlDocument{
		Title:   opts.Title,
		Version: opts.Version,
		Main:    toYAML(doc.Main),
		Entries: make([]yamlEntry, 0, len(doc.Entries)),
	}
	for _, e := range doc.Entries {
		out.Entries = append(out.Entries, toYAML(e))
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode documentation: %w", err)
	}
	return enc.Close()
}

func toYAML(e cli.DocEntry) yamlEntry {
	return yamlEntry{
		Section: e.Section(),
		Anchor:  e.Anchor(),
		Title:   e.Title,
		Command: e.Path,
		Group:   e.Group,
		Help:    e.Help,
	}
}

func entries(doc *cli.Document) []cli.DocEntry {
	return append([]cli.DocEntry{doc.Main}, doc.Entries...)
}

// label is the entry title prefixed with its section number, as used in headings and the table
// of contents.
func label(e cli.DocEntry) string {
	if s := e.Section(); s != "" {
		return s + " " + e.Title
	}
	return e.Title
}
