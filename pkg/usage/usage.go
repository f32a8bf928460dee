// SPDX-License-Identifier: MPL-2.0

// Package usage renders help text for normalized command schemas.
//
// Output is a plain option table: one row per visible option, grouped by
// the command's declared groups, followed by the command's free-form
// sections. Nothing here wraps or hyphenates text; descriptions are printed
// as written, or through glamour when Markdown is enabled.
package usage

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/argweave/argweave/pkg/coerce"
	"github.com/argweave/argweave/pkg/schema"
)

// DefaultWidth is the Markdown wrap width used when Renderer.Width is zero.
const DefaultWidth = 80

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	flagStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6"))
	typeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	noteStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")).Italic(true)
	cellStyle    = lipgloss.NewStyle().PaddingRight(2)
)

type (
	// Renderer formats usage text.
	Renderer struct {
		// Markdown renders descriptions and section bodies through glamour.
		Markdown bool
		// Width is the Markdown wrap width; DefaultWidth when zero.
		Width int
	}

	// Entry is one line of a command list.
	Entry struct {
		Name  string
		Brief string
	}
)

// Command renders the usage of a single command. cmd must be normalized.
func (r Renderer) Command(app, name string, cmd *schema.Command) string {
	var b strings.Builder
	title := strings.TrimSpace(app + " " + name)

	b.WriteString(headingStyle.Render("Usage:"))
	b.WriteByte('\n')
	if len(cmd.Synopsis) == 0 {
		fmt.Fprintf(&b, "  %s [OPTIONS]...\n", title)
	}
	for _, line := range cmd.Synopsis {
		fmt.Fprintf(&b, "  %s %s\n", title, line)
	}

	if text := joinNonEmpty("\n\n", cmd.Brief, cmd.Description); text != "" {
		b.WriteByte('\n')
		b.WriteString(r.text(text))
		b.WriteByte('\n')
	}

	for _, sec := range optionSections(cmd) {
		b.WriteByte('\n')
		b.WriteString(headingStyle.Render(sec.heading + ":"))
		b.WriteByte('\n')
		if sec.description != "" {
			b.WriteString("  ")
			b.WriteString(sec.description)
			b.WriteByte('\n')
		}
		b.WriteString(optionTable(sec.options))
		b.WriteByte('\n')
	}

	for _, s := range cmd.Sections {
		b.WriteByte('\n')
		if s.Title != "" {
			b.WriteString(headingStyle.Render(s.Title))
			b.WriteByte('\n')
		}
		b.WriteString(r.text(s.Body))
		b.WriteByte('\n')
	}

	return b.String()
}

// CommandList renders the commands an application offers.
func (r Renderer) CommandList(app string, entries []Entry) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("Usage:"))
	fmt.Fprintf(&b, "\n  %s <command> [OPTIONS]...\n\n", app)
	b.WriteString(headingStyle.Render("Commands:"))
	b.WriteByte('\n')

	if len(entries) == 0 {
		b.WriteString(noteStyle.Render("  (no commands defined)"))
		b.WriteByte('\n')
		return b.String()
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{flagStyle.Render(e.Name), e.Brief})
	}
	b.WriteString(render(rows))
	b.WriteByte('\n')
	fmt.Fprintf(&b, "\nRun '%s <command> --help' for details about a command.\n", app)
	return b.String()
}

type optionSection struct {
	heading     string
	description string
	options     []*schema.Option
}

// optionSections buckets visible options: ungrouped first, then one section
// per declared group in declaration order. Options naming an undeclared
// group get a section titled by the group name.
func optionSections(cmd *schema.Command) []optionSection {
	buckets := map[string][]*schema.Option{}
	var extra []string
	for _, name := range cmd.Names() {
		o := cmd.Options[name]
		if o.Hidden {
			continue
		}
		g := o.Group
		if _, declared := cmd.Group(g); g != "" && !declared {
			if _, seen := buckets[g]; !seen {
				extra = append(extra, g)
			}
		}
		buckets[g] = append(buckets[g], o)
	}

	var out []optionSection
	if opts := buckets[""]; len(opts) > 0 {
		out = append(out, optionSection{heading: "Options", options: opts})
	}
	for _, g := range cmd.Groups {
		if opts := buckets[g.Name]; len(opts) > 0 {
			heading := g.Title
			if heading == "" {
				heading = g.Name
			}
			out = append(out, optionSection{heading: heading, description: g.Description, options: opts})
		}
	}
	for _, g := range extra {
		out = append(out, optionSection{heading: g, options: buckets[g]})
	}
	return out
}

func optionTable(options []*schema.Option) string {
	rows := make([][]string, 0, len(options))
	for _, o := range options {
		note := Annotations(o)
		if note != "" {
			note = noteStyle.Render(note)
		}
		label := TypeLabel(o)
		if label != "" {
			label = typeStyle.Render(label)
		}
		rows = append(rows, []string{
			flagStyle.Render(FlagLabel(o)),
			label,
			joinNonEmpty(" ", o.Description, note),
		})
	}
	return render(rows)
}

func render(rows [][]string) string {
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderHeader(false).
		StyleFunc(func(row, col int) lipgloss.Style { return cellStyle }).
		Rows(rows...)
	return t.String()
}

// FlagLabel returns "-a, --name" or "    --name".
func FlagLabel(o *schema.Option) string {
	if o.Alias != "" {
		return "-" + o.Alias + ", --" + o.Name
	}
	return "    --" + o.Name
}

// TypeLabel returns the value placeholder, empty for boolean switches.
func TypeLabel(o *schema.Option) string {
	if o.Type == coerce.Boolean || o.Type == "" {
		return ""
	}
	label := "<" + string(o.Type) + ">"
	if o.Multiple {
		label += "..."
	}
	return label
}

// Annotations lists the default, env, required and multiple markers.
func Annotations(o *schema.Option) string {
	var notes []string
	if o.HasDefault() {
		notes = append(notes, "default: "+coerce.Format(o.DefaultValue))
	}
	if o.Env != "" {
		notes = append(notes, "env: "+o.Env)
	}
	if o.Required {
		notes = append(notes, "required")
	}
	if o.Multiple {
		notes = append(notes, "multiple")
	}
	if len(notes) == 0 {
		return ""
	}
	return "[" + strings.Join(notes, ", ") + "]"
}

func (r Renderer) text(s string) string {
	if !r.Markdown {
		return s
	}
	width := r.Width
	if width <= 0 {
		width = DefaultWidth
	}
	tr, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(width))
	if err != nil {
		return s
	}
	out, err := tr.Render(s)
	if err != nil {
		return s
	}
	return strings.TrimRight(out, "\n")
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
