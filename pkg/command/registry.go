// SPDX-License-Identifier: MPL-2.0

// Package command dispatches command-line invocations to named handlers.
//
// A Registry holds commands defined with a name, a handler and an option
// schema. Evaluate takes the whole argument list: the first token selects
// the command and the rest is resolved against its schema. The handler runs
// only when every option resolved; otherwise the errors and the command's
// usage are printed and an *InvocationError is returned.
//
// Every command gets a "help" switch. When Settings.EnvFileOption is set it
// also gets a string option naming env files that seed Env-declared options.
// The files come from argv, else from that option's default value.
package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/argweave/argweave/pkg/argmap"
	"github.com/argweave/argweave/pkg/coerce"
	"github.com/argweave/argweave/pkg/envfile"
	"github.com/argweave/argweave/pkg/resolve"
	"github.com/argweave/argweave/pkg/schema"
	"github.com/argweave/argweave/pkg/usage"
)

// HelpOption is the switch added to every command.
const HelpOption = "help"

var errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444"))

type (
	// Handler runs a command with its resolved options.
	Handler func(ctx context.Context, inv *Invocation) error

	// Invocation is what a handler receives.
	Invocation struct {
		// Command is the command name.
		Command string
		// Values holds the resolved options.
		Values resolve.Values
		// Stdout is where the command should write its output.
		Stdout io.Writer
	}

	// Settings tunes how invocations are evaluated.
	Settings struct {
		// DefaultCommand runs when no command is named or the first token is a flag.
		DefaultCommand string
		// EnvFileOption, when set, adds a multiple string option of that name
		// whose values are env files read before resolution.
		EnvFileOption string
		// EnvSeparator splits environment values for multiple options.
		EnvSeparator string
		// Strict reports undeclared options as errors.
		Strict bool
	}

	// RegistryOption configures a Registry.
	RegistryOption func(*Registry)

	// Registry holds the defined commands. It is safe for concurrent use.
	Registry struct {
		mu       sync.RWMutex
		app      string
		commands map[string]*entry

		out      io.Writer
		errOut   io.Writer
		logger   *log.Logger
		coercion *coerce.Registry
		renderer usage.Renderer
		settings Settings
		env      envfile.LookupFunc
		envFiles envfile.Values
	}

	entry struct {
		name    string
		handler Handler
		cmd     *schema.Command
	}
)

// WithOutput sets where command lists, usage and handler output go.
func WithOutput(w io.Writer) RegistryOption {
	return func(r *Registry) { r.out = w }
}

// WithErrorOutput sets where invocation errors are printed.
func WithErrorOutput(w io.Writer) RegistryOption {
	return func(r *Registry) { r.errOut = w }
}

// WithLogger enables debug logging of dispatch and resolution.
func WithLogger(l *log.Logger) RegistryOption {
	return func(r *Registry) { r.logger = l }
}

// WithCoercion selects the coercion registry; coerce.Default() otherwise.
func WithCoercion(c *coerce.Registry) RegistryOption {
	return func(r *Registry) { r.coercion = c }
}

// WithRenderer sets the usage renderer.
func WithRenderer(u usage.Renderer) RegistryOption {
	return func(r *Registry) { r.renderer = u }
}

// WithSettings replaces the evaluation settings.
func WithSettings(s Settings) RegistryOption {
	return func(r *Registry) { r.settings = s }
}

// WithEnvLookup sets the environment lookup; the process environment otherwise.
func WithEnvLookup(l envfile.LookupFunc) RegistryOption {
	return func(r *Registry) { r.env = l }
}

// WithEnvValues preloads env file values. They take precedence over the
// environment lookup and are merged before files named on each invocation.
func WithEnvValues(v envfile.Values) RegistryOption {
	return func(r *Registry) { r.envFiles = v }
}

// NewRegistry returns an empty registry for the named application.
func NewRegistry(app string, opts ...RegistryOption) *Registry {
	r := &Registry{
		app:      app,
		commands: map[string]*entry{},
		out:      os.Stdout,
		errOut:   os.Stderr,
		env:      envfile.Environ(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.coercion == nil {
		r.coercion = coerce.Default()
	}
	return r
}

// Define adds a command. The name is lower-cased and must be non-empty and
// free of whitespace. def is any schema accepted by schema.NormalizeCommand;
// nil means no options.
func (r *Registry) Define(name string, h Handler, def any) error {
	name = strings.ToLower(name)
	if name == "" || strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return &InvalidCommandNameError{Value: name}
	}
	if h == nil {
		return fmt.Errorf("define %s: %w", name, ErrNilHandler)
	}
	if def == nil {
		def = schema.Raw{}
	}

	cmd, err := schema.NormalizeCommand(def, schema.WithRegistry(r.coercion))
	if err != nil {
		return fmt.Errorf("define %s: %w", name, err)
	}
	if cmd, err = r.withBuiltinOptions(cmd); err != nil {
		return fmt.Errorf("define %s: %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.commands[name]; exists {
		return &DuplicateCommandError{Name: name}
	}
	r.commands[name] = &entry{name: name, handler: h, cmd: cmd}
	r.debug("Defined command", "command", name, "options", len(cmd.Options))
	return nil
}

// withBuiltinOptions adds the help switch and the env-file option unless the
// schema already declares options with those names.
func (r *Registry) withBuiltinOptions(cmd *schema.Command) (*schema.Command, error) {
	extra := map[string]schema.Raw{
		HelpOption: {"type": "boolean", "description": "Get usage details about this command."},
	}
	if name := r.settings.EnvFileOption; name != "" {
		extra[name] = schema.Raw{
			"type":        "string",
			"multiple":    true,
			"description": "Read environment variables from a file. A trailing '?' marks the file optional.",
		}
	}

	options := maps.Clone(cmd.Options)
	added := false
	for name, raw := range extra {
		if _, declared := options[name]; declared {
			continue
		}
		o, err := schema.NormalizeOption(raw, schema.WithRegistry(r.coercion))
		if err != nil {
			return nil, err
		}
		options[name] = o
		added = true
	}
	if !added {
		return cmd, nil
	}

	return schema.NormalizeCommand(&schema.Command{
		Brief:         cmd.Brief,
		Description:   cmd.Description,
		DefaultOption: cmd.DefaultOption,
		Groups:        cmd.Groups,
		Options:       options,
		Sections:      cmd.Sections,
		Synopsis:      cmd.Synopsis,
	}, schema.WithRegistry(r.coercion))
}

// List returns the defined command names in lexical order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := maps.Keys(r.commands)
	slices.Sort(names)
	return names
}

// Schema returns the normalized schema of a command, including the added options.
func (r *Registry) Schema(name string) (*schema.Command, error) {
	e, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	return e.cmd, nil
}

// Usage renders the usage text of a command.
func (r *Registry) Usage(name string) (string, error) {
	e, err := r.lookup(name)
	if err != nil {
		return "", err
	}
	return r.renderer.Command(r.app, e.name, e.cmd), nil
}

// CommandList renders the list of defined commands.
func (r *Registry) CommandList() string {
	r.mu.RLock()
	entries := make([]usage.Entry, 0, len(r.commands))
	for _, name := range r.sortedNamesLocked() {
		entries = append(entries, usage.Entry{Name: name, Brief: r.commands[name].cmd.Brief})
	}
	r.mu.RUnlock()
	return r.renderer.CommandList(r.app, entries)
}

// Execute runs a command with option values supplied programmatically.
// Values are resolved with resolve.Normalize; on data errors the handler is
// not run and an *InvocationError is returned.
func (r *Registry) Execute(ctx context.Context, name string, values map[string]any) error {
	e, err := r.lookup(strings.ToLower(name))
	if err != nil {
		return err
	}
	resolved, errs, err := resolve.Normalize(e.cmd, values, r.resolveOptions(r.envFiles)...)
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		return &InvocationError{Command: e.name, Errors: errs}
	}
	return r.run(ctx, e, resolved)
}

// Evaluate dispatches a full argument list. argv[0] names the command and
// the remaining tokens are its options. With no arguments, or "--help" as
// the first one, the command list is printed. An unknown command prints
// the list and returns an *UnknownCommandError.
func (r *Registry) Evaluate(ctx context.Context, argv []string) error {
	name, args := r.split(argv)
	if name == "" || name == "--"+HelpOption {
		fmt.Fprint(r.out, r.CommandList())
		return nil
	}

	e, err := r.lookup(strings.ToLower(name))
	if err != nil {
		fmt.Fprintf(r.errOut, "%s\n\n%s", errorStyle.Render("The issued command does not exist."), r.CommandList())
		return err
	}

	m := argmap.Tokenize(e.cmd, args)
	fileValues := r.envFiles
	if opt := r.settings.EnvFileOption; opt != "" {
		if files := envFilesFor(e.cmd, m, opt); len(files) > 0 {
			loaded, err := envfile.LoadAll(files...)
			if err != nil {
				return err
			}
			r.debug("Loaded env files", "command", e.name, "files", files)
			fileValues = envfile.Values{}
			fileValues.Merge(r.envFiles)
			fileValues.Merge(loaded)
		}
	}

	resolved, errs, err := resolve.ResolveMap(e.cmd, m, r.resolveOptions(fileValues)...)
	if err != nil {
		return err
	}

	if help, _ := resolved[HelpOption].(bool); help {
		fmt.Fprint(r.out, r.renderer.Command(r.app, e.name, e.cmd))
		return nil
	}
	if len(errs) > 0 {
		invErr := &InvocationError{Command: e.name, Errors: errs}
		fmt.Fprintf(r.errOut, "%s\n\n%s", errorStyle.Render(invErr.Error()), r.renderer.Command(r.app, e.name, e.cmd))
		return invErr
	}
	return r.run(ctx, e, resolved)
}

// envFilesFor returns the env files named for opt on argv, or those of its
// default when argv has none. Blank entries, as left by a bare flag, are
// dropped.
func envFilesFor(cmd *schema.Command, m *argmap.Map, opt string) []string {
	var files []string
	if m.Has(opt) {
		files = m.Values(opt)
	} else if o, ok := cmd.Option(opt); ok && o.HasDefault() {
		files = defaultFiles(o.DefaultValue)
	}
	return slices.DeleteFunc(slices.Clone(files), func(f string) bool {
		return strings.TrimSpace(f) == ""
	})
}

// defaultFiles reads a default value given as one path or a list of them.
func defaultFiles(v any) []string {
	switch v := v.(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		var out []string
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// split separates the command name from its arguments, falling back to the
// default command when argv is empty or starts with a flag other than --help.
func (r *Registry) split(argv []string) (string, []string) {
	def := r.settings.DefaultCommand
	switch {
	case len(argv) == 0:
		return def, nil
	case argv[0] == "--"+HelpOption:
		return argv[0], argv[1:]
	case strings.HasPrefix(argv[0], "-") && def != "":
		return def, argv
	default:
		return argv[0], argv[1:]
	}
}

func (r *Registry) run(ctx context.Context, e *entry, values resolve.Values) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.debug("Running command", "command", e.name)
	return e.handler(ctx, &Invocation{Command: e.name, Values: values, Stdout: r.out})
}

func (r *Registry) resolveOptions(fileValues envfile.Values) []resolve.Option {
	opts := []resolve.Option{
		resolve.WithRegistry(r.coercion),
		resolve.WithStrict(r.settings.Strict),
		resolve.WithEnv(r.env),
	}
	if len(fileValues) > 0 {
		opts = append(opts, resolve.WithEnvValues(fileValues.LookupAll))
	}
	if r.settings.EnvSeparator != "" {
		opts = append(opts, resolve.WithEnvSeparator(r.settings.EnvSeparator))
	}
	if r.logger != nil {
		opts = append(opts, resolve.WithLogger(r.logger))
	}
	return opts
}

func (r *Registry) lookup(name string) (*entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.commands[name]
	if !ok {
		return nil, &UnknownCommandError{Name: name}
	}
	return e, nil
}

func (r *Registry) sortedNamesLocked() []string {
	names := maps.Keys(r.commands)
	slices.Sort(names)
	return names
}

func (r *Registry) debug(msg string, keyvals ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, keyvals...)
	}
}
