// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// OutputJSON prints resolved values as indented JSON.
	OutputJSON OutputFormat = "json"
	// OutputTOML prints resolved values as a TOML document.
	OutputTOML OutputFormat = "toml"
	// OutputCUE prints resolved values as CUE.
	OutputCUE OutputFormat = "cue"
	// OutputDump prints resolved values with their Go types.
	OutputDump OutputFormat = "dump"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultEnvFileOption is the env-file option added to every command.
	DefaultEnvFileOption = "envFile"
	// DefaultEnvSeparator splits environment values of multiple options.
	DefaultEnvSeparator = ","
	// DefaultWidth is the usage wrap width.
	DefaultWidth = 80
)

var (
	// ErrInvalidOutputFormat is returned when an OutputFormat value is not recognized.
	ErrInvalidOutputFormat = errors.New("invalid output format")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidEnvFileConfig is the sentinel error wrapped by InvalidEnvFileConfigError.
	ErrInvalidEnvFileConfig = errors.New("invalid env file config")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// OutputFormat selects how resolved values are printed.
	OutputFormat string

	// InvalidOutputFormatError is returned when an OutputFormat value is not recognized.
	// It wraps ErrInvalidOutputFormat for errors.Is() compatibility.
	InvalidOutputFormatError struct {
		Value OutputFormat
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidEnvFileConfigError is returned when EnvFileConfig has invalid fields.
	// It wraps ErrInvalidEnvFileConfig for errors.Is() compatibility.
	InvalidEnvFileConfigError struct {
		FieldErrors []error
	}

	// InvalidUIConfigError is returned when UIConfig has invalid fields.
	// It wraps ErrInvalidUIConfig for errors.Is() compatibility.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Strict reports undeclared options as errors.
		Strict bool `json:"strict" mapstructure:"strict"`
		// Output is the default output format of the resolve command.
		Output OutputFormat `json:"output" mapstructure:"output"`
		// EnvFile configures env-file handling.
		EnvFile EnvFileConfig `json:"env_file" mapstructure:"env_file"`
		// UI contains user interface settings.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// EnvFileConfig configures how environment values seed options.
	EnvFileConfig struct {
		// Option names the option every command gets for env files.
		Option string `json:"option" mapstructure:"option"`
		// Separator splits environment values of multiple options.
		Separator string `json:"separator" mapstructure:"separator"`
		// Files are loaded before every resolution.
		Files []string `json:"files" mapstructure:"files"`
	}

	// UIConfig contains UI-related configuration.
	UIConfig struct {
		// ColorScheme sets the color scheme ("auto", "dark", "light").
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables debug logging.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
		// Markdown renders descriptions in usage text as Markdown.
		Markdown bool `json:"markdown" mapstructure:"markdown"`
		// Width is the usage wrap width.
		Width int `json:"width" mapstructure:"width"`
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Strict: false,
		Output: OutputJSON,
		EnvFile: EnvFileConfig{
			Option:    DefaultEnvFileOption,
			Separator: DefaultEnvSeparator,
			Files:     []string{},
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
			Markdown:    false,
			Width:       DefaultWidth,
		},
	}
}

// String returns the string representation of the OutputFormat.
func (f OutputFormat) String() string { return string(f) }

// IsValid returns whether the OutputFormat is one of the defined formats,
// and a list of validation errors if it is not.
func (f OutputFormat) IsValid() (bool, []error) {
	switch f {
	case OutputJSON, OutputTOML, OutputCUE, OutputDump:
		return true, nil
	default:
		return false, []error{&InvalidOutputFormatError{Value: f}}
	}
}

// Error implements the error interface for InvalidOutputFormatError.
func (e *InvalidOutputFormatError) Error() string {
	return fmt.Sprintf("invalid output format %q (valid: json, toml, cue, dump)", e.Value)
}

// Unwrap returns ErrInvalidOutputFormat for errors.Is() compatibility.
func (e *InvalidOutputFormatError) Unwrap() error { return ErrInvalidOutputFormat }

// String returns the string representation of the ColorScheme.
func (c ColorScheme) String() string { return string(c) }

// IsValid returns whether the ColorScheme is one of the defined schemes,
// and a list of validation errors if it is not.
func (c ColorScheme) IsValid() (bool, []error) {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: c}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// IsValid checks the option name, the separator and every file path.
func (c EnvFileConfig) IsValid() (bool, []error) {
	var errs []error
	if strings.TrimSpace(c.Option) == "" || strings.ContainsAny(c.Option, " \t=") || strings.HasPrefix(c.Option, "-") {
		errs = append(errs, fmt.Errorf("option: %q is not a usable option name", c.Option))
	}
	if c.Separator == "" {
		errs = append(errs, errors.New("separator: must not be empty"))
	}
	for i, f := range c.Files {
		if strings.TrimSpace(f) == "" {
			errs = append(errs, fmt.Errorf("files[%d]: must not be empty", i))
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidEnvFileConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidEnvFileConfigError.
func (e *InvalidEnvFileConfigError) Error() string {
	return fmt.Sprintf("invalid env file config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidEnvFileConfig and the field errors for errors.Is() compatibility.
func (e *InvalidEnvFileConfigError) Unwrap() []error {
	return append([]error{ErrInvalidEnvFileConfig}, e.FieldErrors...)
}

// IsValid checks the color scheme and the width.
func (c UIConfig) IsValid() (bool, []error) {
	var errs []error
	if ok, fieldErrs := c.ColorScheme.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if c.Width < 20 || c.Width > 400 {
		errs = append(errs, fmt.Errorf("width: %d is outside 20..400", c.Width))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidUIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig and the field errors for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() []error {
	return append([]error{ErrInvalidUIConfig}, e.FieldErrors...)
}

// IsValid validates every section of the configuration.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if ok, fieldErrs := c.Output.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if ok, fieldErrs := c.EnvFile.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if ok, fieldErrs := c.UI.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig and the field errors for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
