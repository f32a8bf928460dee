// SPDX-License-Identifier: MPL-2.0

// Package schemafile loads raw command schemas from files.
//
// Every format ends up validated against the same embedded #Command CUE
// definition, so field names and shapes are identical across formats.
// The result is a schema.Raw ready for schema.NormalizeCommand.
package schemafile

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/argweave/argweave/pkg/cueutil"
	"github.com/argweave/argweave/pkg/schema"
)

// Format identifies a schema file syntax.
type Format string

const (
	// FormatCUE is a CUE document.
	FormatCUE Format = "cue"
	// FormatJSON is a JSON document.
	FormatJSON Format = "json"
	// FormatTOML is a TOML document.
	FormatTOML Format = "toml"
	// FormatHCL is an HCL document with option and group blocks.
	FormatHCL Format = "hcl"
)

// ErrUnsupportedFormat is returned for file extensions or format names
// that have no decoder.
var ErrUnsupportedFormat = errors.New("unsupported schema format")

//go:embed command_schema.cue
var commandSchema string

type (
	// InvalidFormatError is returned when a Format is not one of the known ones.
	// It wraps ErrUnsupportedFormat for errors.Is() compatibility.
	InvalidFormatError struct {
		Value Format
	}
)

// Error implements the error interface for InvalidFormatError.
func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("unsupported schema format %q (supported: cue, json, toml, hcl)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidFormatError) Unwrap() error {
	return ErrUnsupportedFormat
}

// IsValid returns whether the Format is one of the defined formats,
// and a list of validation errors if it is not.
func (f Format) IsValid() (bool, []error) {
	switch f {
	case FormatCUE, FormatJSON, FormatTOML, FormatHCL:
		return true, nil
	default:
		return false, []error{&InvalidFormatError{Value: f}}
	}
}

// String returns the string representation of the Format.
func (f Format) String() string { return string(f) }

// FormatOf maps a file name to its format by extension.
func FormatOf(path string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")))
	if ok, errs := f.IsValid(); !ok {
		return "", errs[0]
	}
	return f, nil
}

// Load reads a schema file, picking the decoder from its extension.
func Load(path string) (schema.Raw, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file '%s': %w", path, err)
	}
	return LoadBytes(data, format, path)
}

// LoadBytes decodes schema content in the given format. filename is used
// in error messages only.
func LoadBytes(data []byte, format Format, filename string) (schema.Raw, error) {
	if ok, errs := format.IsValid(); !ok {
		return nil, errors.Join(errs...)
	}

	switch format {
	case FormatCUE, FormatJSON:
		return validate(data, filename)
	case FormatTOML:
		var raw map[string]any
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		return revalidate(raw, filename)
	default:
		raw, err := decodeHCL(data, filename)
		if err != nil {
			return nil, err
		}
		return revalidate(raw, filename)
	}
}

func validate(data []byte, filename string) (schema.Raw, error) {
	result, err := cueutil.DecodeString[map[string]any](
		commandSchema,
		"#Command",
		data,
		cueutil.WithFilename(filename),
	)
	if err != nil {
		return nil, err
	}
	raw, _ := normalizeNumbers(*result.Value).(map[string]any)
	if raw == nil {
		raw = schema.Raw{}
	}
	return raw, nil
}

// revalidate runs a decoded TOML or HCL document through the CUE
// definition by way of its JSON form.
func revalidate(raw map[string]any, filename string) (schema.Raw, error) {
	if raw == nil {
		raw = map[string]any{}
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return validate(data, filename)
}

// normalizeNumbers turns every integer into float64, the representation
// the number coercion produces.
func normalizeNumbers(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, e := range x {
			x[k] = normalizeNumbers(e)
		}
		return x
	case []any:
		for i, e := range x {
			x[i] = normalizeNumbers(e)
		}
		return x
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case int32:
		return float64(x)
	case uint64:
		return float64(x)
	case float32:
		return float64(x)
	default:
		return v
	}
}
