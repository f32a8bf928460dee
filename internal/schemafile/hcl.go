// SPDX-License-Identifier: MPL-2.0

package schemafile

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

type (
	// hclRoot is the top level of an HCL schema:
	//
	//	brief          = "Add numbers."
	//	default_option = "number"
	//
	//	group "math" {
	//	  title = "Math Options"
	//	}
	//
	//	option "number" {
	//	  alias    = "n"
	//	  type     = "number"
	//	  multiple = true
	//	  group    = "math"
	//	}
	//
	//	section {
	//	  title = "Examples"
	//	  body  = "sum -n 1 -n 2"
	//	}
	hclRoot struct {
		Brief         *string       `hcl:"brief,optional"`
		Description   *string       `hcl:"description,optional"`
		DefaultOption *string       `hcl:"default_option,optional"`
		Synopsis      []string      `hcl:"synopsis,optional"`
		Groups        []*hclGroup   `hcl:"group,block"`
		Options       []*hclOption  `hcl:"option,block"`
		Sections      []*hclSection `hcl:"section,block"`
	}

	hclGroup struct {
		Name        string  `hcl:"name,label"`
		Title       *string `hcl:"title,optional"`
		Description *string `hcl:"description,optional"`
	}

	hclOption struct {
		Name        string    `hcl:"name,label"`
		Alias       *string   `hcl:"alias,optional"`
		Description *string   `hcl:"description,optional"`
		Env         *string   `hcl:"env,optional"`
		Group       *string   `hcl:"group,optional"`
		Pattern     *string   `hcl:"pattern,optional"`
		Type        *string   `hcl:"type,optional"`
		Hidden      *bool     `hcl:"hidden,optional"`
		Multiple    *bool     `hcl:"multiple,optional"`
		Required    *bool     `hcl:"required,optional"`
		Default     cty.Value `hcl:"default,optional"`
	}

	hclSection struct {
		Title *string `hcl:"title,optional"`
		Body  string  `hcl:"body"`
	}
)

func decodeHCL(data []byte, filename string) (map[string]any, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL schema %s: %w", filename, diags)
	}

	var root hclRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL schema %s: %w", filename, diags)
	}

	raw := map[string]any{}
	setString(raw, "brief", root.Brief)
	setString(raw, "description", root.Description)
	setString(raw, "defaultOption", root.DefaultOption)
	if root.Synopsis != nil {
		synopsis := make([]any, len(root.Synopsis))
		for i, s := range root.Synopsis {
			synopsis[i] = s
		}
		raw["synopsis"] = synopsis
	}

	if len(root.Groups) > 0 {
		groups := make([]any, 0, len(root.Groups))
		for _, g := range root.Groups {
			m := map[string]any{"name": g.Name}
			setString(m, "title", g.Title)
			setString(m, "description", g.Description)
			groups = append(groups, m)
		}
		raw["groups"] = groups
	}

	if len(root.Options) > 0 {
		options := make(map[string]any, len(root.Options))
		for _, o := range root.Options {
			if _, dup := options[o.Name]; dup {
				return nil, fmt.Errorf("%s: option %q is declared more than once", filename, o.Name)
			}
			m, err := o.toRaw()
			if err != nil {
				return nil, fmt.Errorf("%s: option %q: %w", filename, o.Name, err)
			}
			options[o.Name] = m
		}
		raw["options"] = options
	}

	if len(root.Sections) > 0 {
		sections := make([]any, 0, len(root.Sections))
		for _, s := range root.Sections {
			m := map[string]any{"body": s.Body}
			setString(m, "title", s.Title)
			sections = append(sections, m)
		}
		raw["sections"] = sections
	}

	return raw, nil
}

func (o *hclOption) toRaw() (map[string]any, error) {
	m := map[string]any{}
	setString(m, "alias", o.Alias)
	setString(m, "description", o.Description)
	setString(m, "env", o.Env)
	setString(m, "group", o.Group)
	setString(m, "pattern", o.Pattern)
	setString(m, "type", o.Type)
	setBool(m, "hidden", o.Hidden)
	setBool(m, "multiple", o.Multiple)
	setBool(m, "required", o.Required)

	if !o.Default.IsNull() {
		v, err := ctyToNative(o.Default)
		if err != nil {
			return nil, fmt.Errorf("default: %w", err)
		}
		m["defaultValue"] = v
	}
	return m, nil
}

// ctyToNative converts a cty value to plain Go: strings, float64, bool,
// []any and map[string]any.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("could not convert number to float64: %w", err)
		}
		return f, nil

	case ty == cty.Bool:
		return v.True(), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, native)
		}
		return out, nil

	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any)
		for it := v.ElementIterator(); it.Next(); {
			key, elem := it.Element()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, fmt.Errorf("in attribute '%s': %w", key.AsString(), err)
			}
			out[key.AsString()] = native
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}

func setString(m map[string]any, key string, v *string) {
	if v != nil {
		m[key] = *v
	}
}

func setBool(m map[string]any, key string, v *bool) {
	if v != nil {
		m[key] = *v
	}
}
