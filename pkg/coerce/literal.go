// SPDX-License-Identifier: MPL-2.0

package coerce

import (
	"errors"
	"fmt"
	"math"

	"cuelang.org/go/cue/ast"
	"cuelang.org/go/cue/literal"
	"cuelang.org/go/cue/parser"
	"cuelang.org/go/cue/token"
)

// ErrNotLiteral is returned by ParseLiteral when the input contains anything
// other than literal values.
var ErrNotLiteral = errors.New("not a literal value")

// NotLiteralError describes the first non-literal construct found in the input.
// It wraps ErrNotLiteral for errors.Is() compatibility.
type NotLiteralError struct {
	Input  string
	Reason string
}

// Error implements the error interface for NotLiteralError.
func (e *NotLiteralError) Error() string {
	return fmt.Sprintf("%q is not a literal: %s", e.Input, e.Reason)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *NotLiteralError) Unwrap() error {
	return ErrNotLiteral
}

// ParseLiteral parses s as a literal value: numbers (float64), strings,
// booleans, null (nil), lists ([]any) and structs (map[string]any) nested to
// any depth. Struct labels may be bare identifiers or quoted strings, and
// strings may use single, double or triple quotes, so both JSON text and
// relaxed forms such as `{ age: 5, tags: ['a', 'b'] }` are accepted.
//
// Identifiers, references, operators (other than a numeric sign), calls,
// interpolations and comprehensions are rejected.
func ParseLiteral(s string) (any, error) {
	expr, err := parser.ParseExpr("literal", s)
	if err != nil {
		return nil, &NotLiteralError{Input: s, Reason: err.Error()}
	}
	v, reason := literalValue(expr)
	if reason != "" {
		return nil, &NotLiteralError{Input: s, Reason: reason}
	}
	return v, nil
}

// literalValue walks expr and returns its Go value, or a non-empty reason
// describing why expr is not a literal.
func literalValue(expr ast.Expr) (any, string) {
	switch x := expr.(type) {
	case *ast.ParenExpr:
		return literalValue(x.X)

	case *ast.BasicLit:
		return basicValue(x)

	case *ast.Ident:
		switch x.Name {
		case "true":
			return true, ""
		case "false":
			return false, ""
		case "null":
			return nil, ""
		}
		return nil, fmt.Sprintf("identifier %q is not allowed", x.Name)

	case *ast.UnaryExpr:
		if x.Op != token.SUB && x.Op != token.ADD {
			return nil, fmt.Sprintf("operator %s is not allowed", x.Op)
		}
		lit, ok := x.X.(*ast.BasicLit)
		if !ok || (lit.Kind != token.INT && lit.Kind != token.FLOAT) {
			return nil, "sign must precede a number"
		}
		v, reason := basicValue(lit)
		if reason != "" {
			return nil, reason
		}
		f := v.(float64)
		if x.Op == token.SUB {
			f = -f
		}
		return f, ""

	case *ast.ListLit:
		list := make([]any, 0, len(x.Elts))
		for _, elt := range x.Elts {
			v, reason := literalValue(elt)
			if reason != "" {
				return nil, reason
			}
			list = append(list, v)
		}
		return list, ""

	case *ast.StructLit:
		obj := make(map[string]any, len(x.Elts))
		for _, decl := range x.Elts {
			field, ok := decl.(*ast.Field)
			if !ok {
				return nil, "structs may only contain fields"
			}
			if field.Constraint != token.ILLEGAL || len(field.Attrs) > 0 {
				return nil, "field constraints and attributes are not allowed"
			}
			name, _, err := ast.LabelName(field.Label)
			if err != nil {
				return nil, "field labels must be identifiers or quoted strings"
			}
			v, reason := literalValue(field.Value)
			if reason != "" {
				return nil, reason
			}
			obj[name] = v
		}
		return obj, ""

	case *ast.Interpolation:
		return nil, "string interpolation is not allowed"

	default:
		return nil, fmt.Sprintf("%T is not allowed", expr)
	}
}

func basicValue(lit *ast.BasicLit) (any, string) {
	switch lit.Kind {
	case token.TRUE:
		return true, ""
	case token.FALSE:
		return false, ""
	case token.NULL:
		return nil, ""
	case token.STRING:
		s, err := literal.Unquote(lit.Value)
		if err != nil {
			return nil, fmt.Sprintf("invalid string %s: %v", lit.Value, err)
		}
		return s, ""
	case token.INT, token.FLOAT:
		f := toNumber(lit.Value)
		if math.IsNaN(f) {
			return nil, fmt.Sprintf("unsupported number syntax %s", lit.Value)
		}
		return f, ""
	default:
		return nil, fmt.Sprintf("unsupported literal %s", lit.Value)
	}
}
