// SPDX-License-Identifier: MPL-2.0

package coerce

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

var (
	// decimalRegex matches the decimal number syntax accepted by the number coercion.
	decimalRegex = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
)

func parseString(raw string) (any, bool) {
	return raw, true
}

// parseNumber never fails: input that is not a number yields NaN, which
// validators may reject.
func parseNumber(raw string) (any, bool) {
	return toNumber(raw), true
}

func parseBoolean(raw string) (any, bool) {
	switch raw {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	if !math.IsNaN(toNumber(raw)) {
		n, ok := leadingInt(raw)
		return ok && n != 0, true
	}
	return raw != "", true
}

// parseDate treats numeric input as epoch milliseconds, truncated to its
// leading integer ("1.5" and "1e3" are both 1ms), and anything else as a
// calendar date in the local zone. Unparsable input yields the zero time.
func parseDate(raw string) (any, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, true
	}
	if !math.IsNaN(toNumber(s)) {
		ms, ok := leadingInt(s)
		if !ok {
			return time.Time{}, true
		}
		return time.UnixMilli(ms), true
	}
	t, err := cast.ToTimeInDefaultLocationE(s, time.Local)
	if err != nil {
		return time.Time{}, true
	}
	return t, true
}

func parseArray(raw string) (any, bool) {
	if v, err := ParseLiteral(raw); err == nil {
		if list, ok := v.([]any); ok {
			return list, true
		}
	}
	return []any{raw}, true
}

func parseObject(raw string) (any, bool) {
	v, err := ParseLiteral(raw)
	if err != nil {
		return nil, false
	}
	switch v := v.(type) {
	case map[string]any:
		return v, true
	case nil:
		return nil, true
	default:
		return nil, false
	}
}

// toNumber converts s the way a loosely typed numeric conversion would:
// blank is zero, 0x/0o/0b prefixes select a base, and anything else that is
// not a decimal literal is NaN.
func toNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return math.NaN()
			}
			return float64(n)
		}
	}

	if !decimalRegex.MatchString(s) {
		return math.NaN()
	}
	// Out-of-range input still returns ±Inf alongside ErrRange.
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

// leadingInt reads the integer prefix of s (sign, then hex or decimal digits),
// ignoring whatever follows. ok is false when no digit is present.
func leadingInt(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	base := 10
	if len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	}

	end := 0
	for end < len(s) && isDigit(s[end], base) {
		end++
	}
	if end == 0 {
		return 0, false
	}

	n, err := strconv.ParseInt(s[:end], base, 64)
	if err != nil {
		// Overflowing digit runs are still non-zero.
		n = math.MaxInt64
	}
	if neg {
		n = -n
	}
	return n, true
}

func isDigit(c byte, base int) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case base == 16 && c >= 'a' && c <= 'f', base == 16 && c >= 'A' && c <= 'F':
		return true
	default:
		return false
	}
}
