// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/format"
	"github.com/davecgh/go-spew/spew"
	"github.com/pelletier/go-toml/v2"

	"github.com/argweave/argweave/internal/config"
	"github.com/argweave/argweave/pkg/resolve"
)

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// writeValues prints resolved values in the requested format.
func writeValues(w io.Writer, f config.OutputFormat, values resolve.Values) error {
	if values == nil {
		values = resolve.Values{}
	}

	switch f {
	case config.OutputTOML:
		// TOML has no null.
		doc := make(map[string]any, len(values))
		for k, v := range values {
			if v != nil {
				doc[k] = v
			}
		}
		out, err := toml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("encode TOML: %w", err)
		}
		_, err = w.Write(out)
		return err
	case config.OutputCUE:
		v := cuecontext.New().Encode(portable(map[string]any(values), false))
		if err := v.Err(); err != nil {
			return fmt.Errorf("encode CUE: %w", err)
		}
		out, err := format.Node(v.Syntax())
		if err != nil {
			return fmt.Errorf("format CUE: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", out)
		return err
	case config.OutputDump:
		dumpConfig.Fdump(w, map[string]any(values))
		return nil
	default:
		out, err := json.MarshalIndent(portable(map[string]any(values), true), "", "  ")
		if err != nil {
			return fmt.Errorf("encode JSON: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", out)
		return err
	}
}

// portable rewrites the values JSON and CUE cannot represent: non-finite
// numbers become strings, as do dates unless keepDates is set.
func portable(v any, keepDates bool) any {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return strconv.FormatFloat(t, 'g', -1, 64)
		}
		return t
	case time.Time:
		if keepDates {
			return t
		}
		return t.Format(time.RFC3339Nano)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = portable(e, keepDates)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = portable(e, keepDates)
		}
		return out
	default:
		return v
	}
}
