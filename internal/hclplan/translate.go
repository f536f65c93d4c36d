package hclplan

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/vmelnyk/planweave/internal/engine"
)

// Attributes recognized inside an activity block.
const (
	attrDuration     = "duration"
	attrStart        = "start"
	attrPredecessors = "predecessors"
)

// seed creates every activity first, then wires predecessors in a second
// pass so forward references between blocks work regardless of file order.
func (l *Loader) seed(ctx context.Context, eng *engine.Engine, blocks []*activityBlock) ([]engine.Warning, error) {
	var warnings []engine.Warning

	type pendingPreds struct {
		id     string
		tokens []string
	}

	idByName := make(map[string]string, len(blocks))
	var pending []pendingPreds

	for _, block := range blocks {
		if _, dup := idByName[block.Name]; dup {
			return nil, fmt.Errorf("duplicate activity name %q: names are the reference keys of a plan", block.Name)
		}

		id, err := eng.AddActivity(ctx)
		if err != nil {
			return nil, err
		}
		idByName[block.Name] = id

		if _, err := eng.ApplyEdit(ctx, id, engine.FieldName, block.Name); err != nil {
			return nil, err
		}

		attrs, diags := block.Body.JustAttributes()
		if diags.HasErrors() {
			return nil, fmt.Errorf("invalid activity block %q: %w", block.Name, diags)
		}

		for name := range attrs {
			switch name {
			case attrDuration, attrStart, attrPredecessors:
			default:
				return nil, fmt.Errorf("activity %q: unsupported attribute %q", block.Name, name)
			}
		}

		if attr, ok := attrs[attrDuration]; ok {
			val, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				return nil, fmt.Errorf("activity %q: cannot evaluate duration: %w", block.Name, diags)
			}
			raw, err := durationText(val)
			if err != nil {
				return nil, fmt.Errorf("activity %q: %w", block.Name, err)
			}
			res, err := eng.ApplyEdit(ctx, id, engine.FieldDuration, raw)
			if err != nil {
				return nil, err
			}
			warnings = append(warnings, res.Warnings...)
		}

		if attr, ok := attrs[attrStart]; ok {
			val, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				return nil, fmt.Errorf("activity %q: cannot evaluate start: %w", block.Name, diags)
			}
			raw, err := stringValue(val, attrStart)
			if err != nil {
				return nil, fmt.Errorf("activity %q: %w", block.Name, err)
			}
			res, err := eng.ApplyEdit(ctx, id, engine.FieldStart, raw)
			if err != nil {
				return nil, err
			}
			warnings = append(warnings, res.Warnings...)
		}

		if attr, ok := attrs[attrPredecessors]; ok {
			val, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				return nil, fmt.Errorf("activity %q: cannot evaluate predecessors: %w", block.Name, diags)
			}
			tokens, err := stringListValue(val)
			if err != nil {
				return nil, fmt.Errorf("activity %q: %w", block.Name, err)
			}
			pending = append(pending, pendingPreds{id: id, tokens: tokens})
		}
	}

	// Second pass: translate name references to ids and apply. Tokens that
	// match no name pass through verbatim; the engine reports them as
	// dangling references rather than failing the load.
	for _, p := range pending {
		ids := make([]string, 0, len(p.tokens))
		for _, token := range p.tokens {
			if ref, ok := idByName[token]; ok {
				ids = append(ids, ref)
			} else {
				ids = append(ids, token)
			}
		}
		res, err := eng.ApplyEdit(ctx, p.id, engine.FieldPredecessors, strings.Join(ids, ";"))
		if err != nil {
			return nil, err
		}
		warnings = append(warnings, res.Warnings...)
	}

	return warnings, nil
}

// durationText converts a duration attribute value to the raw text form the
// engine's edit boundary expects.
func durationText(val cty.Value) (string, error) {
	num, err := convert.Convert(val, cty.Number)
	if err != nil {
		return "", fmt.Errorf("duration must be a number: %w", err)
	}
	var d int
	if err := gocty.FromCtyValue(num, &d); err != nil {
		return "", fmt.Errorf("duration must be a whole number of days: %w", err)
	}
	return strconv.Itoa(d), nil
}

// stringValue converts an attribute value to a string.
func stringValue(val cty.Value, attr string) (string, error) {
	s, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", fmt.Errorf("%s must be a string: %w", attr, err)
	}
	if s.IsNull() {
		return "", fmt.Errorf("%s must not be null", attr)
	}
	return s.AsString(), nil
}

// stringListValue converts an attribute value to a list of strings.
func stringListValue(val cty.Value) ([]string, error) {
	list, err := convert.Convert(val, cty.List(cty.String))
	if err != nil {
		return nil, fmt.Errorf("predecessors must be a list of strings: %w", err)
	}
	if list.IsNull() {
		return nil, nil
	}
	var out []string
	for it := list.ElementIterator(); it.Next(); {
		_, v := it.Element()
		if v.IsNull() {
			continue
		}
		out = append(out, v.AsString())
	}
	return out, nil
}
