package main

import (
	"fmt"

	"github.com/chronodb/chrono/triple"
	"github.com/chronodb/chrono/tx"
)

// parseOps converts JSON-decoded values into tx.Op values. Since the EDN
// reader is explicitly out of scope, this CLI accepts the JSON-shaped
// equivalent of spec.md §4.5's operation forms: a map becomes a
// tx.MapEntity, and an array becomes whichever vector op its leading
// string names.
func parseOps(raw []any) ([]tx.Op, error) {
	ops := make([]tx.Op, 0, len(raw))
	for _, r := range raw {
		op, err := parseOp(r)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func parseOp(r any) (tx.Op, error) {
	switch t := r.(type) {
	case map[string]any:
		return parseMapEntity(t), nil
	case []any:
		return parseVectorOp(t)
	default:
		return nil, fmt.Errorf("triplectl: unrecognized operation form %v (%T)", r, r)
	}
}

func parseMapEntity(m map[string]any) tx.MapEntity {
	out := make(tx.MapEntity, len(m))
	for k, v := range m {
		if k == ":db/id" {
			out[tx.IdentKey] = parseValue(v)
			continue
		}
		out[triple.NewKeyword(k)] = parseValue(v)
	}
	return out
}

// parseValue recursively normalizes a JSON-decoded value: nested maps
// become tx.MapEntity, nested arrays are parsed element-wise, and
// encoding/json's float64 numbers are narrowed back to int64 when they
// carry no fractional part (every id and long in this CLI's input format
// is an integer).
func parseValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return parseMapEntity(t)
	case []any:
		// A 2-element array whose first element is a string is treated as
		// a [attr value] lookup ref rather than a plain 2-element
		// collection, since that's the only 2-element form spec.md §4.4
		// gives a meaning to. A genuine 2-valued multivalued attribute
		// collection of that exact shape isn't representable through this
		// CLI's JSON dialect.
		if len(t) == 2 {
			if head, ok := t[0].(string); ok {
				return []any{triple.NewKeyword(head), parseValue(t[1])}
			}
		}
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = parseValue(e)
		}
		return out
	case float64:
		if t == float64(int64(t)) {
			return int64(t)
		}
		return t
	default:
		return t
	}
}

func parseVectorOp(v []any) (tx.Op, error) {
	if len(v) == 0 {
		return nil, fmt.Errorf("triplectl: empty vector operation")
	}
	head, ok := v[0].(string)
	if !ok {
		return nil, fmt.Errorf("triplectl: vector operation must start with a string ident, got %T", v[0])
	}

	args := v[1:]
	switch head {
	case ":db/add":
		if len(args) != 3 {
			return nil, fmt.Errorf(":db/add requires 3 arguments, got %d", len(args))
		}
		return tx.AddOp{E: parseValue(args[0]), A: args[1], V: parseValue(args[2])}, nil
	case ":db/retract":
		if len(args) != 3 {
			return nil, fmt.Errorf(":db/retract requires 3 arguments, got %d", len(args))
		}
		return tx.RetractOp{E: parseValue(args[0]), A: args[1], V: parseValue(args[2])}, nil
	case ":db.fn/retractAttribute":
		if len(args) != 2 {
			return nil, fmt.Errorf(":db.fn/retractAttribute requires 2 arguments, got %d", len(args))
		}
		return tx.RetractAttributeOp{E: parseValue(args[0]), A: args[1]}, nil
	case ":db.fn/retractEntity":
		if len(args) != 1 {
			return nil, fmt.Errorf(":db.fn/retractEntity requires 1 argument, got %d", len(args))
		}
		return tx.RetractEntityOp{E: parseValue(args[0])}, nil
	case ":db.fn/cas", ":db/cas":
		if len(args) != 4 {
			return nil, fmt.Errorf("%s requires 4 arguments, got %d", head, len(args))
		}
		return tx.CasOp{E: parseValue(args[0]), A: args[1], Old: parseValue(args[2]), New: parseValue(args[3])}, nil
	default:
		parsedArgs := make([]any, len(args))
		for i, a := range args {
			parsedArgs[i] = parseValue(a)
		}
		return tx.FnCallOp{Ident: triple.NewKeyword(head), Args: parsedArgs}, nil
	}
}
