package task

import (
	"fmt"
	"math"
)

// Kind is the scalar type of a transform parameter.
type Kind int

const (
	KindFloat Kind = iota
	KindInt
	KindString
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText encodes the kind by name in JSON and YAML output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Param describes one constructor argument of a transform.
type Param struct {
	Name        string `json:"name" yaml:"name"`
	Kind        Kind   `json:"kind" yaml:"kind"`
	Default     any    `json:"default,omitempty" yaml:"default,omitempty"`
	Required    bool   `json:"required" yaml:"required"`
	Description string `json:"description" yaml:"description"`
}

// Args holds validated parameter values keyed by name. Values have the Go
// type matching their Kind: float64, int, string or bool. Optional
// parameters without a default are absent.
type Args map[string]any

// Float returns the float parameter name, or 0 when absent.
func (a Args) Float(name string) float64 {
	v, _ := a[name].(float64)
	return v
}

// Int returns the int parameter name, or 0 when absent.
func (a Args) Int(name string) int {
	v, _ := a[name].(int)
	return v
}

// String returns the string parameter name, or "" when absent.
func (a Args) String(name string) string {
	v, _ := a[name].(string)
	return v
}

// Bool returns the bool parameter name, or false when absent.
func (a Args) Bool(name string) bool {
	v, _ := a[name].(bool)
	return v
}

// Has reports whether name was given or has a default.
func (a Args) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// bindArgs validates raw spec values against params. Unknown names are
// ignored; a null value counts as absent.
func bindArgs(params []Param, raw map[string]any) (Args, error) {
	args := make(Args, len(params))

	for _, p := range params {
		v, ok := raw[p.Name]
		if !ok || v == nil {
			switch {
			case p.Required:
				return nil, &ParamError{Param: p.Name, Reason: "missing required value"}
			case p.Default != nil:
				args[p.Name] = p.Default
			}
			continue
		}

		conv, err := convert(p.Kind, v)
		if err != nil {
			return nil, &ParamError{Param: p.Name, Reason: err.Error()}
		}

		args[p.Name] = conv
	}

	return args, nil
}

func convert(kind Kind, v any) (any, error) {
	switch kind {
	case KindFloat:
		switch x := v.(type) {
		case float64:
			return x, nil
		case float32:
			return float64(x), nil
		case int:
			return float64(x), nil
		case int64:
			return float64(x), nil
		case uint64:
			return float64(x), nil
		}
	case KindInt:
		switch x := v.(type) {
		case int:
			return x, nil
		case int64:
			return int(x), nil
		case uint64:
			if x <= math.MaxInt {
				return int(x), nil
			}
		case float64:
			if x == math.Trunc(x) && math.Abs(x) <= 1<<53 {
				return int(x), nil
			}
		}
	case KindString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case KindBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	}

	return nil, fmt.Errorf("want %s, got %T (%v)", kind, v, v)
}
