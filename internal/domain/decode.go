package domain

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseObject decodes statement content written as JSON or YAML into an
// object. Anything that does not decode to a mapping is an error.
func ParseObject(content string) (map[string]any, error) {
	v, err := ParseDocument([]byte(content))
	if err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected an object, got %T", v)
	}
	return obj, nil
}

// ParseDocument decodes JSON or YAML data into generic values. Mapping keys
// are always strings, so YAML keys such as 200 become "200".
func ParseDocument(data []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return stringKeys(v), nil
}

func stringKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = stringKeys(val)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = stringKeys(val)
		}
		return out
	case []any:
		for i, val := range t {
			t[i] = stringKeys(val)
		}
		return t
	default:
		return v
	}
}

// DecodeObject converts a generic object into a typed value through its YAML
// representation, so the custom unmarshalers apply.
func DecodeObject(obj map[string]any, out any) error {
	data, err := yaml.Marshal(obj)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, out)
}

// CloneObject deep-copies a generic object.
func CloneObject(obj map[string]any) map[string]any {
	if obj == nil {
		return nil
	}
	return CloneValue(obj).(map[string]any)
}

// CloneValue deep-copies maps and slices produced by YAML/JSON decoding.
func CloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = CloneValue(val)
		}
		return out
	case Step:
		return Step(CloneValue(map[string]any(t)).(map[string]any))
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = CloneValue(val)
		}
		return out
	default:
		return v
	}
}
