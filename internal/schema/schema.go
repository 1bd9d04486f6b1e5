// Package schema validates and migrates step, test and spec objects.
//
// The resolver treats validation as a black box: given a schema key and an
// object it gets back a verdict plus a normalized copy of the object. The
// built-in Registry implements the keys the resolver uses.
package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fjglira/GoE2E-DocResolver/internal/domain"
)

// Schema keys.
const (
	StepV2 = "step_v2"
	StepV3 = "step_v3"
	TestV2 = "test_v2"
	TestV3 = "test_v3"
	SpecV3 = "spec_v3"
)

// Result is the outcome of a validation.
type Result struct {
	Valid  bool
	Errors []string
	// Object is a normalized deep copy of the input, set when Valid.
	Object map[string]any
}

// Validator checks an object against a named schema.
type Validator interface {
	Validate(schemaKey string, object map[string]any) Result
}

// Migrator transforms an object from one schema shape to another.
type Migrator interface {
	Transform(object map[string]any, fromSchema, toSchema string) (map[string]any, error)
}

// Registry is the built-in Validator and Migrator.
type Registry struct{}

// New returns the built-in schema registry.
func New() *Registry {
	return &Registry{}
}

// Validate implements Validator.
func (r *Registry) Validate(schemaKey string, object map[string]any) Result {
	if object == nil {
		return invalid("object is nil")
	}
	obj := domain.CloneObject(object)

	var errs []string
	switch schemaKey {
	case StepV3:
		errs = validateStep(obj)
	case TestV3:
		errs = validateTest(r, obj)
	case SpecV3:
		errs = validateSpec(r, obj)
	default:
		errs = []string{fmt.Sprintf("unknown schema %q", schemaKey)}
	}

	if len(errs) > 0 {
		return Result{Valid: false, Errors: errs}
	}
	return Result{Valid: true, Object: obj}
}

func invalid(format string, args ...any) Result {
	return Result{Valid: false, Errors: []string{fmt.Sprintf(format, args...)}}
}

// kind is the JSON type of a decoded value.
type kind string

const (
	kString  kind = "string"
	kNumber  kind = "number"
	kBool    kind = "boolean"
	kObject  kind = "object"
	kArray   kind = "array"
	kNull    kind = "null"
	kUnknown kind = "unknown"
)

func kindOf(v any) kind {
	switch v.(type) {
	case string:
		return kString
	case int, int64, uint64, float64, float32, int32, uint32, uint, int8, int16, uint8, uint16:
		return kNumber
	case bool:
		return kBool
	case map[string]any, domain.Step:
		return kObject
	case []any:
		return kArray
	case nil:
		return kNull
	default:
		return kUnknown
	}
}

func oneOf(v any, kinds ...kind) bool {
	k := kindOf(v)
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}

func kindList(kinds []kind) string {
	s := make([]string, len(kinds))
	for i, k := range kinds {
		s[i] = string(k)
	}
	return strings.Join(s, " or ")
}

// field describes one allowed property of an object schema.
type field struct {
	kinds    []kind
	required bool
}

// checkFields reports missing required fields, unknown fields and kind
// mismatches, in key order.
func checkFields(where string, obj map[string]any, fields map[string]field) []string {
	var errs []string
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		f, ok := fields[k]
		if !ok {
			errs = append(errs, fmt.Sprintf("%s: unknown property %q", where, k))
			continue
		}
		if !oneOf(obj[k], f.kinds...) {
			errs = append(errs, fmt.Sprintf("%s.%s: expected %s, got %s", where, k, kindList(f.kinds), kindOf(obj[k])))
		}
	}

	required := make([]string, 0)
	for name, f := range fields {
		if f.required {
			if _, ok := obj[name]; !ok {
				required = append(required, name)
			}
		}
	}
	sort.Strings(required)
	for _, name := range required {
		errs = append(errs, fmt.Sprintf("%s: missing required property %q", where, name))
	}
	return errs
}
