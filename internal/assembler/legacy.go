package assembler

import (
	"github.com/fjglira/GoE2E-DocResolver/internal/domain"
	"github.com/fjglira/GoE2E-DocResolver/internal/schema"
)

// Properties that only exist on v2 test objects.
var legacyMarkers = []string{"id", "file", "setup", "cleanup"}

func isLegacyTest(obj map[string]any) bool {
	for _, k := range legacyMarkers {
		if _, ok := obj[k]; ok {
			return true
		}
	}
	return false
}

// migrateLegacyTest converts a v2 test object to v3. A v2 test without steps
// is not migratable, so a placeholder step is added for the transform and
// removed from the result. obj is left untouched.
func migrateLegacyTest(m schema.Migrator, obj map[string]any) (map[string]any, error) {
	in := domain.CloneObject(obj)

	placeholder := false
	if steps, ok := in["steps"].([]any); !ok || len(steps) == 0 {
		in["steps"] = []any{map[string]any{"action": "goTo", "url": "https://example.com"}}
		placeholder = true
	}

	out, err := m.Transform(in, schema.TestV2, schema.TestV3)
	if err != nil {
		return nil, err
	}
	if placeholder {
		delete(out, "steps")
	}
	return out, nil
}
