package schema

import (
	"fmt"
	"strings"

	"github.com/fjglira/GoE2E-DocResolver/internal/domain"
)

// Transform implements Migrator. Supported paths are test_v2 to test_v3 and
// step_v2 to step_v3. The input is never modified.
func (r *Registry) Transform(object map[string]any, fromSchema, toSchema string) (map[string]any, error) {
	if object == nil {
		return nil, fmt.Errorf("transform %s to %s: object is nil", fromSchema, toSchema)
	}
	obj := domain.CloneObject(object)

	switch {
	case fromSchema == TestV2 && toSchema == TestV3:
		return migrateTest(obj)
	case fromSchema == StepV2 && toSchema == StepV3:
		return migrateStep(obj)
	case fromSchema == toSchema:
		return obj, nil
	}
	return nil, fmt.Errorf("no migration from %s to %s", fromSchema, toSchema)
}

func migrateTest(obj map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(obj))
	for k, v := range obj {
		switch k {
		case "id":
			out["testId"] = v
		case "setup":
			out["before"] = v
		case "cleanup":
			out["after"] = v
		case "file":
			// v2 tests could point at an external file; v3 has no equivalent.
		case "contexts":
			runOn, err := migrateContexts(v)
			if err != nil {
				return nil, err
			}
			out["runOn"] = runOn
		case "steps":
			steps, ok := v.([]any)
			if !ok {
				return nil, fmt.Errorf("test.steps: expected array, got %s", kindOf(v))
			}
			migrated := make([]any, 0, len(steps))
			for i, s := range steps {
				stepObj, ok := asObject(s)
				if !ok {
					return nil, fmt.Errorf("test.steps[%d]: expected object, got %s", i, kindOf(s))
				}
				step, err := migrateStep(stepObj)
				if err != nil {
					return nil, fmt.Errorf("test.steps[%d]: %w", i, err)
				}
				migrated = append(migrated, step)
			}
			out["steps"] = migrated
		default:
			out[k] = v
		}
	}
	return out, nil
}

// migrateContexts turns v2 contexts ({app: {name}, platforms}) into run targets.
func migrateContexts(v any) ([]any, error) {
	contexts, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("test.contexts: expected array, got %s", kindOf(v))
	}
	targets := make([]any, 0, len(contexts))
	for i, c := range contexts {
		ctx, ok := asObject(c)
		if !ok {
			return nil, fmt.Errorf("test.contexts[%d]: expected object, got %s", i, kindOf(c))
		}
		target := map[string]any{}
		if p, ok := ctx["platforms"]; ok {
			target["platforms"] = p
		}
		if app, ok := asObject(ctx["app"]); ok {
			if name, ok := app["name"].(string); ok && name != "" {
				browser := map[string]any{"name": name}
				if opts, ok := asObject(app["options"]); ok {
					for _, k := range []string{"headless", "width", "height"} {
						if val, ok := opts[k]; ok {
							if k == "headless" {
								browser[k] = val
								continue
							}
							win, _ := browser["window"].(map[string]any)
							if win == nil {
								win = map[string]any{}
								browser["window"] = win
							}
							win[k] = val
						}
					}
				}
				target["browsers"] = []any{browser}
			}
		}
		targets = append(targets, target)
	}
	return targets, nil
}

// v2 action names that were renamed in v3.
var actionRenames = map[string]string{
	"typeKeys":       "type",
	"saveScreenshot": "screenshot",
	"startRecording": "record",
	"stopRecording":  "stopRecord",
	"setVariables":   "loadVariables",
}

// v2 property names that moved inside an action object.
var propertyRenames = map[string]string{
	"matchText": "elementText",
	"typeKeys":  "type",
}

func migrateStep(obj map[string]any) (map[string]any, error) {
	action, ok := obj["action"].(string)
	if !ok || strings.TrimSpace(action) == "" {
		return nil, fmt.Errorf("step: missing v2 action")
	}
	name := action
	if renamed, ok := actionRenames[action]; ok {
		name = renamed
	}
	if _, known := actionRules[name]; !known {
		return nil, fmt.Errorf("step: unknown v2 action %q", action)
	}

	out := map[string]any{}
	body := map[string]any{}
	for k, v := range obj {
		switch k {
		case "action":
		case "id":
			out["stepId"] = v
		case "description":
			out["description"] = v
		default:
			if renamed, ok := propertyRenames[k]; ok {
				k = renamed
			}
			body[k] = v
		}
	}

	switch name {
	case "stopRecord":
		out[name] = true
	case "loadVariables":
		path, ok := body["path"].(string)
		if !ok {
			return nil, fmt.Errorf("step: %s requires a path", action)
		}
		out[name] = path
	case "wait":
		if d, ok := body["duration"]; ok {
			out[name] = d
		} else {
			out[name] = true
		}
	case "httpRequest":
		out[name] = migrateHTTPRequest(body)
	case "screenshot", "record":
		if len(body) == 0 {
			out[name] = true
		} else {
			out[name] = body
		}
	default:
		out[name] = body
	}
	return out, nil
}

// migrateHTTPRequest nests the flat v2 request and response properties.
func migrateHTTPRequest(body map[string]any) map[string]any {
	moves := map[string][2]string{
		"requestHeaders":  {"request", "headers"},
		"requestData":     {"request", "body"},
		"requestParams":   {"request", "parameters"},
		"responseHeaders": {"response", "headers"},
		"responseData":    {"response", "body"},
	}
	out := make(map[string]any, len(body))
	for k, v := range body {
		dest, ok := moves[k]
		if !ok {
			out[k] = v
			continue
		}
		group, _ := out[dest[0]].(map[string]any)
		if group == nil {
			group = map[string]any{}
			out[dest[0]] = group
		}
		group[dest[1]] = v
	}
	return out
}
