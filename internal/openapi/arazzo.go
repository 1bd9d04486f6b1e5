package openapi

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/fjglira/GoE2E-DocResolver/internal/domain"
)

// IsArazzo reports whether a decoded document is an Arazzo description.
func IsArazzo(doc map[string]any) bool {
	_, ok := doc["arazzo"].(string)
	return ok
}

var statusCriterionRe = regexp.MustCompile(`^\s*\$statusCode\s*==\s*(\d{3})\s*$`)

// SpecFromArazzo builds a spec from an Arazzo description read from path.
// Each workflow becomes a test and each operation step an httpRequest step
// bound to the source description by operationId. Steps that call other
// workflows or address operations by path are skipped, as are workflows left
// with no steps.
func SpecFromArazzo(doc map[string]any, path string) (domain.Spec, error) {
	if !IsArazzo(doc) {
		return domain.Spec{}, domain.NewError("parse", path, 0, "not an Arazzo description", nil)
	}

	spec := domain.Spec{ContentPath: path}
	if info, ok := doc["info"].(map[string]any); ok {
		spec.Description, _ = info["title"].(string)
	}

	sources, _ := doc["sourceDescriptions"].([]any)
	defaultSource := ""
	for _, s := range sources {
		src, ok := s.(map[string]any)
		if !ok {
			continue
		}
		name, _ := src["name"].(string)
		location, _ := src["url"].(string)
		kind, _ := src["type"].(string)
		if name == "" || location == "" || (kind != "" && kind != "openapi") {
			continue
		}
		if !isURL(location) && !filepath.IsAbs(location) {
			location = filepath.Join(filepath.Dir(path), location)
		}
		spec.OpenAPI = append(spec.OpenAPI, domain.ExternalDoc{Name: name, DescriptionPath: location})
		if defaultSource == "" {
			defaultSource = name
		}
	}

	workflows, _ := doc["workflows"].([]any)
	for i, w := range workflows {
		wf, ok := w.(map[string]any)
		if !ok {
			return domain.Spec{}, domain.NewError("parse", path, 0, fmt.Sprintf("workflows[%d] is not an object", i), nil)
		}
		test := domain.Test{ContentPath: path}
		test.TestID, _ = wf["workflowId"].(string)
		test.Description, _ = wf["summary"].(string)
		if test.Description == "" {
			test.Description, _ = wf["description"].(string)
		}

		steps, _ := wf["steps"].([]any)
		for _, s := range steps {
			st, ok := s.(map[string]any)
			if !ok {
				continue
			}
			if step := arazzoStep(st, defaultSource); step != nil {
				test.Steps = append(test.Steps, step)
			}
		}
		if len(test.Steps) > 0 {
			spec.Tests = append(spec.Tests, test)
		}
	}
	return spec, nil
}

func arazzoStep(st map[string]any, defaultSource string) domain.Step {
	opID, _ := st["operationId"].(string)
	if opID == "" {
		return nil
	}

	ref := map[string]any{}
	source := defaultSource
	// $sourceDescriptions.<name>.<operationId>
	if rest, ok := strings.CutPrefix(opID, "$sourceDescriptions."); ok {
		if name, id, found := strings.Cut(rest, "."); found {
			source, opID = name, id
		}
	}
	ref["operationId"] = opID
	if source != "" {
		ref["name"] = source
	}

	req := map[string]any{"openApi": ref}
	request := map[string]any{}
	if params, ok := st["parameters"].([]any); ok {
		for _, p := range params {
			param, ok := p.(map[string]any)
			if !ok {
				continue
			}
			name, _ := param["name"].(string)
			if name == "" {
				continue
			}
			group := "parameters"
			if in, _ := param["in"].(string); in == "header" {
				group = "headers"
			}
			values, _ := request[group].(map[string]any)
			if values == nil {
				values = map[string]any{}
				request[group] = values
			}
			values[name] = param["value"]
		}
	}
	if body, ok := st["requestBody"].(map[string]any); ok {
		if payload, ok := body["payload"]; ok {
			request["body"] = payload
		}
	}
	if len(request) > 0 {
		req["request"] = request
	}

	var codes []any
	if criteria, ok := st["successCriteria"].([]any); ok {
		for _, c := range criteria {
			crit, ok := c.(map[string]any)
			if !ok {
				continue
			}
			cond, _ := crit["condition"].(string)
			if m := statusCriterionRe.FindStringSubmatch(cond); m != nil {
				code, _ := strconv.Atoi(m[1])
				codes = append(codes, code)
			}
		}
	}
	if len(codes) > 0 {
		req["statusCodes"] = codes
	}

	step := domain.Step{"httpRequest": req}
	if id, ok := st["stepId"].(string); ok && id != "" {
		step["stepId"] = id
	}
	if desc, ok := st["description"].(string); ok && desc != "" {
		step["description"] = desc
	}
	return step
}
