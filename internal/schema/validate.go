package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fjglira/GoE2E-DocResolver/internal/domain"
)

var stepCommonFields = map[string]field{
	"stepId":      {kinds: []kind{kString}},
	"description": {kinds: []kind{kString}},
	"unsafe":      {kinds: []kind{kBool}},
	"outputs":     {kinds: []kind{kObject}},
	"variables":   {kinds: []kind{kObject}},
	"breakpoint":  {kinds: []kind{kBool}},
	"location":    {kinds: []kind{kObject}},
}

// actionRule constrains the value of one action key. requires lists the
// properties an object-form value must carry (any one of them suffices).
type actionRule struct {
	kinds    []kind
	requires []string
}

var actionRules = map[string]actionRule{
	"checkLink":     {kinds: []kind{kString, kObject}, requires: []string{"url"}},
	"click":         {kinds: []kind{kString, kObject}},
	"dragAndDrop":   {kinds: []kind{kObject}, requires: []string{"source"}},
	"find":          {kinds: []kind{kString, kObject}},
	"goTo":          {kinds: []kind{kString, kObject}, requires: []string{"url"}},
	"httpRequest":   {kinds: []kind{kString, kObject}, requires: []string{"url", "openApi"}},
	"loadCookie":    {kinds: []kind{kString, kObject}},
	"loadVariables": {kinds: []kind{kString}},
	"record":        {kinds: []kind{kString, kObject, kBool}},
	"runCode":       {kinds: []kind{kObject}, requires: []string{"code"}},
	"runShell":      {kinds: []kind{kString, kObject}, requires: []string{"command"}},
	"saveCookie":    {kinds: []kind{kString, kObject}},
	"screenshot":    {kinds: []kind{kString, kObject, kBool}},
	"stopRecord":    {kinds: []kind{kBool}},
	"type":          {kinds: []kind{kString, kArray, kObject}, requires: []string{"keys"}},
	"wait":          {kinds: []kind{kNumber, kString, kBool}},
}

func validateStep(obj map[string]any) []string {
	var errs []string
	var actions []string
	common := make(map[string]any, len(obj))

	for k, v := range obj {
		rule, isAction := actionRules[k]
		if !isAction {
			common[k] = v
			continue
		}
		actions = append(actions, k)
		errs = append(errs, checkAction(k, v, rule)...)
	}

	sort.Strings(actions)
	switch len(actions) {
	case 0:
		errs = append(errs, "step: no action found")
	case 1:
	default:
		errs = append(errs, fmt.Sprintf("step: expected exactly one action, found %s", strings.Join(actions, ", ")))
	}

	errs = append(errs, checkFields("step", common, stepCommonFields)...)
	return errs
}

func checkAction(name string, v any, rule actionRule) []string {
	where := "step." + name
	if !oneOf(v, rule.kinds...) {
		return []string{fmt.Sprintf("%s: expected %s, got %s", where, kindList(rule.kinds), kindOf(v))}
	}
	switch t := v.(type) {
	case string:
		if strings.TrimSpace(t) == "" {
			return []string{where + ": must not be empty"}
		}
	case map[string]any:
		if name == "runCode" {
			if _, ok := t["language"]; !ok {
				return []string{where + `: requires property "language"`}
			}
		}
		if len(rule.requires) == 0 {
			return nil
		}
		for _, req := range rule.requires {
			if _, ok := t[req]; ok {
				return nil
			}
		}
		return []string{fmt.Sprintf("%s: requires property %s", where, strings.Join(quoteAll(rule.requires), " or "))}
	}
	return nil
}

var testFields = map[string]field{
	"testId":      {kinds: []kind{kString}},
	"description": {kinds: []kind{kString}},
	"contentPath": {kinds: []kind{kString}},
	"detectSteps": {kinds: []kind{kBool}},
	"runOn":       {kinds: []kind{kArray}},
	"openApi":     {kinds: []kind{kArray}},
	"before":      {kinds: []kind{kString, kArray}},
	"after":       {kinds: []kind{kString, kArray}},
	"unsafe":      {kinds: []kind{kBool}},
	"steps":       {kinds: []kind{kArray}, required: true},
}

func validateTest(r *Registry, obj map[string]any) []string {
	errs := checkFields("test", obj, testFields)
	errs = append(errs, validateRunOn("test", obj["runOn"])...)
	errs = append(errs, validateOpenAPI("test", obj["openApi"])...)

	steps, ok := obj["steps"].([]any)
	if !ok {
		return errs
	}
	if len(steps) == 0 {
		errs = append(errs, "test.steps: must contain at least one step")
	}
	for i, s := range steps {
		stepObj, ok := asObject(s)
		if !ok {
			errs = append(errs, fmt.Sprintf("test.steps[%d]: expected object, got %s", i, kindOf(s)))
			continue
		}
		res := r.Validate(StepV3, stepObj)
		if !res.Valid {
			for _, e := range res.Errors {
				errs = append(errs, fmt.Sprintf("test.steps[%d]: %s", i, e))
			}
			continue
		}
		steps[i] = res.Object
	}
	return errs
}

var specFields = map[string]field{
	"specId":      {kinds: []kind{kString}},
	"description": {kinds: []kind{kString}},
	"contentPath": {kinds: []kind{kString}},
	"runOn":       {kinds: []kind{kArray}},
	"openApi":     {kinds: []kind{kArray}},
	"tests":       {kinds: []kind{kArray}, required: true},
}

func validateSpec(r *Registry, obj map[string]any) []string {
	errs := checkFields("spec", obj, specFields)
	errs = append(errs, validateRunOn("spec", obj["runOn"])...)
	errs = append(errs, validateOpenAPI("spec", obj["openApi"])...)

	tests, ok := obj["tests"].([]any)
	if !ok {
		return errs
	}
	if len(tests) == 0 {
		errs = append(errs, "spec.tests: must contain at least one test")
	}
	for i, t := range tests {
		testObj, ok := asObject(t)
		if !ok {
			errs = append(errs, fmt.Sprintf("spec.tests[%d]: expected object, got %s", i, kindOf(t)))
			continue
		}
		res := r.Validate(TestV3, testObj)
		if !res.Valid {
			for _, e := range res.Errors {
				errs = append(errs, fmt.Sprintf("spec.tests[%d]: %s", i, e))
			}
			continue
		}
		tests[i] = res.Object
	}
	return errs
}

var runTargetFields = map[string]field{
	"platforms": {kinds: []kind{kString, kArray}, required: true},
	"browsers":  {kinds: []kind{kString, kObject, kArray}},
}

func validateRunOn(where string, v any) []string {
	targets, ok := v.([]any)
	if !ok {
		return nil
	}
	var errs []string
	for i, t := range targets {
		at := fmt.Sprintf("%s.runOn[%d]", where, i)
		obj, ok := asObject(t)
		if !ok {
			errs = append(errs, fmt.Sprintf("%s: expected object, got %s", at, kindOf(t)))
			continue
		}
		errs = append(errs, checkFields(at, obj, runTargetFields)...)
	}
	return errs
}

var externalDocFields = map[string]field{
	"name":            {kinds: []kind{kString}, required: true},
	"descriptionPath": {kinds: []kind{kString}},
	"server":          {kinds: []kind{kString}},
	"definition":      {kinds: []kind{kObject}},
}

func validateOpenAPI(where string, v any) []string {
	docs, ok := v.([]any)
	if !ok {
		return nil
	}
	var errs []string
	for i, d := range docs {
		at := fmt.Sprintf("%s.openApi[%d]", where, i)
		obj, ok := asObject(d)
		if !ok {
			errs = append(errs, fmt.Sprintf("%s: expected object, got %s", at, kindOf(d)))
			continue
		}
		errs = append(errs, checkFields(at, obj, externalDocFields)...)
	}
	return errs
}

func asObject(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case domain.Step:
		return map[string]any(t), true
	}
	return nil, false
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}
