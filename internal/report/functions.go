package report

import (
	"sort"
	"strings"
	"text/template"

	"github.com/fjglira/GoE2E-DocResolver/internal/domain"
)

// CustomFuncMap returns the functions available in report templates.
func CustomFuncMap() template.FuncMap {
	return template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"toLower":   strings.ToLower,
		"toUpper":   strings.ToUpper,
		"trimSpace": strings.TrimSpace,
		"join":      strings.Join,
		"indent": func(spaces int, s string) string {
			pad := strings.Repeat(" ", spaces)
			lines := strings.Split(s, "\n")
			for i, line := range lines {
				if line != "" {
					lines[i] = pad + line
				}
			}
			return strings.Join(lines, "\n")
		},
		"action":     stepAction,
		"target":     contextTarget,
		"docNames":   docNames,
		"countTests": countTests,
		"countSteps": countSteps,
		"orDefault": func(def, s string) string {
			if s == "" {
				return def
			}
			return s
		},
	}
}

// stepAction returns the action name of a step, "?" when it has none.
func stepAction(s domain.Step) string {
	if a := s.Action(); a != "" {
		return a
	}
	return "?"
}

// contextTarget renders a context as platform/browser.
func contextTarget(c domain.Context) string {
	parts := []string{}
	if c.Platform != "" {
		parts = append(parts, c.Platform)
	}
	if c.Browser != nil && c.Browser.Name != "" {
		parts = append(parts, c.Browser.Name)
	}
	if len(parts) == 0 {
		return "any"
	}
	return strings.Join(parts, "/")
}

func docNames(docs []domain.ExternalDoc) string {
	names := make([]string, 0, len(docs))
	for _, d := range docs {
		names = append(names, d.Name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func countTests(specs []domain.Spec) int {
	n := 0
	for _, s := range specs {
		n += len(s.Tests)
	}
	return n
}

func countSteps(c domain.Context) int {
	return len(c.Steps)
}
