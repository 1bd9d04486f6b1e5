// Package report renders resolved tests as human-readable text.
package report

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/fjglira/GoE2E-DocResolver/internal/domain"
)

//go:embed templates/*.tmpl
var builtin embed.FS

// Renderer renders resolved tests into text.
type Renderer interface {
	Render(resolved *domain.ResolvedTests) (string, error)
	ListTemplates() []string
}

// DefaultEngine implements Renderer with text/template.
type DefaultEngine struct {
	templates   map[string]*template.Template
	defaultName string
	templateDir string
}

// NewEngine loads the built-in templates, then every .tmpl file in
// templateDir, which may override a built-in one by name. templateDir may be
// empty.
func NewEngine(templateDir string, defaultTemplate string) (*DefaultEngine, error) {
	engine := &DefaultEngine{
		templates:   make(map[string]*template.Template),
		defaultName: defaultTemplate,
		templateDir: templateDir,
	}

	sub, err := fs.Sub(builtin, "templates")
	if err != nil {
		return nil, domain.NewError("report", "", 0, "failed to open built-in templates", err)
	}
	if err := engine.loadTemplates(sub, "built-in"); err != nil {
		return nil, err
	}
	if templateDir != "" {
		if err := engine.loadTemplates(os.DirFS(templateDir), templateDir); err != nil {
			return nil, err
		}
	}

	if _, ok := engine.templates[defaultTemplate]; !ok {
		return nil, domain.NewErrorWithSuggestion("report", templateDir, 0,
			fmt.Sprintf("default template %q not found", defaultTemplate),
			fmt.Sprintf("available templates: %s", strings.Join(engine.ListTemplates(), ", ")),
			nil)
	}
	return engine, nil
}

// loadTemplates parses every .tmpl file at the root of fsys.
func (e *DefaultEngine) loadTemplates(fsys fs.FS, origin string) error {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return domain.NewError("report", origin, 0, "failed to read template directory", err)
	}

	funcMap := CustomFuncMap()

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tmpl") {
			continue
		}

		path := filepath.Join(origin, entry.Name())
		content, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return domain.NewError("report", path, 0, "failed to read template file", err)
		}

		name := strings.TrimSuffix(entry.Name(), ".tmpl")
		tmpl, err := template.New(name).Funcs(funcMap).Parse(string(content))
		if err != nil {
			return domain.NewError("report", path, 0, "failed to parse template", err)
		}

		e.templates[name] = tmpl
	}
	return nil
}

// Render renders resolved tests with the default template.
func (e *DefaultEngine) Render(resolved *domain.ResolvedTests) (string, error) {
	return e.RenderWith(e.defaultName, resolved)
}

// RenderWith renders resolved tests with the named template.
func (e *DefaultEngine) RenderWith(name string, resolved *domain.ResolvedTests) (string, error) {
	tmpl, ok := e.templates[name]
	if !ok {
		return "", domain.NewError("report", "", 0,
			fmt.Sprintf("template %q not found (available: %s)", name, strings.Join(e.ListTemplates(), ", ")), nil)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, resolved); err != nil {
		return "", domain.NewError("report", name, 0, "failed to execute template", err)
	}
	out := buf.String()
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out, nil
}

// ListTemplates returns the names of all loaded templates, sorted.
func (e *DefaultEngine) ListTemplates() []string {
	names := make([]string, 0, len(e.templates))
	for name := range e.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
