package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/fjglira/GoE2E-DocResolver/internal/assembler"
	"github.com/fjglira/GoE2E-DocResolver/internal/config"
	"github.com/fjglira/GoE2E-DocResolver/internal/domain"
	"github.com/fjglira/GoE2E-DocResolver/internal/openapi"
	"github.com/fjglira/GoE2E-DocResolver/internal/parser"
	"github.com/fjglira/GoE2E-DocResolver/internal/report"
	"github.com/fjglira/GoE2E-DocResolver/internal/resolver"
	"github.com/fjglira/GoE2E-DocResolver/internal/scanner"
	"github.com/fjglira/GoE2E-DocResolver/internal/schema"
)

// Generator is the top-level orchestrator.
type Generator interface {
	Generate(ctx context.Context, cfg *config.Config) (*domain.ResolvedTests, error)
}

// Components bundles the collaborators of a DefaultGenerator.
type Components struct {
	Scanner   scanner.Scanner
	Registry  parser.CatalogRegistry
	Validator schema.Validator
	Migrator  schema.Migrator
	Resolver  *resolver.Resolver
	Renderer  report.Renderer
}

// DefaultGenerator implements Generator by wiring all components together.
type DefaultGenerator struct {
	Components
	log    logrus.FieldLogger
	stdout io.Writer
}

// NewGenerator creates a new DefaultGenerator. Output written to "-" goes to
// stdout.
func NewGenerator(c Components, log logrus.FieldLogger, stdout io.Writer) *DefaultGenerator {
	return &DefaultGenerator{
		Components: c,
		log:        log,
		stdout:     stdout,
	}
}

// Generate runs the full pipeline: scan → extract → assemble → resolve → write.
// A file that cannot be read, parsed or migrated is logged and skipped.
func (g *DefaultGenerator) Generate(ctx context.Context, cfg *config.Config) (*domain.ResolvedTests, error) {
	files := g.scan(cfg)
	if len(files) == 0 {
		g.log.Warn("No documentation files found")
	} else {
		g.log.Infof("Found %d file(s)", len(files))
	}

	asm := assembler.New(g.Validator, g.Migrator, g.log, assembler.WithOrigin(cfg.Origin))

	var specs []domain.Spec
	for _, path := range files {
		g.log.Debugf("Processing: %s", path)

		spec, err := g.process(cfg, asm, path)
		if err != nil {
			g.log.WithError(err).Errorf("Skipping %s", path)
			continue
		}
		if spec == nil {
			continue
		}
		specs = append(specs, *spec)
	}

	g.log.Infof("Assembled %d spec(s)", len(specs))

	resolved, err := g.Resolver.Resolve(ctx, cfg, specs)
	if err != nil {
		return nil, domain.NewError("resolve", "", 0, "resolution aborted", err)
	}

	if err := g.write(cfg, resolved); err != nil {
		return nil, err
	}
	return resolved, nil
}

// scan collects input files from every configured directory, in directory
// order, without duplicates.
func (g *DefaultGenerator) scan(cfg *config.Config) []string {
	extensions := append(g.Registry.Extensions(), cfg.Input.SpecExtensions...)

	seen := make(map[string]bool)
	var files []string
	for _, dir := range cfg.Input.Directories {
		g.log.Debugf("Scanning: %s", dir)
		found, err := g.Scanner.Scan(dir, extensions, cfg.Input.Exclude)
		if err != nil {
			g.log.Warnf("Failed to scan %s: %v", dir, err)
			continue
		}
		for _, f := range found {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}
	return files
}

// process turns one file into a spec. A nil spec means the file declares
// nothing to resolve.
func (g *DefaultGenerator) process(cfg *config.Config, asm *assembler.Assembler, path string) (*domain.Spec, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewErrorWithSuggestion("parse", path, 0,
			"failed to read file",
			"check that the file exists and has read permissions",
			err)
	}

	ext := filepath.Ext(path)
	if isSpecFile(ext, cfg.Input.SpecExtensions) {
		return g.loadSpecFile(path, content)
	}

	catalog, err := g.Registry.CatalogFor(ext)
	if err != nil {
		g.log.Warnf("No pattern catalog for %s, skipping %s", ext, path)
		return nil, nil
	}

	matches := catalog.Scan(string(content), cfg.DetectSteps)
	outline := parser.Outline(catalog.FileType.Name, content)
	tests, err := asm.Assemble(path, matches, outline)
	if err != nil {
		return nil, err
	}
	if len(tests) == 0 {
		g.log.Debugf("No tests found in %s", path)
		return nil, nil
	}

	g.log.Debugf("Found %d test(s) in %s", len(tests), path)
	for i := range tests {
		tests[i].ContentPath = path
		anchorDocs(tests[i].OpenAPI, filepath.Dir(path))
	}
	return &domain.Spec{ContentPath: path, Tests: tests}, nil
}

// loadSpecFile decodes a ready-made spec or an Arazzo description. Other
// JSON and YAML documents are skipped.
func (g *DefaultGenerator) loadSpecFile(path string, content []byte) (*domain.Spec, error) {
	doc, err := domain.ParseObject(string(content))
	if err != nil {
		return nil, domain.NewError("parse", path, 0, "failed to parse spec file", err)
	}

	if openapi.IsArazzo(doc) {
		spec, err := openapi.SpecFromArazzo(doc, path)
		if err != nil {
			return nil, err
		}
		if len(spec.Tests) == 0 {
			g.log.Warnf("Arazzo description %s has no runnable workflows", path)
			return nil, nil
		}
		anchorDocs(spec.OpenAPI, "")
		return &spec, nil
	}

	if _, ok := doc["tests"]; !ok {
		g.log.Debugf("%s is not a spec document, skipping", path)
		return nil, nil
	}

	res := g.Validator.Validate(schema.SpecV3, doc)
	if !res.Valid {
		return nil, domain.NewError("parse", path, 0,
			fmt.Sprintf("invalid spec: %s", strings.Join(res.Errors, "; ")), nil)
	}

	var spec domain.Spec
	if err := domain.DecodeObject(res.Object, &spec); err != nil {
		return nil, domain.NewError("parse", path, 0, "failed to decode spec", err)
	}
	if spec.ContentPath == "" {
		spec.ContentPath = path
	}
	dir := filepath.Dir(path)
	anchorDocs(spec.OpenAPI, dir)
	for i := range spec.Tests {
		anchorDocs(spec.Tests[i].OpenAPI, dir)
	}
	return &spec, nil
}

// anchorDocs makes local description paths absolute, resolving relative ones
// against dir when it is set.
func anchorDocs(docs []domain.ExternalDoc, dir string) {
	for i := range docs {
		p := docs[i].DescriptionPath
		if p == "" || strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") || filepath.IsAbs(p) {
			continue
		}
		if dir != "" {
			p = filepath.Join(dir, p)
		}
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		docs[i].DescriptionPath = p
	}
}

func isSpecFile(ext string, specExtensions []string) bool {
	for _, e := range specExtensions {
		if strings.EqualFold(strings.TrimPrefix(e, "."), strings.TrimPrefix(ext, ".")) {
			return true
		}
	}
	return false
}

// write renders the resolved tests in the configured format.
func (g *DefaultGenerator) write(cfg *config.Config, resolved *domain.ResolvedTests) error {
	var rendered []byte
	switch cfg.Output.Format {
	case "summary":
		if g.Renderer == nil {
			return domain.NewError("report", "", 0, "summary output requested but no renderer configured", nil)
		}
		text, err := g.Renderer.Render(resolved)
		if err != nil {
			return err
		}
		rendered = []byte(text)
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resolved); err != nil {
			return domain.NewError("write", cfg.Output.Path, 0, "failed to encode resolved tests", err)
		}
		rendered = buf.Bytes()
	}

	if cfg.DryRun {
		g.log.Infof("[DRY-RUN] Would write: %s", cfg.Output.Path)
		g.log.Debugf("[DRY-RUN] Content:\n%s", rendered)
		return nil
	}

	if cfg.Output.Path == "-" {
		_, err := g.stdout.Write(rendered)
		return err
	}

	if dir := filepath.Dir(cfg.Output.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return domain.NewErrorWithSuggestion("write", dir, 0,
				"failed to create output directory",
				"check that the parent directory exists and has write permissions",
				err)
		}
	}

	g.log.Infof("Writing: %s", cfg.Output.Path)
	if err := os.WriteFile(cfg.Output.Path, rendered, 0644); err != nil {
		return domain.NewErrorWithSuggestion("write", cfg.Output.Path, 0,
			"failed to write output file",
			"check disk space and write permissions for the output directory",
			err)
	}

	g.log.Info("Resolution complete")
	return nil
}
