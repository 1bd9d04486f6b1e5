// Package resolver expands assembled specs into the final resolved tree.
package resolver

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fjglira/GoE2E-DocResolver/internal/config"
	"github.com/fjglira/GoE2E-DocResolver/internal/domain"
	"github.com/fjglira/GoE2E-DocResolver/internal/openapi"
)

// Resolver assigns identifiers, cascades run targets and external docs, and
// builds contexts for every test.
type Resolver struct {
	loader openapi.Loader
	log    logrus.FieldLogger
	newID  func() string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithIDGenerator replaces the random identifier generator.
func WithIDGenerator(fn func() string) Option {
	return func(r *Resolver) {
		r.newID = fn
	}
}

// New creates a Resolver.
func New(loader openapi.Loader, log logrus.FieldLogger, opts ...Option) *Resolver {
	r := &Resolver{
		loader: loader,
		log:    log,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve resolves specs in order. Description documents that fail to load
// are logged and left out; only a cancelled context stops the run.
func (r *Resolver) Resolve(ctx context.Context, cfg *config.Config, specs []domain.Spec) (*domain.ResolvedTests, error) {
	out := &domain.ResolvedTests{
		Config:          cfg,
		Specs:           make([]domain.Spec, 0, len(specs)),
		ResolvedTestsID: r.newID(),
	}

	// Config-level docs are shared by every spec, so they are loaded once.
	defaults := r.mergeDocs(ctx, nil, cfg.Integrations.OpenAPI, "config")

	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out.Specs = append(out.Specs, r.resolveSpec(ctx, cfg, defaults, spec))
	}
	return out, nil
}

func (r *Resolver) resolveSpec(ctx context.Context, cfg *config.Config, defaults []domain.ExternalDoc, spec domain.Spec) domain.Spec {
	if spec.SpecID == "" {
		spec.SpecID = r.newID()
	}
	if len(spec.RunOn) == 0 {
		spec.RunOn = cfg.RunOn
	}
	spec.OpenAPI = r.mergeDocs(ctx, defaults, spec.OpenAPI, spec.ContentPath)

	tests := make([]domain.Test, 0, len(spec.Tests))
	for _, test := range spec.Tests {
		tests = append(tests, r.resolveTest(ctx, spec, test))
	}
	spec.Tests = tests
	return spec
}

func (r *Resolver) resolveTest(ctx context.Context, spec domain.Spec, test domain.Test) domain.Test {
	if test.TestID == "" {
		test.TestID = r.newID()
	}
	if len(test.RunOn) == 0 {
		test.RunOn = spec.RunOn
	}
	test.OpenAPI = r.mergeDocs(ctx, spec.OpenAPI, test.OpenAPI, spec.ContentPath)

	test.Contexts = ResolveContexts(test, test.RunOn, r.newID)
	test.Steps = nil
	return test
}

// mergeDocs returns base overlaid with docs by name; a later entry replaces
// an earlier one with the same name. Entries with a descriptionPath are
// loaded first and skipped when loading fails.
func (r *Resolver) mergeDocs(ctx context.Context, base, docs []domain.ExternalDoc, source string) []domain.ExternalDoc {
	merged := append([]domain.ExternalDoc{}, base...)
	for _, doc := range docs {
		if doc.DescriptionPath != "" {
			def, err := r.loader.Load(ctx, doc.DescriptionPath)
			if err != nil {
				r.log.WithFields(logrus.Fields{
					"source": source,
					"name":   doc.Name,
					"path":   doc.DescriptionPath,
				}).WithError(err).Error("failed to load external description")
				continue
			}
			doc.Definition = def
		}
		merged = removeDoc(merged, doc.Name)
		merged = append(merged, doc)
	}
	return merged
}

func removeDoc(docs []domain.ExternalDoc, name string) []domain.ExternalDoc {
	out := docs[:0]
	for _, d := range docs {
		if d.Name != name {
			out = append(out, d)
		}
	}
	return out
}
