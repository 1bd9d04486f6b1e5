// Package assembler turns an ordered stream of statement matches into tests.
package assembler

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fjglira/GoE2E-DocResolver/internal/domain"
	"github.com/fjglira/GoE2E-DocResolver/internal/schema"
)

// Assembler runs the test assembly state machine over sorted matches.
// It holds no per-document state and is safe for concurrent use.
type Assembler struct {
	validator schema.Validator
	migrator  schema.Migrator
	log       logrus.FieldLogger
	origin    string
	newID     func() string
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithOrigin sets the origin attached to detected goTo and checkLink steps.
func WithOrigin(origin string) Option {
	return func(a *Assembler) {
		a.origin = origin
	}
}

// WithIDGenerator replaces the random test id generator.
func WithIDGenerator(fn func() string) Option {
	return func(a *Assembler) {
		a.newID = fn
	}
}

// New creates an Assembler.
func New(validator schema.Validator, migrator schema.Migrator, log logrus.FieldLogger, opts ...Option) *Assembler {
	a := &Assembler{
		validator: validator,
		migrator:  migrator,
		log:       log,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// draft is a test under construction.
type draft struct {
	obj      map[string]any
	steps    []any
	position int
}

func (d *draft) detectDisabled() bool {
	v, ok := d.obj["detectSteps"].(bool)
	return ok && !v
}

// run is the state of one Assemble call.
type run struct {
	a         *Assembler
	file      string
	tests     []*draft
	byID      map[string]*draft
	currentID string
	ignoring  bool
}

// Assemble consumes matches in order and returns the tests they declare.
// outline, when non-nil, supplies descriptions for tests that have none.
// Invalid statements are logged and dropped; only a failed legacy migration
// is returned as an error.
func (a *Assembler) Assemble(file string, matches []domain.Match, outline []domain.Heading) ([]domain.Test, error) {
	r := &run{
		a:         a,
		file:      file,
		byID:      make(map[string]*draft),
		currentID: a.newID(),
	}

	for _, m := range matches {
		switch m.Type {
		case domain.MatchTestStart:
			if err := r.testStart(m); err != nil {
				return nil, err
			}
		case domain.MatchTestEnd:
			r.currentID = a.newID()
			r.ignoring = false
		case domain.MatchIgnoreStart:
			r.ignoring = true
		case domain.MatchIgnoreEnd:
			r.ignoring = false
		case domain.MatchStep:
			if r.ignoring {
				continue
			}
			r.step(m)
		case domain.MatchDetectedStep:
			if r.ignoring {
				continue
			}
			r.detectedStep(m)
		}
	}

	return r.finish(outline), nil
}

func (r *run) warn(m domain.Match, reason string, errs ...string) {
	entry := r.a.log.WithFields(logrus.Fields{
		"file":     r.file,
		"position": m.Position,
		"reason":   reason,
	})
	if len(errs) > 0 {
		entry = entry.WithField("errors", strings.Join(errs, "; "))
	}
	entry.Warn("dropping statement")
}

func (r *run) testStart(m domain.Match) error {
	obj, err := domain.ParseObject(m.Content())
	if err != nil {
		r.warn(m, "test content is not an object", err.Error())
		return nil
	}

	if isLegacyTest(obj) {
		obj, err = migrateLegacyTest(r.a.migrator, obj)
		if err != nil {
			return domain.NewError("migrate", r.file, m.Position, "failed to migrate legacy test", err)
		}
	}

	if id, ok := obj["testId"].(string); ok && id != "" {
		r.currentID = id
	} else {
		obj["testId"] = r.currentID
	}
	coerceBool(obj, "detectSteps")

	d := &draft{obj: obj, position: m.Position}
	if steps, ok := obj["steps"].([]any); ok {
		d.steps = steps
	}
	delete(obj, "steps")

	r.tests = append(r.tests, d)
	r.byID[r.currentID] = d
	return nil
}

// current finds or creates the test for the current id.
func (r *run) current(position int) *draft {
	if d, ok := r.byID[r.currentID]; ok {
		return d
	}
	d := &draft{
		obj:      map[string]any{"testId": r.currentID},
		position: position,
	}
	r.tests = append(r.tests, d)
	r.byID[r.currentID] = d
	return d
}

func (r *run) step(m domain.Match) {
	d := r.current(m.Position)
	obj, err := domain.ParseObject(m.Content())
	if err != nil {
		r.warn(m, "step content is not an object", err.Error())
		return
	}
	r.appendStep(d, m, obj)
}

// detectedStep turns a markup match into steps. The current test is only
// created once the match yields at least one step.
func (r *run) detectedStep(m domain.Match) {
	if m.Rule == nil {
		return
	}
	if d, ok := r.byID[r.currentID]; ok && d.detectDisabled() {
		return
	}

	var steps []map[string]any
	for _, action := range m.Rule.Actions {
		var step map[string]any
		switch t := action.(type) {
		case string:
			step = r.bareStep(t, m.Content())
		case map[string]any:
			step = templateStep(t, m.Captures)
		default:
			r.warn(m, fmt.Sprintf("markup rule %q has an unsupported action of type %T", m.Rule.Name, action))
		}
		if step == nil {
			continue
		}
		normalizeStep(step)
		steps = append(steps, step)
	}
	if len(steps) == 0 {
		return
	}

	d := r.current(m.Position)
	for _, step := range steps {
		r.appendStep(d, m, step)
	}
}

// bareStep builds a step from an action name and the match content.
func (r *run) bareStep(action, content string) map[string]any {
	switch action {
	case "runCode":
		return nil
	case "goTo", "checkLink":
		if r.a.origin != "" {
			return map[string]any{action: map[string]any{"url": content, "origin": r.a.origin}}
		}
	}
	return map[string]any{action: content}
}

// templateStep substitutes captures into a step template. A step whose
// action value cannot be substituted is dropped.
func templateStep(tmpl map[string]any, captures map[int]string) map[string]any {
	out, ok := substitute(tmpl, captures)
	if !ok {
		return nil
	}
	step, _ := out.(map[string]any)
	if domain.Step(step).Action() == "" {
		return nil
	}
	return step
}

func (r *run) appendStep(d *draft, m domain.Match, obj map[string]any) {
	res := r.a.validator.Validate(schema.StepV3, obj)
	if !res.Valid {
		r.warn(m, "step failed validation", res.Errors...)
		return
	}
	d.steps = append(d.steps, res.Object)
}

// finish validates every assembled test and decodes the survivors.
func (r *run) finish(outline []domain.Heading) []domain.Test {
	tests := make([]domain.Test, 0, len(r.tests))
	for _, d := range r.tests {
		obj := d.obj
		obj["steps"] = d.steps
		if d.steps == nil {
			obj["steps"] = []any{}
		}

		res := r.a.validator.Validate(schema.TestV3, obj)
		if !res.Valid {
			r.warn(domain.Match{Position: d.position}, fmt.Sprintf("test %v failed validation", obj["testId"]), res.Errors...)
			continue
		}

		var t domain.Test
		if err := domain.DecodeObject(res.Object, &t); err != nil {
			r.warn(domain.Match{Position: d.position}, "test could not be decoded", err.Error())
			continue
		}
		if t.Description == "" {
			t.Description = headingBefore(outline, d.position)
		}
		tests = append(tests, t)
	}
	return tests
}

// headingBefore returns the text of the last heading at or before offset.
func headingBefore(outline []domain.Heading, offset int) string {
	text := ""
	for _, h := range outline {
		if h.Offset > offset {
			break
		}
		text = h.Text
	}
	return text
}

// coerceBool turns "true"/"false" strings into booleans.
func coerceBool(obj map[string]any, key string) {
	s, ok := obj[key].(string)
	if !ok {
		return
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		obj[key] = true
	case "false":
		obj[key] = false
	}
}
