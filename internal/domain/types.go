package domain

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Actions lists every step action name understood by the resolver.
var Actions = []string{
	"checkLink", "click", "dragAndDrop", "find", "goTo", "httpRequest",
	"loadCookie", "loadVariables", "record", "runCode", "runShell",
	"saveCookie", "screenshot", "stopRecord", "type", "wait",
}

// Step is a single action object. Its shape is owned by the step schema;
// the core only reads the action key.
type Step map[string]any

// Action returns the action name of the step, or "" if it has none.
func (s Step) Action() string {
	for _, a := range Actions {
		if _, ok := s[a]; ok {
			return a
		}
	}
	return ""
}

func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	var m map[string]any
	if err := node.Decode(&m); err != nil {
		return err
	}
	*s = Step(stringKeys(m).(map[string]any))
	return nil
}

// Clone returns a deep copy of the step.
func (s Step) Clone() Step {
	if s == nil {
		return nil
	}
	return Step(CloneObject(s))
}

// Test is an ordered list of steps plus the targets it runs on.
type Test struct {
	TestID      string        `yaml:"testId,omitempty" json:"testId,omitempty"`
	Description string        `yaml:"description,omitempty" json:"description,omitempty"`
	ContentPath string        `yaml:"contentPath,omitempty" json:"contentPath,omitempty"`
	DetectSteps *bool         `yaml:"detectSteps,omitempty" json:"detectSteps,omitempty"`
	RunOn       []RunTarget   `yaml:"runOn,omitempty" json:"runOn,omitempty"`
	OpenAPI     []ExternalDoc `yaml:"openApi,omitempty" json:"openApi,omitempty"`
	Before      StringList    `yaml:"before,omitempty" json:"before,omitempty"`
	After       StringList    `yaml:"after,omitempty" json:"after,omitempty"`
	Unsafe      bool          `yaml:"unsafe,omitempty" json:"unsafe,omitempty"`
	Steps       []Step        `yaml:"steps,omitempty" json:"steps,omitempty"`
	Contexts    []Context     `yaml:"contexts,omitempty" json:"contexts,omitempty"`
}

// RunTarget declares platforms and, for driver-bound tests, browsers.
type RunTarget struct {
	Platforms StringList  `yaml:"platforms" json:"platforms"`
	Browsers  BrowserList `yaml:"browsers,omitempty" json:"browsers,omitempty"`
}

// Browser is a browser selection; a bare string decodes into Name.
type Browser struct {
	Name     string      `yaml:"name" json:"name"`
	Headless *bool       `yaml:"headless,omitempty" json:"headless,omitempty"`
	Window   *Dimensions `yaml:"window,omitempty" json:"window,omitempty"`
	Viewport *Dimensions `yaml:"viewport,omitempty" json:"viewport,omitempty"`
}

type Dimensions struct {
	Width  int `yaml:"width,omitempty" json:"width,omitempty"`
	Height int `yaml:"height,omitempty" json:"height,omitempty"`
}

// Context is one concrete execution target of a test.
type Context struct {
	ContextID string        `yaml:"contextId" json:"contextId"`
	Platform  string        `yaml:"platform,omitempty" json:"platform,omitempty"`
	Browser   *Browser      `yaml:"browser,omitempty" json:"browser,omitempty"`
	Unsafe    bool          `yaml:"unsafe" json:"unsafe"`
	OpenAPI   []ExternalDoc `yaml:"openApi" json:"openApi"`
	Steps     []Step        `yaml:"steps" json:"steps"`
}

// Spec is the top-level unit: one source file or one synthesized document.
type Spec struct {
	SpecID      string        `yaml:"specId,omitempty" json:"specId,omitempty"`
	Description string        `yaml:"description,omitempty" json:"description,omitempty"`
	ContentPath string        `yaml:"contentPath,omitempty" json:"contentPath,omitempty"`
	RunOn       []RunTarget   `yaml:"runOn,omitempty" json:"runOn,omitempty"`
	OpenAPI     []ExternalDoc `yaml:"openApi,omitempty" json:"openApi,omitempty"`
	Tests       []Test        `yaml:"tests" json:"tests"`
}

// ExternalDoc is an API description referenced by name.
type ExternalDoc struct {
	Name            string         `yaml:"name" json:"name"`
	DescriptionPath string         `yaml:"descriptionPath,omitempty" json:"descriptionPath,omitempty"`
	Server          string         `yaml:"server,omitempty" json:"server,omitempty"`
	Definition      map[string]any `yaml:"definition,omitempty" json:"definition,omitempty"`
}

// UnmarshalYAML keeps nested definition keys strings, so an inline
// description with keys such as 200 still encodes as JSON.
func (d *ExternalDoc) UnmarshalYAML(node *yaml.Node) error {
	type plain ExternalDoc
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	if p.Definition != nil {
		p.Definition = stringKeys(p.Definition).(map[string]any)
	}
	*d = ExternalDoc(p)
	return nil
}

// ResolvedTests is the final output of a resolution run.
type ResolvedTests struct {
	Config          any    `json:"config"`
	Specs           []Spec `json:"specs"`
	ResolvedTestsID string `json:"resolvedTestsId"`
}

// StringList accepts either a single string or a list of strings.
type StringList []string

func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*l = StringList{s}
		return nil
	case yaml.SequenceNode:
		var ss []string
		if err := node.Decode(&ss); err != nil {
			return err
		}
		*l = ss
		return nil
	}
	return fmt.Errorf("line %d: expected string or list of strings", node.Line)
}

// BrowserList accepts a browser name, a browser object, or a list of either.
type BrowserList []Browser

func (l *BrowserList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		var bs []Browser
		if err := node.Decode(&bs); err != nil {
			return err
		}
		*l = bs
		return nil
	}
	var b Browser
	if err := node.Decode(&b); err != nil {
		return err
	}
	*l = BrowserList{b}
	return nil
}

func (b *Browser) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&b.Name)
	}
	type plain Browser
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*b = Browser(p)
	return nil
}
