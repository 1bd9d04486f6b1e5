package domain

import "gopkg.in/yaml.v3"

// FileType is one pattern catalog entry: how statements are written in a
// single document format.
type FileType struct {
	Name       string           `yaml:"name" json:"name"`
	Extensions []string         `yaml:"extensions" json:"extensions"`
	Boundaries BoundaryPatterns `yaml:"boundary_patterns" json:"boundaryPatterns"`
	Markup     []MarkupRule     `yaml:"markup" json:"markup,omitempty"`
}

// BoundaryPatterns holds the regular expressions for each explicit statement
// category. The first capturing group of a pattern is the statement content.
type BoundaryPatterns struct {
	TestStart   []string `yaml:"test_start" json:"testStart,omitempty"`
	TestEnd     []string `yaml:"test_end" json:"testEnd,omitempty"`
	IgnoreStart []string `yaml:"ignore_start" json:"ignoreStart,omitempty"`
	IgnoreEnd   []string `yaml:"ignore_end" json:"ignoreEnd,omitempty"`
	Step        []string `yaml:"step" json:"step,omitempty"`
}

// MarkupRule maps on-page phrasing to step actions.
//
// An action is either a bare action name (string) or a step template
// (map) whose string values may reference captures as $1, $2, ...
type MarkupRule struct {
	Name         string   `yaml:"name" json:"name"`
	Patterns     []string `yaml:"patterns" json:"patterns"`
	Actions      []any    `yaml:"actions" json:"actions"`
	BatchMatches bool     `yaml:"batch_matches" json:"batchMatches,omitempty"`
}

func (r *MarkupRule) UnmarshalYAML(node *yaml.Node) error {
	type plain MarkupRule
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	for i, a := range p.Actions {
		p.Actions[i] = stringKeys(a)
	}
	*r = MarkupRule(p)
	return nil
}

// MatchType identifies what kind of statement a Match represents.
type MatchType string

const (
	MatchTestStart    MatchType = "testStart"
	MatchTestEnd      MatchType = "testEnd"
	MatchIgnoreStart  MatchType = "ignoreStart"
	MatchIgnoreEnd    MatchType = "ignoreEnd"
	MatchStep         MatchType = "step"
	MatchDetectedStep MatchType = "detectedStep"
)

// Match is a positioned, typed result of applying one pattern to a document.
type Match struct {
	Type     MatchType
	Position int            // sort position, a byte offset into the source
	Captures map[int]string // 0 is the whole match; groups that did not participate are absent
	Rule     *MarkupRule    // set for detectedStep matches
}

// Content returns the statement content: the first capture when it is
// non-empty, the whole match otherwise.
func (m Match) Content() string {
	if c, ok := m.Captures[1]; ok && c != "" {
		return c
	}
	return m.Captures[0]
}

// Heading is a document heading used to describe tests.
type Heading struct {
	Level  int
	Text   string
	Offset int
}
