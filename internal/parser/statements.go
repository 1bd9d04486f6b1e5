package parser

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/fjglira/GoE2E-DocResolver/internal/domain"
)

// Catalog is a compiled pattern catalog entry for one document format.
type Catalog struct {
	FileType domain.FileType

	boundaries []boundary
	markup     []compiledRule
}

type boundary struct {
	kind     domain.MatchType
	patterns []*regexp.Regexp
}

type compiledRule struct {
	rule     *domain.MarkupRule
	patterns []*regexp.Regexp
}

// Compile compiles every pattern of a file type. The first invalid pattern
// aborts compilation.
func Compile(ft domain.FileType) (*Catalog, error) {
	c := &Catalog{FileType: ft}

	// Category order is the tie-break order for matches at the same position.
	categories := []struct {
		kind     domain.MatchType
		patterns []string
	}{
		{domain.MatchTestStart, ft.Boundaries.TestStart},
		{domain.MatchTestEnd, ft.Boundaries.TestEnd},
		{domain.MatchIgnoreStart, ft.Boundaries.IgnoreStart},
		{domain.MatchIgnoreEnd, ft.Boundaries.IgnoreEnd},
		{domain.MatchStep, ft.Boundaries.Step},
	}
	for _, cat := range categories {
		res, err := compileAll(cat.patterns)
		if err != nil {
			return nil, fmt.Errorf("%s %s pattern: %w", ft.Name, cat.kind, err)
		}
		c.boundaries = append(c.boundaries, boundary{kind: cat.kind, patterns: res})
	}

	for i := range c.FileType.Markup {
		rule := &c.FileType.Markup[i]
		res, err := compileAll(rule.Patterns)
		if err != nil {
			return nil, fmt.Errorf("%s markup rule %q: %w", ft.Name, rule.Name, err)
		}
		c.markup = append(c.markup, compiledRule{rule: rule, patterns: res})
	}

	return c, nil
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		res = append(res, re)
	}
	return res, nil
}

// Scan applies every pattern of the catalog to content and returns the
// matches ordered by position. Markup rules only run when detect is true.
func (c *Catalog) Scan(content string, detect bool) []domain.Match {
	var matches []domain.Match

	for _, b := range c.boundaries {
		for _, re := range b.patterns {
			for _, loc := range re.FindAllStringSubmatchIndex(content, -1) {
				matches = append(matches, newMatch(b.kind, re, content, loc, nil))
			}
		}
	}

	if detect {
		for _, cr := range c.markup {
			for _, re := range cr.patterns {
				locs := re.FindAllStringSubmatchIndex(content, -1)
				if len(locs) == 0 {
					continue
				}
				if cr.rule.BatchMatches {
					matches = append(matches, batchMatch(re, content, locs, cr.rule))
					continue
				}
				for _, loc := range locs {
					matches = append(matches, newMatch(domain.MatchDetectedStep, re, content, loc, cr.rule))
				}
			}
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Position < matches[j].Position
	})
	return matches
}

// newMatch builds a Match from one FindAllStringSubmatchIndex location.
// Patterns with a capturing group sort by the match end, others by its start.
func newMatch(kind domain.MatchType, re *regexp.Regexp, content string, loc []int, rule *domain.MarkupRule) domain.Match {
	m := domain.Match{
		Type:     kind,
		Position: loc[0],
		Captures: captures(content, loc),
		Rule:     rule,
	}
	if re.NumSubexp() > 0 {
		m.Position = loc[1]
	}
	return m
}

// batchMatch folds every match of one pattern into a single statement placed
// at the earliest match start.
func batchMatch(re *regexp.Regexp, content string, locs [][]int, rule *domain.MarkupRule) domain.Match {
	parts := make([]string, 0, len(locs))
	pos := locs[0][0]
	for _, loc := range locs {
		parts = append(parts, domain.Match{Captures: captures(content, loc)}.Content())
		if loc[0] < pos {
			pos = loc[0]
		}
	}
	return domain.Match{
		Type:     domain.MatchDetectedStep,
		Position: pos,
		Captures: map[int]string{1: strings.Join(parts, "\n")},
		Rule:     rule,
	}
}

func captures(content string, loc []int) map[int]string {
	caps := make(map[int]string, len(loc)/2)
	for i := 0; i*2+1 < len(loc); i++ {
		start, end := loc[i*2], loc[i*2+1]
		if start < 0 {
			continue
		}
		caps[i] = content[start:end]
	}
	return caps
}
