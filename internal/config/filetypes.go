package config

import "github.com/fjglira/GoE2E-DocResolver/internal/domain"

// Shared comment-style statements used by Markdown and HTML.
var (
	htmlCommentTestStart   = `<!--\s*test[ \t]*(\{[\s\S]*?|\r?\n[\s\S]*?)\s*-->`
	htmlCommentTestEnd     = `<!--\s*test end\s*-->`
	htmlCommentIgnoreStart = `<!--\s*test ignore start\s*-->`
	htmlCommentIgnoreEnd   = `<!--\s*test ignore end\s*-->`
	htmlCommentStep        = `<!--\s*step\s+([\s\S]*?)\s*-->`
)

// DefaultFileTypes returns the built-in pattern catalog.
func DefaultFileTypes() []domain.FileType {
	return []domain.FileType{
		markdownFileType(),
		asciidocFileType(),
		htmlFileType(),
	}
}

func markdownFileType() domain.FileType {
	return domain.FileType{
		Name:       "markdown",
		Extensions: []string{".md", ".markdown", ".mdx"},
		Boundaries: domain.BoundaryPatterns{
			TestStart: []string{
				`\{/\*\s*test[ \t]*(\{[\s\S]*?|\r?\n[\s\S]*?)\s*\*/\}`,
				htmlCommentTestStart,
				`\[comment\]:\s+#\s+\(test\s+(\{.*\})\s*\)`,
			},
			TestEnd: []string{
				`\{/\*\s*test end\s*\*/\}`,
				htmlCommentTestEnd,
				`\[comment\]:\s+#\s+\(test end\)`,
			},
			IgnoreStart: []string{
				`\{/\*\s*test ignore start\s*\*/\}`,
				htmlCommentIgnoreStart,
				`\[comment\]:\s+#\s+\(test ignore start\)`,
			},
			IgnoreEnd: []string{
				`\{/\*\s*test ignore end\s*\*/\}`,
				htmlCommentIgnoreEnd,
				`\[comment\]:\s+#\s+\(test ignore end\)`,
			},
			Step: []string{
				`\{/\*\s*step\s+([\s\S]*?)\s*\*/\}`,
				htmlCommentStep,
				`\[comment\]:\s+#\s+\(step\s+(.*?)\s*\)`,
			},
		},
		Markup: []domain.MarkupRule{
			{
				Name:     "checkHyperlink",
				Patterns: []string{`(?:^|[^!])\[[^\]]+\]\(\s*(https?://[^\s)]+)(?:\s+"[^"]*")?\s*\)`},
				Actions:  []any{"checkLink"},
			},
			{
				Name:     "clickOnscreenText",
				Patterns: []string{`\b(?:[Cc]lick|[Tt]ap|[Ll]eft-click|[Cc]hoose|[Ss]elect|[Cc]heck)\b\s+\*\*([^*]+)\*\*`},
				Actions:  []any{"click"},
			},
			{
				Name:     "findOnscreenText",
				Patterns: []string{`\*\*([^*]+)\*\*`},
				Actions:  []any{"find"},
			},
			{
				Name:     "goToUrl",
				Patterns: []string{`\b(?:[Gg]o\s+to|[Oo]pen|[Nn]avigate\s+to|[Vv]isit|[Aa]ccess|[Pp]roceed\s+to|[Ll]aunch)\b\s+\[[^\]]+\]\(\s*(https?://[^\s)]+)(?:\s+"[^"]*")?\s*\)`},
				Actions:  []any{"goTo"},
			},
			{
				Name:     "screenshotImage",
				Patterns: []string{`!\[[^\]]*\]\(\s*([^\s)]+)(?:\s+"[^"]*")?\s*\)\s*\{[^}]*\.screenshot[^}]*\}`},
				Actions:  []any{"screenshot"},
			},
			{
				Name:     "typeText",
				Patterns: []string{`\b(?:press|enter|type)\b\s+"([^"]+)"`},
				Actions:  []any{"type"},
			},
			{
				Name:     "httpRequestFormat",
				Patterns: []string{`\x60\x60\x60(?:http)?\r?\n([A-Z]+)\s+([^\s]+)(?:\s+HTTP/[\d.]+)?\r?\n((?:[^\s]+:\s+[^\s]+\r?\n)*)?(?:\s+([\s\S]*?)\r?\n+)?\x60\x60\x60`},
				Actions: []any{
					map[string]any{
						"httpRequest": map[string]any{
							"method": "$1",
							"url":    "$2",
							"request": map[string]any{
								"headers": "$3",
								"body":    "$4",
							},
						},
					},
				},
			},
			{
				Name:     "runCode",
				Patterns: []string{`\x60\x60\x60(bash|python|py|javascript|js)[^\r\n]*\r?\n([\s\S]*?)\r?\n\x60\x60\x60`},
				Actions: []any{
					"runCode",
					map[string]any{
						"unsafe": true,
						"runCode": map[string]any{
							"language": "$1",
							"code":     "$2",
						},
					},
				},
			},
		},
	}
}

func asciidocFileType() domain.FileType {
	return domain.FileType{
		Name:       "asciidoc",
		Extensions: []string{".adoc", ".asciidoc", ".asc"},
		Boundaries: domain.BoundaryPatterns{
			TestStart:   []string{`//\s*\(\s*test\s+(\{.*\})\s*\)`},
			TestEnd:     []string{`//\s*\(\s*test end\s*\)`},
			IgnoreStart: []string{`//\s*\(\s*test ignore start\s*\)`},
			IgnoreEnd:   []string{`//\s*\(\s*test ignore end\s*\)`},
			Step:        []string{`//\s*\(\s*step\s+(\{.*\})\s*\)`},
		},
		Markup: []domain.MarkupRule{
			{
				Name:     "checkHyperlink",
				Patterns: []string{`\b(https?://[^\s\[]+)\[[^\]]*\]`},
				Actions:  []any{"checkLink"},
			},
		},
	}
}

func htmlFileType() domain.FileType {
	return domain.FileType{
		Name:       "html",
		Extensions: []string{".html", ".htm"},
		Boundaries: domain.BoundaryPatterns{
			TestStart:   []string{htmlCommentTestStart},
			TestEnd:     []string{htmlCommentTestEnd},
			IgnoreStart: []string{htmlCommentIgnoreStart},
			IgnoreEnd:   []string{htmlCommentIgnoreEnd},
			Step:        []string{htmlCommentStep},
		},
		Markup: []domain.MarkupRule{
			{
				Name:     "checkHyperlink",
				Patterns: []string{`<a\s+[^>]*href="(https?://[^"]+)"[^>]*>`},
				Actions:  []any{"checkLink"},
			},
		},
	}
}
