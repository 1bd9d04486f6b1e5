package parser

import (
	"regexp"
	"strings"

	"github.com/fjglira/GoE2E-DocResolver/internal/domain"
)

// Matches = Title, == Section, === Subsection, etc.
var asciidocHeadingRe = regexp.MustCompile(`(?m)^(={1,6})[ \t]+(.+?)[ \t]*$`)

// asciidocOutline returns section titles with their byte offsets.
func asciidocOutline(content []byte) []domain.Heading {
	var headings []domain.Heading
	for _, loc := range asciidocHeadingRe.FindAllSubmatchIndex(content, -1) {
		headings = append(headings, domain.Heading{
			Level:  loc[3] - loc[2],
			Text:   strings.TrimSpace(string(content[loc[4]:loc[5]])),
			Offset: loc[4],
		})
	}
	return headings
}

// Outline returns the headings of a document for the named file type.
// Formats without heading support yield nil.
func Outline(fileType string, content []byte) []domain.Heading {
	switch fileType {
	case "markdown":
		return markdownOutline(content)
	case "asciidoc":
		return asciidocOutline(content)
	default:
		return nil
	}
}
