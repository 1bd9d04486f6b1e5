package parser

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/fjglira/GoE2E-DocResolver/internal/domain"
)

// markdownOutline walks the goldmark AST and returns the document headings
// with the byte offset of their text.
func markdownOutline(content []byte) []domain.Heading {
	doc := goldmark.New().Parser().Parse(text.NewReader(content))

	var headings []domain.Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		offset := -1
		if heading.Lines().Len() > 0 {
			offset = heading.Lines().At(0).Start
		} else if first, ok := heading.FirstChild().(*ast.Text); ok {
			offset = first.Segment.Start
		}
		if offset >= 0 {
			headings = append(headings, domain.Heading{
				Level:  heading.Level,
				Text:   extractText(heading, content),
				Offset: offset,
			})
		}
		return ast.WalkSkipChildren, nil
	})
	return headings
}

// extractText gets the text content of a heading node, including nested
// emphasis and code spans.
func extractText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch c := child.(type) {
		case *ast.Text:
			buf.Write(c.Segment.Value(source))
			if c.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		default:
			buf.WriteString(extractText(c, source))
		}
	}
	return buf.String()
}
