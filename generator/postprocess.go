package generator

import (
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var mdParser = goldmark.New().Parser()

// CleanCompletion trims a completion and unwraps it when the whole reply is
// enclosed in one pair of quotes or in a single emphasis or code span. Anything
// else, including headings and inline markup, is returned as is.
func CleanCompletion(raw string) string {
	s := trimQuotes(strings.TrimSpace(raw))
	if inner, ok := unwrapMarkup(s); ok {
		return trimQuotes(inner)
	}
	return s
}

// charCount counts code points, which is how ad limits are measured.
func charCount(s string) int {
	return utf8.RuneCountInString(s)
}

// unwrapMarkup returns the text of s when s parses as one paragraph whose only
// child is an emphasis or a code span.
func unwrapMarkup(s string) (string, bool) {
	if !strings.ContainsAny(s, "*_`") {
		return "", false
	}
	src := []byte(s)
	doc := mdParser.Parse(text.NewReader(src))
	para, ok := doc.FirstChild().(*ast.Paragraph)
	if !ok || doc.ChildCount() != 1 || para.ChildCount() != 1 {
		return "", false
	}
	switch para.FirstChild().(type) {
	case *ast.Emphasis, *ast.CodeSpan:
	default:
		return "", false
	}

	var b strings.Builder
	_ = ast.Walk(para, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String()), true
}

var quotePairs = [][2]string{{`"`, `"`}, {"“", "”"}, {"'", "'"}}

func trimQuotes(s string) string {
	for _, p := range quotePairs {
		if len(s) < len(p[0])+len(p[1]) || !strings.HasPrefix(s, p[0]) || !strings.HasSuffix(s, p[1]) {
			continue
		}
		inner := s[len(p[0]) : len(s)-len(p[1])]
		if strings.Contains(inner, p[0]) || strings.Contains(inner, p[1]) {
			continue
		}
		return strings.TrimSpace(inner)
	}
	return s
}
