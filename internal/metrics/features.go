// Package metrics derives local text features from queries and answers.
package metrics

import (
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Features holds basic local text features derived from an input string.
type Features struct {
	Bytes int
	Runes int
	Words int
	Lines int
}

// AnswerFeatures extends Features with Markdown structure of an answer.
type AnswerFeatures struct {
	Features
	Links    int // inline links and bare URLs
	Headings int
}

// CountFeatures computes and returns byte, rune, word, and line counts for the input string.
func CountFeatures(s string) Features {
	return Features{
		Bytes: len(s),
		Runes: utf8.RuneCountInString(s),
		Words: countWords(s),
		Lines: countLines(s),
	}
}

// answerParser recognizes bare URLs so cited sources count as links.
var answerParser = goldmark.New(goldmark.WithExtensions(extension.Linkify)).Parser()

// CountAnswerFeatures computes Features plus link and heading counts of a
// Markdown answer.
func CountAnswerFeatures(md string) AnswerFeatures {
	out := AnswerFeatures{Features: CountFeatures(md)}
	if md == "" {
		return out
	}
	doc := answerParser.Parse(text.NewReader([]byte(md)))
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindLink, ast.KindAutoLink:
			out.Links++
		case ast.KindHeading:
			out.Headings++
		}
		return ast.WalkContinue, nil
	})
	return out
}

// countWords counts words split on Unicode whitespace.
func countWords(s string) int {
	return len(strings.Fields(s))
}

// countLines returns 0 for empty strings; otherwise 1 plus the number of '\n' runes.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	return 1 + strings.Count(s, "\n")
}
