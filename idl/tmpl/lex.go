package tmpl

import (
	"fmt"
	"strings"
)

// tagKind distinguishes the two tag forms spec.md §4.3 defines.
type tagKind int

const (
	tagText tagKind = iota
	tagInterp                 // {$ ... }
	tagStmt                   // {% ... %}
)

// rawTag is one lexical chunk of template source: either a run of literal
// text, or the raw (un-parsed) contents between `{$`/`}` or `{%`/`%}`.
type rawTag struct {
	kind tagKind
	text string // for tagText: literal text. otherwise: the tag's inner contents.

	trimLeadGT   bool // {$>...}: elide the value's trailing newline if it renders empty
	trimTrailGT  bool // a trailing '>' just before the closing delimiter: elide the following newline
	line, column int
}

// lexTemplate splits src into a flat sequence of rawTags. It understands
// the whitespace-control '>' markers and the fact that `--` starts a
// comment running to end of line only inside a {% %} statement tag, never
// inside plain text or a {$ $} interpolation (spec.md §4.3 / §9 Open
// Question #3).
func lexTemplate(src string) ([]rawTag, error) {
	var out []rawTag
	pos := 0
	line, col := 1, 1
	advance := func(n int) {
		for i := 0; i < n; i++ {
			if pos+i < len(src) && src[pos+i] == '\n' {
				line++
				col = 1
			} else {
				col++
			}
		}
		pos += n
	}

	textStart := pos
	startLine, startCol := line, col
	flushText := func() {
		if pos > textStart {
			out = append(out, rawTag{kind: tagText, text: src[textStart:pos], line: startLine, column: startCol})
		}
	}

	for pos < len(src) {
		if src[pos] == '{' && pos+1 < len(src) && (src[pos+1] == '$' || src[pos+1] == '%') {
			flushText()
			isStmt := src[pos+1] == '%'
			openLine, openCol := line, col
			advance(2)

			trimLead := false
			if isStmt {
				// no leading '>' form for {% %}
			} else if pos < len(src) && src[pos] == '>' {
				trimLead = true
				advance(1)
			}

			closer := "}"
			if isStmt {
				closer = "%}"
			}
			var bodyBuf strings.Builder
			segStart := pos
			closed := false
			for pos < len(src) {
				if isStmt && src[pos] == '-' && pos+1 < len(src) && src[pos+1] == '-' {
					bodyBuf.WriteString(src[segStart:pos])
					for pos < len(src) && src[pos] != '\n' {
						advance(1)
					}
					segStart = pos
					continue
				}
				if pos+len(closer) <= len(src) && src[pos:pos+len(closer)] == closer {
					closed = true
					break
				}
				advance(1)
			}
			if !closed {
				return nil, fmt.Errorf("%d:%d: unterminated template tag", openLine, openCol)
			}
			bodyBuf.WriteString(src[segStart:pos])
			body := bodyBuf.String()
			trimTrail := false
			trimmed := rtrimSpaceTabs(body)
			if len(trimmed) > 0 && trimmed[len(trimmed)-1] == '>' {
				trimTrail = true
				body = trimmed[:len(trimmed)-1]
			}
			advance(len(closer))

			kind := tagInterp
			if isStmt {
				kind = tagStmt
			}
			out = append(out, rawTag{kind: kind, text: body, trimLeadGT: trimLead, trimTrailGT: trimTrail, line: openLine, column: openCol})

			textStart = pos
			startLine, startCol = line, col
			continue
		}
		advance(1)
	}
	flushText()
	return out, nil
}

func rtrimSpaceTabs(s string) string {
	i := len(s)
	for i > 0 && (s[i-1] == ' ' || s[i-1] == '\t') {
		i--
	}
	return s[:i]
}
