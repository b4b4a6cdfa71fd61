// Package sexpr turns WAT source text into a raw, untyped tree of
// S-expressions. It knows nothing about WebAssembly semantics — that is
// internal/instantiate's job — only about parenthesized atom lists,
// quoted strings, and comments.
package sexpr

import (
	"fmt"
	"strings"

	"github.com/watconform/watconform/internal/watruntime"
)

type tokenKind int

const (
	tokLParen tokenKind = iota
	tokRParen
	tokAtom
	tokString
)

type token struct {
	kind tokenKind
	text string
	line int
}

// lex tokenizes src, stripping `;; line` and nested `(; block ;)` comments
// the way the WAT text format defines them.
func lex(src string) ([]token, error) {
	var toks []token
	line := 1
	i := 0
	n := len(src)
	for i < n {
		c := src[i]
		switch {
		case c == '\n':
			line++
			i++
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case c == ';' && i+1 < n && src[i+1] == ';':
			for i < n && src[i] != '\n' {
				i++
			}
		case c == '(' && i+1 < n && src[i+1] == ';':
			depth := 1
			i += 2
			for i < n && depth > 0 {
				if src[i] == '\n' {
					line++
				}
				if i+1 < n && src[i] == '(' && src[i+1] == ';' {
					depth++
					i += 2
					continue
				}
				if i+1 < n && src[i] == ';' && src[i+1] == ')' {
					depth--
					i += 2
					continue
				}
				i++
			}
			if depth != 0 {
				return nil, fmt.Errorf("%w: unterminated block comment starting before line %d", watruntime.ErrInvalidSyntax, line)
			}
		case c == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", line: line})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", line: line})
			i++
		case c == '"':
			startLine := line
			i++
			var b strings.Builder
			for i < n && src[i] != '"' {
				if src[i] == '\\' && i+1 < n {
					b.WriteByte(src[i])
					b.WriteByte(src[i+1])
					i += 2
					continue
				}
				if src[i] == '\n' {
					line++
				}
				b.WriteByte(src[i])
				i++
			}
			if i >= n {
				return nil, fmt.Errorf("%w: unterminated string starting at line %d", watruntime.ErrInvalidSyntax, startLine)
			}
			i++ // closing quote
			toks = append(toks, token{kind: tokString, text: b.String(), line: startLine})
		default:
			start := i
			for i < n && !isDelim(src[i]) {
				i++
			}
			toks = append(toks, token{kind: tokAtom, text: src[start:i], line: line})
		}
	}
	return toks, nil
}

func isDelim(c byte) bool {
	switch c {
	case '(', ')', ' ', '\t', '\n', '\r', '"':
		return true
	default:
		return false
	}
}
