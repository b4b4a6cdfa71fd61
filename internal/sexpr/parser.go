package sexpr

import (
	"fmt"
	"strings"

	"github.com/watconform/watconform/internal/watruntime"
)

// Atom is a single non-parenthesized token inside a Node: an identifier,
// keyword, number, or quoted string.
type Atom struct {
	Text     string
	IsString bool
	Line     int
}

// Node is one parenthesized S-expression: (Head Atoms... Children...).
// Atoms and Children each preserve source order, but their interleaving
// is not tracked — consumers walk Atoms first, then Children, which
// matches every construct the text format defines (the head keyword's
// immediates come before any nested forms).
type Node struct {
	Head     string
	Atoms    []Atom
	Children []*Node
	Line     int
}

// String renders n back to a single-line text form that re-parses to the
// same tree. Atoms print before children, so a form whose immediates were
// interleaved with nested groups comes back normalized.
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	b.WriteByte('(')
	b.WriteString(n.Head)
	for _, a := range n.Atoms {
		b.WriteByte(' ')
		if a.IsString {
			b.WriteByte('"')
			b.WriteString(a.Text)
			b.WriteByte('"')
		} else {
			b.WriteString(a.Text)
		}
	}
	for _, c := range n.Children {
		b.WriteByte(' ')
		c.write(b)
	}
	b.WriteByte(')')
}

// Name returns n's first atom when it is a $name, else "".
func (n *Node) Name() string {
	if len(n.Atoms) > 0 && len(n.Atoms[0].Text) > 0 && n.Atoms[0].Text[0] == '$' {
		return n.Atoms[0].Text
	}
	return ""
}

// Parse tokenizes and parses src into the top-level list of forms a
// conformance script contains: one or more parenthesized expressions in
// sequence (a single `(module ...)`, or a script mixing module/assert_*
// directives).
func Parse(src string) ([]*Node, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	var top []*Node
	for !p.atEnd() {
		n, err := p.parseNode()
		if err != nil {
			return nil, err
		}
		top = append(top, n)
	}
	return top, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) atEnd() bool { return p.pos >= len(p.toks) }

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) parseNode() (*Node, error) {
	if p.atEnd() || p.peek().kind != tokLParen {
		line := 0
		if !p.atEnd() {
			line = p.peek().line
		}
		return nil, fmt.Errorf("line %d: %w: expected '('", line, watruntime.ErrInvalidSyntax)
	}
	openLine := p.peek().line
	p.pos++ // consume '('

	n := &Node{Line: openLine}
	if p.atEnd() {
		return nil, fmt.Errorf("line %d: %w: unterminated expression", openLine, watruntime.ErrInvalidSyntax)
	}
	if p.peek().kind == tokAtom {
		n.Head = p.peek().text
		p.pos++
	} else {
		return nil, fmt.Errorf("line %d: %w: expected head keyword", openLine, watruntime.ErrInvalidSyntax)
	}

	for {
		if p.atEnd() {
			return nil, fmt.Errorf("line %d: %w: unterminated expression", openLine, watruntime.ErrInvalidSyntax)
		}
		switch p.peek().kind {
		case tokRParen:
			p.pos++
			return n, nil
		case tokLParen:
			child, err := p.parseNode()
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
		case tokAtom:
			n.Atoms = append(n.Atoms, Atom{Text: p.peek().text, Line: p.peek().line})
			p.pos++
		case tokString:
			n.Atoms = append(n.Atoms, Atom{Text: p.peek().text, IsString: true, Line: p.peek().line})
			p.pos++
		}
	}
}
