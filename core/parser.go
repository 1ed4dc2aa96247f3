package orion

import (
	"fmt"
	"strconv"
	"strings"
)

type NodeKind int

const (
	NodeScope NodeKind = iota // { form* } and the program itself
	NodeCall                  // (name arg*): Str = name
	NodeIdent                 // Str = name
	NodeInt
	NodeFloat
	NodeBool
	NodeString
	NodeNil
)

func (k NodeKind) String() string {
	switch k {
	case NodeScope:
		return "scope"
	case NodeCall:
		return "call"
	case NodeIdent:
		return "identifier"
	case NodeInt:
		return "int"
	case NodeFloat:
		return "float"
	case NodeBool:
		return "bool"
	case NodeString:
		return "string"
	case NodeNil:
		return "nil"
	default:
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
}

// Node is an AST node. Trees are never mutated after parsing, so function
// values share their body node instead of copying it.
type Node struct {
	Kind     NodeKind
	Int      int32
	Float    float32
	Bool     bool
	Str      string
	Line     int
	Children []*Node
}

func (n *Node) String() string {
	switch n.Kind {
	case NodeInt:
		return strconv.FormatInt(int64(n.Int), 10)
	case NodeFloat:
		s := formatFloat(n.Float)
		if !strings.ContainsAny(s, ".eIN") {
			s += "."
		}
		return s
	case NodeBool:
		return strconv.FormatBool(n.Bool)
	case NodeString:
		return strconv.Quote(n.Str)
	case NodeIdent:
		return n.Str
	case NodeNil:
		return "nil"
	case NodeCall:
		parts := make([]string, 0, len(n.Children)+1)
		parts = append(parts, n.Str)
		for _, c := range n.Children {
			parts = append(parts, c.String())
		}
		return "(" + strings.Join(parts, " ") + ")"
	case NodeScope:
		parts := make([]string, len(n.Children))
		for i, c := range n.Children {
			parts[i] = c.String()
		}
		return "{" + strings.Join(parts, " ") + "}"
	default:
		return "<unknown>"
	}
}

// Equal reports whether two trees are structurally identical (line numbers
// are ignored).
func (n *Node) Equal(o *Node) bool {
	if n == o {
		return true
	}
	if n == nil || o == nil {
		return false
	}
	if n.Kind != o.Kind || n.Int != o.Int || n.Float != o.Float || n.Bool != o.Bool || n.Str != o.Str {
		return false
	}
	if len(n.Children) != len(o.Children) {
		return false
	}
	for i := range n.Children {
		if !n.Children[i].Equal(o.Children[i]) {
			return false
		}
	}
	return true
}

type parser struct {
	toks []Token
	pos  int
}

// Parse lexes and parses a whole program into a top-level scope node.
func Parse(src string) (*Node, error) {
	return ParseTokens(Scan(src))
}

// ParseTokens parses a token stream. Only ( and { may start a top-level
// form. An opener with no matching closer is closed at end of input.
func ParseTokens(toks []Token) (*Node, error) {
	p := &parser{toks: toks}
	prog := &Node{Kind: NodeScope, Line: 1}
	for !p.atEnd() {
		tok := p.advance()
		switch tok.Kind {
		case TokLeftParen:
			call, err := p.parseCall(tok)
			if err != nil {
				return nil, err
			}
			prog.Children = append(prog.Children, call)
		case TokLeftBrace:
			scope, err := p.parseScope(tok)
			if err != nil {
				return nil, err
			}
			prog.Children = append(prog.Children, scope)
		default:
			return nil, unexpected(tok)
		}
	}
	return prog, nil
}

func (p *parser) atEnd() bool {
	return p.pos >= len(p.toks)
}

func (p *parser) advance() Token {
	tok := p.toks[p.pos]
	p.pos++
	return tok
}

func (p *parser) check(kind TokenKind) bool {
	return !p.atEnd() && p.toks[p.pos].Kind == kind
}

func (p *parser) parseCall(open Token) (*Node, error) {
	if p.atEnd() {
		return nil, errorf(SyntaxError, "unexpected end of input after (").atLine(open.Line)
	}
	head := p.advance()
	if head.Kind != TokIdent {
		return nil, unexpected(head)
	}
	call := &Node{Kind: NodeCall, Str: head.Text, Line: head.Line}
	for !p.atEnd() && !p.check(TokRightParen) {
		child, err := p.parseArg()
		if err != nil {
			return nil, err
		}
		call.Children = append(call.Children, child)
	}
	if p.check(TokRightParen) {
		p.advance()
	}
	return call, nil
}

func (p *parser) parseScope(open Token) (*Node, error) {
	scope := &Node{Kind: NodeScope, Line: open.Line}
	for !p.atEnd() && !p.check(TokRightBrace) {
		child, err := p.parseArg()
		if err != nil {
			return nil, err
		}
		scope.Children = append(scope.Children, child)
	}
	if p.check(TokRightBrace) {
		p.advance()
	}
	return scope, nil
}

// parseArg parses one element inside a call or a scope. A closer reaching
// here belongs to the other kind of form.
func (p *parser) parseArg() (*Node, error) {
	tok := p.advance()
	switch tok.Kind {
	case TokString:
		return &Node{Kind: NodeString, Str: tok.Text, Line: tok.Line}, nil
	case TokInt:
		return &Node{Kind: NodeInt, Int: tok.Int, Line: tok.Line}, nil
	case TokFloat:
		return &Node{Kind: NodeFloat, Float: tok.Float, Line: tok.Line}, nil
	case TokBool:
		return &Node{Kind: NodeBool, Bool: tok.Bool, Line: tok.Line}, nil
	case TokNil:
		return &Node{Kind: NodeNil, Line: tok.Line}, nil
	case TokIdent:
		return &Node{Kind: NodeIdent, Str: tok.Text, Line: tok.Line}, nil
	case TokLeftParen:
		return p.parseCall(tok)
	case TokLeftBrace:
		return p.parseScope(tok)
	}
	return nil, unexpected(tok)
}

func unexpected(tok Token) *Error {
	return errorf(SyntaxError, "unexpected token: %s", tok).atLine(tok.Line)
}

func (e *Error) atLine(line int) *Error {
	if e.Line == 0 {
		e.Line = line
	}
	return e
}
