package orion

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Lexer turns source text into tokens. It never fails: anything it cannot
// classify becomes an identifier, and an unterminated string becomes a
// TokIllegal token that the parser rejects.
type Lexer struct {
	src  string
	pos  int // byte offset of the next rune
	line int
}

func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1}
}

// Scan lexes the whole input.
func Scan(src string) []Token {
	return NewLexer(src).Tokens()
}

func (l *Lexer) Tokens() []Token {
	var toks []Token
	for {
		tok, ok := l.Next()
		if !ok {
			return toks
		}
		toks = append(toks, tok)
	}
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
	return r
}

func (l *Lexer) peekAt(offset int) rune {
	p := l.pos
	for i := 0; i < offset; i++ {
		if p >= len(l.src) {
			return 0
		}
		_, w := utf8.DecodeRuneInString(l.src[p:])
		p += w
	}
	if p >= len(l.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.src[p:])
	return r
}

func (l *Lexer) advance() rune {
	r, w := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += w
	if r == '\n' {
		l.line++
	}
	return r
}

// Next returns the next token, or false at end of input.
func (l *Lexer) Next() (Token, bool) {
	for l.pos < len(l.src) {
		line := l.line
		c := l.peek()
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.advance()
		case c == '#' || c == ';':
			for l.pos < len(l.src) && l.peek() != '\n' {
				l.advance()
			}
		case c == '(':
			l.advance()
			return Token{Kind: TokLeftParen, Line: line}, true
		case c == ')':
			l.advance()
			return Token{Kind: TokRightParen, Line: line}, true
		case c == '{':
			l.advance()
			return Token{Kind: TokLeftBrace, Line: line}, true
		case c == '}':
			l.advance()
			return Token{Kind: TokRightBrace, Line: line}, true
		case c == '"':
			return l.lexString(), true
		case isDigit(c) || (c == '-' && isDigit(l.peekAt(1))):
			return l.lexNumber(), true
		default:
			return l.lexIdent(), true
		}
	}
	return Token{}, false
}

func (l *Lexer) lexString() Token {
	line := l.line
	l.advance() // opening quote
	var sb strings.Builder
	for l.pos < len(l.src) {
		c := l.advance()
		switch c {
		case '"':
			return Token{Kind: TokString, Text: sb.String(), Line: line}
		case '\\':
			if l.pos >= len(l.src) {
				sb.WriteRune('\\')
				continue
			}
			esc := l.advance()
			switch esc {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case 'r':
				sb.WriteRune('\r')
			case '"', '\\':
				sb.WriteRune(esc)
			default:
				sb.WriteRune('\\')
				sb.WriteRune(esc)
			}
		default:
			sb.WriteRune(c)
		}
	}
	return Token{Kind: TokIllegal, Text: sb.String(), Line: line}
}

func (l *Lexer) lexNumber() Token {
	line := l.line
	start := l.pos
	if l.peek() == '-' {
		l.advance()
	}
	for isDigit(l.peek()) {
		l.advance()
	}
	fractional := false
	if l.peek() == '.' {
		fractional = true
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	raw := l.src[start:l.pos]
	if !fractional {
		if i, err := strconv.ParseInt(raw, 10, 32); err == nil {
			return Token{Kind: TokInt, Int: int32(i), Line: line}
		}
	}
	// out-of-range integers fall back to float, like "4." does
	f, _ := strconv.ParseFloat(raw, 32)
	return Token{Kind: TokFloat, Float: float32(f), Line: line}
}

func (l *Lexer) lexIdent() Token {
	line := l.line
	start := l.pos
	for l.pos < len(l.src) && !isDelimiter(l.peek()) {
		l.advance()
	}
	raw := l.src[start:l.pos]
	switch raw {
	case "true":
		return Token{Kind: TokBool, Bool: true, Line: line}
	case "false":
		return Token{Kind: TokBool, Bool: false, Line: line}
	case "nil":
		return Token{Kind: TokNil, Line: line}
	}
	return Token{Kind: TokIdent, Text: raw, Line: line}
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isDelimiter(c rune) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '(', ')', '{', '}':
		return true
	}
	return false
}

// Incomplete reports whether src ends inside an open form or string, which
// the REPL uses to keep reading continuation lines.
func Incomplete(src string) bool {
	depth := 0
	for _, tok := range Scan(src) {
		switch tok.Kind {
		case TokLeftParen, TokLeftBrace:
			depth++
		case TokRightParen, TokRightBrace:
			depth--
		case TokIllegal:
			return true
		}
	}
	return depth > 0
}
