package orion

import (
	"fmt"
	"strconv"
)

type TokenKind int

const (
	TokLeftParen TokenKind = iota
	TokRightParen
	TokLeftBrace
	TokRightBrace
	TokString
	TokInt
	TokFloat
	TokBool
	TokNil
	TokIdent
	TokIllegal // unterminated string; Text holds what was consumed
)

// Token is one lexical unit. Line is 1-based and only used for diagnostics.
type Token struct {
	Kind  TokenKind
	Text  string
	Int   int32
	Float float32
	Bool  bool
	Line  int
}

func (t Token) String() string {
	switch t.Kind {
	case TokLeftParen:
		return "("
	case TokRightParen:
		return ")"
	case TokLeftBrace:
		return "{"
	case TokRightBrace:
		return "}"
	case TokString:
		return strconv.Quote(t.Text)
	case TokInt:
		return strconv.FormatInt(int64(t.Int), 10)
	case TokFloat:
		return formatFloat(t.Float)
	case TokBool:
		return strconv.FormatBool(t.Bool)
	case TokNil:
		return "nil"
	case TokIdent:
		return t.Text
	case TokIllegal:
		return fmt.Sprintf("unterminated string %q", t.Text)
	default:
		return "<unknown>"
	}
}
