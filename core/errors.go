package orion

import "fmt"

// ErrorKind classifies every error the interpreter can return.
type ErrorKind int

const (
	SyntaxError ErrorKind = iota
	ArityError
	UndefinedVariable
	DuplicateDefinition
	ImmutableAssignment
	TypeMismatchAssignment
	TypeError
	IndexOutOfBounds
	UndefinedCall
	NotCallable
	KeyError
	ArithmeticError
	IOError
	ImportError
)

func (k ErrorKind) String() string {
	switch k {
	case SyntaxError:
		return "SyntaxError"
	case ArityError:
		return "ArityError"
	case UndefinedVariable:
		return "UndefinedVariable"
	case DuplicateDefinition:
		return "DuplicateDefinition"
	case ImmutableAssignment:
		return "ImmutableAssignment"
	case TypeMismatchAssignment:
		return "TypeMismatchAssignment"
	case TypeError:
		return "TypeError"
	case IndexOutOfBounds:
		return "IndexOutOfBounds"
	case UndefinedCall:
		return "UndefinedCall"
	case NotCallable:
		return "NotCallable"
	case KeyError:
		return "KeyError"
	case ArithmeticError:
		return "ArithmeticError"
	case IOError:
		return "IOError"
	case ImportError:
		return "ImportError"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is returned by the lexer/parser/evaluator. Line is the source line of
// the innermost form that failed, or 0 when unknown.
type Error struct {
	Kind ErrorKind
	Msg  string
	Line int
	Err  error // wrapped host error, if any
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s (line %d): %s", e.Kind, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so callers can write
// errors.Is(err, orion.ErrTypeError).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrSyntax                 = &Error{Kind: SyntaxError}
	ErrArity                  = &Error{Kind: ArityError}
	ErrUndefinedVariable      = &Error{Kind: UndefinedVariable}
	ErrDuplicateDefinition    = &Error{Kind: DuplicateDefinition}
	ErrImmutableAssignment    = &Error{Kind: ImmutableAssignment}
	ErrTypeMismatchAssignment = &Error{Kind: TypeMismatchAssignment}
	ErrTypeError              = &Error{Kind: TypeError}
	ErrIndexOutOfBounds       = &Error{Kind: IndexOutOfBounds}
	ErrUndefinedCall          = &Error{Kind: UndefinedCall}
	ErrNotCallable            = &Error{Kind: NotCallable}
	ErrKey                    = &Error{Kind: KeyError}
	ErrArithmetic             = &Error{Kind: ArithmeticError}
	ErrIO                     = &Error{Kind: IOError}
	ErrImport                 = &Error{Kind: ImportError}
)

func errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func wrapf(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...) + ": " + err.Error(), Err: err}
}

func arityErrorf(name string, want Arity, got int) *Error {
	return errorf(ArityError, "%s: expected %s, got %d", name, want, got)
}

// AssertError is the panic payload of a failed assert. It is never returned
// as an error: a failed assertion aborts the host program.
type AssertError struct {
	Message string
	Line    int
}

func (e *AssertError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("assertion failed [line %d]: %s", e.Line, e.Message)
	}
	return fmt.Sprintf("assertion failed: %s", e.Message)
}
