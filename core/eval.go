package orion

import (
	"bufio"
	"database/sql"
	"io"
	"log"
	"os"
)

// Interpreter evaluates a parsed program. It owns a single scope stack for
// its whole lifetime, so successive ProcessAst calls share bindings.
type Interpreter struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  *bufio.Reader

	// Logger receives one line per evaluated form when Trace is set.
	Logger *log.Logger
	Trace  bool

	ast      *Node
	frames   []frame
	builtins map[string]builtinSpec
	line     int // line of the call being dispatched, for assert
	dbs      map[string]*sql.DB
	rng      *lehmer
}

// New returns an interpreter for ast with an empty global frame.
func New(ast *Node) *Interpreter {
	in := &Interpreter{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Stdin:  bufio.NewReader(os.Stdin),
		Logger: log.New(os.Stderr, "orion: ", 0),
		ast:    ast,
		frames: []frame{{}},
		dbs:    map[string]*sql.DB{},
	}
	in.builtins = in.defaultBuiltins()
	return in
}

// Eval runs the whole program the interpreter was built with.
func (in *Interpreter) Eval() error {
	if in.ast == nil {
		return nil
	}
	_, err := in.evalScope(in.ast)
	return err
}

// ProcessAst evaluates the forms of node directly in the current scope
// stack, without pushing a frame, so definitions persist between calls.
func (in *Interpreter) ProcessAst(node *Node) error {
	_, err := in.evalBody(node.Children)
	return err
}

// EvalString parses input and evaluates it like ProcessAst, returning the
// value of the last form.
func (in *Interpreter) EvalString(input string) (Value, error) {
	node, err := Parse(input)
	if err != nil {
		return Value{}, err
	}
	return in.evalBody(node.Children)
}

// Close releases databases opened with db:open.
func (in *Interpreter) Close() error {
	var first error
	for path, db := range in.dbs {
		if err := db.Close(); err != nil && first == nil {
			first = wrapf(IOError, err, "close %s", path)
		}
		delete(in.dbs, path)
	}
	return first
}

func (in *Interpreter) evalScope(node *Node) (Value, error) {
	in.pushFrame()
	defer in.popFrame()
	return in.evalBody(node.Children)
}

// evalBody evaluates forms in order and yields the last value. A return
// form ends the block early with its own value.
func (in *Interpreter) evalBody(forms []*Node) (Value, error) {
	result := NilVal()
	for _, form := range forms {
		if in.Trace && in.Logger != nil {
			in.Logger.Printf("line %d: %s", form.Line, form)
		}
		if form.Kind == NodeCall && form.Str == "return" {
			return in.evalNode(form)
		}
		val, err := in.evalNode(form)
		if err != nil {
			return Value{}, err
		}
		result = val
	}
	return result, nil
}

func (in *Interpreter) evalNode(node *Node) (Value, error) {
	switch node.Kind {
	case NodeInt:
		return IntVal(node.Int), nil
	case NodeFloat:
		return FloatVal(node.Float), nil
	case NodeBool:
		return BoolVal(node.Bool), nil
	case NodeString:
		return StringVal(node.Str), nil
	case NodeNil:
		return NilVal(), nil
	case NodeIdent:
		val, err := in.resolveIdent(node.Str)
		if err != nil {
			return Value{}, withLine(err, node.Line)
		}
		return val, nil
	case NodeScope:
		return in.evalScope(node)
	case NodeCall:
		val, err := in.evalCall(node)
		if err != nil {
			return Value{}, withLine(err, node.Line)
		}
		return val, nil
	default:
		return Value{}, errorf(SyntaxError, "unknown node kind: %d", node.Kind)
	}
}

func withLine(err error, line int) error {
	if e, ok := err.(*Error); ok {
		e.atLine(line)
	}
	return err
}

func (in *Interpreter) evalCall(node *Node) (Value, error) {
	switch node.Str {
	case "define":
		return in.evalDefine(node, false)
	case "var":
		return in.evalDefine(node, true)
	case "set":
		return in.evalSet(node)
	case "return":
		return in.evalReturn(node)
	case "if":
		return in.evalIf(node)
	case "while":
		return in.evalWhile(node)
	case "lambda":
		return in.evalLambda(node)
	case "match":
		return in.evalMatch(node)
	case "+", "-", "*", "/", "%":
		a, b, err := in.evalOperands(node)
		if err != nil {
			return Value{}, err
		}
		return arith(node.Str, a, b)
	case "=", "!=", "<", ">", "<=", ">=":
		a, b, err := in.evalOperands(node)
		if err != nil {
			return Value{}, err
		}
		return compare(node.Str, a, b), nil
	case "|", "&":
		a, b, err := in.evalOperands(node)
		if err != nil {
			return Value{}, err
		}
		return logic(node.Str, a, b), nil
	case "!":
		if len(node.Children) != 1 {
			return Value{}, arityErrorf("!", Exactly(1), len(node.Children))
		}
		a, err := in.evalNode(node.Children[0])
		if err != nil {
			return Value{}, err
		}
		return not(a), nil
	}

	args := make([]Value, len(node.Children))
	for i, child := range node.Children {
		val, err := in.evalNode(child)
		if err != nil {
			return Value{}, err
		}
		args[i] = val
	}
	if spec, ok := in.builtins[node.Str]; ok {
		if !spec.arity.accepts(len(args)) {
			return Value{}, arityErrorf(node.Str, spec.arity, len(args))
		}
		in.line = node.Line
		return spec.fn(args)
	}
	return in.callNamed(node.Str, args)
}

func (in *Interpreter) callNamed(name string, args []Value) (Value, error) {
	b, ok := in.lookupBinding(name)
	if !ok {
		return Value{}, errorf(UndefinedCall, "undefined function: %s", name)
	}
	if b.val.Kind != ValFn {
		return Value{}, errorf(NotCallable, "%s is a %s, not a function", name, b.val.TypeName())
	}
	return in.invoke(name, b.val.Fn, args, false)
}

// CallFn calls a user function with already evaluated arguments. Parameters
// are bound immutably in a fresh frame on top of the live scope stack.
func (in *Interpreter) CallFn(fn *FnValue, args []Value) (Value, error) {
	return in.invoke(FnVal(fn).String(), fn, args, false)
}

// invoke binds args to fn's parameters and runs its body. name is what the
// function was called as, for arity errors.
func (in *Interpreter) invoke(name string, fn *FnValue, args []Value, mutable bool) (Value, error) {
	if len(args) != len(fn.Params) {
		return Value{}, arityErrorf(name, Exactly(len(fn.Params)), len(args))
	}
	in.pushFrame()
	defer in.popFrame()
	top := in.frames[len(in.frames)-1]
	for i, param := range fn.Params {
		top[param] = &binding{val: args[i], mutable: mutable}
	}
	return in.evalBody(fn.Body.Children)
}

func (in *Interpreter) evalOperands(node *Node) (Value, Value, error) {
	if len(node.Children) != 2 {
		return Value{}, Value{}, arityErrorf(node.Str, Exactly(2), len(node.Children))
	}
	a, err := in.evalNode(node.Children[0])
	if err != nil {
		return Value{}, Value{}, err
	}
	b, err := in.evalNode(node.Children[1])
	if err != nil {
		return Value{}, Value{}, err
	}
	return a, b, nil
}

// bindingName extracts the identifier a binding form names.
func bindingName(form string, node *Node) (string, error) {
	if node.Kind != NodeIdent {
		return "", errorf(TypeError, "%s: expected identifier, found %s", form, node.Kind)
	}
	return node.Str, nil
}

func expectScope(form string, node *Node) error {
	if node.Kind != NodeScope {
		return errorf(TypeError, "%s: expected scope, found %s", form, node.Kind)
	}
	return nil
}

// evalDefine: (define name expr) and (var name expr).
func (in *Interpreter) evalDefine(node *Node, mutable bool) (Value, error) {
	if len(node.Children) != 2 {
		return Value{}, arityErrorf(node.Str, Exactly(2), len(node.Children))
	}
	name, err := bindingName(node.Str, node.Children[0])
	if err != nil {
		return Value{}, err
	}
	if _, exists := in.frames[len(in.frames)-1][name]; exists {
		return Value{}, errorf(DuplicateDefinition, "attempted to define an existing variable: %s", name)
	}
	val, err := in.evalNode(node.Children[1])
	if err != nil {
		return Value{}, err
	}
	if err := in.bind(name, val, mutable); err != nil {
		return Value{}, err
	}
	return NilVal(), nil
}

// evalSet: (set name expr). The binding is checked before expr runs.
func (in *Interpreter) evalSet(node *Node) (Value, error) {
	if len(node.Children) != 2 {
		return Value{}, arityErrorf("set", Exactly(2), len(node.Children))
	}
	name, err := bindingName("set", node.Children[0])
	if err != nil {
		return Value{}, err
	}
	if err := in.checkAssignable(name); err != nil {
		return Value{}, err
	}
	val, err := in.evalNode(node.Children[1])
	if err != nil {
		return Value{}, err
	}
	if err := in.assign(name, val); err != nil {
		return Value{}, err
	}
	return NilVal(), nil
}

// evalReturn: (return [expr]). Only evalBody gives it its short-circuit
// meaning; anywhere else it just yields its value.
func (in *Interpreter) evalReturn(node *Node) (Value, error) {
	switch len(node.Children) {
	case 0:
		return NilVal(), nil
	case 1:
		return in.evalNode(node.Children[0])
	default:
		return Value{}, errorf(ArityError, "return: expected 0 or 1 args, got %d", len(node.Children))
	}
}

// evalIf: (if cond {then} [{else}]). Anything but true takes the else branch.
func (in *Interpreter) evalIf(node *Node) (Value, error) {
	n := len(node.Children)
	if n != 2 && n != 3 {
		return Value{}, errorf(ArityError, "if: expected 2 or 3 args, got %d", n)
	}
	for _, branch := range node.Children[1:] {
		if err := expectScope("if", branch); err != nil {
			return Value{}, err
		}
	}
	cond, err := in.evalNode(node.Children[0])
	if err != nil {
		return Value{}, err
	}
	if cond.Kind == ValBool && cond.Bool {
		return in.evalNode(node.Children[1])
	}
	if n == 3 {
		return in.evalNode(node.Children[2])
	}
	return NilVal(), nil
}

// evalWhile: (while cond {body}). Yields nil.
func (in *Interpreter) evalWhile(node *Node) (Value, error) {
	if len(node.Children) != 2 {
		return Value{}, arityErrorf("while", Exactly(2), len(node.Children))
	}
	if err := expectScope("while", node.Children[1]); err != nil {
		return Value{}, err
	}
	for {
		cond, err := in.evalNode(node.Children[0])
		if err != nil {
			return Value{}, err
		}
		if cond.Kind != ValBool || !cond.Bool {
			return NilVal(), nil
		}
		if _, err := in.evalNode(node.Children[1]); err != nil {
			return Value{}, err
		}
	}
}

// evalLambda: (lambda (p1 p2 ...) {body}) or (lambda {body}). The parameter
// list is written as a call form, so its head is the first parameter.
func (in *Interpreter) evalLambda(node *Node) (Value, error) {
	switch len(node.Children) {
	case 1:
		body := node.Children[0]
		if body.Kind != NodeScope {
			return Value{}, errorf(TypeError, "lambda: expected body scope, found %s", body.Kind)
		}
		return FnVal(&FnValue{Params: []string{}, Body: body}), nil
	case 2:
		paramsNode, body := node.Children[0], node.Children[1]
		if paramsNode.Kind != NodeCall {
			return Value{}, errorf(TypeError, "lambda: expected parameter list, found %s", paramsNode.Kind)
		}
		if body.Kind != NodeScope {
			return Value{}, errorf(TypeError, "lambda: expected body scope, found %s", body.Kind)
		}
		params := make([]string, 0, len(paramsNode.Children)+1)
		params = append(params, paramsNode.Str)
		for _, p := range paramsNode.Children {
			if p.Kind != NodeIdent {
				return Value{}, errorf(TypeError, "lambda: parameter names must be identifiers, found %s", p.Kind)
			}
			params = append(params, p.Str)
		}
		return FnVal(&FnValue{Params: params, Body: body}), nil
	default:
		return Value{}, errorf(ArityError, "lambda: expected 1 or 2 args, got %d", len(node.Children))
	}
}

// evalMatch: (match subject { (=> pattern body)* (_ body)? }). The arms may
// also follow the subject directly without the enclosing braces. Patterns
// are evaluated and compared with ValuesEqual; nothing is bound.
func (in *Interpreter) evalMatch(node *Node) (Value, error) {
	if len(node.Children) < 1 {
		return Value{}, arityErrorf("match", AtLeast(1), 0)
	}
	subject, err := in.evalNode(node.Children[0])
	if err != nil {
		return Value{}, err
	}
	arms := node.Children[1:]
	if len(arms) == 1 && arms[0].Kind == NodeScope {
		arms = arms[0].Children
	}
	for _, arm := range arms {
		if arm.Kind != NodeCall {
			return Value{}, errorf(SyntaxError, "match: expected => or _ arm, found %s", arm)
		}
		switch arm.Str {
		case "=>":
			if len(arm.Children) != 2 {
				return Value{}, arityErrorf("=>", Exactly(2), len(arm.Children))
			}
			pattern, err := in.evalNode(arm.Children[0])
			if err != nil {
				return Value{}, err
			}
			if ValuesEqual(subject, pattern) {
				return in.evalNode(arm.Children[1])
			}
		case "_":
			if len(arm.Children) != 1 {
				return Value{}, arityErrorf("_", Exactly(1), len(arm.Children))
			}
			return in.evalNode(arm.Children[0])
		default:
			return Value{}, errorf(SyntaxError, "match: expected => or _ arm, found %s", arm)
		}
	}
	return NilVal(), nil
}
