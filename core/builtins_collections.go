package orion

import (
	"errors"
	"os"
	"unicode/utf8"
)

func builtinList(args []Value) (Value, error) {
	return NewList(args)
}

// builtinObject: (object k1 v1 k2 v2 ...). A repeated key keeps the last value.
func builtinObject(args []Value) (Value, error) {
	if len(args)%2 != 0 {
		return Value{}, errorf(ArityError, "object: expected an even number of args, got %d", len(args))
	}
	m := make(map[string]Value, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		if args[i].Kind != ValString {
			return Value{}, typeErrorf("object", "string key", args[i])
		}
		m[args[i].Str] = args[i+1]
	}
	return ObjectVal(m), nil
}

// builtinPush returns a new collection:
//
//	(push list elem)      appends, keeping the list homogeneous
//	(push string v)       appends the display form of v
//	(push object key)     adds key bound to nil; key must be new
//	(push object key v)   adds or replaces key
func builtinPush(args []Value) (Value, error) {
	if err := maxArgs("push", args, 3); err != nil {
		return Value{}, err
	}
	target := args[0]
	switch target.Kind {
	case ValList:
		if len(args) != 2 {
			return Value{}, arityErrorf("push", Exactly(2), len(args))
		}
		return target.Push(args[1])
	case ValString:
		if len(args) != 2 {
			return Value{}, arityErrorf("push", Exactly(2), len(args))
		}
		return StringVal(target.Str + args[1].String()), nil
	case ValObject:
		if args[1].Kind != ValString {
			return Value{}, typeErrorf("push", "string key", args[1])
		}
		key := args[1].Str
		if len(args) == 2 {
			if _, exists := target.Object[key]; exists {
				return Value{}, errorf(KeyError, "push: key %q is already present", key)
			}
			return withKey(target, key, NilVal()), nil
		}
		return withKey(target, key, args[2]), nil
	}
	return Value{}, typeErrorf("push", "list, string or object", target)
}

func withKey(obj Value, key string, val Value) Value {
	m := make(map[string]Value, len(obj.Object)+1)
	for k, v := range obj.Object {
		m[k] = v
	}
	m[key] = val
	return ObjectVal(m)
}

// builtinPop drops the last element of a list or the last character of a
// string. Popping an empty collection yields it unchanged.
func builtinPop(args []Value) (Value, error) {
	target := args[0]
	switch target.Kind {
	case ValList:
		if len(target.List) == 0 {
			return target, nil
		}
		return ListVal(target.List[:len(target.List)-1]), nil
	case ValString:
		_, size := utf8.DecodeLastRuneInString(target.Str)
		return StringVal(target.Str[:len(target.Str)-size]), nil
	}
	return Value{}, typeErrorf("pop", "list or string", target)
}

// builtinIndex: (@ coll i). Lists and strings take an int index; objects
// take a string key.
func builtinIndex(args []Value) (Value, error) {
	coll, key := args[0], args[1]
	switch coll.Kind {
	case ValList:
		if key.Kind != ValInt {
			return Value{}, typeErrorf("@", "int index", key)
		}
		if key.Int < 0 || int(key.Int) >= len(coll.List) {
			return Value{}, errorf(IndexOutOfBounds, "@: index %d out of range for list of length %d", key.Int, len(coll.List))
		}
		return coll.List[key.Int], nil
	case ValString:
		if key.Kind != ValInt {
			return Value{}, typeErrorf("@", "int index", key)
		}
		runes := []rune(coll.Str)
		if key.Int < 0 || int(key.Int) >= len(runes) {
			return Value{}, errorf(IndexOutOfBounds, "@: index %d out of range for string of length %d", key.Int, len(runes))
		}
		return StringVal(string(runes[key.Int])), nil
	case ValObject:
		if key.Kind != ValString {
			return Value{}, typeErrorf("@", "string key", key)
		}
		val, ok := coll.Object[key.Str]
		if !ok {
			return Value{}, errorf(KeyError, "@: no key %q in object", key.Str)
		}
		return val, nil
	}
	return Value{}, typeErrorf("@", "list, string or object", coll)
}

// builtinSlice: (slice coll start end), half-open, on lists and strings.
func builtinSlice(args []Value) (Value, error) {
	coll, start, end := args[0], args[1], args[2]
	if start.Kind != ValInt {
		return Value{}, typeErrorf("slice", "int start", start)
	}
	if end.Kind != ValInt {
		return Value{}, typeErrorf("slice", "int end", end)
	}
	var n int
	switch coll.Kind {
	case ValList:
		n = len(coll.List)
	case ValString:
		n = utf8.RuneCountInString(coll.Str)
	default:
		return Value{}, typeErrorf("slice", "list or string", coll)
	}
	lo, hi := int(start.Int), int(end.Int)
	if lo < 0 || hi > n || lo > hi {
		return Value{}, errorf(IndexOutOfBounds, "slice: range [%d:%d] out of bounds for length %d", lo, hi, n)
	}
	if coll.Kind == ValString {
		return StringVal(string([]rune(coll.Str)[lo:hi])), nil
	}
	out := make([]Value, hi-lo)
	copy(out, coll.List[lo:hi])
	return ListVal(out), nil
}

func builtinLength(args []Value) (Value, error) {
	switch v := args[0]; v.Kind {
	case ValList:
		return IntVal(int32(len(v.List))), nil
	case ValString:
		return IntVal(int32(utf8.RuneCountInString(v.Str))), nil
	case ValObject:
		return IntVal(int32(len(v.Object))), nil
	default:
		return Value{}, typeErrorf("length", "list, string or object", v)
	}
}

// builtinForeach: (foreach coll fn). Lists and strings call fn with each
// element; objects call fn with each key and value in key order. The
// parameters are bound mutably, so fn may set them.
func (in *Interpreter) builtinForeach(args []Value) (Value, error) {
	coll, fnv := args[0], args[1]
	if fnv.Kind != ValFn {
		return Value{}, typeErrorf("foreach", "function", fnv)
	}
	fn := fnv.Fn
	name := "foreach: " + fnv.String()
	switch coll.Kind {
	case ValList:
		for _, elem := range coll.List {
			if _, err := in.invoke(name, fn, []Value{elem}, true); err != nil {
				return Value{}, err
			}
		}
	case ValString:
		for _, r := range coll.Str {
			if _, err := in.invoke(name, fn, []Value{StringVal(string(r))}, true); err != nil {
				return Value{}, err
			}
		}
	case ValObject:
		for _, k := range coll.Keys() {
			if _, err := in.invoke(name, fn, []Value{StringVal(k), coll.Object[k]}, true); err != nil {
				return Value{}, err
			}
		}
	default:
		return Value{}, typeErrorf("foreach", "list, string or object", coll)
	}
	return NilVal(), nil
}

func builtinTypeof(args []Value) (Value, error) {
	return StringVal(args[0].TypeName()), nil
}

// builtinCast: (cast value "type").
func builtinCast(args []Value) (Value, error) {
	if args[1].Kind != ValString {
		return Value{}, typeErrorf("cast", "string type name", args[1])
	}
	return args[0].CastTo(args[1].Str), nil
}

// builtinAssert: (assert cond [message]). A failed assertion panics with
// *AssertError; it is not an error value a script can recover from.
func (in *Interpreter) builtinAssert(args []Value) (Value, error) {
	if err := maxArgs("assert", args, 2); err != nil {
		return Value{}, err
	}
	if args[0].Kind == ValBool && args[0].Bool {
		return NilVal(), nil
	}
	msg := "Assertion failed."
	if len(args) == 2 {
		msg = args[1].String()
	}
	panic(&AssertError{Message: msg, Line: in.line})
}

// builtinImport: (import path ...). Each file is parsed and its forms run in
// the current frame, so its definitions become visible to the caller.
// Nothing is cached: importing a file twice runs it twice.
func (in *Interpreter) builtinImport(args []Value) (Value, error) {
	for _, arg := range args {
		if arg.Kind != ValString {
			return Value{}, typeErrorf("import", "string path", arg)
		}
		src, err := os.ReadFile(arg.Str)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return Value{}, wrapf(ImportError, err, "cannot find file %s", arg.Str)
			}
			return Value{}, wrapf(ImportError, err, "read %s", arg.Str)
		}
		node, err := Parse(string(src))
		if err != nil {
			return Value{}, wrapf(ImportError, err, "parse %s", arg.Str)
		}
		if err := in.ProcessAst(node); err != nil {
			return Value{}, wrapf(ImportError, err, "import %s", arg.Str)
		}
	}
	return NilVal(), nil
}
