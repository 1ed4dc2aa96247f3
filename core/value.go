package orion

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

type ValueKind int

const (
	ValNil ValueKind = iota
	ValBool
	ValInt
	ValFloat
	ValString
	ValList
	ValObject
	ValFn
)

type FnValue struct {
	Params []string
	Body   *Node // always a NodeScope
}

// Value is the runtime value union. List and Object contents are never
// modified in place once a Value has been built; every operation that
// "changes" a collection returns a fresh one, so copying a Value is enough
// to give it value semantics.
type Value struct {
	Kind   ValueKind
	Bool   bool
	Int    int32
	Float  float32
	Str    string
	List   []Value
	Object map[string]Value
	Fn     *FnValue
}

func NilVal() Value            { return Value{Kind: ValNil} }
func BoolVal(b bool) Value     { return Value{Kind: ValBool, Bool: b} }
func IntVal(n int32) Value     { return Value{Kind: ValInt, Int: n} }
func FloatVal(f float32) Value { return Value{Kind: ValFloat, Float: f} }
func StringVal(s string) Value { return Value{Kind: ValString, Str: s} }
func FnVal(fn *FnValue) Value  { return Value{Kind: ValFn, Fn: fn} }

// ListVal builds a list without checking homogeneity. Use NewList for
// user-supplied elements.
func ListVal(elems []Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{Kind: ValList, List: elems}
}

func ObjectVal(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}
	return Value{Kind: ValObject, Object: m}
}

// NewList builds a homogeneous list: every element must share the kind of
// the first one.
func NewList(elems []Value) (Value, error) {
	for i := 1; i < len(elems); i++ {
		if elems[i].Kind != elems[0].Kind {
			return Value{}, errorf(TypeError, "list: expected %s, found %s at index %d",
				elems[0].TypeName(), elems[i].TypeName(), i)
		}
	}
	out := make([]Value, len(elems))
	copy(out, elems)
	return ListVal(out), nil
}

// ElemKind reports the element kind fixed by a list's first element.
func (v Value) ElemKind() (ValueKind, bool) {
	if v.Kind != ValList || len(v.List) == 0 {
		return ValNil, false
	}
	return v.List[0].Kind, true
}

// Push returns a new list with elem appended, enforcing homogeneity.
func (v Value) Push(elem Value) (Value, error) {
	if k, ok := v.ElemKind(); ok && k != elem.Kind {
		return Value{}, errorf(TypeError, "push: list is of type %s but element is %s",
			v.List[0].TypeName(), elem.TypeName())
	}
	out := make([]Value, len(v.List), len(v.List)+1)
	copy(out, v.List)
	return ListVal(append(out, elem)), nil
}

func (v Value) String() string {
	var sb strings.Builder
	writeValue(&sb, v, 0)
	return sb.String()
}

func writeValue(sb *strings.Builder, v Value, level int) {
	switch v.Kind {
	case ValNil:
		sb.WriteString("nil")
	case ValBool:
		sb.WriteString(strconv.FormatBool(v.Bool))
	case ValInt:
		sb.WriteString(strconv.FormatInt(int64(v.Int), 10))
	case ValFloat:
		sb.WriteString(formatFloat(v.Float))
	case ValString:
		sb.WriteString(v.Str)
	case ValFn:
		sb.WriteString("function(" + strings.Join(v.Fn.Params, ", ") + ")")
	case ValList:
		sb.WriteByte('[')
		for i, e := range v.List {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeValue(sb, e, level)
		}
		sb.WriteByte(']')
	case ValObject:
		sb.WriteString("{\n")
		for _, k := range v.Keys() {
			sb.WriteString(strings.Repeat("\t", level+1))
			sb.WriteString(k)
			sb.WriteString(" => ")
			writeValue(sb, v.Object[k], level+1)
			sb.WriteString(",\n")
		}
		sb.WriteString(strings.Repeat("\t", level))
		sb.WriteByte('}')
	default:
		sb.WriteString("<unknown>")
	}
}

// Keys returns an object's keys in sorted order, which is the iteration and
// display order of objects.
func (v Value) Keys() []string {
	keys := make([]string, 0, len(v.Object))
	for k := range v.Object {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatFloat(f float32) string {
	if math.IsInf(float64(f), 0) || math.IsNaN(float64(f)) {
		return strconv.FormatFloat(float64(f), 'g', -1, 32)
	}
	return strconv.FormatFloat(float64(f), 'f', -1, 32)
}

// TypeName is the name typeof reports and error messages use.
func (v Value) TypeName() string {
	return v.Kind.String()
}

func (k ValueKind) String() string {
	switch k {
	case ValNil:
		return "nil"
	case ValBool:
		return "bool"
	case ValInt:
		return "int"
	case ValFloat:
		return "float"
	case ValString:
		return "string"
	case ValList:
		return "list"
	case ValObject:
		return "object"
	case ValFn:
		return "function"
	default:
		return "unknown"
	}
}

// ValuesEqual compares two Values structurally. Values of different kinds
// are never equal, so 4 and 4.0 differ.
func ValuesEqual(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case ValNil:
		return true
	case ValBool:
		return a.Bool == b.Bool
	case ValInt:
		return a.Int == b.Int
	case ValFloat:
		return a.Float == b.Float
	case ValString:
		return a.Str == b.Str
	case ValList:
		if len(a.List) != len(b.List) {
			return false
		}
		for i := range a.List {
			if !ValuesEqual(a.List[i], b.List[i]) {
				return false
			}
		}
		return true
	case ValObject:
		if len(a.Object) != len(b.Object) {
			return false
		}
		for k, av := range a.Object {
			bv, ok := b.Object[k]
			if !ok || !ValuesEqual(av, bv) {
				return false
			}
		}
		return true
	case ValFn:
		if a.Fn == b.Fn {
			return true
		}
		if len(a.Fn.Params) != len(b.Fn.Params) {
			return false
		}
		for i := range a.Fn.Params {
			if a.Fn.Params[i] != b.Fn.Params[i] {
				return false
			}
		}
		return a.Fn.Body.Equal(b.Fn.Body)
	}
	return false
}

// CastTo converts v to the named type on a best-effort basis. Unparseable
// strings become the zero value of the target; unknown targets yield nil.
func (v Value) CastTo(typ string) Value {
	switch typ {
	case "string":
		switch v.Kind {
		case ValList:
			var sb strings.Builder
			for _, e := range v.List {
				sb.WriteString(e.String())
			}
			return StringVal(sb.String())
		case ValString, ValInt, ValFloat, ValBool:
			return StringVal(v.String())
		default:
			return StringVal("")
		}
	case "float":
		switch v.Kind {
		case ValFloat:
			return v
		case ValInt:
			return FloatVal(float32(v.Int))
		case ValBool:
			if v.Bool {
				return FloatVal(1)
			}
			return FloatVal(0)
		case ValString:
			f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 32)
			if err != nil {
				return FloatVal(0)
			}
			return FloatVal(float32(f))
		default:
			return FloatVal(0)
		}
	case "int":
		switch v.Kind {
		case ValInt:
			return v
		case ValFloat:
			return IntVal(int32(math.Floor(float64(v.Float))))
		case ValBool:
			if v.Bool {
				return IntVal(1)
			}
			return IntVal(0)
		case ValString:
			i, err := strconv.ParseInt(strings.TrimSpace(v.Str), 10, 32)
			if err != nil {
				return IntVal(0)
			}
			return IntVal(int32(i))
		default:
			return IntVal(0)
		}
	case "bool":
		switch v.Kind {
		case ValBool:
			return v
		case ValInt:
			return BoolVal(v.Int != 0)
		case ValFloat:
			return BoolVal(v.Float != 0)
		case ValString:
			return BoolVal(v.Str == "true")
		default:
			return BoolVal(false)
		}
	case "list":
		return ListVal([]Value{v})
	default:
		return NilVal()
	}
}
