package orion

import "math"

// arith applies + - * / %. Int with Int stays Int; mixing in a Float
// promotes the Int. + also concatenates strings. Any other pairing yields
// nil rather than an error.
func arith(op string, a, b Value) (Value, error) {
	switch {
	case a.Kind == ValInt && b.Kind == ValInt:
		return intArith(op, a.Int, b.Int)
	case a.Kind == ValInt && b.Kind == ValFloat:
		return floatArith(op, float32(a.Int), b.Float), nil
	case a.Kind == ValFloat && b.Kind == ValInt:
		return floatArith(op, a.Float, float32(b.Int)), nil
	case a.Kind == ValFloat && b.Kind == ValFloat:
		return floatArith(op, a.Float, b.Float), nil
	case a.Kind == ValString && b.Kind == ValString && op == "+":
		return StringVal(a.Str + b.Str), nil
	}
	return NilVal(), nil
}

func intArith(op string, a, b int32) (Value, error) {
	switch op {
	case "+":
		return IntVal(a + b), nil
	case "-":
		return IntVal(a - b), nil
	case "*":
		return IntVal(a * b), nil
	case "/":
		if b == 0 {
			return Value{}, errorf(ArithmeticError, "/: division by zero")
		}
		return IntVal(a / b), nil
	case "%":
		if b == 0 {
			return Value{}, errorf(ArithmeticError, "%%: division by zero")
		}
		return IntVal(a % b), nil
	}
	return NilVal(), nil
}

func floatArith(op string, a, b float32) Value {
	switch op {
	case "+":
		return FloatVal(a + b)
	case "-":
		return FloatVal(a - b)
	case "*":
		return FloatVal(a * b)
	case "/":
		return FloatVal(a / b)
	case "%":
		return FloatVal(float32(math.Mod(float64(a), float64(b))))
	}
	return NilVal()
}

// compare implements = != < > <= >=. Only = answers false for values of
// different kinds; the others answer nil. Ordering is defined on numbers of
// the same kind and is nil for everything else.
func compare(op string, a, b Value) Value {
	if op == "=" {
		return BoolVal(ValuesEqual(a, b))
	}
	if a.Kind != b.Kind {
		return NilVal()
	}
	if op == "!=" {
		return BoolVal(!ValuesEqual(a, b))
	}
	var c int
	switch a.Kind {
	case ValInt:
		c = cmpOrdered(a.Int, b.Int)
	case ValFloat:
		if math.IsNaN(float64(a.Float)) || math.IsNaN(float64(b.Float)) {
			return BoolVal(false)
		}
		c = cmpOrdered(a.Float, b.Float)
	default:
		return NilVal()
	}
	switch op {
	case "<":
		return BoolVal(c < 0)
	case ">":
		return BoolVal(c > 0)
	case "<=":
		return BoolVal(c <= 0)
	case ">=":
		return BoolVal(c >= 0)
	}
	return NilVal()
}

func cmpOrdered[T int32 | float32](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// logic implements | and &; anything but two bools is false.
func logic(op string, a, b Value) Value {
	if a.Kind != ValBool || b.Kind != ValBool {
		return BoolVal(false)
	}
	if op == "|" {
		return BoolVal(a.Bool || b.Bool)
	}
	return BoolVal(a.Bool && b.Bool)
}

func not(a Value) Value {
	if a.Kind != ValBool {
		return BoolVal(false)
	}
	return BoolVal(!a.Bool)
}
