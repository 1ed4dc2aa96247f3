package orion

import (
	"math"
	"time"
)

// number accepts an int or a float argument as float64.
func number(name string, v Value) (float64, error) {
	switch v.Kind {
	case ValInt:
		return float64(v.Int), nil
	case ValFloat:
		return float64(v.Float), nil
	}
	return 0, typeErrorf(name, "int or float", v)
}

// degrees wraps a radian function so that it takes its argument in degrees.
func degrees(name string, f func(float64) float64) Builtin {
	return func(args []Value) (Value, error) {
		x, err := number(name, args[0])
		if err != nil {
			return Value{}, err
		}
		return FloatVal(float32(f(x * math.Pi / 180))), nil
	}
}

// inverseDegrees wraps an inverse trig function so that it answers in degrees.
func inverseDegrees(name string, f func(float64) float64) Builtin {
	return func(args []Value) (Value, error) {
		x, err := number(name, args[0])
		if err != nil {
			return Value{}, err
		}
		return FloatVal(float32(f(x) * 180 / math.Pi)), nil
	}
}

func builtinSqrt(args []Value) (Value, error) {
	x, err := number("sqrt", args[0])
	if err != nil {
		return Value{}, err
	}
	return FloatVal(float32(math.Sqrt(x))), nil
}

// builtinPow: an int raised to a non-negative int stays an int (wrapping on
// overflow); any float operand gives a float.
func builtinPow(args []Value) (Value, error) {
	base, exp := args[0], args[1]
	if base.Kind == ValInt && exp.Kind == ValInt {
		if exp.Int < 0 {
			return Value{}, errorf(TypeError, "pow: expected non-negative int exponent, got %d", exp.Int)
		}
		result := int32(1)
		for i := int32(0); i < exp.Int; i++ {
			result *= base.Int
		}
		return IntVal(result), nil
	}
	b, err := number("pow", base)
	if err != nil {
		return Value{}, err
	}
	e, err := number("pow", exp)
	if err != nil {
		return Value{}, err
	}
	return FloatVal(float32(math.Pow(b, e))), nil
}

// numericPair reports whether a and b are both ints, and otherwise converts
// them to floats.
func numericPair(name string, a, b Value) (bool, float64, float64, error) {
	if a.Kind == ValInt && b.Kind == ValInt {
		return true, 0, 0, nil
	}
	x, err := number(name, a)
	if err != nil {
		return false, 0, 0, err
	}
	y, err := number(name, b)
	if err != nil {
		return false, 0, 0, err
	}
	return false, x, y, nil
}

func builtinMax(args []Value) (Value, error) {
	ints, x, y, err := numericPair("max", args[0], args[1])
	if err != nil {
		return Value{}, err
	}
	if ints {
		return IntVal(max(args[0].Int, args[1].Int)), nil
	}
	return FloatVal(float32(math.Max(x, y))), nil
}

func builtinMin(args []Value) (Value, error) {
	ints, x, y, err := numericPair("min", args[0], args[1])
	if err != nil {
		return Value{}, err
	}
	if ints {
		return IntVal(min(args[0].Int, args[1].Int)), nil
	}
	return FloatVal(float32(math.Min(x, y))), nil
}

// builtinClamp: (clamp x lo hi).
func builtinClamp(args []Value) (Value, error) {
	if args[0].Kind == ValInt && args[1].Kind == ValInt && args[2].Kind == ValInt {
		return IntVal(min(max(args[0].Int, args[1].Int), args[2].Int)), nil
	}
	var xs [3]float64
	for i, a := range args {
		f, err := number("clamp", a)
		if err != nil {
			return Value{}, err
		}
		xs[i] = f
	}
	return FloatVal(float32(math.Min(math.Max(xs[0], xs[1]), xs[2]))), nil
}

// builtinRange: (range a b) is the ints a, a+1, ..., b-1.
func builtinRange(args []Value) (Value, error) {
	a, b := args[0], args[1]
	if a.Kind != ValInt {
		return Value{}, typeErrorf("range", "int", a)
	}
	if b.Kind != ValInt {
		return Value{}, typeErrorf("range", "int", b)
	}
	out := []Value{}
	for i := a.Int; i < b.Int; i++ {
		out = append(out, IntVal(i))
	}
	return ListVal(out), nil
}

func builtinOdd(args []Value) (Value, error) {
	if args[0].Kind != ValInt {
		return Value{}, typeErrorf("odd", "int", args[0])
	}
	return BoolVal(args[0].Int%2 != 0), nil
}

// lehmer is the Park-Miller minimal standard generator.
type lehmer struct {
	seed float64
}

const (
	lehmerK = 16807
	lehmerJ = 1<<31 - 1
)

func newLehmer(seed int32) *lehmer {
	s := math.Mod(math.Abs(float64(seed)), lehmerJ)
	if s == 0 {
		s = 1
	}
	return &lehmer{seed: s}
}

// between returns an int in [lo, hi].
func (g *lehmer) between(lo, hi int32) int32 {
	g.seed = math.Mod(lehmerK*g.seed, lehmerJ)
	span := float64(hi) - float64(lo) + 1
	return int32(math.Floor(span*(g.seed/lehmerJ) + float64(lo)))
}

func clockSeed() int32 {
	secs := time.Now().Unix()
	if secs > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(secs)
}

// builtinInitRng: (math:initRng [seed]). Without a seed the clock is used.
func (in *Interpreter) builtinInitRng(args []Value) (Value, error) {
	if err := maxArgs("math:initRng", args, 1); err != nil {
		return Value{}, err
	}
	seed := clockSeed()
	if len(args) == 1 {
		if args[0].Kind != ValInt {
			return Value{}, typeErrorf("math:initRng", "int seed", args[0])
		}
		seed = args[0].Int
	}
	in.rng = newLehmer(seed)
	return NilVal(), nil
}

// builtinRand: (math:rand lo hi), inclusive. Seeds from the clock on first
// use if math:initRng was never called.
func (in *Interpreter) builtinRand(args []Value) (Value, error) {
	lo, hi := args[0], args[1]
	if lo.Kind != ValInt {
		return Value{}, typeErrorf("math:rand", "int", lo)
	}
	if hi.Kind != ValInt {
		return Value{}, typeErrorf("math:rand", "int", hi)
	}
	if lo.Int > hi.Int {
		return Value{}, errorf(ArithmeticError, "math:rand: empty range [%d, %d]", lo.Int, hi.Int)
	}
	if in.rng == nil {
		in.rng = newLehmer(clockSeed())
	}
	return IntVal(in.rng.between(lo.Int, hi.Int)), nil
}
