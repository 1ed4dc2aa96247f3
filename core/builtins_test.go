package orion

import (
	"bufio"
	"errors"
	"math"
	"strings"
	"testing"
)

// --- I/O ---

func TestPrintAndPuts(t *testing.T) {
	in, stdout, stderr := newTestInterpreter()
	src := `(print "a" 1 (list 1 2)) (puts "x" 2.5) (puts nil) (eprint "err") (eputs "!")`
	if _, err := in.EvalString(src); err != nil {
		t.Fatal(err)
	}
	if got := stdout.String(); got != "a1[1, 2]\nx2.5nil" {
		t.Fatalf("unexpected stdout %q", got)
	}
	if got := stderr.String(); got != "err\n!" {
		t.Fatalf("unexpected stderr %q", got)
	}
}

func TestPrintObject(t *testing.T) {
	in, stdout, _ := newTestInterpreter()
	if _, err := in.EvalString(`(print (object "b" 2 "a" (list 1)))`); err != nil {
		t.Fatal(err)
	}
	if got := stdout.String(); got != "{\n\ta => [1],\n\tb => 2,\n}\n" {
		t.Fatalf("unexpected stdout %q", got)
	}
}

func TestInput(t *testing.T) {
	in, stdout, _ := newTestInterpreter()
	in.Stdin = bufio.NewReader(strings.NewReader("hello\r\nworld"))
	for _, want := range []Value{StringVal("hello"), StringVal("world"), NilVal()} {
		val, err := in.EvalString(`(input "> ")`)
		if err != nil {
			t.Fatal(err)
		}
		if !ValuesEqual(val, want) {
			t.Fatalf("expected %s, got %s", want, val)
		}
	}
	if got := stdout.String(); got != "> > > " {
		t.Fatalf("unexpected prompts %q", got)
	}
	if _, err := in.EvalString(`(input "a" "b")`); !errors.Is(err, ErrArity) {
		t.Fatalf("expected ArityError, got %v", err)
	}
}

// --- Collections ---

func TestListBuiltin(t *testing.T) {
	testEval(t, `(list 1 2 3)`, ListVal([]Value{IntVal(1), IntVal(2), IntVal(3)}))
	testEval(t, `(list)`, ListVal(nil))
	testEvalError(t, `(list 1 "x")`, ErrTypeError)
	testEvalError(t, `(list 1 1.0)`, ErrTypeError)
}

func TestObjectBuiltin(t *testing.T) {
	testEval(t, `(@ (object "a" 1 "b" 2) "b")`, IntVal(2))
	testEval(t, `(length (object))`, IntVal(0))
	testEval(t, `(@ (object "a" 1 "a" 2) "a")`, IntVal(2))
	testEvalError(t, `(object "a")`, ErrArity)
	testEvalError(t, `(object 1 2)`, ErrTypeError)
	testEvalError(t, `(@ (object "a" 1) "z")`, ErrKey)
}

func TestPush(t *testing.T) {
	testEval(t, `(var a (list 4 5)) (set a (push a 4)) (@ a 2)`, IntVal(4))
	testEval(t, `(push (list) "x")`, ListVal([]Value{StringVal("x")}))
	testEval(t, `(push "ab" 1)`, StringVal("ab1"))
	testEval(t, `(length (push (object) "k"))`, IntVal(1))
	testEval(t, `(@ (push (object) "k") "k")`, NilVal())
	testEval(t, `(@ (push (object "k" 1) "k" 2) "k")`, IntVal(2))
	testEvalError(t, `(push (list 1) "x")`, ErrTypeError)
	testEvalError(t, `(push (object "k" 1) "k")`, ErrKey)
	testEvalError(t, `(push (list 1) 2 3)`, ErrArity)
	testEvalError(t, `(push (object) "a" 1 2)`, ErrArity)
	testEvalError(t, `(push 1 2)`, ErrTypeError)
}

func TestPop(t *testing.T) {
	testEval(t, `(pop (list 1 2))`, ListVal([]Value{IntVal(1)}))
	testEval(t, `(pop (list))`, ListVal(nil))
	testEval(t, `(pop "héllo")`, StringVal("héll"))
	testEval(t, `(pop "")`, StringVal(""))
	testEvalError(t, `(pop 1)`, ErrTypeError)
}

func TestIndex(t *testing.T) {
	testEval(t, `(@ (list 1 2 3) 0)`, IntVal(1))
	testEval(t, `(@ "héllo" 1)`, StringVal("é"))
	testEvalError(t, `(var a (list 4 5)) (@ a 99)`, ErrIndexOutOfBounds)
	testEvalError(t, `(@ (list 1) -1)`, ErrIndexOutOfBounds)
	testEvalError(t, `(@ "abc" 3)`, ErrIndexOutOfBounds)
	testEvalError(t, `(@ (list 1) "0")`, ErrTypeError)
	testEvalError(t, `(@ (object) 0)`, ErrTypeError)
	testEvalError(t, `(@ 5 0)`, ErrTypeError)
}

func TestSlice(t *testing.T) {
	testEval(t, `(slice (list 1 2 3 4) 1 3)`, ListVal([]Value{IntVal(2), IntVal(3)}))
	testEval(t, `(slice "hello" 1 4)`, StringVal("ell"))
	testEval(t, `(slice "héllo" 0 2)`, StringVal("hé"))
	testEval(t, `(slice (list 1 2) 1 1)`, ListVal(nil))
	testEvalError(t, `(slice "abc" 2 1)`, ErrIndexOutOfBounds)
	testEvalError(t, `(slice "abc" 0 4)`, ErrIndexOutOfBounds)
	testEvalError(t, `(slice "abc" "0" 1)`, ErrTypeError)
	testEvalError(t, `(slice (object) 0 0)`, ErrTypeError)
}

func TestLength(t *testing.T) {
	testEval(t, `(length (list 1 2 3))`, IntVal(3))
	testEval(t, `(length "héllo")`, IntVal(5))
	testEval(t, `(length (object "a" 1 "b" 2))`, IntVal(2))
	testEvalError(t, `(length 1)`, ErrTypeError)
}

func TestForeach(t *testing.T) {
	testEval(t, `
(var sum 0)
(foreach (list 1 2 3) (lambda (x) {(set sum (+ sum x))}))
(return sum)`, IntVal(6))
	testEval(t, `
(var s "")
(foreach "abc" (lambda (c) {(set s (+ c s))}))
(return s)`, StringVal("cba"))
	testEval(t, `
(var keys "")
(var total 0)
(foreach (object "b" 2 "a" 1) (lambda (k v) {(set keys (+ keys k)) (set total (+ total v))}))
(return (list keys (cast total "string")))`, ListVal([]Value{StringVal("ab"), StringVal("3")}))
	// parameters are mutable inside foreach
	testEval(t, `(foreach (list 1) (lambda (x) {(set x 5)}))`, NilVal())
	testEvalError(t, `(foreach (list 1) 1)`, ErrTypeError)
	testEvalError(t, `(foreach 1 (lambda (x) {x}))`, ErrTypeError)
	testEvalError(t, `(foreach (list 1) (lambda (a b) {a}))`, ErrArity)
}

func TestForeachErrorStopsIteration(t *testing.T) {
	in, stdout, _ := newTestInterpreter()
	_, err := in.EvalString(`(foreach (list 1 2 3) (lambda (x) {(print x) (if (= x 2) {(nope)})}))`)
	if !errors.Is(err, ErrUndefinedCall) {
		t.Fatalf("expected UndefinedCall, got %v", err)
	}
	if stdout.String() != "1\n2\n" {
		t.Fatalf("unexpected output %q", stdout.String())
	}
	if in.Depth() != 1 {
		t.Fatalf("expected depth 1, got %d", in.Depth())
	}
}

func TestTypeof(t *testing.T) {
	for _, tc := range []struct {
		input string
		want  string
	}{
		{`(typeof 1)`, "int"},
		{`(typeof 1.5)`, "float"},
		{`(typeof "s")`, "string"},
		{`(typeof true)`, "bool"},
		{`(typeof nil)`, "nil"},
		{`(typeof (list))`, "list"},
		{`(typeof (object))`, "object"},
		{`(typeof (lambda {1}))`, "function"},
	} {
		testEval(t, tc.input, StringVal(tc.want))
	}
}

func TestCast(t *testing.T) {
	testEval(t, `(cast "42" "int")`, IntVal(42))
	testEval(t, `(cast 3.9 "int")`, IntVal(3))
	testEval(t, `(cast 1 "float")`, FloatVal(1))
	testEval(t, `(cast (list "a" "b") "string")`, StringVal("ab"))
	testEval(t, `(cast 1 "bogus")`, NilVal())
	testEvalError(t, `(cast 1 2)`, ErrTypeError)
}

// --- Math ---

func testEvalFloat(t *testing.T, input string, want float64) {
	t.Helper()
	in, _, _ := newTestInterpreter()
	val, err := in.EvalString(input)
	if err != nil {
		t.Fatalf("eval %q: %v", input, err)
	}
	if val.Kind != ValFloat {
		t.Fatalf("eval %q: expected float, got %s", input, val.TypeName())
	}
	if math.Abs(float64(val.Float)-want) > 1e-4 {
		t.Fatalf("eval %q: expected %v, got %v", input, want, val.Float)
	}
}

func TestTrigUsesDegrees(t *testing.T) {
	testEvalFloat(t, `(cos 0)`, 1)
	testEvalFloat(t, `(cos 90)`, 0)
	testEvalFloat(t, `(sin 90)`, 1)
	testEvalFloat(t, `(sin 30.0)`, 0.5)
	testEvalFloat(t, `(tan 45)`, 1)
	testEvalFloat(t, `(acos 0)`, 90)
	testEvalFloat(t, `(asin 1)`, 90)
	testEvalFloat(t, `(atan 1)`, 45)
	testEvalError(t, `(cos "x")`, ErrTypeError)
}

func TestSqrtPow(t *testing.T) {
	testEval(t, `(sqrt 16)`, FloatVal(4))
	testEval(t, `(pow 2 10)`, IntVal(1024))
	testEval(t, `(pow 5 0)`, IntVal(1))
	testEval(t, `(pow 2.0 3)`, FloatVal(8))
	testEval(t, `(pow 4 0.5)`, FloatVal(2))
	testEvalError(t, `(pow 2 -1)`, ErrTypeError)
	testEvalError(t, `(sqrt "x")`, ErrTypeError)
}

func TestMinMaxClamp(t *testing.T) {
	testEval(t, `(max 1 2)`, IntVal(2))
	testEval(t, `(max 1.5 2)`, FloatVal(2))
	testEval(t, `(min 1 2)`, IntVal(1))
	testEval(t, `(min 1.5 2.5)`, FloatVal(1.5))
	testEval(t, `(clamp 15 0 10)`, IntVal(10))
	testEval(t, `(clamp -1 0 10)`, IntVal(0))
	testEval(t, `(clamp 0.5 0 1)`, FloatVal(0.5))
	testEvalError(t, `(max 1 "2")`, ErrTypeError)
}

func TestRangeOdd(t *testing.T) {
	testEval(t, `(range 0 4)`, ListVal([]Value{IntVal(0), IntVal(1), IntVal(2), IntVal(3)}))
	testEval(t, `(range 3 1)`, ListVal(nil))
	testEval(t, `(odd 3)`, BoolVal(true))
	testEval(t, `(odd -3)`, BoolVal(true))
	testEval(t, `(odd 4)`, BoolVal(false))
	testEvalError(t, `(range 0 1.5)`, ErrTypeError)
	testEvalError(t, `(odd 1.0)`, ErrTypeError)
}

func TestRandSeeded(t *testing.T) {
	draw := func() []int32 {
		in, _, _ := newTestInterpreter()
		if _, err := in.EvalString(`(math:initRng 42)`); err != nil {
			t.Fatal(err)
		}
		var out []int32
		for i := 0; i < 100; i++ {
			val, err := in.EvalString(`(math:rand 1 6)`)
			if err != nil {
				t.Fatal(err)
			}
			if val.Int < 1 || val.Int > 6 {
				t.Fatalf("rand out of range: %d", val.Int)
			}
			out = append(out, val.Int)
		}
		return out
	}
	a, b := draw(), draw()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed gave different sequences at %d: %d vs %d", i, a[i], b[i])
		}
	}
}

func TestRandWithoutInit(t *testing.T) {
	in, _, _ := newTestInterpreter()
	val, err := in.EvalString(`(math:rand 3 3)`)
	if err != nil {
		t.Fatal(err)
	}
	if !ValuesEqual(val, IntVal(3)) {
		t.Fatalf("expected 3, got %s", val)
	}
	testEvalError(t, `(math:rand 5 1)`, ErrArithmetic)
	testEvalError(t, `(math:initRng "x")`, ErrTypeError)
	testEvalError(t, `(math:initRng 1 2)`, ErrArity)
}

func TestBuiltinsListed(t *testing.T) {
	in, _, _ := newTestInterpreter()
	names := in.Builtins()
	for _, want := range []string{"print", "foreach", "fs:read_dir", "sys:exec", "db:query", "math:rand"} {
		found := false
		for _, n := range names {
			if n == want {
				found = true
			}
		}
		if !found {
			t.Errorf("builtin %s not registered", want)
		}
	}
}
