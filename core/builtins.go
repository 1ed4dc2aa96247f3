package orion

import (
	"fmt"
	"math"
	"sort"
)

// Builtin is a function implemented in Go, called with eagerly evaluated arguments.
type Builtin func(args []Value) (Value, error)

// Arity is the argument count a builtin accepts: exactly N, or N or more.
// Builtins with an upper bound check it themselves.
type Arity struct {
	N      int
	OrMore bool
}

func Exactly(n int) Arity { return Arity{N: n} }
func AtLeast(n int) Arity { return Arity{N: n, OrMore: true} }

func (a Arity) accepts(n int) bool {
	if a.OrMore {
		return n >= a.N
	}
	return n == a.N
}

func (a Arity) String() string {
	noun := "args"
	if a.N == 1 {
		noun = "arg"
	}
	if a.OrMore {
		return fmt.Sprintf("at least %d %s", a.N, noun)
	}
	return fmt.Sprintf("%d %s", a.N, noun)
}

type builtinSpec struct {
	arity Arity
	fn    Builtin
}

// Register adds or replaces a builtin. Builtins shadow user functions of the
// same name.
func (in *Interpreter) Register(name string, arity Arity, fn Builtin) {
	in.builtins[name] = builtinSpec{arity: arity, fn: fn}
}

// Builtins lists the names of every registered builtin.
func (in *Interpreter) Builtins() []string {
	names := make([]string, 0, len(in.builtins))
	for name := range in.builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (in *Interpreter) defaultBuiltins() map[string]builtinSpec {
	return map[string]builtinSpec{
		// I/O
		"print":  {AtLeast(0), in.builtinPrint},
		"puts":   {AtLeast(0), in.builtinPuts},
		"eprint": {AtLeast(0), in.builtinEprint},
		"eputs":  {AtLeast(0), in.builtinEputs},
		"input":  {AtLeast(0), in.builtinInput},
		// Assertion, reflection, modules
		"assert": {AtLeast(1), in.builtinAssert},
		"typeof": {Exactly(1), builtinTypeof},
		"cast":   {Exactly(2), builtinCast},
		"import": {AtLeast(1), in.builtinImport},
		// Collections
		"list":    {AtLeast(0), builtinList},
		"object":  {AtLeast(0), builtinObject},
		"push":    {AtLeast(2), builtinPush},
		"pop":     {Exactly(1), builtinPop},
		"@":       {Exactly(2), builtinIndex},
		"slice":   {Exactly(3), builtinSlice},
		"length":  {Exactly(1), builtinLength},
		"foreach": {Exactly(2), in.builtinForeach},
		// Filesystem
		"fs:exists?":  {Exactly(1), builtinFsExists},
		"fs:read_dir": {Exactly(1), builtinFsReadDir},
		// Math
		"cos":          {Exactly(1), degrees("cos", math.Cos)},
		"sin":          {Exactly(1), degrees("sin", math.Sin)},
		"tan":          {Exactly(1), degrees("tan", math.Tan)},
		"acos":         {Exactly(1), inverseDegrees("acos", math.Acos)},
		"asin":         {Exactly(1), inverseDegrees("asin", math.Asin)},
		"atan":         {Exactly(1), inverseDegrees("atan", math.Atan)},
		"sqrt":         {Exactly(1), builtinSqrt},
		"pow":          {Exactly(2), builtinPow},
		"max":          {Exactly(2), builtinMax},
		"min":          {Exactly(2), builtinMin},
		"clamp":        {Exactly(3), builtinClamp},
		"range":        {Exactly(2), builtinRange},
		"odd":          {Exactly(1), builtinOdd},
		"math:initRng": {AtLeast(0), in.builtinInitRng},
		"math:rand":    {Exactly(2), in.builtinRand},
		// Process
		"sys:exec": {AtLeast(2), builtinExec},
		// Time
		"time:now":    {Exactly(0), builtinTimeNow},
		"time:format": {Exactly(2), builtinTimeFormat},
		"time:parse":  {Exactly(2), builtinTimeParse},
		"time:add":    {Exactly(2), builtinTimeAdd},
		// SQLite
		"db:open":  {Exactly(1), in.builtinDBOpen},
		"db:close": {Exactly(1), in.builtinDBClose},
		"db:list":  {Exactly(0), in.builtinDBList},
		"db:query": {AtLeast(2), in.builtinDBQuery},
		"db:exec":  {AtLeast(2), in.builtinDBExec},
	}
}

// maxArgs enforces the upper bound of a builtin registered with AtLeast.
func maxArgs(name string, args []Value, max int) error {
	if len(args) > max {
		return errorf(ArityError, "%s: expected at most %d args, got %d", name, max, len(args))
	}
	return nil
}

func typeErrorf(name, want string, got Value) *Error {
	return errorf(TypeError, "%s: expected %s, got %s", name, want, got.TypeName())
}
