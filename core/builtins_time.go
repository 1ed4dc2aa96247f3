package orion

import (
	"math"
	"time"
)

// Times are unix seconds in UTC. Instants outside the int range (roughly
// 1901 to 2038) are an ArithmeticError rather than a wrapped int.

func unixVal(name string, t time.Time) (Value, error) {
	secs := t.Unix()
	if secs < math.MinInt32 || secs > math.MaxInt32 {
		return Value{}, errorf(ArithmeticError, "%s: %s is out of range", name, t.UTC().Format(time.RFC3339))
	}
	return IntVal(int32(secs)), nil
}

func builtinTimeNow(args []Value) (Value, error) {
	return unixVal("time:now", time.Now())
}

// builtinTimeFormat: (time:format t layout) with a Go reference layout.
func builtinTimeFormat(args []Value) (Value, error) {
	t, err := number("time:format", args[0])
	if err != nil {
		return Value{}, err
	}
	if args[1].Kind != ValString {
		return Value{}, typeErrorf("time:format", "string layout", args[1])
	}
	return StringVal(time.Unix(int64(t), 0).UTC().Format(args[1].Str)), nil
}

// builtinTimeParse: (time:parse value layout).
func builtinTimeParse(args []Value) (Value, error) {
	value, layout := args[0], args[1]
	if value.Kind != ValString {
		return Value{}, typeErrorf("time:parse", "string value", value)
	}
	if layout.Kind != ValString {
		return Value{}, typeErrorf("time:parse", "string layout", layout)
	}
	parsed, err := time.Parse(layout.Str, value.Str)
	if err != nil {
		return Value{}, wrapf(TypeError, err, "time:parse")
	}
	return unixVal("time:parse", parsed)
}

// builtinTimeAdd: (time:add t duration), duration as in "1h30m".
func builtinTimeAdd(args []Value) (Value, error) {
	t, err := number("time:add", args[0])
	if err != nil {
		return Value{}, err
	}
	if args[1].Kind != ValString {
		return Value{}, typeErrorf("time:add", "string duration", args[1])
	}
	dur, err := time.ParseDuration(args[1].Str)
	if err != nil {
		return Value{}, wrapf(TypeError, err, "time:add")
	}
	return unixVal("time:add", time.Unix(int64(t), 0).Add(dur))
}
