package orion

import (
	"errors"
	"io"
	"strings"
)

func (in *Interpreter) builtinPrint(args []Value) (Value, error) {
	return write(in.Stdout, "print", args, "\n")
}

func (in *Interpreter) builtinPuts(args []Value) (Value, error) {
	return write(in.Stdout, "puts", args, "")
}

func (in *Interpreter) builtinEprint(args []Value) (Value, error) {
	return write(in.Stderr, "eprint", args, "\n")
}

func (in *Interpreter) builtinEputs(args []Value) (Value, error) {
	return write(in.Stderr, "eputs", args, "")
}

// write prints the display form of each argument with no separator, then
// end. print and eprint end the line; puts and eputs do not.
func write(w io.Writer, name string, args []Value, end string) (Value, error) {
	var sb strings.Builder
	for _, arg := range args {
		sb.WriteString(arg.String())
	}
	sb.WriteString(end)
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return Value{}, wrapf(IOError, err, "%s", name)
	}
	return NilVal(), nil
}

// builtinInput: (input [prompt]) reads one line from stdin without its line
// terminator. At end of input with nothing read it yields nil.
func (in *Interpreter) builtinInput(args []Value) (Value, error) {
	if err := maxArgs("input", args, 1); err != nil {
		return Value{}, err
	}
	if len(args) == 1 {
		if _, err := write(in.Stdout, "input", args, ""); err != nil {
			return Value{}, err
		}
	}
	line, err := in.Stdin.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return Value{}, wrapf(IOError, err, "input")
		}
		if line == "" {
			return NilVal(), nil
		}
	}
	return StringVal(strings.TrimRight(line, "\r\n")), nil
}
