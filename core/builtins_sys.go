package orion

import (
	"bytes"
	"errors"
	"os/exec"
	"strings"
)

// builtinExec: (sys:exec cmd args [opts]) runs cmd to completion and returns
// an object with stdout, stderr and status. A non-zero exit is not an
// error; failing to start the process is. opts may set cwd and stdin.
func builtinExec(args []Value) (Value, error) {
	if err := maxArgs("sys:exec", args, 3); err != nil {
		return Value{}, err
	}
	name, argList := args[0], args[1]
	if name.Kind != ValString {
		return Value{}, typeErrorf("sys:exec", "string command", name)
	}
	if argList.Kind != ValList {
		return Value{}, typeErrorf("sys:exec", "list of arguments", argList)
	}
	argv := make([]string, len(argList.List))
	for i, a := range argList.List {
		if a.Kind != ValString {
			return Value{}, typeErrorf("sys:exec", "string argument", a)
		}
		argv[i] = a.Str
	}

	cmd := exec.Command(name.Str, argv...)
	if len(args) == 3 {
		opts := args[2]
		if opts.Kind != ValObject {
			return Value{}, typeErrorf("sys:exec", "options object", opts)
		}
		if cwd, ok := opts.Object["cwd"]; ok {
			if cwd.Kind != ValString {
				return Value{}, typeErrorf("sys:exec", "string cwd", cwd)
			}
			cmd.Dir = cwd.Str
		}
		if stdin, ok := opts.Object["stdin"]; ok {
			if stdin.Kind != ValString {
				return Value{}, typeErrorf("sys:exec", "string stdin", stdin)
			}
			cmd.Stdin = strings.NewReader(stdin.Str)
		}
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	status := 0
	if err := cmd.Run(); err != nil {
		var ee *exec.ExitError
		if !errors.As(err, &ee) {
			return Value{}, wrapf(IOError, err, "sys:exec %s", name.Str)
		}
		status = ee.ExitCode()
	}
	return ObjectVal(map[string]Value{
		"stdout": StringVal(stdout.String()),
		"stderr": StringVal(stderr.String()),
		"status": IntVal(int32(status)),
	}), nil
}
