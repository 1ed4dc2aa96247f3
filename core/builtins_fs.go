package orion

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// builtinFsExists: (fs:exists? path). Anything but a string is false.
func builtinFsExists(args []Value) (Value, error) {
	if args[0].Kind != ValString {
		return BoolVal(false), nil
	}
	_, err := os.Stat(args[0].Str)
	return BoolVal(err == nil), nil
}

// builtinFsReadDir: (fs:read_dir dir) lists every path below dir, depth
// first in lexical order, with each directory listed before its contents.
// A missing dir gives an empty list; a path that is not a directory is an
// IOError.
func builtinFsReadDir(args []Value) (Value, error) {
	if args[0].Kind != ValString {
		return Value{}, typeErrorf("fs:read_dir", "string path", args[0])
	}
	root := args[0].Str
	info, err := os.Stat(root)
	if errors.Is(err, fs.ErrNotExist) {
		return ListVal(nil), nil
	}
	if err != nil {
		return Value{}, wrapf(IOError, err, "fs:read_dir %s", root)
	}
	if !info.IsDir() {
		return Value{}, errorf(IOError, "fs:read_dir: %s is not a directory", root)
	}
	paths := []Value{}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root {
			paths = append(paths, StringVal(path))
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ListVal(nil), nil
		}
		return Value{}, wrapf(IOError, err, "fs:read_dir %s", root)
	}
	return ListVal(paths), nil
}
