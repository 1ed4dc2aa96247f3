package orion

type binding struct {
	val     Value
	mutable bool
}

// frame is one level of the scope stack.
type frame map[string]*binding

func (in *Interpreter) pushFrame() {
	in.frames = append(in.frames, frame{})
}

func (in *Interpreter) popFrame() {
	in.frames[len(in.frames)-1] = nil
	in.frames = in.frames[:len(in.frames)-1]
}

// lookupBinding searches from the innermost frame outwards and stops at the
// first frame that binds name.
func (in *Interpreter) lookupBinding(name string) (*binding, bool) {
	for i := len(in.frames) - 1; i >= 0; i-- {
		if b, ok := in.frames[i][name]; ok {
			return b, true
		}
	}
	return nil, false
}

// Lookup returns the value bound to name in the live scope stack.
func (in *Interpreter) Lookup(name string) (Value, bool) {
	b, ok := in.lookupBinding(name)
	if !ok {
		return Value{}, false
	}
	return b.val, true
}

func (in *Interpreter) resolveIdent(name string) (Value, error) {
	if b, ok := in.lookupBinding(name); ok {
		return b.val, nil
	}
	return Value{}, errorf(UndefinedVariable, "cannot find %s in this scope", name)
}

// bind adds name to the innermost frame. Redefining a name in the same frame
// is an error; shadowing an outer frame is not.
func (in *Interpreter) bind(name string, val Value, mutable bool) error {
	top := in.frames[len(in.frames)-1]
	if _, exists := top[name]; exists {
		return errorf(DuplicateDefinition, "attempted to define an existing variable: %s", name)
	}
	top[name] = &binding{val: val, mutable: mutable}
	return nil
}

// assign replaces the value of an existing mutable binding. The new value
// must have the same runtime type as the old one.
func (in *Interpreter) assign(name string, val Value) error {
	b, ok := in.lookupBinding(name)
	if !ok {
		return errorf(UndefinedVariable, "attempted to assign value to undefined variable: %s", name)
	}
	if !b.mutable {
		return errorf(ImmutableAssignment, "attempted to assign value to a constant variable: %s", name)
	}
	if b.val.Kind != val.Kind {
		return errorf(TypeMismatchAssignment, "attempted to assign value of type %s to variable of type %s",
			val.TypeName(), b.val.TypeName())
	}
	b.val = val
	return nil
}

// checkAssignable reports the errors assign would report, without needing
// the new value. set uses it so that a constant is rejected before its
// right-hand side is evaluated.
func (in *Interpreter) checkAssignable(name string) error {
	b, ok := in.lookupBinding(name)
	if !ok {
		return errorf(UndefinedVariable, "attempted to assign value to undefined variable: %s", name)
	}
	if !b.mutable {
		return errorf(ImmutableAssignment, "attempted to assign value to a constant variable: %s", name)
	}
	return nil
}

// Depth is the number of live frames.
func (in *Interpreter) Depth() int {
	return len(in.frames)
}
