package vm

import "fmt"

// registerDefaultBuiltins registers every built-in function of the style
// language.
func (vm *VM) registerDefaultBuiltins() {
	vm.registerStackBuiltins()
	vm.registerMathBuiltins()
	vm.registerStringBuiltins()
	vm.registerEntryBuiltins()
	vm.registerOutputBuiltins()
}

// registerStackBuiltins registers stack manipulation, assignment and
// control flow.
func (vm *VM) registerStackBuiltins() {
	// duplicate$: pops the top value and pushes two copies of it
	vm.RegisterBuiltinFunction("duplicate$", func(v *VM) error {
		top, err := v.pop("duplicate$")
		if err != nil {
			return err
		}
		v.push(top)
		v.push(top)
		return nil
	})

	// pop$: discards the top value
	vm.RegisterBuiltinFunction("pop$", func(v *VM) error {
		_, err := v.pop("pop$")
		return err
	})

	// swap$: swaps the top two values
	vm.RegisterBuiltinFunction("swap$", func(v *VM) error {
		if err := v.need("swap$", 2); err != nil {
			return err
		}
		n := len(v.stack)
		v.stack[n-1], v.stack[n-2] = v.stack[n-2], v.stack[n-1]
		return nil
	})

	// skip$: no-op, used as an empty branch
	vm.RegisterBuiltinFunction("skip$", func(v *VM) error {
		return nil
	})

	// :=: value 'name :=  stores value into the named variable
	vm.RegisterBuiltinFunction(":=", func(v *VM) error {
		if err := v.need(":=", 2); err != nil {
			return err
		}
		target, err := v.popFunc(":=")
		if err != nil {
			return err
		}
		if target.Name == "" {
			return NewRuntimeError(ErrorTypeMismatch, ":= needs a quoted variable name, got an inline function")
		}
		value, _ := v.pop(":=")
		return v.assign(target.Name, value)
	})

	// if$: cond {then} {else} if$  runs then when cond is nonzero
	vm.RegisterBuiltinFunction("if$", func(v *VM) error {
		if err := v.need("if$", 3); err != nil {
			return err
		}
		elseFn, err := v.popFunc("if$")
		if err != nil {
			return err
		}
		thenFn, err := v.popFunc("if$")
		if err != nil {
			return err
		}
		cond, err := v.popInt("if$")
		if err != nil {
			return err
		}
		if cond != False {
			return v.executeRef(thenFn)
		}
		return v.executeRef(elseFn)
	})

	// while$: {test} {body} while$  runs body while test leaves a nonzero integer
	vm.RegisterBuiltinFunction("while$", func(v *VM) error {
		if err := v.need("while$", 2); err != nil {
			return err
		}
		body, err := v.popFunc("while$")
		if err != nil {
			return err
		}
		test, err := v.popFunc("while$")
		if err != nil {
			return err
		}
		for {
			if err := v.executeRef(test); err != nil {
				return err
			}
			cond, err := v.popInt("while$")
			if err != nil {
				return err
			}
			if cond == False {
				return nil
			}
			if err := v.executeRef(body); err != nil {
				return err
			}
		}
	})
}

// registerOutputBuiltins registers output, diagnostics and preamble$.
func (vm *VM) registerOutputBuiltins() {
	// write$: appends the top string to the output buffer
	vm.RegisterBuiltinFunction("write$", func(v *VM) error {
		s, err := v.popString("write$")
		if err != nil {
			return err
		}
		v.out.Write(s)
		return nil
	})

	// newline$: ends the current output line
	vm.RegisterBuiltinFunction("newline$", func(v *VM) error {
		v.out.Newline()
		return nil
	})

	// warning$: reports the top string as a warning and counts it
	vm.RegisterBuiltinFunction("warning$", func(v *VM) error {
		s, err := v.popString("warning$")
		if err != nil {
			return err
		}
		v.warn(s)
		return nil
	})

	// stack$: pops and logs the whole stack, top first
	vm.RegisterBuiltinFunction("stack$", func(v *VM) error {
		for len(v.stack) > 0 {
			top, _ := v.pop("stack$")
			v.log.Debug("stack$", "value", top.String(), "depth", len(v.stack))
		}
		return nil
	})

	// top$: pops and logs the top value
	vm.RegisterBuiltinFunction("top$", func(v *VM) error {
		top, err := v.pop("top$")
		if err != nil {
			return err
		}
		v.log.Debug("top$", "value", top.String())
		return nil
	})

	// preamble$: pushes the preamble supplied with the records
	vm.RegisterBuiltinFunction("preamble$", func(v *VM) error {
		v.push(String(v.preamble))
		return nil
	})
}

// warn logs a style warning and counts it.
func (vm *VM) warn(msg string, args ...any) {
	vm.warnings++
	attrs := append([]any{"count", vm.warnings}, args...)
	if vm.current != nil {
		attrs = append(attrs, "entry", vm.current.CiteKey())
	}
	vm.log.Warn(fmt.Sprintf("Warning: %s", msg), attrs...)
}
