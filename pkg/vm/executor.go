package vm

import (
	"errors"
	"fmt"

	"github.com/zurustar/bibvm/pkg/compiler/ast"
	"github.com/zurustar/bibvm/pkg/symbols"
)

// executeBody runs the elements of a function body left to right.
func (vm *VM) executeBody(body []ast.Element) error {
	for _, el := range body {
		if err := vm.executeElement(el); err != nil {
			return err
		}
	}
	return nil
}

// executeElement pushes a literal or invokes a name.
func (vm *VM) executeElement(el ast.Element) error {
	switch e := el.(type) {
	case *ast.IntegerLiteral:
		vm.push(Int(e.Value))
	case *ast.StringLiteral:
		vm.push(String(e.Value))
	case *ast.QuotedFunction:
		vm.push(Func(&FunctionRef{Name: e.Name}))
	case *ast.Block:
		vm.push(Func(&FunctionRef{Body: e.Elements}))
	case *ast.Call:
		return vm.invoke(e.Name)
	default:
		return fmt.Errorf("unknown element: %T", el)
	}
	return nil
}

// invoke resolves a name: variables push their value, functions run.
func (vm *VM) invoke(name string) error {
	sym := vm.symbols.Resolve(name)
	switch sym.Kind {
	case symbols.GlobalInt:
		vm.push(Int(vm.globalInts[sym.Index]))
	case symbols.GlobalStr:
		vm.push(String(vm.globalStrs[sym.Index]))
	case symbols.EntryField:
		e, err := vm.currentEntry(sym.Name)
		if err != nil {
			return err
		}
		if v, ok := e.Field(sym.Index); ok {
			vm.push(String(v))
		} else {
			vm.push(Missing())
		}
	case symbols.EntryLocalInt:
		e, err := vm.currentEntry(sym.Name)
		if err != nil {
			return err
		}
		vm.push(Int(e.Int(sym.Index)))
	case symbols.EntryLocalStr:
		e, err := vm.currentEntry(sym.Name)
		if err != nil {
			return err
		}
		vm.push(String(e.Str(sym.Index)))
	case symbols.Function:
		return vm.callUser(sym.Name)
	case symbols.Builtin:
		fn, ok := vm.builtins[sym.Name]
		if !ok {
			return newUnknownIdentifierError(name)
		}
		return fn(vm)
	default:
		return newUnknownIdentifierError(name)
	}
	return nil
}

// callUser runs a user function under the shared stack and current record.
func (vm *VM) callUser(name string) error {
	if len(vm.callStack) >= MaxCallDepth {
		return NewRuntimeError(ErrorStackOverflow,
			fmt.Sprintf("call depth exceeds maximum %d", MaxCallDepth))
	}
	vm.callStack = append(vm.callStack, name)
	err := vm.executeBody(vm.functions[name])
	vm.callStack = vm.callStack[:len(vm.callStack)-1]

	var re *RuntimeError
	if errors.As(err, &re) && re.Function == "" {
		re.Function = name
	}
	return err
}

// executeRef runs a function reference popped by if$, while$ and friends.
func (vm *VM) executeRef(ref *FunctionRef) error {
	if ref.Name != "" {
		return vm.invoke(ref.Name)
	}
	return vm.executeBody(ref.Body)
}

// currentEntry returns the record being iterated, or NO_CURRENT_ENTRY
// outside ITERATE and REVERSE.
func (vm *VM) currentEntry(what string) (*entry, error) {
	if vm.current == nil {
		return nil, newNoCurrentEntryError(what)
	}
	return vm.current, nil
}

// assign stores value into the variable called name.
func (vm *VM) assign(name string, value Value) error {
	sym := vm.symbols.Resolve(name)
	switch sym.Kind {
	case symbols.GlobalInt, symbols.EntryLocalInt:
		if value.Kind != IntValue {
			return newTypeMismatchError(":= to "+sym.Name, IntValue, value)
		}
	case symbols.GlobalStr, symbols.EntryLocalStr:
		if value.Kind != StringValue {
			return newTypeMismatchError(":= to "+sym.Name, StringValue, value)
		}
	case symbols.Unknown:
		return newUnknownIdentifierError(name)
	default:
		return NewRuntimeError(ErrorTypeMismatch,
			fmt.Sprintf(":= cannot assign to %s %s", sym.Kind, sym.Name))
	}

	switch sym.Kind {
	case symbols.GlobalInt:
		vm.globalInts[sym.Index] = value.Int
	case symbols.GlobalStr:
		vm.globalStrs[sym.Index] = value.Str
	case symbols.EntryLocalInt:
		e, err := vm.currentEntry(sym.Name)
		if err != nil {
			return err
		}
		e.SetInt(sym.Index, value.Int)
	case symbols.EntryLocalStr:
		e, err := vm.currentEntry(sym.Name)
		if err != nil {
			return err
		}
		e.SetStr(sym.Index, value.Str)
	}
	return nil
}

// ---- stack ----

func (vm *VM) push(v Value) {
	vm.stack = append(vm.stack, v)
}

// need checks that fn has n operands, so a failing built-in pops nothing.
func (vm *VM) need(fn string, n int) error {
	if len(vm.stack) < n {
		return newStackUnderflowError(fn, n, len(vm.stack))
	}
	return nil
}

func (vm *VM) pop(fn string) (Value, error) {
	if err := vm.need(fn, 1); err != nil {
		return Value{}, err
	}
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v, nil
}

func (vm *VM) popInt(fn string) (int32, error) {
	v, err := vm.pop(fn)
	if err != nil {
		return 0, err
	}
	if v.Kind != IntValue {
		return 0, newTypeMismatchError(fn, IntValue, v)
	}
	return v.Int, nil
}

// popString pops a string; a missing field reads as "".
func (vm *VM) popString(fn string) (string, error) {
	v, err := vm.pop(fn)
	if err != nil {
		return "", err
	}
	if v.Kind != StringValue {
		return "", newTypeMismatchError(fn, StringValue, v)
	}
	return v.Str, nil
}

func (vm *VM) popFunc(fn string) (*FunctionRef, error) {
	v, err := vm.pop(fn)
	if err != nil {
		return nil, err
	}
	if v.Kind != FunctionValue {
		return nil, newTypeMismatchError(fn, FunctionValue, v)
	}
	return v.Func, nil
}
