package vm

import (
	"fmt"

	"github.com/zurustar/bibvm/pkg/symbols"
)

// DefaultTypeFunction handles records whose type has no function of its own.
const DefaultTypeFunction = "default.type"

// registerEntryBuiltins registers the built-ins that read the current record.
func (vm *VM) registerEntryBuiltins() {
	// cite$: pushes the current record's citation key
	vm.RegisterBuiltinFunction("cite$", func(v *VM) error {
		e, err := v.currentEntry("cite$")
		if err != nil {
			return err
		}
		v.push(String(e.CiteKey()))
		return nil
	})

	// type$: pushes the current record's type, lower-cased
	vm.RegisterBuiltinFunction("type$", func(v *VM) error {
		e, err := v.currentEntry("type$")
		if err != nil {
			return err
		}
		v.push(String(e.Type()))
		return nil
	})

	// call.type$: runs the function named after the record's type, or
	// default.type
	vm.RegisterBuiltinFunction("call.type$", func(v *VM) error {
		e, err := v.currentEntry("call.type$")
		if err != nil {
			return err
		}
		typ := e.Type()
		if v.symbols.Resolve(typ).Kind == symbols.Function {
			return v.callUser(typ)
		}
		if v.symbols.Resolve(DefaultTypeFunction).Kind == symbols.Function {
			v.log.Debug("call.type$ falling back", "type", typ, "entry", e.CiteKey())
			return v.callUser(DefaultTypeFunction)
		}
		return NewRuntimeError(ErrorUnknownIdentifier,
			fmt.Sprintf("call.type$: no function for entry type %q and no %s", typ, DefaultTypeFunction))
	})
}
