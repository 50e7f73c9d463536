package vm

import (
	"strings"

	"github.com/zurustar/bibvm/pkg/bibtext"
)

// registerStringBuiltins registers the text built-ins. The brace-aware
// algorithms live in package bibtext.
func (vm *VM) registerStringBuiltins() {
	// add.period$: appends "." unless the text already ends in . ! or ?
	vm.RegisterBuiltinFunction("add.period$", stringFunc("add.period$", bibtext.AddPeriod))

	// change.case$: str mode change.case$  with mode t, l or u
	vm.RegisterBuiltinFunction("change.case$", func(v *VM) error {
		if err := v.need("change.case$", 2); err != nil {
			return err
		}
		spec, err := v.popString("change.case$")
		if err != nil {
			return err
		}
		s, err := v.popString("change.case$")
		if err != nil {
			return err
		}
		mode, err := bibtext.ParseCaseMode(spec)
		if err != nil {
			v.warn("change.case$: "+err.Error(), "mode", spec)
			v.push(String(s))
			return nil
		}
		v.push(String(bibtext.ChangeCase(s, mode)))
		return nil
	})

	// empty$: 1 for a missing field or a blank string, 0 otherwise
	vm.RegisterBuiltinFunction("empty$", func(v *VM) error {
		x, err := v.pop("empty$")
		if err != nil {
			return err
		}
		switch x.Kind {
		case IntValue:
			v.push(Int(False))
		case StringValue:
			v.push(Bool(x.Missing || strings.TrimSpace(x.Str) == ""))
		default:
			return newTypeMismatchError("empty$", StringValue, x)
		}
		return nil
	})

	// missing$: 1 only for a field the record does not have
	vm.RegisterBuiltinFunction("missing$", func(v *VM) error {
		x, err := v.pop("missing$")
		if err != nil {
			return err
		}
		if x.Kind != StringValue {
			v.warn("missing$ applied to a " + x.Kind.String())
			v.push(Int(True))
			return nil
		}
		v.push(Bool(x.Missing))
		return nil
	})

	// num.names$: number of names in an "and"-separated list
	vm.RegisterBuiltinFunction("num.names$", func(v *VM) error {
		s, err := v.popString("num.names$")
		if err != nil {
			return err
		}
		v.push(Int(int32(bibtext.NumNames(s))))
		return nil
	})

	// purify$: strips everything but letters, digits and spaces
	vm.RegisterBuiltinFunction("purify$", stringFunc("purify$", bibtext.Purify))

	// quote$: pushes a double quote
	vm.RegisterBuiltinFunction("quote$", func(v *VM) error {
		v.push(String(`"`))
		return nil
	})

	// substring$: str start len substring$
	vm.RegisterBuiltinFunction("substring$", func(v *VM) error {
		if err := v.need("substring$", 3); err != nil {
			return err
		}
		length, err := v.popInt("substring$")
		if err != nil {
			return err
		}
		start, err := v.popInt("substring$")
		if err != nil {
			return err
		}
		s, err := v.popString("substring$")
		if err != nil {
			return err
		}
		v.push(String(bibtext.Substring(s, int(start), int(length))))
		return nil
	})

	// text.length$: logical characters; a special character counts once
	vm.RegisterBuiltinFunction("text.length$", func(v *VM) error {
		s, err := v.popString("text.length$")
		if err != nil {
			return err
		}
		v.push(Int(int32(bibtext.TextLength(s))))
		return nil
	})

	// text.prefix$: str n text.prefix$
	vm.RegisterBuiltinFunction("text.prefix$", func(v *VM) error {
		if err := v.need("text.prefix$", 2); err != nil {
			return err
		}
		n, err := v.popInt("text.prefix$")
		if err != nil {
			return err
		}
		s, err := v.popString("text.prefix$")
		if err != nil {
			return err
		}
		v.push(String(bibtext.TextPrefix(s, int(n))))
		return nil
	})

	// width$: printed width in hundredths of a point (cmr10)
	vm.RegisterBuiltinFunction("width$", func(v *VM) error {
		s, err := v.popString("width$")
		if err != nil {
			return err
		}
		v.push(Int(int32(bibtext.Width(s))))
		return nil
	})

	// format.name$: names n format format.name$
	vm.RegisterBuiltinFunction("format.name$", func(v *VM) error {
		if err := v.need("format.name$", 3); err != nil {
			return err
		}
		format, err := v.popString("format.name$")
		if err != nil {
			return err
		}
		n, err := v.popInt("format.name$")
		if err != nil {
			return err
		}
		names, err := v.popString("format.name$")
		if err != nil {
			return err
		}
		s, err := bibtext.FormatName(names, int(n), format)
		if err != nil {
			re := newRangeError("format.name$", "%v", err)
			re.Err = err
			return re
		}
		v.push(String(s))
		return nil
	})
}

// stringFunc adapts a string transformation into a one-operand built-in.
func stringFunc(fn string, f func(string) string) BuiltinFunc {
	return func(v *VM) error {
		s, err := v.popString(fn)
		if err != nil {
			return err
		}
		v.push(String(f(s)))
		return nil
	}
}
