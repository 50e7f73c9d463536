package vm

import (
	"math"
	"strconv"
)

// registerMathBuiltins registers comparison, arithmetic and conversions.
func (vm *VM) registerMathBuiltins() {
	// >: a b >  pushes 1 when a > b
	vm.RegisterBuiltinFunction(">", func(v *VM) error {
		a, b, err := v.popInts(">")
		if err != nil {
			return err
		}
		v.push(Bool(a > b))
		return nil
	})

	// <: a b <  pushes 1 when a < b
	vm.RegisterBuiltinFunction("<", func(v *VM) error {
		a, b, err := v.popInts("<")
		if err != nil {
			return err
		}
		v.push(Bool(a < b))
		return nil
	})

	// =: compares two integers or two strings; mixed operands are unequal
	vm.RegisterBuiltinFunction("=", func(v *VM) error {
		if err := v.need("=", 2); err != nil {
			return err
		}
		b, _ := v.pop("=")
		a, _ := v.pop("=")
		for _, x := range []Value{a, b} {
			if x.Kind == FunctionValue {
				return newTypeMismatchError("=", StringValue, x)
			}
		}
		switch {
		case a.Kind != b.Kind:
			v.push(Int(False))
		case a.Kind == IntValue:
			v.push(Bool(a.Int == b.Int))
		default:
			v.push(Bool(a.Str == b.Str))
		}
		return nil
	})

	// +: integer addition
	vm.RegisterBuiltinFunction("+", func(v *VM) error {
		a, b, err := v.popInts("+")
		if err != nil {
			return err
		}
		return v.pushChecked("+", int64(a)+int64(b))
	})

	// -: a b -  pushes a - b
	vm.RegisterBuiltinFunction("-", func(v *VM) error {
		a, b, err := v.popInts("-")
		if err != nil {
			return err
		}
		return v.pushChecked("-", int64(a)-int64(b))
	})

	// *: multiplies two integers or concatenates two strings
	vm.RegisterBuiltinFunction("*", func(v *VM) error {
		if err := v.need("*", 2); err != nil {
			return err
		}
		b, _ := v.pop("*")
		a, _ := v.pop("*")
		switch {
		case a.Kind == IntValue && b.Kind == IntValue:
			return v.pushChecked("*", int64(a.Int)*int64(b.Int))
		case a.Kind == StringValue && b.Kind == StringValue:
			v.push(String(a.Str + b.Str))
			return nil
		case a.Kind == IntValue:
			return newTypeMismatchError("*", IntValue, b)
		default:
			return newTypeMismatchError("*", StringValue, b)
		}
	})

	// int.to.str$: pushes the decimal form of an integer
	vm.RegisterBuiltinFunction("int.to.str$", func(v *VM) error {
		i, err := v.popInt("int.to.str$")
		if err != nil {
			return err
		}
		v.push(String(strconv.Itoa(int(i))))
		return nil
	})

	// int.to.chr$: pushes the character with the given code (0..255)
	vm.RegisterBuiltinFunction("int.to.chr$", func(v *VM) error {
		i, err := v.popInt("int.to.chr$")
		if err != nil {
			return err
		}
		if i < 0 || i > 255 {
			return newRangeError("int.to.chr$", "%d is not a character code", i)
		}
		v.push(String(string(rune(i))))
		return nil
	})

	// chr.to.int$: pushes the code of a one-character string
	vm.RegisterBuiltinFunction("chr.to.int$", func(v *VM) error {
		s, err := v.popString("chr.to.int$")
		if err != nil {
			return err
		}
		r := []rune(s)
		if len(r) != 1 {
			return newRangeError("chr.to.int$", "%q is not a single character", s)
		}
		v.push(Int(int32(r[0])))
		return nil
	})
}

// popInts pops the operands of a binary integer operator, returning them
// in push order.
func (vm *VM) popInts(fn string) (a, b int32, err error) {
	if err := vm.need(fn, 2); err != nil {
		return 0, 0, err
	}
	if b, err = vm.popInt(fn); err != nil {
		return 0, 0, err
	}
	if a, err = vm.popInt(fn); err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

// pushChecked pushes an arithmetic result that must fit in 32 bits.
func (vm *VM) pushChecked(fn string, r int64) error {
	if r > math.MaxInt32 || r < math.MinInt32 {
		return newRangeError(fn, "integer overflow: %d", r)
	}
	vm.push(Int(int32(r)))
	return nil
}
