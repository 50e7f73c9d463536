// Package vm provides the stack machine that runs compiled style programs
// against a list of records. It implements:
// - the per-run symbol tables, global variables and per-record scopes
// - the top-level command driver (ENTRY, READ, SORT, EXECUTE, ITERATE, ...)
// - the shared value stack and function dispatch
// - the built-in function registry
// - the wrapping output sink
package vm

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"

	"github.com/zurustar/bibvm/pkg/compiler"
	"github.com/zurustar/bibvm/pkg/compiler/ast"
	"github.com/zurustar/bibvm/pkg/logger"
	"github.com/zurustar/bibvm/pkg/symbols"
)

// MaxCallDepth is the maximum nesting of user function calls.
const MaxCallDepth = 1000

// BuiltinFunc is the signature for built-in functions. A built-in takes
// its operands from the VM's stack and pushes its results there.
type BuiltinFunc func(vm *VM) error

// VM executes one program. The program is shared read-only; everything a
// run mutates (stack, variables, records, output) belongs to the VM, so
// independent VMs may run the same program concurrently. A single VM is
// not safe for concurrent use.
type VM struct {
	program *ast.Program

	// Built-in functions
	builtins map[string]BuiltinFunc

	// Per-run state, rebuilt by Run
	symbols    *symbols.Table
	functions  map[string][]ast.Element
	stack      []Value
	globalInts []int32
	globalStrs []string
	entries    []*entry
	current    *entry
	out        *outputSink
	callStack  []string
	command    string
	warnings   int

	// Configuration
	wrapWidth int
	preamble  string

	log *slog.Logger
}

// Option is a functional option for configuring the VM.
type Option func(*VM)

// WithLogger sets a custom logger.
func WithLogger(log *slog.Logger) Option {
	return func(vm *VM) {
		vm.log = log
	}
}

// WithWrapWidth sets the column at which write$ output is broken.
// 0 disables wrapping.
func WithWrapWidth(width int) Option {
	return func(vm *VM) {
		vm.wrapWidth = width
	}
}

// WithPreamble sets the text preamble$ pushes.
func WithPreamble(preamble string) Option {
	return func(vm *VM) {
		vm.preamble = preamble
	}
}

// New creates a VM for program with the default built-ins registered.
func New(program *ast.Program, opts ...Option) *VM {
	vm := &VM{
		program:   program,
		builtins:  make(map[string]BuiltinFunc),
		wrapWidth: DefaultWrapWidth,
		log:       logger.GetLogger(),
	}

	for _, opt := range opts {
		opt(vm)
	}

	vm.registerDefaultBuiltins()

	return vm
}

// RegisterBuiltinFunction registers a built-in function with the given
// name. Names are case-insensitive.
func (vm *VM) RegisterBuiltinFunction(name string, fn BuiltinFunc) {
	vm.builtins[strings.ToLower(name)] = fn
}

// Result is the outcome of a successful run.
type Result struct {
	Output   string
	Warnings int
}

// Execute runs program against records on a fresh VM.
func Execute(program *ast.Program, records []Record, opts ...Option) (*Result, error) {
	machine := New(program, opts...)
	out, err := machine.Run(records)
	if err != nil {
		return nil, err
	}
	return &Result{Output: out, Warnings: machine.Warnings()}, nil
}

// Run executes every top-level command in program order and returns the
// output. A failed run returns no output; the error is a *RuntimeError
// carrying the command, function, record and stack depth.
func (vm *VM) Run(records []Record) (string, error) {
	vm.reset(records)

	vm.log.Info("VM started", "commands", len(vm.program.Commands), "records", len(records))

	for _, cmd := range vm.program.Commands {
		if err := vm.runCommand(cmd); err != nil {
			err = vm.annotate(err)
			vm.log.Error("run aborted", "error", err)
			return "", err
		}
	}
	vm.current = nil
	vm.command = ""

	vm.log.Info("VM completed", "warnings", vm.warnings, "stack_depth", len(vm.stack))
	return vm.out.String(), nil
}

// Warnings returns the number of warnings issued by the last run.
func (vm *VM) Warnings() int {
	return vm.warnings
}

// Stack returns a copy of the value stack, bottom first.
func (vm *VM) Stack() []Value {
	return slices.Clone(vm.stack)
}

func (vm *VM) reset(records []Record) {
	names := make([]string, 0, len(vm.builtins))
	for name := range vm.builtins {
		names = append(names, name)
	}
	slices.Sort(names)
	vm.symbols = symbols.New(names)
	vm.functions = make(map[string][]ast.Element)
	vm.stack = nil
	vm.globalInts = nil
	vm.globalStrs = nil
	vm.growGlobals()
	for _, name := range []string{symbols.EntryMax, symbols.GlobalMax} {
		vm.globalInts[vm.symbols.Resolve(name).Index] = math.MaxInt32
	}
	vm.entries = make([]*entry, len(records))
	for i, r := range records {
		vm.entries[i] = newEntry(r)
	}
	vm.current = nil
	vm.out = newOutputSink(vm.wrapWidth)
	vm.callStack = nil
	vm.command = ""
	vm.warnings = 0
}

// growGlobals sizes the global slots after a declaration.
func (vm *VM) growGlobals() {
	for len(vm.globalInts) < len(vm.symbols.GlobalInts()) {
		vm.globalInts = append(vm.globalInts, 0)
	}
	for len(vm.globalStrs) < len(vm.symbols.GlobalStrs()) {
		vm.globalStrs = append(vm.globalStrs, "")
	}
}

// runCommand executes one top-level command.
func (vm *VM) runCommand(cmd ast.Command) error {
	vm.command = describeCommand(cmd)
	vm.log.Debug("Executing command", "command", vm.command)

	switch c := cmd.(type) {
	case *ast.EntryCommand:
		return vm.declare(vm.symbols.DeclareEntrySchema(
			compiler.Names(c.Fields), compiler.Names(c.Integers), compiler.Names(c.Strings)))
	case *ast.IntegersCommand:
		return vm.declare(vm.symbols.DeclareGlobalInts(compiler.Names(c.Names)))
	case *ast.StringsCommand:
		return vm.declare(vm.symbols.DeclareGlobalStrs(compiler.Names(c.Names)))
	case *ast.FunctionCommand:
		if err := vm.declare(vm.symbols.DefineFunction(c.Name.Value)); err != nil {
			return err
		}
		vm.functions[c.Name.Value] = c.Body
		return nil
	case *ast.MacroCommand:
		if err := vm.declare(vm.symbols.DefineFunction(c.Name.Value)); err != nil {
			return err
		}
		vm.functions[c.Name.Value] = []ast.Element{&ast.StringLiteral{Token: c.Token, Value: c.Value}}
		return nil
	case *ast.ReadCommand:
		fields := vm.symbols.Fields()
		for _, e := range vm.entries {
			e.read(fields)
		}
		vm.log.Debug("READ completed", "entries", len(vm.entries), "fields", len(fields))
		return nil
	case *ast.SortCommand:
		slices.SortStableFunc(vm.entries, func(a, b *entry) int {
			return strings.Compare(a.SortKey(), b.SortKey())
		})
		return nil
	case *ast.ExecuteCommand:
		vm.current = nil
		return vm.invoke(c.Function.Value)
	case *ast.IterateCommand:
		return vm.iterate(c.Function.Value, c.Reverse)
	default:
		return fmt.Errorf("unknown command: %T", cmd)
	}
}

// iterate runs fn once per record with that record current.
func (vm *VM) iterate(fn string, reverse bool) error {
	order := slices.Clone(vm.entries)
	if reverse {
		slices.Reverse(order)
	}
	for _, e := range order {
		vm.current = e
		if err := vm.invoke(fn); err != nil {
			return err
		}
	}
	vm.current = nil
	return nil
}

// declare converts a symbol table error into a RuntimeError and sizes
// the global slots.
func (vm *VM) declare(err error) error {
	if err != nil {
		re := NewRuntimeError(ErrorDuplicateDefinition, err.Error())
		re.Err = err
		return re
	}
	vm.growGlobals()
	return nil
}

// annotate fills the run context into a RuntimeError.
func (vm *VM) annotate(err error) error {
	var re *RuntimeError
	if !errors.As(err, &re) {
		return err
	}
	if re.Command == "" {
		re.Command = vm.command
	}
	if re.CiteKey == "" && vm.current != nil {
		re.CiteKey = vm.current.CiteKey()
	}
	re.StackDepth = len(vm.stack)
	return err
}

func describeCommand(cmd ast.Command) string {
	switch c := cmd.(type) {
	case *ast.FunctionCommand:
		return "FUNCTION {" + c.Name.Value + "}"
	case *ast.MacroCommand:
		return "MACRO {" + c.Name.Value + "}"
	case *ast.ExecuteCommand:
		return "EXECUTE {" + c.Function.Value + "}"
	case *ast.IterateCommand:
		if c.Reverse {
			return "REVERSE {" + c.Function.Value + "}"
		}
		return "ITERATE {" + c.Function.Value + "}"
	default:
		return strings.ToUpper(cmd.TokenLiteral())
	}
}
