// Package ast defines the syntax tree of a style program: a sequence of
// top-level commands, some of which carry function bodies.
package ast

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/zurustar/bibvm/pkg/compiler/token"
)

type Node interface {
	TokenLiteral() string
	String() string
}

// Command is a top-level command such as ENTRY or ITERATE.
type Command interface {
	Node
	commandNode()
	Pos() (line, column int)
}

// Element is one item of a function body.
type Element interface {
	Node
	elementNode()
	Pos() (line, column int)
}

// Program is the root node. It is never mutated after parsing and may be
// shared by concurrent runs.
type Program struct {
	Commands []Command
}

func (p *Program) TokenLiteral() string {
	if len(p.Commands) > 0 {
		return p.Commands[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, c := range p.Commands {
		out.WriteString(c.String())
		out.WriteString("\n")
	}
	return out.String()
}

// Identifier is a lower-cased name with the token it came from.
type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }

func joinIdents(ids []*Identifier) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id.Value
	}
	return "{ " + strings.Join(names, " ") + " }"
}

func pos(t token.Token) (int, int) { return t.Line, t.Column }

// ---- elements ----

// IntegerLiteral pushes an integer.
type IntegerLiteral struct {
	Token token.Token
	Value int32
}

func (il *IntegerLiteral) elementNode()         {}
func (il *IntegerLiteral) TokenLiteral() string { return il.Token.Literal }
func (il *IntegerLiteral) String() string       { return fmt.Sprintf("#%d", il.Value) }
func (il *IntegerLiteral) Pos() (int, int)      { return pos(il.Token) }

// StringLiteral pushes a string.
type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) elementNode()         {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StringLiteral) String() string       { return `"` + sl.Value + `"` }
func (sl *StringLiteral) Pos() (int, int)      { return pos(sl.Token) }

// QuotedFunction pushes a reference to a named function or variable
// without invoking it ('name).
type QuotedFunction struct {
	Token token.Token
	Name  string
}

func (qf *QuotedFunction) elementNode()         {}
func (qf *QuotedFunction) TokenLiteral() string { return qf.Token.Literal }
func (qf *QuotedFunction) String() string       { return "'" + qf.Name }
func (qf *QuotedFunction) Pos() (int, int)      { return pos(qf.Token) }

// Call looks up a name and invokes it: a variable read pushes its value,
// a function runs.
type Call struct {
	Token token.Token
	Name  string
}

func (c *Call) elementNode()         {}
func (c *Call) TokenLiteral() string { return c.Token.Literal }
func (c *Call) String() string       { return c.Name }
func (c *Call) Pos() (int, int)      { return pos(c.Token) }

// Block is an inline { ... } body; executing it pushes an anonymous
// function reference.
type Block struct {
	Token    token.Token // the '{' token
	Elements []Element
}

func (b *Block) elementNode()         {}
func (b *Block) TokenLiteral() string { return b.Token.Literal }
func (b *Block) String() string       { return BodyString(b.Elements) }
func (b *Block) Pos() (int, int)      { return pos(b.Token) }

// BodyString renders a function body in source form.
func BodyString(elems []Element) string {
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = e.String()
	}
	if len(parts) == 0 {
		return "{ }"
	}
	return "{ " + strings.Join(parts, " ") + " }"
}

// ---- commands ----

// EntryCommand declares record fields, record-local integers and
// record-local strings, in that source order.
type EntryCommand struct {
	Token    token.Token
	Fields   []*Identifier
	Integers []*Identifier
	Strings  []*Identifier
}

func (ec *EntryCommand) commandNode()         {}
func (ec *EntryCommand) TokenLiteral() string { return ec.Token.Literal }
func (ec *EntryCommand) Pos() (int, int)      { return pos(ec.Token) }
func (ec *EntryCommand) String() string {
	return "ENTRY " + joinIdents(ec.Fields) + " " + joinIdents(ec.Integers) + " " + joinIdents(ec.Strings)
}

// IntegersCommand declares global integer variables.
type IntegersCommand struct {
	Token token.Token
	Names []*Identifier
}

func (ic *IntegersCommand) commandNode()         {}
func (ic *IntegersCommand) TokenLiteral() string { return ic.Token.Literal }
func (ic *IntegersCommand) Pos() (int, int)      { return pos(ic.Token) }
func (ic *IntegersCommand) String() string       { return "INTEGERS " + joinIdents(ic.Names) }

// StringsCommand declares global string variables.
type StringsCommand struct {
	Token token.Token
	Names []*Identifier
}

func (sc *StringsCommand) commandNode()         {}
func (sc *StringsCommand) TokenLiteral() string { return sc.Token.Literal }
func (sc *StringsCommand) Pos() (int, int)      { return pos(sc.Token) }
func (sc *StringsCommand) String() string       { return "STRINGS " + joinIdents(sc.Names) }

// FunctionCommand defines a user function.
type FunctionCommand struct {
	Token token.Token
	Name  *Identifier
	Body  []Element
}

func (fc *FunctionCommand) commandNode()         {}
func (fc *FunctionCommand) TokenLiteral() string { return fc.Token.Literal }
func (fc *FunctionCommand) Pos() (int, int)      { return pos(fc.Token) }
func (fc *FunctionCommand) String() string {
	return "FUNCTION { " + fc.Name.Value + " } " + BodyString(fc.Body)
}

// MacroCommand defines a name that pushes a constant string.
type MacroCommand struct {
	Token token.Token
	Name  *Identifier
	Value string
}

func (mc *MacroCommand) commandNode()         {}
func (mc *MacroCommand) TokenLiteral() string { return mc.Token.Literal }
func (mc *MacroCommand) Pos() (int, int)      { return pos(mc.Token) }
func (mc *MacroCommand) String() string {
	return "MACRO { " + mc.Name.Value + ` } { "` + mc.Value + `" }`
}

// ReadCommand loads record fields.
type ReadCommand struct {
	Token token.Token
}

func (rc *ReadCommand) commandNode()         {}
func (rc *ReadCommand) TokenLiteral() string { return rc.Token.Literal }
func (rc *ReadCommand) Pos() (int, int)      { return pos(rc.Token) }
func (rc *ReadCommand) String() string       { return "READ" }

// SortCommand sorts records by sort.key$.
type SortCommand struct {
	Token token.Token
}

func (sc *SortCommand) commandNode()         {}
func (sc *SortCommand) TokenLiteral() string { return sc.Token.Literal }
func (sc *SortCommand) Pos() (int, int)      { return pos(sc.Token) }
func (sc *SortCommand) String() string       { return "SORT" }

// ExecuteCommand runs a function once with no current record.
type ExecuteCommand struct {
	Token    token.Token
	Function *Identifier
}

func (ec *ExecuteCommand) commandNode()         {}
func (ec *ExecuteCommand) TokenLiteral() string { return ec.Token.Literal }
func (ec *ExecuteCommand) Pos() (int, int)      { return pos(ec.Token) }
func (ec *ExecuteCommand) String() string       { return "EXECUTE { " + ec.Function.Value + " }" }

// IterateCommand runs a function once per record. Reverse walks the
// records from last to first (the REVERSE command).
type IterateCommand struct {
	Token    token.Token
	Function *Identifier
	Reverse  bool
}

func (ic *IterateCommand) commandNode()         {}
func (ic *IterateCommand) TokenLiteral() string { return ic.Token.Literal }
func (ic *IterateCommand) Pos() (int, int)      { return pos(ic.Token) }
func (ic *IterateCommand) String() string {
	if ic.Reverse {
		return "REVERSE { " + ic.Function.Value + " }"
	}
	return "ITERATE { " + ic.Function.Value + " }"
}
