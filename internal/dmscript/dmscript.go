// Package dmscript implements the dmscript language: a small
// dynamically-typed scripting language with numeric, string, boolean, and
// null values, lexically scoped variables with block-scoped let bindings,
// if/else, while loops, and user-defined functions with lexical closures.
//
// Source text is scanned into tokens, parsed by recursive descent with
// precedence-climbing expressions into a syntax tree, and evaluated by a
// tree walk over that tree. One Interp holds the global scope for a session;
// each call to Eval runs a complete program against it.
package dmscript

import (
	"fmt"
	"io"
)

// Interp is a single interpreter session. It owns the global scope, so
// variables and functions defined by one Eval call are visible to the next.
// An Interp is not safe for concurrent use; one evaluation runs to
// completion before another begins.
type Interp struct {
	global *Scope

	// echo target for interactive result lines; nil disables echo.
	out io.Writer

	strictComments bool
}

// NewInterp creates an interpreter with a fresh global scope and no result
// echo.
func NewInterp() *Interp {
	return &Interp{
		global: NewScope(nil),
	}
}

// SetEcho sets the writer interactive result lines ("=> ...") are written
// to. Passing nil disables echo, which is the mode used for script files.
func (it *Interp) SetEcho(w io.Writer) {
	it.out = w
}

// SetStrictComments controls whether an unclosed block comment is a syntax
// error. By default it is consumed silently to end of input.
func (it *Interp) SetStrictComments(strict bool) {
	it.strictComments = strict
}

// Global returns the interpreter's global scope.
func (it *Interp) Global() *Scope {
	return it.global
}

// RegisterNative binds a host-implemented function in the global scope. The
// arity is enforced on calls exactly as for scripted functions.
func (it *Interp) RegisterNative(name string, arity int, fn NativeFunc) {
	it.global.Define(name, NewFunc(&FuncValue{
		Name:   name,
		Native: fn,
		Arity:  arity,
	}))
}

// Eval parses and evaluates source as a complete program. The returned value
// is the last top-level statement's result, or null for an empty program.
// When echo is enabled, a result line is written after each top-level
// statement per the display rules.
func (it *Interp) Eval(source string) (Value, error) {
	prog, err := parseSource(source, it.strictComments)
	if err != nil {
		return NewNull(), err
	}

	return it.evalProgram(prog)
}

func (it *Interp) evalProgram(prog ProgramNode) (Value, error) {
	last := NewNull()

	for _, stmt := range prog.Statements {
		r, err := it.eval(stmt, it.global)
		if err != nil {
			return NewNull(), err
		}
		if r.returning {
			return NewNull(), newRuntimeError(ErrInvalidArgument, "return outside of a function")
		}

		last = r.val
		it.echo(stmt, r.val)
	}

	return last, nil
}

// echo writes the interactive result line for one top-level statement.
// Assignments and while loops are quiet; a function declaration echoes its
// name quoted; anything else echoes its value when it is not null.
func (it *Interp) echo(stmt Node, v Value) {
	if it.out == nil {
		return
	}

	switch stmt.Type() {
	case ASTAssignment, ASTWhile:
		// quiet
	case ASTFuncDecl:
		fmt.Fprintf(it.out, "=> %q\n", v.Str())
	default:
		if v.Type() != Null {
			fmt.Fprintf(it.out, "=> %s\n", v.Display())
		}
	}
}
