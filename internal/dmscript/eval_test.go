package dmscript

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Eval_values(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect Value
	}{
		{name: "number literal", input: "1;", expect: NewFloat(1)},
		{name: "string literal", input: `"hello";`, expect: NewString("hello")},
		{name: "true literal", input: "true;", expect: NewBool(true)},
		{name: "null literal", input: "null;", expect: NewNull()},
		{name: "addition", input: "10 + 5;", expect: NewFloat(15)},
		{name: "nested arithmetic", input: "2 * (10 + 3) / (5 - 2);", expect: NewFloat(26.0 / 3.0)},
		{name: "precedence", input: "1 + 2 * 3;", expect: NewFloat(7)},
		{name: "grouping", input: "(1 + 2) * 3;", expect: NewFloat(9)},
		{name: "left associativity", input: "10 - 4 - 3;", expect: NewFloat(3)},
		{name: "unary minus", input: "-2 * 3;", expect: NewFloat(-6)},
		{name: "modulo", input: "10 % 3;", expect: NewFloat(1)},
		{name: "bool coerces in arithmetic", input: "true + 2;", expect: NewFloat(3)},
		{name: "logical not", input: "!false;", expect: NewBool(true)},
		{name: "equality", input: "1 == 1;", expect: NewBool(true)},
		{name: "equality across variants is strict", input: "1 == true;", expect: NewBool(false)},
		{name: "inequality", input: "1 != 2;", expect: NewBool(true)},
		{name: "string equality", input: `"a" == "a";`, expect: NewBool(true)},
		{name: "null equality", input: "null == null;", expect: NewBool(true)},
		{name: "relational", input: "1 < 2;", expect: NewBool(true)},
		{name: "relational false", input: "2 <= 1;", expect: NewBool(false)},
		{name: "and", input: "1 && 2;", expect: NewBool(true)},
		{name: "and falsy left", input: "0 && 2;", expect: NewBool(false)},
		{name: "or truthy left", input: `"x" || 0;`, expect: NewBool(true)},
		{name: "or both falsy", input: `"" || 0;`, expect: NewBool(false)},
		{name: "declaration and use", input: "let x = 42; x * 2;", expect: NewFloat(84)},
		{name: "assignment result is the value", input: "let x = 1; x = 5;", expect: NewFloat(5)},
		{name: "if takes then branch", input: `if (1 < 2) { "yes"; } else { "no"; }`, expect: NewString("yes")},
		{name: "if takes else branch", input: `if (2 < 1) { "yes"; } else { "no"; }`, expect: NewString("no")},
		{name: "if with no else gives null", input: "if (false) 1;", expect: NewNull()},
		{name: "empty block gives null", input: "{}", expect: NewNull()},
		{name: "block gives last value", input: "{ 1; 2; 3; }", expect: NewFloat(3)},
		{name: "while never entered gives null", input: "while (false) 1;", expect: NewNull()},
		{
			name:   "while accumulates",
			input:  "let i = 0; let s = 0; while (i < 5) { s = s + i; i = i + 1; } s;",
			expect: NewFloat(10),
		},
		{
			name:   "function call",
			input:  "function add(a, b) { return a + b; } add(3, 7);",
			expect: NewFloat(10),
		},
		{
			name:   "recursion",
			input:  "function fib(n) { if (n <= 1) { return n; } return fib(n-1) + fib(n-2); } fib(6);",
			expect: NewFloat(8),
		},
		{
			name:   "call without explicit return gives body value",
			input:  "function f() { 7; } f();",
			expect: NewFloat(7),
		},
		{
			name:   "return with no value gives null",
			input:  "function f() { return; } f();",
			expect: NewNull(),
		},
		{
			name:   "declaration result is the function name",
			input:  "function add(a, b) { return a + b; }",
			expect: NewString("add"),
		},
		{
			name:   "nested block shadowing",
			input:  "{ let x = 1; { let x = 2; x; } }",
			expect: NewFloat(2),
		},
		{
			name:   "shadowed name is restored after block",
			input:  "let x = 1; { let x = 2; } x;",
			expect: NewFloat(1),
		},
		{
			name:   "assignment in block rebinds the outer name",
			input:  "let x = 1; { x = 2; } x;",
			expect: NewFloat(2),
		},
		{
			name:   "return unwinds out of a loop",
			input:  "function f() { let i = 0; while (true) { i = i + 1; if (i > 3) { return i; } } } f();",
			expect: NewFloat(4),
		},
		{
			name:   "return unwinds through nested blocks",
			input:  "function f() { { { return 9; } } } f();",
			expect: NewFloat(9),
		},
		{
			name:   "parameters are bound by value",
			input:  "let a = 1; function f(a) { a = 99; return a; } f(a); a;",
			expect: NewFloat(1),
		},
		{
			name:   "function sees declaration site scope",
			input:  "let x = 1; function getx() { return x; } { let x = 2; getx(); }",
			expect: NewFloat(1),
		},
		{
			name:   "globals stay mutable through calls",
			input:  "let n = 0; function bump() { n = n + 1; return n; } bump(); bump(); n;",
			expect: NewFloat(2),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			it := NewInterp()
			actual, err := it.Eval(tc.input)
			if !assert.NoError(err) {
				return
			}

			if !assert.True(tc.expect.Equal(actual), "values do not match") {
				assert.Equal(tc.expect.String(), actual.String())
			}
		})
	}
}

func Test_Eval_errors(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect ErrorKind
	}{
		{name: "division by zero", input: "1 / 0;", expect: ErrDivisionByZero},
		{name: "modulo by zero", input: "1 % 0;", expect: ErrDivisionByZero},
		{name: "undefined variable", input: "x;", expect: ErrUndefinedVariable},
		{name: "undefined function", input: "f();", expect: ErrUndefinedVariable},
		{name: "let does not leak out of block", input: "{ let x = 1; } x;", expect: ErrUndefinedVariable},
		{name: "calling a non-function", input: "let x = 1; x();", expect: ErrTypeMismatch},
		{name: "arithmetic on string", input: `"a" + 1;`, expect: ErrTypeMismatch},
		{name: "arithmetic on null", input: "null * 2;", expect: ErrTypeMismatch},
		{name: "relational on string", input: `"a" < "b";`, expect: ErrTypeMismatch},
		{name: "relational on bool", input: "true < 2;", expect: ErrTypeMismatch},
		{name: "negating a string", input: `-"a";`, expect: ErrTypeMismatch},
		{name: "not of a number", input: "!1;", expect: ErrTypeMismatch},
		{name: "arity mismatch low", input: "function f(a) { return a; } f();", expect: ErrInvalidArgument},
		{name: "arity mismatch high", input: "function f(a) { return a; } f(1, 2);", expect: ErrInvalidArgument},
		{name: "return at top level", input: "return 1;", expect: ErrInvalidArgument},
		{name: "error inside call unwinds", input: "function f() { return 1 / 0; } f();", expect: ErrDivisionByZero},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			it := NewInterp()
			_, err := it.Eval(tc.input)
			if !assert.Error(err) {
				return
			}

			var re *RuntimeError
			if !assert.ErrorAs(err, &re) {
				return
			}
			assert.Equal(tc.expect, re.Kind())
		})
	}
}

func Test_Eval_shortCircuit(t *testing.T) {
	testCases := []struct {
		name       string
		input      string
		expectHits Value
	}{
		{
			name:       "and skips right when left is falsy",
			input:      "false && mark();",
			expectHits: NewFloat(0),
		},
		{
			name:       "and evaluates right when left is truthy",
			input:      "true && mark();",
			expectHits: NewFloat(1),
		},
		{
			name:       "or skips right when left is truthy",
			input:      "true || mark();",
			expectHits: NewFloat(0),
		},
		{
			name:       "or evaluates right when left is falsy",
			input:      "false || mark();",
			expectHits: NewFloat(1),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			it := NewInterp()
			_, err := it.Eval("let hits = 0; function mark() { hits = hits + 1; return true; }")
			if !assert.NoError(err) {
				return
			}

			_, err = it.Eval(tc.input)
			if !assert.NoError(err) {
				return
			}

			hits, err := it.Eval("hits;")
			if !assert.NoError(err) {
				return
			}
			assert.True(tc.expectHits.Equal(hits), "hit counts do not match")
		})
	}
}

func Test_Eval_globalPersistsAcrossEvals(t *testing.T) {
	assert := assert.New(t)

	it := NewInterp()

	_, err := it.Eval("let x = 42;")
	assert.NoError(err)

	v, err := it.Eval("x * 2;")
	assert.NoError(err)
	assert.True(NewFloat(84).Equal(v))

	// an error does not damage earlier state
	_, err = it.Eval("1 / 0;")
	assert.Error(err)

	v, err = it.Eval("x;")
	assert.NoError(err)
	assert.True(NewFloat(42).Equal(v))
}

func Test_Eval_deterministic(t *testing.T) {
	assert := assert.New(t)

	const src = "function fib(n) { if (n <= 1) { return n; } return fib(n-1) + fib(n-2); } fib(10);"

	first, err := NewInterp().Eval(src)
	assert.NoError(err)

	second, err := NewInterp().Eval(src)
	assert.NoError(err)

	assert.True(first.Equal(second))
}

func Test_Eval_natives(t *testing.T) {
	assert := assert.New(t)

	it := NewInterp()

	var got []Value
	it.RegisterNative("capture", 1, func(args []Value) (Value, error) {
		got = append(got, args[0])
		return NewNull(), nil
	})

	_, err := it.Eval("capture(1 + 2);")
	assert.NoError(err)
	if assert.Len(got, 1) {
		assert.True(NewFloat(3).Equal(got[0]))
	}

	// natives enforce arity like scripted functions
	_, err = it.Eval("capture();")
	var re *RuntimeError
	if assert.ErrorAs(err, &re) {
		assert.Equal(ErrInvalidArgument, re.Kind())
	}
}

func Test_Eval_echo(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "expression result",
			input:  "10 + 5;",
			expect: "=> 15.000000\n",
		},
		{
			name:   "float display",
			input:  "2 * (10 + 3) / (5 - 2);",
			expect: "=> 8.666667\n",
		},
		{
			name:   "assignments are quiet",
			input:  "let x = 42; x * 2;",
			expect: "=> 84.000000\n",
		},
		{
			name:   "function declaration echoes quoted name",
			input:  "function add(a, b) { return a + b; } add(3, 7);",
			expect: "=> \"add\"\n=> 10.000000\n",
		},
		{
			name:   "while loops are quiet",
			input:  "let i = 0; let s = 0; while (i < 5) { s = s + i; i = i + 1; } s;",
			expect: "=> 10.000000\n",
		},
		{
			name:   "string result is verbatim",
			input:  `if (1 < 2) { "yes"; } else { "no"; }`,
			expect: "=> yes\n",
		},
		{
			name:   "null result is quiet",
			input:  "null;",
			expect: "",
		},
		{
			name:   "boolean result",
			input:  "1 < 2;",
			expect: "=> true\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			var out bytes.Buffer
			it := NewInterp()
			it.SetEcho(&out)

			_, err := it.Eval(tc.input)
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expect, out.String())
		})
	}
}

func Test_Eval_errorProducesNoEcho(t *testing.T) {
	assert := assert.New(t)

	var out bytes.Buffer
	it := NewInterp()
	it.SetEcho(&out)

	_, err := it.Eval("1 / 0;")
	assert.Error(err)
	assert.Equal("", out.String())
}

func Test_Eval_strictComments(t *testing.T) {
	assert := assert.New(t)

	it := NewInterp()
	_, err := it.Eval("1; /* fine by default")
	assert.NoError(err)

	it.SetStrictComments(true)
	_, err = it.Eval("1; /* now an error")
	var se *SyntaxError
	if assert.ErrorAs(err, &se) {
		assert.Equal(ErrSyntax, se.Kind())
	}
}
