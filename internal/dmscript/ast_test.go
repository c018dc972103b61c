package dmscript

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Node_String(t *testing.T) {
	testCases := []struct {
		name   string
		input  Node
		expect string
	}{
		{
			name:   "number literal",
			input:  LiteralNode{Value: NewFloat(1)},
			expect: `[LITERAL 1]`,
		},
		{
			name:   "string literal is quoted",
			input:  LiteralNode{Value: NewString("hi")},
			expect: `[LITERAL "hi"]`,
		},
		{
			name:   "null literal",
			input:  LiteralNode{Value: NewNull()},
			expect: `[LITERAL null]`,
		},
		{
			name:   "variable",
			input:  VariableNode{Name: "x"},
			expect: `[VARIABLE x]`,
		},
		{
			name:  "binary op",
			input: BinaryOpNode{Op: OpAdd, Left: lit(1), Right: lit(2)},
			expect: "[BINARY_OP +\n" +
				" L: [LITERAL 1]\n" +
				" R: [LITERAL 2]\n" +
				"]",
		},
		{
			name: "nested binary op is indented",
			input: BinaryOpNode{
				Op:    OpAdd,
				Left:  lit(1),
				Right: BinaryOpNode{Op: OpMultiply, Left: lit(2), Right: lit(3)},
			},
			expect: "[BINARY_OP +\n" +
				" L: [LITERAL 1]\n" +
				" R: [BINARY_OP *\n" +
				"     L: [LITERAL 2]\n" +
				"     R: [LITERAL 3]\n" +
				"    ]\n" +
				"]",
		},
		{
			name:  "unary op",
			input: UnaryOpNode{Op: OpNegate, Operand: lit(2)},
			expect: "[UNARY_OP -\n" +
				" O: [LITERAL 2]\n" +
				"]",
		},
		{
			name:  "declaration",
			input: AssignmentNode{Name: "x", Value: lit(1), Declaration: true},
			expect: "[DECLARATION x\n" +
				" V: [LITERAL 1]\n" +
				"]",
		},
		{
			name:  "assignment",
			input: AssignmentNode{Name: "x", Value: lit(1)},
			expect: "[ASSIGNMENT x\n" +
				" V: [LITERAL 1]\n" +
				"]",
		},
		{
			name:   "empty block",
			input:  BlockNode{},
			expect: `[BLOCK]`,
		},
		{
			name:   "call with no args",
			input:  CallNode{Func: "f"},
			expect: `[CALL f]`,
		},
		{
			name:  "call with args",
			input: CallNode{Func: "add", Args: []Node{lit(3), lit(7)}},
			expect: "[CALL add\n" +
				" A: [LITERAL 3]\n" +
				" A: [LITERAL 7]\n" +
				"]",
		},
		{
			name:   "bare return",
			input:  ReturnNode{},
			expect: `[RETURN]`,
		},
		{
			name:  "function declaration",
			input: FuncDeclNode{Name: "f", Params: []string{"a", "b"}, Body: BlockNode{}},
			expect: "[FUNC_DECL f(a, b)\n" +
				" B: [BLOCK]\n" +
				"]",
		},
		{
			name:  "program",
			input: prog(lit(1), VariableNode{Name: "x"}),
			expect: "[PROGRAM\n" +
				" S: [LITERAL 1]\n" +
				" S: [VARIABLE x]\n" +
				"]",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(tc.expect, tc.input.String())
		})
	}
}

func Test_Node_Equal(t *testing.T) {
	assert := assert.New(t)

	// position does not participate in equality
	first, err := Parse("1 + 2;")
	assert.NoError(err)
	second, err := Parse("  1    +\n2;")
	assert.NoError(err)
	assert.True(first.Equal(second))

	// pointer form is accepted
	assert.True(first.Equal(&second))

	// different shapes are not equal
	third, err := Parse("1 - 2;")
	assert.NoError(err)
	assert.False(first.Equal(third))

	// not a node at all
	assert.False(first.Equal(26))

	// literals compare by variant, so 1 and true differ even though the
	// values coerce alike
	assert.False(LiteralNode{Value: NewFloat(1)}.Equal(LiteralNode{Value: NewBool(true)}))
}
