package dmscript

import (
	"fmt"
	"strings"
)

// file ast.go contains the abstract syntax tree produced by the parser and
// consumed by the evaluator. Nodes own their children; dropping the root of a
// tree releases the whole tree.

// Position is a location in script source, 1-indexed on both axes.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// NodeType determines which concrete node type a Node is.
type NodeType int

const (
	ASTProgram NodeType = iota
	ASTBlock
	ASTLiteral
	ASTVariable
	ASTAssignment
	ASTBinaryOp
	ASTUnaryOp
	ASTIf
	ASTWhile
	ASTFor
	ASTCall
	ASTFuncDecl
	ASTReturn
	ASTImport
)

// Node is one node of a parsed syntax tree.
type Node interface {

	// Type returns the type of the Node.
	Type() NodeType

	// Source is the position in source text of the first token lexed as part
	// of this node, except for a binary operation, whose position is that of
	// its operator token.
	Source() Position

	// String returns a prettified representation of the node suitable for use
	// in line-by-line comparisons of tree structure. Two nodes are considered
	// semantically identical if they produce identical String() output.
	String() string

	// Equal returns whether a node is equal to another. It will return false
	// if anything besides a Node is passed in. Nodes do not consider the
	// result of Source() in their equality.
	Equal(o any) bool
}

// BinaryOperation is an operator that takes a left and a right operand.
type BinaryOperation int

const (
	OpAdd BinaryOperation = iota
	OpSubtract
	OpMultiply
	OpDivide
	OpModulo
	OpEqual
	OpNotEqual
	OpLess
	OpGreater
	OpLessEqual
	OpGreaterEqual
	OpAnd
	OpOr
)

// Symbol returns the source form of the operation.
func (op BinaryOperation) Symbol() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpMultiply:
		return "*"
	case OpDivide:
		return "/"
	case OpModulo:
		return "%"
	case OpEqual:
		return "=="
	case OpNotEqual:
		return "!="
	case OpLess:
		return "<"
	case OpGreater:
		return ">"
	case OpLessEqual:
		return "<="
	case OpGreaterEqual:
		return ">="
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	default:
		return fmt.Sprintf("BinaryOperation(%d)", int(op))
	}
}

func (op BinaryOperation) String() string {
	return op.Symbol()
}

// UnaryOperation is an operator that takes a single operand.
type UnaryOperation int

const (
	OpNegate UnaryOperation = iota
	OpNot
)

// Symbol returns the source form of the operation.
func (op UnaryOperation) Symbol() string {
	switch op {
	case OpNegate:
		return "-"
	case OpNot:
		return "!"
	default:
		return fmt.Sprintf("UnaryOperation(%d)", int(op))
	}
}

func (op UnaryOperation) String() string {
	return op.Symbol()
}

// spaceIndentNewlines indents every line of str except the first by the given
// number of spaces.
func spaceIndentNewlines(str string, amount int) string {
	if strings.Contains(str, "\n") {
		indent := strings.Repeat(" ", amount)
		str = strings.ReplaceAll(str, "\n", "\n"+indent)
	}
	return str
}

const stmtStart = " S: "

func statementsString(label string, statements []Node) string {
	if len(statements) == 0 {
		return "[" + label + "]"
	}

	var sb strings.Builder
	sb.WriteString("[" + label)
	for i := range statements {
		sb.WriteRune('\n')
		sb.WriteString(stmtStart)
		sb.WriteString(spaceIndentNewlines(statements[i].String(), len(stmtStart)))
	}
	sb.WriteString("\n]")
	return sb.String()
}

func equalStatements(sl1, sl2 []Node) bool {
	if len(sl1) != len(sl2) {
		return false
	}
	for i := range sl1 {
		if !sl1[i].Equal(sl2[i]) {
			return false
		}
	}
	return true
}

// equalOptional compares two possibly-nil child nodes.
func equalOptional(n1, n2 Node) bool {
	if n1 == nil || n2 == nil {
		return n1 == nil && n2 == nil
	}
	return n1.Equal(n2)
}

// ProgramNode is the root of a parsed program: an ordered sequence of
// top-level statements.
type ProgramNode struct {
	Statements []Node

	src Position
}

func (n ProgramNode) Type() NodeType   { return ASTProgram }
func (n ProgramNode) Source() Position { return n.src }

func (n ProgramNode) String() string {
	return statementsString("PROGRAM", n.Statements)
}

// Does not consider Source.
func (n ProgramNode) Equal(o any) bool {
	other, ok := o.(ProgramNode)
	if !ok {
		otherPtr, ok := o.(*ProgramNode)
		if !ok {
			return false
		} else if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	return equalStatements(n.Statements, other.Statements)
}

// BlockNode is a braced sequence of statements. A block introduces a new
// scope when evaluated.
type BlockNode struct {
	Statements []Node

	src Position
}

func (n BlockNode) Type() NodeType   { return ASTBlock }
func (n BlockNode) Source() Position { return n.src }

func (n BlockNode) String() string {
	return statementsString("BLOCK", n.Statements)
}

// Does not consider Source.
func (n BlockNode) Equal(o any) bool {
	other, ok := o.(BlockNode)
	if !ok {
		otherPtr, ok := o.(*BlockNode)
		if !ok {
			return false
		} else if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	return equalStatements(n.Statements, other.Statements)
}

// LiteralNode is a literal value in source.
type LiteralNode struct {
	Value Value

	src Position
}

func (n LiteralNode) Type() NodeType   { return ASTLiteral }
func (n LiteralNode) Source() Position { return n.src }

func (n LiteralNode) String() string {
	return fmt.Sprintf("[LITERAL %s]", n.Value.String())
}

// Does not consider Source.
func (n LiteralNode) Equal(o any) bool {
	other, ok := o.(LiteralNode)
	if !ok {
		otherPtr, ok := o.(*LiteralNode)
		if !ok {
			return false
		} else if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if n.Value.Type() != other.Value.Type() {
		return false
	}
	return n.Value.Equal(other.Value)
}

// VariableNode is a reference to a name.
type VariableNode struct {
	Name string

	src Position
}

func (n VariableNode) Type() NodeType   { return ASTVariable }
func (n VariableNode) Source() Position { return n.src }

func (n VariableNode) String() string {
	return fmt.Sprintf("[VARIABLE %s]", n.Name)
}

// Does not consider Source.
func (n VariableNode) Equal(o any) bool {
	other, ok := o.(VariableNode)
	if !ok {
		otherPtr, ok := o.(*VariableNode)
		if !ok {
			return false
		} else if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	return n.Name == other.Name
}

// AssignmentNode binds the result of evaluating Value to Name. Declaration
// is true for let/var/const statements, which always target the innermost
// scope; a plain assignment rebinds the nearest enclosing binding instead.
type AssignmentNode struct {
	Name        string
	Value       Node
	Declaration bool

	src Position
}

func (n AssignmentNode) Type() NodeType   { return ASTAssignment }
func (n AssignmentNode) Source() Position { return n.src }

func (n AssignmentNode) String() string {
	const valStart = " V: "

	label := "ASSIGNMENT"
	if n.Declaration {
		label = "DECLARATION"
	}

	valStr := spaceIndentNewlines(n.Value.String(), len(valStart))
	return fmt.Sprintf("[%s %s\n%s%s\n]", label, n.Name, valStart, valStr)
}

// Does not consider Source.
func (n AssignmentNode) Equal(o any) bool {
	other, ok := o.(AssignmentNode)
	if !ok {
		otherPtr, ok := o.(*AssignmentNode)
		if !ok {
			return false
		} else if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if n.Name != other.Name {
		return false
	}
	if n.Declaration != other.Declaration {
		return false
	}
	return n.Value.Equal(other.Value)
}

// BinaryOpNode applies a binary operator to two operands.
type BinaryOpNode struct {
	Left  Node
	Right Node
	Op    BinaryOperation

	src Position
}

func (n BinaryOpNode) Type() NodeType   { return ASTBinaryOp }
func (n BinaryOpNode) Source() Position { return n.src }

func (n BinaryOpNode) String() string {
	const (
		leftStart  = " L: "
		rightStart = " R: "
	)

	leftStr := spaceIndentNewlines(n.Left.String(), len(leftStart))
	rightStr := spaceIndentNewlines(n.Right.String(), len(rightStart))

	return fmt.Sprintf("[BINARY_OP %s\n%s%s\n%s%s\n]", n.Op.Symbol(), leftStart, leftStr, rightStart, rightStr)
}

// Does not consider Source.
func (n BinaryOpNode) Equal(o any) bool {
	other, ok := o.(BinaryOpNode)
	if !ok {
		otherPtr, ok := o.(*BinaryOpNode)
		if !ok {
			return false
		} else if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if n.Op != other.Op {
		return false
	}
	if !n.Left.Equal(other.Left) {
		return false
	}
	return n.Right.Equal(other.Right)
}

// UnaryOpNode applies a prefix operator to a single operand.
type UnaryOpNode struct {
	Operand Node
	Op      UnaryOperation

	src Position
}

func (n UnaryOpNode) Type() NodeType   { return ASTUnaryOp }
func (n UnaryOpNode) Source() Position { return n.src }

func (n UnaryOpNode) String() string {
	const operandStart = " O: "

	operandStr := spaceIndentNewlines(n.Operand.String(), len(operandStart))
	return fmt.Sprintf("[UNARY_OP %s\n%s%s\n]", n.Op.Symbol(), operandStart, operandStr)
}

// Does not consider Source.
func (n UnaryOpNode) Equal(o any) bool {
	other, ok := o.(UnaryOpNode)
	if !ok {
		otherPtr, ok := o.(*UnaryOpNode)
		if !ok {
			return false
		} else if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if n.Op != other.Op {
		return false
	}
	return n.Operand.Equal(other.Operand)
}

// IfNode evaluates Then when Condition is truthy, and Else (if present)
// otherwise. Else is nil when the statement has no else branch.
type IfNode struct {
	Condition Node
	Then      Node
	Else      Node

	src Position
}

func (n IfNode) Type() NodeType   { return ASTIf }
func (n IfNode) Source() Position { return n.src }

func (n IfNode) String() string {
	const (
		condStart = " C: "
		thenStart = " T: "
		elseStart = " E: "
	)

	condStr := spaceIndentNewlines(n.Condition.String(), len(condStart))
	thenStr := spaceIndentNewlines(n.Then.String(), len(thenStart))

	if n.Else == nil {
		return fmt.Sprintf("[IF\n%s%s\n%s%s\n]", condStart, condStr, thenStart, thenStr)
	}

	elseStr := spaceIndentNewlines(n.Else.String(), len(elseStart))
	return fmt.Sprintf("[IF\n%s%s\n%s%s\n%s%s\n]", condStart, condStr, thenStart, thenStr, elseStart, elseStr)
}

// Does not consider Source.
func (n IfNode) Equal(o any) bool {
	other, ok := o.(IfNode)
	if !ok {
		otherPtr, ok := o.(*IfNode)
		if !ok {
			return false
		} else if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if !n.Condition.Equal(other.Condition) {
		return false
	}
	if !n.Then.Equal(other.Then) {
		return false
	}
	return equalOptional(n.Else, other.Else)
}

// WhileNode evaluates Body repeatedly for as long as Condition is truthy.
type WhileNode struct {
	Condition Node
	Body      Node

	src Position
}

func (n WhileNode) Type() NodeType   { return ASTWhile }
func (n WhileNode) Source() Position { return n.src }

func (n WhileNode) String() string {
	const (
		condStart = " C: "
		bodyStart = " B: "
	)

	condStr := spaceIndentNewlines(n.Condition.String(), len(condStart))
	bodyStr := spaceIndentNewlines(n.Body.String(), len(bodyStart))

	return fmt.Sprintf("[WHILE\n%s%s\n%s%s\n]", condStart, condStr, bodyStart, bodyStr)
}

// Does not consider Source.
func (n WhileNode) Equal(o any) bool {
	other, ok := o.(WhileNode)
	if !ok {
		otherPtr, ok := o.(*WhileNode)
		if !ok {
			return false
		} else if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if !n.Condition.Equal(other.Condition) {
		return false
	}
	return n.Body.Equal(other.Body)
}

// ForNode is reserved for a counted loop. The parser does not currently
// produce it; the variant exists so the node model covers the reserved
// syntax. Any of Init, Condition, and Increment may be nil.
type ForNode struct {
	Init      Node
	Condition Node
	Increment Node
	Body      Node

	src Position
}

func (n ForNode) Type() NodeType   { return ASTFor }
func (n ForNode) Source() Position { return n.src }

func (n ForNode) String() string {
	return "[FOR]"
}

// Does not consider Source.
func (n ForNode) Equal(o any) bool {
	other, ok := o.(ForNode)
	if !ok {
		otherPtr, ok := o.(*ForNode)
		if !ok {
			return false
		} else if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if !equalOptional(n.Init, other.Init) {
		return false
	}
	if !equalOptional(n.Condition, other.Condition) {
		return false
	}
	if !equalOptional(n.Increment, other.Increment) {
		return false
	}
	return equalOptional(n.Body, other.Body)
}

// CallNode invokes the function bound to Func with the given arguments.
// Functions are looked up by name; there is no function-valued expression
// syntax.
type CallNode struct {
	Func string
	Args []Node

	src Position
}

func (n CallNode) Type() NodeType   { return ASTCall }
func (n CallNode) Source() Position { return n.src }

func (n CallNode) String() string {
	const argStart = " A: "

	if len(n.Args) == 0 {
		return fmt.Sprintf("[CALL %s]", n.Func)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[CALL %s", n.Func))
	for i := range n.Args {
		sb.WriteRune('\n')
		sb.WriteString(argStart)
		sb.WriteString(spaceIndentNewlines(n.Args[i].String(), len(argStart)))
	}
	sb.WriteString("\n]")
	return sb.String()
}

// Does not consider Source.
func (n CallNode) Equal(o any) bool {
	other, ok := o.(CallNode)
	if !ok {
		otherPtr, ok := o.(*CallNode)
		if !ok {
			return false
		} else if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if n.Func != other.Func {
		return false
	}
	return equalStatements(n.Args, other.Args)
}

// FuncDeclNode declares a function. The body is a single statement, usually
// a block.
type FuncDeclNode struct {
	Name   string
	Params []string
	Body   Node

	src Position
}

func (n FuncDeclNode) Type() NodeType   { return ASTFuncDecl }
func (n FuncDeclNode) Source() Position { return n.src }

func (n FuncDeclNode) String() string {
	const bodyStart = " B: "

	bodyStr := spaceIndentNewlines(n.Body.String(), len(bodyStart))
	return fmt.Sprintf("[FUNC_DECL %s(%s)\n%s%s\n]", n.Name, strings.Join(n.Params, ", "), bodyStart, bodyStr)
}

// Does not consider Source.
func (n FuncDeclNode) Equal(o any) bool {
	other, ok := o.(FuncDeclNode)
	if !ok {
		otherPtr, ok := o.(*FuncDeclNode)
		if !ok {
			return false
		} else if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if n.Name != other.Name {
		return false
	}
	if len(n.Params) != len(other.Params) {
		return false
	}
	for i := range n.Params {
		if n.Params[i] != other.Params[i] {
			return false
		}
	}
	return n.Body.Equal(other.Body)
}

// ReturnNode unwinds evaluation out of the current function activation,
// carrying the result of evaluating Value, or null when Value is nil.
type ReturnNode struct {
	Value Node

	src Position
}

func (n ReturnNode) Type() NodeType   { return ASTReturn }
func (n ReturnNode) Source() Position { return n.src }

func (n ReturnNode) String() string {
	const valStart = " V: "

	if n.Value == nil {
		return "[RETURN]"
	}

	valStr := spaceIndentNewlines(n.Value.String(), len(valStart))
	return fmt.Sprintf("[RETURN\n%s%s\n]", valStart, valStr)
}

// Does not consider Source.
func (n ReturnNode) Equal(o any) bool {
	other, ok := o.(ReturnNode)
	if !ok {
		otherPtr, ok := o.(*ReturnNode)
		if !ok {
			return false
		} else if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	return equalOptional(n.Value, other.Value)
}

// ImportNode is reserved for a module import. The parser does not currently
// produce it.
type ImportNode struct {
	Module string

	src Position
}

func (n ImportNode) Type() NodeType   { return ASTImport }
func (n ImportNode) Source() Position { return n.src }

func (n ImportNode) String() string {
	return fmt.Sprintf("[IMPORT %s]", n.Module)
}

// Does not consider Source.
func (n ImportNode) Equal(o any) bool {
	other, ok := o.(ImportNode)
	if !ok {
		otherPtr, ok := o.(*ImportNode)
		if !ok {
			return false
		} else if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	return n.Module == other.Module
}
