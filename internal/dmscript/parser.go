package dmscript

import (
	"fmt"
	"strconv"
)

// file parser.go builds an abstract syntax tree from a token stream.
// Statements are parsed by recursive descent; expressions are parsed by
// precedence climbing driven by the binding powers in the token class table,
// so adding an operator level is a table edit rather than a new grammar
// function.

// tokenStream pulls tokens from the lexer one at a time and keeps a small
// lookahead buffer. The lexer emits end-of-input tokens forever once the
// source is exhausted, so the stream never runs dry.
type tokenStream struct {
	lx  *lexer
	buf []token
}

func newTokenStream(lx *lexer) *tokenStream {
	return &tokenStream{lx: lx}
}

func (ts *tokenStream) fill(n int) error {
	for len(ts.buf) < n {
		tok, err := ts.lx.nextToken()
		if err != nil {
			return err
		}
		ts.buf = append(ts.buf, tok)
	}
	return nil
}

func (ts *tokenStream) Next() (token, error) {
	if err := ts.fill(1); err != nil {
		return token{}, err
	}
	tok := ts.buf[0]
	ts.buf = ts.buf[1:]
	return tok, nil
}

func (ts *tokenStream) Peek() (token, error) {
	if err := ts.fill(1); err != nil {
		return token{}, err
	}
	return ts.buf[0], nil
}

// PeekAt looks offset tokens past the next one; PeekAt(0) is Peek.
func (ts *tokenStream) PeekAt(offset int) (token, error) {
	if err := ts.fill(offset + 1); err != nil {
		return token{}, err
	}
	return ts.buf[offset], nil
}

type parser struct {
	ts *tokenStream
}

// Parse builds an abstract syntax tree from the given source text. If any
// issue is encountered, the returned error is a *SyntaxError carrying the
// position of the offending token.
func Parse(source string) (ProgramNode, error) {
	return parseSource(source, false)
}

func parseSource(source string, strictComments bool) (ProgramNode, error) {
	lx := newLexer(source)
	lx.strictComments = strictComments

	p := &parser{ts: newTokenStream(lx)}
	return p.parseProgram()
}

func (p *parser) parseProgram() (ProgramNode, error) {
	prog := ProgramNode{src: Position{Line: 1, Column: 1}}

	for {
		t, err := p.ts.Peek()
		if err != nil {
			return ProgramNode{}, err
		}
		if t.class.Equal(dsEndOfText) {
			return prog, nil
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return ProgramNode{}, err
		}
		prog.Statements = append(prog.Statements, stmt)
	}
}

func (p *parser) parseStatement() (Node, error) {
	t, err := p.ts.Peek()
	if err != nil {
		return nil, err
	}

	switch {
	case t.class.Equal(dsKeyword):
		switch t.lexeme {
		case "let", "var", "const":
			return p.parseDeclaration()
		case "function":
			return p.parseFuncDecl()
		case "return":
			return p.parseReturn()
		case "if":
			return p.parseIf()
		case "while":
			return p.parseWhile()
		case "for", "break", "continue", "import":
			return nil, syntaxErrorFromToken(fmt.Sprintf("%q is reserved but not supported", t.lexeme), t)
		default:
			// true, false, and null start expressions; any other keyword is
			// caught by the expression parser
			return p.parseExpressionStatement()
		}
	case t.class.Equal(dsBraceOpen):
		return p.parseBlock()
	case t.class.Equal(dsIdentifier):
		t2, err := p.ts.PeekAt(1)
		if err != nil {
			return nil, err
		}
		if t2.class.Equal(dsOpAssign) {
			return p.parseAssignment()
		}
		return p.parseExpressionStatement()
	default:
		return p.parseExpressionStatement()
	}
}

// expect consumes the next token and checks it against the wanted class,
// returning a syntax error naming what was expected if it does not match.
func (p *parser) expect(class tokenClass, context string) (token, error) {
	t, err := p.ts.Next()
	if err != nil {
		return token{}, err
	}
	if !t.class.Equal(class) {
		got := t.class.Human()
		if t.class.Equal(dsEndOfText) {
			got = "end of input"
		}
		return token{}, syntaxErrorFromToken(fmt.Sprintf("expected %s %s; got %s", class.Human(), context, got), t)
	}
	return t, nil
}

func (p *parser) expectSemicolon() error {
	t, err := p.ts.Peek()
	if err != nil {
		return err
	}
	if !t.class.Equal(dsSemicolon) {
		return syntaxErrorFromToken("expected ';' at end of statement", t)
	}
	_, err = p.ts.Next()
	return err
}

func (p *parser) parseDeclaration() (Node, error) {
	kw, err := p.ts.Next()
	if err != nil {
		return nil, err
	}

	nameTok, err := p.expect(dsIdentifier, fmt.Sprintf("after %q", kw.lexeme))
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(dsOpAssign, fmt.Sprintf("after name in %q declaration", kw.lexeme)); err != nil {
		return nil, err
	}

	value, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if err := p.expectSemicolon(); err != nil {
		return nil, err
	}

	return AssignmentNode{
		Name:        nameTok.lexeme,
		Value:       value,
		Declaration: true,
		src:         Position{Line: kw.line, Column: kw.col},
	}, nil
}

func (p *parser) parseAssignment() (Node, error) {
	nameTok, err := p.ts.Next()
	if err != nil {
		return nil, err
	}
	if _, err := p.ts.Next(); err != nil { // the '=', already peeked
		return nil, err
	}

	value, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if err := p.expectSemicolon(); err != nil {
		return nil, err
	}

	return AssignmentNode{
		Name:  nameTok.lexeme,
		Value: value,
		src:   Position{Line: nameTok.line, Column: nameTok.col},
	}, nil
}

func (p *parser) parseFuncDecl() (Node, error) {
	kw, err := p.ts.Next()
	if err != nil {
		return nil, err
	}

	nameTok, err := p.expect(dsIdentifier, "after \"function\"")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(dsParenOpen, "after function name"); err != nil {
		return nil, err
	}

	var params []string
	t, err := p.ts.Peek()
	if err != nil {
		return nil, err
	}
	if !t.class.Equal(dsParenClose) {
		for {
			paramTok, err := p.expect(dsIdentifier, "in parameter list")
			if err != nil {
				return nil, err
			}
			params = append(params, paramTok.lexeme)

			t, err = p.ts.Peek()
			if err != nil {
				return nil, err
			}
			if !t.class.Equal(dsComma) {
				break
			}
			if _, err := p.ts.Next(); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.expect(dsParenClose, "after parameter list"); err != nil {
		return nil, err
	}

	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	return FuncDeclNode{
		Name:   nameTok.lexeme,
		Params: params,
		Body:   body,
		src:    Position{Line: kw.line, Column: kw.col},
	}, nil
}

func (p *parser) parseReturn() (Node, error) {
	kw, err := p.ts.Next()
	if err != nil {
		return nil, err
	}

	ret := ReturnNode{src: Position{Line: kw.line, Column: kw.col}}

	t, err := p.ts.Peek()
	if err != nil {
		return nil, err
	}
	if !t.class.Equal(dsSemicolon) {
		value, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		ret.Value = value
	}

	if err := p.expectSemicolon(); err != nil {
		return nil, err
	}
	return ret, nil
}

func (p *parser) parseIf() (Node, error) {
	kw, err := p.ts.Next()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(dsParenOpen, "after \"if\""); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(dsParenClose, "after if condition"); err != nil {
		return nil, err
	}

	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	ifNode := IfNode{
		Condition: cond,
		Then:      then,
		src:       Position{Line: kw.line, Column: kw.col},
	}

	// a dangling else binds to the nearest if, which this parser gets for
	// free by consuming it here
	t, err := p.ts.Peek()
	if err != nil {
		return nil, err
	}
	if t.class.Equal(dsKeyword) && t.lexeme == "else" {
		if _, err := p.ts.Next(); err != nil {
			return nil, err
		}
		els, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		ifNode.Else = els
	}

	return ifNode, nil
}

func (p *parser) parseWhile() (Node, error) {
	kw, err := p.ts.Next()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(dsParenOpen, "after \"while\""); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(dsParenClose, "after while condition"); err != nil {
		return nil, err
	}

	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	return WhileNode{
		Condition: cond,
		Body:      body,
		src:       Position{Line: kw.line, Column: kw.col},
	}, nil
}

func (p *parser) parseBlock() (Node, error) {
	open, err := p.ts.Next()
	if err != nil {
		return nil, err
	}

	block := BlockNode{src: Position{Line: open.line, Column: open.col}}

	for {
		t, err := p.ts.Peek()
		if err != nil {
			return nil, err
		}
		if t.class.Equal(dsBraceClose) {
			_, err = p.ts.Next()
			return block, err
		}
		if t.class.Equal(dsEndOfText) {
			return nil, syntaxErrorFromToken("unexpected end of input inside block; expected '}'", t)
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
	}
}

func (p *parser) parseExpressionStatement() (Node, error) {
	expr, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if err := p.expectSemicolon(); err != nil {
		return nil, err
	}
	return expr, nil
}

// parseExpression is the precedence-climbing core. It parses an expression
// whose operators all bind tighter than rbp; a left-associative operator at
// binding power n passes n back in so equal-power operators group leftward.
func (p *parser) parseExpression(rbp int) (Node, error) {
	t, err := p.ts.Next()
	if err != nil {
		return nil, err
	}

	left, err := p.nud(t)
	if err != nil {
		return nil, err
	}

	for {
		next, err := p.ts.Peek()
		if err != nil {
			return nil, err
		}
		if rbp >= next.class.lbp {
			return left, nil
		}

		t, err = p.ts.Next()
		if err != nil {
			return nil, err
		}
		left, err = p.led(t, left)
		if err != nil {
			return nil, err
		}
	}
}

// nud gives the parse of a token appearing at the start of an expression
// (null denotation in Pratt terms).
func (p *parser) nud(t token) (Node, error) {
	pos := Position{Line: t.line, Column: t.col}

	switch {
	case t.class.Equal(dsNumber):
		f, err := strconv.ParseFloat(t.lexeme, 64)
		if err != nil {
			return nil, syntaxErrorFromToken(fmt.Sprintf("invalid number literal %q", t.lexeme), t)
		}
		return LiteralNode{Value: NewFloat(f), src: pos}, nil

	case t.class.Equal(dsString):
		return LiteralNode{Value: NewString(t.lexeme), src: pos}, nil

	case t.class.Equal(dsKeyword):
		switch t.lexeme {
		case "true":
			return LiteralNode{Value: NewBool(true), src: pos}, nil
		case "false":
			return LiteralNode{Value: NewBool(false), src: pos}, nil
		case "null":
			return LiteralNode{Value: NewNull(), src: pos}, nil
		default:
			return nil, syntaxErrorFromToken(fmt.Sprintf("unexpected keyword %q in expression", t.lexeme), t)
		}

	case t.class.Equal(dsIdentifier):
		next, err := p.ts.Peek()
		if err != nil {
			return nil, err
		}
		if next.class.Equal(dsParenOpen) {
			return p.parseCallArgs(t)
		}
		return VariableNode{Name: t.lexeme, src: pos}, nil

	case t.class.Equal(dsOpMinus):
		operand, err := p.parseExpression(bpUnary)
		if err != nil {
			return nil, err
		}
		return UnaryOpNode{Op: OpNegate, Operand: operand, src: pos}, nil

	case t.class.Equal(dsOpNot):
		operand, err := p.parseExpression(bpUnary)
		if err != nil {
			return nil, err
		}
		return UnaryOpNode{Op: OpNot, Operand: operand, src: pos}, nil

	case t.class.Equal(dsParenOpen):
		expr, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		next, err := p.ts.Next()
		if err != nil {
			return nil, err
		}
		if !next.class.Equal(dsParenClose) {
			return nil, syntaxErrorFromToken("unmatched '('; expected a ')' here", next)
		}
		return expr, nil

	case t.class.Equal(dsEndOfText):
		return nil, syntaxErrorFromToken("unexpected end of input; expected an expression", t)

	default:
		return nil, syntaxErrorFromToken(fmt.Sprintf("unexpected %s at the start of an expression", t.class.Human()), t)
	}
}

// led gives the parse of a token appearing after a complete left operand
// (left denotation in Pratt terms).
func (p *parser) led(t token, left Node) (Node, error) {
	var op BinaryOperation

	switch {
	case t.class.Equal(dsOpPlus):
		op = OpAdd
	case t.class.Equal(dsOpMinus):
		op = OpSubtract
	case t.class.Equal(dsOpMultiply):
		op = OpMultiply
	case t.class.Equal(dsOpDivide):
		op = OpDivide
	case t.class.Equal(dsOpModulo):
		op = OpModulo
	case t.class.Equal(dsOpEqual):
		op = OpEqual
	case t.class.Equal(dsOpNotEqual):
		op = OpNotEqual
	case t.class.Equal(dsOpLess):
		op = OpLess
	case t.class.Equal(dsOpGreater):
		op = OpGreater
	case t.class.Equal(dsOpLessEqual):
		op = OpLessEqual
	case t.class.Equal(dsOpGreaterEqual):
		op = OpGreaterEqual
	case t.class.Equal(dsOpAnd):
		op = OpAnd
	case t.class.Equal(dsOpOr):
		op = OpOr
	default:
		return nil, syntaxErrorFromToken(fmt.Sprintf("unexpected %s in expression", t.class.Human()), t)
	}

	right, err := p.parseExpression(t.class.lbp)
	if err != nil {
		return nil, err
	}

	return BinaryOpNode{
		Left:  left,
		Right: right,
		Op:    op,
		src:   Position{Line: t.line, Column: t.col},
	}, nil
}

// parseCallArgs parses the parenthesized argument list of a call whose name
// token has already been consumed.
func (p *parser) parseCallArgs(nameTok token) (Node, error) {
	if _, err := p.ts.Next(); err != nil { // the '(', already peeked
		return nil, err
	}

	call := CallNode{
		Func: nameTok.lexeme,
		src:  Position{Line: nameTok.line, Column: nameTok.col},
	}

	t, err := p.ts.Peek()
	if err != nil {
		return nil, err
	}
	if !t.class.Equal(dsParenClose) {
		for {
			arg, err := p.parseExpression(0)
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)

			t, err = p.ts.Peek()
			if err != nil {
				return nil, err
			}
			if !t.class.Equal(dsComma) {
				break
			}
			if _, err := p.ts.Next(); err != nil {
				return nil, err
			}
		}
	}

	if _, err := p.expect(dsParenClose, "after call arguments"); err != nil {
		return nil, err
	}
	return call, nil
}
