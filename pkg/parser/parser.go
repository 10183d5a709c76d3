// Package parser builds the ROLEX AST from a token stream. It is an external
// collaborator of the core: it guarantees syntactic well-formedness only, all
// semantic rules live in the typechecker.
package parser

import (
	"strconv"

	"rolex/interpreter-go/pkg/ast"
	"rolex/interpreter-go/pkg/dialect"
	"rolex/interpreter-go/pkg/lexer"
)

// Parse parses a full source body (everything after the header) into a
// Program. startLine is the 1-based line the body begins on.
func Parse(src string, d dialect.Dialect, startLine int) (*ast.Program, error) {
	p := newParser(src, d, startLine)
	program := &ast.Program{
		Header: &ast.Header{Position: ast.Position{Line: 1, Column: 1}, Dialect: d},
	}
	p.skipNewlines()
	for p.cur().Type != lexer.EOF {
		fn, err := p.parseFunctionDefinition()
		if err != nil {
			return nil, err
		}
		program.Functions = append(program.Functions, fn)
		p.skipNewlines()
	}
	return program, nil
}

// ParseStatement parses a single statement, the unit the REPL feeds through
// the pipeline.
func ParseStatement(src string, d dialect.Dialect) (ast.Statement, error) {
	p := newParser(src, d, 1)
	p.skipNewlines()
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	p.skipNewlines()
	if p.cur().Type != lexer.EOF {
		return nil, p.errorAt(p.cur(), "unexpected %s after statement", p.cur().Type)
	}
	return stmt, nil
}

type parser struct {
	tokens []lexer.Token
	pos    int
}

func newParser(src string, d dialect.Dialect, startLine int) *parser {
	lx := lexer.New(src, dialect.For(d.Language), startLine)
	return &parser{tokens: lx.Tokens()}
}

func (p *parser) cur() lexer.Token { return p.tokens[p.pos] }

func (p *parser) peek() lexer.Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *parser) advance() lexer.Token {
	tok := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *parser) expect(t lexer.TokenType) (lexer.Token, error) {
	if p.cur().Type != t {
		return lexer.Token{}, p.errorAt(p.cur(), "expected %s, found %s", t, p.cur().Type)
	}
	return p.advance(), nil
}

func (p *parser) skipNewlines() {
	for p.cur().Type == lexer.NEWLINE {
		p.advance()
	}
}

func pos(tok lexer.Token) ast.Position {
	return ast.Position{Line: tok.Line, Column: tok.Column}
}

//-----------------------------------------------------------------------------
// Declarations and statements
//-----------------------------------------------------------------------------

func (p *parser) parseFunctionDefinition() (*ast.FunctionDefinition, error) {
	start, err := p.expect(lexer.FUNCTION)
	if err != nil {
		return nil, err
	}
	ret, err := p.parseTypeSpec()
	if err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	var params []*ast.Parameter
	p.skipNewlines()
	for p.cur().Type != lexer.RPAREN {
		typ, err := p.parseTypeSpec()
		if err != nil {
			return nil, err
		}
		pname, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		params = append(params, &ast.Parameter{Position: pos(pname), Type: typ, Name: pname.Lexeme})
		if p.cur().Type != lexer.COMMA {
			break
		}
		p.advance()
		p.skipNewlines()
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionDefinition{
		Position:   pos(start),
		Return:     ret,
		Name:       name.Lexeme,
		Parameters: params,
		Body:       body,
	}, nil
}

// parseTypeSpec reads a canonical type name plus its array suffixes, each
// either `[]` or `[N]` with a constant length.
func (p *parser) parseTypeSpec() (ast.TypeSpec, error) {
	base, err := p.expect(lexer.TYPE)
	if err != nil {
		return ast.TypeSpec{}, err
	}
	spec := ast.TypeSpec{Base: base.Lexeme}
	for p.cur().Type == lexer.LBRACKET {
		p.advance()
		dim := ast.Dimension{}
		if p.cur().Type == lexer.INT {
			length, convErr := strconv.Atoi(p.cur().Lexeme)
			if convErr != nil {
				return ast.TypeSpec{}, p.errorAt(p.cur(), "invalid array length %q", p.cur().Lexeme)
			}
			dim = ast.Dimension{Length: length, HasLength: true}
			p.advance()
		}
		if _, err := p.expect(lexer.RBRACKET); err != nil {
			return ast.TypeSpec{}, err
		}
		spec.Dimensions = append(spec.Dimensions, dim)
	}
	return spec, nil
}

func (p *parser) parseBlock() (*ast.Block, error) {
	open, err := p.expect(lexer.LBRACE)
	if err != nil {
		return nil, err
	}
	block := &ast.Block{Position: pos(open)}
	p.skipNewlines()
	for p.cur().Type != lexer.RBRACE {
		if p.cur().Type == lexer.EOF {
			return nil, p.errorAt(p.cur(), "unterminated block, expected '}'")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
		if p.cur().Type != lexer.NEWLINE && p.cur().Type != lexer.RBRACE {
			return nil, p.errorAt(p.cur(), "expected end of statement, found %s", p.cur().Type)
		}
		p.skipNewlines()
	}
	p.advance() // '}'
	return block, nil
}

func (p *parser) parseStatement() (ast.Statement, error) {
	switch p.cur().Type {
	case lexer.TYPE:
		return p.parseDeclaration()
	case lexer.IF:
		return p.parseIf()
	case lexer.WHILE:
		return p.parseWhile()
	case lexer.RETURN:
		return p.parseReturn()
	case lexer.OUTPUT:
		return p.parseOutput()
	case lexer.FUNCTION:
		// Parsed so the checker can reject nesting as a Structure error.
		return p.parseFunctionDefinition()
	case lexer.LBRACE:
		return p.parseBlock()
	default:
		return p.parseSimpleStatement()
	}
}

func (p *parser) parseDeclaration() (ast.Statement, error) {
	start := p.cur()
	typ, err := p.parseTypeSpec()
	if err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	decl := &ast.VariableDeclaration{Position: pos(start), Type: typ, Name: name.Lexeme}
	if p.cur().Type == lexer.ASSIGN {
		p.advance()
		init, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		decl.Initializer = init
	}
	return decl, nil
}

func (p *parser) parseIf() (ast.Statement, error) {
	start := p.advance()
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.THEN); err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStatement{Position: pos(start), Condition: cond, Then: then}
	if p.cur().Type == lexer.ELSE {
		p.advance()
		els, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmt.Else = els
	}
	return stmt, nil
}

func (p *parser) parseWhile() (ast.Statement, error) {
	start := p.advance()
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.DO); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStatement{Position: pos(start), Condition: cond, Body: body}, nil
}

func (p *parser) parseReturn() (ast.Statement, error) {
	start := p.advance()
	stmt := &ast.ReturnStatement{Position: pos(start)}
	if p.cur().Type != lexer.NEWLINE && p.cur().Type != lexer.RBRACE && p.cur().Type != lexer.EOF {
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Value = value
	}
	return stmt, nil
}

func (p *parser) parseOutput() (ast.Statement, error) {
	start := p.advance()
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.OutputStatement{Position: pos(start), Value: value}, nil
}

// parseSimpleStatement handles the statements that start with an expression:
// assignments (plain or indexed) and bare expression statements.
func (p *parser) parseSimpleStatement() (ast.Statement, error) {
	start := p.cur()
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.cur().Type != lexer.ASSIGN {
		return &ast.ExpressionStatement{Position: pos(start), Expression: expr}, nil
	}
	p.advance()
	target, indices, err := assignmentTarget(expr)
	if err != nil {
		return nil, p.errorAt(start, "%s", err.Error())
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.Assignment{Position: pos(start), Target: target, Indices: indices, Value: value}, nil
}

// assignmentTarget turns a parsed postfix chain back into an lvalue: a bare
// identifier plus zero or more index suffixes. Calls cannot be assigned to.
func assignmentTarget(expr ast.Expression) (*ast.Identifier, []ast.Expression, error) {
	switch e := expr.(type) {
	case *ast.Identifier:
		return e, nil, nil
	case *ast.PostfixExpression:
		id, ok := e.Primary.(*ast.Identifier)
		if !ok {
			return nil, nil, errInvalidTarget
		}
		var indices []ast.Expression
		for _, suffix := range e.Suffixes {
			idx, ok := suffix.(*ast.IndexSuffix)
			if !ok {
				return nil, nil, errInvalidTarget
			}
			indices = append(indices, idx.Index)
		}
		return id, indices, nil
	default:
		return nil, nil, errInvalidTarget
	}
}

//-----------------------------------------------------------------------------
// Expressions
//-----------------------------------------------------------------------------

func (p *parser) parseExpression() (ast.Expression, error) {
	return p.parseOr()
}

func (p *parser) parseOr() (ast.Expression, error) {
	return p.parseLogicalChain(lexer.OR, "or", p.parseAnd)
}

func (p *parser) parseAnd() (ast.Expression, error) {
	return p.parseLogicalChain(lexer.AND, "and", p.parseEquality)
}

// parseLogicalChain folds `a op b op c` into one n-ary node so the checker
// can state its rule over every operand of the chain.
func (p *parser) parseLogicalChain(tok lexer.TokenType, op string, next func() (ast.Expression, error)) (ast.Expression, error) {
	first, err := next()
	if err != nil {
		return nil, err
	}
	if p.cur().Type != tok {
		return first, nil
	}
	node := &ast.LogicalExpression{Position: first.Pos(), Operator: op, Operands: []ast.Expression{first}}
	for p.cur().Type == tok {
		p.advance()
		operand, err := next()
		if err != nil {
			return nil, err
		}
		node.Operands = append(node.Operands, operand)
	}
	return node, nil
}

func (p *parser) parseEquality() (ast.Expression, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == lexer.EQ || p.cur().Type == lexer.NEQ {
		op := p.advance()
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = &ast.ComparisonExpression{Position: left.Pos(), Operator: op.Lexeme, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseRelational() (ast.Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().Type {
		case lexer.LESS, lexer.LESSEQ, lexer.GREATER, lexer.GREATEREQ:
			op := p.advance()
			right, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			left = &ast.ComparisonExpression{Position: left.Pos(), Operator: op.Lexeme, Left: left, Right: right}
		default:
			return left, nil
		}
	}
}

func (p *parser) parseAdditive() (ast.Expression, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == lexer.PLUS || p.cur().Type == lexer.MINUS {
		op := p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.ArithmeticExpression{Position: left.Pos(), Operator: op.Lexeme, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseMultiplicative() (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == lexer.MULT || p.cur().Type == lexer.DIV || p.cur().Type == lexer.MOD {
		op := p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.ArithmeticExpression{Position: left.Pos(), Operator: op.Lexeme, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (ast.Expression, error) {
	switch p.cur().Type {
	case lexer.MINUS, lexer.BANG:
		op := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpression{Position: pos(op), Operator: op.Lexeme, Operand: operand}, nil
	default:
		return p.parsePostfix()
	}
}

func (p *parser) parsePostfix() (ast.Expression, error) {
	primary, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	var suffixes []ast.PostfixSuffix
	for {
		switch p.cur().Type {
		case lexer.LPAREN:
			open := p.advance()
			var args []ast.Expression
			p.skipNewlines()
			for p.cur().Type != lexer.RPAREN {
				arg, err := p.parseExpression()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if p.cur().Type != lexer.COMMA {
					break
				}
				p.advance()
				p.skipNewlines()
			}
			if _, err := p.expect(lexer.RPAREN); err != nil {
				return nil, err
			}
			suffixes = append(suffixes, &ast.CallSuffix{Position: pos(open), Arguments: args})
		case lexer.LBRACKET:
			open := p.advance()
			index, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.RBRACKET); err != nil {
				return nil, err
			}
			suffixes = append(suffixes, &ast.IndexSuffix{Position: pos(open), Index: index})
		default:
			if len(suffixes) == 0 {
				return primary, nil
			}
			return &ast.PostfixExpression{Position: primary.Pos(), Primary: primary, Suffixes: suffixes}, nil
		}
	}
}

func (p *parser) parsePrimary() (ast.Expression, error) {
	tok := p.cur()
	switch tok.Type {
	case lexer.INT:
		p.advance()
		value, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			return nil, p.errorAt(tok, "invalid integer literal %q", tok.Lexeme)
		}
		return &ast.IntegerLiteral{Position: pos(tok), Value: value}, nil
	case lexer.DECIMAL:
		p.advance()
		value, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return nil, p.errorAt(tok, "invalid decimal literal %q", tok.Lexeme)
		}
		return &ast.DecimalLiteral{Position: pos(tok), Value: value}, nil
	case lexer.STRING:
		p.advance()
		return &ast.StringLiteral{Position: pos(tok), Value: tok.Lexeme[1 : len(tok.Lexeme)-1]}, nil
	case lexer.BOOLEAN:
		p.advance()
		return &ast.BooleanLiteral{Position: pos(tok), Value: tok.Lexeme == "true"}, nil
	case lexer.INPUT:
		p.advance()
		return &ast.InputExpression{Position: pos(tok)}, nil
	case lexer.IDENT:
		p.advance()
		return &ast.Identifier{Position: pos(tok), Name: tok.Lexeme}, nil
	case lexer.LPAREN:
		p.advance()
		p.skipNewlines()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		p.skipNewlines()
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	case lexer.LBRACKET:
		return p.parseArrayLiteral()
	default:
		return nil, p.errorAt(tok, "expected expression, found %s", tok.Type)
	}
}

func (p *parser) parseArrayLiteral() (ast.Expression, error) {
	open := p.advance()
	lit := &ast.ArrayLiteral{Position: pos(open)}
	p.skipNewlines()
	for p.cur().Type != lexer.RBRACKET {
		elem, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		lit.Elements = append(lit.Elements, elem)
		p.skipNewlines()
		if p.cur().Type != lexer.COMMA {
			break
		}
		p.advance()
		p.skipNewlines()
	}
	if _, err := p.expect(lexer.RBRACKET); err != nil {
		return nil, err
	}
	return lit, nil
}
