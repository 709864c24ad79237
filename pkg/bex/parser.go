package bex

import (
	"fmt"
	"strings"
)

// Parser consumes the flat token slice produced by Scan and builds an AST.
//
// Grammar (every statement and every compound form is parenthesised):
//
//	program    = statement* EOF
//	statement  = "(" ( bitDef | vectorDef | circuitDef | printStmt | returnStmt ) | expression
//	bitDef     = "bit" IDENTIFIER expression ")"
//	vectorDef  = "bit_vector" ( IDENTIFIER expression+ | expression ) ")"
//	circuitDef = "circuit" IDENTIFIER "(" IDENTIFIER* ")" bodyItem* ")"
//	bodyItem   = expression | "(" "return" expression ")"
//	printStmt  = "print" expression ")"
//	returnStmt = "return" expression ")"
//	expression = literal | IDENTIFIER call? | "(" form ")"
//	form       = "not" expression
//	           | ("xor" | "xnor" | "nand" | "nor") expression expression
//	           | ("and" | "or") expression+
//	           | IDENTIFIER expression*
//	           | expression
//	call       = "(" expression* ")"   // only when "(" touches the identifier: inc(a)
//
// Errors never escape Parse. Each one is recorded as a Diagnostic and the
// parser resynchronises at the next statement boundary.
type Parser struct {
	tokens []Token
	pos    int
	diags  Diagnostics
}

func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// parseError unwinds the recursive descent after its Diagnostic was recorded.
type parseError struct {
	diag Diagnostic
}

func (e *parseError) Error() string { return e.diag.String() }

// errorAt records a diagnostic pointing at tok and returns the error to propagate.
func (p *Parser) errorAt(tok Token, format string, args ...any) error {
	d := Diagnostic{
		Kind:    ParseError,
		Line:    tok.Line,
		Lexeme:  tok.Lexeme,
		AtEnd:   tok.Type == EOF,
		Message: fmt.Sprintf(format, args...),
	}
	p.diags = append(p.diags, d)
	return &parseError{diag: d}
}

func (p *Parser) warnAt(tok Token, format string, args ...any) {
	p.diags = append(p.diags, Diagnostic{
		Kind:    Warning,
		Line:    tok.Line,
		Lexeme:  tok.Lexeme,
		AtEnd:   tok.Type == EOF,
		Message: fmt.Sprintf(format, args...),
	})
}

// peek returns the current token without consuming it.
func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return p.eof()
	}
	return p.tokens[p.pos]
}

func (p *Parser) eof() Token {
	if n := len(p.tokens); n > 0 && p.tokens[n-1].Type == EOF {
		return p.tokens[n-1]
	}
	line := 1
	if n := len(p.tokens); n > 0 {
		line = p.tokens[n-1].Line
	}
	return Token{Type: EOF, Line: line}
}

// previous returns the most recently consumed token.
func (p *Parser) previous() Token {
	if p.pos == 0 {
		return Token{}
	}
	return p.tokens[p.pos-1]
}

func (p *Parser) atEnd() bool { return p.peek().Type == EOF }

// advance consumes and returns the current token. EOF is never consumed.
func (p *Parser) advance() Token {
	tok := p.peek()
	if !p.atEnd() {
		p.pos++
	}
	return tok
}

func (p *Parser) check(tt TokenType) bool {
	return !p.atEnd() && p.peek().Type == tt
}

func (p *Parser) match(tt TokenType) bool {
	if p.check(tt) {
		p.advance()
		return true
	}
	return false
}

// expect consumes the current token if it matches tt, otherwise reports msg at it.
func (p *Parser) expect(tt TokenType, msg string) (Token, error) {
	if p.check(tt) {
		return p.advance(), nil
	}
	return p.peek(), p.errorAt(p.peek(), "%s", msg)
}

// synchronize skips the rest of a broken statement. It always makes progress
// and stops after a ")" or in front of a "(" or statement keyword.
func (p *Parser) synchronize(start int) {
	// The broken statement already consumed its own "(", so a "(" here opens
	// the next form and must not be skipped.
	if p.pos > start && p.check(LPAREN) {
		return
	}
	// An unclosed and/or form or call read the next statement's "(" as an
	// operand. Give that "(" back so the statement still parses.
	switch p.peek().Type {
	case BIT, BIT_VECTOR, PRINT, RETURN, CIRCUIT:
		if p.pos-1 > start && p.previous().Type == LPAREN {
			p.pos--
			return
		}
	}
	p.advance()
	for !p.atEnd() {
		if p.previous().Type == RPAREN {
			return
		}
		switch p.peek().Type {
		case CIRCUIT, BIT, BIT_VECTOR, PRINT, RETURN, LPAREN:
			return
		}
		p.advance()
	}
}

// skipForm rewinds to start and skips one whole item: a single token, or a
// balanced parenthesised form (up to EOF when it is never closed).
func (p *Parser) skipForm(start int) {
	p.pos = start
	if !p.check(LPAREN) {
		p.advance()
		return
	}
	depth := 0
	for !p.atEnd() {
		switch p.advance().Type {
		case LPAREN:
			depth++
		case RPAREN:
			depth--
			if depth == 0 {
				return
			}
		}
	}
}

// literalValue returns the value a literal token denotes.
func literalValue(tok Token) Value {
	if tok.Literal != nil {
		return *tok.Literal
	}
	switch tok.Type {
	case TRUE:
		return Bit(true)
	case FALSE:
		return Bit(false)
	}
	if v, err := ParseBits(strings.TrimPrefix(tok.Lexeme, "0b")); err == nil {
		return v
	}
	return Bit(false)
}

// parseExpression is the entry point for expression parsing.
func (p *Parser) parseExpression() (Expr, error) {
	tok := p.peek()
	switch {
	case tok.Type.IsLiteral():
		p.advance()
		return &Literal{Token: tok, Value: literalValue(tok)}, nil
	case tok.Type == IDENTIFIER:
		p.advance()
		if p.check(LPAREN) && p.peek().Pos == tok.End() {
			p.advance()
			return p.finishCall(tok)
		}
		return &Variable{Name: tok}, nil
	case tok.Type == LPAREN:
		p.advance()
		return p.parseForm()
	}
	return nil, p.errorAt(tok, "Expected expression.")
}

// parseForm parses what follows an opening "(" in expression position.
func (p *Parser) parseForm() (Expr, error) {
	op := p.peek()
	switch op.Type {
	case NOT:
		p.advance()
		operand, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN, "Expected ')' after 'not' expression."); err != nil {
			return nil, err
		}
		return &Unary{Op: op, Operand: operand}, nil

	case XOR, XNOR, NAND, NOR:
		p.advance()
		left, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		right, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN, "Expected ')' after binary expression."); err != nil {
			return nil, err
		}
		return &Binary{Op: op, Left: left, Right: right}, nil

	case AND, OR:
		p.advance()
		var operands []Expr
		for {
			operand, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			operands = append(operands, operand)
			if p.check(RPAREN) || p.atEnd() {
				break
			}
		}
		if _, err := p.expect(RPAREN, "Expected ')' after multi-operand expression."); err != nil {
			return nil, err
		}
		return &Multi{Op: op, Operands: operands}, nil

	case IDENTIFIER:
		// (half_adder a b)
		p.advance()
		return p.finishCall(op)
	}

	inner, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN, "Expected ')' after expression."); err != nil {
		return nil, err
	}
	return &Grouping{Inner: inner}, nil
}

// finishCall collects arguments up to the closing ")" of a call.
func (p *Parser) finishCall(callee Token) (Expr, error) {
	var args []Expr
	for !p.check(RPAREN) && !p.atEnd() {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	if _, err := p.expect(RPAREN, "Expected ')' after circuit arguments."); err != nil {
		return nil, err
	}
	return &Call{Callee: callee, Args: args}, nil
}

// parseStatement parses one parenthesised top-level form.
func (p *Parser) parseStatement() (Stmt, error) {
	open := p.pos
	if _, err := p.expect(LPAREN, "Expected '(' at the start of a statement."); err != nil {
		return nil, err
	}

	switch {
	case p.match(BIT):
		return p.parseBitDef()
	case p.match(BIT_VECTOR):
		return p.parseBitVectorDef(p.previous())
	case p.match(CIRCUIT):
		return p.parseCircuitDef()
	case p.match(PRINT):
		return p.parsePrint(p.previous())
	case p.match(RETURN):
		return p.parseReturn(p.previous())
	}

	// Expression statement: the expression parser owns the "(" again.
	p.pos = open
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ExprStmt{Expr: expr}, nil
}

func (p *Parser) parseBitDef() (Stmt, error) {
	name, err := p.expect(IDENTIFIER, "Expected bit name.")
	if err != nil {
		return nil, err
	}
	init, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN, "Expected ')' after bit definition."); err != nil {
		return nil, err
	}
	return &BitDef{Name: name, Init: init}, nil
}

func (p *Parser) parseBitVectorDef(kw Token) (Stmt, error) {
	def := &BitVectorDef{Keyword: kw}

	if p.check(IDENTIFIER) {
		name := p.advance()
		def.Name = &name
		for {
			v, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			def.Values = append(def.Values, v)
			if p.check(RPAREN) || p.atEnd() {
				break
			}
		}
	} else {
		if !p.peek().Type.IsLiteral() && !p.check(LPAREN) {
			return nil, p.errorAt(p.peek(), "Expected identifier or bit vector literal after 'bit_vector'.")
		}
		v, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		def.Values = []Expr{v}
	}

	if _, err := p.expect(RPAREN, "Expected ')' after bit_vector definition."); err != nil {
		return nil, err
	}
	return def, nil
}

func (p *Parser) parseCircuitDef() (Stmt, error) {
	name, err := p.expect(IDENTIFIER, "Expected circuit name.")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(LPAREN, "Expected '(' after circuit name."); err != nil {
		return nil, err
	}

	def := &CircuitDef{Name: name}
	seen := make(map[string]bool)
	for !p.check(RPAREN) && !p.atEnd() {
		param, err := p.expect(IDENTIFIER, "Expected parameter name.")
		if err != nil {
			return nil, err
		}
		if seen[param.Lexeme] {
			return nil, p.errorAt(param, "Duplicate parameter '%s'.", param.Lexeme)
		}
		seen[param.Lexeme] = true
		def.Params = append(def.Params, param)
	}
	if _, err := p.expect(RPAREN, "Expected ')' after parameters."); err != nil {
		return nil, err
	}

	// A broken body item is skipped on its own; the rest of the circuit survives.
	for !p.check(RPAREN) && !p.atEnd() {
		start := p.pos
		expr, err := p.parseBodyItem()
		if err != nil {
			p.skipForm(start)
			continue
		}
		def.Body = append(def.Body, expr)
	}

	if p.atEnd() {
		p.warnAt(p.peek(), "Missing closing parenthesis for circuit '%s'.", name.Lexeme)
		return def, nil
	}
	p.advance()
	return def, nil
}

// parseBodyItem parses one element of a circuit body.
func (p *Parser) parseBodyItem() (Expr, error) {
	if !p.check(LPAREN) {
		return p.parseExpression()
	}
	open := p.pos
	p.advance()

	switch kw := p.peek(); kw.Type {
	case RETURN:
		p.advance()
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN, "Expected ')' after return statement."); err != nil {
			return nil, err
		}
		return value, nil
	case BIT, BIT_VECTOR, PRINT, CIRCUIT:
		return nil, p.errorAt(kw, "'%s' is not allowed in a circuit body.", kw.Lexeme)
	}

	p.pos = open
	return p.parseExpression()
}

func (p *Parser) parsePrint(kw Token) (Stmt, error) {
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN, "Expected ')' after print statement."); err != nil {
		return nil, err
	}
	return &PrintStmt{Keyword: kw, Expr: value}, nil
}

func (p *Parser) parseReturn(kw Token) (Stmt, error) {
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN, "Expected ')' after return statement."); err != nil {
		return nil, err
	}
	return &ReturnStmt{Keyword: kw, Value: value}, nil
}

// Parse builds the statement list for a whole program. It always returns:
// statements that failed to parse are reported in the Diagnostics and left out.
func Parse(tokens []Token) ([]Stmt, Diagnostics) {
	p := NewParser(tokens)
	var stmts []Stmt
	for !p.atEnd() {
		// Anything before the next "(" cannot start a statement.
		for !p.atEnd() && !p.check(LPAREN) {
			p.advance()
		}
		if p.atEnd() {
			break
		}

		start := p.pos
		stmt, err := p.parseStatement()
		if err != nil {
			p.synchronize(start)
			continue
		}
		stmts = append(stmts, stmt)
	}
	return stmts, p.diags
}
