package parser

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/btouchard/qlang/internal/qlang/ast"
	qerrors "github.com/btouchard/qlang/internal/qlang/errors"
	"github.com/btouchard/qlang/internal/qlang/lexer"
	"github.com/btouchard/qlang/internal/qlang/token"
)

// MaxArguments caps function parameter lists and call argument lists.
const MaxArguments = 48

// Precedence levels for binary operators
const (
	_ int = iota
	LOWEST
	LOGICAL     // et ou
	EQUALS      // == !=
	LESSGREATER // < > <= >=
	SUM         // + -
	PRODUCT     // * / %
)

var precedences = map[string]int{
	token.And: LOGICAL,
	token.Or:  LOGICAL,
	"==":      EQUALS,
	"!=":      EQUALS,
	"<":       LESSGREATER,
	">":       LESSGREATER,
	"<=":      LESSGREATER,
	">=":      LESSGREATER,
	"+":       SUM,
	"-":       SUM,
	"*":       PRODUCT,
	"/":       PRODUCT,
	"%":       PRODUCT,
}

// Parser builds a Program from a token buffer. It reads the buffer
// through an index cursor and remembers the last token consumed, both
// used to compute error spans.
type Parser struct {
	tokens []token.Token
	source string
	cursor int
	prev   token.Token
}

func New(tokens []token.Token, source string) *Parser {
	p := &Parser{}
	p.SetTokens(tokens, source)
	return p
}

// SetTokens resets the parser on a new token buffer. source is only used
// to render errors.
func (p *Parser) SetTokens(tokens []token.Token, source string) {
	p.tokens = tokens
	p.source = source
	p.cursor = 0
	p.prev = token.Token{}
}

// Parse tokenizes and parses source in one go.
func Parse(source string) (*ast.Program, error) {
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		return nil, err
	}
	return New(tokens, source).ParseProgram()
}

// ParseProgram parses every statement up to EOF. The first syntax error
// stops parsing and is returned as an *errors.Error.
func (p *Parser) ParseProgram() (program *ast.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			perr, ok := r.(*qerrors.Error)
			if !ok {
				panic(r)
			}
			program, err = nil, perr
		}
	}()

	program = &ast.Program{}
	for !p.isEOF() {
		program.Body = append(program.Body, p.parseStatement())
	}
	return program, nil
}

// ============ TOKEN CURSOR ============

func (p *Parser) at() token.Token {
	if p.cursor < len(p.tokens) {
		return p.tokens[p.cursor]
	}
	if n := len(p.tokens); n > 0 {
		last := p.tokens[n-1]
		return token.Token{Type: token.EOF, Pos: last.Pos.With("")}
	}
	return token.Token{Type: token.EOF, Pos: token.Position{Line: 1, Column: 1}}
}

// previous returns the last consumed token, or the current one when
// nothing has been consumed yet.
func (p *Parser) previous() token.Token {
	if p.cursor == 0 {
		return p.at()
	}
	return p.prev
}

func (p *Parser) eat() token.Token {
	tok := p.at()
	p.prev = tok
	if p.cursor < len(p.tokens) {
		p.cursor++
	}
	return tok
}

func (p *Parser) isEOF() bool {
	return p.at().Type == token.EOF
}

// eatExactly consumes the next token, failing unless it has type t. The
// error span starts at start when given, else at the offending token.
func (p *Parser) eatExactly(t token.TokenType, start *token.Position) token.Token {
	tok := p.eat()
	if tok.Type == t {
		return tok
	}

	begin := tok.Pos
	if start != nil {
		begin = *start
	}
	if tok.Type == token.EOF {
		p.fail(begin, tok.Pos, "Fin de fichier atteinte, '%s' attendu", token.Describe(t))
	}
	p.fail(begin, tok.Pos, "'%s' trouvé, '%s' attendu", tok.Literal, token.Describe(t))
	return tok
}

// attempt checks that the current token is one of types without consuming it.
func (p *Parser) attempt(types ...token.TokenType) token.Token {
	tok := p.at()
	for _, t := range types {
		if tok.Type == t {
			return tok
		}
	}

	names := make([]string, len(types))
	for i, t := range types {
		names[i] = token.Describe(t)
	}
	want := strings.Join(names, "' ou '")
	if tok.Type == token.EOF {
		p.fail(p.previous().Pos, tok.Pos, "Fin de fichier atteinte, '%s' attendu", want)
	}
	p.fail(tok.Pos, tok.Pos, "'%s' trouvé, '%s' attendu", tok.Literal, want)
	return tok
}

func (p *Parser) fail(start, end token.Position, format string, args ...any) {
	panic(qerrors.NewInvalidSyntax(start, end, fmt.Sprintf(format, args...), p.source))
}

// ============ STATEMENTS ============

func (p *Parser) parseStatement() ast.Statement {
	switch p.at().Type {
	case token.LET:
		return p.parseVariableDeclaration()
	case token.PRINT:
		return p.parsePrintStatement()
	case token.IF:
		return p.parseIfStatement(true)
	case token.WHILE:
		return p.parseWhileStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.FUNCTION:
		return p.parseFunction()
	case token.BREAK:
		tok := p.eat()
		return &ast.BreakStatement{Line: tok.Pos.Line}
	case token.CONTINUE:
		tok := p.eat()
		return &ast.ContinueStatement{Line: tok.Pos.Line}
	case token.RETURN:
		return p.parseReturnStatement()
	}
	return p.parseExpression()
}

// dec name [= expr]
func (p *Parser) parseVariableDeclaration() *ast.VariableDeclarationStatement {
	dec := p.eat()
	name := p.eatExactly(token.IDENT, &dec.Pos)

	stmt := &ast.VariableDeclarationStatement{Name: name.Literal, Line: dec.Pos.Line}
	if p.at().Type == token.ASSIGN {
		p.eat()
		stmt.Value = p.parseExpression()
	}
	return stmt
}

func (p *Parser) parsePrintStatement() *ast.PrintStatement {
	p.eat()
	return &ast.PrintStatement{Value: p.parseExpression()}
}

// parseIfStatement parses si ... alors ... [sinonsi ...] [sinon ...] fin.
// Each sinonsi recurses with endNeeded false so that only the outermost
// call consumes the closing fin.
func (p *Parser) parseIfStatement(endNeeded bool) *ast.IfStatement {
	if endNeeded {
		p.eatExactly(token.IF, nil)
	}

	start := p.previous().Pos
	stmt := &ast.IfStatement{Condition: p.parseExpression()}
	p.eatExactly(token.THEN, &start)

	start = p.previous().Pos
	stmt.Then = p.parseBlock(token.ELSE, token.ELSEIF)

	switch p.at().Type {
	case token.ELSE:
		p.eat()
		stmt.Else = p.parseBlock()
	case token.ELSEIF:
		p.eat()
		stmt.Else = p.parseIfStatement(false)
	}

	if endNeeded {
		p.eatExactly(token.END, &start)
	}
	return stmt
}

func (p *Parser) parseWhileStatement() *ast.WhileStatement {
	p.eat()
	start := p.previous().Pos

	stmt := &ast.WhileStatement{Condition: p.parseExpression()}
	p.eatExactly(token.THEN, &start)

	stmt.Body = p.parseBlock()
	p.eatExactly(token.END, &start)
	return stmt
}

// parseForStatement parses pour id de init jusque until [evol step] alors
// ... fin. A bare number or identifier bound becomes id <= until, any other
// expression is kept as the loop condition. The step, 1 by default, is
// rewritten into id = id + step.
func (p *Parser) parseForStatement() *ast.ForStatement {
	p.eat()
	start := p.previous().Pos
	line := start.Line
	name := p.eatExactly(token.IDENT, &start).Literal

	p.eatExactly(token.FROM, &start)
	init := p.parseExpression()

	p.eatExactly(token.UNTIL, &start)
	until := p.parseExpression()
	switch until.(type) {
	case *ast.NumericLiteral, *ast.Identifier:
		until = &ast.BinaryExpression{
			Operator: "<=",
			Left:     &ast.Identifier{Name: name, Line: line},
			Right:    until,
			Line:     line,
		}
	}

	var step ast.Expression = &ast.NumericLiteral{Value: 1}
	if p.at().Type == token.STEP {
		p.eat()
		step = p.parseExpression()
	}
	step = &ast.AssignmentExpression{
		Target: &ast.Identifier{Name: name, Line: line},
		Value: &ast.BinaryExpression{
			Operator: "+",
			Left:     &ast.Identifier{Name: name, Line: line},
			Right:    step,
			Line:     line,
		},
		Line: line,
	}

	p.eatExactly(token.THEN, &start)
	body := p.parseBlock()
	p.eatExactly(token.END, &start)

	return &ast.ForStatement{Name: name, Init: init, Until: until, Step: step, Body: body, Line: line}
}

// parseFunction parses fonction [name](params) ... fin, as a statement or
// as an expression.
func (p *Parser) parseFunction() *ast.FunctionStatement {
	p.eat()
	start := p.previous().Pos

	fn := &ast.FunctionStatement{Line: start.Line}
	if p.at().Type != token.LPAREN {
		fn.Name = p.eatExactly(token.IDENT, &start).Literal
	}
	p.eatExactly(token.LPAREN, &start)

	for p.at().Type != token.RPAREN {
		if len(fn.Params) >= MaxArguments {
			label := fn.Name
			if label == "" {
				label = "anonyme"
			}
			panic(qerrors.NewMaximumArguments(start, p.at().Pos,
				fmt.Sprintf("La fonction '%s' ne peut pas avoir plus de %d paramètres", label, MaxArguments), p.source))
		}

		fn.Params = append(fn.Params, p.eatExactly(token.IDENT, &start).Literal)
		if p.attempt(token.COMMA, token.RPAREN).Type == token.COMMA {
			p.eat()
		}
	}
	p.eat()

	fn.Body = p.parseBlock()
	p.eatExactly(token.END, &start)
	return fn
}

// parseBlock parses statements until fin, EOF or one of stops.
func (p *Parser) parseBlock(stops ...token.TokenType) *ast.BlockStatement {
	block := &ast.BlockStatement{}
	for !p.isEOF() && p.at().Type != token.END && !slices.Contains(stops, p.at().Type) {
		block.Body = append(block.Body, p.parseStatement())
	}
	return block
}

// retour [expr]; the value is omitted when the block ends right after.
func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	tok := p.eat()
	stmt := &ast.ReturnStatement{Line: tok.Pos.Line}

	switch p.at().Type {
	case token.END, token.ELSE, token.ELSEIF, token.EOF:
		return stmt
	}
	stmt.Value = p.parseExpression()
	return stmt
}

// ============ EXPRESSIONS ============

// parseExpression parses an assignment, the lowest precedence level.
// Assignment is right-associative.
func (p *Parser) parseExpression() ast.Expression {
	start := p.at().Pos
	left := p.parseBinary(LOWEST)
	if p.at().Type != token.ASSIGN {
		return left
	}

	eq := p.eat()
	switch left.(type) {
	case *ast.Identifier, *ast.MemberExpression:
	default:
		p.fail(start, eq.Pos, "Affectation non valide, variable ou élément de tableau attendu")
	}

	return &ast.AssignmentExpression{Target: left, Value: p.parseExpression(), Line: eq.Pos.Line}
}

// infixPrecedence gives the binding power of tok as a binary operator. A
// '-' lexed as unary (as in n-1) still reads as a subtraction here.
func infixPrecedence(tok token.Token) int {
	switch tok.Type {
	case token.BINARY_OP:
		if prec, ok := precedences[tok.Literal]; ok {
			return prec
		}
	case token.UNARY_OP:
		if tok.Literal == "-" {
			return SUM
		}
	}
	return LOWEST
}

func (p *Parser) parseBinary(precedence int) ast.Expression {
	left := p.parseUnary()

	for {
		prec := infixPrecedence(p.at())
		if prec <= precedence {
			return left
		}
		op := p.eat()
		right := p.parseBinary(prec)
		left = &ast.BinaryExpression{Operator: op.Literal, Left: left, Right: right, Line: op.Pos.Line}
	}
}

// -expr, non expr
func (p *Parser) parseUnary() ast.Expression {
	tok := p.at()
	if tok.Type != token.UNARY_OP {
		return p.parsePostfix()
	}
	p.eat()
	return &ast.UnaryExpression{Operator: tok.Literal, Operand: p.parseUnary(), Line: tok.Pos.Line}
}

// parsePostfix parses a primary followed by any number of calls and
// index accesses. An empty index (a[]) ends the chain.
func (p *Parser) parsePostfix() ast.Expression {
	expr := p.parsePrimary()

	for {
		switch p.at().Type {
		case token.LPAREN:
			expr = p.parseCall(expr)
		case token.LBRACKET:
			open := p.eat()
			if p.at().Type == token.RBRACKET {
				p.eat()
				return &ast.MemberExpression{Object: expr, Line: open.Pos.Line}
			}
			index := p.parseExpression()
			p.eatExactly(token.RBRACKET, &open.Pos)
			expr = &ast.MemberExpression{Object: expr, Property: index, Line: open.Pos.Line}
		default:
			return expr
		}
	}
}

func (p *Parser) parseCall(callee ast.Expression) ast.Expression {
	open := p.eat()
	call := &ast.CallExpression{Callee: callee, Line: open.Pos.Line}

	for p.at().Type != token.RPAREN {
		if len(call.Arguments) >= MaxArguments {
			panic(qerrors.NewMaximumArguments(open.Pos, p.at().Pos,
				fmt.Sprintf("Un appel ne peut pas avoir plus de %d arguments", MaxArguments), p.source))
		}
		call.Arguments = append(call.Arguments, p.parseExpression())
		if p.attempt(token.COMMA, token.RPAREN).Type == token.COMMA {
			p.eat()
		}
	}
	p.eat()
	return call
}

// [a, b, c]; a trailing comma is allowed.
func (p *Parser) parseArray() ast.Expression {
	p.eat()
	array := &ast.ArrayExpression{}

	for p.at().Type != token.RBRACKET {
		array.Elements = append(array.Elements, p.parseExpression())
		if p.attempt(token.COMMA, token.RBRACKET).Type == token.COMMA {
			p.eat()
		}
	}
	p.eat()
	return array
}

// lire [prompt]. The prompt is only taken from the same line.
func (p *Parser) parseRead() ast.Expression {
	tok := p.eat()
	read := &ast.ReadExpression{Line: tok.Pos.Line}

	next := p.at()
	if next.Pos.Line != tok.Pos.Line {
		return read
	}
	switch next.Type {
	case token.STRING, token.IDENT, token.NUMBER, token.LPAREN, token.LBRACKET, token.BOOLEAN, token.NULL:
		read.Prompt = p.parsePostfix()
	}
	return read
}

func (p *Parser) parsePrimary() ast.Expression {
	tok := p.at()

	switch tok.Type {
	case token.IDENT:
		p.eat()
		return &ast.Identifier{Name: tok.Literal, Line: tok.Pos.Line}
	case token.NULL:
		p.eat()
		return &ast.NullLiteral{}
	case token.BOOLEAN:
		p.eat()
		return &ast.BooleanLiteral{Value: tok.Literal == "vrai"}
	case token.NUMBER:
		p.eat()
		value, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			p.fail(tok.Pos, tok.Pos, "'%s' n'est pas un nombre valide", tok.Literal)
		}
		return &ast.NumericLiteral{Value: value}
	case token.STRING:
		p.eat()
		return &ast.StringLiteral{Value: tok.Literal}
	case token.LPAREN:
		open := p.eat()
		expr := p.parseExpression()
		p.eatExactly(token.RPAREN, &open.Pos)
		return expr
	case token.LBRACKET:
		return p.parseArray()
	case token.FUNCTION:
		return p.parseFunction()
	case token.READ:
		return p.parseRead()
	case token.EOF:
		p.fail(p.previous().Pos, tok.Pos, "Fin de fichier atteinte, expression attendue")
	}

	p.fail(p.previous().Pos, tok.Pos, "'%s' non attendu, expression attendue", tok.Literal)
	return nil
}
