package ast

// Kind identifies the concrete type of a node.
type Kind string

const (
	ProgramKind                      Kind = "Program"
	VariableDeclarationStatementKind Kind = "VariableDeclarationStatement"
	PrintStatementKind               Kind = "PrintStatement"
	IfStatementKind                  Kind = "IfStatement"
	WhileStatementKind               Kind = "WhileStatement"
	ForStatementKind                 Kind = "ForStatement"
	FunctionStatementKind            Kind = "FunctionStatement"
	BlockStatementKind               Kind = "BlockStatement"
	BreakStatementKind               Kind = "BreakStatement"
	ContinueStatementKind            Kind = "ContinueStatement"
	ReturnStatementKind              Kind = "ReturnStatement"
	AssignmentExpressionKind         Kind = "AssignmentExpression"
	UnaryExpressionKind              Kind = "UnaryExpression"
	BinaryExpressionKind             Kind = "BinaryExpression"
	IdentifierKind                   Kind = "Identifier"
	MemberExpressionKind             Kind = "MemberExpression"
	ArrayExpressionKind              Kind = "ArrayExpression"
	CallExpressionKind               Kind = "CallExpression"
	NumericLiteralKind               Kind = "NumericLiteral"
	StringLiteralKind                Kind = "StringLiteral"
	NullLiteralKind                  Kind = "NullLiteral"
	BooleanLiteralKind               Kind = "BooleanLiteral"
	ReadExpressionKind               Kind = "ReadExpression"
)

// Node is the base interface for all AST nodes
type Node interface {
	Kind() Kind
}

// Statement is the interface for all statements
type Statement interface {
	Node
	statementNode()
}

// Expression is the interface for all expressions. Any expression may
// stand alone as a statement.
type Expression interface {
	Statement
	expressionNode()
}

// Program is the root node: the top-level statements of a source text.
type Program struct {
	Body []Statement
}

func (p *Program) Kind() Kind { return ProgramKind }

// ============ STATEMENTS ============

// VariableDeclarationStatement: dec x = expr, or dec x (Value nil)
type VariableDeclarationStatement struct {
	Name  string
	Value Expression
	Line  int
}

func (v *VariableDeclarationStatement) Kind() Kind     { return VariableDeclarationStatementKind }
func (v *VariableDeclarationStatement) statementNode() {}

// PrintStatement: ecrire expr
type PrintStatement struct {
	Value Expression
}

func (p *PrintStatement) Kind() Kind     { return PrintStatementKind }
func (p *PrintStatement) statementNode() {}

// IfStatement: si cond alors ... [sinonsi ...] [sinon ...] fin
// Else is nil, a *BlockStatement, or a nested *IfStatement for sinonsi.
type IfStatement struct {
	Condition Expression
	Then      *BlockStatement
	Else      Statement
}

func (i *IfStatement) Kind() Kind     { return IfStatementKind }
func (i *IfStatement) statementNode() {}

// WhileStatement: tantque cond alors ... fin
type WhileStatement struct {
	Condition Expression
	Body      *BlockStatement
}

func (w *WhileStatement) Kind() Kind     { return WhileStatementKind }
func (w *WhileStatement) statementNode() {}

// ForStatement is the desugared form of
// pour name de init jusque until [evol step] alors ... fin.
// Until is the loop condition and Step the assignment run after each pass.
type ForStatement struct {
	Name  string
	Init  Expression
	Until Expression
	Step  Expression
	Body  *BlockStatement
	Line  int
}

func (f *ForStatement) Kind() Kind     { return ForStatementKind }
func (f *ForStatement) statementNode() {}

// FunctionStatement: fonction name(params) ... fin. Name is empty for an
// anonymous function, which is also usable as an expression.
type FunctionStatement struct {
	Name   string
	Params []string
	Body   *BlockStatement
	Line   int
}

func (f *FunctionStatement) Kind() Kind      { return FunctionStatementKind }
func (f *FunctionStatement) statementNode()  {}
func (f *FunctionStatement) expressionNode() {}

type BlockStatement struct {
	Body []Statement
}

func (b *BlockStatement) Kind() Kind     { return BlockStatementKind }
func (b *BlockStatement) statementNode() {}

type BreakStatement struct {
	Line int
}

func (b *BreakStatement) Kind() Kind     { return BreakStatementKind }
func (b *BreakStatement) statementNode() {}

type ContinueStatement struct {
	Line int
}

func (c *ContinueStatement) Kind() Kind     { return ContinueStatementKind }
func (c *ContinueStatement) statementNode() {}

// ReturnStatement: retour [expr]
type ReturnStatement struct {
	Value Expression // nil for bare return
	Line  int
}

func (r *ReturnStatement) Kind() Kind     { return ReturnStatementKind }
func (r *ReturnStatement) statementNode() {}

// ============ EXPRESSIONS ============

// AssignmentExpression: target = value. Target is an *Identifier or a
// *MemberExpression.
type AssignmentExpression struct {
	Target Expression
	Value  Expression
	Line   int
}

func (a *AssignmentExpression) Kind() Kind      { return AssignmentExpressionKind }
func (a *AssignmentExpression) statementNode()  {}
func (a *AssignmentExpression) expressionNode() {}

// UnaryExpression: -expr, non expr
type UnaryExpression struct {
	Operator string
	Operand  Expression
	Line     int
}

func (u *UnaryExpression) Kind() Kind      { return UnaryExpressionKind }
func (u *UnaryExpression) statementNode()  {}
func (u *UnaryExpression) expressionNode() {}

// BinaryExpression: a + b, a == b, a et b
type BinaryExpression struct {
	Operator string
	Left     Expression
	Right    Expression
	Line     int
}

func (b *BinaryExpression) Kind() Kind      { return BinaryExpressionKind }
func (b *BinaryExpression) statementNode()  {}
func (b *BinaryExpression) expressionNode() {}

type Identifier struct {
	Name string
	Line int
}

func (i *Identifier) Kind() Kind      { return IdentifierKind }
func (i *Identifier) statementNode()  {}
func (i *Identifier) expressionNode() {}

// MemberExpression: obj[index]. Property is nil for obj[], which appends
// when assigned to.
type MemberExpression struct {
	Object   Expression
	Property Expression
	Line     int
}

func (m *MemberExpression) Kind() Kind      { return MemberExpressionKind }
func (m *MemberExpression) statementNode()  {}
func (m *MemberExpression) expressionNode() {}

// ArrayExpression: [a, b, c]
type ArrayExpression struct {
	Elements []Expression
}

func (a *ArrayExpression) Kind() Kind      { return ArrayExpressionKind }
func (a *ArrayExpression) statementNode()  {}
func (a *ArrayExpression) expressionNode() {}

// CallExpression: callee(args...)
type CallExpression struct {
	Callee    Expression
	Arguments []Expression
	Line      int
}

func (c *CallExpression) Kind() Kind      { return CallExpressionKind }
func (c *CallExpression) statementNode()  {}
func (c *CallExpression) expressionNode() {}

type NumericLiteral struct {
	Value float64
}

func (n *NumericLiteral) Kind() Kind      { return NumericLiteralKind }
func (n *NumericLiteral) statementNode()  {}
func (n *NumericLiteral) expressionNode() {}

type StringLiteral struct {
	Value string
}

func (s *StringLiteral) Kind() Kind      { return StringLiteralKind }
func (s *StringLiteral) statementNode()  {}
func (s *StringLiteral) expressionNode() {}

type NullLiteral struct{}

func (n *NullLiteral) Kind() Kind      { return NullLiteralKind }
func (n *NullLiteral) statementNode()  {}
func (n *NullLiteral) expressionNode() {}

type BooleanLiteral struct {
	Value bool
}

func (b *BooleanLiteral) Kind() Kind      { return BooleanLiteralKind }
func (b *BooleanLiteral) statementNode()  {}
func (b *BooleanLiteral) expressionNode() {}

// ReadExpression: lire [prompt]. Prompt may be nil.
type ReadExpression struct {
	Prompt Expression
	Line   int
}

func (r *ReadExpression) Kind() Kind      { return ReadExpressionKind }
func (r *ReadExpression) statementNode()  {}
func (r *ReadExpression) expressionNode() {}
