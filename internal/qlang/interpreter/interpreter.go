package interpreter

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/btouchard/qlang/internal/qlang/ast"
	qerrors "github.com/btouchard/qlang/internal/qlang/errors"
	"github.com/btouchard/qlang/internal/qlang/parser"
	"github.com/btouchard/qlang/internal/qlang/runtime"
	"github.com/btouchard/qlang/internal/qlang/token"
)

// DefaultMaxCallDepth bounds nested function calls.
const DefaultMaxCallDepth = 10000

// Input supplies the lines read by lire. ok is false when the user
// declined to answer, which makes lire return rien.
type Input interface {
	ReadLine(prompt string) (line string, ok bool)
}

// InputFunc adapts a function to Input.
type InputFunc func(prompt string) (string, bool)

func (f InputFunc) ReadLine(prompt string) (string, bool) { return f(prompt) }

type Option func(*Interpreter)

// WithInput sets the source of lire. Without one, lire returns rien.
func WithInput(in Input) Option {
	return func(i *Interpreter) { i.input = in }
}

func WithLogger(logger *slog.Logger) Option {
	return func(i *Interpreter) {
		if logger != nil {
			i.logger = logger
		}
	}
}

func WithMaxCallDepth(n int) Option {
	return func(i *Interpreter) {
		if n > 0 {
			i.maxDepth = n
		}
	}
}

// Interpreter walks a Program. Its global scope persists across calls to
// Evaluate, so successive programs see each other's declarations.
type Interpreter struct {
	out      io.Writer
	input    Input
	logger   *slog.Logger
	maxDepth int
	depth    int
	anon     int

	builtins *runtime.Environment
	globals  *runtime.Environment
}

// New creates an interpreter printing to out.
func New(out io.Writer, opts ...Option) *Interpreter {
	if out == nil {
		out = io.Discard
	}
	i := &Interpreter{
		out:      out,
		logger:   slog.New(slog.DiscardHandler),
		maxDepth: DefaultMaxCallDepth,
	}
	for _, opt := range opts {
		opt(i)
	}

	i.builtins = runtime.NewEnvironment(nil)
	registerBuiltins(i.builtins)
	i.globals = i.builtins.Child()
	return i
}

// Globals is the top-level scope of the programs run by i.
func (i *Interpreter) Globals() *runtime.Environment {
	return i.globals
}

// Run parses and evaluates source.
func (i *Interpreter) Run(source string) (runtime.Value, error) {
	program, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}
	return i.Evaluate(program)
}

// Evaluate runs program in the global scope and returns the value of its
// last statement. A top-level retour ends the program with its value.
func (i *Interpreter) Evaluate(program *ast.Program) (runtime.Value, error) {
	i.depth = 0

	last := runtime.Null
	for _, stmt := range program.Body {
		c, err := i.execute(stmt, i.globals)
		if err != nil {
			return nil, err
		}
		switch c.Signal {
		case runtime.SignalReturn:
			return c.Value, nil
		case runtime.SignalBreak, runtime.SignalContinue:
			return nil, qerrors.NewRuntime(c.Line, "'%s' en dehors d'une boucle", c.Signal)
		}
		last = c.Value
	}
	return last, nil
}

// ============ STATEMENTS ============

func (i *Interpreter) execute(stmt ast.Statement, env *runtime.Environment) (runtime.Completion, error) {
	switch stmt := stmt.(type) {
	case *ast.VariableDeclarationStatement:
		value := runtime.Null
		if stmt.Value != nil {
			v, err := i.eval(stmt.Value, env)
			if err != nil {
				return runtime.Completion{}, err
			}
			value = v
		}
		if err := env.Declare(stmt.Name, value); err != nil {
			return runtime.Completion{}, qerrors.WrapRuntime(stmt.Line, err)
		}
		return runtime.Normal(value), nil

	case *ast.PrintStatement:
		v, err := i.eval(stmt.Value, env)
		if err != nil {
			return runtime.Completion{}, err
		}
		fmt.Fprintln(i.out, runtime.Display(v))
		return runtime.Normal(runtime.Null), nil

	case *ast.IfStatement:
		return i.executeIf(stmt, env)

	case *ast.WhileStatement:
		return i.executeWhile(stmt, env)

	case *ast.ForStatement:
		return i.executeFor(stmt, env)

	case *ast.FunctionStatement:
		fn := i.makeFunction(stmt, env)
		if stmt.Name != "" {
			if err := bindFunction(env, fn); err != nil {
				return runtime.Completion{}, qerrors.WrapRuntime(stmt.Line, err)
			}
		}
		return runtime.Normal(fn), nil

	case *ast.BlockStatement:
		return i.executeBlock(stmt, env)

	case *ast.BreakStatement:
		return runtime.Completion{Signal: runtime.SignalBreak, Value: runtime.Null, Line: stmt.Line}, nil

	case *ast.ContinueStatement:
		return runtime.Completion{Signal: runtime.SignalContinue, Value: runtime.Null, Line: stmt.Line}, nil

	case *ast.ReturnStatement:
		value := runtime.Null
		if stmt.Value != nil {
			v, err := i.eval(stmt.Value, env)
			if err != nil {
				return runtime.Completion{}, err
			}
			value = v
		}
		return runtime.Completion{Signal: runtime.SignalReturn, Value: value}, nil

	case ast.Expression:
		v, err := i.eval(stmt, env)
		if err != nil {
			return runtime.Completion{}, err
		}
		return runtime.Normal(v), nil
	}

	return runtime.Completion{}, qerrors.NewRuntime(0, "Impossible d'évaluer une instruction de type '%s'", stmt.Kind())
}

// executeBlock runs block in env. The first signal stops the block and is
// handed to the caller.
func (i *Interpreter) executeBlock(block *ast.BlockStatement, env *runtime.Environment) (runtime.Completion, error) {
	last := runtime.Null
	for _, stmt := range block.Body {
		c, err := i.execute(stmt, env)
		if err != nil {
			return runtime.Completion{}, err
		}
		if c.Interrupted() {
			return c, nil
		}
		last = c.Value
	}
	return runtime.Normal(last), nil
}

func (i *Interpreter) executeIf(stmt *ast.IfStatement, env *runtime.Environment) (runtime.Completion, error) {
	cond, err := i.eval(stmt.Condition, env)
	if err != nil {
		return runtime.Completion{}, err
	}

	if runtime.Truthy(cond) {
		return i.executeBlock(stmt.Then, env.Child())
	}
	if stmt.Else != nil {
		return i.execute(stmt.Else, env.Child())
	}
	return runtime.Normal(runtime.Null), nil
}

func (i *Interpreter) executeWhile(stmt *ast.WhileStatement, env *runtime.Environment) (runtime.Completion, error) {
	scope := env.Child()

	for {
		cond, err := i.eval(stmt.Condition, scope)
		if err != nil {
			return runtime.Completion{}, err
		}
		if !runtime.Truthy(cond) {
			break
		}

		c, err := i.executeBlock(stmt.Body, scope.Child())
		if err != nil {
			return runtime.Completion{}, err
		}
		if c.Signal == runtime.SignalBreak {
			i.logger.Debug("loop exit", slog.String("loop", "tantque"))
			break
		}
		if c.Signal == runtime.SignalReturn {
			return c, nil
		}
	}
	return runtime.Normal(runtime.Null), nil
}

// executeFor reuses the loop variable when it is already visible, and
// declares it in the loop scope otherwise.
func (i *Interpreter) executeFor(stmt *ast.ForStatement, env *runtime.Environment) (runtime.Completion, error) {
	scope := env.Child()

	if _, ok := scope.Resolve(stmt.Name); !ok {
		if err := scope.Declare(stmt.Name, runtime.Null); err != nil {
			return runtime.Completion{}, qerrors.WrapRuntime(stmt.Line, err)
		}
	}
	init, err := i.eval(stmt.Init, scope)
	if err != nil {
		return runtime.Completion{}, err
	}
	if err := scope.Assign(stmt.Name, init); err != nil {
		return runtime.Completion{}, qerrors.WrapRuntime(stmt.Line, err)
	}

	for {
		cond, err := i.eval(stmt.Until, scope)
		if err != nil {
			return runtime.Completion{}, err
		}
		if !runtime.Truthy(cond) {
			break
		}

		c, err := i.executeBlock(stmt.Body, scope.Child())
		if err != nil {
			return runtime.Completion{}, err
		}
		if c.Signal == runtime.SignalBreak {
			i.logger.Debug("loop exit", slog.String("loop", "pour"), slog.String("variable", stmt.Name))
			break
		}
		if c.Signal == runtime.SignalReturn {
			return c, nil
		}

		if _, err := i.eval(stmt.Step, scope); err != nil {
			return runtime.Completion{}, err
		}
	}
	return runtime.Normal(runtime.Null), nil
}

// bindFunction assigns fn where its name is already visible, or declares
// it in env.
func bindFunction(env *runtime.Environment, fn *runtime.FunctionValue) error {
	if scope, ok := env.Resolve(fn.Name); ok {
		return scope.Assign(fn.Name, fn)
	}
	return env.Declare(fn.Name, fn)
}

func (i *Interpreter) makeFunction(stmt *ast.FunctionStatement, env *runtime.Environment) *runtime.FunctionValue {
	name := stmt.Name
	if name == "" {
		i.anon++
		name = fmt.Sprintf("anon_%d", i.anon)
	}
	return &runtime.FunctionValue{Name: name, Params: stmt.Params, Body: stmt.Body, Closure: env}
}

// ============ EXPRESSIONS ============

func (i *Interpreter) eval(expr ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch expr := expr.(type) {
	case *ast.NumericLiteral:
		return runtime.Number(expr.Value), nil
	case *ast.StringLiteral:
		return runtime.String(expr.Value), nil
	case *ast.BooleanLiteral:
		return runtime.Boolean(expr.Value), nil
	case *ast.NullLiteral:
		return runtime.Null, nil

	case *ast.Identifier:
		v, err := env.Lookup(expr.Name)
		if err != nil {
			return nil, qerrors.WrapRuntime(expr.Line, err)
		}
		return v, nil

	case *ast.ArrayExpression:
		elems := make([]runtime.Value, 0, len(expr.Elements))
		for _, e := range expr.Elements {
			v, err := i.eval(e, env)
			if err != nil {
				return nil, err
			}
			elems = append(elems, v)
		}
		return runtime.Array(elems...), nil

	case *ast.AssignmentExpression:
		return i.evalAssignment(expr, env)
	case *ast.UnaryExpression:
		return i.evalUnary(expr, env)
	case *ast.BinaryExpression:
		return i.evalBinary(expr, env)
	case *ast.MemberExpression:
		return i.evalMember(expr, env)
	case *ast.CallExpression:
		return i.evalCall(expr, env)

	case *ast.FunctionStatement:
		return i.makeFunction(expr, env), nil

	case *ast.ReadExpression:
		return i.evalRead(expr, env)
	}

	return nil, qerrors.NewRuntime(0, "Impossible d'évaluer l'expression de type '%s'", expr.Kind())
}

func (i *Interpreter) evalAssignment(expr *ast.AssignmentExpression, env *runtime.Environment) (runtime.Value, error) {
	switch target := expr.Target.(type) {
	case *ast.Identifier:
		v, err := i.eval(expr.Value, env)
		if err != nil {
			return nil, err
		}
		if err := env.Assign(target.Name, v); err != nil {
			return nil, qerrors.WrapRuntime(expr.Line, err)
		}
		return v, nil

	case *ast.MemberExpression:
		array, err := i.evalArray(target.Object, env, target.Line)
		if err != nil {
			return nil, err
		}

		if target.Property == nil {
			v, err := i.eval(expr.Value, env)
			if err != nil {
				return nil, err
			}
			array.Elements = append(array.Elements, v)
			return v, nil
		}

		index, err := i.evalIndex(target.Property, array, env, target.Line)
		if err != nil {
			return nil, err
		}
		v, err := i.eval(expr.Value, env)
		if err != nil {
			return nil, err
		}
		array.Elements[index] = v
		return v, nil
	}

	return nil, qerrors.NewRuntime(expr.Line, "Impossible d'assigner une valeur à une expression de type '%s'", expr.Target.Kind())
}

func (i *Interpreter) evalUnary(expr *ast.UnaryExpression, env *runtime.Environment) (runtime.Value, error) {
	v, err := i.eval(expr.Operand, env)
	if err != nil {
		return nil, err
	}

	switch expr.Operator {
	case token.Not:
		return runtime.Boolean(!runtime.Truthy(v)), nil
	case "-":
		n, ok := runtime.ToNumber(v)
		if !ok {
			return nil, qerrors.NewRuntime(expr.Line, "Seulement les nombres peuvent être négatifs")
		}
		return runtime.Number(-n), nil
	}
	return nil, qerrors.NewRuntime(expr.Line, "Opérateur unaire inconnu '%s'", expr.Operator)
}

func (i *Interpreter) evalBinary(expr *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.eval(expr.Left, env)
	if err != nil {
		return nil, err
	}

	// et/ou only look at the right side when the left one does not decide.
	switch expr.Operator {
	case token.And:
		if !runtime.Truthy(left) {
			return runtime.Boolean(false), nil
		}
		right, err := i.eval(expr.Right, env)
		if err != nil {
			return nil, err
		}
		return runtime.Boolean(runtime.Truthy(right)), nil
	case token.Or:
		if runtime.Truthy(left) {
			return runtime.Boolean(true), nil
		}
		right, err := i.eval(expr.Right, env)
		if err != nil {
			return nil, err
		}
		return runtime.Boolean(runtime.Truthy(right)), nil
	}

	right, err := i.eval(expr.Right, env)
	if err != nil {
		return nil, err
	}

	switch expr.Operator {
	case "==":
		return runtime.Boolean(runtime.Equal(left, right)), nil
	case "!=":
		return runtime.Boolean(!runtime.Equal(left, right)), nil
	case "<", "<=", ">", ">=":
		cmp, err := runtime.Compare(left, right)
		if err != nil {
			return nil, qerrors.WrapRuntime(expr.Line, err)
		}
		return runtime.Boolean(compareResult(expr.Operator, cmp)), nil
	}
	return arithmetic(expr.Operator, left, right, expr.Line)
}

func compareResult(op string, cmp int) bool {
	switch op {
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	default:
		return cmp >= 0
	}
}

// arithmetic applies + - * / %. A string on either side of + concatenates
// the raw forms of both operands.
func arithmetic(op string, left, right runtime.Value, line int) (runtime.Value, error) {
	_, leftString := left.(runtime.StringValue)
	_, rightString := right.(runtime.StringValue)
	if leftString || rightString {
		if op != "+" {
			return nil, qerrors.NewRuntime(line, "Seulement l'opérateur '+' peut être utilisé avec des chaînes de caractères")
		}
		return runtime.String(runtime.Raw(left) + runtime.Raw(right)), nil
	}

	l, okLeft := runtime.ToNumber(left)
	r, okRight := runtime.ToNumber(right)
	if !okLeft || !okRight {
		return nil, qerrors.NewRuntime(line, "Seulement les nombres peuvent être utilisés dans des opérations arithmétiques")
	}

	switch op {
	case "+":
		return runtime.Number(l + r), nil
	case "-":
		return runtime.Number(l - r), nil
	case "*":
		return runtime.Number(l * r), nil
	case "/":
		return runtime.Number(l / r), nil
	case "%":
		return runtime.Number(math.Mod(l, r)), nil
	}
	return nil, qerrors.NewRuntime(line, "Opérateur inconnu '%s'", op)
}

func (i *Interpreter) evalMember(expr *ast.MemberExpression, env *runtime.Environment) (runtime.Value, error) {
	array, err := i.evalArray(expr.Object, env, expr.Line)
	if err != nil {
		return nil, err
	}
	if expr.Property == nil {
		return nil, qerrors.NewRuntime(expr.Line, "Les tableaux doivent être indexés")
	}

	index, err := i.evalIndex(expr.Property, array, env, expr.Line)
	if err != nil {
		return nil, err
	}
	return array.Elements[index], nil
}

func (i *Interpreter) evalArray(expr ast.Expression, env *runtime.Environment, line int) (*runtime.ArrayValue, error) {
	v, err := i.eval(expr, env)
	if err != nil {
		return nil, err
	}
	array, ok := v.(*runtime.ArrayValue)
	if !ok {
		return nil, qerrors.NewRuntime(line, "Seulement les tableaux peuvent être indexés")
	}
	return array, nil
}

// evalIndex evaluates an index and checks it against array's bounds.
// Fractional indexes are truncated.
func (i *Interpreter) evalIndex(expr ast.Expression, array *runtime.ArrayValue, env *runtime.Environment, line int) (int, error) {
	v, err := i.eval(expr, env)
	if err != nil {
		return 0, err
	}
	n, ok := v.(runtime.NumberValue)
	if !ok {
		return 0, qerrors.NewRuntime(line, "Seulement les nombres peuvent être utilisés comme index")
	}

	// Checked before truncation, so -0.5 is out of range rather than 0.
	if math.IsNaN(n.Val) || n.Val < 0 || n.Val >= float64(len(array.Elements)) {
		return 0, qerrors.NewRuntime(line, "Index hors limite, l'index doit être compris entre 0 et %d", len(array.Elements)-1)
	}
	return int(n.Val), nil
}

// evalCall checks the arity before evaluating any argument.
func (i *Interpreter) evalCall(expr *ast.CallExpression, env *runtime.Environment) (runtime.Value, error) {
	callee, err := i.eval(expr.Callee, env)
	if err != nil {
		return nil, err
	}

	var arity int
	switch fn := callee.(type) {
	case *runtime.FunctionValue:
		arity = fn.Arity()
	case *runtime.BuiltinValue:
		arity = fn.Arity
	default:
		return nil, qerrors.NewRuntime(expr.Line, "Seulement les fonctions peuvent être appelées")
	}
	if len(expr.Arguments) != arity {
		return nil, qerrors.NewRuntime(expr.Line, "Le nombre d'arguments attendu est de %d, mais %d ont été fournis", arity, len(expr.Arguments))
	}

	args := make([]runtime.Value, 0, len(expr.Arguments))
	for _, a := range expr.Arguments {
		v, err := i.eval(a, env)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	if builtin, ok := callee.(*runtime.BuiltinValue); ok {
		i.logger.Debug("function call",
			slog.String("function", builtin.Name),
			slog.Int("argument-count", len(args)))
		v, err := builtin.Fn(args)
		if err != nil {
			return nil, qerrors.WrapRuntime(expr.Line, err)
		}
		return v, nil
	}
	return i.callFunction(callee.(*runtime.FunctionValue), args, expr.Line)
}

// callFunction runs fn's body in a child of its closure. A retour is
// unwrapped into the call's value; falling off the end yields rien.
func (i *Interpreter) callFunction(fn *runtime.FunctionValue, args []runtime.Value, line int) (runtime.Value, error) {
	if i.depth >= i.maxDepth {
		return nil, qerrors.NewRuntime(line, "Profondeur d'appels maximale atteinte (%d)", i.maxDepth)
	}
	i.depth++
	defer func() { i.depth-- }()

	i.logger.Debug("function call",
		slog.String("function", fn.Name),
		slog.Int("argument-count", len(args)),
		slog.Int("depth", i.depth))

	scope := fn.Closure.Child()
	for idx, param := range fn.Params {
		if err := scope.Declare(param, args[idx]); err != nil {
			return nil, qerrors.WrapRuntime(line, err)
		}
	}

	c, err := i.executeBlock(fn.Body, scope)
	if err != nil {
		return nil, err
	}
	switch c.Signal {
	case runtime.SignalReturn:
		return c.Value, nil
	case runtime.SignalBreak, runtime.SignalContinue:
		return nil, qerrors.NewRuntime(line, "'%s' en dehors d'une boucle dans la fonction '%s'", c.Signal, fn.Name)
	}
	return runtime.Null, nil
}

func (i *Interpreter) evalRead(expr *ast.ReadExpression, env *runtime.Environment) (runtime.Value, error) {
	prompt := ""
	if expr.Prompt != nil {
		v, err := i.eval(expr.Prompt, env)
		if err != nil {
			return nil, err
		}
		prompt = runtime.Display(v)
	}

	if i.input == nil {
		return runtime.Null, nil
	}
	line, ok := i.input.ReadLine(prompt)
	if !ok {
		return runtime.Null, nil
	}
	return runtime.String(line), nil
}
