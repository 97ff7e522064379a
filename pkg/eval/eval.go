package eval

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/ast"
	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/datapack"
	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/logging"
)

// Evaluator walks expressions and records generated artifacts in a store.
// One Evaluator serves one compilation run; it is not safe for concurrent use.
type Evaluator struct {
	store     *datapack.Store
	namespace string

	// counters for generated artifact names, one per artifact kind
	advancementCount int
	functionCount    int

	out        io.Writer
	logHandler slog.Handler
	logger     *slog.Logger
}

// New creates an evaluator that inserts into store and qualifies local
// references with namespace.
func New(store *datapack.Store, namespace string, opts ...Option) (*Evaluator, error) {
	if store == nil {
		return nil, fmt.Errorf("store is nil")
	}
	if !datapack.ValidNamespace(namespace) {
		return nil, fmt.Errorf("%w: %q", datapack.ErrInvalidNamespace, namespace)
	}

	ev := &Evaluator{
		store:     store,
		namespace: namespace,
		out:       os.Stdout,
	}
	for _, opt := range opts {
		if err := opt(ev); err != nil {
			return nil, fmt.Errorf("error applying option: %w", err)
		}
	}
	ev.logHandler, ev.logger = logging.Setup(ev.logHandler, "eval")

	return ev, nil
}

func (ev *Evaluator) String() string {
	return "eval.Evaluator{" + ev.namespace + "}"
}

// Store returns the artifact store the evaluator populates.
func (ev *Evaluator) Store() *datapack.Store { return ev.store }

// EvalProgram evaluates each top-level expression in order against env and
// returns the last result. The first error aborts the run.
func (ev *Evaluator) EvalProgram(program *ast.Program, env *Environment) (Value, error) {
	var result Value = &String{}
	for _, expr := range program.Expressions {
		v, err := ev.Eval(expr, env)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

// Eval evaluates a single expression.
func (ev *Evaluator) Eval(node ast.Expression, env *Environment) (Value, error) {
	switch node := node.(type) {
	case *ast.Identifier:
		val, err := env.Fetch(node.Value)
		if err != nil {
			return nil, attach(err, node)
		}
		return val, nil

	case *ast.NumberLiteral:
		return &Number{Value: node.Value}, nil

	case *ast.BooleanLiteral:
		return nativeBoolToBooleanObject(node.Value), nil

	case *ast.StringLiteral:
		return ev.evalStringLiteral(node, env)

	case *ast.BinaryExpression:
		return ev.evalBinaryExpression(node, env)

	case *ast.UnaryExpression:
		return ev.evalUnaryExpression(node, env)

	case *ast.IndexExpression:
		return ev.evalIndexExpression(node, env)

	case *ast.SliceExpression:
		return ev.evalSliceExpression(node, env)

	case *ast.ForExpression:
		return ev.evalForExpression(node, env)

	case *ast.IfExpression:
		predicate, err := ev.Eval(node.Predicate, env)
		if err != nil {
			return nil, err
		}
		b, ok := predicate.(*Boolean)
		if !ok {
			return nil, newError(TypeError, node.Predicate, "if predicate must be BOOLEAN, got %s", predicate.Kind())
		}
		if b.Value {
			return ev.Eval(node.Consequent, env)
		}
		return ev.Eval(node.Alternative, env)

	case *ast.LetExpression:
		return ev.evalLetExpression(node, env)

	case *ast.Define:
		return ev.evalDefine(node, env)

	case *ast.CallExpression:
		return ev.evalCallExpression(node, env)

	case *ast.ListLiteral:
		elements, err := ev.evalExpressions(node.Elements, env)
		if err != nil {
			return nil, err
		}
		return &List{Elements: elements}, nil

	case *ast.BeginExpression:
		var result Value
		for _, e := range node.Expressions {
			v, err := ev.Eval(e, env)
			if err != nil {
				return nil, err
			}
			result = v
		}
		if result == nil {
			return nil, newError(SyntaxError, node, "begin block must contain at least one expression")
		}
		return result, nil

	case *ast.PrintExpression:
		v, err := ev.Eval(node.Value, env)
		if err != nil {
			return nil, err
		}
		fmt.Fprintln(ev.out, v.Inspect())
		return v, nil

	case *ast.ImportExpression:
		return nil, newError(SyntaxError, node, "import of %q must be resolved before evaluation", node.Path)

	case *ast.AdvancementDeclaration:
		return ev.evalAdvancementDeclaration(node, env)

	case *ast.FunctionDeclaration:
		return ev.evalFunctionDeclaration(node, env)

	case *ast.OnBlock:
		return ev.evalOnBlock(node, env)

	case nil:
		return nil, newError(SyntaxError, nil, "missing expression")

	default:
		return nil, newError(SyntaxError, node, "unsupported expression %T", node)
	}
}

func (ev *Evaluator) evalExpressions(exps []ast.Expression, env *Environment) ([]Value, error) {
	result := make([]Value, 0, len(exps))
	for _, e := range exps {
		evaluated, err := ev.Eval(e, env)
		if err != nil {
			return nil, err
		}
		result = append(result, evaluated)
	}
	return result, nil
}

func (ev *Evaluator) evalStringLiteral(node *ast.StringLiteral, env *Environment) (Value, error) {
	if len(node.Parts) == 0 {
		return &String{Value: strings.Join(node.Segments, "")}, nil
	}

	var out strings.Builder
	for i, seg := range node.Segments {
		out.WriteString(seg)
		if i < len(node.Parts) {
			v, err := ev.Eval(node.Parts[i], env)
			if err != nil {
				return nil, err
			}
			out.WriteString(v.Inspect())
		}
	}
	return &String{Value: out.String()}, nil
}

// binaryRule is one row of the operator type table: the kinds each operand
// may have, and whether both must share a kind.
type binaryRule struct {
	kinds    []ValueKind
	sameKind bool
}

var binaryRules = map[ast.BinaryOperator]binaryRule{
	ast.AND: {kinds: []ValueKind{KindBoolean}},
	ast.OR:  {kinds: []ValueKind{KindBoolean}},
	ast.EQ:  {},
	ast.NEQ: {},
	ast.LT:  {kinds: []ValueKind{KindString, KindNumber}, sameKind: true},
	ast.LTE: {kinds: []ValueKind{KindString, KindNumber}, sameKind: true},
	ast.GT:  {kinds: []ValueKind{KindString, KindNumber}, sameKind: true},
	ast.GTE: {kinds: []ValueKind{KindString, KindNumber}, sameKind: true},
	ast.ADD: {kinds: []ValueKind{KindNumber, KindString, KindList}, sameKind: true},
	ast.SUB: {kinds: []ValueKind{KindNumber}},
	ast.MUL: {kinds: []ValueKind{KindNumber}},
	ast.DIV: {kinds: []ValueKind{KindNumber}},
	ast.MOD: {kinds: []ValueKind{KindNumber}},
}

func (r binaryRule) allows(k ValueKind) bool {
	if r.kinds == nil {
		return true
	}
	for _, allowed := range r.kinds {
		if allowed == k {
			return true
		}
	}
	return false
}

func (ev *Evaluator) evalBinaryExpression(node *ast.BinaryExpression, env *Environment) (Value, error) {
	left, err := ev.Eval(node.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := ev.Eval(node.Right, env)
	if err != nil {
		return nil, err
	}

	rule, ok := binaryRules[node.Operator]
	if !ok {
		return nil, newError(SyntaxError, node, "unknown operator %s", node.Operator)
	}
	switch {
	case !rule.allows(left.Kind()):
		return nil, newError(TypeError, node.Left, "operator %s not supported for %s", node.Operator, left.Kind())
	case !rule.allows(right.Kind()):
		return nil, newError(TypeError, node.Right, "operator %s not supported for %s", node.Operator, right.Kind())
	case rule.sameKind && left.Kind() != right.Kind():
		return nil, newError(TypeError, node, "type mismatch: %s %s %s", left.Kind(), node.Operator, right.Kind())
	}

	switch node.Operator {
	case ast.AND:
		return nativeBoolToBooleanObject(left.(*Boolean).Value && right.(*Boolean).Value), nil
	case ast.OR:
		return nativeBoolToBooleanObject(left.(*Boolean).Value || right.(*Boolean).Value), nil
	case ast.EQ:
		return nativeBoolToBooleanObject(Equal(left, right)), nil
	case ast.NEQ:
		return nativeBoolToBooleanObject(!Equal(left, right)), nil
	case ast.LT, ast.LTE, ast.GT, ast.GTE:
		return nativeBoolToBooleanObject(compare(node.Operator, left, right)), nil
	case ast.ADD:
		switch l := left.(type) {
		case *String:
			return &String{Value: l.Value + right.(*String).Value}, nil
		case *List:
			r := right.(*List)
			elements := make([]Value, 0, len(l.Elements)+len(r.Elements))
			elements = append(elements, l.Elements...)
			elements = append(elements, r.Elements...)
			return &List{Elements: elements}, nil
		}
	}

	return evalNumberInfixExpression(node, left.(*Number).Value, right.(*Number).Value)
}

func compare(op ast.BinaryOperator, left, right Value) bool {
	var c int
	switch l := left.(type) {
	case *String:
		c = strings.Compare(l.Value, right.(*String).Value)
	case *Number:
		r := right.(*Number).Value
		switch {
		case l.Value < r:
			c = -1
		case l.Value > r:
			c = 1
		}
	}

	switch op {
	case ast.LT:
		return c < 0
	case ast.LTE:
		return c <= 0
	case ast.GT:
		return c > 0
	default:
		return c >= 0
	}
}

func evalNumberInfixExpression(node *ast.BinaryExpression, leftVal, rightVal float64) (Value, error) {
	var result float64
	switch node.Operator {
	case ast.ADD:
		result = leftVal + rightVal
	case ast.SUB:
		result = leftVal - rightVal
	case ast.MUL:
		result = leftVal * rightVal
	case ast.DIV:
		result = leftVal / rightVal
	case ast.MOD:
		result = math.Mod(leftVal, rightVal)
	default:
		return nil, newError(SyntaxError, node, "unknown operator %s", node.Operator)
	}

	if math.IsInf(result, 0) || math.IsNaN(result) {
		return nil, newError(MathError, node, "%s %s %s is not a finite number",
			strconv.FormatFloat(leftVal, 'g', -1, 64), node.Operator, strconv.FormatFloat(rightVal, 'g', -1, 64))
	}
	return &Number{Value: result}, nil
}

func (ev *Evaluator) evalUnaryExpression(node *ast.UnaryExpression, env *Environment) (Value, error) {
	operand, err := ev.Eval(node.Operand, env)
	if err != nil {
		return nil, err
	}

	switch node.Operator {
	case ast.NEG:
		n, ok := operand.(*Number)
		if !ok {
			return nil, newError(TypeError, node.Operand, "operator - not supported for %s", operand.Kind())
		}
		return &Number{Value: -n.Value}, nil
	case ast.NOT:
		b, ok := operand.(*Boolean)
		if !ok {
			return nil, newError(TypeError, node.Operand, "operator ! not supported for %s", operand.Kind())
		}
		return nativeBoolToBooleanObject(!b.Value), nil
	default:
		return nil, newError(SyntaxError, node, "unknown operator %s", node.Operator)
	}
}

func (ev *Evaluator) evalIndexExpression(node *ast.IndexExpression, env *Environment) (Value, error) {
	target, err := ev.Eval(node.Target, env)
	if err != nil {
		return nil, err
	}
	if target.Kind() != KindString && target.Kind() != KindList {
		return nil, newError(TypeError, node.Target, "index operator not supported: %s", target.Kind())
	}
	index, err := ev.Eval(node.Index, env)
	if err != nil {
		return nil, err
	}
	n, ok := index.(*Number)
	if !ok {
		return nil, newError(TypeError, node.Index, "index must be NUMBER, got %s", index.Kind())
	}

	switch t := target.(type) {
	case *String:
		runes := []rune(t.Value)
		i, ok := elementIndex(n.Value, len(runes))
		if !ok {
			return nil, newError(IndexError, node.Index, "index %s out of range for string of length %d", n.Inspect(), len(runes))
		}
		return &String{Value: string(runes[i])}, nil
	default:
		elements := target.(*List).Elements
		i, ok := elementIndex(n.Value, len(elements))
		if !ok {
			return nil, newError(IndexError, node.Index, "index %s out of range for list of length %d", n.Inspect(), len(elements))
		}
		return elements[i], nil
	}
}

// elementIndex accepts only integral indexes inside [0, length).
func elementIndex(v float64, length int) (int, bool) {
	if v != math.Trunc(v) || v < 0 || v >= float64(length) {
		return 0, false
	}
	return int(v), true
}

func (ev *Evaluator) evalSliceExpression(node *ast.SliceExpression, env *Environment) (Value, error) {
	target, err := ev.Eval(node.Target, env)
	if err != nil {
		return nil, err
	}
	if target.Kind() != KindString && target.Kind() != KindList {
		return nil, newError(TypeError, node.Target, "slice operator not supported: %s", target.Kind())
	}

	var length int
	var runes []rune
	switch t := target.(type) {
	case *String:
		runes = []rune(t.Value)
		length = len(runes)
	case *List:
		length = len(t.Elements)
	}

	from, err := ev.sliceBound(node.From, env, 0, length)
	if err != nil {
		return nil, err
	}
	to, err := ev.sliceBound(node.To, env, length, length)
	if err != nil {
		return nil, err
	}
	if to < from {
		to = from
	}

	if target.Kind() == KindString {
		return &String{Value: string(runes[from:to])}, nil
	}
	elements := make([]Value, to-from)
	copy(elements, target.(*List).Elements[from:to])
	return &List{Elements: elements}, nil
}

// sliceBound evaluates an optional bound, counting negatives from the end
// and clamping into [0, length].
func (ev *Evaluator) sliceBound(expr ast.Expression, env *Environment, def, length int) (int, error) {
	if expr == nil {
		return def, nil
	}
	v, err := ev.Eval(expr, env)
	if err != nil {
		return 0, err
	}
	n, ok := v.(*Number)
	if !ok {
		return 0, newError(TypeError, expr, "slice bound must be NUMBER, got %s", v.Kind())
	}

	bound := math.Trunc(n.Value)
	if bound < 0 {
		bound += float64(length)
	}
	switch {
	case bound < 0:
		return 0, nil
	case bound > float64(length):
		return length, nil
	default:
		return int(bound), nil
	}
}

func (ev *Evaluator) evalForExpression(node *ast.ForExpression, env *Environment) (Value, error) {
	iterable, err := ev.Eval(node.Iterable, env)
	if err != nil {
		return nil, err
	}

	var items []Value
	switch it := iterable.(type) {
	case *String:
		for _, r := range it.Value {
			items = append(items, &String{Value: string(r)})
		}
	case *List:
		items = it.Elements
	default:
		return nil, newError(TypeError, node.Iterable, "for-loop value must be STRING or LIST, got %s", iterable.Kind())
	}

	results := make([]Value, 0, len(items))
	for _, elem := range items {
		v, err := ev.Eval(node.Body, env.Extend(node.Iterator.Value, elem))
		if err != nil {
			return nil, err
		}
		results = append(results, v)
	}
	return &List{Elements: results}, nil
}

// evalLetExpression evaluates every value against env, then binds them all
// for the body. Bindings never see each other.
func (ev *Evaluator) evalLetExpression(node *ast.LetExpression, env *Environment) (Value, error) {
	if len(node.Names) != len(node.Values) {
		return nil, newError(SyntaxError, node, "let binds %d names to %d values", len(node.Names), len(node.Values))
	}

	values, err := ev.evalExpressions(node.Values, env)
	if err != nil {
		return nil, err
	}

	bodyEnv := env
	for i, name := range node.Names {
		bodyEnv = bodyEnv.Extend(name.Value, values[i])
	}
	return ev.Eval(node.Body, bodyEnv)
}

// evalDefine builds a closure over env. A named definition is bound in env
// itself before anything else, so the body can call itself.
func (ev *Evaluator) evalDefine(node *ast.Define, env *Environment) (Value, error) {
	seen := make(map[string]bool, len(node.Parameters))
	for _, param := range node.Parameters {
		if seen[param.Value] {
			return nil, newError(SyntaxError, param, "duplicate parameter name %q", param.Value)
		}
		seen[param.Value] = true
	}

	closure := &Closure{Def: node, Env: env}
	if node.Name != nil {
		env.ExtendInPlace(node.Name.Value, closure)
	}
	return closure, nil
}

func (ev *Evaluator) evalCallExpression(node *ast.CallExpression, env *Environment) (Value, error) {
	function, err := ev.Eval(node.Function, env)
	if err != nil {
		return nil, err
	}
	closure, ok := function.(*Closure)
	if !ok {
		return nil, newError(TypeError, node.Function, "not a function: %s", function.Kind())
	}
	params := closure.Def.Parameters
	if len(params) != len(node.Arguments) {
		return nil, newError(SyntaxError, node, "wrong number of arguments. got=%d, want=%d", len(node.Arguments), len(params))
	}

	args, err := ev.evalExpressions(node.Arguments, env)
	if err != nil {
		return nil, err
	}

	callEnv := closure.Env
	for i, param := range params {
		callEnv = callEnv.Extend(param.Value, args[i])
	}
	return ev.Eval(closure.Def.Body, callEnv)
}
