package ast

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/token"
)

type Node interface {
	TokenLiteral() string
	String() string
	// Start is the first token of the node, used for diagnostics.
	Start() token.Token
}

type Expression interface {
	Node
	expressionNode()
}

// Program is a whole source file: the declared pack namespace and its
// top-level expressions in declaration order.
type Program struct {
	Token       token.Token // 'datapack'
	Name        string
	Expressions []Expression
}

func (p *Program) TokenLiteral() string { return p.Token.Literal }
func (p *Program) Start() token.Token   { return p.Token }
func (p *Program) String() string {
	var out bytes.Buffer
	if p.Name != "" {
		out.WriteString("datapack " + p.Name + "\n")
	}
	for _, e := range p.Expressions {
		out.WriteString(e.String())
		out.WriteString("\n")
	}
	return out.String()
}

// Literals

type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) Start() token.Token   { return i.Token }
func (i *Identifier) String() string       { return i.Value }

type NumberLiteral struct {
	Token token.Token
	Value float64
}

func (nl *NumberLiteral) expressionNode()      {}
func (nl *NumberLiteral) TokenLiteral() string { return nl.Token.Literal }
func (nl *NumberLiteral) Start() token.Token   { return nl.Token }
func (nl *NumberLiteral) String() string {
	return strconv.FormatFloat(nl.Value, 'f', -1, 64)
}

type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (b *BooleanLiteral) expressionNode()      {}
func (b *BooleanLiteral) TokenLiteral() string { return b.Token.Literal }
func (b *BooleanLiteral) Start() token.Token   { return b.Token }
func (b *BooleanLiteral) String() string       { return b.Token.Literal }

// StringLiteral is a possibly interpolated string. Segments always has one
// more element than Parts; the value is Segments[0] Parts[0] Segments[1] ...
type StringLiteral struct {
	Token    token.Token
	Segments []string
	Parts    []Expression
}

func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StringLiteral) Start() token.Token   { return sl.Token }
func (sl *StringLiteral) String() string {
	var out bytes.Buffer
	out.WriteString(`"`)
	for i, seg := range sl.Segments {
		out.WriteString(escapeText(seg))
		if i < len(sl.Parts) {
			out.WriteString("{" + sl.Parts[i].String() + "}")
		}
	}
	out.WriteString(`"`)
	return out.String()
}

var textEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "{", `\{`, "}", `\}`, "\n", `\n`, "\t", `\t`, "\r", `\r`)

func escapeText(s string) string { return textEscaper.Replace(s) }

type ListLiteral struct {
	Token    token.Token // '['
	Elements []Expression
}

func (ll *ListLiteral) expressionNode()      {}
func (ll *ListLiteral) TokenLiteral() string { return ll.Token.Literal }
func (ll *ListLiteral) Start() token.Token   { return ll.Token }
func (ll *ListLiteral) String() string {
	return "[" + joinExpressions(ll.Elements, ", ") + "]"
}

// Operators

type BinaryOperator int

const (
	AND BinaryOperator = iota
	OR
	EQ
	NEQ
	LT
	LTE
	GT
	GTE
	ADD
	SUB
	MUL
	DIV
	MOD
)

var binaryOperatorSymbols = [...]string{
	AND: "&&", OR: "||", EQ: "==", NEQ: "!=", LT: "<", LTE: "<=", GT: ">", GTE: ">=",
	ADD: "+", SUB: "-", MUL: "*", DIV: "/", MOD: "%",
}

func (op BinaryOperator) String() string {
	if int(op) < len(binaryOperatorSymbols) {
		return binaryOperatorSymbols[op]
	}
	return "?"
}

type BinaryExpression struct {
	Token    token.Token // the operator token
	Operator BinaryOperator
	Left     Expression
	Right    Expression
}

func (be *BinaryExpression) expressionNode()      {}
func (be *BinaryExpression) TokenLiteral() string { return be.Token.Literal }
func (be *BinaryExpression) Start() token.Token   { return be.Token }
func (be *BinaryExpression) String() string {
	return "(" + be.Left.String() + " " + be.Operator.String() + " " + be.Right.String() + ")"
}

type UnaryOperator int

const (
	NEG UnaryOperator = iota
	NOT
)

func (op UnaryOperator) String() string {
	if op == NEG {
		return "-"
	}
	return "!"
}

type UnaryExpression struct {
	Token    token.Token
	Operator UnaryOperator
	Operand  Expression
}

func (ue *UnaryExpression) expressionNode()      {}
func (ue *UnaryExpression) TokenLiteral() string { return ue.Token.Literal }
func (ue *UnaryExpression) Start() token.Token   { return ue.Token }
func (ue *UnaryExpression) String() string {
	return "(" + ue.Operator.String() + ue.Operand.String() + ")"
}

type IndexExpression struct {
	Token  token.Token // '['
	Target Expression
	Index  Expression
}

func (ie *IndexExpression) expressionNode()      {}
func (ie *IndexExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *IndexExpression) Start() token.Token   { return ie.Token }
func (ie *IndexExpression) String() string {
	return ie.Target.String() + "[" + ie.Index.String() + "]"
}

// SliceExpression is target[from:to]; From and To are nil when omitted.
type SliceExpression struct {
	Token  token.Token // '['
	Target Expression
	From   Expression
	To     Expression
}

func (se *SliceExpression) expressionNode()      {}
func (se *SliceExpression) TokenLiteral() string { return se.Token.Literal }
func (se *SliceExpression) Start() token.Token   { return se.Token }
func (se *SliceExpression) String() string {
	var out bytes.Buffer
	out.WriteString(se.Target.String() + "[")
	if se.From != nil {
		out.WriteString(se.From.String())
	}
	out.WriteString(":")
	if se.To != nil {
		out.WriteString(se.To.String())
	}
	out.WriteString("]")
	return out.String()
}

// Control

type ForExpression struct {
	Token    token.Token // 'for'
	Iterator *Identifier
	Iterable Expression
	Body     Expression
}

func (fe *ForExpression) expressionNode()      {}
func (fe *ForExpression) TokenLiteral() string { return fe.Token.Literal }
func (fe *ForExpression) Start() token.Token   { return fe.Token }
func (fe *ForExpression) String() string {
	return "for " + fe.Iterator.String() + " in " + fe.Iterable.String() + " " + fe.Body.String()
}

type IfExpression struct {
	Token       token.Token // 'if'
	Predicate   Expression
	Consequent  Expression
	Alternative Expression
}

func (ie *IfExpression) expressionNode()      {}
func (ie *IfExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *IfExpression) Start() token.Token   { return ie.Token }
func (ie *IfExpression) String() string {
	return "if " + ie.Predicate.String() + " then " + ie.Consequent.String() + " else " + ie.Alternative.String()
}

// LetExpression binds Names[i] to Values[i] in parallel.
type LetExpression struct {
	Token  token.Token // 'let'
	Names  []*Identifier
	Values []Expression
	Body   Expression
}

func (le *LetExpression) expressionNode()      {}
func (le *LetExpression) TokenLiteral() string { return le.Token.Literal }
func (le *LetExpression) Start() token.Token   { return le.Token }
func (le *LetExpression) String() string {
	bindings := make([]string, 0, len(le.Names))
	for i, name := range le.Names {
		value := "?"
		if i < len(le.Values) {
			value = le.Values[i].String()
		}
		bindings = append(bindings, name.String()+" = "+value)
	}
	return "let (" + strings.Join(bindings, ", ") + ") " + le.Body.String()
}

// Define is a function definition. Name is nil for lambdas.
type Define struct {
	Token      token.Token // 'define' or 'lambda'
	Name       *Identifier
	Parameters []*Identifier
	Body       Expression
}

func (d *Define) expressionNode()      {}
func (d *Define) TokenLiteral() string { return d.Token.Literal }
func (d *Define) Start() token.Token   { return d.Token }
func (d *Define) String() string {
	params := make([]string, 0, len(d.Parameters))
	for _, p := range d.Parameters {
		params = append(params, p.String())
	}
	head := "lambda"
	if d.Name != nil {
		head = "define " + d.Name.String()
	}
	return head + "(" + strings.Join(params, ", ") + ") " + d.Body.String()
}

type CallExpression struct {
	Token     token.Token // '('
	Function  Expression
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *CallExpression) Start() token.Token   { return ce.Token }
func (ce *CallExpression) String() string {
	return ce.Function.String() + "(" + joinExpressions(ce.Arguments, ", ") + ")"
}

type BeginExpression struct {
	Token       token.Token // 'begin'
	Expressions []Expression
}

func (be *BeginExpression) expressionNode()      {}
func (be *BeginExpression) TokenLiteral() string { return be.Token.Literal }
func (be *BeginExpression) Start() token.Token   { return be.Token }
func (be *BeginExpression) String() string {
	return "begin { " + joinExpressions(be.Expressions, "; ") + " }"
}

type PrintExpression struct {
	Token token.Token // 'print'
	Value Expression
}

func (pe *PrintExpression) expressionNode()      {}
func (pe *PrintExpression) TokenLiteral() string { return pe.Token.Literal }
func (pe *PrintExpression) Start() token.Token   { return pe.Token }
func (pe *PrintExpression) String() string       { return "print " + pe.Value.String() }

type ImportExpression struct {
	Token token.Token // 'import'
	Path  string
}

func (ie *ImportExpression) expressionNode()      {}
func (ie *ImportExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *ImportExpression) Start() token.Token   { return ie.Token }
func (ie *ImportExpression) String() string       { return "import " + strconv.Quote(ie.Path) }

func joinExpressions(exprs []Expression, sep string) string {
	parts := make([]string, 0, len(exprs))
	for _, e := range exprs {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, sep)
}
