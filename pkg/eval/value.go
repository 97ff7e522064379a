package eval

import (
	"strconv"
	"strings"

	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/ast"
)

// Value is the interface that all runtime values implement.
type Value interface {
	Kind() ValueKind
	Inspect() string
}

type String struct {
	Value string
}

func (s *String) Kind() ValueKind { return KindString }
func (s *String) Inspect() string { return s.Value }

type Boolean struct {
	Value bool
}

func (b *Boolean) Kind() ValueKind { return KindBoolean }
func (b *Boolean) Inspect() string { return strconv.FormatBool(b.Value) }

type Number struct {
	Value float64
}

func (n *Number) Kind() ValueKind { return KindNumber }
func (n *Number) Inspect() string { return strconv.FormatFloat(n.Value, 'f', -1, 64) }

type List struct {
	Elements []Value
}

func (l *List) Kind() ValueKind { return KindList }
func (l *List) Inspect() string {
	out := make([]string, 0, len(l.Elements))
	for _, e := range l.Elements {
		out = append(out, e.Inspect())
	}
	return "[" + strings.Join(out, ", ") + "]"
}

// Closure is a function definition paired with the environment it was
// defined in.
type Closure struct {
	Def *ast.Define
	Env *Environment
}

func (c *Closure) Kind() ValueKind { return KindClosure }
func (c *Closure) Inspect() string {
	if c.Def.Name != nil {
		return "<function " + c.Def.Name.Value + ">"
	}
	return "<function>"
}

// Equal reports deep structural equality. Values of different kinds are
// never equal; closures compare by identity.
func Equal(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a := a.(type) {
	case *String:
		return a.Value == b.(*String).Value
	case *Boolean:
		return a.Value == b.(*Boolean).Value
	case *Number:
		return a.Value == b.(*Number).Value
	case *List:
		other := b.(*List)
		if len(a.Elements) != len(other.Elements) {
			return false
		}
		for i := range a.Elements {
			if !Equal(a.Elements[i], other.Elements[i]) {
				return false
			}
		}
		return true
	case *Closure:
		return a == b.(*Closure)
	default:
		return false
	}
}
