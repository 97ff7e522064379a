package eval

import (
	"errors"
	"fmt"

	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/ast"
	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/datapack"
)

// ErrorKind is the closed set of evaluation failures.
type ErrorKind uint8

const (
	ReferenceError ErrorKind = iota + 1
	TypeError
	SyntaxError
	MathError
	IndexError
	NameConflict
)

var (
	ErrReference = errors.New("reference error")
	ErrType      = errors.New("type error")
	ErrSyntax    = errors.New("syntax error")
	ErrMath      = errors.New("math error")
	ErrIndex     = errors.New("index error")
)

func (k ErrorKind) String() string {
	switch k {
	case ReferenceError:
		return "ReferenceError"
	case TypeError:
		return "TypeError"
	case SyntaxError:
		return "SyntaxError"
	case MathError:
		return "MathError"
	case IndexError:
		return "IndexError"
	case NameConflict:
		return "NameConflict"
	default:
		return "UnknownError"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case ReferenceError:
		return ErrReference
	case TypeError:
		return ErrType
	case SyntaxError:
		return ErrSyntax
	case MathError:
		return ErrMath
	case IndexError:
		return ErrIndex
	case NameConflict:
		return datapack.ErrNameConflict
	default:
		return nil
	}
}

// Error is an evaluation failure carrying the expression that caused it.
type Error struct {
	Kind    ErrorKind
	Expr    ast.Node
	Message string
}

func (e *Error) Error() string {
	if e.Expr == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Expr.Start().Pos(), e.Kind, e.Message)
}

// Unwrap exposes the kind's sentinel so callers can use errors.Is.
func (e *Error) Unwrap() error {
	return e.Kind.sentinel()
}

func newError(kind ErrorKind, node ast.Node, format string, a ...any) *Error {
	return &Error{Kind: kind, Expr: node, Message: fmt.Sprintf(format, a...)}
}

// attach fills in the expression of an *Error that has none yet.
func attach(err error, node ast.Node) error {
	var evalErr *Error
	if errors.As(err, &evalErr) && evalErr.Expr == nil {
		evalErr.Expr = node
	}
	return err
}
