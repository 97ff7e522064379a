package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/ast"
)

type ProgramInsights struct {
	Namespace    string
	Imports      []string
	Definitions  []DefinitionInfo
	Declarations []DeclarationInfo
}

type DefinitionInfo struct {
	Name       string
	Parameters []string
}

// DeclarationInfo describes an advancement, function or on block. Name is
// the source text of the name expression, empty when generated.
type DeclarationInfo struct {
	Kind     string
	Name     string
	Trigger  string
	Commands int
}

func analyzeProgram(program *ast.Program) ProgramInsights {
	insights := ProgramInsights{Namespace: program.Name}
	walk(program, func(node ast.Node) {
		switch n := node.(type) {
		case *ast.ImportExpression:
			insights.Imports = append(insights.Imports, n.Path)
		case *ast.Define:
			if n.Name == nil {
				return
			}
			params := make([]string, 0, len(n.Parameters))
			for _, p := range n.Parameters {
				params = append(params, p.Value)
			}
			insights.Definitions = append(insights.Definitions, DefinitionInfo{Name: n.Name.Value, Parameters: params})
		case *ast.AdvancementDeclaration:
			insights.Declarations = append(insights.Declarations, DeclarationInfo{Kind: "advancement", Name: describeName(n.Name)})
		case *ast.FunctionDeclaration:
			insights.Declarations = append(insights.Declarations, DeclarationInfo{
				Kind:     "function",
				Name:     describeName(n.Name),
				Commands: len(n.Commands),
			})
		case *ast.OnBlock:
			insights.Declarations = append(insights.Declarations, DeclarationInfo{
				Kind:     "on",
				Trigger:  n.Trigger.String(),
				Commands: len(n.Commands),
			})
		}
	})
	return insights
}

func describeName(expr ast.Expression) string {
	if expr == nil {
		return ""
	}
	return expr.String()
}

func walk(node ast.Node, visitor func(ast.Node)) {
	if node == nil {
		return
	}

	visitor(node)

	switch n := node.(type) {
	case *ast.Program:
		for _, e := range n.Expressions {
			walk(e, visitor)
		}
	case *ast.StringLiteral:
		for _, e := range n.Parts {
			walk(e, visitor)
		}
	case *ast.ListLiteral:
		for _, e := range n.Elements {
			walk(e, visitor)
		}
	case *ast.BinaryExpression:
		walk(n.Left, visitor)
		walk(n.Right, visitor)
	case *ast.UnaryExpression:
		walk(n.Operand, visitor)
	case *ast.IndexExpression:
		walk(n.Target, visitor)
		walk(n.Index, visitor)
	case *ast.SliceExpression:
		walk(n.Target, visitor)
		walkOptional(n.From, visitor)
		walkOptional(n.To, visitor)
	case *ast.ForExpression:
		walk(n.Iterable, visitor)
		walk(n.Body, visitor)
	case *ast.IfExpression:
		walk(n.Predicate, visitor)
		walk(n.Consequent, visitor)
		walk(n.Alternative, visitor)
	case *ast.LetExpression:
		for _, e := range n.Values {
			walk(e, visitor)
		}
		walk(n.Body, visitor)
	case *ast.Define:
		walk(n.Body, visitor)
	case *ast.CallExpression:
		walk(n.Function, visitor)
		for _, arg := range n.Arguments {
			walk(arg, visitor)
		}
	case *ast.BeginExpression:
		for _, e := range n.Expressions {
			walk(e, visitor)
		}
	case *ast.PrintExpression:
		walk(n.Value, visitor)
	case *ast.AdvancementDeclaration:
		for _, e := range []ast.Expression{n.Name, n.Title, n.IconItem, n.IconNBT, n.Description, n.Parent} {
			walkOptional(e, visitor)
		}
	case *ast.FunctionDeclaration:
		walkOptional(n.Name, visitor)
		walkCommands(n.Commands, visitor)
	case *ast.OnBlock:
		walkCommands(n.Commands, visitor)
	}
}

// walkOptional skips absent expressions, which are nil interfaces.
func walkOptional(e ast.Expression, visitor func(ast.Node)) {
	if e != nil {
		walk(e, visitor)
	}
}

func walkCommands(cmds []ast.Command, visitor func(ast.Node)) {
	for _, cmd := range cmds {
		switch c := cmd.(type) {
		case *ast.GrantCommand:
			walk(c.Name, visitor)
		case *ast.RevokeCommand:
			walk(c.Name, visitor)
		case *ast.ExecuteCommand:
			walk(c.Name, visitor)
		case *ast.RawCommand:
			walk(c.Value, visitor)
		}
	}
}

func printInsights(out io.Writer, insights ProgramInsights) {
	if insights.Namespace != "" {
		fmt.Fprintf(out, "Datapack %s\n", insights.Namespace)
	}

	fmt.Fprintf(out, "Imports (%d)\n", len(insights.Imports))
	for _, path := range insights.Imports {
		fmt.Fprintf(out, "  · %s\n", path)
	}

	fmt.Fprintf(out, "Definitions (%d)\n", len(insights.Definitions))
	for _, def := range insights.Definitions {
		fmt.Fprintf(out, "  · define %s(%s)\n", def.Name, strings.Join(def.Parameters, ", "))
	}

	fmt.Fprintf(out, "Declarations (%d)\n", len(insights.Declarations))
	if len(insights.Declarations) == 0 {
		fmt.Fprintln(out, "  · No advancements, functions or on blocks found.")
		return
	}
	for _, d := range insights.Declarations {
		switch d.Kind {
		case "on":
			fmt.Fprintf(out, "  · on (%s), %d commands\n", d.Trigger, d.Commands)
		case "function":
			fmt.Fprintf(out, "  · function %s, %d commands\n", nameOrGenerated(d.Name), d.Commands)
		default:
			fmt.Fprintf(out, "  · %s %s\n", d.Kind, nameOrGenerated(d.Name))
		}
	}
}

func nameOrGenerated(name string) string {
	if name == "" {
		return "<generated>"
	}
	return name
}
