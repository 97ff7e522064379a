package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/ast"
	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/lexer"
)

func parse(t *testing.T, input string) *ast.Program {
	t.Helper()
	p := New(lexer.New(input))
	program := p.ParseProgram()
	checkParserErrors(t, p)
	return program
}

func checkParserErrors(t *testing.T, p *Parser) {
	t.Helper()
	require.Empty(t, p.Errors(), "parser has %d errors", len(p.Errors()))
}

// parseSingle parses input and returns the String form of its only
// expression.
func parseSingle(t *testing.T, input string) string {
	t.Helper()
	program := parse(t, input)
	require.Len(t, program.Expressions, 1)
	return program.Expressions[0].String()
}

func TestProgramHeader(t *testing.T) {
	program := parse(t, "datapack demo\n1")
	assert.Equal(t, "demo", program.Name)
	assert.Len(t, program.Expressions, 1)

	program = parse(t, `datapack "quoted_name"`)
	assert.Equal(t, "quoted_name", program.Name)
	assert.Empty(t, program.Expressions)

	program = parse(t, "1; 2;; 3")
	assert.Equal(t, "", program.Name)
	assert.Len(t, program.Expressions, 3)
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"-a * b", "((-a) * b)"},
		{"!true", "(!true)"},
		{"!-a", "(!(-a))"},
		{"a + b * c", "(a + (b * c))"},
		{"a + b % c - d", "((a + (b % c)) - d)"},
		{"a / b * c", "((a / b) * c)"},
		{"a < b == c > d", "((a < b) == (c > d))"},
		{"a <= b != c >= d", "((a <= b) != (c >= d))"},
		{"a || b && c", "(a || (b && c))"},
		{"a && b || c", "((a && b) || c)"},
		{"(a + b) * c", "((a + b) * c)"},
		{"f(a, b + 1)[2]", "f(a, (b + 1))[2]"},
		{"-xs[0]", "(-xs[0])"},
		{"2.50", "2.5"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseSingle(t, tt.input))
		})
	}
}

func TestExpressions(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"[1, [2], []]", "[1, [2], []]"},
		{"xs[1]", "xs[1]"},
		{"xs[1:]", "xs[1:]"},
		{"xs[:-1]", "xs[:(-1)]"},
		{"xs[:]", "xs[:]"},
		{"xs[a:b]", "xs[a:b]"},
		{"let (a = 1, b = a) a + b", "let (a = 1, b = a) (a + b)"},
		{"let () 1", "let () 1"},
		{"define add(x, y) x + y", "define add(x, y) (x + y)"},
		{"lambda() 1", "lambda() 1"},
		{"lambda(x) x(x)", "lambda(x) x(x)"},
		{"if a then 1 else 2", "if a then 1 else 2"},
		{"for (x in xs) x * 2", "for x in xs (x * 2)"},
		{"begin { print 1; 2 }", "begin { print 1; 2 }"},
		{`import "lib/util.dpc"`, `import "lib/util.dpc"`},
		{`"a{x + 1}b"`, `"a{(x + 1)}b"`},
		{`"\{x\}"`, `"\{x\}"`},
		{`"{f("}")}"`, `"{f("\}")}"`},
		{`""`, `""`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseSingle(t, tt.input))
		})
	}
}

func TestStringInterpolationParts(t *testing.T) {
	program := parse(t, `"x={x}, y={y * 2}"`)
	lit, ok := program.Expressions[0].(*ast.StringLiteral)
	require.True(t, ok, "got %T", program.Expressions[0])
	assert.Equal(t, []string{"x=", ", y=", ""}, lit.Segments)
	require.Len(t, lit.Parts, 2)
	assert.IsType(t, &ast.Identifier{}, lit.Parts[0])
	assert.IsType(t, &ast.BinaryExpression{}, lit.Parts[1])
}

func TestDeclarations(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{
			`advancement "a" { title "T", icon "minecraft:stone" "\{\}", description "D", parent "p" }`,
			`advancement "a" { title "T" icon "minecraft:stone" "\{\}" description "D" parent "p" }`,
		},
		{
			`advancement { title "T" icon "minecraft:stone" description "D" }`,
			`advancement { title "T" icon "minecraft:stone" description "D" }`,
		},
		{
			`advancement name + "_x" { }`,
			`advancement (name + "_x") { }`,
		},
		{
			`function "f" { grant "a"; revoke b, execute "g" "say hi" }`,
			`function "f" { grant "a" revoke b execute "g" "say hi" }`,
		},
		{
			`function { }`,
			`function { }`,
		},
		{
			`on (consume_item { item "minecraft:apple" } | tick) { "say" }`,
			`on (consume_item { item "minecraft:apple" } | tick) { "say" }`,
		},
		{
			`on ((load | tick) | "minecraft:slept_in_bed") { }`,
			`on (load | tick | "minecraft:slept_in_bed") { }`,
		},
		{
			`on (inventory_changed { tag "minecraft:logs" }) { execute f }`,
			`on (inventory_changed { tag "minecraft:logs" }) { execute f }`,
		},
		{
			`on (consume_item) { for (x in xs) "say {x}" }`,
			`on (consume_item) { for x in xs "say {x}" }`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseSingle(t, tt.input))
		})
	}
}

func TestAdvancementDetails(t *testing.T) {
	program := parse(t, `advancement "a" { icon "minecraft:stone" "\{\}" }`)
	decl, ok := program.Expressions[0].(*ast.AdvancementDeclaration)
	require.True(t, ok, "got %T", program.Expressions[0])
	assert.NotNil(t, decl.Name)
	assert.NotNil(t, decl.IconItem)
	assert.NotNil(t, decl.IconNBT)
	assert.Nil(t, decl.Title)
	assert.Nil(t, decl.Description)
	assert.Nil(t, decl.Parent)
}

func TestCombinedTriggerIsLeftAssociative(t *testing.T) {
	program := parse(t, `on (load | tick | consume_item) { }`)
	block, ok := program.Expressions[0].(*ast.OnBlock)
	require.True(t, ok)

	outer, ok := block.Trigger.(*ast.CombinedTrigger)
	require.True(t, ok)
	assert.IsType(t, &ast.ConsumeItemTrigger{}, outer.Right)

	inner, ok := outer.Left.(*ast.CombinedTrigger)
	require.True(t, ok)
	assert.IsType(t, &ast.LoadTrigger{}, inner.Left)
	assert.IsType(t, &ast.TickTrigger{}, inner.Right)
}

func TestCommandKinds(t *testing.T) {
	program := parse(t, `function { grant a; revoke b; execute c; "say hi"; ["a", "b"] }`)
	decl, ok := program.Expressions[0].(*ast.FunctionDeclaration)
	require.True(t, ok)
	require.Len(t, decl.Commands, 5)
	assert.IsType(t, &ast.GrantCommand{}, decl.Commands[0])
	assert.IsType(t, &ast.RevokeCommand{}, decl.Commands[1])
	assert.IsType(t, &ast.ExecuteCommand{}, decl.Commands[2])
	assert.IsType(t, &ast.RawCommand{}, decl.Commands[3])
	assert.IsType(t, &ast.RawCommand{}, decl.Commands[4])
}

func TestParserErrors(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"let (a 1) a", "1:8: expected next token to be =, got NUMBER instead"},
		{"datapack 1", "1:10: expected next token to be IDENT, got NUMBER instead"},
		{"begin { }", "1:1: begin block must contain at least one expression"},
		{"begin { 1", "unterminated begin block"},
		{`import "{x}"`, "import path cannot be interpolated"},
		{`on (bogus) { }`, "expected trigger, got IDENT instead"},
		{`on ("{x}") { }`, "trigger name cannot be interpolated"},
		{`on (consume_item { block "x" }) { }`, "expected item or tag, got IDENT instead"},
		{`advancement { colour "x" }`, "expected advancement detail, got IDENT instead"},
		{`advancement { title "a" title "b" }`, "duplicate title in advancement"},
		{`advancement { title "a"`, "unterminated advancement block"},
		{`function { "say"`, "unterminated command block"},
		{`function { grant }`, "no prefix parse function for } found"},
		{`"a{1 2}b"`, "unexpected NUMBER in interpolation"},
		{`"abc`, `illegal token "unterminated string"`},
		{"if a then b", "expected next token to be ELSE, got EOF instead"},
		{"for x in xs x", "expected next token to be (, got IDENT instead"},
		{"define (x) x", "expected next token to be IDENT, got ( instead"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p := New(lexer.New(tt.input))
			p.ParseProgram()
			require.NotEmpty(t, p.Errors())
			found := false
			for _, msg := range p.Errors() {
				if strings.Contains(msg, tt.expected) {
					found = true
					break
				}
			}
			assert.True(t, found, "expected %q in %v", tt.expected, p.Errors())
		})
	}
}
