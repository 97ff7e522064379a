package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/token"
)

func TestNextToken(t *testing.T) {
	input := `datapack demo
define add(x, y) x + y
let (a = [1, 2.5]) a[0:1]
if !true && x != 3 || y <= 4 then "a" else "b"
on (consume_item { item "minecraft:apple" } | tick) { grant foo; }
# comment
x >= 1 % 2 / 3 * 4 - 5 == 6 > 7 < 8
`

	tests := []struct {
		expectedType    token.TokenType
		expectedLiteral string
	}{
		{token.DATAPACK, "datapack"},
		{token.IDENT, "demo"},
		{token.DEFINE, "define"},
		{token.IDENT, "add"},
		{token.LPAREN, "("},
		{token.IDENT, "x"},
		{token.COMMA, ","},
		{token.IDENT, "y"},
		{token.RPAREN, ")"},
		{token.IDENT, "x"},
		{token.PLUS, "+"},
		{token.IDENT, "y"},
		{token.LET, "let"},
		{token.LPAREN, "("},
		{token.IDENT, "a"},
		{token.ASSIGN, "="},
		{token.LBRACKET, "["},
		{token.NUMBER, "1"},
		{token.COMMA, ","},
		{token.NUMBER, "2.5"},
		{token.RBRACKET, "]"},
		{token.RPAREN, ")"},
		{token.IDENT, "a"},
		{token.LBRACKET, "["},
		{token.NUMBER, "0"},
		{token.COLON, ":"},
		{token.NUMBER, "1"},
		{token.RBRACKET, "]"},
		{token.IF, "if"},
		{token.BANG, "!"},
		{token.TRUE, "true"},
		{token.AND, "&&"},
		{token.IDENT, "x"},
		{token.NOT_EQ, "!="},
		{token.NUMBER, "3"},
		{token.OR, "||"},
		{token.IDENT, "y"},
		{token.LTE, "<="},
		{token.NUMBER, "4"},
		{token.THEN, "then"},
		{token.STRING, "a"},
		{token.ELSE, "else"},
		{token.STRING, "b"},
		{token.ON, "on"},
		{token.LPAREN, "("},
		{token.CONSUME_ITEM, "consume_item"},
		{token.LBRACE, "{"},
		{token.ITEM, "item"},
		{token.STRING, "minecraft:apple"},
		{token.RBRACE, "}"},
		{token.PIPE, "|"},
		{token.TICK, "tick"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.GRANT, "grant"},
		{token.IDENT, "foo"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.IDENT, "x"},
		{token.GTE, ">="},
		{token.NUMBER, "1"},
		{token.PERCENT, "%"},
		{token.NUMBER, "2"},
		{token.SLASH, "/"},
		{token.NUMBER, "3"},
		{token.ASTERISK, "*"},
		{token.NUMBER, "4"},
		{token.MINUS, "-"},
		{token.NUMBER, "5"},
		{token.EQ, "=="},
		{token.NUMBER, "6"},
		{token.GT, ">"},
		{token.NUMBER, "7"},
		{token.LT, "<"},
		{token.NUMBER, "8"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		require.Equal(t, tt.expectedType, tok.Type, "tests[%d] literal=%q", i, tok.Literal)
		require.Equal(t, tt.expectedLiteral, tok.Literal, "tests[%d]", i)
	}
}

func TestPositions(t *testing.T) {
	l := New("let\n  x = 1")

	tok := l.NextToken()
	assert.Equal(t, "1:1", tok.Pos())
	tok = l.NextToken()
	assert.Equal(t, "2:3", tok.Pos())
	tok = l.NextToken()
	assert.Equal(t, "2:5", tok.Pos())
	tok = l.NextToken()
	assert.Equal(t, "2:7", tok.Pos())
}

func TestStringEscapes(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"plain"`, "plain"},
		{`"a\nb"`, "a\nb"},
		{`"tab\there"`, "tab\there"},
		{`"quote \" inside"`, `quote " inside`},
		{`"back\\slash"`, `back\slash`},
		{`"\{braces\}"`, "{braces}"},
		{`"odd \q"`, `odd \q`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tok := New(tt.input).NextToken()
			require.Equal(t, token.TokenType(token.STRING), tok.Type)
			assert.Equal(t, tt.expected, tok.Literal)
			assert.Equal(t, []string{tt.expected}, tok.Parts)
		})
	}
}

func TestStringInterpolation(t *testing.T) {
	tok := New(`"x is {x + 1}, s is {f("}")}!"`).NextToken()
	require.Equal(t, token.TokenType(token.STRING), tok.Type)
	assert.Equal(t, []string{"x is ", "x + 1", ", s is ", `f("}")`, "!"}, tok.Parts)

	tok = New(`"{ {1} }"`).NextToken()
	assert.Equal(t, []string{"", " {1} ", ""}, tok.Parts)
}

func TestUnterminatedString(t *testing.T) {
	for _, input := range []string{`"abc`, `"abc\`, `"a {b"`} {
		tok := New(input).NextToken()
		assert.Equal(t, token.TokenType(token.ILLEGAL), tok.Type, input)
		assert.Equal(t, "unterminated string", tok.Literal, input)
	}
}

func TestIllegalCharacters(t *testing.T) {
	l := New("& @")
	tok := l.NextToken()
	assert.Equal(t, token.TokenType(token.ILLEGAL), tok.Type)
	assert.Equal(t, "&", tok.Literal)
	tok = l.NextToken()
	assert.Equal(t, token.TokenType(token.ILLEGAL), tok.Type)
	assert.Equal(t, "@", tok.Literal)
	assert.Equal(t, token.TokenType(token.EOF), l.NextToken().Type)
}

func TestNewAtOffsetsPositions(t *testing.T) {
	l := NewAt("a b", 3, 9)
	assert.Equal(t, "3:10", l.NextToken().Pos())
	assert.Equal(t, "3:12", l.NextToken().Pos())
}
