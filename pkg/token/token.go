package token

import "fmt"

type TokenType string

const (
	// Special
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	// Identifiers & Literals
	IDENT  = "IDENT"
	NUMBER = "NUMBER"
	STRING = "STRING"

	// Operators
	ASSIGN   = "="
	PLUS     = "+"
	MINUS    = "-"
	BANG     = "!"
	ASTERISK = "*"
	SLASH    = "/"
	PERCENT  = "%"
	AND      = "&&"
	OR       = "||"
	PIPE     = "|" // trigger combination

	LT     = "<"
	GT     = ">"
	EQ     = "=="
	NOT_EQ = "!="
	LTE    = "<="
	GTE    = ">="

	// Delimiters
	COMMA     = ","
	COLON     = ":"
	SEMICOLON = ";"
	LPAREN    = "("
	RPAREN    = ")"
	LBRACE    = "{"
	RBRACE    = "}"
	LBRACKET  = "["
	RBRACKET  = "]"

	// Keywords
	DATAPACK    = "DATAPACK"
	IMPORT      = "IMPORT"
	ADVANCEMENT = "ADVANCEMENT"
	FUNCTION    = "FUNCTION"
	ON          = "ON"
	TITLE       = "TITLE"
	ICON        = "ICON"
	DESCRIPTION = "DESCRIPTION"
	PARENT      = "PARENT"
	GRANT       = "GRANT"
	REVOKE      = "REVOKE"
	EXECUTE     = "EXECUTE"
	LET         = "LET"
	DEFINE      = "DEFINE"
	LAMBDA      = "LAMBDA"
	IF          = "IF"
	THEN        = "THEN"
	ELSE        = "ELSE"
	FOR         = "FOR"
	IN          = "IN"
	BEGIN       = "BEGIN"
	PRINT       = "PRINT"
	TRUE        = "TRUE"
	FALSE       = "FALSE"

	// Trigger keywords
	LOAD              = "LOAD"
	TICK              = "TICK"
	CONSUME_ITEM      = "CONSUME_ITEM"
	INVENTORY_CHANGED = "INVENTORY_CHANGED"
	ITEM              = "ITEM"
	TAG               = "TAG"
)

type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int

	// Parts holds the raw pieces of a STRING token: even indices are text,
	// odd indices are the source of embedded {expressions}.
	Parts []string
}

func (t Token) String() string {
	return fmt.Sprintf("Token(%s, %q, %d:%d)", t.Type, t.Literal, t.Line, t.Column)
}

// Pos renders the token position the way diagnostics print it.
func (t Token) Pos() string {
	return fmt.Sprintf("%d:%d", t.Line, t.Column)
}

var keywords = map[string]TokenType{
	"datapack":          DATAPACK,
	"import":            IMPORT,
	"advancement":       ADVANCEMENT,
	"function":          FUNCTION,
	"on":                ON,
	"title":             TITLE,
	"icon":              ICON,
	"description":       DESCRIPTION,
	"parent":            PARENT,
	"grant":             GRANT,
	"revoke":            REVOKE,
	"execute":           EXECUTE,
	"let":               LET,
	"define":            DEFINE,
	"lambda":            LAMBDA,
	"if":                IF,
	"then":              THEN,
	"else":              ELSE,
	"for":               FOR,
	"in":                IN,
	"begin":             BEGIN,
	"print":             PRINT,
	"true":              TRUE,
	"false":             FALSE,
	"load":              LOAD,
	"tick":              TICK,
	"consume_item":      CONSUME_ITEM,
	"inventory_changed": INVENTORY_CHANGED,
	"item":              ITEM,
	"tag":               TAG,
}

func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
