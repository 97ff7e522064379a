package lexer

import (
	"strings"

	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/token"
)

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
	line         int
	column       int
}

func New(input string) *Lexer {
	return NewAt(input, 1, 0)
}

// NewAt creates a lexer whose positions start at line:column. Interpolated
// string segments use it so their diagnostics point into the enclosing file.
func NewAt(input string, line, column int) *Lexer {
	l := &Lexer{
		input:  input,
		line:   line,
		column: column,
	}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition += 1
	l.column += 1
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) NextToken() token.Token {
	var tok token.Token

	l.skipWhitespace()

	// Skip comments
	for l.ch == '#' {
		l.skipComment()
		l.skipWhitespace()
	}

	line, col := l.line, l.column

	switch l.ch {
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.EQ, Literal: "==", Line: line, Column: col}
		} else {
			tok = newToken(token.ASSIGN, l.ch, line, col)
		}
	case '+':
		tok = newToken(token.PLUS, l.ch, line, col)
	case '-':
		tok = newToken(token.MINUS, l.ch, line, col)
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.NOT_EQ, Literal: "!=", Line: line, Column: col}
		} else {
			tok = newToken(token.BANG, l.ch, line, col)
		}
	case '/':
		tok = newToken(token.SLASH, l.ch, line, col)
	case '*':
		tok = newToken(token.ASTERISK, l.ch, line, col)
	case '%':
		tok = newToken(token.PERCENT, l.ch, line, col)
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.LTE, Literal: "<=", Line: line, Column: col}
		} else {
			tok = newToken(token.LT, l.ch, line, col)
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.GTE, Literal: ">=", Line: line, Column: col}
		} else {
			tok = newToken(token.GT, l.ch, line, col)
		}
	case '&':
		if l.peekChar() == '&' {
			l.readChar()
			tok = token.Token{Type: token.AND, Literal: "&&", Line: line, Column: col}
		} else {
			tok = newToken(token.ILLEGAL, l.ch, line, col)
		}
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			tok = token.Token{Type: token.OR, Literal: "||", Line: line, Column: col}
		} else {
			tok = newToken(token.PIPE, l.ch, line, col)
		}
	case ',':
		tok = newToken(token.COMMA, l.ch, line, col)
	case ':':
		tok = newToken(token.COLON, l.ch, line, col)
	case ';':
		tok = newToken(token.SEMICOLON, l.ch, line, col)
	case '(':
		tok = newToken(token.LPAREN, l.ch, line, col)
	case ')':
		tok = newToken(token.RPAREN, l.ch, line, col)
	case '{':
		tok = newToken(token.LBRACE, l.ch, line, col)
	case '}':
		tok = newToken(token.RBRACE, l.ch, line, col)
	case '[':
		tok = newToken(token.LBRACKET, l.ch, line, col)
	case ']':
		tok = newToken(token.RBRACKET, l.ch, line, col)
	case '"':
		parts, ok := l.readString()
		if !ok {
			return token.Token{Type: token.ILLEGAL, Literal: "unterminated string", Line: line, Column: col}
		}
		tok = token.Token{Type: token.STRING, Literal: strings.Join(parts, ""), Line: line, Column: col, Parts: parts}
	case 0:
		tok = token.Token{Type: token.EOF, Literal: "", Line: line, Column: col}
	default:
		if isLetter(l.ch) {
			literal := l.readIdentifier()
			return token.Token{Type: token.LookupIdent(literal), Literal: literal, Line: line, Column: col}
		} else if isDigit(l.ch) {
			return token.Token{Type: token.NUMBER, Literal: l.readNumber(), Line: line, Column: col}
		}
		tok = newToken(token.ILLEGAL, l.ch, line, col)
	}

	l.readChar()
	return tok
}

func newToken(tokenType token.TokenType, ch byte, line, col int) token.Token {
	return token.Token{Type: tokenType, Literal: string(ch), Line: line, Column: col}
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
		l.readChar()
	}
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func (l *Lexer) readNumber() string {
	position := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[position:l.position]
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

// readString consumes a string literal, leaving l.ch on the closing quote.
// The result alternates text and embedded expression source, starting and
// ending with text.
func (l *Lexer) readString() ([]string, bool) {
	var parts []string
	var text strings.Builder
	l.readChar() // Skip opening quote

	for l.ch != '"' {
		switch l.ch {
		case 0:
			return nil, false
		case '\\':
			l.readChar()
			switch l.ch {
			case 'n':
				text.WriteByte('\n')
			case 't':
				text.WriteByte('\t')
			case 'r':
				text.WriteByte('\r')
			case '\\', '"', '{', '}':
				text.WriteByte(l.ch)
			case 0:
				return nil, false
			default:
				// Unknown escape, just include the backslash and character
				text.WriteByte('\\')
				text.WriteByte(l.ch)
			}
		case '{':
			src, ok := l.readInterpolation()
			if !ok {
				return nil, false
			}
			parts = append(parts, text.String(), src)
			text.Reset()
		default:
			text.WriteByte(l.ch)
		}
		l.readChar()
	}

	return append(parts, text.String()), true
}

// readInterpolation consumes a balanced {...} segment and returns its inner
// source. Nested braces and string literals are skipped over.
func (l *Lexer) readInterpolation() (string, bool) {
	depth := 1
	l.readChar() // Skip opening brace
	start := l.position
	for {
		switch l.ch {
		case 0:
			return "", false
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return l.input[start:l.position], true
			}
		case '"':
			l.readChar()
			for l.ch != '"' {
				if l.ch == 0 {
					return "", false
				}
				if l.ch == '\\' {
					l.readChar()
				}
				l.readChar()
			}
		}
		l.readChar()
	}
}

func (l *Lexer) skipComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}
