package parser

import (
	"fmt"
	"strconv"

	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/ast"
	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/lexer"
	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/token"
)

const (
	_ int = iota
	LOWEST
	LOGICAL_OR  // ||
	LOGICAL_AND // &&
	EQUALS      // == or !=
	LESSGREATER // > or <
	SUM         // +
	PRODUCT     // *
	PREFIX      // -X or !X
	CALL        // myFunction(X) or list[X]
)

var precedences = map[token.TokenType]int{
	token.OR:       LOGICAL_OR,
	token.AND:      LOGICAL_AND,
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       LESSGREATER,
	token.GT:       LESSGREATER,
	token.LTE:      LESSGREATER,
	token.GTE:      LESSGREATER,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.SLASH:    PRODUCT,
	token.ASTERISK: PRODUCT,
	token.PERCENT:  PRODUCT,
	token.LPAREN:   CALL,
	token.LBRACKET: CALL,
}

var binaryOperators = map[token.TokenType]ast.BinaryOperator{
	token.OR:       ast.OR,
	token.AND:      ast.AND,
	token.EQ:       ast.EQ,
	token.NOT_EQ:   ast.NEQ,
	token.LT:       ast.LT,
	token.LTE:      ast.LTE,
	token.GT:       ast.GT,
	token.GTE:      ast.GTE,
	token.PLUS:     ast.ADD,
	token.MINUS:    ast.SUB,
	token.ASTERISK: ast.MUL,
	token.SLASH:    ast.DIV,
	token.PERCENT:  ast.MOD,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

type Parser struct {
	l      *lexer.Lexer
	errors []string

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{
		l:      l,
		errors: []string{},
	}

	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.NUMBER, p.parseNumberLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.TRUE, p.parseBoolean)
	p.registerPrefix(token.FALSE, p.parseBoolean)
	p.registerPrefix(token.BANG, p.parseUnaryExpression)
	p.registerPrefix(token.MINUS, p.parseUnaryExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.LBRACKET, p.parseListLiteral)
	p.registerPrefix(token.LET, p.parseLetExpression)
	p.registerPrefix(token.DEFINE, p.parseDefine)
	p.registerPrefix(token.LAMBDA, p.parseDefine)
	p.registerPrefix(token.IF, p.parseIfExpression)
	p.registerPrefix(token.FOR, p.parseForExpression)
	p.registerPrefix(token.BEGIN, p.parseBeginExpression)
	p.registerPrefix(token.PRINT, p.parsePrintExpression)
	p.registerPrefix(token.IMPORT, p.parseImportExpression)
	p.registerPrefix(token.ADVANCEMENT, p.parseAdvancementDeclaration)
	p.registerPrefix(token.FUNCTION, p.parseFunctionDeclaration)
	p.registerPrefix(token.ON, p.parseOnBlock)

	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	for tt := range binaryOperators {
		p.registerInfix(tt, p.parseBinaryExpression)
	}
	p.registerInfix(token.LPAREN, p.parseCallExpression)
	p.registerInfix(token.LBRACKET, p.parseIndexExpression)

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()

	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

// ParseProgram parses an optional "datapack <name>" header followed by
// top-level expressions. Optional ';' separators are skipped.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{Token: p.curToken}
	program.Expressions = []ast.Expression{}

	if p.curTokenIs(token.DATAPACK) {
		if p.peekTokenIs(token.IDENT) || p.peekTokenIs(token.STRING) {
			p.nextToken()
			program.Name = p.curToken.Literal
		} else {
			p.peekError(token.IDENT)
		}
		p.nextToken()
	}

	for !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.SEMICOLON) {
			p.nextToken()
			continue
		}
		expr := p.parseExpression(LOWEST)
		if expr != nil {
			program.Expressions = append(program.Expressions, expr)
		}
		p.nextToken()
	}

	return program
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	if p.curTokenIs(token.ILLEGAL) {
		p.errorf(p.curToken, "illegal token %q", p.curToken.Literal)
		return nil
	}
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	leftExp := prefix()

	for precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}

		p.nextToken()

		leftExp = infix(leftExp)
	}

	return leftExp
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	lit := &ast.NumberLiteral{Token: p.curToken}

	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.errorf(p.curToken, "could not parse %q as number", p.curToken.Literal)
		return nil
	}

	lit.Value = value
	return lit
}

func (p *Parser) parseBoolean() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	lit := &ast.StringLiteral{Token: p.curToken}
	parts := p.curToken.Parts
	if len(parts) == 0 {
		parts = []string{p.curToken.Literal}
	}

	for i, part := range parts {
		if i%2 == 0 {
			lit.Segments = append(lit.Segments, part)
			continue
		}
		sub := New(lexer.NewAt(part, p.curToken.Line, p.curToken.Column))
		expr := sub.parseExpression(LOWEST)
		if !sub.peekTokenIs(token.EOF) {
			sub.errorf(sub.peekToken, "unexpected %s in interpolation", sub.peekToken.Type)
		}
		p.errors = append(p.errors, sub.errors...)
		if expr == nil {
			return nil
		}
		lit.Parts = append(lit.Parts, expr)
	}

	return lit
}

func (p *Parser) parseUnaryExpression() ast.Expression {
	expression := &ast.UnaryExpression{Token: p.curToken, Operator: ast.NEG}
	if p.curTokenIs(token.BANG) {
		expression.Operator = ast.NOT
	}

	p.nextToken()
	expression.Operand = p.parseExpression(PREFIX)
	if expression.Operand == nil {
		return nil
	}
	return expression
}

func (p *Parser) parseBinaryExpression(left ast.Expression) ast.Expression {
	expression := &ast.BinaryExpression{
		Token:    p.curToken,
		Operator: binaryOperators[p.curToken.Type],
		Left:     left,
	}

	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)
	if left == nil || expression.Right == nil {
		return nil
	}

	return expression
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()

	exp := p.parseExpression(LOWEST)

	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	return exp
}

func (p *Parser) parseListLiteral() ast.Expression {
	list := &ast.ListLiteral{Token: p.curToken}
	elements, ok := p.parseExpressionList(token.RBRACKET)
	if !ok {
		return nil
	}
	list.Elements = elements
	return list
}

func (p *Parser) parseExpressionList(end token.TokenType) ([]ast.Expression, bool) {
	list := []ast.Expression{}

	if p.peekTokenIs(end) {
		p.nextToken()
		return list, true
	}

	p.nextToken()
	first := p.parseExpression(LOWEST)
	if first == nil {
		return nil, false
	}
	list = append(list, first)

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		next := p.parseExpression(LOWEST)
		if next == nil {
			return nil, false
		}
		list = append(list, next)
	}

	if !p.expectPeek(end) {
		return nil, false
	}

	return list, true
}

func (p *Parser) parseCallExpression(function ast.Expression) ast.Expression {
	exp := &ast.CallExpression{Token: p.curToken, Function: function}
	args, ok := p.parseExpressionList(token.RPAREN)
	if !ok || function == nil {
		return nil
	}
	exp.Arguments = args
	return exp
}

// parseIndexExpression handles both target[index] and target[from:to].
func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	var from ast.Expression

	if !p.peekTokenIs(token.COLON) {
		p.nextToken()
		from = p.parseExpression(LOWEST)
		if from == nil {
			return nil
		}
		if p.peekTokenIs(token.RBRACKET) {
			p.nextToken()
			if left == nil {
				return nil
			}
			return &ast.IndexExpression{Token: tok, Target: left, Index: from}
		}
	}

	if !p.expectPeek(token.COLON) {
		return nil
	}
	slice := &ast.SliceExpression{Token: tok, Target: left, From: from}
	if !p.peekTokenIs(token.RBRACKET) {
		p.nextToken()
		slice.To = p.parseExpression(LOWEST)
		if slice.To == nil {
			return nil
		}
	}
	if !p.expectPeek(token.RBRACKET) || left == nil {
		return nil
	}
	return slice
}

// let (a = 1, b = 2) body
func (p *Parser) parseLetExpression() ast.Expression {
	expression := &ast.LetExpression{Token: p.curToken}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}

	if !p.peekTokenIs(token.RPAREN) {
		for {
			if !p.expectPeek(token.IDENT) {
				return nil
			}
			expression.Names = append(expression.Names, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})
			if !p.expectPeek(token.ASSIGN) {
				return nil
			}
			p.nextToken()
			value := p.parseExpression(LOWEST)
			if value == nil {
				return nil
			}
			expression.Values = append(expression.Values, value)
			if !p.peekTokenIs(token.COMMA) {
				break
			}
			p.nextToken()
		}
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	p.nextToken()
	expression.Body = p.parseExpression(LOWEST)
	if expression.Body == nil {
		return nil
	}
	return expression
}

// define name(params) body | lambda(params) body
func (p *Parser) parseDefine() ast.Expression {
	def := &ast.Define{Token: p.curToken}

	if p.curTokenIs(token.DEFINE) {
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		def.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}

	params, ok := p.parseFunctionParameters()
	if !ok {
		return nil
	}
	def.Parameters = params

	p.nextToken()
	def.Body = p.parseExpression(LOWEST)
	if def.Body == nil {
		return nil
	}
	return def
}

func (p *Parser) parseFunctionParameters() ([]*ast.Identifier, bool) {
	identifiers := []*ast.Identifier{}

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return identifiers, true
	}

	if !p.expectPeek(token.IDENT) {
		return nil, false
	}
	identifiers = append(identifiers, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil, false
		}
		identifiers = append(identifiers, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})
	}

	if !p.expectPeek(token.RPAREN) {
		return nil, false
	}

	return identifiers, true
}

// if pred then a else b
func (p *Parser) parseIfExpression() ast.Expression {
	expression := &ast.IfExpression{Token: p.curToken}

	p.nextToken()
	expression.Predicate = p.parseExpression(LOWEST)

	if !p.expectPeek(token.THEN) {
		return nil
	}
	p.nextToken()
	expression.Consequent = p.parseExpression(LOWEST)

	if !p.expectPeek(token.ELSE) {
		return nil
	}
	p.nextToken()
	expression.Alternative = p.parseExpression(LOWEST)

	if expression.Predicate == nil || expression.Consequent == nil || expression.Alternative == nil {
		return nil
	}
	return expression
}

// for (x in iterable) body
func (p *Parser) parseForExpression() ast.Expression {
	expression := &ast.ForExpression{Token: p.curToken}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	expression.Iterator = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectPeek(token.IN) {
		return nil
	}

	p.nextToken()
	expression.Iterable = p.parseExpression(LOWEST)

	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	p.nextToken()
	expression.Body = p.parseExpression(LOWEST)
	if expression.Iterable == nil || expression.Body == nil {
		return nil
	}

	return expression
}

// begin { a; b; c }
func (p *Parser) parseBeginExpression() ast.Expression {
	expression := &ast.BeginExpression{Token: p.curToken}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	p.nextToken()

	for !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.EOF) {
			p.errorf(p.curToken, "unterminated begin block")
			return nil
		}
		if p.curTokenIs(token.SEMICOLON) {
			p.nextToken()
			continue
		}
		expr := p.parseExpression(LOWEST)
		if expr == nil {
			return nil
		}
		expression.Expressions = append(expression.Expressions, expr)
		p.nextToken()
	}

	if len(expression.Expressions) == 0 {
		p.errorf(expression.Token, "begin block must contain at least one expression")
		return nil
	}

	return expression
}

func (p *Parser) parsePrintExpression() ast.Expression {
	expression := &ast.PrintExpression{Token: p.curToken}
	p.nextToken()
	expression.Value = p.parseExpression(LOWEST)
	if expression.Value == nil {
		return nil
	}
	return expression
}

func (p *Parser) parseImportExpression() ast.Expression {
	expression := &ast.ImportExpression{Token: p.curToken}
	if !p.expectPeek(token.STRING) {
		return nil
	}
	if len(p.curToken.Parts) > 1 {
		p.errorf(p.curToken, "import path cannot be interpolated")
		return nil
	}
	expression.Path = p.curToken.Literal
	return expression
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) Errors() []string {
	return p.errors
}

func (p *Parser) errorf(tok token.Token, format string, a ...any) {
	p.errors = append(p.errors, tok.Pos()+": "+fmt.Sprintf(format, a...))
}

func (p *Parser) peekError(t token.TokenType) {
	p.errorf(p.peekToken, "expected next token to be %s, got %s instead", t, p.peekToken.Type)
}

func (p *Parser) noPrefixParseFnError(tok token.Token) {
	p.errorf(tok, "no prefix parse function for %s found", tok.Type)
}

func (p *Parser) peekPrecedence() int {
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}
	return LOWEST
}

func (p *Parser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType token.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}
