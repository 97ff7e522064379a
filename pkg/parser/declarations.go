package parser

import (
	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/ast"
	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/token"
)

// detailKeywords end an icon item expression when no NBT follows.
var detailKeywords = map[token.TokenType]bool{
	token.TITLE:       true,
	token.ICON:        true,
	token.DESCRIPTION: true,
	token.PARENT:      true,
	token.RBRACE:      true,
	token.COMMA:       true,
}

// advancement "name"? { title E icon E E? description E parent E }
func (p *Parser) parseAdvancementDeclaration() ast.Expression {
	decl := &ast.AdvancementDeclaration{Token: p.curToken}

	if !p.peekTokenIs(token.LBRACE) {
		p.nextToken()
		decl.Name = p.parseExpression(LOWEST)
		if decl.Name == nil {
			return nil
		}
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	p.nextToken()

	for !p.curTokenIs(token.RBRACE) {
		detail := p.curToken
		var slot *ast.Expression
		switch detail.Type {
		case token.COMMA:
			p.nextToken()
			continue
		case token.TITLE:
			slot = &decl.Title
		case token.ICON:
			slot = &decl.IconItem
		case token.DESCRIPTION:
			slot = &decl.Description
		case token.PARENT:
			slot = &decl.Parent
		default:
			p.errorf(detail, "expected advancement detail, got %s instead", detail.Type)
			return nil
		}
		if *slot != nil {
			p.errorf(detail, "duplicate %s in advancement", detail.Literal)
			return nil
		}

		p.nextToken()
		*slot = p.parseExpression(LOWEST)
		if *slot == nil {
			return nil
		}

		if detail.Type == token.ICON && !detailKeywords[p.peekToken.Type] {
			p.nextToken()
			decl.IconNBT = p.parseExpression(LOWEST)
			if decl.IconNBT == nil {
				return nil
			}
		}
		p.nextToken()

		if p.curTokenIs(token.EOF) {
			p.errorf(p.curToken, "unterminated advancement block")
			return nil
		}
	}

	return decl
}

// function "name"? { commands }
func (p *Parser) parseFunctionDeclaration() ast.Expression {
	decl := &ast.FunctionDeclaration{Token: p.curToken}

	if !p.peekTokenIs(token.LBRACE) {
		p.nextToken()
		decl.Name = p.parseExpression(LOWEST)
		if decl.Name == nil {
			return nil
		}
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}

	commands, ok := p.parseCommandBlock()
	if !ok {
		return nil
	}
	decl.Commands = commands
	return decl
}

// on (trigger) { commands }
func (p *Parser) parseOnBlock() ast.Expression {
	block := &ast.OnBlock{Token: p.curToken}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	block.Trigger = p.parseTrigger()
	if block.Trigger == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	commands, ok := p.parseCommandBlock()
	if !ok {
		return nil
	}
	block.Commands = commands
	return block
}

// parseCommandBlock expects curToken to be '{' and leaves it on '}'.
func (p *Parser) parseCommandBlock() ([]ast.Command, bool) {
	commands := []ast.Command{}
	p.nextToken()

	for !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.EOF) {
			p.errorf(p.curToken, "unterminated command block")
			return nil, false
		}
		if p.curTokenIs(token.COMMA) || p.curTokenIs(token.SEMICOLON) {
			p.nextToken()
			continue
		}

		command := p.parseCommand()
		if command == nil {
			return nil, false
		}
		commands = append(commands, command)
		p.nextToken()
	}

	return commands, true
}

func (p *Parser) parseCommand() ast.Command {
	tok := p.curToken

	switch tok.Type {
	case token.GRANT, token.REVOKE, token.EXECUTE:
		p.nextToken()
		name := p.parseExpression(LOWEST)
		if name == nil {
			return nil
		}
		switch tok.Type {
		case token.GRANT:
			return &ast.GrantCommand{Token: tok, Name: name}
		case token.REVOKE:
			return &ast.RevokeCommand{Token: tok, Name: name}
		default:
			return &ast.ExecuteCommand{Token: tok, Name: name}
		}
	default:
		value := p.parseExpression(LOWEST)
		if value == nil {
			return nil
		}
		return &ast.RawCommand{Token: tok, Value: value}
	}
}

// parseTrigger parses a left-associative '|' chain of trigger primaries.
func (p *Parser) parseTrigger() ast.Trigger {
	left := p.parseTriggerPrimary()
	if left == nil {
		return nil
	}

	for p.peekTokenIs(token.PIPE) {
		p.nextToken()
		combined := &ast.CombinedTrigger{Token: p.curToken, Left: left}
		p.nextToken()
		combined.Right = p.parseTriggerPrimary()
		if combined.Right == nil {
			return nil
		}
		left = combined
	}

	return left
}

func (p *Parser) parseTriggerPrimary() ast.Trigger {
	tok := p.curToken

	switch tok.Type {
	case token.LOAD:
		return &ast.LoadTrigger{Token: tok}
	case token.TICK:
		return &ast.TickTrigger{Token: tok}
	case token.CONSUME_ITEM, token.INVENTORY_CHANGED:
		var item *ast.ItemSpec
		if p.peekTokenIs(token.LBRACE) {
			p.nextToken()
			item = p.parseItemSpec()
			if item == nil {
				return nil
			}
		}
		if tok.Type == token.CONSUME_ITEM {
			return &ast.ConsumeItemTrigger{Token: tok, Item: item}
		}
		return &ast.InventoryChangedTrigger{Token: tok, Item: item}
	case token.STRING:
		if len(tok.Parts) > 1 {
			p.errorf(tok, "trigger name cannot be interpolated")
			return nil
		}
		return &ast.RawTrigger{Token: tok, Name: tok.Literal}
	case token.LPAREN:
		p.nextToken()
		inner := p.parseTrigger()
		if inner == nil || !p.expectPeek(token.RPAREN) {
			return nil
		}
		return inner
	default:
		p.errorf(tok, "expected trigger, got %s instead", tok.Type)
		return nil
	}
}

// { item "id" } | { tag "id" }; curToken is '{' on entry and '}' on exit.
func (p *Parser) parseItemSpec() *ast.ItemSpec {
	p.nextToken()
	spec := &ast.ItemSpec{Token: p.curToken}

	switch p.curToken.Type {
	case token.ITEM:
	case token.TAG:
		spec.IsTag = true
	default:
		p.errorf(p.curToken, "expected item or tag, got %s instead", p.curToken.Type)
		return nil
	}

	if !p.expectPeek(token.STRING) {
		return nil
	}
	if len(p.curToken.Parts) > 1 {
		p.errorf(p.curToken, "item identifier cannot be interpolated")
		return nil
	}
	spec.ID = p.curToken.Literal

	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return spec
}
