package ast

import (
	"bytes"
	"strconv"

	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/token"
)

// AdvancementDeclaration declares an advancement. Name and every detail
// are nil when omitted.
type AdvancementDeclaration struct {
	Token       token.Token // 'advancement'
	Name        Expression
	Title       Expression
	IconItem    Expression
	IconNBT     Expression
	Description Expression
	Parent      Expression
}

func (ad *AdvancementDeclaration) expressionNode()      {}
func (ad *AdvancementDeclaration) TokenLiteral() string { return ad.Token.Literal }
func (ad *AdvancementDeclaration) Start() token.Token   { return ad.Token }
func (ad *AdvancementDeclaration) String() string {
	var out bytes.Buffer
	out.WriteString("advancement ")
	if ad.Name != nil {
		out.WriteString(ad.Name.String() + " ")
	}
	out.WriteString("{")
	if ad.Title != nil {
		out.WriteString(" title " + ad.Title.String())
	}
	if ad.IconItem != nil {
		out.WriteString(" icon " + ad.IconItem.String())
		if ad.IconNBT != nil {
			out.WriteString(" " + ad.IconNBT.String())
		}
	}
	if ad.Description != nil {
		out.WriteString(" description " + ad.Description.String())
	}
	if ad.Parent != nil {
		out.WriteString(" parent " + ad.Parent.String())
	}
	out.WriteString(" }")
	return out.String()
}

type FunctionDeclaration struct {
	Token    token.Token // 'function'
	Name     Expression
	Commands []Command
}

func (fd *FunctionDeclaration) expressionNode()      {}
func (fd *FunctionDeclaration) TokenLiteral() string { return fd.Token.Literal }
func (fd *FunctionDeclaration) Start() token.Token   { return fd.Token }
func (fd *FunctionDeclaration) String() string {
	head := "function "
	if fd.Name != nil {
		head += fd.Name.String() + " "
	}
	return head + commandBlock(fd.Commands)
}

// OnBlock is a reactive block: Commands run when Trigger fires.
type OnBlock struct {
	Token    token.Token // 'on'
	Trigger  Trigger
	Commands []Command
}

func (ob *OnBlock) expressionNode()      {}
func (ob *OnBlock) TokenLiteral() string { return ob.Token.Literal }
func (ob *OnBlock) Start() token.Token   { return ob.Token }
func (ob *OnBlock) String() string {
	return "on (" + ob.Trigger.String() + ") " + commandBlock(ob.Commands)
}

func commandBlock(commands []Command) string {
	var out bytes.Buffer
	out.WriteString("{")
	for _, c := range commands {
		out.WriteString(" " + c.String())
	}
	out.WriteString(" }")
	return out.String()
}

// Commands

type Command interface {
	Node
	commandNode()
}

type GrantCommand struct {
	Token token.Token
	Name  Expression
}

func (gc *GrantCommand) commandNode()         {}
func (gc *GrantCommand) TokenLiteral() string { return gc.Token.Literal }
func (gc *GrantCommand) Start() token.Token   { return gc.Token }
func (gc *GrantCommand) String() string       { return "grant " + gc.Name.String() }

type RevokeCommand struct {
	Token token.Token
	Name  Expression
}

func (rc *RevokeCommand) commandNode()         {}
func (rc *RevokeCommand) TokenLiteral() string { return rc.Token.Literal }
func (rc *RevokeCommand) Start() token.Token   { return rc.Token }
func (rc *RevokeCommand) String() string       { return "revoke " + rc.Name.String() }

type ExecuteCommand struct {
	Token token.Token
	Name  Expression
}

func (ec *ExecuteCommand) commandNode()         {}
func (ec *ExecuteCommand) TokenLiteral() string { return ec.Token.Literal }
func (ec *ExecuteCommand) Start() token.Token   { return ec.Token }
func (ec *ExecuteCommand) String() string       { return "execute " + ec.Name.String() }

// RawCommand is any expression yielding a command string or a list of them.
type RawCommand struct {
	Token token.Token
	Value Expression
}

func (rc *RawCommand) commandNode()         {}
func (rc *RawCommand) TokenLiteral() string { return rc.Token.Literal }
func (rc *RawCommand) Start() token.Token   { return rc.Token }
func (rc *RawCommand) String() string       { return rc.Value.String() }

// Triggers

type Trigger interface {
	Node
	triggerNode()
}

type LoadTrigger struct{ Token token.Token }

func (lt *LoadTrigger) triggerNode()         {}
func (lt *LoadTrigger) TokenLiteral() string { return lt.Token.Literal }
func (lt *LoadTrigger) Start() token.Token   { return lt.Token }
func (lt *LoadTrigger) String() string       { return "load" }

type TickTrigger struct{ Token token.Token }

func (tt *TickTrigger) triggerNode()         {}
func (tt *TickTrigger) TokenLiteral() string { return tt.Token.Literal }
func (tt *TickTrigger) Start() token.Token   { return tt.Token }
func (tt *TickTrigger) String() string       { return "tick" }

type ConsumeItemTrigger struct {
	Token token.Token
	Item  *ItemSpec
}

func (ct *ConsumeItemTrigger) triggerNode()         {}
func (ct *ConsumeItemTrigger) TokenLiteral() string { return ct.Token.Literal }
func (ct *ConsumeItemTrigger) Start() token.Token   { return ct.Token }
func (ct *ConsumeItemTrigger) String() string {
	if ct.Item == nil {
		return "consume_item"
	}
	return "consume_item " + ct.Item.String()
}

type InventoryChangedTrigger struct {
	Token token.Token
	Item  *ItemSpec
}

func (it *InventoryChangedTrigger) triggerNode()         {}
func (it *InventoryChangedTrigger) TokenLiteral() string { return it.Token.Literal }
func (it *InventoryChangedTrigger) Start() token.Token   { return it.Token }
func (it *InventoryChangedTrigger) String() string {
	if it.Item == nil {
		return "inventory_changed"
	}
	return "inventory_changed " + it.Item.String()
}

// RawTrigger names a game trigger directly, e.g. "minecraft:slept_in_bed".
type RawTrigger struct {
	Token token.Token
	Name  string
}

func (rt *RawTrigger) triggerNode()         {}
func (rt *RawTrigger) TokenLiteral() string { return rt.Token.Literal }
func (rt *RawTrigger) Start() token.Token   { return rt.Token }
func (rt *RawTrigger) String() string       { return strconv.Quote(rt.Name) }

type CombinedTrigger struct {
	Token token.Token // '|'
	Left  Trigger
	Right Trigger
}

func (ct *CombinedTrigger) triggerNode()         {}
func (ct *CombinedTrigger) TokenLiteral() string { return ct.Token.Literal }
func (ct *CombinedTrigger) Start() token.Token   { return ct.Token }
func (ct *CombinedTrigger) String() string {
	return ct.Left.String() + " | " + ct.Right.String()
}

// ItemSpec matches either a single item or an item tag.
type ItemSpec struct {
	Token token.Token // 'item' or 'tag'
	IsTag bool
	ID    string
}

func (is *ItemSpec) TokenLiteral() string { return is.Token.Literal }
func (is *ItemSpec) Start() token.Token   { return is.Token }
func (is *ItemSpec) String() string {
	if is.IsTag {
		return "{ tag " + strconv.Quote(is.ID) + " }"
	}
	return "{ item " + strconv.Quote(is.ID) + " }"
}
