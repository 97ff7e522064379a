package eval

import (
	"strconv"
	"strings"

	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/ast"
	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/datapack"
)

const (
	defaultAdvancementPrefix = "advancement"
	defaultFunctionPrefix    = "function"
)

// Generated names start with '.', which ValidName rejects as a first
// character, so they never collide with declared names.
func generatedName(prefix string, counter *int) string {
	name := "." + strings.ToLower(prefix) + strconv.Itoa(*counter)
	*counter++
	return name
}

func (ev *Evaluator) generateAdvancementName(prefix string) string {
	return generatedName(prefix, &ev.advancementCount)
}

func (ev *Evaluator) generateFunctionName(prefix string) string {
	return generatedName(prefix, &ev.functionCount)
}

// resolveName evaluates an explicit artifact name, or generates one when
// the declaration has none.
func (ev *Evaluator) resolveName(expr ast.Expression, env *Environment, generate func() string) (string, error) {
	if expr == nil {
		return generate(), nil
	}
	s, err := ev.evalString(expr, env, "name")
	if err != nil {
		return "", err
	}
	if !datapack.ValidName(s) {
		return "", newError(SyntaxError, expr, "invalid name %q", s)
	}
	return s, nil
}

func (ev *Evaluator) evalString(expr ast.Expression, env *Environment, what string) (string, error) {
	v, err := ev.Eval(expr, env)
	if err != nil {
		return "", err
	}
	s, ok := v.(*String)
	if !ok {
		return "", newError(TypeError, expr, "%s must be STRING, got %s", what, v.Kind())
	}
	return s.Value, nil
}

func (ev *Evaluator) evalOptionalString(expr ast.Expression, env *Environment, what string) (*string, error) {
	if expr == nil {
		return nil, nil
	}
	s, err := ev.evalString(expr, env, what)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (ev *Evaluator) insert(node ast.Node, artifact datapack.Artifact) error {
	if err := ev.store.Insert(artifact); err != nil {
		return &Error{Kind: NameConflict, Expr: node, Message: err.Error()}
	}
	ev.logger.Debug("artifact defined", "type", artifactType(artifact), "name", artifact.ArtifactName())
	return nil
}

func artifactType(a datapack.Artifact) string {
	switch a.(type) {
	case *datapack.Function:
		return "function"
	case *datapack.Advancement:
		return "advancement"
	default:
		return "unknown"
	}
}

func (ev *Evaluator) evalAdvancementDeclaration(node *ast.AdvancementDeclaration, env *Environment) (Value, error) {
	name, err := ev.resolveName(node.Name, env, func() string {
		return ev.generateAdvancementName(defaultAdvancementPrefix)
	})
	if err != nil {
		return nil, err
	}

	adv := &datapack.Advancement{Name: name}
	details := []struct {
		expr ast.Expression
		dst  **string
		what string
	}{
		{node.Title, &adv.Title, "title"},
		{node.IconItem, &adv.IconItem, "icon item"},
		{node.IconNBT, &adv.IconNBT, "icon nbt"},
		{node.Description, &adv.Description, "description"},
		{node.Parent, &adv.Parent, "parent"},
	}
	for _, d := range details {
		if *d.dst, err = ev.evalOptionalString(d.expr, env, d.what); err != nil {
			return nil, err
		}
	}

	if err := ev.insert(node, adv); err != nil {
		return nil, err
	}
	return &String{Value: name}, nil
}

func (ev *Evaluator) evalFunctionDeclaration(node *ast.FunctionDeclaration, env *Environment) (Value, error) {
	name, err := ev.resolveName(node.Name, env, func() string {
		return ev.generateFunctionName(defaultFunctionPrefix)
	})
	if err != nil {
		return nil, err
	}
	commands, err := ev.evalCommands(node.Commands, env)
	if err != nil {
		return nil, err
	}

	if err := ev.insert(node, &datapack.Function{Name: name, Commands: commands}); err != nil {
		return nil, err
	}
	return &String{Value: name}, nil
}

// evalOnBlock turns a reactive block into artifacts. A bare load or tick
// trigger yields a tagged function and the empty string. Any other trigger
// yields a function plus an advancement that rewards it, and the
// advancement's name.
func (ev *Evaluator) evalOnBlock(node *ast.OnBlock, env *Environment) (Value, error) {
	var tag datapack.FunctionTag
	var triggers []datapack.Trigger
	switch node.Trigger.(type) {
	case *ast.LoadTrigger:
		tag = datapack.TagLoad
	case *ast.TickTrigger:
		tag = datapack.TagTick
	default:
		var err error
		if triggers, err = flattenTrigger(node.Trigger); err != nil {
			return nil, err
		}
	}

	commands, err := ev.evalCommands(node.Commands, env)
	if err != nil {
		return nil, err
	}

	if tag != datapack.TagNone {
		fn := &datapack.Function{Name: ev.generateFunctionName(defaultFunctionPrefix), Commands: commands, Tag: tag}
		if err := ev.insert(node, fn); err != nil {
			return nil, err
		}
		return &String{}, nil
	}

	fn := &datapack.Function{Name: ev.generateFunctionName(defaultFunctionPrefix), Commands: commands}
	adv := &datapack.Advancement{
		Name:           ev.generateAdvancementName(defaultAdvancementPrefix),
		RewardFunction: &fn.Name,
		Triggers:       triggers,
	}
	// check both before inserting either so a conflict leaves the store as it was
	for _, name := range []string{fn.Name, adv.Name} {
		if _, exists := ev.store.Get(name); exists {
			return nil, newError(NameConflict, node, "%s: %q is already defined", datapack.ErrNameConflict, name)
		}
	}
	if err := ev.insert(node, fn); err != nil {
		return nil, err
	}
	if err := ev.insert(node, adv); err != nil {
		return nil, err
	}
	return &String{Value: adv.Name}, nil
}

// flattenTrigger lists the criteria of a trigger expression left to right.
// Load and tick cannot take part in a combination.
func flattenTrigger(t ast.Trigger) ([]datapack.Trigger, error) {
	switch t := t.(type) {
	case *ast.CombinedTrigger:
		left, err := flattenTrigger(t.Left)
		if err != nil {
			return nil, err
		}
		right, err := flattenTrigger(t.Right)
		if err != nil {
			return nil, err
		}
		return append(left, right...), nil
	case *ast.ConsumeItemTrigger:
		trigger := &datapack.ConsumeItem{}
		if t.Item != nil {
			trigger.Item = itemSpec(t.Item)
		}
		return []datapack.Trigger{trigger}, nil
	case *ast.InventoryChangedTrigger:
		trigger := &datapack.InventoryChanged{}
		if t.Item != nil {
			trigger.Item = itemSpec(t.Item)
		}
		return []datapack.Trigger{trigger}, nil
	case *ast.RawTrigger:
		return []datapack.Trigger{&datapack.RawTrigger{Name: t.Name}}, nil
	case *ast.LoadTrigger, *ast.TickTrigger:
		return nil, newError(SyntaxError, t, "%s cannot be combined with other triggers", t.String())
	default:
		return nil, newError(SyntaxError, t, "unsupported trigger %T", t)
	}
}

func itemSpec(spec *ast.ItemSpec) datapack.ItemSpec {
	if spec.IsTag {
		return &datapack.TagMatcher{ID: spec.ID}
	}
	return &datapack.ItemMatcher{ID: spec.ID}
}

// evalCommands renders a command block into command lines, in order.
func (ev *Evaluator) evalCommands(cmds []ast.Command, env *Environment) ([]string, error) {
	var lines []string
	for _, cmd := range cmds {
		switch cmd := cmd.(type) {
		case *ast.GrantCommand:
			name, err := ev.advancementReference(cmd.Name, env)
			if err != nil {
				return nil, err
			}
			lines = append(lines, "advancement grant @s only "+name)

		case *ast.RevokeCommand:
			name, err := ev.advancementReference(cmd.Name, env)
			if err != nil {
				return nil, err
			}
			lines = append(lines, "advancement revoke @s only "+name)

		case *ast.ExecuteCommand:
			name, err := ev.evalString(cmd.Name, env, "function name")
			if err != nil {
				return nil, err
			}
			if !strings.Contains(name, ":") {
				if _, ok := ev.store.Function(name); !ok {
					return nil, newError(ReferenceError, cmd.Name, "function %q is not defined", name)
				}
			}
			lines = append(lines, "function "+datapack.Qualify(ev.namespace, name))

		case *ast.RawCommand:
			raw, err := ev.rawCommandLines(cmd.Value, env)
			if err != nil {
				return nil, err
			}
			lines = append(lines, raw...)

		default:
			return nil, newError(SyntaxError, cmd, "unsupported command %T", cmd)
		}
	}
	return lines, nil
}

// advancementReference resolves a grant or revoke target. Local names must
// already be defined; qualified names are taken as given.
func (ev *Evaluator) advancementReference(expr ast.Expression, env *Environment) (string, error) {
	name, err := ev.evalString(expr, env, "advancement name")
	if err != nil {
		return "", err
	}
	if !strings.Contains(name, ":") {
		if _, ok := ev.store.Advancement(name); !ok {
			return "", newError(ReferenceError, expr, "advancement %q is not defined", name)
		}
	}
	return datapack.Qualify(ev.namespace, name), nil
}

func (ev *Evaluator) rawCommandLines(expr ast.Expression, env *Environment) ([]string, error) {
	v, err := ev.Eval(expr, env)
	if err != nil {
		return nil, err
	}
	switch v := v.(type) {
	case *String:
		return []string{v.Value}, nil
	case *List:
		lines := make([]string, 0, len(v.Elements))
		for _, elem := range v.Elements {
			s, ok := elem.(*String)
			if !ok {
				return nil, newError(TypeError, expr, "command list must contain only STRING, got %s", elem.Kind())
			}
			lines = append(lines, s.Value)
		}
		return lines, nil
	default:
		return nil, newError(TypeError, expr, "command must be STRING or LIST, got %s", v.Kind())
	}
}
