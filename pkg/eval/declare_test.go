package eval

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/datapack"
)

func TestAdvancementDeclaration(t *testing.T) {
	ev := newTestEvaluator(t)
	v, err := testEval(t, ev, `
advancement "root" {
	title "Welcome"
	icon "minecraft:stone" "\{CustomModelData:1\}"
	description "Start here"
}
advancement "child" { title "Next", parent "test:root" }
`)
	require.NoError(t, err)
	assert.Equal(t, "child", toNative(v))

	root, ok := ev.Store().Advancement("root")
	require.True(t, ok)
	assert.Equal(t, "Welcome", *root.Title)
	assert.Equal(t, "minecraft:stone", *root.IconItem)
	assert.Equal(t, "{CustomModelData:1}", *root.IconNBT)
	assert.Equal(t, "Start here", *root.Description)
	assert.Nil(t, root.Parent)
	assert.Nil(t, root.RewardFunction)
	assert.Empty(t, root.Triggers)

	child, ok := ev.Store().Advancement("child")
	require.True(t, ok)
	assert.Nil(t, child.Description)
	assert.Equal(t, "test:root", *child.Parent)
}

func TestGeneratedNames(t *testing.T) {
	ev := newTestEvaluator(t)
	_, err := testEval(t, ev, `advancement {}; function {}; advancement {}; on (consume_item) { "say hi" }; on (load) {}`)
	require.NoError(t, err)

	var names []string
	for _, a := range ev.Store().Artifacts() {
		names = append(names, a.ArtifactName())
	}
	assert.Equal(t, []string{
		".advancement0",
		".function0",
		".advancement1",
		".function1",
		".advancement2",
		".function2",
	}, names)

	adv, ok := ev.Store().Advancement(".advancement2")
	require.True(t, ok)
	assert.Equal(t, ".function1", *adv.RewardFunction)
}

func TestDeclarationErrorsLeaveStoreUntouched(t *testing.T) {
	tests := []struct {
		input string
		kind  ErrorKind
	}{
		{`advancement "Bad" {}`, SyntaxError},
		{`advancement ".hidden" {}`, SyntaxError},
		{`advancement 5 {}`, TypeError},
		{`advancement "a" { title 5 }`, TypeError},
		{`advancement "a" { title "t", description missing }`, ReferenceError},
		{`function "has space" {}`, SyntaxError},
		{`function "f" { 5 }`, TypeError},
		{`function "f" { ["say hi", 1] }`, TypeError},
		{`function "f" { grant "nowhere" }`, ReferenceError},
		{`function "f" { revoke "nowhere" }`, ReferenceError},
		{`function "f" { execute "nowhere" }`, ReferenceError},
		{`function "f" { execute 1 }`, TypeError},
		{`on (load | tick) {}`, SyntaxError},
		{`on (consume_item | load) {}`, SyntaxError},
		{`on (load) { 1 / 0 }`, MathError},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ev := newTestEvaluator(t)
			_, err := testEval(t, ev, tt.input)
			requireEvalError(t, err, tt.kind)
			assert.Equal(t, 0, ev.Store().Len())
		})
	}
}

func TestNameConflict(t *testing.T) {
	ev := newTestEvaluator(t)
	_, err := testEval(t, ev, `function "f" { "say 1" }`)
	require.NoError(t, err)
	require.Equal(t, 1, ev.Store().Len())

	for _, input := range []string{`function "f" { "say 2" }`, `advancement "f" {}`} {
		_, err = testEval(t, ev, input)
		requireEvalError(t, err, NameConflict)
		assert.True(t, errors.Is(err, datapack.ErrNameConflict))
		assert.Equal(t, 1, ev.Store().Len())
	}

	fn, ok := ev.Store().Function("f")
	require.True(t, ok)
	assert.Equal(t, []string{"say 1"}, fn.Commands)
}

func TestCommands(t *testing.T) {
	ev := newTestEvaluator(t)
	_, err := testEval(t, ev, `
advancement "goal" {}
function "helper" { "say helping" }
function "main" {
	grant "goal"
	revoke "goal"
	execute "helper"
	grant "other:goal"
	execute "minecraft:thing"
	"say {1 + 1}"
	for (i in [1, 2]) "say {i}",
	[]
}
`)
	require.NoError(t, err)

	fn, ok := ev.Store().Function("main")
	require.True(t, ok)
	assert.Equal(t, []string{
		"advancement grant @s only test:goal",
		"advancement revoke @s only test:goal",
		"function test:helper",
		"advancement grant @s only other:goal",
		"function minecraft:thing",
		"say 2",
		"say 1",
		"say 2",
	}, fn.Commands)
	assert.Equal(t, datapack.TagNone, fn.Tag)
}

func TestGrantRequiresAdvancement(t *testing.T) {
	ev := newTestEvaluator(t)
	_, err := testEval(t, ev, `function "helper" {}; function "main" { grant "helper" }`)
	requireEvalError(t, err, ReferenceError)
	assert.Equal(t, 1, ev.Store().Len())
}

func TestOnLoad(t *testing.T) {
	ev := newTestEvaluator(t)
	v, err := testEval(t, ev, `on (load) { "say loaded" }`)
	require.NoError(t, err)
	assert.Equal(t, "", toNative(v))

	require.Equal(t, 1, ev.Store().Len())
	loads := ev.Store().Functions(datapack.TagLoad)
	require.Len(t, loads, 1)
	assert.Equal(t, ".function0", loads[0].Name)
	assert.Equal(t, []string{"say loaded"}, loads[0].Commands)
}

func TestOnTick(t *testing.T) {
	ev := newTestEvaluator(t)
	_, err := testEval(t, ev, `on (tick) { "say tick" }`)
	require.NoError(t, err)

	require.Equal(t, 1, ev.Store().Len())
	ticks := ev.Store().Functions(datapack.TagTick)
	require.Len(t, ticks, 1)
	assert.Equal(t, ".function0", ticks[0].Name)
}

func TestOnConsumeItem(t *testing.T) {
	ev := newTestEvaluator(t)
	v, err := testEval(t, ev, `on (consume_item { item "minecraft:apple" }) { "say yum" }`)
	require.NoError(t, err)
	require.Equal(t, 2, ev.Store().Len())

	fn, ok := ev.Store().Function(".function0")
	require.True(t, ok)
	assert.Equal(t, datapack.TagNone, fn.Tag)
	assert.Equal(t, []string{"say yum"}, fn.Commands)

	adv, ok := ev.Store().Advancement(".advancement0")
	require.True(t, ok)
	assert.Equal(t, adv.Name, toNative(v))
	require.NotNil(t, adv.RewardFunction)
	assert.Equal(t, fn.Name, *adv.RewardFunction)
	require.Len(t, adv.Triggers, 1)

	doc, err := datapack.SerializeTrigger(adv.Triggers[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"trigger": "minecraft:consume_item",
		"conditions": {"item": {"items": ["minecraft:apple"]}}
	}`, string(doc))
}

func TestOnCombinedTrigger(t *testing.T) {
	ev := newTestEvaluator(t)
	_, err := testEval(t, ev, `
on ("minecraft:slept_in_bed" | inventory_changed { tag "minecraft:logs" } | consume_item) {
	"say something happened"
}
`)
	require.NoError(t, err)

	adv, ok := ev.Store().Advancement(".advancement0")
	require.True(t, ok)
	require.Len(t, adv.Triggers, 3)
	assert.Equal(t, &datapack.RawTrigger{Name: "minecraft:slept_in_bed"}, adv.Triggers[0])
	assert.Equal(t, &datapack.InventoryChanged{Item: &datapack.TagMatcher{ID: "minecraft:logs"}}, adv.Triggers[1])
	assert.Equal(t, &datapack.ConsumeItem{}, adv.Triggers[2])

	doc, err := adv.Serialize("test")
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"criteria": {
			"trigger_0": {"trigger": "minecraft:slept_in_bed"},
			"trigger_1": {"trigger": "minecraft:inventory_changed", "conditions": {"items": [{"tag": "minecraft:logs"}]}},
			"trigger_2": {"trigger": "minecraft:consume_item"}
		},
		"rewards": {"function": "test:.function0"}
	}`, string(doc))
}

func TestOnBlockCanGrantItsOwnAdvancement(t *testing.T) {
	ev := newTestEvaluator(t)
	_, err := testEval(t, ev, `
let (adv = on (consume_item) { "say once" })
	function "reset" { revoke adv }
`)
	require.NoError(t, err)

	fn, ok := ev.Store().Function("reset")
	require.True(t, ok)
	assert.Equal(t, []string{"advancement revoke @s only test:.advancement0"}, fn.Commands)
}
