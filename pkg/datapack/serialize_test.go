package datapack

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func TestAdvancementSerialize(t *testing.T) {
	tests := []struct {
		name     string
		adv      *Advancement
		expected string
	}{
		{
			name:     "bare",
			adv:      &Advancement{Name: "a"},
			expected: `{"criteria": {"emptyTrigger": {"trigger": "minecraft:impossible"}}}`,
		},
		{
			name:     "display needs title and description",
			adv:      &Advancement{Name: "a", Title: str("T"), IconItem: str("minecraft:stone"), IconNBT: str("{}")},
			expected: `{"criteria": {"emptyTrigger": {"trigger": "minecraft:impossible"}}}`,
		},
		{
			name: "display without icon",
			adv:  &Advancement{Name: "a", Title: str("T"), Description: str("D"), IconItem: str("minecraft:stone")},
			expected: `{
				"display": {"title": "T", "description": "D"},
				"criteria": {"emptyTrigger": {"trigger": "minecraft:impossible"}}
			}`,
		},
		{
			name: "full",
			adv: &Advancement{
				Name:           "a",
				Title:          str("T"),
				Description:    str("D"),
				IconItem:       str("minecraft:stone"),
				IconNBT:        str("{CustomModelData:1}"),
				Parent:         str("demo:root"),
				RewardFunction: str(".function0"),
				Triggers: []Trigger{
					&ConsumeItem{Item: &ItemMatcher{ID: "minecraft:apple"}},
					&InventoryChanged{Item: &TagMatcher{ID: "minecraft:logs"}},
					&RawTrigger{Name: "minecraft:slept_in_bed"},
				},
			},
			expected: `{
				"display": {
					"title": "T",
					"description": "D",
					"icon": {"item": "minecraft:stone", "nbt": "{CustomModelData:1}"}
				},
				"parent": "demo:root",
				"criteria": {
					"trigger_0": {"trigger": "minecraft:consume_item", "conditions": {"item": {"items": ["minecraft:apple"]}}},
					"trigger_1": {"trigger": "minecraft:inventory_changed", "conditions": {"items": [{"tag": "minecraft:logs"}]}},
					"trigger_2": {"trigger": "minecraft:slept_in_bed"}
				},
				"rewards": {"function": "demo:.function0"}
			}`,
		},
		{
			name: "qualified reward is kept",
			adv:  &Advancement{Name: "a", RewardFunction: str("other:f"), Triggers: []Trigger{&ConsumeItem{}}},
			expected: `{
				"criteria": {"trigger_0": {"trigger": "minecraft:consume_item"}},
				"rewards": {"function": "other:f"}
			}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := tt.adv.Serialize("demo")
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(doc))
		})
	}
}

func TestAdvancementSerializeIsPure(t *testing.T) {
	adv := &Advancement{
		Name:        "a",
		Title:       str("<b>&"),
		Description: str("d"),
		Triggers:    []Trigger{&InventoryChanged{}, &ConsumeItem{}},
	}
	first, err := adv.Serialize("demo")
	require.NoError(t, err)
	second, err := adv.Serialize("demo")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	assert.Contains(t, string(first), `"<b>&"`, "HTML characters are not escaped")
}

func TestCriteriaKeepTriggerOrder(t *testing.T) {
	triggers := make([]Trigger, 0, 12)
	for i := 0; i < 12; i++ {
		triggers = append(triggers, &RawTrigger{Name: "minecraft:tick"})
	}
	doc, err := (&Advancement{Name: "a", Triggers: triggers}).Serialize("demo")
	require.NoError(t, err)

	text := string(doc)
	assert.Less(t, strings.Index(text, `"trigger_2"`), strings.Index(text, `"trigger_10"`))
}

func TestSerializeTrigger(t *testing.T) {
	doc, err := SerializeTrigger(&ConsumeItem{Item: &TagMatcher{ID: "minecraft:fishes"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"trigger": "minecraft:consume_item", "conditions": {"item": {"tag": "minecraft:fishes"}}}`, string(doc))
}

func TestFunctionSerialize(t *testing.T) {
	f := &Function{Name: "f", Commands: []string{"say a", "say b"}}
	assert.Equal(t, "say a\nsay b", f.Serialize())
	assert.Equal(t, "data/demo/functions/f.mcfunction", f.Path("demo"))
	assert.Equal(t, "", (&Function{Name: "empty"}).Serialize())
	assert.Equal(t, "data/demo/advancements/a.json", (&Advancement{Name: "a"}).Path("demo"))
}

func TestQualify(t *testing.T) {
	assert.Equal(t, "demo:f", Qualify("demo", "f"))
	assert.Equal(t, "minecraft:story/root", Qualify("demo", "minecraft:story/root"))
}
