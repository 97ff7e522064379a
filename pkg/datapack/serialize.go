package datapack

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// EmptyTriggerCriterion is the criterion written for an advancement without
// triggers; it can never be completed.
const EmptyTriggerCriterion = "minecraft:impossible"

type advancementDocument struct {
	Display  *displayDocument `json:"display,omitempty"`
	Parent   *string          `json:"parent,omitempty"`
	Criteria criteriaDocument `json:"criteria"`
	Rewards  *rewardsDocument `json:"rewards,omitempty"`
}

type displayDocument struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Icon        *iconDocument `json:"icon,omitempty"`
}

type iconDocument struct {
	Item string `json:"item"`
	NBT  string `json:"nbt"`
}

type rewardsDocument struct {
	Function string `json:"function"`
}

type criterionDocument struct {
	Trigger    string         `json:"trigger"`
	Conditions map[string]any `json:"conditions,omitempty"`
}

type itemPredicate struct {
	Items []string `json:"items,omitempty"`
	Tag   string   `json:"tag,omitempty"`
}

type namedCriterion struct {
	key       string
	criterion criterionDocument
}

// criteriaDocument keeps criteria in trigger order when marshalled.
type criteriaDocument []namedCriterion

func (c criteriaDocument) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshal(entry.key)
		if err != nil {
			return nil, err
		}
		value, err := marshal(entry.criterion)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (t *ConsumeItem) criterion() criterionDocument {
	doc := criterionDocument{Trigger: "minecraft:consume_item"}
	if t.Item != nil {
		doc.Conditions = map[string]any{"item": t.Item.predicate()}
	}
	return doc
}

func (t *InventoryChanged) criterion() criterionDocument {
	doc := criterionDocument{Trigger: "minecraft:inventory_changed"}
	if t.Item != nil {
		doc.Conditions = map[string]any{"items": []itemPredicate{t.Item.predicate()}}
	}
	return doc
}

func (t *RawTrigger) criterion() criterionDocument {
	return criterionDocument{Trigger: t.Name}
}

func (m *ItemMatcher) predicate() itemPredicate { return itemPredicate{Items: []string{m.ID}} }
func (m *TagMatcher) predicate() itemPredicate  { return itemPredicate{Tag: m.ID} }

// SerializeTrigger renders a single trigger as its criterion document.
func SerializeTrigger(t Trigger) ([]byte, error) {
	return marshalIndent(t.criterion())
}

// Serialize renders the advancement definition. Local reward function names
// are qualified with namespace.
func (a *Advancement) Serialize(namespace string) ([]byte, error) {
	return marshalIndent(a.document(namespace))
}

func (a *Advancement) document(namespace string) advancementDocument {
	var doc advancementDocument

	if a.Title != nil && a.Description != nil {
		doc.Display = &displayDocument{Title: *a.Title, Description: *a.Description}
		if a.IconItem != nil && a.IconNBT != nil {
			doc.Display.Icon = &iconDocument{Item: *a.IconItem, NBT: *a.IconNBT}
		}
	}

	doc.Parent = a.Parent

	if len(a.Triggers) == 0 {
		doc.Criteria = criteriaDocument{{key: "emptyTrigger", criterion: criterionDocument{Trigger: EmptyTriggerCriterion}}}
	} else {
		doc.Criteria = make(criteriaDocument, 0, len(a.Triggers))
		for i, t := range a.Triggers {
			doc.Criteria = append(doc.Criteria, namedCriterion{key: "trigger_" + strconv.Itoa(i), criterion: t.criterion()})
		}
	}

	if a.RewardFunction != nil {
		doc.Rewards = &rewardsDocument{Function: Qualify(namespace, *a.RewardFunction)}
	}

	return doc
}

// Qualify prefixes a local name with namespace; names that already carry a
// namespace are returned unchanged.
func Qualify(namespace, name string) string {
	if strings.Contains(name, ":") {
		return name
	}
	return namespace + ":" + name
}

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func marshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
