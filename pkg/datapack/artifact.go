package datapack

import (
	"regexp"
	"strings"
)

// FunctionExtension is the file extension of generated function scripts.
const FunctionExtension = ".mcfunction"

var namePattern = regexp.MustCompile(`^[a-z0-9_-][a-z0-9_.-]*$`)

// ValidName reports whether name is a legal local artifact name.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// Artifact is a named unit of generated output held in a Store.
type Artifact interface {
	ArtifactName() string
	// Path is the archive-relative location of the artifact.
	Path(namespace string) string
}

type FunctionTag string

const (
	TagNone FunctionTag = ""
	TagTick FunctionTag = "tick"
	TagLoad FunctionTag = "load"
)

// Function is a generated function script.
type Function struct {
	Name     string
	Commands []string
	Tag      FunctionTag
}

func (f *Function) ArtifactName() string { return f.Name }

func (f *Function) Path(namespace string) string {
	return "data/" + namespace + "/functions/" + f.Name + FunctionExtension
}

// Serialize renders the function script: one command per line.
func (f *Function) Serialize() string {
	return strings.Join(f.Commands, "\n")
}

// Advancement is a generated advancement definition. Optional fields are nil
// when absent.
type Advancement struct {
	Name           string
	Title          *string
	IconItem       *string
	IconNBT        *string
	Description    *string
	Parent         *string
	RewardFunction *string
	Triggers       []Trigger
}

func (a *Advancement) ArtifactName() string { return a.Name }

func (a *Advancement) Path(namespace string) string {
	return "data/" + namespace + "/advancements/" + a.Name + ".json"
}

// Trigger is a criterion that completes an advancement.
type Trigger interface {
	criterion() criterionDocument
}

// ItemSpec selects the item a trigger matches.
type ItemSpec interface {
	predicate() itemPredicate
}

// ConsumeItem fires when a player finishes using an item. Item may be nil.
type ConsumeItem struct {
	Item ItemSpec
}

// InventoryChanged fires when a player's inventory changes. Item may be nil.
type InventoryChanged struct {
	Item ItemSpec
}

// RawTrigger is an arbitrary trigger identifier with no conditions.
type RawTrigger struct {
	Name string
}

type ItemMatcher struct {
	ID string
}

type TagMatcher struct {
	ID string
}
