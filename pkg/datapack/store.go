package datapack

import (
	"errors"
	"fmt"
)

// ErrNameConflict is returned when an artifact name is already taken.
var ErrNameConflict = errors.New("name conflict")

// Store is the name-keyed registry of generated artifacts for one
// compilation run. Names are unique across artifact kinds. It is not safe
// for concurrent use.
type Store struct {
	artifacts map[string]Artifact
	order     []string
}

func NewStore() *Store {
	return &Store{artifacts: make(map[string]Artifact)}
}

// Insert adds a, failing with ErrNameConflict if its name is taken. A failed
// insert leaves the store unchanged.
func (s *Store) Insert(a Artifact) error {
	name := a.ArtifactName()
	if _, exists := s.artifacts[name]; exists {
		return fmt.Errorf("%w: %q is already defined", ErrNameConflict, name)
	}
	s.artifacts[name] = a
	s.order = append(s.order, name)
	return nil
}

func (s *Store) Len() int { return len(s.order) }

func (s *Store) Get(name string) (Artifact, bool) {
	a, ok := s.artifacts[name]
	return a, ok
}

func (s *Store) Function(name string) (*Function, bool) {
	f, ok := s.artifacts[name].(*Function)
	return f, ok
}

func (s *Store) Advancement(name string) (*Advancement, bool) {
	a, ok := s.artifacts[name].(*Advancement)
	return a, ok
}

// Artifacts returns every artifact in insertion order.
func (s *Store) Artifacts() []Artifact {
	out := make([]Artifact, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.artifacts[name])
	}
	return out
}

// Functions returns the functions carrying tag, in insertion order.
func (s *Store) Functions(tag FunctionTag) []*Function {
	var out []*Function
	for _, name := range s.order {
		if f, ok := s.artifacts[name].(*Function); ok && f.Tag == tag {
			out = append(out, f)
		}
	}
	return out
}
