package eval

// binding is one link of a persistent environment chain. Links are never
// mutated once created.
type binding struct {
	name  string
	value Value
	next  *binding
}

// Environment maps identifiers to values. Extend shares structure with the
// receiver and leaves it untouched; ExtendInPlace moves the receiver itself
// onto a longer chain, which closures holding the same *Environment observe.
type Environment struct {
	head *binding
}

func NewEnvironment() *Environment {
	return &Environment{}
}

// Get looks name up, innermost binding first.
func (e *Environment) Get(name string) (Value, bool) {
	for b := e.head; b != nil; b = b.next {
		if b.name == name {
			return b.value, true
		}
	}
	return nil, false
}

// Fetch is Get with a ReferenceError for unbound names. The error has no
// expression attached; the evaluator supplies it.
func (e *Environment) Fetch(name string) (Value, error) {
	if v, ok := e.Get(name); ok {
		return v, nil
	}
	return nil, &Error{Kind: ReferenceError, Message: "identifier not found: " + name}
}

// Extend returns a new environment with name bound to value.
func (e *Environment) Extend(name string, value Value) *Environment {
	return &Environment{head: &binding{name: name, value: value, next: e.head}}
}

// ExtendInPlace binds name in the receiver and returns it.
func (e *Environment) ExtendInPlace(name string, value Value) *Environment {
	e.head = &binding{name: name, value: value, next: e.head}
	return e
}

// Names lists visible bindings, innermost first, without shadowed duplicates.
func (e *Environment) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for b := e.head; b != nil; b = b.next {
		if !seen[b.name] {
			seen[b.name] = true
			names = append(names, b.name)
		}
	}
	return names
}
