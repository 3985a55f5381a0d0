package runtime

// Binding is one named entry on a lexical stack.
type Binding struct {
	Name  string
	Value Value
}

// Stack provides lexical scoping for a single call frame. Bindings are pushed
// by let and by frame construction; lookups scan from the innermost binding
// outward so later bindings shadow earlier ones.
type Stack struct {
	bindings []Binding
}

// NewStack creates an empty stack.
func NewStack() *Stack {
	return &Stack{}
}

// NewFrame creates the stack for a call: the parameters bound to the
// arguments in order and nothing else. Extra names or values are ignored.
func NewFrame(params []string, args []Value) *Stack {
	n := len(params)
	if len(args) < n {
		n = len(args)
	}
	s := &Stack{bindings: make([]Binding, 0, n)}
	for idx := 0; idx < n; idx++ {
		s.bindings = append(s.bindings, Binding{Name: params[idx], Value: args[idx]})
	}
	return s
}

// Push adds a binding and returns the function that removes it. Callers defer
// the release so the binding is gone on every exit path.
func (s *Stack) Push(name string, value Value) (release func()) {
	s.bindings = append(s.bindings, Binding{Name: name, Value: value})
	depth := len(s.bindings)
	return func() {
		s.bindings = s.bindings[:depth-1]
	}
}

// Lookup retrieves the innermost binding for name.
func (s *Stack) Lookup(name string) (Value, bool) {
	for idx := len(s.bindings) - 1; idx >= 0; idx-- {
		if s.bindings[idx].Name == name {
			return s.bindings[idx].Value, true
		}
	}
	return nil, false
}

// Len reports the number of live bindings.
func (s *Stack) Len() int {
	return len(s.bindings)
}
