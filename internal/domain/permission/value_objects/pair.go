package value_objects

// Pair is one protectable operation: an action on a resource.
type Pair struct {
	Resource Resource
	Action   Action
}

// NewPair validates both halves against the shared vocabularies.
func NewPair(resource, action string) (Pair, error) {
	r, err := NewResource(resource)
	if err != nil {
		return Pair{}, err
	}
	a, err := NewAction(action)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Resource: r, Action: a}, nil
}

// ParsePair builds a pair from a "resource:action" code.
func ParsePair(code string) (Pair, error) {
	resource, action, err := DecodeCode(code)
	if err != nil {
		return Pair{}, err
	}
	return NewPair(resource, action)
}

// MustPair is for static catalogs only.
func MustPair(resource Resource, action Action) Pair {
	if !resource.IsValid() || !action.IsValid() {
		panic("invalid permission pair " + EncodeCode(string(resource), string(action)))
	}
	return Pair{Resource: resource, Action: action}
}

func (p Pair) Code() string {
	return EncodeCode(string(p.Resource), string(p.Action))
}

func (p Pair) String() string {
	return p.Code()
}

// CrossProduct returns every combination of the given resources and actions,
// resource-major.
func CrossProduct(resources []Resource, actions []Action) []Pair {
	pairs := make([]Pair, 0, len(resources)*len(actions))
	for _, r := range resources {
		for _, a := range actions {
			pairs = append(pairs, Pair{Resource: r, Action: a})
		}
	}
	return pairs
}

// Dedupe collapses repeated pairs keeping first-seen order.
func Dedupe(pairs []Pair) []Pair {
	seen := make(map[Pair]struct{}, len(pairs))
	out := make([]Pair, 0, len(pairs))
	for _, p := range pairs {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
