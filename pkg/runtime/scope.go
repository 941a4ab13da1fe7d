package runtime

// EntryKind tags how a scope entry was introduced.
type EntryKind int

const (
	// NormalVar is a mutable variable introduced by let or assignment.
	NormalVar EntryKind = iota
	// Constant is an immutable binding introduced by const.
	Constant
	// ModuleEntry is an imported module bound under its alias.
	ModuleEntry
)

func (k EntryKind) String() string {
	switch k {
	case NormalVar:
		return "normal"
	case Constant:
		return "constant"
	case ModuleEntry:
		return "module"
	}
	return "unknown"
}

// ScopeEntry is one binding in an evaluation scope.
type ScopeEntry struct {
	Name  string
	Kind  EntryKind
	Value Dynamic
}

// Scope is an ordered list of bindings. Later entries shadow earlier
// ones with the same name; lookups scan from the end. Entry order is
// preserved so a finished scope can be harvested into a module.
type Scope struct {
	entries []ScopeEntry
}

// NewScope returns an empty scope.
func NewScope() *Scope {
	return &Scope{}
}

// Push appends a normal variable binding.
func (s *Scope) Push(name string, v any) {
	s.entries = append(s.entries, ScopeEntry{Name: name, Kind: NormalVar, Value: NewDynamic(v)})
}

// PushConstant appends a constant binding.
func (s *Scope) PushConstant(name string, v any) {
	s.entries = append(s.entries, ScopeEntry{Name: name, Kind: Constant, Value: NewDynamic(v)})
}

// PushModule appends an imported module under its alias.
func (s *Scope) PushModule(name string, m *Module) {
	s.entries = append(s.entries, ScopeEntry{Name: name, Kind: ModuleEntry, Value: NewModuleValue(m)})
}

// Get returns a clone of the newest value bound to name.
func (s *Scope) Get(name string) (Dynamic, bool) {
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].Name == name {
			return s.entries[i].Value.Clone(), true
		}
	}
	return Unit(), false
}

// GetRef returns a mutable reference to the newest entry bound to
// name, along with its kind.
func (s *Scope) GetRef(name string) (*Dynamic, EntryKind, bool) {
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].Name == name {
			return &s.entries[i].Value, s.entries[i].Kind, true
		}
	}
	return nil, NormalVar, false
}

// Has reports whether name is bound.
func (s *Scope) Has(name string) bool {
	_, _, ok := s.GetRef(name)
	return ok
}

// Len returns the number of entries, shadowed ones included.
func (s *Scope) Len() int {
	return len(s.entries)
}

// Rewind truncates the scope back to n entries, dropping newer ones.
// Used to leave a block.
func (s *Scope) Rewind(n int) {
	if n < len(s.entries) {
		s.entries = s.entries[:n]
	}
}

// Entries returns the bindings oldest-first. The slice is a view into
// the scope and must not be retained across mutations.
func (s *Scope) Entries() []ScopeEntry {
	return s.entries
}
