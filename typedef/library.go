package typedef

import (
	"sync"

	"github.com/NethermindEth/juno/core/felt"

	"github.com/cartridge-gg/introspect/serde"
)

// Library maps Ref ids to definitions. Writes are expected during setup;
// reads may happen concurrently afterwards.
type Library struct {
	mu   sync.RWMutex
	defs map[felt.Felt]TypeDef
}

func NewLibrary() *Library {
	return &Library{defs: make(map[felt.Felt]TypeDef)}
}

// Add stores def under id, replacing any previous definition.
func (l *Library) Add(id *felt.Felt, def TypeDef) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.defs[*id] = def
}

// Get returns the definition stored under id.
func (l *Library) Get(id *felt.Felt) (TypeDef, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	def, ok := l.defs[*id]
	return def, ok
}

func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.defs)
}

// Expand returns a new tree with every Ref replaced by its definition,
// recursively. Unknown ids and cycles are InvariantViolation errors.
func (l *Library) Expand(t TypeDef) (TypeDef, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.expand(t, make(map[felt.Felt]struct{}))
}

func (l *Library) expand(t TypeDef, visiting map[felt.Felt]struct{}) (TypeDef, error) {
	var err error
	switch x := t.(type) {
	case Ref:
		if _, ok := visiting[x.ID]; ok {
			return nil, serde.InvariantViolation("reference cycle through %s", x.ID.String())
		}
		def, ok := l.defs[x.ID]
		if !ok {
			return nil, serde.InvariantViolation("unknown reference %s", x.ID.String())
		}
		visiting[x.ID] = struct{}{}
		out, err := l.expand(def, visiting)
		delete(visiting, x.ID)
		return out, err
	case Tuple:
		elems := make([]TypeDef, len(x.Elements))
		for i, e := range x.Elements {
			if elems[i], err = l.expand(e, visiting); err != nil {
				return nil, err
			}
		}
		return Tuple{Elements: elems}, nil
	case Array:
		x.Elem, err = l.expand(x.Elem, visiting)
		return x, err
	case FixedArray:
		x.Elem, err = l.expand(x.Elem, visiting)
		return x, err
	case Felt252Dict:
		x.Elem, err = l.expand(x.Elem, visiting)
		return x, err
	case Option:
		x.Elem, err = l.expand(x.Elem, visiting)
		return x, err
	case Nullable:
		x.Elem, err = l.expand(x.Elem, visiting)
		return x, err
	case Result:
		if x.Ok, err = l.expand(x.Ok, visiting); err != nil {
			return nil, err
		}
		x.Err, err = l.expand(x.Err, visiting)
		return x, err
	case *Struct:
		s := &Struct{Name: x.Name, Attributes: x.Attributes, Members: make([]MemberDef, len(x.Members))}
		for i, m := range x.Members {
			if m.TypeDef, err = l.expand(m.TypeDef, visiting); err != nil {
				return nil, err
			}
			s.Members[i] = m
		}
		return s, nil
	case *Enum:
		e := &Enum{
			Name:       x.Name,
			Attributes: x.Attributes,
			Variants:   make(map[felt.Felt]VariantDef, len(x.Variants)),
			Order:      append([]felt.Felt(nil), x.Order...),
		}
		for sel, v := range x.Variants {
			if v.TypeDef, err = l.expand(v.TypeDef, visiting); err != nil {
				return nil, err
			}
			e.Variants[sel] = v
		}
		return e, nil
	}
	return t, nil
}

// ExpandInPlace rewrites t so that no Ref remains. Struct and Enum nodes
// are updated in place; value nodes along the path are rebuilt.
func (l *Library) ExpandInPlace(t *TypeDef) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.expandInPlace(t, make(map[felt.Felt]struct{}))
}

func (l *Library) expandInPlace(t *TypeDef, visiting map[felt.Felt]struct{}) error {
	switch x := (*t).(type) {
	case Ref:
		if _, ok := visiting[x.ID]; ok {
			return serde.InvariantViolation("reference cycle through %s", x.ID.String())
		}
		def, ok := l.defs[x.ID]
		if !ok {
			return serde.InvariantViolation("unknown reference %s", x.ID.String())
		}
		visiting[x.ID] = struct{}{}
		defer delete(visiting, x.ID)
		// the stored definition is shared, so it is copied rather than mutated
		expanded, err := l.expand(def, visiting)
		if err != nil {
			return err
		}
		*t = expanded
	case Tuple:
		for i := range x.Elements {
			if err := l.expandInPlace(&x.Elements[i], visiting); err != nil {
				return err
			}
		}
	case Array:
		if err := l.expandInPlace(&x.Elem, visiting); err != nil {
			return err
		}
		*t = x
	case FixedArray:
		if err := l.expandInPlace(&x.Elem, visiting); err != nil {
			return err
		}
		*t = x
	case Felt252Dict:
		if err := l.expandInPlace(&x.Elem, visiting); err != nil {
			return err
		}
		*t = x
	case Option:
		if err := l.expandInPlace(&x.Elem, visiting); err != nil {
			return err
		}
		*t = x
	case Nullable:
		if err := l.expandInPlace(&x.Elem, visiting); err != nil {
			return err
		}
		*t = x
	case Result:
		if err := l.expandInPlace(&x.Ok, visiting); err != nil {
			return err
		}
		if err := l.expandInPlace(&x.Err, visiting); err != nil {
			return err
		}
		*t = x
	case *Struct:
		for i := range x.Members {
			if err := l.expandInPlace(&x.Members[i].TypeDef, visiting); err != nil {
				return err
			}
		}
	case *Enum:
		for sel, v := range x.Variants {
			if err := l.expandInPlace(&v.TypeDef, visiting); err != nil {
				return err
			}
			x.Variants[sel] = v
		}
	}
	return nil
}
