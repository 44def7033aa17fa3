package types

import (
	"strconv"
	"sync"

	"github.com/wippyai/fvm-abi/errors"
)

// Schema holds the named type declarations of a contract interface. It maps
// the names the schema resolver produced to descriptor trees, which may
// still contain generic parameters.
type Schema struct {
	mu    sync.RWMutex
	decls map[string]*Descriptor
}

func NewSchema() *Schema {
	return &Schema{decls: make(map[string]*Descriptor)}
}

// Declare registers a named type. Redeclaring a name is a resolve error.
func (s *Schema) Declare(name string, d *Descriptor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.decls[name]; ok {
		return errors.New(errors.PhaseResolve, errors.KindInvalidData).
			Detail("type %q already declared", name).
			Build()
	}
	s.decls[name] = d
	return nil
}

// Lookup returns the declaration for name, or an unknown_type error.
func (s *Schema) Lookup(name string) (*Descriptor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.decls[name]; ok {
		return d, nil
	}
	return nil, errors.UnknownType(nil, name)
}

// Resolve substitutes generic parameters in d with their bindings,
// returning a concrete descriptor tree. Subtrees without generics are
// shared, not copied. A generic parameter with no binding yields an
// unresolved_generic error naming the parameter and its path.
func Resolve(d *Descriptor, bindings map[string]*Descriptor) (*Descriptor, error) {
	return resolve(d, bindings, nil)
}

// ResolveNamed looks name up in the schema and resolves it against
// bindings in one step.
func (s *Schema) ResolveNamed(name string, bindings map[string]*Descriptor) (*Descriptor, error) {
	d, err := s.Lookup(name)
	if err != nil {
		return nil, err
	}
	return Resolve(d, bindings)
}

func resolve(d *Descriptor, bindings map[string]*Descriptor, path []string) (*Descriptor, error) {
	if d.IsResolved() {
		return d, nil
	}

	switch d.Kind {
	case KindGeneric:
		if d.Elem != nil {
			return resolve(d.Elem, bindings, path)
		}
		if b, ok := bindings[d.Name]; ok {
			return resolve(b, bindings, path)
		}
		return nil, errors.UnresolvedGeneric(clonePath(path), d.Name)

	case KindArray:
		elem, err := resolve(d.Elem, bindings, append(path, "[]"))
		if err != nil {
			return nil, err
		}
		return NewArray(elem, d.Len), nil

	case KindVector:
		elem, err := resolve(d.Elem, bindings, append(path, "[]"))
		if err != nil {
			return nil, err
		}
		return NewVector(elem), nil

	case KindTuple, KindStruct:
		fields := make([]Field, len(d.Fields))
		for i, f := range d.Fields {
			ft, err := resolve(f.Type, bindings, append(path, fieldLabel(d, i)))
			if err != nil {
				return nil, err
			}
			fields[i] = Field{Name: f.Name, Type: ft}
		}
		return &Descriptor{Kind: d.Kind, Name: d.Name, Fields: fields}, nil

	case KindEnum:
		variants := make([]Variant, len(d.Variants))
		for i, v := range d.Variants {
			vt, err := resolve(v.Type, bindings, append(path, v.Name))
			if err != nil {
				return nil, err
			}
			variants[i] = Variant{Name: v.Name, Type: vt}
		}
		return NewEnum(d.Name, variants...), nil

	default:
		// Primitives are always resolved; IsResolved caught them above.
		return d, nil
	}
}

func fieldLabel(d *Descriptor, i int) string {
	if name := d.Fields[i].Name; name != "" {
		return name
	}
	return "[" + strconv.Itoa(i) + "]"
}

func clonePath(path []string) []string {
	if len(path) == 0 {
		return nil
	}
	out := make([]string, len(path))
	copy(out, path)
	return out
}
