package java

import (
	"slices"
	"sync"
)

// Inheritance is one extends or implements edge: the arguments supplied to
// the supertype at this edge and the supertype's full description.
type Inheritance struct {
	args  []*Type
	super *Class

	methodsOnce sync.Once
	methods     []*Method
	fieldsOnce  sync.Once
	fields      []*Field
}

// NewInheritance checks eagerly that one argument is supplied for each type
// parameter the supertype declares.
func NewInheritance(super *Class, args ...*Type) (*Inheritance, error) {
	if super == nil {
		return nil, constructionErrorf("inheritance edge without a supertype")
	}
	declared := super.typ.args
	if len(args) != len(declared) {
		return nil, constructionErrorf("cannot inherit %s with type arguments <%s>, the sizes do not match",
			super.typ, joinTypeNames(args))
	}
	for i, a := range args {
		if a == nil {
			return nil, constructionErrorf("type argument %d inheriting %s is nil", i, super.QualifiedName())
		}
	}
	return &Inheritance{args: slices.Clone(args), super: super}, nil
}

func (e *Inheritance) Args() []*Type { return slices.Clone(e.args) }
func (e *Inheritance) Super() *Class { return e.super }

// SupertypeReference is the supertype as written at this edge, e.g.
// Keyed<A> for an edge supplying A to Keyed<K>.
func (e *Inheritance) SupertypeReference() *Type {
	t := e.super.typ
	if len(t.args) == 0 {
		return t
	}
	return &Type{pkg: t.pkg, outer: t.outer, name: t.name, args: e.args}
}

// RenameMap zips the supertype's declared parameter names against the names
// of the arguments supplied at this edge.
func (e *Inheritance) RenameMap() map[string]string {
	names := make(map[string]string, len(e.args))
	for i, declared := range e.super.typ.args {
		names[declared.name] = e.args[i].name
	}
	return names
}

// Bindings is RenameMap keeping the full argument types, so a concrete
// argument replaces the supertype's parameter rather than renaming it.
func (e *Inheritance) Bindings() map[string]*Type {
	bindings := make(map[string]*Type, len(e.args))
	for i, declared := range e.super.typ.args {
		bindings[declared.name] = e.args[i]
	}
	return bindings
}

// AllMethods is the supertype's flattened method surface expressed in terms
// of this edge's arguments.
func (e *Inheritance) AllMethods() []*Method {
	e.methodsOnce.Do(func() {
		bindings := e.Bindings()
		inherited := e.super.AllMethods()
		e.methods = make([]*Method, len(inherited))
		for i, m := range inherited {
			e.methods[i] = m.Substitute(bindings)
		}
	})
	return slices.Clone(e.methods)
}

// AllFields is the supertype's flattened field surface expressed in terms
// of this edge's arguments.
func (e *Inheritance) AllFields() []*Field {
	e.fieldsOnce.Do(func() {
		bindings := e.Bindings()
		inherited := e.super.AllFields()
		e.fields = make([]*Field, len(inherited))
		for i, f := range inherited {
			e.fields[i] = f.Substitute(bindings)
		}
	})
	return slices.Clone(e.fields)
}

// Types is the supertype reference plus the supplied arguments.
func (e *Inheritance) Types() TypeSet {
	return e.SupertypeReference().Closure()
}
